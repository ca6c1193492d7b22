package services

import (
	"context"
	stderrors "errors"
	"strings"

	"locationsguard/dto"
	"locationsguard/errors"
	"locationsguard/models"
	"locationsguard/services/logger"
	"locationsguard/validator"

	"gorm.io/gorm"
)

type ClientService struct {
	db     *gorm.DB
	logger logger.Logger
}

type ClientServiceOptions struct {
	DB     *gorm.DB
	Logger logger.Logger
}

func NewClientService(opts ClientServiceOptions) *ClientService {
	if opts.Logger == nil {
		opts.Logger = logger.NopLogger{}
	}
	return &ClientService{db: opts.DB, logger: opts.Logger}
}

func (s *ClientService) List(ctx context.Context, f dto.ClientFilter) ([]models.Client, int64, error) {
	f.PageQuery = f.PageQuery.Normalize()
	tx := s.db.WithContext(ctx).Model(&models.Client{})
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		like := "%" + q + "%"
		tx = tx.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR phone_number LIKE ?",
			like, like, like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, dbError(err)
	}

	var clients []models.Client
	if err := tx.Order("last_name ASC, first_name ASC, id ASC").
		Offset(f.Page * f.Limit).
		Limit(f.Limit).
		Find(&clients).Error; err != nil {
		return nil, 0, dbError(err)
	}
	return clients, total, nil
}

func (s *ClientService) GetByID(ctx context.Context, id uint) (*models.Client, error) {
	var client models.Client
	err := s.db.WithContext(ctx).First(&client, id).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NewAppError(errors.ErrCodeDBNotFound, "Client not found", errors.ErrClientNotFound)
	}
	if err != nil {
		return nil, dbError(err)
	}
	return &client, nil
}

func (s *ClientService) emailTaken(ctx context.Context, email string, exclude uint) (bool, error) {
	if email == "" {
		return false, nil
	}
	var n int64
	tx := s.db.WithContext(ctx).Model(&models.Client{}).Where("LOWER(email) = ?", strings.ToLower(email))
	if exclude != 0 {
		tx = tx.Where("id <> ?", exclude)
	}
	if err := tx.Count(&n).Error; err != nil {
		return false, dbError(err)
	}
	return n > 0, nil
}

func applyClientRequest(c *models.Client, req dto.ClientRequest) {
	c.FirstName = strings.TrimSpace(req.FirstName)
	c.LastName = strings.TrimSpace(req.LastName)
	c.Email = strings.ToLower(strings.TrimSpace(req.Email))
	c.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	c.DriverLicense = strings.TrimSpace(req.DriverLicense)
	c.Address = req.Address
}

func (s *ClientService) Create(ctx context.Context, req dto.ClientRequest) (*models.Client, error) {
	var client models.Client
	applyClientRequest(&client, req)
	if err := validator.ValidateClient(&client); err != nil {
		return nil, err
	}

	taken, err := s.emailTaken(ctx, client.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errors.NewAppError(errors.ErrCodeDBDuplicate, "Email already in use", nil)
	}
	if err := s.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, dbError(err)
	}
	return &client, nil
}

func (s *ClientService) Update(ctx context.Context, id uint, req dto.ClientRequest) (*models.Client, error) {
	client, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyClientRequest(client, req)
	if err := validator.ValidateClient(client); err != nil {
		return nil, err
	}

	taken, err := s.emailTaken(ctx, client.Email, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errors.NewAppError(errors.ErrCodeDBDuplicate, "Email already in use", nil)
	}
	if err := s.db.WithContext(ctx).Save(client).Error; err != nil {
		return nil, dbError(err)
	}
	return client, nil
}

// Delete refuses clients that still have reservations.
func (s *ClientService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Reservation{}).Where("client_id = ?", id).Count(&n).Error; err != nil {
		return dbError(err)
	}
	if n > 0 {
		return errors.NewAppError(errors.ErrCodeInUse, "Client still has reservations", errors.ErrClientInUse)
	}
	if err := s.db.WithContext(ctx).Delete(&models.Client{}, id).Error; err != nil {
		return dbError(err)
	}
	return nil
}
