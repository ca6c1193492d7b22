package services

import (
	"context"
	stderrors "errors"
	"strings"

	"locationsguard/dto"
	"locationsguard/errors"
	"locationsguard/models"
	"locationsguard/services/logger"

	"gorm.io/gorm"
)

type CategoryService struct {
	db     *gorm.DB
	logger logger.Logger
}

type CategoryServiceOptions struct {
	DB     *gorm.DB
	Logger logger.Logger
}

func NewCategoryService(opts CategoryServiceOptions) *CategoryService {
	if opts.Logger == nil {
		opts.Logger = logger.NopLogger{}
	}
	return &CategoryService{db: opts.DB, logger: opts.Logger}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, dbError(err)
	}
	return categories, nil
}

func (s *CategoryService) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := s.db.WithContext(ctx).First(&category, id).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NewAppError(errors.ErrCodeDBNotFound, "Category not found", errors.ErrCategoryNotFound)
	}
	if err != nil {
		return nil, dbError(err)
	}
	return &category, nil
}

func (s *CategoryService) nameTaken(ctx context.Context, name string, exclude uint) (bool, error) {
	var n int64
	tx := s.db.WithContext(ctx).Model(&models.Category{}).Where("LOWER(name) = ?", strings.ToLower(name))
	if exclude != 0 {
		tx = tx.Where("id <> ?", exclude)
	}
	if err := tx.Count(&n).Error; err != nil {
		return false, dbError(err)
	}
	return n > 0, nil
}

func (s *CategoryService) Create(ctx context.Context, req dto.CategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	taken, err := s.nameTaken(ctx, name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errors.NewAppError(errors.ErrCodeDBDuplicate, "Category name already exists", nil)
	}

	category := models.Category{Name: name, Description: req.Description}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, dbError(err)
	}
	return &category, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, req dto.CategoryRequest) (*models.Category, error) {
	category, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	taken, err := s.nameTaken(ctx, name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errors.NewAppError(errors.ErrCodeDBDuplicate, "Category name already exists", nil)
	}

	category.Name = name
	category.Description = req.Description
	if err := s.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, dbError(err)
	}
	return category, nil
}

// Delete refuses categories that still hold vehicles.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Automobile{}).Where("category_id = ?", id).Count(&n).Error; err != nil {
		return dbError(err)
	}
	if n > 0 {
		return errors.NewAppError(errors.ErrCodeInUse, "Category still has vehicles", errors.ErrCategoryInUse)
	}
	if err := s.db.WithContext(ctx).Delete(&models.Category{}, id).Error; err != nil {
		return dbError(err)
	}
	s.logger.Info("category %d deleted", id)
	return nil
}
