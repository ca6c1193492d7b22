package services

import (
	"context"
	stderrors "errors"
	"sort"
	"strings"

	"locationsguard/constants"
	"locationsguard/dto"
	"locationsguard/errors"
	"locationsguard/models"
	"locationsguard/services/logger"
	"locationsguard/utils"
	"locationsguard/validator"

	"github.com/redis/go-redis/v9"
	"github.com/schollz/closestmatch"
	"gorm.io/gorm"
)

const minSearchScore = 0.5

// VehicleService is the vehicle catalog.
type VehicleService struct {
	db     *gorm.DB
	rdb    *redis.Client
	logger logger.Logger
}

type VehicleServiceOptions struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Logger logger.Logger
}

func NewVehicleService(opts VehicleServiceOptions) *VehicleService {
	if opts.Logger == nil {
		opts.Logger = logger.NopLogger{}
	}
	return &VehicleService{db: opts.DB, rdb: opts.Redis, logger: opts.Logger}
}

func vehicleNotFound() error {
	return errors.NewAppError(errors.ErrCodeDBNotFound, "Vehicle not found", errors.ErrVehicleNotFound)
}

func (s *VehicleService) List(ctx context.Context, f dto.VehicleFilter) ([]models.Automobile, int64, error) {
	f.PageQuery = f.PageQuery.Normalize()
	tx := s.db.WithContext(ctx).Model(&models.Automobile{})
	if f.CategoryID != 0 {
		tx = tx.Where("category_id = ?", f.CategoryID)
	}
	if f.Available != nil {
		tx = tx.Where("available = ?", *f.Available)
	}
	if f.Brand != "" {
		tx = tx.Where("LOWER(brand) = ?", strings.ToLower(f.Brand))
	}
	if f.FuelType != "" {
		tx = tx.Where("fuel_type = ?", f.FuelType)
	}
	if f.Transmission != "" {
		tx = tx.Where("transmission = ?", f.Transmission)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, dbError(err)
	}

	var vehicles []models.Automobile
	if err := tx.Preload("Category").
		Order("brand ASC, model ASC, id ASC").
		Offset(f.Page * f.Limit).
		Limit(f.Limit).
		Find(&vehicles).Error; err != nil {
		return nil, 0, dbError(err)
	}
	return vehicles, total, nil
}

func (s *VehicleService) GetByID(ctx context.Context, id uint) (*models.Automobile, error) {
	var vehicle models.Automobile
	err := s.db.WithContext(ctx).Preload("Category").First(&vehicle, id).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, vehicleNotFound()
	}
	if err != nil {
		return nil, dbError(err)
	}
	return &vehicle, nil
}

func (s *VehicleService) ensureCategory(ctx context.Context, categoryID uint) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", categoryID).Count(&n).Error; err != nil {
		return dbError(err)
	}
	if n == 0 {
		return errors.NewAppError(errors.ErrCodeValidation, "Category does not exist", errors.ErrCategoryNotFound)
	}
	return nil
}

func applyVehicleRequest(v *models.Automobile, req dto.VehicleRequest) {
	v.Brand = strings.TrimSpace(req.Brand)
	v.Model = strings.TrimSpace(req.Model)
	v.Year = req.Year
	v.DailyRate = req.DailyRate
	v.CategoryID = req.CategoryID
	v.FuelType = req.FuelType
	v.Transmission = req.Transmission
	v.Mileage = req.Mileage
	v.Features = req.Features
	v.Images = req.Images
	if req.Available != nil {
		v.Available = *req.Available
	}
}

func (s *VehicleService) Create(ctx context.Context, req dto.VehicleRequest) (*models.Automobile, error) {
	if err := s.ensureCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	vehicle := models.Automobile{Available: true}
	applyVehicleRequest(&vehicle, req)
	if err := validator.ValidateAutomobile(&vehicle); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Omit("Category").Create(&vehicle).Error; err != nil {
		return nil, dbError(err)
	}
	// gorm skips false booleans that carry a default tag on insert.
	if !vehicle.Available {
		if err := s.db.WithContext(ctx).Model(&vehicle).Update("available", false).Error; err != nil {
			return nil, dbError(err)
		}
	}
	s.logger.Info("vehicle %d (%s) created", vehicle.ID, vehicle.Name())
	return s.GetByID(ctx, vehicle.ID)
}

func (s *VehicleService) Update(ctx context.Context, id uint, req dto.VehicleRequest) (*models.Automobile, error) {
	vehicle, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	applyVehicleRequest(vehicle, req)
	if err := validator.ValidateAutomobile(vehicle); err != nil {
		return nil, err
	}
	vehicle.Category = nil
	if err := s.db.WithContext(ctx).Omit("Category").Save(vehicle).Error; err != nil {
		return nil, dbError(err)
	}
	s.invalidate(ctx)
	return s.GetByID(ctx, id)
}

// SetAvailability toggles the manual availability override.
func (s *VehicleService) SetAvailability(ctx context.Context, id uint, available bool) (*models.Automobile, error) {
	vehicle, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Automobile{}).Where("id = ?", id).Update("available", available).Error; err != nil {
		return nil, dbError(err)
	}
	vehicle.Available = available
	s.invalidate(ctx)
	s.logger.Info("vehicle %d availability set to %t", id, available)
	return vehicle, nil
}

// Delete refuses vehicles that still have reservations.
func (s *VehicleService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Reservation{}).Where("automobile_id = ?", id).Count(&n).Error; err != nil {
		return dbError(err)
	}
	if n > 0 {
		return errors.NewAppError(errors.ErrCodeInUse, "Vehicle has reservations", nil)
	}
	if err := s.db.WithContext(ctx).Delete(&models.Automobile{}, id).Error; err != nil {
		return dbError(err)
	}
	s.invalidate(ctx)
	return nil
}

// Search ranks vehicles by fuzzy similarity of query with "brand model category".
func (s *VehicleService) Search(ctx context.Context, query string, limit int) ([]dto.ScoredVehicle, error) {
	query = utils.NormalizeInput(query)
	if query == "" {
		return []dto.ScoredVehicle{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	var vehicles []models.Automobile
	if err := s.db.WithContext(ctx).Preload("Category").Find(&vehicles).Error; err != nil {
		return nil, dbError(err)
	}
	if len(vehicles) == 0 {
		return []dto.ScoredVehicle{}, nil
	}

	names := make([]string, len(vehicles))
	unique := make(map[string]bool)
	var keywords []string
	for i, v := range vehicles {
		label := v.Name()
		if v.Category != nil {
			label += " " + v.Category.Name
		}
		names[i] = utils.NormalizeInput(label)
		if !unique[names[i]] {
			unique[names[i]] = true
			keywords = append(keywords, names[i])
		}
	}

	matcher := closestmatch.New(keywords, []int{2, 3})
	close := make(map[string]bool)
	for _, name := range matcher.ClosestN(query, limit) {
		close[name] = true
	}

	results := make([]dto.ScoredVehicle, 0)
	for i, v := range vehicles {
		score := utils.BestWordSimilarity(query, names[i])
		if strings.Contains(names[i], query) {
			score = 1
		}
		if close[names[i]] {
			score += 0.25
		}
		if score < minSearchScore {
			continue
		}
		results = append(results, dto.ScoredVehicle{ID: v.ID, Name: v.Name(), Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (s *VehicleService) invalidate(ctx context.Context) {
	if err := DeleteFromRedis(ctx, s.rdb, constants.CacheKeyDashboard); err != nil {
		s.logger.Warn("invalidating dashboard cache: %v", err)
	}
}
