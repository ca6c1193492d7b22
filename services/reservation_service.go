package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"locationsguard/availability"
	"locationsguard/commands"
	"locationsguard/constants"
	"locationsguard/errors"
	"locationsguard/models"
	"locationsguard/services/logger"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ReservationService is the reservation store: queries, writes and the cached
// per-vehicle snapshots consumed by the availability checker.
type ReservationService struct {
	db       *gorm.DB
	rdb      *redis.Client
	cacheTTL time.Duration
	logger   logger.Logger
}

type ReservationServiceOptions struct {
	DB       *gorm.DB
	Redis    *redis.Client
	CacheTTL time.Duration
	Logger   logger.Logger
}

func NewReservationService(opts ReservationServiceOptions) *ReservationService {
	if opts.Logger == nil {
		opts.Logger = logger.NopLogger{}
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 10 * time.Minute
	}
	return &ReservationService{
		db:       opts.DB,
		rdb:      opts.Redis,
		cacheTTL: opts.CacheTTL,
		logger:   opts.Logger,
	}
}

// ReservationQuery narrows List. Zero values mean "any".
type ReservationQuery struct {
	AutomobileID uint
	ClientID     uint
	CategoryID   uint
	Status       constants.ReservationStatus
	// From/To keep reservations overlapping the closed window [From, To].
	From  *time.Time
	To    *time.Time
	Page  int
	Limit int
}

func dbError(err error) error {
	return errors.NewAppError(errors.ErrCodeDBError, "Database error", err)
}

func (s *ReservationService) scoped(ctx context.Context, q ReservationQuery) *gorm.DB {
	tx := s.db.WithContext(ctx).Model(&models.Reservation{})
	if q.AutomobileID != 0 {
		tx = tx.Where("reservations.automobile_id = ?", q.AutomobileID)
	}
	if q.ClientID != 0 {
		tx = tx.Where("reservations.client_id = ?", q.ClientID)
	}
	if q.CategoryID != 0 {
		tx = tx.Where("reservations.automobile_id IN (?)",
			s.db.Model(&models.Automobile{}).Select("id").Where("category_id = ?", q.CategoryID))
	}
	if q.Status != "" {
		tx = tx.Where("reservations.status = ?", q.Status)
	}
	if q.From != nil {
		tx = tx.Where("reservations.end_date >= ?", availability.CalendarDate(*q.From))
	}
	if q.To != nil {
		tx = tx.Where("reservations.start_date <= ?", availability.CalendarDate(*q.To))
	}
	return tx
}

// List returns one page of reservations matching q and the total count.
func (s *ReservationService) List(ctx context.Context, q ReservationQuery) ([]models.Reservation, int64, error) {
	var total int64
	if err := s.scoped(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, dbError(err)
	}

	tx := s.scoped(ctx, q).
		Preload("Automobile").
		Preload("Client").
		Order("reservations.start_date DESC, reservations.id DESC")
	if q.Limit > 0 {
		tx = tx.Offset(q.Page * q.Limit).Limit(q.Limit)
	}

	var reservations []models.Reservation
	if err := tx.Find(&reservations).Error; err != nil {
		return nil, 0, dbError(err)
	}
	return reservations, total, nil
}

// ListByVehicle returns every reservation of a vehicle, oldest first.
func (s *ReservationService) ListByVehicle(ctx context.Context, vehicleID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	if err := s.db.WithContext(ctx).
		Where("automobile_id = ?", vehicleID).
		Order("start_date ASC").
		Find(&reservations).Error; err != nil {
		return nil, dbError(err)
	}
	return reservations, nil
}

// FetchReservations implements availability.Fetcher, reading through the cache.
func (s *ReservationService) FetchReservations(ctx context.Context, vehicleID uint) ([]availability.Record, error) {
	key := fmt.Sprintf(constants.CacheKeyVehicleReservations, vehicleID)

	var records []availability.Record
	found, err := GetFromRedis(ctx, s.rdb, key, &records)
	if err != nil {
		s.logger.Warn("reading %s from cache: %v", key, err)
	}
	if found {
		return records, nil
	}

	reservations, err := s.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	records = models.Records(reservations, 0)

	if err := SetToRedis(ctx, s.rdb, key, records, s.cacheTTL); err != nil {
		s.logger.Warn("writing %s to cache: %v", key, err)
	}
	return records, nil
}

// Snapshot loads the availability snapshot of a vehicle. Load failures produce a
// Failed snapshot, never an empty Loaded one.
func (s *ReservationService) Snapshot(ctx context.Context, vehicleID uint, backoff time.Duration) availability.Snapshot {
	records, err := availability.FetchWithRetry(ctx, s, vehicleID, backoff, s.logger)
	if err != nil {
		return availability.Failed(vehicleID, err)
	}
	return availability.Loaded(vehicleID, records)
}

func (s *ReservationService) GetByID(ctx context.Context, id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	err := s.db.WithContext(ctx).
		Preload("Automobile").
		Preload("Client").
		First(&reservation, id).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NewAppError(errors.ErrCodeDBNotFound, "Reservation not found", errors.ErrReservationNotFound)
	}
	if err != nil {
		return nil, dbError(err)
	}
	return &reservation, nil
}

func (s *ReservationService) Create(ctx context.Context, reservation *models.Reservation) error {
	if err := commands.NewCreateReservationCommand(reservation, s.db.WithContext(ctx)).Execute(); err != nil {
		return dbError(err)
	}
	s.invalidate(ctx, reservation.AutomobileID)
	return nil
}

func (s *ReservationService) Save(ctx context.Context, reservation *models.Reservation) error {
	if err := commands.NewUpdateReservationCommand(reservation, s.db.WithContext(ctx)).Execute(); err != nil {
		return dbError(err)
	}
	s.invalidate(ctx, reservation.AutomobileID)
	return nil
}

// SaveAll persists several reservations atomically.
func (s *ReservationService) SaveAll(ctx context.Context, reservations []models.Reservation) error {
	if len(reservations) == 0 {
		return nil
	}
	batch := commands.NewBatch(s.db.WithContext(ctx), func(tx *gorm.DB) []commands.ReservationCommand {
		cmds := make([]commands.ReservationCommand, 0, len(reservations))
		for i := range reservations {
			cmds = append(cmds, commands.NewUpdateReservationCommand(&reservations[i], tx))
		}
		return cmds
	})
	if err := batch.Execute(); err != nil {
		return dbError(err)
	}
	for i := range reservations {
		s.invalidate(ctx, reservations[i].AutomobileID)
	}
	return nil
}

func (s *ReservationService) Delete(ctx context.Context, reservation *models.Reservation) error {
	if err := commands.NewDeleteReservationCommand(reservation.ID, s.db.WithContext(ctx)).Execute(); err != nil {
		return dbError(err)
	}
	s.invalidate(ctx, reservation.AutomobileID)
	return nil
}

// ConfirmedEndingBefore returns confirmed reservations whose last day is before day.
func (s *ReservationService) ConfirmedEndingBefore(ctx context.Context, day time.Time) ([]models.Reservation, error) {
	var reservations []models.Reservation
	if err := s.db.WithContext(ctx).
		Where("status = ? AND end_date < ?", constants.ReservationStatusConfirmed, availability.CalendarDate(day)).
		Find(&reservations).Error; err != nil {
		return nil, dbError(err)
	}
	return reservations, nil
}

func (s *ReservationService) CountByClient(ctx context.Context, clientID uint) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Reservation{}).Where("client_id = ?", clientID).Count(&n).Error; err != nil {
		return 0, dbError(err)
	}
	return n, nil
}

func (s *ReservationService) CountByVehicle(ctx context.Context, vehicleID uint) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Reservation{}).Where("automobile_id = ?", vehicleID).Count(&n).Error; err != nil {
		return 0, dbError(err)
	}
	return n, nil
}

func (s *ReservationService) invalidate(ctx context.Context, vehicleID uint) {
	key := fmt.Sprintf(constants.CacheKeyVehicleReservations, vehicleID)
	if err := DeleteFromRedis(ctx, s.rdb, key, constants.CacheKeyDashboard); err != nil {
		s.logger.Warn("invalidating %s: %v", key, err)
	}
}
