package services

import (
	"context"
	"time"

	"locationsguard/availability"
	"locationsguard/constants"
	"locationsguard/dto"
	"locationsguard/errors"
	"locationsguard/models"
	"locationsguard/services/logger"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const upcomingLimit = 5

type DashboardService struct {
	db           *gorm.DB
	rdb          *redis.Client
	reservations *ReservationService
	checker      *availability.Checker
	cacheTTL     time.Duration
	backoff      time.Duration
	logger       logger.Logger
	now          func() time.Time
}

type DashboardServiceOptions struct {
	DB           *gorm.DB
	Redis        *redis.Client
	Reservations *ReservationService
	Checker      *availability.Checker
	CacheTTL     time.Duration
	FetchBackoff time.Duration
	Logger       logger.Logger
}

func NewDashboardService(opts DashboardServiceOptions) *DashboardService {
	if opts.Logger == nil {
		opts.Logger = logger.NopLogger{}
	}
	if opts.Checker == nil {
		opts.Checker = availability.NewChecker(opts.Logger)
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Minute
	}
	return &DashboardService{
		db:           opts.DB,
		rdb:          opts.Redis,
		reservations: opts.Reservations,
		checker:      opts.Checker,
		cacheTTL:     opts.CacheTTL,
		backoff:      opts.FetchBackoff,
		logger:       opts.Logger,
		now:          time.Now,
	}
}

type statusCount struct {
	Status constants.ReservationStatus
	Count  int64
}

// Summary aggregates fleet, client and reservation figures. The result is
// cached until the next write.
func (s *DashboardService) Summary(ctx context.Context) (*dto.DashboardSummary, error) {
	var summary dto.DashboardSummary
	found, err := GetFromRedis(ctx, s.rdb, constants.CacheKeyDashboard, &summary)
	if err != nil {
		s.logger.Warn("reading dashboard from cache: %v", err)
	}
	if found {
		return &summary, nil
	}

	db := s.db.WithContext(ctx)
	if err := db.Model(&models.Automobile{}).Count(&summary.TotalVehicles).Error; err != nil {
		return nil, dbError(err)
	}
	if err := db.Model(&models.Automobile{}).Where("available = ?", true).Count(&summary.AvailableVehicles).Error; err != nil {
		return nil, dbError(err)
	}
	if err := db.Model(&models.Client{}).Count(&summary.TotalClients).Error; err != nil {
		return nil, dbError(err)
	}

	var counts []statusCount
	if err := db.Model(&models.Reservation{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, dbError(err)
	}
	summary.ReservationsByStatus = make(map[constants.ReservationStatus]int64, 4)
	for _, st := range []constants.ReservationStatus{
		constants.ReservationStatusPending,
		constants.ReservationStatusConfirmed,
		constants.ReservationStatusCompleted,
		constants.ReservationStatusCancelled,
	} {
		summary.ReservationsByStatus[st] = 0
	}
	for _, c := range counts {
		summary.ReservationsByStatus[c.Status] = c.Count
	}

	if err := db.Model(&models.Reservation{}).
		Select("COALESCE(SUM(total_price), 0)").
		Where("paid = ? AND status <> ?", true, constants.ReservationStatusCancelled).
		Scan(&summary.PaidRevenue).Error; err != nil {
		return nil, dbError(err)
	}
	if err := db.Model(&models.Reservation{}).
		Select("COALESCE(SUM(total_price), 0)").
		Where("paid = ? AND status IN ?", false,
			[]constants.ReservationStatus{constants.ReservationStatusConfirmed, constants.ReservationStatusCompleted}).
		Scan(&summary.OutstandingRevenue).Error; err != nil {
		return nil, dbError(err)
	}

	var upcoming []models.Reservation
	if err := db.Preload("Automobile").Preload("Client").
		Where("start_date >= ? AND status IN ?", availability.CalendarDate(s.now()),
			[]constants.ReservationStatus{constants.ReservationStatusPending, constants.ReservationStatusConfirmed}).
		Order("start_date ASC, id ASC").
		Limit(upcomingLimit).
		Find(&upcoming).Error; err != nil {
		return nil, dbError(err)
	}
	summary.Upcoming = dto.NewReservationResponses(upcoming)

	if err := SetToRedis(ctx, s.rdb, constants.CacheKeyDashboard, summary, s.cacheTTL); err != nil {
		s.logger.Warn("writing dashboard to cache: %v", err)
	}
	return &summary, nil
}

// VehicleCalendar lists every day of month ("2006-01") with its disabled flag
// and the reservation occupying it. selStart/selEnd, when given, are the range
// being edited and stay selectable.
func (s *DashboardService) VehicleCalendar(ctx context.Context, vehicleID uint, month, selStart, selEnd string) (*dto.CalendarResponse, error) {
	first, err := time.Parse(constants.MonthLayout, month)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeInvalidFormat, "Month must look like 2006-01", err)
	}
	last := first.AddDate(0, 1, -1)

	var selection *availability.Selection
	if selStart != "" {
		start, err := availability.ParseDate(selStart)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrCodeInvalidFormat, "Invalid selection start", err)
		}
		selection = &availability.Selection{Start: start}
		if selEnd != "" {
			end, err := availability.ParseDate(selEnd)
			if err != nil {
				return nil, errors.NewAppError(errors.ErrCodeInvalidFormat, "Invalid selection end", err)
			}
			selection.End = end
		}
	}

	var vehicleCount int64
	if err := s.db.WithContext(ctx).Model(&models.Automobile{}).Where("id = ?", vehicleID).Count(&vehicleCount).Error; err != nil {
		return nil, dbError(err)
	}
	if vehicleCount == 0 {
		return nil, vehicleNotFound()
	}

	snap := s.reservations.Snapshot(ctx, vehicleID, s.backoff)
	disabled, err := s.checker.SnapshotDisabledDates(snap, first, last, selection)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeSnapshotNotReady, "Reservations could not be loaded", err)
	}
	disabledSet := make(map[time.Time]bool, len(disabled))
	for _, d := range disabled {
		disabledSet[d] = true
	}

	occupants, _, err := s.reservations.List(ctx, ReservationQuery{AutomobileID: vehicleID, From: &first, To: &last})
	if err != nil {
		return nil, err
	}

	calendar := &dto.CalendarResponse{VehicleID: vehicleID, Month: first.Format(constants.MonthLayout)}
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		day := dto.CalendarDay{Date: availability.FormatDate(d), Disabled: disabledSet[d]}
		if r := occupant(occupants, d); r != nil {
			day.ReservationID = r.ID
			day.Status = r.Status
			if r.Client != nil {
				day.ClientName = r.Client.FullName()
			}
		}
		calendar.Days = append(calendar.Days, day)
	}
	return calendar, nil
}

// occupant prefers a blocking reservation over a pending one. Cancelled
// reservations never occupy a day.
func occupant(list []models.Reservation, d time.Time) *models.Reservation {
	var pending *models.Reservation
	for i := range list {
		r := &list[i]
		iv, err := availability.NewDateInterval(r.Period())
		if err != nil || !iv.Contains(d) {
			continue
		}
		if r.Status.Blocking() {
			return r
		}
		if r.Status == constants.ReservationStatusPending && pending == nil {
			pending = r
		}
	}
	return pending
}
