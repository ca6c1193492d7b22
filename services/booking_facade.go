package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"locationsguard/availability"
	"locationsguard/builders"
	"locationsguard/constants"
	"locationsguard/dto"
	"locationsguard/errors"
	"locationsguard/models"
	"locationsguard/services/logger"
	"locationsguard/services/notification"
	"locationsguard/validator"

	"github.com/redis/go-redis/v9"
)

const vehicleLockTTL = 10 * time.Second

// BookingFacade coordinates the catalog, the reservation store, the availability
// checker and notifications for every reservation write.
type BookingFacade struct {
	reservations *ReservationService
	vehicles     *VehicleService
	clients      *ClientService
	checker      *availability.Checker
	notifier     notification.Service
	rdb          *redis.Client
	backoff      time.Duration
	logger       logger.Logger
	locks        vehicleLocks
}

type BookingFacadeOptions struct {
	Reservations *ReservationService
	Vehicles     *VehicleService
	Clients      *ClientService
	Checker      *availability.Checker
	Notifier     notification.Service
	Redis        *redis.Client
	FetchBackoff time.Duration
	Logger       logger.Logger
}

func NewBookingFacade(opts BookingFacadeOptions) *BookingFacade {
	if opts.Logger == nil {
		opts.Logger = logger.NopLogger{}
	}
	if opts.Checker == nil {
		opts.Checker = availability.NewChecker(opts.Logger)
	}
	if opts.Notifier == nil {
		opts.Notifier = &notification.Recorder{}
	}
	return &BookingFacade{
		reservations: opts.Reservations,
		vehicles:     opts.Vehicles,
		clients:      opts.Clients,
		checker:      opts.Checker,
		notifier:     opts.Notifier,
		rdb:          opts.Redis,
		backoff:      opts.FetchBackoff,
		logger:       opts.Logger,
		locks:        vehicleLocks{held: make(map[uint]*sync.Mutex)},
	}
}

// vehicleLocks serializes writes per vehicle inside this process.
type vehicleLocks struct {
	mu   sync.Mutex
	held map[uint]*sync.Mutex
}

func (l *vehicleLocks) lock(vehicleID uint) func() {
	l.mu.Lock()
	m, ok := l.held[vehicleID]
	if !ok {
		m = &sync.Mutex{}
		l.held[vehicleID] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// lockVehicle takes the process lock and, when Redis is configured, the shared one.
func (f *BookingFacade) lockVehicle(ctx context.Context, vehicleID uint) (func(), error) {
	unlock := f.locks.lock(vehicleID)
	ok, release, err := AcquireLock(ctx, f.rdb, fmt.Sprintf("lock:vehicle:%d", vehicleID), vehicleLockTTL)
	if err != nil {
		unlock()
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Could not lock vehicle", err)
	}
	if !ok {
		unlock()
		return nil, errors.NewAppError(errors.ErrCodeReservationConflict, "Vehicle is being booked, try again", errors.ErrReservationConflict)
	}
	return func() {
		release()
		unlock()
	}, nil
}

// RentalPrice bills every started day, with a minimum of one day.
func RentalPrice(start, end time.Time, dailyRate float64) (float64, int, error) {
	days, err := availability.DaysBetween(availability.CalendarDate(start), availability.CalendarDate(end))
	if err != nil {
		return 0, 0, err
	}
	billed := days
	if billed < 1 {
		billed = 1
	}
	return float64(billed) * dailyRate, days, nil
}

func conflictError(d time.Time) error {
	return errors.NewAppError(errors.ErrCodeReservationConflict,
		fmt.Sprintf("Vehicle already reserved on %s", availability.FormatDate(d)),
		errors.ErrReservationConflict)
}

// ensureBookable checks [start, end] against the stored reservations of the
// vehicle, leaving out reservation exclude.
func (f *BookingFacade) ensureBookable(ctx context.Context, vehicleID uint, start, end time.Time, exclude uint) error {
	list, err := f.reservations.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return err
	}
	records := models.Records(list, exclude)
	if d, conflict := f.checker.FirstConflict(start, end, records); conflict {
		return conflictError(d)
	}
	return nil
}

func (f *BookingFacade) CreateReservation(ctx context.Context, req dto.CreateReservationRequest) (*models.Reservation, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	start, end, err := validator.ParsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	vehicle, err := f.vehicles.GetByID(ctx, req.AutomobileID)
	if err != nil {
		return nil, err
	}
	if !vehicle.Available {
		return nil, errors.NewAppError(errors.ErrCodeVehicleUnavailable, "Vehicle is not available for rent", errors.ErrVehicleUnavailable)
	}
	if _, err := f.clients.GetByID(ctx, req.ClientID); err != nil {
		return nil, err
	}

	price, _, err := RentalPrice(start, end, vehicle.DailyRate)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeValidation, "Invalid rental period", err)
	}

	status := req.Status
	if status == "" {
		status = constants.ReservationStatusPending
	}
	reservation := builders.NewReservationBuilder().
		WithVehicle(vehicle.ID).
		WithClient(req.ClientID).
		WithPeriod(start, end).
		WithStatus(status).
		WithPaid(req.Paid).
		WithNotes(req.Notes).
		WithTotalPrice(price).
		Build()
	if err := validator.ValidateReservation(reservation); err != nil {
		return nil, err
	}

	unlock, err := f.lockVehicle(ctx, vehicle.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := f.ensureBookable(ctx, vehicle.ID, start, end, 0); err != nil {
		return nil, err
	}
	if err := f.reservations.Create(ctx, reservation); err != nil {
		return nil, err
	}

	f.logger.Info("reservation %d created for vehicle %d (%s -> %s, %s)", reservation.ID, vehicle.ID,
		availability.FormatDate(start), availability.FormatDate(end), reservation.Status)
	f.notify(notification.EventReservationCreated, reservation)
	return f.reservations.GetByID(ctx, reservation.ID)
}

// UpdateReservation moves the period or edits the notes of an open reservation.
// The reservation's own stored period never conflicts with its new one.
func (f *BookingFacade) UpdateReservation(ctx context.Context, id uint, req dto.UpdateReservationRequest) (*models.Reservation, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	reservation, err := f.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation.Status != constants.ReservationStatusPending && reservation.Status != constants.ReservationStatusConfirmed {
		return nil, errors.NewAppError(errors.ErrCodeInvalidOperation, "Only pending or confirmed reservations can be changed", nil)
	}

	stored, storedEnd := reservation.Period()
	startStr := availability.FormatDate(stored)
	endStr := availability.FormatDate(storedEnd)
	if req.StartDate != nil {
		startStr = *req.StartDate
	}
	if req.EndDate != nil {
		endStr = *req.EndDate
	}
	start, end, err := validator.ParsePeriod(startStr, endStr)
	if err != nil {
		return nil, err
	}

	unlock, err := f.lockVehicle(ctx, reservation.AutomobileID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := f.ensureBookable(ctx, reservation.AutomobileID, start, end, reservation.ID); err != nil {
		return nil, err
	}

	if reservation.Automobile != nil {
		price, _, err := RentalPrice(start, end, reservation.Automobile.DailyRate)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrCodeValidation, "Invalid rental period", err)
		}
		reservation.TotalPrice = price
	}
	reservation.StartDate = start
	reservation.EndDate = end
	if req.Notes != nil {
		reservation.Notes = *req.Notes
	}
	if err := f.reservations.Save(ctx, reservation); err != nil {
		return nil, err
	}
	f.notify(notification.EventReservationUpdated, reservation)
	return f.reservations.GetByID(ctx, id)
}

// ChangeStatus applies a lifecycle transition. Confirming re-checks the period
// against every other blocking reservation of the vehicle.
func (f *BookingFacade) ChangeStatus(ctx context.Context, id uint, to constants.ReservationStatus) (*models.Reservation, error) {
	reservation, err := f.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock, err := f.lockVehicle(ctx, reservation.AutomobileID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if to == constants.ReservationStatusConfirmed && reservation.Status == constants.ReservationStatusPending {
		start, end := reservation.Period()
		if err := f.ensureBookable(ctx, reservation.AutomobileID, start, end, reservation.ID); err != nil {
			return nil, err
		}
	}

	from := reservation.Status
	if err := reservation.Transition(to); err != nil {
		if stderrors.Is(err, models.ErrInvalidTransition) {
			return nil, errors.NewAppError(errors.ErrCodeInvalidTransition,
				fmt.Sprintf("Cannot move reservation from %s to %s", from, to), err)
		}
		return nil, err
	}
	if err := f.reservations.Save(ctx, reservation); err != nil {
		return nil, err
	}

	f.logger.Info("reservation %d: %s -> %s", reservation.ID, from, reservation.Status)
	f.notify(statusEvent(reservation.Status), reservation)
	return reservation, nil
}

func (f *BookingFacade) ConfirmReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	return f.ChangeStatus(ctx, id, constants.ReservationStatusConfirmed)
}

func (f *BookingFacade) CancelReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	return f.ChangeStatus(ctx, id, constants.ReservationStatusCancelled)
}

func (f *BookingFacade) CompleteReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	return f.ChangeStatus(ctx, id, constants.ReservationStatusCompleted)
}

func (f *BookingFacade) MarkPaid(ctx context.Context, id uint, paid bool) (*models.Reservation, error) {
	reservation, err := f.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation.Status == constants.ReservationStatusCancelled && paid {
		return nil, errors.NewAppError(errors.ErrCodeInvalidOperation, "Cancelled reservations cannot be marked paid", nil)
	}
	reservation.Paid = paid
	if err := f.reservations.Save(ctx, reservation); err != nil {
		return nil, err
	}
	f.notify(notification.EventReservationPaid, reservation)
	return reservation, nil
}

// DeleteReservation removes pending or cancelled reservations; the others must
// be cancelled first.
func (f *BookingFacade) DeleteReservation(ctx context.Context, id uint) error {
	reservation, err := f.reservations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if reservation.Status.Blocking() {
		return errors.NewAppError(errors.ErrCodeInvalidOperation, "Cancel the reservation before deleting it", nil)
	}
	if err := f.reservations.Delete(ctx, reservation); err != nil {
		return err
	}
	f.notify(notification.EventReservationDeleted, reservation)
	return nil
}

// CheckAvailability answers whether [start, end] can be booked on a vehicle
// and what it would cost. It fails when the vehicle's reservations cannot be
// loaded rather than reporting the range as free.
func (f *BookingFacade) CheckAvailability(ctx context.Context, vehicleID uint, startStr, endStr string) (*dto.AvailabilityResponse, error) {
	start, end, err := validator.ParsePeriod(startStr, endStr)
	if err != nil {
		return nil, err
	}
	vehicle, err := f.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	snap := f.reservations.Snapshot(ctx, vehicleID, f.backoff)
	if err := snap.Ready(); err != nil {
		return nil, errors.NewAppError(errors.ErrCodeSnapshotNotReady, "Reservations could not be loaded", err)
	}
	first, conflict := f.checker.FirstConflict(start, end, snap.Records)

	price, days, err := RentalPrice(start, end, vehicle.DailyRate)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeValidation, "Invalid rental period", err)
	}
	resp := &dto.AvailabilityResponse{
		VehicleID:     vehicleID,
		StartDate:     availability.FormatDate(start),
		EndDate:       availability.FormatDate(end),
		Bookable:      !conflict && vehicle.Available,
		Available:     vehicle.Available,
		Days:          days,
		EstimatedCost: price,
	}
	if conflict {
		resp.FirstConflict = availability.FormatDate(first)
	}
	return resp, nil
}

// CompleteExpired completes every confirmed reservation that ended before today.
func (f *BookingFacade) CompleteExpired(ctx context.Context, now time.Time) (int, error) {
	expired, err := f.reservations.ConfirmedEndingBefore(ctx, now)
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}
	for i := range expired {
		if err := expired[i].Transition(constants.ReservationStatusCompleted); err != nil {
			return 0, err
		}
	}
	if err := f.reservations.SaveAll(ctx, expired); err != nil {
		return 0, err
	}
	for i := range expired {
		f.notify(notification.EventReservationCompleted, &expired[i])
	}
	f.logger.Info("completed %d expired reservations", len(expired))
	return len(expired), nil
}

func statusEvent(status constants.ReservationStatus) string {
	switch status {
	case constants.ReservationStatusConfirmed:
		return notification.EventReservationConfirmed
	case constants.ReservationStatusCancelled:
		return notification.EventReservationCancelled
	case constants.ReservationStatusCompleted:
		return notification.EventReservationCompleted
	default:
		return notification.EventReservationUpdated
	}
}

// notify never fails the operation that triggered it.
func (f *BookingFacade) notify(event string, r *models.Reservation) {
	start, end := r.Period()
	msg := notification.NewMessageBuilder(event, r.ID, r.AutomobileID).
		WithStatus(r.Status).
		WithPeriod(availability.FormatDate(start), availability.FormatDate(end)).
		Build()
	if err := f.notifier.SendMessage(msg); err != nil {
		f.logger.Warn("sending %s for reservation %d: %v", event, r.ID, err)
	}
}
