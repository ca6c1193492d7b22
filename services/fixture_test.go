package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"locationsguard/config"
	"locationsguard/constants"
	"locationsguard/dto"
	"locationsguard/models"
	"locationsguard/services/notification"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var categorySeq atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a fresh database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, config.AutoMigrate(db))
	return db
}

type fixture struct {
	db           *gorm.DB
	categories   *CategoryService
	vehicles     *VehicleService
	clients      *ClientService
	reservations *ReservationService
	booking      *BookingFacade
	notes        *notification.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{
		db:           db,
		categories:   NewCategoryService(CategoryServiceOptions{DB: db}),
		vehicles:     NewVehicleService(VehicleServiceOptions{DB: db}),
		clients:      NewClientService(ClientServiceOptions{DB: db}),
		reservations: NewReservationService(ReservationServiceOptions{DB: db}),
		notes:        &notification.Recorder{},
	}
	f.booking = NewBookingFacade(BookingFacadeOptions{
		Reservations: f.reservations,
		Vehicles:     f.vehicles,
		Clients:      f.clients,
		Notifier:     f.notes,
		FetchBackoff: time.Millisecond,
	})
	return f
}

func (f *fixture) category(t *testing.T) *models.Category {
	t.Helper()
	c, err := f.categories.Create(context.Background(), dto.CategoryRequest{
		Name: fmt.Sprintf("%s %d", gofakeit.CarType(), categorySeq.Add(1)),
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) vehicle(t *testing.T, brand, model string, dailyRate float64) *models.Automobile {
	t.Helper()
	v, err := f.vehicles.Create(context.Background(), dto.VehicleRequest{
		Brand:        brand,
		Model:        model,
		Year:         2022,
		DailyRate:    dailyRate,
		CategoryID:   f.category(t).ID,
		FuelType:     models.FuelDiesel,
		Transmission: models.TransmissionManual,
	})
	require.NoError(t, err)
	return v
}

func (f *fixture) client(t *testing.T) *models.Client {
	t.Helper()
	c, err := f.clients.Create(context.Background(), dto.ClientRequest{
		FirstName:   gofakeit.FirstName(),
		LastName:    gofakeit.LastName(),
		Email:       gofakeit.Email(),
		PhoneNumber: gofakeit.Numerify("06########"),
	})
	require.NoError(t, err)
	return c
}

// reserve books a period through the facade.
func (f *fixture) reserve(t *testing.T, vehicleID, clientID uint, start, end string, status constants.ReservationStatus) *models.Reservation {
	t.Helper()
	r, err := f.booking.CreateReservation(context.Background(), dto.CreateReservationRequest{
		AutomobileID: vehicleID,
		ClientID:     clientID,
		StartDate:    start,
		EndDate:      end,
		Status:       status,
	})
	require.NoError(t, err)
	return r
}

// insert stores a reservation directly, bypassing conflict checks.
func (f *fixture) insert(t *testing.T, vehicleID, clientID uint, start, end string, status constants.ReservationStatus) *models.Reservation {
	t.Helper()
	r := &models.Reservation{
		AutomobileID: vehicleID,
		ClientID:     clientID,
		StartDate:    mustDate(start),
		EndDate:      mustDate(end),
		Status:       status,
	}
	require.NoError(t, f.reservations.Create(context.Background(), r))
	return r
}

func mustDate(s string) time.Time {
	d, err := time.Parse(constants.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}
