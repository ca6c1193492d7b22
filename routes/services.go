package routes

import (
	"locationsguard/availability"
	"locationsguard/config"
	"locationsguard/services"
	"locationsguard/services/logger"
	"locationsguard/services/notification"

	"github.com/olahol/melody"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Dependencies are the infrastructure handles the services are built on.
type Dependencies struct {
	Config         config.Config
	DB             *gorm.DB
	Redis          *redis.Client
	Melody         *melody.Melody
	Logger         logger.Logger
	GoogleVerifier services.GoogleVerifier
}

// Services holds every service the HTTP and websocket layers use.
type Services struct {
	Tokens       *services.TokenService
	Auth         *services.AuthService
	Categories   *services.CategoryService
	Vehicles     *services.VehicleService
	Clients      *services.ClientService
	Reservations *services.ReservationService
	Booking      *services.BookingFacade
	Dashboard    *services.DashboardService
	Hub          *services.AvailabilityHub
	Notifier     notification.Service
	Logger       logger.Logger
}

func NewServices(d Dependencies) *Services {
	if d.Logger == nil {
		d.Logger = logger.NopLogger{}
	}
	if d.Melody == nil {
		d.Melody = melody.New()
	}
	checker := availability.NewChecker(d.Logger)
	notifier := notification.NewMelodyService(d.Melody)
	tokens := services.NewTokenService(d.Config.JWTSecret, d.Config.TokenTTL)

	reservations := services.NewReservationService(services.ReservationServiceOptions{
		DB:       d.DB,
		Redis:    d.Redis,
		CacheTTL: d.Config.CacheTTL,
		Logger:   d.Logger,
	})
	vehicles := services.NewVehicleService(services.VehicleServiceOptions{DB: d.DB, Redis: d.Redis, Logger: d.Logger})
	clients := services.NewClientService(services.ClientServiceOptions{DB: d.DB, Logger: d.Logger})

	return &Services{
		Tokens: tokens,
		Auth: services.NewAuthService(services.AuthServiceOptions{
			DB:             d.DB,
			Tokens:         tokens,
			GoogleClientID: d.Config.GoogleClientID,
			Verifier:       d.GoogleVerifier,
			Logger:         d.Logger,
		}),
		Categories:   services.NewCategoryService(services.CategoryServiceOptions{DB: d.DB, Logger: d.Logger}),
		Vehicles:     vehicles,
		Clients:      clients,
		Reservations: reservations,
		Booking: services.NewBookingFacade(services.BookingFacadeOptions{
			Reservations: reservations,
			Vehicles:     vehicles,
			Clients:      clients,
			Checker:      checker,
			Notifier:     notifier,
			Redis:        d.Redis,
			FetchBackoff: d.Config.FetchBackoff,
			Logger:       d.Logger,
		}),
		Dashboard: services.NewDashboardService(services.DashboardServiceOptions{
			DB:           d.DB,
			Redis:        d.Redis,
			Reservations: reservations,
			Checker:      checker,
			CacheTTL:     d.Config.CacheTTL,
			FetchBackoff: d.Config.FetchBackoff,
			Logger:       d.Logger,
		}),
		Hub: services.NewAvailabilityHub(services.AvailabilityHubOptions{
			Melody:       d.Melody,
			Fetcher:      reservations,
			Checker:      checker,
			FetchBackoff: d.Config.FetchBackoff,
			Logger:       d.Logger,
		}),
		Notifier: notifier,
		Logger:   d.Logger,
	}
}
