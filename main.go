package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"locationsguard/config"
	"locationsguard/constants"
	"locationsguard/jobs"
	"locationsguard/routes"
	"locationsguard/services"
	"locationsguard/services/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := config.InitApp(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	appLogger := logger.NewDefaultLogger(logger.ParseLevel(app.Config.LogLevel))
	if app.Config.JWTSecret == "" {
		appLogger.Warn("JWT_SECRET is empty, tokens are signed with an empty key")
	}

	s := routes.NewServices(routes.Dependencies{
		Config: app.Config,
		DB:     app.DB,
		Redis:  app.Redis,
		Melody: app.Melody,
		Logger: appLogger,
	})

	if err := s.Auth.EnsureAdmin(ctx, app.Config.AdminEmail, app.Config.AdminPassword); err != nil {
		log.Fatalf("Failed to create admin account: %v", err)
	}

	// Snapshots cached by a previous run may predate migrations or manual fixes.
	if err := services.DeleteKeysByPattern(ctx, app.Redis, constants.CacheKeyReservationsPattern); err != nil {
		appLogger.Warn("flushing reservation cache: %v", err)
	}

	if err := jobs.InitCronJobs(app.Cron, s.Booking, s.Notifier, appLogger); err != nil {
		log.Fatalf("Failed to initialize cron jobs: %v", err)
	}

	routes.SetupRoutes(app.Router, s)

	srv := &http.Server{
		Addr:    ":" + app.Config.Port,
		Handler: app.Router,
	}
	go func() {
		log.Println("Server starting on port " + app.Config.Port + "...")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
	<-app.Cron.Stop().Done()
	app.Melody.Close()
	if app.Redis != nil {
		app.Redis.Close()
	}
}
