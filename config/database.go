package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"locationsguard/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// dsnForEnv builds the postgres DSN from the <ENV>_DB_* variables of env
// (dev, qc or prod).
func dsnForEnv(env string) (string, error) {
	switch env {
	case "dev", "qc", "prod":
	default:
		return "", fmt.Errorf("unknown environment: %s", env)
	}
	prefix := strings.ToUpper(env) + "_DB_"
	get := func(key string) string { return os.Getenv(prefix + key) }

	sslMode := "require"
	if env == "dev" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		get("HOST"), get("USER"), get("PASSWORD"), get("NAME"), get("PORT"), sslMode), nil
}

// ConnectDB opens the postgres connection for cfg.Env and stores it in DB.
func ConnectDB(cfg Config) (*gorm.DB, error) {
	dsn, err := dsnForEnv(cfg.Env)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	DB = db
	log.Println("Successfully connected to db")
	return db, nil
}

// AutoMigrate creates or updates every table of the application.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Automobile{},
		&models.Client{},
		&models.Reservation{},
	)
}
