package models

import (
	"fmt"
	"time"
)

type Automobile struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Brand        string    `json:"brand" gorm:"not null"`
	Model        string    `json:"model" gorm:"not null"`
	Year         int       `json:"year"`
	DailyRate    float64   `json:"dailyRate"`
	CategoryID   uint      `json:"categoryId" gorm:"index"`
	Category     *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	FuelType     string    `json:"fuelType"`
	Transmission string    `json:"transmission"`
	Mileage      int       `json:"mileage"`
	Features     []string  `json:"features" gorm:"serializer:json"`
	Images       []string  `json:"images" gorm:"serializer:json"`
	Available    bool      `json:"available" gorm:"default:true"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Fuel types
const (
	FuelGasoline = "GASOLINE"
	FuelDiesel   = "DIESEL"
	FuelHybrid   = "HYBRID"
	FuelElectric = "ELECTRIC"
)

// Transmissions
const (
	TransmissionManual    = "MANUAL"
	TransmissionAutomatic = "AUTOMATIC"
)

func (a *Automobile) Name() string {
	return fmt.Sprintf("%s %s", a.Brand, a.Model)
}

func (a *Automobile) ValidateFuelType() error {
	switch a.FuelType {
	case "", FuelGasoline, FuelDiesel, FuelHybrid, FuelElectric:
		return nil
	}
	return fmt.Errorf("invalid fuel type: %s", a.FuelType)
}

func (a *Automobile) ValidateTransmission() error {
	switch a.Transmission {
	case "", TransmissionManual, TransmissionAutomatic:
		return nil
	}
	return fmt.Errorf("invalid transmission: %s", a.Transmission)
}
