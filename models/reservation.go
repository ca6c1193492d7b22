package models

import (
	"time"

	"locationsguard/availability"
	"locationsguard/constants"

	"gorm.io/gorm"
)

type Reservation struct {
	ID           uint                        `json:"id" gorm:"primaryKey"`
	AutomobileID uint                        `json:"automobileId" gorm:"index;not null"`
	Automobile   *Automobile                 `json:"automobile,omitempty" gorm:"foreignKey:AutomobileID"`
	ClientID     uint                        `json:"clientId" gorm:"index;not null"`
	Client       *Client                     `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	StartDate    time.Time                   `json:"startDate" gorm:"index"`
	EndDate      time.Time                   `json:"endDate" gorm:"index"`
	Status       constants.ReservationStatus `json:"status" gorm:"type:varchar(16);index;default:PENDING"`
	Paid         bool                        `json:"paid" gorm:"default:false"`
	TotalPrice   float64                     `json:"totalPrice"`
	Notes        string                      `json:"notes,omitempty"`
	CreatedAt    time.Time                   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time                   `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Period returns the first and last day of the rental. Days are stored as UTC
// midnight but drivers may decode them in time.Local.
func (r *Reservation) Period() (time.Time, time.Time) {
	return r.StartDate.UTC(), r.EndDate.UTC()
}

// AfterFind moves loaded days back to UTC.
func (r *Reservation) AfterFind(tx *gorm.DB) error {
	r.StartDate, r.EndDate = r.Period()
	return nil
}

// Record converts the reservation to the shape the availability checker consumes.
func (r *Reservation) Record() availability.Record {
	start, end := r.Period()
	return availability.NewRecord(start, end, r.Status)
}

// Records converts a list of reservations, skipping the one with id exclude (0 keeps all).
func Records(reservations []Reservation, exclude uint) []availability.Record {
	records := make([]availability.Record, 0, len(reservations))
	for i := range reservations {
		if exclude != 0 && reservations[i].ID == exclude {
			continue
		}
		records = append(records, reservations[i].Record())
	}
	return records
}
