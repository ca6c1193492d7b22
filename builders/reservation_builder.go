package builders

import (
	"time"

	"locationsguard/availability"
	"locationsguard/constants"
	"locationsguard/models"
)

// ReservationBuilder assembles a reservation step by step.
type ReservationBuilder struct {
	reservation *models.Reservation
}

// NewReservationBuilder starts a PENDING reservation.
func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		reservation: &models.Reservation{Status: constants.ReservationStatusPending},
	}
}

func (b *ReservationBuilder) WithVehicle(automobileID uint) *ReservationBuilder {
	b.reservation.AutomobileID = automobileID
	return b
}

func (b *ReservationBuilder) WithClient(clientID uint) *ReservationBuilder {
	b.reservation.ClientID = clientID
	return b
}

// WithPeriod stores both ends as UTC calendar dates.
func (b *ReservationBuilder) WithPeriod(start, end time.Time) *ReservationBuilder {
	b.reservation.StartDate = availability.CalendarDate(start)
	b.reservation.EndDate = availability.CalendarDate(end)
	return b
}

func (b *ReservationBuilder) WithStatus(status constants.ReservationStatus) *ReservationBuilder {
	b.reservation.Status = status
	return b
}

func (b *ReservationBuilder) WithPaid(paid bool) *ReservationBuilder {
	b.reservation.Paid = paid
	return b
}

func (b *ReservationBuilder) WithNotes(notes string) *ReservationBuilder {
	b.reservation.Notes = notes
	return b
}

func (b *ReservationBuilder) WithTotalPrice(totalPrice float64) *ReservationBuilder {
	b.reservation.TotalPrice = totalPrice
	return b
}

func (b *ReservationBuilder) Build() *models.Reservation {
	return b.reservation
}
