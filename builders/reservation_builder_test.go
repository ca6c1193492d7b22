package builders

import (
	"testing"
	"time"

	"locationsguard/constants"

	"github.com/stretchr/testify/assert"
)

func TestReservationBuilder(t *testing.T) {
	loc := time.FixedZone("UTC+1", 3600)
	r := NewReservationBuilder().
		WithVehicle(4).
		WithClient(9).
		WithPeriod(time.Date(2024, 6, 1, 18, 0, 0, 0, loc), time.Date(2024, 6, 3, 9, 0, 0, 0, loc)).
		WithNotes("airport pickup").
		WithTotalPrice(120).
		Build()

	assert.Equal(t, uint(4), r.AutomobileID)
	assert.Equal(t, uint(9), r.ClientID)
	assert.Equal(t, constants.ReservationStatusPending, r.Status)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), r.StartDate)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), r.EndDate)
	assert.Equal(t, "airport pickup", r.Notes)
	assert.Equal(t, 120.0, r.TotalPrice)
	assert.False(t, r.Paid)
}
