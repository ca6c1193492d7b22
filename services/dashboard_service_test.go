package services

import (
	"context"
	"testing"
	"time"

	"locationsguard/constants"
	"locationsguard/dto"
	"locationsguard/errors"
	"locationsguard/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDashboard(f *fixture) *DashboardService {
	d := NewDashboardService(DashboardServiceOptions{
		DB:           f.db,
		Reservations: f.reservations,
		FetchBackoff: time.Millisecond,
	})
	d.now = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }
	return d
}

func TestDashboardSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.vehicle(t, "Renault", "Zoe", 40)
	spare := f.vehicle(t, "Renault", "Kangoo", 50)
	_, err := f.vehicles.SetAvailability(ctx, spare.ID, false)
	require.NoError(t, err)
	c := f.client(t)

	done := f.insert(t, v.ID, c.ID, "2024-05-01", "2024-05-03", constants.ReservationStatusCompleted)
	done.TotalPrice, done.Paid = 80, true
	require.NoError(t, f.reservations.Save(ctx, done))
	owed := f.reserve(t, v.ID, c.ID, "2024-06-10", "2024-06-12", constants.ReservationStatusConfirmed)
	f.reserve(t, v.ID, c.ID, "2024-06-20", "2024-06-21", "")
	f.insert(t, v.ID, c.ID, "2024-06-25", "2024-06-26", constants.ReservationStatusCancelled)

	summary, err := newDashboard(f).Summary(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 2, summary.TotalVehicles)
	assert.EqualValues(t, 1, summary.AvailableVehicles)
	assert.EqualValues(t, 1, summary.TotalClients)
	assert.EqualValues(t, 1, summary.ReservationsByStatus[constants.ReservationStatusCompleted])
	assert.EqualValues(t, 1, summary.ReservationsByStatus[constants.ReservationStatusConfirmed])
	assert.EqualValues(t, 1, summary.ReservationsByStatus[constants.ReservationStatusPending])
	assert.EqualValues(t, 1, summary.ReservationsByStatus[constants.ReservationStatusCancelled])
	assert.Equal(t, 80.0, summary.PaidRevenue)
	assert.Equal(t, owed.TotalPrice, summary.OutstandingRevenue)
	require.Len(t, summary.Upcoming, 2)
	assert.Equal(t, "2024-06-10", summary.Upcoming[0].StartDate)
}

func TestVehicleCalendar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.vehicle(t, "Audi", "A3", 70)
	c := f.client(t)
	confirmed := f.reserve(t, v.ID, c.ID, "2024-05-30", "2024-06-02", constants.ReservationStatusConfirmed)
	pending := f.reserve(t, v.ID, c.ID, "2024-06-10", "2024-06-11", "")

	cal, err := newDashboard(f).VehicleCalendar(ctx, v.ID, "2024-06", "", "")
	require.NoError(t, err)
	require.Len(t, cal.Days, 30)

	assert.True(t, cal.Days[0].Disabled)
	assert.Equal(t, confirmed.ID, cal.Days[0].ReservationID)
	assert.Equal(t, c.FullName(), cal.Days[0].ClientName)
	assert.True(t, cal.Days[1].Disabled)
	assert.False(t, cal.Days[2].Disabled)
	assert.Zero(t, cal.Days[2].ReservationID)

	// pending reservations are shown but leave the day selectable
	assert.False(t, cal.Days[9].Disabled)
	assert.Equal(t, pending.ID, cal.Days[9].ReservationID)
	assert.Equal(t, constants.ReservationStatusPending, cal.Days[9].Status)

	// editing the confirmed reservation re-enables its own days
	cal, err = newDashboard(f).VehicleCalendar(ctx, v.ID, "2024-06", "2024-05-30", "2024-06-02")
	require.NoError(t, err)
	assert.False(t, cal.Days[0].Disabled)
	assert.False(t, cal.Days[1].Disabled)
}

func TestVehicleCalendar_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.vehicle(t, "BMW", "i3", 65)
	d := newDashboard(f)

	_, err := d.VehicleCalendar(ctx, v.ID, "June", "", "")
	requireCode(t, err, errors.ErrCodeInvalidFormat)

	_, err = d.VehicleCalendar(ctx, 999, "2024-06", "", "")
	requireCode(t, err, errors.ErrCodeDBNotFound)

	_, err = d.VehicleCalendar(ctx, v.ID, "2024-06", "tomorrow", "")
	requireCode(t, err, errors.ErrCodeInvalidFormat)
}

func TestOccupant_StoredDaysWestOfUTC(t *testing.T) {
	west := time.FixedZone("PDT", -7*3600)
	r := models.Reservation{
		ID:        9,
		StartDate: mustDate("2024-06-01").In(west),
		EndDate:   mustDate("2024-06-05").In(west),
		Status:    constants.ReservationStatusConfirmed,
	}
	list := []models.Reservation{r}

	require.NotNil(t, occupant(list, mustDate("2024-06-05")))
	assert.Nil(t, occupant(list, mustDate("2024-05-31")))

	resp := dto.NewReservationResponse(&r)
	assert.Equal(t, "2024-06-01", resp.StartDate)
	assert.Equal(t, "2024-06-05", resp.EndDate)
	assert.Equal(t, 4, resp.Days)
}
