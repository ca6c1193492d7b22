package services

import (
	"context"
	"testing"
	"time"

	"locationsguard/availability"
	"locationsguard/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationService_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v1 := f.vehicle(t, "Renault", "Megane", 45)
	v2 := f.vehicle(t, "Renault", "Captur", 55)
	c1, c2 := f.client(t), f.client(t)

	f.insert(t, v1.ID, c1.ID, "2024-06-01", "2024-06-03", constants.ReservationStatusConfirmed)
	f.insert(t, v1.ID, c2.ID, "2024-06-10", "2024-06-12", constants.ReservationStatusPending)
	f.insert(t, v2.ID, c1.ID, "2024-07-01", "2024-07-04", constants.ReservationStatusCancelled)

	list, total, err := f.reservations.List(ctx, ReservationQuery{AutomobileID: v1.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, "2024-06-10", availability.FormatDate(list[0].StartDate))
	require.NotNil(t, list[0].Client)

	_, total, err = f.reservations.List(ctx, ReservationQuery{ClientID: c1.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	_, total, err = f.reservations.List(ctx, ReservationQuery{CategoryID: v2.CategoryID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, total, err = f.reservations.List(ctx, ReservationQuery{Status: constants.ReservationStatusPending})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	from, to := mustDate("2024-06-03"), mustDate("2024-06-10")
	_, total, err = f.reservations.List(ctx, ReservationQuery{From: &from, To: &to})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	list, total, err = f.reservations.List(ctx, ReservationQuery{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, list, 1)
}

func TestReservationService_Snapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.vehicle(t, "Volvo", "XC40", 80)
	f.insert(t, v.ID, f.client(t).ID, "2024-06-01", "2024-06-05", constants.ReservationStatusConfirmed)

	snap := f.reservations.Snapshot(ctx, v.ID, time.Millisecond)
	require.NoError(t, snap.Ready())
	require.Len(t, snap.Records, 1)
	assert.Equal(t, "2024-06-01", snap.Records[0].StartDate)
	assert.True(t, availability.IsDateReserved(mustDate("2024-06-03"), snap.Records, nil))

	empty := f.vehicle(t, "Volvo", "XC60", 90)
	snap = f.reservations.Snapshot(ctx, empty.ID, time.Millisecond)
	require.NoError(t, snap.Ready())
	assert.Empty(t, snap.Records)
}

func TestReservationService_SnapshotFailsWhenStoreIsDown(t *testing.T) {
	f := newFixture(t)
	sqlDB, err := f.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	snap := f.reservations.Snapshot(context.Background(), 1, time.Millisecond)
	assert.Equal(t, availability.StateFailed, snap.State)
	assert.ErrorIs(t, snap.Ready(), availability.ErrSnapshotNotReady)
}

func TestReservationService_ConfirmedEndingBefore(t *testing.T) {
	f := newFixture(t)
	v := f.vehicle(t, "Nissan", "Micra", 26)
	c := f.client(t)
	old := f.insert(t, v.ID, c.ID, "2024-06-01", "2024-06-02", constants.ReservationStatusConfirmed)
	f.insert(t, v.ID, c.ID, "2024-06-05", "2024-06-06", constants.ReservationStatusConfirmed)
	f.insert(t, v.ID, c.ID, "2024-05-01", "2024-05-02", constants.ReservationStatusPending)

	list, err := f.reservations.ConfirmedEndingBefore(context.Background(), mustDate("2024-06-05"))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, old.ID, list[0].ID)
}
