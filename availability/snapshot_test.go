package availability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"locationsguard/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	mu       sync.Mutex
	calls    map[uint]int
	failures map[uint]int
	records  map[uint][]Record
	gates    map[uint]chan struct{}
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		calls:    map[uint]int{},
		failures: map[uint]int{},
		records:  map[uint][]Record{},
		gates:    map[uint]chan struct{}{},
	}
}

func (f *stubFetcher) FetchReservations(ctx context.Context, vehicleID uint) ([]Record, error) {
	f.mu.Lock()
	f.calls[vehicleID]++
	gate := f.gates[vehicleID]
	fail := f.failures[vehicleID] > 0
	if fail {
		f.failures[vehicleID]--
	}
	records := f.records[vehicleID]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if fail {
		return nil, errors.New("backend unavailable")
	}
	return records, nil
}

func (f *stubFetcher) callCount(vehicleID uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[vehicleID]
}

func TestSnapshot_NotReady(t *testing.T) {
	c := NewChecker(nil)

	_, err := c.RangeBookable(Loading(1), day("2024-06-01"), day("2024-06-02"))
	assert.ErrorIs(t, err, ErrSnapshotNotReady)

	_, err = c.RangeBookable(Failed(1, errors.New("boom")), day("2024-06-01"), day("2024-06-02"))
	assert.ErrorIs(t, err, ErrSnapshotNotReady)

	ok, err := c.RangeBookable(Loaded(1, nil), day("2024-06-01"), day("2024-06-02"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSession_LoadsSelectedVehicle(t *testing.T) {
	f := newStubFetcher()
	f.records[7] = []Record{rec("2024-06-01", "2024-06-05", constants.ReservationStatusConfirmed)}

	var states []State
	var mu sync.Mutex
	s := NewSession(f, SessionOptions{OnChange: func(snap Snapshot) {
		mu.Lock()
		states = append(states, snap.State)
		mu.Unlock()
	}})
	defer s.Close()

	assert.ErrorIs(t, s.Snapshot().Ready(), ErrSnapshotNotReady)

	s.Select(context.Background(), 7)
	s.Wait()

	snap := s.Snapshot()
	require.NoError(t, snap.Ready())
	assert.Equal(t, uint(7), snap.VehicleID)
	assert.Len(t, snap.Records, 1)
	assert.Equal(t, []State{StateLoading, StateLoaded}, states)
}

func TestSession_RetriesOnce(t *testing.T) {
	f := newStubFetcher()
	f.failures[3] = 1
	s := NewSession(f, SessionOptions{Backoff: time.Millisecond})
	defer s.Close()

	s.Select(context.Background(), 3)
	s.Wait()

	assert.Equal(t, 2, f.callCount(3))
	assert.NoError(t, s.Snapshot().Ready())
}

func TestSession_PersistentFailure(t *testing.T) {
	f := newStubFetcher()
	f.failures[3] = 2
	s := NewSession(f, SessionOptions{Backoff: time.Millisecond})
	defer s.Close()

	s.Select(context.Background(), 3)
	s.Wait()

	snap := s.Snapshot()
	assert.Equal(t, StateFailed, snap.State)
	assert.ErrorIs(t, snap.Ready(), ErrSnapshotNotReady)
	assert.Equal(t, 2, f.callCount(3))
}

func TestSession_LastSelectionWins(t *testing.T) {
	f := newStubFetcher()
	slow := make(chan struct{})
	f.gates[1] = slow
	f.records[1] = []Record{rec("2024-06-01", "2024-06-30", constants.ReservationStatusConfirmed)}
	f.records[2] = []Record{}

	var published []uint
	var mu sync.Mutex
	s := NewSession(f, SessionOptions{OnChange: func(snap Snapshot) {
		if snap.State == StateLoaded {
			mu.Lock()
			published = append(published, snap.VehicleID)
			mu.Unlock()
		}
	}})
	defer s.Close()

	ctx := context.Background()
	s.Select(ctx, 1)
	s.Select(ctx, 2)
	close(slow)
	s.Wait()

	snap := s.Snapshot()
	require.NoError(t, snap.Ready())
	assert.Equal(t, uint(2), snap.VehicleID)
	assert.Empty(t, snap.Records)
	assert.Equal(t, []uint{2}, published)
}

func TestSession_SelectWithAppliesAfterInFlightPublish(t *testing.T) {
	f := newStubFetcher()
	f.records[1] = []Record{rec("2024-06-01", "2024-06-02", constants.ReservationStatusConfirmed)}
	f.records[2] = []Record{}

	type rendered struct{ vehicle, view uint }
	var (
		mu       sync.Mutex
		view     uint
		renders  []rendered
		entered  = make(chan struct{})
		release  = make(chan struct{})
		selected = make(chan struct{})
	)
	setView := func(v uint) func() {
		return func() {
			mu.Lock()
			view = v
			mu.Unlock()
		}
	}

	s := NewSession(f, SessionOptions{OnChange: func(snap Snapshot) {
		if snap.VehicleID == 1 && snap.State == StateLoaded {
			close(entered)
			<-release
		}
		mu.Lock()
		renders = append(renders, rendered{snap.VehicleID, view})
		mu.Unlock()
	}})
	defer s.Close()

	ctx := context.Background()
	s.SelectWith(ctx, 1, setView(1))
	<-entered
	go func() {
		s.SelectWith(ctx, 2, setView(2))
		close(selected)
	}()
	time.Sleep(20 * time.Millisecond)
	close(release)
	<-selected
	s.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, renders)
	for _, r := range renders {
		assert.Equal(t, r.vehicle, r.view, "vehicle %d rendered with the view of %d", r.vehicle, r.view)
	}
	assert.Equal(t, rendered{2, 2}, renders[len(renders)-1])
}
