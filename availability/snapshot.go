package availability

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"locationsguard/services/logger"
)

var ErrSnapshotNotReady = errors.New("reservation snapshot not loaded")

// State of a Snapshot.
type State int

const (
	StateLoading State = iota
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "loading"
	}
}

// Snapshot holds the reservations of one vehicle. A snapshot that is still
// loading or failed to load is not the same as an empty one and cannot be checked.
type Snapshot struct {
	VehicleID uint
	State     State
	Records   []Record
	Err       error
}

func Loading(vehicleID uint) Snapshot {
	return Snapshot{VehicleID: vehicleID, State: StateLoading}
}

func Loaded(vehicleID uint, records []Record) Snapshot {
	if records == nil {
		records = []Record{}
	}
	return Snapshot{VehicleID: vehicleID, State: StateLoaded, Records: records}
}

func Failed(vehicleID uint, err error) Snapshot {
	return Snapshot{VehicleID: vehicleID, State: StateFailed, Err: err}
}

// Ready returns nil only for a loaded snapshot.
func (s Snapshot) Ready() error {
	switch s.State {
	case StateLoaded:
		return nil
	case StateFailed:
		return fmt.Errorf("%w: %v", ErrSnapshotNotReady, s.Err)
	default:
		return ErrSnapshotNotReady
	}
}

// RangeBookable checks [start, end] against a loaded snapshot.
func (c *Checker) RangeBookable(s Snapshot, start, end time.Time) (bool, error) {
	if err := s.Ready(); err != nil {
		return false, err
	}
	return c.IsRangeBookable(start, end, s.Records), nil
}

// SnapshotDisabledDates lists disabled dates of [from, to] for a loaded snapshot.
func (c *Checker) SnapshotDisabledDates(s Snapshot, from, to time.Time, selection *Selection) ([]time.Time, error) {
	if err := s.Ready(); err != nil {
		return nil, err
	}
	return c.DisabledDates(from, to, s.Records, selection), nil
}

// Fetcher loads every reservation relevant to a vehicle.
type Fetcher interface {
	FetchReservations(ctx context.Context, vehicleID uint) ([]Record, error)
}

// FetchWithRetry calls f once more after backoff when the first attempt fails.
func FetchWithRetry(ctx context.Context, f Fetcher, vehicleID uint, backoff time.Duration, log logger.Logger) ([]Record, error) {
	records, err := f.FetchReservations(ctx, vehicleID)
	if err == nil || ctx.Err() != nil {
		return records, err
	}
	log.Warn("availability: fetching reservations of vehicle %d failed, retrying in %s: %v", vehicleID, backoff, err)

	timer := time.NewTimer(backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}
	return f.FetchReservations(ctx, vehicleID)
}

// SessionOptions configures a Session.
type SessionOptions struct {
	Backoff time.Duration
	Logger  logger.Logger
	// OnChange is called with every snapshot the session publishes, in order.
	// It must not call Select.
	OnChange func(Snapshot)
}

// Session tracks the snapshot of the currently selected vehicle. Selecting
// another vehicle supersedes in-flight fetches; their results are dropped.
type Session struct {
	fetcher  Fetcher
	backoff  time.Duration
	log      logger.Logger
	onChange func(Snapshot)

	publishMu sync.Mutex
	mu        sync.Mutex
	gen       uint64
	cancel    context.CancelFunc
	snap      Snapshot
	selected  bool

	wg sync.WaitGroup
}

func NewSession(f Fetcher, opts SessionOptions) *Session {
	if opts.Logger == nil {
		opts.Logger = logger.NopLogger{}
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 500 * time.Millisecond
	}
	return &Session{
		fetcher:  f,
		backoff:  opts.Backoff,
		log:      opts.Logger,
		onChange: opts.OnChange,
	}
}

// Select switches the session to vehicleID and starts loading its reservations.
func (s *Session) Select(ctx context.Context, vehicleID uint) {
	s.SelectWith(ctx, vehicleID, nil)
}

// SelectWith is Select with apply run once older fetches are superseded and
// before anything is published for vehicleID. State that OnChange reads and
// that belongs to the new selection should be set in apply.
func (s *Session) SelectWith(ctx context.Context, vehicleID uint, apply func()) {
	s.publishMu.Lock()
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	fetchCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.selected = true
	s.snap = Loading(vehicleID)
	s.mu.Unlock()
	if apply != nil {
		apply()
	}
	s.publish(Loading(vehicleID))
	s.publishMu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		records, err := FetchWithRetry(fetchCtx, s.fetcher, vehicleID, s.backoff, s.log)

		s.publishMu.Lock()
		defer s.publishMu.Unlock()
		s.mu.Lock()
		if gen != s.gen {
			s.mu.Unlock()
			s.log.Debug("availability: dropping stale snapshot of vehicle %d", vehicleID)
			return
		}
		if err != nil {
			s.log.Error("availability: reservations of vehicle %d unavailable: %v", vehicleID, err)
			s.snap = Failed(vehicleID, err)
		} else {
			s.snap = Loaded(vehicleID, records)
		}
		snap := s.snap
		s.mu.Unlock()
		s.publish(snap)
	}()
}

func (s *Session) publish(snap Snapshot) {
	if s.onChange != nil {
		s.onChange(snap)
	}
}

// Snapshot returns the current state. Before any Select it is a failed
// snapshot carrying ErrSnapshotNotReady.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.selected {
		return Failed(0, ErrSnapshotNotReady)
	}
	return s.snap
}

// Wait blocks until every started fetch has returned.
func (s *Session) Wait() {
	s.wg.Wait()
}

// Close cancels the in-flight fetch and waits for it.
func (s *Session) Close() {
	s.mu.Lock()
	s.gen++
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}
