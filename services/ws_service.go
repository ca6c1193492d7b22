package services

import (
	"context"
	"net/http"
	"sync"
	"time"

	"locationsguard/availability"
	"locationsguard/constants"
	"locationsguard/dto"
	"locationsguard/services/logger"

	"github.com/goccy/go-json"
	"github.com/olahol/melody"
)

const (
	ActionSelect            = "select"
	MessageTypeAvailability = "availability"
	MessageTypeError        = "error"
)

// AvailabilityHub serves the /ws channel. Each connection owns an
// availability.Session; the latest "select" message decides which vehicle and
// month it follows.
type AvailabilityHub struct {
	m       *melody.Melody
	fetcher availability.Fetcher
	checker *availability.Checker
	backoff time.Duration
	logger  logger.Logger
	now     func() time.Time

	mu    sync.Mutex
	conns map[*melody.Session]*connection
}

type AvailabilityHubOptions struct {
	Melody       *melody.Melody
	Fetcher      availability.Fetcher
	Checker      *availability.Checker
	FetchBackoff time.Duration
	Logger       logger.Logger
}

// view is what a connection asked to see.
type view struct {
	month     time.Time
	selection *availability.Selection
}

type connection struct {
	ctx     context.Context
	cancel  context.CancelFunc
	session *availability.Session

	mu   sync.Mutex
	view view
}

func (c *connection) currentView() view {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func NewAvailabilityHub(opts AvailabilityHubOptions) *AvailabilityHub {
	if opts.Logger == nil {
		opts.Logger = logger.NopLogger{}
	}
	if opts.Checker == nil {
		opts.Checker = availability.NewChecker(opts.Logger)
	}
	h := &AvailabilityHub{
		m:       opts.Melody,
		fetcher: opts.Fetcher,
		checker: opts.Checker,
		backoff: opts.FetchBackoff,
		logger:  opts.Logger,
		now:     time.Now,
		conns:   make(map[*melody.Session]*connection),
	}
	h.m.HandleConnect(h.connect)
	h.m.HandleDisconnect(h.disconnect)
	h.m.HandleMessage(h.message)
	return h
}

func (h *AvailabilityHub) HandleRequest(w http.ResponseWriter, r *http.Request) error {
	return h.m.HandleRequest(w, r)
}

func (h *AvailabilityHub) connect(s *melody.Session) {
	ctx, cancel := context.WithCancel(context.Background())
	conn := &connection{ctx: ctx, cancel: cancel}
	conn.session = availability.NewSession(h.fetcher, availability.SessionOptions{
		Backoff: h.backoff,
		Logger:  h.logger,
		OnChange: func(snap availability.Snapshot) {
			h.write(s, h.render(conn.currentView(), snap))
		},
	})

	h.mu.Lock()
	h.conns[s] = conn
	h.mu.Unlock()
}

func (h *AvailabilityHub) disconnect(s *melody.Session) {
	h.mu.Lock()
	conn, ok := h.conns[s]
	delete(h.conns, s)
	h.mu.Unlock()
	if !ok {
		return
	}
	conn.cancel()
	conn.session.Close()
}

func (h *AvailabilityHub) message(s *melody.Session, data []byte) {
	h.mu.Lock()
	conn, ok := h.conns[s]
	h.mu.Unlock()
	if !ok {
		return
	}

	var msg dto.AvailabilityMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		h.write(s, dto.AvailabilityMessage{Type: MessageTypeError, Error: "invalid JSON"})
		return
	}
	if msg.Action != ActionSelect || msg.VehicleID == 0 {
		h.write(s, dto.AvailabilityMessage{Type: MessageTypeError, Error: "expected {\"action\":\"select\",\"vehicleId\":...}"})
		return
	}

	v, err := h.parseView(msg)
	if err != nil {
		h.write(s, dto.AvailabilityMessage{Type: MessageTypeError, VehicleID: msg.VehicleID, Error: err.Error()})
		return
	}

	conn.session.SelectWith(conn.ctx, msg.VehicleID, func() {
		conn.mu.Lock()
		conn.view = v
		conn.mu.Unlock()
	})
}

func (h *AvailabilityHub) parseView(msg dto.AvailabilityMessage) (view, error) {
	today := availability.CalendarDate(h.now())
	v := view{month: time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)}
	if msg.Month != "" {
		month, err := time.Parse(constants.MonthLayout, msg.Month)
		if err != nil {
			return view{}, err
		}
		v.month = month
	}
	if msg.SelStart != "" {
		start, err := availability.ParseDate(msg.SelStart)
		if err != nil {
			return view{}, err
		}
		v.selection = &availability.Selection{Start: start}
		if msg.SelEnd != "" {
			end, err := availability.ParseDate(msg.SelEnd)
			if err != nil {
				return view{}, err
			}
			v.selection.End = end
		}
	}
	return v, nil
}

// render turns a snapshot into the message sent to the client. Disabled dates
// are only sent for loaded snapshots.
func (h *AvailabilityHub) render(v view, snap availability.Snapshot) dto.AvailabilityMessage {
	msg := dto.AvailabilityMessage{
		Type:      MessageTypeAvailability,
		VehicleID: snap.VehicleID,
		Month:     v.month.Format(constants.MonthLayout),
		State:     snap.State.String(),
	}
	switch snap.State {
	case availability.StateLoaded:
		last := v.month.AddDate(0, 1, -1)
		msg.DisabledDates = make([]string, 0)
		for _, d := range h.checker.DisabledDates(v.month, last, snap.Records, v.selection) {
			msg.DisabledDates = append(msg.DisabledDates, availability.FormatDate(d))
		}
	case availability.StateFailed:
		if snap.Err != nil {
			msg.Error = snap.Err.Error()
		}
	}
	return msg
}

func (h *AvailabilityHub) write(s *melody.Session, msg dto.AvailabilityMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("encoding availability message: %v", err)
		return
	}
	if err := s.Write(data); err != nil {
		h.logger.Debug("writing to closed websocket: %v", err)
	}
}

// Connections returns the number of open availability connections.
func (h *AvailabilityHub) Connections() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
