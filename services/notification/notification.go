package notification

import (
	"fmt"
	"sync"

	"locationsguard/constants"

	"github.com/goccy/go-json"
	"github.com/olahol/melody"
)

// Reservation event types.
const (
	EventReservationCreated   = "reservation.created"
	EventReservationUpdated   = "reservation.updated"
	EventReservationConfirmed = "reservation.confirmed"
	EventReservationCancelled = "reservation.cancelled"
	EventReservationCompleted = "reservation.completed"
	EventReservationDeleted   = "reservation.deleted"
	EventReservationPaid      = "reservation.paid"
)

type Service interface {
	SendMessage(message string) error
}

type MelodyService struct {
	m *melody.Melody
}

func NewMelodyService(m *melody.Melody) *MelodyService {
	return &MelodyService{m: m}
}

func (s *MelodyService) SendMessage(message string) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	return s.m.Broadcast([]byte(message))
}

// Recorder keeps sent messages in memory. Used when no websocket hub runs.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *Recorder) SendMessage(message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	return nil
}

func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// Event is the payload broadcast for reservation changes.
type Event struct {
	Type          string                      `json:"type"`
	ReservationID uint                        `json:"reservationId"`
	VehicleID     uint                        `json:"vehicleId"`
	Status        constants.ReservationStatus `json:"status,omitempty"`
	StartDate     string                      `json:"startDate,omitempty"`
	EndDate       string                      `json:"endDate,omitempty"`
	Message       string                      `json:"message,omitempty"`
}

type MessageBuilder struct {
	event Event
}

func NewMessageBuilder(eventType string, reservationID, vehicleID uint) *MessageBuilder {
	return &MessageBuilder{event: Event{
		Type:          eventType,
		ReservationID: reservationID,
		VehicleID:     vehicleID,
	}}
}

func (b *MessageBuilder) WithStatus(status constants.ReservationStatus) *MessageBuilder {
	b.event.Status = status
	return b
}

func (b *MessageBuilder) WithPeriod(start, end string) *MessageBuilder {
	b.event.StartDate = start
	b.event.EndDate = end
	return b
}

func (b *MessageBuilder) WithMessage(format string, v ...interface{}) *MessageBuilder {
	b.event.Message = fmt.Sprintf(format, v...)
	return b
}

func (b *MessageBuilder) Event() Event {
	return b.event
}

func (b *MessageBuilder) Build() string {
	data, err := json.Marshal(b.event)
	if err != nil {
		return fmt.Sprintf(`{"type":%q}`, b.event.Type)
	}
	return string(data)
}
