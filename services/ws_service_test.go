package services

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"locationsguard/availability"
	"locationsguard/constants"
	"locationsguard/dto"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/olahol/melody"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher map[uint][]availability.Record

func (f stubFetcher) FetchReservations(_ context.Context, vehicleID uint) ([]availability.Record, error) {
	records, ok := f[vehicleID]
	if !ok {
		return nil, stderrors.New("vehicle store offline")
	}
	return records, nil
}

func dialHub(t *testing.T, fetcher availability.Fetcher) (*AvailabilityHub, *websocket.Conn) {
	t.Helper()
	m := melody.New()
	hub := NewAvailabilityHub(AvailabilityHubOptions{
		Melody:       m,
		Fetcher:      fetcher,
		FetchBackoff: time.Millisecond,
	})
	hub.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.HandleRequest(w, r)
	}))
	t.Cleanup(func() {
		m.Close()
		srv.Close()
	})

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return hub, conn
}

func send(t *testing.T, conn *websocket.Conn, msg interface{}) {
	t.Helper()
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

// next reads messages until one is not a loading notice.
func next(t *testing.T, conn *websocket.Conn) dto.AvailabilityMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg dto.AvailabilityMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		if msg.State != availability.StateLoading.String() {
			return msg
		}
	}
}

func TestAvailabilityHub_Select(t *testing.T) {
	_, conn := dialHub(t, stubFetcher{
		7: {
			{StartDate: "2024-06-03", EndDate: "2024-06-04", Status: constants.ReservationStatusConfirmed},
			{StartDate: "2024-06-10", EndDate: "2024-06-12", Status: constants.ReservationStatusPending},
		},
	})

	send(t, conn, dto.AvailabilityMessage{Action: ActionSelect, VehicleID: 7})
	msg := next(t, conn)
	assert.Equal(t, MessageTypeAvailability, msg.Type)
	assert.Equal(t, uint(7), msg.VehicleID)
	assert.Equal(t, "2024-06", msg.Month)
	assert.Equal(t, "loaded", msg.State)
	assert.Equal(t, []string{"2024-06-03", "2024-06-04"}, msg.DisabledDates)

	// the range being edited stays selectable
	send(t, conn, dto.AvailabilityMessage{Action: ActionSelect, VehicleID: 7, Month: "2024-06", SelStart: "2024-06-03", SelEnd: "2024-06-04"})
	msg = next(t, conn)
	assert.Equal(t, "loaded", msg.State)
	assert.Empty(t, msg.DisabledDates)
}

func TestAvailabilityHub_FailedSnapshot(t *testing.T) {
	_, conn := dialHub(t, stubFetcher{})

	send(t, conn, dto.AvailabilityMessage{Action: ActionSelect, VehicleID: 3})
	msg := next(t, conn)
	assert.Equal(t, "failed", msg.State)
	assert.Empty(t, msg.DisabledDates)
	assert.Contains(t, msg.Error, "vehicle store offline")
}

func TestAvailabilityHub_BadMessages(t *testing.T) {
	hub, conn := dialHub(t, stubFetcher{})

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{")))
	msg := next(t, conn)
	assert.Equal(t, MessageTypeError, msg.Type)

	send(t, conn, dto.AvailabilityMessage{Action: "subscribe", VehicleID: 1})
	msg = next(t, conn)
	assert.Equal(t, MessageTypeError, msg.Type)

	send(t, conn, dto.AvailabilityMessage{Action: ActionSelect, VehicleID: 1, Month: "June"})
	msg = next(t, conn)
	assert.Equal(t, MessageTypeError, msg.Type)
	assert.Equal(t, uint(1), msg.VehicleID)

	assert.Equal(t, 1, hub.Connections())
}
