package constants

// User roles
const (
	RoleAgent = 0
	RoleAdmin = 1
)

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

// Reservation status
const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
)

// Valid reports whether s is one of the four known statuses.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusCancelled, ReservationStatusCompleted:
		return true
	}
	return false
}

// Blocking reports whether a reservation in this status occupies its vehicle.
// Pending reservations do not block: only confirmed or completed ones are authoritative.
func (s ReservationStatus) Blocking() bool {
	return s == ReservationStatusConfirmed || s == ReservationStatusCompleted
}

// Cache keys
const (
	CacheKeyVehicleReservations = "reservations:vehicle:%d"
	CacheKeyReservationsPattern = "reservations:*"
	CacheKeyDashboard           = "dashboard:summary"
)

// Date layouts
const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)
