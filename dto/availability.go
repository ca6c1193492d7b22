package dto

import "locationsguard/constants"

type AvailabilityResponse struct {
	VehicleID     uint    `json:"vehicleId"`
	StartDate     string  `json:"startDate"`
	EndDate       string  `json:"endDate"`
	Bookable      bool    `json:"bookable"`
	Available     bool    `json:"available"`
	FirstConflict string  `json:"firstConflict,omitempty"`
	Days          int     `json:"days"`
	EstimatedCost float64 `json:"estimatedCost"`
}

type CalendarDay struct {
	Date          string                      `json:"date"`
	Disabled      bool                        `json:"disabled"`
	ReservationID uint                        `json:"reservationId,omitempty"`
	Status        constants.ReservationStatus `json:"status,omitempty"`
	ClientName    string                      `json:"clientName,omitempty"`
}

type CalendarResponse struct {
	VehicleID uint          `json:"vehicleId"`
	Month     string        `json:"month"`
	Days      []CalendarDay `json:"days"`
}

type DashboardSummary struct {
	TotalVehicles        int64                                 `json:"totalVehicles"`
	AvailableVehicles    int64                                 `json:"availableVehicles"`
	TotalClients         int64                                 `json:"totalClients"`
	ReservationsByStatus map[constants.ReservationStatus]int64 `json:"reservationsByStatus"`
	PaidRevenue          float64                               `json:"paidRevenue"`
	OutstandingRevenue   float64                               `json:"outstandingRevenue"`
	Upcoming             []ReservationResponse                 `json:"upcoming"`
}

// AvailabilityMessage is exchanged over the /ws availability channel.
type AvailabilityMessage struct {
	Action        string   `json:"action,omitempty"`
	Type          string   `json:"type,omitempty"`
	VehicleID     uint     `json:"vehicleId"`
	Month         string   `json:"month,omitempty"`
	SelStart      string   `json:"selStart,omitempty"`
	SelEnd        string   `json:"selEnd,omitempty"`
	State         string   `json:"state,omitempty"`
	DisabledDates []string `json:"disabledDates,omitempty"`
	Error         string   `json:"error,omitempty"`
}
