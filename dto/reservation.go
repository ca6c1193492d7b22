package dto

import (
	"time"

	"locationsguard/availability"
	"locationsguard/constants"
	"locationsguard/models"
)

type CreateReservationRequest struct {
	AutomobileID uint                        `json:"automobileId" validate:"required"`
	ClientID     uint                        `json:"clientId" validate:"required"`
	StartDate    string                      `json:"startDate" validate:"required"`
	EndDate      string                      `json:"endDate" validate:"required"`
	Status       constants.ReservationStatus `json:"status" validate:"omitempty,oneof=PENDING CONFIRMED"`
	Paid         bool                        `json:"paid"`
	Notes        string                      `json:"notes" validate:"max=1024"`
}

// UpdateReservationRequest changes only the fields that are set.
type UpdateReservationRequest struct {
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Notes     *string `json:"notes" validate:"omitempty,max=1024"`
}

type StatusUpdateRequest struct {
	Status constants.ReservationStatus `json:"status" validate:"required,oneof=CONFIRMED CANCELLED COMPLETED"`
}

type PaidUpdateRequest struct {
	Paid *bool `json:"paid" binding:"required"`
}

type ReservationFilter struct {
	PageQuery
	AutomobileID uint                        `form:"automobileId"`
	ClientID     uint                        `form:"clientId"`
	CategoryID   uint                        `form:"categoryId"`
	Status       constants.ReservationStatus `form:"status"`
	From         string                      `form:"from"`
	To           string                      `form:"to"`
}

type ReservationResponse struct {
	ID           uint                        `json:"id"`
	AutomobileID uint                        `json:"automobileId"`
	Vehicle      string                      `json:"vehicle,omitempty"`
	ClientID     uint                        `json:"clientId"`
	ClientName   string                      `json:"clientName,omitempty"`
	StartDate    string                      `json:"startDate"`
	EndDate      string                      `json:"endDate"`
	Days         int                         `json:"days"`
	Status       constants.ReservationStatus `json:"status"`
	Paid         bool                        `json:"paid"`
	TotalPrice   float64                     `json:"totalPrice"`
	Notes        string                      `json:"notes,omitempty"`
	CreatedAt    time.Time                   `json:"createdAt"`
	UpdatedAt    time.Time                   `json:"updatedAt"`
}

// NewReservationResponse flattens a reservation with its preloaded relations.
func NewReservationResponse(r *models.Reservation) ReservationResponse {
	start, end := r.Period()
	resp := ReservationResponse{
		ID:           r.ID,
		AutomobileID: r.AutomobileID,
		ClientID:     r.ClientID,
		StartDate:    availability.FormatDate(start),
		EndDate:      availability.FormatDate(end),
		Status:       r.Status,
		Paid:         r.Paid,
		TotalPrice:   r.TotalPrice,
		Notes:        r.Notes,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if days, err := availability.DaysBetween(start, end); err == nil {
		resp.Days = days
	}
	if r.Automobile != nil {
		resp.Vehicle = r.Automobile.Name()
	}
	if r.Client != nil {
		resp.ClientName = r.Client.FullName()
	}
	return resp
}

func NewReservationResponses(list []models.Reservation) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(list))
	for i := range list {
		out = append(out, NewReservationResponse(&list[i]))
	}
	return out
}
