package controllers

import (
	"time"

	"locationsguard/availability"
	"locationsguard/dto"
	"locationsguard/response"
	"locationsguard/services"

	"github.com/gin-gonic/gin"
)

type ReservationController struct {
	Reservations *services.ReservationService
	Booking      *services.BookingFacade
}

func NewReservationController(reservations *services.ReservationService, booking *services.BookingFacade) ReservationController {
	return ReservationController{Reservations: reservations, Booking: booking}
}

func parseOptionalDate(c *gin.Context, value, name string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	d, err := availability.ParseDate(value)
	if err != nil {
		response.BadRequest(c, "Invalid "+name)
		return nil, false
	}
	return &d, true
}

// GetReservations godoc
// @Summary  List reservations
// @Tags     reservations
// @Produce  json
// @Param    automobileId query int    false "vehicle"
// @Param    clientId     query int    false "client"
// @Param    categoryId   query int    false "vehicle category"
// @Param    status       query string false "PENDING, CONFIRMED, CANCELLED or COMPLETED"
// @Param    from         query string false "overlapping from (2006-01-02)"
// @Param    to           query string false "overlapping to (2006-01-02)"
// @Success  200 {object} response.Response{data=[]dto.ReservationResponse}
// @Router   /reservations [get]
func (r ReservationController) GetReservations(c *gin.Context) {
	var filter dto.ReservationFilter
	if !bindQuery(c, &filter) {
		return
	}
	filter.PageQuery = filter.PageQuery.Normalize()
	if filter.Status != "" && !filter.Status.Valid() {
		response.BadRequest(c, "Invalid status")
		return
	}
	from, ok := parseOptionalDate(c, filter.From, "from")
	if !ok {
		return
	}
	to, ok := parseOptionalDate(c, filter.To, "to")
	if !ok {
		return
	}

	list, total, err := r.Reservations.List(c.Request.Context(), services.ReservationQuery{
		AutomobileID: filter.AutomobileID,
		ClientID:     filter.ClientID,
		CategoryID:   filter.CategoryID,
		Status:       filter.Status,
		From:         from,
		To:           to,
		Page:         filter.Page,
		Limit:        filter.Limit,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithPagination(c, dto.NewReservationResponses(list), filter.Page, filter.Limit, int(total))
}

func (r ReservationController) GetReservationByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	reservation, err := r.Reservations.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, dto.NewReservationResponse(reservation))
}

// CreateReservation godoc
// @Summary  Book a vehicle for a client
// @Tags     reservations
// @Accept   json
// @Produce  json
// @Param    body body dto.CreateReservationRequest true "reservation"
// @Success  201 {object} response.Response{data=dto.ReservationResponse}
// @Failure  409 {object} response.Response
// @Router   /reservations [post]
func (r ReservationController) CreateReservation(c *gin.Context) {
	var req dto.CreateReservationRequest
	if !bindJSON(c, &req) {
		return
	}
	reservation, err := r.Booking.CreateReservation(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, dto.NewReservationResponse(reservation))
}

func (r ReservationController) UpdateReservation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateReservationRequest
	if !bindJSON(c, &req) {
		return
	}
	reservation, err := r.Booking.UpdateReservation(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, dto.NewReservationResponse(reservation))
}

func (r ReservationController) DeleteReservation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := r.Booking.DeleteReservation(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}

// ChangeStatus godoc
// @Summary  Confirm, cancel or complete a reservation
// @Tags     reservations
// @Accept   json
// @Produce  json
// @Param    id   path int                     true "reservation id"
// @Param    body body dto.StatusUpdateRequest true "target status"
// @Success  200 {object} response.Response{data=dto.ReservationResponse}
// @Failure  409 {object} response.Response
// @Router   /reservations/{id}/status [put]
func (r ReservationController) ChangeStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.StatusUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	reservation, err := r.Booking.ChangeStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, dto.NewReservationResponse(reservation))
}

func (r ReservationController) MarkPaid(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.PaidUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "paid is required")
		return
	}
	reservation, err := r.Booking.MarkPaid(c.Request.Context(), id, *req.Paid)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, dto.NewReservationResponse(reservation))
}
