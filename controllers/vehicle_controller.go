package controllers

import (
	"strconv"

	"locationsguard/dto"
	"locationsguard/response"
	"locationsguard/services"

	"github.com/gin-gonic/gin"
)

type VehicleController struct {
	Vehicles     *services.VehicleService
	Reservations *services.ReservationService
	Booking      *services.BookingFacade
	Dashboard    *services.DashboardService
}

type VehicleControllerOptions struct {
	Vehicles     *services.VehicleService
	Reservations *services.ReservationService
	Booking      *services.BookingFacade
	Dashboard    *services.DashboardService
}

func NewVehicleController(opts VehicleControllerOptions) VehicleController {
	return VehicleController(opts)
}

// GetVehicles godoc
// @Summary  List vehicles
// @Tags     vehicles
// @Produce  json
// @Param    categoryId   query int    false "category"
// @Param    available    query bool   false "availability flag"
// @Param    brand        query string false "brand"
// @Param    page         query int    false "page (from 0)"
// @Param    limit        query int    false "page size"
// @Success  200 {object} response.Response{data=[]models.Automobile}
// @Router   /vehicles [get]
func (v VehicleController) GetVehicles(c *gin.Context) {
	var filter dto.VehicleFilter
	if !bindQuery(c, &filter) {
		return
	}
	filter.PageQuery = filter.PageQuery.Normalize()

	vehicles, total, err := v.Vehicles.List(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithPagination(c, vehicles, filter.Page, filter.Limit, int(total))
}

func (v VehicleController) SearchVehicles(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	results, err := v.Vehicles.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, results)
}

func (v VehicleController) GetVehicleByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	vehicle, err := v.Vehicles.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, vehicle)
}

func (v VehicleController) CreateVehicle(c *gin.Context) {
	var req dto.VehicleRequest
	if !bindJSON(c, &req) {
		return
	}
	vehicle, err := v.Vehicles.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, vehicle)
}

func (v VehicleController) UpdateVehicle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.VehicleRequest
	if !bindJSON(c, &req) {
		return
	}
	vehicle, err := v.Vehicles.Update(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, vehicle)
}

func (v VehicleController) DeleteVehicle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := v.Vehicles.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}

func (v VehicleController) SetAvailability(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.VehicleAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "available is required")
		return
	}
	vehicle, err := v.Vehicles.SetAvailability(c.Request.Context(), id, *req.Available)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, vehicle)
}

func (v VehicleController) GetVehicleReservations(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := v.Vehicles.GetByID(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	list, err := v.Reservations.ListByVehicle(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, dto.NewReservationResponses(list))
}

// CheckAvailability godoc
// @Summary  Check whether a vehicle can be booked for a period
// @Tags     vehicles
// @Produce  json
// @Param    id    path  int    true "vehicle id"
// @Param    start query string true "first day (2006-01-02)"
// @Param    end   query string true "last day (2006-01-02)"
// @Success  200 {object} response.Response{data=dto.AvailabilityResponse}
// @Failure  503 {object} response.Response
// @Router   /vehicles/{id}/availability [get]
func (v VehicleController) CheckAvailability(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := v.Booking.CheckAvailability(c.Request.Context(), id, c.Query("start"), c.Query("end"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, resp)
}

// GetCalendar godoc
// @Summary  Month view of a vehicle with disabled days
// @Tags     vehicles
// @Produce  json
// @Param    id       path  int    true  "vehicle id"
// @Param    month    query string true  "month (2006-01)"
// @Param    selStart query string false "start of the range being edited"
// @Param    selEnd   query string false "end of the range being edited"
// @Success  200 {object} response.Response{data=dto.CalendarResponse}
// @Failure  503 {object} response.Response
// @Router   /vehicles/{id}/calendar [get]
func (v VehicleController) GetCalendar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	calendar, err := v.Dashboard.VehicleCalendar(c.Request.Context(), id, c.Query("month"), c.Query("selStart"), c.Query("selEnd"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, calendar)
}
