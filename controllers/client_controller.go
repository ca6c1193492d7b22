package controllers

import (
	"locationsguard/dto"
	"locationsguard/response"
	"locationsguard/services"

	"github.com/gin-gonic/gin"
)

type ClientController struct {
	Clients      *services.ClientService
	Reservations *services.ReservationService
}

func NewClientController(clients *services.ClientService, reservations *services.ReservationService) ClientController {
	return ClientController{Clients: clients, Reservations: reservations}
}

func (cc ClientController) GetClients(c *gin.Context) {
	var filter dto.ClientFilter
	if !bindQuery(c, &filter) {
		return
	}
	filter.PageQuery = filter.PageQuery.Normalize()

	clients, total, err := cc.Clients.List(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithPagination(c, clients, filter.Page, filter.Limit, int(total))
}

func (cc ClientController) GetClientByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	client, err := cc.Clients.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, client)
}

func (cc ClientController) CreateClient(c *gin.Context) {
	var req dto.ClientRequest
	if !bindJSON(c, &req) {
		return
	}
	client, err := cc.Clients.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, client)
}

func (cc ClientController) UpdateClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ClientRequest
	if !bindJSON(c, &req) {
		return
	}
	client, err := cc.Clients.Update(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, client)
}

func (cc ClientController) DeleteClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := cc.Clients.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}

// GetClientReservations lists the rental history of a client, newest first.
func (cc ClientController) GetClientReservations(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := cc.Clients.GetByID(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	var page dto.PageQuery
	if !bindQuery(c, &page) {
		return
	}
	page = page.Normalize()

	list, total, err := cc.Reservations.List(c.Request.Context(), services.ReservationQuery{
		ClientID: id,
		Page:     page.Page,
		Limit:    page.Limit,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithPagination(c, dto.NewReservationResponses(list), page.Page, page.Limit, int(total))
}
