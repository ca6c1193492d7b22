package controllers

import (
	"locationsguard/response"
	"locationsguard/services"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	Dashboard *services.DashboardService
}

func NewDashboardController(dashboard *services.DashboardService) DashboardController {
	return DashboardController{Dashboard: dashboard}
}

// GetDashboard godoc
// @Summary  Fleet and reservation figures
// @Tags     dashboard
// @Produce  json
// @Success  200 {object} response.Response{data=dto.DashboardSummary}
// @Router   /dashboard [get]
func (d DashboardController) GetDashboard(c *gin.Context) {
	summary, err := d.Dashboard.Summary(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, summary)
}
