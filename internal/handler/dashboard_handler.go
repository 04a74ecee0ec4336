package handler

import (
	"net/http"

	"console/internal/middleware"
	"console/internal/service"
	"console/pkg/response"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
	auth             *middleware.Auth
}

func NewDashboardHandler(dashboardService service.DashboardService, auth *middleware.Auth) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, auth: auth}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/dashboard", h.auth.RequireSession(), h.GetDashboard)
}

// GetDashboard returns the landing screen summary
// @Summary      Dashboard
// @Description  Today's and tomorrow's events, the next event, open tickets, expected vehicles, month progress, due reminders and birthdays.
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.Dashboard}
// @Failure      403  {object}  response.Response
// @Router       /api/dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	summary, err := h.dashboardService.Summary(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}
