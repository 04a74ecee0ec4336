package handler

import (
	"net/http"
	"strconv"

	"console/internal/access"
	"console/internal/middleware"
	"console/internal/model"
	"console/internal/service"
	"console/pkg/response"

	"github.com/gin-gonic/gin"
)

type ParkingHandler struct {
	parkingService service.ParkingService
	auth           *middleware.Auth
}

func NewParkingHandler(parkingService service.ParkingService, auth *middleware.Auth) *ParkingHandler {
	return &ParkingHandler{parkingService: parkingService, auth: auth}
}

func (h *ParkingHandler) RegisterRoutes(router *gin.RouterGroup) {
	parking := router.Group("/api/vehicles")
	parking.Use(h.auth.RequireSession(), middleware.RequireSection(access.SectionParking))
	{
		parking.GET("", h.ListVehicles)
		parking.GET("/stats", h.GetStats)
		parking.POST("", h.SaveVehicle)
		parking.PUT("/:id", h.SaveVehicle)
		parking.DELETE("/:id", h.DeleteVehicle)
	}

	router.GET("/api/watchman", h.auth.RequireSession(), middleware.RequireSection(access.SectionWatchman), h.GetWatchman)
}

// ListVehicles
// @Summary      List vehicles
// @Description  Vehicles of one category, expected arrivals first.
// @Tags         parking
// @Security     BearerAuth
// @Produce      json
// @Param        category  query     string  false  "staff, guest, service or emergency (default staff)"
// @Param        search    query     string  false  "Owner, plate, department or model"
// @Success      200       {object}  response.Response{data=[]model.Vehicle}
// @Router       /api/vehicles [get]
func (h *ParkingHandler) ListVehicles(c *gin.Context) {
	vehicles := h.parkingService.List(c.Request.Context(), service.ParkingQuery{
		Category: model.VehicleCategory(c.Query("category")),
		Search:   c.Query("search"),
	})
	c.JSON(http.StatusOK, response.Success(http.StatusOK, vehicles))
}

// GetStats
// @Summary      Parking statistics
// @Tags         parking
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.ParkingStats}
// @Router       /api/vehicles/stats [get]
func (h *ParkingHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.parkingService.Stats(c.Request.Context())))
}

// SaveVehicle creates a pass, or replaces the one named in the path
// @Summary      Create or update vehicle
// @Tags         parking
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string         false  "Vehicle ID (PUT only)"
// @Param        payload  body      model.Vehicle  true   "Vehicle"
// @Success      200      {object}  response.Response{data=model.Vehicle}
// @Failure      400      {object}  response.Response
// @Router       /api/vehicles [post]
// @Router       /api/vehicles/{id} [put]
func (h *ParkingHandler) SaveVehicle(c *gin.Context) {
	var v model.Vehicle
	if err := c.ShouldBindJSON(&v); err != nil {
		badRequest(c, err)
		return
	}
	if id := c.Param("id"); id != "" {
		v.ID = id
	}

	saved, err := h.parkingService.Save(c.Request.Context(), middleware.CurrentUser(c), v)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, saved))
}

// DeleteVehicle
// @Summary      Delete vehicle
// @Tags         parking
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Vehicle ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/vehicles/{id} [delete]
func (h *ParkingHandler) DeleteVehicle(c *gin.Context) {
	if err := h.parkingService.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Vehicle deleted successfully"))
}

// GetWatchman is the security post view: events, crew and expected vehicles of a day
// @Summary      Watchman post
// @Tags         parking
// @Security     BearerAuth
// @Produce      json
// @Param        day     query     int     false  "0 today, 1 tomorrow, 2 the day after"
// @Param        search  query     string  false  "Plate or owner lookup across all vehicles"
// @Success      200     {object}  response.Response{data=service.WatchmanView}
// @Failure      400     {object}  response.Response
// @Router       /api/watchman [get]
func (h *ParkingHandler) GetWatchman(c *gin.Context) {
	day, err := strconv.Atoi(c.DefaultQuery("day", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid day offset"))
		return
	}

	view, err := h.parkingService.Watchman(c.Request.Context(), middleware.CurrentUser(c), day, c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, view))
}
