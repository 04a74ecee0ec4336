package handler

import (
	"net/http"
	"strconv"
	"time"

	"console/internal/access"
	"console/internal/middleware"
	"console/internal/model"
	"console/internal/service"
	"console/pkg/response"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	eventService service.EventService
	auth         *middleware.Auth
	now          func() time.Time
}

func NewEventHandler(eventService service.EventService, auth *middleware.Auth) *EventHandler {
	return &EventHandler{eventService: eventService, auth: auth, now: time.Now}
}

func (h *EventHandler) RegisterRoutes(router *gin.RouterGroup) {
	events := router.Group("/api/events")
	events.Use(h.auth.RequireSession(), middleware.RequireSection(access.SectionConcerts))
	{
		events.GET("", h.ListEvents)
		events.GET("/stats", h.GetStats)
		events.GET("/report", h.GetReport)
		events.GET("/:id", h.GetEvent)
		events.POST("", h.SaveEvent)
		events.PUT("/:id", h.SaveEvent)
		events.DELETE("/:id", h.DeleteEvent)
	}

	// Shared with artists, no session
	router.GET("/api/public/events/:id", h.GetPublicEvent)
}

// ListEvents returns every event with its cancellation flag and rentals applied
// @Summary      List events
// @Tags         events
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.ConcertEvent}
// @Router       /api/events [get]
func (h *EventHandler) ListEvents(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.eventService.List(c.Request.Context())))
}

// GetEvent returns a single event
// @Summary      Get event
// @Tags         events
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Event ID"
// @Success      200  {object}  response.Response{data=model.ConcertEvent}
// @Failure      404  {object}  response.Response
// @Router       /api/events/{id} [get]
func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.eventService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, event))
}

// SaveEvent creates an event, or replaces the one named in the path
// @Summary      Create or update event
// @Description  Writes the event row together with its cancellation flag and rented equipment. Admins only.
// @Tags         events
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string              false  "Event ID (PUT only)"
// @Param        payload  body      model.ConcertEvent  true   "Event"
// @Success      200      {object}  response.Response{data=model.ConcertEvent}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/events [post]
// @Router       /api/events/{id} [put]
func (h *EventHandler) SaveEvent(c *gin.Context) {
	var event model.ConcertEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		badRequest(c, err)
		return
	}
	if id := c.Param("id"); id != "" {
		event.ID = id
	}

	saved, err := h.eventService.Save(c.Request.Context(), middleware.CurrentUser(c), event)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, saved))
}

// DeleteEvent removes the event and its overlays
// @Summary      Delete event
// @Tags         events
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Event ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/events/{id} [delete]
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	if err := h.eventService.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Event deleted successfully"))
}

// GetStats returns the monthly paid/free split and staff workload
// @Summary      Monthly event statistics
// @Tags         events
// @Security     BearerAuth
// @Produce      json
// @Param        year   query     int  false  "Year (default current)"
// @Param        month  query     int  false  "Month 1-12 (default current)"
// @Success      200    {object}  response.Response{data=service.EventStats}
// @Failure      400    {object}  response.Response
// @Router       /api/events/stats [get]
func (h *EventHandler) GetStats(c *gin.Context) {
	now := h.now()
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid year"))
		return
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid month"))
		return
	}

	stats := h.eventService.MonthlyStats(c.Request.Context(), year, time.Month(month))
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// GetReport returns the staffing report for the week or month around a date
// @Summary      Staffing report
// @Tags         events
// @Security     BearerAuth
// @Produce      json
// @Param        kind  query     string  false  "month or week (default month)"
// @Param        date  query     string  false  "Any day inside the period, YYYY-MM-DD (default today)"
// @Success      200   {object}  response.Response{data=service.EventReport}
// @Failure      400   {object}  response.Response
// @Router       /api/events/report [get]
func (h *EventHandler) GetReport(c *gin.Context) {
	at := h.now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, at.Location())
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD"))
			return
		}
		at = parsed
	}

	kind := service.ReportKind(c.DefaultQuery("kind", string(service.ReportMonth)))
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.eventService.Report(c.Request.Context(), kind, at)))
}

// GetPublicEvent is the artist-facing event page
// @Summary      Public event page
// @Tags         public
// @Produce      json
// @Param        id   path      string  true  "Event ID"
// @Success      200  {object}  response.Response{data=service.PublicEventView}
// @Failure      404  {object}  response.Response
// @Router       /api/public/events/{id} [get]
func (h *EventHandler) GetPublicEvent(c *gin.Context) {
	view, err := h.eventService.PublicEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, view))
}
