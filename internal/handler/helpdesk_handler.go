package handler

import (
	"net/http"

	"console/internal/access"
	"console/internal/middleware"
	"console/internal/model"
	"console/internal/service"
	"console/pkg/response"

	"github.com/gin-gonic/gin"
)

type TicketStatusRequest struct {
	Status model.TicketStatus `json:"status" binding:"required"`
}

type TicketNoteRequest struct {
	Text string `json:"text" binding:"required"`
}

type HelpdeskHandler struct {
	helpdeskService service.HelpdeskService
	auth            *middleware.Auth
}

func NewHelpdeskHandler(helpdeskService service.HelpdeskService, auth *middleware.Auth) *HelpdeskHandler {
	return &HelpdeskHandler{helpdeskService: helpdeskService, auth: auth}
}

func (h *HelpdeskHandler) RegisterRoutes(router *gin.RouterGroup) {
	tickets := router.Group("/api/tickets")
	tickets.Use(h.auth.RequireSession(), middleware.RequireCapability("helpdesk.view", access.CanSeeHelpdesk))
	{
		tickets.GET("", h.ListTickets)
		tickets.GET("/stats", h.GetStats)
		tickets.POST("", h.CreateTicket)
		tickets.PUT("/:id/status", h.UpdateStatus)
		tickets.POST("/:id/notes", h.AddNote)
		tickets.DELETE("/:id", h.DeleteTicket)
	}
}

// ListTickets returns the tickets visible to the caller, newest first
// @Summary      List tickets
// @Description  IT executors see every ticket; everyone else sees only their own.
// @Tags         helpdesk
// @Security     BearerAuth
// @Produce      json
// @Param        type  query     string  false  "Ticket type filter"
// @Success      200   {object}  response.Response{data=[]model.HelpdeskTicket}
// @Router       /api/tickets [get]
func (h *HelpdeskHandler) ListTickets(c *gin.Context) {
	tickets := h.helpdeskService.List(c.Request.Context(), middleware.CurrentUser(c), model.TicketType(c.Query("type")))
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tickets))
}

// GetStats
// @Summary      Ticket statistics
// @Tags         helpdesk
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.TicketStats}
// @Router       /api/tickets/stats [get]
func (h *HelpdeskHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.helpdeskService.Stats(c.Request.Context(), middleware.CurrentUser(c))))
}

// CreateTicket files a ticket and applies the routing rule for its type
// @Summary      Create ticket
// @Tags         helpdesk
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateTicketRequest  true  "Ticket form"
// @Success      201      {object}  response.Response{data=model.HelpdeskTicket}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/tickets [post]
func (h *HelpdeskHandler) CreateTicket(c *gin.Context) {
	var req service.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ticket, err := h.helpdeskService.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, ticket))
}

// UpdateStatus moves a ticket through its workflow. Executors only.
// @Summary      Change ticket status
// @Tags         helpdesk
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Ticket ID"
// @Param        payload  body      TicketStatusRequest  true  "New status"
// @Success      200      {object}  response.Response{data=model.HelpdeskTicket}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/tickets/{id}/status [put]
func (h *HelpdeskHandler) UpdateStatus(c *gin.Context) {
	var req TicketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ticket, err := h.helpdeskService.UpdateStatus(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, ticket))
}

// AddNote
// @Summary      Add internal note
// @Tags         helpdesk
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string             true  "Ticket ID"
// @Param        payload  body      TicketNoteRequest  true  "Note"
// @Success      200      {object}  response.Response{data=model.HelpdeskTicket}
// @Router       /api/tickets/{id}/notes [post]
func (h *HelpdeskHandler) AddNote(c *gin.Context) {
	var req TicketNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ticket, err := h.helpdeskService.AddNote(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, ticket))
}

// DeleteTicket
// @Summary      Delete ticket
// @Tags         helpdesk
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Ticket ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/tickets/{id} [delete]
func (h *HelpdeskHandler) DeleteTicket(c *gin.Context) {
	if err := h.helpdeskService.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Ticket deleted successfully"))
}
