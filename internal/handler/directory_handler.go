package handler

import (
	"net/http"

	"console/internal/middleware"
	"console/internal/model"
	"console/internal/service"
	"console/pkg/response"

	"github.com/gin-gonic/gin"
)

type VenueRequest struct {
	Name string `json:"name" binding:"required"`
}

type DirectoryHandler struct {
	directoryService service.DirectoryService
	auth             *middleware.Auth
}

func NewDirectoryHandler(directoryService service.DirectoryService, auth *middleware.Auth) *DirectoryHandler {
	return &DirectoryHandler{directoryService: directoryService, auth: auth}
}

func (h *DirectoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	dir := router.Group("/api/directory")
	dir.Use(h.auth.RequireSession())
	{
		dir.GET("", h.GetDirectory)
		dir.PUT("", h.SaveDirectory)

		dir.POST("/employees", h.AddEmployee)
		dir.PUT("/employees/:id", h.UpdateEmployee)
		dir.DELETE("/employees/:id", h.RemoveEmployee)

		dir.POST("/venues", h.AddVenue)
		dir.DELETE("/venues/:name", h.RemoveVenue)

		dir.PUT("/ticket-rules", h.SetTicketRule)
		dir.DELETE("/ticket-rules/:type", h.RemoveTicketRule)
	}

	router.GET("/api/phonebook", h.auth.RequireSession(), h.GetPhoneBook)
}

// GetDirectory returns the staff directory every console view reads from
// @Summary      Get directory
// @Tags         directory
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.StaffDirectory}
// @Router       /api/directory [get]
func (h *DirectoryHandler) GetDirectory(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.directoryService.Get(c.Request.Context())))
}

// SaveDirectory replaces the whole directory
// @Summary      Replace directory
// @Tags         directory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      model.StaffDirectory  true  "Directory"
// @Success      200      {object}  response.Response{data=model.StaffDirectory}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/directory [put]
func (h *DirectoryHandler) SaveDirectory(c *gin.Context) {
	var dir model.StaffDirectory
	if err := c.ShouldBindJSON(&dir); err != nil {
		badRequest(c, err)
		return
	}

	saved, err := h.directoryService.Save(c.Request.Context(), middleware.CurrentUser(c), dir)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, saved))
}

// AddEmployee appends an employee to the directory
// @Summary      Add employee
// @Tags         directory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.EmployeeRequest  true  "Employee"
// @Success      201      {object}  response.Response{data=model.Employee}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/directory/employees [post]
func (h *DirectoryHandler) AddEmployee(c *gin.Context) {
	var req service.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	emp, err := h.directoryService.AddEmployee(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, emp))
}

// UpdateEmployee edits an employee in place
// @Summary      Update employee
// @Tags         directory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Employee ID"
// @Param        payload  body      service.EmployeeRequest  true  "Employee"
// @Success      200      {object}  response.Response{data=model.Employee}
// @Failure      404      {object}  response.Response
// @Router       /api/directory/employees/{id} [put]
func (h *DirectoryHandler) UpdateEmployee(c *gin.Context) {
	var req service.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	emp, err := h.directoryService.UpdateEmployee(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, emp))
}

// RemoveEmployee
// @Summary      Remove employee
// @Tags         directory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/directory/employees/{id} [delete]
func (h *DirectoryHandler) RemoveEmployee(c *gin.Context) {
	if err := h.directoryService.RemoveEmployee(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Employee removed"))
}

// AddVenue
// @Summary      Add venue
// @Tags         directory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      VenueRequest  true  "Venue"
// @Success      200      {object}  response.Response
// @Router       /api/directory/venues [post]
func (h *DirectoryHandler) AddVenue(c *gin.Context) {
	var req VenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.directoryService.AddVenue(c.Request.Context(), middleware.CurrentUser(c), req.Name); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Venue added"))
}

// RemoveVenue
// @Summary      Remove venue
// @Tags         directory
// @Security     BearerAuth
// @Produce      json
// @Param        name  path      string  true  "Venue name"
// @Success      200   {object}  response.Response
// @Router       /api/directory/venues/{name} [delete]
func (h *DirectoryHandler) RemoveVenue(c *gin.Context) {
	if err := h.directoryService.RemoveVenue(c.Request.Context(), middleware.CurrentUser(c), c.Param("name")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Venue removed"))
}

// SetTicketRule routes a ticket type to a fixed assignee
// @Summary      Set ticket routing rule
// @Tags         directory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.TicketRuleRequest  true  "Rule"
// @Success      200      {object}  response.Response{data=model.TicketRule}
// @Failure      400      {object}  response.Response
// @Router       /api/directory/ticket-rules [put]
func (h *DirectoryHandler) SetTicketRule(c *gin.Context) {
	var req service.TicketRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	rule, err := h.directoryService.SetTicketRule(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rule))
}

// RemoveTicketRule
// @Summary      Remove ticket routing rule
// @Tags         directory
// @Security     BearerAuth
// @Produce      json
// @Param        type  path      string  true  "Ticket type"
// @Success      200   {object}  response.Response
// @Router       /api/directory/ticket-rules/{type} [delete]
func (h *DirectoryHandler) RemoveTicketRule(c *gin.Context) {
	err := h.directoryService.RemoveTicketRule(c.Request.Context(), middleware.CurrentUser(c), model.TicketType(c.Param("type")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Rule removed"))
}

// GetPhoneBook searches the internal phone book
// @Summary      Phone book
// @Tags         directory
// @Security     BearerAuth
// @Produce      json
// @Param        department  query     string  false  "Department filter"
// @Param        search      query     string  false  "Name, position or number"
// @Success      200         {object}  response.Response{data=[]model.PhoneRecord}
// @Router       /api/phonebook [get]
func (h *DirectoryHandler) GetPhoneBook(c *gin.Context) {
	records := h.directoryService.PhoneBook(c.Request.Context(), service.PhoneBookQuery{
		Department: c.Query("department"),
		Search:     c.Query("search"),
	})
	c.JSON(http.StatusOK, response.Success(http.StatusOK, records))
}
