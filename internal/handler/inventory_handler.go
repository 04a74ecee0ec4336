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

type InventoryHandler struct {
	inventoryService service.InventoryService
	auth             *middleware.Auth
}

func NewInventoryHandler(inventoryService service.InventoryService, auth *middleware.Auth) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService, auth: auth}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	inventory := router.Group("/api/inventory")
	inventory.Use(h.auth.RequireSession(), middleware.RequireCapability("inventory.view", access.CanSeeInventory))
	{
		inventory.GET("", h.GetItems)
		inventory.GET("/stats", h.GetStats)
		inventory.POST("", h.SaveItem)
		inventory.PUT("/:id", h.SaveItem)
		inventory.DELETE("/:id", h.DeleteItem)

		inventory.GET("/cabinets", h.GetCabinets)
		inventory.PUT("/cabinets/:cabinet", h.UpdateCabinet)
	}
}

// GetItems returns the inventory table
// @Summary      List inventory
// @Description  Without a search the rows are grouped: each root item is followed by its attached children. A search returns a flat list.
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        search      query     string  false  "Model, inventory or serial number, IP, responsible person"
// @Param        department  query     string  false  "Department filter"
// @Param        cabinet     query     string  false  "Cabinet filter"
// @Success      200         {object}  response.Response{data=[]service.InventoryRow}
// @Router       /api/inventory [get]
func (h *InventoryHandler) GetItems(c *gin.Context) {
	rows := h.inventoryService.List(c.Request.Context(), service.InventoryQuery{
		Search:     c.Query("search"),
		Department: c.Query("department"),
		Cabinet:    c.Query("cabinet"),
	})
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// GetStats
// @Summary      Inventory statistics
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.InventoryStats}
// @Router       /api/inventory/stats [get]
func (h *InventoryHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.inventoryService.Stats(c.Request.Context())))
}

// SaveItem creates an item, or replaces the one named in the path
// @Summary      Create or update inventory item
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string               false  "Item ID (PUT only)"
// @Param        payload  body      model.InventoryItem  true   "Item"
// @Success      200      {object}  response.Response{data=model.InventoryItem}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/inventory [post]
// @Router       /api/inventory/{id} [put]
func (h *InventoryHandler) SaveItem(c *gin.Context) {
	var item model.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		badRequest(c, err)
		return
	}
	if id := c.Param("id"); id != "" {
		item.ID = id
	}

	saved, err := h.inventoryService.Save(c.Request.Context(), middleware.CurrentUser(c), item)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, saved))
}

// DeleteItem removes an item and detaches its children
// @Summary      Delete inventory item
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/inventory/{id} [delete]
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	if err := h.inventoryService.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Item deleted successfully"))
}

// GetCabinets returns the audit metadata of every cabinet
// @Summary      Cabinet metadata
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=map[string]model.CabinetMetadata}
// @Router       /api/inventory/cabinets [get]
func (h *InventoryHandler) GetCabinets(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.inventoryService.Cabinets(c.Request.Context())))
}

// UpdateCabinet
// @Summary      Update cabinet metadata
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        cabinet  path      string                 true  "Cabinet name"
// @Param        payload  body      service.CabinetUpdate  true  "Fields to change"
// @Success      200      {object}  response.Response{data=model.CabinetMetadata}
// @Failure      403      {object}  response.Response
// @Router       /api/inventory/cabinets/{cabinet} [put]
func (h *InventoryHandler) UpdateCabinet(c *gin.Context) {
	var upd service.CabinetUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		badRequest(c, err)
		return
	}

	meta, err := h.inventoryService.UpdateCabinet(c.Request.Context(), middleware.CurrentUser(c), c.Param("cabinet"), upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, meta))
}
