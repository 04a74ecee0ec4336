package handler

import (
	"context"
	"net/http"
	"time"

	"console/pkg/response"

	"github.com/gin-gonic/gin"
)

// Pinger checks the settings store connection
type Pinger interface {
	Ping(ctx context.Context) error
}

type SystemHandler struct {
	store   Pinger
	started time.Time
}

func NewSystemHandler(store Pinger) *SystemHandler {
	return &SystemHandler{store: store, started: time.Now()}
}

func (h *SystemHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.Health)
	router.GET("/api/status", h.Status)
}

// Health is the liveness probe
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Status reports whether the settings store is reachable
// @Summary      Service status
// @Tags         system
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Failure      503  {object}  response.Response
// @Router       /api/status [get]
func (h *SystemHandler) Status(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, response.Error(http.StatusServiceUnavailable, "settings store unreachable: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"database": "connected",
		"uptime":   time.Since(h.started).Round(time.Second).String(),
	}))
}
