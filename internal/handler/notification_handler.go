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

type NotificationHandler struct {
	notificationService service.NotificationService
	auth                *middleware.Auth
}

func NewNotificationHandler(notificationService service.NotificationService, auth *middleware.Auth) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, auth: auth}
}

func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/notifications")
	group.Use(h.auth.RequireSession(), middleware.RequireCapability("settings.manage", access.IsAdmin))
	{
		group.GET("/config", h.GetConfig)
		group.PUT("/config", h.SaveConfig)
		group.POST("/digest", h.RunDigest)
	}
}

// GetConfig
// @Summary      Digest configuration
// @Tags         notifications
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.NotificationConfig}
// @Router       /api/notifications/config [get]
func (h *NotificationHandler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.notificationService.Config(c.Request.Context())))
}

// SaveConfig stores the config and reschedules the digest job
// @Summary      Update digest configuration
// @Tags         notifications
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      model.NotificationConfig  true  "Config"
// @Success      200      {object}  response.Response{data=model.NotificationConfig}
// @Failure      400      {object}  response.Response
// @Router       /api/notifications/config [put]
func (h *NotificationHandler) SaveConfig(c *gin.Context) {
	var cfg model.NotificationConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		badRequest(c, err)
		return
	}

	saved, err := h.notificationService.SaveConfig(c.Request.Context(), middleware.CurrentUser(c), cfg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, saved))
}

// RunDigest builds the reminder digest now and broadcasts it when something is due
// @Summary      Run digest now
// @Tags         notifications
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.Digest}
// @Router       /api/notifications/digest [post]
func (h *NotificationHandler) RunDigest(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.notificationService.RunDigest(c.Request.Context())))
}
