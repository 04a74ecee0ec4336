package handler

import (
	"net/http"

	"console/internal/access"
	"console/internal/middleware"
	"console/internal/model"
	"console/pkg/response"

	"github.com/gin-gonic/gin"
)

// RoleCatalogResponse is what the user management screen needs to render role pickers
type RoleCatalogResponse struct {
	Roles    []model.RoleDescriptor `json:"roles"`
	Sections []access.Section       `json:"sections"`
}

type RoleHandler struct {
	auth *middleware.Auth
}

func NewRoleHandler(auth *middleware.Auth) *RoleHandler {
	return &RoleHandler{auth: auth}
}

func (h *RoleHandler) RegisterRoutes(router *gin.RouterGroup) {
	roles := router.Group("/api/roles")
	roles.Use(h.auth.RequireSession(), middleware.RequireCapability("users.manage", access.IsAdmin))
	{
		roles.GET("", h.ListRoles)
	}
}

// ListRoles returns the assignable roles and the navigation order
// @Summary      List roles
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=RoleCatalogResponse}
// @Failure      403  {object}  response.Response
// @Router       /api/roles [get]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, RoleCatalogResponse{
		Roles:    model.RoleCatalog,
		Sections: access.NavigationOrder,
	}))
}
