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

// ContentHandler serves the knowledge base, reporting reminders and guest guides
type ContentHandler struct {
	articleService  service.ArticleService
	reminderService service.ReminderService
	guideService    service.GuideService
	auth            *middleware.Auth
}

func NewContentHandler(articles service.ArticleService, reminders service.ReminderService, guides service.GuideService, auth *middleware.Auth) *ContentHandler {
	return &ContentHandler{
		articleService:  articles,
		reminderService: reminders,
		guideService:    guides,
		auth:            auth,
	}
}

func (h *ContentHandler) RegisterRoutes(router *gin.RouterGroup) {
	articles := router.Group("/api/articles")
	articles.Use(h.auth.RequireSession(), middleware.RequireSection(access.SectionInfo))
	{
		articles.GET("", h.ListArticles)
		articles.POST("", h.SaveArticle)
		articles.PUT("/:id", h.SaveArticle)
		articles.DELETE("/:id", h.DeleteArticle)
	}

	reminders := router.Group("/api/reminders")
	reminders.Use(h.auth.RequireSession(), middleware.RequireSection(access.SectionDashboard))
	{
		reminders.GET("", h.ListReminders)
		reminders.POST("", h.CreateReminder)
		reminders.POST("/:id/toggle", h.ToggleReminder)
		reminders.DELETE("/:id", h.DeleteReminder)
	}

	guides := router.Group("/api/guides")
	guides.Use(h.auth.RequireSession(), middleware.RequireSection(access.SectionConcerts))
	{
		guides.GET("", h.ListGuides)
		guides.GET("/template", h.GuideTemplate)
		guides.POST("", h.SaveGuide)
		guides.PUT("/:id", h.SaveGuide)
		guides.DELETE("/:id", h.DeleteGuide)
	}

	public := router.Group("/api/public")
	{
		public.GET("/articles", h.PublicArticles)
		public.GET("/guides/:id", h.PublicGuide)
	}
}

// ListArticles
// @Summary      List articles
// @Tags         knowledge-base
// @Security     BearerAuth
// @Produce      json
// @Param        category  query     string  false  "instruction, regulation, contact or note"
// @Param        search    query     string  false  "Title or content"
// @Success      200       {object}  response.Response{data=[]model.InfoArticle}
// @Router       /api/articles [get]
func (h *ContentHandler) ListArticles(c *gin.Context) {
	articles := h.articleService.List(c.Request.Context(), service.ArticleQuery{
		Category: model.ArticleCategory(c.Query("category")),
		Search:   c.Query("search"),
	})
	c.JSON(http.StatusOK, response.Success(http.StatusOK, articles))
}

// SaveArticle
// @Summary      Create or update article
// @Tags         knowledge-base
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string             false  "Article ID (PUT only)"
// @Param        payload  body      model.InfoArticle  true   "Article"
// @Success      200      {object}  response.Response{data=model.InfoArticle}
// @Failure      403      {object}  response.Response
// @Router       /api/articles [post]
// @Router       /api/articles/{id} [put]
func (h *ContentHandler) SaveArticle(c *gin.Context) {
	var a model.InfoArticle
	if err := c.ShouldBindJSON(&a); err != nil {
		badRequest(c, err)
		return
	}
	if id := c.Param("id"); id != "" {
		a.ID = id
	}

	saved, err := h.articleService.Save(c.Request.Context(), middleware.CurrentUser(c), a)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, saved))
}

// DeleteArticle
// @Summary      Delete article
// @Tags         knowledge-base
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Article ID"
// @Success      200  {object}  response.Response
// @Router       /api/articles/{id} [delete]
func (h *ContentHandler) DeleteArticle(c *gin.Context) {
	if err := h.articleService.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Article deleted successfully"))
}

// PublicArticles returns the articles shown on the login screen
// @Summary      Public articles
// @Tags         public
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.InfoArticle}
// @Router       /api/public/articles [get]
func (h *ContentHandler) PublicArticles(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.articleService.Public(c.Request.Context())))
}

// ListReminders returns reminders with their deadline labels
// @Summary      List reminders
// @Tags         reminders
// @Security     BearerAuth
// @Produce      json
// @Param        filter  query     string  false  "all, active or completed (default all)"
// @Success      200     {object}  response.Response{data=[]service.ReminderView}
// @Router       /api/reminders [get]
func (h *ContentHandler) ListReminders(c *gin.Context) {
	filter := service.ReminderFilter(c.DefaultQuery("filter", string(service.RemindersAll)))
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.reminderService.List(c.Request.Context(), filter)))
}

// CreateReminder
// @Summary      Create reminder
// @Tags         reminders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ReminderRequest  true  "Reminder"
// @Success      201      {object}  response.Response{data=model.Reminder}
// @Failure      400      {object}  response.Response
// @Router       /api/reminders [post]
func (h *ContentHandler) CreateReminder(c *gin.Context) {
	var req service.ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	r, err := h.reminderService.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, r))
}

// ToggleReminder flips the completion flag
// @Summary      Toggle reminder
// @Tags         reminders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Reminder ID"
// @Success      200  {object}  response.Response{data=model.Reminder}
// @Failure      404  {object}  response.Response
// @Router       /api/reminders/{id}/toggle [post]
func (h *ContentHandler) ToggleReminder(c *gin.Context) {
	r, err := h.reminderService.Toggle(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, r))
}

// DeleteReminder
// @Summary      Delete reminder
// @Tags         reminders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Reminder ID"
// @Success      200  {object}  response.Response
// @Router       /api/reminders/{id} [delete]
func (h *ContentHandler) DeleteReminder(c *gin.Context) {
	if err := h.reminderService.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Reminder deleted successfully"))
}

// ListGuides
// @Summary      List guest guides
// @Tags         guides
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.GuestGuide}
// @Router       /api/guides [get]
func (h *ContentHandler) ListGuides(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.guideService.List(c.Request.Context())))
}

// GuideTemplate returns a new guide prefilled with the house defaults
// @Summary      Guide template
// @Tags         guides
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.GuestGuide}
// @Router       /api/guides/template [get]
func (h *ContentHandler) GuideTemplate(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, service.NewGuide()))
}

// SaveGuide
// @Summary      Create or update guest guide
// @Tags         guides
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string            false  "Guide ID (PUT only)"
// @Param        payload  body      model.GuestGuide  true   "Guide"
// @Success      200      {object}  response.Response{data=model.GuestGuide}
// @Router       /api/guides [post]
// @Router       /api/guides/{id} [put]
func (h *ContentHandler) SaveGuide(c *gin.Context) {
	var g model.GuestGuide
	if err := c.ShouldBindJSON(&g); err != nil {
		badRequest(c, err)
		return
	}
	if id := c.Param("id"); id != "" {
		g.ID = id
	}

	saved, err := h.guideService.Save(c.Request.Context(), middleware.CurrentUser(c), g)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, saved))
}

// DeleteGuide
// @Summary      Delete guest guide
// @Tags         guides
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Guide ID"
// @Success      200  {object}  response.Response
// @Router       /api/guides/{id} [delete]
func (h *ContentHandler) DeleteGuide(c *gin.Context) {
	if err := h.guideService.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Guide deleted successfully"))
}

// PublicGuide is the artist-facing guide link; inactive guides are not found
// @Summary      Public guest guide
// @Tags         public
// @Produce      json
// @Param        id   path      string  true  "Guide ID"
// @Success      200  {object}  response.Response{data=model.GuestGuide}
// @Failure      404  {object}  response.Response
// @Router       /api/public/guides/{id} [get]
func (h *ContentHandler) PublicGuide(c *gin.Context) {
	g, err := h.guideService.Public(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, g))
}
