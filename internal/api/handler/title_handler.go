package handler

import (
	"net/http"
	"strconv"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type TitleHandler struct {
	titleService service.TitleService
	resolver     *service.ScopeResolver
}

func NewTitleHandler(titleService service.TitleService, resolver *service.ScopeResolver) *TitleHandler {
	return &TitleHandler{
		titleService: titleService,
		resolver:     resolver,
	}
}

func (h *TitleHandler) RegisterRoutes(router *gin.RouterGroup) {
	titles := router.Group("/titles")
	{
		titles.GET("", h.List)
		titles.POST("", h.Create)
		titles.GET("/:title_id", h.Get)
		titles.PATCH("/:title_id", h.Update)
		titles.DELETE("/:title_id", h.Delete)
	}
}

// List returns titles with their derived ratings. Filterable by
// ?name=, ?year=, ?category= and ?genre= (slugs).
// GET /api/v1/titles
func (h *TitleHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)

	year, _ := strconv.Atoi(c.Query("year"))
	filter := repository.TitleFilter{
		Name:         c.Query("name"),
		Year:         year,
		CategorySlug: c.Query("category"),
		GenreSlug:    c.Query("genre"),
	}

	titles, err := h.titleService.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, titles)
}

// Get returns one title with its derived rating.
// GET /api/v1/titles/:title_id
func (h *TitleHandler) Get(c *gin.Context) {
	titleID, ok := parseID(c, "title_id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
		return
	}

	title, err := h.resolver.Title(c.Request.Context(), titleID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.titleService.Get(c.Request.Context(), title)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create adds a title. Admin only.
// POST /api/v1/titles
func (h *TitleHandler) Create(c *gin.Context) {
	var req dto.CreateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	title, err := h.titleService.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, title)
}

// Update patches a title. Admin only.
// PATCH /api/v1/titles/:title_id
func (h *TitleHandler) Update(c *gin.Context) {
	titleID, ok := parseID(c, "title_id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
		return
	}

	var req dto.UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	title, err := h.resolver.Title(c.Request.Context(), titleID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.titleService.Update(c.Request.Context(), middleware.CurrentUser(c), title, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete removes a title and, through cascades, its reviews and
// comments. Admin only.
// DELETE /api/v1/titles/:title_id
func (h *TitleHandler) Delete(c *gin.Context) {
	titleID, ok := parseID(c, "title_id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
		return
	}

	if err := h.titleService.Delete(c.Request.Context(), middleware.CurrentUser(c), titleID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
