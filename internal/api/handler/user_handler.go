package handler

import (
	"net/http"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	users.Use(middleware.RequireAuth())
	{
		// The /me alias must be declared alongside the :username routes;
		// "me" itself is a reserved username so the two never collide.
		users.GET("/me", h.GetSelf)
		users.PATCH("/me", h.UpdateSelf)

		users.GET("", h.List)
		users.POST("", h.Create)
		users.GET("/:username", h.Get)
		users.PATCH("/:username", h.Update)
		users.DELETE("/:username", h.Delete)
	}
}

// List returns all users. Admin only.
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)

	users, err := h.userService.List(c.Request.Context(), middleware.CurrentUser(c), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Create adds a user with an explicit role. Admin only.
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Get returns a user by username. Self or admin.
// GET /api/v1/users/:username
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.GetByUsername(c.Request.Context(), middleware.CurrentUser(c), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update patches a user by username. Self or admin; role changes apply
// only for admins.
// PATCH /api/v1/users/:username
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.UpdateByUsername(c.Request.Context(), middleware.CurrentUser(c), c.Param("username"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete removes a user. Admin only.
// DELETE /api/v1/users/:username
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("username")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSelf returns the authenticated user's own profile.
// GET /api/v1/users/me
func (h *UserHandler) GetSelf(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	user, err := h.userService.GetByUsername(c.Request.Context(), actor, actor.Username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateSelf patches the authenticated user's own profile.
// PATCH /api/v1/users/me
func (h *UserHandler) UpdateSelf(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.UpdateSelf(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
