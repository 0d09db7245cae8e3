package handler

import (
	"net/http"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
	resolver       *service.ScopeResolver
}

func NewCommentHandler(commentService service.CommentService, resolver *service.ScopeResolver) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		resolver:       resolver,
	}
}

func (h *CommentHandler) RegisterRoutes(router *gin.RouterGroup) {
	comments := router.Group("/titles/:title_id/reviews/:review_id/comments")
	{
		comments.GET("", h.List)
		comments.POST("", h.Create)
		comments.GET("/:comment_id", h.Get)
		comments.PATCH("/:comment_id", h.Update)
		comments.DELETE("/:comment_id", h.Delete)
	}
}

// reviewScope resolves the title/review prefix shared by every comment
// route.
func (h *CommentHandler) reviewScope(c *gin.Context) (reviewID int64, ok bool) {
	titleID, ok := parseID(c, "title_id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
		return 0, false
	}
	id, ok := parseID(c, "review_id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
		return 0, false
	}

	_, review, err := h.resolver.Review(c.Request.Context(), titleID, id)
	if err != nil {
		respondError(c, err)
		return 0, false
	}
	return review.ID, true
}

// List returns the comments of a review.
// GET /api/v1/titles/:title_id/reviews/:review_id/comments
func (h *CommentHandler) List(c *gin.Context) {
	reviewID, ok := h.reviewScope(c)
	if !ok {
		return
	}

	page, pageSize := parsePagination(c)
	comments, err := h.commentService.ListByReview(c.Request.Context(), reviewID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// Create posts a comment on a review.
// POST /api/v1/titles/:title_id/reviews/:review_id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	titleID, ok := parseID(c, "title_id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
		return
	}
	reviewID, ok := parseID(c, "review_id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	_, review, err := h.resolver.Review(c.Request.Context(), titleID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), middleware.CurrentUser(c), review, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// Get returns one comment of a review.
// GET /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Get(c *gin.Context) {
	comment, ok := h.commentScope(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToCommentResponse(comment))
}

// Update patches a comment. Author, moderator or admin.
// PATCH /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Update(c *gin.Context) {
	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	comment, ok := h.commentScope(c)
	if !ok {
		return
	}

	resp, err := h.commentService.Update(c.Request.Context(), middleware.CurrentUser(c), comment, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete removes a comment. Author, moderator or admin.
// DELETE /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Delete(c *gin.Context) {
	comment, ok := h.commentScope(c)
	if !ok {
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), middleware.CurrentUser(c), comment); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CommentHandler) commentScope(c *gin.Context) (*models.Comment, bool) {
	titleID, ok := parseID(c, "title_id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
		return nil, false
	}
	reviewID, ok := parseID(c, "review_id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
		return nil, false
	}
	commentID, ok := parseID(c, "comment_id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
		return nil, false
	}

	_, _, comment, err := h.resolver.Comment(c.Request.Context(), titleID, reviewID, commentID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return comment, true
}
