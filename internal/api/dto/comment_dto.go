package dto

import (
	"time"

	"reviewhub/internal/api/models"
)

// CreateCommentRequest: payload for commenting on a review
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// UpdateCommentRequest: payload for editing a comment
type UpdateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// CommentResponse: comment with its author flattened to a username
type CommentResponse struct {
	ID      int64     `json:"id"`
	Author  string    `json:"author"`
	Text    string    `json:"text"`
	PubDate time.Time `json:"pub_date"`
}

// FromModelToCommentResponse converts a Comment model to CommentResponse DTO
func FromModelToCommentResponse(c *models.Comment) *CommentResponse {
	return &CommentResponse{
		ID:      c.ID,
		Author:  c.Author.Username,
		Text:    c.Text,
		PubDate: c.CreatedAt,
	}
}
