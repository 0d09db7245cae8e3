package dto

import "reviewhub/internal/api/models"

// CreateCategoryRequest: payload for creating a category
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=200"`
	Slug string `json:"slug" binding:"required,max=50,slug"`
}

type CategoryResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func FromModelToCategoryResponse(c *models.Category) *CategoryResponse {
	return &CategoryResponse{Name: c.Name, Slug: c.Slug}
}
