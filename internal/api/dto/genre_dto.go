package dto

import "reviewhub/internal/api/models"

// CreateGenreRequest: payload for creating a genre
type CreateGenreRequest struct {
	Name string `json:"name" binding:"required,max=200"`
	Slug string `json:"slug" binding:"required,max=50,slug"`
}

type GenreResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func FromModelToGenreResponse(g *models.Genre) *GenreResponse {
	return &GenreResponse{Name: g.Name, Slug: g.Slug}
}
