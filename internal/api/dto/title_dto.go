package dto

import "reviewhub/internal/api/models"

// CreateTitleRequest: payload for creating a title. Category and genres
// are referenced by slug.
type CreateTitleRequest struct {
	Name        string   `json:"name" binding:"required,max=200"`
	Year        int      `json:"year" binding:"required"`
	Description string   `json:"description"`
	Category    *string  `json:"category" binding:"omitempty,max=50,slug"`
	Genre       []string `json:"genre" binding:"omitempty,dive,max=50,slug"`
}

// UpdateTitleRequest: partial update; nil means "leave unchanged".
type UpdateTitleRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=200"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Category    *string  `json:"category" binding:"omitempty,max=50,slug"`
	Genre       []string `json:"genre" binding:"omitempty,dive,max=50,slug"`
}

// TitleResponse: detail/list shape. Rating is the derived mean review
// score and stays null while the title has no reviews.
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *float64          `json:"rating"`
	Description string            `json:"description"`
	Category    *CategoryResponse `json:"category"`
	Genre       []GenreResponse   `json:"genre"`
}

// FromModelToTitleResponse converts a Title model plus its derived
// rating to a TitleResponse DTO
func FromModelToTitleResponse(t *models.Title, rating *float64) *TitleResponse {
	resp := &TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      rating,
		Description: t.Description,
		Genre:       make([]GenreResponse, 0, len(t.Genres)),
	}
	if t.Category != nil {
		resp.Category = FromModelToCategoryResponse(t.Category)
	}
	for i := range t.Genres {
		resp.Genre = append(resp.Genre, *FromModelToGenreResponse(&t.Genres[i]))
	}
	return resp
}
