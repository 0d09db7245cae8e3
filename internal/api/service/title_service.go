package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reviewhub/internal/api/access"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"

	"gorm.io/gorm"
)

type TitleService interface {
	List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.PaginatedResponse[dto.TitleResponse], error)
	Get(ctx context.Context, title *models.Title) (*dto.TitleResponse, error)
	Create(ctx context.Context, actor *models.User, req dto.CreateTitleRequest) (*dto.TitleResponse, error)
	Update(ctx context.Context, actor *models.User, title *models.Title, req dto.UpdateTitleRequest) (*dto.TitleResponse, error)
	Delete(ctx context.Context, actor *models.User, id int64) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	categoryRepo repository.CategoryRepository
	genreRepo    repository.GenreRepository
	reviewSvc    ReviewService
	reviewRepo   repository.ReviewRepository
}

func NewTitleService(
	titleRepo repository.TitleRepository,
	categoryRepo repository.CategoryRepository,
	genreRepo repository.GenreRepository,
	reviewSvc ReviewService,
	reviewRepo repository.ReviewRepository,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
		reviewSvc:    reviewSvc,
		reviewRepo:   reviewRepo,
	}
}

// validateYear rejects future publication years; back-catalogue entries
// from any past year are fine.
func validateYear(year int) error {
	if year > time.Now().Year() {
		return fieldError("year", "year cannot be in the future")
	}
	return nil
}

func (s *titleService) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.PaginatedResponse[dto.TitleResponse], error) {
	titles, total, err := s.titleRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(titles))
	for i := range titles {
		ids = append(ids, titles[i].ID)
	}
	ratings, err := s.reviewRepo.AverageScores(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TitleResponse, 0, len(titles))
	for i := range titles {
		var rating *float64
		if avg, ok := ratings[titles[i].ID]; ok {
			rating = &avg
		}
		responses = append(responses, *dto.FromModelToTitleResponse(&titles[i], rating))
	}
	return dto.NewPaginatedResponse(responses, int(total), page, pageSize), nil
}

func (s *titleService) Get(ctx context.Context, title *models.Title) (*dto.TitleResponse, error) {
	rating, err := s.reviewSvc.AverageRating(ctx, title.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToTitleResponse(title, rating), nil
}

func (s *titleService) Create(ctx context.Context, actor *models.User, req dto.CreateTitleRequest) (*dto.TitleResponse, error) {
	if err := decisionErr(access.AdminOnlyWrite(actor, false)); err != nil {
		return nil, err
	}
	if err := validateYear(req.Year); err != nil {
		return nil, err
	}

	title := &models.Title{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
	}
	if req.Category != nil {
		category, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
		title.Category = category
	}
	genres, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}
	title.Genres = genres

	if err := s.titleRepo.Create(ctx, title); err != nil {
		return nil, err
	}
	return dto.FromModelToTitleResponse(title, nil), nil
}

func (s *titleService) Update(ctx context.Context, actor *models.User, title *models.Title, req dto.UpdateTitleRequest) (*dto.TitleResponse, error) {
	if err := decisionErr(access.AdminOnlyWrite(actor, false)); err != nil {
		return nil, err
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		if err := validateYear(*req.Year); err != nil {
			return nil, err
		}
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = *req.Description
	}
	if req.Category != nil {
		category, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
		title.Category = category
	}

	if err := s.titleRepo.Update(ctx, title); err != nil {
		return nil, err
	}
	if req.Genre != nil {
		genres, err := s.resolveGenres(ctx, req.Genre)
		if err != nil {
			return nil, err
		}
		if err := s.titleRepo.ReplaceGenres(ctx, title, genres); err != nil {
			return nil, err
		}
	}

	rating, err := s.reviewSvc.AverageRating(ctx, title.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToTitleResponse(title, rating), nil
}

func (s *titleService) Delete(ctx context.Context, actor *models.User, id int64) error {
	if err := decisionErr(access.AdminOnlyWrite(actor, false)); err != nil {
		return err
	}
	if err := s.titleRepo.Delete(ctx, id); err != nil {
		return orNotFound(err)
	}
	return nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fieldError("category", fmt.Sprintf("unknown category %q", slug))
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

// resolveGenres maps slugs to genres and rejects the whole request if
// any slug is unknown.
func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	if len(slugs) == 0 {
		return []models.Genre{}, nil
	}

	genres, err := s.genreRepo.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}

	found := make(map[string]bool, len(genres))
	for i := range genres {
		found[genres[i].Slug] = true
	}
	for _, slug := range slugs {
		if !found[slug] {
			return nil, fieldError("genre", fmt.Sprintf("unknown genre %q", slug))
		}
	}
	return genres, nil
}
