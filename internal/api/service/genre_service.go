package service

import (
	"context"
	"errors"

	"reviewhub/internal/api/access"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
)

type GenreService interface {
	List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedResponse[dto.GenreResponse], error)
	Create(ctx context.Context, actor *models.User, req dto.CreateGenreRequest) (*dto.GenreResponse, error)
	Delete(ctx context.Context, actor *models.User, slug string) error
}

type genreService struct {
	genreRepo repository.GenreRepository
}

func NewGenreService(genreRepo repository.GenreRepository) GenreService {
	return &genreService{genreRepo: genreRepo}
}

func (s *genreService) List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedResponse[dto.GenreResponse], error) {
	genres, total, err := s.genreRepo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.GenreResponse, 0, len(genres))
	for i := range genres {
		responses = append(responses, *dto.FromModelToGenreResponse(&genres[i]))
	}
	return dto.NewPaginatedResponse(responses, int(total), page, pageSize), nil
}

func (s *genreService) Create(ctx context.Context, actor *models.User, req dto.CreateGenreRequest) (*dto.GenreResponse, error) {
	if err := decisionErr(access.AdminOnlyWrite(actor, false)); err != nil {
		return nil, err
	}

	genre := &models.Genre{Name: req.Name, Slug: req.Slug}
	if err := s.genreRepo.Create(ctx, genre); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fieldError("slug", "slug already in use")
		}
		return nil, err
	}
	return dto.FromModelToGenreResponse(genre), nil
}

func (s *genreService) Delete(ctx context.Context, actor *models.User, slug string) error {
	if err := decisionErr(access.AdminOnlyWrite(actor, false)); err != nil {
		return err
	}
	if err := s.genreRepo.DeleteBySlug(ctx, slug); err != nil {
		return orNotFound(err)
	}
	return nil
}
