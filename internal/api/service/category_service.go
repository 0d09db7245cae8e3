package service

import (
	"context"
	"errors"

	"reviewhub/internal/api/access"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
)

type CategoryService interface {
	List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedResponse[dto.CategoryResponse], error)
	Create(ctx context.Context, actor *models.User, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, actor *models.User, slug string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedResponse[dto.CategoryResponse], error) {
	categories, total, err := s.categoryRepo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, *dto.FromModelToCategoryResponse(&categories[i]))
	}
	return dto.NewPaginatedResponse(responses, int(total), page, pageSize), nil
}

func (s *categoryService) Create(ctx context.Context, actor *models.User, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if err := decisionErr(access.AdminOnlyWrite(actor, false)); err != nil {
		return nil, err
	}

	category := &models.Category{Name: req.Name, Slug: req.Slug}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fieldError("slug", "slug already in use")
		}
		return nil, err
	}
	return dto.FromModelToCategoryResponse(category), nil
}

// Delete removes the category; titles that referenced it keep existing
// with their category cleared by the storage layer.
func (s *categoryService) Delete(ctx context.Context, actor *models.User, slug string) error {
	if err := decisionErr(access.AdminOnlyWrite(actor, false)); err != nil {
		return err
	}
	if err := s.categoryRepo.DeleteBySlug(ctx, slug); err != nil {
		return orNotFound(err)
	}
	return nil
}
