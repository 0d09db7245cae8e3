package service

import (
	"context"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
)

// ScopeResolver binds nested path identifiers to their entities before
// any authorization or mutation runs. Resolution is fail-fast: the
// first segment that does not resolve stops the chain, and a child id
// that exists under a different parent is treated the same as a missing
// one.
type ScopeResolver struct {
	titleRepo   repository.TitleRepository
	reviewRepo  repository.ReviewRepository
	commentRepo repository.CommentRepository
}

func NewScopeResolver(
	titleRepo repository.TitleRepository,
	reviewRepo repository.ReviewRepository,
	commentRepo repository.CommentRepository,
) *ScopeResolver {
	return &ScopeResolver{
		titleRepo:   titleRepo,
		reviewRepo:  reviewRepo,
		commentRepo: commentRepo,
	}
}

func (r *ScopeResolver) Title(ctx context.Context, titleID int64) (*models.Title, error) {
	title, err := r.titleRepo.GetByID(ctx, titleID)
	if err != nil {
		return nil, orNotFound(err)
	}
	return title, nil
}

func (r *ScopeResolver) Review(ctx context.Context, titleID, reviewID int64) (*models.Title, *models.Review, error) {
	title, err := r.Title(ctx, titleID)
	if err != nil {
		return nil, nil, err
	}

	review, err := r.reviewRepo.GetByTitleAndID(ctx, titleID, reviewID)
	if err != nil {
		return nil, nil, orNotFound(err)
	}
	return title, review, nil
}

func (r *ScopeResolver) Comment(ctx context.Context, titleID, reviewID, commentID int64) (*models.Title, *models.Review, *models.Comment, error) {
	title, review, err := r.Review(ctx, titleID, reviewID)
	if err != nil {
		return nil, nil, nil, err
	}

	comment, err := r.commentRepo.GetByReviewAndID(ctx, reviewID, commentID)
	if err != nil {
		return nil, nil, nil, orNotFound(err)
	}
	return title, review, comment, nil
}
