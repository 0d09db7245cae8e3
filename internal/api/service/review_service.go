package service

import (
	"context"
	"errors"
	"log/slog"

	"reviewhub/internal/api/access"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
)

// RatingCache caches derived average ratings keyed by title. A nil
// cache is valid and simply disables caching.
type RatingCache interface {
	Get(ctx context.Context, titleID int64) (float64, bool, error)
	Set(ctx context.Context, titleID int64, rating float64) error
	Invalidate(ctx context.Context, titleID int64) error
}

type ReviewService interface {
	Create(ctx context.Context, actor *models.User, title *models.Title, req dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	Update(ctx context.Context, actor *models.User, review *models.Review, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, actor *models.User, review *models.Review) error
	ListByTitle(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedResponse[dto.ReviewResponse], error)

	// AverageRating returns the unweighted mean of all review scores
	// for the title, or nil when it has no reviews.
	AverageRating(ctx context.Context, titleID int64) (*float64, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	cache      RatingCache
	logger     *slog.Logger
}

func NewReviewService(reviewRepo repository.ReviewRepository, cache RatingCache, logger *slog.Logger) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		cache:      cache,
		logger:     logger,
	}
}

func validateScore(score int) error {
	if score < 1 || score > 10 {
		return fieldError("score", "score must be between 1 and 10")
	}
	return nil
}

// Create inserts a review for the already-resolved title. The pre-check
// gives a friendly conflict on the common path; the storage constraint
// settles concurrent duplicates, and its violation is reported as the
// same conflict.
func (s *reviewService) Create(ctx context.Context, actor *models.User, title *models.Title, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if err := validateScore(req.Score); err != nil {
		return nil, err
	}

	if _, err := s.reviewRepo.GetByTitleAndAuthor(ctx, title.ID, actor.ID); err == nil {
		return nil, ErrReviewExists
	} else if !errors.Is(orNotFound(err), ErrNotFound) {
		return nil, err
	}

	review := &models.Review{
		TitleID:  title.ID,
		AuthorID: actor.ID,
		Text:     req.Text,
		Score:    req.Score,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrReviewExists
		}
		return nil, err
	}
	s.invalidateRating(ctx, title.ID)

	// Reload with author data
	review, err := s.reviewRepo.GetByID(ctx, review.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Update(ctx context.Context, actor *models.User, review *models.Review, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	if err := decisionErr(access.OwnerModeratorAdminWrite(actor, review.AuthorID, false)); err != nil {
		return nil, err
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		if err := validateScore(*req.Score); err != nil {
			return nil, err
		}
		review.Score = *req.Score
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	s.invalidateRating(ctx, review.TitleID)

	review, err := s.reviewRepo.GetByID(ctx, review.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Delete(ctx context.Context, actor *models.User, review *models.Review) error {
	if err := decisionErr(access.OwnerModeratorAdminWrite(actor, review.AuthorID, false)); err != nil {
		return err
	}
	if err := s.reviewRepo.Delete(ctx, review.ID); err != nil {
		return orNotFound(err)
	}
	s.invalidateRating(ctx, review.TitleID)
	return nil
}

func (s *reviewService) ListByTitle(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedResponse[dto.ReviewResponse], error) {
	reviews, total, err := s.reviewRepo.GetByTitle(ctx, titleID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *dto.FromModelToReviewResponse(&reviews[i]))
	}
	return dto.NewPaginatedResponse(responses, int(total), page, pageSize), nil
}

func (s *reviewService) AverageRating(ctx context.Context, titleID int64) (*float64, error) {
	if s.cache != nil {
		if rating, ok, err := s.cache.Get(ctx, titleID); err == nil && ok {
			return &rating, nil
		}
	}

	avg, err := s.reviewRepo.AverageScore(ctx, titleID)
	if err != nil {
		return nil, err
	}
	if avg != nil && s.cache != nil {
		if err := s.cache.Set(ctx, titleID, *avg); err != nil {
			s.logger.Warn("rating cache set failed", "title_id", titleID, "error", err)
		}
	}
	return avg, nil
}

// invalidateRating drops the cached rating; the cache is advisory, so
// failures are logged and the write proceeds.
func (s *reviewService) invalidateRating(ctx context.Context, titleID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, titleID); err != nil {
		s.logger.Warn("rating cache invalidation failed", "title_id", titleID, "error", err)
	}
}
