package service

import (
	"context"
	"testing"

	"reviewhub/internal/api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func newResolver(titleRepo *MockTitleRepository, reviewRepo *MockReviewRepository, commentRepo *MockCommentRepository) *ScopeResolver {
	return NewScopeResolver(titleRepo, reviewRepo, commentRepo)
}

func TestResolveTitle_Missing(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	resolver := newResolver(titleRepo, new(MockReviewRepository), new(MockCommentRepository))

	titleRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := resolver.Title(context.Background(), 99)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveReview_WrongParent(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	reviewRepo := new(MockReviewRepository)
	resolver := newResolver(titleRepo, reviewRepo, new(MockCommentRepository))

	titleRepo.On("GetByID", mock.Anything, int64(10)).Return(&models.Title{ID: 10}, nil)
	// The review exists but belongs to another title; the scoped lookup
	// does not find it.
	reviewRepo.On("GetByTitleAndID", mock.Anything, int64(10), int64(5)).
		Return(nil, gorm.ErrRecordNotFound)

	_, _, err := resolver.Review(context.Background(), 10, 5)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveReview_ShortCircuitsOnMissingTitle(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	reviewRepo := new(MockReviewRepository)
	resolver := newResolver(titleRepo, reviewRepo, new(MockCommentRepository))

	titleRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	_, _, err := resolver.Review(context.Background(), 99, 5)

	assert.ErrorIs(t, err, ErrNotFound)
	reviewRepo.AssertNotCalled(t, "GetByTitleAndID", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveComment_FullChain(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	reviewRepo := new(MockReviewRepository)
	commentRepo := new(MockCommentRepository)
	resolver := newResolver(titleRepo, reviewRepo, commentRepo)

	titleRepo.On("GetByID", mock.Anything, int64(10)).Return(&models.Title{ID: 10}, nil)
	reviewRepo.On("GetByTitleAndID", mock.Anything, int64(10), int64(5)).
		Return(&models.Review{ID: 5, TitleID: 10}, nil)
	commentRepo.On("GetByReviewAndID", mock.Anything, int64(5), int64(2)).
		Return(&models.Comment{ID: 2, ReviewID: 5}, nil)

	title, review, comment, err := resolver.Comment(context.Background(), 10, 5, 2)

	assert.NoError(t, err)
	assert.Equal(t, int64(10), title.ID)
	assert.Equal(t, int64(5), review.ID)
	assert.Equal(t, int64(2), comment.ID)
}
