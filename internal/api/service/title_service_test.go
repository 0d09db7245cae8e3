package service

import (
	"context"
	"testing"
	"time"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type titleServiceMocks struct {
	titleRepo    *MockTitleRepository
	categoryRepo *MockCategoryRepository
	genreRepo    *MockGenreRepository
	reviewRepo   *MockReviewRepository
}

func newTitleService(t *testing.T) (TitleService, *titleServiceMocks) {
	t.Helper()
	m := &titleServiceMocks{
		titleRepo:    new(MockTitleRepository),
		categoryRepo: new(MockCategoryRepository),
		genreRepo:    new(MockGenreRepository),
		reviewRepo:   new(MockReviewRepository),
	}
	reviewSvc := NewReviewService(m.reviewRepo, nil, testLogger())
	svc := NewTitleService(m.titleRepo, m.categoryRepo, m.genreRepo, reviewSvc, m.reviewRepo)
	return svc, m
}

var testAdmin = &models.User{ID: "u-9", Role: models.RoleAdmin}

func TestTitleCreate_FutureYear(t *testing.T) {
	svc, m := newTitleService(t)

	_, err := svc.Create(context.Background(), testAdmin, dto.CreateTitleRequest{
		Name: "Tomorrow",
		Year: time.Now().Year() + 1,
	})

	var fieldErrs FieldErrors
	assert.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "year")
	m.titleRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTitleCreate_NonAdmin(t *testing.T) {
	svc, _ := newTitleService(t)

	user := &models.User{ID: "u-1", Role: models.RoleUser}
	_, err := svc.Create(context.Background(), user, dto.CreateTitleRequest{Name: "X", Year: 2000})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Create(context.Background(), nil, dto.CreateTitleRequest{Name: "X", Year: 2000})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestTitleCreate_UnknownCategory(t *testing.T) {
	svc, m := newTitleService(t)

	m.categoryRepo.On("FindBySlug", mock.Anything, "nope").Return(nil, gorm.ErrRecordNotFound)

	slug := "nope"
	_, err := svc.Create(context.Background(), testAdmin, dto.CreateTitleRequest{
		Name: "X", Year: 2000, Category: &slug,
	})

	var fieldErrs FieldErrors
	assert.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "category")
}

func TestTitleCreate_UnknownGenre(t *testing.T) {
	svc, m := newTitleService(t)

	m.genreRepo.On("FindBySlugs", mock.Anything, []string{"rock", "nope"}).
		Return([]models.Genre{{ID: 1, Slug: "rock"}}, nil)

	_, err := svc.Create(context.Background(), testAdmin, dto.CreateTitleRequest{
		Name: "X", Year: 2000, Genre: []string{"rock", "nope"},
	})

	var fieldErrs FieldErrors
	assert.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "genre")
}

func TestTitleCreate_Success(t *testing.T) {
	svc, m := newTitleService(t)

	m.categoryRepo.On("FindBySlug", mock.Anything, "music").
		Return(&models.Category{ID: 2, Name: "Music", Slug: "music"}, nil)
	m.genreRepo.On("FindBySlugs", mock.Anything, []string{"rock"}).
		Return([]models.Genre{{ID: 1, Name: "Rock", Slug: "rock"}}, nil)
	m.titleRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Title")).Return(nil)

	slug := "music"
	resp, err := svc.Create(context.Background(), testAdmin, dto.CreateTitleRequest{
		Name: "Album", Year: 2000, Category: &slug, Genre: []string{"rock"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "Album", resp.Name)
	assert.Nil(t, resp.Rating)
	assert.Equal(t, "music", resp.Category.Slug)
	assert.Len(t, resp.Genre, 1)
}

func TestTitleList_DecoratesRatings(t *testing.T) {
	svc, m := newTitleService(t)

	titles := []models.Title{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	m.titleRepo.On("List", mock.Anything, repository.TitleFilter{}, 1, 20).
		Return(titles, int64(2), nil)
	m.reviewRepo.On("AverageScores", mock.Anything, []int64{1, 2}).
		Return(map[int64]float64{1: 8.0}, nil)

	resp, err := svc.List(context.Background(), repository.TitleFilter{}, 1, 20)

	assert.NoError(t, err)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, 8.0, *resp.Data[0].Rating)
	assert.Nil(t, resp.Data[1].Rating)
}
