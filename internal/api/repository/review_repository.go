package repository

import (
	"context"
	"database/sql"
	"fmt"

	"reviewhub/internal/api/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	// Create inserts optimistically; a lost race on the (title, author)
	// unique index comes back as ErrDuplicateKey.
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Review, error)
	// GetByTitleAndID resolves a review only within the given title;
	// a review id that exists under another title does not match.
	GetByTitleAndID(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	GetByTitleAndAuthor(ctx context.Context, titleID int64, authorID string) (*models.Review, error)
	GetByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error)
	// AverageScore returns nil when the title has no reviews: "no data"
	// serializes as null, never as zero.
	AverageScore(ctx context.Context, titleID int64) (*float64, error)
	AverageScores(ctx context.Context, titleIDs []int64) (map[int64]float64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Save(review).Error; err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Review{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).Preload("Author").First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) GetByTitleAndID(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).
		Where("id = ? AND title_id = ?", reviewID, titleID).
		Preload("Author").
		First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) GetByTitleAndAuthor(ctx context.Context, titleID int64, authorID string) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).
		Where("title_id = ? AND author_id = ?", titleID, authorID).
		First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) GetByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("title_id = ?", titleID).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := r.db.WithContext(ctx).
		Where("title_id = ?", titleID).
		Preload("Author").
		Order("id asc").
		Limit(pageSize).
		Offset(offset).
		Find(&reviews).Error; err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, total, nil
}

func (r *reviewRepository) AverageScore(ctx context.Context, titleID int64) (*float64, error) {
	var avg sql.NullFloat64
	row := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("title_id = ?", titleID).
		Select("AVG(score)").
		Row()
	if err := row.Scan(&avg); err != nil {
		return nil, fmt.Errorf("average score: %w", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	v := avg.Float64
	return &v, nil
}

func (r *reviewRepository) AverageScores(ctx context.Context, titleIDs []int64) (map[int64]float64, error) {
	if len(titleIDs) == 0 {
		return map[int64]float64{}, nil
	}

	var rows []struct {
		TitleID int64
		Avg     float64
	}
	if err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("title_id, AVG(score) AS avg").
		Where("title_id IN ?", titleIDs).
		Group("title_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("average scores: %w", err)
	}

	out := make(map[int64]float64, len(rows))
	for _, row := range rows {
		out[row.TitleID] = row.Avg
	}
	return out, nil
}
