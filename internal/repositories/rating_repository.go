package repositories

import (
	"context"

	"github.com/stylesnap/backend/internal/models"
	"gorm.io/gorm"
)

// RatingRepository defines the interface for the rating ledger.
type RatingRepository interface {
	GetRating(ctx context.Context, postID string, userID uint) (*models.Rating, error)
	CreateRating(ctx context.Context, rating *models.Rating) error
	UpdateScore(ctx context.Context, id uint, score int) error
	DeleteRating(ctx context.Context, postID string, userID uint) error
	Aggregate(ctx context.Context, postID string) (avg float64, count int64, err error)
	GetUserRatings(ctx context.Context, userID uint, postIDs []string) (map[string]int, error)
	DeleteByPost(ctx context.Context, postID string) error
}

// PostgresRatingRepository implements RatingRepository for PostgreSQL
type PostgresRatingRepository struct {
	db *gorm.DB
}

// NewPostgresRatingRepository creates a new PostgresRatingRepository
func NewPostgresRatingRepository(db *gorm.DB) *PostgresRatingRepository {
	return &PostgresRatingRepository{db: db}
}

func (r *PostgresRatingRepository) GetRating(ctx context.Context, postID string, userID uint) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *PostgresRatingRepository) CreateRating(ctx context.Context, rating *models.Rating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

func (r *PostgresRatingRepository) UpdateScore(ctx context.Context, id uint, score int) error {
	return r.db.WithContext(ctx).Model(&models.Rating{}).Where("id = ?", id).Update("score", score).Error
}

func (r *PostgresRatingRepository) DeleteRating(ctx context.Context, postID string, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Rating{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Aggregate recomputes the full average and cardinality of a post's rating
// ledger. The average cannot be maintained by increments without drift, so
// every rating mutation goes through here.
func (r *PostgresRatingRepository) Aggregate(ctx context.Context, postID string) (float64, int64, error) {
	var row struct {
		Avg   float64
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&models.Rating{}).
		Select("COALESCE(AVG(score), 0) AS avg, COUNT(*) AS count").
		Where("post_id = ?", postID).
		Scan(&row).Error
	return row.Avg, row.Count, err
}

// GetUserRatings answers "what did this user rate each of these posts" in
// a single query, for feed annotation.
func (r *PostgresRatingRepository) GetUserRatings(ctx context.Context, userID uint, postIDs []string) (map[string]int, error) {
	result := make(map[string]int)
	if len(postIDs) == 0 {
		return result, nil
	}
	var ratings []models.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	for _, rating := range ratings {
		result[rating.PostID] = rating.Score
	}
	return result, nil
}

func (r *PostgresRatingRepository) DeleteByPost(ctx context.Context, postID string) error {
	return r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Rating{}).Error
}
