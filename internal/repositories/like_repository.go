package repositories

import (
	"context"

	"github.com/stylesnap/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for the like ledger.
type LikeRepository interface {
	CreateLike(ctx context.Context, like *models.Like) error
	DeleteLike(ctx context.Context, postID string, userID uint) error
	HasUserLikedPost(ctx context.Context, postID string, userID uint) (bool, error)
	GetLikedPostIDs(ctx context.Context, userID uint, postIDs []string) (map[string]bool, error)
	DeleteByPost(ctx context.Context, postID string) error
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

func (r *PostgresLikeRepository) CreateLike(ctx context.Context, like *models.Like) error {
	return r.db.WithContext(ctx).Create(like).Error
}

func (r *PostgresLikeRepository) DeleteLike(ctx context.Context, postID string, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Like{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostgresLikeRepository) HasUserLikedPost(ctx context.Context, postID string, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}

// GetLikedPostIDs answers "which of these posts has this user liked" in a
// single query, for feed annotation.
func (r *PostgresLikeRepository) GetLikedPostIDs(ctx context.Context, userID uint, postIDs []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(postIDs) == 0 {
		return result, nil
	}
	var likes []models.Like
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Find(&likes).Error
	if err != nil {
		return nil, err
	}
	for _, l := range likes {
		result[l.PostID] = true
	}
	return result, nil
}

func (r *PostgresLikeRepository) DeleteByPost(ctx context.Context, postID string) error {
	return r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Like{}).Error
}
