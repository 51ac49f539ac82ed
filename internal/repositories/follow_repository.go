package repositories

import (
	"context"

	"github.com/stylesnap/backend/internal/models"
	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow-edge operations.
type FollowRepository interface {
	CreateFollow(ctx context.Context, follow *models.Follow) error
	DeleteFollow(ctx context.Context, followerID, followeeID uint) error
	IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error)
	GetFollowers(ctx context.Context, userID uint, offset, limit int) ([]models.User, error)
	GetFollowing(ctx context.Context, userID uint, offset, limit int) ([]models.User, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
	GetFollowingIDs(ctx context.Context, userID uint) ([]uint, error)
	GetFollowerIDs(ctx context.Context, userID uint) ([]uint, error)
	DeleteBetween(ctx context.Context, a, b uint) error
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

func (r *PostgresFollowRepository) CreateFollow(ctx context.Context, follow *models.Follow) error {
	return r.db.WithContext(ctx).Create(follow).Error
}

// DeleteFollow removes the edge and reports gorm.ErrRecordNotFound when it
// did not exist.
func (r *PostgresFollowRepository) DeleteFollow(ctx context.Context, followerID, followeeID uint) error {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostgresFollowRepository) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	return count > 0, err
}

func (r *PostgresFollowRepository) GetFollowers(ctx context.Context, userID uint, offset, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followee_id = ?", userID).
		Order("follows.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *PostgresFollowRepository) GetFollowing(ctx context.Context, userID uint, offset, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.followee_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *PostgresFollowRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("followee_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *PostgresFollowRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *PostgresFollowRepository) GetFollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("follower_id = ?", userID).Pluck("followee_id", &ids).Error
	return ids, err
}

func (r *PostgresFollowRepository) GetFollowerIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("followee_id = ?", userID).Pluck("follower_id", &ids).Error
	return ids, err
}

// DeleteBetween removes follow edges in both directions, used when a block
// is created.
func (r *PostgresFollowRepository) DeleteBetween(ctx context.Context, a, b uint) error {
	return r.db.WithContext(ctx).
		Where("(follower_id = ? AND followee_id = ?) OR (follower_id = ? AND followee_id = ?)", a, b, b, a).
		Delete(&models.Follow{}).Error
}
