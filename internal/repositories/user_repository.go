package repositories

import (
	"context"

	"github.com/stylesnap/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	UpdateUserFields(ctx context.Context, id uint, fields map[string]interface{}) error
	SearchUsers(ctx context.Context, query, style string, excludeIDs []uint, limit int) ([]models.User, error)
	SearchUsernamesByPrefix(ctx context.Context, prefix string, limit int) ([]string, error)
	AdjustFollowersCount(ctx context.Context, id uint, delta int) error
	AdjustFollowingCount(ctx context.Context, id uint, delta int) error
	AdjustPostsCount(ctx context.Context, id uint, delta int) error
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUsersByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *PostgresUserRepository) UpdateUserFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
}

// SearchUsers searches by username or name (case-insensitive), optionally
// restricted to a style and excluding a set of ids (blocked pairs).
func (r *PostgresUserRepository) SearchUsers(ctx context.Context, query, style string, excludeIDs []uint, limit int) ([]models.User, error) {
	var users []models.User
	q := r.db.WithContext(ctx).Model(&models.User{})
	if query != "" {
		pattern := "%" + query + "%"
		q = q.Where("username ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?", pattern, pattern, pattern)
	}
	if style != "" {
		q = q.Where("style = ?", style)
	}
	if len(excludeIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeIDs)
	}
	err := q.Limit(limit).Find(&users).Error
	return users, err
}

func (r *PostgresUserRepository) SearchUsernamesByPrefix(ctx context.Context, prefix string, limit int) ([]string, error) {
	var usernames []string
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username ILIKE ?", prefix+"%").
		Order("username ASC").
		Limit(limit).
		Pluck("username", &usernames).Error
	return usernames, err
}

// Counter adjustments are single atomic column deltas at the store; the
// GREATEST guard keeps counters non-negative if a reconciliation sweep has
// not caught up yet.
func (r *PostgresUserRepository) AdjustFollowersCount(ctx context.Context, id uint, delta int) error {
	return r.adjustCounter(ctx, id, "followers_count", delta)
}

func (r *PostgresUserRepository) AdjustFollowingCount(ctx context.Context, id uint, delta int) error {
	return r.adjustCounter(ctx, id, "following_count", delta)
}

func (r *PostgresUserRepository) AdjustPostsCount(ctx context.Context, id uint, delta int) error {
	return r.adjustCounter(ctx, id, "posts_count", delta)
}

func (r *PostgresUserRepository) adjustCounter(ctx context.Context, id uint, column string, delta int) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr("GREATEST("+column+" + ?, 0)", delta)).Error
}
