package repositories

import (
	"context"

	"github.com/stylesnap/backend/internal/models"
	"gorm.io/gorm"
)

// BlockRepository defines the interface for block-relation operations.
type BlockRepository interface {
	CreateBlock(ctx context.Context, block *models.Block) error
	DeleteBlock(ctx context.Context, blockerID, blockedID uint) error
	HasBlocked(ctx context.Context, blockerID, blockedID uint) (bool, error)
	ExistsBetween(ctx context.Context, a, b uint) (bool, error)
	GetBlockedPairIDs(ctx context.Context, userID uint) ([]uint, error)
}

// PostgresBlockRepository implements BlockRepository for PostgreSQL
type PostgresBlockRepository struct {
	db *gorm.DB
}

// NewPostgresBlockRepository creates a new PostgresBlockRepository
func NewPostgresBlockRepository(db *gorm.DB) *PostgresBlockRepository {
	return &PostgresBlockRepository{db: db}
}

func (r *PostgresBlockRepository) CreateBlock(ctx context.Context, block *models.Block) error {
	return r.db.WithContext(ctx).Create(block).Error
}

func (r *PostgresBlockRepository) DeleteBlock(ctx context.Context, blockerID, blockedID uint) error {
	res := r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.Block{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostgresBlockRepository) HasBlocked(ctx context.Context, blockerID, blockedID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Block{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&count).Error
	return count > 0, err
}

// ExistsBetween reports whether a block exists in either direction.
func (r *PostgresBlockRepository) ExistsBetween(ctx context.Context, a, b uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}

// GetBlockedPairIDs returns every user id that is in a block relation with
// userID, regardless of direction.
func (r *PostgresBlockRepository) GetBlockedPairIDs(ctx context.Context, userID uint) ([]uint, error) {
	var blocks []models.Block
	err := r.db.WithContext(ctx).
		Where("blocker_id = ? OR blocked_id = ?", userID, userID).
		Find(&blocks).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(blocks))
	for _, b := range blocks {
		if b.BlockerID == userID {
			ids = append(ids, b.BlockedID)
		} else {
			ids = append(ids, b.BlockerID)
		}
	}
	return ids, nil
}
