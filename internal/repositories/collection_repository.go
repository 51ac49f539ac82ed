package repositories

import (
	"context"

	"github.com/stylesnap/backend/internal/models"
	"gorm.io/gorm"
)

// CollectionRepository defines the interface for collections and their
// membership ledger.
type CollectionRepository interface {
	CreateCollection(ctx context.Context, collection *models.Collection) error
	GetCollectionByID(ctx context.Context, id uint) (*models.Collection, error)
	GetCollectionsByUser(ctx context.Context, userID uint) ([]models.Collection, error)
	UpdateCollectionFields(ctx context.Context, id uint, fields map[string]interface{}) error
	DeleteCollection(ctx context.Context, id uint) error

	AddItem(ctx context.Context, item *models.CollectionItem) error
	RemoveItem(ctx context.Context, collectionID uint, postID string) error
	ItemExists(ctx context.Context, collectionID uint, postID string) (bool, error)
	CountItems(ctx context.Context, collectionID uint) (int64, error)
	GetItems(ctx context.Context, collectionID uint) ([]models.CollectionItem, error)
	GetSavedPostIDs(ctx context.Context, userID uint, postIDs []string) (map[string]bool, error)
	DeleteItemsByCollection(ctx context.Context, collectionID uint) error
	DeleteItemsByPost(ctx context.Context, postID string) error
}

// PostgresCollectionRepository implements CollectionRepository
type PostgresCollectionRepository struct {
	db *gorm.DB
}

// NewPostgresCollectionRepository creates a new PostgresCollectionRepository
func NewPostgresCollectionRepository(db *gorm.DB) *PostgresCollectionRepository {
	return &PostgresCollectionRepository{db: db}
}

func (r *PostgresCollectionRepository) CreateCollection(ctx context.Context, collection *models.Collection) error {
	return r.db.WithContext(ctx).Create(collection).Error
}

func (r *PostgresCollectionRepository) GetCollectionByID(ctx context.Context, id uint) (*models.Collection, error) {
	var collection models.Collection
	if err := r.db.WithContext(ctx).First(&collection, id).Error; err != nil {
		return nil, err
	}
	return &collection, nil
}

func (r *PostgresCollectionRepository) GetCollectionsByUser(ctx context.Context, userID uint) ([]models.Collection, error) {
	var collections []models.Collection
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&collections).Error
	return collections, err
}

func (r *PostgresCollectionRepository) UpdateCollectionFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Collection{}).Where("id = ?", id).Updates(fields).Error
}

func (r *PostgresCollectionRepository) DeleteCollection(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Collection{}, id).Error
}

func (r *PostgresCollectionRepository) AddItem(ctx context.Context, item *models.CollectionItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *PostgresCollectionRepository) RemoveItem(ctx context.Context, collectionID uint, postID string) error {
	res := r.db.WithContext(ctx).
		Where("collection_id = ? AND post_id = ?", collectionID, postID).
		Delete(&models.CollectionItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostgresCollectionRepository) ItemExists(ctx context.Context, collectionID uint, postID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CollectionItem{}).
		Where("collection_id = ? AND post_id = ?", collectionID, postID).
		Count(&count).Error
	return count > 0, err
}

func (r *PostgresCollectionRepository) CountItems(ctx context.Context, collectionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CollectionItem{}).
		Where("collection_id = ?", collectionID).
		Count(&count).Error
	return count, err
}

func (r *PostgresCollectionRepository) GetItems(ctx context.Context, collectionID uint) ([]models.CollectionItem, error) {
	var items []models.CollectionItem
	err := r.db.WithContext(ctx).
		Where("collection_id = ?", collectionID).
		Order("saved_at DESC").
		Find(&items).Error
	return items, err
}

// GetSavedPostIDs answers "which of these posts sit in any collection of
// this user" in a single query, for feed annotation.
func (r *PostgresCollectionRepository) GetSavedPostIDs(ctx context.Context, userID uint, postIDs []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(postIDs) == 0 {
		return result, nil
	}
	var items []models.CollectionItem
	err := r.db.WithContext(ctx).
		Joins("JOIN collections ON collections.id = collection_items.collection_id").
		Where("collections.user_id = ? AND collection_items.post_id IN ?", userID, postIDs).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		result[item.PostID] = true
	}
	return result, nil
}

func (r *PostgresCollectionRepository) DeleteItemsByCollection(ctx context.Context, collectionID uint) error {
	return r.db.WithContext(ctx).Where("collection_id = ?", collectionID).Delete(&models.CollectionItem{}).Error
}

func (r *PostgresCollectionRepository) DeleteItemsByPost(ctx context.Context, postID string) error {
	return r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.CollectionItem{}).Error
}
