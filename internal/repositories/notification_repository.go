package repositories

import (
	"context"

	"github.com/stylesnap/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification storage.
// Mutations are always scoped to the recipient so a foreign notification
// behaves exactly like a missing one.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	GetByRecipient(ctx context.Context, recipientID uint, unread *bool, offset, limit int) ([]models.Notification, error)
	CountByRecipient(ctx context.Context, recipientID uint, unread *bool) (int64, error)
	CountUnread(ctx context.Context, recipientID uint) (int64, error)
	MarkAsRead(ctx context.Context, id, recipientID uint) error
	MarkAllAsRead(ctx context.Context, recipientID uint) (int64, error)
	DeleteNotification(ctx context.Context, id, recipientID uint) error
}

// PostgresNotificationRepository implements NotificationRepository
type PostgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a new PostgresNotificationRepository
func NewPostgresNotificationRepository(db *gorm.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *PostgresNotificationRepository) GetByRecipient(ctx context.Context, recipientID uint, unread *bool, offset, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	q := r.db.WithContext(ctx).Where("recipient_id = ?", recipientID)
	if unread != nil {
		q = q.Where("is_read = ?", !*unread)
	}
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&notifications).Error
	return notifications, err
}

func (r *PostgresNotificationRepository) CountByRecipient(ctx context.Context, recipientID uint, unread *bool) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Notification{}).Where("recipient_id = ?", recipientID)
	if unread != nil {
		q = q.Where("is_read = ?", !*unread)
	}
	err := q.Count(&count).Error
	return count, err
}

func (r *PostgresNotificationRepository) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

func (r *PostgresNotificationRepository) MarkAsRead(ctx context.Context, id, recipientID uint) error {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostgresNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *PostgresNotificationRepository) DeleteNotification(ctx context.Context, id, recipientID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
