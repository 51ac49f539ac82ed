package repositories

import (
	"context"

	"github.com/stylesnap/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for the comment tree.
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id uint) (*models.Comment, error)
	GetTopLevelComments(ctx context.Context, postID string, offset, limit int) ([]models.Comment, error)
	CountTopLevelComments(ctx context.Context, postID string) (int64, error)
	GetReplies(ctx context.Context, parentID uint) ([]models.Comment, error)
	CountReplies(ctx context.Context, parentID uint) (int64, error)
	DeleteWithReplies(ctx context.Context, id uint) (int64, error)
	DeleteByPost(ctx context.Context, postID string) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

func (r *PostgresCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *PostgresCommentRepository) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *PostgresCommentRepository) GetTopLevelComments(ctx context.Context, postID string, offset, limit int) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND parent_comment_id IS NULL", postID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&comments).Error
	return comments, err
}

func (r *PostgresCommentRepository) CountTopLevelComments(ctx context.Context, postID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("post_id = ? AND parent_comment_id IS NULL", postID).
		Count(&count).Error
	return count, err
}

func (r *PostgresCommentRepository) GetReplies(ctx context.Context, parentID uint) ([]models.Comment, error) {
	var replies []models.Comment
	err := r.db.WithContext(ctx).
		Where("parent_comment_id = ?", parentID).
		Order("created_at ASC").
		Find(&replies).Error
	return replies, err
}

func (r *PostgresCommentRepository) CountReplies(ctx context.Context, parentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("parent_comment_id = ?", parentID).
		Count(&count).Error
	return count, err
}

// DeleteWithReplies removes a comment together with its direct replies in
// one statement and returns the number of rows deleted.
func (r *PostgresCommentRepository) DeleteWithReplies(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? OR parent_comment_id = ?", id, id).
		Delete(&models.Comment{})
	return res.RowsAffected, res.Error
}

func (r *PostgresCommentRepository) DeleteByPost(ctx context.Context, postID string) error {
	return r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Comment{}).Error
}
