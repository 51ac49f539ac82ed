package models

import "time"

// Notification types.
const (
	NotificationNewPost = "new_post"
	NotificationFollow  = "follow"
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationRating  = "rating"
)

// Notification records a cross-user event (PostgreSQL). Self-actions are
// never recorded.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	RecipientID uint      `json:"recipient_id" gorm:"index:idx_recipient_read"`
	SenderID    uint      `json:"sender_id" gorm:"index"`
	Type        string    `json:"type" gorm:"size:20"`
	Message     string    `json:"message"`
	PostID      string    `json:"post_id,omitempty" gorm:"size:24"`
	CommentID   *uint     `json:"comment_id,omitempty"`
	RatingID    *uint     `json:"rating_id,omitempty"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index:idx_recipient_read"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// NotificationWithSender pairs a notification with its sender.
type NotificationWithSender struct {
	Notification
	Sender UserCompact `json:"sender"`
}

// NotificationPage is a paginated notification listing with the
// recipient's unread total.
type NotificationPage struct {
	Notifications []NotificationWithSender `json:"notifications"`
	Pagination    Pagination               `json:"pagination"`
	UnreadCount   int64                    `json:"unread_count"`
}
