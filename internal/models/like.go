package models

import "time"

// Like is a row of the boolean like ledger. PostID is a MongoDB ObjectID
// hex string; the (post, user) unique index rejects concurrent duplicates.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_post_user_like;size:24"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_post_user_like"`
	CreatedAt time.Time `json:"created_at"`
}
