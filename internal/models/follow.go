package models

import "time"

// Follow represents a directed follow edge. The composite unique index is
// what keeps concurrent identical follows from double-counting.
type Follow struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FollowerID uint      `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_followee"`
	FolloweeID uint      `json:"followee_id" gorm:"index;uniqueIndex:idx_follower_followee"`
	CreatedAt  time.Time `json:"created_at"`
}
