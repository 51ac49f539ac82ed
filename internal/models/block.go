package models

import "time"

// Block represents a block relation. Stored directed, symmetric in effect:
// a block in either direction prevents mutual following.
type Block struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	BlockerID uint      `json:"blocker_id" gorm:"index;uniqueIndex:idx_blocker_blocked"`
	BlockedID uint      `json:"blocked_id" gorm:"index;uniqueIndex:idx_blocker_blocked"`
	CreatedAt time.Time `json:"created_at"`
}
