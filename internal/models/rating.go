package models

import "time"

// Rating is a row of the keyed rating ledger. Re-rating updates the score
// in place, it never appends a second row.
type Rating struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_post_user_rating;size:24"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_post_user_rating"`
	Score     int       `json:"score" gorm:"check:score >= 1 AND score <= 5"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpsertRatingRequest defines the request body for rating a post
type UpsertRatingRequest struct {
	Score int `json:"score" validate:"required,min=1,max=5"`
}

// RatingSummary is returned after every rating mutation.
type RatingSummary struct {
	Score       *int    `json:"score,omitempty"`
	RatingAvg   float64 `json:"rating_avg"`
	RatingCount int     `json:"rating_count"`
}
