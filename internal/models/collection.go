package models

import "time"

// Collection is a user-owned set of saved posts. ItemsCount is derived
// from the items table, never stored.
type Collection struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        uint      `json:"user_id" gorm:"index"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	CoverImageURL string    `json:"cover_image_url,omitempty"`
	IsPublic      bool      `json:"is_public" gorm:"default:true"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CollectionItem records a post's membership in a collection.
type CollectionItem struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	CollectionID uint      `json:"collection_id" gorm:"index;uniqueIndex:idx_collection_post"`
	PostID       string    `json:"post_id" gorm:"index;uniqueIndex:idx_collection_post;size:24"`
	SavedAt      time.Time `json:"saved_at" gorm:"autoCreateTime"`
}

// CollectionWithCount is a collection list entry with its derived size.
type CollectionWithCount struct {
	Collection
	ItemsCount int64 `json:"items_count"`
}

// CollectionDetail is a single collection with its member posts, newest
// save first.
type CollectionDetail struct {
	Collection
	Items      []AnnotatedPost `json:"items"`
	ItemsCount int             `json:"items_count"`
}

// CreateCollectionRequest defines the request body for creating a collection
type CreateCollectionRequest struct {
	Title         string `json:"title" validate:"required,min=1,max=100"`
	Description   string `json:"description,omitempty" validate:"omitempty,max=500"`
	CoverImageURL string `json:"cover_image_url,omitempty"`
	IsPublic      *bool  `json:"is_public,omitempty"`
}

// UpdateCollectionRequest defines the request body for updating a collection
type UpdateCollectionRequest struct {
	Title         *string `json:"title,omitempty" validate:"omitempty,min=1,max=100"`
	Description   *string `json:"description,omitempty" validate:"omitempty,max=500"`
	CoverImageURL *string `json:"cover_image_url,omitempty"`
	IsPublic      *bool   `json:"is_public,omitempty"`
}
