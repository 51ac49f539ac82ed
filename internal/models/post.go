package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post status values.
const (
	PostStatusPublished = "published"
	PostStatusDraft     = "draft"
)

// ClothItem is a garment attached to a post.
type ClothItem struct {
	ID       string  `json:"id" bson:"id" validate:"required"`
	Name     string  `json:"name" bson:"name" validate:"required"`
	Shop     string  `json:"shop,omitempty" bson:"shop,omitempty"`
	ImageURL string  `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Category string  `json:"category,omitempty" bson:"category,omitempty"`
	Price    float64 `json:"price,omitempty" bson:"price,omitempty"`
}

// Post represents an outfit post stored in MongoDB. Engagement counters are
// denormalized and moved exclusively through atomic $inc updates; ratingAvg
// and ratingCount are the one exception, fully recomputed from the rating
// ledger on every rating mutation.
type Post struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        uint               `json:"user_id" bson:"user_id"`
	ImageURL      string             `json:"image_url" bson:"image_url"`
	Description   string             `json:"description" bson:"description"`
	Tags          []string           `json:"tags" bson:"tags"`
	Occasion      string             `json:"occasion,omitempty" bson:"occasion,omitempty"`
	Style         string             `json:"style,omitempty" bson:"style,omitempty"`
	Location      string             `json:"location,omitempty" bson:"location,omitempty"`
	ClothItems    []ClothItem        `json:"cloth_items" bson:"cloth_items"`
	RatingAvg     float64            `json:"rating_avg" bson:"rating_avg"`
	RatingCount   int                `json:"rating_count" bson:"rating_count"`
	LikesCount    int                `json:"likes_count" bson:"likes_count"`
	CommentsCount int                `json:"comments_count" bson:"comments_count"`
	SavedCount    int                `json:"saved_count" bson:"saved_count"`
	ViewsCount    int                `json:"views_count" bson:"views_count"`
	Status        string             `json:"status" bson:"status"`
	IsPublic      bool               `json:"is_public" bson:"is_public"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	ImageURL    string      `json:"image_url" validate:"required"`
	Description string      `json:"description" validate:"required,min=1,max=2000"`
	Tags        []string    `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=40"`
	Occasion    string      `json:"occasion,omitempty" validate:"omitempty,oneof=party work casual travel sport night formal"`
	Style       string      `json:"style,omitempty" validate:"omitempty,oneof=Street Minimalist Formal Boho Vintage Casual"`
	Location    string      `json:"location,omitempty" validate:"omitempty,max=100"`
	ClothItems  []ClothItem `json:"cloth_items,omitempty" validate:"omitempty,dive"`
	Status      string      `json:"status,omitempty" validate:"omitempty,oneof=published draft"`
}

// UpdatePostRequest defines the request body for a partial post update.
// Nil fields are left untouched.
type UpdatePostRequest struct {
	ImageURL    *string      `json:"image_url,omitempty"`
	Description *string      `json:"description,omitempty" validate:"omitempty,min=1,max=2000"`
	Tags        *[]string    `json:"tags,omitempty"`
	Occasion    *string      `json:"occasion,omitempty" validate:"omitempty,oneof=party work casual travel sport night formal"`
	Style       *string      `json:"style,omitempty" validate:"omitempty,oneof=Street Minimalist Formal Boho Vintage Casual"`
	Location    *string      `json:"location,omitempty" validate:"omitempty,max=100"`
	ClothItems  *[]ClothItem `json:"cloth_items,omitempty" validate:"omitempty,dive"`
	Status      *string      `json:"status,omitempty" validate:"omitempty,oneof=published draft"`
}

// AnnotatedPost is a post merged with its author and the viewer's
// interaction state. UserRating is nil when the viewer has not rated (or
// there is no viewer).
type AnnotatedPost struct {
	Post
	Author     UserCompact `json:"author"`
	IsLiked    bool        `json:"is_liked"`
	IsSaved    bool        `json:"is_saved"`
	UserRating *int        `json:"user_rating"`
}

// Pagination is the offset-based page metadata shared by every list
// endpoint.
type Pagination struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int   `json:"items_per_page"`
}

// FeedPage is the feed composer's result: a page of annotated posts plus
// pagination metadata.
type FeedPage struct {
	Posts      []AnnotatedPost `json:"posts"`
	Pagination Pagination      `json:"pagination"`
}

// NewPagination computes page metadata from a total row count.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: limit,
	}
}
