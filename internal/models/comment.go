package models

import "time"

// Comment is a comment on a post. Nesting is limited to one level: a
// reply's parent must itself be top-level (ParentCommentID nil) and on the
// same post.
type Comment struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	PostID          string    `json:"post_id" gorm:"index;size:24"`
	UserID          uint      `json:"user_id" gorm:"index"`
	Text            string    `json:"text"`
	ParentCommentID *uint     `json:"parent_comment_id,omitempty" gorm:"index"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CommentWithReplies is a top-level comment carrying its author and full
// direct-reply list, oldest reply first.
type CommentWithReplies struct {
	Comment
	Author  UserCompact         `json:"author"`
	Replies []CommentWithAuthor `json:"replies"`
}

// CommentWithAuthor pairs a comment with its author.
type CommentWithAuthor struct {
	Comment
	Author UserCompact `json:"author"`
}

// CommentPage is a paginated top-level comment listing.
type CommentPage struct {
	Comments   []CommentWithReplies `json:"comments"`
	Pagination Pagination           `json:"pagination"`
}

// CreateCommentRequest defines the request body for creating a comment
type CreateCommentRequest struct {
	Text            string `json:"text" validate:"required,min=1,max=1000"`
	ParentCommentID *uint  `json:"parent_comment_id,omitempty"`
}
