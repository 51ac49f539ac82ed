package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User represents an account with its denormalized social counters
// (PostgreSQL). Counters are only ever moved by atomic deltas issued from
// the graph and content services, never recomputed on the read path.
type User struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	Username       string     `json:"username" gorm:"uniqueIndex;size:30"`
	Email          string     `json:"email" gorm:"uniqueIndex"`
	PasswordHash   string     `json:"-"`
	RefreshToken   string     `json:"-"` // SHA-256 digest of the latest refresh token
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Avatar         string     `json:"avatar,omitempty"`
	Bio            string     `json:"bio,omitempty"`
	Location       string     `json:"location,omitempty"`
	Style          string     `json:"style" gorm:"size:20;default:Casual;index"`
	Language       string     `json:"language" gorm:"size:5;default:en"`
	FollowersCount int        `json:"followers_count" gorm:"default:0"`
	FollowingCount int        `json:"following_count" gorm:"default:0"`
	PostsCount     int        `json:"posts_count" gorm:"default:0"`
	IsPrivate      bool       `json:"is_private" gorm:"default:false"`
	IsVerified     bool       `json:"is_verified" gorm:"default:false"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// UserCompact is the author shape embedded in posts, comments and
// notification payloads.
type UserCompact struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	Avatar     string `json:"avatar,omitempty"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	IsVerified bool   `json:"is_verified"`
}

// ToCompact converts a full user into its embeddable form.
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:         u.ID,
		Username:   u.Username,
		Avatar:     u.Avatar,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		IsVerified: u.IsVerified,
	}
}

// UserProfile is a profile response annotated with the viewer's
// relationship to the subject.
type UserProfile struct {
	User           UserCompact `json:"user"`
	Bio            string      `json:"bio,omitempty"`
	Location       string      `json:"location,omitempty"`
	Style          string      `json:"style"`
	CreatedAt      time.Time   `json:"created_at"`
	PostsCount     int         `json:"posts_count"`
	FollowersCount int         `json:"followers_count"`
	FollowingCount int         `json:"following_count"`
	IsFollowing    *bool       `json:"is_following,omitempty"`
	IsBlocked      *bool       `json:"is_blocked,omitempty"`
}

// UserPage is a paginated user listing (followers/following).
type UserPage struct {
	Users      []UserCompact `json:"users"`
	Pagination Pagination    `json:"pagination"`
}

// RegisterRequest defines the request body for registration
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=30"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required,min=1,max=50"`
	LastName  string `json:"last_name" validate:"required,min=1,max=50"`
}

// LoginRequest defines the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest defines the request body for token refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UpdateProfileRequest defines the request body for profile updates
type UpdateProfileRequest struct {
	Username  *string `json:"username,omitempty" validate:"omitempty,min=3,max=30"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=50"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=50"`
	Avatar    *string `json:"avatar,omitempty"`
	Bio       *string `json:"bio,omitempty" validate:"omitempty,max=300"`
	Location  *string `json:"location,omitempty" validate:"omitempty,max=100"`
	Style     *string `json:"style,omitempty" validate:"omitempty,oneof=Street Minimalist Formal Boho Vintage Casual"`
	Language  *string `json:"language,omitempty" validate:"omitempty,oneof=en es"`
	IsPrivate *bool   `json:"is_private,omitempty"`
}

// AuthResponse is returned by register/login/refresh.
type AuthResponse struct {
	User         *User  `json:"user,omitempty"`
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
