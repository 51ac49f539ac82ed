package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stylesnap/backend/internal/apperrors"
	"github.com/stylesnap/backend/internal/models"
	"github.com/stylesnap/backend/internal/repositories"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	accessTokenTTL  = time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

// AuthService handles registration, login and refresh-token rotation.
// Refresh tokens are stored as SHA-256 digests so a database leak cannot
// be replayed.
type AuthService struct {
	userRepo      repositories.UserRepository
	jwtSecret     []byte
	refreshSecret []byte
	log           *zap.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret, refreshSecret string, log *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     []byte(jwtSecret),
		refreshSecret: []byte(refreshSecret),
		log:           log,
	}
}

// Register creates a user and signs an initial token pair.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("username or email already taken")
		}
		return nil, apperrors.Internal("failed to create user", err)
	}

	return s.issueTokens(ctx, user)
}

// Login verifies credentials and rotates the token pair.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Unauthorized("invalid email or password")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	now := time.Now()
	if err := s.userRepo.UpdateUserFields(ctx, user.ID, map[string]interface{}{"last_login_at": now}); err != nil {
		s.log.Error("failed to record last login", zap.Uint("user_id", user.ID), zap.Error(err))
	}
	user.LastLoginAt = &now

	return s.issueTokens(ctx, user)
}

// Refresh exchanges a valid refresh token for a new pair. The presented
// token must match the stored hash; a successful exchange invalidates it.
func (s *AuthService) Refresh(ctx context.Context, req *models.RefreshRequest) (*models.AuthResponse, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(req.RefreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.refreshSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}

	digest := hashToken(req.RefreshToken)
	if user.RefreshToken == "" ||
		subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(digest)) != 1 {
		return nil, apperrors.Unauthorized("refresh token has been revoked")
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes the stored refresh token.
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	if err := s.userRepo.UpdateUserFields(ctx, userID, map[string]interface{}{"refresh_token": ""}); err != nil {
		return apperrors.Internal("failed to revoke refresh token", err)
	}
	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*models.AuthResponse, error) {
	access, err := s.signToken(user, s.jwtSecret, accessTokenTTL)
	if err != nil {
		return nil, apperrors.Internal("failed to sign access token", err)
	}
	refresh, err := s.signToken(user, s.refreshSecret, refreshTokenTTL)
	if err != nil {
		return nil, apperrors.Internal("failed to sign refresh token", err)
	}

	if err := s.userRepo.UpdateUserFields(ctx, user.ID, map[string]interface{}{"refresh_token": hashToken(refresh)}); err != nil {
		return nil, apperrors.Internal("failed to store refresh token", err)
	}

	return &models.AuthResponse{User: user, Token: access, RefreshToken: refresh}, nil
}

func (s *AuthService) signToken(user *models.User, secret []byte, ttl time.Duration) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
