package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/stylesnap/backend/internal/apperrors"
	"github.com/stylesnap/backend/internal/models"
	"github.com/stylesnap/backend/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RatingService owns the rating ledger. Unlike the other counters, the
// rating summary on a post is recomputed in full from the ledger after
// every mutation; an incrementally maintained average drifts.
type RatingService struct {
	ratingRepo repositories.RatingRepository
	postRepo   repositories.PostRepository
	userRepo   repositories.UserRepository
	notifier   Notifier
	log        *zap.Logger
}

// NewRatingService creates a RatingService.
func NewRatingService(
	ratingRepo repositories.RatingRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	notifier Notifier,
	log *zap.Logger,
) *RatingService {
	return &RatingService{
		ratingRepo: ratingRepo,
		postRepo:   postRepo,
		userRepo:   userRepo,
		notifier:   notifier,
		log:        log,
	}
}

// UpsertRating sets the actor's score for a post: update-in-place when a
// rating exists, insert otherwise. Returns the recomputed summary.
func (s *RatingService) UpsertRating(ctx context.Context, postID string, userID uint, score int) (*models.RatingSummary, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if errors.Is(err, repositories.ErrPostNotFound) {
		return nil, apperrors.NotFound("post not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load post", err)
	}

	existing, err := s.ratingRepo.GetRating(ctx, postID, userID)
	created := false
	switch {
	case err == nil:
		if err := s.ratingRepo.UpdateScore(ctx, existing.ID, score); err != nil {
			return nil, apperrors.Internal("failed to update rating", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		rating := &models.Rating{PostID: postID, UserID: userID, Score: score}
		if err := s.ratingRepo.CreateRating(ctx, rating); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost the insert race; the row exists now, update it.
				concurrent, gerr := s.ratingRepo.GetRating(ctx, postID, userID)
				if gerr != nil {
					return nil, apperrors.Internal("failed to load rating", gerr)
				}
				if uerr := s.ratingRepo.UpdateScore(ctx, concurrent.ID, score); uerr != nil {
					return nil, apperrors.Internal("failed to update rating", uerr)
				}
			} else {
				return nil, apperrors.Internal("failed to create rating", err)
			}
		} else {
			created = true
		}
	default:
		return nil, apperrors.Internal("failed to load rating", err)
	}

	summary, err := s.recompute(ctx, postID)
	if err != nil {
		return nil, err
	}
	summary.Score = &score

	if created {
		if actor, err := s.userRepo.GetUserByID(ctx, userID); err == nil {
			s.notifier.Notify(ctx, post.UserID, userID, models.NotificationRating,
				fmt.Sprintf("%s rated your post", actor.Username), NotificationRef{PostID: postID})
		}
	}

	return summary, nil
}

// DeleteRating removes the actor's rating and recomputes the summary.
func (s *RatingService) DeleteRating(ctx context.Context, postID string, userID uint) (*models.RatingSummary, error) {
	err := s.ratingRepo.DeleteRating(ctx, postID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("rating not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to delete rating", err)
	}
	return s.recompute(ctx, postID)
}

// GetUserRating returns the actor's score for a post, nil when absent.
func (s *RatingService) GetUserRating(ctx context.Context, postID string, userID uint) (*models.RatingSummary, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if errors.Is(err, repositories.ErrPostNotFound) {
		return nil, apperrors.NotFound("post not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load post", err)
	}

	summary := &models.RatingSummary{RatingAvg: post.RatingAvg, RatingCount: post.RatingCount}
	rating, err := s.ratingRepo.GetRating(ctx, postID, userID)
	if err == nil {
		summary.Score = &rating.Score
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal("failed to load rating", err)
	}
	return summary, nil
}

// recompute rebuilds (ratingAvg, ratingCount) from the full ledger and
// persists both on the post. The average is rounded to one decimal place.
func (s *RatingService) recompute(ctx context.Context, postID string) (*models.RatingSummary, error) {
	avg, count, err := s.ratingRepo.Aggregate(ctx, postID)
	if err != nil {
		return nil, apperrors.Internal("failed to aggregate ratings", err)
	}
	rounded := math.Round(avg*10) / 10

	if err := s.postRepo.SetRatingSummary(ctx, postID, rounded, count); err != nil {
		s.log.Error("rating summary update failed after ledger write",
			zap.String("post_id", postID), zap.Error(err))
	}

	return &models.RatingSummary{RatingAvg: rounded, RatingCount: int(count)}, nil
}
