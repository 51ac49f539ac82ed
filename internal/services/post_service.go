package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/stylesnap/backend/internal/apperrors"
	"github.com/stylesnap/backend/internal/events"
	"github.com/stylesnap/backend/internal/models"
	"github.com/stylesnap/backend/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PostService owns post mutations and the like ledger, together with the
// compensating counter updates they trigger.
type PostService struct {
	postRepo       repositories.PostRepository
	userRepo       repositories.UserRepository
	likeRepo       repositories.LikeRepository
	ratingRepo     repositories.RatingRepository
	collectionRepo repositories.CollectionRepository
	commentRepo    repositories.CommentRepository
	notifier       Notifier
	publisher      events.Publisher
	log            *zap.Logger
}

// NewPostService creates a PostService.
func NewPostService(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	likeRepo repositories.LikeRepository,
	ratingRepo repositories.RatingRepository,
	collectionRepo repositories.CollectionRepository,
	commentRepo repositories.CommentRepository,
	notifier Notifier,
	publisher events.Publisher,
	log *zap.Logger,
) *PostService {
	return &PostService{
		postRepo:       postRepo,
		userRepo:       userRepo,
		likeRepo:       likeRepo,
		ratingRepo:     ratingRepo,
		collectionRepo: collectionRepo,
		commentRepo:    commentRepo,
		notifier:       notifier,
		publisher:      publisher,
		log:            log,
	}
}

// CreatePost stores an owner-stamped post and bumps the owner's posts
// counter. Published posts are announced on the event bus for follower
// fan-out.
func (s *PostService) CreatePost(ctx context.Context, userID uint, req *models.CreatePostRequest) (*models.AnnotatedPost, error) {
	status := req.Status
	if status == "" {
		status = models.PostStatusPublished
	}

	post := &models.Post{
		UserID:      userID,
		ImageURL:    req.ImageURL,
		Description: req.Description,
		Tags:        req.Tags,
		Occasion:    req.Occasion,
		Style:       req.Style,
		Location:    req.Location,
		ClothItems:  req.ClothItems,
		Status:      status,
		IsPublic:    true,
	}
	if err := s.postRepo.CreatePost(ctx, post); err != nil {
		return nil, apperrors.Internal("failed to create post", err)
	}

	if err := s.userRepo.AdjustPostsCount(ctx, userID, 1); err != nil {
		s.log.Error("posts counter update failed after create",
			zap.Uint("user_id", userID), zap.Error(err))
	}

	if status == models.PostStatusPublished {
		event := events.PostCreatedEvent{PostID: post.ID.Hex(), AuthorID: userID, CreatedAt: post.CreatedAt}
		if err := s.publisher.PublishPostCreated(ctx, event); err != nil {
			s.log.Error("failed to publish post-created event",
				zap.String("post_id", post.ID.Hex()), zap.Error(err))
		}
	}

	return s.withAuthor(ctx, post)
}

// UpdatePost applies an owner-restricted partial field replace.
func (s *PostService) UpdatePost(ctx context.Context, postID string, userID uint, req *models.UpdatePostRequest) (*models.AnnotatedPost, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, apperrors.Forbidden("you can only update your own posts")
	}

	fields := map[string]interface{}{}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Tags != nil {
		fields["tags"] = *req.Tags
	}
	if req.Occasion != nil {
		fields["occasion"] = *req.Occasion
	}
	if req.Style != nil {
		fields["style"] = *req.Style
	}
	if req.Location != nil {
		fields["location"] = *req.Location
	}
	if req.ClothItems != nil {
		fields["cloth_items"] = *req.ClothItems
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}

	if len(fields) > 0 {
		if err := s.postRepo.UpdatePostFields(ctx, postID, fields); err != nil {
			return nil, apperrors.Internal("failed to update post", err)
		}
	}

	updated, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.withAuthor(ctx, updated)
}

// DeletePost removes a post and everything hanging off it. Ledger cleanup
// runs first and the primary entity goes last, so a partial failure leaves
// a retryable state instead of orphaned ledger rows.
func (s *PostService) DeletePost(ctx context.Context, postID string, userID uint) error {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return apperrors.Forbidden("you can only delete your own posts")
	}

	if err := s.likeRepo.DeleteByPost(ctx, postID); err != nil {
		return apperrors.Internal("failed to purge likes", err)
	}
	if err := s.collectionRepo.DeleteItemsByPost(ctx, postID); err != nil {
		return apperrors.Internal("failed to purge collection items", err)
	}
	if err := s.ratingRepo.DeleteByPost(ctx, postID); err != nil {
		return apperrors.Internal("failed to purge ratings", err)
	}
	if err := s.commentRepo.DeleteByPost(ctx, postID); err != nil {
		return apperrors.Internal("failed to purge comments", err)
	}

	if err := s.postRepo.DeletePost(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return apperrors.NotFound("post not found")
		}
		return apperrors.Internal("failed to delete post", err)
	}

	if err := s.userRepo.AdjustPostsCount(ctx, userID, -1); err != nil {
		s.log.Error("posts counter update failed after delete",
			zap.Uint("user_id", userID), zap.Error(err))
	}
	return nil
}

// LikePost adds the (post, actor) like row and bumps likesCount. A second
// like by the same actor is a conflict, not an idempotent no-op. Returns
// the new likes count.
func (s *PostService) LikePost(ctx context.Context, postID string, userID uint) (int, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return 0, err
	}

	hasLiked, err := s.likeRepo.HasUserLikedPost(ctx, postID, userID)
	if err != nil {
		return 0, apperrors.Internal("failed to check like state", err)
	}
	if hasLiked {
		return 0, apperrors.Conflict("post already liked")
	}

	like := &models.Like{PostID: postID, UserID: userID}
	if err := s.likeRepo.CreateLike(ctx, like); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, apperrors.Conflict("post already liked")
		}
		return 0, apperrors.Internal("failed to create like", err)
	}

	if err := s.postRepo.AdjustLikesCount(ctx, postID, 1); err != nil {
		s.log.Error("likes counter update failed after ledger write",
			zap.String("post_id", postID), zap.Error(err))
	}

	if actor, err := s.userRepo.GetUserByID(ctx, userID); err == nil {
		s.notifier.Notify(ctx, post.UserID, userID, models.NotificationLike,
			fmt.Sprintf("%s liked your post", actor.Username), NotificationRef{PostID: postID})
	}

	return s.currentLikesCount(ctx, postID, post.LikesCount+1), nil
}

// UnlikePost removes the like row and decrements likesCount.
func (s *PostService) UnlikePost(ctx context.Context, postID string, userID uint) (int, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return 0, err
	}

	err = s.likeRepo.DeleteLike(ctx, postID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, apperrors.NotFound("post not liked")
	}
	if err != nil {
		return 0, apperrors.Internal("failed to delete like", err)
	}

	if err := s.postRepo.AdjustLikesCount(ctx, postID, -1); err != nil {
		s.log.Error("likes counter update failed after ledger write",
			zap.String("post_id", postID), zap.Error(err))
	}

	return s.currentLikesCount(ctx, postID, post.LikesCount-1), nil
}

func (s *PostService) getPost(ctx context.Context, postID string) (*models.Post, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if errors.Is(err, repositories.ErrPostNotFound) {
		return nil, apperrors.NotFound("post not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load post", err)
	}
	return post, nil
}

func (s *PostService) currentLikesCount(ctx context.Context, postID string, fallback int) int {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return fallback
	}
	return post.LikesCount
}

func (s *PostService) withAuthor(ctx context.Context, post *models.Post) (*models.AnnotatedPost, error) {
	annotated := &models.AnnotatedPost{Post: *post}
	author, err := s.userRepo.GetUserByID(ctx, post.UserID)
	if err == nil {
		annotated.Author = author.ToCompact()
	}
	return annotated, nil
}
