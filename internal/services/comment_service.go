package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/stylesnap/backend/internal/apperrors"
	"github.com/stylesnap/backend/internal/models"
	"github.com/stylesnap/backend/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CommentService owns the one-level comment tree under posts and the
// commentsCount compensation.
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
	userRepo    repositories.UserRepository
	notifier    Notifier
	log         *zap.Logger
}

// NewCommentService creates a CommentService.
func NewCommentService(
	commentRepo repositories.CommentRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	notifier Notifier,
	log *zap.Logger,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		log:         log,
	}
}

// Create adds a comment or a reply. Replies can only attach to top-level
// comments on the same post.
func (s *CommentService) Create(ctx context.Context, postID string, userID uint, req *models.CreateCommentRequest) (*models.CommentWithAuthor, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, apperrors.NotFound("post not found")
		}
		return nil, apperrors.Internal("failed to load post", err)
	}

	if req.ParentCommentID != nil {
		parent, err := s.commentRepo.GetCommentByID(ctx, *req.ParentCommentID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("parent comment not found")
		}
		if err != nil {
			return nil, apperrors.Internal("failed to load parent comment", err)
		}
		if parent.ParentCommentID != nil {
			return nil, apperrors.Invalid("replies to replies are not allowed")
		}
		if parent.PostID != postID {
			return nil, apperrors.Invalid("parent comment belongs to a different post")
		}
	}

	comment := &models.Comment{
		PostID:          postID,
		UserID:          userID,
		Text:            req.Text,
		ParentCommentID: req.ParentCommentID,
	}
	if err := s.commentRepo.CreateComment(ctx, comment); err != nil {
		return nil, apperrors.Internal("failed to create comment", err)
	}

	if err := s.postRepo.AdjustCommentsCount(ctx, postID, 1); err != nil {
		s.log.Error("comments counter update failed after ledger write",
			zap.String("post_id", postID), zap.Error(err))
	}

	author, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to load comment author", err)
	}

	s.notifier.Notify(ctx, post.UserID, userID, models.NotificationComment,
		fmt.Sprintf("%s commented on your post", author.Username),
		NotificationRef{PostID: postID, CommentID: &comment.ID})

	return &models.CommentWithAuthor{Comment: *comment, Author: author.ToCompact()}, nil
}

// List returns a page of top-level comments, newest first, each with its
// full reply list oldest first.
func (s *CommentService) List(ctx context.Context, postID string, page, limit int) (*models.CommentPage, error) {
	if _, err := s.postRepo.GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, apperrors.NotFound("post not found")
		}
		return nil, apperrors.Internal("failed to load post", err)
	}

	page, limit = normalizePage(page, limit, 20)
	offset := (page - 1) * limit

	comments, err := s.commentRepo.GetTopLevelComments(ctx, postID, offset, limit)
	if err != nil {
		return nil, apperrors.Internal("failed to load comments", err)
	}
	total, err := s.commentRepo.CountTopLevelComments(ctx, postID)
	if err != nil {
		return nil, apperrors.Internal("failed to count comments", err)
	}

	// One author lookup for the whole tree.
	userIDSet := map[uint]struct{}{}
	replies := make([][]models.Comment, len(comments))
	for i, c := range comments {
		userIDSet[c.UserID] = struct{}{}
		r, err := s.commentRepo.GetReplies(ctx, c.ID)
		if err != nil {
			return nil, apperrors.Internal("failed to load replies", err)
		}
		replies[i] = r
		for _, reply := range r {
			userIDSet[reply.UserID] = struct{}{}
		}
	}
	userIDs := make([]uint, 0, len(userIDSet))
	for id := range userIDSet {
		userIDs = append(userIDs, id)
	}
	users, err := s.userRepo.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, apperrors.Internal("failed to load comment authors", err)
	}
	authors := make(map[uint]models.UserCompact, len(users))
	for _, u := range users {
		authors[u.ID] = u.ToCompact()
	}

	items := make([]models.CommentWithReplies, len(comments))
	for i, c := range comments {
		withReplies := models.CommentWithReplies{
			Comment: c,
			Author:  authors[c.UserID],
			Replies: make([]models.CommentWithAuthor, len(replies[i])),
		}
		for j, r := range replies[i] {
			withReplies.Replies[j] = models.CommentWithAuthor{Comment: r, Author: authors[r.UserID]}
		}
		items[i] = withReplies
	}

	return &models.CommentPage{
		Comments:   items,
		Pagination: models.NewPagination(page, limit, total),
	}, nil
}

// Delete removes the caller's comment together with its replies and
// settles commentsCount in a single adjustment.
func (s *CommentService) Delete(ctx context.Context, commentID, userID uint) error {
	comment, err := s.commentRepo.GetCommentByID(ctx, commentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("comment not found")
	}
	if err != nil {
		return apperrors.Internal("failed to load comment", err)
	}
	if comment.UserID != userID {
		return apperrors.Forbidden("you can only delete your own comments")
	}

	deleted, err := s.commentRepo.DeleteWithReplies(ctx, commentID)
	if err != nil {
		return apperrors.Internal("failed to delete comment", err)
	}

	if deleted > 0 {
		if err := s.postRepo.AdjustCommentsCount(ctx, comment.PostID, -int(deleted)); err != nil {
			s.log.Error("comments counter update failed after ledger write",
				zap.String("post_id", comment.PostID), zap.Error(err))
		}
	}
	return nil
}
