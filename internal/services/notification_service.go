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

// NotificationRef carries the optional entity references of a
// notification.
type NotificationRef struct {
	PostID    string
	CommentID *uint
	RatingID  *uint
}

// Notifier records cross-user events. A failed insert never fails the
// triggering request; implementations log and move on.
type Notifier interface {
	Notify(ctx context.Context, recipientID, senderID uint, notifType, message string, ref NotificationRef)
}

// NotificationService owns notification fan-out and read/unread state.
type NotificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	followRepo       repositories.FollowRepository
	log              *zap.Logger
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	log *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		followRepo:       followRepo,
		log:              log,
	}
}

// Notify inserts an unread notification. Self-actions are silent: when
// recipient and sender are the same user nothing is recorded.
func (s *NotificationService) Notify(ctx context.Context, recipientID, senderID uint, notifType, message string, ref NotificationRef) {
	if recipientID == senderID {
		return
	}

	n := &models.Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        notifType,
		Message:     message,
		PostID:      ref.PostID,
		CommentID:   ref.CommentID,
		RatingID:    ref.RatingID,
	}
	if err := s.notificationRepo.CreateNotification(ctx, n); err != nil {
		s.log.Error("failed to create notification",
			zap.Uint("recipient_id", recipientID),
			zap.String("type", notifType),
			zap.Error(err))
	}
}

// List returns the recipient's notifications, newest first, along with the
// unread total. unread=true restricts to unread, unread=false to read.
func (s *NotificationService) List(ctx context.Context, recipientID uint, unread *bool, page, limit int) (*models.NotificationPage, error) {
	page, limit = normalizePage(page, limit, 50)
	offset := (page - 1) * limit

	notifications, err := s.notificationRepo.GetByRecipient(ctx, recipientID, unread, offset, limit)
	if err != nil {
		return nil, apperrors.Internal("failed to list notifications", err)
	}
	total, err := s.notificationRepo.CountByRecipient(ctx, recipientID, unread)
	if err != nil {
		return nil, apperrors.Internal("failed to count notifications", err)
	}
	unreadCount, err := s.notificationRepo.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, apperrors.Internal("failed to count unread notifications", err)
	}

	senderIDs := make([]uint, 0, len(notifications))
	seen := make(map[uint]bool)
	for _, n := range notifications {
		if !seen[n.SenderID] {
			seen[n.SenderID] = true
			senderIDs = append(senderIDs, n.SenderID)
		}
	}
	senders, err := s.userRepo.GetUsersByIDs(ctx, senderIDs)
	if err != nil {
		return nil, apperrors.Internal("failed to load notification senders", err)
	}
	senderMap := make(map[uint]models.UserCompact, len(senders))
	for _, u := range senders {
		senderMap[u.ID] = u.ToCompact()
	}

	withSenders := make([]models.NotificationWithSender, len(notifications))
	for i, n := range notifications {
		withSenders[i] = models.NotificationWithSender{
			Notification: n,
			Sender:       senderMap[n.SenderID],
		}
	}

	return &models.NotificationPage{
		Notifications: withSenders,
		Pagination:    models.NewPagination(page, limit, total),
		UnreadCount:   unreadCount,
	}, nil
}

// MarkAsRead marks one notification read. A notification owned by someone
// else is reported as not found, never as forbidden.
func (s *NotificationService) MarkAsRead(ctx context.Context, id, recipientID uint) error {
	err := s.notificationRepo.MarkAsRead(ctx, id, recipientID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("notification not found")
	}
	if err != nil {
		return apperrors.Internal("failed to mark notification as read", err)
	}
	return nil
}

// MarkAllAsRead marks every unread notification of the recipient read and
// returns how many were updated.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, recipientID uint) (int64, error) {
	updated, err := s.notificationRepo.MarkAllAsRead(ctx, recipientID)
	if err != nil {
		return 0, apperrors.Internal("failed to mark notifications as read", err)
	}
	return updated, nil
}

// Remove deletes one notification, recipient-scoped.
func (s *NotificationService) Remove(ctx context.Context, id, recipientID uint) error {
	err := s.notificationRepo.DeleteNotification(ctx, id, recipientID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("notification not found")
	}
	if err != nil {
		return apperrors.Internal("failed to delete notification", err)
	}
	return nil
}

// FanOutNewPost creates a new_post notification for every follower of the
// post's author. Invoked from the post-created event subscription.
func (s *NotificationService) FanOutNewPost(ctx context.Context, event events.PostCreatedEvent) {
	author, err := s.userRepo.GetUserByID(ctx, event.AuthorID)
	if err != nil {
		s.log.Error("fan-out: failed to load author", zap.Uint("author_id", event.AuthorID), zap.Error(err))
		return
	}

	followerIDs, err := s.followRepo.GetFollowerIDs(ctx, event.AuthorID)
	if err != nil {
		s.log.Error("fan-out: failed to load followers", zap.Uint("author_id", event.AuthorID), zap.Error(err))
		return
	}

	message := fmt.Sprintf("%s shared a new post", author.Username)
	for _, followerID := range followerIDs {
		s.Notify(ctx, followerID, event.AuthorID, models.NotificationNewPost, message, NotificationRef{PostID: event.PostID})
	}
}
