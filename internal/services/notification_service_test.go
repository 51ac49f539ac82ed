package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stylesnap/backend/internal/apperrors"
	"github.com/stylesnap/backend/internal/events"
	"github.com/stylesnap/backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newNotificationService() (*NotificationService, *MockNotificationRepository, *MockUserRepository, *MockFollowRepository) {
	notificationRepo := new(MockNotificationRepository)
	userRepo := new(MockUserRepository)
	followRepo := new(MockFollowRepository)
	svc := NewNotificationService(notificationRepo, userRepo, followRepo, zap.NewNop())
	return svc, notificationRepo, userRepo, followRepo
}

func TestNotify_SelfActionIsSilent(t *testing.T) {
	svc, notificationRepo, _, _ := newNotificationService()

	svc.Notify(context.Background(), 1, 1, models.NotificationLike, "you liked your own post", NotificationRef{})

	notificationRepo.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
}

func TestNotify_InsertsUnreadRow(t *testing.T) {
	svc, notificationRepo, _, _ := newNotificationService()

	commentID := uint(4)
	notificationRepo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.RecipientID == 2 && n.SenderID == 1 &&
			n.Type == models.NotificationComment &&
			n.PostID == "aaaaaaaaaaaaaaaaaaaaaaaa" &&
			n.CommentID != nil && *n.CommentID == 4 &&
			!n.IsRead
	})).Return(nil)

	svc.Notify(context.Background(), 2, 1, models.NotificationComment, "alice commented on your post",
		NotificationRef{PostID: "aaaaaaaaaaaaaaaaaaaaaaaa", CommentID: &commentID})

	notificationRepo.AssertExpectations(t)
}

func TestListNotifications_IncludesSendersAndUnreadCount(t *testing.T) {
	svc, notificationRepo, userRepo, _ := newNotificationService()

	notificationRepo.On("GetByRecipient", mock.Anything, uint(2), (*bool)(nil), 0, 50).
		Return([]models.Notification{
			{ID: 1, RecipientID: 2, SenderID: 1, Type: models.NotificationFollow},
			{ID: 2, RecipientID: 2, SenderID: 1, Type: models.NotificationLike},
		}, nil)
	notificationRepo.On("CountByRecipient", mock.Anything, uint(2), (*bool)(nil)).Return(int64(2), nil)
	notificationRepo.On("CountUnread", mock.Anything, uint(2)).Return(int64(1), nil)
	userRepo.On("GetUsersByIDs", mock.Anything, []uint{1}).
		Return([]models.User{{ID: 1, Username: "alice"}}, nil)

	page, err := svc.List(context.Background(), 2, nil, 1, 50)
	require.NoError(t, err)
	require.Len(t, page.Notifications, 2)
	assert.Equal(t, "alice", page.Notifications[0].Sender.Username)
	assert.Equal(t, int64(1), page.UnreadCount)

	// Senders are resolved in a single batched lookup.
	userRepo.AssertNumberOfCalls(t, "GetUsersByIDs", 1)
}

func TestMarkAsRead_ForeignNotificationIsNotFound(t *testing.T) {
	svc, notificationRepo, _, _ := newNotificationService()

	notificationRepo.On("MarkAsRead", mock.Anything, uint(9), uint(2)).Return(gorm.ErrRecordNotFound)

	err := svc.MarkAsRead(context.Background(), 9, 2)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestFanOutNewPost_NotifiesEveryFollower(t *testing.T) {
	svc, notificationRepo, userRepo, followRepo := newNotificationService()

	userRepo.On("GetUserByID", mock.Anything, uint(1)).Return(&models.User{ID: 1, Username: "alice"}, nil)
	followRepo.On("GetFollowerIDs", mock.Anything, uint(1)).Return([]uint{2, 3}, nil)
	notificationRepo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.Type == models.NotificationNewPost && n.SenderID == 1 && n.PostID == "aaaaaaaaaaaaaaaaaaaaaaaa"
	})).Return(nil)

	svc.FanOutNewPost(context.Background(), events.PostCreatedEvent{
		PostID:   "aaaaaaaaaaaaaaaaaaaaaaaa",
		AuthorID: 1,
	})

	notificationRepo.AssertNumberOfCalls(t, "CreateNotification", 2)
}
