package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/stylesnap/backend/internal/events"
	"github.com/stylesnap/backend/internal/models"
	"github.com/stylesnap/backend/internal/repositories"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUsersByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUserFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockUserRepository) SearchUsers(ctx context.Context, query, style string, excludeIDs []uint, limit int) ([]models.User, error) {
	args := m.Called(ctx, query, style, excludeIDs, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) SearchUsernamesByPrefix(ctx context.Context, prefix string, limit int) ([]string, error) {
	args := m.Called(ctx, prefix, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockUserRepository) AdjustFollowersCount(ctx context.Context, id uint, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockUserRepository) AdjustFollowingCount(ctx context.Context, id uint, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockUserRepository) AdjustPostsCount(ctx context.Context, id uint, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

// MockFollowRepository is a mock implementation of repositories.FollowRepository
type MockFollowRepository struct {
	mock.Mock
}

func (m *MockFollowRepository) CreateFollow(ctx context.Context, follow *models.Follow) error {
	args := m.Called(ctx, follow)
	return args.Error(0)
}

func (m *MockFollowRepository) DeleteFollow(ctx context.Context, followerID, followeeID uint) error {
	args := m.Called(ctx, followerID, followeeID)
	return args.Error(0)
}

func (m *MockFollowRepository) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	args := m.Called(ctx, followerID, followeeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) GetFollowers(ctx context.Context, userID uint, offset, limit int) ([]models.User, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockFollowRepository) GetFollowing(ctx context.Context, userID uint, offset, limit int) ([]models.User, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockFollowRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFollowRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFollowRepository) GetFollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockFollowRepository) GetFollowerIDs(ctx context.Context, userID uint) ([]uint, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockFollowRepository) DeleteBetween(ctx context.Context, a, b uint) error {
	args := m.Called(ctx, a, b)
	return args.Error(0)
}

// MockBlockRepository is a mock implementation of repositories.BlockRepository
type MockBlockRepository struct {
	mock.Mock
}

func (m *MockBlockRepository) CreateBlock(ctx context.Context, block *models.Block) error {
	args := m.Called(ctx, block)
	return args.Error(0)
}

func (m *MockBlockRepository) DeleteBlock(ctx context.Context, blockerID, blockedID uint) error {
	args := m.Called(ctx, blockerID, blockedID)
	return args.Error(0)
}

func (m *MockBlockRepository) HasBlocked(ctx context.Context, blockerID, blockedID uint) (bool, error) {
	args := m.Called(ctx, blockerID, blockedID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBlockRepository) ExistsBetween(ctx context.Context, a, b uint) (bool, error) {
	args := m.Called(ctx, a, b)
	return args.Bool(0), args.Error(1)
}

func (m *MockBlockRepository) GetBlockedPairIDs(ctx context.Context, userID uint) ([]uint, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

// MockLikeRepository is a mock implementation of repositories.LikeRepository
type MockLikeRepository struct {
	mock.Mock
}

func (m *MockLikeRepository) CreateLike(ctx context.Context, like *models.Like) error {
	args := m.Called(ctx, like)
	return args.Error(0)
}

func (m *MockLikeRepository) DeleteLike(ctx context.Context, postID string, userID uint) error {
	args := m.Called(ctx, postID, userID)
	return args.Error(0)
}

func (m *MockLikeRepository) HasUserLikedPost(ctx context.Context, postID string, userID uint) (bool, error) {
	args := m.Called(ctx, postID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLikeRepository) GetLikedPostIDs(ctx context.Context, userID uint, postIDs []string) (map[string]bool, error) {
	args := m.Called(ctx, userID, postIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *MockLikeRepository) DeleteByPost(ctx context.Context, postID string) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

// MockRatingRepository is a mock implementation of repositories.RatingRepository
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) GetRating(ctx context.Context, postID string, userID uint) (*models.Rating, error) {
	args := m.Called(ctx, postID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingRepository) CreateRating(ctx context.Context, rating *models.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *MockRatingRepository) UpdateScore(ctx context.Context, id uint, score int) error {
	args := m.Called(ctx, id, score)
	return args.Error(0)
}

func (m *MockRatingRepository) DeleteRating(ctx context.Context, postID string, userID uint) error {
	args := m.Called(ctx, postID, userID)
	return args.Error(0)
}

func (m *MockRatingRepository) Aggregate(ctx context.Context, postID string) (float64, int64, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(float64), args.Get(1).(int64), args.Error(2)
}

func (m *MockRatingRepository) GetUserRatings(ctx context.Context, userID uint, postIDs []string) (map[string]int, error) {
	args := m.Called(ctx, userID, postIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockRatingRepository) DeleteByPost(ctx context.Context, postID string) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

// MockCollectionRepository is a mock implementation of repositories.CollectionRepository
type MockCollectionRepository struct {
	mock.Mock
}

func (m *MockCollectionRepository) CreateCollection(ctx context.Context, collection *models.Collection) error {
	args := m.Called(ctx, collection)
	return args.Error(0)
}

func (m *MockCollectionRepository) GetCollectionByID(ctx context.Context, id uint) (*models.Collection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCollectionRepository) GetCollectionsByUser(ctx context.Context, userID uint) ([]models.Collection, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Collection), args.Error(1)
}

func (m *MockCollectionRepository) UpdateCollectionFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockCollectionRepository) DeleteCollection(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCollectionRepository) AddItem(ctx context.Context, item *models.CollectionItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCollectionRepository) RemoveItem(ctx context.Context, collectionID uint, postID string) error {
	args := m.Called(ctx, collectionID, postID)
	return args.Error(0)
}

func (m *MockCollectionRepository) ItemExists(ctx context.Context, collectionID uint, postID string) (bool, error) {
	args := m.Called(ctx, collectionID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCollectionRepository) CountItems(ctx context.Context, collectionID uint) (int64, error) {
	args := m.Called(ctx, collectionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCollectionRepository) GetItems(ctx context.Context, collectionID uint) ([]models.CollectionItem, error) {
	args := m.Called(ctx, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CollectionItem), args.Error(1)
}

func (m *MockCollectionRepository) GetSavedPostIDs(ctx context.Context, userID uint, postIDs []string) (map[string]bool, error) {
	args := m.Called(ctx, userID, postIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *MockCollectionRepository) DeleteItemsByCollection(ctx context.Context, collectionID uint) error {
	args := m.Called(ctx, collectionID)
	return args.Error(0)
}

func (m *MockCollectionRepository) DeleteItemsByPost(ctx context.Context, postID string) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

// MockCommentRepository is a mock implementation of repositories.CommentRepository
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) GetTopLevelComments(ctx context.Context, postID string, offset, limit int) ([]models.Comment, error) {
	args := m.Called(ctx, postID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockCommentRepository) CountTopLevelComments(ctx context.Context, postID string) (int64, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommentRepository) GetReplies(ctx context.Context, parentID uint) ([]models.Comment, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockCommentRepository) CountReplies(ctx context.Context, parentID uint) (int64, error) {
	args := m.Called(ctx, parentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommentRepository) DeleteWithReplies(ctx context.Context, id uint) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommentRepository) DeleteByPost(ctx context.Context, postID string) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

// MockNotificationRepository is a mock implementation of repositories.NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByRecipient(ctx context.Context, recipientID uint, unread *bool, offset, limit int) ([]models.Notification, error) {
	args := m.Called(ctx, recipientID, unread, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) CountByRecipient(ctx context.Context, recipientID uint, unread *bool) (int64, error) {
	args := m.Called(ctx, recipientID, unread)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkAsRead(ctx context.Context, id, recipientID uint) error {
	args := m.Called(ctx, id, recipientID)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID uint) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) DeleteNotification(ctx context.Context, id, recipientID uint) error {
	args := m.Called(ctx, id, recipientID)
	return args.Error(0)
}

// MockPostRepository is a mock implementation of repositories.PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetPostsByIDs(ctx context.Context, ids []string) ([]models.Post, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) UpdatePostFields(ctx context.Context, id string, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockPostRepository) DeletePost(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) FindPosts(ctx context.Context, q repositories.PostQuery) ([]models.Post, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) CountPosts(ctx context.Context, q repositories.PostQuery) (int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepository) IncrementViewsCount(ctx context.Context, postID string) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

func (m *MockPostRepository) AdjustLikesCount(ctx context.Context, postID string, delta int) error {
	args := m.Called(ctx, postID, delta)
	return args.Error(0)
}

func (m *MockPostRepository) AdjustCommentsCount(ctx context.Context, postID string, delta int) error {
	args := m.Called(ctx, postID, delta)
	return args.Error(0)
}

func (m *MockPostRepository) AdjustSavedCount(ctx context.Context, postID string, delta int) error {
	args := m.Called(ctx, postID, delta)
	return args.Error(0)
}

func (m *MockPostRepository) SetRatingSummary(ctx context.Context, postID string, avg float64, count int64) error {
	args := m.Called(ctx, postID, avg, count)
	return args.Error(0)
}

func (m *MockPostRepository) TagSuggestions(ctx context.Context, prefix string, limit int) ([]string, error) {
	args := m.Called(ctx, prefix, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// recordedNotification captures a Notifier call for assertions.
type recordedNotification struct {
	RecipientID uint
	SenderID    uint
	Type        string
	Message     string
	Ref         NotificationRef
}

// MockNotifier records Notify calls without touching storage.
type MockNotifier struct {
	Notifications []recordedNotification
}

func (m *MockNotifier) Notify(_ context.Context, recipientID, senderID uint, notifType, message string, ref NotificationRef) {
	m.Notifications = append(m.Notifications, recordedNotification{
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        notifType,
		Message:     message,
		Ref:         ref,
	})
}

// MockPublisher records published events.
type MockPublisher struct {
	Events []events.PostCreatedEvent
}

func (m *MockPublisher) PublishPostCreated(_ context.Context, event events.PostCreatedEvent) error {
	m.Events = append(m.Events, event)
	return nil
}
