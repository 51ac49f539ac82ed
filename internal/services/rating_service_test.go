package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stylesnap/backend/internal/apperrors"
	"github.com/stylesnap/backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newRatingService() (*RatingService, *MockRatingRepository, *MockPostRepository, *MockUserRepository, *MockNotifier) {
	ratingRepo := new(MockRatingRepository)
	postRepo := new(MockPostRepository)
	userRepo := new(MockUserRepository)
	notifier := new(MockNotifier)
	svc := NewRatingService(ratingRepo, postRepo, userRepo, notifier, zap.NewNop())
	return svc, ratingRepo, postRepo, userRepo, notifier
}

func TestUpsertRating_FirstInsertNotifiesAndRecomputes(t *testing.T) {
	svc, ratingRepo, postRepo, userRepo, notifier := newRatingService()
	post := testPost(2)
	id := post.ID.Hex()

	postRepo.On("GetPostByID", mock.Anything, id).Return(post, nil)
	ratingRepo.On("GetRating", mock.Anything, id, uint(1)).Return(nil, gorm.ErrRecordNotFound)
	ratingRepo.On("CreateRating", mock.Anything, mock.MatchedBy(func(r *models.Rating) bool {
		return r.PostID == id && r.UserID == 1 && r.Score == 4
	})).Return(nil)
	ratingRepo.On("Aggregate", mock.Anything, id).Return(4.25, int64(2), nil)
	postRepo.On("SetRatingSummary", mock.Anything, id, 4.3, int64(2)).Return(nil)
	userRepo.On("GetUserByID", mock.Anything, uint(1)).Return(&models.User{ID: 1, Username: "alice"}, nil)

	summary, err := svc.UpsertRating(context.Background(), id, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 4.3, summary.RatingAvg)
	assert.Equal(t, 2, summary.RatingCount)
	require.NotNil(t, summary.Score)
	assert.Equal(t, 4, *summary.Score)

	require.Len(t, notifier.Notifications, 1)
	assert.Equal(t, models.NotificationRating, notifier.Notifications[0].Type)
	postRepo.AssertExpectations(t)
}

func TestUpsertRating_ReplaceDoesNotNotifyAgain(t *testing.T) {
	svc, ratingRepo, postRepo, _, notifier := newRatingService()
	post := testPost(2)
	id := post.ID.Hex()

	postRepo.On("GetPostByID", mock.Anything, id).Return(post, nil)
	ratingRepo.On("GetRating", mock.Anything, id, uint(1)).
		Return(&models.Rating{ID: 9, PostID: id, UserID: 1, Score: 2}, nil)
	ratingRepo.On("UpdateScore", mock.Anything, uint(9), 5).Return(nil)
	ratingRepo.On("Aggregate", mock.Anything, id).Return(5.0, int64(1), nil)
	postRepo.On("SetRatingSummary", mock.Anything, id, 5.0, int64(1)).Return(nil)

	summary, err := svc.UpsertRating(context.Background(), id, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 5.0, summary.RatingAvg)
	assert.Empty(t, notifier.Notifications)
	ratingRepo.AssertNotCalled(t, "CreateRating", mock.Anything, mock.Anything)
}

func TestUpsertRating_InsertRaceFallsBackToUpdate(t *testing.T) {
	svc, ratingRepo, postRepo, _, notifier := newRatingService()
	post := testPost(2)
	id := post.ID.Hex()

	postRepo.On("GetPostByID", mock.Anything, id).Return(post, nil)
	ratingRepo.On("GetRating", mock.Anything, id, uint(1)).Return(nil, gorm.ErrRecordNotFound).Once()
	ratingRepo.On("CreateRating", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)
	ratingRepo.On("GetRating", mock.Anything, id, uint(1)).
		Return(&models.Rating{ID: 7, PostID: id, UserID: 1, Score: 3}, nil)
	ratingRepo.On("UpdateScore", mock.Anything, uint(7), 4).Return(nil)
	ratingRepo.On("Aggregate", mock.Anything, id).Return(4.0, int64(3), nil)
	postRepo.On("SetRatingSummary", mock.Anything, id, 4.0, int64(3)).Return(nil)

	_, err := svc.UpsertRating(context.Background(), id, 1, 4)
	require.NoError(t, err)
	assert.Empty(t, notifier.Notifications)
	ratingRepo.AssertExpectations(t)
}

func TestDeleteRating_NotFound(t *testing.T) {
	svc, ratingRepo, _, _, _ := newRatingService()

	ratingRepo.On("DeleteRating", mock.Anything, "aaaaaaaaaaaaaaaaaaaaaaaa", uint(1)).
		Return(gorm.ErrRecordNotFound)

	_, err := svc.DeleteRating(context.Background(), "aaaaaaaaaaaaaaaaaaaaaaaa", 1)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestDeleteRating_RecomputesFromEmptyLedger(t *testing.T) {
	svc, ratingRepo, postRepo, _, _ := newRatingService()
	id := "aaaaaaaaaaaaaaaaaaaaaaaa"

	ratingRepo.On("DeleteRating", mock.Anything, id, uint(1)).Return(nil)
	ratingRepo.On("Aggregate", mock.Anything, id).Return(0.0, int64(0), nil)
	postRepo.On("SetRatingSummary", mock.Anything, id, 0.0, int64(0)).Return(nil)

	summary, err := svc.DeleteRating(context.Background(), id, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.RatingAvg)
	assert.Equal(t, 0, summary.RatingCount)
}

func TestGetUserRating_NoOwnScore(t *testing.T) {
	svc, ratingRepo, postRepo, _, _ := newRatingService()
	post := testPost(2)
	post.RatingAvg = 3.5
	post.RatingCount = 8
	id := post.ID.Hex()

	postRepo.On("GetPostByID", mock.Anything, id).Return(post, nil)
	ratingRepo.On("GetRating", mock.Anything, id, uint(1)).Return(nil, gorm.ErrRecordNotFound)

	summary, err := svc.GetUserRating(context.Background(), id, 1)
	require.NoError(t, err)
	assert.Equal(t, 3.5, summary.RatingAvg)
	assert.Equal(t, 8, summary.RatingCount)
	assert.Nil(t, summary.Score)
}
