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

func newCommentService() (*CommentService, *MockCommentRepository, *MockPostRepository, *MockUserRepository, *MockNotifier) {
	commentRepo := new(MockCommentRepository)
	postRepo := new(MockPostRepository)
	userRepo := new(MockUserRepository)
	notifier := new(MockNotifier)
	svc := NewCommentService(commentRepo, postRepo, userRepo, notifier, zap.NewNop())
	return svc, commentRepo, postRepo, userRepo, notifier
}

func TestCreateComment_TopLevel(t *testing.T) {
	svc, commentRepo, postRepo, userRepo, notifier := newCommentService()
	post := testPost(2)
	id := post.ID.Hex()

	postRepo.On("GetPostByID", mock.Anything, id).Return(post, nil)
	commentRepo.On("CreateComment", mock.Anything, mock.MatchedBy(func(c *models.Comment) bool {
		return c.PostID == id && c.UserID == 1 && c.ParentCommentID == nil
	})).Return(nil)
	postRepo.On("AdjustCommentsCount", mock.Anything, id, 1).Return(nil)
	userRepo.On("GetUserByID", mock.Anything, uint(1)).Return(&models.User{ID: 1, Username: "alice"}, nil)

	comment, err := svc.Create(context.Background(), id, 1, &models.CreateCommentRequest{Text: "love it"})
	require.NoError(t, err)
	assert.Equal(t, "alice", comment.Author.Username)

	require.Len(t, notifier.Notifications, 1)
	assert.Equal(t, uint(2), notifier.Notifications[0].RecipientID)
	assert.Equal(t, models.NotificationComment, notifier.Notifications[0].Type)
}

func TestCreateComment_ReplyToReply(t *testing.T) {
	svc, commentRepo, postRepo, _, _ := newCommentService()
	post := testPost(2)
	id := post.ID.Hex()

	grandparent := uint(10)
	postRepo.On("GetPostByID", mock.Anything, id).Return(post, nil)
	commentRepo.On("GetCommentByID", mock.Anything, uint(11)).
		Return(&models.Comment{ID: 11, PostID: id, ParentCommentID: &grandparent}, nil)

	parent := uint(11)
	_, err := svc.Create(context.Background(), id, 1, &models.CreateCommentRequest{
		Text:            "nested",
		ParentCommentID: &parent,
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalid))
	commentRepo.AssertNotCalled(t, "CreateComment", mock.Anything, mock.Anything)
}

func TestCreateComment_ParentOnDifferentPost(t *testing.T) {
	svc, commentRepo, postRepo, _, _ := newCommentService()
	post := testPost(2)
	id := post.ID.Hex()

	postRepo.On("GetPostByID", mock.Anything, id).Return(post, nil)
	commentRepo.On("GetCommentByID", mock.Anything, uint(11)).
		Return(&models.Comment{ID: 11, PostID: "bbbbbbbbbbbbbbbbbbbbbbbb"}, nil)

	parent := uint(11)
	_, err := svc.Create(context.Background(), id, 1, &models.CreateCommentRequest{
		Text:            "wrong thread",
		ParentCommentID: &parent,
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalid))
}

func TestCreateComment_ParentMissing(t *testing.T) {
	svc, commentRepo, postRepo, _, _ := newCommentService()
	post := testPost(2)
	id := post.ID.Hex()

	postRepo.On("GetPostByID", mock.Anything, id).Return(post, nil)
	commentRepo.On("GetCommentByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

	parent := uint(99)
	_, err := svc.Create(context.Background(), id, 1, &models.CreateCommentRequest{
		Text:            "orphan",
		ParentCommentID: &parent,
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestListComments_BuildsTreeWithAuthors(t *testing.T) {
	svc, commentRepo, postRepo, userRepo, _ := newCommentService()
	post := testPost(2)
	id := post.ID.Hex()
	parentID := uint(1)

	postRepo.On("GetPostByID", mock.Anything, id).Return(post, nil)
	commentRepo.On("GetTopLevelComments", mock.Anything, id, 0, 20).
		Return([]models.Comment{{ID: 1, PostID: id, UserID: 5, Text: "top"}}, nil)
	commentRepo.On("CountTopLevelComments", mock.Anything, id).Return(int64(1), nil)
	commentRepo.On("GetReplies", mock.Anything, uint(1)).
		Return([]models.Comment{{ID: 2, PostID: id, UserID: 6, Text: "reply", ParentCommentID: &parentID}}, nil)
	userRepo.On("GetUsersByIDs", mock.Anything, mock.MatchedBy(func(ids []uint) bool {
		return len(ids) == 2
	})).Return([]models.User{{ID: 5, Username: "eve"}, {ID: 6, Username: "frank"}}, nil)

	page, err := svc.List(context.Background(), id, 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Comments, 1)
	assert.Equal(t, "eve", page.Comments[0].Author.Username)
	require.Len(t, page.Comments[0].Replies, 1)
	assert.Equal(t, "frank", page.Comments[0].Replies[0].Author.Username)
	assert.Equal(t, int64(1), page.Pagination.TotalItems)
}

func TestDeleteComment_CascadeSettlesCounterOnce(t *testing.T) {
	svc, commentRepo, postRepo, _, _ := newCommentService()
	id := "aaaaaaaaaaaaaaaaaaaaaaaa"

	commentRepo.On("GetCommentByID", mock.Anything, uint(1)).
		Return(&models.Comment{ID: 1, PostID: id, UserID: 1}, nil)
	commentRepo.On("DeleteWithReplies", mock.Anything, uint(1)).Return(int64(3), nil)
	postRepo.On("AdjustCommentsCount", mock.Anything, id, -3).Return(nil)

	err := svc.Delete(context.Background(), 1, 1)
	require.NoError(t, err)
	postRepo.AssertExpectations(t)
	postRepo.AssertNumberOfCalls(t, "AdjustCommentsCount", 1)
}

func TestDeleteComment_NotOwner(t *testing.T) {
	svc, commentRepo, postRepo, _, _ := newCommentService()

	commentRepo.On("GetCommentByID", mock.Anything, uint(1)).
		Return(&models.Comment{ID: 1, PostID: "aaaaaaaaaaaaaaaaaaaaaaaa", UserID: 2}, nil)

	err := svc.Delete(context.Background(), 1, 1)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	commentRepo.AssertNotCalled(t, "DeleteWithReplies", mock.Anything, mock.Anything)
	postRepo.AssertNotCalled(t, "AdjustCommentsCount", mock.Anything, mock.Anything, mock.Anything)
}
