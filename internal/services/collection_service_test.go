package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stylesnap/backend/internal/apperrors"
	"github.com/stylesnap/backend/internal/models"
	"github.com/stylesnap/backend/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type collectionServiceMocks struct {
	collectionRepo *MockCollectionRepository
	postRepo       *MockPostRepository
	userRepo       *MockUserRepository
	likeRepo       *MockLikeRepository
	ratingRepo     *MockRatingRepository
}

func newCollectionService() (*CollectionService, *collectionServiceMocks) {
	m := &collectionServiceMocks{
		collectionRepo: new(MockCollectionRepository),
		postRepo:       new(MockPostRepository),
		userRepo:       new(MockUserRepository),
		likeRepo:       new(MockLikeRepository),
		ratingRepo:     new(MockRatingRepository),
	}
	svc := NewCollectionService(m.collectionRepo, m.postRepo, m.userRepo, m.likeRepo, m.ratingRepo, zap.NewNop())
	return svc, m
}

func TestAddPost_BumpsSavedCount(t *testing.T) {
	svc, m := newCollectionService()
	post := testPost(2)
	id := post.ID.Hex()

	m.collectionRepo.On("GetCollectionByID", mock.Anything, uint(3)).
		Return(&models.Collection{ID: 3, UserID: 1}, nil)
	m.postRepo.On("GetPostByID", mock.Anything, id).Return(post, nil)
	m.collectionRepo.On("ItemExists", mock.Anything, uint(3), id).Return(false, nil)
	m.collectionRepo.On("AddItem", mock.Anything, mock.MatchedBy(func(item *models.CollectionItem) bool {
		return item.CollectionID == 3 && item.PostID == id
	})).Return(nil)
	m.postRepo.On("AdjustSavedCount", mock.Anything, id, 1).Return(nil)
	m.collectionRepo.On("CountItems", mock.Anything, uint(3)).Return(int64(7), nil)

	count, err := svc.AddPost(context.Background(), 3, 1, id)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
	m.postRepo.AssertExpectations(t)
}

func TestAddPost_NotYourCollection(t *testing.T) {
	svc, m := newCollectionService()

	m.collectionRepo.On("GetCollectionByID", mock.Anything, uint(3)).
		Return(&models.Collection{ID: 3, UserID: 2}, nil)

	_, err := svc.AddPost(context.Background(), 3, 1, "aaaaaaaaaaaaaaaaaaaaaaaa")
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	m.collectionRepo.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything)
}

func TestAddPost_CollectionMissing(t *testing.T) {
	svc, m := newCollectionService()

	m.collectionRepo.On("GetCollectionByID", mock.Anything, uint(3)).
		Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.AddPost(context.Background(), 3, 1, "aaaaaaaaaaaaaaaaaaaaaaaa")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestAddPost_PostMissing(t *testing.T) {
	svc, m := newCollectionService()

	m.collectionRepo.On("GetCollectionByID", mock.Anything, uint(3)).
		Return(&models.Collection{ID: 3, UserID: 1}, nil)
	m.postRepo.On("GetPostByID", mock.Anything, "aaaaaaaaaaaaaaaaaaaaaaaa").
		Return(nil, repositories.ErrPostNotFound)

	_, err := svc.AddPost(context.Background(), 3, 1, "aaaaaaaaaaaaaaaaaaaaaaaa")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestAddPost_AlreadySaved(t *testing.T) {
	svc, m := newCollectionService()
	post := testPost(2)
	id := post.ID.Hex()

	m.collectionRepo.On("GetCollectionByID", mock.Anything, uint(3)).
		Return(&models.Collection{ID: 3, UserID: 1}, nil)
	m.postRepo.On("GetPostByID", mock.Anything, id).Return(post, nil)
	m.collectionRepo.On("ItemExists", mock.Anything, uint(3), id).Return(true, nil)

	_, err := svc.AddPost(context.Background(), 3, 1, id)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	m.postRepo.AssertNotCalled(t, "AdjustSavedCount", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemovePost_NotInCollection(t *testing.T) {
	svc, m := newCollectionService()

	m.collectionRepo.On("GetCollectionByID", mock.Anything, uint(3)).
		Return(&models.Collection{ID: 3, UserID: 1}, nil)
	m.collectionRepo.On("RemoveItem", mock.Anything, uint(3), "aaaaaaaaaaaaaaaaaaaaaaaa").
		Return(gorm.ErrRecordNotFound)

	_, err := svc.RemovePost(context.Background(), 3, 1, "aaaaaaaaaaaaaaaaaaaaaaaa")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	m.postRepo.AssertNotCalled(t, "AdjustSavedCount", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemovePost_DecrementsSavedCount(t *testing.T) {
	svc, m := newCollectionService()
	id := "aaaaaaaaaaaaaaaaaaaaaaaa"

	m.collectionRepo.On("GetCollectionByID", mock.Anything, uint(3)).
		Return(&models.Collection{ID: 3, UserID: 1}, nil)
	m.collectionRepo.On("RemoveItem", mock.Anything, uint(3), id).Return(nil)
	m.postRepo.On("AdjustSavedCount", mock.Anything, id, -1).Return(nil)
	m.collectionRepo.On("CountItems", mock.Anything, uint(3)).Return(int64(0), nil)

	count, err := svc.RemovePost(context.Background(), 3, 1, id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
	m.postRepo.AssertExpectations(t)
}

func TestGetCollection_PrivateIsOwnerOnly(t *testing.T) {
	svc, m := newCollectionService()

	m.collectionRepo.On("GetCollectionByID", mock.Anything, uint(3)).
		Return(&models.Collection{ID: 3, UserID: 2, IsPublic: false}, nil)

	_, err := svc.Get(context.Background(), 3, 1)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	_, err = svc.Get(context.Background(), 3, 0)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestGetCollection_KeepsSavedAtOrder(t *testing.T) {
	svc, m := newCollectionService()
	postA := testPost(5)
	postB := testPost(6)
	idA, idB := postA.ID.Hex(), postB.ID.Hex()

	m.collectionRepo.On("GetCollectionByID", mock.Anything, uint(3)).
		Return(&models.Collection{ID: 3, UserID: 2, IsPublic: true}, nil)
	m.collectionRepo.On("GetItems", mock.Anything, uint(3)).
		Return([]models.CollectionItem{
			{CollectionID: 3, PostID: idB},
			{CollectionID: 3, PostID: idA},
		}, nil)
	m.postRepo.On("GetPostsByIDs", mock.Anything, []string{idB, idA}).
		Return([]models.Post{*postA, *postB}, nil)
	m.userRepo.On("GetUsersByIDs", mock.Anything, mock.Anything).
		Return([]models.User{{ID: 5}, {ID: 6}}, nil)

	detail, err := svc.Get(context.Background(), 3, 0)
	require.NoError(t, err)
	require.Len(t, detail.Items, 2)
	assert.Equal(t, idB, detail.Items[0].Post.ID.Hex())
	assert.Equal(t, idA, detail.Items[1].Post.ID.Hex())
	assert.Equal(t, 2, detail.ItemsCount)
}

func TestDeleteCollection_PurgesItemsFirst(t *testing.T) {
	svc, m := newCollectionService()

	m.collectionRepo.On("GetCollectionByID", mock.Anything, uint(3)).
		Return(&models.Collection{ID: 3, UserID: 1}, nil)
	m.collectionRepo.On("DeleteItemsByCollection", mock.Anything, uint(3)).Return(nil)
	m.collectionRepo.On("DeleteCollection", mock.Anything, uint(3)).Return(nil)

	err := svc.Delete(context.Background(), 3, 1)
	require.NoError(t, err)
	m.collectionRepo.AssertExpectations(t)
}
