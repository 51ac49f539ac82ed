package services

import (
	"context"
	"errors"

	"github.com/stylesnap/backend/internal/apperrors"
	"github.com/stylesnap/backend/internal/models"
	"github.com/stylesnap/backend/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CollectionService owns collections and the save ledger (collection
// items), with the savedCount compensation on posts.
type CollectionService struct {
	collectionRepo repositories.CollectionRepository
	postRepo       repositories.PostRepository
	userRepo       repositories.UserRepository
	likeRepo       repositories.LikeRepository
	ratingRepo     repositories.RatingRepository
	log            *zap.Logger
}

// NewCollectionService creates a CollectionService.
func NewCollectionService(
	collectionRepo repositories.CollectionRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	likeRepo repositories.LikeRepository,
	ratingRepo repositories.RatingRepository,
	log *zap.Logger,
) *CollectionService {
	return &CollectionService{
		collectionRepo: collectionRepo,
		postRepo:       postRepo,
		userRepo:       userRepo,
		likeRepo:       likeRepo,
		ratingRepo:     ratingRepo,
		log:            log,
	}
}

// Create stores a new collection for the caller.
func (s *CollectionService) Create(ctx context.Context, userID uint, req *models.CreateCollectionRequest) (*models.Collection, error) {
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	collection := &models.Collection{
		UserID:        userID,
		Title:         req.Title,
		Description:   req.Description,
		CoverImageURL: req.CoverImageURL,
		IsPublic:      isPublic,
	}
	if err := s.collectionRepo.CreateCollection(ctx, collection); err != nil {
		return nil, apperrors.Internal("failed to create collection", err)
	}
	return collection, nil
}

// List returns the caller's collections with derived item counts.
func (s *CollectionService) List(ctx context.Context, userID uint) ([]models.CollectionWithCount, error) {
	collections, err := s.collectionRepo.GetCollectionsByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to list collections", err)
	}

	result := make([]models.CollectionWithCount, len(collections))
	for i, c := range collections {
		count, err := s.collectionRepo.CountItems(ctx, c.ID)
		if err != nil {
			return nil, apperrors.Internal("failed to count collection items", err)
		}
		result[i] = models.CollectionWithCount{Collection: c, ItemsCount: count}
	}
	return result, nil
}

// Get returns one collection with its member posts, newest save first.
// Private collections are forbidden to everyone but the owner.
func (s *CollectionService) Get(ctx context.Context, collectionID, viewerID uint) (*models.CollectionDetail, error) {
	collection, err := s.getCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if !collection.IsPublic && collection.UserID != viewerID {
		return nil, apperrors.Forbidden("this collection is private")
	}

	items, err := s.collectionRepo.GetItems(ctx, collectionID)
	if err != nil {
		return nil, apperrors.Internal("failed to load collection items", err)
	}

	postIDs := make([]string, len(items))
	for i, item := range items {
		postIDs[i] = item.PostID
	}
	posts, err := s.postRepo.GetPostsByIDs(ctx, postIDs)
	if err != nil {
		return nil, apperrors.Internal("failed to load collection posts", err)
	}

	// Keep the saved-at ordering from the items table.
	postMap := make(map[string]models.Post, len(posts))
	for _, p := range posts {
		postMap[p.ID.Hex()] = p
	}
	ordered := make([]models.Post, 0, len(items))
	for _, item := range items {
		if p, ok := postMap[item.PostID]; ok {
			ordered = append(ordered, p)
		}
	}

	annotated, err := annotatePosts(ctx, s.userRepo, s.likeRepo, s.ratingRepo, s.collectionRepo, ordered, viewerID)
	if err != nil {
		return nil, apperrors.Internal("failed to annotate collection posts", err)
	}

	return &models.CollectionDetail{
		Collection: *collection,
		Items:      annotated,
		ItemsCount: len(annotated),
	}, nil
}

// Update is an owner-restricted partial replace.
func (s *CollectionService) Update(ctx context.Context, collectionID, userID uint, req *models.UpdateCollectionRequest) (*models.Collection, error) {
	collection, err := s.getCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if collection.UserID != userID {
		return nil, apperrors.Forbidden("you can only update your own collections")
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.CoverImageURL != nil {
		fields["cover_image_url"] = *req.CoverImageURL
	}
	if req.IsPublic != nil {
		fields["is_public"] = *req.IsPublic
	}
	if len(fields) > 0 {
		if err := s.collectionRepo.UpdateCollectionFields(ctx, collectionID, fields); err != nil {
			return nil, apperrors.Internal("failed to update collection", err)
		}
	}
	return s.getCollection(ctx, collectionID)
}

// Delete removes a collection and its items; items first so a partial
// failure is retryable.
func (s *CollectionService) Delete(ctx context.Context, collectionID, userID uint) error {
	collection, err := s.getCollection(ctx, collectionID)
	if err != nil {
		return err
	}
	if collection.UserID != userID {
		return apperrors.Forbidden("you can only delete your own collections")
	}

	if err := s.collectionRepo.DeleteItemsByCollection(ctx, collectionID); err != nil {
		return apperrors.Internal("failed to purge collection items", err)
	}
	if err := s.collectionRepo.DeleteCollection(ctx, collectionID); err != nil {
		return apperrors.Internal("failed to delete collection", err)
	}
	return nil
}

// AddPost saves a post into the caller's collection and bumps the post's
// savedCount. Returns the collection's new item count.
func (s *CollectionService) AddPost(ctx context.Context, collectionID, userID uint, postID string) (int64, error) {
	collection, err := s.getCollection(ctx, collectionID)
	if err != nil {
		return 0, err
	}
	if collection.UserID != userID {
		return 0, apperrors.Forbidden("you can only add posts to your own collections")
	}

	if _, err := s.postRepo.GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return 0, apperrors.NotFound("post not found")
		}
		return 0, apperrors.Internal("failed to load post", err)
	}

	exists, err := s.collectionRepo.ItemExists(ctx, collectionID, postID)
	if err != nil {
		return 0, apperrors.Internal("failed to check collection item", err)
	}
	if exists {
		return 0, apperrors.Conflict("post already in collection")
	}

	item := &models.CollectionItem{CollectionID: collectionID, PostID: postID}
	if err := s.collectionRepo.AddItem(ctx, item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, apperrors.Conflict("post already in collection")
		}
		return 0, apperrors.Internal("failed to add collection item", err)
	}

	if err := s.postRepo.AdjustSavedCount(ctx, postID, 1); err != nil {
		s.log.Error("saved counter update failed after ledger write",
			zap.String("post_id", postID), zap.Error(err))
	}

	count, err := s.collectionRepo.CountItems(ctx, collectionID)
	if err != nil {
		return 0, apperrors.Internal("failed to count collection items", err)
	}
	return count, nil
}

// RemovePost takes a post out of the caller's collection. An absent item
// is not found, not a conflict.
func (s *CollectionService) RemovePost(ctx context.Context, collectionID, userID uint, postID string) (int64, error) {
	collection, err := s.getCollection(ctx, collectionID)
	if err != nil {
		return 0, err
	}
	if collection.UserID != userID {
		return 0, apperrors.Forbidden("you can only remove posts from your own collections")
	}

	err = s.collectionRepo.RemoveItem(ctx, collectionID, postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, apperrors.NotFound("post not in collection")
	}
	if err != nil {
		return 0, apperrors.Internal("failed to remove collection item", err)
	}

	if err := s.postRepo.AdjustSavedCount(ctx, postID, -1); err != nil {
		s.log.Error("saved counter update failed after ledger write",
			zap.String("post_id", postID), zap.Error(err))
	}

	count, err := s.collectionRepo.CountItems(ctx, collectionID)
	if err != nil {
		return 0, apperrors.Internal("failed to count collection items", err)
	}
	return count, nil
}

func (s *CollectionService) getCollection(ctx context.Context, id uint) (*models.Collection, error) {
	collection, err := s.collectionRepo.GetCollectionByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("collection not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load collection", err)
	}
	return collection, nil
}
