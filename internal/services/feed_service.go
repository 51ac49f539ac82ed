package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/stylesnap/backend/internal/apperrors"
	"github.com/stylesnap/backend/internal/cache"
	"github.com/stylesnap/backend/internal/models"
	"github.com/stylesnap/backend/internal/repositories"
	"go.uber.org/zap"
)

// FeedOptions is the feed composer's request vocabulary. Tags is a
// comma-separated list matched with "any of" semantics.
type FeedOptions struct {
	Page     int
	Limit    int
	Filter   string
	UserID   *uint
	Sort     string
	Occasion string
	Style    string
	Tags     string
	Status   string
}

// FeedService is the read-only feed composer: filtered, sorted, paginated
// post listings annotated with the viewer's interaction state.
type FeedService struct {
	postRepo       repositories.PostRepository
	userRepo       repositories.UserRepository
	followRepo     repositories.FollowRepository
	likeRepo       repositories.LikeRepository
	ratingRepo     repositories.RatingRepository
	collectionRepo repositories.CollectionRepository
	feedCache      *cache.FeedCache
	log            *zap.Logger
}

// NewFeedService creates a FeedService. feedCache may be nil to disable
// caching.
func NewFeedService(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	likeRepo repositories.LikeRepository,
	ratingRepo repositories.RatingRepository,
	collectionRepo repositories.CollectionRepository,
	feedCache *cache.FeedCache,
	log *zap.Logger,
) *FeedService {
	return &FeedService{
		postRepo:       postRepo,
		userRepo:       userRepo,
		followRepo:     followRepo,
		likeRepo:       likeRepo,
		ratingRepo:     ratingRepo,
		collectionRepo: collectionRepo,
		feedCache:      feedCache,
		log:            log,
	}
}

// ListFeed builds one feed page. viewerID 0 means anonymous: no following
// filter, no interaction annotation, and the page is eligible for the
// cache.
func (s *FeedService) ListFeed(ctx context.Context, viewerID uint, opts FeedOptions) (*models.FeedPage, error) {
	page, limit := normalizePage(opts.Page, opts.Limit, 20)

	status := opts.Status
	if status == "" {
		status = models.PostStatusPublished
	}

	query := repositories.PostQuery{
		Status:      status,
		Occasion:    opts.Occasion,
		Style:       opts.Style,
		Tags:        splitTags(opts.Tags),
		SortPopular: opts.Sort == "popular",
		Skip:        int64((page - 1) * limit),
		Limit:       int64(limit),
	}

	if opts.Filter == "following" && viewerID != 0 {
		followingIDs, err := s.followRepo.GetFollowingIDs(ctx, viewerID)
		if err != nil {
			return nil, apperrors.Internal("failed to load following ids", err)
		}
		if len(followingIDs) == 0 && opts.UserID == nil {
			// Following nobody is an empty page, not an error.
			return &models.FeedPage{
				Posts:      []models.AnnotatedPost{},
				Pagination: models.NewPagination(page, limit, 0),
			}, nil
		}
		query.OwnerIDs = followingIDs
	}

	// An explicit user filter overrides the following filter.
	if opts.UserID != nil {
		query.OwnerID = opts.UserID
		query.OwnerIDs = nil
	}

	var cacheKey string
	if s.feedCache != nil && viewerID == 0 {
		cacheKey = s.cacheKey(page, limit, opts, status)
		if cached, ok := s.feedCache.Get(ctx, cacheKey); ok {
			return cached, nil
		}
	}

	posts, err := s.postRepo.FindPosts(ctx, query)
	if err != nil {
		return nil, apperrors.Internal("failed to list posts", err)
	}
	total, err := s.postRepo.CountPosts(ctx, query)
	if err != nil {
		return nil, apperrors.Internal("failed to count posts", err)
	}

	annotated, err := annotatePosts(ctx, s.userRepo, s.likeRepo, s.ratingRepo, s.collectionRepo, posts, viewerID)
	if err != nil {
		return nil, apperrors.Internal("failed to annotate posts", err)
	}

	result := &models.FeedPage{
		Posts:      annotated,
		Pagination: models.NewPagination(page, limit, total),
	}
	if cacheKey != "" {
		s.feedCache.Set(ctx, cacheKey, result)
	}
	return result, nil
}

// GetPost returns one post with interaction flags for the viewer. Every
// read counts as a view; viewsCount is bumped unconditionally.
func (s *FeedService) GetPost(ctx context.Context, postID string, viewerID uint) (*models.AnnotatedPost, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if errors.Is(err, repositories.ErrPostNotFound) {
		return nil, apperrors.NotFound("post not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load post", err)
	}

	if err := s.postRepo.IncrementViewsCount(ctx, postID); err != nil {
		s.log.Error("views counter update failed", zap.String("post_id", postID), zap.Error(err))
	}

	annotated, err := annotatePosts(ctx, s.userRepo, s.likeRepo, s.ratingRepo, s.collectionRepo, []models.Post{*post}, viewerID)
	if err != nil {
		return nil, apperrors.Internal("failed to annotate post", err)
	}
	return &annotated[0], nil
}

// GetUserPosts lists one user's posts, newest first.
func (s *FeedService) GetUserPosts(ctx context.Context, userID uint, viewerID uint, page, limit int, status string) (*models.FeedPage, error) {
	if status == "" {
		status = models.PostStatusPublished
	}
	return s.ListFeed(ctx, viewerID, FeedOptions{
		Page:   page,
		Limit:  limit,
		UserID: &userID,
		Status: status,
	})
}

func (s *FeedService) cacheKey(page, limit int, opts FeedOptions, status string) string {
	userID := ""
	if opts.UserID != nil {
		userID = strconv.FormatUint(uint64(*opts.UserID), 10)
	}
	return s.feedCache.Key(page, limit, opts.Filter, userID, opts.Sort, opts.Occasion, opts.Style, opts.Tags, status)
}

func splitTags(tags string) []string {
	if tags == "" {
		return nil
	}
	parts := strings.Split(tags, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
