package services

import (
	"context"

	"github.com/stylesnap/backend/internal/apperrors"
	"github.com/stylesnap/backend/internal/models"
	"github.com/stylesnap/backend/internal/repositories"
	"go.uber.org/zap"
)

// SearchOptions narrows a post search next to the free-text query.
type SearchOptions struct {
	Query    string
	Occasion string
	Style    string
	Tags     []string
}

// Suggestions is the typeahead payload: username and tag prefixes.
type Suggestions struct {
	Usernames []string `json:"usernames"`
	Tags      []string `json:"tags"`
}

// SearchService fronts full-text post search, user search and typeahead
// suggestions.
type SearchService struct {
	postRepo       repositories.PostRepository
	userRepo       repositories.UserRepository
	likeRepo       repositories.LikeRepository
	ratingRepo     repositories.RatingRepository
	collectionRepo repositories.CollectionRepository
	userService    *UserService
	log            *zap.Logger
}

// NewSearchService creates a SearchService.
func NewSearchService(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	likeRepo repositories.LikeRepository,
	ratingRepo repositories.RatingRepository,
	collectionRepo repositories.CollectionRepository,
	userService *UserService,
	log *zap.Logger,
) *SearchService {
	return &SearchService{
		postRepo:       postRepo,
		userRepo:       userRepo,
		likeRepo:       likeRepo,
		ratingRepo:     ratingRepo,
		collectionRepo: collectionRepo,
		userService:    userService,
		log:            log,
	}
}

// SearchPosts runs a text search over published posts, optionally
// narrowed by occasion, style and tags.
func (s *SearchService) SearchPosts(ctx context.Context, opts SearchOptions, viewerID uint) ([]models.AnnotatedPost, error) {
	query := repositories.PostQuery{
		Status:   models.PostStatusPublished,
		Text:     opts.Query,
		Occasion: opts.Occasion,
		Style:    opts.Style,
		Tags:     opts.Tags,
		Limit:    100,
	}
	posts, err := s.postRepo.FindPosts(ctx, query)
	if err != nil {
		return nil, apperrors.Internal("failed to search posts", err)
	}
	annotated, err := annotatePosts(ctx, s.userRepo, s.likeRepo, s.ratingRepo, s.collectionRepo, posts, viewerID)
	if err != nil {
		return nil, apperrors.Internal("failed to annotate search results", err)
	}
	return annotated, nil
}

// SearchUsers delegates to the user service so block exclusions apply.
func (s *SearchService) SearchUsers(ctx context.Context, query, style string, viewerID uint) ([]models.UserCompact, error) {
	return s.userService.SearchUsers(ctx, query, style, viewerID)
}

// Suggest returns typeahead candidates for a prefix: up to five
// usernames and five tags.
func (s *SearchService) Suggest(ctx context.Context, prefix string) (*Suggestions, error) {
	usernames, err := s.userRepo.SearchUsernamesByPrefix(ctx, prefix, 5)
	if err != nil {
		return nil, apperrors.Internal("failed to suggest usernames", err)
	}
	tags, err := s.postRepo.TagSuggestions(ctx, prefix, 5)
	if err != nil {
		return nil, apperrors.Internal("failed to suggest tags", err)
	}
	if usernames == nil {
		usernames = []string{}
	}
	if tags == nil {
		tags = []string{}
	}
	return &Suggestions{Usernames: usernames, Tags: tags}, nil
}
