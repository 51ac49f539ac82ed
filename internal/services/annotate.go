package services

import (
	"context"

	"github.com/stylesnap/backend/internal/models"
	"github.com/stylesnap/backend/internal/repositories"
)

func normalizePage(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = defaultLimit
	}
	return page, limit
}

// annotatePosts merges author info and, when a viewer is present, the
// viewer's interaction state into a page of posts. The viewer lookups are
// one batched query per ledger across the whole page, never one round
// trip per post.
func annotatePosts(
	ctx context.Context,
	userRepo repositories.UserRepository,
	likeRepo repositories.LikeRepository,
	ratingRepo repositories.RatingRepository,
	collectionRepo repositories.CollectionRepository,
	posts []models.Post,
	viewerID uint,
) ([]models.AnnotatedPost, error) {
	postIDs := make([]string, len(posts))
	ownerIDs := make([]uint, 0, len(posts))
	seenOwner := make(map[uint]bool)
	for i, p := range posts {
		postIDs[i] = p.ID.Hex()
		if !seenOwner[p.UserID] {
			seenOwner[p.UserID] = true
			ownerIDs = append(ownerIDs, p.UserID)
		}
	}

	authors, err := userRepo.GetUsersByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}
	authorMap := make(map[uint]models.UserCompact, len(authors))
	for _, u := range authors {
		authorMap[u.ID] = u.ToCompact()
	}

	likedMap := map[string]bool{}
	savedMap := map[string]bool{}
	ratingMap := map[string]int{}
	if viewerID != 0 {
		if likedMap, err = likeRepo.GetLikedPostIDs(ctx, viewerID, postIDs); err != nil {
			return nil, err
		}
		if savedMap, err = collectionRepo.GetSavedPostIDs(ctx, viewerID, postIDs); err != nil {
			return nil, err
		}
		if ratingMap, err = ratingRepo.GetUserRatings(ctx, viewerID, postIDs); err != nil {
			return nil, err
		}
	}

	annotated := make([]models.AnnotatedPost, len(posts))
	for i, p := range posts {
		pid := postIDs[i]
		var userRating *int
		if score, ok := ratingMap[pid]; ok {
			userRating = &score
		}
		annotated[i] = models.AnnotatedPost{
			Post:       p,
			Author:     authorMap[p.UserID],
			IsLiked:    likedMap[pid],
			IsSaved:    savedMap[pid],
			UserRating: userRating,
		}
	}
	return annotated, nil
}
