package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/stylesnap/backend/internal/apperrors"
	"github.com/stylesnap/backend/internal/models"
	"github.com/stylesnap/backend/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserService owns the social graph: follow edges, block relations and the
// follower/following counters on users.
type UserService struct {
	userRepo   repositories.UserRepository
	followRepo repositories.FollowRepository
	blockRepo  repositories.BlockRepository
	notifier   Notifier
	log        *zap.Logger
}

// NewUserService creates a UserService.
func NewUserService(
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	blockRepo repositories.BlockRepository,
	notifier Notifier,
	log *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		followRepo: followRepo,
		blockRepo:  blockRepo,
		notifier:   notifier,
		log:        log,
	}
}

// FollowUser creates the follow edge actor -> target and moves both
// counters by one. Returns the target's new followers count.
func (s *UserService) FollowUser(ctx context.Context, actorID, targetID uint) (int, error) {
	if actorID == targetID {
		return 0, apperrors.Invalid("you cannot follow yourself")
	}

	target, err := s.userRepo.GetUserByID(ctx, targetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, apperrors.NotFound("user not found")
	}
	if err != nil {
		return 0, apperrors.Internal("failed to load user", err)
	}

	blocked, err := s.blockRepo.ExistsBetween(ctx, actorID, targetID)
	if err != nil {
		return 0, apperrors.Internal("failed to check block state", err)
	}
	if blocked {
		return 0, apperrors.Invalid("cannot follow this user")
	}

	following, err := s.followRepo.IsFollowing(ctx, actorID, targetID)
	if err != nil {
		return 0, apperrors.Internal("failed to check follow state", err)
	}
	if following {
		return 0, apperrors.Conflict("already following this user")
	}

	follow := &models.Follow{FollowerID: actorID, FolloweeID: targetID}
	if err := s.followRepo.CreateFollow(ctx, follow); err != nil {
		// The unique index catches the race two identical requests run.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, apperrors.Conflict("already following this user")
		}
		return 0, apperrors.Internal("failed to create follow", err)
	}

	s.adjustOrLog(ctx, "following_count", actorID, s.userRepo.AdjustFollowingCount, 1)
	s.adjustOrLog(ctx, "followers_count", targetID, s.userRepo.AdjustFollowersCount, 1)

	if actor, err := s.userRepo.GetUserByID(ctx, actorID); err == nil {
		s.notifier.Notify(ctx, targetID, actorID, models.NotificationFollow,
			fmt.Sprintf("%s started following you", actor.Username), NotificationRef{})
	}

	return s.currentFollowersCount(ctx, targetID, target.FollowersCount+1), nil
}

// UnfollowUser removes the edge and moves both counters back.
func (s *UserService) UnfollowUser(ctx context.Context, actorID, targetID uint) (int, error) {
	err := s.followRepo.DeleteFollow(ctx, actorID, targetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, apperrors.NotFound("not following this user")
	}
	if err != nil {
		return 0, apperrors.Internal("failed to delete follow", err)
	}

	s.adjustOrLog(ctx, "following_count", actorID, s.userRepo.AdjustFollowingCount, -1)
	s.adjustOrLog(ctx, "followers_count", targetID, s.userRepo.AdjustFollowersCount, -1)

	return s.currentFollowersCount(ctx, targetID, 0), nil
}

// BlockUser records the block and force-removes any follow edge between
// the pair in both directions. Follow counters are left untouched by the
// forced removal; the periodic reconciliation sweep settles them.
func (s *UserService) BlockUser(ctx context.Context, actorID, targetID uint) error {
	if actorID == targetID {
		return apperrors.Invalid("you cannot block yourself")
	}

	if _, err := s.userRepo.GetUserByID(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("user not found")
		}
		return apperrors.Internal("failed to load user", err)
	}

	hasBlocked, err := s.blockRepo.HasBlocked(ctx, actorID, targetID)
	if err != nil {
		return apperrors.Internal("failed to check block state", err)
	}
	if hasBlocked {
		return apperrors.Conflict("user already blocked")
	}

	block := &models.Block{BlockerID: actorID, BlockedID: targetID}
	if err := s.blockRepo.CreateBlock(ctx, block); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("user already blocked")
		}
		return apperrors.Internal("failed to create block", err)
	}

	if err := s.followRepo.DeleteBetween(ctx, actorID, targetID); err != nil {
		s.log.Error("failed to remove follow edges on block",
			zap.Uint("blocker_id", actorID), zap.Uint("blocked_id", targetID), zap.Error(err))
	}

	return nil
}

// UnblockUser removes the block record.
func (s *UserService) UnblockUser(ctx context.Context, actorID, targetID uint) error {
	err := s.blockRepo.DeleteBlock(ctx, actorID, targetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("user not blocked")
	}
	if err != nil {
		return apperrors.Internal("failed to delete block", err)
	}
	return nil
}

// GetUserProfile returns a profile annotated with the viewer's
// relationship to the subject. viewerID 0 means anonymous.
func (s *UserService) GetUserProfile(ctx context.Context, userID, viewerID uint) (*models.UserProfile, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("user not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}

	profile := &models.UserProfile{
		User:           user.ToCompact(),
		Bio:            user.Bio,
		Location:       user.Location,
		Style:          user.Style,
		CreatedAt:      user.CreatedAt,
		PostsCount:     user.PostsCount,
		FollowersCount: user.FollowersCount,
		FollowingCount: user.FollowingCount,
	}

	if viewerID != 0 && viewerID != userID {
		isFollowing, err := s.followRepo.IsFollowing(ctx, viewerID, userID)
		if err != nil {
			return nil, apperrors.Internal("failed to check follow state", err)
		}
		isBlocked, err := s.blockRepo.ExistsBetween(ctx, viewerID, userID)
		if err != nil {
			return nil, apperrors.Internal("failed to check block state", err)
		}
		profile.IsFollowing = &isFollowing
		profile.IsBlocked = &isBlocked
	}

	return profile, nil
}

// GetMe returns the caller's own account record.
func (s *UserService) GetMe(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("user not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}
	return user, nil
}

// UpdateProfile applies a partial update to the caller's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req *models.UpdateProfileRequest) (*models.User, error) {
	fields := map[string]interface{}{}
	if req.Username != nil {
		fields["username"] = *req.Username
	}
	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if req.Avatar != nil {
		fields["avatar"] = *req.Avatar
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.Location != nil {
		fields["location"] = *req.Location
	}
	if req.Style != nil {
		fields["style"] = *req.Style
	}
	if req.Language != nil {
		fields["language"] = *req.Language
	}
	if req.IsPrivate != nil {
		fields["is_private"] = *req.IsPrivate
	}
	if len(fields) > 0 {
		if err := s.userRepo.UpdateUserFields(ctx, userID, fields); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apperrors.Conflict("username already taken")
			}
			return nil, apperrors.Internal("failed to update profile", err)
		}
	}
	return s.GetMe(ctx, userID)
}

// GetFollowers lists the users following userID, newest edge first.
func (s *UserService) GetFollowers(ctx context.Context, userID uint, page, limit int) (*models.UserPage, error) {
	page, limit = normalizePage(page, limit, 50)
	users, err := s.followRepo.GetFollowers(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, apperrors.Internal("failed to list followers", err)
	}
	total, err := s.followRepo.CountFollowers(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to count followers", err)
	}
	return userPage(users, page, limit, total), nil
}

// GetFollowing lists the users userID follows, newest edge first.
func (s *UserService) GetFollowing(ctx context.Context, userID uint, page, limit int) (*models.UserPage, error) {
	page, limit = normalizePage(page, limit, 50)
	users, err := s.followRepo.GetFollowing(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, apperrors.Internal("failed to list following", err)
	}
	total, err := s.followRepo.CountFollowing(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to count following", err)
	}
	return userPage(users, page, limit, total), nil
}

// SearchUsers finds users by name, optionally restricted to a style.
// Users in a block relation with the viewer are excluded in either
// direction.
func (s *UserService) SearchUsers(ctx context.Context, query, style string, viewerID uint) ([]models.UserCompact, error) {
	var excludeIDs []uint
	if viewerID != 0 {
		ids, err := s.blockRepo.GetBlockedPairIDs(ctx, viewerID)
		if err != nil {
			return nil, apperrors.Internal("failed to load block relations", err)
		}
		excludeIDs = ids
	}

	users, err := s.userRepo.SearchUsers(ctx, query, style, excludeIDs, 50)
	if err != nil {
		return nil, apperrors.Internal("failed to search users", err)
	}

	results := make([]models.UserCompact, len(users))
	for i, u := range users {
		results[i] = u.ToCompact()
	}
	return results, nil
}

func (s *UserService) adjustOrLog(ctx context.Context, counter string, userID uint, adjust func(context.Context, uint, int) error, delta int) {
	if err := adjust(ctx, userID, delta); err != nil {
		// Ledger row is already written; the counter catches up via the
		// reconciliation sweep.
		s.log.Error("counter update failed after ledger write",
			zap.String("counter", counter), zap.Uint("user_id", userID),
			zap.Int("delta", delta), zap.Error(err))
	}
}

func (s *UserService) currentFollowersCount(ctx context.Context, userID uint, fallback int) int {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return fallback
	}
	return user.FollowersCount
}

func userPage(users []models.User, page, limit int, total int64) *models.UserPage {
	compact := make([]models.UserCompact, len(users))
	for i, u := range users {
		compact[i] = u.ToCompact()
	}
	return &models.UserPage{
		Users:      compact,
		Pagination: models.NewPagination(page, limit, total),
	}
}
