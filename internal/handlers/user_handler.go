package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stylesnap/backend/internal/models"
	"github.com/stylesnap/backend/internal/services"
)

// UserHandler handles HTTP requests for profiles and the social graph
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterUserRoutes registers user and social-graph routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group, authRequired, authOptional echo.MiddlewareFunc) {
	g.GET("/users/me", h.GetMe, authRequired)
	g.PATCH("/users/me", h.UpdateProfile, authRequired)
	g.GET("/users/:user_id", h.GetProfile, authOptional)
	g.GET("/users/:user_id/followers", h.GetFollowers, authOptional)
	g.GET("/users/:user_id/following", h.GetFollowing, authOptional)
	g.POST("/users/:user_id/follow", h.Follow, authRequired)
	g.DELETE("/users/:user_id/follow", h.Unfollow, authRequired)
	g.POST("/users/:user_id/block", h.Block, authRequired)
	g.DELETE("/users/:user_id/block", h.Unblock, authRequired)
}

// GetMe returns the caller's own account
func (h *UserHandler) GetMe(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	user, err := h.userService.GetMe(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile applies a partial profile update
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	req := new(models.UpdateProfileRequest)
	if err := bindAndValidate(c, req); err != nil {
		return err
	}
	user, err := h.userService.UpdateProfile(c.Request().Context(), userID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// GetProfile returns a user's public profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	targetID, err := paramUint(c, "user_id")
	if err != nil {
		return err
	}
	profile, err := h.userService.GetUserProfile(c.Request().Context(), targetID, viewerID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// GetFollowers lists a user's followers
func (h *UserHandler) GetFollowers(c echo.Context) error {
	targetID, err := paramUint(c, "user_id")
	if err != nil {
		return err
	}
	page, err := h.userService.GetFollowers(c.Request().Context(), targetID,
		queryInt(c, "page", 1), queryInt(c, "limit", 50))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, page)
}

// GetFollowing lists who a user follows
func (h *UserHandler) GetFollowing(c echo.Context) error {
	targetID, err := paramUint(c, "user_id")
	if err != nil {
		return err
	}
	page, err := h.userService.GetFollowing(c.Request().Context(), targetID,
		queryInt(c, "page", 1), queryInt(c, "limit", 50))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, page)
}

// Follow creates a follow edge
func (h *UserHandler) Follow(c echo.Context) error {
	actorID, err := requireUserID(c)
	if err != nil {
		return err
	}
	targetID, err := paramUint(c, "user_id")
	if err != nil {
		return err
	}
	count, err := h.userService.FollowUser(c.Request().Context(), actorID, targetID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"followers_count": count})
}

// Unfollow removes a follow edge
func (h *UserHandler) Unfollow(c echo.Context) error {
	actorID, err := requireUserID(c)
	if err != nil {
		return err
	}
	targetID, err := paramUint(c, "user_id")
	if err != nil {
		return err
	}
	count, err := h.userService.UnfollowUser(c.Request().Context(), actorID, targetID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"followers_count": count})
}

// Block blocks a user and severs follow edges
func (h *UserHandler) Block(c echo.Context) error {
	actorID, err := requireUserID(c)
	if err != nil {
		return err
	}
	targetID, err := paramUint(c, "user_id")
	if err != nil {
		return err
	}
	if err := h.userService.BlockUser(c.Request().Context(), actorID, targetID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Unblock removes a block
func (h *UserHandler) Unblock(c echo.Context) error {
	actorID, err := requireUserID(c)
	if err != nil {
		return err
	}
	targetID, err := paramUint(c, "user_id")
	if err != nil {
		return err
	}
	if err := h.userService.UnblockUser(c.Request().Context(), actorID, targetID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
