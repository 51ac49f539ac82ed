package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stylesnap/backend/internal/models"
	"github.com/stylesnap/backend/internal/services"
)

// PostHandler handles HTTP requests for outfit posts and likes
type PostHandler struct {
	postService *services.PostService
	feedService *services.FeedService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postService *services.PostService, feedService *services.FeedService) *PostHandler {
	return &PostHandler{postService: postService, feedService: feedService}
}

// RegisterPostRoutes registers post routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, authRequired, authOptional echo.MiddlewareFunc) {
	g.POST("/posts", h.CreatePost, authRequired)
	g.GET("/posts/:post_id", h.GetPost, authOptional)
	g.PATCH("/posts/:post_id", h.UpdatePost, authRequired)
	g.DELETE("/posts/:post_id", h.DeletePost, authRequired)
	g.POST("/posts/:post_id/likes", h.LikePost, authRequired)
	g.DELETE("/posts/:post_id/likes", h.UnlikePost, authRequired)
	g.GET("/users/:user_id/posts", h.GetUserPosts, authOptional)
}

// CreatePost publishes a new outfit post
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	req := new(models.CreatePostRequest)
	if err := bindAndValidate(c, req); err != nil {
		return err
	}
	post, err := h.postService.CreatePost(c.Request().Context(), userID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, post)
}

// GetPost returns a single post annotated for the viewer
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.feedService.GetPost(c.Request().Context(), c.Param("post_id"), viewerID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// UpdatePost applies a partial update to the caller's post
func (h *PostHandler) UpdatePost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	req := new(models.UpdatePostRequest)
	if err := bindAndValidate(c, req); err != nil {
		return err
	}
	post, err := h.postService.UpdatePost(c.Request().Context(), c.Param("post_id"), userID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost removes the caller's post and its interaction ledgers
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	if err := h.postService.DeletePost(c.Request().Context(), c.Param("post_id"), userID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// LikePost records a like
func (h *PostHandler) LikePost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	count, err := h.postService.LikePost(c.Request().Context(), c.Param("post_id"), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"likes_count": count})
}

// UnlikePost removes a like
func (h *PostHandler) UnlikePost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	count, err := h.postService.UnlikePost(c.Request().Context(), c.Param("post_id"), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"likes_count": count})
}

// GetUserPosts lists a single user's posts
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	targetID, err := paramUint(c, "user_id")
	if err != nil {
		return err
	}
	page, err := h.feedService.GetUserPosts(c.Request().Context(), targetID, viewerID(c),
		queryInt(c, "page", 1), queryInt(c, "limit", 20), c.QueryParam("status"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, page)
}
