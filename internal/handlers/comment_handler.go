package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stylesnap/backend/internal/models"
	"github.com/stylesnap/backend/internal/services"
)

// CommentHandler handles HTTP requests for post comments
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// RegisterCommentRoutes registers comment routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group, authRequired echo.MiddlewareFunc) {
	g.POST("/posts/:post_id/comments", h.CreateComment, authRequired)
	g.GET("/posts/:post_id/comments", h.GetComments)
	g.DELETE("/comments/:comment_id", h.DeleteComment, authRequired)
}

// CreateComment adds a comment or a reply to a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	req := new(models.CreateCommentRequest)
	if err := bindAndValidate(c, req); err != nil {
		return err
	}
	comment, err := h.commentService.Create(c.Request().Context(), c.Param("post_id"), userID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, comment)
}

// GetComments lists a post's comment tree, one page of top-level comments
func (h *CommentHandler) GetComments(c echo.Context) error {
	page, err := h.commentService.List(c.Request().Context(), c.Param("post_id"),
		queryInt(c, "page", 1), queryInt(c, "limit", 20))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, page)
}

// DeleteComment removes the caller's comment and its replies
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	commentID, err := paramUint(c, "comment_id")
	if err != nil {
		return err
	}
	if err := h.commentService.Delete(c.Request().Context(), commentID, userID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
