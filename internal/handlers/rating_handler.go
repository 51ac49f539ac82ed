package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stylesnap/backend/internal/models"
	"github.com/stylesnap/backend/internal/services"
)

// RatingHandler handles HTTP requests for post ratings
type RatingHandler struct {
	ratingService *services.RatingService
}

// NewRatingHandler creates a new RatingHandler
func NewRatingHandler(ratingService *services.RatingService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

// RegisterRatingRoutes registers rating routes
func (h *RatingHandler) RegisterRatingRoutes(g *echo.Group, authRequired echo.MiddlewareFunc) {
	g.PUT("/posts/:post_id/rating", h.UpsertRating, authRequired)
	g.GET("/posts/:post_id/rating", h.GetRating, authRequired)
	g.DELETE("/posts/:post_id/rating", h.DeleteRating, authRequired)
}

// UpsertRating creates or replaces the caller's rating on a post
func (h *RatingHandler) UpsertRating(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	req := new(models.UpsertRatingRequest)
	if err := bindAndValidate(c, req); err != nil {
		return err
	}
	summary, err := h.ratingService.UpsertRating(c.Request().Context(), c.Param("post_id"), userID, req.Score)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, summary)
}

// GetRating returns the post's rating summary with the caller's own score
func (h *RatingHandler) GetRating(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	summary, err := h.ratingService.GetUserRating(c.Request().Context(), c.Param("post_id"), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, summary)
}

// DeleteRating removes the caller's rating
func (h *RatingHandler) DeleteRating(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	summary, err := h.ratingService.DeleteRating(c.Request().Context(), c.Param("post_id"), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, summary)
}
