package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stylesnap/backend/internal/services"
)

// FeedHandler handles HTTP requests for the feed composer
type FeedHandler struct {
	feedService *services.FeedService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feedService *services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// RegisterFeedRoutes registers feed routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group, authOptional echo.MiddlewareFunc) {
	g.GET("/feed", h.GetFeed, authOptional)
}

// GetFeed returns one page of the composed feed
func (h *FeedHandler) GetFeed(c echo.Context) error {
	opts := services.FeedOptions{
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 20),
		Filter:   c.QueryParam("filter"),
		Sort:     c.QueryParam("sort"),
		Occasion: c.QueryParam("occasion"),
		Style:    c.QueryParam("style"),
		Tags:     c.QueryParam("tags"),
	}
	if userID := queryInt(c, "user_id", 0); userID > 0 {
		id := uint(userID)
		opts.UserID = &id
	}

	page, err := h.feedService.ListFeed(c.Request().Context(), viewerID(c), opts)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, page)
}
