package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/stylesnap/backend/internal/services"
)

// SearchHandler handles HTTP requests for search and typeahead
type SearchHandler struct {
	searchService *services.SearchService
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(searchService *services.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// RegisterSearchRoutes registers search routes
func (h *SearchHandler) RegisterSearchRoutes(g *echo.Group, authOptional echo.MiddlewareFunc) {
	g.GET("/search/posts", h.SearchPosts, authOptional)
	g.GET("/search/users", h.SearchUsers, authOptional)
	g.GET("/search/suggestions", h.Suggest)
}

// SearchPosts runs a full-text search over published posts
func (h *SearchHandler) SearchPosts(c echo.Context) error {
	opts := services.SearchOptions{
		Query:    c.QueryParam("q"),
		Occasion: c.QueryParam("occasion"),
		Style:    c.QueryParam("style"),
	}
	if tags := c.QueryParam("tags"); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				opts.Tags = append(opts.Tags, t)
			}
		}
	}
	posts, err := h.searchService.SearchPosts(c.Request().Context(), opts, viewerID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

// SearchUsers finds users by name or style
func (h *SearchHandler) SearchUsers(c echo.Context) error {
	users, err := h.searchService.SearchUsers(c.Request().Context(),
		c.QueryParam("q"), c.QueryParam("style"), viewerID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// Suggest returns typeahead candidates for a prefix
func (h *SearchHandler) Suggest(c echo.Context) error {
	prefix := c.QueryParam("q")
	if prefix == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query prefix is required")
	}
	suggestions, err := h.searchService.Suggest(c.Request().Context(), prefix)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, suggestions)
}
