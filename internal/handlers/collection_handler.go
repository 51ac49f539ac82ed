package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stylesnap/backend/internal/models"
	"github.com/stylesnap/backend/internal/services"
)

// CollectionHandler handles HTTP requests for saved-post collections
type CollectionHandler struct {
	collectionService *services.CollectionService
}

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(collectionService *services.CollectionService) *CollectionHandler {
	return &CollectionHandler{collectionService: collectionService}
}

// RegisterCollectionRoutes registers collection routes
func (h *CollectionHandler) RegisterCollectionRoutes(g *echo.Group, authRequired, authOptional echo.MiddlewareFunc) {
	g.POST("/collections", h.CreateCollection, authRequired)
	g.GET("/collections", h.ListCollections, authRequired)
	g.GET("/collections/:collection_id", h.GetCollection, authOptional)
	g.PATCH("/collections/:collection_id", h.UpdateCollection, authRequired)
	g.DELETE("/collections/:collection_id", h.DeleteCollection, authRequired)
	g.POST("/collections/:collection_id/posts/:post_id", h.AddPost, authRequired)
	g.DELETE("/collections/:collection_id/posts/:post_id", h.RemovePost, authRequired)
}

// CreateCollection creates a collection for the caller
func (h *CollectionHandler) CreateCollection(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	req := new(models.CreateCollectionRequest)
	if err := bindAndValidate(c, req); err != nil {
		return err
	}
	collection, err := h.collectionService.Create(c.Request().Context(), userID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, collection)
}

// ListCollections lists the caller's collections
func (h *CollectionHandler) ListCollections(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	collections, err := h.collectionService.List(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, collections)
}

// GetCollection returns one collection with its member posts
func (h *CollectionHandler) GetCollection(c echo.Context) error {
	collectionID, err := paramUint(c, "collection_id")
	if err != nil {
		return err
	}
	detail, err := h.collectionService.Get(c.Request().Context(), collectionID, viewerID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, detail)
}

// UpdateCollection applies a partial update to the caller's collection
func (h *CollectionHandler) UpdateCollection(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	collectionID, err := paramUint(c, "collection_id")
	if err != nil {
		return err
	}
	req := new(models.UpdateCollectionRequest)
	if err := bindAndValidate(c, req); err != nil {
		return err
	}
	collection, err := h.collectionService.Update(c.Request().Context(), collectionID, userID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, collection)
}

// DeleteCollection removes the caller's collection and its items
func (h *CollectionHandler) DeleteCollection(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	collectionID, err := paramUint(c, "collection_id")
	if err != nil {
		return err
	}
	if err := h.collectionService.Delete(c.Request().Context(), collectionID, userID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddPost saves a post into the caller's collection
func (h *CollectionHandler) AddPost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	collectionID, err := paramUint(c, "collection_id")
	if err != nil {
		return err
	}
	count, err := h.collectionService.AddPost(c.Request().Context(), collectionID, userID, c.Param("post_id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"items_count": count})
}

// RemovePost takes a post out of the caller's collection
func (h *CollectionHandler) RemovePost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	collectionID, err := paramUint(c, "collection_id")
	if err != nil {
		return err
	}
	count, err := h.collectionService.RemovePost(c.Request().Context(), collectionID, userID, c.Param("post_id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items_count": count})
}
