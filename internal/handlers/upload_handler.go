package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stylesnap/backend/internal/services"
)

// UploadHandler handles HTTP requests for image uploads
type UploadHandler struct {
	uploadService *services.UploadService
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploadService *services.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// RegisterUploadRoutes registers upload routes
func (h *UploadHandler) RegisterUploadRoutes(g *echo.Group, authRequired echo.MiddlewareFunc) {
	g.POST("/uploads/:kind", h.Upload, authRequired)
	g.DELETE("/uploads/:filename", h.Delete, authRequired)
}

// Upload stores an image under the requested kind (posts, avatars, cloths)
func (h *UploadHandler) Upload(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	file, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image file is required")
	}
	url, err := h.uploadService.Save(file, c.Param("kind"), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"url": url})
}

// Delete removes an uploaded file by name
func (h *UploadHandler) Delete(c echo.Context) error {
	if _, err := requireUserID(c); err != nil {
		return err
	}
	if err := h.uploadService.Delete(c.Param("filename")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
