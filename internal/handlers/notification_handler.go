package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stylesnap/backend/internal/services"
)

// NotificationHandler handles HTTP requests for the notification inbox
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group, authRequired echo.MiddlewareFunc) {
	g.GET("/notifications", h.ListNotifications, authRequired)
	g.PATCH("/notifications/:notification_id/read", h.MarkAsRead, authRequired)
	g.PATCH("/notifications/read-all", h.MarkAllAsRead, authRequired)
	g.DELETE("/notifications/:notification_id", h.DeleteNotification, authRequired)
}

// ListNotifications returns a page of the caller's notifications
func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	var unread *bool
	switch c.QueryParam("unread") {
	case "true":
		v := true
		unread = &v
	case "false":
		v := false
		unread = &v
	}
	page, err := h.notificationService.List(c.Request().Context(), userID, unread,
		queryInt(c, "page", 1), queryInt(c, "limit", 20))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, page)
}

// MarkAsRead marks a single notification as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	notificationID, err := paramUint(c, "notification_id")
	if err != nil {
		return err
	}
	if err := h.notificationService.MarkAsRead(c.Request().Context(), notificationID, userID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllAsRead marks every unread notification as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	updated, err := h.notificationService.MarkAllAsRead(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": updated})
}

// DeleteNotification removes one of the caller's notifications
func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	notificationID, err := paramUint(c, "notification_id")
	if err != nil {
		return err
	}
	if err := h.notificationService.Remove(c.Request().Context(), notificationID, userID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
