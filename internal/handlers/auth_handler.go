package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stylesnap/backend/internal/models"
	"github.com/stylesnap/backend/internal/services"
)

// AuthHandler handles HTTP requests for registration and sessions
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterAuthRoutes registers authentication routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group, authRequired echo.MiddlewareFunc) {
	g.POST("/auth/register", h.Register)
	g.POST("/auth/login", h.Login)
	g.POST("/auth/refresh", h.Refresh)
	g.POST("/auth/logout", h.Logout, authRequired)
}

// Register creates a new account
func (h *AuthHandler) Register(c echo.Context) error {
	req := new(models.RegisterRequest)
	if err := bindAndValidate(c, req); err != nil {
		return err
	}
	resp, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login verifies credentials and returns a token pair
func (h *AuthHandler) Login(c echo.Context) error {
	req := new(models.LoginRequest)
	if err := bindAndValidate(c, req); err != nil {
		return err
	}
	resp, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Refresh rotates the token pair
func (h *AuthHandler) Refresh(c echo.Context) error {
	req := new(models.RefreshRequest)
	if err := bindAndValidate(c, req); err != nil {
		return err
	}
	resp, err := h.authService.Refresh(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Logout revokes the caller's refresh token
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), userID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
