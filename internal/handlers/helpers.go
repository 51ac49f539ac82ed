package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/stylesnap/backend/internal/apperrors"
	"github.com/stylesnap/backend/internal/models"
)

// httpError translates a service error into the Echo error shape.
func httpError(err error) error {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case apperrors.KindConflict:
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case apperrors.KindForbidden:
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case apperrors.KindInvalid:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case apperrors.KindUnauthorized:
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}

// viewerID returns the authenticated user's ID, or 0 when the request is
// anonymous.
func viewerID(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}

// requireUserID returns the authenticated user's ID and errors when the
// request carries no identity.
func requireUserID(c echo.Context) (uint, error) {
	id := viewerID(c)
	if id == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return id, nil
}

// bindAndValidate decodes the JSON body and runs struct validation.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// paramUint parses a numeric path parameter.
func paramUint(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(v), nil
}

// queryInt parses an optional numeric query parameter, falling back to a
// default when absent or malformed.
func queryInt(c echo.Context, name string, def int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return def
	}
	return v
}
