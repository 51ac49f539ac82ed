package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stylesnap/backend/internal/models"
)

// JWTAuth checks for a valid JWT and stores its claims in the request
// context under "user".
func JWTAuth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}

			claims, err := parseBearer(authHeader, jwtSecret)
			if err != nil {
				return err
			}

			c.Set("user", claims)
			return next(c)
		}
	}
}

// OptionalJWTAuth parses claims when an Authorization header is present
// but lets anonymous requests through. A malformed or expired token is
// still rejected so a client cannot silently lose its identity.
func OptionalJWTAuth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			claims, err := parseBearer(authHeader, jwtSecret)
			if err != nil {
				return err
			}

			c.Set("user", claims)
			return next(c)
		}
	}
}

func parseBearer(authHeader, jwtSecret string) (*models.JwtCustomClaims, error) {
	// Expecting "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
	}

	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		if err == jwt.ErrSignatureInvalid {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid token signature")
		}
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}
	if !token.Valid {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}
	return claims, nil
}
