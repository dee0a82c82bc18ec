package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// Context keys set by JWTAuthMiddleware
const (
	ContextUserID = "userID"
	ContextClaims = "user"
)

// TokenResolver resolves a bearer token that is not a local JWT to a user id.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// JWTAuthMiddleware checks for a valid JWT and extracts user claims.
// The token is read from the Authorization header, or from the token query
// parameter for WebSocket upgrades. When fallback is set, tokens that are not
// local JWTs are handed to it.
func JWTAuthMiddleware(secret string, fallback TokenResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := bearerToken(c)
			if err != nil {
				return err
			}

			claims, err := ParseToken(secret, tokenString)
			if err == nil {
				c.Set(ContextClaims, claims)
				c.Set(ContextUserID, claims.UserID)
				return next(c)
			}

			if fallback != nil {
				if userID, ferr := fallback.Resolve(c.Request().Context(), tokenString); ferr == nil {
					c.Set(ContextUserID, userID)
					return next(c)
				}
			}

			if errors.Is(err, jwt.ErrSignatureInvalid) {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token signature")
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		}
	}
}

// ParseToken validates a local JWT signed with secret.
func ParseToken(secret, tokenString string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		if token := c.QueryParam("token"); token != "" {
			return token, nil
		}
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
	}

	// Expecting "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
	}
	return parts[1], nil
}
