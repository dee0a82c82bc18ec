package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// HealthCheck reports that the process is serving
func HealthCheck(e echo.Context) error {
	return e.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "nano-social",
	})
}

// ReadinessCheck reports whether the record store answers reads.
func ReadinessCheck(store *repositories.Store) echo.HandlerFunc {
	return func(e echo.Context) error {
		if _, err := store.Users.LoadAll(e.Request().Context()); err != nil {
			return e.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  err.Error(),
			})
		}
		return e.JSON(http.StatusOK, map[string]string{"status": "ready"})
	}
}
