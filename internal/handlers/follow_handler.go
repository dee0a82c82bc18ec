package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/activity"
	"github.com/anonto42/nano-social/backend/internal/realtime"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	followRepository repositories.FollowRepository
	pusher           activityPusher
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, engine *activity.Engine, notifier realtime.Notifier, log zerolog.Logger) *FollowHandler {
	return &FollowHandler{
		followRepository: followRepo,
		pusher:           activityPusher{engine: engine, notifier: notifier, log: log},
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.FollowUser)
	g.DELETE("/users/:id/follow", h.UnfollowUser)
}

// FollowUser follows a user. Following twice is a no-op.
func (h *FollowHandler) FollowUser(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}
	targetID := c.Param("id")

	ctx := c.Request().Context()
	target, changed, err := h.followRepository.Follow(ctx, currentUserID, targetID)
	if err != nil {
		return toHTTPError(err, "User not found")
	}
	if changed {
		h.pusher.push(ctx, targetID, "follow-"+currentUserID)
	}

	return success(c, http.StatusOK, echo.Map{
		"following": true,
		"user":      target.ToPublic(),
	})
}

// UnfollowUser unfollows a user. Unfollowing someone not followed is a no-op.
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}

	target, _, err := h.followRepository.Unfollow(c.Request().Context(), currentUserID, c.Param("id"))
	if err != nil {
		return toHTTPError(err, "User not found")
	}

	return success(c, http.StatusOK, echo.Map{
		"following": false,
		"user":      target.ToPublic(),
	})
}
