package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/activity"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	engine *activity.Engine
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(engine *activity.Engine) *FeedHandler {
	return &FeedHandler{engine: engine}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns every post newest first, enriched for the current user.
// page and limit are optional; without them the whole feed is returned.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	posts, err := h.engine.Feed(c.Request().Context(), currentUserID)
	if err != nil {
		return toHTTPError(err, "")
	}

	page, limit, paged := pagination(c, 10)
	if !paged {
		return success(c, http.StatusOK, echo.Map{"posts": posts})
	}
	window, meta := paginate(posts, page, limit)
	return success(c, http.StatusOK, echo.Map{
		"posts": window,
		"meta":  meta,
	})
}
