package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/activity"
	"github.com/anonto42/nano-social/backend/internal/realtime"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likeRepository repositories.LikeRepository
	pusher         activityPusher
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeRepo repositories.LikeRepository, engine *activity.Engine, notifier realtime.Notifier, log zerolog.Logger) *LikeHandler {
	return &LikeHandler{
		likeRepository: likeRepo,
		pusher:         activityPusher{engine: engine, notifier: notifier, log: log},
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.GET("/posts/:id/like", h.GetLikeStatus)
	g.POST("/posts/:id/like", h.ToggleLike)
}

// ToggleLike likes the post, or removes the like if the user already liked it
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}
	postID := c.Param("id")

	ctx := c.Request().Context()
	post, liked, err := h.likeRepository.ToggleLike(ctx, postID, currentUserID)
	if err != nil {
		return toHTTPError(err, "Post not found")
	}
	if liked {
		h.pusher.push(ctx, post.Author.UserID, "like-"+postID+"-"+currentUserID)
	}

	return success(c, http.StatusOK, echo.Map{
		"liked": liked,
		"likes": len(post.Likes),
	})
}

// GetLikeStatus reports whether the current user likes the post
func (h *LikeHandler) GetLikeStatus(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}
	liked, err := h.likeRepository.HasUserLikedPost(c.Request().Context(), c.Param("id"), currentUserID)
	if err != nil {
		return toHTTPError(err, "Post not found")
	}
	return success(c, http.StatusOK, echo.Map{"liked": liked})
}
