package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/anonto42/nano-social/backend/internal/activity"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/realtime"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	userRepository    repositories.UserRepository
	pusher            activityPusher
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, userRepo repositories.UserRepository, engine *activity.Engine, notifier realtime.Notifier, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		userRepository:    userRepo,
		pusher:            activityPusher{engine: engine, notifier: notifier, log: log},
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetCommentsByPostID)
	g.DELETE("/posts/:id/comments/:commentId", h.DeleteComment)
}

// CreateComment creates a new comment on a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}
	postID := c.Param("id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := c.Validate(&req); err != nil {
		return err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to allocate comment id")
	}
	comment := models.Comment{
		ID:        id.String(),
		AuthorID:  currentUserID,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}

	ctx := c.Request().Context()
	post, err := h.commentRepository.CreateComment(ctx, postID, comment)
	if err != nil {
		return toHTTPError(err, "Post not found")
	}
	h.pusher.push(ctx, post.Author.UserID, comment.ID)

	view := models.CommentView{Comment: comment}
	if author, err := h.userRepository.GetUserByID(ctx, currentUserID); err == nil {
		pu := author.ToPublic()
		view.User = &pu
	}
	return success(c, http.StatusCreated, echo.Map{"comment": view})
}

// GetCommentsByPostID lists the comments of a post oldest first
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	ctx := c.Request().Context()
	comments, err := h.commentRepository.GetCommentsByPostID(ctx, c.Param("id"))
	if err != nil {
		return toHTTPError(err, "Post not found")
	}

	ids := make([]string, 0, len(comments))
	for _, cm := range comments {
		ids = append(ids, cm.AuthorID)
	}
	authors, err := h.userRepository.GetUsersByIDs(ctx, ids)
	if err != nil {
		return toHTTPError(err, "")
	}
	index := models.IndexUsers(authors)

	views := make([]models.CommentView, 0, len(comments))
	for _, cm := range comments {
		view := models.CommentView{Comment: cm}
		if u, ok := index[cm.AuthorID]; ok {
			pu := u.ToPublic()
			view.User = &pu
		}
		views = append(views, view)
	}
	return success(c, http.StatusOK, echo.Map{"comments": views})
}

// DeleteComment removes a comment. Its author and the post's author may delete it.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}

	err = h.commentRepository.DeleteComment(c.Request().Context(), c.Param("id"), c.Param("commentId"), currentUserID)
	if err != nil {
		return toHTTPError(err, "Comment not found")
	}
	return c.NoContent(http.StatusNoContent)
}
