package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/anonto42/nano-social/backend/internal/activity"
	"github.com/anonto42/nano-social/backend/internal/media"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
	media          media.Storage
	log            zerolog.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, storage media.Storage, log zerolog.Logger) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
		media:          storage,
		log:            log,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/posts/user/:userId", h.GetUserPosts)
	g.DELETE("/posts/:id", h.DeletePost)
	g.POST("/posts/:id/share", h.SharePost)
}

// CreatePost creates a new post from a multipart form with optional media
func (h *PostHandler) CreatePost(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	file, err := formFile(c, "media")
	if err != nil {
		return err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" && file == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "A post needs content or media")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to allocate post id")
	}
	attached, err := saveMedia(c, h.media, file)
	if err != nil {
		return err
	}
	post := &models.Post{
		ID:        id.String(),
		Author:    models.NewIdentity(currentUserID, req.Anonymous),
		Content:   content,
		Media:     attached,
		Likes:     []string{},
		Comments:  []models.Comment{},
		CreatedAt: time.Now(),
	}

	ctx := c.Request().Context()
	if err := h.postRepository.CreatePost(ctx, post); err != nil {
		discardMedia(ctx, h.media, attached, h.log)
		return toHTTPError(err, "")
	}
	h.log.Debug().Str("post_id", post.ID).Bool("anonymous", req.Anonymous).Msg("post created")

	view, err := h.render(c, *post)
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, echo.Map{"post": view})
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err, "Post not found")
	}
	view, err := h.render(c, *post)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"post": view})
}

// GetUserPosts lists the posts a user published under their name, newest first
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	ctx := c.Request().Context()
	posts, err := h.postRepository.GetPostsByUserID(ctx, c.Param("userId"))
	if err != nil {
		return toHTTPError(err, "")
	}
	users, err := h.userRepository.GetUsers(ctx)
	if err != nil {
		return toHTTPError(err, "")
	}
	return success(c, http.StatusOK, echo.Map{
		"posts": activity.EnrichPosts(posts, users, getUserIDFromContext(c)),
	})
}

// DeletePost deletes a post owned by the current user
func (h *PostHandler) DeletePost(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), c.Param("id"), currentUserID); err != nil {
		return toHTTPError(err, "Post not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// SharePost counts a share of the post
func (h *PostHandler) SharePost(c echo.Context) error {
	post, err := h.postRepository.IncrementShares(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err, "Post not found")
	}
	return success(c, http.StatusOK, echo.Map{"shares": post.Shares})
}

func (h *PostHandler) render(c echo.Context, post models.Post) (models.PostView, error) {
	users, err := h.userRepository.GetUsers(c.Request().Context())
	if err != nil {
		return models.PostView{}, toHTTPError(err, "")
	}
	return activity.EnrichPost(post, models.IndexUsers(users), getUserIDFromContext(c)), nil
}
