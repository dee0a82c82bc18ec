package handlers

import (
	"net/http"
	"time"

	"github.com/anonto42/nano-social/backend/internal/activity"
	"github.com/anonto42/nano-social/backend/internal/media"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// StoryHandler handles story-related HTTP requests
type StoryHandler struct {
	storyRepository repositories.StoryRepository
	engine          *activity.Engine
	media           media.Storage
	log             zerolog.Logger
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(storyRepo repositories.StoryRepository, engine *activity.Engine, storage media.Storage, log zerolog.Logger) *StoryHandler {
	return &StoryHandler{
		storyRepository: storyRepo,
		engine:          engine,
		media:           storage,
		log:             log,
	}
}

// RegisterStoryRoutes registers story-related routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group) {
	g.GET("/stories", h.GetStories)
	g.GET("/stories/user/:userId", h.GetUserStories)
	g.GET("/stories/:id", h.GetStory)
	g.POST("/stories", h.CreateStory)
	g.POST("/stories/:id/view", h.ViewStory)
}

// GetStories returns the active stories grouped by author
func (h *StoryHandler) GetStories(c echo.Context) error {
	groups, err := h.engine.ActiveStories(c.Request().Context())
	if err != nil {
		return toHTTPError(err, "")
	}
	return success(c, http.StatusOK, echo.Map{"stories": groups})
}

// GetUserStories lists the active stories a user posted under their name, oldest first
func (h *StoryHandler) GetUserStories(c echo.Context) error {
	userID := c.Param("userId")
	active, err := h.storyRepository.GetActiveStories(c.Request().Context(), time.Now())
	if err != nil {
		return toHTTPError(err, "")
	}
	stories := []models.Story{}
	for _, s := range active {
		if s.Author.Is(userID) {
			stories = append(stories, s)
		}
	}
	return success(c, http.StatusOK, echo.Map{"stories": stories})
}

// GetStory returns a single active story
func (h *StoryHandler) GetStory(c echo.Context) error {
	story, err := h.storyRepository.GetStoryByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err, "Story not found")
	}
	if !story.IsActive(time.Now()) {
		return echo.NewHTTPError(http.StatusNotFound, "Story has expired")
	}
	return success(c, http.StatusOK, echo.Map{"story": story})
}

// CreateStory publishes an image or video for StoryLifetime
func (h *StoryHandler) CreateStory(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req models.CreateStoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	file, err := formFile(c, "media")
	if err != nil {
		return err
	}
	if file == nil {
		return toHTTPError(media.ErrMissingMedia, "")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to allocate story id")
	}
	attached, err := saveMedia(c, h.media, file)
	if err != nil {
		return err
	}
	story := models.NewStory(id.String(), models.NewIdentity(currentUserID, req.Anonymous), *attached, time.Now())

	ctx := c.Request().Context()
	if err := h.storyRepository.CreateStory(ctx, &story); err != nil {
		discardMedia(ctx, h.media, attached, h.log)
		return toHTTPError(err, "")
	}
	return success(c, http.StatusCreated, echo.Map{"story": story})
}

// ViewStory records that the current user viewed a story
func (h *StoryHandler) ViewStory(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}

	story, err := h.storyRepository.MarkViewed(c.Request().Context(), c.Param("id"), currentUserID, time.Now())
	if err != nil {
		return toHTTPError(err, "Story not found")
	}
	return success(c, http.StatusOK, echo.Map{"views": len(story.Views)})
}
