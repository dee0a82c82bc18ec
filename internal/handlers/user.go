package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/nano-social/backend/internal/media"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository   repositories.UserRepository
	followRepository repositories.FollowRepository
	media            media.Storage
	log              zerolog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, followRepo repositories.FollowRepository, storage media.Storage, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		userRepository:   userRepo,
		followRepository: followRepo,
		media:            storage,
		log:              log,
	}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/:id", h.GetUser)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
}

// GetUser returns the public projection of another user and whether the current user follows them
func (h *UserHandler) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	targetID := c.Param("id")
	user, err := h.userRepository.GetUserByID(ctx, targetID)
	if err != nil {
		return toHTTPError(err, "User not found")
	}

	following := false
	if viewerID := getUserIDFromContext(c); viewerID != "" && viewerID != targetID {
		if following, err = h.followRepository.IsFollowing(ctx, viewerID, targetID); err != nil {
			return toHTTPError(err, "User not found")
		}
	}
	return success(c, http.StatusOK, echo.Map{
		"user":        user.ToPublic(),
		"isFollowing": following,
	})
}

// GetProfile retrieves the authenticated user's profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	user, err := h.userRepository.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(err, "User profile not found")
	}
	return success(c, http.StatusOK, echo.Map{"user": user.ToProfile()})
}

// UpdateProfile updates the username, bio and profile picture of the authenticated user.
// Fields left out of the request keep their stored values.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if req.Bio == nil {
		if bio, ok := postFormValue(c, "bio"); ok {
			req.Bio = &bio
		}
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	file, err := formFile(c, "profilePicture")
	if err != nil {
		return err
	}
	if file != nil {
		kind, err := media.Inspect(file)
		if err != nil {
			return toHTTPError(err, "")
		}
		if kind != models.MediaImage {
			return echo.NewHTTPError(http.StatusUnsupportedMediaType, "Profile picture must be an image")
		}
	}
	picture, err := saveMedia(c, h.media, file)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.ModifyUser(ctx, userID, func(u *models.User) error {
		if picture != nil {
			u.ProfilePicture = picture.URL
		}
		if username := strings.TrimSpace(req.Username); username != "" {
			u.Username = username
		}
		if req.Bio != nil {
			u.Bio = *req.Bio
		}
		return nil
	})
	if err != nil {
		discardMedia(ctx, h.media, picture, h.log)
		if errors.Is(err, repositories.ErrAlreadyExists) {
			return echo.NewHTTPError(http.StatusConflict, "Username already taken")
		}
		return toHTTPError(err, "User profile not found")
	}
	return success(c, http.StatusOK, echo.Map{"user": user.ToProfile()})
}

// SearchUsers finds users whose username contains q, ignoring case
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return success(c, http.StatusOK, echo.Map{"users": []models.PublicUser{}})
	}
	users, err := h.userRepository.SearchUsers(c.Request().Context(), query)
	if err != nil {
		return toHTTPError(err, "")
	}
	return success(c, http.StatusOK, echo.Map{"users": publicUsers(users)})
}

// GetFollowers lists the users following :id
func (h *UserHandler) GetFollowers(c echo.Context) error {
	return h.listRelations(c, func(u *models.User) []string { return u.Followers }, "followers")
}

// GetFollowing lists the users :id follows
func (h *UserHandler) GetFollowing(c echo.Context) error {
	return h.listRelations(c, func(u *models.User) []string { return u.Following }, "following")
}

func (h *UserHandler) listRelations(c echo.Context, ids func(*models.User) []string, key string) error {
	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByID(ctx, c.Param("id"))
	if err != nil {
		return toHTTPError(err, "User not found")
	}
	related, err := h.userRepository.GetUsersByIDs(ctx, ids(user))
	if err != nil {
		return toHTTPError(err, "")
	}
	return success(c, http.StatusOK, echo.Map{key: publicUsers(related)})
}

func publicUsers(users []models.User) []models.PublicUser {
	out := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToPublic())
	}
	return out
}
