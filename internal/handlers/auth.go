package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository repositories.UserRepository
	firebaseAuth   *auth.Client
	jwtSecret      string
	tokenTTL       time.Duration
	log            zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler. firebaseAuthClient may be nil, in
// which case Firebase login is unavailable.
func NewAuthHandler(userRepo repositories.UserRepository, firebaseAuthClient *auth.Client, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		firebaseAuth:   firebaseAuthClient,
		jwtSecret:      jwtSecret,
		tokenTTL:       tokenTTL,
		log:            log,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// Register creates a local account with email and password
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to allocate user id")
	}
	user := models.NewUser(id.String(), strings.TrimSpace(req.Username), req.Email, string(hashedPassword), time.Now())

	if err := h.userRepository.CreateUser(c.Request().Context(), &user); err != nil {
		if errors.Is(err, repositories.ErrAlreadyExists) {
			return echo.NewHTTPError(http.StatusConflict, "Username or email already registered")
		}
		return toHTTPError(err, "")
	}
	h.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")

	return h.respondWithToken(c, http.StatusCreated, &user)
}

// Login authenticates a local account with email and password
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByEmail(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
		}
		return toHTTPError(err, "")
	}
	if user.Password == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "This account signs in with Firebase")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	return h.respondWithToken(c, http.StatusOK, user)
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin verifies a Firebase ID token and issues a local JWT, linking or
// creating the local account on first use.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	if h.firebaseAuth == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Firebase login is not configured")
	}

	var req FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	token, err := h.firebaseAuth.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}
	email, _ := token.Claims["email"].(string)
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Firebase account has no email")
	}
	name, _ := token.Claims["name"].(string)

	user, err := h.userRepository.GetUserByFirebaseUID(ctx, token.UID)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrNotFound):
		user, err = h.linkFirebaseUser(c, token.UID, email, name)
		if err != nil {
			return err
		}
	default:
		return toHTTPError(err, "")
	}

	return h.respondWithToken(c, http.StatusOK, user)
}

// linkFirebaseUser attaches uid to the account registered with email, or creates one.
func (h *AuthHandler) linkFirebaseUser(c echo.Context, uid, email, name string) (*models.User, error) {
	ctx := c.Request().Context()

	user, err := h.userRepository.GetUserByEmail(ctx, email)
	if err == nil {
		linked, err := h.userRepository.ModifyUser(ctx, user.ID, func(u *models.User) error {
			u.FirebaseUID = uid
			return nil
		})
		if err != nil {
			return nil, toHTTPError(err, "User not found")
		}
		return linked, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, toHTTPError(err, "")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to allocate user id")
	}
	username := name
	if username == "" {
		username, _, _ = strings.Cut(email, "@")
	}
	created := models.NewUser(id.String(), username, email, "", time.Now())
	created.FirebaseUID = uid
	if err := h.userRepository.CreateUser(ctx, &created); err != nil {
		if errors.Is(err, repositories.ErrAlreadyExists) {
			// display names are not unique, fall back to the id
			created.Username = username + "-" + id.String()[:8]
			err = h.userRepository.CreateUser(ctx, &created)
		}
		if err != nil {
			return nil, toHTTPError(err, "")
		}
	}
	h.log.Info().Str("user_id", created.ID).Str("firebase_uid", uid).Msg("user created from firebase login")
	return &created, nil
}

func (h *AuthHandler) respondWithToken(c echo.Context, status int, user *models.User) error {
	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}
	return success(c, status, echo.Map{
		"user":  user.ToProfile(),
		"token": token,
	})
}

// generateJWT generates a JWT token for a given user
func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	now := time.Now()
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(h.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
