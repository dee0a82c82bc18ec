package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anonto42/nano-social/backend/internal/media"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/pkg/config"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T) *echo.Echo {
	t.Helper()
	storage, err := media.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	cfg := &config.Config{
		CORSOrigins:   "*",
		MaxUploadSize: "1M",
		JWTSecret:     "router-secret",
		TokenTTL:      time.Hour,
	}

	e := echo.New()
	SetupMiddleware(e, cfg, zerolog.Nop())
	SetupRoutes(e, Dependencies{
		Config: cfg,
		Store:  repositories.NewMemoryStore(),
		Media:  storage,
		Log:    zerolog.Nop(),
	})
	return e
}

func request(e *echo.Echo, method, target, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestProbes(t *testing.T) {
	e := newApp(t)
	assert.Equal(t, http.StatusOK, request(e, http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, request(e, http.MethodGet, "/ready", "", nil).Code)
}

func TestProtectedRoutesNeedAToken(t *testing.T) {
	e := newApp(t)
	for _, target := range []string{"/api/v1/feed", "/api/v1/notifications", "/api/v1/messages/conversations", "/api/v1/stories"} {
		assert.Equal(t, http.StatusUnauthorized, request(e, http.MethodGet, target, "", nil).Code, target)
	}
}

func TestRegisteredUserReachesTheAPI(t *testing.T) {
	e := newApp(t)

	rec := request(e, http.MethodPost, "/api/v1/auth/register", "", echo.Map{
		"username": "carol", "email": "carol@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	for _, target := range []string{"/api/v1/profile", "/api/v1/feed", "/api/v1/notifications/grouped", "/api/v1/stories"} {
		assert.Equal(t, http.StatusOK, request(e, http.MethodGet, target, resp.Data.Token, nil).Code, target)
	}

	// Firebase is not configured
	rec = request(e, http.MethodPost, "/api/v1/auth/firebase-login", "", echo.Map{"idToken": "x"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
