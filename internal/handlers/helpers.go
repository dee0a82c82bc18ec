package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/anonto42/nano-social/backend/internal/activity"
	"github.com/anonto42/nano-social/backend/internal/media"
	"github.com/anonto42/nano-social/backend/internal/middleware"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/realtime"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// getUserIDFromContext returns the id JWTAuthMiddleware resolved, or "".
func getUserIDFromContext(c echo.Context) string {
	id, _ := c.Get(middleware.ContextUserID).(string)
	return id
}

func requireUserID(c echo.Context) (string, error) {
	id := getUserIDFromContext(c)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return id, nil
}

// toHTTPError maps domain errors to HTTP errors. notFound is the message used for ErrNotFound.
func toHTTPError(err error, notFound string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, notFound)
	case errors.Is(err, repositories.ErrAlreadyExists):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, repositories.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, repositories.ErrSelfFollow),
		errors.Is(err, activity.ErrMissingViewer),
		errors.Is(err, media.ErrMissingMedia):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, media.ErrUnsupportedMedia):
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, repositories.ErrStoreUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Storage is temporarily unavailable").SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	}
}

// formFile returns the uploaded file in field, or nil when none was sent.
func formFile(c echo.Context, field string) (*multipart.FileHeader, error) {
	file, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid upload")
	}
	return file, nil
}

// postFormValue reports the form body value of key, if the request sent one.
func postFormValue(c echo.Context, key string) (string, bool) {
	if _, err := c.FormParams(); err != nil {
		return "", false
	}
	values, ok := c.Request().PostForm[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// saveMedia stores file, which may be nil when nothing was uploaded.
func saveMedia(c echo.Context, storage media.Storage, file *multipart.FileHeader) (*models.Media, error) {
	if file == nil {
		return nil, nil
	}
	saved, err := storage.Save(c.Request().Context(), file)
	if err != nil {
		return nil, toHTTPError(err, "")
	}
	return &saved, nil
}

// discardMedia removes an upload whose record was never written.
func discardMedia(ctx context.Context, storage media.Storage, m *models.Media, log zerolog.Logger) {
	if m == nil {
		return
	}
	if err := storage.Delete(context.WithoutCancel(ctx), *m); err != nil {
		log.Warn().Err(err).Str("url", m.URL).Msg("removing orphaned upload")
	}
}

func success(c echo.Context, status int, data echo.Map) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

// pagination reads page and limit. ok is false when the client asked for neither.
func pagination(c echo.Context, defaultLimit int) (page, limit int, ok bool) {
	if c.QueryParam("page") == "" && c.QueryParam("limit") == "" {
		return 0, 0, false
	}
	page, _ = strconv.Atoi(c.QueryParam("page"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = defaultLimit
	}
	return page, limit, true
}

// paginate returns the page'th window of limit items. Pages past the end are empty.
func paginate[T any](items []T, page, limit int) ([]T, echo.Map) {
	page, limit = max(page, 1), max(limit, 1)
	total := len(items)
	totalPages := (total + limit - 1) / limit
	start := total
	if page-1 < totalPages {
		start = (page - 1) * limit
	}
	end := min(start+limit, total)
	return items[start:end], echo.Map{
		"currentPage":     page,
		"totalPages":      totalPages,
		"totalItems":      total,
		"itemsPerPage":    limit,
		"hasNextPage":     page < totalPages,
		"hasPreviousPage": page > 1,
	}
}

// activityPusher pushes the notification event an action produced to the user it concerns.
type activityPusher struct {
	engine   *activity.Engine
	notifier realtime.Notifier
	log      zerolog.Logger
}

func (p activityPusher) push(ctx context.Context, recipientID, eventID string) {
	if p.notifier == nil || recipientID == "" {
		return
	}
	event, ok, err := p.engine.NotificationFor(ctx, recipientID, eventID)
	if err != nil {
		p.log.Warn().Err(err).Str("recipient", recipientID).Str("event", eventID).Msg("deriving pushed notification")
		return
	}
	if ok {
		p.notifier.NotifyEvent(recipientID, event)
	}
}
