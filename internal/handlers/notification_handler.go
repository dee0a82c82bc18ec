package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/activity"
	"github.com/labstack/echo/v4"
)

// NotificationHandler serves the notification feed derived from activity
type NotificationHandler struct {
	engine *activity.Engine
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(engine *activity.Engine) *NotificationHandler {
	return &NotificationHandler{engine: engine}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/grouped", h.GetGroupedNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
}

// GetNotifications returns the notifications of the current user, newest first.
// page and limit are optional.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	events, err := h.engine.Notifications(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return toHTTPError(err, "")
	}

	page, limit, paged := pagination(c, 20)
	if !paged {
		return success(c, http.StatusOK, echo.Map{"notifications": events})
	}
	window, meta := paginate(events, page, limit)
	return success(c, http.StatusOK, echo.Map{
		"notifications": window,
		"meta":          meta,
	})
}

// GetGroupedNotifications returns notifications bucketed by age
func (h *NotificationHandler) GetGroupedNotifications(c echo.Context) error {
	grouped, unread, err := h.engine.GroupedNotifications(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return toHTTPError(err, "")
	}
	return success(c, http.StatusOK, echo.Map{
		"notifications": grouped,
		"unreadCount":   unread,
	})
}

// GetUnreadCount returns the number of unread notifications, which are the unread messages
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	count, err := h.engine.UnreadCount(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return toHTTPError(err, "")
	}
	return success(c, http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead marks a single notification as read. Only message notifications carry read state.
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	marked, err := h.engine.MarkNotificationRead(c.Request().Context(), getUserIDFromContext(c), c.Param("id"))
	if err != nil {
		return toHTTPError(err, "")
	}
	return success(c, http.StatusOK, echo.Map{"marked": marked})
}

// MarkAllAsRead marks every notification of the current user as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	marked, err := h.engine.MarkAllRead(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return toHTTPError(err, "")
	}
	return success(c, http.StatusOK, echo.Map{"marked": marked})
}
