package handlers

import (
	"github.com/anonto42/nano-social/backend/internal/realtime"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// RealtimeHandler upgrades authenticated requests to WebSocket connections
type RealtimeHandler struct {
	hub *realtime.Hub
	log zerolog.Logger
}

// NewRealtimeHandler creates a new RealtimeHandler
func NewRealtimeHandler(hub *realtime.Hub, log zerolog.Logger) *RealtimeHandler {
	return &RealtimeHandler{hub: hub, log: log}
}

// RegisterRealtimeRoutes registers the WebSocket route
func (h *RealtimeHandler) RegisterRealtimeRoutes(g *echo.Group) {
	g.GET("/ws", h.Connect)
}

// Connect attaches the connection to the current user's pushes.
func (h *RealtimeHandler) Connect(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	if err := realtime.ServeWS(h.hub, c.Response(), c.Request(), userID); err != nil {
		// the upgrader has already answered the client
		h.log.Debug().Err(err).Str("user_id", userID).Msg("websocket upgrade failed")
	}
	return nil
}
