package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/anonto42/nano-social/backend/internal/activity"
	"github.com/anonto42/nano-social/backend/internal/media"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/realtime"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// MessageHandler handles direct messages
type MessageHandler struct {
	messageRepository repositories.MessageRepository
	userRepository    repositories.UserRepository
	engine            *activity.Engine
	media             media.Storage
	notifier          realtime.Notifier
	pusher            activityPusher
	log               zerolog.Logger
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(
	messageRepo repositories.MessageRepository,
	userRepo repositories.UserRepository,
	engine *activity.Engine,
	storage media.Storage,
	notifier realtime.Notifier,
	log zerolog.Logger,
) *MessageHandler {
	return &MessageHandler{
		messageRepository: messageRepo,
		userRepository:    userRepo,
		engine:            engine,
		media:             storage,
		notifier:          notifier,
		pusher:            activityPusher{engine: engine, notifier: notifier, log: log},
		log:               log,
	}
}

// RegisterMessageRoutes registers message routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.GET("/messages/conversations", h.GetConversations)
	g.GET("/messages/unread-count", h.GetUnreadCount)
	g.GET("/messages/:partnerId", h.GetThread)
	g.POST("/messages", h.SendMessage)
}

// GetConversations lists the current user's conversations, most recent first
func (h *MessageHandler) GetConversations(c echo.Context) error {
	conversations, err := h.engine.Conversations(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return toHTTPError(err, "")
	}
	return success(c, http.StatusOK, echo.Map{"conversations": conversations})
}

// GetUnreadCount returns how many messages to the current user are unread
func (h *MessageHandler) GetUnreadCount(c echo.Context) error {
	count, err := h.engine.UnreadCount(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return toHTTPError(err, "")
	}
	return success(c, http.StatusOK, echo.Map{"count": count})
}

// GetThread returns the thread with :partnerId oldest first and marks it read.
// The partner "anonymous" is the anonymous counterpart.
func (h *MessageHandler) GetThread(c echo.Context) error {
	partner := models.ParseIdentity(c.Param("partnerId"))
	messages, err := h.engine.Thread(c.Request().Context(), getUserIDFromContext(c), partner)
	if err != nil {
		return toHTTPError(err, "")
	}
	return success(c, http.StatusOK, echo.Map{"messages": messages})
}

// SendMessage sends a direct message from a multipart form with optional media
func (h *MessageHandler) SendMessage(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.ReceiverID == currentUserID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot message yourself")
	}

	file, err := formFile(c, "media")
	if err != nil {
		return err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" && file == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "A message needs content or media")
	}

	ctx := c.Request().Context()
	if _, err := h.userRepository.GetUserByID(ctx, req.ReceiverID); err != nil {
		return toHTTPError(err, "Receiver not found")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to allocate message id")
	}
	attached, err := saveMedia(c, h.media, file)
	if err != nil {
		return err
	}
	message := &models.Message{
		ID:         id.String(),
		Sender:     models.NewIdentity(currentUserID, req.Anonymous),
		ReceiverID: req.ReceiverID,
		Content:    content,
		Media:      attached,
		CreatedAt:  time.Now(),
	}

	if err := h.messageRepository.CreateMessage(ctx, message); err != nil {
		discardMedia(ctx, h.media, attached, h.log)
		return toHTTPError(err, "")
	}

	if h.notifier != nil {
		h.notifier.NotifyNewMessage(*message)
	}
	h.pusher.push(ctx, message.ReceiverID, message.ID)

	return success(c, http.StatusCreated, echo.Map{"message": message})
}
