package realtime

import (
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/rs/zerolog"
)

// Notifier pushes activity to the users it concerns.
type Notifier interface {
	NotifyNewMessage(msg models.Message)
	NotifyEvent(recipientID string, event models.NotificationEvent)
}

// HubNotifier implements Notifier using the WebSocket Hub.
type HubNotifier struct {
	hub *Hub
	log zerolog.Logger
}

func NewHubNotifier(hub *Hub, log zerolog.Logger) *HubNotifier {
	return &HubNotifier{hub: hub, log: log}
}

// NotifyNewMessage pushes a message to its receiver.
func (n *HubNotifier) NotifyNewMessage(msg models.Message) {
	evt, err := NewEvent(EventTypeMessageNew, msg)
	if err != nil {
		n.log.Error().Err(err).Msg("ws notifier: marshal message")
		return
	}
	n.hub.SendToUser(msg.ReceiverID, evt)
}

// NotifyEvent pushes a notification event to recipientID. Events the recipient
// caused are not pushed.
func (n *HubNotifier) NotifyEvent(recipientID string, event models.NotificationEvent) {
	if event.Actor.ID == recipientID {
		return
	}
	evt, err := NewEvent(EventTypeNotification, event)
	if err != nil {
		n.log.Error().Err(err).Msg("ws notifier: marshal notification")
		return
	}
	n.hub.SendToUser(recipientID, evt)
}

// NopNotifier drops everything.
type NopNotifier struct{}

func (NopNotifier) NotifyNewMessage(models.Message) {}
func (NopNotifier) NotifyEvent(string, models.NotificationEvent) {}
