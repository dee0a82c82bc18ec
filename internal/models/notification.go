package models

import "time"

type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
	NotificationMessage NotificationType = "message"
)

// NotificationEvent is derived from posts, follows and messages on every read. It is never stored.
type NotificationEvent struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Actor     PublicUser       `json:"user"`
	Post      *PostRef         `json:"post,omitempty"`
	Comment   *ContentRef      `json:"comment,omitempty"`
	Message   *ContentRef      `json:"message,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

type PostRef struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Media   *Media `json:"media,omitempty"`
}

type ContentRef struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// GroupedNotifications buckets notification events by age
type GroupedNotifications struct {
	Today     []NotificationEvent `json:"today"`
	Yesterday []NotificationEvent `json:"yesterday"`
	ThisWeek  []NotificationEvent `json:"thisWeek"`
	Older     []NotificationEvent `json:"older"`
}

// ConversationSummary is one entry of a user's inbox.
type ConversationSummary struct {
	Partner     *PublicUser `json:"partner"`
	LastMessage *Message    `json:"lastMessage"`
	UnreadCount int         `json:"unreadCount"`
}
