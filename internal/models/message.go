package models

import "time"

// Message is a direct message. Read only ever goes from false to true.
type Message struct {
	ID         string    `json:"id" bson:"_id" gorm:"primaryKey"`
	Sender     Identity  `json:"sender" bson:"sender" gorm:"serializer:json;type:jsonb"`
	ReceiverID string    `json:"receiverId" bson:"receiver_id" gorm:"index"`
	Content    string    `json:"content" bson:"content"`
	Media      *Media    `json:"media,omitempty" bson:"media,omitempty" gorm:"serializer:json;type:jsonb"`
	Read       bool      `json:"read" bson:"read"`
	CreatedAt  time.Time `json:"createdAt" bson:"created_at" gorm:"index"`
}

func (m Message) RecordID() string { return m.ID }

// UnreadBy reports whether the message is addressed to userID and still unread.
func (m Message) UnreadBy(userID string) bool {
	return m.ReceiverID == userID && !m.Read
}

// Counterpart returns the other party of the message as seen by viewerID.
// The second result is false when viewerID is neither its receiver nor its identified sender.
func (m Message) Counterpart(viewerID string) (Identity, bool) {
	switch {
	case m.ReceiverID == viewerID:
		return m.Sender, true
	case m.Sender.Is(viewerID):
		return Identified(m.ReceiverID), true
	default:
		return Identity{}, false
	}
}

// Between reports whether the message was exchanged between viewerID and partner.
func (m Message) Between(viewerID string, partner Identity) bool {
	if m.ReceiverID == viewerID && m.Sender == partner {
		return true
	}
	return !partner.Anonymous && m.Sender.Is(viewerID) && m.ReceiverID == partner.UserID
}

// SendMessageRequest defines the form fields for sending a message
type SendMessageRequest struct {
	ReceiverID string `form:"receiverId" json:"receiverId" validate:"required"`
	Content    string `form:"content" json:"content" validate:"max=2000"`
	Anonymous  bool   `form:"anonymous" json:"anonymous"`
}
