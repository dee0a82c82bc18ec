package activity

import (
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
)

var t0 = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return t0.Add(time.Duration(minutes) * time.Minute)
}

func user(id string, followers ...string) models.User {
	u := models.NewUser(id, "user-"+id, id+"@example.com", "", t0)
	u.Followers = append([]string{}, followers...)
	return u.RecomputeLevel()
}

func message(id string, from models.Identity, to string, minute int) models.Message {
	return models.Message{
		ID:         id,
		Sender:     from,
		ReceiverID: to,
		Content:    "hi from " + from.String(),
		CreatedAt:  at(minute),
	}
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, id(it))
	}
	return out
}

func eventID(e models.NotificationEvent) string { return e.ID }
func messageID(m models.Message) string        { return m.ID }
