package activity

import (
	"slices"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// ReadThread returns copies of the messages exchanged between viewerID and partner,
// oldest first. It does not change any read flag.
func ReadThread(viewerID string, partner models.Identity, messages []models.Message) []models.Message {
	thread := threadBetween(viewerID, partner, messages)
	slices.SortStableFunc(thread, oldestFirst)
	return thread
}

// UnreadFor returns the ids of the messages in thread that viewerID has not read yet.
func UnreadFor(viewerID string, thread []models.Message) []string {
	var ids []string
	for _, m := range thread {
		if m.UnreadBy(viewerID) {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// MarkRead returns a copy of messages with the listed messages marked read,
// and how many of them changed.
func MarkRead(messages []models.Message, ids []string) ([]models.Message, int) {
	if len(ids) == 0 {
		return messages, 0
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	out := slices.Clone(messages)
	changed := 0
	for i := range out {
		if _, ok := wanted[out[i].ID]; ok && !out[i].Read {
			out[i].Read = true
			changed++
		}
	}
	return out, changed
}
