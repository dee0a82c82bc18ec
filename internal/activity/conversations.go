package activity

import (
	"slices"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// ListConversations builds the inbox of viewerID: one summary per counterpart,
// ordered by the time of its last message, newest first.
//
// All anonymous senders share a single anonymous counterpart. A counterpart whose
// user record is gone is summarised with a nil partner.
func ListConversations(viewerID string, messages []models.Message, users []models.User) ([]models.ConversationSummary, error) {
	if viewerID == "" {
		return nil, ErrMissingViewer
	}
	index := models.IndexUsers(users)

	var partners []models.Identity
	seen := make(map[models.Identity]bool)
	for _, m := range messages {
		partner, ok := m.Counterpart(viewerID)
		if !ok || seen[partner] {
			continue
		}
		seen[partner] = true
		partners = append(partners, partner)
	}

	summaries := make([]models.ConversationSummary, 0, len(partners))
	for _, partner := range partners {
		thread := threadBetween(viewerID, partner, messages)
		slices.SortStableFunc(thread, newestFirst)

		summary := models.ConversationSummary{}
		if len(thread) > 0 {
			last := thread[0]
			summary.LastMessage = &last
		}
		for _, m := range thread {
			if m.UnreadBy(viewerID) {
				summary.UnreadCount++
			}
		}
		if p, ok := partner.Project(index); ok {
			summary.Partner = &p
		}
		summaries = append(summaries, summary)
	}

	slices.SortStableFunc(summaries, func(a, b models.ConversationSummary) int {
		switch {
		case a.LastMessage == nil && b.LastMessage == nil:
			return 0
		case a.LastMessage == nil:
			return 1
		case b.LastMessage == nil:
			return -1
		}
		return b.LastMessage.CreatedAt.Compare(a.LastMessage.CreatedAt)
	})
	return summaries, nil
}

// UnreadMessageCount counts the unread messages addressed to viewerID.
func UnreadMessageCount(viewerID string, messages []models.Message) int {
	n := 0
	for _, m := range messages {
		if m.UnreadBy(viewerID) {
			n++
		}
	}
	return n
}

func threadBetween(viewerID string, partner models.Identity, messages []models.Message) []models.Message {
	thread := []models.Message{}
	for _, m := range messages {
		if m.Between(viewerID, partner) {
			thread = append(thread, m)
		}
	}
	return thread
}

func newestFirst(a, b models.Message) int {
	return b.CreatedAt.Compare(a.CreatedAt)
}

func oldestFirst(a, b models.Message) int {
	return a.CreatedAt.Compare(b.CreatedAt)
}
