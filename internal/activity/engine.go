package activity

import (
	"context"
	"slices"
	"time"

	"github.com/anonto42/nano-social/backend/internal/metrics"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/rs/zerolog"
)

// Engine runs the derivations against the record store.
type Engine struct {
	store *repositories.Store
	log   zerolog.Logger
	now   func() time.Time
}

// NewEngine creates an Engine over store
func NewEngine(store *repositories.Store, log zerolog.Logger) *Engine {
	return &Engine{
		store: store,
		log:   log.With().Str("component", "activity").Logger(),
		now:   time.Now,
	}
}

// Notifications derives the notification feed of viewerID.
func (e *Engine) Notifications(ctx context.Context, viewerID string) ([]models.NotificationEvent, error) {
	events, _, err := e.derive(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	countDerived(events)
	return events, nil
}

// derive also returns the messages it read, so callers can count unread messages
// from the same snapshot.
func (e *Engine) derive(ctx context.Context, viewerID string) ([]models.NotificationEvent, []models.Message, error) {
	if viewerID == "" {
		return nil, nil, ErrMissingViewer
	}
	users, err := e.store.Users.LoadAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	posts, err := e.store.Posts.LoadAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	messages, err := e.store.Messages.LoadAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	events, err := DeriveNotifications(viewerID, users, posts, messages)
	return events, messages, err
}

func countDerived(events []models.NotificationEvent) {
	for _, ev := range events {
		metrics.NotificationsDerived.WithLabelValues(string(ev.Type)).Inc()
	}
}

// GroupedNotifications derives the feed of viewerID bucketed by age, with the unread
// message count. The count matches UnreadCount even when a sender no longer exists.
func (e *Engine) GroupedNotifications(ctx context.Context, viewerID string) (models.GroupedNotifications, int, error) {
	events, messages, err := e.derive(ctx, viewerID)
	if err != nil {
		return models.GroupedNotifications{}, 0, err
	}
	countDerived(events)
	return GroupByAge(events, e.now()), UnreadMessageCount(viewerID, messages), nil
}

// Conversations lists the inbox of viewerID.
func (e *Engine) Conversations(ctx context.Context, viewerID string) ([]models.ConversationSummary, error) {
	if viewerID == "" {
		return nil, ErrMissingViewer
	}
	messages, err := e.store.Messages.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	users, err := e.store.Users.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return ListConversations(viewerID, messages, users)
}

// UnreadCount counts the unread messages addressed to viewerID.
func (e *Engine) UnreadCount(ctx context.Context, viewerID string) (int, error) {
	if viewerID == "" {
		return 0, ErrMissingViewer
	}
	messages, err := e.store.Messages.LoadAll(ctx)
	if err != nil {
		return 0, err
	}
	return UnreadMessageCount(viewerID, messages), nil
}

// Thread returns the thread between viewerID and partner, oldest first, and marks
// the messages addressed to viewerID read in the same locked cycle.
//
// The returned messages are the thread as it was before marking, so a repeated call
// returns the same messages in the same order with the viewer's read flags set.
func (e *Engine) Thread(ctx context.Context, viewerID string, partner models.Identity) ([]models.Message, error) {
	if viewerID == "" {
		return nil, ErrMissingViewer
	}

	var (
		thread []models.Message
		marked int
	)
	err := e.store.Messages.Update(ctx, func(messages []models.Message) ([]models.Message, bool, error) {
		thread = ReadThread(viewerID, partner, messages)
		updated, n := MarkRead(messages, UnreadFor(viewerID, thread))
		marked = n
		return updated, n > 0, nil
	})
	if err != nil {
		return nil, err
	}

	if marked > 0 {
		metrics.MessagesMarkedRead.Add(float64(marked))
		e.log.Debug().
			Str("viewer", viewerID).
			Str("partner", partner.String()).
			Int("marked", marked).
			Msg("thread marked read")
	}
	return thread, nil
}

// MarkNotificationRead marks the message behind a message notification read.
// Ids of other notification types have nothing to mark and report false.
func (e *Engine) MarkNotificationRead(ctx context.Context, viewerID, notificationID string) (bool, error) {
	if viewerID == "" {
		return false, ErrMissingViewer
	}
	n, err := e.markRead(ctx, func(m models.Message) bool {
		return m.ID == notificationID && m.UnreadBy(viewerID)
	})
	return n > 0, err
}

// MarkAllRead marks every message addressed to viewerID read and returns how many changed.
func (e *Engine) MarkAllRead(ctx context.Context, viewerID string) (int, error) {
	if viewerID == "" {
		return 0, ErrMissingViewer
	}
	return e.markRead(ctx, func(m models.Message) bool { return m.UnreadBy(viewerID) })
}

func (e *Engine) markRead(ctx context.Context, match func(models.Message) bool) (int, error) {
	var marked int
	err := e.store.Messages.Update(ctx, func(messages []models.Message) ([]models.Message, bool, error) {
		var ids []string
		for _, m := range messages {
			if match(m) {
				ids = append(ids, m.ID)
			}
		}
		updated, n := MarkRead(messages, ids)
		marked = n
		return updated, n > 0, nil
	})
	if err != nil {
		return 0, err
	}
	metrics.MessagesMarkedRead.Add(float64(marked))
	return marked, nil
}

// ActiveStories groups the stories active now by author.
func (e *Engine) ActiveStories(ctx context.Context) ([]models.StoryGroup, error) {
	stories, err := e.store.Stories.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	users, err := e.store.Users.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return GroupActiveStories(e.now(), stories, users), nil
}

// Feed renders every post newest first for viewerID.
func (e *Engine) Feed(ctx context.Context, viewerID string) ([]models.PostView, error) {
	posts, err := e.store.Posts.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	users, err := e.store.Users.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return EnrichPosts(posts, users, viewerID), nil
}

// NotificationFor derives the single event that the action identified by eventID
// produced for recipientID, if it is still part of the recipient's feed.
func (e *Engine) NotificationFor(ctx context.Context, recipientID, eventID string) (models.NotificationEvent, bool, error) {
	events, _, err := e.derive(ctx, recipientID)
	if err != nil {
		return models.NotificationEvent{}, false, err
	}
	i := slices.IndexFunc(events, func(ev models.NotificationEvent) bool { return ev.ID == eventID })
	if i < 0 {
		return models.NotificationEvent{}, false, nil
	}
	return events[i], true, nil
}
