// Package activity derives notification feeds, conversation inboxes and other
// read models from the stored users, posts, stories and messages.
//
// The derivations are pure functions over whole collections. Engine binds them to
// the record store and owns the one effect in the package: marking a thread read.
package activity

import (
	"errors"
	"slices"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// ErrMissingViewer is returned when a derivation is asked for without a viewer id.
var ErrMissingViewer = errors.New("viewer id is required")

// DeriveNotifications builds the notification feed of viewerID, newest first.
//
// Likes, comments, follows and unread messages become one event each. Events caused by
// the viewer are suppressed and events whose actor no longer exists are skipped. A viewer
// without a user record gets no follow events.
func DeriveNotifications(viewerID string, users []models.User, posts []models.Post, messages []models.Message) ([]models.NotificationEvent, error) {
	if viewerID == "" {
		return nil, ErrMissingViewer
	}
	index := models.IndexUsers(users)

	var likes, comments, follows, unread []models.NotificationEvent
	for _, p := range posts {
		if !p.Author.Is(viewerID) {
			continue
		}
		ref := &models.PostRef{ID: p.ID, Content: p.Content, Media: p.Media}

		// Likes carry no time of their own, so they take the post's.
		for _, likerID := range p.Likes {
			if likerID == viewerID {
				continue
			}
			actor, ok := models.Identified(likerID).Project(index)
			if !ok {
				continue
			}
			likes = append(likes, models.NotificationEvent{
				ID:        "like-" + p.ID + "-" + likerID,
				Type:      models.NotificationLike,
				Actor:     actor,
				Post:      ref,
				CreatedAt: p.CreatedAt,
			})
		}

		for _, c := range p.Comments {
			if c.AuthorID == viewerID {
				continue
			}
			actor, ok := models.Identified(c.AuthorID).Project(index)
			if !ok {
				continue
			}
			comments = append(comments, models.NotificationEvent{
				ID:        c.ID,
				Type:      models.NotificationComment,
				Actor:     actor,
				Post:      ref,
				Comment:   &models.ContentRef{ID: c.ID, Content: c.Content},
				CreatedAt: c.CreatedAt,
			})
		}
	}

	if viewer, ok := index[viewerID]; ok {
		for _, followerID := range viewer.Followers {
			follower, ok := index[followerID]
			if !ok || followerID == viewerID {
				continue
			}
			// TODO: stamp follows with the follow time once the follower set records it;
			// until then the follower's account creation time stands in.
			follows = append(follows, models.NotificationEvent{
				ID:        "follow-" + followerID,
				Type:      models.NotificationFollow,
				Actor:     follower.ToPublic(),
				CreatedAt: follower.CreatedAt,
			})
		}
	}

	for _, m := range messages {
		if !m.UnreadBy(viewerID) || m.Sender.Is(viewerID) {
			continue
		}
		actor, ok := m.Sender.Project(index)
		if !ok {
			continue
		}
		unread = append(unread, models.NotificationEvent{
			ID:        m.ID,
			Type:      models.NotificationMessage,
			Actor:     actor,
			Message:   &models.ContentRef{ID: m.ID, Content: m.Content},
			CreatedAt: m.CreatedAt,
		})
	}

	events := slices.Concat(likes, comments, follows, unread)
	if events == nil {
		events = []models.NotificationEvent{}
	}
	slices.SortStableFunc(events, func(a, b models.NotificationEvent) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return events, nil
}

// GroupByAge buckets events, already sorted newest first, into today, yesterday,
// the rest of the last seven days and older, using the calendar days of now.
func GroupByAge(events []models.NotificationEvent, now time.Time) models.GroupedNotifications {
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterdayStart := todayStart.AddDate(0, 0, -1)
	weekStart := todayStart.AddDate(0, 0, -7)

	grouped := models.GroupedNotifications{
		Today:     []models.NotificationEvent{},
		Yesterday: []models.NotificationEvent{},
		ThisWeek:  []models.NotificationEvent{},
		Older:     []models.NotificationEvent{},
	}
	for _, e := range events {
		switch {
		case !e.CreatedAt.Before(todayStart):
			grouped.Today = append(grouped.Today, e)
		case !e.CreatedAt.Before(yesterdayStart):
			grouped.Yesterday = append(grouped.Yesterday, e)
		case !e.CreatedAt.Before(weekStart):
			grouped.ThisWeek = append(grouped.ThisWeek, e)
		default:
			grouped.Older = append(grouped.Older, e)
		}
	}
	return grouped
}
