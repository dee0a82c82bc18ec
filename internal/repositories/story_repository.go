package repositories

import (
	"context"
	"slices"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// StoryRepository defines the interface for story data operations
type StoryRepository interface {
	CreateStory(ctx context.Context, story *models.Story) error
	GetStoryByID(ctx context.Context, id string) (*models.Story, error)
	GetActiveStories(ctx context.Context, now time.Time) ([]models.Story, error)
	MarkViewed(ctx context.Context, storyID, userID string, now time.Time) (*models.Story, error)
	DeleteExpiredStories(ctx context.Context, now time.Time) (int, error)
}

// StoreStoryRepository implements StoryRepository over the stories collection.
// Expired stories stay stored until DeleteExpiredStories runs but are left out of active reads.
type StoreStoryRepository struct {
	stories *Guarded[models.Story]
}

// NewStoreStoryRepository creates a new StoreStoryRepository
func NewStoreStoryRepository(store *Store) *StoreStoryRepository {
	return &StoreStoryRepository{stories: store.Stories}
}

func (r *StoreStoryRepository) CreateStory(ctx context.Context, story *models.Story) error {
	return r.stories.Update(ctx, func(stories []models.Story) ([]models.Story, bool, error) {
		if indexOf(stories, story.ID) >= 0 {
			return nil, false, ErrAlreadyExists
		}
		return append(stories, *story), true, nil
	})
}

func (r *StoreStoryRepository) GetStoryByID(ctx context.Context, id string) (*models.Story, error) {
	stories, err := r.stories.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(stories, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	return &stories[i], nil
}

// GetActiveStories returns the stories not yet expired at now, in stored order
func (r *StoreStoryRepository) GetActiveStories(ctx context.Context, now time.Time) ([]models.Story, error) {
	stories, err := r.stories.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(stories, func(s models.Story) bool { return !s.IsActive(now) }), nil
}

// MarkViewed adds userID to the viewers of an active story
func (r *StoreStoryRepository) MarkViewed(ctx context.Context, storyID, userID string, now time.Time) (*models.Story, error) {
	var result models.Story
	err := r.stories.Update(ctx, func(stories []models.Story) ([]models.Story, bool, error) {
		i := indexOf(stories, storyID)
		if i < 0 || !stories[i].IsActive(now) {
			return nil, false, ErrNotFound
		}
		changed := stories[i].MarkViewed(userID)
		result = stories[i]
		return stories, changed, nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteExpiredStories purges the stories expired at now and returns how many went.
func (r *StoreStoryRepository) DeleteExpiredStories(ctx context.Context, now time.Time) (int, error) {
	var purged int
	err := r.stories.Update(ctx, func(stories []models.Story) ([]models.Story, bool, error) {
		before := len(stories)
		stories = slices.DeleteFunc(stories, func(s models.Story) bool { return !s.IsActive(now) })
		purged = before - len(stories)
		return stories, purged > 0, nil
	})
	return purged, err
}
