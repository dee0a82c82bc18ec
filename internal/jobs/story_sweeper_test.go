package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorySweeperPurgesExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	img := models.Media{URL: "/uploads/a.png", Kind: models.MediaImage}

	store := repositories.NewMemoryStore()
	require.NoError(t, store.Stories.SaveAll(ctx, []models.Story{
		models.NewStory("old", models.Identified("u1"), img, now.Add(-25*time.Hour)),
		models.NewStory("edge", models.AnonymousIdentity(), img, now.Add(-models.StoryLifetime)),
		models.NewStory("fresh", models.Identified("u1"), img, now.Add(-time.Hour)),
	}))

	sweeper := NewStorySweeper(repositories.NewStoreStoryRepository(store), time.Hour, zerolog.Nop())
	sweeper.now = func() time.Time { return now }

	assert.Equal(t, 2, sweeper.Sweep(ctx))
	assert.Zero(t, sweeper.Sweep(ctx))

	left, err := store.Stories.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "fresh", left[0].ID)
}

func TestStorySweeperSurvivesStoreErrors(t *testing.T) {
	ctx := context.Background()
	stories := repositories.NewMemoryCollection[models.Story]()
	stories.Err = assert.AnError
	store := repositories.NewStore(
		repositories.NewMemoryCollection[models.User](),
		repositories.NewMemoryCollection[models.Post](),
		stories,
		repositories.NewMemoryCollection[models.Message](),
	)

	sweeper := NewStorySweeper(repositories.NewStoreStoryRepository(store), time.Hour, zerolog.Nop())
	assert.Zero(t, sweeper.Sweep(ctx))
}

func TestStorySweeperRunStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sweeper := NewStorySweeper(repositories.NewStoreStoryRepository(repositories.NewMemoryStore()), time.Millisecond, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}
