package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCollectionRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "messages.json")
	c := NewFileCollection[models.Message](path)

	records, err := c.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, records, "a missing file is an empty collection")

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	want := []models.Message{
		{ID: "m1", Sender: models.Identified("u1"), ReceiverID: "u2", Content: "hi", CreatedAt: created},
		{ID: "m2", Sender: models.AnonymousIdentity(), ReceiverID: "u1", Read: true, CreatedAt: created},
	}
	require.NoError(t, c.SaveAll(ctx, want))

	got, err := c.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "m1", got[0].ID)
	assert.Equal(t, models.Identified("u1"), got[0].Sender)
	assert.Equal(t, models.AnonymousIdentity(), got[1].Sender)
	assert.True(t, got[1].Read)
	assert.True(t, got[0].CreatedAt.Equal(created))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

func TestFileCollectionCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewStore(
		NewFileCollection[models.User](path),
		NewMemoryCollection[models.Post](),
		NewMemoryCollection[models.Story](),
		NewMemoryCollection[models.Message](),
	)
	_, err := store.Users.LoadAll(context.Background())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestGuardedUpdateSerialisesWriters(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	const writers = 25
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Posts.Update(ctx, func(posts []models.Post) ([]models.Post, bool, error) {
				return append(posts, models.Post{ID: fmt.Sprintf("p%d", i)}), true, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	posts, err := store.Posts.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, writers)
}

func TestGuardedUpdateSkipsSaveWithoutChange(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryCollection[models.Story]()
	g := NewGuarded[models.Story]("stories", inner)
	require.NoError(t, g.SaveAll(ctx, []models.Story{{ID: "s1"}}))

	inner.Err = errors.New("read only")
	err := g.Update(ctx, func(s []models.Story) ([]models.Story, bool, error) { return s, false, nil })
	assert.ErrorIs(t, err, ErrStoreUnavailable, "loading still fails")

	inner.Err = nil
	boom := errors.New("boom")
	err = g.Update(ctx, func(s []models.Story) ([]models.Story, bool, error) {
		return nil, true, boom
	})
	assert.ErrorIs(t, err, boom)

	stories, err := g.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, stories, 1, "a failed update leaves the collection alone")
}

func TestMemoryCollectionDoesNotShareState(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCollection[models.User]()
	users := []models.User{{ID: "u1", Followers: []string{"u2"}}}
	require.NoError(t, c.SaveAll(ctx, users))

	users[0].Followers[0] = "changed"
	loaded, err := c.LoadAll(ctx)
	require.NoError(t, err)
	loaded[0].Followers = append(loaded[0].Followers, "u3")

	again, err := c.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"u2"}, again[0].Followers)
}

func TestStoreCloseJoinsErrors(t *testing.T) {
	store := NewMemoryStore()
	first := errors.New("first")
	store.OnClose(func(context.Context) error { return first })
	store.OnClose(func(context.Context) error { return nil })

	err := store.Close(context.Background())
	assert.ErrorIs(t, err, first)
}
