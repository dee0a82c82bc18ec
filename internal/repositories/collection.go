package repositories

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// Record is anything stored in a collection under a unique id.
type Record interface {
	RecordID() string
}

// Collection loads and saves a whole collection of records at once.
type Collection[T any] interface {
	LoadAll(ctx context.Context) ([]T, error)
	SaveAll(ctx context.Context, records []T) error
}

// Guarded serialises every access to a Collection with one mutex, so a
// load-modify-save cycle run through Update never loses a concurrent write.
type Guarded[T any] struct {
	mu    sync.Mutex
	name  string
	inner Collection[T]
}

// NewGuarded wraps c
func NewGuarded[T any](name string, c Collection[T]) *Guarded[T] {
	return &Guarded[T]{name: name, inner: c}
}

func (g *Guarded[T]) Name() string { return g.name }

// LoadAll returns a private copy of every record.
func (g *Guarded[T]) LoadAll(ctx context.Context) ([]T, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.load(ctx)
}

// SaveAll replaces the collection with records.
func (g *Guarded[T]) SaveAll(ctx context.Context, records []T) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.inner.SaveAll(ctx, records); err != nil {
		return storeErr("saving", g.name, err)
	}
	return nil
}

// Update loads the collection, hands it to fn and saves what fn returns when fn
// reports a change. The lock is held for the whole cycle. Errors from fn are
// returned unchanged and nothing is saved.
func (g *Guarded[T]) Update(ctx context.Context, fn func(records []T) ([]T, bool, error)) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	records, err := g.load(ctx)
	if err != nil {
		return err
	}
	updated, changed, err := fn(records)
	if err != nil || !changed {
		return err
	}
	if err := g.inner.SaveAll(ctx, updated); err != nil {
		return storeErr("saving", g.name, err)
	}
	return nil
}

func (g *Guarded[T]) load(ctx context.Context) ([]T, error) {
	records, err := g.inner.LoadAll(ctx)
	if err != nil {
		return nil, storeErr("loading", g.name, err)
	}
	return slices.Clone(records), nil
}

// Store groups the collections the application keeps.
type Store struct {
	Users    *Guarded[models.User]
	Posts    *Guarded[models.Post]
	Stories  *Guarded[models.Story]
	Messages *Guarded[models.Message]

	closers []func(ctx context.Context) error
}

// NewStore guards each collection and bundles them
func NewStore(
	users Collection[models.User],
	posts Collection[models.Post],
	stories Collection[models.Story],
	messages Collection[models.Message],
) *Store {
	return &Store{
		Users:    NewGuarded("users", users),
		Posts:    NewGuarded("posts", posts),
		Stories:  NewGuarded("stories", stories),
		Messages: NewGuarded("messages", messages),
	}
}

// OnClose registers fn to run when the store is closed.
func (s *Store) OnClose(fn func(ctx context.Context) error) {
	s.closers = append(s.closers, fn)
}

// Close releases the connections behind the store.
func (s *Store) Close(ctx context.Context) error {
	var errs []error
	for _, fn := range s.closers {
		errs = append(errs, fn(ctx))
	}
	return errors.Join(errs...)
}

func indexOf[T Record](records []T, id string) int {
	return slices.IndexFunc(records, func(r T) bool { return r.RecordID() == id })
}
