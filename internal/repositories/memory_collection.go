package repositories

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// MemoryCollection keeps a collection in process memory. Records are kept
// encoded so callers never share state with the stored copy.
type MemoryCollection[T any] struct {
	mu   sync.Mutex
	data []byte
	// Err, when set, is returned by every call.
	Err error
}

func NewMemoryCollection[T any]() *MemoryCollection[T] {
	return &MemoryCollection[T]{}
}

func (c *MemoryCollection[T]) LoadAll(_ context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	records := []T{}
	if c.data == nil {
		return records, nil
	}
	if err := json.Unmarshal(c.data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *MemoryCollection[T]) SaveAll(_ context.Context, records []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	c.data = data
	return nil
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *Store {
	return NewStore(
		NewMemoryCollection[models.User](),
		NewMemoryCollection[models.Post](),
		NewMemoryCollection[models.Story](),
		NewMemoryCollection[models.Message](),
	)
}
