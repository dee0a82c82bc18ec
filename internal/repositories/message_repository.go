package repositories

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// MessageRepository defines the interface for message data operations.
// Read flags are changed only through the activity engine.
type MessageRepository interface {
	CreateMessage(ctx context.Context, message *models.Message) error
}

// StoreMessageRepository implements MessageRepository over the messages collection
type StoreMessageRepository struct {
	messages *Guarded[models.Message]
}

// NewStoreMessageRepository creates a new StoreMessageRepository
func NewStoreMessageRepository(store *Store) *StoreMessageRepository {
	return &StoreMessageRepository{messages: store.Messages}
}

func (r *StoreMessageRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	return r.messages.Update(ctx, func(messages []models.Message) ([]models.Message, bool, error) {
		if indexOf(messages, message.ID) >= 0 {
			return nil, false, ErrAlreadyExists
		}
		return append(messages, *message), true, nil
	})
}

