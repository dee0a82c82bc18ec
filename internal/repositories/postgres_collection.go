package repositories

import (
	"context"
	"fmt"

	"github.com/anonto42/nano-social/backend/internal/models"
	"gorm.io/gorm"
)

const insertBatchSize = 200

// PostgresCollection keeps one record per row of the table gorm maps T to.
type PostgresCollection[T any] struct {
	db *gorm.DB
}

// NewPostgresCollection creates a PostgresCollection
func NewPostgresCollection[T any](db *gorm.DB) *PostgresCollection[T] {
	return &PostgresCollection[T]{db: db}
}

// LoadAll returns the rows oldest first.
func (c *PostgresCollection[T]) LoadAll(ctx context.Context) ([]T, error) {
	records := []T{}
	if err := c.db.WithContext(ctx).Order("created_at, id").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// SaveAll replaces the table contents in one transaction.
func (c *PostgresCollection[T]) SaveAll(ctx context.Context, records []T) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(new(T)).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.CreateInBatches(&records, insertBatchSize).Error
	})
}

// NewPostgresStore migrates the schema and creates a store with one table per record kind.
func NewPostgresStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Story{},
		&models.Message{},
	); err != nil {
		return nil, fmt.Errorf("auto migrating models: %w", err)
	}
	return NewStore(
		NewPostgresCollection[models.User](db),
		NewPostgresCollection[models.Post](db),
		NewPostgresCollection[models.Story](db),
		NewPostgresCollection[models.Message](db),
	), nil
}
