package repositories

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCollection keeps one record per document, keyed by the record id.
type MongoCollection[T Record] struct {
	collection *mongo.Collection
}

// NewMongoCollection creates a MongoCollection over db.name
func NewMongoCollection[T Record](db *mongo.Database, name string) *MongoCollection[T] {
	return &MongoCollection[T]{collection: db.Collection(name)}
}

// LoadAll returns the documents oldest first.
func (c *MongoCollection[T]) LoadAll(ctx context.Context) ([]T, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := c.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []T{}
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SaveAll upserts every record, then drops the documents no longer present.
func (c *MongoCollection[T]) SaveAll(ctx context.Context, records []T) error {
	ids := make([]string, 0, len(records))
	writes := make([]mongo.WriteModel, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.RecordID())
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": r.RecordID()}).
			SetReplacement(r).
			SetUpsert(true))
	}

	if len(writes) > 0 {
		if _, err := c.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
			return err
		}
	}
	_, err := c.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$nin": ids}})
	return err
}

// NewMongoStore creates a store with one MongoDB collection per record kind.
func NewMongoStore(db *mongo.Database) *Store {
	return NewStore(
		NewMongoCollection[models.User](db, "users"),
		NewMongoCollection[models.Post](db, "posts"),
		NewMongoCollection[models.Story](db, "stories"),
		NewMongoCollection[models.Message](db, "messages"),
	)
}
