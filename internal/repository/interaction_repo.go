package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cothink/internal/model"
)

// InteractionRepo archives interaction records. The in-memory log stays the
// source of truth for the running session; Mongo is the durable copy.
type InteractionRepo interface {
	Insert(ctx context.Context, rec *model.InteractionRecord) error
	ListByAgent(ctx context.Context, agentID string) ([]*model.InteractionRecord, error)
	ListAll(ctx context.Context) ([]*model.InteractionRecord, error)
	Count(ctx context.Context) (int64, error)
}

type interactionRepo struct {
	collection *mongo.Collection
}

// NewInteractionRepo creates a new interaction repository
func NewInteractionRepo(client *mongo.Client, database string) InteractionRepo {
	db := client.Database(database)
	return &interactionRepo{
		collection: db.Collection("interactions"),
	}
}

func (r *interactionRepo) Insert(ctx context.Context, rec *model.InteractionRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	_, err := r.collection.InsertOne(ctx, rec)
	return err
}

func (r *interactionRepo) ListByAgent(ctx context.Context, agentID string) ([]*model.InteractionRecord, error) {
	return r.list(ctx, bson.M{"agentId": agentID})
}

func (r *interactionRepo) ListAll(ctx context.Context) ([]*model.InteractionRecord, error) {
	return r.list(ctx, bson.M{})
}

func (r *interactionRepo) list(ctx context.Context, filter bson.M) ([]*model.InteractionRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*model.InteractionRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *interactionRepo) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
