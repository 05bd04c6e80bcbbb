package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cothink/internal/model"
)

// SurveyRepo archives structured survey records.
type SurveyRepo interface {
	Insert(ctx context.Context, rec *model.SurveyRecord) error
	ListByAgent(ctx context.Context, agentID string) ([]*model.SurveyRecord, error)
	ListAll(ctx context.Context) ([]*model.SurveyRecord, error)
	Count(ctx context.Context) (int64, error)
}

type surveyRepo struct {
	collection *mongo.Collection
}

// NewSurveyRepo creates a new survey repository
func NewSurveyRepo(client *mongo.Client, database string) SurveyRepo {
	db := client.Database(database)
	return &surveyRepo{
		collection: db.Collection("surveys"),
	}
}

func (r *surveyRepo) Insert(ctx context.Context, rec *model.SurveyRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	_, err := r.collection.InsertOne(ctx, rec)
	return err
}

func (r *surveyRepo) ListByAgent(ctx context.Context, agentID string) ([]*model.SurveyRecord, error) {
	return r.list(ctx, bson.M{"agentId": agentID})
}

func (r *surveyRepo) ListAll(ctx context.Context) ([]*model.SurveyRecord, error) {
	return r.list(ctx, bson.M{})
}

func (r *surveyRepo) list(ctx context.Context, filter bson.M) ([]*model.SurveyRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*model.SurveyRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *surveyRepo) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
