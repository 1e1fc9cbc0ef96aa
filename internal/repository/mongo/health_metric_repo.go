package mongo

import (
	"context"
	"time"

	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoHealthMetricRepository struct {
	collection *mongo.Collection
}

func NewMongoHealthMetricRepository(db *mongo.Database) repository.HealthMetricRepository {
	return &mongoHealthMetricRepository{collection: db.Collection(healthMetricCollectionName)}
}

func (r *mongoHealthMetricRepository) Create(ctx context.Context, metric *domain.HealthMetric) (primitive.ObjectID, error) {
	metric.ID = primitive.NewObjectID()
	if metric.RecordedAt.IsZero() {
		metric.RecordedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, metric)
	if err != nil {
		return primitive.NilObjectID, mapWriteErr(err)
	}
	return insertedID(result)
}

func (r *mongoHealthMetricRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.HealthMetric, error) {
	var metric domain.HealthMetric
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&metric); err != nil {
		return nil, mapFindErr(err)
	}
	return &metric, nil
}

func (r *mongoHealthMetricRepository) ListByTrainee(ctx context.Context, traineeID primitive.ObjectID, page repository.Page) ([]domain.HealthMetric, error) {
	sort := bson.D{{Key: "recordedAt", Value: -1}}
	cursor, err := r.collection.Find(ctx, bson.M{"traineeId": traineeID}, pageOptions(page, sort))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	metrics := []domain.HealthMetric{}
	if err := cursor.All(ctx, &metrics); err != nil {
		return nil, err
	}
	return metrics, nil
}

func (r *mongoHealthMetricRepository) Update(ctx context.Context, metric *domain.HealthMetric) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": metric.ID}, metric)
	return checkMatched(result, err)
}

func (r *mongoHealthMetricRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return checkDeleted(r.collection.DeleteOne(ctx, bson.M{"_id": id}))
}

func EnsureHealthMetricIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "traineeId", Value: 1}, {Key: "recordedAt", Value: -1}}},
	})
}
