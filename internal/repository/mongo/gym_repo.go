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

type mongoGymRepository struct {
	collection *mongo.Collection
}

func NewMongoGymRepository(db *mongo.Database) repository.GymRepository {
	return &mongoGymRepository{collection: db.Collection(gymCollectionName)}
}

func (r *mongoGymRepository) Create(ctx context.Context, gym *domain.Gym) (primitive.ObjectID, error) {
	gym.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	gym.CreatedAt = now
	gym.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, gym)
	if err != nil {
		return primitive.NilObjectID, mapWriteErr(err)
	}
	return insertedID(result)
}

func (r *mongoGymRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Gym, error) {
	var gym domain.Gym
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&gym); err != nil {
		return nil, mapFindErr(err)
	}
	return &gym, nil
}

func (r *mongoGymRepository) List(ctx context.Context, page repository.Page) ([]domain.Gym, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, pageOptions(page, bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	gyms := []domain.Gym{}
	if err := cursor.All(ctx, &gyms); err != nil {
		return nil, err
	}
	return gyms, nil
}

func (r *mongoGymRepository) Update(ctx context.Context, gym *domain.Gym) error {
	gym.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"name":      gym.Name,
		"address":   gym.Address,
		"updatedAt": gym.UpdatedAt,
	}}
	return checkMatched(r.collection.UpdateOne(ctx, bson.M{"_id": gym.ID}, update))
}

func (r *mongoGymRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return checkDeleted(r.collection.DeleteOne(ctx, bson.M{"_id": id}))
}
