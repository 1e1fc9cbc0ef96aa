package mongo

import (
	"context"
	"time"

	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoTrainerRepository struct {
	collection *mongo.Collection
}

func NewMongoTrainerRepository(db *mongo.Database) repository.TrainerRepository {
	return &mongoTrainerRepository{collection: db.Collection(trainerCollectionName)}
}

func (r *mongoTrainerRepository) Create(ctx context.Context, trainer *domain.Trainer) (primitive.ObjectID, error) {
	trainer.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	trainer.CreatedAt = now
	trainer.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, trainer)
	if err != nil {
		return primitive.NilObjectID, mapWriteErr(err)
	}
	return insertedID(result)
}

func (r *mongoTrainerRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error) {
	var trainer domain.Trainer
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&trainer); err != nil {
		return nil, mapFindErr(err)
	}
	return &trainer, nil
}

func (r *mongoTrainerRepository) GetByAccountID(ctx context.Context, accountID primitive.ObjectID) (*domain.Trainer, error) {
	var trainer domain.Trainer
	if err := r.collection.FindOne(ctx, bson.M{"accountId": accountID}).Decode(&trainer); err != nil {
		return nil, mapFindErr(err)
	}
	return &trainer, nil
}

func (r *mongoTrainerRepository) List(ctx context.Context, page repository.Page) ([]domain.Trainer, error) {
	sort := bson.D{{Key: "lastName", Value: 1}, {Key: "firstName", Value: 1}}
	cursor, err := r.collection.Find(ctx, bson.M{}, pageOptions(page, sort))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	trainers := []domain.Trainer{}
	if err := cursor.All(ctx, &trainers); err != nil {
		return nil, err
	}
	return trainers, nil
}

func (r *mongoTrainerRepository) Update(ctx context.Context, trainer *domain.Trainer) error {
	trainer.UpdatedAt = time.Now().UTC()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": trainer.ID}, trainer)
	return checkMatched(result, err)
}

func (r *mongoTrainerRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return checkDeleted(r.collection.DeleteOne(ctx, bson.M{"_id": id}))
}

func EnsureTrainerIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "accountId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
}
