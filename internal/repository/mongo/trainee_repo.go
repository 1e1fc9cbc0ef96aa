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

type mongoTraineeRepository struct {
	collection *mongo.Collection
}

// NewMongoTraineeRepository creates a trainee profile repository backed by MongoDB.
func NewMongoTraineeRepository(db *mongo.Database) repository.TraineeRepository {
	return &mongoTraineeRepository{collection: db.Collection(traineeCollectionName)}
}

func (r *mongoTraineeRepository) Create(ctx context.Context, trainee *domain.Trainee) (primitive.ObjectID, error) {
	trainee.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	trainee.CreatedAt = now
	trainee.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, trainee)
	if err != nil {
		return primitive.NilObjectID, mapWriteErr(err)
	}
	return insertedID(result)
}

func (r *mongoTraineeRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Trainee, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoTraineeRepository) GetByAccountID(ctx context.Context, accountID primitive.ObjectID) (*domain.Trainee, error) {
	return r.findOne(ctx, bson.M{"accountId": accountID})
}

func (r *mongoTraineeRepository) findOne(ctx context.Context, filter bson.M) (*domain.Trainee, error) {
	var trainee domain.Trainee
	if err := r.collection.FindOne(ctx, filter).Decode(&trainee); err != nil {
		return nil, mapFindErr(err)
	}
	return &trainee, nil
}

func traineeFilterDoc(filter repository.TraineeFilter) bson.M {
	doc := bson.M{}
	if filter.TrainerID != nil {
		doc["trainerId"] = *filter.TrainerID
	}
	if filter.GymID != nil {
		doc["gymId"] = *filter.GymID
	}
	return doc
}

func (r *mongoTraineeRepository) List(ctx context.Context, filter repository.TraineeFilter, page repository.Page) ([]domain.Trainee, error) {
	sort := bson.D{{Key: "lastName", Value: 1}, {Key: "firstName", Value: 1}}
	cursor, err := r.collection.Find(ctx, traineeFilterDoc(filter), pageOptions(page, sort))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	trainees := []domain.Trainee{}
	if err := cursor.All(ctx, &trainees); err != nil {
		return nil, err
	}
	return trainees, nil
}

func (r *mongoTraineeRepository) Count(ctx context.Context, filter repository.TraineeFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, traineeFilterDoc(filter))
}

// Update replaces the stored profile so cleared optional references are removed too.
func (r *mongoTraineeRepository) Update(ctx context.Context, trainee *domain.Trainee) error {
	trainee.UpdatedAt = time.Now().UTC()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": trainee.ID}, trainee)
	return checkMatched(result, err)
}

func (r *mongoTraineeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return checkDeleted(r.collection.DeleteOne(ctx, bson.M{"_id": id}))
}

func EnsureTraineeIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "accountId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Trainer dashboards list clients by trainer.
			Keys: bson.D{{Key: "trainerId", Value: 1}},
		},
	})
}
