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

type mongoProgramRepository struct {
	collection *mongo.Collection
}

func NewMongoProgramRepository(db *mongo.Database) repository.ProgramRepository {
	return &mongoProgramRepository{collection: db.Collection(programCollectionName)}
}

func (r *mongoProgramRepository) Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error) {
	program.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, program)
	if err != nil {
		return primitive.NilObjectID, mapWriteErr(err)
	}
	return insertedID(result)
}

func (r *mongoProgramRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error) {
	var program domain.Program
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&program); err != nil {
		return nil, mapFindErr(err)
	}
	return &program, nil
}

func programFilterDoc(trainerID *primitive.ObjectID) bson.M {
	if trainerID == nil {
		return bson.M{}
	}
	return bson.M{"trainerId": *trainerID}
}

func (r *mongoProgramRepository) List(ctx context.Context, trainerID *primitive.ObjectID, page repository.Page) ([]domain.Program, error) {
	cursor, err := r.collection.Find(ctx, programFilterDoc(trainerID), pageOptions(page, bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	programs := []domain.Program{}
	if err := cursor.All(ctx, &programs); err != nil {
		return nil, err
	}
	return programs, nil
}

func (r *mongoProgramRepository) Count(ctx context.Context, trainerID *primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, programFilterDoc(trainerID))
}

// Update never changes the owning trainer.
func (r *mongoProgramRepository) Update(ctx context.Context, program *domain.Program) error {
	program.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"name":        program.Name,
		"description": program.Description,
		"updatedAt":   program.UpdatedAt,
	}}
	return checkMatched(r.collection.UpdateOne(ctx, bson.M{"_id": program.ID}, update))
}

func (r *mongoProgramRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return checkDeleted(r.collection.DeleteOne(ctx, bson.M{"_id": id}))
}

func EnsureProgramIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "trainerId", Value: 1}}},
	})
}
