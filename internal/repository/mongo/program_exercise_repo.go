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

type mongoProgramExerciseRepository struct {
	collection *mongo.Collection
}

func NewMongoProgramExerciseRepository(db *mongo.Database) repository.ProgramExerciseRepository {
	return &mongoProgramExerciseRepository{collection: db.Collection(programExerciseCollectionName)}
}

func (r *mongoProgramExerciseRepository) Create(ctx context.Context, pe *domain.ProgramExercise) (primitive.ObjectID, error) {
	pe.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	pe.CreatedAt = now
	pe.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, pe)
	if err != nil {
		return primitive.NilObjectID, mapWriteErr(err)
	}
	return insertedID(result)
}

func (r *mongoProgramExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramExercise, error) {
	var pe domain.ProgramExercise
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&pe); err != nil {
		return nil, mapFindErr(err)
	}
	return &pe, nil
}

func (r *mongoProgramExerciseRepository) GetByProgramAndOrder(ctx context.Context, programID primitive.ObjectID, order int) (*domain.ProgramExercise, error) {
	var pe domain.ProgramExercise
	filter := bson.M{"programId": programID, "order": order}
	if err := r.collection.FindOne(ctx, filter).Decode(&pe); err != nil {
		return nil, mapFindErr(err)
	}
	return &pe, nil
}

func (r *mongoProgramExerciseRepository) ListByProgram(ctx context.Context, programID primitive.ObjectID) ([]domain.ProgramExercise, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"programId": programID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []domain.ProgramExercise{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *mongoProgramExerciseRepository) Update(ctx context.Context, pe *domain.ProgramExercise) error {
	pe.UpdatedAt = time.Now().UTC()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": pe.ID}, pe)
	return checkMatched(result, err)
}

func (r *mongoProgramExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return checkDeleted(r.collection.DeleteOne(ctx, bson.M{"_id": id}))
}

func (r *mongoProgramExerciseRepository) DeleteByProgram(ctx context.Context, programID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"programId": programID})
	return err
}

// EnsureProgramExerciseIndexes enforces one entry per (program, order).
func EnsureProgramExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "programId", Value: 1}, {Key: "order", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("program_order_unique"),
		},
	})
}
