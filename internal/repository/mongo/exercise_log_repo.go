package mongo

import (
	"context"

	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoExerciseLogRepository struct {
	collection *mongo.Collection
}

func NewMongoExerciseLogRepository(db *mongo.Database) repository.ExerciseLogRepository {
	return &mongoExerciseLogRepository{collection: db.Collection(exerciseLogCollectionName)}
}

func (r *mongoExerciseLogRepository) Create(ctx context.Context, log *domain.ExerciseLog) (primitive.ObjectID, error) {
	log.ID = primitive.NewObjectID()
	log.RecomputeVolume()

	result, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return primitive.NilObjectID, mapWriteErr(err)
	}
	return insertedID(result)
}

// CreateMany inserts all logs in one ordered batch.
func (r *mongoExerciseLogRepository) CreateMany(ctx context.Context, logs []*domain.ExerciseLog) error {
	if len(logs) == 0 {
		return nil
	}
	docs := make([]interface{}, len(logs))
	for i, l := range logs {
		l.ID = primitive.NewObjectID()
		l.RecomputeVolume()
		docs[i] = l
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return mapWriteErr(err)
}

func (r *mongoExerciseLogRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseLog, error) {
	var log domain.ExerciseLog
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&log); err != nil {
		return nil, mapFindErr(err)
	}
	return &log, nil
}

func (r *mongoExerciseLogRepository) ListBySession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.ExerciseLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "loggedAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"sessionId": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logs := []domain.ExerciseLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *mongoExerciseLogRepository) CountBySession(ctx context.Context, sessionID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"sessionId": sessionID})
}

// Update stores corrected values. Session, trainee and date references are left untouched.
func (r *mongoExerciseLogRepository) Update(ctx context.Context, log *domain.ExerciseLog) error {
	log.RecomputeVolume()
	set := bson.M{
		"exerciseId":  log.ExerciseID,
		"volumeKg":    log.VolumeKg,
		"isCompleted": log.IsCompleted,
		"notes":       log.Notes,
	}
	unset := bson.M{}
	setOrUnset(set, unset, "completedSets", log.CompletedSets)
	setOrUnset(set, unset, "completedReps", log.CompletedReps)
	setOrUnset(set, unset, "completedWeightKg", log.CompletedWeightKg)
	setOrUnset(set, unset, "completedDurationMin", log.CompletedDurationMin)

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return checkMatched(r.collection.UpdateOne(ctx, bson.M{"_id": log.ID}, update))
}

func setOrUnset[T any](set, unset bson.M, key string, v *T) {
	if v == nil {
		unset[key] = ""
		return
	}
	set[key] = *v
}

func (r *mongoExerciseLogRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return checkDeleted(r.collection.DeleteOne(ctx, bson.M{"_id": id}))
}

func (r *mongoExerciseLogRepository) DeleteBySession(ctx context.Context, sessionID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"sessionId": sessionID})
	return err
}

func EnsureExerciseLogIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "sessionId", Value: 1}}},
		{
			// Every analytics rollup filters by trainee and date window.
			Keys:    bson.D{{Key: "traineeId", Value: 1}, {Key: "sessionDate", Value: 1}},
			Options: options.Index().SetName("log_trainee_date"),
		},
		{Keys: bson.D{{Key: "traineeId", Value: 1}, {Key: "exerciseId", Value: 1}, {Key: "completedWeightKg", Value: -1}}},
	})
}
