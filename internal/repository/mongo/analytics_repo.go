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

// mongoAnalyticsRepository aggregates over the exercise_logs collection.
// Logs carry traineeId and sessionDate, so no $lookup into sessions is needed.
type mongoAnalyticsRepository struct {
	logs *mongo.Collection
}

func NewMongoAnalyticsRepository(db *mongo.Database) repository.AnalyticsRepository {
	return &mongoAnalyticsRepository{logs: db.Collection(exerciseLogCollectionName)}
}

func matchWindow(traineeID primitive.ObjectID, since time.Time) bson.D {
	return bson.D{{Key: "$match", Value: bson.M{
		"traineeId":   traineeID,
		"sessionDate": bson.M{"$gte": domain.DateOf(since)},
	}}}
}

func (r *mongoAnalyticsRepository) DailyLogCounts(ctx context.Context, traineeID primitive.ObjectID, since time.Time) ([]domain.DailyCount, error) {
	pipeline := mongo.Pipeline{
		matchWindow(traineeID, since),
		{{Key: "$group", Value: bson.M{"_id": "$sessionDate", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	return aggregateAll[domain.DailyCount](ctx, r.logs, pipeline)
}

func (r *mongoAnalyticsRepository) ExerciseTotals(ctx context.Context, traineeID primitive.ObjectID, since time.Time, limit int) ([]domain.ExerciseTotal, error) {
	pipeline := mongo.Pipeline{
		matchWindow(traineeID, since),
		{{Key: "$group", Value: bson.M{
			"_id":         "$exerciseId",
			"count":       bson.M{"$sum": 1},
			"totalVolume": bson.M{"$sum": "$volumeKg"},
			"avgWeight":   bson.M{"$avg": "$completedWeightKg"},
		}}},
		// $avg yields null when no log of the exercise had a weight.
		{{Key: "$set", Value: bson.M{"avgWeight": bson.M{"$ifNull": bson.A{"$avgWeight", 0}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}
	return aggregateAll[domain.ExerciseTotal](ctx, r.logs, pipeline)
}

func (r *mongoAnalyticsRepository) DailyVolume(ctx context.Context, traineeID primitive.ObjectID, since time.Time) ([]domain.DailyVolume, error) {
	pipeline := mongo.Pipeline{
		matchWindow(traineeID, since),
		{{Key: "$group", Value: bson.M{"_id": "$sessionDate", "volumeKg": bson.M{"$sum": "$volumeKg"}}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	return aggregateAll[domain.DailyVolume](ctx, r.logs, pipeline)
}

// PersonalRecords sorts heaviest first, then newest session, then newest log
// (by loggedAt, then _id), and keeps the first document of each exercise.
func (r *mongoAnalyticsRepository) PersonalRecords(ctx context.Context, traineeID primitive.ObjectID) ([]domain.PersonalRecord, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"traineeId":         traineeID,
			"completedWeightKg": bson.M{"$ne": nil},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "completedWeightKg", Value: -1},
			{Key: "sessionDate", Value: -1},
			{Key: "loggedAt", Value: -1},
			{Key: "_id", Value: -1},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$exerciseId",
			"maxWeightKg": bson.M{"$first": "$completedWeightKg"},
			"sessionDate": bson.M{"$first": "$sessionDate"},
			"sets":        bson.M{"$first": bson.M{"$ifNull": bson.A{"$completedSets", 0}}},
			"reps":        bson.M{"$first": bson.M{"$ifNull": bson.A{"$completedReps", 0}}},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":         0,
			"exerciseId":  "$_id",
			"maxWeightKg": 1,
			"sessionDate": 1,
			"sets":        1,
			"reps":        1,
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "maxWeightKg", Value: -1}, {Key: "exerciseId", Value: 1}}}},
	}
	return aggregateAll[domain.PersonalRecord](ctx, r.logs, pipeline)
}

func (r *mongoAnalyticsRepository) Totals(ctx context.Context, traineeID primitive.ObjectID) (domain.LogTotals, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"traineeId": traineeID}}},
		{{Key: "$group", Value: bson.M{
			"_id":      nil,
			"count":    bson.M{"$sum": 1},
			"volumeKg": bson.M{"$sum": "$volumeKg"},
		}}},
	}
	rows, err := aggregateAll[domain.LogTotals](ctx, r.logs, pipeline)
	if err != nil || len(rows) == 0 {
		return domain.LogTotals{}, err
	}
	return rows[0], nil
}
