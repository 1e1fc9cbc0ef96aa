package mongo

import (
	"context"
	"testing"
	"time"

	"fitcoach/api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const logsNamespace = "fitcoach.exercise_logs"

// sentPipeline returns the stages of the aggregate command the repository issued.
func sentPipeline(mt *mtest.T) []bson.D {
	mt.Helper()
	evt := mt.GetStartedEvent()
	require.NotNil(mt, evt)
	require.Equal(mt, "aggregate", evt.CommandName)
	var cmd struct {
		Pipeline []bson.D `bson:"pipeline"`
	}
	require.NoError(mt, bson.Unmarshal(evt.Command, &cmd))
	return cmd.Pipeline
}

func stageKeys(mt *mtest.T, stages []bson.D) []string {
	mt.Helper()
	keys := make([]string, 0, len(stages))
	for _, stage := range stages {
		require.Len(mt, stage, 1)
		keys = append(keys, stage[0].Key)
	}
	return keys
}

func fieldNames(doc bson.D) []string {
	names := make([]string, 0, len(doc))
	for _, e := range doc {
		names = append(names, e.Key)
	}
	return names
}

func TestMongoAnalyticsRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	trainee := primitive.NewObjectID()
	day1 := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)

	mt.Run("daily log counts", func(mt *mtest.T) {
		repo := NewMongoAnalyticsRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, logsNamespace, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: day1}, {Key: "count", Value: 3}},
			bson.D{{Key: "_id", Value: day2}, {Key: "count", Value: 1}},
		))

		rows, err := repo.DailyLogCounts(ctx, trainee, time.Date(2025, 6, 1, 17, 45, 0, 0, time.UTC))
		require.NoError(mt, err)
		assert.Equal(mt, []domain.DailyCount{{Date: day1, Count: 3}, {Date: day2, Count: 1}}, rows)

		stages := sentPipeline(mt)
		assert.Equal(mt, []string{"$match", "$group", "$sort"}, stageKeys(mt, stages))
		match := stages[0][0].Value.(bson.D)
		assert.ElementsMatch(mt, []string{"traineeId", "sessionDate"}, fieldNames(match))
		for _, e := range match {
			if e.Key == "sessionDate" {
				since := e.Value.(bson.D)
				require.Len(mt, since, 1)
				assert.Equal(mt, "$gte", since[0].Key)
				// the window starts at midnight of the since day
				assert.Equal(mt, primitive.NewDateTimeFromTime(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)), since[0].Value)
			}
		}
	})

	mt.Run("daily log counts empty", func(mt *mtest.T) {
		repo := NewMongoAnalyticsRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, logsNamespace, mtest.FirstBatch))

		rows, err := repo.DailyLogCounts(ctx, trainee, day1)
		require.NoError(mt, err)
		assert.NotNil(mt, rows)
		assert.Empty(mt, rows)
	})

	mt.Run("exercise totals", func(mt *mtest.T) {
		repo := NewMongoAnalyticsRepository(mt.DB)
		squat, plank := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, logsNamespace, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: squat}, {Key: "count", Value: 4}, {Key: "totalVolume", Value: 4200.0}, {Key: "avgWeight", Value: 105.0}},
			bson.D{{Key: "_id", Value: plank}, {Key: "count", Value: 2}, {Key: "totalVolume", Value: 0.0}, {Key: "avgWeight", Value: 0}},
		))

		rows, err := repo.ExerciseTotals(ctx, trainee, day1, 5)
		require.NoError(mt, err)
		assert.Equal(mt, []domain.ExerciseTotal{
			{ExerciseID: squat, Count: 4, TotalVolume: 4200, AvgWeight: 105},
			{ExerciseID: plank, Count: 2},
		}, rows)

		stages := sentPipeline(mt)
		assert.Equal(mt, []string{"$match", "$group", "$set", "$sort", "$limit"}, stageKeys(mt, stages))
		assert.Equal(mt, []string{"count", "_id"}, fieldNames(stages[3][0].Value.(bson.D)))
		assert.EqualValues(mt, 5, stages[4][0].Value)
	})

	mt.Run("daily volume", func(mt *mtest.T) {
		repo := NewMongoAnalyticsRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, logsNamespace, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: day1}, {Key: "volumeKg", Value: 2760.0}},
			bson.D{{Key: "_id", Value: day2}, {Key: "volumeKg", Value: 540.5}},
		))

		rows, err := repo.DailyVolume(ctx, trainee, day1)
		require.NoError(mt, err)
		assert.Equal(mt, []domain.DailyVolume{{Date: day1, VolumeKg: 2760}, {Date: day2, VolumeKg: 540.5}}, rows)
		assert.Equal(mt, []string{"$match", "$group", "$sort"}, stageKeys(mt, sentPipeline(mt)))
	})

	mt.Run("personal records", func(mt *mtest.T) {
		repo := NewMongoAnalyticsRepository(mt.DB)
		deadlift, squat := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, logsNamespace, mtest.FirstBatch,
			bson.D{{Key: "exerciseId", Value: deadlift}, {Key: "maxWeightKg", Value: 140.0}, {Key: "sessionDate", Value: day1}, {Key: "sets", Value: 1}, {Key: "reps", Value: 1}},
			bson.D{{Key: "exerciseId", Value: squat}, {Key: "maxWeightKg", Value: 100.0}, {Key: "sessionDate", Value: day2}, {Key: "sets", Value: 0}, {Key: "reps", Value: 0}},
		))

		rows, err := repo.PersonalRecords(ctx, trainee)
		require.NoError(mt, err)
		assert.Equal(mt, []domain.PersonalRecord{
			{ExerciseID: deadlift, MaxWeightKg: 140, AchievedOn: day1, Sets: 1, Reps: 1},
			{ExerciseID: squat, MaxWeightKg: 100, AchievedOn: day2},
		}, rows)

		stages := sentPipeline(mt)
		assert.Equal(mt, []string{"$match", "$sort", "$group", "$project", "$sort"}, stageKeys(mt, stages))
		// the candidate order is total, so $first picks the same log every time
		assert.Equal(mt,
			[]string{"completedWeightKg", "sessionDate", "loggedAt", "_id"},
			fieldNames(stages[1][0].Value.(bson.D)))
		for _, e := range stages[1][0].Value.(bson.D) {
			assert.EqualValues(mt, -1, e.Value, e.Key)
		}
		assert.Equal(mt, []string{"maxWeightKg", "exerciseId"}, fieldNames(stages[4][0].Value.(bson.D)))
	})

	mt.Run("totals", func(mt *mtest.T) {
		repo := NewMongoAnalyticsRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, logsNamespace, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: nil}, {Key: "count", Value: 7}, {Key: "volumeKg", Value: 3300.0}},
		))

		totals, err := repo.Totals(ctx, trainee)
		require.NoError(mt, err)
		assert.Equal(mt, domain.LogTotals{Count: 7, VolumeKg: 3300}, totals)
		assert.Equal(mt, []string{"$match", "$group"}, stageKeys(mt, sentPipeline(mt)))
	})

	mt.Run("totals without logs", func(mt *mtest.T) {
		repo := NewMongoAnalyticsRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, logsNamespace, mtest.FirstBatch))

		totals, err := repo.Totals(ctx, trainee)
		require.NoError(mt, err)
		assert.Equal(mt, domain.LogTotals{}, totals)
	})

	mt.Run("aggregate error", func(mt *mtest.T) {
		repo := NewMongoAnalyticsRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "unknown operator",
		}))

		_, err := repo.PersonalRecords(ctx, trainee)
		assert.Error(mt, err)
	})
}

func TestMongoWorkoutSessionRepository_Rollups(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	trainee := primitive.NewObjectID()
	day1 := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)

	mt.Run("session dates newest first", func(mt *mtest.T) {
		repo := NewMongoWorkoutSessionRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "fitcoach.workout_sessions", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: day1}},
			bson.D{{Key: "_id", Value: day2}},
		))

		dates, err := repo.SessionDates(ctx, trainee)
		require.NoError(mt, err)
		assert.Equal(mt, []time.Time{day1, day2}, dates)
		assert.Equal(mt, []string{"$match", "$group", "$sort"}, stageKeys(mt, sentPipeline(mt)))
	})

	mt.Run("daily counts", func(mt *mtest.T) {
		repo := NewMongoWorkoutSessionRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "fitcoach.workout_sessions", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: day2}, {Key: "count", Value: 2}},
		))

		rows, err := repo.DailyCounts(ctx, trainee, day2)
		require.NoError(mt, err)
		assert.Equal(mt, []domain.DailyCount{{Date: day2, Count: 2}}, rows)
	})
}
