package mongo

import (
	"context"
	"testing"

	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoExerciseRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		exercise := &domain.Exercise{Name: "Back Squat"}
		id, err := repo.Create(context.Background(), exercise)
		require.NoError(mt, err)
		assert.Equal(mt, exercise.ID, id)
		assert.False(mt, exercise.CreatedAt.IsZero())
	})

	mt.Run("duplicate name", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: fitcoach.exercises index: exercise_name_unique",
		}))

		_, err := repo.Create(context.Background(), &domain.Exercise{Name: "Back Squat"})
		assert.Equal(mt, repository.ErrDuplicateKey, err)
	})

	mt.Run("get decodes document", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "fitcoach.exercises", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Bench Press"},
			{Key: "videoKey", Value: "exercises/bench.mp4"},
		}))

		exercise, err := repo.GetByID(context.Background(), id)
		require.NoError(mt, err)
		assert.Equal(mt, id, exercise.ID)
		assert.Equal(mt, "Bench Press", exercise.Name)
		assert.Equal(mt, "exercises/bench.mp4", exercise.VideoKey)
	})

	mt.Run("get missing", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "fitcoach.exercises", mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), primitive.NewObjectID())
		assert.Equal(mt, repository.ErrNotFound, err)
	})

	mt.Run("update unmatched", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.Update(context.Background(), &domain.Exercise{ID: primitive.NewObjectID(), Name: "Row"})
		assert.Equal(mt, repository.ErrNotFound, err)
	})

	mt.Run("delete", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)

		require.NoError(mt, repo.Delete(context.Background(), primitive.NewObjectID()))
		assert.Equal(mt, repository.ErrNotFound, repo.Delete(context.Background(), primitive.NewObjectID()))
	})
}
