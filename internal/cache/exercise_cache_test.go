package cache

import (
	"context"
	"testing"

	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/repository"
	"fitcoach/api/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type countingRepo struct {
	repository.ExerciseRepository
	gets int
}

func (r *countingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	r.gets++
	return r.ExerciseRepository.GetByID(ctx, id)
}

func TestExerciseCache(t *testing.T) {
	ctx := context.Background()
	backing := &countingRepo{ExerciseRepository: memory.NewRepositories().Exercises}
	c := NewExerciseCache(backing, 1, 60)

	id, err := c.Create(ctx, &domain.Exercise{Name: "Back Squat", VideoKey: "exercises/squat.mp4"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		exercise, err := c.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Back Squat", exercise.Name)
		assert.Equal(t, "exercises/squat.mp4", exercise.VideoKey)
	}
	assert.Equal(t, 1, backing.gets)
	hits, misses := c.Stats()
	assert.EqualValues(t, 2, hits)
	assert.EqualValues(t, 1, misses)

	// writes invalidate the entry
	exercise, err := c.GetByID(ctx, id)
	require.NoError(t, err)
	exercise.Name = "High Bar Squat"
	require.NoError(t, c.Update(ctx, exercise))
	updated, err := c.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "High Bar Squat", updated.Name)
	assert.Equal(t, 2, backing.gets)

	require.NoError(t, c.Delete(ctx, id))
	_, err = c.GetByID(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// racingRepo runs duringWrite after the cache evicted but before the write lands.
type racingRepo struct {
	repository.ExerciseRepository
	duringWrite func()
}

func (r *racingRepo) Update(ctx context.Context, exercise *domain.Exercise) error {
	if r.duringWrite != nil {
		r.duringWrite()
	}
	return r.ExerciseRepository.Update(ctx, exercise)
}

func (r *racingRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if r.duringWrite != nil {
		r.duringWrite()
	}
	return r.ExerciseRepository.Delete(ctx, id)
}

func TestExerciseCache_ReadDuringWrite(t *testing.T) {
	ctx := context.Background()
	backing := &racingRepo{ExerciseRepository: memory.NewRepositories().Exercises}
	c := NewExerciseCache(backing, 1, 60)

	id, err := c.Create(ctx, &domain.Exercise{Name: "Old Name"})
	require.NoError(t, err)
	backing.duringWrite = func() {
		stale, err := c.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Old Name", stale.Name)
	}

	require.NoError(t, c.Update(ctx, &domain.Exercise{ID: id, Name: "New Name"}))
	exercise, err := c.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "New Name", exercise.Name)

	require.NoError(t, c.Delete(ctx, id))
	_, err = c.GetByID(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestExerciseCache_MissesAreNotCached(t *testing.T) {
	ctx := context.Background()
	backing := &countingRepo{ExerciseRepository: memory.NewRepositories().Exercises}
	c := NewExerciseCache(backing, 0, 0)

	missing := primitive.NewObjectID()
	for i := 0; i < 2; i++ {
		_, err := c.GetByID(ctx, missing)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	}
	assert.Equal(t, 2, backing.gets)
}
