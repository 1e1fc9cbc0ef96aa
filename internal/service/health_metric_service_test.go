package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthMetricService(t *testing.T) {
	f := newFixture(t)
	_, coach := f.createTrainer(t, "coach@example.com")
	jane, janeCaller := f.registerTrainee(t, "jane@example.com")
	_, john := f.registerTrainee(t, "john@example.com")

	first, err := f.svc.Health.Record(f.ctx, janeCaller, HealthMetricInput{WeightKg: floatPtr(64.5), HeightCm: floatPtr(170)})
	require.NoError(t, err)
	assert.Equal(t, jane.ID, first.TraineeID)
	assert.Equal(t, testNow, first.RecordedAt)

	f.now = testNow.Add(24 * time.Hour)
	second, err := f.svc.Health.Record(f.ctx, coach, HealthMetricInput{TraineeID: idPtr(jane.ID), BodyFatPercentage: floatPtr(21)})
	require.NoError(t, err)

	mine, err := f.svc.Health.ListMine(f.ctx, janeCaller, pageAll)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	// newest first
	assert.Equal(t, second.ID, mine[0].ID)

	testCases := []struct {
		name    string
		in      HealthMetricInput
		wantErr error
	}{
		{name: "nothing measured", in: HealthMetricInput{}, wantErr: ErrValidation},
		{name: "body fat above 100", in: HealthMetricInput{BodyFatPercentage: floatPtr(101)}, wantErr: ErrValidation},
		{name: "negative weight", in: HealthMetricInput{WeightKg: floatPtr(-1)}, wantErr: ErrValidation},
		{name: "for someone else", in: HealthMetricInput{TraineeID: idPtr(jane.ID), WeightKg: floatPtr(80)}, wantErr: ErrForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Health.Record(f.ctx, john, tc.in)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	_, err = f.svc.Health.Get(f.ctx, john, first.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.Health.ListForTrainee(f.ctx, john, jane.ID, pageAll)
	assert.ErrorIs(t, err, ErrForbidden)

	// a correction keeps the fields it does not mention
	corrected, err := f.svc.Health.Update(f.ctx, janeCaller, first.ID, HealthMetricInput{WeightKg: floatPtr(63.9)})
	require.NoError(t, err)
	assert.Equal(t, 63.9, *corrected.WeightKg)
	assert.Equal(t, 170.0, *corrected.HeightCm)

	require.NoError(t, f.svc.Health.Delete(f.ctx, coach, first.ID))
	_, err = f.svc.Health.Get(f.ctx, janeCaller, first.ID)
	assert.Equal(t, ErrHealthMetricNotFound, err)

	_, err = f.svc.Health.ListMine(f.ctx, coach, pageAll)
	assert.Equal(t, ErrTraineeProfileMissing, err)
}

func TestExerciseLogService(t *testing.T) {
	f := newFixture(t)
	_, coach := f.createTrainer(t, "coach@example.com")
	_, jane := f.registerTrainee(t, "jane@example.com")
	_, john := f.registerTrainee(t, "john@example.com")
	squat := f.createExercise(t, coach, "Back Squat")
	session := completedSession(t, f, jane, 0, lift(squat, 3, 10, 60))

	logs, err := f.svc.ExerciseLogs.ListBySession(f.ctx, jane, session.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	entry := logs[0]

	_, err = f.svc.ExerciseLogs.ListBySession(f.ctx, john, session.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.ExerciseLogs.Update(f.ctx, john, entry.ID, UpdateExerciseLogInput{CompletedReps: intPtr(1)})
	assert.ErrorIs(t, err, ErrForbidden)

	// editing recomputes the volume
	updated, err := f.svc.ExerciseLogs.Update(f.ctx, jane, entry.ID, UpdateExerciseLogInput{CompletedReps: intPtr(8), Notes: strPtr(" tired ")})
	require.NoError(t, err)
	assert.Equal(t, 1440.0, updated.VolumeKg)
	assert.Equal(t, "tired", updated.Notes)

	_, err = f.svc.ExerciseLogs.Update(f.ctx, jane, entry.ID, UpdateExerciseLogInput{CompletedWeightKg: floatPtr(-5)})
	assert.ErrorIs(t, err, ErrValidation)

	stored, err := f.svc.ExerciseLogs.Get(f.ctx, coach, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 1440.0, stored.VolumeKg)

	require.NoError(t, f.svc.ExerciseLogs.Delete(f.ctx, jane, entry.ID))
	_, err = f.svc.ExerciseLogs.Get(f.ctx, jane, entry.ID)
	assert.Equal(t, ErrExerciseLogNotFound, err)
}
