package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProgramService_Ownership(t *testing.T) {
	f := newFixture(t)
	coach, coachCaller := f.createTrainer(t, "coach@example.com")
	_, stranger := f.createTrainer(t, "stranger@example.com")
	_, jane := f.registerTrainee(t, "jane@example.com")

	program, err := f.svc.Programs.Create(f.ctx, coachCaller, ProgramInput{Name: "Hypertrophy", TrainerID: strPtr(primitive.NewObjectID().Hex())})
	require.NoError(t, err)
	// trainers always own what they create
	assert.Equal(t, coach.ID, program.TrainerID)

	_, err = f.svc.Programs.Create(f.ctx, jane, ProgramInput{Name: "Mine"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.Programs.Create(f.ctx, f.admin, ProgramInput{Name: "Orphan"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Programs.Create(f.ctx, f.admin, ProgramInput{Name: "Orphan", TrainerID: strPtr(primitive.NewObjectID().Hex())})
	assert.Equal(t, ErrTrainerNotFound, err)

	byAdmin, err := f.svc.Programs.Create(f.ctx, f.admin, ProgramInput{Name: "Assigned", TrainerID: strPtr(coach.ID.Hex())})
	require.NoError(t, err)
	assert.Equal(t, coach.ID, byAdmin.TrainerID)

	_, err = f.svc.Programs.Update(f.ctx, stranger, program.ID, ProgramInput{Name: "Stolen"})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, f.svc.Programs.Delete(f.ctx, stranger, program.ID), ErrForbidden)

	renamed, err := f.svc.Programs.Update(f.ctx, coachCaller, program.ID, ProgramInput{Name: "Hypertrophy II", Description: "Week 5+"})
	require.NoError(t, err)
	assert.Equal(t, "Hypertrophy II", renamed.Name)

	listed, err := f.svc.Programs.List(f.ctx, &coach.ID, pageAll)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestProgramService_Exercises(t *testing.T) {
	f := newFixture(t)
	_, coach := f.createTrainer(t, "coach@example.com")
	_, stranger := f.createTrainer(t, "stranger@example.com")
	squat := f.createExercise(t, coach, "Back Squat")
	press := f.createExercise(t, coach, "Bench Press")
	program := f.createProgram(t, coach, "Strength", prescription{exercise: squat, sets: 5, reps: 5, weightKg: 100})

	testCases := []struct {
		name    string
		in      ProgramExerciseInput
		wantErr error
	}{
		{name: "order taken", in: ProgramExerciseInput{ProgramID: program.ID, ExerciseID: press.ID, Order: 1}, wantErr: ErrDuplicate},
		{name: "order not positive", in: ProgramExerciseInput{ProgramID: program.ID, ExerciseID: press.ID, Order: 0}, wantErr: ErrValidation},
		{name: "negative sets", in: ProgramExerciseInput{ProgramID: program.ID, ExerciseID: press.ID, Order: 2, PrescribedSets: intPtr(-3)}, wantErr: ErrValidation},
		{name: "unknown exercise", in: ProgramExerciseInput{ProgramID: program.ID, ExerciseID: primitive.NewObjectID(), Order: 2}, wantErr: ErrNotFound},
		{name: "unknown program", in: ProgramExerciseInput{ProgramID: primitive.NewObjectID(), ExerciseID: press.ID, Order: 2}, wantErr: ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Programs.AddExercise(f.ctx, coach, tc.in)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	_, err := f.svc.Programs.AddExercise(f.ctx, stranger, ProgramExerciseInput{ProgramID: program.ID, ExerciseID: press.ID, Order: 2})
	assert.ErrorIs(t, err, ErrForbidden)

	added, err := f.svc.Programs.AddExercise(f.ctx, coach, ProgramExerciseInput{ProgramID: program.ID, ExerciseID: press.ID, Order: 2, PrescribedSets: intPtr(3)})
	require.NoError(t, err)

	// moving onto an occupied order is rejected, keeping its own order is not
	_, err = f.svc.Programs.UpdateExercise(f.ctx, coach, added.ID, ProgramExerciseInput{ExerciseID: press.ID, Order: 1})
	assert.Equal(t, ErrOrderTaken, err)
	updated, err := f.svc.Programs.UpdateExercise(f.ctx, coach, added.ID, ProgramExerciseInput{ExerciseID: press.ID, Order: 2, PrescribedReps: intPtr(12)})
	require.NoError(t, err)
	assert.Equal(t, 12, *updated.PrescribedReps)
	assert.Nil(t, updated.PrescribedSets)

	entries, err := f.svc.Programs.Exercises(f.ctx, program.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, squat.ID, entries[0].ExerciseID)
	assert.Equal(t, press.ID, entries[1].ExerciseID)

	require.NoError(t, f.svc.Programs.RemoveExercise(f.ctx, coach, added.ID))
	_, err = f.svc.Programs.GetExercise(f.ctx, added.ID)
	assert.Equal(t, ErrProgramExerciseNotFound, err)

	// deleting the program drops its prescriptions
	require.NoError(t, f.svc.Programs.Delete(f.ctx, coach, program.ID))
	_, err = f.svc.Programs.Exercises(f.ctx, program.ID)
	assert.Equal(t, ErrProgramNotFound, err)
	left, err := f.repos.ProgramExercises.ListByProgram(f.ctx, program.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
}
