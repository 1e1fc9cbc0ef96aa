package service

import (
	"testing"

	"fitcoach/api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSessionService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	_, trainer := f.createTrainer(t, "coach@example.com")
	_, jane := f.registerTrainee(t, "jane@example.com")
	squat := f.createExercise(t, trainer, "Back Squat")

	planned, err := f.svc.Sessions.Schedule(f.ctx, jane, ScheduleSessionInput{SessionDate: testNow.AddDate(0, 0, 1)})
	require.NoError(t, err)
	assert.Equal(t, domain.SessionPlanned, planned.Status)
	assert.Equal(t, domain.DateOf(testNow.AddDate(0, 0, 1)), planned.SessionDate)

	// planned sessions do not take logs yet
	_, err = f.svc.Sessions.LogExercise(f.ctx, jane, planned.ID, LogExerciseInput{ExerciseID: squat.ID})
	assert.ErrorIs(t, err, ErrInvalidState)

	begun, err := f.svc.Sessions.Begin(f.ctx, jane, planned.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionInProgress, begun.Status)
	require.NotNil(t, begun.StartedAt)

	entry, err := f.svc.Sessions.LogExercise(f.ctx, jane, planned.ID, LogExerciseInput{
		ExerciseID:        squat.ID,
		CompletedSets:     intPtr(3),
		CompletedReps:     intPtr(10),
		CompletedWeightKg: floatPtr(60.5),
		Notes:             "  felt strong ",
	})
	require.NoError(t, err)
	assert.Equal(t, 1815.0, entry.VolumeKg)
	assert.Equal(t, "felt strong", entry.Notes)
	assert.Equal(t, planned.SessionDate, entry.SessionDate)
	assert.True(t, entry.IsCompleted)

	ended, err := f.svc.Sessions.End(f.ctx, jane, planned.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCompleted, ended.Status)
	require.NotNil(t, ended.CompletedAt)

	_, err = f.svc.Sessions.End(f.ctx, jane, planned.ID)
	assert.Equal(t, ErrSessionNotInProgress, err)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = f.svc.Sessions.Begin(f.ctx, jane, planned.ID)
	assert.Equal(t, ErrSessionNotPlanned, err)

	_, err = f.svc.Sessions.LogExercise(f.ctx, jane, planned.ID, LogExerciseInput{ExerciseID: squat.ID})
	assert.Equal(t, ErrSessionNotInProgress, err)

	detail, err := f.svc.Sessions.Get(f.ctx, jane, planned.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Logs, 1)

	assert.Equal(t, []recordedTransition{
		{event: domain.EventBegin, to: domain.SessionInProgress},
		{event: domain.EventEnd, to: domain.SessionCompleted},
	}, f.observer.transitions)
}

func TestSessionService_Start(t *testing.T) {
	f := newFixture(t)
	_, jane := f.registerTrainee(t, "jane@example.com")

	session, err := f.svc.Sessions.Start(f.ctx, jane, StartSessionInput{Notes: "leg day"})
	require.NoError(t, err)
	assert.Equal(t, domain.SessionInProgress, session.Status)
	assert.Equal(t, domain.DateOf(testNow), session.SessionDate)
	assert.Equal(t, *jane.TraineeID, session.TraineeID)
	require.NotNil(t, session.StartedAt)
	assert.Equal(t, testNow, *session.StartedAt)

	_, err = f.svc.Sessions.Start(f.ctx, jane, StartSessionInput{ProgramID: idPtr(primitive.NewObjectID())})
	assert.Equal(t, ErrProgramNotFound, err)
}

func TestSessionService_OtherTraineesSessions(t *testing.T) {
	f := newFixture(t)
	_, trainer := f.createTrainer(t, "coach@example.com")
	_, jane := f.registerTrainee(t, "jane@example.com")
	john, johnCaller := f.registerTrainee(t, "john@example.com")
	press := f.createExercise(t, trainer, "Bench Press")

	session, err := f.svc.Sessions.Start(f.ctx, johnCaller, StartSessionInput{})
	require.NoError(t, err)

	testCases := []struct {
		name string
		call func() error
	}{
		{
			name: "get",
			call: func() error {
				_, err := f.svc.Sessions.Get(f.ctx, jane, session.ID)
				return err
			},
		},
		{
			name: "log exercise",
			call: func() error {
				_, err := f.svc.Sessions.LogExercise(f.ctx, jane, session.ID, LogExerciseInput{ExerciseID: press.ID})
				return err
			},
		},
		{
			name: "end",
			call: func() error {
				_, err := f.svc.Sessions.End(f.ctx, jane, session.ID)
				return err
			},
		},
		{
			name: "auto complete",
			call: func() error {
				_, err := f.svc.Sessions.AutoComplete(f.ctx, jane, session.ID)
				return err
			},
		},
		{
			name: "start for someone else",
			call: func() error {
				_, err := f.svc.Sessions.Start(f.ctx, jane, StartSessionInput{TraineeID: idPtr(john.ID)})
				return err
			},
		},
		{
			name: "list someone else",
			call: func() error {
				_, err := f.svc.Sessions.List(f.ctx, jane, sessionFilterFor(john.ID), pageAll)
				return err
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.call(), ErrForbidden)
		})
	}

	// the session is untouched and still in progress
	detail, err := f.svc.Sessions.Get(f.ctx, johnCaller, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionInProgress, detail.Session.Status)
	assert.Empty(t, detail.Logs)

	// trainers may act on any trainee's session
	_, err = f.svc.Sessions.LogExercise(f.ctx, trainer, session.ID, LogExerciseInput{ExerciseID: press.ID, CompletedReps: intPtr(5)})
	assert.NoError(t, err)
}

func TestSessionService_LogExercise_Validation(t *testing.T) {
	f := newFixture(t)
	_, trainer := f.createTrainer(t, "coach@example.com")
	_, jane := f.registerTrainee(t, "jane@example.com")
	row := f.createExercise(t, trainer, "Row")
	session, err := f.svc.Sessions.Start(f.ctx, jane, StartSessionInput{})
	require.NoError(t, err)

	_, err = f.svc.Sessions.LogExercise(f.ctx, jane, session.ID, LogExerciseInput{
		ExerciseID:        row.ID,
		CompletedSets:     intPtr(-1),
		CompletedWeightKg: floatPtr(-2.5),
	})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "completed_sets must be a positive integer")
	assert.Contains(t, err.Error(), "completed_weight_kg must be a positive number")

	_, err = f.svc.Sessions.LogExercise(f.ctx, jane, session.ID, LogExerciseInput{ExerciseID: primitive.NewObjectID()})
	assert.Equal(t, ErrExerciseNotFound, err)
}

func TestSessionService_AutoComplete(t *testing.T) {
	f := newFixture(t)
	_, trainer := f.createTrainer(t, "coach@example.com")
	jane, janeCaller := f.registerTrainee(t, "jane@example.com")
	squat := f.createExercise(t, trainer, "Back Squat")
	press := f.createExercise(t, trainer, "Overhead Press")
	program := f.createProgram(t, trainer, "Strength A",
		prescription{exercise: squat, sets: 5, reps: 5, weightKg: 100},
		prescription{exercise: press, sets: 3, reps: 8, weightKg: 40},
	)
	_, err := f.svc.Trainees.AssignProgram(f.ctx, trainer, jane.ID, program.ID)
	require.NoError(t, err)

	session, err := f.svc.Sessions.Start(f.ctx, janeCaller, StartSessionInput{ProgramID: idPtr(program.ID)})
	require.NoError(t, err)

	detail, err := f.svc.Sessions.AutoComplete(f.ctx, janeCaller, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCompleted, detail.Session.Status)
	require.Len(t, detail.Logs, 2)

	assert.Equal(t, squat.ID, detail.Logs[0].ExerciseID)
	assert.Equal(t, 5, *detail.Logs[0].CompletedSets)
	assert.Equal(t, 5, *detail.Logs[0].CompletedReps)
	assert.Equal(t, 100.0, *detail.Logs[0].CompletedWeightKg)
	assert.Equal(t, 2500.0, detail.Logs[0].VolumeKg)

	assert.Equal(t, press.ID, detail.Logs[1].ExerciseID)
	assert.Equal(t, 960.0, detail.Logs[1].VolumeKg)
	for _, entry := range detail.Logs {
		assert.True(t, entry.IsCompleted)
		assert.Equal(t, jane.ID, entry.TraineeID)
		assert.Equal(t, session.SessionDate, entry.SessionDate)
	}

	// a completed session cannot be completed again
	_, err = f.svc.Sessions.AutoComplete(f.ctx, janeCaller, session.ID)
	assert.Equal(t, ErrSessionCompleted, err)
	count, err := f.repos.ExerciseLogs.CountBySession(f.ctx, session.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestSessionService_AutoComplete_Preconditions(t *testing.T) {
	f := newFixture(t)
	_, trainer := f.createTrainer(t, "coach@example.com")
	_, jane := f.registerTrainee(t, "jane@example.com")
	empty := f.createProgram(t, trainer, "Empty")

	testCases := []struct {
		name      string
		programID *primitive.ObjectID
		wantErr   error
	}{
		{name: "no program", wantErr: ErrMissingProgram},
		{name: "program without exercises", programID: idPtr(empty.ID), wantErr: ErrEmptyProgram},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			session, err := f.svc.Sessions.Start(f.ctx, jane, StartSessionInput{ProgramID: tc.programID})
			require.NoError(t, err)

			_, err = f.svc.Sessions.AutoComplete(f.ctx, jane, session.ID)
			assert.Equal(t, tc.wantErr, err)

			// the session keeps its state
			detail, err := f.svc.Sessions.Get(f.ctx, jane, session.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.SessionInProgress, detail.Session.Status)
		})
	}
}

func TestSessionService_List(t *testing.T) {
	f := newFixture(t)
	_, trainer := f.createTrainer(t, "coach@example.com")
	jane, janeCaller := f.registerTrainee(t, "jane@example.com")
	_, johnCaller := f.registerTrainee(t, "john@example.com")

	_, err := f.svc.Sessions.Start(f.ctx, janeCaller, StartSessionInput{})
	require.NoError(t, err)
	_, err = f.svc.Sessions.Schedule(f.ctx, janeCaller, ScheduleSessionInput{SessionDate: testNow.AddDate(0, 0, 2)})
	require.NoError(t, err)
	_, err = f.svc.Sessions.Start(f.ctx, johnCaller, StartSessionInput{})
	require.NoError(t, err)

	mine, err := f.svc.Sessions.List(f.ctx, janeCaller, sessionFilterFor(primitive.NilObjectID), pageAll)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	// newest session date first
	assert.Equal(t, domain.SessionPlanned, mine[0].Status)

	all, err := f.svc.Sessions.List(f.ctx, trainer, sessionFilterFor(primitive.NilObjectID), pageAll)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filter := sessionFilterFor(jane.ID)
	filter.Status = domain.SessionInProgress
	inProgress, err := f.svc.Sessions.List(f.ctx, trainer, filter, pageAll)
	require.NoError(t, err)
	assert.Len(t, inProgress, 1)

	filter.Status = "paused"
	_, err = f.svc.Sessions.List(f.ctx, trainer, filter, pageAll)
	assert.ErrorIs(t, err, ErrValidation)
}
