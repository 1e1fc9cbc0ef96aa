package service

import (
	"testing"

	"fitcoach/api/internal/auth"
	"fitcoach/api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTraineeService_CreateByTrainer(t *testing.T) {
	f := newFixture(t)
	coach, coachCaller := f.createTrainer(t, "coach@example.com")

	client, err := f.svc.Trainees.Create(f.ctx, coachCaller, CreateTraineeInput{
		Email:     "client@example.com",
		Password:  testPassword,
		FirstName: "Cleo",
		LastName:  "Client",
	})
	require.NoError(t, err)
	require.NotNil(t, client.TrainerID)
	assert.Equal(t, coach.ID, *client.TrainerID)

	// the new client can sign in right away
	caller := f.callerFor(t, "client@example.com")
	require.NotNil(t, caller.TraineeID)
	assert.Equal(t, client.ID, *caller.TraineeID)

	clients, err := f.svc.Trainees.List(f.ctx, coachCaller, repository.TraineeFilter{TrainerID: &coach.ID}, pageAll)
	require.NoError(t, err)
	assert.Len(t, clients, 1)

	_, err = f.svc.Trainees.List(f.ctx, caller, repository.TraineeFilter{}, pageAll)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.Trainees.Create(f.ctx, caller, CreateTraineeInput{Email: "x@example.com", Password: testPassword, FirstName: "X", LastName: "Y"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestTraineeService_Update(t *testing.T) {
	f := newFixture(t)
	_, coach := f.createTrainer(t, "coach@example.com")
	_, stranger := f.createTrainer(t, "stranger@example.com")
	jane, janeCaller := f.registerTrainee(t, "jane@example.com")
	_, john := f.registerTrainee(t, "john@example.com")

	// the coach takes jane on by assigning a program
	program := f.createProgram(t, coach, "Base")
	_, err := f.svc.Trainees.AssignProgram(f.ctx, coach, jane.ID, program.ID)
	require.NoError(t, err)

	testCases := []struct {
		name    string
		caller  *auth.Caller
		in      UpdateTraineeInput
		wantErr error
	}{
		{name: "trainee renames self", caller: janeCaller, in: UpdateTraineeInput{FirstName: strPtr("Janet")}},
		{name: "trainee cannot reassign self", caller: janeCaller, in: UpdateTraineeInput{TrainerID: strPtr("")}, wantErr: ErrForbidden},
		{name: "other trainee", caller: john, in: UpdateTraineeInput{FirstName: strPtr("Hacked")}, wantErr: ErrForbidden},
		{name: "other trainer", caller: stranger, in: UpdateTraineeInput{LastName: strPtr("Moved")}, wantErr: ErrForbidden},
		{name: "coach", caller: coach, in: UpdateTraineeInput{LastName: strPtr("Smith")}},
		{name: "invalid name", caller: coach, in: UpdateTraineeInput{LastName: strPtr("   ")}, wantErr: ErrValidation},
		{name: "unknown program", caller: f.admin, in: UpdateTraineeInput{ProgramID: strPtr(primitive.NewObjectID().Hex())}, wantErr: ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Trainees.Update(f.ctx, tc.caller, jane.ID, tc.in)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	updated, err := f.svc.Trainees.Get(f.ctx, janeCaller, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, "Janet", updated.FirstName)
	assert.Equal(t, "Smith", updated.LastName)
}

func TestTraineeService_ForeignIDsAreForbidden(t *testing.T) {
	f := newFixture(t)
	_, coach := f.createTrainer(t, "coach@example.com")
	jane, janeCaller := f.registerTrainee(t, "jane@example.com")
	john, _ := f.registerTrainee(t, "john@example.com")
	program := f.createProgram(t, coach, "Base")
	unknown := primitive.NewObjectID()

	testCases := []struct {
		name    string
		call    func() error
		wantErr error
	}{
		{
			name: "get existing foreign trainee",
			call: func() error {
				_, err := f.svc.Trainees.Get(f.ctx, janeCaller, john.ID)
				return err
			},
			wantErr: ErrForbidden,
		},
		{
			name: "get unknown trainee",
			call: func() error {
				_, err := f.svc.Trainees.Get(f.ctx, janeCaller, unknown)
				return err
			},
			wantErr: ErrForbidden,
		},
		{
			name: "update unknown trainee",
			call: func() error {
				_, err := f.svc.Trainees.Update(f.ctx, janeCaller, unknown, UpdateTraineeInput{FirstName: strPtr("X")})
				return err
			},
			wantErr: ErrForbidden,
		},
		{
			name: "assign to unknown trainee as trainee",
			call: func() error {
				_, err := f.svc.Trainees.AssignProgram(f.ctx, janeCaller, unknown, program.ID)
				return err
			},
			wantErr: ErrForbidden,
		},
		{
			name: "admin sees not found",
			call: func() error {
				_, err := f.svc.Trainees.Get(f.ctx, f.admin, unknown)
				return err
			},
			wantErr: ErrNotFound,
		},
		{
			name: "trainer sees not found",
			call: func() error {
				_, err := f.svc.Trainees.Get(f.ctx, coach, unknown)
				return err
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.call(), tc.wantErr)
		})
	}

	self, err := f.svc.Trainees.Get(f.ctx, janeCaller, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, jane.ID, self.ID)
}

func TestTraineeService_AssignProgram(t *testing.T) {
	f := newFixture(t)
	coach, coachCaller := f.createTrainer(t, "coach@example.com")
	_, stranger := f.createTrainer(t, "stranger@example.com")
	jane, _ := f.registerTrainee(t, "jane@example.com")
	mine := f.createProgram(t, coachCaller, "Mine")
	theirs := f.createProgram(t, stranger, "Theirs")

	// a trainer hands out only their own programs
	_, err := f.svc.Trainees.AssignProgram(f.ctx, coachCaller, jane.ID, theirs.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	assigned, err := f.svc.Trainees.AssignProgram(f.ctx, coachCaller, jane.ID, mine.ID)
	require.NoError(t, err)
	require.NotNil(t, assigned.ProgramID)
	assert.Equal(t, mine.ID, *assigned.ProgramID)
	require.NotNil(t, assigned.TrainerID)
	assert.Equal(t, coach.ID, *assigned.TrainerID)

	// once coached, other trainers are locked out
	_, err = f.svc.Trainees.AssignProgram(f.ctx, stranger, jane.ID, theirs.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.Trainees.AssignProgram(f.ctx, coachCaller, jane.ID, primitive.NewObjectID())
	assert.Equal(t, ErrProgramNotFound, err)
}

func TestTraineeService_Delete(t *testing.T) {
	f := newFixture(t)
	_, coach := f.createTrainer(t, "coach@example.com")
	jane, _ := f.registerTrainee(t, "jane@example.com")

	assert.ErrorIs(t, f.svc.Trainees.Delete(f.ctx, coach, jane.ID), ErrForbidden)
	require.NoError(t, f.svc.Trainees.Delete(f.ctx, f.admin, jane.ID))

	_, err := f.svc.Trainees.Get(f.ctx, f.admin, jane.ID)
	assert.Equal(t, ErrTraineeNotFound, err)
	_, err = f.svc.Auth.Login(f.ctx, "jane@example.com", testPassword)
	assert.Equal(t, ErrIncorrectCredentials, err)
}

func TestTrainerService(t *testing.T) {
	f := newFixture(t)
	gym, err := f.svc.Gyms.Create(f.ctx, f.admin, GymInput{Name: "Iron Temple", Address: "1 Main St"})
	require.NoError(t, err)

	trainer, coach := f.createTrainer(t, "coach@example.com")

	_, err = f.svc.Trainers.Create(f.ctx, coach, CreateTrainerInput{Email: "x@example.com", Password: testPassword, FirstName: "X", LastName: "Y"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.Trainers.Create(f.ctx, f.admin, CreateTrainerInput{Email: "COACH@example.com", Password: testPassword, FirstName: "Dup", LastName: "Coach"})
	assert.Equal(t, ErrEmailTaken, err)

	gymID := gym.ID.Hex()
	updated, err := f.svc.Trainers.Update(f.ctx, coach, trainer.ID, UpdateTrainerInput{GymID: &gymID})
	require.NoError(t, err)
	require.NotNil(t, updated.GymID)
	assert.Equal(t, gym.ID, *updated.GymID)

	cleared, err := f.svc.Trainers.Update(f.ctx, f.admin, trainer.ID, UpdateTrainerInput{GymID: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, cleared.GymID)

	require.NoError(t, f.svc.Trainers.Delete(f.ctx, f.admin, trainer.ID))
	_, err = f.svc.Trainers.Get(f.ctx, trainer.ID)
	assert.Equal(t, ErrTrainerNotFound, err)
}

func TestGymService(t *testing.T) {
	f := newFixture(t)
	_, coach := f.createTrainer(t, "coach@example.com")

	_, err := f.svc.Gyms.Create(f.ctx, coach, GymInput{Name: "Iron Temple"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.Gyms.Create(f.ctx, f.admin, GymInput{Name: ""})
	assert.ErrorIs(t, err, ErrValidation)

	gym, err := f.svc.Gyms.Create(f.ctx, f.admin, GymInput{Name: "Iron Temple"})
	require.NoError(t, err)

	renamed, err := f.svc.Gyms.Update(f.ctx, f.admin, gym.ID, GymInput{Name: "Steel Temple", Address: "2 Main St"})
	require.NoError(t, err)
	assert.Equal(t, "Steel Temple", renamed.Name)

	gyms, err := f.svc.Gyms.List(f.ctx, pageAll)
	require.NoError(t, err)
	assert.Len(t, gyms, 1)

	require.NoError(t, f.svc.Gyms.Delete(f.ctx, f.admin, gym.ID))
	_, err = f.svc.Gyms.Get(f.ctx, gym.ID)
	assert.Equal(t, ErrGymNotFound, err)
}
