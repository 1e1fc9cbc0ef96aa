package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"fitcoach/api/internal/auth"
	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/repository"
	"fitcoach/api/internal/repository/memory"
	"fitcoach/api/internal/storage/mocks"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

const testPassword = "Passw0rd1"

var testNow = time.Date(2025, time.June, 15, 10, 30, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordedTransition struct {
	event domain.SessionEvent
	to    domain.SessionStatus
}

type recordingObserver struct {
	mu          sync.Mutex
	transitions []recordedTransition
}

func (o *recordingObserver) ObserveTransition(event domain.SessionEvent, to domain.SessionStatus) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transitions = append(o.transitions, recordedTransition{event: event, to: to})
}

type fixture struct {
	ctx      context.Context
	repos    *repository.Repositories
	svc      Services
	storage  *mocks.MockFileStorage
	observer *recordingObserver
	admin    *auth.Caller
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tokens, err := auth.NewTokenManager("service-test-secret-0123456789abcdef", "fitcoach-test", 15*time.Minute, 7)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	f := &fixture{
		ctx:      context.Background(),
		repos:    memory.NewRepositories(),
		storage:  mocks.NewMockFileStorage(ctrl),
		observer: &recordingObserver{},
		admin:    &auth.Caller{AccountID: primitive.NewObjectID(), Email: "admin@example.com", Role: domain.RoleAdmin},
		now:      testNow,
	}
	f.svc = NewServices(Dependencies{
		Repos:       f.repos,
		Tokens:      tokens,
		FileStorage: f.storage,
		Observer:    f.observer,
	}, WithClock(func() time.Time { return f.now }))
	return f
}

// callerFor logs in and resolves the caller the way the HTTP layer does.
func (f *fixture) callerFor(t *testing.T, email string) *auth.Caller {
	t.Helper()
	pair, err := f.svc.Auth.Login(f.ctx, email, testPassword)
	require.NoError(t, err)
	caller, err := f.svc.Auth.CurrentCaller(f.ctx, pair.AccessToken)
	require.NoError(t, err)
	return caller
}

func (f *fixture) registerTrainee(t *testing.T, email string) (*domain.Trainee, *auth.Caller) {
	t.Helper()
	trainee, err := f.svc.Auth.Register(f.ctx, RegisterInput{
		Email:     email,
		Password:  testPassword,
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	return trainee, f.callerFor(t, email)
}

func (f *fixture) createTrainer(t *testing.T, email string) (*domain.Trainer, *auth.Caller) {
	t.Helper()
	trainer, err := f.svc.Trainers.Create(f.ctx, f.admin, CreateTrainerInput{
		Email:     email,
		Password:  testPassword,
		FirstName: "Tom",
		LastName:  "Coach",
	})
	require.NoError(t, err)
	return trainer, f.callerFor(t, email)
}

func (f *fixture) createExercise(t *testing.T, caller *auth.Caller, name string) *domain.Exercise {
	t.Helper()
	exercise, err := f.svc.Exercises.Create(f.ctx, caller, ExerciseInput{Name: name})
	require.NoError(t, err)
	return exercise
}

type prescription struct {
	exercise *domain.Exercise
	sets     int
	reps     int
	weightKg float64
}

// createProgram builds a program with one entry per prescription, in the given order.
func (f *fixture) createProgram(t *testing.T, trainer *auth.Caller, name string, entries ...prescription) *domain.Program {
	t.Helper()
	program, err := f.svc.Programs.Create(f.ctx, trainer, ProgramInput{Name: name})
	require.NoError(t, err)
	for i, entry := range entries {
		_, err := f.svc.Programs.AddExercise(f.ctx, trainer, ProgramExerciseInput{
			ProgramID:          program.ID,
			ExerciseID:         entry.exercise.ID,
			Order:              i + 1,
			PrescribedSets:     intPtr(entry.sets),
			PrescribedReps:     intPtr(entry.reps),
			PrescribedWeightKg: floatPtr(entry.weightKg),
		})
		require.NoError(t, err)
	}
	return program
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

func idPtr(id primitive.ObjectID) *primitive.ObjectID { return &id }

var pageAll = repository.Page{}

// sessionFilterFor narrows to one trainee unless id is the zero ObjectID.
func sessionFilterFor(id primitive.ObjectID) repository.SessionFilter {
	if id.IsZero() {
		return repository.SessionFilter{}
	}
	return repository.SessionFilter{TraineeID: &id}
}
