// Package memory keeps every collection in process memory. It backs the
// "memory" database driver used for local runs and for service and API tests.
package memory

import (
	"sync"
	"time"

	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store holds all documents behind one lock.
type Store struct {
	mu sync.RWMutex

	accounts         map[primitive.ObjectID]domain.Account
	gyms             map[primitive.ObjectID]domain.Gym
	trainees         map[primitive.ObjectID]domain.Trainee
	trainers         map[primitive.ObjectID]domain.Trainer
	programs         map[primitive.ObjectID]domain.Program
	programExercises map[primitive.ObjectID]domain.ProgramExercise
	exercises        map[primitive.ObjectID]domain.Exercise
	sessions         map[primitive.ObjectID]domain.WorkoutSession
	logs             map[primitive.ObjectID]domain.ExerciseLog
	metrics          map[primitive.ObjectID]domain.HealthMetric

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		accounts:         map[primitive.ObjectID]domain.Account{},
		gyms:             map[primitive.ObjectID]domain.Gym{},
		trainees:         map[primitive.ObjectID]domain.Trainee{},
		trainers:         map[primitive.ObjectID]domain.Trainer{},
		programs:         map[primitive.ObjectID]domain.Program{},
		programExercises: map[primitive.ObjectID]domain.ProgramExercise{},
		exercises:        map[primitive.ObjectID]domain.Exercise{},
		sessions:         map[primitive.ObjectID]domain.WorkoutSession{},
		logs:             map[primitive.ObjectID]domain.ExerciseLog{},
		metrics:          map[primitive.ObjectID]domain.HealthMetric{},
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// NewRepositories creates a fresh store and wires every repository to it.
func NewRepositories() *repository.Repositories {
	s := NewStore()
	return &repository.Repositories{
		Accounts:         &accountRepo{s},
		Gyms:             &gymRepo{s},
		Trainees:         &traineeRepo{s},
		Trainers:         &trainerRepo{s},
		Programs:         &programRepo{s},
		ProgramExercises: &programExerciseRepo{s},
		Exercises:        &exerciseRepo{s},
		Sessions:         &sessionRepo{s},
		ExerciseLogs:     &exerciseLogRepo{s},
		HealthMetrics:    &healthMetricRepo{s},
		Analytics:        &analyticsRepo{s},
	}
}

func paginate[T any](items []T, page repository.Page) []T {
	if page.Skip >= int64(len(items)) {
		return []T{}
	}
	items = items[page.Skip:]
	if page.Limit > 0 && page.Limit < int64(len(items)) {
		items = items[:page.Limit]
	}
	return items
}

func sameID(a *primitive.ObjectID, b primitive.ObjectID) bool {
	return a != nil && *a == b
}
