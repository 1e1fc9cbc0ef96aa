package repository

import (
	"context"
	"time"

	"fitcoach/api/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
	// ErrUpdateFailed means a conditional update matched nothing.
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Page bounds a list query.
type Page struct {
	Skip  int64
	Limit int64
}

// DefaultPage is used when callers pass no paging.
var DefaultPage = Page{Skip: 0, Limit: 100}

// Repositories bundles one repository per collection of the same backend.
type Repositories struct {
	Accounts         AccountRepository
	Gyms             GymRepository
	Trainees         TraineeRepository
	Trainers         TrainerRepository
	Programs         ProgramRepository
	ProgramExercises ProgramExerciseRepository
	Exercises        ExerciseRepository
	Sessions         WorkoutSessionRepository
	ExerciseLogs     ExerciseLogRepository
	HealthMetrics    HealthMetricRepository
	Analytics        AnalyticsRepository
}

type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	UpdateRole(ctx context.Context, id primitive.ObjectID, role domain.Role) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type GymRepository interface {
	Create(ctx context.Context, gym *domain.Gym) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Gym, error)
	List(ctx context.Context, page Page) ([]domain.Gym, error)
	Update(ctx context.Context, gym *domain.Gym) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// TraineeFilter narrows trainee listings. Nil fields are ignored.
type TraineeFilter struct {
	TrainerID *primitive.ObjectID
	GymID     *primitive.ObjectID
}

type TraineeRepository interface {
	Create(ctx context.Context, trainee *domain.Trainee) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Trainee, error)
	GetByAccountID(ctx context.Context, accountID primitive.ObjectID) (*domain.Trainee, error)
	List(ctx context.Context, filter TraineeFilter, page Page) ([]domain.Trainee, error)
	Count(ctx context.Context, filter TraineeFilter) (int64, error)
	Update(ctx context.Context, trainee *domain.Trainee) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type TrainerRepository interface {
	Create(ctx context.Context, trainer *domain.Trainer) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error)
	GetByAccountID(ctx context.Context, accountID primitive.ObjectID) (*domain.Trainer, error)
	List(ctx context.Context, page Page) ([]domain.Trainer, error)
	Update(ctx context.Context, trainer *domain.Trainer) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ProgramRepository interface {
	Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error)
	// List returns every program when trainerID is nil.
	List(ctx context.Context, trainerID *primitive.ObjectID, page Page) ([]domain.Program, error)
	Count(ctx context.Context, trainerID *primitive.ObjectID) (int64, error)
	Update(ctx context.Context, program *domain.Program) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ProgramExerciseRepository interface {
	Create(ctx context.Context, pe *domain.ProgramExercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramExercise, error)
	GetByProgramAndOrder(ctx context.Context, programID primitive.ObjectID, order int) (*domain.ProgramExercise, error)
	// ListByProgram is sorted by order ascending.
	ListByProgram(ctx context.Context, programID primitive.ObjectID) ([]domain.ProgramExercise, error)
	Update(ctx context.Context, pe *domain.ProgramExercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByProgram(ctx context.Context, programID primitive.ObjectID) error
}

type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByName(ctx context.Context, name string) (*domain.Exercise, error)
	List(ctx context.Context, page Page) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// SessionFilter narrows session queries. Zero values are ignored.
type SessionFilter struct {
	TraineeID *primitive.ObjectID
	Status    domain.SessionStatus
	Since     *time.Time // inclusive, on sessionDate
}

type WorkoutSessionRepository interface {
	Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error)
	// List is sorted by sessionDate then createdAt, newest first.
	List(ctx context.Context, filter SessionFilter, page Page) ([]domain.WorkoutSession, error)
	Count(ctx context.Context, filter SessionFilter) (int64, error)
	// TransitionStatus moves the session to `to` only if its current status is one of `from`.
	// It returns ErrUpdateFailed when the status did not match.
	TransitionStatus(ctx context.Context, id primitive.ObjectID, from []domain.SessionStatus, to domain.SessionStatus, at time.Time) error
	// SessionDates returns the distinct session dates of a trainee, newest first.
	SessionDates(ctx context.Context, traineeID primitive.ObjectID) ([]time.Time, error)
	// DailyCounts counts sessions per day since the given date, oldest first.
	DailyCounts(ctx context.Context, traineeID primitive.ObjectID, since time.Time) ([]domain.DailyCount, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ExerciseLogRepository interface {
	Create(ctx context.Context, log *domain.ExerciseLog) (primitive.ObjectID, error)
	CreateMany(ctx context.Context, logs []*domain.ExerciseLog) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseLog, error)
	ListBySession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.ExerciseLog, error)
	CountBySession(ctx context.Context, sessionID primitive.ObjectID) (int64, error)
	Update(ctx context.Context, log *domain.ExerciseLog) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteBySession(ctx context.Context, sessionID primitive.ObjectID) error
}

type HealthMetricRepository interface {
	Create(ctx context.Context, metric *domain.HealthMetric) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.HealthMetric, error)
	// ListByTrainee is sorted by recordedAt, newest first.
	ListByTrainee(ctx context.Context, traineeID primitive.ObjectID, page Page) ([]domain.HealthMetric, error)
	Update(ctx context.Context, metric *domain.HealthMetric) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// AnalyticsRepository runs read-only rollups over a trainee's exercise logs.
type AnalyticsRepository interface {
	// DailyLogCounts counts logs per session date since the given date, oldest first.
	DailyLogCounts(ctx context.Context, traineeID primitive.ObjectID, since time.Time) ([]domain.DailyCount, error)
	// ExerciseTotals ranks exercises by number of logs, most logged first.
	ExerciseTotals(ctx context.Context, traineeID primitive.ObjectID, since time.Time, limit int) ([]domain.ExerciseTotal, error)
	// DailyVolume sums volume per session date since the given date, oldest first.
	DailyVolume(ctx context.Context, traineeID primitive.ObjectID, since time.Time) ([]domain.DailyVolume, error)
	// PersonalRecords returns one record per exercise: the heaviest log, and on ties the most recent.
	PersonalRecords(ctx context.Context, traineeID primitive.ObjectID) ([]domain.PersonalRecord, error)
	Totals(ctx context.Context, traineeID primitive.ObjectID) (domain.LogTotals, error)
}
