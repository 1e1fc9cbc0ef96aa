package service

import (
	"fitcoach/api/internal/auth"
	"fitcoach/api/internal/repository"
	"fitcoach/api/internal/storage"
)

// Services bundles every service of the API.
type Services struct {
	Auth         AuthService
	Gyms         GymService
	Trainers     TrainerService
	Trainees     TraineeService
	Programs     ProgramService
	Exercises    ExerciseService
	Sessions     SessionService
	ExerciseLogs ExerciseLogService
	Health       HealthMetricService
	Analytics    AnalyticsService
	Dashboard    DashboardService
}

// Dependencies are the collaborators shared by the services.
// FileStorage may be nil when video uploads are disabled.
type Dependencies struct {
	Repos       *repository.Repositories
	Tokens      *auth.TokenManager
	FileStorage storage.FileStorage
	Observer    TransitionObserver
}

// NewServices wires every service over the same repositories.
func NewServices(deps Dependencies, opts ...Option) Services {
	r := deps.Repos
	return Services{
		Auth:         NewAuthService(r.Accounts, r.Trainees, r.Trainers, r.Gyms, deps.Tokens),
		Gyms:         NewGymService(r.Gyms),
		Trainers:     NewTrainerService(r.Accounts, r.Trainers, r.Gyms),
		Trainees:     NewTraineeService(r.Accounts, r.Trainees, r.Trainers, r.Programs, r.Gyms),
		Programs:     NewProgramService(r.Programs, r.ProgramExercises, r.Exercises, r.Trainers),
		Exercises:    NewExerciseService(r.Exercises, deps.FileStorage),
		Sessions:     NewSessionService(r.Sessions, r.ExerciseLogs, r.Trainees, r.Programs, r.ProgramExercises, r.Exercises, deps.Observer, opts...),
		ExerciseLogs: NewExerciseLogService(r.ExerciseLogs, r.Sessions, r.Exercises),
		Health:       NewHealthMetricService(r.HealthMetrics, r.Trainees, opts...),
		Analytics:    NewAnalyticsService(r.Analytics, r.Sessions, r.Trainees, r.Exercises, opts...),
		Dashboard:    NewDashboardService(r.Trainees, r.Programs, r.Sessions, r.ExerciseLogs, r.Analytics, opts...),
	}
}
