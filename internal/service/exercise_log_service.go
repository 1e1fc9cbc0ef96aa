package service

import (
	"context"
	"strings"

	"fitcoach/api/internal/auth"
	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UpdateExerciseLogInput corrects a log. Only set fields change and the volume is always recomputed.
type UpdateExerciseLogInput struct {
	ExerciseID           *primitive.ObjectID
	CompletedSets        *int
	CompletedReps        *int
	CompletedWeightKg    *float64
	CompletedDurationMin *int
	IsCompleted          *bool
	Notes                *string
}

type ExerciseLogService interface {
	Get(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) (*domain.ExerciseLog, error)
	ListBySession(ctx context.Context, caller *auth.Caller, sessionID primitive.ObjectID) ([]domain.ExerciseLog, error)
	Update(ctx context.Context, caller *auth.Caller, id primitive.ObjectID, in UpdateExerciseLogInput) (*domain.ExerciseLog, error)
	Delete(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) error
}

type exerciseLogService struct {
	logs      repository.ExerciseLogRepository
	sessions  repository.WorkoutSessionRepository
	exercises repository.ExerciseRepository
}

func NewExerciseLogService(logs repository.ExerciseLogRepository, sessions repository.WorkoutSessionRepository, exercises repository.ExerciseRepository) ExerciseLogService {
	return &exerciseLogService{logs: logs, sessions: sessions, exercises: exercises}
}

func (s *exerciseLogService) owned(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) (*domain.ExerciseLog, error) {
	if err := requireRole(caller, domain.Roles...); err != nil {
		return nil, err
	}
	entry, err := s.logs.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrExerciseLogNotFound)
	}
	if err := authorize(caller, auth.OwnedByTrainee(entry.TraineeID), domain.Roles...); err != nil {
		return nil, denyWith(err, "Cannot access other users' exercise logs")
	}
	return entry, nil
}

func (s *exerciseLogService) Get(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) (*domain.ExerciseLog, error) {
	return s.owned(ctx, caller, id)
}

func (s *exerciseLogService) ListBySession(ctx context.Context, caller *auth.Caller, sessionID primitive.ObjectID) ([]domain.ExerciseLog, error) {
	if err := requireRole(caller, domain.Roles...); err != nil {
		return nil, err
	}
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, notFoundAs(err, ErrSessionNotFound)
	}
	if err := authorize(caller, auth.OwnedByTrainee(session.TraineeID), domain.Roles...); err != nil {
		return nil, denyWith(err, "Cannot access other users' exercise logs")
	}
	return s.logs.ListBySession(ctx, sessionID)
}

func (s *exerciseLogService) Update(ctx context.Context, caller *auth.Caller, id primitive.ObjectID, in UpdateExerciseLogInput) (*domain.ExerciseLog, error) {
	entry, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	notes := ""
	if in.Notes != nil {
		notes = *in.Notes
	}
	if err := validateLog(in.CompletedSets, in.CompletedReps, in.CompletedWeightKg, in.CompletedDurationMin, notes); err != nil {
		return nil, err
	}
	if in.ExerciseID != nil && *in.ExerciseID != entry.ExerciseID {
		if _, err := s.exercises.GetByID(ctx, *in.ExerciseID); err != nil {
			return nil, notFoundAs(err, ErrExerciseNotFound)
		}
		entry.ExerciseID = *in.ExerciseID
	}
	if in.CompletedSets != nil {
		entry.CompletedSets = in.CompletedSets
	}
	if in.CompletedReps != nil {
		entry.CompletedReps = in.CompletedReps
	}
	if in.CompletedWeightKg != nil {
		entry.CompletedWeightKg = in.CompletedWeightKg
	}
	if in.CompletedDurationMin != nil {
		entry.CompletedDurationMin = in.CompletedDurationMin
	}
	if in.IsCompleted != nil {
		entry.IsCompleted = *in.IsCompleted
	}
	if in.Notes != nil {
		entry.Notes = strings.TrimSpace(*in.Notes)
	}
	entry.RecomputeVolume()

	if err := s.logs.Update(ctx, entry); err != nil {
		return nil, notFoundAs(err, ErrExerciseLogNotFound)
	}
	return entry, nil
}

func (s *exerciseLogService) Delete(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) error {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}
	return notFoundAs(s.logs.Delete(ctx, id), ErrExerciseLogNotFound)
}
