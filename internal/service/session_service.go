package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"fitcoach/api/internal/auth"
	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransitionObserver is told about every committed session status change.
type TransitionObserver interface {
	ObserveTransition(event domain.SessionEvent, to domain.SessionStatus)
}

type StartSessionInput struct {
	// TraineeID defaults to the caller's own trainee profile.
	TraineeID *primitive.ObjectID
	ProgramID *primitive.ObjectID
	Notes     string
}

type ScheduleSessionInput struct {
	TraineeID   *primitive.ObjectID
	ProgramID   *primitive.ObjectID
	SessionDate time.Time
	Notes       string
}

type LogExerciseInput struct {
	ExerciseID           primitive.ObjectID
	CompletedSets        *int
	CompletedReps        *int
	CompletedWeightKg    *float64
	CompletedDurationMin *int
	Notes                string
}

// SessionDetail is a session with its exercise logs in logging order.
type SessionDetail struct {
	Session *domain.WorkoutSession
	Logs    []domain.ExerciseLog
}

type SessionService interface {
	Start(ctx context.Context, caller *auth.Caller, in StartSessionInput) (*domain.WorkoutSession, error)
	Schedule(ctx context.Context, caller *auth.Caller, in ScheduleSessionInput) (*domain.WorkoutSession, error)
	Begin(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) (*domain.WorkoutSession, error)
	LogExercise(ctx context.Context, caller *auth.Caller, id primitive.ObjectID, in LogExerciseInput) (*domain.ExerciseLog, error)
	End(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) (*domain.WorkoutSession, error)
	// AutoComplete logs every prescribed exercise of the linked program and completes the session.
	AutoComplete(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) (*SessionDetail, error)
	Get(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) (*SessionDetail, error)
	List(ctx context.Context, caller *auth.Caller, filter repository.SessionFilter, page repository.Page) ([]domain.WorkoutSession, error)
}

type sessionService struct {
	sessions         repository.WorkoutSessionRepository
	logs             repository.ExerciseLogRepository
	trainees         repository.TraineeRepository
	programs         repository.ProgramRepository
	programExercises repository.ProgramExerciseRepository
	exercises        repository.ExerciseRepository
	observer         TransitionObserver
	now              func() time.Time
}

func NewSessionService(
	sessions repository.WorkoutSessionRepository,
	logs repository.ExerciseLogRepository,
	trainees repository.TraineeRepository,
	programs repository.ProgramRepository,
	programExercises repository.ProgramExerciseRepository,
	exercises repository.ExerciseRepository,
	observer TransitionObserver,
	opts ...Option,
) SessionService {
	o := buildOptions(opts)
	return &sessionService{
		sessions:         sessions,
		logs:             logs,
		trainees:         trainees,
		programs:         programs,
		programExercises: programExercises,
		exercises:        exercises,
		observer:         observer,
		now:              o.now,
	}
}

// Start opens a session for today that is immediately in progress.
func (s *sessionService) Start(ctx context.Context, caller *auth.Caller, in StartSessionInput) (*domain.WorkoutSession, error) {
	now := s.now()
	session, err := s.newSession(ctx, caller, in.TraineeID, in.ProgramID, in.Notes,
		"Cannot create workout sessions for other users")
	if err != nil {
		return nil, err
	}
	session.SessionDate = domain.DateOf(now)
	session.Status = domain.SessionInProgress
	session.StartedAt = &now

	if _, err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	s.observe(domain.EventBegin, domain.SessionInProgress)
	log.Infof("session %s started for trainee %s", session.ID.Hex(), session.TraineeID.Hex())
	return session, nil
}

// Schedule plans a session for a given day.
func (s *sessionService) Schedule(ctx context.Context, caller *auth.Caller, in ScheduleSessionInput) (*domain.WorkoutSession, error) {
	if in.SessionDate.IsZero() {
		return nil, newError(ErrValidation, "session_date is required")
	}
	session, err := s.newSession(ctx, caller, in.TraineeID, in.ProgramID, in.Notes,
		"Cannot create workout sessions for other users")
	if err != nil {
		return nil, err
	}
	session.SessionDate = domain.DateOf(in.SessionDate)
	session.Status = domain.SessionPlanned

	if _, err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// newSession resolves the owning trainee and the optional program.
func (s *sessionService) newSession(ctx context.Context, caller *auth.Caller, traineeID, programID *primitive.ObjectID, notes, denied string) (*domain.WorkoutSession, error) {
	if traineeID == nil {
		if caller == nil || caller.TraineeID == nil {
			if caller != nil && caller.Role == domain.RoleTrainee {
				return nil, ErrTraineeProfileMissing
			}
			return nil, newError(ErrValidation, "trainee_id is required")
		}
		traineeID = caller.TraineeID
	}
	if err := authorize(caller, auth.OwnedByTrainee(*traineeID), domain.Roles...); err != nil {
		return nil, denyWith(err, denied)
	}
	if _, err := s.trainees.GetByID(ctx, *traineeID); err != nil {
		return nil, notFoundAs(err, ErrTraineeNotFound)
	}
	if programID != nil {
		if _, err := s.programs.GetByID(ctx, *programID); err != nil {
			return nil, notFoundAs(err, ErrProgramNotFound)
		}
	}
	var v fieldErrors
	v.maxLen("notes", notes, maxDescriptionLength)
	if err := v.result(); err != nil {
		return nil, err
	}
	return &domain.WorkoutSession{
		TraineeID: *traineeID,
		ProgramID: programID,
		Notes:     strings.TrimSpace(notes),
	}, nil
}

// owned loads a session and checks that the caller may act on it.
func (s *sessionService) owned(ctx context.Context, caller *auth.Caller, id primitive.ObjectID, denied string) (*domain.WorkoutSession, error) {
	if err := requireRole(caller, domain.Roles...); err != nil {
		return nil, err
	}
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrSessionNotFound)
	}
	if err := authorize(caller, auth.OwnedByTrainee(session.TraineeID), domain.Roles...); err != nil {
		return nil, denyWith(err, denied)
	}
	return session, nil
}

func (s *sessionService) Begin(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	session, err := s.owned(ctx, caller, id, "Cannot start other users' workout sessions")
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, session, domain.EventBegin)
}

func (s *sessionService) End(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	session, err := s.owned(ctx, caller, id, "Cannot end other users' workout sessions")
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, session, domain.EventEnd)
}

// transition applies ev with a status-conditional update, so a concurrent
// change surfaces as an invalid state rather than a lost update.
func (s *sessionService) transition(ctx context.Context, session *domain.WorkoutSession, ev domain.SessionEvent) (*domain.WorkoutSession, error) {
	to, err := session.Status.Next(ev)
	if err != nil {
		return nil, invalidTransition(ev)
	}
	if err := s.sessions.TransitionStatus(ctx, session.ID, domain.TransitionSources(ev), to, s.now()); err != nil {
		if errors.Is(err, repository.ErrUpdateFailed) {
			return nil, invalidTransition(ev)
		}
		return nil, err
	}
	s.observe(ev, to)

	updated, err := s.sessions.GetByID(ctx, session.ID)
	if err != nil {
		return nil, notFoundAs(err, ErrSessionNotFound)
	}
	return updated, nil
}

func invalidTransition(ev domain.SessionEvent) error {
	switch ev {
	case domain.EventBegin:
		return ErrSessionNotPlanned
	case domain.EventEnd:
		return ErrSessionNotInProgress
	default:
		return ErrSessionCompleted
	}
}

func (s *sessionService) observe(ev domain.SessionEvent, to domain.SessionStatus) {
	if s.observer != nil {
		s.observer.ObserveTransition(ev, to)
	}
}

func validateLog(sets, reps *int, weightKg *float64, durationMin *int, notes string) error {
	var v fieldErrors
	v.nonNegativeInt("completed_sets", sets)
	v.nonNegativeInt("completed_reps", reps)
	v.nonNegativeFloat("completed_weight_kg", weightKg)
	v.nonNegativeInt("completed_duration_min", durationMin)
	v.maxLen("notes", notes, maxDescriptionLength)
	return v.result()
}

// LogExercise appends a completed exercise to an in-progress session.
func (s *sessionService) LogExercise(ctx context.Context, caller *auth.Caller, id primitive.ObjectID, in LogExerciseInput) (*domain.ExerciseLog, error) {
	session, err := s.owned(ctx, caller, id, "Cannot log exercises in other users' workout sessions")
	if err != nil {
		return nil, err
	}
	if !session.Status.AcceptsLogs() {
		return nil, ErrSessionNotInProgress
	}
	if err := validateLog(in.CompletedSets, in.CompletedReps, in.CompletedWeightKg, in.CompletedDurationMin, in.Notes); err != nil {
		return nil, err
	}
	if _, err := s.exercises.GetByID(ctx, in.ExerciseID); err != nil {
		return nil, notFoundAs(err, ErrExerciseNotFound)
	}

	entry := &domain.ExerciseLog{
		SessionID:            session.ID,
		ExerciseID:           in.ExerciseID,
		TraineeID:            session.TraineeID,
		SessionDate:          session.SessionDate,
		CompletedSets:        in.CompletedSets,
		CompletedReps:        in.CompletedReps,
		CompletedWeightKg:    in.CompletedWeightKg,
		CompletedDurationMin: in.CompletedDurationMin,
		IsCompleted:          true,
		Notes:                strings.TrimSpace(in.Notes),
		LoggedAt:             s.now(),
	}
	entry.RecomputeVolume()
	if _, err := s.logs.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *sessionService) AutoComplete(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) (*SessionDetail, error) {
	// 1. Load and authorize
	session, err := s.owned(ctx, caller, id, "Cannot auto-complete other users' workout sessions")
	if err != nil {
		return nil, err
	}
	if _, err := session.Status.Next(domain.EventAutoComplete); err != nil {
		return nil, ErrSessionCompleted
	}

	// 2. The linked program must prescribe something
	if session.ProgramID == nil {
		return nil, ErrMissingProgram
	}
	prescribed, err := s.programExercises.ListByProgram(ctx, *session.ProgramID)
	if err != nil {
		return nil, err
	}
	if len(prescribed) == 0 {
		return nil, ErrEmptyProgram
	}

	// 3. Complete first: the conditional update keeps two racing calls from logging twice
	completed, err := s.transition(ctx, session, domain.EventAutoComplete)
	if err != nil {
		return nil, err
	}

	// 4. One log per prescribed exercise, in program order
	now := s.now()
	entries := make([]*domain.ExerciseLog, 0, len(prescribed))
	for _, pe := range prescribed {
		entry := &domain.ExerciseLog{
			SessionID:            session.ID,
			ExerciseID:           pe.ExerciseID,
			TraineeID:            session.TraineeID,
			SessionDate:          session.SessionDate,
			CompletedSets:        pe.PrescribedSets,
			CompletedReps:        pe.PrescribedReps,
			CompletedWeightKg:    pe.PrescribedWeightKg,
			CompletedDurationMin: pe.PrescribedDurationMin,
			IsCompleted:          true,
			LoggedAt:             now,
		}
		entry.RecomputeVolume()
		entries = append(entries, entry)
	}
	if err := s.logs.CreateMany(ctx, entries); err != nil {
		log.Errorf("auto-complete session %s: session completed but logs failed: %s", session.ID.Hex(), err)
		return nil, err
	}

	logs, err := s.logs.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	return &SessionDetail{Session: completed, Logs: logs}, nil
}

func (s *sessionService) Get(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) (*SessionDetail, error) {
	session, err := s.owned(ctx, caller, id, "Cannot view other users' workout sessions")
	if err != nil {
		return nil, err
	}
	logs, err := s.logs.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	return &SessionDetail{Session: session, Logs: logs}, nil
}

// List shows trainees only their own sessions. Trainers and admins may filter by trainee.
func (s *sessionService) List(ctx context.Context, caller *auth.Caller, filter repository.SessionFilter, page repository.Page) ([]domain.WorkoutSession, error) {
	if err := requireRole(caller, domain.Roles...); err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, newError(ErrValidation, "status must be one of planned, in-progress, completed")
	}
	if caller.Role == domain.RoleTrainee {
		if caller.TraineeID == nil {
			return nil, ErrTraineeProfileMissing
		}
		if filter.TraineeID != nil && *filter.TraineeID != *caller.TraineeID {
			return nil, newError(ErrForbidden, "Cannot view other users' workout sessions")
		}
		filter.TraineeID = caller.TraineeID
	}
	return s.sessions.List(ctx, filter, page)
}
