package service

import (
	"context"
	"time"

	"fitcoach/api/internal/auth"
	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultWindowDays = 30
	minWindowDays     = 7
	maxWindowDays     = 365
	defaultTopLimit   = 10
	maxTopLimit       = 50
)

type Frequency struct {
	Daily        []domain.DailyCount
	WeeklyTotal  int64
	MonthlyTotal int64
}

type TopExercise struct {
	domain.ExerciseTotal
	ExerciseName string
}

type PersonalRecord struct {
	domain.PersonalRecord
	ExerciseName string
}

type Summary struct {
	TotalWorkouts        int64
	TotalExercisesLogged int64
	TotalVolumeKg        float64
	CurrentStreakDays    int
	WorkoutsThisWeek     int64
	WorkoutsThisMonth    int64
}

// AnalyticsService rolls up one trainee's training history. A nil traineeID
// means the caller's own trainee profile.
type AnalyticsService interface {
	Frequency(ctx context.Context, caller *auth.Caller, traineeID *primitive.ObjectID, days int) (*Frequency, error)
	TopExercises(ctx context.Context, caller *auth.Caller, traineeID *primitive.ObjectID, days, limit int) ([]TopExercise, error)
	VolumeTrend(ctx context.Context, caller *auth.Caller, traineeID *primitive.ObjectID, days int) ([]domain.DailyVolume, error)
	PersonalRecords(ctx context.Context, caller *auth.Caller, traineeID *primitive.ObjectID) ([]PersonalRecord, error)
	Summary(ctx context.Context, caller *auth.Caller, traineeID *primitive.ObjectID) (*Summary, error)
}

type analyticsService struct {
	analytics repository.AnalyticsRepository
	sessions  repository.WorkoutSessionRepository
	trainees  repository.TraineeRepository
	exercises repository.ExerciseRepository
	now       func() time.Time
}

func NewAnalyticsService(
	analytics repository.AnalyticsRepository,
	sessions repository.WorkoutSessionRepository,
	trainees repository.TraineeRepository,
	exercises repository.ExerciseRepository,
	opts ...Option,
) AnalyticsService {
	o := buildOptions(opts)
	return &analyticsService{
		analytics: analytics,
		sessions:  sessions,
		trainees:  trainees,
		exercises: exercises,
		now:       o.now,
	}
}

// windowDays applies the default and bounds of an analysis window.
func windowDays(days int) (int, error) {
	if days == 0 {
		return defaultWindowDays, nil
	}
	if days < minWindowDays || days > maxWindowDays {
		return 0, newError(ErrValidation, "days must be between 7 and 365")
	}
	return days, nil
}

func (s *analyticsService) cutoff(days int) time.Time {
	return domain.DateOf(s.now()).AddDate(0, 0, -days)
}

// subject resolves whose data is analysed and checks the caller may see it.
func (s *analyticsService) subject(ctx context.Context, caller *auth.Caller, traineeID *primitive.ObjectID) (primitive.ObjectID, error) {
	if err := requireRole(caller, domain.Roles...); err != nil {
		return primitive.NilObjectID, err
	}
	if traineeID == nil {
		if caller.TraineeID == nil {
			return primitive.NilObjectID, ErrTraineeProfileMissing
		}
		return *caller.TraineeID, nil
	}
	trainee, err := s.trainees.GetByID(ctx, *traineeID)
	if err != nil {
		return primitive.NilObjectID, notFoundAs(err, ErrTraineeNotFound)
	}
	if err := authorize(caller, auth.CoachedTrainee(trainee), domain.Roles...); err != nil {
		return primitive.NilObjectID, denyWith(err, "You can only view analytics of your own clients")
	}
	return trainee.ID, nil
}

func (s *analyticsService) Frequency(ctx context.Context, caller *auth.Caller, traineeID *primitive.ObjectID, days int) (*Frequency, error) {
	days, err := windowDays(days)
	if err != nil {
		return nil, err
	}
	id, err := s.subject(ctx, caller, traineeID)
	if err != nil {
		return nil, err
	}
	daily, err := s.analytics.DailyLogCounts(ctx, id, s.cutoff(days))
	if err != nil {
		return nil, err
	}

	weekCutoff := s.cutoff(7)
	out := &Frequency{Daily: daily}
	for _, day := range daily {
		out.MonthlyTotal += day.Count
		if !day.Date.Before(weekCutoff) {
			out.WeeklyTotal += day.Count
		}
	}
	return out, nil
}

func (s *analyticsService) TopExercises(ctx context.Context, caller *auth.Caller, traineeID *primitive.ObjectID, days, limit int) ([]TopExercise, error) {
	days, err := windowDays(days)
	if err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = defaultTopLimit
	}
	if limit < 1 || limit > maxTopLimit {
		return nil, newError(ErrValidation, "limit must be between 1 and 50")
	}
	id, err := s.subject(ctx, caller, traineeID)
	if err != nil {
		return nil, err
	}
	totals, err := s.analytics.ExerciseTotals(ctx, id, s.cutoff(days), limit)
	if err != nil {
		return nil, err
	}

	out := make([]TopExercise, 0, len(totals))
	for _, total := range totals {
		out = append(out, TopExercise{ExerciseTotal: total, ExerciseName: s.exerciseName(ctx, total.ExerciseID)})
	}
	return out, nil
}

func (s *analyticsService) VolumeTrend(ctx context.Context, caller *auth.Caller, traineeID *primitive.ObjectID, days int) ([]domain.DailyVolume, error) {
	days, err := windowDays(days)
	if err != nil {
		return nil, err
	}
	id, err := s.subject(ctx, caller, traineeID)
	if err != nil {
		return nil, err
	}
	return s.analytics.DailyVolume(ctx, id, s.cutoff(days))
}

func (s *analyticsService) PersonalRecords(ctx context.Context, caller *auth.Caller, traineeID *primitive.ObjectID) ([]PersonalRecord, error) {
	id, err := s.subject(ctx, caller, traineeID)
	if err != nil {
		return nil, err
	}
	records, err := s.analytics.PersonalRecords(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]PersonalRecord, 0, len(records))
	for _, record := range records {
		out = append(out, PersonalRecord{PersonalRecord: record, ExerciseName: s.exerciseName(ctx, record.ExerciseID)})
	}
	return out, nil
}

func (s *analyticsService) Summary(ctx context.Context, caller *auth.Caller, traineeID *primitive.ObjectID) (*Summary, error) {
	id, err := s.subject(ctx, caller, traineeID)
	if err != nil {
		return nil, err
	}

	completed := repository.SessionFilter{TraineeID: &id, Status: domain.SessionCompleted}
	out := &Summary{}
	if out.TotalWorkouts, err = s.sessions.Count(ctx, completed); err != nil {
		return nil, err
	}
	weekAgo, monthAgo := s.cutoff(7), s.cutoff(30)
	completed.Since = &weekAgo
	if out.WorkoutsThisWeek, err = s.sessions.Count(ctx, completed); err != nil {
		return nil, err
	}
	completed.Since = &monthAgo
	if out.WorkoutsThisMonth, err = s.sessions.Count(ctx, completed); err != nil {
		return nil, err
	}

	totals, err := s.analytics.Totals(ctx, id)
	if err != nil {
		return nil, err
	}
	out.TotalExercisesLogged = totals.Count
	out.TotalVolumeKg = totals.VolumeKg

	dates, err := s.sessions.SessionDates(ctx, id)
	if err != nil {
		return nil, err
	}
	out.CurrentStreakDays = Streak(dates, s.now())
	return out, nil
}

// exerciseName looks up a display name. Deleted exercises keep their stats under an empty name.
func (s *analyticsService) exerciseName(ctx context.Context, id primitive.ObjectID) string {
	exercise, err := s.exercises.GetByID(ctx, id)
	if err != nil {
		log.Debugf("analytics: no name for exercise %s: %s", id.Hex(), err)
		return ""
	}
	return exercise.Name
}

// Streak counts consecutive training days ending today or yesterday.
// dates must be distinct and sorted newest first. Future dates are ignored.
func Streak(dates []time.Time, today time.Time) int {
	cursor := domain.DateOf(today)
	streak := 0
	for _, d := range dates {
		day := domain.DateOf(d)
		if day.After(domain.DateOf(today)) {
			continue
		}
		gap := domain.DaysBetween(day, cursor)
		if gap > 1 {
			break
		}
		streak++
		cursor = day
	}
	return streak
}
