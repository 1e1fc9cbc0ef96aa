package service

import (
	"context"
	"math"
	"time"

	"fitcoach/api/internal/auth"
	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// targetWorkoutsPerMonth is the 3-per-week plan adherence is measured against.
	targetWorkoutsPerMonth = 12
	recentSessionsShown    = 10
	noProgramName          = "No program assigned"
)

type ClientOverview struct {
	Trainee            domain.Trainee
	ProgramName        string
	TotalWorkouts      int64
	LastWorkoutDate    *time.Time
	WorkoutsLast30Days int64
	AdherenceRate      float64
}

type RecentSession struct {
	ID            primitive.ObjectID
	Date          time.Time
	Status        domain.SessionStatus
	ExerciseCount int64
}

type ClientProgress struct {
	Trainee          domain.Trainee
	ProgramName      string // empty when no program is assigned
	TotalWorkouts    int64
	TotalVolumeKg    float64
	TimeframeDays    int
	WorkoutFrequency []domain.DailyCount
	VolumeTrend      []domain.DailyVolume
	RecentSessions   []RecentSession
}

type DashboardStats struct {
	TotalClients         int64
	ActiveClients        int64
	TotalPrograms        int64
	AverageAdherenceRate float64
}

// DashboardService is the trainer's view over their clients. Admins see every trainee.
type DashboardService interface {
	Clients(ctx context.Context, caller *auth.Caller) ([]ClientOverview, error)
	ClientProgress(ctx context.Context, caller *auth.Caller, traineeID primitive.ObjectID, days int) (*ClientProgress, error)
	Stats(ctx context.Context, caller *auth.Caller) (*DashboardStats, error)
}

type dashboardService struct {
	trainees  repository.TraineeRepository
	programs  repository.ProgramRepository
	sessions  repository.WorkoutSessionRepository
	logs      repository.ExerciseLogRepository
	analytics repository.AnalyticsRepository
	now       func() time.Time
}

func NewDashboardService(
	trainees repository.TraineeRepository,
	programs repository.ProgramRepository,
	sessions repository.WorkoutSessionRepository,
	logs repository.ExerciseLogRepository,
	analytics repository.AnalyticsRepository,
	opts ...Option,
) DashboardService {
	o := buildOptions(opts)
	return &dashboardService{
		trainees:  trainees,
		programs:  programs,
		sessions:  sessions,
		logs:      logs,
		analytics: analytics,
		now:       o.now,
	}
}

// scope returns the trainer whose clients are shown, or nil for admins.
func (s *dashboardService) scope(caller *auth.Caller) (*primitive.ObjectID, error) {
	if err := requireRole(caller, domain.RoleAdmin, domain.RoleTrainer); err != nil {
		return nil, err
	}
	switch caller.Role {
	case domain.RoleAdmin:
		return nil, nil
	default:
		if caller.TrainerID == nil {
			return nil, ErrTrainerProfileMissing
		}
		return caller.TrainerID, nil
	}
}

func (s *dashboardService) daysAgo(days int) time.Time {
	return domain.DateOf(s.now()).AddDate(0, 0, -days)
}

func adherence(recent int64) float64 {
	rate := float64(recent) / targetWorkoutsPerMonth * 100
	return math.Round(rate*10) / 10
}

func (s *dashboardService) Clients(ctx context.Context, caller *auth.Caller) ([]ClientOverview, error) {
	trainerID, err := s.scope(caller)
	if err != nil {
		return nil, err
	}
	trainees, err := s.trainees.List(ctx, repository.TraineeFilter{TrainerID: trainerID}, repository.Page{})
	if err != nil {
		return nil, err
	}

	programNames := map[primitive.ObjectID]string{}
	monthAgo := s.daysAgo(30)
	out := make([]ClientOverview, 0, len(trainees))
	for _, trainee := range trainees {
		id := trainee.ID
		overview := ClientOverview{Trainee: trainee, ProgramName: noProgramName}
		if trainee.ProgramID != nil {
			if name := s.programName(ctx, *trainee.ProgramID, programNames); name != "" {
				overview.ProgramName = name
			}
		}
		if overview.TotalWorkouts, err = s.sessions.Count(ctx, repository.SessionFilter{TraineeID: &id, Status: domain.SessionCompleted}); err != nil {
			return nil, err
		}
		latest, err := s.sessions.List(ctx, repository.SessionFilter{TraineeID: &id}, repository.Page{Limit: 1})
		if err != nil {
			return nil, err
		}
		if len(latest) > 0 {
			last := latest[0].SessionDate
			overview.LastWorkoutDate = &last
		}
		if overview.WorkoutsLast30Days, err = s.sessions.Count(ctx, repository.SessionFilter{TraineeID: &id, Since: &monthAgo}); err != nil {
			return nil, err
		}
		overview.AdherenceRate = adherence(overview.WorkoutsLast30Days)
		out = append(out, overview)
	}
	return out, nil
}

func (s *dashboardService) programName(ctx context.Context, id primitive.ObjectID, seen map[primitive.ObjectID]string) string {
	if name, ok := seen[id]; ok {
		return name
	}
	name := ""
	if program, err := s.programs.GetByID(ctx, id); err == nil {
		name = program.Name
	}
	seen[id] = name
	return name
}

func (s *dashboardService) ClientProgress(ctx context.Context, caller *auth.Caller, traineeID primitive.ObjectID, days int) (*ClientProgress, error) {
	days, err := windowDays(days)
	if err != nil {
		return nil, err
	}
	trainerID, err := s.scope(caller)
	if err != nil {
		return nil, err
	}
	trainee, err := s.trainees.GetByID(ctx, traineeID)
	if err != nil {
		return nil, notFoundAs(err, ErrTraineeNotFound)
	}
	if trainerID != nil && !trainee.IsCoachedBy(*trainerID) {
		return nil, newError(ErrForbidden, "You can only view progress of your own clients")
	}

	out := &ClientProgress{Trainee: *trainee, TimeframeDays: days}
	if trainee.ProgramID != nil {
		out.ProgramName = s.programName(ctx, *trainee.ProgramID, map[primitive.ObjectID]string{})
	}

	since := s.daysAgo(days)
	if out.WorkoutFrequency, err = s.sessions.DailyCounts(ctx, traineeID, since); err != nil {
		return nil, err
	}
	if out.VolumeTrend, err = s.analytics.DailyVolume(ctx, traineeID, since); err != nil {
		return nil, err
	}

	recent, err := s.sessions.List(ctx, repository.SessionFilter{TraineeID: &traineeID}, repository.Page{Limit: recentSessionsShown})
	if err != nil {
		return nil, err
	}
	out.RecentSessions = make([]RecentSession, 0, len(recent))
	for _, session := range recent {
		count, err := s.logs.CountBySession(ctx, session.ID)
		if err != nil {
			return nil, err
		}
		out.RecentSessions = append(out.RecentSessions, RecentSession{
			ID:            session.ID,
			Date:          session.SessionDate,
			Status:        session.Status,
			ExerciseCount: count,
		})
	}

	if out.TotalWorkouts, err = s.sessions.Count(ctx, repository.SessionFilter{TraineeID: &traineeID, Status: domain.SessionCompleted}); err != nil {
		return nil, err
	}
	totals, err := s.analytics.Totals(ctx, traineeID)
	if err != nil {
		return nil, err
	}
	out.TotalVolumeKg = totals.VolumeKg
	return out, nil
}

func (s *dashboardService) Stats(ctx context.Context, caller *auth.Caller) (*DashboardStats, error) {
	trainerID, err := s.scope(caller)
	if err != nil {
		return nil, err
	}
	filter := repository.TraineeFilter{TrainerID: trainerID}
	out := &DashboardStats{}
	if out.TotalClients, err = s.trainees.Count(ctx, filter); err != nil {
		return nil, err
	}
	if out.TotalPrograms, err = s.programs.Count(ctx, trainerID); err != nil {
		return nil, err
	}
	trainees, err := s.trainees.List(ctx, filter, repository.Page{})
	if err != nil {
		return nil, err
	}

	weekAgo, monthAgo := s.daysAgo(7), s.daysAgo(30)
	var rateSum float64
	for _, trainee := range trainees {
		id := trainee.ID
		active, err := s.sessions.Count(ctx, repository.SessionFilter{TraineeID: &id, Since: &weekAgo})
		if err != nil {
			return nil, err
		}
		if active > 0 {
			out.ActiveClients++
		}
		recent, err := s.sessions.Count(ctx, repository.SessionFilter{TraineeID: &id, Since: &monthAgo})
		if err != nil {
			return nil, err
		}
		rateSum += float64(recent) / targetWorkoutsPerMonth * 100
	}
	if len(trainees) > 0 {
		out.AverageAdherenceRate = math.Round(rateSum/float64(len(trainees))*10) / 10
	}
	return out, nil
}
