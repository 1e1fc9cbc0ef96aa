package memory

import (
	"context"
	"sort"
	"time"

	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type sessionRepo struct{ s *Store }

func (r *sessionRepo) Create(_ context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session.ID = primitive.NewObjectID()
	session.SessionDate = domain.DateOf(session.SessionDate)
	session.CreatedAt = r.s.now()
	session.UpdatedAt = session.CreatedAt
	r.s.sessions[session.ID] = *session
	return session.ID, nil
}

func (r *sessionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	session, ok := r.s.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &session, nil
}

func matchesSession(session domain.WorkoutSession, filter repository.SessionFilter) bool {
	if filter.TraineeID != nil && session.TraineeID != *filter.TraineeID {
		return false
	}
	if filter.Status != "" && session.Status != filter.Status {
		return false
	}
	if filter.Since != nil && session.SessionDate.Before(domain.DateOf(*filter.Since)) {
		return false
	}
	return true
}

func (r *sessionRepo) List(_ context.Context, filter repository.SessionFilter, page repository.Page) ([]domain.WorkoutSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sessions := []domain.WorkoutSession{}
	for _, session := range r.s.sessions {
		if matchesSession(session, filter) {
			sessions = append(sessions, session)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].SessionDate.Equal(sessions[j].SessionDate) {
			return sessions[i].SessionDate.After(sessions[j].SessionDate)
		}
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return paginate(sessions, page), nil
}

func (r *sessionRepo) Count(_ context.Context, filter repository.SessionFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, session := range r.s.sessions {
		if matchesSession(session, filter) {
			n++
		}
	}
	return n, nil
}

func (r *sessionRepo) TransitionStatus(_ context.Context, id primitive.ObjectID, from []domain.SessionStatus, to domain.SessionStatus, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session, ok := r.s.sessions[id]
	if !ok {
		return repository.ErrUpdateFailed
	}
	matched := false
	for _, status := range from {
		if session.Status == status {
			matched = true
			break
		}
	}
	if !matched {
		return repository.ErrUpdateFailed
	}
	session.Status = to
	session.UpdatedAt = at
	switch to {
	case domain.SessionInProgress:
		session.StartedAt = &at
	case domain.SessionCompleted:
		session.CompletedAt = &at
	}
	r.s.sessions[id] = session
	return nil
}

func (r *sessionRepo) SessionDates(_ context.Context, traineeID primitive.ObjectID) ([]time.Time, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seen := map[time.Time]bool{}
	dates := []time.Time{}
	for _, session := range r.s.sessions {
		if session.TraineeID != traineeID || seen[session.SessionDate] {
			continue
		}
		seen[session.SessionDate] = true
		dates = append(dates, session.SessionDate)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	return dates, nil
}

func (r *sessionRepo) DailyCounts(_ context.Context, traineeID primitive.ObjectID, since time.Time) ([]domain.DailyCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := map[time.Time]int64{}
	for _, session := range r.s.sessions {
		if session.TraineeID == traineeID && !session.SessionDate.Before(domain.DateOf(since)) {
			counts[session.SessionDate]++
		}
	}
	return sortedDailyCounts(counts), nil
}

func (r *sessionRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sessions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.sessions, id)
	return nil
}

type exerciseLogRepo struct{ s *Store }

func (r *exerciseLogRepo) Create(_ context.Context, log *domain.ExerciseLog) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	log.ID = primitive.NewObjectID()
	log.RecomputeVolume()
	r.s.logs[log.ID] = *log
	return log.ID, nil
}

func (r *exerciseLogRepo) CreateMany(_ context.Context, logs []*domain.ExerciseLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, log := range logs {
		log.ID = primitive.NewObjectID()
		log.RecomputeVolume()
		r.s.logs[log.ID] = *log
	}
	return nil
}

func (r *exerciseLogRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.ExerciseLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	log, ok := r.s.logs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &log, nil
}

func (r *exerciseLogRepo) ListBySession(_ context.Context, sessionID primitive.ObjectID) ([]domain.ExerciseLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	logs := []domain.ExerciseLog{}
	for _, log := range r.s.logs {
		if log.SessionID == sessionID {
			logs = append(logs, log)
		}
	}
	sort.Slice(logs, func(i, j int) bool {
		if !logs[i].LoggedAt.Equal(logs[j].LoggedAt) {
			return logs[i].LoggedAt.Before(logs[j].LoggedAt)
		}
		return logs[i].ID.Hex() < logs[j].ID.Hex()
	})
	return logs, nil
}

func (r *exerciseLogRepo) CountBySession(ctx context.Context, sessionID primitive.ObjectID) (int64, error) {
	logs, err := r.ListBySession(ctx, sessionID)
	return int64(len(logs)), err
}

func (r *exerciseLogRepo) Update(_ context.Context, log *domain.ExerciseLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.logs[log.ID]
	if !ok {
		return repository.ErrNotFound
	}
	log.SessionID = stored.SessionID
	log.TraineeID = stored.TraineeID
	log.SessionDate = stored.SessionDate
	log.LoggedAt = stored.LoggedAt
	log.RecomputeVolume()
	r.s.logs[log.ID] = *log
	return nil
}

func (r *exerciseLogRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.logs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.logs, id)
	return nil
}

func (r *exerciseLogRepo) DeleteBySession(_ context.Context, sessionID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, log := range r.s.logs {
		if log.SessionID == sessionID {
			delete(r.s.logs, id)
		}
	}
	return nil
}

type healthMetricRepo struct{ s *Store }

func (r *healthMetricRepo) Create(_ context.Context, metric *domain.HealthMetric) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	metric.ID = primitive.NewObjectID()
	if metric.RecordedAt.IsZero() {
		metric.RecordedAt = r.s.now()
	}
	r.s.metrics[metric.ID] = *metric
	return metric.ID, nil
}

func (r *healthMetricRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.HealthMetric, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	metric, ok := r.s.metrics[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &metric, nil
}

func (r *healthMetricRepo) ListByTrainee(_ context.Context, traineeID primitive.ObjectID, page repository.Page) ([]domain.HealthMetric, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	metrics := []domain.HealthMetric{}
	for _, metric := range r.s.metrics {
		if metric.TraineeID == traineeID {
			metrics = append(metrics, metric)
		}
	}
	sort.Slice(metrics, func(i, j int) bool { return metrics[i].RecordedAt.After(metrics[j].RecordedAt) })
	return paginate(metrics, page), nil
}

func (r *healthMetricRepo) Update(_ context.Context, metric *domain.HealthMetric) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.metrics[metric.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.metrics[metric.ID] = *metric
	return nil
}

func (r *healthMetricRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.metrics[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.metrics, id)
	return nil
}
