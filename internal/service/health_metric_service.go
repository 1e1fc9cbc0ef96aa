package service

import (
	"context"
	"time"

	"fitcoach/api/internal/auth"
	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type HealthMetricInput struct {
	// TraineeID defaults to the caller's own trainee profile on create and is ignored on update.
	TraineeID         *primitive.ObjectID
	HeightCm          *float64
	WeightKg          *float64
	BodyFatPercentage *float64
}

type HealthMetricService interface {
	Record(ctx context.Context, caller *auth.Caller, in HealthMetricInput) (*domain.HealthMetric, error)
	Get(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) (*domain.HealthMetric, error)
	ListMine(ctx context.Context, caller *auth.Caller, page repository.Page) ([]domain.HealthMetric, error)
	ListForTrainee(ctx context.Context, caller *auth.Caller, traineeID primitive.ObjectID, page repository.Page) ([]domain.HealthMetric, error)
	Update(ctx context.Context, caller *auth.Caller, id primitive.ObjectID, in HealthMetricInput) (*domain.HealthMetric, error)
	Delete(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) error
}

type healthMetricService struct {
	metrics  repository.HealthMetricRepository
	trainees repository.TraineeRepository
	now      func() time.Time
}

func NewHealthMetricService(metrics repository.HealthMetricRepository, trainees repository.TraineeRepository, opts ...Option) HealthMetricService {
	o := buildOptions(opts)
	return &healthMetricService{metrics: metrics, trainees: trainees, now: o.now}
}

func validateMetric(in HealthMetricInput) error {
	var v fieldErrors
	v.floatRange("height_cm", in.HeightCm, 0, 300)
	v.floatRange("weight_kg", in.WeightKg, 0, 1000)
	v.floatRange("body_fat_percentage", in.BodyFatPercentage, 0, 100)
	if in.HeightCm == nil && in.WeightKg == nil && in.BodyFatPercentage == nil {
		v.add("at least one measurement is required")
	}
	return v.result()
}

func (s *healthMetricService) Record(ctx context.Context, caller *auth.Caller, in HealthMetricInput) (*domain.HealthMetric, error) {
	if err := requireRole(caller, domain.Roles...); err != nil {
		return nil, err
	}
	traineeID := in.TraineeID
	if traineeID == nil {
		if caller.TraineeID == nil {
			return nil, newError(ErrValidation, "trainee_id is required")
		}
		traineeID = caller.TraineeID
	}
	if err := authorize(caller, auth.OwnedByTrainee(*traineeID), domain.Roles...); err != nil {
		return nil, denyWith(err, "Cannot record health metrics for other users")
	}
	if err := validateMetric(in); err != nil {
		return nil, err
	}
	if _, err := s.trainees.GetByID(ctx, *traineeID); err != nil {
		return nil, notFoundAs(err, ErrTraineeNotFound)
	}

	metric := &domain.HealthMetric{
		TraineeID:         *traineeID,
		HeightCm:          in.HeightCm,
		WeightKg:          in.WeightKg,
		BodyFatPercentage: in.BodyFatPercentage,
		RecordedAt:        s.now(),
	}
	if _, err := s.metrics.Create(ctx, metric); err != nil {
		return nil, err
	}
	return metric, nil
}

func (s *healthMetricService) owned(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) (*domain.HealthMetric, error) {
	if err := requireRole(caller, domain.Roles...); err != nil {
		return nil, err
	}
	metric, err := s.metrics.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrHealthMetricNotFound)
	}
	if err := authorize(caller, auth.OwnedByTrainee(metric.TraineeID), domain.Roles...); err != nil {
		return nil, denyWith(err, "Cannot access other users' health metrics")
	}
	return metric, nil
}

func (s *healthMetricService) Get(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) (*domain.HealthMetric, error) {
	return s.owned(ctx, caller, id)
}

func (s *healthMetricService) ListMine(ctx context.Context, caller *auth.Caller, page repository.Page) ([]domain.HealthMetric, error) {
	if err := requireRole(caller, domain.Roles...); err != nil {
		return nil, err
	}
	if caller.TraineeID == nil {
		return nil, ErrTraineeProfileMissing
	}
	return s.metrics.ListByTrainee(ctx, *caller.TraineeID, page)
}

func (s *healthMetricService) ListForTrainee(ctx context.Context, caller *auth.Caller, traineeID primitive.ObjectID, page repository.Page) ([]domain.HealthMetric, error) {
	if err := authorize(caller, auth.OwnedByTrainee(traineeID), domain.Roles...); err != nil {
		return nil, denyWith(err, "Cannot access other users' health metrics")
	}
	return s.metrics.ListByTrainee(ctx, traineeID, page)
}

// Update is a correction of a recorded measurement. Unset fields keep their value.
func (s *healthMetricService) Update(ctx context.Context, caller *auth.Caller, id primitive.ObjectID, in HealthMetricInput) (*domain.HealthMetric, error) {
	metric, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := validateMetric(in); err != nil {
		return nil, err
	}
	if in.HeightCm != nil {
		metric.HeightCm = in.HeightCm
	}
	if in.WeightKg != nil {
		metric.WeightKg = in.WeightKg
	}
	if in.BodyFatPercentage != nil {
		metric.BodyFatPercentage = in.BodyFatPercentage
	}
	if err := s.metrics.Update(ctx, metric); err != nil {
		return nil, notFoundAs(err, ErrHealthMetricNotFound)
	}
	return metric, nil
}

func (s *healthMetricService) Delete(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) error {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}
	return notFoundAs(s.metrics.Delete(ctx, id), ErrHealthMetricNotFound)
}
