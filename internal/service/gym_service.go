package service

import (
	"context"
	"strings"

	"fitcoach/api/internal/auth"
	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GymInput struct {
	Name    string
	Address string
}

type GymService interface {
	Create(ctx context.Context, caller *auth.Caller, in GymInput) (*domain.Gym, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Gym, error)
	List(ctx context.Context, page repository.Page) ([]domain.Gym, error)
	Update(ctx context.Context, caller *auth.Caller, id primitive.ObjectID, in GymInput) (*domain.Gym, error)
	Delete(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) error
}

type gymService struct {
	gyms repository.GymRepository
}

func NewGymService(gyms repository.GymRepository) GymService {
	return &gymService{gyms: gyms}
}

func validateGym(in GymInput) error {
	var v fieldErrors
	v.name("name", in.Name)
	v.maxLen("address", in.Address, maxDescriptionLength)
	return v.result()
}

func (s *gymService) Create(ctx context.Context, caller *auth.Caller, in GymInput) (*domain.Gym, error) {
	if err := requireRole(caller, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validateGym(in); err != nil {
		return nil, err
	}
	gym := &domain.Gym{Name: strings.TrimSpace(in.Name), Address: strings.TrimSpace(in.Address)}
	if _, err := s.gyms.Create(ctx, gym); err != nil {
		return nil, err
	}
	return gym, nil
}

func (s *gymService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Gym, error) {
	gym, err := s.gyms.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrGymNotFound)
	}
	return gym, nil
}

func (s *gymService) List(ctx context.Context, page repository.Page) ([]domain.Gym, error) {
	return s.gyms.List(ctx, page)
}

func (s *gymService) Update(ctx context.Context, caller *auth.Caller, id primitive.ObjectID, in GymInput) (*domain.Gym, error) {
	if err := requireRole(caller, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validateGym(in); err != nil {
		return nil, err
	}
	gym, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	gym.Name = strings.TrimSpace(in.Name)
	gym.Address = strings.TrimSpace(in.Address)
	if err := s.gyms.Update(ctx, gym); err != nil {
		return nil, notFoundAs(err, ErrGymNotFound)
	}
	return gym, nil
}

func (s *gymService) Delete(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) error {
	if err := requireRole(caller, domain.RoleAdmin); err != nil {
		return err
	}
	return notFoundAs(s.gyms.Delete(ctx, id), ErrGymNotFound)
}
