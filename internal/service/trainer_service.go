package service

import (
	"context"
	"strings"

	"fitcoach/api/internal/auth"
	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateTrainerInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	GymID     *string
}

// UpdateTrainerInput changes only the fields that are set.
type UpdateTrainerInput struct {
	FirstName *string
	LastName  *string
	GymID     *string // empty string clears the gym
}

type TrainerService interface {
	Create(ctx context.Context, caller *auth.Caller, in CreateTrainerInput) (*domain.Trainer, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error)
	List(ctx context.Context, page repository.Page) ([]domain.Trainer, error)
	Update(ctx context.Context, caller *auth.Caller, id primitive.ObjectID, in UpdateTrainerInput) (*domain.Trainer, error)
	Delete(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) error
}

type trainerService struct {
	accountCreator
	trainers repository.TrainerRepository
	gyms     repository.GymRepository
}

func NewTrainerService(accounts repository.AccountRepository, trainers repository.TrainerRepository, gyms repository.GymRepository) TrainerService {
	return &trainerService{
		accountCreator: accountCreator{accounts: accounts},
		trainers:       trainers,
		gyms:           gyms,
	}
}

func (s *trainerService) Create(ctx context.Context, caller *auth.Caller, in CreateTrainerInput) (*domain.Trainer, error) {
	if err := requireRole(caller, domain.RoleAdmin); err != nil {
		return nil, err
	}
	var v fieldErrors
	v.email(in.Email)
	v.password(in.Password)
	v.name("first_name", in.FirstName)
	v.name("last_name", in.LastName)
	if err := v.result(); err != nil {
		return nil, err
	}
	gymID, err := s.checkGym(ctx, in.GymID)
	if err != nil {
		return nil, err
	}

	account, err := s.create(ctx, in.Email, in.Password, domain.RoleTrainer)
	if err != nil {
		return nil, err
	}
	trainer := &domain.Trainer{
		AccountID: account.ID,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     account.Email,
		GymID:     gymID,
	}
	if _, err := s.trainers.Create(ctx, trainer); err != nil {
		s.removeAccount(ctx, account.ID)
		return nil, err
	}
	log.Infof("trainer %s created by %s", trainer.ID.Hex(), caller.AccountID.Hex())
	return trainer, nil
}

func (s *trainerService) checkGym(ctx context.Context, raw *string) (*primitive.ObjectID, error) {
	gymID, err := parseOptionalID("gym_id", raw)
	if err != nil || gymID == nil {
		return nil, err
	}
	if _, err := s.gyms.GetByID(ctx, *gymID); err != nil {
		return nil, notFoundAs(err, ErrGymNotFound)
	}
	return gymID, nil
}

func (s *trainerService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error) {
	trainer, err := s.trainers.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrTrainerNotFound)
	}
	return trainer, nil
}

func (s *trainerService) List(ctx context.Context, page repository.Page) ([]domain.Trainer, error) {
	return s.trainers.List(ctx, page)
}

// Update is allowed to the trainer themself and to admins.
func (s *trainerService) Update(ctx context.Context, caller *auth.Caller, id primitive.ObjectID, in UpdateTrainerInput) (*domain.Trainer, error) {
	if err := authorize(caller, auth.OwnedByTrainer(id), domain.RoleAdmin, domain.RoleTrainer); err != nil {
		return nil, err
	}
	trainer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var v fieldErrors
	if in.FirstName != nil {
		v.name("first_name", *in.FirstName)
	}
	if in.LastName != nil {
		v.name("last_name", *in.LastName)
	}
	if err := v.result(); err != nil {
		return nil, err
	}
	if in.FirstName != nil {
		trainer.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		trainer.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.GymID != nil {
		if trainer.GymID, err = s.checkGym(ctx, in.GymID); err != nil {
			return nil, err
		}
	}

	if err := s.trainers.Update(ctx, trainer); err != nil {
		return nil, notFoundAs(err, ErrTrainerNotFound)
	}
	return trainer, nil
}

// Delete removes the profile and the login behind it.
func (s *trainerService) Delete(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) error {
	if err := requireRole(caller, domain.RoleAdmin); err != nil {
		return err
	}
	trainer, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.trainers.Delete(ctx, id); err != nil {
		return notFoundAs(err, ErrTrainerNotFound)
	}
	s.removeAccount(ctx, trainer.AccountID)
	return nil
}
