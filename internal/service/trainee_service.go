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

type CreateTraineeInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	GymID     *string
	TrainerID *string
	ProgramID *string
}

// UpdateTraineeInput changes only the fields that are set. Empty id strings clear the link.
type UpdateTraineeInput struct {
	FirstName *string
	LastName  *string
	GymID     *string
	TrainerID *string
	ProgramID *string
}

func (in UpdateTraineeInput) touchesAssignments() bool {
	return in.GymID != nil || in.TrainerID != nil || in.ProgramID != nil
}

type TraineeService interface {
	Create(ctx context.Context, caller *auth.Caller, in CreateTraineeInput) (*domain.Trainee, error)
	Get(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) (*domain.Trainee, error)
	List(ctx context.Context, caller *auth.Caller, filter repository.TraineeFilter, page repository.Page) ([]domain.Trainee, error)
	Update(ctx context.Context, caller *auth.Caller, id primitive.ObjectID, in UpdateTraineeInput) (*domain.Trainee, error)
	AssignProgram(ctx context.Context, caller *auth.Caller, traineeID, programID primitive.ObjectID) (*domain.Trainee, error)
	Delete(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) error
}

type traineeService struct {
	accountCreator
	trainees repository.TraineeRepository
	trainers repository.TrainerRepository
	programs repository.ProgramRepository
	gyms     repository.GymRepository
}

func NewTraineeService(
	accounts repository.AccountRepository,
	trainees repository.TraineeRepository,
	trainers repository.TrainerRepository,
	programs repository.ProgramRepository,
	gyms repository.GymRepository,
) TraineeService {
	return &traineeService{
		accountCreator: accountCreator{accounts: accounts},
		trainees:       trainees,
		trainers:       trainers,
		programs:       programs,
		gyms:           gyms,
	}
}

// managedTrainee is the ownership used for trainee profile changes: the trainee,
// its coach, or any trainer while nobody coaches it yet.
func managedTrainee(t *domain.Trainee) auth.Ownership {
	if t.TrainerID == nil {
		return auth.OwnedByTrainee(t.ID)
	}
	return auth.CoachedTrainee(t)
}

func (s *traineeService) Create(ctx context.Context, caller *auth.Caller, in CreateTraineeInput) (*domain.Trainee, error) {
	if err := requireRole(caller, domain.RoleAdmin, domain.RoleTrainer); err != nil {
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

	trainee := &domain.Trainee{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	}
	links := UpdateTraineeInput{GymID: in.GymID, TrainerID: in.TrainerID, ProgramID: in.ProgramID}
	if err := s.applyLinks(ctx, trainee, links); err != nil {
		return nil, err
	}
	// trainers creating clients coach them by default
	if trainee.TrainerID == nil && caller.Role == domain.RoleTrainer && caller.TrainerID != nil {
		id := *caller.TrainerID
		trainee.TrainerID = &id
	}

	account, err := s.create(ctx, in.Email, in.Password, domain.RoleTrainee)
	if err != nil {
		return nil, err
	}
	trainee.AccountID = account.ID
	trainee.Email = account.Email
	if _, err := s.trainees.Create(ctx, trainee); err != nil {
		s.removeAccount(ctx, account.ID)
		return nil, err
	}
	log.Infof("trainee %s created by %s", trainee.ID.Hex(), caller.AccountID.Hex())
	return trainee, nil
}

// applyLinks resolves and checks every set gym, trainer and program reference.
func (s *traineeService) applyLinks(ctx context.Context, trainee *domain.Trainee, in UpdateTraineeInput) error {
	if in.GymID != nil {
		id, err := parseOptionalID("gym_id", in.GymID)
		if err != nil {
			return err
		}
		if id != nil {
			if _, err := s.gyms.GetByID(ctx, *id); err != nil {
				return notFoundAs(err, ErrGymNotFound)
			}
		}
		trainee.GymID = id
	}
	if in.TrainerID != nil {
		id, err := parseOptionalID("trainer_id", in.TrainerID)
		if err != nil {
			return err
		}
		if id != nil {
			if _, err := s.trainers.GetByID(ctx, *id); err != nil {
				return notFoundAs(err, ErrTrainerNotFound)
			}
		}
		trainee.TrainerID = id
	}
	if in.ProgramID != nil {
		id, err := parseOptionalID("program_id", in.ProgramID)
		if err != nil {
			return err
		}
		if id != nil {
			if _, err := s.programs.GetByID(ctx, *id); err != nil {
				return notFoundAs(err, ErrProgramNotFound)
			}
		}
		trainee.ProgramID = id
	}
	return nil
}

// Get lets trainees read their own profile only.
// Access is checked before the lookup, so a foreign id is forbidden whether
// or not it exists.
func (s *traineeService) Get(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) (*domain.Trainee, error) {
	if err := authorize(caller, auth.OwnedByTrainee(id), domain.Roles...); err != nil {
		return nil, err
	}
	trainee, err := s.trainees.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrTraineeNotFound)
	}
	return trainee, nil
}

func (s *traineeService) List(ctx context.Context, caller *auth.Caller, filter repository.TraineeFilter, page repository.Page) ([]domain.Trainee, error) {
	if err := requireRole(caller, domain.RoleAdmin, domain.RoleTrainer); err != nil {
		return nil, err
	}
	return s.trainees.List(ctx, filter, page)
}

// Update lets a trainee rename themself. Assignments are for trainers and admins.
func (s *traineeService) Update(ctx context.Context, caller *auth.Caller, id primitive.ObjectID, in UpdateTraineeInput) (*domain.Trainee, error) {
	allowed := domain.Roles
	if in.touchesAssignments() {
		allowed = []domain.Role{domain.RoleAdmin, domain.RoleTrainer}
	}
	if err := authorize(caller, auth.OwnedByTrainee(id), allowed...); err != nil {
		return nil, err
	}
	trainee, err := s.trainees.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrTraineeNotFound)
	}
	if err := authorize(caller, managedTrainee(trainee), allowed...); err != nil {
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
		trainee.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		trainee.LastName = strings.TrimSpace(*in.LastName)
	}
	if err := s.applyLinks(ctx, trainee, in); err != nil {
		return nil, err
	}

	if err := s.trainees.Update(ctx, trainee); err != nil {
		return nil, notFoundAs(err, ErrTraineeNotFound)
	}
	return trainee, nil
}

// AssignProgram links a program to a trainee. A trainer may only hand out
// their own programs. An uncoached trainee is taken over by the program's trainer.
func (s *traineeService) AssignProgram(ctx context.Context, caller *auth.Caller, traineeID, programID primitive.ObjectID) (*domain.Trainee, error) {
	if err := requireRole(caller, domain.RoleAdmin, domain.RoleTrainer); err != nil {
		return nil, err
	}
	trainee, err := s.trainees.GetByID(ctx, traineeID)
	if err != nil {
		return nil, notFoundAs(err, ErrTraineeNotFound)
	}
	if err := authorize(caller, managedTrainee(trainee), domain.RoleAdmin, domain.RoleTrainer); err != nil {
		return nil, err
	}
	program, err := s.programs.GetByID(ctx, programID)
	if err != nil {
		return nil, notFoundAs(err, ErrProgramNotFound)
	}
	if err := authorize(caller, auth.OwnedByTrainer(program.TrainerID), domain.RoleAdmin, domain.RoleTrainer); err != nil {
		return nil, err
	}

	trainee.ProgramID = &program.ID
	if trainee.TrainerID == nil {
		trainerID := program.TrainerID
		trainee.TrainerID = &trainerID
	}
	if err := s.trainees.Update(ctx, trainee); err != nil {
		return nil, notFoundAs(err, ErrTraineeNotFound)
	}
	log.Infof("program %s assigned to trainee %s", program.ID.Hex(), trainee.ID.Hex())
	return trainee, nil
}

func (s *traineeService) Delete(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) error {
	if err := requireRole(caller, domain.RoleAdmin); err != nil {
		return err
	}
	trainee, err := s.trainees.GetByID(ctx, id)
	if err != nil {
		return notFoundAs(err, ErrTraineeNotFound)
	}
	if err := s.trainees.Delete(ctx, id); err != nil {
		return notFoundAs(err, ErrTraineeNotFound)
	}
	s.removeAccount(ctx, trainee.AccountID)
	return nil
}
