package service

import (
	"context"
	"errors"
	"strings"

	"fitcoach/api/internal/auth"
	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProgramInput struct {
	Name        string
	Description string
	// TrainerID picks the owner when an admin creates a program. Trainers always own what they create.
	TrainerID *string
}

// ProgramExerciseInput is one prescribed exercise of a program.
type ProgramExerciseInput struct {
	ProgramID             primitive.ObjectID
	ExerciseID            primitive.ObjectID
	Order                 int
	PrescribedSets        *int
	PrescribedReps        *int
	PrescribedWeightKg    *float64
	PrescribedDurationMin *int
}

type ProgramService interface {
	Create(ctx context.Context, caller *auth.Caller, in ProgramInput) (*domain.Program, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Program, error)
	// List returns every program, or only one trainer's when trainerID is set.
	List(ctx context.Context, trainerID *primitive.ObjectID, page repository.Page) ([]domain.Program, error)
	Update(ctx context.Context, caller *auth.Caller, id primitive.ObjectID, in ProgramInput) (*domain.Program, error)
	Delete(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) error

	Exercises(ctx context.Context, programID primitive.ObjectID) ([]domain.ProgramExercise, error)
	AddExercise(ctx context.Context, caller *auth.Caller, in ProgramExerciseInput) (*domain.ProgramExercise, error)
	GetExercise(ctx context.Context, id primitive.ObjectID) (*domain.ProgramExercise, error)
	UpdateExercise(ctx context.Context, caller *auth.Caller, id primitive.ObjectID, in ProgramExerciseInput) (*domain.ProgramExercise, error)
	RemoveExercise(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) error
}

type programService struct {
	programs         repository.ProgramRepository
	programExercises repository.ProgramExerciseRepository
	exercises        repository.ExerciseRepository
	trainers         repository.TrainerRepository
}

func NewProgramService(
	programs repository.ProgramRepository,
	programExercises repository.ProgramExerciseRepository,
	exercises repository.ExerciseRepository,
	trainers repository.TrainerRepository,
) ProgramService {
	return &programService{
		programs:         programs,
		programExercises: programExercises,
		exercises:        exercises,
		trainers:         trainers,
	}
}

func validateProgram(in ProgramInput) error {
	var v fieldErrors
	v.required("name", in.Name, maxNameLength)
	v.maxLen("description", in.Description, maxDescriptionLength)
	return v.result()
}

func (s *programService) Create(ctx context.Context, caller *auth.Caller, in ProgramInput) (*domain.Program, error) {
	if err := requireRole(caller, domain.RoleAdmin, domain.RoleTrainer); err != nil {
		return nil, err
	}
	if err := validateProgram(in); err != nil {
		return nil, err
	}
	owner, err := s.owner(ctx, caller, in.TrainerID)
	if err != nil {
		return nil, err
	}

	program := &domain.Program{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		TrainerID:   owner,
	}
	if _, err := s.programs.Create(ctx, program); err != nil {
		return nil, err
	}
	log.Infof("program %s created for trainer %s", program.ID.Hex(), owner.Hex())
	return program, nil
}

// owner picks the trainer a new program belongs to.
func (s *programService) owner(ctx context.Context, caller *auth.Caller, requested *string) (primitive.ObjectID, error) {
	switch caller.Role {
	case domain.RoleTrainer:
		if caller.TrainerID == nil {
			return primitive.NilObjectID, ErrTrainerProfileMissing
		}
		return *caller.TrainerID, nil
	case domain.RoleAdmin:
		id, err := parseOptionalID("trainer_id", requested)
		if err != nil {
			return primitive.NilObjectID, err
		}
		if id == nil {
			return primitive.NilObjectID, newError(ErrValidation, "trainer_id is required")
		}
		if _, err := s.trainers.GetByID(ctx, *id); err != nil {
			return primitive.NilObjectID, notFoundAs(err, ErrTrainerNotFound)
		}
		return *id, nil
	default:
		return primitive.NilObjectID, requireRole(caller, domain.RoleAdmin, domain.RoleTrainer)
	}
}

func (s *programService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Program, error) {
	program, err := s.programs.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrProgramNotFound)
	}
	return program, nil
}

func (s *programService) List(ctx context.Context, trainerID *primitive.ObjectID, page repository.Page) ([]domain.Program, error) {
	return s.programs.List(ctx, trainerID, page)
}

// editable loads a program the caller may change.
func (s *programService) editable(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) (*domain.Program, error) {
	if err := requireRole(caller, domain.RoleAdmin, domain.RoleTrainer); err != nil {
		return nil, err
	}
	program, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, auth.OwnedByTrainer(program.TrainerID), domain.RoleAdmin, domain.RoleTrainer); err != nil {
		return nil, err
	}
	return program, nil
}

func (s *programService) Update(ctx context.Context, caller *auth.Caller, id primitive.ObjectID, in ProgramInput) (*domain.Program, error) {
	program, err := s.editable(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := validateProgram(in); err != nil {
		return nil, err
	}
	program.Name = strings.TrimSpace(in.Name)
	program.Description = strings.TrimSpace(in.Description)
	if caller.Role == domain.RoleAdmin && in.TrainerID != nil {
		if program.TrainerID, err = s.owner(ctx, caller, in.TrainerID); err != nil {
			return nil, err
		}
	}
	if err := s.programs.Update(ctx, program); err != nil {
		return nil, notFoundAs(err, ErrProgramNotFound)
	}
	return program, nil
}

// Delete drops the program together with its prescribed exercises.
func (s *programService) Delete(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) error {
	if _, err := s.editable(ctx, caller, id); err != nil {
		return err
	}
	if err := s.programExercises.DeleteByProgram(ctx, id); err != nil {
		return err
	}
	return notFoundAs(s.programs.Delete(ctx, id), ErrProgramNotFound)
}

func (s *programService) Exercises(ctx context.Context, programID primitive.ObjectID) ([]domain.ProgramExercise, error) {
	if _, err := s.Get(ctx, programID); err != nil {
		return nil, err
	}
	return s.programExercises.ListByProgram(ctx, programID)
}

func validateProgramExercise(in ProgramExerciseInput) error {
	var v fieldErrors
	if in.Order < 1 {
		v.add("order must be a positive integer")
	}
	v.nonNegativeInt("prescribed_sets", in.PrescribedSets)
	v.nonNegativeInt("prescribed_reps", in.PrescribedReps)
	v.nonNegativeFloat("prescribed_weight_kg", in.PrescribedWeightKg)
	v.nonNegativeInt("prescribed_duration_min", in.PrescribedDurationMin)
	return v.result()
}

// checkOrder rejects an order already used by another entry of the program.
func (s *programService) checkOrder(ctx context.Context, programID primitive.ObjectID, order int, self primitive.ObjectID) error {
	existing, err := s.programExercises.GetByProgramAndOrder(ctx, programID, order)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID == self:
		return nil
	default:
		return ErrOrderTaken
	}
}

func (s *programService) AddExercise(ctx context.Context, caller *auth.Caller, in ProgramExerciseInput) (*domain.ProgramExercise, error) {
	if _, err := s.editable(ctx, caller, in.ProgramID); err != nil {
		return nil, err
	}
	if err := validateProgramExercise(in); err != nil {
		return nil, err
	}
	if _, err := s.exercises.GetByID(ctx, in.ExerciseID); err != nil {
		return nil, notFoundAs(err, ErrExerciseNotFound)
	}
	if err := s.checkOrder(ctx, in.ProgramID, in.Order, primitive.NilObjectID); err != nil {
		return nil, err
	}

	pe := &domain.ProgramExercise{
		ProgramID:             in.ProgramID,
		ExerciseID:            in.ExerciseID,
		Order:                 in.Order,
		PrescribedSets:        in.PrescribedSets,
		PrescribedReps:        in.PrescribedReps,
		PrescribedWeightKg:    in.PrescribedWeightKg,
		PrescribedDurationMin: in.PrescribedDurationMin,
	}
	if _, err := s.programExercises.Create(ctx, pe); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrOrderTaken
		}
		return nil, err
	}
	return pe, nil
}

func (s *programService) GetExercise(ctx context.Context, id primitive.ObjectID) (*domain.ProgramExercise, error) {
	pe, err := s.programExercises.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrProgramExerciseNotFound)
	}
	return pe, nil
}

// UpdateExercise replaces the prescription. The program link never moves.
func (s *programService) UpdateExercise(ctx context.Context, caller *auth.Caller, id primitive.ObjectID, in ProgramExerciseInput) (*domain.ProgramExercise, error) {
	pe, err := s.GetExercise(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.editable(ctx, caller, pe.ProgramID); err != nil {
		return nil, err
	}
	if err := validateProgramExercise(in); err != nil {
		return nil, err
	}
	if in.ExerciseID != pe.ExerciseID {
		if _, err := s.exercises.GetByID(ctx, in.ExerciseID); err != nil {
			return nil, notFoundAs(err, ErrExerciseNotFound)
		}
	}
	if err := s.checkOrder(ctx, pe.ProgramID, in.Order, pe.ID); err != nil {
		return nil, err
	}

	pe.ExerciseID = in.ExerciseID
	pe.Order = in.Order
	pe.PrescribedSets = in.PrescribedSets
	pe.PrescribedReps = in.PrescribedReps
	pe.PrescribedWeightKg = in.PrescribedWeightKg
	pe.PrescribedDurationMin = in.PrescribedDurationMin
	if err := s.programExercises.Update(ctx, pe); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrOrderTaken
		}
		return nil, notFoundAs(err, ErrProgramExerciseNotFound)
	}
	return pe, nil
}

func (s *programService) RemoveExercise(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) error {
	pe, err := s.GetExercise(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.editable(ctx, caller, pe.ProgramID); err != nil {
		return err
	}
	return notFoundAs(s.programExercises.Delete(ctx, id), ErrProgramExerciseNotFound)
}
