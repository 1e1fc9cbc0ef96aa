package memory

import (
	"context"
	"sort"

	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type programRepo struct{ s *Store }

func (r *programRepo) Create(_ context.Context, program *domain.Program) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	program.ID = primitive.NewObjectID()
	program.CreatedAt = r.s.now()
	program.UpdatedAt = program.CreatedAt
	r.s.programs[program.ID] = *program
	return program.ID, nil
}

func (r *programRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Program, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	program, ok := r.s.programs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &program, nil
}

func (r *programRepo) filtered(trainerID *primitive.ObjectID) []domain.Program {
	programs := []domain.Program{}
	for _, program := range r.s.programs {
		if trainerID != nil && program.TrainerID != *trainerID {
			continue
		}
		programs = append(programs, program)
	}
	return programs
}

func (r *programRepo) List(_ context.Context, trainerID *primitive.ObjectID, page repository.Page) ([]domain.Program, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	programs := r.filtered(trainerID)
	sort.Slice(programs, func(i, j int) bool { return programs[i].CreatedAt.After(programs[j].CreatedAt) })
	return paginate(programs, page), nil
}

func (r *programRepo) Count(_ context.Context, trainerID *primitive.ObjectID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.filtered(trainerID))), nil
}

func (r *programRepo) Update(_ context.Context, program *domain.Program) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.programs[program.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name = program.Name
	stored.Description = program.Description
	stored.UpdatedAt = r.s.now()
	r.s.programs[program.ID] = stored
	*program = stored
	return nil
}

func (r *programRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.programs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.programs, id)
	return nil
}

type programExerciseRepo struct{ s *Store }

func (r *programExerciseRepo) orderTaken(pe *domain.ProgramExercise) bool {
	for _, existing := range r.s.programExercises {
		if existing.ID != pe.ID && existing.ProgramID == pe.ProgramID && existing.Order == pe.Order {
			return true
		}
	}
	return false
}

func (r *programExerciseRepo) Create(_ context.Context, pe *domain.ProgramExercise) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	pe.ID = primitive.NewObjectID()
	if r.orderTaken(pe) {
		return primitive.NilObjectID, repository.ErrDuplicateKey
	}
	pe.CreatedAt = r.s.now()
	pe.UpdatedAt = pe.CreatedAt
	r.s.programExercises[pe.ID] = *pe
	return pe.ID, nil
}

func (r *programExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.ProgramExercise, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	pe, ok := r.s.programExercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &pe, nil
}

func (r *programExerciseRepo) GetByProgramAndOrder(_ context.Context, programID primitive.ObjectID, order int) (*domain.ProgramExercise, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, pe := range r.s.programExercises {
		if pe.ProgramID == programID && pe.Order == order {
			return &pe, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *programExerciseRepo) ListByProgram(_ context.Context, programID primitive.ObjectID) ([]domain.ProgramExercise, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	entries := []domain.ProgramExercise{}
	for _, pe := range r.s.programExercises {
		if pe.ProgramID == programID {
			entries = append(entries, pe)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Order < entries[j].Order })
	return entries, nil
}

func (r *programExerciseRepo) Update(_ context.Context, pe *domain.ProgramExercise) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.programExercises[pe.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.orderTaken(pe) {
		return repository.ErrDuplicateKey
	}
	pe.UpdatedAt = r.s.now()
	r.s.programExercises[pe.ID] = *pe
	return nil
}

func (r *programExerciseRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.programExercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.programExercises, id)
	return nil
}

func (r *programExerciseRepo) DeleteByProgram(_ context.Context, programID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, pe := range r.s.programExercises {
		if pe.ProgramID == programID {
			delete(r.s.programExercises, id)
		}
	}
	return nil
}

type exerciseRepo struct{ s *Store }

func (r *exerciseRepo) nameTaken(exercise *domain.Exercise) bool {
	for _, existing := range r.s.exercises {
		if existing.ID != exercise.ID && existing.Name == exercise.Name {
			return true
		}
	}
	return false
}

func (r *exerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	exercise.ID = primitive.NewObjectID()
	if r.nameTaken(exercise) {
		return primitive.NilObjectID, repository.ErrDuplicateKey
	}
	exercise.CreatedAt = r.s.now()
	exercise.UpdatedAt = exercise.CreatedAt
	r.s.exercises[exercise.ID] = *exercise
	return exercise.ID, nil
}

func (r *exerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	exercise, ok := r.s.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &exercise, nil
}

func (r *exerciseRepo) GetByName(_ context.Context, name string) (*domain.Exercise, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, exercise := range r.s.exercises {
		if exercise.Name == name {
			return &exercise, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *exerciseRepo) List(_ context.Context, page repository.Page) ([]domain.Exercise, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	exercises := make([]domain.Exercise, 0, len(r.s.exercises))
	for _, exercise := range r.s.exercises {
		exercises = append(exercises, exercise)
	}
	sort.Slice(exercises, func(i, j int) bool { return exercises[i].Name < exercises[j].Name })
	return paginate(exercises, page), nil
}

func (r *exerciseRepo) Update(_ context.Context, exercise *domain.Exercise) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.exercises[exercise.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.nameTaken(exercise) {
		return repository.ErrDuplicateKey
	}
	exercise.CreatedAt = stored.CreatedAt
	exercise.UpdatedAt = r.s.now()
	r.s.exercises[exercise.ID] = *exercise
	return nil
}

func (r *exerciseRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.exercises, id)
	return nil
}
