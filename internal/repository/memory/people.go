package memory

import (
	"context"
	"sort"
	"strings"

	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type accountRepo struct{ s *Store }

func (r *accountRepo) Create(_ context.Context, account *domain.Account) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	account.Email = strings.ToLower(account.Email)
	for _, existing := range r.s.accounts {
		if existing.Email == account.Email {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	account.ID = primitive.NewObjectID()
	account.CreatedAt = r.s.now()
	account.UpdatedAt = account.CreatedAt
	r.s.accounts[account.ID] = *account
	return account.ID, nil
}

func (r *accountRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	account, ok := r.s.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &account, nil
}

func (r *accountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	email = strings.ToLower(email)
	for _, account := range r.s.accounts {
		if account.Email == email {
			return &account, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *accountRepo) UpdateRole(_ context.Context, id primitive.ObjectID, role domain.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	account, ok := r.s.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	account.Role = role
	account.UpdatedAt = r.s.now()
	r.s.accounts[id] = account
	return nil
}

func (r *accountRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.accounts, id)
	return nil
}

type gymRepo struct{ s *Store }

func (r *gymRepo) Create(_ context.Context, gym *domain.Gym) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	gym.ID = primitive.NewObjectID()
	gym.CreatedAt = r.s.now()
	gym.UpdatedAt = gym.CreatedAt
	r.s.gyms[gym.ID] = *gym
	return gym.ID, nil
}

func (r *gymRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Gym, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	gym, ok := r.s.gyms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &gym, nil
}

func (r *gymRepo) List(_ context.Context, page repository.Page) ([]domain.Gym, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	gyms := make([]domain.Gym, 0, len(r.s.gyms))
	for _, gym := range r.s.gyms {
		gyms = append(gyms, gym)
	}
	sort.Slice(gyms, func(i, j int) bool { return gyms[i].Name < gyms[j].Name })
	return paginate(gyms, page), nil
}

func (r *gymRepo) Update(_ context.Context, gym *domain.Gym) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.gyms[gym.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name = gym.Name
	stored.Address = gym.Address
	stored.UpdatedAt = r.s.now()
	r.s.gyms[gym.ID] = stored
	*gym = stored
	return nil
}

func (r *gymRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.gyms[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.gyms, id)
	return nil
}

type traineeRepo struct{ s *Store }

func (r *traineeRepo) Create(_ context.Context, trainee *domain.Trainee) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.trainees {
		if existing.AccountID == trainee.AccountID {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	trainee.ID = primitive.NewObjectID()
	trainee.CreatedAt = r.s.now()
	trainee.UpdatedAt = trainee.CreatedAt
	r.s.trainees[trainee.ID] = *trainee
	return trainee.ID, nil
}

func (r *traineeRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Trainee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	trainee, ok := r.s.trainees[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &trainee, nil
}

func (r *traineeRepo) GetByAccountID(_ context.Context, accountID primitive.ObjectID) (*domain.Trainee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, trainee := range r.s.trainees {
		if trainee.AccountID == accountID {
			return &trainee, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *traineeRepo) filtered(filter repository.TraineeFilter) []domain.Trainee {
	trainees := []domain.Trainee{}
	for _, trainee := range r.s.trainees {
		if filter.TrainerID != nil && !sameID(trainee.TrainerID, *filter.TrainerID) {
			continue
		}
		if filter.GymID != nil && !sameID(trainee.GymID, *filter.GymID) {
			continue
		}
		trainees = append(trainees, trainee)
	}
	return trainees
}

func (r *traineeRepo) List(_ context.Context, filter repository.TraineeFilter, page repository.Page) ([]domain.Trainee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	trainees := r.filtered(filter)
	sort.Slice(trainees, func(i, j int) bool {
		if trainees[i].LastName != trainees[j].LastName {
			return trainees[i].LastName < trainees[j].LastName
		}
		return trainees[i].FirstName < trainees[j].FirstName
	})
	return paginate(trainees, page), nil
}

func (r *traineeRepo) Count(_ context.Context, filter repository.TraineeFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.filtered(filter))), nil
}

func (r *traineeRepo) Update(_ context.Context, trainee *domain.Trainee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.trainees[trainee.ID]; !ok {
		return repository.ErrNotFound
	}
	trainee.UpdatedAt = r.s.now()
	r.s.trainees[trainee.ID] = *trainee
	return nil
}

func (r *traineeRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.trainees[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.trainees, id)
	return nil
}

type trainerRepo struct{ s *Store }

func (r *trainerRepo) Create(_ context.Context, trainer *domain.Trainer) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.trainers {
		if existing.AccountID == trainer.AccountID {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	trainer.ID = primitive.NewObjectID()
	trainer.CreatedAt = r.s.now()
	trainer.UpdatedAt = trainer.CreatedAt
	r.s.trainers[trainer.ID] = *trainer
	return trainer.ID, nil
}

func (r *trainerRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Trainer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	trainer, ok := r.s.trainers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &trainer, nil
}

func (r *trainerRepo) GetByAccountID(_ context.Context, accountID primitive.ObjectID) (*domain.Trainer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, trainer := range r.s.trainers {
		if trainer.AccountID == accountID {
			return &trainer, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *trainerRepo) List(_ context.Context, page repository.Page) ([]domain.Trainer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	trainers := make([]domain.Trainer, 0, len(r.s.trainers))
	for _, trainer := range r.s.trainers {
		trainers = append(trainers, trainer)
	}
	sort.Slice(trainers, func(i, j int) bool {
		if trainers[i].LastName != trainers[j].LastName {
			return trainers[i].LastName < trainers[j].LastName
		}
		return trainers[i].FirstName < trainers[j].FirstName
	})
	return paginate(trainers, page), nil
}

func (r *trainerRepo) Update(_ context.Context, trainer *domain.Trainer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.trainers[trainer.ID]; !ok {
		return repository.ErrNotFound
	}
	trainer.UpdatedAt = r.s.now()
	r.s.trainers[trainer.ID] = *trainer
	return nil
}

func (r *trainerRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.trainers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.trainers, id)
	return nil
}
