package auth

import (
	"errors"

	"fitcoach/api/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrRoleNotAllowed = errors.New("role not allowed")
	ErrNotOwner       = errors.New("not the owner of this resource")
)

// Caller is the authenticated account behind a request, with its profile ids resolved.
type Caller struct {
	AccountID primitive.ObjectID
	Email     string
	Role      domain.Role
	TraineeID *primitive.ObjectID // set when the account has a trainee profile
	TrainerID *primitive.ObjectID // set when the account has a trainer profile
}

// Ownership describes who a resource belongs to.
// A nil TrainerID leaves trainers unrestricted on the resource.
type Ownership struct {
	TraineeID *primitive.ObjectID
	TrainerID *primitive.ObjectID
}

// OwnedByTrainee is the ownership of trainee data that any trainer may manage.
func OwnedByTrainee(id primitive.ObjectID) Ownership {
	return Ownership{TraineeID: &id}
}

// OwnedByTrainer scopes a resource to one trainer.
func OwnedByTrainer(id primitive.ObjectID) Ownership {
	return Ownership{TrainerID: &id}
}

// CoachedTrainee scopes trainee data to the trainee and their assigned trainer.
// A trainee without a trainer is visible to no trainer.
func CoachedTrainee(trainee *domain.Trainee) Ownership {
	trainerID := primitive.NilObjectID
	if trainee.TrainerID != nil {
		trainerID = *trainee.TrainerID
	}
	return Ownership{TraineeID: &trainee.ID, TrainerID: &trainerID}
}

// RequireRole fails when the caller's role is not listed.
func RequireRole(caller *Caller, allowed ...domain.Role) error {
	if caller == nil {
		return ErrRoleNotAllowed
	}
	for _, role := range allowed {
		if caller.Role == role {
			return nil
		}
	}
	return ErrRoleNotAllowed
}

// Authorize checks the role first, then ownership of the resource.
func Authorize(caller *Caller, res Ownership, allowed ...domain.Role) error {
	if err := RequireRole(caller, allowed...); err != nil {
		return err
	}

	switch caller.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleTrainer:
		if res.TrainerID == nil {
			return nil
		}
		if caller.TrainerID != nil && *caller.TrainerID == *res.TrainerID {
			return nil
		}
		return ErrNotOwner
	case domain.RoleTrainee:
		if res.TraineeID != nil && caller.TraineeID != nil && *caller.TraineeID == *res.TraineeID {
			return nil
		}
		return ErrNotOwner
	default:
		return ErrRoleNotAllowed
	}
}
