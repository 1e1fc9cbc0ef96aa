package service

import (
	"errors"

	"fitcoach/api/internal/auth"
	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/repository"
)

// Error kinds. Handlers map these onto HTTP status codes with errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrDuplicate       = errors.New("duplicate resource")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInvalidState    = errors.New("invalid state")
)

// serviceError carries a human-readable detail and unwraps to its kind.
type serviceError struct {
	kind   error
	detail string
	cause  error
}

func (e *serviceError) Error() string { return e.detail }

func (e *serviceError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.kind, e.cause}
	}
	return []error{e.kind}
}

func newError(kind error, detail string) error {
	return &serviceError{kind: kind, detail: detail}
}

func wrapError(kind error, detail string, cause error) error {
	return &serviceError{kind: kind, detail: detail, cause: cause}
}

// Concrete errors shared by several services.
var (
	ErrIncorrectCredentials = newError(ErrUnauthenticated, "Incorrect email or password")
	ErrCouldNotValidate     = newError(ErrUnauthenticated, "Could not validate credentials")
	ErrInactiveAccount      = newError(ErrUnauthenticated, "Inactive user")
	ErrUserNotFound         = newError(ErrNotFound, "User not found")
	ErrEmailTaken           = newError(ErrDuplicate, "Email already registered")

	ErrTraineeNotFound         = newError(ErrNotFound, "Trainee not found")
	ErrTrainerNotFound         = newError(ErrNotFound, "Trainer not found")
	ErrTrainerProfileMissing   = newError(ErrNotFound, "Trainer profile not found")
	ErrTraineeProfileMissing   = newError(ErrNotFound, "Trainee profile not found")
	ErrGymNotFound             = newError(ErrNotFound, "Gym not found")
	ErrProgramNotFound         = newError(ErrNotFound, "Program not found")
	ErrProgramExerciseNotFound = newError(ErrNotFound, "Program exercise not found")
	ErrExerciseNotFound        = newError(ErrNotFound, "Exercise not found")
	ErrSessionNotFound         = newError(ErrNotFound, "Workout session not found")
	ErrExerciseLogNotFound     = newError(ErrNotFound, "Exercise log not found")
	ErrHealthMetricNotFound    = newError(ErrNotFound, "Health metric not found")
	ErrVideoStorageDisabled    = newError(ErrInvalidState, "Video storage is not configured")

	ErrExerciseNameTaken = newError(ErrDuplicate, "Exercise with this name already exists")
	ErrOrderTaken        = newError(ErrDuplicate, "Program already has an exercise at this order")

	ErrSessionNotInProgress = newError(ErrInvalidState, "Workout session is not in-progress")
	ErrSessionNotPlanned    = newError(ErrInvalidState, "Workout session is not planned")
	ErrSessionCompleted     = newError(ErrInvalidState, "Workout session is already completed")

	// Auto-complete preconditions surface as 400 like other invalid states.
	ErrMissingProgram = newError(ErrInvalidState, "Cannot auto-complete a session without a linked program")
	ErrEmptyProgram   = newError(ErrInvalidState, "Linked program has no exercises to log")
)

// authorize runs the shared access policy and converts its failure into ErrForbidden.
func authorize(caller *auth.Caller, res auth.Ownership, allowed ...domain.Role) error {
	return forbidden(auth.Authorize(caller, res, allowed...))
}

func requireRole(caller *auth.Caller, allowed ...domain.Role) error {
	return forbidden(auth.RequireRole(caller, allowed...))
}

func forbidden(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, auth.ErrNotOwner):
		return wrapError(ErrForbidden, "Not enough permissions", err)
	default:
		return wrapError(ErrForbidden, "The user doesn't have enough privileges", err)
	}
}

// notFoundAs swaps repository.ErrNotFound for a service level not-found error.
func notFoundAs(err error, notFound error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return err
}

// denyWith replaces the detail of an ownership failure.
func denyWith(err error, detail string) error {
	if errors.Is(err, auth.ErrNotOwner) {
		return wrapError(ErrForbidden, detail, auth.ErrNotOwner)
	}
	return err
}
