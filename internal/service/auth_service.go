package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"fitcoach/api/internal/auth"
	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput is a trainee self-registration.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	GymID     *string
}

// Profile is an account together with whichever profiles it owns.
type Profile struct {
	Account *domain.Account
	Trainee *domain.Trainee
	Trainer *domain.Trainer
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Trainee, error)
	Login(ctx context.Context, email, password string) (*auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	// CurrentCaller resolves an access token into the account behind it.
	CurrentCaller(ctx context.Context, accessToken string) (*auth.Caller, error)
	Me(ctx context.Context, caller *auth.Caller) (*Profile, error)
	ChangeRole(ctx context.Context, caller *auth.Caller, accountID primitive.ObjectID, role domain.Role) (*domain.Account, error)
	RefreshTTL() time.Duration
}

type authService struct {
	accountCreator
	trainees repository.TraineeRepository
	trainers repository.TrainerRepository
	gyms     repository.GymRepository
	tokens   *auth.TokenManager
}

func NewAuthService(
	accounts repository.AccountRepository,
	trainees repository.TraineeRepository,
	trainers repository.TrainerRepository,
	gyms repository.GymRepository,
	tokens *auth.TokenManager,
) AuthService {
	if tokens == nil {
		panic("token manager cannot be nil")
	}
	return &authService{
		accountCreator: accountCreator{accounts: accounts},
		trainees:       trainees,
		trainers:       trainers,
		gyms:           gyms,
		tokens:         tokens,
	}
}

// Register signs up a trainee: an account with the trainee role plus its profile.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*domain.Trainee, error) {
	// 1. Validate everything up front
	var v fieldErrors
	v.email(in.Email)
	v.password(in.Password)
	v.name("first_name", in.FirstName)
	v.name("last_name", in.LastName)
	if err := v.result(); err != nil {
		return nil, err
	}
	gymID, err := parseOptionalID("gym_id", in.GymID)
	if err != nil {
		return nil, err
	}
	if gymID != nil {
		if _, err := s.gyms.GetByID(ctx, *gymID); err != nil {
			return nil, notFoundAs(err, ErrGymNotFound)
		}
	}

	// 2. Account first, so the email uniqueness check guards the profile too
	account, err := s.create(ctx, in.Email, in.Password, domain.RoleTrainee)
	if err != nil {
		return nil, err
	}

	// 3. Profile
	trainee := &domain.Trainee{
		AccountID: account.ID,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     account.Email,
		GymID:     gymID,
	}
	if _, err := s.trainees.Create(ctx, trainee); err != nil {
		s.removeAccount(ctx, account.ID)
		return nil, err
	}
	log.Infof("registered trainee %s (account %s)", trainee.ID.Hex(), account.ID.Hex())
	return trainee, nil
}

// Login checks the password and issues a token pair. Unknown emails and wrong
// passwords fail the same way.
func (s *authService) Login(ctx context.Context, email, password string) (*auth.TokenPair, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrIncorrectCredentials
	}
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrIncorrectCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrIncorrectCredentials
	}
	if !account.IsActive {
		return nil, ErrInactiveAccount
	}
	return s.tokens.IssuePair(account.ID.Hex())
}

// Refresh trades a valid refresh token for a new pair. Old refresh tokens are
// not revoked and stay usable until they expire.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.tokens.VerifyType(refreshToken, auth.RefreshToken)
	if err != nil {
		return nil, wrapError(ErrUnauthenticated, "Invalid refresh token", err)
	}
	account, err := s.accountFromSubject(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	return s.tokens.IssuePair(account.ID.Hex())
}

func (s *authService) CurrentCaller(ctx context.Context, accessToken string) (*auth.Caller, error) {
	claims, err := s.tokens.VerifyType(accessToken, auth.AccessToken)
	if err != nil {
		return nil, wrapError(ErrUnauthenticated, ErrCouldNotValidate.Error(), err)
	}
	account, err := s.accountFromSubject(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}

	caller := &auth.Caller{AccountID: account.ID, Email: account.Email, Role: account.Role}
	if trainee, err := s.trainees.GetByAccountID(ctx, account.ID); err == nil {
		caller.TraineeID = &trainee.ID
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if trainer, err := s.trainers.GetByAccountID(ctx, account.ID); err == nil {
		caller.TrainerID = &trainer.ID
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return caller, nil
}

func (s *authService) accountFromSubject(ctx context.Context, subject string) (*domain.Account, error) {
	id, err := primitive.ObjectIDFromHex(subject)
	if err != nil {
		return nil, ErrCouldNotValidate
	}
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	if !account.IsActive {
		return nil, ErrInactiveAccount
	}
	return account, nil
}

func (s *authService) Me(ctx context.Context, caller *auth.Caller) (*Profile, error) {
	account, err := s.accounts.GetByID(ctx, caller.AccountID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	profile := &Profile{Account: account}
	if caller.TraineeID != nil {
		if profile.Trainee, err = s.trainees.GetByID(ctx, *caller.TraineeID); err != nil {
			return nil, notFoundAs(err, ErrTraineeProfileMissing)
		}
	}
	if caller.TrainerID != nil {
		if profile.Trainer, err = s.trainers.GetByID(ctx, *caller.TrainerID); err != nil {
			return nil, notFoundAs(err, ErrTrainerProfileMissing)
		}
	}
	return profile, nil
}

// ChangeRole is admin only.
func (s *authService) ChangeRole(ctx context.Context, caller *auth.Caller, accountID primitive.ObjectID, role domain.Role) (*domain.Account, error) {
	if err := requireRole(caller, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, newError(ErrValidation, "role must be one of admin, trainer, trainee")
	}
	if err := s.accounts.UpdateRole(ctx, accountID, role); err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	log.Infof("account %s role changed to %s by %s", accountID.Hex(), role, caller.AccountID.Hex())
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	return account, nil
}

func (s *authService) RefreshTTL() time.Duration {
	return s.tokens.RefreshTTL()
}
