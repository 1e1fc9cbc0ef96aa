package service

import (
	"testing"

	"fitcoach/api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	f := newFixture(t)

	trainee, err := f.svc.Auth.Register(f.ctx, RegisterInput{
		Email:     "Jane@Example.com",
		Password:  testPassword,
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	assert.False(t, trainee.ID.IsZero())
	assert.Equal(t, "jane@example.com", trainee.Email)

	_, err = f.svc.Auth.Login(f.ctx, "jane@example.com", "wrong-password1")
	assert.Equal(t, ErrIncorrectCredentials, err)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.svc.Auth.Login(f.ctx, "nobody@example.com", testPassword)
	assert.Equal(t, ErrIncorrectCredentials, err)

	pair, err := f.svc.Auth.Login(f.ctx, "jane@example.com", testPassword)
	require.NoError(t, err)
	assert.Equal(t, "bearer", pair.TokenType)

	caller, err := f.svc.Auth.CurrentCaller(f.ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTrainee, caller.Role)
	require.NotNil(t, caller.TraineeID)
	assert.Equal(t, trainee.ID, *caller.TraineeID)
	assert.Nil(t, caller.TrainerID)

	profile, err := f.svc.Auth.Me(f.ctx, caller)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", profile.Account.Email)
	require.NotNil(t, profile.Trainee)
	assert.Equal(t, "Jane", profile.Trainee.FirstName)
	assert.Nil(t, profile.Trainer)

	// the refresh token is not an access token
	_, err = f.svc.Auth.CurrentCaller(f.ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	refreshed, err := f.svc.Auth.Refresh(f.ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = f.svc.Auth.Refresh(f.ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthService_Login_NormalizesEmail(t *testing.T) {
	f := newFixture(t)
	trainee, err := f.svc.Auth.Register(f.ctx, RegisterInput{
		Email:     " jane@example.com ",
		Password:  testPassword,
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", trainee.Email)

	testCases := []struct {
		name  string
		email string
	}{
		{name: "as registered", email: " jane@example.com "},
		{name: "stored form", email: "jane@example.com"},
		{name: "mixed case", email: "JANE@Example.com"},
		{name: "trailing newline", email: "jane@example.com\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pair, err := f.svc.Auth.Login(f.ctx, tc.email, testPassword)
			require.NoError(t, err)
			assert.NotEmpty(t, pair.AccessToken)
		})
	}

	_, err = f.svc.Auth.Login(f.ctx, "   ", testPassword)
	assert.Equal(t, ErrIncorrectCredentials, err)
}

func TestAuthService_Register_Rejected(t *testing.T) {
	f := newFixture(t)
	f.registerTrainee(t, "jane@example.com")

	testCases := []struct {
		name     string
		in       RegisterInput
		wantErr  error
		contains []string
	}{
		{
			name:    "email taken ignoring case",
			in:      RegisterInput{Email: "JANE@example.com", Password: testPassword, FirstName: "Jane", LastName: "Roe"},
			wantErr: ErrDuplicate,
		},
		{
			name:    "every problem reported at once",
			in:      RegisterInput{Email: "not-an-email", Password: "short", FirstName: "", LastName: "R2-D2!"},
			wantErr: ErrValidation,
			contains: []string{
				"email must be a valid address",
				"password must be at least 8 characters",
				"first_name cannot be empty",
				"last_name can only contain letters, numbers, spaces, hyphens, and apostrophes",
			},
		},
		{
			name:     "password without digit",
			in:       RegisterInput{Email: "joe@example.com", Password: "password", FirstName: "Joe", LastName: "Roe"},
			wantErr:  ErrValidation,
			contains: []string{"password must contain at least one number"},
		},
		{
			name:    "unknown gym",
			in:      RegisterInput{Email: "joe@example.com", Password: testPassword, FirstName: "Joe", LastName: "Roe", GymID: strPtr(primitive.NewObjectID().Hex())},
			wantErr: ErrNotFound,
		},
		{
			name:    "malformed gym id",
			in:      RegisterInput{Email: "joe@example.com", Password: testPassword, FirstName: "Joe", LastName: "Roe", GymID: strPtr("gym-1")},
			wantErr: ErrValidation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Auth.Register(f.ctx, tc.in)
			require.ErrorIs(t, err, tc.wantErr)
			for _, msg := range tc.contains {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}

	// nothing half-created is left behind
	_, err := f.repos.Accounts.GetByEmail(f.ctx, "joe@example.com")
	assert.Error(t, err)
}

func TestAuthService_ChangeRole(t *testing.T) {
	f := newFixture(t)
	_, jane := f.registerTrainee(t, "jane@example.com")

	_, err := f.svc.Auth.ChangeRole(f.ctx, jane, jane.AccountID, domain.RoleAdmin)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.Auth.ChangeRole(f.ctx, f.admin, jane.AccountID, domain.Role("coach"))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Auth.ChangeRole(f.ctx, f.admin, primitive.NewObjectID(), domain.RoleTrainer)
	assert.Equal(t, ErrUserNotFound, err)

	account, err := f.svc.Auth.ChangeRole(f.ctx, f.admin, jane.AccountID, domain.RoleTrainer)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTrainer, account.Role)

	// the new role applies to the next request
	promoted := f.callerFor(t, "jane@example.com")
	assert.Equal(t, domain.RoleTrainer, promoted.Role)
}
