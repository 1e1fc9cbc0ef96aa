package auth

import (
	"testing"
	"time"

	"fitcoach/api/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestManager(t *testing.T) *TokenManager {
	t.Helper()
	m, err := NewTokenManager("test-secret", "fitcoach-test", time.Hour, 7)
	require.NoError(t, err)
	return m
}

func TestNewTokenManager_Invalid(t *testing.T) {
	_, err := NewTokenManager("", "iss", time.Hour, 7)
	assert.Error(t, err)
	_, err = NewTokenManager("secret", "iss", 0, 7)
	assert.Error(t, err)
	_, err = NewTokenManager("secret", "iss", time.Hour, 0)
	assert.Error(t, err)
}

func TestTokenManager_IssuePair(t *testing.T) {
	m := newTestManager(t)

	pair, err := m.IssuePair("subject-1")
	require.NoError(t, err)
	assert.Equal(t, BearerTokenType, pair.TokenType)

	access, err := m.VerifyType(pair.AccessToken, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "subject-1", access.Subject)
	assert.Equal(t, "fitcoach-test", access.Issuer)

	refresh, err := m.VerifyType(pair.RefreshToken, RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "subject-1", refresh.Subject)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), refresh.ExpiresAt.Time, time.Minute)
	assert.Equal(t, 7*24*time.Hour, m.RefreshTTL())
}

func TestTokenManager_VerifyType_WrongType(t *testing.T) {
	m := newTestManager(t)
	pair, err := m.IssuePair("subject-1")
	require.NoError(t, err)

	_, err = m.VerifyType(pair.AccessToken, RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = m.VerifyType(pair.RefreshToken, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Verify_Rejects(t *testing.T) {
	m := newTestManager(t)
	other, err := NewTokenManager("other-secret", "fitcoach-test", time.Hour, 7)
	require.NoError(t, err)

	foreign, err := other.IssueAccess("subject-1", time.Hour)
	require.NoError(t, err)

	expired, err := m.IssueAccess("subject-1", -time.Minute)
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		Type:             AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "subject-1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	testCases := []struct {
		name  string
		token string
	}{
		{name: "signed with another secret", token: foreign},
		{name: "expired", token: expired},
		{name: "none algorithm", token: noneAlg},
		{name: "malformed", token: "not.a.token"},
		{name: "empty", token: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := m.Verify(tc.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenManager_EmptySubject(t *testing.T) {
	m := newTestManager(t)
	_, err := m.IssueAccess("", time.Hour)
	assert.Error(t, err)
}

func TestAuthorize(t *testing.T) {
	traineeID := primitive.NewObjectID()
	otherTraineeID := primitive.NewObjectID()
	trainerID := primitive.NewObjectID()
	otherTrainerID := primitive.NewObjectID()

	admin := &Caller{AccountID: primitive.NewObjectID(), Role: domain.RoleAdmin}
	trainer := &Caller{AccountID: primitive.NewObjectID(), Role: domain.RoleTrainer, TrainerID: &trainerID}
	trainee := &Caller{AccountID: primitive.NewObjectID(), Role: domain.RoleTrainee, TraineeID: &traineeID}

	coached := &domain.Trainee{ID: traineeID, TrainerID: &trainerID}
	uncoached := &domain.Trainee{ID: otherTraineeID}

	testCases := []struct {
		name    string
		caller  *Caller
		res     Ownership
		roles   []domain.Role
		wantErr error
	}{
		{name: "admin bypasses ownership", caller: admin, res: OwnedByTrainer(otherTrainerID), roles: domain.Roles},
		{name: "trainee owns record", caller: trainee, res: OwnedByTrainee(traineeID), roles: domain.Roles},
		{name: "trainee foreign record", caller: trainee, res: OwnedByTrainee(otherTraineeID), roles: domain.Roles, wantErr: ErrNotOwner},
		{name: "trainer unrestricted on trainee data", caller: trainer, res: OwnedByTrainee(otherTraineeID), roles: domain.Roles},
		{name: "trainer owns program", caller: trainer, res: OwnedByTrainer(trainerID), roles: domain.Roles},
		{name: "trainer foreign program", caller: trainer, res: OwnedByTrainer(otherTrainerID), roles: domain.Roles, wantErr: ErrNotOwner},
		{name: "trainer coaches trainee", caller: trainer, res: CoachedTrainee(coached), roles: domain.Roles},
		{name: "trainer does not coach", caller: trainer, res: CoachedTrainee(uncoached), roles: domain.Roles, wantErr: ErrNotOwner},
		{name: "role not allowed", caller: trainee, res: OwnedByTrainee(traineeID), roles: []domain.Role{domain.RoleAdmin}, wantErr: ErrRoleNotAllowed},
		{name: "nil caller", caller: nil, res: OwnedByTrainee(traineeID), roles: domain.Roles, wantErr: ErrRoleNotAllowed},
		{name: "unknown role", caller: &Caller{Role: "guest"}, res: OwnedByTrainee(traineeID), roles: []domain.Role{"guest"}, wantErr: ErrRoleNotAllowed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.caller, tc.res, tc.roles...)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
