package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenType separates short-lived access tokens from refresh tokens.
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// BearerTokenType is reported to clients alongside a token pair.
const BearerTokenType = "bearer"

var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload: the account id in `sub` plus the token type.
type Claims struct {
	Type TokenType `json:"type"`
	jwt.RegisteredClaims
}

// TokenPair is what login and refresh hand back.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// TokenManager issues and verifies HS256 tokens with one shared secret.
type TokenManager struct {
	secret        []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTLDay int
	now           func() time.Time
}

func NewTokenManager(secret, issuer string, accessTTL time.Duration, refreshTTLDays int) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret cannot be empty")
	}
	if accessTTL <= 0 || refreshTTLDays <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}
	return &TokenManager{
		secret:        []byte(secret),
		issuer:        issuer,
		accessTTL:     accessTTL,
		refreshTTLDay: refreshTTLDays,
		now:           time.Now,
	}, nil
}

// IssueAccess signs an access token for subject valid for ttl.
func (m *TokenManager) IssueAccess(subject string, ttl time.Duration) (string, error) {
	return m.issue(subject, AccessToken, ttl)
}

// IssueRefresh signs a refresh token for subject valid for ttlDays days.
func (m *TokenManager) IssueRefresh(subject string, ttlDays int) (string, error) {
	return m.issue(subject, RefreshToken, time.Duration(ttlDays)*24*time.Hour)
}

// IssuePair signs an access and a refresh token with the configured lifetimes.
func (m *TokenManager) IssuePair(subject string) (*TokenPair, error) {
	access, err := m.IssueAccess(subject, m.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := m.IssueRefresh(subject, m.refreshTTLDay)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: BearerTokenType}, nil
}

// RefreshTTL is the configured refresh token lifetime.
func (m *TokenManager) RefreshTTL() time.Duration {
	return time.Duration(m.refreshTTLDay) * 24 * time.Hour
}

func (m *TokenManager) issue(subject string, typ TokenType, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("token subject cannot be empty")
	}
	now := m.now()
	claims := &Claims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry. Every failure collapses into ErrInvalidToken.
func (m *TokenManager) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}
	if claims.Type != AccessToken && claims.Type != RefreshToken {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyType is Verify plus a check on the token type.
func (m *TokenManager) VerifyType(token string, want TokenType) (*Claims, error) {
	claims, err := m.Verify(token)
	if err != nil {
		return nil, err
	}
	if claims.Type != want {
		return nil, fmt.Errorf("%w: expected %s token", ErrInvalidToken, want)
	}
	return claims, nil
}
