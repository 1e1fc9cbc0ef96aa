package service

import (
	"context"
	"errors"
	"strings"

	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// accountCreator is shared by every service that signs up a new login.
type accountCreator struct {
	accounts repository.AccountRepository
}

// normalizeEmail is the stored form of an email; signup and login both use it.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a accountCreator) create(ctx context.Context, email, password string, role domain.Role) (*domain.Account, error) {
	email = normalizeEmail(email)

	_, err := a.accounts.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if _, err := a.accounts.Create(ctx, account); err != nil {
		// lost a race against another signup with the same email
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return account, nil
}

// removeAccount deletes a login whose profile is gone or could not be stored.
func (a accountCreator) removeAccount(ctx context.Context, id primitive.ObjectID) {
	if err := a.accounts.Delete(ctx, id); err != nil {
		log.Errorf("remove account %s: %s", id.Hex(), err)
	}
}

// parseOptionalID turns an optional hex string into an ObjectID pointer.
func parseOptionalID(field string, raw *string) (*primitive.ObjectID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(*raw)
	if err != nil {
		return nil, newError(ErrValidation, "invalid "+field)
	}
	return &id, nil
}
