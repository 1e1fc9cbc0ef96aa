package mongo

import (
	"context"
	"strings"
	"time"

	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoAccountRepository implements repository.AccountRepository using MongoDB.
type mongoAccountRepository struct {
	collection *mongo.Collection
}

// NewMongoAccountRepository creates a new account repository on the given database.
func NewMongoAccountRepository(db *mongo.Database) repository.AccountRepository {
	return &mongoAccountRepository{
		collection: db.Collection(accountCollectionName),
	}
}

// Create inserts a new account. The unique email index turns a duplicate into ErrDuplicateKey.
func (r *mongoAccountRepository) Create(ctx context.Context, account *domain.Account) (primitive.ObjectID, error) {
	account.ID = primitive.NewObjectID()
	account.Email = strings.ToLower(account.Email)
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, account)
	if err != nil {
		return primitive.NilObjectID, mapWriteErr(err)
	}
	return insertedID(result)
}

func (r *mongoAccountRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Account, error) {
	var account domain.Account
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&account); err != nil {
		return nil, mapFindErr(err)
	}
	return &account, nil
}

// GetByEmail looks an account up by its lower-cased email.
func (r *mongoAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var account domain.Account
	filter := bson.M{"email": strings.ToLower(email)}
	if err := r.collection.FindOne(ctx, filter).Decode(&account); err != nil {
		return nil, mapFindErr(err)
	}
	return &account, nil
}

func (r *mongoAccountRepository) UpdateRole(ctx context.Context, id primitive.ObjectID, role domain.Role) error {
	update := bson.M{"$set": bson.M{"role": role, "updatedAt": time.Now().UTC()}}
	return checkMatched(r.collection.UpdateOne(ctx, bson.M{"_id": id}, update))
}

func (r *mongoAccountRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return checkDeleted(r.collection.DeleteOne(ctx, bson.M{"_id": id}))
}

// EnsureAccountIndexes creates the unique email index.
func EnsureAccountIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("account_email_unique"),
		},
	})
}
