package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trainer is the profile of a coach.
type Trainer struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	AccountID primitive.ObjectID  `bson:"accountId" json:"account_id"`
	FirstName string              `bson:"firstName" json:"first_name"`
	LastName  string              `bson:"lastName" json:"last_name"`
	Email     string              `bson:"email" json:"email"`
	GymID     *primitive.ObjectID `bson:"gymId,omitempty" json:"gym_id,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updated_at"`
}
