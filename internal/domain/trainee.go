package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trainee is the profile of someone who works out.
type Trainee struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	AccountID primitive.ObjectID  `bson:"accountId" json:"account_id"`
	FirstName string              `bson:"firstName" json:"first_name"`
	LastName  string              `bson:"lastName" json:"last_name"`
	Email     string              `bson:"email" json:"email"` // copy of the account email
	GymID     *primitive.ObjectID `bson:"gymId,omitempty" json:"gym_id,omitempty"`
	TrainerID *primitive.ObjectID `bson:"trainerId,omitempty" json:"trainer_id,omitempty"`
	ProgramID *primitive.ObjectID `bson:"programId,omitempty" json:"program_id,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updated_at"`
}

// FullName joins first and last name.
func (t *Trainee) FullName() string {
	if t.LastName == "" {
		return t.FirstName
	}
	return t.FirstName + " " + t.LastName
}

// IsCoachedBy reports whether trainerID is the trainee's assigned trainer.
func (t *Trainee) IsCoachedBy(trainerID primitive.ObjectID) bool {
	return t.TrainerID != nil && *t.TrainerID == trainerID
}
