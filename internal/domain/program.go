package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Program is a named workout template owned by exactly one trainer.
type Program struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	TrainerID   primitive.ObjectID `bson:"trainerId" json:"trainer_id"`
	CreatedAt   time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updated_at"`
}

// ProgramExercise is one prescribed entry of a program. Order is unique per program.
type ProgramExercise struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProgramID             primitive.ObjectID `bson:"programId" json:"program_id"`
	ExerciseID            primitive.ObjectID `bson:"exerciseId" json:"exercise_id"`
	Order                 int                `bson:"order" json:"order"`
	PrescribedSets        *int               `bson:"prescribedSets,omitempty" json:"prescribed_sets,omitempty"`
	PrescribedReps        *int               `bson:"prescribedReps,omitempty" json:"prescribed_reps,omitempty"`
	PrescribedWeightKg    *float64           `bson:"prescribedWeightKg,omitempty" json:"prescribed_weight_kg,omitempty"`
	PrescribedDurationMin *int               `bson:"prescribedDurationMin,omitempty" json:"prescribed_duration_min,omitempty"`
	CreatedAt             time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updated_at"`
}
