package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseLog records what a trainee actually did for one exercise in a session.
// TraineeID and SessionDate are copied from the session so rollups need no join.
type ExerciseLog struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID            primitive.ObjectID `bson:"sessionId" json:"session_id"`
	ExerciseID           primitive.ObjectID `bson:"exerciseId" json:"exercise_id"`
	TraineeID            primitive.ObjectID `bson:"traineeId" json:"trainee_id"`
	SessionDate          time.Time          `bson:"sessionDate" json:"session_date"`
	CompletedSets        *int               `bson:"completedSets,omitempty" json:"completed_sets,omitempty"`
	CompletedReps        *int               `bson:"completedReps,omitempty" json:"completed_reps,omitempty"`
	CompletedWeightKg    *float64           `bson:"completedWeightKg,omitempty" json:"completed_weight_kg,omitempty"`
	CompletedDurationMin *int               `bson:"completedDurationMin,omitempty" json:"completed_duration_min,omitempty"`
	VolumeKg             float64            `bson:"volumeKg" json:"volume_kg"`
	IsCompleted          bool               `bson:"isCompleted" json:"is_completed"`
	Notes                string             `bson:"notes,omitempty" json:"notes,omitempty"`
	LoggedAt             time.Time          `bson:"loggedAt" json:"logged_at"`
}

// ComputeVolume is sets x reps x weight, with missing values counted as zero.
func ComputeVolume(sets, reps *int, weightKg *float64) float64 {
	if sets == nil || reps == nil || weightKg == nil {
		return 0
	}
	return float64(*sets) * float64(*reps) * *weightKg
}

// RecomputeVolume refreshes VolumeKg from the completed values.
func (l *ExerciseLog) RecomputeVolume() {
	l.VolumeKg = ComputeVolume(l.CompletedSets, l.CompletedReps, l.CompletedWeightKg)
}
