package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HealthMetric is one body measurement of a trainee.
type HealthMetric struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TraineeID         primitive.ObjectID `bson:"traineeId" json:"trainee_id"`
	HeightCm          *float64           `bson:"heightCm,omitempty" json:"height_cm,omitempty"`
	WeightKg          *float64           `bson:"weightKg,omitempty" json:"weight_kg,omitempty"`
	BodyFatPercentage *float64           `bson:"bodyFatPercentage,omitempty" json:"body_fat_percentage,omitempty"`
	RecordedAt        time.Time          `bson:"recordedAt" json:"recorded_at"`
}
