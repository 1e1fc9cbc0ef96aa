package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DailyCount is a number of events on one calendar day.
type DailyCount struct {
	Date  time.Time `bson:"_id" json:"date"`
	Count int64     `bson:"count" json:"count"`
}

// DailyVolume is the lifted volume on one calendar day.
type DailyVolume struct {
	Date     time.Time `bson:"_id" json:"date"`
	VolumeKg float64   `bson:"volumeKg" json:"volume_kg"`
}

// ExerciseTotal aggregates all logs of one exercise.
type ExerciseTotal struct {
	ExerciseID  primitive.ObjectID `bson:"_id" json:"exercise_id"`
	Count       int64              `bson:"count" json:"count"`
	TotalVolume float64            `bson:"totalVolume" json:"total_volume_kg"`
	AvgWeight   float64            `bson:"avgWeight" json:"avg_weight_kg"`
}

// PersonalRecord is the heaviest logged weight of one exercise.
type PersonalRecord struct {
	ExerciseID  primitive.ObjectID `bson:"exerciseId" json:"exercise_id"`
	MaxWeightKg float64            `bson:"maxWeightKg" json:"max_weight_kg"`
	AchievedOn  time.Time          `bson:"sessionDate" json:"achieved_date"`
	Sets        int                `bson:"sets" json:"sets"`
	Reps        int                `bson:"reps" json:"reps"`
}

// LogTotals sums every exercise log of a trainee.
type LogTotals struct {
	Count    int64   `bson:"count" json:"count"`
	VolumeKg float64 `bson:"volumeKg" json:"volume_kg"`
}
