package mongo

import (
	"context"
	"time"

	"fitcoach/api/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// Collection names.
const (
	accountCollectionName         = "accounts"
	gymCollectionName             = "gyms"
	traineeCollectionName         = "trainees"
	trainerCollectionName         = "trainers"
	programCollectionName         = "programs"
	programExerciseCollectionName = "program_exercises"
	exerciseCollectionName        = "exercises"
	sessionCollectionName         = "workout_sessions"
	exerciseLogCollectionName     = "exercise_logs"
	healthMetricCollectionName    = "health_metrics"
)

// ConnectDB establishes a connection to MongoDB and pings the primary.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes of every collection. Failures are logged, not fatal.
func EnsureIndexes(ctx context.Context, db *mongo.Database) {
	EnsureAccountIndexes(ctx, db.Collection(accountCollectionName))
	EnsureTraineeIndexes(ctx, db.Collection(traineeCollectionName))
	EnsureTrainerIndexes(ctx, db.Collection(trainerCollectionName))
	EnsureProgramIndexes(ctx, db.Collection(programCollectionName))
	EnsureProgramExerciseIndexes(ctx, db.Collection(programExerciseCollectionName))
	EnsureExerciseIndexes(ctx, db.Collection(exerciseCollectionName))
	EnsureSessionIndexes(ctx, db.Collection(sessionCollectionName))
	EnsureExerciseLogIndexes(ctx, db.Collection(exerciseLogCollectionName))
	EnsureHealthMetricIndexes(ctx, db.Collection(healthMetricCollectionName))
	log.Debugln("index creation process completed")
}

func createIndexes(ctx context.Context, collection *mongo.Collection, indexes []mongo.IndexModel) {
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warnf("failed to create indexes for collection %s: %s", collection.Name(), err)
	}
}

// NewRepositories wires every Mongo repository to db.
func NewRepositories(db *mongo.Database) *repository.Repositories {
	return &repository.Repositories{
		Accounts:         NewMongoAccountRepository(db),
		Gyms:             NewMongoGymRepository(db),
		Trainees:         NewMongoTraineeRepository(db),
		Trainers:         NewMongoTrainerRepository(db),
		Programs:         NewMongoProgramRepository(db),
		ProgramExercises: NewMongoProgramExerciseRepository(db),
		Exercises:        NewMongoExerciseRepository(db),
		Sessions:         NewMongoWorkoutSessionRepository(db),
		ExerciseLogs:     NewMongoExerciseLogRepository(db),
		HealthMetrics:    NewMongoHealthMetricRepository(db),
		Analytics:        NewMongoAnalyticsRepository(db),
	}
}
