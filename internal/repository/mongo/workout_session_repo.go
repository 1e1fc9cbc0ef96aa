package mongo

import (
	"context"
	"time"

	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoWorkoutSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutSessionRepository creates a workout session repository backed by MongoDB.
func NewMongoWorkoutSessionRepository(db *mongo.Database) repository.WorkoutSessionRepository {
	return &mongoWorkoutSessionRepository{collection: db.Collection(sessionCollectionName)}
}

func (r *mongoWorkoutSessionRepository) Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error) {
	session.ID = primitive.NewObjectID()
	session.SessionDate = domain.DateOf(session.SessionDate)
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return primitive.NilObjectID, mapWriteErr(err)
	}
	return insertedID(result)
}

func (r *mongoWorkoutSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	var session domain.WorkoutSession
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session); err != nil {
		return nil, mapFindErr(err)
	}
	return &session, nil
}

func sessionFilterDoc(filter repository.SessionFilter) bson.M {
	doc := bson.M{}
	if filter.TraineeID != nil {
		doc["traineeId"] = *filter.TraineeID
	}
	if filter.Status != "" {
		doc["status"] = filter.Status
	}
	if filter.Since != nil {
		doc["sessionDate"] = bson.M{"$gte": domain.DateOf(*filter.Since)}
	}
	return doc
}

func (r *mongoWorkoutSessionRepository) List(ctx context.Context, filter repository.SessionFilter, page repository.Page) ([]domain.WorkoutSession, error) {
	sort := bson.D{{Key: "sessionDate", Value: -1}, {Key: "createdAt", Value: -1}}
	cursor, err := r.collection.Find(ctx, sessionFilterDoc(filter), pageOptions(page, sort))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sessions := []domain.WorkoutSession{}
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *mongoWorkoutSessionRepository) Count(ctx context.Context, filter repository.SessionFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, sessionFilterDoc(filter))
}

// TransitionStatus is a compare-and-set on the status field, so two concurrent
// transitions cannot both succeed.
func (r *mongoWorkoutSessionRepository) TransitionStatus(
	ctx context.Context,
	id primitive.ObjectID,
	from []domain.SessionStatus,
	to domain.SessionStatus,
	at time.Time,
) error {
	set := bson.M{"status": to, "updatedAt": at}
	switch to {
	case domain.SessionInProgress:
		set["startedAt"] = at
	case domain.SessionCompleted:
		set["completedAt"] = at
	}

	filter := bson.M{"_id": id, "status": bson.M{"$in": from}}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrUpdateFailed
	}
	return nil
}

func (r *mongoWorkoutSessionRepository) SessionDates(ctx context.Context, traineeID primitive.ObjectID) ([]time.Time, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"traineeId": traineeID}}},
		{{Key: "$group", Value: bson.M{"_id": "$sessionDate"}}},
		{{Key: "$sort", Value: bson.M{"_id": -1}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Date time.Time `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	dates := make([]time.Time, 0, len(rows))
	for _, row := range rows {
		dates = append(dates, row.Date.UTC())
	}
	return dates, nil
}

func (r *mongoWorkoutSessionRepository) DailyCounts(ctx context.Context, traineeID primitive.ObjectID, since time.Time) ([]domain.DailyCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"traineeId":   traineeID,
			"sessionDate": bson.M{"$gte": domain.DateOf(since)},
		}}},
		{{Key: "$group", Value: bson.M{"_id": "$sessionDate", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	return aggregateAll[domain.DailyCount](ctx, r.collection, pipeline)
}

func (r *mongoWorkoutSessionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return checkDeleted(r.collection.DeleteOne(ctx, bson.M{"_id": id}))
}

func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "traineeId", Value: 1}, {Key: "sessionDate", Value: -1}},
			Options: options.Index().SetName("session_trainee_date"),
		},
	})
}
