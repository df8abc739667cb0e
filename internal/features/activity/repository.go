package activity

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/verifact-app/backend/internal/pkg/targets"
)

type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("activities")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		},
	})

	return &Repository{collection: collection}
}

// LogActivity appends one audit entry. Failures propagate to the caller:
// a write error here means the persistence layer itself is unhealthy.
func (r *Repository) LogActivity(ctx context.Context, userID primitive.ObjectID, activityType string, targetType targets.Type, targetID primitive.ObjectID, targetModel, details string) (*Activity, error) {
	entry := &Activity{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		Type:        activityType,
		TargetType:  targetType,
		TargetID:    targetID,
		TargetModel: targetModel,
		Details:     details,
		CreatedAt:   time.Now(),
	}

	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// GetUserActivities returns a user's activities newest-first.
func (r *Repository) GetUserActivities(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]Activity, int64, error) {
	filter := bson.M{"userId": userID}
	return r.findPage(ctx, filter, page, limit)
}

// GetActivitiesByDateRange filters by inclusive creation-time bounds.
func (r *Repository) GetActivitiesByDateRange(ctx context.Context, userID primitive.ObjectID, start, end time.Time, page, limit int) ([]Activity, int64, error) {
	filter := bson.M{
		"userId": userID,
		"createdAt": bson.M{
			"$gte": start,
			"$lte": end,
		},
	}
	return r.findPage(ctx, filter, page, limit)
}

func (r *Repository) findPage(ctx context.Context, filter bson.M, page, limit int) ([]Activity, int64, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var activities []Activity
	if err = cursor.All(ctx, &activities); err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return activities, total, nil
}
