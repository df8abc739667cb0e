package reactions

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/verifact-app/backend/internal/pkg/targets"
	apperrors "github.com/verifact-app/backend/pkg/errors"
)

type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("reactions")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "targetId", Value: 1},
				{Key: "targetType", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "targetId", Value: 1},
				{Key: "targetType", Value: 1},
			},
		},
	})

	return &Repository{collection: collection}
}

// Create inserts a new reaction. The unique index turns a concurrent
// duplicate into ErrDuplicate.
func (r *Repository) Create(ctx context.Context, reaction *Reaction) error {
	reaction.ID = primitive.NewObjectID()
	reaction.CreatedAt = time.Now()
	reaction.UpdatedAt = reaction.CreatedAt

	_, err := r.collection.InsertOne(ctx, reaction)
	if mongo.IsDuplicateKeyError(err) {
		return apperrors.ErrDuplicate
	}
	return err
}

// GetByUserAndTarget returns the user's reaction on a target, if any.
func (r *Repository) GetByUserAndTarget(ctx context.Context, userID, targetID primitive.ObjectID, targetType targets.Type) (*Reaction, error) {
	filter := bson.M{"userId": userID, "targetId": targetID, "targetType": targetType}

	var reaction Reaction
	err := r.collection.FindOne(ctx, filter).Decode(&reaction)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &reaction, nil
}

// SetType flips an existing reaction to the given type.
func (r *Repository) SetType(ctx context.Context, reactionID primitive.ObjectID, reactionType string) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": reactionID},
		bson.M{"$set": bson.M{"type": reactionType, "updatedAt": time.Now()}},
	)
	return err
}

// Delete removes a reaction.
func (r *Repository) Delete(ctx context.Context, reactionID primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": reactionID})
	return err
}

// CountByTarget aggregates like/dislike counts for a target. Zero matches
// yield zero counts, not an error.
func (r *Repository) CountByTarget(ctx context.Context, targetID primitive.ObjectID, targetType targets.Type) (Counts, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"targetId": targetID, "targetType": targetType}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$type",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return Counts{}, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Type  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return Counts{}, err
	}

	var counts Counts
	for _, row := range rows {
		switch row.Type {
		case TypeLike:
			counts.Like = row.Count
		case TypeDislike:
			counts.Dislike = row.Count
		}
	}
	return counts, nil
}

// ListByTarget returns every reaction on a target. Used for the full
// recompute of a comment's denormalized cache.
func (r *Repository) ListByTarget(ctx context.Context, targetID primitive.ObjectID, targetType targets.Type) ([]Reaction, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"targetId": targetID, "targetType": targetType})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reactions []Reaction
	if err = cursor.All(ctx, &reactions); err != nil {
		return nil, err
	}
	return reactions, nil
}
