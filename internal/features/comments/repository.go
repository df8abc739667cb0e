package comments

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
	collection := db.Collection("comments")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "targetType", Value: 1},
				{Key: "targetId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "parentCommentId", Value: 1}},
		},
	})

	return &Repository{collection: collection}
}

// CreateComment inserts a new comment with zeroed reaction caches.
func (r *Repository) CreateComment(ctx context.Context, comment *Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	if comment.LikedBy == nil {
		comment.LikedBy = []primitive.ObjectID{}
	}
	if comment.DislikedBy == nil {
		comment.DislikedBy = []primitive.ObjectID{}
	}

	_, err := r.collection.InsertOne(ctx, comment)
	return err
}

// GetCommentByID fetches one comment.
func (r *Repository) GetCommentByID(ctx context.Context, commentID primitive.ObjectID) (*Comment, error) {
	var comment Comment
	err := r.collection.FindOne(ctx, bson.M{"_id": commentID}).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByTarget fetches every comment of a target in one query,
// newest-first. The tree builder relies on that order for roots.
func (r *Repository) GetCommentsByTarget(ctx context.Context, targetType targets.Type, targetID primitive.ObjectID) ([]Comment, error) {
	filter := bson.M{"targetType": targetType, "targetId": targetID}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []Comment
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CountByTarget returns the number of comments on a target.
func (r *Repository) CountByTarget(ctx context.Context, targetType targets.Type, targetID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"targetType": targetType, "targetId": targetID})
}

// UpdateContent rewrites a comment's text.
func (r *Repository) UpdateContent(ctx context.Context, commentID primitive.ObjectID, content string) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": commentID},
		bson.M{"$set": bson.M{"content": content, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetLegacyReaction applies the legacy like/dislike toggle result: new
// counter values and membership sets written directly on the comment.
func (r *Repository) SetLegacyReaction(ctx context.Context, commentID primitive.ObjectID, likedBy, dislikedBy []primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": commentID},
		bson.M{"$set": bson.M{
			"likes":      len(likedBy),
			"dislikes":   len(dislikedBy),
			"likedBy":    likedBy,
			"dislikedBy": dislikedBy,
			"updatedAt":  time.Now(),
		}},
	)
	return err
}

// WriteReactionCache overwrites the denormalized reaction cache after a
// full recompute from the reactions collection.
func (r *Repository) WriteReactionCache(ctx context.Context, commentID primitive.ObjectID, likedBy, dislikedBy []primitive.ObjectID) error {
	return r.SetLegacyReaction(ctx, commentID, likedBy, dislikedBy)
}

// ReplyIDs lists the IDs of a comment's direct replies.
func (r *Repository) ReplyIDs(ctx context.Context, commentID primitive.ObjectID) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"parentCommentId": commentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
	}
	return ids, nil
}

// DeleteWithReplies removes a comment and its direct replies only.
// Grandchildren stay behind as orphans and are dropped by the tree builder.
func (r *Repository) DeleteWithReplies(ctx context.Context, commentID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{
		"$or": []bson.M{
			{"_id": commentID},
			{"parentCommentId": commentID},
		},
	})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
