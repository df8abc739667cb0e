package notifications

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
	collection := db.Collection("notifications")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "recipientId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "recipientId", Value: 1},
				{Key: "read", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "recipientId", Value: 1},
				{Key: "senderId", Value: 1},
				{Key: "type", Value: 1},
				{Key: "targetType", Value: 1},
				{Key: "targetId", Value: 1},
			},
		},
	})

	return &Repository{collection: collection}
}

// Insert persists a new notification.
func (r *Repository) Insert(ctx context.Context, n *Notification) error {
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now()
	n.UpdatedAt = n.CreatedAt

	_, err := r.collection.InsertOne(ctx, n)
	return err
}

// FindDuplicate looks for an existing notification with the same
// (recipient, sender, type, targetType, targetId) tuple. Used for
// like-type dedup.
func (r *Repository) FindDuplicate(ctx context.Context, in CreateInput) (*Notification, error) {
	filter := bson.M{
		"recipientId": in.RecipientID,
		"senderId":    in.SenderID,
		"type":        in.Type,
		"targetType":  in.TargetType,
		"targetId":    in.TargetID,
	}

	var existing Notification
	err := r.collection.FindOne(ctx, filter).Decode(&existing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &existing, nil
}

// Touch refreshes an existing notification: bumps updatedAt, resets read.
// A re-like after an un-like surfaces the old record again instead of
// duplicating it.
func (r *Repository) Touch(ctx context.Context, notificationID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": notificationID},
		bson.M{"$set": bson.M{"read": false, "updatedAt": time.Now()}},
	)
	return err
}

// GetByRecipient lists a user's notifications newest-first.
func (r *Repository) GetByRecipient(ctx context.Context, recipientID primitive.ObjectID, unreadOnly bool, page, limit int) ([]Notification, int64, error) {
	filter := bson.M{"recipientId": recipientID}
	if unreadOnly {
		filter["read"] = false
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var items []Notification
	if err = cursor.All(ctx, &items); err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// CountUnread returns the number of unread notifications for a user.
func (r *Repository) CountUnread(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"recipientId": recipientID, "read": false})
}

// MarkAsRead flips one notification to read. Scoped to the recipient so a
// user cannot mark someone else's notification. Idempotent.
func (r *Repository) MarkAsRead(ctx context.Context, notificationID, recipientID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": notificationID, "recipientId": recipientID},
		bson.M{"$set": bson.M{"read": true, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkAllAsRead flips every unread notification of a user. Idempotent.
func (r *Repository) MarkAllAsRead(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	result, err := r.collection.UpdateMany(
		ctx,
		bson.M{"recipientId": recipientID, "read": false},
		bson.M{"$set": bson.M{"read": true, "updatedAt": time.Now()}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// DeleteByTarget removes notifications referencing a target. Used when a
// comment is deleted so its notifications stop deep-linking to nothing.
func (r *Repository) DeleteByTarget(ctx context.Context, targetType targets.Type, targetID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"targetType": targetType, "targetId": targetID})
	return err
}
