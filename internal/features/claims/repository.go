package claims

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/verifact-app/backend/pkg/errors"
)

type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("claims")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "deletedAt", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "content", Value: "text"},
				{Key: "aiClaimSummary", Value: "text"},
			},
		},
	})

	return &Repository{collection: collection}
}

// notDeleted is the base filter for every listing/search query.
// Soft-deleted claims stay addressable by direct id lookup only.
func notDeleted() bson.M {
	return bson.M{"deletedAt": nil}
}

// CreateClaim inserts a new claim
func (r *Repository) CreateClaim(ctx context.Context, claim *Claim) error {
	claim.ID = primitive.NewObjectID()
	claim.CreatedAt = time.Now()
	claim.UpdatedAt = claim.CreatedAt
	if claim.Sources == nil {
		claim.Sources = []string{}
	}

	_, err := r.collection.InsertOne(ctx, claim)
	return err
}

// GetClaimByID resolves a claim by id, including soft-deleted ones:
// reports referencing a deleted claim still need to display it.
func (r *Repository) GetClaimByID(ctx context.Context, claimID primitive.ObjectID) (*Claim, error) {
	var claim Claim
	err := r.collection.FindOne(ctx, bson.M{"_id": claimID}).Decode(&claim)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &claim, nil
}

// GetAllClaims lists live claims newest-first.
func (r *Repository) GetAllClaims(ctx context.Context, page, limit int) ([]Claim, int64, error) {
	return r.findPage(ctx, notDeleted(), page, limit)
}

// GetLatestClaims returns the newest live claims without pagination metadata.
func (r *Repository) GetLatestClaims(ctx context.Context, limit int) ([]Claim, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, notDeleted(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var claims []Claim
	if err = cursor.All(ctx, &claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// SearchClaims does a case-insensitive substring match over content and
// AI summary, excluding soft-deleted claims.
func (r *Repository) SearchClaims(ctx context.Context, query string, page, limit int) ([]Claim, int64, error) {
	regex := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{
		"deletedAt": nil,
		"$or": []bson.M{
			{"content": bson.M{"$regex": regex}},
			{"aiClaimSummary": bson.M{"$regex": regex}},
		},
	}
	return r.findPage(ctx, filter, page, limit)
}

// UpdateClaim updates mutable fields of a live claim.
func (r *Repository) UpdateClaim(ctx context.Context, claimID primitive.ObjectID, updates bson.M) error {
	updates["updatedAt"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": claimID, "deletedAt": nil},
		bson.M{"$set": updates},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SoftDeleteClaim marks a claim deleted without removing the document.
func (r *Repository) SoftDeleteClaim(ctx context.Context, claimID primitive.ObjectID) error {
	now := time.Now()
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": claimID, "deletedAt": nil},
		bson.M{"$set": bson.M{"deletedAt": now, "updatedAt": now}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AttachReport links a claim to the report that covers it.
func (r *Repository) AttachReport(ctx context.Context, claimID, reportID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": claimID},
		bson.M{"$set": bson.M{"reportId": reportID, "updatedAt": time.Now()}},
	)
	return err
}

func (r *Repository) findPage(ctx context.Context, filter bson.M, page, limit int) ([]Claim, int64, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var claims []Claim
	if err = cursor.All(ctx, &claims); err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return claims, total, nil
}
