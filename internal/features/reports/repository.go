package reports

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
	collection := db.Collection("reports")

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
			Keys: bson.D{{Key: "truthVerdict", Value: 1}},
		},
	})

	return &Repository{collection: collection}
}

func notDeleted() bson.M {
	return bson.M{"deletedAt": nil}
}

// CreateReport inserts a new report
func (r *Repository) CreateReport(ctx context.Context, report *Report) error {
	report.ID = primitive.NewObjectID()
	report.CreatedAt = time.Now()
	report.UpdatedAt = report.CreatedAt
	if report.References == nil {
		report.References = []string{}
	}
	if report.ClaimIDs == nil {
		report.ClaimIDs = []primitive.ObjectID{}
	}

	_, err := r.collection.InsertOne(ctx, report)
	return err
}

// GetReportByID includes soft-deleted reports so claims linking a deleted
// report can still display it.
func (r *Repository) GetReportByID(ctx context.Context, reportID primitive.ObjectID) (*Report, error) {
	var report Report
	err := r.collection.FindOne(ctx, bson.M{"_id": reportID}).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

// GetAllReports lists live reports newest-first, optionally by verdict.
func (r *Repository) GetAllReports(ctx context.Context, verdict string, page, limit int) ([]Report, int64, error) {
	filter := notDeleted()
	if verdict != "" {
		filter["truthVerdict"] = verdict
	}
	return r.findPage(ctx, filter, page, limit)
}

// SearchReports does a case-insensitive substring match over title,
// content and conclusion, excluding soft-deleted reports.
func (r *Repository) SearchReports(ctx context.Context, query string, page, limit int) ([]Report, int64, error) {
	regex := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{
		"deletedAt": nil,
		"$or": []bson.M{
			{"title": bson.M{"$regex": regex}},
			{"content": bson.M{"$regex": regex}},
			{"conclusion": bson.M{"$regex": regex}},
		},
	}
	return r.findPage(ctx, filter, page, limit)
}

// UpdateReport updates mutable fields of a live report.
func (r *Repository) UpdateReport(ctx context.Context, reportID primitive.ObjectID, updates bson.M) error {
	updates["updatedAt"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": reportID, "deletedAt": nil},
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

// SoftDeleteReport marks a report deleted without removing the document.
func (r *Repository) SoftDeleteReport(ctx context.Context, reportID primitive.ObjectID) error {
	now := time.Now()
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": reportID, "deletedAt": nil},
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

func (r *Repository) findPage(ctx context.Context, filter bson.M, page, limit int) ([]Report, int64, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var reports []Report
	if err = cursor.All(ctx, &reports); err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}
