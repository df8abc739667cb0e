package bookmarks

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
	bookmarks   *mongo.Collection
	collections *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	bookmarks := db.Collection("bookmarks")
	collections := db.Collection("collections")

	_, _ = bookmarks.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
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
				{Key: "userId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "collectionId", Value: 1}},
		},
	})

	_, _ = collections.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "name", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})

	return &Repository{bookmarks: bookmarks, collections: collections}
}

// CreateBookmark inserts a bookmark. A second save of the same target by
// the same user hits the unique index and returns ErrDuplicate.
func (r *Repository) CreateBookmark(ctx context.Context, bookmark *Bookmark) error {
	bookmark.ID = primitive.NewObjectID()
	bookmark.CreatedAt = time.Now()

	_, err := r.bookmarks.InsertOne(ctx, bookmark)
	if mongo.IsDuplicateKeyError(err) {
		return apperrors.ErrDuplicate
	}
	return err
}

// GetBookmarkByID fetches one bookmark.
func (r *Repository) GetBookmarkByID(ctx context.Context, bookmarkID primitive.ObjectID) (*Bookmark, error) {
	var bookmark Bookmark
	err := r.bookmarks.FindOne(ctx, bson.M{"_id": bookmarkID}).Decode(&bookmark)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &bookmark, nil
}

// DeleteBookmark removes a bookmark, scoped to its owner.
func (r *Repository) DeleteBookmark(ctx context.Context, bookmarkID, userID primitive.ObjectID) error {
	result, err := r.bookmarks.DeleteOne(ctx, bson.M{"_id": bookmarkID, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Aggregate runs the bookmark join pipeline: filter by owner and options,
// resolve each row's target from the claims or reports collection, drop
// rows whose target is gone or soft-deleted, join the target's author,
// optionally filter by a case-insensitive search over the target's text
// fields, and paginate post-filter.
func (r *Repository) Aggregate(ctx context.Context, userID primitive.ObjectID, opts QueryOptions) ([]BookmarkRow, int64, error) {
	cursor, err := r.bookmarks.Aggregate(ctx, listPipeline(userID, opts))
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var facets []struct {
		Items []BookmarkRow `bson:"items"`
		Total []struct {
			Count int64 `bson:"count"`
		} `bson:"total"`
	}
	if err = cursor.All(ctx, &facets); err != nil {
		return nil, 0, err
	}
	if len(facets) == 0 {
		return nil, 0, nil
	}

	total := int64(0)
	if len(facets[0].Total) > 0 {
		total = facets[0].Total[0].Count
	}
	return facets[0].Items, total, nil
}

func listPipeline(userID primitive.ObjectID, opts QueryOptions) mongo.Pipeline {
	match := bson.M{"userId": userID}
	if opts.TargetType != "" {
		match["targetType"] = opts.TargetType
	}
	if opts.CollectionID != nil {
		match["collectionId"] = *opts.CollectionID
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "claims",
			"localField":   "targetId",
			"foreignField": "_id",
			"as":           "claimDoc",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "reports",
			"localField":   "targetId",
			"foreignField": "_id",
			"as":           "reportDoc",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"target": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$targetType", "claim"}},
				bson.M{"$arrayElemAt": bson.A{"$claimDoc", 0}},
				bson.M{"$arrayElemAt": bson.A{"$reportDoc", 0}},
			}},
		}}},
		// Unresolved or soft-deleted targets drop out of the result.
		{{Key: "$match", Value: bson.M{
			"target._id":       bson.M{"$exists": true},
			"target.deletedAt": nil,
		}}},
	}

	if opts.Search != "" {
		regex := primitive.Regex{Pattern: regexp.QuoteMeta(opts.Search), Options: "i"}
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{
			"$or": []bson.M{
				{"target.title": bson.M{"$regex": regex}},
				{"target.content": bson.M{"$regex": regex}},
				{"target.conclusion": bson.M{"$regex": regex}},
				{"target.aiClaimSummary": bson.M{"$regex": regex}},
				{"target.aiReportSummary": bson.M{"$regex": regex}},
			},
		}}})
	}

	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "target.userId",
			"foreignField": "_id",
			"as":           "authorDoc",
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"author": bson.M{"$arrayElemAt": bson.A{"$authorDoc", 0}},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"claimDoc":  0,
			"reportDoc": 0,
			"authorDoc": 0,
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
	)

	// An empty $facet sub-pipeline is a server-side error, so the
	// unpaginated path carries a no-op $skip.
	page := bson.A{bson.M{"$skip": int64(0)}}
	if opts.Paginate {
		page = bson.A{
			bson.M{"$skip": int64((opts.Page - 1) * opts.Limit)},
			bson.M{"$limit": int64(opts.Limit)},
		}
	}
	pipeline = append(pipeline, bson.D{{Key: "$facet", Value: bson.M{
		"items": page,
		"total": bson.A{bson.M{"$count": "count"}},
	}}})

	return pipeline
}

// DetachFromCollection clears collectionId on every bookmark filed under
// the collection. Used when a collection is deleted.
func (r *Repository) DetachFromCollection(ctx context.Context, collectionID primitive.ObjectID) error {
	_, err := r.bookmarks.UpdateMany(
		ctx,
		bson.M{"collectionId": collectionID},
		bson.M{"$unset": bson.M{"collectionId": ""}},
	)
	return err
}

// AssignCollection files a bookmark under a collection, owner-scoped.
func (r *Repository) AssignCollection(ctx context.Context, bookmarkID, userID primitive.ObjectID, collectionID *primitive.ObjectID) error {
	update := bson.M{"$unset": bson.M{"collectionId": ""}}
	if collectionID != nil {
		update = bson.M{"$set": bson.M{"collectionId": *collectionID}}
	}

	result, err := r.bookmarks.UpdateOne(ctx, bson.M{"_id": bookmarkID, "userId": userID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Collection CRUD

func (r *Repository) CreateCollection(ctx context.Context, collection *Collection) error {
	collection.ID = primitive.NewObjectID()
	collection.CreatedAt = time.Now()
	collection.UpdatedAt = collection.CreatedAt

	_, err := r.collections.InsertOne(ctx, collection)
	if mongo.IsDuplicateKeyError(err) {
		return apperrors.ErrDuplicate
	}
	return err
}

func (r *Repository) GetCollectionByID(ctx context.Context, collectionID primitive.ObjectID) (*Collection, error) {
	var collection Collection
	err := r.collections.FindOne(ctx, bson.M{"_id": collectionID}).Decode(&collection)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &collection, nil
}

func (r *Repository) GetCollectionsByUser(ctx context.Context, userID primitive.ObjectID) ([]Collection, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collections.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var collections []Collection
	if err = cursor.All(ctx, &collections); err != nil {
		return nil, err
	}
	return collections, nil
}

func (r *Repository) UpdateCollection(ctx context.Context, collectionID, userID primitive.ObjectID, updates bson.M) error {
	updates["updatedAt"] = time.Now()

	result, err := r.collections.UpdateOne(
		ctx,
		bson.M{"_id": collectionID, "userId": userID},
		bson.M{"$set": updates},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrDuplicate
		}
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteCollection(ctx context.Context, collectionID, userID primitive.ObjectID) error {
	result, err := r.collections.DeleteOne(ctx, bson.M{"_id": collectionID, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
