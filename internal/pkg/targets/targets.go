package targets

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "github.com/verifact-app/backend/pkg/errors"
)

// Type is the discriminator of a polymorphic target reference.
type Type string

const (
	TypeClaim   Type = "claim"
	TypeReport  Type = "report"
	TypeComment Type = "comment"
	TypeUser    Type = "user"
)

// Parse validates a raw discriminator string.
func Parse(raw string) (Type, error) {
	switch Type(raw) {
	case TypeClaim, TypeReport, TypeComment, TypeUser:
		return Type(raw), nil
	default:
		return "", apperrors.ErrBadRequest
	}
}

// ContentTypes are the target kinds that can carry comments and bookmarks.
func IsContentType(t Type) bool {
	return t == TypeClaim || t == TypeReport
}

// Info describes a resolved target: who owns it and which post it belongs
// to for deep-linking. For claims and reports the post is the target itself;
// for comments it is the claim/report the comment hangs off.
type Info struct {
	OwnerID  primitive.ObjectID
	PostType Type
	PostID   primitive.ObjectID
	Preview  string
}

// Resolver dispatches a (targetType, targetId) pair to the right collection.
// It is the single place that knows which collection backs which target kind.
type Resolver struct {
	claims   *mongo.Collection
	reports  *mongo.Collection
	comments *mongo.Collection
	users    *mongo.Collection
}

func NewResolver(db *mongo.Database) *Resolver {
	return &Resolver{
		claims:   db.Collection("claims"),
		reports:  db.Collection("reports"),
		comments: db.Collection("comments"),
		users:    db.Collection("users"),
	}
}

// Resolve looks up a target and returns its owner and post context.
// Soft-deleted claims/reports still resolve: existing reactions and
// notifications keep referential integrity after deletion.
func (r *Resolver) Resolve(ctx context.Context, targetType Type, targetID primitive.ObjectID) (*Info, error) {
	switch targetType {
	case TypeClaim:
		var doc struct {
			UserID  primitive.ObjectID `bson:"userId"`
			Content string             `bson:"content"`
		}
		if err := r.claims.FindOne(ctx, bson.M{"_id": targetID}).Decode(&doc); err != nil {
			return nil, mapLookupErr(err)
		}
		return &Info{OwnerID: doc.UserID, PostType: TypeClaim, PostID: targetID, Preview: truncate(doc.Content, 100)}, nil

	case TypeReport:
		var doc struct {
			UserID primitive.ObjectID `bson:"userId"`
			Title  string             `bson:"title"`
		}
		if err := r.reports.FindOne(ctx, bson.M{"_id": targetID}).Decode(&doc); err != nil {
			return nil, mapLookupErr(err)
		}
		return &Info{OwnerID: doc.UserID, PostType: TypeReport, PostID: targetID, Preview: truncate(doc.Title, 100)}, nil

	case TypeComment:
		var doc struct {
			UserID     primitive.ObjectID `bson:"userId"`
			TargetType Type               `bson:"targetType"`
			TargetID   primitive.ObjectID `bson:"targetId"`
			Content    string             `bson:"content"`
		}
		if err := r.comments.FindOne(ctx, bson.M{"_id": targetID}).Decode(&doc); err != nil {
			return nil, mapLookupErr(err)
		}
		return &Info{OwnerID: doc.UserID, PostType: doc.TargetType, PostID: doc.TargetID, Preview: truncate(doc.Content, 100)}, nil

	case TypeUser:
		var doc struct {
			ID       primitive.ObjectID `bson:"_id"`
			Username string             `bson:"username"`
		}
		if err := r.users.FindOne(ctx, bson.M{"_id": targetID}).Decode(&doc); err != nil {
			return nil, mapLookupErr(err)
		}
		return &Info{OwnerID: doc.ID, PostType: TypeUser, PostID: targetID, Preview: doc.Username}, nil

	default:
		return nil, apperrors.ErrBadRequest
	}
}

func mapLookupErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperrors.ErrNotFound
	}
	return err
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
