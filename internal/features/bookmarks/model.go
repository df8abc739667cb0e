package bookmarks

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/verifact-app/backend/internal/pkg/pagination"
	"github.com/verifact-app/backend/internal/pkg/targets"
)

// Bookmark is one user saving one claim or report, optionally filed under
// a collection. At most one exists per (userId, targetId, targetType).
type Bookmark struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID  `bson:"userId" json:"userId"`
	TargetID     primitive.ObjectID  `bson:"targetId" json:"targetId"`
	TargetType   targets.Type        `bson:"targetType" json:"targetType"`
	CollectionID *primitive.ObjectID `bson:"collectionId,omitempty" json:"collectionId,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
}

// Collection is a user-named folder of bookmarks.
type Collection struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Request DTOs

type CreateBookmarkRequest struct {
	TargetType   string `json:"targetType" binding:"required"`
	TargetID     string `json:"targetId" binding:"required"`
	CollectionID string `json:"collectionId" binding:"omitempty"`
}

type CreateCollectionRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

type UpdateCollectionRequest struct {
	Name        string `json:"name" binding:"omitempty,min=1,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// QueryOptions drive the single aggregation path. Paginate false keeps the
// legacy everything-in-one-page behavior.
type QueryOptions struct {
	Page         int
	Limit        int
	TargetType   targets.Type
	CollectionID *primitive.ObjectID
	Search       string
	Paginate     bool
}

// Response DTOs

// TargetDoc is the superset of the claim and report fields a bookmark row
// surfaces. Fields absent on the resolved kind stay zero.
type TargetDoc struct {
	ID              primitive.ObjectID `bson:"_id" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Title           string             `bson:"title,omitempty" json:"title,omitempty"`
	Content         string             `bson:"content,omitempty" json:"content,omitempty"`
	Conclusion      string             `bson:"conclusion,omitempty" json:"conclusion,omitempty"`
	TruthVerdict    string             `bson:"truthVerdict,omitempty" json:"truthVerdict,omitempty"`
	TruthIndex      float64            `bson:"truthIndex,omitempty" json:"truthIndex,omitempty"`
	AIClaimSummary  string             `bson:"aiClaimSummary,omitempty" json:"aiClaimSummary,omitempty"`
	AIReportSummary string             `bson:"aiReportSummary,omitempty" json:"aiReportSummary,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

type TargetAuthor struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Username  string             `bson:"username" json:"username"`
	AvatarURL string             `bson:"avatarUrl" json:"avatarUrl"`
}

// BookmarkRow is one enriched row of the aggregation result.
type BookmarkRow struct {
	Bookmark     `bson:",inline"`
	Target       *TargetDoc    `bson:"target" json:"target"`
	Author       *TargetAuthor `bson:"author" json:"author,omitempty"`
	CommentCount int64         `bson:"-" json:"commentCount"`
	LikeCount    int64         `bson:"-" json:"likeCount"`
	DislikeCount int64         `bson:"-" json:"dislikeCount"`
}

type PaginatedBookmarks struct {
	Bookmarks  []BookmarkRow   `json:"bookmarks"`
	Pagination pagination.Meta `json:"pagination"`
}
