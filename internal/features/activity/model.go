package activity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/verifact-app/backend/internal/pkg/pagination"
	"github.com/verifact-app/backend/internal/pkg/targets"
)

// Activity type constants: the verbs of the audit log.
const (
	TypeLike         = "like"
	TypeDislike      = "dislike"
	TypeCreateClaim  = "create_claim"
	TypeCreateReport = "create_report"
	TypeComment      = "comment"
	TypeBookmark     = "bookmark"
	TypeDeleteClaim  = "delete_claim"
	TypeDeleteReport = "delete_report"
)

// Activity is an immutable audit entry for a user-initiated state change.
type Activity struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Type        string             `bson:"type" json:"type"`
	TargetType  targets.Type       `bson:"targetType" json:"targetType"`
	TargetID    primitive.ObjectID `bson:"targetId" json:"targetId"`
	TargetModel string             `bson:"targetModel" json:"targetModel"`
	Details     string             `bson:"details,omitempty" json:"details,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// Request DTOs

type ListQuery struct {
	Page  int `form:"page,default=1" binding:"min=1"`
	Limit int `form:"limit,default=20" binding:"min=1,max=50"`
}

type DateRangeQuery struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end" binding:"required"`
	Page  int    `form:"page,default=1" binding:"min=1"`
	Limit int    `form:"limit,default=20" binding:"min=1,max=50"`
}

// Response DTOs

// EnrichedActivity attaches the owning user of the activity's target.
// TargetOwner stays nil when enrichment fails; the page still renders.
type EnrichedActivity struct {
	Activity
	TargetOwner *TargetOwner `json:"targetOwner,omitempty"`
}

type TargetOwner struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
}

type PaginatedActivities struct {
	Activities []EnrichedActivity `json:"activities"`
	Pagination pagination.Meta    `json:"pagination"`
}
