package reactions

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/verifact-app/backend/internal/pkg/targets"
)

// Reaction type constants.
const (
	TypeLike    = "like"
	TypeDislike = "dislike"
)

// IsValidType reports whether t is a known reaction type.
func IsValidType(t string) bool {
	return t == TypeLike || t == TypeDislike
}

// Reaction is the authoritative record of one user's reaction to one
// target. At most one exists per (userId, targetId, targetType).
type Reaction struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	TargetID   primitive.ObjectID `bson:"targetId" json:"targetId"`
	TargetType targets.Type       `bson:"targetType" json:"targetType"`
	Type       string             `bson:"type" json:"type"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Counts is the aggregate view of a target's reactions.
type Counts struct {
	Like    int64 `json:"like"`
	Dislike int64 `json:"dislike"`
}

// Request DTOs

type ReactionRequest struct {
	TargetType string `json:"targetType" binding:"required"`
	TargetID   string `json:"targetId" binding:"required"`
	Type       string `json:"type" binding:"required"`
}

// Response DTOs

type ReactionResult struct {
	Counts       Counts    `json:"counts"`
	UserReaction *Reaction `json:"userReaction"`
}
