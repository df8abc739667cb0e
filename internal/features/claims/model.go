package claims

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/verifact-app/backend/internal/pkg/pagination"
)

// Claim is a user-authored statement to be fact-checked. It carries an
// AI-derived summary and truth index, and is soft-deleted so existing
// reports can keep referencing it.
type Claim struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID  `bson:"userId" json:"userId"`
	ReportID   *primitive.ObjectID `bson:"reportId,omitempty" json:"reportId,omitempty"`
	Content    string              `bson:"content" json:"content"`
	Sources    []string            `bson:"sources" json:"sources"`
	AISummary  string              `bson:"aiClaimSummary" json:"aiClaimSummary"`
	TruthIndex float64             `bson:"truthIndex" json:"truthIndex"`
	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time           `bson:"updatedAt" json:"updatedAt"`
	DeletedAt  *time.Time          `bson:"deletedAt,omitempty" json:"-"`
}

// Request DTOs

type CreateClaimRequest struct {
	Content  string   `json:"content" binding:"required,min=10,max=5000"`
	Sources  []string `json:"sources" binding:"omitempty,max=20"`
	ReportID string   `json:"reportId" binding:"omitempty"`
}

type UpdateClaimRequest struct {
	Content string   `json:"content" binding:"omitempty,min=10,max=5000"`
	Sources []string `json:"sources" binding:"omitempty,max=20"`
}

type ListQuery struct {
	Page  int `form:"page,default=1" binding:"min=1"`
	Limit int `form:"limit,default=20" binding:"min=1,max=50"`
}

type SearchQuery struct {
	Q     string `form:"q" binding:"required,min=2"`
	Page  int    `form:"page,default=1" binding:"min=1"`
	Limit int    `form:"limit,default=20" binding:"min=1,max=50"`
}

// Response DTOs

type ClaimAuthor struct {
	ID        primitive.ObjectID `json:"id"`
	Username  string             `json:"username"`
	AvatarURL string             `json:"avatarUrl"`
}

type ClaimResponse struct {
	Claim
	Author *ClaimAuthor `json:"author,omitempty"`
}

type PaginatedClaims struct {
	Claims     []ClaimResponse `json:"claims"`
	Pagination pagination.Meta `json:"pagination"`
}
