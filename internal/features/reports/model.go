package reports

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/verifact-app/backend/internal/pkg/pagination"
)

// Truth verdict values a report may carry.
const (
	VerdictTrue          = "true"
	VerdictFalse         = "false"
	VerdictPartiallyTrue = "partially_true"
	VerdictMisleading    = "misleading"
	VerdictUnverified    = "unverified"
	VerdictDisputed      = "disputed"
)

// IsValidVerdict reports whether v is one of the verdict enum values.
func IsValidVerdict(v string) bool {
	switch v {
	case VerdictTrue, VerdictFalse, VerdictPartiallyTrue, VerdictMisleading, VerdictUnverified, VerdictDisputed:
		return true
	}
	return false
}

// Report is a fact-checking write-up covering zero or more claims.
// Soft-deleted via deletedAt so linked claims keep resolving.
type Report struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID   `bson:"userId" json:"userId"`
	Title        string               `bson:"title" json:"title"`
	Content      string               `bson:"content" json:"content"`
	Conclusion   string               `bson:"conclusion" json:"conclusion"`
	TruthVerdict string               `bson:"truthVerdict" json:"truthVerdict"`
	References   []string             `bson:"references" json:"references"`
	ClaimIDs     []primitive.ObjectID `bson:"claimIds" json:"claimIds"`
	AISummary    string               `bson:"aiReportSummary" json:"aiReportSummary"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
	DeletedAt    *time.Time           `bson:"deletedAt,omitempty" json:"-"`
}

// Request DTOs

type CreateReportRequest struct {
	Title        string   `json:"title" binding:"required,min=5,max=200"`
	Content      string   `json:"content" binding:"required,min=20"`
	Conclusion   string   `json:"conclusion" binding:"omitempty,max=5000"`
	TruthVerdict string   `json:"truthVerdict" binding:"required"`
	References   []string `json:"references" binding:"omitempty,max=50"`
	ClaimIDs     []string `json:"claimIds" binding:"omitempty,max=50"`
}

type UpdateReportRequest struct {
	Title        string   `json:"title" binding:"omitempty,min=5,max=200"`
	Content      string   `json:"content" binding:"omitempty,min=20"`
	Conclusion   string   `json:"conclusion" binding:"omitempty,max=5000"`
	TruthVerdict string   `json:"truthVerdict" binding:"omitempty"`
	References   []string `json:"references" binding:"omitempty,max=50"`
}

type ListQuery struct {
	Page    int    `form:"page,default=1" binding:"min=1"`
	Limit   int    `form:"limit,default=20" binding:"min=1,max=50"`
	Verdict string `form:"verdict" binding:"omitempty"`
}

type SearchQuery struct {
	Q     string `form:"q" binding:"required,min=2"`
	Page  int    `form:"page,default=1" binding:"min=1"`
	Limit int    `form:"limit,default=20" binding:"min=1,max=50"`
}

// Response DTOs

type ReportAuthor struct {
	ID        primitive.ObjectID `json:"id"`
	Username  string             `json:"username"`
	AvatarURL string             `json:"avatarUrl"`
}

type ReportResponse struct {
	Report
	Author *ReportAuthor `json:"author,omitempty"`
}

type PaginatedReports struct {
	Reports    []ReportResponse `json:"reports"`
	Pagination pagination.Meta  `json:"pagination"`
}
