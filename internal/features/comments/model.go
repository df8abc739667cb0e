package comments

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/verifact-app/backend/internal/pkg/targets"
)

// Comment hangs off a claim or report, optionally as a reply to another
// comment. Likes/Dislikes and the LikedBy/DislikedBy sets are a
// denormalized cache kept consistent with the reactions collection by
// full recompute on every reaction write.
type Comment struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID   `bson:"userId" json:"userId"`
	TargetType      targets.Type         `bson:"targetType" json:"targetType"`
	TargetID        primitive.ObjectID   `bson:"targetId" json:"targetId"`
	ParentCommentID *primitive.ObjectID  `bson:"parentCommentId,omitempty" json:"parentCommentId,omitempty"`
	Content         string               `bson:"content" json:"content"`
	Likes           int                  `bson:"likes" json:"likes"`
	Dislikes        int                  `bson:"dislikes" json:"dislikes"`
	LikedBy         []primitive.ObjectID `bson:"likedBy" json:"-"`
	DislikedBy      []primitive.ObjectID `bson:"dislikedBy" json:"-"`
	CreatedAt       time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Request DTOs

type CreateCommentRequest struct {
	TargetType      string `json:"targetType" binding:"required"`
	TargetID        string `json:"targetId" binding:"required"`
	ParentCommentID string `json:"parentCommentId" binding:"omitempty"`
	Content         string `json:"content" binding:"required,min=1,max=2000"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

// Response DTOs

type CommentAuthor struct {
	ID        primitive.ObjectID `json:"id"`
	Username  string             `json:"username"`
	AvatarURL string             `json:"avatarUrl"`
}

// CommentNode is one node of the rendered comment forest. UserReaction is
// "like", "dislike" or empty for the viewing user.
type CommentNode struct {
	Comment
	Author       *CommentAuthor `json:"author,omitempty"`
	UserReaction string         `json:"userReaction,omitempty"`
	Replies      []*CommentNode `json:"replies"`
}
