package notifications

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/verifact-app/backend/internal/pkg/pagination"
	"github.com/verifact-app/backend/internal/pkg/targets"
)

// Notification type constants.
const (
	TypeLike       = "like"
	TypeComment    = "comment"
	TypeReply      = "reply"
	TypePeerReview = "peer_review"
)

// Notification is a recipient-directed event record. PostType/PostID carry
// the deep-link context: the claim or report the event ultimately belongs to.
type Notification struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RecipientID primitive.ObjectID `bson:"recipientId" json:"recipientId"`
	SenderID    primitive.ObjectID `bson:"senderId" json:"senderId"`
	Type        string             `bson:"type" json:"type"`
	TargetType  targets.Type       `bson:"targetType" json:"targetType"`
	TargetID    primitive.ObjectID `bson:"targetId" json:"targetId"`
	PostType    targets.Type       `bson:"postType,omitempty" json:"postType,omitempty"`
	PostID      primitive.ObjectID `bson:"postId,omitempty" json:"postId,omitempty"`
	Message     string             `bson:"message" json:"message"`
	Read        bool               `bson:"read" json:"read"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreateInput is what producers (comments, reactions) hand to the service.
type CreateInput struct {
	RecipientID primitive.ObjectID
	SenderID    primitive.ObjectID
	Type        string
	TargetType  targets.Type
	TargetID    primitive.ObjectID
	PostType    targets.Type
	PostID      primitive.ObjectID
	Message     string
}

type ListQuery struct {
	Page   int  `form:"page,default=1" binding:"min=1"`
	Limit  int  `form:"limit,default=20" binding:"min=1,max=50"`
	Unread bool `form:"unread"`
}

// Response DTOs

type NotificationSender struct {
	ID        primitive.ObjectID `json:"id"`
	Username  string             `json:"username"`
	AvatarURL string             `json:"avatarUrl"`
}

type NotificationResponse struct {
	Notification
	Sender *NotificationSender `json:"sender,omitempty"`
}

type PaginatedNotifications struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unreadCount"`
	Pagination    pagination.Meta        `json:"pagination"`
}
