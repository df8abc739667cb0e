package notifications

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/verifact-app/backend/internal/pkg/logger"
	"github.com/verifact-app/backend/internal/pkg/targets"
	"github.com/verifact-app/backend/internal/realtime"
	apperrors "github.com/verifact-app/backend/pkg/errors"
)

// Transport pushes a notification event to a user's real-time channel.
// Delivery is fire-and-forget: implementations must not block and must
// swallow their own failures.
type Transport interface {
	Publish(userID string, event realtime.Event)
}

// Store is the persistence surface the service needs. Satisfied by
// *Repository; tests substitute a fake.
type Store interface {
	Insert(ctx context.Context, n *Notification) error
	FindDuplicate(ctx context.Context, in CreateInput) (*Notification, error)
	Touch(ctx context.Context, notificationID primitive.ObjectID) error
	DeleteByTarget(ctx context.Context, targetType targets.Type, targetID primitive.ObjectID) error
}

// Service persists notifications and fans them out over the injected
// transports. Self-recipient suppression lives here so no producer has to
// remember it.
type Service struct {
	store      Store
	transports []Transport
}

func NewService(store Store, transports ...Transport) *Service {
	return &Service{store: store, transports: transports}
}

// Create persists a notification and publishes it to the recipient.
//
// Rules enforced here, for every producer:
//   - a user is never notified about their own action
//   - "like" notifications are deduplicated on
//     (recipient, sender, type, targetType, targetId); a re-like
//     resurfaces the existing record as unread instead of duplicating it
//   - comment/reply notifications are never deduplicated
//
// Returns (nil, nil) when the notification was intentionally suppressed.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Notification, error) {
	if in.RecipientID == in.SenderID {
		return nil, nil
	}

	if in.Type == TypeLike {
		existing, err := s.store.FindDuplicate(ctx, in)
		if err == nil {
			if touchErr := s.store.Touch(ctx, existing.ID); touchErr != nil {
				return nil, touchErr
			}
			existing.Read = false
			s.publish(existing)
			return existing, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	n := &Notification{
		RecipientID: in.RecipientID,
		SenderID:    in.SenderID,
		Type:        in.Type,
		TargetType:  in.TargetType,
		TargetID:    in.TargetID,
		PostType:    in.PostType,
		PostID:      in.PostID,
		Message:     in.Message,
	}
	if err := s.store.Insert(ctx, n); err != nil {
		return nil, err
	}

	s.publish(n)
	return n, nil
}

// DeleteByTarget drops every notification referencing the target, so a
// deleted comment leaves no notifications deep-linking to nothing.
func (s *Service) DeleteByTarget(ctx context.Context, targetType targets.Type, targetID primitive.ObjectID) error {
	return s.store.DeleteByTarget(ctx, targetType, targetID)
}

func (s *Service) publish(n *Notification) {
	event := realtime.Event{Name: "new-notification", Data: n}
	for _, t := range s.transports {
		t.Publish(n.RecipientID.Hex(), event)
	}
}

// HubTransport adapts the websocket hub to the Transport interface.
type HubTransport struct {
	Hub *realtime.Hub
}

func (t *HubTransport) Publish(userID string, event realtime.Event) {
	t.Hub.Publish(userID, event)
}

// PushSender sends a push message to a set of device tokens.
// *fcm.Service satisfies it.
type PushSender interface {
	Send(ctx context.Context, tokens []string, title, body string, data map[string]string)
}

// TokenSource resolves a user's registered device tokens.
type TokenSource interface {
	GetDeviceTokens(ctx context.Context, userID primitive.ObjectID) ([]string, error)
}

// PushTransport delivers notifications as mobile push messages. Lookup and
// send failures are logged only.
type PushTransport struct {
	Sender PushSender
	Tokens TokenSource
}

func (t *PushTransport) Publish(userID string, event realtime.Event) {
	recipientID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return
	}

	n, ok := event.Data.(*Notification)
	if !ok {
		return
	}

	ctx := context.Background()
	tokens, err := t.Tokens.GetDeviceTokens(ctx, recipientID)
	if err != nil {
		logger.Warn("notifications: device token lookup for %s failed: %v", userID, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	t.Sender.Send(ctx, tokens, pushTitle(n.Type), n.Message, map[string]string{
		"type":     n.Type,
		"postType": string(n.PostType),
		"postId":   n.PostID.Hex(),
	})
}

func pushTitle(notificationType string) string {
	switch notificationType {
	case TypeLike:
		return "New like"
	case TypeComment:
		return "New comment"
	case TypeReply:
		return "New reply"
	case TypePeerReview:
		return "New peer review"
	default:
		return "New activity"
	}
}
