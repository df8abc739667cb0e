package comments

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/verifact-app/backend/internal/features/notifications"
	"github.com/verifact-app/backend/internal/pkg/logger"
	"github.com/verifact-app/backend/internal/pkg/targets"
	apperrors "github.com/verifact-app/backend/pkg/errors"
)

// Notifier is the notification fanout surface the service needs.
type Notifier interface {
	Create(ctx context.Context, in notifications.CreateInput) (*notifications.Notification, error)
	DeleteByTarget(ctx context.Context, targetType targets.Type, targetID primitive.ObjectID) error
}

// TargetResolver resolves a polymorphic target to its owner and post context.
type TargetResolver interface {
	Resolve(ctx context.Context, targetType targets.Type, targetID primitive.ObjectID) (*targets.Info, error)
}

// Store is the persistence surface of the service. *Repository satisfies it.
type Store interface {
	CreateComment(ctx context.Context, comment *Comment) error
	GetCommentByID(ctx context.Context, commentID primitive.ObjectID) (*Comment, error)
	SetLegacyReaction(ctx context.Context, commentID primitive.ObjectID, likedBy, dislikedBy []primitive.ObjectID) error
	ReplyIDs(ctx context.Context, commentID primitive.ObjectID) ([]primitive.ObjectID, error)
	DeleteWithReplies(ctx context.Context, commentID primitive.ObjectID) (int64, error)
}

type Service struct {
	store    Store
	resolver TargetResolver
	notifier Notifier
}

func NewService(store Store, resolver TargetResolver, notifier Notifier) *Service {
	return &Service{store: store, resolver: resolver, notifier: notifier}
}

// Create persists a comment and notifies the right recipient: the parent
// comment's author for a reply, the post's author for a top-level comment.
// Fanout failure is logged, never returned; the comment exists either way.
func (s *Service) Create(ctx context.Context, userID primitive.ObjectID, targetType targets.Type, targetID primitive.ObjectID, parentID *primitive.ObjectID, content string) (*Comment, error) {
	if !targets.IsContentType(targetType) {
		return nil, fmt.Errorf("%w: comments attach to claims and reports only", apperrors.ErrBadRequest)
	}

	info, err := s.resolver.Resolve(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}

	notifType := notifications.TypeComment
	recipient := info.OwnerID

	if parentID != nil {
		parent, err := s.store.GetCommentByID(ctx, *parentID)
		if err != nil {
			return nil, fmt.Errorf("parent comment: %w", err)
		}
		if parent.TargetType != targetType || parent.TargetID != targetID {
			return nil, fmt.Errorf("%w: parent comment belongs to a different target", apperrors.ErrBadRequest)
		}
		notifType = notifications.TypeReply
		recipient = parent.UserID
	}

	comment := &Comment{
		UserID:          userID,
		TargetType:      targetType,
		TargetID:        targetID,
		ParentCommentID: parentID,
		Content:         content,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	if _, err := s.notifier.Create(ctx, notifications.CreateInput{
		RecipientID: recipient,
		SenderID:    userID,
		Type:        notifType,
		TargetType:  targets.TypeComment,
		TargetID:    comment.ID,
		PostType:    info.PostType,
		PostID:      info.PostID,
		Message:     truncate(content, 100),
	}); err != nil {
		logger.Warn("comments: notification fanout failed for comment %s: %v", comment.ID.Hex(), err)
	}

	return comment, nil
}

// Delete removes a comment with its direct replies and purges the
// notifications that pointed at any of them. A failed purge is logged,
// the delete stands.
func (s *Service) Delete(ctx context.Context, commentID primitive.ObjectID) (int64, error) {
	replyIDs, err := s.store.ReplyIDs(ctx, commentID)
	if err != nil {
		return 0, err
	}

	deleted, err := s.store.DeleteWithReplies(ctx, commentID)
	if err != nil {
		return 0, err
	}

	for _, id := range append(replyIDs, commentID) {
		if err := s.notifier.DeleteByTarget(ctx, targets.TypeComment, id); err != nil {
			logger.Warn("comments: notification cleanup failed for comment %s: %v", id.Hex(), err)
		}
	}
	return deleted, nil
}

// ToggleLike flips the viewer's like on the comment's own cached sets,
// independent of the reactions collection. A like clears a prior dislike.
// Notifies only on the transition into like.
func (s *Service) ToggleLike(ctx context.Context, commentID, userID primitive.ObjectID) (*Comment, error) {
	return s.toggle(ctx, commentID, userID, true)
}

// ToggleDislike is the dislike counterpart of ToggleLike. Never notifies.
func (s *Service) ToggleDislike(ctx context.Context, commentID, userID primitive.ObjectID) (*Comment, error) {
	return s.toggle(ctx, commentID, userID, false)
}

func (s *Service) toggle(ctx context.Context, commentID, userID primitive.ObjectID, like bool) (*Comment, error) {
	comment, err := s.store.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	likedBy := withoutID(comment.LikedBy, userID)
	dislikedBy := withoutID(comment.DislikedBy, userID)

	wasSet := false
	if like {
		wasSet = len(likedBy) != len(comment.LikedBy)
		if !wasSet {
			likedBy = append(likedBy, userID)
		}
	} else {
		wasSet = len(dislikedBy) != len(comment.DislikedBy)
		if !wasSet {
			dislikedBy = append(dislikedBy, userID)
		}
	}

	if err := s.store.SetLegacyReaction(ctx, commentID, likedBy, dislikedBy); err != nil {
		return nil, err
	}

	// Transition into like is the only state change worth a notification.
	if like && !wasSet {
		if _, err := s.notifier.Create(ctx, notifications.CreateInput{
			RecipientID: comment.UserID,
			SenderID:    userID,
			Type:        notifications.TypeLike,
			TargetType:  targets.TypeComment,
			TargetID:    comment.ID,
			PostType:    comment.TargetType,
			PostID:      comment.TargetID,
			Message:     truncate(comment.Content, 100),
		}); err != nil {
			logger.Warn("comments: like notification failed for comment %s: %v", comment.ID.Hex(), err)
		}
	}

	comment.LikedBy = likedBy
	comment.DislikedBy = dislikedBy
	comment.Likes = len(likedBy)
	comment.Dislikes = len(dislikedBy)
	return comment, nil
}

func withoutID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
