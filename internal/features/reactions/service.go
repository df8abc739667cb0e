package reactions

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/verifact-app/backend/internal/features/activity"
	"github.com/verifact-app/backend/internal/features/notifications"
	"github.com/verifact-app/backend/internal/pkg/logger"
	"github.com/verifact-app/backend/internal/pkg/targets"
	apperrors "github.com/verifact-app/backend/pkg/errors"
)

// Store is the reaction persistence surface. *Repository satisfies it.
type Store interface {
	Create(ctx context.Context, reaction *Reaction) error
	GetByUserAndTarget(ctx context.Context, userID, targetID primitive.ObjectID, targetType targets.Type) (*Reaction, error)
	SetType(ctx context.Context, reactionID primitive.ObjectID, reactionType string) error
	Delete(ctx context.Context, reactionID primitive.ObjectID) error
	CountByTarget(ctx context.Context, targetID primitive.ObjectID, targetType targets.Type) (Counts, error)
	ListByTarget(ctx context.Context, targetID primitive.ObjectID, targetType targets.Type) ([]Reaction, error)
}

// CommentCache writes back a comment's denormalized reaction fields.
type CommentCache interface {
	WriteReactionCache(ctx context.Context, commentID primitive.ObjectID, likedBy, dislikedBy []primitive.ObjectID) error
}

// Notifier is the notification fanout surface.
type Notifier interface {
	Create(ctx context.Context, in notifications.CreateInput) (*notifications.Notification, error)
}

// TargetResolver resolves a polymorphic target.
type TargetResolver interface {
	Resolve(ctx context.Context, targetType targets.Type, targetID primitive.ObjectID) (*targets.Info, error)
}

// ActivityLogger appends audit entries.
type ActivityLogger interface {
	LogActivity(ctx context.Context, userID primitive.ObjectID, activityType string, targetType targets.Type, targetID primitive.ObjectID, targetModel, details string) (*activity.Activity, error)
}

type Service struct {
	store        Store
	commentCache CommentCache
	resolver     TargetResolver
	notifier     Notifier
	activities   ActivityLogger
}

func NewService(store Store, commentCache CommentCache, resolver TargetResolver, notifier Notifier, activities ActivityLogger) *Service {
	return &Service{
		store:        store,
		commentCache: commentCache,
		resolver:     resolver,
		notifier:     notifier,
		activities:   activities,
	}
}

// CountReactions aggregates a target's like/dislike counts.
func (s *Service) CountReactions(ctx context.Context, targetID primitive.ObjectID, targetType targets.Type) (Counts, error) {
	return s.store.CountByTarget(ctx, targetID, targetType)
}

// GetUserReaction returns the user's reaction on a target, or nil.
func (s *Service) GetUserReaction(ctx context.Context, userID, targetID primitive.ObjectID, targetType targets.Type) (*Reaction, error) {
	reaction, err := s.store.GetByUserAndTarget(ctx, userID, targetID, targetType)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return reaction, nil
}

// ToggleReaction cycles the user's reaction: absent creates, identical
// removes, opposite flips. Every transition records an activity entry,
// whose failure propagates. Returns the resulting aggregate counts.
func (s *Service) ToggleReaction(ctx context.Context, userID, targetID primitive.ObjectID, targetType targets.Type, reactionType string) (*ReactionResult, error) {
	if !IsValidType(reactionType) {
		return nil, fmt.Errorf("%w: unknown reaction type %q", apperrors.ErrBadRequest, reactionType)
	}

	existing, err := s.store.GetByUserAndTarget(ctx, userID, targetID, targetType)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		reaction := &Reaction{UserID: userID, TargetID: targetID, TargetType: targetType, Type: reactionType}
		if err := s.store.Create(ctx, reaction); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case existing.Type == reactionType:
		if err := s.store.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
	default:
		if err := s.store.SetType(ctx, existing.ID, reactionType); err != nil {
			return nil, err
		}
	}

	activityType := activity.TypeLike
	if reactionType == TypeDislike {
		activityType = activity.TypeDislike
	}
	if _, err := s.activities.LogActivity(ctx, userID, activityType, targetType, targetID, modelName(targetType), ""); err != nil {
		return nil, err
	}

	return s.result(ctx, userID, targetID, targetType)
}

// SetReaction is the idempotent upsert path: the call always ends with
// exactly the requested reaction persisted. On the transition into like
// the target's owner is notified; the fanout dedups re-likes. Comment
// targets get their denormalized cache fully recomputed.
func (s *Service) SetReaction(ctx context.Context, userID, targetID primitive.ObjectID, targetType targets.Type, reactionType string) (*ReactionResult, error) {
	if !IsValidType(reactionType) {
		return nil, fmt.Errorf("%w: unknown reaction type %q", apperrors.ErrBadRequest, reactionType)
	}

	info, err := s.resolver.Resolve(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.GetByUserAndTarget(ctx, userID, targetID, targetType)
	becameLike := false
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		reaction := &Reaction{UserID: userID, TargetID: targetID, TargetType: targetType, Type: reactionType}
		if createErr := s.store.Create(ctx, reaction); createErr != nil && !errors.Is(createErr, apperrors.ErrDuplicate) {
			return nil, createErr
		}
		becameLike = reactionType == TypeLike
	case err != nil:
		return nil, err
	case existing.Type != reactionType:
		if err := s.store.SetType(ctx, existing.ID, reactionType); err != nil {
			return nil, err
		}
		becameLike = reactionType == TypeLike
	}

	if becameLike {
		if _, err := s.notifier.Create(ctx, notifications.CreateInput{
			RecipientID: info.OwnerID,
			SenderID:    userID,
			Type:        notifications.TypeLike,
			TargetType:  targetType,
			TargetID:    targetID,
			PostType:    info.PostType,
			PostID:      info.PostID,
			Message:     info.Preview,
		}); err != nil {
			logger.Warn("reactions: like notification failed for target %s: %v", targetID.Hex(), err)
		}
	}

	if targetType == targets.TypeComment {
		if err := s.recomputeCommentCache(ctx, targetID); err != nil {
			return nil, err
		}
	}

	return s.result(ctx, userID, targetID, targetType)
}

// recomputeCommentCache rebuilds likedBy/dislikedBy from the reactions
// collection. Full rescan, last writer wins.
func (s *Service) recomputeCommentCache(ctx context.Context, commentID primitive.ObjectID) error {
	all, err := s.store.ListByTarget(ctx, commentID, targets.TypeComment)
	if err != nil {
		return err
	}

	likedBy := []primitive.ObjectID{}
	dislikedBy := []primitive.ObjectID{}
	for _, reaction := range all {
		switch reaction.Type {
		case TypeLike:
			likedBy = append(likedBy, reaction.UserID)
		case TypeDislike:
			dislikedBy = append(dislikedBy, reaction.UserID)
		}
	}

	return s.commentCache.WriteReactionCache(ctx, commentID, likedBy, dislikedBy)
}

func (s *Service) result(ctx context.Context, userID, targetID primitive.ObjectID, targetType targets.Type) (*ReactionResult, error) {
	counts, err := s.store.CountByTarget(ctx, targetID, targetType)
	if err != nil {
		return nil, err
	}
	userReaction, err := s.GetUserReaction(ctx, userID, targetID, targetType)
	if err != nil {
		return nil, err
	}
	return &ReactionResult{Counts: counts, UserReaction: userReaction}, nil
}

func modelName(t targets.Type) string {
	switch t {
	case targets.TypeClaim:
		return "Claim"
	case targets.TypeReport:
		return "Report"
	case targets.TypeComment:
		return "Comment"
	case targets.TypeUser:
		return "User"
	default:
		return ""
	}
}
