package reactions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/verifact-app/backend/internal/features/activity"
	"github.com/verifact-app/backend/internal/features/notifications"
	"github.com/verifact-app/backend/internal/pkg/targets"
	apperrors "github.com/verifact-app/backend/pkg/errors"
)

type reactionKey struct {
	userID     primitive.ObjectID
	targetID   primitive.ObjectID
	targetType targets.Type
}

type fakeReactionStore struct {
	reactions map[reactionKey]*Reaction
}

func newFakeReactionStore() *fakeReactionStore {
	return &fakeReactionStore{reactions: map[reactionKey]*Reaction{}}
}

func (f *fakeReactionStore) key(r *Reaction) reactionKey {
	return reactionKey{userID: r.UserID, targetID: r.TargetID, targetType: r.TargetType}
}

func (f *fakeReactionStore) Create(_ context.Context, r *Reaction) error {
	k := f.key(r)
	if _, exists := f.reactions[k]; exists {
		return apperrors.ErrDuplicate
	}
	r.ID = primitive.NewObjectID()
	f.reactions[k] = r
	return nil
}

func (f *fakeReactionStore) GetByUserAndTarget(_ context.Context, userID, targetID primitive.ObjectID, targetType targets.Type) (*Reaction, error) {
	r, ok := f.reactions[reactionKey{userID: userID, targetID: targetID, targetType: targetType}]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeReactionStore) SetType(_ context.Context, reactionID primitive.ObjectID, reactionType string) error {
	for _, r := range f.reactions {
		if r.ID == reactionID {
			r.Type = reactionType
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (f *fakeReactionStore) Delete(_ context.Context, reactionID primitive.ObjectID) error {
	for k, r := range f.reactions {
		if r.ID == reactionID {
			delete(f.reactions, k)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (f *fakeReactionStore) CountByTarget(_ context.Context, targetID primitive.ObjectID, targetType targets.Type) (Counts, error) {
	var counts Counts
	for _, r := range f.reactions {
		if r.TargetID != targetID || r.TargetType != targetType {
			continue
		}
		if r.Type == TypeLike {
			counts.Like++
		} else {
			counts.Dislike++
		}
	}
	return counts, nil
}

func (f *fakeReactionStore) ListByTarget(_ context.Context, targetID primitive.ObjectID, targetType targets.Type) ([]Reaction, error) {
	var out []Reaction
	for _, r := range f.reactions {
		if r.TargetID == targetID && r.TargetType == targetType {
			out = append(out, *r)
		}
	}
	return out, nil
}

type fakeCommentCache struct {
	likedBy    []primitive.ObjectID
	dislikedBy []primitive.ObjectID
	writes     int
}

func (f *fakeCommentCache) WriteReactionCache(_ context.Context, _ primitive.ObjectID, likedBy, dislikedBy []primitive.ObjectID) error {
	f.likedBy = likedBy
	f.dislikedBy = dislikedBy
	f.writes++
	return nil
}

type fakeResolver struct {
	info *targets.Info
	err  error
}

func (f *fakeResolver) Resolve(_ context.Context, _ targets.Type, _ primitive.ObjectID) (*targets.Info, error) {
	return f.info, f.err
}

type fakeNotifier struct {
	created []notifications.CreateInput
}

func (f *fakeNotifier) Create(_ context.Context, in notifications.CreateInput) (*notifications.Notification, error) {
	if in.RecipientID == in.SenderID {
		return nil, nil
	}
	f.created = append(f.created, in)
	return &notifications.Notification{}, nil
}

type fakeActivityLog struct {
	entries []string
}

func (f *fakeActivityLog) LogActivity(_ context.Context, _ primitive.ObjectID, activityType string, _ targets.Type, _ primitive.ObjectID, _, _ string) (*activity.Activity, error) {
	f.entries = append(f.entries, activityType)
	return &activity.Activity{}, nil
}

func newTestService(owner primitive.ObjectID) (*Service, *fakeReactionStore, *fakeCommentCache, *fakeNotifier, *fakeActivityLog) {
	store := newFakeReactionStore()
	cache := &fakeCommentCache{}
	notifier := &fakeNotifier{}
	activities := &fakeActivityLog{}
	resolver := &fakeResolver{info: &targets.Info{
		OwnerID:  owner,
		PostType: targets.TypeReport,
		PostID:   primitive.NewObjectID(),
	}}
	return NewService(store, cache, resolver, notifier, activities), store, cache, notifier, activities
}

func TestToggleReactionCreateRemoveFlip(t *testing.T) {
	owner := primitive.NewObjectID()
	service, store, _, _, activities := newTestService(owner)

	user := primitive.NewObjectID()
	target := primitive.NewObjectID()

	// Absent: create.
	result, err := service.ToggleReaction(context.Background(), user, target, targets.TypeReport, TypeLike)
	require.NoError(t, err)
	require.Equal(t, int64(1), result.Counts.Like)
	require.NotNil(t, result.UserReaction)

	// Opposite: flip.
	result, err = service.ToggleReaction(context.Background(), user, target, targets.TypeReport, TypeDislike)
	require.NoError(t, err)
	require.Equal(t, Counts{Like: 0, Dislike: 1}, result.Counts)

	// Identical: remove.
	result, err = service.ToggleReaction(context.Background(), user, target, targets.TypeReport, TypeDislike)
	require.NoError(t, err)
	require.Equal(t, Counts{}, result.Counts)
	require.Nil(t, result.UserReaction)
	require.Empty(t, store.reactions)

	require.Equal(t, []string{activity.TypeLike, activity.TypeDislike, activity.TypeDislike}, activities.entries)
}

func TestSetReactionIdempotent(t *testing.T) {
	owner := primitive.NewObjectID()
	service, _, _, notifier, _ := newTestService(owner)

	user := primitive.NewObjectID()
	target := primitive.NewObjectID()

	first, err := service.SetReaction(context.Background(), user, target, targets.TypeReport, TypeLike)
	require.NoError(t, err)
	require.Equal(t, int64(1), first.Counts.Like)

	second, err := service.SetReaction(context.Background(), user, target, targets.TypeReport, TypeLike)
	require.NoError(t, err)
	require.Equal(t, int64(1), second.Counts.Like, "repeat set must not add a reaction")
	require.Len(t, notifier.created, 1, "repeat set must not notify again")
}

func TestSetReactionNotifiesOnTransitionIntoLike(t *testing.T) {
	owner := primitive.NewObjectID()
	service, _, _, notifier, _ := newTestService(owner)

	user := primitive.NewObjectID()
	target := primitive.NewObjectID()

	_, err := service.SetReaction(context.Background(), user, target, targets.TypeReport, TypeDislike)
	require.NoError(t, err)
	require.Empty(t, notifier.created)

	_, err = service.SetReaction(context.Background(), user, target, targets.TypeReport, TypeLike)
	require.NoError(t, err)
	require.Len(t, notifier.created, 1)
	require.Equal(t, owner, notifier.created[0].RecipientID)
	require.Equal(t, notifications.TypeLike, notifier.created[0].Type)
}

func TestSetReactionRecomputesCommentCache(t *testing.T) {
	owner := primitive.NewObjectID()
	service, _, cache, _, _ := newTestService(owner)

	commentID := primitive.NewObjectID()
	liker := primitive.NewObjectID()
	disliker := primitive.NewObjectID()

	_, err := service.SetReaction(context.Background(), liker, commentID, targets.TypeComment, TypeLike)
	require.NoError(t, err)
	_, err = service.SetReaction(context.Background(), disliker, commentID, targets.TypeComment, TypeDislike)
	require.NoError(t, err)

	require.Equal(t, 2, cache.writes)
	require.Equal(t, []primitive.ObjectID{liker}, cache.likedBy)
	require.Equal(t, []primitive.ObjectID{disliker}, cache.dislikedBy)
}

func TestSetReactionUnknownTypeRejected(t *testing.T) {
	service, _, _, _, _ := newTestService(primitive.NewObjectID())

	_, err := service.SetReaction(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), targets.TypeReport, "meh")
	require.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestGetUserReactionAbsentIsNil(t *testing.T) {
	service, _, _, _, _ := newTestService(primitive.NewObjectID())

	reaction, err := service.GetUserReaction(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), targets.TypeClaim)
	require.NoError(t, err)
	require.Nil(t, reaction)
}
