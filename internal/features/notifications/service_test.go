package notifications

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/verifact-app/backend/internal/pkg/targets"
	"github.com/verifact-app/backend/internal/realtime"
	apperrors "github.com/verifact-app/backend/pkg/errors"
)

type fakeStore struct {
	inserted []*Notification
	touched  []primitive.ObjectID
}

func (f *fakeStore) Insert(_ context.Context, n *Notification) error {
	n.ID = primitive.NewObjectID()
	f.inserted = append(f.inserted, n)
	return nil
}

func (f *fakeStore) FindDuplicate(_ context.Context, in CreateInput) (*Notification, error) {
	for _, n := range f.inserted {
		if n.RecipientID == in.RecipientID && n.SenderID == in.SenderID &&
			n.Type == in.Type && n.TargetType == in.TargetType && n.TargetID == in.TargetID {
			return n, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeStore) Touch(_ context.Context, id primitive.ObjectID) error {
	f.touched = append(f.touched, id)
	return nil
}

func (f *fakeStore) DeleteByTarget(_ context.Context, targetType targets.Type, targetID primitive.ObjectID) error {
	kept := f.inserted[:0]
	for _, n := range f.inserted {
		if n.TargetType != targetType || n.TargetID != targetID {
			kept = append(kept, n)
		}
	}
	f.inserted = kept
	return nil
}

type fakeTransport struct {
	published []string
}

func (f *fakeTransport) Publish(userID string, _ realtime.Event) {
	f.published = append(f.published, userID)
}

func likeInput(recipient, sender primitive.ObjectID) CreateInput {
	return CreateInput{
		RecipientID: recipient,
		SenderID:    sender,
		Type:        TypeLike,
		TargetType:  targets.TypeReport,
		TargetID:    primitive.NewObjectID(),
		PostType:    targets.TypeReport,
	}
}

func TestCreateSuppressesSelfNotification(t *testing.T) {
	store := &fakeStore{}
	transport := &fakeTransport{}
	service := NewService(store, transport)

	userID := primitive.NewObjectID()
	n, err := service.Create(context.Background(), likeInput(userID, userID))

	require.NoError(t, err)
	require.Nil(t, n)
	require.Empty(t, store.inserted)
	require.Empty(t, transport.published)
}

func TestCreateLikeDeduplicates(t *testing.T) {
	store := &fakeStore{}
	transport := &fakeTransport{}
	service := NewService(store, transport)

	in := likeInput(primitive.NewObjectID(), primitive.NewObjectID())

	first, err := service.Create(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, first)
	require.Len(t, store.inserted, 1)

	second, err := service.Create(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, second)
	require.Equal(t, first.ID, second.ID)
	require.Len(t, store.inserted, 1, "re-like must not create a second record")
	require.Equal(t, []primitive.ObjectID{first.ID}, store.touched)
	require.False(t, second.Read)
}

func TestCreateCommentNeverDeduplicates(t *testing.T) {
	store := &fakeStore{}
	service := NewService(store)

	in := likeInput(primitive.NewObjectID(), primitive.NewObjectID())
	in.Type = TypeComment

	_, err := service.Create(context.Background(), in)
	require.NoError(t, err)
	_, err = service.Create(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, store.inserted, 2)
}

func TestCreatePublishesToAllTransports(t *testing.T) {
	store := &fakeStore{}
	a, b := &fakeTransport{}, &fakeTransport{}
	service := NewService(store, a, b)

	recipient := primitive.NewObjectID()
	n, err := service.Create(context.Background(), likeInput(recipient, primitive.NewObjectID()))

	require.NoError(t, err)
	require.NotNil(t, n)
	require.Equal(t, []string{recipient.Hex()}, a.published)
	require.Equal(t, []string{recipient.Hex()}, b.published)
}

func TestDeleteByTargetRemovesOnlyMatchingNotifications(t *testing.T) {
	store := &fakeStore{}
	service := NewService(store)

	targetA := primitive.NewObjectID()
	targetB := primitive.NewObjectID()
	for _, target := range []primitive.ObjectID{targetA, targetB} {
		_, err := service.Create(context.Background(), CreateInput{
			RecipientID: primitive.NewObjectID(),
			SenderID:    primitive.NewObjectID(),
			Type:        TypeComment,
			TargetType:  targets.TypeComment,
			TargetID:    target,
		})
		require.NoError(t, err)
	}

	require.NoError(t, service.DeleteByTarget(context.Background(), targets.TypeComment, targetA))
	require.Len(t, store.inserted, 1)
	require.Equal(t, targetB, store.inserted[0].TargetID)
}
