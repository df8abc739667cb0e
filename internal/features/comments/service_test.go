package comments

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/verifact-app/backend/internal/features/notifications"
	"github.com/verifact-app/backend/internal/pkg/targets"
	apperrors "github.com/verifact-app/backend/pkg/errors"
)

type fakeCommentStore struct {
	comments map[primitive.ObjectID]*Comment
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{comments: map[primitive.ObjectID]*Comment{}}
}

func (f *fakeCommentStore) CreateComment(_ context.Context, c *Comment) error {
	c.ID = primitive.NewObjectID()
	f.comments[c.ID] = c
	return nil
}

func (f *fakeCommentStore) GetCommentByID(_ context.Context, id primitive.ObjectID) (*Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCommentStore) SetLegacyReaction(_ context.Context, id primitive.ObjectID, likedBy, dislikedBy []primitive.ObjectID) error {
	c := f.comments[id]
	c.LikedBy = likedBy
	c.DislikedBy = dislikedBy
	c.Likes = len(likedBy)
	c.Dislikes = len(dislikedBy)
	return nil
}

func (f *fakeCommentStore) ReplyIDs(_ context.Context, id primitive.ObjectID) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for _, c := range f.comments {
		if c.ParentCommentID != nil && *c.ParentCommentID == id {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

func (f *fakeCommentStore) DeleteWithReplies(_ context.Context, id primitive.ObjectID) (int64, error) {
	deleted := int64(0)
	for key, c := range f.comments {
		if key == id || (c.ParentCommentID != nil && *c.ParentCommentID == id) {
			delete(f.comments, key)
			deleted++
		}
	}
	return deleted, nil
}

type fakeResolver struct {
	info *targets.Info
	err  error
}

func (f *fakeResolver) Resolve(_ context.Context, _ targets.Type, _ primitive.ObjectID) (*targets.Info, error) {
	return f.info, f.err
}

type fakeNotifier struct {
	created   []notifications.CreateInput
	purged    []primitive.ObjectID
	err       error
	deleteErr error
}

func (f *fakeNotifier) Create(_ context.Context, in notifications.CreateInput) (*notifications.Notification, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, in)
	return &notifications.Notification{}, nil
}

func (f *fakeNotifier) DeleteByTarget(_ context.Context, _ targets.Type, targetID primitive.ObjectID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.purged = append(f.purged, targetID)
	return nil
}

func TestCreateTopLevelNotifiesPostAuthor(t *testing.T) {
	owner := primitive.NewObjectID()
	postID := primitive.NewObjectID()
	store := newFakeCommentStore()
	notifier := &fakeNotifier{}
	service := NewService(store, &fakeResolver{info: &targets.Info{
		OwnerID: owner, PostType: targets.TypeClaim, PostID: postID,
	}}, notifier)

	commenter := primitive.NewObjectID()
	comment, err := service.Create(context.Background(), commenter, targets.TypeClaim, postID, nil, "interesting")

	require.NoError(t, err)
	require.NotNil(t, comment)
	require.Len(t, notifier.created, 1)
	require.Equal(t, owner, notifier.created[0].RecipientID)
	require.Equal(t, commenter, notifier.created[0].SenderID)
	require.Equal(t, notifications.TypeComment, notifier.created[0].Type)
	require.Equal(t, postID, notifier.created[0].PostID)
}

func TestCreateReplyNotifiesParentAuthor(t *testing.T) {
	postOwner := primitive.NewObjectID()
	postID := primitive.NewObjectID()
	store := newFakeCommentStore()
	notifier := &fakeNotifier{}
	service := NewService(store, &fakeResolver{info: &targets.Info{
		OwnerID: postOwner, PostType: targets.TypeReport, PostID: postID,
	}}, notifier)

	parentAuthor := primitive.NewObjectID()
	parent := &Comment{UserID: parentAuthor, TargetType: targets.TypeReport, TargetID: postID}
	require.NoError(t, store.CreateComment(context.Background(), parent))

	replier := primitive.NewObjectID()
	_, err := service.Create(context.Background(), replier, targets.TypeReport, postID, &parent.ID, "replying")

	require.NoError(t, err)
	require.Len(t, notifier.created, 1)
	require.Equal(t, parentAuthor, notifier.created[0].RecipientID)
	require.Equal(t, notifications.TypeReply, notifier.created[0].Type)
}

func TestCreateRejectsParentFromOtherTarget(t *testing.T) {
	postID := primitive.NewObjectID()
	store := newFakeCommentStore()
	service := NewService(store, &fakeResolver{info: &targets.Info{
		OwnerID: primitive.NewObjectID(), PostType: targets.TypeClaim, PostID: postID,
	}}, &fakeNotifier{})

	parent := &Comment{UserID: primitive.NewObjectID(), TargetType: targets.TypeClaim, TargetID: primitive.NewObjectID()}
	require.NoError(t, store.CreateComment(context.Background(), parent))

	_, err := service.Create(context.Background(), primitive.NewObjectID(), targets.TypeClaim, postID, &parent.ID, "hm")
	require.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestCreateSucceedsWhenFanoutFails(t *testing.T) {
	postID := primitive.NewObjectID()
	store := newFakeCommentStore()
	service := NewService(store, &fakeResolver{info: &targets.Info{
		OwnerID: primitive.NewObjectID(), PostType: targets.TypeClaim, PostID: postID,
	}}, &fakeNotifier{err: apperrors.ErrInternal})

	comment, err := service.Create(context.Background(), primitive.NewObjectID(), targets.TypeClaim, postID, nil, "still works")

	require.NoError(t, err)
	require.NotNil(t, comment)
	require.Contains(t, store.comments, comment.ID)
}

func TestToggleLikeNotifiesOnlyOnTransitionIn(t *testing.T) {
	store := newFakeCommentStore()
	notifier := &fakeNotifier{}
	service := NewService(store, &fakeResolver{}, notifier)

	author := primitive.NewObjectID()
	comment := &Comment{UserID: author, TargetType: targets.TypeClaim, TargetID: primitive.NewObjectID()}
	require.NoError(t, store.CreateComment(context.Background(), comment))

	liker := primitive.NewObjectID()

	// Like on: one notification.
	updated, err := service.ToggleLike(context.Background(), comment.ID, liker)
	require.NoError(t, err)
	require.Equal(t, 1, updated.Likes)
	require.Len(t, notifier.created, 1)
	require.Equal(t, notifications.TypeLike, notifier.created[0].Type)

	// Like off: no new notification.
	updated, err = service.ToggleLike(context.Background(), comment.ID, liker)
	require.NoError(t, err)
	require.Equal(t, 0, updated.Likes)
	require.Len(t, notifier.created, 1)
}

func TestToggleLikeClearsDislike(t *testing.T) {
	store := newFakeCommentStore()
	service := NewService(store, &fakeResolver{}, &fakeNotifier{})

	comment := &Comment{UserID: primitive.NewObjectID(), TargetType: targets.TypeClaim, TargetID: primitive.NewObjectID()}
	require.NoError(t, store.CreateComment(context.Background(), comment))

	user := primitive.NewObjectID()

	updated, err := service.ToggleDislike(context.Background(), comment.ID, user)
	require.NoError(t, err)
	require.Equal(t, 1, updated.Dislikes)

	updated, err = service.ToggleLike(context.Background(), comment.ID, user)
	require.NoError(t, err)
	require.Equal(t, 1, updated.Likes)
	require.Equal(t, 0, updated.Dislikes)
}

func TestToggleDislikeNeverNotifies(t *testing.T) {
	store := newFakeCommentStore()
	notifier := &fakeNotifier{}
	service := NewService(store, &fakeResolver{}, notifier)

	comment := &Comment{UserID: primitive.NewObjectID(), TargetType: targets.TypeClaim, TargetID: primitive.NewObjectID()}
	require.NoError(t, store.CreateComment(context.Background(), comment))

	_, err := service.ToggleDislike(context.Background(), comment.ID, primitive.NewObjectID())
	require.NoError(t, err)
	require.Empty(t, notifier.created)
}

func TestDeletePurgesNotificationsForCommentAndReplies(t *testing.T) {
	store := newFakeCommentStore()
	parentID := primitive.NewObjectID()
	replyID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()
	store.comments[parentID] = &Comment{ID: parentID}
	store.comments[replyID] = &Comment{ID: replyID, ParentCommentID: &parentID}
	store.comments[otherID] = &Comment{ID: otherID}

	notifier := &fakeNotifier{}
	service := NewService(store, &fakeResolver{}, notifier)

	deleted, err := service.Delete(context.Background(), parentID)
	require.NoError(t, err)
	require.EqualValues(t, 2, deleted)
	require.ElementsMatch(t, []primitive.ObjectID{parentID, replyID}, notifier.purged)
	require.Contains(t, store.comments, otherID)
	require.Len(t, store.comments, 1)
}

func TestDeleteSucceedsWhenNotificationPurgeFails(t *testing.T) {
	store := newFakeCommentStore()
	commentID := primitive.NewObjectID()
	store.comments[commentID] = &Comment{ID: commentID}

	service := NewService(store, &fakeResolver{}, &fakeNotifier{deleteErr: apperrors.ErrInternal})

	deleted, err := service.Delete(context.Background(), commentID)
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)
	require.Empty(t, store.comments)
}

func TestTruncatePreviewKeepsRuneBoundaries(t *testing.T) {
	require.Equal(t, "short", truncate("short", 100))

	long := strings.Repeat("ü", 120)
	got := truncate(long, 100)
	require.Equal(t, strings.Repeat("ü", 97)+"...", got)
	require.True(t, utf8.ValidString(got))
}
