package comments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func makeComment(t time.Time, parent *primitive.ObjectID) Comment {
	return Comment{
		ID:              primitive.NewObjectID(),
		UserID:          primitive.NewObjectID(),
		ParentCommentID: parent,
		CreatedAt:       t,
	}
}

func TestBuildTreeRootsKeepNewestFirstOrder(t *testing.T) {
	base := time.Now()
	newest := makeComment(base.Add(2*time.Hour), nil)
	middle := makeComment(base.Add(time.Hour), nil)
	oldest := makeComment(base, nil)

	// Repository order: newest first.
	roots := BuildTree([]Comment{newest, middle, oldest}, primitive.NilObjectID)

	require.Len(t, roots, 3)
	require.Equal(t, newest.ID, roots[0].ID)
	require.Equal(t, middle.ID, roots[1].ID)
	require.Equal(t, oldest.ID, roots[2].ID)
}

func TestBuildTreeChildrenSortedOldestFirst(t *testing.T) {
	base := time.Now()
	root := makeComment(base, nil)
	replyLate := makeComment(base.Add(2*time.Hour), &root.ID)
	replyEarly := makeComment(base.Add(time.Hour), &root.ID)

	roots := BuildTree([]Comment{replyLate, replyEarly, root}, primitive.NilObjectID)

	require.Len(t, roots, 1)
	require.Len(t, roots[0].Replies, 2)
	require.Equal(t, replyEarly.ID, roots[0].Replies[0].ID)
	require.Equal(t, replyLate.ID, roots[0].Replies[1].ID)
}

func TestBuildTreeNestedRepliesRecursive(t *testing.T) {
	base := time.Now()
	root := makeComment(base, nil)
	child := makeComment(base.Add(time.Minute), &root.ID)
	grandchild := makeComment(base.Add(2*time.Minute), &child.ID)

	roots := BuildTree([]Comment{grandchild, child, root}, primitive.NilObjectID)

	require.Len(t, roots, 1)
	require.Len(t, roots[0].Replies, 1)
	require.Equal(t, child.ID, roots[0].Replies[0].ID)
	require.Len(t, roots[0].Replies[0].Replies, 1)
	require.Equal(t, grandchild.ID, roots[0].Replies[0].Replies[0].ID)
}

func TestBuildTreeDropsOrphans(t *testing.T) {
	base := time.Now()
	root := makeComment(base, nil)
	missingParent := primitive.NewObjectID()
	orphan := makeComment(base.Add(time.Minute), &missingParent)

	roots := BuildTree([]Comment{orphan, root}, primitive.NilObjectID)

	require.Len(t, roots, 1)
	require.Equal(t, root.ID, roots[0].ID)
	require.Empty(t, roots[0].Replies)
}

func TestBuildTreeAnnotatesViewerReaction(t *testing.T) {
	viewer := primitive.NewObjectID()
	other := primitive.NewObjectID()

	liked := makeComment(time.Now(), nil)
	liked.LikedBy = []primitive.ObjectID{other, viewer}
	disliked := makeComment(time.Now().Add(time.Minute), nil)
	disliked.DislikedBy = []primitive.ObjectID{viewer}
	neither := makeComment(time.Now().Add(2*time.Minute), nil)

	roots := BuildTree([]Comment{neither, disliked, liked}, viewer)

	byID := map[primitive.ObjectID]*CommentNode{}
	for _, r := range roots {
		byID[r.ID] = r
	}
	require.Equal(t, "like", byID[liked.ID].UserReaction)
	require.Equal(t, "dislike", byID[disliked.ID].UserReaction)
	require.Equal(t, "", byID[neither.ID].UserReaction)
}

func TestBuildTreeAnonymousViewerHasNoReaction(t *testing.T) {
	c := makeComment(time.Now(), nil)
	c.LikedBy = []primitive.ObjectID{primitive.NewObjectID()}

	roots := BuildTree([]Comment{c}, primitive.NilObjectID)

	require.Len(t, roots, 1)
	require.Equal(t, "", roots[0].UserReaction)
}

func TestBuildTreeEmptyInput(t *testing.T) {
	roots := BuildTree(nil, primitive.NilObjectID)
	require.Empty(t, roots)
}
