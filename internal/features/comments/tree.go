package comments

import (
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BuildTree assembles the flat comment slice into a forest.
//
// The input is expected newest-first (the repository's sort); roots keep
// that order. Children are sorted oldest-first, recursively. A comment
// whose parent is absent from the input is dropped: its parent was
// deleted and it has nowhere to hang.
//
// viewer annotates each node with the viewing user's cached reaction;
// pass primitive.NilObjectID for anonymous requests.
func BuildTree(flat []Comment, viewer primitive.ObjectID) []*CommentNode {
	nodes := make(map[primitive.ObjectID]*CommentNode, len(flat))
	for i := range flat {
		c := flat[i]
		nodes[c.ID] = &CommentNode{
			Comment:      c,
			UserReaction: viewerReaction(c, viewer),
			Replies:      []*CommentNode{},
		}
	}

	roots := make([]*CommentNode, 0, len(flat))
	for i := range flat {
		node := nodes[flat[i].ID]
		if node.ParentCommentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*node.ParentCommentID]
		if !ok {
			continue
		}
		parent.Replies = append(parent.Replies, node)
	}

	for _, node := range nodes {
		sortRepliesOldestFirst(node)
	}

	return roots
}

func sortRepliesOldestFirst(node *CommentNode) {
	sort.SliceStable(node.Replies, func(i, j int) bool {
		return node.Replies[i].CreatedAt.Before(node.Replies[j].CreatedAt)
	})
}

func viewerReaction(c Comment, viewer primitive.ObjectID) string {
	if viewer.IsZero() {
		return ""
	}
	for _, id := range c.LikedBy {
		if id == viewer {
			return "like"
		}
	}
	for _, id := range c.DislikedBy {
		if id == viewer {
			return "dislike"
		}
	}
	return ""
}
