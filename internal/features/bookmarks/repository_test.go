package bookmarks

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/verifact-app/backend/internal/pkg/targets"
)

func facetStage(t *testing.T, pipeline mongo.Pipeline) bson.M {
	t.Helper()
	last := pipeline[len(pipeline)-1]
	require.Equal(t, "$facet", last[0].Key)
	facet, ok := last[0].Value.(bson.M)
	require.True(t, ok)
	return facet
}

// The server rejects a $facet whose sub-pipeline is empty, so the
// unpaginated listing must still carry at least one stage under items.
func TestListPipelineUnpaginatedFacetIsNotEmpty(t *testing.T) {
	pipeline := listPipeline(primitive.NewObjectID(), QueryOptions{Paginate: false})

	facet := facetStage(t, pipeline)
	items, ok := facet["items"].(bson.A)
	require.True(t, ok)
	require.NotEmpty(t, items)
	require.Equal(t, bson.M{"$skip": int64(0)}, items[0])

	total, ok := facet["total"].(bson.A)
	require.True(t, ok)
	require.NotEmpty(t, total)
}

func TestListPipelinePaginatedSkipAndLimit(t *testing.T) {
	pipeline := listPipeline(primitive.NewObjectID(), QueryOptions{Paginate: true, Page: 3, Limit: 10})

	facet := facetStage(t, pipeline)
	items, ok := facet["items"].(bson.A)
	require.True(t, ok)
	require.Len(t, items, 2)
	require.Equal(t, bson.M{"$skip": int64(20)}, items[0])
	require.Equal(t, bson.M{"$limit": int64(10)}, items[1])
}

func TestListPipelineSearchMatchesTargetTextFields(t *testing.T) {
	pipeline := listPipeline(primitive.NewObjectID(), QueryOptions{Search: "vaccine"})

	var or []bson.M
	for _, stage := range pipeline {
		if stage[0].Key != "$match" {
			continue
		}
		match, ok := stage[0].Value.(bson.M)
		if !ok {
			continue
		}
		if clauses, ok := match["$or"].([]bson.M); ok {
			or = clauses
		}
	}
	require.Len(t, or, 5)

	fields := make([]string, 0, len(or))
	for _, clause := range or {
		for field := range clause {
			fields = append(fields, field)
		}
	}
	require.ElementsMatch(t, fields, []string{
		"target.title", "target.content", "target.conclusion",
		"target.aiClaimSummary", "target.aiReportSummary",
	})
}

func TestListPipelineFiltersByTypeAndCollection(t *testing.T) {
	userID := primitive.NewObjectID()
	collectionID := primitive.NewObjectID()
	pipeline := listPipeline(userID, QueryOptions{TargetType: targets.TypeClaim, CollectionID: &collectionID})

	first := pipeline[0]
	require.Equal(t, "$match", first[0].Key)
	match, ok := first[0].Value.(bson.M)
	require.True(t, ok)
	require.Equal(t, userID, match["userId"])
	require.Equal(t, targets.TypeClaim, match["targetType"])
	require.Equal(t, collectionID, match["collectionId"])
}
