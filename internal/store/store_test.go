package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestDecrementPipelineTreatsInputAsLiterals(t *testing.T) {
	pipeline := decrementPipeline("$price", "M", 2)
	require.Len(t, pipeline, 1)

	raw, err := bson.MarshalExtJSON(pipeline[0], false, false)
	require.NoError(t, err)
	doc := string(raw)

	assert.Contains(t, doc, `"$literal":"$price"`)
	assert.Contains(t, doc, `"$literal":"M"`)
	assert.Contains(t, doc, `"$max":[0,{"$subtract":["$$s.v",2]}]`)
	assert.Contains(t, doc, `"input":"$variants"`)
}

func TestNewestFirst(t *testing.T) {
	opts := newestFirst(10)
	require.NotNil(t, opts.Limit)
	assert.Equal(t, int64(10), *opts.Limit)
	assert.Equal(t, bson.D{{Key: "created_at", Value: -1}}, opts.Sort)
	assert.Equal(t, hideMongoID, opts.Projection)
}
