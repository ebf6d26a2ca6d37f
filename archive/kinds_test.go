package archive

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Metadata bags pass through a JSON column, so the helpers must read
// both the original Go values and the shapes json.Unmarshal produces.
func TestMetaHelpersSurviveJSONRoundTrip(t *testing.T) {
	when := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	original := map[string]any{
		"assignee":      "u1",
		"tags":          []string{"go", "cli"},
		"estimatedTime": 90,
		"dueDate":       timeMeta(&when),
	}

	raw, err := json.Marshal(original)
	require.NoError(t, err)
	var roundTripped map[string]any
	require.NoError(t, json.Unmarshal(raw, &roundTripped))

	for name, m := range map[string]map[string]any{"original": original, "roundTripped": roundTripped} {
		assert.Equal(t, "u1", metaString(m, "assignee"), name)
		assert.Equal(t, []string{"go", "cli"}, metaStringSlice(m, "tags"), name)
		assert.Equal(t, 90, metaInt(m, "estimatedTime"), name)
		got := metaTime(m, "dueDate")
		require.NotNil(t, got, name)
		assert.True(t, got.Equal(when), name)
	}
}

func TestMetaHelpersMissingKeys(t *testing.T) {
	assert.Empty(t, metaString(nil, "x"))
	assert.Nil(t, metaStringSlice(nil, "x"))
	assert.Zero(t, metaInt(nil, "x"))
	assert.Nil(t, metaTime(nil, "x"))
	assert.Nil(t, metaTime(map[string]any{"x": "not-a-time"}, "x"))
}
