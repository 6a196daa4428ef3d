package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvedFeedJSON(t *testing.T) {
	tests := []struct {
		name     string
		feed     ResolvedFeed
		expected string
	}{
		{name: "timeline", feed: ResolvedFeed{Kind: Timeline}, expected: `{"kind":"timeline"}`},
		{name: "uri", feed: ResolvedFeed{Kind: FullyQualified, URI: "at://x"}, expected: `{"kind":"uri","uri":"at://x"}`},
		{name: "alias", feed: ResolvedFeed{Kind: Alias, URI: "at://cats"}, expected: `{"kind":"alias","uri":"at://cats"}`},
		{name: "literal", feed: ResolvedFeed{Kind: Literal, URI: "Unknown"}, expected: `{"kind":"literal","uri":"Unknown"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.feed)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))

			var decoded ResolvedFeed
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, tt.feed, decoded)
		})
	}
}

func TestFeedKindUnmarshalUnknown(t *testing.T) {
	var kind FeedKind
	assert.Error(t, kind.UnmarshalText([]byte("playlist")))
}
