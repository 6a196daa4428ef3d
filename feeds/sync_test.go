package feeds

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fta/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *AliasCache {
	return NewAliasCache(filepath.Join(t.TempDir(), "feeds.json"))
}

func TestSyncLegacyPreferences(t *testing.T) {
	remote := &fakeRemote{
		prefs: []models.SavedFeedsPref{
			models.SavedFeedsPrefV1{Saved: []string{"at://one", "at://two", "at://three"}},
		},
		names: map[string]string{
			"at://one":   "Cats",
			"at://two":   "Science News",
			"at://three": "DISCOVER",
		},
	}
	cache := newTestCache(t)

	var out bytes.Buffer
	aliases, err := NewSynchronizer(remote, cache).WithOutput(&out).Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Found feed: Cats -> at://one\n"+
		"Found feed: Science News -> at://two\n"+
		"Found feed: DISCOVER -> at://three\n", out.String())

	expected := models.AliasMapping{
		"cats":         "at://one",
		"science news": "at://two",
		"discover":     "at://three",
	}
	assert.Equal(t, expected, aliases)
	assert.Equal(t, expected, cache.Load())
	for key := range aliases {
		assert.Equal(t, strings.ToLower(key), key)
	}
	assert.Equal(t, [][]string{{"at://one", "at://two", "at://three"}}, remote.generatorCalls)
}

func TestSyncCurrentPreferencesKeepOnlyFeeds(t *testing.T) {
	remote := &fakeRemote{
		prefs: []models.SavedFeedsPref{
			models.SavedFeedsPrefV2{Items: []models.SavedFeed{
				{Type: "timeline", Value: "following"},
				{Type: "feed", Value: "at://cats"},
				{Type: "list", Value: "at://did:plc:a/app.bsky.graph.list/1"},
				{Type: "feed", Value: "at://dogs"},
			}},
		},
		names: map[string]string{
			"at://cats": "Cats",
			"at://dogs": "Dogs",
		},
	}

	aliases, err := NewSynchronizer(remote, newTestCache(t)).Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.AliasMapping{"cats": "at://cats", "dogs": "at://dogs"}, aliases)
	assert.Equal(t, [][]string{{"at://cats", "at://dogs"}}, remote.generatorCalls)
}

func TestSyncBatchesGeneratorLookups(t *testing.T) {
	var saved []string
	names := map[string]string{}
	for i := 0; i < 60; i++ {
		uri := fmt.Sprintf("at://feed/%d", i)
		saved = append(saved, uri)
		names[uri] = fmt.Sprintf("Feed %d", i)
	}
	remote := &fakeRemote{
		prefs: []models.SavedFeedsPref{models.SavedFeedsPrefV1{Saved: saved}},
		names: names,
	}

	aliases, err := NewSynchronizer(remote, newTestCache(t)).Sync(context.Background())
	require.NoError(t, err)

	require.Len(t, remote.generatorCalls, 3)
	assert.Len(t, remote.generatorCalls[0], GeneratorBatchSize)
	assert.Len(t, remote.generatorCalls[1], GeneratorBatchSize)
	assert.Len(t, remote.generatorCalls[2], 10)
	assert.Len(t, aliases, 60)
}

func TestSyncLaterChunkWinsOnNameCollision(t *testing.T) {
	var saved []string
	names := map[string]string{}
	for i := 0; i < GeneratorBatchSize; i++ {
		uri := fmt.Sprintf("at://filler/%d", i)
		saved = append(saved, uri)
		names[uri] = fmt.Sprintf("filler %d", i)
	}
	saved[0] = "at://first"
	names["at://first"] = "Art"
	delete(names, "at://filler/0")
	saved = append(saved, "at://second")
	names["at://second"] = "ART"

	remote := &fakeRemote{
		prefs: []models.SavedFeedsPref{models.SavedFeedsPrefV1{Saved: saved}},
		names: names,
	}

	aliases, err := NewSynchronizer(remote, newTestCache(t)).Sync(context.Background())
	require.NoError(t, err)

	require.Len(t, remote.generatorCalls, 2)
	assert.Equal(t, "at://second", aliases["art"])
	assert.Len(t, aliases, GeneratorBatchSize)
}

func TestSyncNoSavedFeedsLeavesCacheAlone(t *testing.T) {
	cache := newTestCache(t)
	require.NoError(t, cache.Save(models.AliasMapping{"cats": "at://cats"}))

	remote := &fakeRemote{
		prefs: []models.SavedFeedsPref{
			models.SavedFeedsPrefV2{Items: []models.SavedFeed{{Type: "timeline", Value: "following"}}},
		},
	}

	aliases, err := NewSynchronizer(remote, cache).Sync(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, aliases)
	assert.Empty(t, aliases)
	assert.Empty(t, remote.generatorCalls)
	assert.Equal(t, models.AliasMapping{"cats": "at://cats"}, cache.Load())
}

func TestSyncNoSavedFeedsDoesNotCreateCache(t *testing.T) {
	cache := newTestCache(t)

	_, err := NewSynchronizer(&fakeRemote{}, cache).Sync(context.Background())
	require.NoError(t, err)

	_, err = os.Stat(cache.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestSyncErrors(t *testing.T) {
	tests := []struct {
		name   string
		remote *fakeRemote
	}{
		{
			name:   "preferences fail",
			remote: &fakeRemote{prefsErr: errors.New("unauthorized")},
		},
		{
			name: "generator lookup fails",
			remote: &fakeRemote{
				prefs:        []models.SavedFeedsPref{models.SavedFeedsPrefV1{Saved: []string{"at://one"}}},
				generatorErr: errors.New("upstream failure"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := newTestCache(t)
			require.NoError(t, cache.Save(models.AliasMapping{"cats": "at://cats"}))

			_, err := NewSynchronizer(tt.remote, cache).Sync(context.Background())
			assert.Error(t, err)
			assert.Equal(t, models.AliasMapping{"cats": "at://cats"}, cache.Load())
		})
	}
}

func TestSyncCacheWriteFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	remote := &fakeRemote{
		prefs: []models.SavedFeedsPref{models.SavedFeedsPrefV1{Saved: []string{"at://one"}}},
		names: map[string]string{"at://one": "One"},
	}

	_, err := NewSynchronizer(remote, NewAliasCache(filepath.Join(blocker, "feeds.json"))).Sync(context.Background())
	assert.Error(t, err)
}

func TestSavedFeedURIs(t *testing.T) {
	prefs := []models.SavedFeedsPref{
		models.SavedFeedsPrefV2{Items: []models.SavedFeed{
			{Type: "feed", Value: "at://a"},
			{Type: "timeline", Value: "following"},
		}},
		models.SavedFeedsPrefV1{Saved: []string{"at://b", "at://c"}},
	}
	assert.Equal(t, []string{"at://a", "at://b", "at://c"}, SavedFeedURIs(prefs))
	assert.Empty(t, SavedFeedURIs(nil))
}
