package feeds

import (
	"context"
	"fmt"
	"io"
	"strings"

	"fta/models"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// GeneratorBatchSize is the most URIs getFeedGenerators accepts per call
const GeneratorBatchSize = 25

// PreferenceSource is the remote side of the saved feeds lookup
type PreferenceSource interface {
	GetSavedFeedsPrefs(ctx context.Context) ([]models.SavedFeedsPref, error)
	GetFeedGenerators(ctx context.Context, uris []string) ([]models.FeedGenerator, error)
}

// Synchronizer rebuilds the alias cache from the account's saved feeds
type Synchronizer struct {
	source PreferenceSource
	cache  *AliasCache
	out    io.Writer
}

func NewSynchronizer(source PreferenceSource, cache *AliasCache) *Synchronizer {
	return &Synchronizer{source: source, cache: cache, out: io.Discard}
}

// WithOutput reports every feed found, in processing order, to w
func (s *Synchronizer) WithOutput(w io.Writer) *Synchronizer {
	s.out = w
	return s
}

// SavedFeedURIs flattens every saved feed preference into a list of feed URIs
func SavedFeedURIs(prefs []models.SavedFeedsPref) []string {
	return lo.FlatMap(prefs, func(pref models.SavedFeedsPref, _ int) []string {
		return pref.FeedURIs()
	})
}

// Sync fetches the saved feeds, names them and overwrites the cache. When the
// account has no saved feeds the cache is left untouched and an empty mapping
// is returned.
func (s *Synchronizer) Sync(ctx context.Context) (models.AliasMapping, error) {
	prefs, err := s.source.GetSavedFeedsPrefs(ctx)
	if err != nil {
		return nil, err
	}

	uris := SavedFeedURIs(prefs)
	if len(uris) == 0 {
		log.Info("No saved feeds found on account")
		return models.AliasMapping{}, nil
	}

	aliases := models.AliasMapping{}

	// Chunks are processed in order, so on a name collision the last one wins
	for _, chunk := range lo.Chunk(uris, GeneratorBatchSize) {
		generators, err := s.source.GetFeedGenerators(ctx, chunk)
		if err != nil {
			return nil, err
		}

		for _, generator := range generators {
			aliases[strings.ToLower(generator.DisplayName)] = generator.URI
			if _, err := fmt.Fprintf(s.out, "Found feed: %s -> %s\n", generator.DisplayName, generator.URI); err != nil {
				return nil, err
			}
			log.WithFields(log.Fields{
				"name": generator.DisplayName,
				"uri":  generator.URI,
			}).Info("Found feed")
		}
	}

	if err := s.cache.Save(aliases); err != nil {
		return nil, err
	}
	feedsSynced.Add(float64(len(aliases)))

	return aliases, nil
}
