package feeds

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"fta/bluesky"
	"fta/config"
	"fta/models"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// Remote is everything the entry points need from the Bluesky service
type Remote interface {
	FeedSource
	PreferenceSource
}

// Connector logs in and returns an authenticated remote
type Connector func(ctx context.Context, cfg *config.Config) (Remote, error)

// Login creates a session against the configured PDS
func Login(ctx context.Context, cfg *config.Config) (Remote, error) {
	client, err := bluesky.ClientFromCredentials(ctx, cfg.Host, cfg.Credentials())
	if err != nil {
		return nil, err
	}
	return client, nil
}

// MaxWindowMinutes is the longest window a time.Duration can hold
const MaxWindowMinutes = math.MaxInt64 / int64(time.Minute)

// WindowCutoff returns now minus the given minutes, in UTC. Windows longer
// than MaxWindowMinutes are capped.
func WindowCutoff(now time.Time, minutes int) time.Time {
	window := int64(minutes)
	if window > MaxWindowMinutes {
		window = MaxWindowMinutes
	}
	return now.UTC().Add(-time.Duration(window) * time.Minute)
}

// FetchResult is what FetchRecentPosts hands back to the caller
type FetchResult struct {
	Feed    models.ResolvedFeed `json:"feed"`
	Cutoff  time.Time           `json:"cutoff"`
	Posts   []models.Post       `json:"posts"`
	Warning *models.Diagnostic  `json:"warning,omitempty"`
}

type Service struct {
	cfg     *config.Config
	cache   *AliasCache
	connect Connector
	now     func() time.Time
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg:     cfg,
		cache:   NewAliasCache(cfg.CachePath),
		connect: Login,
		now:     time.Now,
	}
}

func (s *Service) Cache() *AliasCache {
	return s.cache
}

// FetchRecentPosts resolves the feed identifier and returns its posts from the
// last given number of minutes
func (s *Service) FetchRecentPosts(ctx context.Context, identifier string, minutes int) (*FetchResult, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	if minutes < 0 {
		return nil, fmt.Errorf("minutes must not be negative, got %d", minutes)
	}

	feed, warning := Resolve(identifier, s.cache.Load())
	if warning != nil {
		log.WithFields(log.Fields{
			"feed": identifier,
		}).Debug(warning.Message)
	}

	remote, err := s.connect(ctx, s.cfg)
	if err != nil {
		return nil, err
	}

	cutoff := WindowCutoff(s.now(), minutes)

	fetcher := NewFetcher(remote)
	fetcher.now = s.now
	posts, err := fetcher.Fetch(ctx, feed, cutoff)
	if err != nil {
		return nil, fmt.Errorf("could not fetch feed %s: %w", feed, err)
	}

	log.WithFields(log.Fields{
		"feed":    feed.String(),
		"kind":    feed.Kind.String(),
		"minutes": minutes,
		"count":   len(posts),
	}).Info("Fetched recent posts")

	return &FetchResult{
		Feed:    feed,
		Cutoff:  cutoff,
		Posts:   posts,
		Warning: warning,
	}, nil
}

// SyncUserFeeds rewrites the alias cache from the account's saved feeds,
// reporting each feed found to w
func (s *Service) SyncUserFeeds(ctx context.Context, w io.Writer) (models.AliasMapping, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	remote, err := s.connect(ctx, s.cfg)
	if err != nil {
		return nil, err
	}

	aliases, err := NewSynchronizer(remote, s.cache).WithOutput(w).Sync(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not sync feeds: %w", err)
	}
	return aliases, nil
}

// ListUserFeeds prints the cached aliases sorted by name
func ListUserFeeds(w io.Writer, cache *AliasCache) error {
	aliases := cache.Load()
	if len(aliases) == 0 {
		_, err := fmt.Fprintln(w, "No feeds found in cache. Run `fta sync-feeds` first.")
		return err
	}

	names := lo.Keys(aliases)
	sort.Strings(names)

	if _, err := fmt.Fprintln(w, "Available feeds:"); err != nil {
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "- %s (%s)\n", name, aliases[name]); err != nil {
			return err
		}
	}
	return nil
}
