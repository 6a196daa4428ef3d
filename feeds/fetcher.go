package feeds

import (
	"context"
	"time"

	"fta/bluesky"
	"fta/models"

	log "github.com/sirupsen/logrus"
)

const PageSize = 100

// FeedSource is the remote side of the paginated feed endpoints
type FeedSource interface {
	GetTimeline(ctx context.Context, cursor string, limit int64) (*bluesky.FeedPage, error)
	GetFeed(ctx context.Context, feed string, cursor string, limit int64) (*bluesky.FeedPage, error)
}

// Fetcher walks a feed page by page, newest first, until it reaches a post
// older than the cutoff or the service stops returning a cursor.
type Fetcher struct {
	source FeedSource
	now    func() time.Time
}

func NewFetcher(source FeedSource) *Fetcher {
	return &Fetcher{source: source, now: time.Now}
}

func (f *Fetcher) page(ctx context.Context, feed models.ResolvedFeed, cursor string) (*bluesky.FeedPage, error) {
	if feed.IsTimeline() {
		pagesFetched.WithLabelValues("timeline").Inc()
		return f.source.GetTimeline(ctx, cursor, PageSize)
	}
	pagesFetched.WithLabelValues("feed").Inc()
	return f.source.GetFeed(ctx, feed.URI, cursor, PageSize)
}

// Fetch returns every post in the feed indexed at or after the cutoff, in the
// order the service returned them. Page requests are strictly sequential as
// each cursor comes from the previous response.
func (f *Fetcher) Fetch(ctx context.Context, feed models.ResolvedFeed, cutoff time.Time) ([]models.Post, error) {
	posts := []models.Post{}
	cursor := ""

	for pageNum := 1; ; pageNum++ {
		page, err := f.page(ctx, feed, cursor)
		if err != nil {
			return nil, err
		}

		hitCutoff := false
		for _, item := range page.Feed {
			now := f.now()
			if indexedAt(item, now).Before(cutoff) {
				hitCutoff = true
				break
			}

			post, ok := Extract(item, now)
			if !ok {
				itemsDropped.Inc()
				log.WithFields(log.Fields{
					"uri": item.Post.Uri,
				}).Debug("Skipping item without a post record")
				continue
			}
			posts = append(posts, post)
		}

		log.WithFields(log.Fields{
			"feed":      feed.String(),
			"page":      pageNum,
			"items":     len(page.Feed),
			"total":     len(posts),
			"hitCutoff": hitCutoff,
		}).Debug("Fetched feed page")

		if hitCutoff || page.Cursor == nil || *page.Cursor == "" {
			break
		}
		cursor = *page.Cursor
	}

	postsFetched.Add(float64(len(posts)))
	return posts, nil
}
