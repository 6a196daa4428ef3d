package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fta/bluesky"
	"fta/config"
	"fta/models"
)

var testNow = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

type pageRequest struct {
	endpoint string
	feed     string
	cursor   string
	limit    int64
}

// fakeRemote serves canned pages in order and records every request
type fakeRemote struct {
	pages    []*bluesky.FeedPage
	requests []pageRequest
	pageErr  error

	prefs          []models.SavedFeedsPref
	prefsErr       error
	names          map[string]string
	generatorCalls [][]string
	generatorErr   error
}

func (f *fakeRemote) GetTimeline(ctx context.Context, cursor string, limit int64) (*bluesky.FeedPage, error) {
	return f.next(pageRequest{endpoint: "timeline", cursor: cursor, limit: limit})
}

func (f *fakeRemote) GetFeed(ctx context.Context, feed string, cursor string, limit int64) (*bluesky.FeedPage, error) {
	return f.next(pageRequest{endpoint: "feed", feed: feed, cursor: cursor, limit: limit})
}

func (f *fakeRemote) next(req pageRequest) (*bluesky.FeedPage, error) {
	f.requests = append(f.requests, req)
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	i := len(f.requests) - 1
	if i >= len(f.pages) {
		return nil, fmt.Errorf("unexpected request for page %d", i+1)
	}
	return f.pages[i], nil
}

func (f *fakeRemote) GetSavedFeedsPrefs(ctx context.Context) ([]models.SavedFeedsPref, error) {
	return f.prefs, f.prefsErr
}

func (f *fakeRemote) GetFeedGenerators(ctx context.Context, uris []string) ([]models.FeedGenerator, error) {
	f.generatorCalls = append(f.generatorCalls, uris)
	if f.generatorErr != nil {
		return nil, f.generatorErr
	}
	var generators []models.FeedGenerator
	for _, uri := range uris {
		if name, ok := f.names[uri]; ok {
			generators = append(generators, models.FeedGenerator{URI: uri, DisplayName: name})
		}
	}
	return generators, nil
}

func connectTo(remote Remote) Connector {
	return func(ctx context.Context, cfg *config.Config) (Remote, error) {
		return remote, nil
	}
}

func cursor(c string) *string {
	return &c
}

// postItem builds a feed item indexed the given number of minutes before testNow
func postItem(handle string, text string, minutesAgo int) bluesky.FeedViewPost {
	record, _ := json.Marshal(map[string]string{
		"$type":     "app.bsky.feed.post",
		"text":      text,
		"createdAt": bluesky.FormatTime(testNow),
	})
	return bluesky.FeedViewPost{Post: bluesky.PostView{
		Uri:       fmt.Sprintf("at://did:plc:%s/app.bsky.feed.post/%d", handle, minutesAgo),
		Author:    bluesky.Author{Did: "did:plc:" + handle, Handle: handle + ".bsky.social"},
		Record:    record,
		IndexedAt: bluesky.FormatTime(testNow.Add(-time.Duration(minutesAgo) * time.Minute)),
	}}
}

func texts(posts []models.Post) []string {
	out := make([]string, len(posts))
	for i, post := range posts {
		out[i] = post.Text
	}
	return out
}
