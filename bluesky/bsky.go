package bluesky

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"fta/models"

	"github.com/bluesky-social/indigo/api/atproto"
	"github.com/bluesky-social/indigo/api/bsky"
	"github.com/bluesky-social/indigo/atproto/syntax"
	"github.com/bluesky-social/indigo/xrpc"
	log "github.com/sirupsen/logrus"
)

const DefaultPDSHost = "https://bsky.social"

// MaxPageSize is the largest limit accepted by getTimeline and getFeed
const MaxPageSize = 100

type Credentials struct {
	Identifier string
	Password   string
}

type Client struct {
	xrpc *xrpc.Client
}

func ClientFromCredentials(ctx context.Context, host string, creds *Credentials) (*Client, error) {
	auth, err := atproto.ServerCreateSession(ctx, &xrpc.Client{Host: host}, &atproto.ServerCreateSession_Input{
		Identifier: creds.Identifier,
		Password:   creds.Password,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	xrpcClient := &xrpc.Client{
		Host: host,
		Auth: &xrpc.AuthInfo{
			AccessJwt:  auth.AccessJwt,
			RefreshJwt: auth.RefreshJwt,
			Handle:     auth.Handle,
			Did:        auth.Did,
		},
		Client: http.DefaultClient,
	}

	log.WithFields(log.Fields{
		"handle": auth.Handle,
		"host":   host,
	}).Debug("Created session")

	return &Client{xrpc: xrpcClient}, nil
}

// FeedPage is one page of app.bsky.feed.getTimeline or app.bsky.feed.getFeed.
// Items are decoded loosely so that a single malformed post cannot fail the
// whole page.
type FeedPage struct {
	Cursor *string        `json:"cursor,omitempty"`
	Feed   []FeedViewPost `json:"feed"`
}

type FeedViewPost struct {
	Post PostView `json:"post"`
}

type PostView struct {
	Uri         string          `json:"uri"`
	Author      Author          `json:"author"`
	Record      json.RawMessage `json:"record"`
	IndexedAt   string          `json:"indexedAt"`
	LikeCount   *int64          `json:"likeCount,omitempty"`
	RepostCount *int64          `json:"repostCount,omitempty"`
}

type Author struct {
	Did    string `json:"did"`
	Handle string `json:"handle"`
}

// GetTimeline fetches a page of the authenticated user's home timeline
func (c *Client) GetTimeline(ctx context.Context, cursor string, limit int64) (*FeedPage, error) {
	return c.queryFeed(ctx, "app.bsky.feed.getTimeline", feedParams("", cursor, limit))
}

// GetFeed fetches a page of a feed generator's feed
func (c *Client) GetFeed(ctx context.Context, feed string, cursor string, limit int64) (*FeedPage, error) {
	return c.queryFeed(ctx, "app.bsky.feed.getFeed", feedParams(feed, cursor, limit))
}

func feedParams(feed string, cursor string, limit int64) map[string]interface{} {
	params := map[string]interface{}{}
	if feed != "" {
		params["feed"] = feed
	}
	if cursor != "" {
		params["cursor"] = cursor
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if limit > 0 {
		params["limit"] = limit
	}
	return params
}

func (c *Client) queryFeed(ctx context.Context, method string, params map[string]interface{}) (*FeedPage, error) {
	var out FeedPage
	if err := c.xrpc.Do(ctx, xrpc.Query, "", method, params, nil, &out); err != nil {
		return nil, fmt.Errorf("%s failed: %w", method, err)
	}
	return &out, nil
}

// GetSavedFeedsPrefs returns the saved feed preferences of the authenticated user
func (c *Client) GetSavedFeedsPrefs(ctx context.Context) ([]models.SavedFeedsPref, error) {
	out, err := bsky.ActorGetPreferences(ctx, c.xrpc)
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	return savedFeedsPrefs(out), nil
}

func savedFeedsPrefs(out *bsky.ActorGetPreferences_Output) []models.SavedFeedsPref {
	var prefs []models.SavedFeedsPref
	if out == nil {
		return prefs
	}

	for _, pref := range out.Preferences {
		if v2 := pref.ActorDefs_SavedFeedsPrefV2; v2 != nil {
			items := make([]models.SavedFeed, 0, len(v2.Items))
			for _, item := range v2.Items {
				if item == nil {
					continue
				}
				items = append(items, models.SavedFeed{Type: item.Type, Value: item.Value})
			}
			prefs = append(prefs, models.SavedFeedsPrefV2{Items: items})
		}
		if v1 := pref.ActorDefs_SavedFeedsPref; v1 != nil {
			prefs = append(prefs, models.SavedFeedsPrefV1{Saved: v1.Saved})
		}
	}
	return prefs
}

// GetFeedGenerators looks up display names for up to 25 feed generator URIs
func (c *Client) GetFeedGenerators(ctx context.Context, uris []string) ([]models.FeedGenerator, error) {
	out, err := bsky.FeedGetFeedGenerators(ctx, c.xrpc, uris)
	if err != nil {
		return nil, fmt.Errorf("failed to get feed generators: %w", err)
	}

	generators := make([]models.FeedGenerator, 0, len(out.Feeds))
	for _, view := range out.Feeds {
		if view == nil {
			continue
		}
		generators = append(generators, models.FeedGenerator{
			URI:         view.Uri,
			DisplayName: view.DisplayName,
		})
	}
	return generators, nil
}

// FormatTime formats a time.Time into the format expected by AT Protocol
func FormatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// ParseTime parses an AT Protocol datetime, accepting the looser forms older
// records sometimes carry. The result is in UTC.
func ParseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	dt, err := syntax.ParseDatetimeLenient(raw)
	if err != nil {
		return time.Time{}, err
	}
	return dt.Time().UTC(), nil
}
