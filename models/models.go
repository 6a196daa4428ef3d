package models

import (
	"fmt"
	"time"
)

// Post model with the fields we summarize on
type Post struct {
	Author      string    `json:"author"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"createdAt"`
	LikeCount   int64     `json:"likeCount"`
	RepostCount int64     `json:"repostCount"`
	// Languages declared by the author, may be empty
	Langs []string `json:"langs,omitempty"`
	Reply bool     `json:"reply,omitempty"`
}

// AliasMapping maps a lowercased feed display name to its feed URI
type AliasMapping map[string]string

type FeedKind int

const (
	// Timeline is the authenticated user's home timeline and carries no URI
	Timeline FeedKind = iota
	// FullyQualified is an at:// URI passed through as given
	FullyQualified
	// Alias is a display name found in the alias cache
	Alias
	// Literal is an identifier we could not resolve and pass through unchanged
	Literal
)

func (k FeedKind) String() string {
	switch k {
	case Timeline:
		return "timeline"
	case FullyQualified:
		return "uri"
	case Alias:
		return "alias"
	case Literal:
		return "literal"
	}
	return "unknown"
}

func (k FeedKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *FeedKind) UnmarshalText(text []byte) error {
	for _, kind := range []FeedKind{Timeline, FullyQualified, Alias, Literal} {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown feed kind: %q", text)
}

// ResolvedFeed is the result of resolving a user supplied feed identifier
type ResolvedFeed struct {
	Kind FeedKind `json:"kind"`
	URI  string   `json:"uri,omitempty"`
}

func (f ResolvedFeed) IsTimeline() bool {
	return f.Kind == Timeline
}

func (f ResolvedFeed) String() string {
	if f.IsTimeline() {
		return "following"
	}
	return f.URI
}

// Diagnostic is a non-fatal message produced while resolving or fetching
type Diagnostic struct {
	Identifier string `json:"identifier"`
	Message    string `json:"message"`
}

func (d Diagnostic) String() string {
	return d.Message + ": " + d.Identifier
}

// SavedFeedsPref is one of the saved feed preference shapes returned by
// app.bsky.actor.getPreferences
type SavedFeedsPref interface {
	FeedURIs() []string
}

// SavedFeedsPrefV1 is the legacy flat list of saved feed URIs
type SavedFeedsPrefV1 struct {
	Saved []string
}

func (p SavedFeedsPrefV1) FeedURIs() []string {
	return p.Saved
}

type SavedFeed struct {
	Type  string
	Value string
}

// SavedFeedsPrefV2 holds typed items, only "feed" items are feed generator URIs
type SavedFeedsPrefV2 struct {
	Items []SavedFeed
}

func (p SavedFeedsPrefV2) FeedURIs() []string {
	var uris []string
	for _, item := range p.Items {
		if item.Type == "feed" {
			uris = append(uris, item.Value)
		}
	}
	return uris
}

// FeedGenerator is the subset of a feed generator view we cache
type FeedGenerator struct {
	URI         string `json:"uri"`
	DisplayName string `json:"displayName"`
}

// FetchRun is a record of a single fetch stored in the history database
type FetchRun struct {
	Id        string    `json:"id"`
	Feed      string    `json:"feed"`
	Resolved  string    `json:"resolved"`
	Minutes   int       `json:"minutes"`
	PostCount int       `json:"postCount"`
	FetchedAt time.Time `json:"fetchedAt"`
}
