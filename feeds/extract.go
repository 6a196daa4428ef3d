package feeds

import (
	"encoding/json"
	"time"

	"fta/bluesky"
	"fta/models"
)

const postRecordType = "app.bsky.feed.post"

// postRecord is the part of an app.bsky.feed.post record we need. Text is a
// pointer so a record without it can be told apart from an empty post.
type postRecord struct {
	LexiconTypeID string  `json:"$type,omitempty"`
	Text          *string `json:"text"`
}

// postExtras is decoded separately so malformed optional fields never cost
// us the post itself.
type postExtras struct {
	Langs []string  `json:"langs,omitempty"`
	Reply *struct{} `json:"reply,omitempty"`
}

// indexedAt parses the indexed timestamp of an item, falling back to now
func indexedAt(item bluesky.FeedViewPost, now time.Time) time.Time {
	ts, err := bluesky.ParseTime(item.Post.IndexedAt)
	if err != nil {
		return now.UTC()
	}
	return ts
}

// Extract turns a feed item into a Post. It returns false when the record is
// not a post record, the caller should skip the item. A post record has a
// string text field and a $type that is either absent or app.bsky.feed.post,
// so other record types carrying text are skipped too.
func Extract(item bluesky.FeedViewPost, now time.Time) (models.Post, bool) {
	if len(item.Post.Record) == 0 {
		return models.Post{}, false
	}

	var record postRecord
	if err := json.Unmarshal(item.Post.Record, &record); err != nil {
		return models.Post{}, false
	}
	if record.Text == nil {
		return models.Post{}, false
	}
	if record.LexiconTypeID != "" && record.LexiconTypeID != postRecordType {
		return models.Post{}, false
	}

	var extras postExtras
	if err := json.Unmarshal(item.Post.Record, &extras); err != nil {
		extras = postExtras{}
	}

	post := models.Post{
		Author:    item.Post.Author.Handle,
		Text:      *record.Text,
		CreatedAt: indexedAt(item, now),
		Langs:     extras.Langs,
		Reply:     extras.Reply != nil,
	}
	if item.Post.LikeCount != nil && *item.Post.LikeCount > 0 {
		post.LikeCount = *item.Post.LikeCount
	}
	if item.Post.RepostCount != nil && *item.Post.RepostCount > 0 {
		post.RepostCount = *item.Post.RepostCount
	}

	return post, true
}
