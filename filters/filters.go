package filters

import (
	"strings"

	"fta/models"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// Filter decides whether a fetched post is kept
type Filter interface {
	Keep(post models.Post) bool
}

// Apply returns the posts every filter keeps, order preserved
func Apply(posts []models.Post, filters ...Filter) []models.Post {
	if len(filters) == 0 {
		return posts
	}

	kept := lo.Filter(posts, func(post models.Post, _ int) bool {
		for _, f := range filters {
			if !f.Keep(post) {
				return false
			}
		}
		return true
	})

	log.WithFields(log.Fields{
		"filters": len(filters),
		"posts":   len(posts),
		"kept":    len(kept),
	}).Debug("Applied post filters")

	postsFiltered.Add(float64(len(posts) - len(kept)))

	return kept
}

// ExcludeRepliesFilter filters out reply posts
type ExcludeRepliesFilter struct{}

func (f *ExcludeRepliesFilter) Keep(post models.Post) bool {
	return !post.Reply
}

// KeywordFilter filters posts based on included and excluded keywords.
// Matching is case-insensitive. A post must contain at least one include
// keyword, when any are given, and none of the exclude keywords.
type KeywordFilter struct {
	Include []string
	Exclude []string
}

func (f *KeywordFilter) Keep(post models.Post) bool {
	text := strings.ToLower(post.Text)
	contains := func(keyword string) bool {
		keyword = strings.TrimSpace(keyword)
		return keyword != "" && strings.Contains(text, strings.ToLower(keyword))
	}

	if len(f.Include) > 0 && !lo.SomeBy(f.Include, contains) {
		return false
	}
	return !lo.SomeBy(f.Exclude, contains)
}

var _ Filter = (*ExcludeRepliesFilter)(nil)
var _ Filter = (*KeywordFilter)(nil)
var _ Filter = (*LanguageFilter)(nil)
