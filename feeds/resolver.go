package feeds

import (
	"strings"

	"fta/models"
)

const (
	TimelineFeed = "following"
	// FeedURIPrefix marks identifiers that are already feed URIs
	FeedURIPrefix = "at://"
)

// Resolve maps a user supplied feed identifier to a feed. Unknown aliases are
// passed through unchanged together with a diagnostic; the remote service
// decides whether the literal value is usable.
func Resolve(identifier string, aliases models.AliasMapping) (models.ResolvedFeed, *models.Diagnostic) {
	if identifier == "" || identifier == TimelineFeed {
		return models.ResolvedFeed{Kind: models.Timeline}, nil
	}

	if strings.HasPrefix(identifier, FeedURIPrefix) {
		return models.ResolvedFeed{Kind: models.FullyQualified, URI: identifier}, nil
	}

	if uri, ok := aliases[strings.ToLower(identifier)]; ok {
		return models.ResolvedFeed{Kind: models.Alias, URI: uri}, nil
	}

	return models.ResolvedFeed{Kind: models.Literal, URI: identifier}, &models.Diagnostic{
		Identifier: identifier,
		Message:    "feed not found in cache, using literal value",
	}
}
