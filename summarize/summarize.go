package summarize

import (
	"context"
	"fmt"
	"strings"

	"fta/models"
)

const (
	NoPostsMessage = "No posts found in this timeframe."

	promptHeader = "Summarize the following Bluesky timeline posts into the top 5 most discussed topics. " +
		"Format it as a numbered list with a short description for each topic.\n" +
		"Use reposts to help sort the recurring themes, and use likes as a potential lightly weighted filtering mechanism.\n\n"
)

// Summarizer turns a list of posts into a display string
type Summarizer interface {
	Summarize(ctx context.Context, posts []models.Post) (string, error)
}

// FormatPrompt renders the posts below the instruction header
func FormatPrompt(posts []models.Post) string {
	var sb strings.Builder
	sb.WriteString(promptHeader)
	for i, post := range posts {
		fmt.Fprintf(&sb, "Post %d:\nAuthor: %s\nText: %s\nLikes: %d\nReposts: %d\n\n",
			i+1,
			post.Author,
			post.Text,
			post.LikeCount,
			post.RepostCount,
		)
	}
	return sb.String()
}
