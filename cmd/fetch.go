package cmd

import (
	"context"
	"fmt"

	"fta/bluesky"
	"fta/config"
	"fta/db"
	"fta/feeds"
	"fta/filters"
	"fta/models"
	"fta/summarize"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func fetchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "feed",
			Aliases: []string{"f"},
			Usage:   "Which feed to fetch posts from: following, an at:// URI or a saved feed name",
			EnvVars: []string{"FTA_FEED"},
		},
		&cli.IntFlag{
			Name:    "minutes",
			Aliases: []string{"m"},
			Usage:   "Timeframe in minutes to fetch posts for",
			EnvVars: []string{"FTA_MINUTES"},
		},
		&cli.BoolFlag{
			Name:  "no-summary",
			Usage: "Print the fetched posts instead of summarizing them",
		},
		&cli.BoolFlag{
			Name:  "no-history",
			Usage: "Do not record this fetch in the history database",
		},
		&cli.StringSliceFlag{
			Name:  "lang",
			Usage: "Only keep posts in these languages (ISO 639-1 codes, e.g. en,nb)",
		},
		&cli.StringSliceFlag{
			Name:  "include",
			Usage: "Only keep posts containing one of these keywords",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Drop posts containing any of these keywords",
		},
		&cli.BoolFlag{
			Name:  "no-replies",
			Usage: "Drop replies",
		},
		&cli.StringFlag{
			Name:    "gemini-key",
			Usage:   "Gemini API key",
			EnvVars: []string{"GEMINI_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "gemini-model",
			Usage:   "Gemini model used for the summary",
			EnvVars: []string{"GEMINI_MODEL"},
		},
	}
}

func fetchAction(ctx *cli.Context) error {
	cfg, err := loadCredentials(ctx)
	if err != nil {
		return err
	}

	feed := cfg.DefaultFeed
	if ctx.IsSet("feed") {
		feed = ctx.String("feed")
	}
	minutes := cfg.DefaultMinutes
	if ctx.IsSet("minutes") {
		minutes = ctx.Int("minutes")
	}

	fmt.Printf("Fetching timeline for the last %d minutes from feed: %s\n", minutes, feed)

	result, err := feeds.NewService(cfg).FetchRecentPosts(ctx.Context, feed, minutes)
	if err != nil {
		return err
	}
	if result.Warning != nil {
		fmt.Printf("Warning: Feed '%s' not found in cache. Proceeding with literal value, which might fail.\n", result.Warning.Identifier)
	}
	fmt.Printf("Found %d posts.\n", len(result.Posts))

	postFilters, err := buildFilters(ctx)
	if err != nil {
		return err
	}
	if len(postFilters) > 0 {
		result.Posts = filters.Apply(result.Posts, postFilters...)
		fmt.Printf("Kept %d posts after filtering.\n", len(result.Posts))
	}

	if !ctx.Bool("no-history") {
		recordRun(ctx.Context, cfg, feed, minutes, result)
	}

	if ctx.Bool("no-summary") {
		printPosts(result.Posts)
		return nil
	}

	fmt.Println("Generating topic summary...")
	summary, err := summarize.NewGemini(cfg.Gemini.APIKey, cfg.Gemini.Model).Summarize(ctx.Context, result.Posts)
	if err != nil {
		return err
	}

	fmt.Println("\n--- Top 5 Trending Topics on Your Feed ---")
	fmt.Println()
	fmt.Println(summary)

	return nil
}

func buildFilters(ctx *cli.Context) ([]filters.Filter, error) {
	postFilters := []filters.Filter{}

	if langs := ctx.StringSlice("lang"); len(langs) > 0 {
		f, err := filters.NewLanguageFilter(langs)
		if err != nil {
			return nil, err
		}
		postFilters = append(postFilters, f)
	}
	if ctx.IsSet("include") || ctx.IsSet("exclude") {
		postFilters = append(postFilters, &filters.KeywordFilter{
			Include: ctx.StringSlice("include"),
			Exclude: ctx.StringSlice("exclude"),
		})
	}
	if ctx.Bool("no-replies") {
		postFilters = append(postFilters, &filters.ExcludeRepliesFilter{})
	}

	return postFilters, nil
}

// recordRun stores the fetch in the history database. Failures are logged
// and otherwise ignored.
func recordRun(ctx context.Context, cfg *config.Config, feed string, minutes int, result *feeds.FetchResult) {
	if cfg.DatabasePath == "" {
		return
	}

	if err := db.Migrate(cfg.DatabasePath); err != nil {
		log.WithFields(log.Fields{
			"database": cfg.DatabasePath,
			"error":    err,
		}).Warn("Could not migrate history database")
		return
	}

	writer, err := db.NewWriter(cfg.DatabasePath)
	if err != nil {
		log.Warnf("Could not open history database: %v", err)
		return
	}
	defer writer.Close()

	if _, err := writer.RecordRun(ctx, models.FetchRun{
		Feed:      feed,
		Resolved:  result.Feed.String(),
		Minutes:   minutes,
		PostCount: len(result.Posts),
	}); err != nil {
		log.Warnf("Could not record fetch: %v", err)
	}
}

func printPosts(posts []models.Post) {
	for i, post := range posts {
		fmt.Printf("\n%d. @%s (%s) likes: %d reposts: %d\n%s\n",
			i+1,
			post.Author,
			bluesky.FormatTime(post.CreatedAt),
			post.LikeCount,
			post.RepostCount,
			post.Text,
		)
	}
}
