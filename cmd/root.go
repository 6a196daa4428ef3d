package cmd

import (
	"fmt"
	"os"

	"fta/config"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "fta",
		Usage: "Summarize what your Bluesky feeds talked about recently",
		Description: `Fetches the posts of a Bluesky feed from the last N minutes and
		asks Gemini for the five most discussed topics.

		Feeds can be given as "following" (your home timeline), as an at:// feed
		URI or by the display name of one of your saved feeds. Run sync-feeds
		first to make your saved feeds available by name.

		Flags can generally be set via environment variables, e.g.:

		--handle => BLUESKY_HANDLE=alice.bsky.social
		--password => BLUESKY_PASSWORD=app-password
		--gemini-key => GEMINI_API_KEY=...
		`,
		Flags: append(globalFlags(), fetchFlags()...),
		Before: func(ctx *cli.Context) error {
			// Keep stdout for command output
			log.SetOutput(os.Stderr)
			level, err := log.ParseLevel(ctx.String("log-level"))
			if err != nil {
				return fmt.Errorf("invalid log level: %w", err)
			}
			log.SetLevel(level)
			return nil
		},
		After: func(ctx *cli.Context) error {
			path := ctx.String("metrics-textfile")
			if path == "" {
				return nil
			}
			if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
				return fmt.Errorf("could not write metrics: %w", err)
			}
			return nil
		},
		Commands: []*cli.Command{
			syncFeedsCmd(),
			listFeedsCmd(),
			historyCmd(),
			tidyCmd(),
			migrateCmd(),
			rollbackCmd(),
			serveCmd(),
		},
		Action: fetchAction,
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the TOML configuration file (default: <user config dir>/feed-the-atmosphere/config.toml)",
			EnvVars: []string{"FTA_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "handle",
			Usage:   "Bluesky handle",
			EnvVars: []string{"BLUESKY_HANDLE"},
		},
		&cli.StringFlag{
			Name:    "password",
			Usage:   "Bluesky (app) password",
			EnvVars: []string{"BLUESKY_PASSWORD"},
		},
		&cli.StringFlag{
			Name:    "host",
			Usage:   "PDS host to log in against",
			EnvVars: []string{"FTA_HOST"},
		},
		&cli.StringFlag{
			Name:    "cache",
			Usage:   "Feed alias cache file",
			EnvVars: []string{"FTA_CACHE"},
		},
		&cli.StringFlag{
			Name:    "database",
			Aliases: []string{"d"},
			Usage:   "SQLite database file for fetch history",
			EnvVars: []string{"FTA_DATABASE"},
		},
		&cli.BoolFlag{
			Name:  "interactive",
			Usage: "Prompt for a missing handle or password",
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "warn",
			Usage:   "Log level (debug, info, warn, error)",
			EnvVars: []string{"FTA_LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    "metrics-textfile",
			Usage:   "Write prometheus metrics to this file when the command finishes",
			EnvVars: []string{"FTA_METRICS_TEXTFILE"},
		},
	}
}

func Execute() {
	if err := RootApp().Run(os.Args); err != nil {
		if config.IsConfigError(err) {
			fmt.Fprintln(os.Stderr, "Configuration error:", err)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
