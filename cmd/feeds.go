package cmd

import (
	"fmt"
	"os"

	"fta/feeds"

	"github.com/urfave/cli/v2"
)

func syncFeedsCmd() *cli.Command {
	return &cli.Command{
		Name:  "sync-feeds",
		Usage: "Synchronize your saved feeds from your Bluesky account to local cache",
		Description: `Reads the saved feeds from your Bluesky preferences, looks up their
display names and writes them to the local feed cache.

Afterwards feeds can be fetched by display name, e.g. --feed "Science".
The cache is replaced on every sync.`,
		Action: func(ctx *cli.Context) error {
			cfg, err := loadCredentials(ctx)
			if err != nil {
				return err
			}

			aliases, err := feeds.NewService(cfg).SyncUserFeeds(ctx.Context, os.Stdout)
			if err != nil {
				return err
			}

			if len(aliases) == 0 {
				fmt.Println("No saved feeds found on your account.")
				return nil
			}

			fmt.Printf("Successfully synced %d feeds to %s\n", len(aliases), cfg.CachePath)
			return nil
		},
	}
}

func listFeedsCmd() *cli.Command {
	return &cli.Command{
		Name:  "list-feeds",
		Usage: "List available feeds in your local cache",
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			return feeds.ListUserFeeds(os.Stdout, feeds.NewAliasCache(cfg.CachePath))
		},
	}
}
