package cmd

import (
	"fmt"

	"fta/bluesky"
	"fta/db"

	"github.com/urfave/cli/v2"
)

func historyCmd() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show previous fetches",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Value:   20,
				Usage:   "Number of runs to show",
			},
			&cli.StringFlag{
				Name:  "for",
				Usage: "Only show runs for this feed identifier",
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			if err := db.Migrate(cfg.DatabasePath); err != nil {
				return err
			}

			reader, err := db.NewReader(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer reader.Close()

			runs, err := reader.GetRuns(ctx.Context, ctx.String("for"), ctx.Int("limit"))
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No fetches recorded yet.")
				return nil
			}

			for _, run := range runs {
				fmt.Printf("%s  %-20s %4d min  %5d posts  %s\n",
					bluesky.FormatTime(run.FetchedAt),
					run.Feed,
					run.Minutes,
					run.PostCount,
					run.Resolved,
				)
			}
			return nil
		},
	}
}
