package cmd

import (
	"fmt"
	"time"

	"fta/db"

	"github.com/urfave/cli/v2"
)

func tidyCmd() *cli.Command {
	return &cli.Command{
		Name:  "tidy",
		Usage: "Tidy up the history database",
		Description: `Tidy up the database by removing fetch runs that are old.

		Removes runs that are older than 90 days by default.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "days",
				Value: int(db.DefaultRetention / (24 * time.Hour)),
				Usage: "Remove runs older than this many days",
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			fmt.Println("Database configured: ", cfg.DatabasePath)

			if err := db.Migrate(cfg.DatabasePath); err != nil {
				return err
			}
			removed, err := db.Tidy(ctx.Context, cfg.DatabasePath, time.Duration(ctx.Int("days"))*24*time.Hour)
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d runs\n", removed)
			return nil
		},
	}
}
