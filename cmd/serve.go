package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"fta/feeds"
	"fta/server"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the feed API locally",
		Description: `Starts an HTTP server exposing the fetch engine:

GET /api/posts?feed=<feed>&minutes=<n>   posts in the time window as JSON
GET /api/feeds                           the cached feed aliases
GET /metrics                             prometheus metrics`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   3000,
				Usage:   "Port to listen on",
				EnvVars: []string{"FTA_PORT"},
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := loadCredentials(ctx)
			if err != nil {
				return err
			}

			svc := feeds.NewService(cfg)
			app := server.Server(&server.ServerConfig{
				Fetcher:        svc,
				Cache:          svc.Cache(),
				DefaultFeed:    cfg.DefaultFeed,
				DefaultMinutes: cfg.DefaultMinutes,
			})

			// Graceful shutdown
			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt)
			go func() {
				<-c
				fmt.Println("Gracefully shutting down...")
				if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
					log.Errorf("Error shutting down server: %v", err)
				}
			}()

			addr := fmt.Sprintf(":%d", ctx.Int("port"))
			fmt.Println("Starting server on", addr)
			return app.Listen(addr)
		},
	}
}
