package server

import (
	"context"
	"strconv"
	"strings"
	"time"

	"fta/config"
	"fta/feeds"

	"github.com/bluesky-social/indigo/atproto/syntax"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// PostFetcher is implemented by feeds.Service
type PostFetcher interface {
	FetchRecentPosts(ctx context.Context, identifier string, minutes int) (*feeds.FetchResult, error)
}

type ServerConfig struct {
	// Fetches posts for /api/posts
	Fetcher PostFetcher

	// Alias cache served by /api/feeds
	Cache *feeds.AliasCache

	DefaultFeed    string
	DefaultMinutes int
}

// Returns a fiber.App instance serving the local feed API
func Server(cfg *ServerConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		log.WithFields(log.Fields{
			"method":  c.Method(),
			"route":   c.Route().Path,
			"status":  c.Response().StatusCode(),
			"latency": time.Since(start),
		}).Info("Request")
		return err
	})

	app.Use(requestid.New(requestid.ConfigDefault))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/api/feeds", func(c *fiber.Ctx) error {
		return c.JSON(cfg.Cache.Load())
	})

	app.Get("/api/posts", func(c *fiber.Ctx) error {
		feed := c.Query("feed", cfg.DefaultFeed)

		minutes := cfg.DefaultMinutes
		if raw := c.Query("minutes"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				return c.Status(fiber.StatusBadRequest).SendString("Invalid minutes")
			}
			minutes = parsed
		}

		if strings.HasPrefix(feed, feeds.FeedURIPrefix) {
			if _, err := syntax.ParseATURI(feed); err != nil {
				return c.Status(fiber.StatusBadRequest).SendString("Invalid feed URI")
			}
		}

		log.WithFields(log.Fields{
			"feed":    feed,
			"minutes": minutes,
		}).Info("Fetch posts with parameters")

		result, err := cfg.Fetcher.FetchRecentPosts(c.UserContext(), feed, minutes)
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error fetching posts")

			if config.IsConfigError(err) {
				return c.Status(fiber.StatusServiceUnavailable).SendString(err.Error())
			}
			return c.Status(fiber.StatusBadGateway).SendString("Error fetching posts")
		}

		return c.JSON(result)
	})

	return app
}
