package cmd

import (
	"path/filepath"

	"fta/config"

	"github.com/cqroot/prompt"
	"github.com/cqroot/prompt/input"
	"github.com/urfave/cli/v2"
)

// loadConfig reads the config file and applies flag and environment overrides
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	path := ctx.String("config")
	if path == "" {
		if dir, err := config.Dir(); err == nil {
			path = filepath.Join(dir, config.ConfigFileName)
		}
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if ctx.IsSet("handle") {
		cfg.Handle = ctx.String("handle")
	}
	if ctx.IsSet("password") {
		cfg.Password = ctx.String("password")
	}
	if ctx.IsSet("host") {
		cfg.Host = ctx.String("host")
	}
	if ctx.IsSet("cache") {
		cfg.CachePath = ctx.String("cache")
	}
	if ctx.IsSet("database") {
		cfg.DatabasePath = ctx.String("database")
	}
	if ctx.IsSet("gemini-key") {
		cfg.Gemini.APIKey = ctx.String("gemini-key")
	}
	if ctx.IsSet("gemini-model") {
		cfg.Gemini.Model = ctx.String("gemini-model")
	}

	return cfg, nil
}

// loadCredentials is loadConfig for commands that talk to Bluesky. With
// --interactive a missing handle or password is asked for.
func loadCredentials(ctx *cli.Context) (*config.Config, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	if !ctx.Bool("interactive") {
		return cfg, cfg.Validate()
	}

	if cfg.Handle == "" {
		cfg.Handle, err = prompt.New().Ask("Handle:").Input("myname.bsky.social")
		if err != nil {
			return nil, err
		}
	}
	if cfg.Password == "" {
		cfg.Password, err = prompt.New().Ask("Password:").Input("", input.WithEchoMode(input.EchoNone))
		if err != nil {
			return nil, err
		}
	}

	return cfg, cfg.Validate()
}
