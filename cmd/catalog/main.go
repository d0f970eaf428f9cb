package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"library-catalog-service/internal/infra/searchapi"
	"library-catalog-service/internal/logger"
	"library-catalog-service/internal/searchcache"
	"library-catalog-service/internal/session"
)

func main() {
	app := &cli.Command{
		Name:  "catalog",
		Usage: "Search the library catalog from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Usage:   "Catalog service base URL",
				Value:   "http://localhost:8080",
				Sources: cli.EnvVars("CATALOG_API"),
			},
			&cli.StringFlag{
				Name:  "session",
				Usage: "Session ID used for search history",
				Value: uuid.NewString(),
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Request timeout",
				Value: 10 * time.Second,
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
				Value: false,
			},
		},
		Commands: []*cli.Command{
			SearchCommand(),
			BrowseCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// client bundles what every command needs to talk to the service.
type client struct {
	api     *searchapi.Client
	session *session.Session
	logger  *zap.Logger
}

func newClient(c *cli.Command, opts ...session.Option) (*client, error) {
	level := "warn"
	if c.Bool("debug") {
		level = "debug"
	}

	zl, err := logger.New(logger.Config{
		Level:  level,
		Format: "console",
		Output: "stderr",
	}, logger.SentryConfig{})
	if err != nil {
		return nil, err
	}

	api := searchapi.New(searchapi.Config{
		BaseURL:   c.String("api"),
		Timeout:   c.Duration("timeout"),
		SessionID: c.String("session"),
	}, zl.Logger)

	opts = append([]session.Option{session.WithPrefetchTimeout(c.Duration("timeout"))}, opts...)

	return &client{
		api:     api,
		session: session.New(api, searchcache.New(), zl.Logger, opts...),
		logger:  zl.Logger,
	}, nil
}
