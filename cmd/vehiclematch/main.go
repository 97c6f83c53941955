// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	vehiclematch "github.com/poiesic/vehiclematch"
	"github.com/poiesic/vehiclematch/ai"
	"github.com/poiesic/vehiclematch/api"
	"github.com/poiesic/vehiclematch/core"
	"github.com/poiesic/vehiclematch/ingest"
	"github.com/poiesic/vehiclematch/match"
	"github.com/urfave/cli/v2"
)

func main() {
	// Optional .env file; flags and real env vars win.
	godotenv.Load()

	app := &cli.App{
		Name:  "vehiclematch",
		Usage: "Match partner vehicle descriptions against a canonical catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP matching API",
				Action: serveCommand,
				Flags: append(catalogFlags(),
					&cli.StringFlag{
						Name:    "listen",
						Usage:   "Address to listen on",
						Value:   ":8080",
						EnvVars: []string{"LISTEN_ADDR"},
					},
				),
			},
			{
				Name:   "load",
				Usage:  "Bulk-load vehicles from a partner CSV export",
				Action: loadCommand,
				Flags: append(catalogFlags(),
					&cli.StringFlag{
						Name:     "csv",
						Usage:    "Path to the CSV file",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Descriptions embedded per request",
						Value: 50,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Concurrent embedding batches",
						Value: 0,
					},
				),
			},
			{
				Name:      "match",
				Usage:     "Match one description from the command line",
				ArgsUsage: "<description>",
				Action:    matchCommand,
				Flags: append(catalogFlags(),
					&cli.BoolFlag{
						Name:  "strict",
						Usage: "Force oracle arbitration even for a single strong candidate",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Retrieval depth",
						Value: match.DefaultTopK,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// catalogFlags are shared by every command that opens the catalog.
func catalogFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
			EnvVars:  []string{"VEHICLEMATCH_DB"},
		},
		&cli.StringFlag{
			Name:    "ai-host",
			Usage:   "OpenAI-compatible service host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"AI_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   "all-minilm",
			EnvVars: []string{"EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "arbiter-model",
			Usage:   "Arbitration model name",
			Value:   "qwen2.5:3b",
			EnvVars: []string{"ARBITER_MODEL"},
		},
		&cli.StringFlag{
			Name:    "ai-token",
			Usage:   "API token for the AI services",
			Value:   "none",
			EnvVars: []string{"AI_TOKEN"},
		},
	}
}

func openCatalog(c *cli.Context) (*vehiclematch.Catalog, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithArbiterModel(c.String("arbiter-model")),
		ai.WithToken(c.String("ai-token")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	catalog, err := vehiclematch.NewCatalog(c.String("db"), vehiclematch.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return catalog, nil
}

func serveCommand(c *cli.Context) error {
	catalog, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer catalog.Close()

	matcher, err := catalog.NewMatcher()
	if err != nil {
		return err
	}

	server, err := api.NewServer(matcher, catalog.Vehicles(), catalog.Provider().Embedder())
	if err != nil {
		return err
	}

	addr := c.String("listen")
	slog.Info("serving matching API", "addr", addr)
	return http.ListenAndServe(addr, server.Router())
}

func loadCommand(c *cli.Context) error {
	catalog, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer catalog.Close()

	opts := []ingest.Option{ingest.WithBatchSize(c.Int("batch-size"))}
	if poolSize := c.Int("pool-size"); poolSize > 0 {
		opts = append(opts, ingest.WithPoolSize(poolSize))
	}

	loader, err := catalog.NewLoader(opts...)
	if err != nil {
		return err
	}
	defer loader.Release()

	stats, err := loader.LoadFile(context.Background(), c.String("csv"))
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Rows: %d\n", stats.Total)
	fmt.Fprintf(os.Stderr, "Added: %d\n", stats.Added)
	fmt.Fprintf(os.Stderr, "Duplicates: %d\n", stats.Duplicates)
	fmt.Fprintf(os.Stderr, "Embedded: %d\n", stats.Embedded)
	fmt.Fprintf(os.Stderr, "Unchanged: %d\n", stats.SkippedUnchanged)
	fmt.Fprintf(os.Stderr, "Invalid: %d\n", stats.Invalid)
	return nil
}

func matchCommand(c *cli.Context) error {
	description := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if description == "" {
		return fmt.Errorf("a vehicle description is required")
	}

	catalog, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer catalog.Close()

	matcher, err := catalog.NewMatcher(match.WithTopK(c.Int("top-k")))
	if err != nil {
		return err
	}

	outcome, err := matcher.Match(context.Background(), core.MatchQuery{
		Description: description,
		Strict:      c.Bool("strict"),
	})
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}

	out := map[string]any{
		"band":       outcome.Band.String(),
		"arbitrated": outcome.Arbitrated,
	}
	if outcome.Matched() {
		out["id"] = outcome.Record.ID
		out["description"] = outcome.Record.Description
	} else {
		out["id"] = nil
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
