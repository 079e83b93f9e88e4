// Copyright 2025 Planora
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
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/planora/catalog"
	"github.com/planora/catalog/ai"
	"github.com/planora/catalog/core"
	"github.com/planora/catalog/search"
	"github.com/planora/catalog/server"
	"github.com/planora/catalog/syncer"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "planora",
		Usage: "Asset catalog with embedding sync and hybrid retrieval",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"PLANORA_LOG_LEVEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: serveCommand,
				Flags: append(catalogFlags(),
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "HTTP listen address",
						Value:   ":8080",
						EnvVars: []string{"PLANORA_ADDR"},
					},
					&cli.IntFlag{
						Name:    "workers",
						Usage:   "Worker bound for bulk resync requests (0 uses the default)",
						EnvVars: []string{"PLANORA_WORKERS"},
					},
				),
			},
			{
				Name:   "resync",
				Usage:  "Resynchronize embeddings for every asset",
				Action: resyncCommand,
				Flags: append(catalogFlags(),
					&cli.IntFlag{
						Name:    "workers",
						Usage:   "Worker bound for concurrent syncing (0 uses the default)",
						EnvVars: []string{"PLANORA_WORKERS"},
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N assets",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum embedding attempts for transient failures",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Run a one-off retrieval query",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append(catalogFlags(),
					&cli.Float64Flag{
						Name:    "threshold",
						Usage:   "Minimum vector similarity for a hit",
						Value:   float64(search.DefaultThreshold),
						EnvVars: []string{"PLANORA_SEARCH_THRESHOLD"},
					},
					&cli.IntFlag{
						Name:    "limit",
						Usage:   "Maximum number of results",
						Value:   search.DefaultLimit,
						EnvVars: []string{"PLANORA_SEARCH_LIMIT"},
					},
				),
			},
			{
				Name:      "seed",
				Usage:     "Load platforms and assets from a JSON file",
				ArgsUsage: "<file>",
				Action:    seedCommand,
				Flags:     catalogFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// catalogFlags are the flags shared by every subcommand that opens the
// catalog.
func catalogFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
			EnvVars:  []string{"PLANORA_DB"},
		},
		&cli.StringFlag{
			Name:    "embedding-host",
			Usage:   "Embedding service host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"PLANORA_EMBEDDING_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   "embeddinggemma",
			EnvVars: []string{"PLANORA_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "Embedding service API key (\"none\" for unauthenticated endpoints)",
			Value:   "none",
			EnvVars: []string{"PLANORA_API_KEY"},
		},
		&cli.IntFlag{
			Name:    "dimensions",
			Usage:   "Expected embedding dimensions",
			Value:   768,
			EnvVars: []string{"PLANORA_DIMENSIONS"},
		},
		&cli.DurationFlag{
			Name:    "request-timeout",
			Usage:   "Timeout for embedding requests",
			Value:   30 * time.Second,
			EnvVars: []string{"PLANORA_REQUEST_TIMEOUT"},
		},
	}
}

func openCatalog(c *cli.Context) (*catalog.Catalog, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithModel(c.String("embedding-model")),
		ai.WithAPIKey(c.String("api-key")),
		ai.WithDimensions(c.Int("dimensions")),
		ai.WithRequestTimeout(c.Duration("request-timeout")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid embedding configuration: %w", err)
	}

	cat, err := catalog.NewCatalog(c.String("db"), catalog.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return cat, nil
}

func serveCommand(c *cli.Context) error {
	cat, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer cat.Close()

	sync, err := cat.NewSyncer()
	if err != nil {
		return err
	}
	searcher, err := cat.NewSearcher()
	if err != nil {
		return err
	}

	var opts []server.Option
	if workers := c.Int("workers"); workers > 0 {
		opts = append(opts, server.WithWorkers(workers))
	}
	srv, err := server.New(sync, searcher, cat.AssetRepository(), opts...)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    c.String("addr"),
		Handler: srv,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", httpServer.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

func resyncCommand(c *cli.Context) error {
	ctx := context.Background()

	cat, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer cat.Close()

	sync, err := cat.NewSyncer(
		syncer.WithMaxRetries(c.Int("max-retries")),
		syncer.WithRetryDelay(c.Duration("retry-delay")),
	)
	if err != nil {
		return err
	}

	var opts []syncer.BulkOption
	if workers := c.Int("workers"); workers > 0 {
		opts = append(opts, syncer.WithWorkers(workers))
	}
	opts = append(opts, syncer.WithProgress(os.Stderr, c.Int("report-interval")))

	job, err := syncer.NewBulkSyncJob(sync, cat.AssetRepository(), opts...)
	if err != nil {
		return err
	}
	defer job.Release()

	ledger, err := job.Run(ctx)
	if err != nil {
		return fmt.Errorf("resync failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Resync complete: %d succeeded, %d failed\n",
		ledger.Succeeded(), ledger.Failed())
	for _, result := range ledger.Results {
		if result.Err != nil {
			fmt.Fprintf(os.Stderr, "  asset %d: %v\n", result.AssetId, result.Err)
		}
	}
	if ledger.Failed() > 0 {
		return fmt.Errorf("%d assets failed to sync", ledger.Failed())
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return errors.New("query argument is required")
	}

	cat, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer cat.Close()

	searcher, err := cat.NewSearcher()
	if err != nil {
		return err
	}

	matches, err := searcher.Search(context.Background(), query,
		float32(c.Float64("threshold")), c.Int("limit"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(matches) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for i, result := range search.ToResults(matches) {
		fmt.Printf("%2d. [%d] %s", i+1, result.AssetId, result.Name)
		if result.PlatformName != "" {
			fmt.Printf(" (%s)", result.PlatformName)
		}
		fmt.Printf("\n    similarity=%.3f lexical=%.3f combined=%.3f\n",
			result.Similarity, result.LexScore, result.Combined)
	}
	return nil
}

// seedFile is the on-disk format for the seed command. Assets link to
// platforms by name; ids are derived from content so reseeding the same
// file is idempotent.
type seedFile struct {
	Platforms []struct {
		Name        string            `json:"name"`
		Industry    string            `json:"industry"`
		Audience    map[string]string `json:"audience"`
		DeviceSplit map[string]string `json:"device_split"`
	} `json:"platforms"`
	Assets []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Type        string `json:"type"`
		Category    string `json:"category"`
		Platform    string `json:"platform"`
	} `json:"assets"`
}

func seedCommand(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return errors.New("seed file argument is required")
	}

	data, err := os.ReadFile(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var file seedFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	cat, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer cat.Close()
	ctx := context.Background()

	platformIDs := make(map[string]core.ID, len(file.Platforms))
	for _, p := range file.Platforms {
		platform := &core.Platform{
			Id:          core.IDFromContent(p.Name),
			Name:        p.Name,
			Industry:    p.Industry,
			Audience:    p.Audience,
			DeviceSplit: p.DeviceSplit,
		}
		if err := core.ValidatePlatform(platform); err != nil {
			return fmt.Errorf("platform %q: %w", p.Name, err)
		}
		if _, err := cat.PlatformRepository().AddPlatforms(ctx, platform); err != nil {
			return fmt.Errorf("failed to add platform %q: %w", p.Name, err)
		}
		platformIDs[p.Name] = platform.Id
	}

	for _, a := range file.Assets {
		asset := &core.Asset{
			Id:          core.IDFromContent(a.Name),
			Name:        a.Name,
			Description: a.Description,
			Type:        a.Type,
			Category:    a.Category,
		}
		if a.Platform != "" {
			id, ok := platformIDs[a.Platform]
			if !ok {
				return fmt.Errorf("asset %q references unknown platform %q", a.Name, a.Platform)
			}
			asset.PlatformId = id
		}
		if err := core.ValidateAsset(asset); err != nil {
			return fmt.Errorf("asset %q: %w", a.Name, err)
		}
		if _, err := cat.AssetRepository().AddAssets(ctx, asset); err != nil {
			return fmt.Errorf("failed to add asset %q: %w", a.Name, err)
		}
	}

	fmt.Fprintf(os.Stderr, "Seeded %d platforms and %d assets\n",
		len(file.Platforms), len(file.Assets))
	return nil
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
