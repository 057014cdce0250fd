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
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	ticketvec "github.com/poiesic/ticketvec"
	"github.com/poiesic/ticketvec/api"
	"github.com/poiesic/ticketvec/config"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "ticketvec",
		Usage: "Semantic search service for support tickets",
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
				Usage:  "Run the HTTP API server",
				Action: serveCommand,
			},
			{
				Name:   "ingest",
				Usage:  "Run a one-shot bulk ingestion pass over the ticket source",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Stop after processing this many tickets (0 = unbounded)",
						Value: 0,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Find tickets similar to a query",
				Action:    searchCommand,
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 0,
					},
					&cli.BoolFlag{
						Name:  "note",
						Usage: "Generate a summary note over the results",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	service, err := ticketvec.NewService(cfg)
	if err != nil {
		return fmt.Errorf("failed to build service: %w", err)
	}
	defer service.Close()

	handler := api.NewHandler(service.Ingestor(), service.Controller(), service.Searcher(), service)
	server := api.NewServer(api.ServerConfig{
		Port:            cfg.Port,
		AllowedOrigins:  cfg.AllowedOrigins,
		ShutdownTimeout: time.Duration(cfg.ShutdownTimeoutSec) * time.Second,
	}, handler)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
	}

	if err := server.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	limit := c.Int("limit")
	if limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	monitor := newProgressMonitor(os.Stderr)
	service, err := ticketvec.NewService(cfg, ticketvec.WithIngestionMonitor(monitor))
	if err != nil {
		return fmt.Errorf("failed to build service: %w", err)
	}
	defer service.Close()

	fmt.Fprintf(os.Stderr, "Source: %s\n", cfg.SourceBaseURL)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", cfg.ProviderModel)
	fmt.Fprintln(os.Stderr)

	report, err := service.Controller().Run(ctx, limit)
	if err != nil {
		if report != nil {
			fmt.Fprintf(os.Stderr, "Aborted after processing %d records\n", report.Processed)
		}
		return fmt.Errorf("ingestion failed: %w", err)
	}

	for _, failure := range report.Failures {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", failure.TicketNumber, failure.Reason)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a search query is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if limit := c.Int("limit"); limit > 0 {
		cfg.SearchLimit = limit
	}

	service, err := ticketvec.NewService(cfg)
	if err != nil {
		return fmt.Errorf("failed to build service: %w", err)
	}
	defer service.Close()

	response, err := service.Searcher().Find(ctx, query, c.Bool("note"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(response.Neighbors) == 0 {
		fmt.Println("No matching tickets found")
		return nil
	}

	for i, neighbor := range response.Neighbors {
		fmt.Printf("%d. %s (distance %.4f)\n", i+1, neighbor.TicketNumber, neighbor.Distance)
		fmt.Printf("   %s\n", neighbor.Summary)
	}
	if response.Note != "" {
		fmt.Printf("\n%s\n", response.Note)
	}
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
