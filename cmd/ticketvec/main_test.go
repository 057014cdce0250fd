package main

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/poiesic/ticketvec/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"info", slog.LevelInfo},
			{"warn", slog.LevelWarn},
			{"error", slog.LevelError},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: tc.input,
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc.input})
				require.NoError(t, err)
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		testCases := []string{
			"DEBUG",
			"Info",
			"WaRn",
			"ERROR",
		}

		for _, tc := range testCases {
			t.Run(tc, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: "info",
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				return nil
			},
		}

		err := app.Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
		assert.Contains(t, err.Error(), "invalid")
	})

	t.Run("default log level is info", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				level := c.String("log-level")
				assert.Equal(t, "info", level)
				return nil
			},
		}

		err := app.Run([]string{"test"})
		require.NoError(t, err)
	})
}

func TestIngestCommandRejectsNegativeLimit(t *testing.T) {
	app := &cli.App{
		Name: "ticketvec",
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Value: 0,
					},
				},
			},
		},
	}

	err := app.Run([]string{"ticketvec", "ingest", "--limit", "-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit")
}

func TestSearchCommandRequiresQuery(t *testing.T) {
	app := &cli.App{
		Name: "ticketvec",
		Commands: []*cli.Command{
			{
				Name:   "search",
				Action: searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 0},
					&cli.BoolFlag{Name: "note"},
				},
			},
		},
	}

	err := app.Run([]string{"ticketvec", "search"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query")
}

func TestProgressMonitor(t *testing.T) {
	t.Run("page fetch and summary output", func(t *testing.T) {
		var buf bytes.Buffer
		monitor := newProgressMonitor(&buf)

		monitor.Start()
		monitor.PageFetched(1, 3)
		monitor.RecordIngested("T-1")
		monitor.RecordSkippedDuplicate("T-2")
		monitor.RecordSkippedShortText("T-3")
		monitor.PageFetched(2, 0)

		report := &core.IngestionReport{
			Processed:        3,
			Inserted:         1,
			SkippedDuplicate: 1,
			SkippedShortText: 1,
			Reason:           core.StopExhausted,
		}
		monitor.Finish(report)

		output := buf.String()
		assert.Contains(t, output, "Starting bulk ingestion")
		assert.Contains(t, output, "Page 1: 3 records")
		assert.Contains(t, output, "Page 2: 0 records (processed 3, inserted 1, skipped 2, failed 0)")
		assert.Contains(t, output, "Ingestion complete (exhausted)")
		assert.Contains(t, output, "Inserted: 1, duplicates skipped: 1, short text skipped: 1, failed: 0")
	})

	t.Run("failures are printed as they happen", func(t *testing.T) {
		var buf bytes.Buffer
		monitor := newProgressMonitor(&buf)

		monitor.Start()
		monitor.RecordFailed("T-9", errors.New("provider unreachable"))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "Failed T-9: provider unreachable", lines[1])
	})
}
