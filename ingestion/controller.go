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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/ticketvec/core"
	"github.com/poiesic/ticketvec/source"
	"github.com/poiesic/ticketvec/storage"
)

// TicketSource pages through the remote ticketing system's list endpoint.
// Page numbering starts at 1; an empty page signals an exhausted backlog.
type TicketSource interface {
	FetchPage(ctx context.Context, page, pageSize int) ([]core.TicketRecord, error)
}

// Controller drives bulk ingestion: it paginates the ticket source, filters
// and deduplicates records, feeds qualifying ones through the single-record
// ingest operation, and accumulates a report.
//
// Records are processed strictly serially, in source order within a page and
// in increasing page order across pages. The controller keeps no checkpoint
// of its own: re-running after a partial pass re-fetches from page 1 and
// relies on the store's duplicate check to skip already-ingested tickets,
// which makes the operation idempotent in aggregate.
type Controller struct {
	source     TicketSource
	repository storage.EmbeddingRepository
	ingestor   *Ingestor
	policy     core.TextPolicy
	pageSize   int
	monitor    Monitor
	logger     *slog.Logger
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithPageSize sets the number of tickets requested per page.
// Default is source.DefaultPageSize.
func WithPageSize(size int) ControllerOption {
	return func(c *Controller) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithMonitor sets an observer for the ingestion pass.
// Default is a no-op monitor.
func WithMonitor(m Monitor) ControllerOption {
	return func(c *Controller) {
		if m != nil {
			c.monitor = m
		}
	}
}

// WithControllerLogger sets a custom logger.
// Default is slog.Default().
func WithControllerLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewController creates a bulk ingestion controller. The controller shares
// the ingestor's text policy so that the short-text filter and the ingest
// validation agree on what qualifies.
func NewController(src TicketSource, repository storage.EmbeddingRepository, ingestor *Ingestor, opts ...ControllerOption) (*Controller, error) {
	if src == nil {
		return nil, ErrSourceRequired
	}
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if ingestor == nil {
		return nil, ErrIngestorRequired
	}

	c := &Controller{
		source:     src,
		repository: repository,
		ingestor:   ingestor,
		policy:     ingestor.policy,
		pageSize:   source.DefaultPageSize,
		monitor:    &noopMonitor{},
		logger:     slog.Default().With("component", "bulk-ingestion"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Run executes one bulk ingestion pass. limit caps the number of records
// processed; 0 means unbounded. The cap is a hard ceiling: once reached the
// pass stops immediately, mid-page, without fetching further pages.
//
// Page-fetch failures are fatal to the invocation: the partial report is
// returned with Reason set to StopSourceError alongside the error, so the
// caller can surface the diagnostic payload. Per-record embed/store failures
// are logged, counted and bounded in the report, and never stop the pass.
func (c *Controller) Run(ctx context.Context, limit int) (*core.IngestionReport, error) {
	report := &core.IngestionReport{}
	c.monitor.Start()

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		records, err := c.source.FetchPage(ctx, page, c.pageSize)
		if err != nil {
			c.logger.Error("page fetch failed, aborting pass",
				"page", page, "processed", report.Processed, "err", err)
			report.Reason = core.StopSourceError
			return report, err
		}
		c.monitor.PageFetched(page, len(records))

		if len(records) == 0 {
			// Absence of data is the sole completion signal.
			report.Reason = core.StopExhausted
			c.logger.Info("backlog exhausted",
				"pages", page,
				"processed", report.Processed,
				"inserted", report.Inserted,
				"skippedDuplicate", report.SkippedDuplicate,
				"skippedShortText", report.SkippedShortText)
			c.monitor.Finish(report)
			return report, nil
		}

		for _, record := range records {
			if err := ctx.Err(); err != nil {
				return report, err
			}

			c.process(ctx, record, report)

			report.Processed++
			if limit > 0 && report.Processed >= limit {
				report.Reason = core.StopLimitReached
				c.logger.Info("processing cap reached",
					"limit", limit, "inserted", report.Inserted)
				c.monitor.Finish(report)
				return report, nil
			}
		}
	}
}

// process classifies and possibly ingests one record. Errors never escape;
// every failure is downgraded to "not inserted" so one bad record cannot
// stop ingestion of the rest of the backlog.
func (c *Controller) process(ctx context.Context, record core.TicketRecord, report *core.IngestionReport) {
	if record.TicketNumber == "" {
		report.AddFailure("", core.ErrMissingTicketNumber.Error())
		c.monitor.RecordFailed("", core.ErrMissingTicketNumber)
		return
	}

	// Short text never reaches the provider or the store.
	text := c.policy.EffectiveText(record.Summary, record.Notes)
	if err := c.policy.Validate(text); err != nil {
		report.SkippedShortText++
		c.monitor.RecordSkippedShortText(record.TicketNumber)
		return
	}

	// The duplicate check must precede the provider call: embedding is the
	// costly, rate-limited operation and already-ingested tickets must not
	// re-incur it.
	exists, err := c.repository.Exists(ctx, record.TicketNumber)
	if err != nil {
		c.logger.Warn("duplicate check failed, record not inserted",
			"ticket", record.TicketNumber, "err", err)
		report.AddFailure(record.TicketNumber, fmt.Sprintf("duplicate check: %v", err))
		c.monitor.RecordFailed(record.TicketNumber, err)
		return
	}
	if exists {
		report.SkippedDuplicate++
		c.monitor.RecordSkippedDuplicate(record.TicketNumber)
		return
	}

	if _, err := c.ingestor.Ingest(ctx, record.TicketNumber, record.Summary, record.Notes); err != nil {
		c.logger.Warn("record not inserted", "ticket", record.TicketNumber, "err", err)
		report.AddFailure(record.TicketNumber, err.Error())
		c.monitor.RecordFailed(record.TicketNumber, err)
		return
	}

	report.Inserted++
	c.monitor.RecordIngested(record.TicketNumber)
}
