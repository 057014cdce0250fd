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
	"fmt"
	"io"
	"time"

	"github.com/poiesic/ticketvec/core"
)

// progressMonitor prints per-page status and a final summary during a
// bulk ingestion pass. Per-record events only advance counters; page
// fetches produce output so long backlog runs stay observable.
type progressMonitor struct {
	out       io.Writer
	startTime time.Time
	processed int
	inserted  int
	skipped   int
	failed    int
}

func newProgressMonitor(out io.Writer) *progressMonitor {
	return &progressMonitor{out: out}
}

func (p *progressMonitor) Start() {
	p.startTime = time.Now()
	fmt.Fprintln(p.out, "Starting bulk ingestion")
}

func (p *progressMonitor) PageFetched(page, records int) {
	fmt.Fprintf(p.out, "Page %d: %d records (processed %d, inserted %d, skipped %d, failed %d)\n",
		page, records, p.processed, p.inserted, p.skipped, p.failed)
}

func (p *progressMonitor) RecordSkippedShortText(_ string) {
	p.processed++
	p.skipped++
}

func (p *progressMonitor) RecordSkippedDuplicate(_ string) {
	p.processed++
	p.skipped++
}

func (p *progressMonitor) RecordIngested(_ string) {
	p.processed++
	p.inserted++
}

func (p *progressMonitor) RecordFailed(ticketNumber string, err error) {
	p.processed++
	p.failed++
	fmt.Fprintf(p.out, "Failed %s: %v\n", ticketNumber, err)
}

func (p *progressMonitor) Finish(report *core.IngestionReport) {
	elapsed := time.Since(p.startTime)
	rate := 0.0
	if elapsed.Seconds() > 0 {
		rate = float64(report.Processed) / elapsed.Seconds()
	}
	fmt.Fprintf(p.out, "Ingestion complete (%s). Processed %d records in %v (%.1f records/sec)\n",
		report.Reason, report.Processed, elapsed.Round(time.Second), rate)
	fmt.Fprintf(p.out, "Inserted: %d, duplicates skipped: %d, short text skipped: %d, failed: %d\n",
		report.Inserted, report.SkippedDuplicate, report.SkippedShortText, len(report.Failures))
}
