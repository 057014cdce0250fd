package ingestion

import "github.com/poiesic/ticketvec/core"

// Monitor provides hooks to observe a bulk ingestion pass.
// Implement this interface to track progress; the CLI uses it to print
// per-page status during long backlog runs.
type Monitor interface {
	Start()
	PageFetched(page, records int)
	RecordSkippedShortText(ticketNumber string)
	RecordSkippedDuplicate(ticketNumber string)
	RecordIngested(ticketNumber string)
	RecordFailed(ticketNumber string, err error)
	Finish(report *core.IngestionReport)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start()                                {}
func (n *noopMonitor) PageFetched(_, _ int)                  {}
func (n *noopMonitor) RecordSkippedShortText(_ string)       {}
func (n *noopMonitor) RecordSkippedDuplicate(_ string)       {}
func (n *noopMonitor) RecordIngested(_ string)               {}
func (n *noopMonitor) RecordFailed(_ string, _ error)        {}
func (n *noopMonitor) Finish(_ *core.IngestionReport)        {}
