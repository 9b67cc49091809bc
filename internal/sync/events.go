package sync

import "time"

const (
	EventIngestStarted   = "ingest.started"
	EventIngestCompleted = "ingest.completed"
	EventIngestFailed    = "ingest.failed"
	EventCatalogReindex  = "catalog.reindexed"
)

// CatalogEvent is one line of the event feed.
type CatalogEvent struct {
	Type      string    `json:"type"`
	RunID     string    `json:"run_id,omitempty"`
	Fonts     int       `json:"fonts,omitempty"`
	Foundries int       `json:"foundries,omitempty"`
	Error     string    `json:"error,omitempty"`
	At        time.Time `json:"at"`
}

func NewEvent(typ, runID string) CatalogEvent {
	return CatalogEvent{Type: typ, RunID: runID, At: time.Now().UTC()}
}
