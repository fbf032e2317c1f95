package models

import "time"

// Event types written to the run log.
const (
	EventGenerate = "GENERATE"
	EventDelete   = "DELETE"
	EventExport   = "EXPORT"
	EventArchive  = "ARCHIVE"
	EventPublish  = "PUBLISH"
	EventPurge    = "PURGE"
	EventError    = "ERROR"
)

// RunEvent is a single log entry.
type RunEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	RunID       string    `json:"run_id,omitempty"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}
