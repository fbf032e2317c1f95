package service

import (
	"time"

	"amc_simulator/internal/models"
)

// GenerateRequest is a generation config whose seed may be left to the
// service. A nil Seed draws a fresh one, which is then stored with the run.
type GenerateRequest struct {
	DayCount        int
	StartDate       time.Time // zero means today, 00:00 UTC
	IntervalMinutes int
	QualityMode     models.QualityMode
	AnomalyRatio    int
	Seed            *int64
}

// SettingsUpdate changes the configuration panel. Nil fields keep their
// stored value. A non-custom Preset overwrites the parameter thresholds.
type SettingsUpdate struct {
	Preset     models.PresetMode
	Parameters *models.SystemParameters
	Generation *models.GenerationConfig
}

// PresetView is one selectable bundle.
type PresetView struct {
	Mode       models.PresetMode       `json:"mode"`
	Parameters models.SystemParameters `json:"parameters"`
}

// LogFilter supports history filtering by time range, type and run.
type LogFilter struct {
	From  time.Time // inclusive; zero means no lower bound
	To    time.Time // inclusive; zero means no upper bound
	Type  string    // "", "GENERATE", "DELETE", "EXPORT", "ARCHIVE", "PUBLISH", "PURGE", "ERROR"
	RunID string
}

// ExportFile is a rendered export ready to be served.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

type ArchiveResult struct {
	RunID     string    `json:"run_id"`
	Bucket    string    `json:"bucket"`
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type PublishResult struct {
	RunID     string `json:"run_id"`
	Topic     string `json:"topic"`
	Published int    `json:"published"`
}
