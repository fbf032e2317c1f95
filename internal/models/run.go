package models

import "time"

// Run is a stored generation: its configuration plus result counters.
// Records are kept separately and addressed by RunID.
type Run struct {
	ID           string           `json:"id"`
	CreatedAt    time.Time        `json:"created_at"`
	CreatedBy    int              `json:"created_by,omitempty"`
	Config       GenerationConfig `json:"config"`
	Total        int              `json:"total"`
	PassCount    int              `json:"pass_count"`
	FailCount    int              `json:"fail_count"`
	AnomalyCount int              `json:"anomaly_count"`
}

// PassRate returns the share of passing records in percent.
func (r Run) PassRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.PassCount) / float64(r.Total) * 100
}

// RecordPage is one page of a run's records.
type RecordPage struct {
	RunID    string         `json:"run_id"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Total    int            `json:"total"`
	Records  []SensorRecord `json:"records"`
}
