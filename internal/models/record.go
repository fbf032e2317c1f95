package models

import "time"

// QualityMode selects the noise profile of a generation run.
type QualityMode string

const (
	QualityNormal        QualityMode = "normal"
	QualityWithAnomaly   QualityMode = "with_anomaly"
	QualitySevereAnomaly QualityMode = "severe_anomaly"
	QualityMixed         QualityMode = "mixed"
)

// Valid reports whether m is one of the known quality modes.
func (m QualityMode) Valid() bool {
	switch m {
	case QualityNormal, QualityWithAnomaly, QualitySevereAnomaly, QualityMixed:
		return true
	}
	return false
}

// Result is the pass/fail outcome of a record.
type Result string

const (
	ResultPass Result = "pass"
	ResultFail Result = "fail"
)

// Shift labels derived from the hour of day.
const (
	ShiftDay   = "D" // 06:00-17:59
	ShiftNight = "N" // 18:00-23:59
	ShiftOff   = "A" // 00:00-05:59
)

// Anomaly kinds injected into a reading.
const (
	AnomalyTOCSpike     = "toc_spike"
	AnomalyPressureHigh = "pressure_high"
	AnomalyTempDrift    = "temp_drift"
	AnomalyFlowLow      = "flow_low"
)

// GenerationConfig is the input of one generation run.
type GenerationConfig struct {
	DayCount        int         `json:"day_count" yaml:"day_count"`
	StartDate       time.Time   `json:"start_date" yaml:"start_date"`
	IntervalMinutes int         `json:"interval_minutes" yaml:"interval_minutes"`
	QualityMode     QualityMode `json:"quality_mode" yaml:"quality_mode"`
	AnomalyRatio    int         `json:"anomaly_ratio" yaml:"anomaly_ratio"`
	Seed            int64       `json:"seed" yaml:"seed"`
}

// SensorRecord is one synthesized sample of the filtration line.
// JSON names follow the column names of the exported CSV.
type SensorRecord struct {
	No           int     `json:"No"`
	Date         string  `json:"Date"`
	Time         string  `json:"Time"`
	DateTime     string  `json:"DateTime"`
	SN           string  `json:"SN"`
	Shift        string  `json:"Shift"`
	Feature1     int     `json:"Feature1"`
	Feature2     string  `json:"Feature2"`
	InletTOC     float64 `json:"Inlet_TOC"`
	OutletTOC    float64 `json:"Outlet_TOC"`
	PressureDiff float64 `json:"Pressure_Diff"`
	FlowRate     float64 `json:"Flow_Rate"`
	Temperature  float64 `json:"Temperature"`
	Humidity     float64 `json:"Humidity"`
	Result       Result  `json:"Result"`
	AgingFactor  float64 `json:"Aging_Factor"`
	IsAnomaly    bool    `json:"Is_Anomaly"`

	// AnomalyKind is empty unless a perturbation was applied.
	AnomalyKind string    `json:"Anomaly_Kind,omitempty"`
	Timestamp   time.Time `json:"-"`
}
