package models

// FieldStats are descriptive statistics of one numeric channel.
type FieldStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// RadarScores rate a run against a parameter set, 0-100 where higher is better.
type RadarScores struct {
	TOCControl         float64 `json:"toc_control"`
	PressureManagement float64 `json:"pressure_management"`
	TempStability      float64 `json:"temp_stability"`
	HumidityControl    float64 `json:"humidity_control"`
	OverallEfficiency  float64 `json:"overall_efficiency"`
}

// FeatureImportance is the strength of one reading's link to the outcome.
type FeatureImportance struct {
	Field      string  `json:"field"`
	Importance float64 `json:"importance"`
}

// RunSummary is the analysis view of a run.
type RunSummary struct {
	RunID        string                `json:"run_id"`
	Total        int                   `json:"total"`
	PassCount    int                   `json:"pass_count"`
	FailCount    int                   `json:"fail_count"`
	PassRate     float64               `json:"pass_rate"`
	AnomalyCount int                   `json:"anomaly_count"`
	AnomalyKinds map[string]int        `json:"anomaly_kinds"`
	ShiftCounts  map[string]int        `json:"shift_counts"`
	Fields       map[string]FieldStats `json:"fields"`
	// Correlation is a Pearson matrix over CorrelationFields, in that order.
	CorrelationFields []string    `json:"correlation_fields"`
	Correlation       [][]float64 `json:"correlation"`
	// Importance is |r| between each reading and the pass/fail outcome,
	// strongest first.
	Importance []FeatureImportance `json:"importance"`
	Preset     PresetMode          `json:"preset"`
	Radar      RadarScores         `json:"radar"`
}
