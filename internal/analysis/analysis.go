// Package analysis derives run summaries: descriptive statistics, the
// correlation between readings and the radar scores shown on the dashboard.
package analysis

import (
	"math"
	"sort"

	"amc_simulator/internal/models"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Fields are the numeric readings covered by the correlation matrix,
// in matrix order.
var Fields = []string{"Outlet_TOC", "Inlet_TOC", "Pressure_Diff", "Temperature", "Humidity", "Flow_Rate"}

func value(rec models.SensorRecord, field string) float64 {
	switch field {
	case "Outlet_TOC":
		return rec.OutletTOC
	case "Inlet_TOC":
		return rec.InletTOC
	case "Pressure_Diff":
		return rec.PressureDiff
	case "Temperature":
		return rec.Temperature
	case "Humidity":
		return rec.Humidity
	case "Flow_Rate":
		return rec.FlowRate
	case "Aging_Factor":
		return rec.AgingFactor
	}
	return math.NaN()
}

// columns splits records into one slice per field plus a 1/0 outcome column.
func columns(recs []models.SensorRecord) (map[string][]float64, []float64) {
	cols := map[string][]float64{"Aging_Factor": make([]float64, len(recs))}
	for _, f := range Fields {
		cols[f] = make([]float64, len(recs))
	}
	outcome := make([]float64, len(recs))
	for i, rec := range recs {
		for f, col := range cols {
			col[i] = value(rec, f)
		}
		if rec.Result == models.ResultPass {
			outcome[i] = 1
		}
	}
	return cols, outcome
}

// Describe returns mean, sample standard deviation, min and max of xs.
func Describe(xs []float64) models.FieldStats {
	if len(xs) == 0 {
		return models.FieldStats{}
	}
	mean, std := stat.MeanStdDev(xs, nil)
	if len(xs) < 2 {
		std = 0
	}
	return models.FieldStats{Mean: mean, Std: std, Min: floats.Min(xs), Max: floats.Max(xs)}
}

// Pearson is the correlation coefficient of x and y. A constant series has
// no defined correlation and yields 0.
func Pearson(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// CorrelationMatrix is the symmetric Pearson matrix over Fields.
func CorrelationMatrix(cols map[string][]float64) [][]float64 {
	m := make([][]float64, len(Fields))
	for i := range Fields {
		m[i] = make([]float64, len(Fields))
	}
	for i, fi := range Fields {
		for j := i; j < len(Fields); j++ {
			r := Pearson(cols[fi], cols[Fields[j]])
			m[i][j], m[j][i] = r, r
		}
	}
	return m
}

// Importance ranks each field by |r| against the pass/fail outcome.
func Importance(cols map[string][]float64, outcome []float64) []models.FeatureImportance {
	out := make([]models.FeatureImportance, 0, len(Fields))
	for _, f := range Fields {
		out = append(out, models.FeatureImportance{Field: f, Importance: math.Abs(Pearson(cols[f], outcome))})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Importance > out[j].Importance })
	return out
}

// Radar scores a run against p. Threshold scores floor at 0; the band
// scores measure distance from the band centre and go negative outside it.
func Radar(recs []models.SensorRecord, p models.SystemParameters) models.RadarScores {
	if len(recs) == 0 {
		return models.RadarScores{}
	}
	var outlet, pressure, temp, humidity float64
	pass := 0
	for _, r := range recs {
		outlet += r.OutletTOC
		pressure += r.PressureDiff
		temp += r.Temperature
		humidity += r.Humidity
		if r.Result == models.ResultPass {
			pass++
		}
	}
	n := float64(len(recs))
	outlet, pressure, temp, humidity = outlet/n, pressure/n, temp/n, humidity/n

	return models.RadarScores{
		TOCControl:         ratioScore(p.OutletTOCThreshold, outlet),
		PressureManagement: ratioScore(p.PressureMax, pressure),
		TempStability:      bandScore(p.TempMin, p.TempMax, temp),
		HumidityControl:    bandScore(p.HumidityMin, p.HumidityMax, humidity),
		OverallEfficiency:  float64(pass) / n * 100,
	}
}

func ratioScore(limit, avg float64) float64 {
	if limit == 0 {
		return 0
	}
	return math.Max(0, (limit-avg)/limit*100)
}

func bandScore(lo, hi, avg float64) float64 {
	half := (hi - lo) / 2
	if half <= 0 {
		return 0
	}
	return 100 - math.Abs(avg-(lo+hi)/2)/half*100
}

// Summarize builds the full analysis view of a run's records, scoring them
// against the parameters of preset.
func Summarize(runID string, recs []models.SensorRecord, preset models.PresetMode, p models.SystemParameters) models.RunSummary {
	s := models.RunSummary{
		RunID:             runID,
		Total:             len(recs),
		AnomalyKinds:      map[string]int{},
		ShiftCounts:       map[string]int{},
		Fields:            map[string]models.FieldStats{},
		CorrelationFields: Fields,
		Preset:            preset,
	}
	for _, r := range recs {
		if r.Result == models.ResultPass {
			s.PassCount++
		}
		if r.IsAnomaly {
			s.AnomalyCount++
		}
		if r.AnomalyKind != "" {
			s.AnomalyKinds[r.AnomalyKind]++
		}
		s.ShiftCounts[r.Shift]++
	}
	s.FailCount = s.Total - s.PassCount
	if s.Total > 0 {
		s.PassRate = float64(s.PassCount) / float64(s.Total) * 100
	}

	cols, outcome := columns(recs)
	for f, col := range cols {
		s.Fields[f] = Describe(col)
	}
	s.Correlation = CorrelationMatrix(cols)
	s.Importance = Importance(cols, outcome)
	s.Radar = Radar(recs, p)
	return s
}
