// Package generator synthesizes the sensor records of a simulated filtration
// line: a time grid, an aging and noise model, anomaly injection and a fixed
// pass/fail rule.
package generator

import (
	"context"
	"fmt"

	"amc_simulator/internal/models"
)

const (
	serialBase    = 1000
	ctxCheckEvery = 1024

	dateLayout     = "2006/1/2"
	timeLayout     = "15:04:05"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// Generate produces the full record sequence for cfg in one pass. When src is
// nil a stream seeded with cfg.Seed is used. On any error no records are
// returned.
func Generate(ctx context.Context, cfg models.GenerationConfig, src Source) ([]models.SensorRecord, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	if src == nil {
		src = NewSource(cfg.Seed)
	}

	total := TotalRecords(cfg)
	out := make([]models.SensorRecord, 0, total)
	for i := 0; i < total; i++ {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		out = append(out, buildRecord(cfg, i, src))
	}
	return out, nil
}

func buildRecord(cfg models.GenerationConfig, i int, src Source) models.SensorRecord {
	ts := Timestamp(cfg.StartDate, cfg.IntervalMinutes, i)
	aging := AgingFactor(cfg.StartDate, ts)
	diurnal := DiurnalFactor(ts)

	r := simulate(profileFor(cfg.QualityMode, i), aging, diurnal, src)

	var kind string
	isAnomaly := src.Float64() < float64(cfg.AnomalyRatio)/100
	if isAnomaly && cfg.QualityMode != models.QualityNormal {
		kind = injectAnomaly(&r, src)
	}
	r = r.finalize()

	feature2 := "off"
	feature1 := src.IntN(3) + 1
	if src.Float64() > 0.5 {
		feature2 = "on"
	}

	rec := models.SensorRecord{
		No:           i + 1,
		Date:         ts.Format(dateLayout),
		Time:         ts.Format(timeLayout),
		DateTime:     ts.Format(dateTimeLayout),
		SN:           fmt.Sprintf("AMC%d", serialBase+i),
		Shift:        Shift(ts.Hour()),
		Feature1:     feature1,
		Feature2:     feature2,
		InletTOC:     r.inletTOC,
		OutletTOC:    r.outletTOC,
		PressureDiff: r.pressure,
		FlowRate:     r.flowRate,
		Temperature:  r.temperature,
		Humidity:     r.humidity,
		AgingFactor:  round(aging, agingDigits),
		IsAnomaly:    isAnomaly,
		AnomalyKind:  kind,
		Timestamp:    ts,
	}
	rec.Result = Classify(rec)
	return rec
}
