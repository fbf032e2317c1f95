package generator

import (
	"errors"
	"fmt"
	"math"
	"time"

	"amc_simulator/internal/models"
)

const minutesPerDay = 24 * 60

// MaxDayCount is the longest run whose timestamps stay representable as a
// time.Duration offset from the start date. It also keeps the record count
// from overflowing int.
const MaxDayCount = int(math.MaxInt64 / int64(24*time.Hour))

// ErrInvalidConfig is wrapped by every validation failure of a GenerationConfig.
var ErrInvalidConfig = errors.New("invalid generation config")

// Validate rejects configurations that would change the declared sample count.
// Values are never clamped into range.
func Validate(cfg models.GenerationConfig) error {
	switch {
	case cfg.DayCount <= 0:
		return fmt.Errorf("%w: day_count must be positive, got %d", ErrInvalidConfig, cfg.DayCount)
	case cfg.DayCount > MaxDayCount:
		return fmt.Errorf("%w: day_count must not exceed %d, got %d", ErrInvalidConfig, MaxDayCount, cfg.DayCount)
	case cfg.IntervalMinutes <= 0:
		return fmt.Errorf("%w: interval_minutes must be positive, got %d", ErrInvalidConfig, cfg.IntervalMinutes)
	case cfg.IntervalMinutes > minutesPerDay:
		return fmt.Errorf("%w: interval_minutes must not exceed %d, got %d", ErrInvalidConfig, minutesPerDay, cfg.IntervalMinutes)
	case cfg.AnomalyRatio < 0 || cfg.AnomalyRatio > 100:
		return fmt.Errorf("%w: anomaly_ratio must be within [0,100], got %d", ErrInvalidConfig, cfg.AnomalyRatio)
	case !cfg.QualityMode.Valid():
		return fmt.Errorf("%w: unknown quality_mode %q", ErrInvalidConfig, cfg.QualityMode)
	}
	return nil
}

// RecordsPerDay is floor(1440 / interval). Intervals that do not divide a day
// leave the remainder uncovered; the grid is not realigned at midnight.
func RecordsPerDay(intervalMinutes int) int {
	if intervalMinutes <= 0 {
		return 0
	}
	return minutesPerDay / intervalMinutes
}

// TotalRecords is the length of the sequence Generate produces for cfg.
func TotalRecords(cfg models.GenerationConfig) int {
	return cfg.DayCount * RecordsPerDay(cfg.IntervalMinutes)
}
