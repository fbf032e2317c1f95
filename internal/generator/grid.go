package generator

import (
	"math"
	"time"

	"amc_simulator/internal/models"
)

const (
	nominalLifetimeDays = 180.0
	diurnalAmplitude    = 0.1
	day                 = 24 * time.Hour
)

// Timestamp returns the time of sample i: start + i*interval minutes.
func Timestamp(start time.Time, intervalMinutes, i int) time.Time {
	return start.Add(time.Duration(i) * time.Duration(intervalMinutes) * time.Minute)
}

// Timestamps builds the whole grid for a validated configuration.
func Timestamps(start time.Time, dayCount, intervalMinutes int) []time.Time {
	n := dayCount * RecordsPerDay(intervalMinutes)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = Timestamp(start, intervalMinutes, i)
	}
	return out
}

// AgingFactor models linear filter saturation over a fixed 180-day lifetime.
// Only whole elapsed days count.
func AgingFactor(start, ts time.Time) float64 {
	elapsedDays := math.Floor(float64(ts.Sub(start)) / float64(day))
	if elapsedDays < 0 {
		return 0
	}
	return math.Min(elapsedDays/nominalLifetimeDays, 1.0)
}

// DiurnalFactor is a ±0.1 sinusoidal bias keyed to the hour of day.
func DiurnalFactor(ts time.Time) float64 {
	return math.Sin(2*math.Pi*float64(ts.Hour())/24) * diurnalAmplitude
}

// Shift bands the hour of day into day, night and off shifts.
func Shift(hour int) string {
	switch {
	case hour >= 6 && hour < 18:
		return models.ShiftDay
	case hour >= 18:
		return models.ShiftNight
	default:
		return models.ShiftOff
	}
}
