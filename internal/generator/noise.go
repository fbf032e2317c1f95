package generator

import "amc_simulator/internal/models"

// noiseProfile holds the standard deviations of the mode-dependent channels.
type noiseProfile struct {
	toc      float64
	pressure float64
	temp     float64
	humidity float64
}

var (
	normalProfile        = noiseProfile{toc: 0.5, pressure: 5, temp: 0.5, humidity: 2}
	withAnomalyProfile   = noiseProfile{toc: 1.0, pressure: 8, temp: 1.0, humidity: 3}
	severeAnomalyProfile = noiseProfile{toc: 2.0, pressure: 15, temp: 2.0, humidity: 5}
	mixedHighProfile     = noiseProfile{toc: 1.5, pressure: 12, temp: 1.5, humidity: 4}
	mixedLowProfile      = noiseProfile{toc: 0.3, pressure: 3, temp: 0.3, humidity: 1.5}
)

const (
	mixedBlock       = 100
	mixedHighWindow  = 20
	flowNoiseStd     = 0.05
	outletNoiseShare = 0.3
)

// profileFor selects the noise profile of record i. Mixed mode is a pure
// function of the index: the first 20 of every 100 records are noisy.
func profileFor(mode models.QualityMode, i int) noiseProfile {
	switch mode {
	case models.QualityNormal:
		return normalProfile
	case models.QualityWithAnomaly:
		return withAnomalyProfile
	case models.QualitySevereAnomaly:
		return severeAnomalyProfile
	default:
		if i%mixedBlock < mixedHighWindow {
			return mixedHighProfile
		}
		return mixedLowProfile
	}
}
