package generator

import "amc_simulator/internal/models"

var anomalyKinds = [...]string{
	models.AnomalyTOCSpike,
	models.AnomalyPressureHigh,
	models.AnomalyTempDrift,
	models.AnomalyFlowLow,
}

// injectAnomaly perturbs one channel of r, picked uniformly, and returns the
// kind applied. It runs before clamping.
func injectAnomaly(r *readings, src Source) string {
	kind := anomalyKinds[src.IntN(len(anomalyKinds))]
	switch kind {
	case models.AnomalyTOCSpike:
		r.outletTOC += uniform(src, 1, 3)
	case models.AnomalyPressureHigh:
		r.pressure += uniform(src, 10, 25)
	case models.AnomalyTempDrift:
		r.temperature += uniform(src, -3.5, 3.5)
	case models.AnomalyFlowLow:
		r.flowRate *= uniform(src, 0.6, 0.8)
	}
	return kind
}
