package generator

import (
	"math"

	"amc_simulator/internal/models"
)

// bound is a physical range; hi is +Inf for channels open above.
type bound struct {
	lo, hi float64
}

var (
	inletTOCBound    = bound{lo: 0.1, hi: math.Inf(1)}
	outletTOCBound   = bound{lo: 0.01, hi: math.Inf(1)}
	pressureBound    = bound{lo: 10, hi: math.Inf(1)}
	temperatureBound = bound{lo: 15, hi: 35}
	humidityBound    = bound{lo: 20, hi: 80}
	flowRateBound    = bound{lo: 0.1, hi: 1.0}
)

// clamp maps v into b. NaN lands on the lower bound and +Inf on an open
// upper bound becomes the largest finite float.
func (b bound) clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < b.lo:
		return b.lo
	case v > b.hi:
		return b.hi
	case math.IsInf(v, 1):
		return math.MaxFloat64
	}
	return v
}

// Emitted precision per channel.
const (
	inletTOCDigits    = 4
	outletTOCDigits   = 6
	pressureDigits    = 1
	flowRateDigits    = 6
	temperatureDigits = 1
	humidityDigits    = 1
	agingDigits       = 3
)

func round(v float64, digits int) float64 {
	p := math.Pow10(digits)
	r := math.Round(v*p) / p
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return v
	}
	return r
}

// finalize clamps every channel and rounds it to its emitted precision. The
// bounds are multiples of the precision, so rounding stays in range.
func (r readings) finalize() readings {
	return readings{
		inletTOC:    round(inletTOCBound.clamp(r.inletTOC), inletTOCDigits),
		outletTOC:   round(outletTOCBound.clamp(r.outletTOC), outletTOCDigits),
		pressure:    round(pressureBound.clamp(r.pressure), pressureDigits),
		temperature: round(temperatureBound.clamp(r.temperature), temperatureDigits),
		humidity:    round(humidityBound.clamp(r.humidity), humidityDigits),
		flowRate:    round(flowRateBound.clamp(r.flowRate), flowRateDigits),
	}
}

// Fixed acceptance limits. They do not follow the operator's system parameters.
const (
	MaxOutletTOC    = 3.0
	MaxPressureDiff = 85.0
	MinTemperature  = 20.0
	MaxTemperature  = 26.0
	MinHumidity     = 35.0
	MaxHumidity     = 55.0
	MinFlowRate     = 0.3
	MaxFlowRate     = 0.7
)

// Classify applies the acceptance limits to the emitted values of rec.
func Classify(rec models.SensorRecord) models.Result {
	pass := rec.OutletTOC <= MaxOutletTOC &&
		rec.PressureDiff <= MaxPressureDiff &&
		rec.Temperature >= MinTemperature && rec.Temperature <= MaxTemperature &&
		rec.Humidity >= MinHumidity && rec.Humidity <= MaxHumidity &&
		rec.FlowRate >= MinFlowRate && rec.FlowRate <= MaxFlowRate
	if pass {
		return models.ResultPass
	}
	return models.ResultFail
}
