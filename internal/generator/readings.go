package generator

// Base readings of a fresh filter.
const (
	baseInletTOC  = 10.0
	baseOutletTOC = 2.0
	basePressure  = 60.0
	baseTemp      = 23.0
	baseHumidity  = 43.0
	baseFlowRate  = 0.5

	outletAgingGain   = 1.5
	pressureAgingGain = 20.0
)

// readings are the physical channels of one sample before they are emitted.
type readings struct {
	inletTOC    float64
	outletTOC   float64
	pressure    float64
	temperature float64
	humidity    float64
	flowRate    float64
}

// simulate synthesizes the channels of one sample. Draw order is fixed so a
// seeded stream reproduces the same run.
func simulate(p noiseProfile, aging, diurnal float64, src Source) readings {
	var r readings
	r.inletTOC = baseInletTOC + gaussian(src, p.toc) + diurnal
	r.outletTOC = baseOutletTOC + aging*outletAgingGain + gaussian(src, p.toc*outletNoiseShare) + diurnal*0.5
	r.pressure = basePressure + aging*pressureAgingGain + gaussian(src, p.pressure)
	r.temperature = baseTemp + gaussian(src, p.temp) + diurnal*2
	r.humidity = baseHumidity + gaussian(src, p.humidity) + diurnal*3
	r.flowRate = baseFlowRate + gaussian(src, flowNoiseStd) + diurnal*0.02
	return r
}
