package models

// PresetMode names a bundle of system parameters.
type PresetMode string

const (
	PresetCustom   PresetMode = "custom"
	PresetStandard PresetMode = "standard"
	PresetStrict   PresetMode = "strict"
	PresetLoose    PresetMode = "loose"
	PresetTest     PresetMode = "test"
)

// SystemParameters are the operator-facing thresholds of the filtration line.
// They drive analysis scores only; record classification uses fixed limits.
type SystemParameters struct {
	InletTOCThreshold    float64 `json:"inlet_toc_threshold"`
	OutletTOCThreshold   float64 `json:"outlet_toc_threshold"`
	PressureInitial      float64 `json:"pressure_initial"`
	PressureMax          float64 `json:"pressure_max"`
	TempMin              float64 `json:"temp_min"`
	TempMax              float64 `json:"temp_max"`
	HumidityMin          float64 `json:"humidity_min"`
	HumidityMax          float64 `json:"humidity_max"`
	FlowRateTarget       float64 `json:"flow_rate_target"`
	FlowRateTolerance    float64 `json:"flow_rate_tolerance"`
	LifetimeDays         int     `json:"lifetime_days"`
	ReplacementThreshold float64 `json:"replacement_threshold"`
}

// DefaultParameters is the dashboard's initial parameter set.
var DefaultParameters = SystemParameters{
	InletTOCThreshold:    10.0,
	OutletTOCThreshold:   2.0,
	PressureInitial:      60,
	PressureMax:          80,
	TempMin:              22.0,
	TempMax:              24.0,
	HumidityMin:          40.0,
	HumidityMax:          46.0,
	FlowRateTarget:       0.5,
	FlowRateTolerance:    0.2,
	LifetimeDays:         180,
	ReplacementThreshold: 80,
}

var presets = map[PresetMode]SystemParameters{
	PresetStandard: DefaultParameters,
	PresetStrict: {
		InletTOCThreshold: 8.0, OutletTOCThreshold: 1.5,
		PressureInitial: 50, PressureMax: 70,
		TempMin: 22.5, TempMax: 23.5,
		HumidityMin: 42.0, HumidityMax: 45.0,
		FlowRateTarget: 0.5, FlowRateTolerance: 0.1,
	},
	PresetLoose: {
		InletTOCThreshold: 15.0, OutletTOCThreshold: 3.0,
		PressureInitial: 70, PressureMax: 100,
		TempMin: 20.0, TempMax: 26.0,
		HumidityMin: 35.0, HumidityMax: 50.0,
		FlowRateTarget: 0.5, FlowRateTolerance: 0.3,
	},
	PresetTest: {
		InletTOCThreshold: 12.0, OutletTOCThreshold: 2.5,
		PressureInitial: 55, PressureMax: 85,
		TempMin: 21.0, TempMax: 25.0,
		HumidityMin: 38.0, HumidityMax: 48.0,
		FlowRateTarget: 0.5, FlowRateTolerance: 0.25,
	},
}

// PresetModes lists the selectable bundles in display order.
func PresetModes() []PresetMode {
	return []PresetMode{PresetCustom, PresetStandard, PresetStrict, PresetLoose, PresetTest}
}

// ApplyPreset overlays the bundle for mode onto base. Presets do not carry
// lifetime or replacement settings, so those keep the values from base.
// Custom leaves base untouched. ok is false for an unknown mode.
func ApplyPreset(base SystemParameters, mode PresetMode) (SystemParameters, bool) {
	if mode == PresetCustom {
		return base, true
	}
	p, ok := presets[mode]
	if !ok {
		return base, false
	}
	p.LifetimeDays = base.LifetimeDays
	p.ReplacementThreshold = base.ReplacementThreshold
	return p, true
}
