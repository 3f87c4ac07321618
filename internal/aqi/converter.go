package aqi

import "aqitrack/internal/types"

// litresPerCubicMetre converts sampled air volume from litres to m³.
const litresPerCubicMetre = 1000.0

// microgramsPerMilligram converts the collected filter mass to micrograms.
const microgramsPerMilligram = 1000.0

// Concentration converts a validated SamplingInput into a PM2.5 concentration
// in µg/m³: mass collected (µg) divided by air volume sampled (m³), where
// volume(m³) = flowRate(L/min) × duration(min) / 1000.
//
// The input is validated before conversion; an invalid sample returns a
// validation AppError and no result. A zero mass delta yields concentration 0.
// No rounding is applied here — full floating-point precision flows
// downstream, and rounding happens only at presentation boundaries.
func Concentration(s types.SamplingInput) (float64, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}

	massUg := s.MassDeltaMg() * microgramsPerMilligram
	volumeM3 := s.FlowRateLPM * s.DurationMin() / litresPerCubicMetre

	return massUg / volumeM3, nil
}
