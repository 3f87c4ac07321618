package aqi

import (
	"fmt"
	"math"

	"aqitrack/internal/types"
)

// Compute maps a PM2.5 concentration in µg/m³ to its AQI result using the
// EPA piecewise-linear formula
//
//	AQI = ((IHigh − ILow) / (CHigh − CLow)) × (C − CLow) + ILow
//
// rounded half-up to the nearest integer. The category and color are taken
// from the segment that supplied the breakpoints, never re-derived from the
// rounded AQI, so a concentration just inside a band cannot report the
// neighbouring tier.
//
// Concentrations above the top of the scale (500.4 µg/m³) clamp to AQI 500
// with OutOfScale set: the standard defines no index beyond 500, and
// extrapolating would suggest precision the scale does not have.
//
// A negative concentration cannot come out of the unit converter; it is
// checked defensively and returns ErrCodeInternalConcentration, which callers
// should treat as a programming-error-class fault.
func Compute(concentration float64) (types.AQIResult, error) {
	if concentration < 0 {
		return types.AQIResult{}, types.NewAppError(
			types.ErrCodeInternalConcentration,
			fmt.Sprintf("concentration %.4f µg/m³ is negative", concentration),
			nil,
		)
	}

	seg, inScale := segmentFor(concentration)
	if !inScale {
		return types.AQIResult{
			AQI:           MaxAQI,
			Category:      seg.Category,
			ColorHex:      seg.ColorHex,
			Concentration: concentration,
			OutOfScale:    true,
		}, nil
	}

	slope := float64(seg.IHigh-seg.ILow) / (seg.CHigh - seg.CLow)
	raw := slope*(concentration-seg.CLow) + float64(seg.ILow)

	return types.AQIResult{
		AQI:           roundHalfUp(raw),
		Category:      seg.Category,
		ColorHex:      seg.ColorHex,
		Concentration: concentration,
	}, nil
}

// ComputeFromSample runs the full conversion pipeline: validate the sampling
// input, derive the concentration, and compute the AQI result.
func ComputeFromSample(s types.SamplingInput) (types.AQIResult, error) {
	c, err := Concentration(s)
	if err != nil {
		return types.AQIResult{}, err
	}
	return Compute(c)
}

// roundHalfUp rounds to the nearest integer with ties going up, per the EPA
// reporting convention. math.Round is round-half-away-from-zero, which only
// differs for negatives; inputs here are non-negative.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
