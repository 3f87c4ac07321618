// Package aqi implements the PM2.5 measurement-to-AQI conversion engine:
// unit conversion from raw gravimetric sampling inputs to a µg/m³
// concentration, and the EPA piecewise-linear mapping from concentration to
// an AQI value with its health category and display color.
//
// The package is pure computation. It performs no I/O, holds no state, and
// returns full floating-point precision; rounding happens only where the AQI
// standard requires it (the final integer AQI).
package aqi

import "aqitrack/internal/types"

// Segment is one row of the EPA PM2.5 breakpoint table: a concentration range
// (CLow, CHigh] mapped linearly onto the AQI sub-range [ILow, IHigh], tagged
// with the health category and display color for that band.
type Segment struct {
	CLow     float64
	CHigh    float64
	ILow     int
	IHigh    int
	Category types.Category
	ColorHex string
}

// Contains reports whether the concentration c falls in this segment.
// Upper bounds are inclusive; the first segment also includes zero.
func (s Segment) Contains(c float64) bool {
	if s.CLow == 0 {
		return c >= 0 && c <= s.CHigh
	}
	return c > s.CLow && c <= s.CHigh
}

// EPA category display colors. This table is the single source of truth for
// category colors: the calculator, trend series, and any chart legend all
// read from it and must never carry divergent copies.
const (
	colorGood          = "#00E400"
	colorModerate      = "#FFFF00"
	colorSensitive     = "#FF7E00"
	colorUnhealthy     = "#FF0000"
	colorVeryUnhealthy = "#8F3F97"
	colorHazardous     = "#7E0023"
)

// breakpointsPM25 is the EPA PM2.5 breakpoint table (24-hour average,
// 2012 standard). Segments are contiguous and ordered by concentration;
// lookup is a linear scan over the 7 rows. The two top segments share the
// Hazardous tier. Concentrations above MaxConcentration are out of scale and
// clamp to an AQI of 500.
var breakpointsPM25 = [...]Segment{
	{CLow: 0.0, CHigh: 12.0, ILow: 0, IHigh: 50, Category: types.CategoryGood, ColorHex: colorGood},
	{CLow: 12.0, CHigh: 35.4, ILow: 51, IHigh: 100, Category: types.CategoryModerate, ColorHex: colorModerate},
	{CLow: 35.4, CHigh: 55.4, ILow: 101, IHigh: 150, Category: types.CategorySensitive, ColorHex: colorSensitive},
	{CLow: 55.4, CHigh: 150.4, ILow: 151, IHigh: 200, Category: types.CategoryUnhealthy, ColorHex: colorUnhealthy},
	{CLow: 150.4, CHigh: 250.4, ILow: 201, IHigh: 300, Category: types.CategoryVeryUnhealthy, ColorHex: colorVeryUnhealthy},
	{CLow: 250.4, CHigh: 350.4, ILow: 301, IHigh: 400, Category: types.CategoryHazardous, ColorHex: colorHazardous},
	{CLow: 350.4, CHigh: 500.4, ILow: 401, IHigh: 500, Category: types.CategoryHazardous, ColorHex: colorHazardous},
}

// Scale bounds derived from the breakpoint table.
const (
	// MaxConcentration is the top of the EPA PM2.5 scale in µg/m³.
	MaxConcentration = 500.4
	// MaxAQI is the ceiling of the AQI scale.
	MaxAQI = 500
)

// Breakpoints returns the ordered PM2.5 breakpoint table. The returned slice
// is a copy; callers may not mutate the canonical table.
func Breakpoints() []Segment {
	out := make([]Segment, len(breakpointsPM25))
	copy(out[:], breakpointsPM25[:])
	return out
}

// CategoryColor returns the display color for a health category. Falls back
// to the Hazardous color for unknown categories so charts never render an
// empty color.
func CategoryColor(c types.Category) string {
	switch c {
	case types.CategoryGood:
		return colorGood
	case types.CategoryModerate:
		return colorModerate
	case types.CategorySensitive:
		return colorSensitive
	case types.CategoryUnhealthy:
		return colorUnhealthy
	case types.CategoryVeryUnhealthy:
		return colorVeryUnhealthy
	default:
		return colorHazardous
	}
}

// segmentFor returns the breakpoint segment containing c, or the top segment
// with ok=false when c is beyond the scale. Callers must ensure c >= 0.
func segmentFor(c float64) (Segment, bool) {
	for _, seg := range breakpointsPM25 {
		if seg.Contains(c) {
			return seg, true
		}
	}
	return breakpointsPM25[len(breakpointsPM25)-1], false
}
