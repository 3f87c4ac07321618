package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SamplingInput holds the raw gravimetric sampling measurements a reading is
// computed from. Masses are filter masses in milligrams; times are elapsed
// sampler-clock minutes; flow rate is in litres per minute.
//
// Physical invariants (enforced by Validate): the sampling window must have
// positive duration, the pump flow rate must be positive, and the filter
// cannot lose mass during sampling.
type SamplingInput struct {
	FlowRateLPM   float64 `json:"flow_rate_lpm"`
	InitialMassMg float64 `json:"initial_mass_mg"`
	FinalMassMg   float64 `json:"final_mass_mg"`
	StartTimeMin  float64 `json:"start_time_min"`
	StopTimeMin   float64 `json:"stop_time_min"`
}

// DurationMin returns the sampling duration in minutes.
func (s SamplingInput) DurationMin() float64 {
	return s.StopTimeMin - s.StartTimeMin
}

// MassDeltaMg returns the mass collected on the filter in milligrams.
func (s SamplingInput) MassDeltaMg() float64 {
	return s.FinalMassMg - s.InitialMassMg
}

// AQIResult is the immutable outcome of a single AQI computation.
//
// Category and ColorHex are taken from the breakpoint segment that produced
// the AQI value, never recomputed from the rounded AQI, so boundary readings
// cannot drift into the neighbouring tier. OutOfScale marks concentrations
// beyond the top of the EPA scale (500.4 µg/m³), where the AQI is clamped to
// 500 rather than extrapolated.
type AQIResult struct {
	AQI           int      `json:"aqi"`
	Category      Category `json:"category"`
	ColorHex      string   `json:"color"`
	Concentration float64  `json:"concentration_ugm3"`
	OutOfScale    bool     `json:"out_of_scale,omitempty"`
}

// Reading is a dated, frozen AQI computation together with the raw sample it
// was derived from. The calendar date is the natural key: recording a second
// reading for the same date supersedes the first (store upsert, last write
// wins). A persisted Reading is never mutated; formula revisions therefore
// cannot retroactively alter history.
type Reading struct {
	ID        string        `json:"id"`
	Date      time.Time     `json:"date"`
	Result    AQIResult     `json:"result"`
	Sample    SamplingInput `json:"sample"`
	CreatedAt time.Time     `json:"created_at"`
}

// readingIDPrefix namespaces reading identifiers ("rd_<uuid>").
const readingIDPrefix = "rd_"

// NewReadingID generates a unique prefixed identifier for a Reading.
func NewReadingID() string {
	return readingIDPrefix + uuid.NewString()
}

// IsReadingID reports whether s carries the reading ID prefix.
func IsReadingID(s string) bool {
	return strings.HasPrefix(s, readingIDPrefix)
}

// DateOf truncates t to its calendar day at UTC midnight. All reading dates
// are normalized through this before comparison or persistence.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// TrendPoint is a single entry in a monthly trend series. IsLatest is derived
// on read for the chronologically last entry; it is never persisted.
type TrendPoint struct {
	Date     time.Time `json:"date"`
	Result   AQIResult `json:"result"`
	IsLatest bool      `json:"is_latest,omitempty"`
}

// TrendSeries is the date-ascending sequence of readings for one calendar
// month. The series is sparse: days without a reading are simply absent, and
// chart consumers must handle uneven spacing. Rebuilt on demand, not stored.
type TrendSeries struct {
	Year   int          `json:"year"`
	Month  time.Month   `json:"month"`
	Points []TrendPoint `json:"points"`
}

// IsEmpty reports whether the series holds no readings. A month with no data
// yields an empty series, not an error.
func (s *TrendSeries) IsEmpty() bool {
	return len(s.Points) == 0
}

// Latest returns the chronologically last point, or nil for an empty series.
func (s *TrendSeries) Latest() *TrendPoint {
	if len(s.Points) == 0 {
		return nil
	}
	return &s.Points[len(s.Points)-1]
}

// MonthSummary aggregates one calendar month for the yearly overview.
type MonthSummary struct {
	Month         time.Month `json:"month"`
	Days          int        `json:"days_sampled"`
	PeakAQI       int        `json:"peak_aqi"`
	MeanAQI       float64    `json:"mean_aqi"`
	WorstCategory Category   `json:"worst_category,omitempty"`
}

// ResponseMeta conveys non-blocking warnings alongside successful responses,
// e.g. a computed result whose persistence failed.
type ResponseMeta struct {
	Warnings []string `json:"warnings,omitempty"`
}
