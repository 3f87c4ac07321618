package readings

import (
	"context"
	"time"

	"aqitrack/internal/types"
)

// reportDateLayout is the date format report renderers expect.
const reportDateLayout = "01/02/2006" // MM/DD/YYYY

// ChartData is the canonical shape consumed by external chart and report
// renderers: three parallel sequences of equal length, index-aligned per
// reading. Colors come from the same category table the calculator used,
// so legend and bars can never disagree on boundary values.
type ChartData struct {
	Dates     []string `json:"dates"`      // MM/DD/YYYY
	AQIValues []int    `json:"aqi_values"` // rounded AQI per date
	Colors    []string `json:"colors"`     // hex color per date
}

// MonthlyReport is the full data payload for a monthly report: the chart
// series plus the headline fields the renderer places around it.
type MonthlyReport struct {
	Title       string            `json:"title"` // e.g. "August 2026"
	Station     string            `json:"station,omitempty"`
	Chart       ChartData         `json:"chart"`
	Latest      *types.TrendPoint `json:"latest,omitempty"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// ReportAssembler combines trend series into renderer-ready report data.
// Rendering itself (PDF/HTML) is an external collaborator; this layer only
// produces the data shape.
type ReportAssembler struct {
	trends  *TrendAggregator
	station string
	now     func() time.Time
}

// NewReportAssembler creates a report assembler. station names the sampling
// site in report headers and may be empty.
func NewReportAssembler(trends *TrendAggregator, station string) *ReportAssembler {
	return &ReportAssembler{
		trends:  trends,
		station: station,
		now:     time.Now,
	}
}

// ChartDataFrom flattens a trend series into the parallel-array chart shape.
// An empty series yields empty (non-nil) slices so renderers can iterate
// without nil checks.
func ChartDataFrom(series *types.TrendSeries) ChartData {
	data := ChartData{
		Dates:     make([]string, 0, len(series.Points)),
		AQIValues: make([]int, 0, len(series.Points)),
		Colors:    make([]string, 0, len(series.Points)),
	}
	for _, p := range series.Points {
		data.Dates = append(data.Dates, p.Date.Format(reportDateLayout))
		data.AQIValues = append(data.AQIValues, p.Result.AQI)
		data.Colors = append(data.Colors, p.Result.ColorHex)
	}
	return data
}

// Monthly assembles the report data for one calendar month.
func (r *ReportAssembler) Monthly(ctx context.Context, year int, month time.Month) (*MonthlyReport, error) {
	series, err := r.trends.MonthlySeries(ctx, year, month)
	if err != nil {
		return nil, err
	}

	return &MonthlyReport{
		Title:       time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006"),
		Station:     r.station,
		Chart:       ChartDataFrom(series),
		Latest:      series.Latest(),
		GeneratedAt: r.now().UTC(),
	}, nil
}

// CurrentMonth assembles the report for the month containing now.
func (r *ReportAssembler) CurrentMonth(ctx context.Context) (*MonthlyReport, error) {
	now := r.now().UTC()
	return r.Monthly(ctx, now.Year(), now.Month())
}
