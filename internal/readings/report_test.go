package readings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aqitrack/internal/types"
)

func TestChartDataFrom_ParallelArrays(t *testing.T) {
	store := newFakeStore()
	seedReading(t, store, 2026, time.August, 3, 10.0)
	seedReading(t, store, 2026, time.August, 12, 40.0)

	agg := NewTrendAggregator(store, testLogger())
	series, err := agg.MonthlySeries(context.Background(), 2026, time.August)
	require.NoError(t, err)

	data := ChartDataFrom(series)
	require.Len(t, data.Dates, 2)
	require.Len(t, data.AQIValues, 2)
	require.Len(t, data.Colors, 2)

	assert.Equal(t, "08/03/2026", data.Dates[0])
	assert.Equal(t, "08/12/2026", data.Dates[1])
	assert.Equal(t, 42, data.AQIValues[0])
	assert.Equal(t, 112, data.AQIValues[1])
	assert.Equal(t, "#00E400", data.Colors[0])
	assert.Equal(t, "#FF7E00", data.Colors[1])
}

func TestChartDataFrom_EmptySeriesYieldsEmptySlices(t *testing.T) {
	data := ChartDataFrom(&types.TrendSeries{Year: 2026, Month: time.May})

	assert.NotNil(t, data.Dates)
	assert.NotNil(t, data.AQIValues)
	assert.NotNil(t, data.Colors)
	assert.Empty(t, data.Dates)
}

func TestReportAssembler_Monthly(t *testing.T) {
	store := newFakeStore()
	seedReading(t, store, 2026, time.August, 3, 10.0)
	latest := seedReading(t, store, 2026, time.August, 20, 200.0)

	agg := NewTrendAggregator(store, testLogger())
	asm := NewReportAssembler(agg, "Station 12 Rooftop")

	report, err := asm.Monthly(context.Background(), 2026, time.August)
	require.NoError(t, err)

	assert.Equal(t, "August 2026", report.Title)
	assert.Equal(t, "Station 12 Rooftop", report.Station)
	assert.Len(t, report.Chart.Dates, 2)
	require.NotNil(t, report.Latest)
	assert.Equal(t, latest.Date, report.Latest.Date)
	assert.True(t, report.Latest.IsLatest)
	assert.False(t, report.GeneratedAt.IsZero())
}

func TestReportAssembler_Monthly_EmptyMonth(t *testing.T) {
	agg := NewTrendAggregator(newFakeStore(), testLogger())
	asm := NewReportAssembler(agg, "")

	report, err := asm.Monthly(context.Background(), 2026, time.January)
	require.NoError(t, err)

	assert.Equal(t, "January 2026", report.Title)
	assert.Empty(t, report.Chart.Dates)
	assert.Nil(t, report.Latest)
}

func TestReportAssembler_CurrentMonth(t *testing.T) {
	store := newFakeStore()
	agg := NewTrendAggregator(store, testLogger())
	asm := NewReportAssembler(agg, "")
	asm.now = func() time.Time { return time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC) }

	seedReading(t, store, 2026, time.August, 30, 12.0)

	report, err := asm.CurrentMonth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "August 2026", report.Title)
	assert.Len(t, report.Chart.Dates, 1)
}
