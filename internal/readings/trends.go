package readings

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"aqitrack/internal/types"
)

// monthFetchConcurrency bounds the parallel store queries in YearSummary.
const monthFetchConcurrency = 4

// TrendAggregator derives on-demand series from stored readings. It never
// recomputes AQI values: stored results are frozen at calculation time, so
// historical entries stay stable even if the breakpoint table is revised.
type TrendAggregator struct {
	store  ReadingStore
	logger *slog.Logger
}

// NewTrendAggregator creates a trend aggregator over the given store.
func NewTrendAggregator(store ReadingStore, logger *slog.Logger) *TrendAggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrendAggregator{store: store, logger: logger}
}

// MonthlySeries builds the trend series for one calendar month: fetch the
// month's readings, sort ascending by date, and flag the chronologically
// last entry as latest. A month with no readings yields an empty series, not
// an error. The series is sparse — missing days are simply absent.
func (a *TrendAggregator) MonthlySeries(ctx context.Context, year int, month time.Month) (*types.TrendSeries, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	rds, err := a.store.GetRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	// The store contract does not promise ordering; sort regardless.
	sort.Slice(rds, func(i, j int) bool {
		return rds[i].Date.Before(rds[j].Date)
	})

	series := &types.TrendSeries{
		Year:   year,
		Month:  month,
		Points: make([]types.TrendPoint, 0, len(rds)),
	}
	for _, rd := range rds {
		series.Points = append(series.Points, types.TrendPoint{
			Date:   rd.Date,
			Result: rd.Result,
		})
	}
	if n := len(series.Points); n > 0 {
		series.Points[n-1].IsLatest = true
	}

	return series, nil
}

// CurrentMonthSeries builds the series for the month containing now.
func (a *TrendAggregator) CurrentMonthSeries(ctx context.Context, now time.Time) (*types.TrendSeries, error) {
	now = now.UTC()
	return a.MonthlySeries(ctx, now.Year(), now.Month())
}

// YearSummary aggregates each month of a year into per-month statistics.
// The twelve month windows are fetched concurrently with bounded parallelism;
// any store failure fails the whole summary. Months without readings appear
// with zero days so consumers get a full 12-entry result.
func (a *TrendAggregator) YearSummary(ctx context.Context, year int) ([]types.MonthSummary, error) {
	summaries := make([]types.MonthSummary, 12)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(monthFetchConcurrency)

	for m := time.January; m <= time.December; m++ {
		m := m
		g.Go(func() error {
			series, err := a.MonthlySeries(gctx, year, m)
			if err != nil {
				return err
			}
			summaries[m-1] = summarizeMonth(series)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// summarizeMonth folds a month's series into its summary statistics.
func summarizeMonth(series *types.TrendSeries) types.MonthSummary {
	sum := types.MonthSummary{Month: series.Month, Days: len(series.Points)}
	if series.IsEmpty() {
		return sum
	}

	total := 0
	worst := types.CategoryGood
	for _, p := range series.Points {
		total += p.Result.AQI
		if p.Result.AQI > sum.PeakAQI {
			sum.PeakAQI = p.Result.AQI
		}
		if p.Result.Category.WorseThan(worst) {
			worst = p.Result.Category
		}
	}
	sum.MeanAQI = float64(total) / float64(len(series.Points))
	sum.WorstCategory = worst
	return sum
}
