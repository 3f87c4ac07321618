// This file implements the trends and reports handler. It covers:
//   - Monthly trend series (GET /v1/trends/{year}/{month})
//   - Yearly month-by-month summary (GET /v1/trends/{year})
//   - Monthly report data (GET /v1/reports/monthly)
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"aqitrack/internal/core"
	"aqitrack/internal/readings"
	"aqitrack/internal/types"
)

// Year bounds accepted by the trend endpoints. Gravimetric PM2.5 records
// predating the AQI scale are out of scope.
const (
	minTrendYear = 1999
	maxTrendYear = 9999
)

// TrendServiceInterface defines the aggregation contract for the trends
// handler.
type TrendServiceInterface interface {
	MonthlySeries(ctx context.Context, year int, month time.Month) (*types.TrendSeries, error)
	YearSummary(ctx context.Context, year int) ([]types.MonthSummary, error)
}

// ReportServiceInterface defines the report assembly contract for the
// reports handler.
type ReportServiceInterface interface {
	Monthly(ctx context.Context, year int, month time.Month) (*readings.MonthlyReport, error)
	CurrentMonth(ctx context.Context) (*readings.MonthlyReport, error)
}

// TrendHandler maps HTTP requests to trend aggregation and report assembly.
type TrendHandler struct {
	trends  TrendServiceInterface
	reports ReportServiceInterface
	logger  *slog.Logger
}

// NewTrendHandler creates a new TrendHandler with the provided dependencies.
func NewTrendHandler(
	trends TrendServiceInterface,
	reports ReportServiceInterface,
	logger *slog.Logger,
) *TrendHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrendHandler{
		trends:  trends,
		reports: reports,
		logger:  logger,
	}
}

// RegisterRoutes mounts the trend and report endpoints onto the mux.
func (h *TrendHandler) RegisterRoutes(r chi.Router) {
	r.Route("/trends", func(r chi.Router) {
		r.Get("/{year}", h.HandleYearSummary)
		r.Get("/{year}/{month}", h.HandleMonthSeries)
	})
	r.Get("/reports/monthly", h.HandleMonthlyReport)
}

// HandleMonthSeries handles GET /v1/trends/{year}/{month}. A month with no
// readings returns an empty series, not a 404.
func (h *TrendHandler) HandleMonthSeries(w http.ResponseWriter, r *http.Request) {
	year, ok := parseYearParam(w, r)
	if !ok {
		return
	}
	month, ok := parseMonthParam(w, r)
	if !ok {
		return
	}

	series, err := h.trends.MonthlySeries(r.Context(), year, month)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: series})
}

// HandleYearSummary handles GET /v1/trends/{year}. Returns twelve
// MonthSummary entries, one per calendar month; empty months report zero
// days sampled.
func (h *TrendHandler) HandleYearSummary(w http.ResponseWriter, r *http.Request) {
	year, ok := parseYearParam(w, r)
	if !ok {
		return
	}

	summaries, err := h.trends.YearSummary(r.Context(), year)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: summaries})
}

// HandleMonthlyReport handles GET /v1/reports/monthly. Without query
// parameters the report covers the current month; year and month together
// select a specific one.
func (h *TrendHandler) HandleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	yearStr := q.Get("year")
	monthStr := q.Get("month")

	if yearStr == "" && monthStr == "" {
		report, err := h.reports.CurrentMonth(r.Context())
		if err != nil {
			core.Error(w, r, err)
			return
		}
		core.JSON(w, r, http.StatusOK, core.APIResponse{Data: report})
		return
	}

	if yearStr == "" || monthStr == "" {
		core.Error(w, r, types.NewAppError(
			types.ErrCodeValidationMissingField,
			"year and month query parameters must be provided together",
			nil,
		))
		return
	}

	year, err := parseYear(yearStr)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	month, err := parseMonth(monthStr)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	report, err := h.reports.Monthly(r.Context(), year, month)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: report})
}

// parseYearParam extracts and validates the {year} path parameter, writing
// the error response itself on failure.
func parseYearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	year, err := parseYear(chi.URLParam(r, "year"))
	if err != nil {
		core.Error(w, r, err)
		return 0, false
	}
	return year, true
}

// parseMonthParam extracts and validates the {month} path parameter, writing
// the error response itself on failure.
func parseMonthParam(w http.ResponseWriter, r *http.Request) (time.Month, bool) {
	month, err := parseMonth(chi.URLParam(r, "month"))
	if err != nil {
		core.Error(w, r, err)
		return 0, false
	}
	return month, true
}

func parseYear(raw string) (int, error) {
	year, err := strconv.Atoi(raw)
	if err != nil || year < minTrendYear || year > maxTrendYear {
		return 0, types.NewAppError(
			types.ErrCodeValidationInvalidYear,
			"year must be a four-digit calendar year",
			err,
		)
	}
	return year, nil
}

func parseMonth(raw string) (time.Month, error) {
	m, err := strconv.Atoi(raw)
	if err != nil || m < 1 || m > 12 {
		return 0, types.NewAppError(
			types.ErrCodeValidationInvalidMonth,
			"month must be an integer between 1 and 12",
			err,
		)
	}
	return time.Month(m), nil
}
