package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"aqitrack/internal/core"
	"aqitrack/internal/readings"
	"aqitrack/internal/types"
)

// --- Mock Services ---

type mockTrendService struct {
	seriesResult *types.TrendSeries
	seriesErr    error
	seriesYear   int
	seriesMonth  time.Month

	summaryResult []types.MonthSummary
	summaryErr    error
	summaryYear   int
}

func (m *mockTrendService) MonthlySeries(_ context.Context, year int, month time.Month) (*types.TrendSeries, error) {
	m.seriesYear = year
	m.seriesMonth = month
	return m.seriesResult, m.seriesErr
}

func (m *mockTrendService) YearSummary(_ context.Context, year int) ([]types.MonthSummary, error) {
	m.summaryYear = year
	return m.summaryResult, m.summaryErr
}

type mockReportService struct {
	monthlyResult *readings.MonthlyReport
	monthlyErr    error
	monthlyYear   int
	monthlyMonth  time.Month

	currentResult *readings.MonthlyReport
	currentErr    error
	currentCalled bool
}

func (m *mockReportService) Monthly(_ context.Context, year int, month time.Month) (*readings.MonthlyReport, error) {
	m.monthlyYear = year
	m.monthlyMonth = month
	return m.monthlyResult, m.monthlyErr
}

func (m *mockReportService) CurrentMonth(_ context.Context) (*readings.MonthlyReport, error) {
	m.currentCalled = true
	return m.currentResult, m.currentErr
}

// --- Helpers ---

func makeTrendRouter(trends TrendServiceInterface, reports ReportServiceInterface) http.Handler {
	h := NewTrendHandler(trends, reports, slog.Default())
	r := chi.NewRouter()
	r.Route("/v1", h.RegisterRoutes)
	return r
}

func augustSeries() *types.TrendSeries {
	return &types.TrendSeries{
		Year:  2026,
		Month: time.August,
		Points: []types.TrendPoint{
			{
				Date:   time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC),
				Result: types.AQIResult{AQI: 42, Category: types.CategoryGood, ColorHex: "#00E400"},
			},
			{
				Date:     time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC),
				Result:   types.AQIResult{AQI: 112, Category: types.CategorySensitive, ColorHex: "#FF7E00"},
				IsLatest: true,
			},
		},
	}
}

// --- HandleMonthSeries tests ---

func TestHandleMonthSeries_Success(t *testing.T) {
	trends := &mockTrendService{seriesResult: augustSeries()}
	router := makeTrendRouter(trends, &mockReportService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/trends/2026/8", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if trends.seriesYear != 2026 || trends.seriesMonth != time.August {
		t.Errorf("service received %d/%v, want 2026/August", trends.seriesYear, trends.seriesMonth)
	}

	var resp struct {
		Data types.TrendSeries `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Data.Points) != 2 {
		t.Fatalf("points = %d, want 2", len(resp.Data.Points))
	}
	if !resp.Data.Points[1].IsLatest {
		t.Error("last point should carry is_latest")
	}
}

func TestHandleMonthSeries_EmptyMonthIsOK(t *testing.T) {
	trends := &mockTrendService{
		seriesResult: &types.TrendSeries{Year: 2026, Month: time.January, Points: []types.TrendPoint{}},
	}
	router := makeTrendRouter(trends, &mockReportService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/trends/2026/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 for empty month, got %d", rec.Code)
	}
}

func TestHandleMonthSeries_InvalidMonth(t *testing.T) {
	cases := []string{"13", "0", "-2", "aug"}
	for _, month := range cases {
		t.Run(month, func(t *testing.T) {
			trends := &mockTrendService{}
			router := makeTrendRouter(trends, &mockReportService{})

			req := httptest.NewRequest(http.MethodGet, "/v1/trends/2026/"+month, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rec.Code)
			}

			var resp core.APIErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Error.Code != string(types.ErrCodeValidationInvalidMonth) {
				t.Errorf("error code = %q, want %q", resp.Error.Code, types.ErrCodeValidationInvalidMonth)
			}
		})
	}
}

func TestHandleMonthSeries_InvalidYear(t *testing.T) {
	trends := &mockTrendService{}
	router := makeTrendRouter(trends, &mockReportService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/trends/198/8", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var resp core.APIErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error.Code != string(types.ErrCodeValidationInvalidYear) {
		t.Errorf("error code = %q, want %q", resp.Error.Code, types.ErrCodeValidationInvalidYear)
	}
}

// --- HandleYearSummary tests ---

func TestHandleYearSummary_Success(t *testing.T) {
	summaries := make([]types.MonthSummary, 12)
	for i := range summaries {
		summaries[i] = types.MonthSummary{Month: time.Month(i + 1)}
	}
	summaries[7] = types.MonthSummary{
		Month:         time.August,
		Days:          2,
		PeakAQI:       112,
		MeanAQI:       77.0,
		WorstCategory: types.CategorySensitive,
	}

	trends := &mockTrendService{summaryResult: summaries}
	router := makeTrendRouter(trends, &mockReportService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/trends/2026", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if trends.summaryYear != 2026 {
		t.Errorf("service received year %d, want 2026", trends.summaryYear)
	}

	var resp struct {
		Data []types.MonthSummary `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Data) != 12 {
		t.Fatalf("summaries = %d, want 12", len(resp.Data))
	}
	if resp.Data[7].PeakAQI != 112 {
		t.Errorf("august peak = %d, want 112", resp.Data[7].PeakAQI)
	}
}

func TestHandleYearSummary_StoreFailure(t *testing.T) {
	trends := &mockTrendService{
		summaryErr: types.NewAppError(types.ErrCodePersistenceRead, "history storage unavailable", nil),
	}
	router := makeTrendRouter(trends, &mockReportService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/trends/2026", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", rec.Code)
	}
}

// --- HandleMonthlyReport tests ---

func TestHandleMonthlyReport_DefaultsToCurrentMonth(t *testing.T) {
	reports := &mockReportService{
		currentResult: &readings.MonthlyReport{Title: "August 2026"},
	}
	router := makeTrendRouter(&mockTrendService{}, reports)

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/monthly", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !reports.currentCalled {
		t.Error("expected CurrentMonth to be called with no query params")
	}
}

func TestHandleMonthlyReport_ExplicitMonth(t *testing.T) {
	reports := &mockReportService{
		monthlyResult: &readings.MonthlyReport{Title: "March 2026"},
	}
	router := makeTrendRouter(&mockTrendService{}, reports)

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/monthly?year=2026&month=3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if reports.monthlyYear != 2026 || reports.monthlyMonth != time.March {
		t.Errorf("service received %d/%v, want 2026/March", reports.monthlyYear, reports.monthlyMonth)
	}
	if reports.currentCalled {
		t.Error("CurrentMonth must not be called when params are given")
	}
}

func TestHandleMonthlyReport_PartialParams(t *testing.T) {
	reports := &mockReportService{}
	router := makeTrendRouter(&mockTrendService{}, reports)

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/monthly?year=2026", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var resp core.APIErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error.Code != string(types.ErrCodeValidationMissingField) {
		t.Errorf("error code = %q, want %q", resp.Error.Code, types.ErrCodeValidationMissingField)
	}
}
