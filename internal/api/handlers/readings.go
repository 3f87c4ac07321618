// Package handlers contains the HTTP handler implementations for the
// AQITrack API.
//
// This file implements the readings handler. It covers:
//   - Recording a dated reading (POST /v1/readings)
//   - Preview calculation without persistence (POST /v1/readings/calculate)
//   - Listing stored readings (GET /v1/readings)
//   - Fetching a single date (GET /v1/readings/{date})
//   - Deleting a date's reading (DELETE /v1/readings/{date})
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"aqitrack/internal/core"
	"aqitrack/internal/readings"
	"aqitrack/internal/types"
)

// dateLayout is the wire format for calendar dates in paths and bodies.
const dateLayout = "2006-01-02"

// ReadingServiceInterface defines the service contract for the readings
// handler. Matches the readings.Service methods but is defined locally to
// avoid tight coupling per the handler injection pattern.
type ReadingServiceInterface interface {
	Calculate(sample types.SamplingInput) (types.AQIResult, error)
	Record(ctx context.Context, date time.Time, sample types.SamplingInput) (*readings.RecordOutcome, error)
	Get(ctx context.Context, date time.Time) (*types.Reading, error)
	List(ctx context.Context) ([]types.Reading, error)
	Delete(ctx context.Context, date time.Time) error
}

// ReadingHandler maps HTTP requests to reading service methods.
type ReadingHandler struct {
	service   ReadingServiceInterface
	validator *core.Validator
	logger    *slog.Logger
}

// NewReadingHandler creates a new ReadingHandler with the provided dependencies.
func NewReadingHandler(
	svc ReadingServiceInterface,
	val *core.Validator,
	logger *slog.Logger,
) *ReadingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReadingHandler{
		service:   svc,
		validator: val,
		logger:    logger,
	}
}

// RegisterRoutes mounts the reading endpoints onto the mux under /readings.
func (h *ReadingHandler) RegisterRoutes(r chi.Router) {
	r.Route("/readings", func(r chi.Router) {
		r.Post("/", h.HandleRecord)
		r.Post("/calculate", h.HandleCalculate)
		r.Get("/", h.HandleList)
		r.Get("/{date}", h.HandleGet)
		r.Delete("/{date}", h.HandleDelete)
	})
}

// recordRequest is the body for POST /v1/readings. The date names the
// calendar day the sample belongs to; recording a second reading for the
// same date supersedes the first.
type recordRequest struct {
	Date          string  `json:"date" validate:"required,date_only"`
	FlowRateLPM   float64 `json:"flow_rate_lpm" validate:"required,gt=0"`
	InitialMassMg float64 `json:"initial_mass_mg" validate:"gte=0"`
	FinalMassMg   float64 `json:"final_mass_mg" validate:"gte=0"`
	StartTimeMin  float64 `json:"start_time_min" validate:"gte=0"`
	StopTimeMin   float64 `json:"stop_time_min" validate:"gte=0"`
}

// sample converts the request body into the domain sampling input.
func (req recordRequest) sample() types.SamplingInput {
	return types.SamplingInput{
		FlowRateLPM:   req.FlowRateLPM,
		InitialMassMg: req.InitialMassMg,
		FinalMassMg:   req.FinalMassMg,
		StartTimeMin:  req.StartTimeMin,
		StopTimeMin:   req.StopTimeMin,
	}
}

// calculateRequest is the body for POST /v1/readings/calculate. Identical to
// recordRequest minus the date, since nothing is persisted.
type calculateRequest struct {
	FlowRateLPM   float64 `json:"flow_rate_lpm" validate:"required,gt=0"`
	InitialMassMg float64 `json:"initial_mass_mg" validate:"gte=0"`
	FinalMassMg   float64 `json:"final_mass_mg" validate:"gte=0"`
	StartTimeMin  float64 `json:"start_time_min" validate:"gte=0"`
	StopTimeMin   float64 `json:"stop_time_min" validate:"gte=0"`
}

// HandleRecord handles POST /v1/readings.
//  1. Decode and validate the request body.
//  2. Run the full pipeline via ReadingService.Record.
//  3. Return 201 with the frozen reading; if the store write failed, the
//     response carries a warning in meta and persisted=false.
func (h *ReadingHandler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		core.Error(w, r, types.NewAppError(
			types.ErrCodeValidationInvalidDate,
			"date must be a calendar date in YYYY-MM-DD format",
			err,
		))
		return
	}

	outcome, err := h.service.Record(r.Context(), date, req.sample())
	if err != nil {
		core.Error(w, r, err)
		return
	}

	resp := core.APIResponse{Data: outcome}
	if !outcome.Persisted {
		resp.Meta = &types.ResponseMeta{
			Warnings: []string{"reading computed but not persisted; retry the save"},
		}
	}
	core.JSON(w, r, http.StatusCreated, resp)
}

// HandleCalculate handles POST /v1/readings/calculate. Runs the pure
// measurement-to-AQI pipeline; nothing is stored.
func (h *ReadingHandler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	result, err := h.service.Calculate(types.SamplingInput{
		FlowRateLPM:   req.FlowRateLPM,
		InitialMassMg: req.InitialMassMg,
		FinalMassMg:   req.FinalMassMg,
		StartTimeMin:  req.StartTimeMin,
		StopTimeMin:   req.StopTimeMin,
	})
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: result})
}

// HandleList handles GET /v1/readings. Returns every stored reading, newest
// first.
func (h *ReadingHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: list})
}

// HandleGet handles GET /v1/readings/{date}.
func (h *ReadingHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	date, ok := h.parseDateParam(w, r)
	if !ok {
		return
	}

	rd, err := h.service.Get(r.Context(), date)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: rd})
}

// HandleDelete handles DELETE /v1/readings/{date}. Deleting an absent date
// returns 404.
func (h *ReadingHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	date, ok := h.parseDateParam(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), date); err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{
		Data: map[string]string{"deleted": date.Format(dateLayout)},
	})
}

// parseDateParam extracts and parses the {date} path parameter, writing the
// error response itself on failure.
func (h *ReadingHandler) parseDateParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := chi.URLParam(r, "date")
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		core.Error(w, r, types.NewAppError(
			types.ErrCodeValidationInvalidDate,
			"date path parameter must be a calendar date in YYYY-MM-DD format",
			err,
		))
		return time.Time{}, false
	}
	return date, true
}
