package readings

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"aqitrack/internal/aqi"
	"aqitrack/internal/types"
)

// Service records new readings. Each recording runs the full pipeline —
// validate, convert, compute, freeze — and then persists the frozen result.
// Calculations are pure and synchronous; the store write is the only
// blocking operation.
type Service struct {
	store  ReadingStore
	logger *slog.Logger
	now    func() time.Time // injected for testability; defaults to time.Now
}

// NewService creates a recording service on top of the given store.
func NewService(store ReadingStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// RecordOutcome is the result of a Record call. Persisted is false when the
// calculation succeeded but the store write failed; the reading is still
// populated so the caller can display the result and retry the save
// explicitly.
type RecordOutcome struct {
	Reading   types.Reading `json:"reading"`
	Persisted bool          `json:"persisted"`
}

// Calculate runs the pure measurement-to-AQI pipeline without touching the
// store. Used for preview calculations before the operator commits a reading.
func (s *Service) Calculate(sample types.SamplingInput) (types.AQIResult, error) {
	return aqi.ComputeFromSample(sample)
}

// Record computes the AQI for the sample and persists it as the reading for
// the given calendar date, superseding any prior reading for that date.
//
// Validation failures abort before anything is stored. A store failure does
// NOT fail the call: the computed result is returned with Persisted=false so
// the calculation is never lost to a storage outage. The caller decides
// whether and when to retry the save.
func (s *Service) Record(ctx context.Context, date time.Time, sample types.SamplingInput) (*RecordOutcome, error) {
	result, err := aqi.ComputeFromSample(sample)
	if err != nil {
		return nil, err
	}

	rd := types.Reading{
		ID:        types.NewReadingID(),
		Date:      types.DateOf(date),
		Result:    result,
		Sample:    sample,
		CreatedAt: s.now().UTC(),
	}

	if err := s.store.Save(ctx, &rd); err != nil {
		s.logger.Error("reading save failed, returning unpersisted result",
			"date", rd.Date.Format("2006-01-02"),
			"aqi", result.AQI,
			"error", err,
		)
		return &RecordOutcome{Reading: rd, Persisted: false}, nil
	}

	s.logger.Info("reading recorded",
		"date", rd.Date.Format("2006-01-02"),
		"aqi", result.AQI,
		"category", result.Category,
	)
	return &RecordOutcome{Reading: rd, Persisted: true}, nil
}

// Get returns the stored reading for a calendar date.
func (s *Service) Get(ctx context.Context, date time.Time) (*types.Reading, error) {
	return s.store.GetByDate(ctx, date)
}

// List returns all stored readings, newest first.
func (s *Service) List(ctx context.Context) ([]types.Reading, error) {
	return s.store.ListAll(ctx)
}

// Delete removes the reading for a calendar date.
func (s *Service) Delete(ctx context.Context, date time.Time) error {
	if err := s.store.Delete(ctx, date); err != nil {
		return err
	}
	s.logger.Info("reading deleted", "date", types.DateOf(date).Format("2006-01-02"))
	return nil
}

// IsNotFound reports whether err is the store's reading-absent answer.
func IsNotFound(err error) bool {
	var appErr *types.AppError
	return errors.As(err, &appErr) && appErr.Code == types.ErrCodeNotFoundReading
}
