package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"aqitrack/internal/types"
)

// ReadingRepository is the durable log of dated readings. The calendar date
// is the natural key: saving a reading for an existing date supersedes the
// stored row (ON CONFLICT upsert, last write wins). Stored AQI results are
// frozen values — they are written once at calculation time and never
// recomputed, so later breakpoint-table revisions cannot rewrite history.
type ReadingRepository struct {
	db DBTX
}

// NewReadingRepository creates a ReadingRepository backed by the given
// database connection (pool or transaction).
func NewReadingRepository(db DBTX) *ReadingRepository {
	return &ReadingRepository{db: db}
}

// readingColumns is the standard column set for reading queries. Scan order
// in scanReading must match.
const readingColumns = `r.id, r.date,
	r.flow_rate_lpm, r.initial_mass_mg, r.final_mass_mg,
	r.start_time_min, r.stop_time_min,
	r.concentration, r.aqi, r.category, r.color_hex, r.out_of_scale,
	r.created_at`

// scanReading scans a single row into a types.Reading. The column order must
// match readingColumns.
func scanReading(row pgx.Row) (*types.Reading, error) {
	var rd types.Reading
	var category string

	err := row.Scan(
		&rd.ID,
		&rd.Date,
		&rd.Sample.FlowRateLPM,
		&rd.Sample.InitialMassMg,
		&rd.Sample.FinalMassMg,
		&rd.Sample.StartTimeMin,
		&rd.Sample.StopTimeMin,
		&rd.Result.Concentration,
		&rd.Result.AQI,
		&category,
		&rd.Result.ColorHex,
		&rd.Result.OutOfScale,
		&rd.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	rd.Result.Category = types.Category(category)
	rd.Date = types.DateOf(rd.Date)
	return &rd, nil
}

// Save upserts a reading keyed on its calendar date. A second save for the
// same date replaces the stored measurement and frozen result in full,
// including the generated ID, so corrections leave no stale columns behind.
func (r *ReadingRepository) Save(ctx context.Context, rd *types.Reading) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO readings (
			id, date,
			flow_rate_lpm, initial_mass_mg, final_mass_mg,
			start_time_min, stop_time_min,
			concentration, aqi, category, color_hex, out_of_scale,
			created_at
		) VALUES (
			$1, $2,
			$3, $4, $5,
			$6, $7,
			$8, $9, $10, $11, $12,
			COALESCE($13, NOW())
		)
		ON CONFLICT (date) DO UPDATE SET
			id = EXCLUDED.id,
			flow_rate_lpm = EXCLUDED.flow_rate_lpm,
			initial_mass_mg = EXCLUDED.initial_mass_mg,
			final_mass_mg = EXCLUDED.final_mass_mg,
			start_time_min = EXCLUDED.start_time_min,
			stop_time_min = EXCLUDED.stop_time_min,
			concentration = EXCLUDED.concentration,
			aqi = EXCLUDED.aqi,
			category = EXCLUDED.category,
			color_hex = EXCLUDED.color_hex,
			out_of_scale = EXCLUDED.out_of_scale,
			created_at = EXCLUDED.created_at`,
		rd.ID,
		types.DateOf(rd.Date),
		rd.Sample.FlowRateLPM,
		rd.Sample.InitialMassMg,
		rd.Sample.FinalMassMg,
		rd.Sample.StartTimeMin,
		rd.Sample.StopTimeMin,
		rd.Result.Concentration,
		rd.Result.AQI,
		string(rd.Result.Category),
		rd.Result.ColorHex,
		rd.Result.OutOfScale,
		nilIfZeroTime(rd.CreatedAt),
	)
	if err != nil {
		return types.NewAppError(types.ErrCodePersistenceSave, "failed to save reading", err)
	}
	return nil
}

// GetRange returns the readings whose date falls in [start, end), ordered by
// date ascending. Dates are normalized to UTC midnight before comparison.
func (r *ReadingRepository) GetRange(ctx context.Context, start, end time.Time) ([]types.Reading, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+readingColumns+`
		 FROM readings r
		 WHERE r.date >= $1 AND r.date < $2
		 ORDER BY r.date ASC`,
		types.DateOf(start), types.DateOf(end),
	)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodePersistenceRead, "failed to query readings", err)
	}
	defer rows.Close()

	return collectReadings(rows)
}

// GetByDate returns the reading stored for the given calendar date.
// Returns ErrCodeNotFoundReading when the date has no reading.
func (r *ReadingRepository) GetByDate(ctx context.Context, date time.Time) (*types.Reading, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+readingColumns+`
		 FROM readings r
		 WHERE r.date = $1`,
		types.DateOf(date),
	)

	rd, err := scanReading(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewAppError(types.ErrCodeNotFoundReading, "no reading for date", nil)
		}
		return nil, types.NewAppError(types.ErrCodePersistenceRead, "failed to retrieve reading", err)
	}
	return rd, nil
}

// ListAll returns every stored reading, newest first.
func (r *ReadingRepository) ListAll(ctx context.Context) ([]types.Reading, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+readingColumns+`
		 FROM readings r
		 ORDER BY r.date DESC`,
	)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodePersistenceRead, "failed to list readings", err)
	}
	defer rows.Close()

	return collectReadings(rows)
}

// Delete removes the reading for a calendar date.
// Returns ErrCodeNotFoundReading when the date has no reading.
func (r *ReadingRepository) Delete(ctx context.Context, date time.Time) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM readings WHERE date = $1`,
		types.DateOf(date),
	)
	if err != nil {
		return types.NewAppError(types.ErrCodePersistenceSave, "failed to delete reading", err)
	}
	if tag.RowsAffected() == 0 {
		return types.NewAppError(types.ErrCodeNotFoundReading, "no reading for date", nil)
	}
	return nil
}

// collectReadings drains a result set into a slice of readings.
func collectReadings(rows pgx.Rows) ([]types.Reading, error) {
	var out []types.Reading
	for rows.Next() {
		rd, err := scanReading(rows)
		if err != nil {
			return nil, types.NewAppError(types.ErrCodePersistenceRead, "failed to scan reading", err)
		}
		out = append(out, *rd)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodePersistenceRead, "failed to iterate readings", err)
	}
	return out, nil
}

// nilIfZeroTime maps the zero time to NULL so the database default applies.
func nilIfZeroTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
