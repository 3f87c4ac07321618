package types

import "fmt"

// Physical bounds for sampling inputs. Flow rates and durations beyond these
// limits indicate data entry errors rather than unusual samplers.
const (
	// MaxFlowRateLPM caps the pump flow rate; high-volume PM2.5 samplers run
	// well under 100 L/min.
	MaxFlowRateLPM = 100.0
	// MaxSampleDurationMin caps the sampling window at 7 days.
	MaxSampleDurationMin = 7 * 24 * 60.0
)

// Validate checks the physical invariants of a SamplingInput and returns an
// AppError describing the first violation found. Validation happens before
// any conversion; an invalid sample never produces a partial result.
func (s SamplingInput) Validate() error {
	if s.FlowRateLPM <= 0 {
		return NewAppError(ErrCodeValidationFlowRate,
			"flow rate must be greater than zero", nil)
	}
	if s.FlowRateLPM > MaxFlowRateLPM {
		return NewAppErrorWithDetails(ErrCodeValidationFlowRate,
			"flow rate exceeds physical limit", nil,
			map[string]any{"max_lpm": MaxFlowRateLPM})
	}
	if s.StartTimeMin < 0 {
		return NewAppError(ErrCodeValidationSampleWindow,
			"start time must not be negative", nil)
	}
	if s.StopTimeMin <= s.StartTimeMin {
		return NewAppError(ErrCodeValidationSampleWindow,
			"stop time must be greater than start time", nil)
	}
	if s.DurationMin() > MaxSampleDurationMin {
		return NewAppErrorWithDetails(ErrCodeValidationSampleWindow,
			"sampling window exceeds maximum duration", nil,
			map[string]any{"max_minutes": MaxSampleDurationMin})
	}
	if s.InitialMassMg < 0 {
		return NewAppError(ErrCodeValidationMassDelta,
			"initial mass must not be negative", nil)
	}
	if s.FinalMassMg < s.InitialMassMg {
		return NewAppError(ErrCodeValidationMassDelta,
			fmt.Sprintf("final mass (%.3f mg) is below initial mass (%.3f mg)",
				s.FinalMassMg, s.InitialMassMg), nil)
	}
	return nil
}
