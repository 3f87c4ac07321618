package aqi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aqitrack/internal/types"
)

func validSample() types.SamplingInput {
	return types.SamplingInput{
		FlowRateLPM:   16.7,
		InitialMassMg: 100.000,
		FinalMassMg:   100.050,
		StartTimeMin:  0,
		StopTimeMin:   1440,
	}
}

func TestConcentration_DayScenario(t *testing.T) {
	c, err := Concentration(validSample())
	require.NoError(t, err)

	// (0.050 mg * 1000) / (16.7 * 1440 / 1000 m³) = 50 / 24.048.
	assert.InDelta(t, 2.0794, c, 0.0005)
}

func TestConcentration_ZeroMassDelta(t *testing.T) {
	s := validSample()
	s.FinalMassMg = s.InitialMassMg

	c, err := Concentration(s)
	require.NoError(t, err)
	assert.Zero(t, c)
}

func TestConcentration_FullPrecision(t *testing.T) {
	// No rounding inside the conversion stage.
	s := types.SamplingInput{
		FlowRateLPM:   5,
		InitialMassMg: 0,
		FinalMassMg:   0.001,
		StartTimeMin:  0,
		StopTimeMin:   60,
	}

	c, err := Concentration(s)
	require.NoError(t, err)

	// 1 µg / 0.3 m³ = 3.333... µg/m³.
	assert.InDelta(t, 1.0/0.3, c, 1e-12)
}

func TestConcentration_InvalidInputs(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*types.SamplingInput)
		wantCode types.ErrorCode
	}{
		{
			name:     "zero flow rate",
			mutate:   func(s *types.SamplingInput) { s.FlowRateLPM = 0 },
			wantCode: types.ErrCodeValidationFlowRate,
		},
		{
			name:     "negative flow rate",
			mutate:   func(s *types.SamplingInput) { s.FlowRateLPM = -1 },
			wantCode: types.ErrCodeValidationFlowRate,
		},
		{
			name:     "absurd flow rate",
			mutate:   func(s *types.SamplingInput) { s.FlowRateLPM = 5000 },
			wantCode: types.ErrCodeValidationFlowRate,
		},
		{
			name:     "stop equals start",
			mutate:   func(s *types.SamplingInput) { s.StopTimeMin = s.StartTimeMin },
			wantCode: types.ErrCodeValidationSampleWindow,
		},
		{
			name:     "stop before start",
			mutate:   func(s *types.SamplingInput) { s.StartTimeMin = 100; s.StopTimeMin = 50 },
			wantCode: types.ErrCodeValidationSampleWindow,
		},
		{
			name:     "negative start time",
			mutate:   func(s *types.SamplingInput) { s.StartTimeMin = -10 },
			wantCode: types.ErrCodeValidationSampleWindow,
		},
		{
			name:     "mass decrease",
			mutate:   func(s *types.SamplingInput) { s.FinalMassMg = s.InitialMassMg - 0.01 },
			wantCode: types.ErrCodeValidationMassDelta,
		},
		{
			name:     "negative initial mass",
			mutate:   func(s *types.SamplingInput) { s.InitialMassMg = -1; s.FinalMassMg = 2 },
			wantCode: types.ErrCodeValidationMassDelta,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := validSample()
			tc.mutate(&s)

			_, err := Concentration(s)
			require.Error(t, err)

			var appErr *types.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tc.wantCode, appErr.Code)
		})
	}
}

func TestBreakpoints_TableShape(t *testing.T) {
	segs := Breakpoints()
	require.Len(t, segs, 7)

	// Contiguous: each segment starts where the previous ends.
	for i := 1; i < len(segs); i++ {
		assert.Equal(t, segs[i-1].CHigh, segs[i].CLow, "gap before segment %d", i)
		assert.Equal(t, segs[i-1].IHigh+1, segs[i].ILow, "index gap before segment %d", i)
	}

	assert.Equal(t, 0.0, segs[0].CLow)
	assert.Equal(t, MaxConcentration, segs[len(segs)-1].CHigh)
	assert.Equal(t, MaxAQI, segs[len(segs)-1].IHigh)
}

func TestBreakpoints_ReturnsCopy(t *testing.T) {
	segs := Breakpoints()
	segs[0].CHigh = 9999

	fresh := Breakpoints()
	assert.Equal(t, 12.0, fresh[0].CHigh)
}
