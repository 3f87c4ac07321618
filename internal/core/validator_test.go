package core

import (
	"errors"
	"testing"

	"aqitrack/internal/types"
)

type testRecordRequest struct {
	Date        string  `json:"date" validate:"required,date_only"`
	FlowRateLPM float64 `json:"flow_rate_lpm" validate:"required,gt=0"`
}

func TestValidationResult_IsValid(t *testing.T) {
	t.Run("empty result is valid", func(t *testing.T) {
		r := ValidationResult{}
		if !r.IsValid() {
			t.Error("expected empty ValidationResult to be valid")
		}
	})

	t.Run("result with errors is not valid", func(t *testing.T) {
		r := ValidationResult{
			Errors: []ValidationError{{Field: "date", Code: "required", Message: "required"}},
		}
		if r.IsValid() {
			t.Error("expected ValidationResult with errors to be invalid")
		}
	})

	t.Run("result with only warnings is valid", func(t *testing.T) {
		r := ValidationResult{
			Warnings: []string{"reading computed but not persisted"},
		}
		if !r.IsValid() {
			t.Error("expected ValidationResult with only warnings to be valid")
		}
	})
}

func TestNewValidator(t *testing.T) {
	v := NewValidator(testLogger())
	if v == nil {
		t.Fatal("NewValidator returned nil")
	}
	if v.validate == nil {
		t.Error("expected validate field to be non-nil")
	}
	if v.logger == nil {
		t.Error("expected logger field to be non-nil")
	}
}

func TestValidateStruct_Success(t *testing.T) {
	v := NewValidator(testLogger())

	req := testRecordRequest{
		Date:        "2026-08-12",
		FlowRateLPM: 16.7,
	}

	if err := v.ValidateStruct(req); err != nil {
		t.Errorf("expected nil error, got: %v", err)
	}
}

func TestValidateStruct_Failure_ReturnsAppError(t *testing.T) {
	v := NewValidator(testLogger())

	req := testRecordRequest{
		Date:        "",
		FlowRateLPM: 0,
	}

	err := v.ValidateStruct(req)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *types.AppError, got %T: %v", err, err)
	}

	// The error code should map to the first validation failure.
	if appErr.Code != types.ErrCodeValidationMissingField {
		t.Errorf("expected code %s, got %s", types.ErrCodeValidationMissingField, appErr.Code)
	}

	if appErr.Details == nil {
		t.Fatal("expected non-nil details")
	}
	ve, ok := appErr.Details["validation_errors"]
	if !ok {
		t.Fatal("expected validation_errors key in details")
	}
	errs, ok := ve.([]ValidationError)
	if !ok {
		t.Fatalf("expected []ValidationError, got %T", ve)
	}
	if len(errs) < 2 {
		t.Errorf("expected at least 2 validation errors, got %d", len(errs))
	}
}

func TestValidateStruct_UsesJSONFieldNames(t *testing.T) {
	v := NewValidator(testLogger())

	req := testRecordRequest{Date: "2026-08-12", FlowRateLPM: 0}
	err := v.ValidateStruct(req)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *types.AppError, got %T", err)
	}
	errs := appErr.Details["validation_errors"].([]ValidationError)
	if errs[0].Field != "flow_rate_lpm" {
		t.Errorf("field = %q, want json tag name flow_rate_lpm", errs[0].Field)
	}
}

func TestValidateStructWithWarnings_Invalid(t *testing.T) {
	v := NewValidator(testLogger())

	req := testRecordRequest{Date: "not-a-date", FlowRateLPM: 16.7}
	result := v.ValidateStructWithWarnings(req)
	if result.IsValid() {
		t.Error("expected invalid result")
	}

	codeMap := make(map[string]bool)
	for _, e := range result.Errors {
		codeMap[e.Code] = true
	}
	if !codeMap[string(types.ErrCodeValidationInvalidDate)] {
		t.Error("expected validation_invalid_date code for malformed date")
	}
}

func TestDateOnlyTag(t *testing.T) {
	v := NewValidator(testLogger())

	type dateStruct struct {
		Date string `json:"date" validate:"date_only"`
	}

	valid := []string{"2026-08-12", "2000-01-01", "1999-12-31", ""}
	for _, d := range valid {
		if err := v.ValidateStruct(dateStruct{Date: d}); err != nil {
			t.Errorf("expected date %q to be valid, got: %v", d, err)
		}
	}

	invalid := []string{"08/12/2026", "2026-13-01", "2026-02-30", "yesterday", "2026-8-1T00:00:00Z"}
	for _, d := range invalid {
		if err := v.ValidateStruct(dateStruct{Date: d}); err == nil {
			t.Errorf("expected date %q to be invalid", d)
		}
	}
}

func TestTagToErrorCode(t *testing.T) {
	cases := []struct {
		tag      string
		expected types.ErrorCode
	}{
		{"required", types.ErrCodeValidationMissingField},
		{"date_only", types.ErrCodeValidationInvalidDate},
		{"gt", types.ErrCodeValidationInvalidNumber},
		{"lte", types.ErrCodeValidationInvalidNumber},
		{"unknown_tag", types.ErrCodeValidationInvalidNumber},
	}

	for _, tc := range cases {
		t.Run(tc.tag, func(t *testing.T) {
			got := tagToErrorCode(tc.tag)
			if got != string(tc.expected) {
				t.Errorf("tagToErrorCode(%q) = %q, want %q", tc.tag, got, tc.expected)
			}
		})
	}
}
