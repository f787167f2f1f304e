// Copyright (c) 2026 Atlance. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/atlance/internal/platform/apperr"
	"github.com/taibuivan/atlance/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "story_id", "trip-2026-08-kyoto", false},
		{"empty_string", "story_id", "", true},
		{"whitespace_only", "story_id", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Range checks inclusive bounds used for paging windows.
*/
func TestValidator_Range(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		isValid bool
	}{
		{"lower_bound", 1, true},
		{"upper_bound", 100, true},
		{"middle", 42, true},
		{"below", 0, false},
		{"above", 101, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Range("limit", tt.value, 1, 100)

			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_NonNegative covers offsets and counters.
*/
func TestValidator_NonNegative(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		isValid bool
	}{
		{"zero", 0, true},
		{"positive", 17, true},
		{"negative", -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.NonNegative("offset", tt.value)

			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Coordinates checks the latitude/longitude degree bounds.
*/
func TestValidator_Coordinates(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lng     float64
		isValid bool
	}{
		{"kyoto", 35.0116, 135.7681, true},
		{"poles", 90, -180, true},
		{"lat_too_high", 90.1, 0, false},
		{"lat_too_low", -91, 0, false},
		{"lng_too_high", 0, 180.5, false},
		{"lng_too_low", 0, -181, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Latitude("lat", tt.lat).Longitude("lng", tt.lng)

			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_OneOf checks enum membership validation.
*/
func TestValidator_OneOf(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"processing", "processing", true},
		{"completed", "completed", true},
		{"failed", "failed", true},
		{"unknown", "archived", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.OneOf("status", tt.value, "processing", "completed", "failed")

			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Chaining verifies that multiple failures accumulate into one error.
*/
func TestValidator_Chaining(t *testing.T) {
	v := &validate.Validator{}
	v.Required("story_id", "").
		Required("user_id", "").
		NonNegative("original_count", -3)

	err := v.Err()
	require.NotNil(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 3)
	assert.Equal(t, "story_id", ae.Details[0].Field)
	assert.Equal(t, "original_count", ae.Details[2].Field)
}

/*
TestValidator_MaxLen checks the Unicode-aware length rule.
*/
func TestValidator_MaxLen(t *testing.T) {
	v := &validate.Validator{}
	v.MaxLen("story_id", "abc", 3)
	assert.False(t, v.HasErrors())

	v.MaxLen("story_id", "abcd", 3)
	assert.True(t, v.HasErrors())
}
