// Copyright (c) 2026 Atlance. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/atlance/pkg/pagination"
)

/*
TestParams_Validate checks the strict window bounds.
*/
func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name     string
		params   pagination.Params
		badParam string
	}{
		{"default", pagination.Default(), ""},
		{"min_limit", pagination.Params{Limit: 1}, ""},
		{"max_limit", pagination.Params{Limit: 100}, ""},
		{"limit_zero", pagination.Params{Limit: 0}, "limit"},
		{"limit_above_max", pagination.Params{Limit: 101}, "limit"},
		{"negative_offset", pagination.Params{Limit: 10, Offset: -1}, "offset"},
		{"large_offset_is_fine", pagination.Params{Limit: 10, Offset: 100000}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()

			if tt.badParam == "" {
				assert.NoError(t, err)
				return
			}

			var windowErr *pagination.WindowError
			require.ErrorAs(t, err, &windowErr)
			assert.Equal(t, tt.badParam, windowErr.Param)
		})
	}
}

/*
TestNewMeta verifies the derived pagination fields.
*/
func TestNewMeta(t *testing.T) {
	tests := []struct {
		name        string
		params      pagination.Params
		total       int
		page        int
		totalPages  int
		hasNext     bool
		hasPrevious bool
	}{
		{"first_of_three", pagination.Params{Limit: 10, Offset: 0}, 25, 1, 3, true, false},
		{"middle", pagination.Params{Limit: 10, Offset: 10}, 25, 2, 3, true, true},
		{"last", pagination.Params{Limit: 10, Offset: 20}, 25, 3, 3, false, true},
		{"empty_result", pagination.Params{Limit: 10, Offset: 0}, 0, 1, 0, false, false},
		{"exact_fit", pagination.Params{Limit: 5, Offset: 0}, 5, 1, 1, false, false},
		{"window_past_total", pagination.Params{Limit: 10, Offset: 50}, 25, 6, 3, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := pagination.NewMeta(tt.params, tt.total)

			assert.Equal(t, tt.total, meta.Total)
			assert.Equal(t, tt.page, meta.Page)
			assert.Equal(t, tt.totalPages, meta.TotalPages)
			assert.Equal(t, tt.hasNext, meta.HasNext)
			assert.Equal(t, tt.hasPrevious, meta.HasPrevious)
		})
	}
}
