// Copyright (c) 2026 Atlance. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for list operations.
//
// # Overview
//
// It standardizes how a page window is requested (limit/offset) and how the
// resulting metadata is delivered in the response envelope.
//
// # Strictness
//
// Out-of-range values are rejected as validation failures, never silently
// clamped — a caller asking for limit=500 gets an error, not 100 rows.
package pagination

import (
	"fmt"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 10
	// MaxLimit is the upper bound for items per page to prevent system abuse.
	MaxLimit = 100
	// MinLimit is the lower bound for items per page.
	MinLimit = 1
)

// Params holds a validated page window.
type Params struct {
	Limit  int
	Offset int
}

// Default returns the window used when the caller specifies nothing.
func Default() Params {
	return Params{Limit: DefaultLimit, Offset: 0}
}

// WindowError describes an out-of-range page window parameter.
// Param carries the request field name so callers can surface the
// failure as a field-level validation error.
type WindowError struct {
	Param   string
	Message string
}

// Error implements the error interface.
func (e *WindowError) Error() string {
	return e.Message
}

// Validate reports whether the window is inside the allowed range.
//
// Returns a [*WindowError] naming the first offending parameter; the caller
// is expected to wrap it into a field-level validation failure.
func (p Params) Validate() error {
	if p.Limit < MinLimit || p.Limit > MaxLimit {
		return &WindowError{
			Param:   "limit",
			Message: fmt.Sprintf("limit must be between %d and %d, got %d", MinLimit, MaxLimit, p.Limit),
		}
	}
	if p.Offset < 0 {
		return &WindowError{
			Param:   "offset",
			Message: fmt.Sprintf("offset must not be negative, got %d", p.Offset),
		}
	}
	return nil
}

// Page returns the 1-indexed page number implied by the window.
func (p Params) Page() int {
	if p.Limit <= 0 {
		return 1
	}
	return p.Offset/p.Limit + 1
}

// Meta is the pagination metadata included in list responses.
type Meta struct {
	Total       int  `json:"total"`
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// NewMeta constructs pagination metadata for a response.
//
// TotalPages, HasNext, and HasPrevious are derived from the window and the
// total matching count, so callers never compute them by hand.
func NewMeta(params Params, total int) Meta {
	totalPages := 0
	if params.Limit > 0 {
		totalPages = (total + params.Limit - 1) / params.Limit
	}

	return Meta{
		Total:       total,
		Page:        params.Page(),
		Limit:       params.Limit,
		TotalPages:  totalPages,
		HasNext:     params.Offset+params.Limit < total,
		HasPrevious: params.Offset > 0,
	}
}
