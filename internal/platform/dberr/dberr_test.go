// Copyright (c) 2026 Atlance. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/atlance/internal/platform/apperr"
	"github.com/taibuivan/atlance/internal/platform/dberr"
)

/*
TestWrap_Classification verifies that driver errors map to the correct
application error codes by SQLSTATE, not by message text.
*/
func TestWrap_Classification(t *testing.T) {
	tests := []struct {
		name         string
		input        error
		expectedCode string
		expectedHTTP int
	}{
		{
			name:         "no_rows_to_not_found",
			input:        pgx.ErrNoRows,
			expectedCode: "NOT_FOUND",
			expectedHTTP: 404,
		},
		{
			name:         "unique_violation_to_conflict",
			input:        &pgconn.PgError{Code: pgerrcode.UniqueViolation},
			expectedCode: "CONFLICT",
			expectedHTTP: 409,
		},
		{
			name:         "fk_violation_to_referential",
			input:        &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation},
			expectedCode: "REFERENTIAL_VIOLATION",
			expectedHTTP: 500,
		},
		{
			name:         "unknown_pg_error_to_internal",
			input:        &pgconn.PgError{Code: pgerrcode.SerializationFailure},
			expectedCode: "INTERNAL_ERROR",
			expectedHTTP: 500,
		},
		{
			name:         "plain_error_to_internal",
			input:        errors.New("connection reset"),
			expectedCode: "INTERNAL_ERROR",
			expectedHTTP: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := dberr.Wrap(tt.input, "story")

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.expectedCode, ae.Code)
			assert.Equal(t, tt.expectedHTTP, ae.HTTPStatus)
		})
	}
}

/*
TestWrap_PassthroughAppError asserts that already-classified errors are
returned unchanged instead of being double-wrapped.
*/
func TestWrap_PassthroughAppError(t *testing.T) {
	original := apperr.NotFound("story")

	wrapped := dberr.Wrap(original, "story")

	assert.Same(t, original, apperr.As(wrapped))
}

/*
TestWrap_Nil verifies nil in, nil out.
*/
func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, dberr.Wrap(nil, "story"))
}

/*
TestViolationHelpers checks SQLSTATE predicate helpers used by stores.
*/
func TestViolationHelpers(t *testing.T) {
	unique := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	foreign := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}

	assert.True(t, dberr.IsUniqueViolation(unique))
	assert.False(t, dberr.IsUniqueViolation(foreign))

	assert.True(t, dberr.IsForeignKeyViolation(foreign))
	assert.False(t, dberr.IsForeignKeyViolation(errors.New("boom")))
}
