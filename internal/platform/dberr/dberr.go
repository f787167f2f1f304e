// Copyright (c) 2026 Atlance. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Classification
//
// Storage failures are classified by their typed surface — pgx sentinel
// errors and the PostgreSQL SQLSTATE carried by [pgconn.PgError] — never by
// matching substrings of error messages. Message matching breaks across
// driver versions and server locales; SQLSTATE codes do not.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/atlance/internal/platform/apperr"
)

/*
Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
It hides internal database details from the client while classifying the error type.

Parameters:
  - err: error returned by pgx (may be nil)
  - resource: string naming the entity for NOT_FOUND/CONFLICT messages (e.g. "Story")

Returns:
  - error: nil, or an [*apperr.AppError] matching the failure class
*/
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	// Already classified upstream — pass through untouched.
	if apperr.IsAppError(err) {
		return err
	}

	// 1. Empty result set
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	// 2. Constraint violations, by SQLSTATE
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return apperr.Conflict(resource + " already exists")
		case pgerrcode.ForeignKeyViolation:
			return apperr.ReferentialViolation(err)
		}
	}

	// 3. Everything else (connectivity, tx failures, unclassified constraints)
	return apperr.Internal(err)
}

// IsUniqueViolation reports whether err carries SQLSTATE 23505.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// IsForeignKeyViolation reports whether err carries SQLSTATE 23503.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}
