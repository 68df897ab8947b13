// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/car-rental/pkg/core/cerr"
)

// ConstraintError describes a violated constraint of the database.
// Repositories map it to their domain specific errors using the name
// of the violated constraint.
type ConstraintError struct {
	Code       string // SQLSTATE, like pgerrcode.UniqueViolation
	Constraint string
	Err        error
}

func (ce *ConstraintError) Error() string {
	return fmt.Sprintf("constraint %q: %v", ce.Constraint, ce.Err)
}

func (ce *ConstraintError) Unwrap() error {
	return ce.Err
}

// Classify converts the `err` which is returned by the PostgreSQL
// server or driver into one of:
//  1. a *ConstraintError for unique, foreign key, and check violations,
//  2. a cerr.Storage error (internal server error) otherwise.
//
// A nil `err` is returned as nil. Errors which are already classified
// are returned intact.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return err
	}
	var ae *cerr.Error
	if errors.As(err, &ae) {
		return err
	}
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		switch pe.Code {
		case pgerrcode.UniqueViolation,
			pgerrcode.ForeignKeyViolation,
			pgerrcode.CheckViolation:
			return &ConstraintError{
				Code:       pe.Code,
				Constraint: pe.ConstraintName,
				Err:        err,
			}
		}
	}
	return cerr.Storage(err)
}

// IsViolation reports whether `err` wraps a ConstraintError with the
// given SQLSTATE code.
func IsViolation(err error, code string) bool {
	var ce *ConstraintError
	return errors.As(err, &ce) && ce.Code == code
}
