// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cerr classifies the core errors. Domain failures are defined
// as sentinel errors in the model package and the use cases wrap them
// with one of the constructors of this package, so the adapters layer
// may find out the relevant HTTP status code with errors.As while the
// domain kind is still reachable with errors.Is.
package cerr

import (
	"fmt"
	"net/http"
)

// Error attaches an HTTP status code to the wrapped Err error.
type Error struct {
	Err            error
	HTTPStatusCode int
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.HTTPStatusCode, e.Err.Error())
}

func BadRequest(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusBadRequest}
}

func Authentication(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusUnauthorized}
}

func Authorization(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusForbidden}
}

func NotFound(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusNotFound}
}

func Conflict(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusConflict}
}

// Storage wraps a persistence layer failure, such as a lost connection
// or an unexpected constraint violation, as a StorageError.
func Storage(err error) *Error {
	return &Error{
		Err:            &StorageError{Err: err},
		HTTPStatusCode: http.StatusInternalServerError,
	}
}

// StorageError is distinct from the domain errors, so callers may
// tell apart a rejected request from a failing database.
type StorageError struct {
	Err error
}

func (se *StorageError) Unwrap() error {
	return se.Err
}

func (se *StorageError) Error() string {
	return "storage: " + se.Err.Error()
}
