// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package serdser provides the serialization and deserialization
// helpers which are shared by the resource packages. Requests are
// bound and validated with the gin binding (go-playground validator)
// and the per-field errors are reported as a JSON object mapping each
// field name to its error messages. Other failures are reported as
// a {"detail": "..."} object.
package serdser

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/log"
	"github.com/momeni/car-rental/pkg/core/model"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(fieldName)
	}
}

// fieldName reports the validation errors with the json (or form)
// names of fields, as seen by the web clients.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

// Errs collects the deserialization errors of a request per field.
type Errs = map[string][]string

// Bind deserializes the request into `req` using the `b` binding and
// validates it. It writes the 400 (or 500 for a broken validation
// rule) response and returns false if `req` could not be prepared.
func Bind(c *gin.Context, req any, b binding.Binding) bool {
	var err error
	if b == nil {
		err = c.ShouldBind(req)
	} else {
		err = c.ShouldBindWith(req, b)
	}
	var invalid *validator.InvalidValidationError
	var verrs validator.ValidationErrors
	switch {
	case err == nil:
		return true
	case errors.As(err, &invalid):
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": invalid.Error(),
		})
	case errors.As(err, &verrs):
		var nameToErrs Errs
		for _, ferr := range verrs {
			AddErr(&nameToErrs, ferr.Field(), ferr.Error())
		}
		c.JSON(http.StatusBadRequest, nameToErrs)
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": err.Error(),
		})
	}
	return false
}

// AddErr appends `msgs` to the `name` field errors, creating the
// `errs` map on demand.
func AddErr(errs *Errs, name string, msgs ...string) {
	if (*errs) == nil {
		*errs = make(Errs)
	}
	(*errs)[name] = append((*errs)[name], msgs...)
}

// Assert records `msgs` for the `name` field unless `ok` holds.
func Assert(errs *Errs, ok bool, name string, msgs ...string) bool {
	if ok {
		return true
	}
	AddErr(errs, name, msgs...)
	return false
}

// UUID parses `s` as the `name` field, recording its error in `errs`.
func UUID(errs *Errs, name, s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		AddErr(errs, name, fmt.Sprintf("%q is not a UUID.", s))
		return uuid.Nil
	}
	return id
}

// OptUUID is like UUID, but an empty `s` gives nil.
func OptUUID(errs *Errs, name, s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		AddErr(errs, name, fmt.Sprintf("%q is not a UUID.", s))
		return nil
	}
	return &id
}

// ParseDate parses a rental boundary which may be given as a date
// (2006-01-02) or as an RFC 3339 timestamp. A timestamp is converted
// to UTC first, and the result is the UTC midnight of its date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(model.DateLayout, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf(
			"%q is neither a %s date nor an RFC 3339 time",
			s, model.DateLayout,
		)
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// Date parses `s` with ParseDate as the `name` field, recording its
// error in `errs`.
func Date(errs *Errs, name, s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		AddErr(errs, name, err.Error())
	}
	return t
}

// Flush writes the collected `errs` as a 400 response and reports if
// the request was valid (no errors were collected).
func Flush(c *gin.Context, errs Errs) bool {
	if errs == nil {
		return true
	}
	c.JSON(http.StatusBadRequest, errs)
	return false
}

// SerErr serializes `err` as a {"detail": "..."} response. Classified
// errors use their own status code. Storage failures and unclassified
// errors are logged and reported without their details.
func SerErr(c *gin.Context, err error) {
	var ce *cerr.Error
	var se *cerr.StorageError
	switch {
	case errors.As(err, &se):
		log.Error(c, "storage failure", log.Err("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": "storage failure",
		})
	case errors.As(err, &ce):
		c.JSON(ce.HTTPStatusCode, gin.H{
			"detail": ce.Err.Error(),
		})
	default:
		log.Error(c, "unclassified failure", log.Err("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": "internal server error",
		})
	}
}
