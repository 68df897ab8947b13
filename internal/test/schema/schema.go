// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schema provides a database schema verifier which can be used
// for testing purposes. It checks the crweb tables, their columns and
// named constraints, and the presence of the development or production
// suitable data rows after a database initialization.
// Only presence of the expected rows, and not absence of extra rows,
// is checked.
package schema

import (
	"context"
	"fmt"
	"testing"

	"github.com/momeni/car-rental/pkg/adapter/db/postgres"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = map[string][]string{
	"users": {
		"id", "email", "password_hash", "name", "role", "created_at",
	},
	"cars": {
		"id", "brand", "model", "year", "color", "price", "description",
		"image_url", "available", "withdrawn", "times_rented",
		"created_at",
	},
	"rentals": {
		"id", "car_id", "user_id", "start_date", "end_date",
		"total_price", "status", "created_at",
	},
}

// constraints are matched by the repositories in order to classify
// the constraint violations.
var constraints = map[string][]string{
	"users":   {"users_email_key"},
	"cars":    {"cars_withdrawn_check"},
	"rentals": {"rentals_car_id_fkey", "rentals_user_id_fkey"},
}

// Verifier wraps a database connection and verifies its schema and
// contents.
type Verifier struct {
	c repo.Conn
}

// NewVerifier creates a new schema Verifier instance, wrapping the `c`
// database connection. An error is returned if the `v` semantic
// version is not supported.
func NewVerifier(c repo.Conn, v model.SemVer) (*Verifier, error) {
	if v != postgres.Version {
		return nil, fmt.Errorf("unsupported schema version: %s", v)
	}
	return &Verifier{c: c}, nil
}

// VerifySchema checks the tables, their columns, and the constraints
// which are named by the repositories. Issues are reported using `t`.
func (v *Verifier) VerifySchema(ctx context.Context, t *testing.T) {
	for table, cols := range columns {
		seen := v.strings(ctx, t, `SELECT column_name
FROM information_schema.columns
WHERE table_schema = current_schema() AND table_name = $1`, table)
		assert.ElementsMatch(t, cols, seen, "columns of %s", table)
	}
	for table, names := range constraints {
		seen := v.strings(ctx, t, `SELECT constraint_name
FROM information_schema.table_constraints
WHERE table_schema = current_schema() AND table_name = $1`, table)
		for _, n := range names {
			assert.Contains(t, seen, n, "constraints of %s", table)
		}
	}
}

// VerifyDevData checks that the `emails` users, at least `cars` cars,
// and one rental of each status are present.
func (v *Verifier) VerifyDevData(
	ctx context.Context, t *testing.T, emails []string, cars int,
) {
	v.verifyUsers(ctx, t, emails)
	assert.GreaterOrEqual(
		t, v.count(ctx, t, "SELECT count(*) FROM cars"), int64(cars),
		"number of cars",
	)
	statuses := v.strings(ctx, t, "SELECT DISTINCT status FROM rentals")
	assert.ElementsMatch(t, []string{
		"PENDING", "CONFIRMED", "COMPLETED", "CANCELLED",
	}, statuses, "rental statuses")
	assert.Zero(t, v.count(ctx, t, `SELECT count(*) FROM cars c
WHERE c.available AND EXISTS (
	SELECT 1 FROM rentals r
	WHERE r.car_id = c.id AND r.status IN ('PENDING', 'CONFIRMED')
)`), "available cars must not have active rentals")
}

// VerifyProdData checks that the admin user with the given email is
// present and no cars or rentals are inserted.
func (v *Verifier) VerifyProdData(
	ctx context.Context, t *testing.T, adminEmail string,
) {
	v.verifyUsers(ctx, t, []string{adminEmail})
	roles := v.strings(
		ctx, t, "SELECT role FROM users WHERE email = $1", adminEmail,
	)
	assert.Equal(t, []string{"ADMIN"}, roles, "role of admin")
	assert.Zero(t, v.count(ctx, t, "SELECT count(*) FROM cars"), "cars")
	assert.Zero(t, v.count(ctx, t, "SELECT count(*) FROM rentals"), "rentals")
}

func (v *Verifier) verifyUsers(
	ctx context.Context, t *testing.T, emails []string,
) {
	seen := v.strings(ctx, t, "SELECT email FROM users")
	for _, e := range emails {
		assert.Contains(t, seen, e, "users")
	}
}

func (v *Verifier) strings(
	ctx context.Context, t *testing.T, sql string, args ...any,
) []string {
	rows, err := v.c.Query(ctx, sql, args...)
	require.NoError(t, err, "querying %q", sql)
	defer rows.Close()
	var ss []string
	for rows.Next() {
		var s string
		require.NoError(t, rows.Scan(&s), "scanning %q", sql)
		ss = append(ss, s)
	}
	require.NoError(t, rows.Err(), "iterating %q", sql)
	return ss
}

func (v *Verifier) count(
	ctx context.Context, t *testing.T, sql string, args ...any,
) int64 {
	rows, err := v.c.Query(ctx, sql, args...)
	require.NoError(t, err, "querying %q", sql)
	defer rows.Close()
	require.True(t, rows.Next(), "no rows for %q", sql)
	var n int64
	require.NoError(t, rows.Scan(&n), "scanning %q", sql)
	return n
}
