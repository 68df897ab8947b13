// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"

	"github.com/momeni/car-rental/pkg/core/repo"
	"gorm.io/gorm"
)

// Tx is a READ-COMMITTED transaction which is created by Conn.Tx and
// realizes the repo.Tx interface. It may not be used concurrently.
// Bookings of one car are serialized by locking the car row
// (SELECT ... FOR UPDATE) in a Tx before reading its active periods.
type Tx struct {
	*gorm.DB
}

// Exec runs the `sql` statement(s) and returns the number of affected
// rows. Without args, `sql` may hold several semicolon separated
// statements (e.g., a schema script). With args, it must hold one
// statement and args are sent separately. Both of the $1 and ?
// placeholders are accepted.
func (tx *Tx) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	return execute(tx.DB.WithContext(ctx), sql, args)
}

// Query runs the `sql` statement and returns its result set, which
// must be closed before the next statement of the same transaction.
func (tx *Tx) Query(ctx context.Context, sql string, args ...any) (repo.Rows, error) {
	return query(tx.DB.WithContext(ctx), sql, args)
}

func (tx *Tx) IsTx() {
}

// GORM returns the embedded *gorm.DB in a session bound to `ctx`.
func (tx *Tx) GORM(ctx context.Context) *gorm.DB {
	return tx.DB.WithContext(ctx)
}
