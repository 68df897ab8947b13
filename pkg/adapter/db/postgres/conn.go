// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"fmt"

	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/repo"
	"gorm.io/gorm"
)

// Conn represents one acquired database connection.
// It realizes the repo.Conn interface and embeds *gorm.DB, so it may
// be used like GORM from within the repository packages.
type Conn struct {
	*gorm.DB
}

type TxHandler = repo.TxHandler

// Tx begins a READ-COMMITTED transaction and passes it to `f`.
// The transaction is committed if `f` returns nil and is rolled back
// if `f` returns an error or panics. The `f` errors are wrapped and
// returned, so their cerr classification is preserved, while errors
// of the begin, commit, and rollback statements are reported as
// storage errors.
func (c *Conn) Tx(ctx context.Context, f TxHandler) (err error) {
	tx := c.DB.WithContext(ctx).Begin()
	if err = tx.Error; err != nil {
		return cerr.Storage(fmt.Errorf("begin tx: %w", err))
	}
	defer func() {
		if r := recover(); r != nil {
			err = tx.Rollback().Error
			if err == nil {
				err = fmt.Errorf("panicked: %v", r)
				return
			}
			err = cerr.Storage(
				fmt.Errorf("panicked: %v, rollback: %w", r, err),
			)
			return
		}
		if err != nil {
			if err2 := tx.Rollback().Error; err2 != nil {
				err = fmt.Errorf(
					"handler: %w, rollback: %w", err, cerr.Storage(err2),
				)
				return
			}
			err = fmt.Errorf("handler: %w", err)
			return
		}
		err = tx.Commit().Error
		if err != nil {
			err = cerr.Storage(fmt.Errorf("commit: %w", err))
		}
	}()
	tt := &Tx{DB: tx}
	return f(ctx, tt)
}

// Exec runs the `sql` statement(s). See Tx.Exec for the details.
func (c *Conn) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	return execute(c.DB.WithContext(ctx), sql, args)
}

// Query runs the `sql` statement. See Tx.Query for the details.
func (c *Conn) Query(ctx context.Context, sql string, args ...any) (repo.Rows, error) {
	return query(c.DB.WithContext(ctx), sql, args)
}

// IsConn method prevents a non-Conn object (such as a Tx) to
// mistakenly implement the Conn interface.
func (c *Conn) IsConn() {
}

// GORM returns the embedded *gorm.DB instance, configuring it
// to operate on the given ctx context.
func (c *Conn) GORM(ctx context.Context) *gorm.DB {
	return c.DB.WithContext(ctx)
}
