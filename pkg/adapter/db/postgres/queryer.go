// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"

	"github.com/momeni/car-rental/pkg/core/repo"
	"gorm.io/gorm"
)

// Queryer is the type constraint of the generic query functions in
// the repository packages, so each query may be written once and run
// on either a *Conn or a *Tx.
type Queryer interface {
	*Conn | *Tx
	repo.Queryer
	GORM(ctx context.Context) *gorm.DB
}

func execute(gdb *gorm.DB, sql string, args []any) (int64, error) {
	res := gdb.Exec(sql, args...)
	if err := res.Error; err != nil {
		return 0, Classify(err)
	}
	return res.RowsAffected, nil
}

func query(gdb *gorm.DB, sql string, args []any) (repo.Rows, error) {
	rs, err := gdb.Raw(sql, args...).Rows()
	if err != nil {
		return nil, Classify(err)
	}
	return rows{rs}, nil
}
