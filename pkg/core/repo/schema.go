// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/momeni/car-rental/pkg/core/model"
)

// SchemaInitializer creates the crweb tables and fills them with
// initial data rows. It wraps a transaction, so nothing is persisted
// unless that transaction is committed.
type SchemaInitializer interface {
	// InitDevSchema (re)creates the tables and inserts the given
	// users, sample cars, and sample rentals of the first user,
	// suitable for development.
	InitDevSchema(ctx context.Context, users []*model.User) error

	// InitProdSchema (re)creates the tables and inserts the given
	// admin user, as the only production data row.
	InitProdSchema(ctx context.Context, admin *model.User) error
}
