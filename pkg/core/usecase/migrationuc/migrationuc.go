// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package migrationuc provides the database initialization use case.
// The InitDBUseCase creates the crweb tables and fills them with the
// development or production suitable data. This package also exposes
// the Settings interface which represents the expectations from the
// configuration settings, so the use cases layer may connect to the
// target database and obtain a schema initializer for its version.
package migrationuc

import (
	"context"

	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

// Pool is a repo.Pool which may be closed by its creator.
type Pool interface {
	repo.Pool
	Close() error
}

// Settings represents the database related configuration settings.
type Settings interface {
	// ConnectionPool creates a connection pool to the configured
	// database, authenticating as the `r` role.
	ConnectionPool(ctx context.Context, r repo.Role) (Pool, error)

	// SchemaInitializer wraps the `tx` transaction and creates tables
	// of the configured database schema version in it.
	SchemaInitializer(tx repo.Tx) (repo.SchemaInitializer, error)

	// SchemaVersion returns the configured database schema version.
	SchemaVersion() model.SemVer

	// ProdAdmin returns the name, email, and password of the initial
	// admin user of a production database.
	ProdAdmin() (name, email, password string, err error)
}

// UserFactory validates the fields of a user and hashes its password.
// It is realized by the usersuc.UseCase type.
type UserFactory interface {
	NewUser(name, email, password string, role model.Role) (*model.User, error)
}
