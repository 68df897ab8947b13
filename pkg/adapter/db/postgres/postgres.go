// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postgres realizes the repo.Pool, repo.Conn, and repo.Tx
// interfaces using GORM and the pgx PostgreSQL driver. Its sub-packages
// (named like carsrp) realize the repositories and its migration
// sub-package creates the database schema.
package postgres

import "github.com/momeni/car-rental/pkg/core/model"

// These constants represent the major, minor, and patch components of
// the database schema semantic version which is created by the
// migration package.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

// Version is the latest supported database schema semantic version.
var Version = model.SemVer{Major, Minor, Patch}
