// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package repo contains the ports which are required by the use cases
// for accessing the persistence store. The adapters layer realizes them
// for PostgreSQL, while unit tests may realize them in memory.
package repo

import "context"

// ConnHandler is a function which uses an acquired connection.
type ConnHandler func(context.Context, Conn) error

// Pool manages database connections. The Conn method acquires one
// connection, passes it to the handler, and releases it afterwards.
type Pool interface {
	Conn(ctx context.Context, handler ConnHandler) error
}
