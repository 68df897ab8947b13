// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// TxHandler is a function which runs in a transaction. Returning an
// error (or panicking) rolls the transaction back.
type TxHandler func(context.Context, Tx) error

// Conn represents one database connection which is acquired from a
// Pool. It may run statements directly or start a transaction.
type Conn interface {
	Queryer

	// Tx begins a transaction, runs the handler in it, and commits it
	// if the handler returns nil. Otherwise, it is rolled back and the
	// handler error is returned after wrapping.
	Tx(ctx context.Context, handler TxHandler) error

	// IsConn method prevents a non-Conn object (such as a Tx) to
	// mistakenly implement the Conn interface.
	IsConn()
}
