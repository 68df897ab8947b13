// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

// Tx is a database transaction, expected to have the READ-COMMITTED
// isolation level of PostgreSQL. It may not be used concurrently.
// The use cases which must keep the rentals of a car non-overlapping
// lock that car through a Tx-bound repository before reading its
// rentals, so concurrent bookings of one car run one at a time.
type Tx interface {
	Queryer

	// IsTx method prevents a non-Tx object (such as a Conn) to
	// mistakenly implement the Tx interface.
	IsTx()
}
