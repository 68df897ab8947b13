// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package passwd exports the expected interface of a password hasher.
// The use cases layer only needs to hash a password at registration
// time and verify a password at login time, so the hashing scheme
// (e.g., SCRAM-SHA-256 or bcrypt) and its parameters are kept in the
// adapters layer. For implementations, see pkg/adapter/hash.
package passwd

// Hasher hashes user passwords for storage and verifies them later.
type Hasher interface {
	// Hash computes a self-describing hash string of a non-empty
	// password, embedding a random salt and the cost parameters,
	// so it may be verified later with no other information.
	Hash(pass string) (string, error)

	// Verify reports if the given password matches the hash string.
	// A mismatching password gives false and a nil error, while an
	// unparsable hash string gives an error.
	Verify(hash, pass string) (bool, error)
}
