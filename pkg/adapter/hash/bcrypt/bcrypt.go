// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package bcrypt hashes user passwords with the bcrypt algorithm,
// using the golang.org/x/crypto/bcrypt module.
package bcrypt

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Name of the bcrypt hashing method in the configuration file.
const Name = "bcrypt"

// Hasher implements the passwd.Hasher interface with bcrypt.
type Hasher struct {
	cost int
}

// New creates a Hasher with the given cost. Zero selects the
// bcrypt.DefaultCost.
func New(cost int) (*Hasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf(
			"cost (%d) is not in [%d, %d]",
			cost, bcrypt.MinCost, bcrypt.MaxCost,
		)
	}
	return &Hasher{cost: cost}, nil
}

// Hash returns the bcrypt hash of `pass` with a random salt.
// Passwords longer than 72 bytes are rejected by bcrypt.
func (h *Hasher) Hash(pass string) (string, error) {
	if pass == "" {
		return "", errors.New("password must be non-empty")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pass), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

// Verify reports if `pass` matches the bcrypt `hash`.
func (h *Hasher) Verify(hash, pass string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pass))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("bcrypt: %w", err)
	}
}
