// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package hash selects a password hashing method by its name.
// New hashes are computed with the selected method, while the stored
// hashes are verified with the method which is identified by their
// prefix, so switching the method in the configuration file does not
// lock out the existing users.
package hash

import (
	"fmt"
	"strings"

	"github.com/momeni/car-rental/pkg/adapter/hash/bcrypt"
	"github.com/momeni/car-rental/pkg/adapter/hash/scram"
	"github.com/momeni/car-rental/pkg/core/passwd"
)

// Supported method names.
const (
	ScramSHA256 = "scram-sha-256"
	ScramSHA1   = "scram-sha-1"
	Bcrypt      = bcrypt.Name
)

// Dispatcher implements the passwd.Hasher interface.
type Dispatcher struct {
	hasher passwd.Hasher
	sha256 *scram.Mechanism
	sha1   *scram.Mechanism
	bcrypt *bcrypt.Hasher
}

// New returns a Dispatcher which hashes new passwords with the
// `method` algorithm. An empty method selects ScramSHA256.
func New(method string) (*Dispatcher, error) {
	bc, err := bcrypt.New(0)
	if err != nil {
		return nil, err
	}
	d := &Dispatcher{
		sha256: scram.SHA256(),
		sha1:   scram.SHA1(),
		bcrypt: bc,
	}
	switch strings.ToLower(method) {
	case "", ScramSHA256:
		d.hasher = d.sha256
	case ScramSHA1:
		d.hasher = d.sha1
	case Bcrypt:
		d.hasher = d.bcrypt
	default:
		return nil, fmt.Errorf("unsupported password hashing method %q", method)
	}
	return d, nil
}

func (d *Dispatcher) Hash(pass string) (string, error) {
	return d.hasher.Hash(pass)
}

func (d *Dispatcher) Verify(hash, pass string) (bool, error) {
	switch {
	case strings.HasPrefix(hash, d.sha256.Name()+"$"):
		return d.sha256.Verify(hash, pass)
	case strings.HasPrefix(hash, d.sha1.Name()+"$"):
		return d.sha1.Verify(hash, pass)
	case strings.HasPrefix(hash, "$2"):
		return d.bcrypt.Verify(hash, pass)
	default:
		return false, fmt.Errorf("unknown password hash format")
	}
}
