// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram hashes user passwords with the SCRAM-SHA-256 or
// SCRAM-SHA-1 mechanisms, storing them in the SCRAM standard format
// (the same format which PostgreSQL uses for its role passwords).
// See the SHA256 and SHA1 functions for their instantiation logic.
package scram

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xdg-go/scram"
)

// MinIters is the minimum acceptable number of iterations.
const MinIters = 4096

// DefaultIters is the number of iterations which is used by the SHA1
// and SHA256 functions, as recommended by the RFC 7677.
const DefaultIters = 15000

// ErrMalformedHash indicates that a stored hash string does not follow
// the SCRAM format or belongs to another mechanism.
var ErrMalformedHash = errors.New("malformed SCRAM hash")

// Mechanism provides a Salted Challenge Response Authentication
// Mechanism (SCRAM) having a fixed underlying hash algorithm.
//
// It implements the passwd.Hasher interface, so it may be used in the
// use cases layer without any dependency on the actual implementation.
// This package relies on the github.com/xdg-go/scram module for the
// SCRAM implementation.
type Mechanism struct {
	hashGenerator scram.HashGeneratorFcn
	outLen        int // bytes
	name          string
	iters         int
}

// SHA1 returns a new Mechanism instance using the SHA1 as its
// underlying hash algorithm.
func SHA1() *Mechanism {
	return &Mechanism{
		hashGenerator: scram.SHA1,
		outLen:        160 / 8,
		name:          "SCRAM-SHA-1",
		iters:         DefaultIters,
	}
}

// SHA256 returns a new Mechanism instance using the SHA256 as its
// underlying hash algorithm.
func SHA256() *Mechanism {
	return &Mechanism{
		hashGenerator: scram.SHA256,
		outLen:        256 / 8,
		name:          "SCRAM-SHA-256",
		iters:         DefaultIters,
	}
}

// WithIters returns a copy of `m` which uses `iters` iterations for
// the new hashes. It must not be less than MinIters.
func (m *Mechanism) WithIters(iters int) (*Mechanism, error) {
	if iters < MinIters {
		return nil, fmt.Errorf("iters (%d) is less than %d", iters, MinIters)
	}
	mm := *m
	mm.iters = iters
	return &mm, nil
}

// Name returns the mechanism name, like SCRAM-SHA-256, which prefixes
// the hash strings of `m`.
func (m *Mechanism) Name() string {
	return m.name
}

// Hash computes a hash string of `pass` with a random salt.
// See HashWithSalt for the output format.
func (m *Mechanism) Hash(pass string) (string, error) {
	return m.HashWithSalt(pass, "", m.iters)
}

// HashWithSalt computes a hash string following the standard scram
// hash format, so it can be stored and used later for authentication.
//
// The pass argument must be non-empty. The given password will be
// normalized according to the SASLprep profile (defined by RFC 4013)
// of the stringprep algorithm and any failure in that normalization
// returns an error.
//
// The salt must contain a base64 encoding of the desired salt
// bytes, otherwise, if an empty value is passed, a random salt will
// be generated and used instead.
// The iters must be at least equal to MinIters.
//
// In absence of errors, a hashed string will be returned which
// conforms to the following format.
//
//	SCRAM-{SHA-X}${iters}:{b64-salt}${b64-storedKey}:{b64-serverKey}
func (m *Mechanism) HashWithSalt(pass, salt string, iters int) (string, error) {
	switch {
	case pass == "":
		return "", errors.New("password must be non-empty")
	case iters < MinIters:
		return "", fmt.Errorf("iters (%d) is less than %d", iters, MinIters)
	}
	if salt == "" {
		saltBytes := make([]byte, m.outLen)
		if _, err := rand.Read(saltBytes); err != nil {
			return "", fmt.Errorf("creating random salt: %w", err)
		}
		salt = base64.StdEncoding.EncodeToString(saltBytes)
	}
	sc, err := m.storedCredentials(pass, salt, iters)
	if err != nil {
		return "", fmt.Errorf("obtaining stored credentials: %w", err)
	}
	h := fmt.Sprintf(
		"%s$%d:%s$%s:%s",
		m.name,
		iters, salt,
		base64.StdEncoding.EncodeToString(sc.StoredKey),
		base64.StdEncoding.EncodeToString(sc.ServerKey),
	)
	return h, nil
}

// Verify parses the `hash` string (as created by HashWithSalt), hashes
// `pass` with the same salt and iterations, and compares the stored
// and server keys in constant time.
func (m *Mechanism) Verify(hash, pass string) (bool, error) {
	rest, ok := strings.CutPrefix(hash, m.name+"$")
	if !ok {
		return false, fmt.Errorf("%w: expected %s prefix", ErrMalformedHash, m.name)
	}
	params, _, ok := strings.Cut(rest, "$")
	if !ok {
		return false, fmt.Errorf("%w: missing keys", ErrMalformedHash)
	}
	itersStr, salt, ok := strings.Cut(params, ":")
	if !ok {
		return false, fmt.Errorf("%w: missing salt", ErrMalformedHash)
	}
	iters, err := strconv.Atoi(itersStr)
	if err != nil || iters < MinIters {
		return false, fmt.Errorf("%w: bad iters %q", ErrMalformedHash, itersStr)
	}
	if pass == "" {
		return false, nil
	}
	expected, err := m.HashWithSalt(pass, salt, iters)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(hash)) == 1, nil
}

func (m *Mechanism) storedCredentials(
	pass, salt string, iters int,
) (*scram.StoredCredentials, error) {
	c, err := m.hashGenerator.NewClient("username", pass, "authzID")
	if err != nil {
		return nil, fmt.Errorf("creating SCRAM client: %w", err)
	}
	saltBytes, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 salt: %w", err)
	}
	sc := c.GetStoredCredentials(scram.KeyFactors{
		Salt:  string(saltBytes),
		Iters: iters,
	})
	return &sc, nil
}
