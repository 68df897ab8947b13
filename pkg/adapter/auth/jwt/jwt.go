// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package jwt issues and parses the HS256 signed authentication tokens
// of crweb users. A token carries the user ID and role, so requests
// may be authorized without a database round trip. Role changes take
// effect when the user logs in again.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/model"
)

// Issuer is the value of the iss claim.
const Issuer = "crweb"

// MinSecretLen is the minimum length of the signing secret in bytes.
const MinSecretLen = 16

// ErrInvalidToken is wrapped by the Parse errors.
var ErrInvalidToken = errors.New("invalid authentication token")

// Claims of a crweb token. The subject holds the user ID.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens realizes the usersuc.TokenIssuer interface and parses the
// issued tokens back into model.Principal instances.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// New creates a Tokens instance which signs with `secret` and issues
// tokens which expire after `ttl`.
func New(secret string, ttl time.Duration) (*Tokens, error) {
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf(
			"jwt secret must have at least %d bytes", MinSecretLen,
		)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl (%v) is not positive", ttl)
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// WithClock returns a copy of `t` which uses `now` as its clock.
func (t *Tokens) WithClock(now func() time.Time) *Tokens {
	tt := *t
	tt.now = now
	return &tt
}

// Issue creates a signed token for the `u` user.
func (t *Tokens) Issue(u *model.User) (*model.Token, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	claims := &Claims{
		Role: u.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   u.ID.String(),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}
	return &model.Token{Value: s, ExpiresAt: exp.Truncate(time.Second)}, nil
}

// Parse verifies the signature, issuer, and expiration time of the
// `token` string and returns its principal. All failures are reported
// as cerr.Authentication errors wrapping ErrInvalidToken.
func (t *Tokens) Parse(token string) (*model.Principal, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		token, claims,
		func(*jwt.Token) (any, error) {
			return t.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, cerr.Authentication(fmt.Errorf("%w: %w", ErrInvalidToken, err))
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, cerr.Authentication(fmt.Errorf(
			"%w: bad subject: %w", ErrInvalidToken, err,
		))
	}
	role, err := model.ParseRole(claims.Role)
	if err != nil {
		return nil, cerr.Authentication(fmt.Errorf(
			"%w: bad role: %w", ErrInvalidToken, err,
		))
	}
	return &model.Principal{UserID: userID, Role: role}, nil
}
