// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package memrepo is an internal helper for the use case test packages.
// It provides an in-memory Store which realizes the repo.Pool and
// the cars, rentals, and users repositories, so use cases can be
// tested without a PostgreSQL server.
// A transaction holds the Store mutex until it ends, so transactions
// are serialized (similar to locking every row), and a failed
// transaction restores the Store snapshot which was taken at its
// beginning.
package memrepo

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

var errNoSQL = errors.New("memrepo does not run SQL statements")

// Store keeps the cars, rentals, and users rows in memory.
type Store struct {
	mu      sync.Mutex
	cars    map[uuid.UUID]model.Car
	rentals map[uuid.UUID]model.Rental
	users   map[uuid.UUID]model.User

	// Txs counts the committed transactions.
	Txs int
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		cars:    make(map[uuid.UUID]model.Car),
		rentals: make(map[uuid.UUID]model.Rental),
		users:   make(map[uuid.UUID]model.User),
	}
}

// Conn passes a connection of `s` to `handler`.
func (s *Store) Conn(ctx context.Context, handler repo.ConnHandler) error {
	return handler(ctx, &conn{s: s})
}

// Car returns a copy of the carID car, ignoring the ongoing
// transactions. It is useful for test assertions.
func (s *Store) Car(carID uuid.UUID) (model.Car, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cars[carID]
	return c, ok
}

// AllRentals returns a copy of all rentals, in no specific order.
func (s *Store) AllRentals() []model.Rental {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs := make([]model.Rental, 0, len(s.rentals))
	for _, r := range s.rentals {
		rs = append(rs, r)
	}
	return rs
}

type snapshot struct {
	cars    map[uuid.UUID]model.Car
	rentals map[uuid.UUID]model.Rental
	users   map[uuid.UUID]model.User
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		cars:    maps.Clone(s.cars),
		rentals: maps.Clone(s.rentals),
		users:   maps.Clone(s.users),
	}
}

func (s *Store) restore(ss snapshot) {
	s.cars, s.rentals, s.users = ss.cars, ss.rentals, ss.users
}

type conn struct {
	s *Store
}

func (c *conn) Tx(ctx context.Context, handler repo.TxHandler) (err error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	ss := c.s.snapshot()
	defer func() {
		if r := recover(); r != nil {
			c.s.restore(ss)
			panic(r)
		}
	}()
	if err = handler(ctx, &tx{s: c.s}); err != nil {
		c.s.restore(ss)
		return err
	}
	c.s.Txs++
	return nil
}

func (c *conn) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errNoSQL
}

func (c *conn) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, errNoSQL
}

func (c *conn) IsConn() {
}

type tx struct {
	s *Store
}

func (t *tx) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errNoSQL
}

func (t *tx) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, errNoSQL
}

func (t *tx) IsTx() {
}

// view runs the queries of a repository. Queries of a connection take
// the Store mutex, while queries of a transaction already hold it.
type view struct {
	s      *Store
	locked bool
}

func (v view) run(f func() error) error {
	if !v.locked {
		v.s.mu.Lock()
		defer v.s.mu.Unlock()
	}
	return f()
}
