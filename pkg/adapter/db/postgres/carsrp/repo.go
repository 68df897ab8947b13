// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsrp

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (cars *Repo) Conn(c repo.Conn) repo.CarsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) List(ctx context.Context, f *model.CarFilter) ([]model.Car, error) {
	return List(ctx, cq.Conn, f)
}

func (cq connQueryer) Get(ctx context.Context, carID uuid.UUID) (*model.Car, error) {
	return Get(ctx, cq.Conn, carID)
}

func (cq connQueryer) Create(ctx context.Context, c *model.Car) (*model.Car, error) {
	return Create(ctx, cq.Conn, c)
}

func (cq connQueryer) Update(ctx context.Context, carID uuid.UUID, p *model.CarPatch) (*model.Car, error) {
	return Update(ctx, cq.Conn, carID, p)
}

func (cq connQueryer) Delete(ctx context.Context, carID uuid.UUID) error {
	return Delete(ctx, cq.Conn, carID)
}

type txQueryer struct {
	*postgres.Tx
}

func (cars *Repo) Tx(tx repo.Tx) repo.CarsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) List(ctx context.Context, f *model.CarFilter) ([]model.Car, error) {
	return List(ctx, tq.Tx, f)
}

func (tq txQueryer) Get(ctx context.Context, carID uuid.UUID) (*model.Car, error) {
	return Get(ctx, tq.Tx, carID)
}

func (tq txQueryer) Create(ctx context.Context, c *model.Car) (*model.Car, error) {
	return Create(ctx, tq.Tx, c)
}

func (tq txQueryer) Update(ctx context.Context, carID uuid.UUID, p *model.CarPatch) (*model.Car, error) {
	return Update(ctx, tq.Tx, carID, p)
}

func (tq txQueryer) Delete(ctx context.Context, carID uuid.UUID) error {
	return Delete(ctx, tq.Tx, carID)
}

func (tq txQueryer) Lock(ctx context.Context, carID uuid.UUID) (*model.Car, error) {
	return Lock(ctx, tq.Tx, carID)
}

func (tq txQueryer) SetAvailable(ctx context.Context, carID uuid.UUID, available bool) (*model.Car, error) {
	return SetAvailable(ctx, tq.Tx, carID, available)
}

func (tq txQueryer) MarkRented(ctx context.Context, carID uuid.UUID) (*model.Car, error) {
	return MarkRented(ctx, tq.Tx, carID)
}
