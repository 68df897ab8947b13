// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package rentalsrp

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

func (rentals *Repo) Conn(c repo.Conn) repo.RentalsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Get(ctx context.Context, rentalID uuid.UUID) (*model.Rental, error) {
	return Get(ctx, cq.Conn, rentalID)
}

func (cq connQueryer) List(ctx context.Context, f *model.RentalFilter) ([]model.Rental, error) {
	return List(ctx, cq.Conn, f)
}

func (cq connQueryer) ActivePeriods(ctx context.Context, carID uuid.UUID) ([]model.Period, error) {
	return ActivePeriods(ctx, cq.Conn, carID)
}

type txQueryer struct {
	*postgres.Tx
}

func (rentals *Repo) Tx(tx repo.Tx) repo.RentalsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Get(ctx context.Context, rentalID uuid.UUID) (*model.Rental, error) {
	return Get(ctx, tq.Tx, rentalID)
}

func (tq txQueryer) List(ctx context.Context, f *model.RentalFilter) ([]model.Rental, error) {
	return List(ctx, tq.Tx, f)
}

func (tq txQueryer) ActivePeriods(ctx context.Context, carID uuid.UUID) ([]model.Period, error) {
	return ActivePeriods(ctx, tq.Tx, carID)
}

func (tq txQueryer) Create(ctx context.Context, r *model.Rental) (*model.Rental, error) {
	return Create(ctx, tq.Tx, r)
}

func (tq txQueryer) Lock(ctx context.Context, rentalID uuid.UUID) (*model.Rental, error) {
	return Lock(ctx, tq.Tx, rentalID)
}

func (tq txQueryer) UpdateStatus(ctx context.Context, rentalID uuid.UUID, s model.RentalStatus) (*model.Rental, error) {
	return UpdateStatus(ctx, tq.Tx, rentalID, s)
}

func (tq txQueryer) Delete(ctx context.Context, rentalID uuid.UUID) error {
	return Delete(ctx, tq.Tx, rentalID)
}
