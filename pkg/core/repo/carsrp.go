// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/model"
)

// CarsQueryer contains the cars queries which may run either on a
// connection or in a transaction. Missing cars are reported by an
// error wrapping model.ErrCarNotFound.
type CarsQueryer interface {
	List(ctx context.Context, f *model.CarFilter) ([]model.Car, error)
	Get(ctx context.Context, carID uuid.UUID) (*model.Car, error)
	Create(ctx context.Context, c *model.Car) (*model.Car, error)
	Update(ctx context.Context, carID uuid.UUID, p *model.CarPatch) (*model.Car, error)

	// Delete removes a car. A car which is referenced by some rentals
	// may not be deleted and model.ErrCarHasRentals is reported.
	Delete(ctx context.Context, carID uuid.UUID) error
}

type CarsConnQueryer interface {
	CarsQueryer
}

// CarsTxQueryer adds the queries which are only meaningful in
// a transaction, such as row locking and state updates which must be
// kept consistent with the rentals of a car.
type CarsTxQueryer interface {
	CarsQueryer

	// Lock fetches a car and locks its row until the end of the
	// transaction, so concurrent bookings of one car are serialized.
	Lock(ctx context.Context, carID uuid.UUID) (*model.Car, error)

	SetAvailable(ctx context.Context, carID uuid.UUID, available bool) (*model.Car, error)

	// MarkRented clears the available flag and increments the
	// times rented counter of a car by one.
	MarkRented(ctx context.Context, carID uuid.UUID) (*model.Car, error)
}

type Cars interface {
	Conn(Conn) CarsConnQueryer
	Tx(Tx) CarsTxQueryer
}
