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

// RentalsQueryer contains the read-only rentals queries. Missing
// rentals are reported by an error wrapping model.ErrRentalNotFound.
type RentalsQueryer interface {
	Get(ctx context.Context, rentalID uuid.UUID) (*model.Rental, error)

	// List returns the matching rentals, newest first, including
	// their car and user summaries.
	List(ctx context.Context, f *model.RentalFilter) ([]model.Rental, error)

	// ActivePeriods returns periods of the PENDING and CONFIRMED
	// rentals of a car, ordered by their start date.
	ActivePeriods(ctx context.Context, carID uuid.UUID) ([]model.Period, error)
}

type RentalsConnQueryer interface {
	RentalsQueryer
}

// RentalsTxQueryer adds the mutating queries. They are only offered in
// a transaction because each one must be accompanied by a car update.
type RentalsTxQueryer interface {
	RentalsQueryer

	Create(ctx context.Context, r *model.Rental) (*model.Rental, error)

	// Lock fetches a rental and locks its row until the end of the
	// transaction. Callers must lock the rental car beforehand.
	Lock(ctx context.Context, rentalID uuid.UUID) (*model.Rental, error)

	UpdateStatus(ctx context.Context, rentalID uuid.UUID, s model.RentalStatus) (*model.Rental, error)
	Delete(ctx context.Context, rentalID uuid.UUID) error
}

type Rentals interface {
	Conn(Conn) RentalsConnQueryer
	Tx(Tx) RentalsTxQueryer
}
