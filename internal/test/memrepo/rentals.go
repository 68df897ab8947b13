// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memrepo

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

// Rentals returns the rentals repository of `s`.
func (s *Store) Rentals() repo.Rentals {
	return rentalsRepo{s: s}
}

type rentalsRepo struct {
	s *Store
}

func (r rentalsRepo) Conn(repo.Conn) repo.RentalsConnQueryer {
	return rentals{view{s: r.s}}
}

func (r rentalsRepo) Tx(repo.Tx) repo.RentalsTxQueryer {
	return rentals{view{s: r.s, locked: true}}
}

type rentals struct {
	view
}

func rentalNotFound(rentalID uuid.UUID) error {
	return cerr.NotFound(fmt.Errorf(
		"%w: %s", model.ErrRentalNotFound, rentalID,
	))
}

// withRefs fills the Car and User of `r` similar to a joined query.
func (q rentals) withRefs(r model.Rental) model.Rental {
	if c, ok := q.s.cars[r.CarID]; ok {
		r.Car = &c
	}
	if u, ok := q.s.users[r.UserID]; ok {
		r.User = u.Summary()
	}
	return r
}

func (q rentals) Get(
	_ context.Context, rentalID uuid.UUID,
) (*model.Rental, error) {
	var rental model.Rental
	err := q.run(func() error {
		r, ok := q.s.rentals[rentalID]
		if !ok {
			return rentalNotFound(rentalID)
		}
		rental = q.withRefs(r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

func (q rentals) Lock(
	_ context.Context, rentalID uuid.UUID,
) (*model.Rental, error) {
	var rental model.Rental
	err := q.run(func() error {
		r, ok := q.s.rentals[rentalID]
		if !ok {
			return rentalNotFound(rentalID)
		}
		rental = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

func (q rentals) List(
	_ context.Context, f *model.RentalFilter,
) (rs []model.Rental, err error) {
	err = q.run(func() error {
		for _, r := range q.s.rentals {
			switch {
			case f.CarID != nil && r.CarID != *f.CarID:
				continue
			case f.UserID != nil && r.UserID != *f.UserID:
				continue
			case len(f.Statuses) > 0 &&
				!slices.Contains(f.Statuses, r.Status):
				continue
			}
			rs = append(rs, q.withRefs(r))
		}
		return nil
	})
	slices.SortFunc(rs, func(a, b model.Rental) int {
		if o := b.CreatedAt.Compare(a.CreatedAt); o != 0 {
			return o
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return rs, err
}

func (q rentals) ActivePeriods(
	_ context.Context, carID uuid.UUID,
) (ps []model.Period, err error) {
	err = q.run(func() error {
		for _, r := range q.s.rentals {
			if r.CarID == carID && r.Status.IsActive() {
				ps = append(ps, r.Period())
			}
		}
		return nil
	})
	slices.SortFunc(ps, func(a, b model.Period) int {
		return a.Start.Compare(b.Start)
	})
	return ps, err
}

func (q rentals) Create(
	_ context.Context, r *model.Rental,
) (*model.Rental, error) {
	rental := *r
	rental.Car, rental.User = nil, nil
	err := q.run(func() error {
		if _, ok := q.s.users[rental.UserID]; !ok {
			return cerr.NotFound(fmt.Errorf(
				"%w: %s", model.ErrUserNotFound, rental.UserID,
			))
		}
		if _, ok := q.s.cars[rental.CarID]; !ok {
			return carNotFound(rental.CarID)
		}
		if !rental.EndDate.After(rental.StartDate) {
			return cerr.BadRequest(model.ErrInvalidRange)
		}
		q.s.rentals[rental.ID] = rental
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

func (q rentals) UpdateStatus(
	_ context.Context, rentalID uuid.UUID, s model.RentalStatus,
) (*model.Rental, error) {
	var rental model.Rental
	err := q.run(func() error {
		r, ok := q.s.rentals[rentalID]
		if !ok {
			return rentalNotFound(rentalID)
		}
		r.Status = s
		q.s.rentals[rentalID] = r
		rental = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

func (q rentals) Delete(_ context.Context, rentalID uuid.UUID) error {
	return q.run(func() error {
		if _, ok := q.s.rentals[rentalID]; !ok {
			return rentalNotFound(rentalID)
		}
		delete(q.s.rentals, rentalID)
		return nil
	})
}
