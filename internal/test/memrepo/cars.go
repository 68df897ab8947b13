// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memrepo

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

// Cars returns the cars repository of `s`.
func (s *Store) Cars() repo.Cars {
	return carsRepo{s: s}
}

type carsRepo struct {
	s *Store
}

func (r carsRepo) Conn(repo.Conn) repo.CarsConnQueryer {
	return cars{view{s: r.s}}
}

func (r carsRepo) Tx(repo.Tx) repo.CarsTxQueryer {
	return cars{view{s: r.s, locked: true}}
}

type cars struct {
	view
}

func carNotFound(carID uuid.UUID) error {
	return cerr.NotFound(fmt.Errorf("%w: %s", model.ErrCarNotFound, carID))
}

func (q cars) List(
	_ context.Context, f *model.CarFilter,
) (cs []model.Car, err error) {
	err = q.run(func() error {
		for _, c := range q.s.cars {
			if matches(&c, f) {
				cs = append(cs, c)
			}
		}
		return nil
	})
	slices.SortFunc(cs, func(a, b model.Car) int {
		var o int
		switch f.Sort {
		case model.CarSortPopular:
			o = cmp.Compare(b.TimesRented, a.TimesRented)
		case model.CarSortPriceAsc:
			o = cmp.Compare(a.Price, b.Price)
		case model.CarSortPriceDesc:
			o = cmp.Compare(b.Price, a.Price)
		}
		if o != 0 {
			return o
		}
		if o = b.CreatedAt.Compare(a.CreatedAt); o != 0 {
			return o
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	if f.Limit > 0 && len(cs) > f.Limit {
		cs = cs[:f.Limit]
	}
	return cs, err
}

func matches(c *model.Car, f *model.CarFilter) bool {
	switch {
	case f.Brand != "" && !strings.EqualFold(c.Brand, f.Brand):
		return false
	case f.MaxPrice != nil && c.Price > *f.MaxPrice:
		return false
	case f.AvailableOnly && !c.Available:
		return false
	}
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	return strings.Contains(strings.ToLower(c.Brand), q) ||
		strings.Contains(strings.ToLower(c.Model), q)
}

func (q cars) Get(_ context.Context, carID uuid.UUID) (*model.Car, error) {
	var car model.Car
	err := q.run(func() error {
		c, ok := q.s.cars[carID]
		if !ok {
			return carNotFound(carID)
		}
		car = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &car, nil
}

func (q cars) Lock(ctx context.Context, carID uuid.UUID) (*model.Car, error) {
	return q.Get(ctx, carID)
}

func (q cars) Create(_ context.Context, c *model.Car) (*model.Car, error) {
	car := *c
	err := q.run(func() error {
		if _, ok := q.s.cars[car.ID]; ok {
			return cerr.Storage(fmt.Errorf("duplicate car id %s", car.ID))
		}
		q.s.cars[car.ID] = car
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &car, nil
}

func (q cars) Update(
	_ context.Context, carID uuid.UUID, p *model.CarPatch,
) (*model.Car, error) {
	return q.update(carID, func(c *model.Car) {
		p.Apply(c)
		if p.Available != nil && *p.Available {
			c.Available = !q.s.held(carID)
		}
	})
}

// held reports if carID has a PENDING or CONFIRMED rental.
func (s *Store) held(carID uuid.UUID) bool {
	for _, r := range s.rentals {
		if r.CarID == carID && r.Status.IsActive() {
			return true
		}
	}
	return false
}

func (q cars) SetAvailable(
	_ context.Context, carID uuid.UUID, available bool,
) (*model.Car, error) {
	return q.update(carID, func(c *model.Car) {
		c.Available = available
	})
}

func (q cars) MarkRented(
	_ context.Context, carID uuid.UUID,
) (*model.Car, error) {
	return q.update(carID, func(c *model.Car) {
		c.Available = false
		c.TimesRented++
	})
}

func (q cars) update(
	carID uuid.UUID, f func(c *model.Car),
) (*model.Car, error) {
	var car model.Car
	err := q.run(func() error {
		c, ok := q.s.cars[carID]
		if !ok {
			return carNotFound(carID)
		}
		f(&c)
		q.s.cars[carID] = c
		car = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &car, nil
}

func (q cars) Delete(_ context.Context, carID uuid.UUID) error {
	return q.run(func() error {
		if _, ok := q.s.cars[carID]; !ok {
			return carNotFound(carID)
		}
		for _, r := range q.s.rentals {
			if r.CarID == carID {
				return cerr.Conflict(fmt.Errorf(
					"%w: %s", model.ErrCarHasRentals, carID,
				))
			}
		}
		delete(q.s.cars, carID)
		return nil
	})
}
