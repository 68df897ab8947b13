// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsuc contains the cars UseCase which supports the cars
// inventory use cases. Everyone may list, search, and fetch cars,
// while vendors and admins may create, update, and delete them.
// The availability flag and the rented counter of cars are maintained
// by the rentals use cases (see the rentalsuc package).
package carsuc

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

// UseCase represents a cars use case. It holds a database connection
// pool, the cars repository instance (to be guided with the DB pool),
// and the cars use case specific settings.
type UseCase struct {
	pool   repo.Pool
	carsrp repo.Cars

	popularLimit int
	now          func() time.Time
}

// New instantiates a cars use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(p repo.Pool, c repo.Cars, opts ...Option) (*UseCase, error) {
	uc := &UseCase{pool: p, carsrp: c}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.popularLimit == 0 {
		uc.popularLimit = 5
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc, nil
}

// Settings reports the cars listing settings of this use case.
func (cars *UseCase) Settings() model.CarsSettings {
	return model.CarsSettings{PopularLimit: cars.popularLimit}
}

// List use case returns the cars matching the `f` filter.
func (cars *UseCase) List(
	ctx context.Context, f model.CarFilter,
) (cs []model.Car, err error) {
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		return nil, cerr.BadRequest(fmt.Errorf(
			"%w: max price %v is negative",
			model.ErrInvalidCar, *f.MaxPrice,
		))
	}
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		cs, err = cars.carsrp.Conn(c).List(ctx, &f)
		return err
	})
	if err != nil {
		cs = nil
	}
	return
}

// Popular use case returns the most rented cars. A non-positive limit
// selects the configured default limit.
func (cars *UseCase) Popular(
	ctx context.Context, limit int,
) ([]model.Car, error) {
	if limit <= 0 {
		limit = cars.popularLimit
	}
	return cars.List(ctx, model.CarFilter{
		Sort:  model.CarSortPopular,
		Limit: limit,
	})
}

// Get use case returns the carID car or ErrCarNotFound.
func (cars *UseCase) Get(
	ctx context.Context, carID uuid.UUID,
) (car *model.Car, err error) {
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		car, err = cars.carsrp.Conn(c).Get(ctx, carID)
		return err
	})
	if err != nil {
		car = nil
	}
	return
}

// Create use case validates and stores a new car on behalf of the `p`
// vendor or admin. New cars are available and have not been rented.
func (cars *UseCase) Create(
	ctx context.Context, p *model.Principal, car *model.Car,
) (created *model.Car, err error) {
	if err = authorize(p); err != nil {
		return nil, err
	}
	c := *car
	c.ID = uuid.New()
	c.Available = true
	c.TimesRented = 0
	c.CreatedAt = cars.now()
	if err = c.Validate(c.CreatedAt); err != nil {
		return nil, cerr.BadRequest(err)
	}
	err = cars.pool.Conn(ctx, func(ctx context.Context, cn repo.Conn) error {
		created, err = cars.carsrp.Conn(cn).Create(ctx, &c)
		return err
	})
	if err != nil {
		created = nil
	}
	return
}

// Update use case applies the `patch` on the carID car on behalf of
// the `p` vendor or admin. The patched car is validated as a whole,
// in a transaction which locks the car row.
func (cars *UseCase) Update(
	ctx context.Context,
	p *model.Principal,
	carID uuid.UUID,
	patch *model.CarPatch,
) (car *model.Car, err error) {
	if err = authorize(p); err != nil {
		return nil, err
	}
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := cars.carsrp.Tx(tx)
			cur, err := q.Lock(ctx, carID)
			if err != nil {
				return err
			}
			patch.Apply(cur)
			if err := cur.Validate(cars.now()); err != nil {
				return cerr.BadRequest(err)
			}
			car, err = q.Update(ctx, carID, patch)
			return err
		})
	})
	if err != nil {
		car = nil
	}
	return
}

// Delete use case removes the carID car on behalf of the `p` vendor
// or admin. Cars which have rentals may not be deleted.
func (cars *UseCase) Delete(
	ctx context.Context, p *model.Principal, carID uuid.UUID,
) error {
	if err := authorize(p); err != nil {
		return err
	}
	return cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return cars.carsrp.Conn(c).Delete(ctx, carID)
	})
}

func authorize(p *model.Principal) error {
	if p == nil || p.UserID == uuid.Nil {
		return cerr.Authentication(fmt.Errorf(
			"%w: authentication is required", model.ErrForbidden,
		))
	}
	if !p.Role.CanManageCars() {
		return cerr.Authorization(fmt.Errorf(
			"%w: only vendors and admins may manage cars",
			model.ErrForbidden,
		))
	}
	return nil
}
