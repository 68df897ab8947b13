// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package rentalsuc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

// CheckAvailability use case reports whether the carID car may be
// booked for the [start, end) period, and which active rentals are
// blocking it. It has no side effects, so repeating it with no
// intervening writes gives the same result.
func (rentals *UseCase) CheckAvailability(
	ctx context.Context, carID uuid.UUID, start, end time.Time,
) (a *model.Availability, err error) {
	period, err := model.NewPeriod(start, end)
	if err != nil {
		return nil, cerr.BadRequest(err)
	}
	err = rentals.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		if _, err := rentals.carsrp.Conn(c).Get(ctx, carID); err != nil {
			return err
		}
		active, err := rentals.rentalsrp.Conn(c).ActivePeriods(ctx, carID)
		if err != nil {
			return err
		}
		blocking := model.Conflicts(period, active)
		a = &model.Availability{
			CarID:    carID,
			Period:   period,
			Conflict: len(blocking) > 0,
			Blocking: blocking,
		}
		return nil
	})
	if err != nil {
		a = nil
	}
	return
}

// ReservedPeriods use case lists the periods of the active rentals of
// the carID car, so the booking forms can mark them as reserved.
func (rentals *UseCase) ReservedPeriods(
	ctx context.Context, carID uuid.UUID,
) (ps []model.Period, err error) {
	err = rentals.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		if _, err := rentals.carsrp.Conn(c).Get(ctx, carID); err != nil {
			return err
		}
		ps, err = rentals.rentalsrp.Conn(c).ActivePeriods(ctx, carID)
		return err
	})
	if err != nil {
		ps = nil
	}
	return
}
