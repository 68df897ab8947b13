// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package rentalsuc

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/log"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

// CreateRental use case books the req.CarID car for the `p` principal.
// The following steps run in one transaction:
//  1. the car row is locked (or ErrCarNotFound is returned),
//  2. the active periods of the car are loaded,
//  3. a car which was withdrawn by its vendor gives ErrCarUnavailable,
//  4. an overlapping active period gives ErrBookingConflict,
//  5. the total price is computed as days times the daily price and
//     a diverging req.TotalPrice gives ErrPriceMismatch,
//  6. a PENDING rental is inserted and the car is held (unavailable).
//
// The period is validated beforehand and gives ErrInvalidRange (or
// ErrRentalTooLong if it exceeds the configured maximum days).
func (rentals *UseCase) CreateRental(
	ctx context.Context, p *model.Principal, req *model.BookingRequest,
) (r *model.Rental, err error) {
	if err = authenticated(p); err != nil {
		return nil, err
	}
	period, err := model.NewPeriod(req.Start, req.End)
	if err != nil {
		return nil, cerr.BadRequest(err)
	}
	if m := rentals.maxRentalDays; m > 0 && period.Days() > m {
		return nil, cerr.BadRequest(fmt.Errorf(
			"%w: %d days exceed %d days",
			model.ErrRentalTooLong, period.Days(), m,
		))
	}
	err = rentals.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			r, err = rentals.book(ctx, tx, p, req, period)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	log.Info(
		ctx, "rental is created",
		log.Stringer("rental", r.ID), log.Stringer("car", r.CarID),
		log.Stringer("period", r.Period()),
	)
	rentals.notify(ctx, model.RentalCreated, r, nil)
	return r, nil
}

func (rentals *UseCase) book(
	ctx context.Context,
	tx repo.Tx,
	p *model.Principal,
	req *model.BookingRequest,
	period model.Period,
) (*model.Rental, error) {
	cq := rentals.carsrp.Tx(tx)
	rq := rentals.rentalsrp.Tx(tx)
	car, err := cq.Lock(ctx, req.CarID)
	if err != nil {
		return nil, err
	}
	active, err := rq.ActivePeriods(ctx, car.ID)
	if err != nil {
		return nil, err
	}
	if car.Withdrawn {
		return nil, cerr.Conflict(fmt.Errorf(
			"%w: car %s is withdrawn", model.ErrCarUnavailable, car.ID,
		))
	}
	if blocking := model.Conflicts(period, active); len(blocking) > 0 {
		return nil, cerr.Conflict(fmt.Errorf(
			"%w: %s overlaps %s",
			model.ErrBookingConflict, period, blocking[0],
		))
	}
	total := model.RentalPrice(period, car.Price)
	if tp := req.TotalPrice; tp != nil {
		if math.Abs(*tp-total) > *rentals.priceTolerance {
			return nil, cerr.BadRequest(fmt.Errorf(
				"%w: expected %.2f, but got %.2f",
				model.ErrPriceMismatch, total, *tp,
			))
		}
	}
	r, err := rq.Create(ctx, &model.Rental{
		ID:         uuid.New(),
		CarID:      car.ID,
		UserID:     p.UserID,
		StartDate:  period.Start,
		EndDate:    period.End,
		TotalPrice: total,
		Status:     model.RentalStatusPending,
		CreatedAt:  rentals.now(),
	})
	if err != nil {
		return nil, err
	}
	if car.Available {
		if _, err = cq.SetAvailable(ctx, car.ID, false); err != nil {
			return nil, err
		}
	}
	return r, nil
}
