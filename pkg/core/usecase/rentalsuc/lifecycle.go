// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package rentalsuc

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/log"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

// UpdateStatus use case moves the rentalID rental to the `status`
// state. Unknown states and the transitions which are not allowed by
// the state machine (including any transition out of COMPLETED or
// CANCELLED) give ErrInvalidStatus. Renters may only cancel their
// own rentals, while vendors and admins may perform all transitions.
//
// The car of the rental is updated in the same transaction:
//   - CONFIRMED marks it unavailable and counts it as rented once,
//   - CANCELLED and COMPLETED recompute its availability from its
//     remaining active rentals.
func (rentals *UseCase) UpdateStatus(
	ctx context.Context,
	p *model.Principal,
	rentalID uuid.UUID,
	status string,
) (r *model.Rental, err error) {
	if err = authenticated(p); err != nil {
		return nil, err
	}
	next, err := model.ParseRentalStatus(status)
	if err != nil {
		return nil, cerr.BadRequest(fmt.Errorf("%w: %q", err, status))
	}
	var prev model.RentalStatus
	err = rentals.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			cq := rentals.carsrp.Tx(tx)
			rq := rentals.rentalsrp.Tx(tx)
			cur, err := rentals.lock(ctx, cq, rq, rentalID)
			if err != nil {
				return err
			}
			if err := authorizeTransition(p, cur, next); err != nil {
				return err
			}
			prev = cur.Status
			if !prev.CanTransitionTo(next) {
				return cerr.BadRequest(fmt.Errorf(
					"%w: transition from %s to %s is not allowed",
					model.ErrInvalidStatus, prev, next,
				))
			}
			r, err = rq.UpdateStatus(ctx, rentalID, next)
			if err != nil {
				return err
			}
			switch next {
			case model.RentalStatusConfirmed:
				_, err = cq.MarkRented(ctx, r.CarID)
			case model.RentalStatusCancelled, model.RentalStatusCompleted:
				err = releaseCar(ctx, cq, rq, r.CarID)
			}
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	log.Info(
		ctx, "rental status is changed",
		log.Stringer("rental", r.ID),
		log.Stringer("from", prev), log.Stringer("to", next),
	)
	rentals.notify(ctx, model.RentalStatusChanged, r, &prev)
	return r, nil
}

// DeleteRental use case removes the rentalID rental as an explicit
// administrative action, so only vendors and admins may call it.
// Availability of its car is recomputed from the remaining active
// rentals, so the car becomes available unless another PENDING or
// CONFIRMED rental still holds it.
func (rentals *UseCase) DeleteRental(
	ctx context.Context, p *model.Principal, rentalID uuid.UUID,
) error {
	if err := authenticated(p); err != nil {
		return err
	}
	if !p.Role.CanManageCars() {
		return cerr.Authorization(fmt.Errorf(
			"%w: only vendors and admins may delete rentals",
			model.ErrForbidden,
		))
	}
	var deleted *model.Rental
	err := rentals.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			cq := rentals.carsrp.Tx(tx)
			rq := rentals.rentalsrp.Tx(tx)
			r, err := rentals.lock(ctx, cq, rq, rentalID)
			if err != nil {
				return err
			}
			if err := rq.Delete(ctx, rentalID); err != nil {
				return err
			}
			deleted = r
			return releaseCar(ctx, cq, rq, r.CarID)
		})
	})
	if err != nil {
		return err
	}
	log.Info(ctx, "rental is deleted", log.Stringer("rental", rentalID))
	rentals.notify(ctx, model.RentalDeleted, deleted, nil)
	return nil
}

// lock locks the car of the rentalID rental and then the rental row
// itself. Both mutating paths lock a car before its rentals, so they
// may not deadlock with each other or with a booking.
func (rentals *UseCase) lock(
	ctx context.Context,
	cq repo.CarsTxQueryer,
	rq repo.RentalsTxQueryer,
	rentalID uuid.UUID,
) (*model.Rental, error) {
	r, err := rq.Get(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if _, err = cq.Lock(ctx, r.CarID); err != nil {
		return nil, fmt.Errorf("locking car of rental: %w", err)
	}
	return rq.Lock(ctx, rentalID)
}

// releaseCar makes carID available if it has no more active rentals,
// unless it is withdrawn.
func releaseCar(
	ctx context.Context,
	cq repo.CarsTxQueryer,
	rq repo.RentalsTxQueryer,
	carID uuid.UUID,
) error {
	car, err := cq.Get(ctx, carID)
	if err != nil {
		return err
	}
	active, err := rq.ActivePeriods(ctx, carID)
	if err != nil {
		return err
	}
	_, err = cq.SetAvailable(ctx, carID, len(active) == 0 && !car.Withdrawn)
	return err
}

func authorizeTransition(
	p *model.Principal, r *model.Rental, next model.RentalStatus,
) error {
	if p.Role.CanManageCars() {
		return nil
	}
	if !p.Owns(r.UserID) {
		return cerr.Authorization(fmt.Errorf(
			"%w: rental belongs to another user", model.ErrForbidden,
		))
	}
	if next != model.RentalStatusCancelled {
		return cerr.Authorization(fmt.Errorf(
			"%w: renters may only cancel their rentals",
			model.ErrForbidden,
		))
	}
	return nil
}
