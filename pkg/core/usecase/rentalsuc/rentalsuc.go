// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package rentalsuc contains the rentals UseCase which supports the
// booking related use cases:
//  1. Checking the availability of a car for a period,
//  2. Creating a rental (booking a car) atomically,
//  3. Changing the status of a rental following its state machine,
//  4. Deleting a rental, and listing or fetching rentals.
//
// For one car, the PENDING and CONFIRMED rentals must never overlap.
// Since this is not enforced by a database constraint, all mutations
// run in a transaction which locks the car row first. So concurrent
// bookings of one car are serialized and the latter one observes the
// rental which is created by the former one.
package rentalsuc

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/log"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

// Notifier is informed about the committed rental changes, e.g.,
// in order to publish them on a message broker. Its failures are
// logged and do not fail the use case since the change is already
// committed.
type Notifier interface {
	RentalEvent(ctx context.Context, ev *model.RentalEvent) error
}

// UseCase represents a rentals use case. It holds a database
// connection pool, the cars and rentals repository instances, and the
// booking policy settings.
type UseCase struct {
	pool      repo.Pool
	carsrp    repo.Cars
	rentalsrp repo.Rentals

	notifier       Notifier
	priceTolerance *float64
	maxRentalDays  int
	now            func() time.Time
}

// New instantiates a rentals use case.
// Required parameters are passed individually, while optional ones
// are passed as functional options.
func New(
	p repo.Pool, c repo.Cars, r repo.Rentals, opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{pool: p, carsrp: c, rentalsrp: r}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.priceTolerance == nil {
		t := 0.01
		uc.priceTolerance = &t
	}
	if uc.notifier == nil {
		uc.notifier = logNotifier{}
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc, nil
}

// Settings reports the booking policy of this use case.
func (rentals *UseCase) Settings() model.BookingSettings {
	return model.BookingSettings{
		PriceTolerance: *rentals.priceTolerance,
		MaxRentalDays:  rentals.maxRentalDays,
	}
}

// GetRental returns one rental. Renters may only fetch their own
// rentals, while vendors and admins may fetch all rentals.
func (rentals *UseCase) GetRental(
	ctx context.Context, p *model.Principal, rentalID uuid.UUID,
) (r *model.Rental, err error) {
	if err = authenticated(p); err != nil {
		return nil, err
	}
	err = rentals.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		r, err = rentals.rentalsrp.Conn(c).Get(ctx, rentalID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !p.Role.CanManageCars() && !p.Owns(r.UserID) {
		return nil, cerr.Authorization(fmt.Errorf(
			"%w: rental belongs to another user", model.ErrForbidden,
		))
	}
	return r, nil
}

// ListRentals returns the rentals which match the `f` filter. For the
// renters, the filter is narrowed down to their own rentals.
func (rentals *UseCase) ListRentals(
	ctx context.Context, p *model.Principal, f model.RentalFilter,
) (rs []model.Rental, err error) {
	if err = authenticated(p); err != nil {
		return nil, err
	}
	if !p.Role.CanManageCars() {
		uid := p.UserID
		f.UserID = &uid
	}
	err = rentals.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		rs, err = rentals.rentalsrp.Conn(c).List(ctx, &f)
		return err
	})
	if err != nil {
		rs = nil
	}
	return
}

func (rentals *UseCase) notify(
	ctx context.Context,
	kind model.RentalEventKind,
	r *model.Rental,
	prev *model.RentalStatus,
) {
	ev := &model.RentalEvent{
		Kind:       kind,
		Rental:     *r,
		PrevStatus: prev,
		At:         rentals.now(),
	}
	if err := rentals.notifier.RentalEvent(ctx, ev); err != nil {
		log.Warn(
			ctx, "failed to notify rental event",
			log.Stringer("kind", kind), log.Stringer("rental", r.ID),
			log.Err("err", err),
		)
	}
}

// logNotifier is the default Notifier which only logs the events.
type logNotifier struct{}

func (logNotifier) RentalEvent(ctx context.Context, ev *model.RentalEvent) error {
	log.Debug(
		ctx, "rental event",
		log.Stringer("kind", ev.Kind),
		log.Stringer("rental", ev.Rental.ID),
		log.Stringer("status", ev.Rental.Status),
	)
	return nil
}

func authenticated(p *model.Principal) error {
	if p == nil || p.UserID == uuid.Nil {
		return cerr.Authentication(fmt.Errorf(
			"%w: authentication is required", model.ErrForbidden,
		))
	}
	return nil
}
