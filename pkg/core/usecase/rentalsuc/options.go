// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package rentalsuc

import (
	"errors"
	"fmt"
	"time"
)

// Option is a functional option for the rentals use case.
type Option func(uc *UseCase) error

// WithPriceTolerance option configures the maximum accepted absolute
// difference between a client provided total price and the total
// price which is computed from the car daily price.
// The default tolerance is one cent.
func WithPriceTolerance(t float64) Option {
	return func(uc *UseCase) error {
		if t < 0 {
			return fmt.Errorf("price tolerance (%v) is negative", t)
		}
		if uc.priceTolerance != nil {
			return errors.New("price tolerance is already configured")
		}
		uc.priceTolerance = &t
		return nil
	}
}

// WithMaxRentalDays option limits the number of days of a rental.
// By default, rentals are not limited.
func WithMaxRentalDays(days int) Option {
	return func(uc *UseCase) error {
		if days <= 0 {
			return fmt.Errorf("max rental days (%d) is not positive", days)
		}
		if uc.maxRentalDays != 0 {
			return errors.New("max rental days is already configured")
		}
		uc.maxRentalDays = days
		return nil
	}
}

// WithNotifier option configures a Notifier which is informed about
// the committed rental changes. By default, events are only logged.
func WithNotifier(n Notifier) Option {
	return func(uc *UseCase) error {
		if n == nil {
			return errors.New("notifier is nil")
		}
		if uc.notifier != nil {
			return errors.New("notifier is already configured")
		}
		uc.notifier = n
		return nil
	}
}

// WithClock option replaces the time.Now function which is used for
// timestamping the rentals and their events.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		uc.now = now
		return nil
	}
}
