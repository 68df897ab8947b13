// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsuc

import (
	"errors"
	"fmt"
	"time"
)

// Option is a functional option for the cars use case.
type Option func(uc *UseCase) error

// WithPopularLimit option configures a cars UseCase instance in order
// to list as many popular cars when the caller does not ask for
// a specific number of cars. This option may be passed to New().
func WithPopularLimit(limit int) Option {
	return func(uc *UseCase) error {
		if limit <= 0 {
			return fmt.Errorf("popular limit (%d) is not positive", limit)
		}
		if uc.popularLimit != 0 {
			return errors.New("popular limit is already configured")
		}
		uc.popularLimit = limit
		return nil
	}
}

// WithClock option replaces the time.Now function which is used for
// timestamping new cars and validating their model year.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		uc.now = now
		return nil
	}
}
