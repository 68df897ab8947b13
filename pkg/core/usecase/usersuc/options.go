// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package usersuc

import (
	"errors"
	"fmt"
	"time"
)

// Option is a functional option for the users use case.
type Option func(uc *UseCase) error

// WithMinPasswordLength option configures the minimum number of bytes
// of a password during registration. The default value is 6.
func WithMinPasswordLength(n int) Option {
	return func(uc *UseCase) error {
		if n <= 0 {
			return fmt.Errorf("min password length (%d) is not positive", n)
		}
		if uc.minPasswordLen != 0 {
			return errors.New("min password length is already configured")
		}
		uc.minPasswordLen = n
		return nil
	}
}

// WithClock option replaces the time.Now function which is used for
// timestamping the registered users.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		uc.now = now
		return nil
	}
}
