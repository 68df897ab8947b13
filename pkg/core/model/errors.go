// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "errors"

// These errors describe the domain failure kinds. They carry no
// parameters since callers know their own arguments; the use cases
// wrap them with more context and classify them using the cerr package
// constructors, so they may be matched with errors.Is at any level.
var (
	ErrCarNotFound     = errors.New("car not found")
	ErrCarUnavailable  = errors.New("car is not available")
	ErrCarHasRentals   = errors.New("car has rentals")
	ErrBookingConflict = errors.New("car is already reserved for this period")
	ErrInvalidRange    = errors.New("end date must be after start date")
	ErrRentalTooLong   = errors.New("rental period is too long")
	ErrPriceMismatch   = errors.New("total price does not match the car price")
	ErrRentalNotFound  = errors.New("rental not found")
	ErrInvalidStatus   = errors.New("invalid rental status")

	ErrUserNotFound       = errors.New("user not found")
	ErrUserHasRentals     = errors.New("user has rentals")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password is too short")
	ErrForbidden          = errors.New("operation is not permitted")
)
