// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "time"

// VisibleSettings contains the settings which may be reported to the
// web clients, so they can adapt their forms. For example, the booking
// form may limit the selectable end date based on the MaxRentalDays.
type VisibleSettings struct {
	Booking BookingSettings `json:"booking"`
	Cars    CarsSettings    `json:"cars"`

	*ImmutableSettings
}

// BookingSettings contains the rental creation policy settings.
type BookingSettings struct {
	// PriceTolerance is the maximum accepted distance between a
	// client computed total price and the server computed one.
	PriceTolerance float64 `json:"price_tolerance"`

	// MaxRentalDays limits the length of a rental, zero means no limit.
	MaxRentalDays int `json:"max_rental_days"`
}

// CarsSettings contains the cars listing settings.
type CarsSettings struct {
	// PopularLimit is the default number of popular cars to list.
	PopularLimit int `json:"popular_limit"`
}

// ImmutableSettings contains settings which are fixed by the
// configuration file for each execution.
type ImmutableSettings struct {
	// Logger reports if server-side REST API logging is enabled.
	Logger bool `json:"logger"`

	// TokenTTL is the lifetime of authentication tokens.
	TokenTTL time.Duration `json:"token_ttl"`
}
