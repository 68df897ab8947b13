// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the layout of a date-only rental boundary.
const DateLayout = "2006-01-02"

// Period is a half-open [Start, End) interval of days. The End day is
// not occupied, so a rental which ends on some day does not conflict
// with another rental which starts on that same day.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewPeriod creates a Period having the given boundaries.
// ErrInvalidRange is returned unless end is after start.
func NewPeriod(start, end time.Time) (Period, error) {
	if !end.After(start) {
		return Period{}, fmt.Errorf(
			"%w: %s is not after %s", ErrInvalidRange,
			end.Format(DateLayout), start.Format(DateLayout),
		)
	}
	return Period{Start: start, End: end}, nil
}

// Overlaps reports if `p` and `o` share at least one instant.
func (p Period) Overlaps(o Period) bool {
	return p.Start.Before(o.End) && p.End.After(o.Start)
}

// Days returns the number of started days in the `p` period.
func (p Period) Days() int {
	return int(math.Ceil(p.End.Sub(p.Start).Hours() / 24))
}

// String formats `p` like [2024-01-01, 2024-01-05).
func (p Period) String() string {
	return fmt.Sprintf(
		"[%s, %s)", p.Start.Format(DateLayout), p.End.Format(DateLayout),
	)
}

// Conflicts returns those members of the `existing` periods which
// overlap with the `candidate` period, keeping their relative order.
// A nil slice is returned when there is no conflict.
func Conflicts(candidate Period, existing []Period) []Period {
	var blocking []Period
	for _, e := range existing {
		if candidate.Overlaps(e) {
			blocking = append(blocking, e)
		}
	}
	return blocking
}

// RentalPrice computes the total price of renting a car with the
// given daily price for the `p` period, rounded to cents.
func RentalPrice(p Period, daily float64) float64 {
	return math.Round(float64(p.Days())*daily*100) / 100
}

// Availability reports whether a car may be booked for a Period.
// Blocking lists the active rental periods which overlap with it.
type Availability struct {
	CarID    uuid.UUID `json:"carId"`
	Period   Period    `json:"period"`
	Conflict bool      `json:"conflict"`
	Blocking []Period  `json:"blocking"`
}
