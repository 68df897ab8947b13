// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// RentalStatus specifies the rental lifecycle state enum. Although it
// is numeric, it is (de)serialized as an upper-case string.
type RentalStatus int

// Valid values for the RentalStatus enum.
const (
	RentalStatusInvalid RentalStatus = iota // zero value is invalid

	RentalStatusPending   // initial state, car is held
	RentalStatusConfirmed // accepted by a vendor
	RentalStatusCompleted // terminal, car was returned
	RentalStatusCancelled // terminal, car was released
)

// transitions lists the allowed next states of each state.
// Terminal states have no entry.
var transitions = map[RentalStatus][]RentalStatus{
	RentalStatusPending: {
		RentalStatusConfirmed, RentalStatusCancelled,
	},
	RentalStatusConfirmed: {
		RentalStatusCompleted, RentalStatusCancelled,
	},
}

// RentalStatusError indicates an out of range RentalStatus value.
type RentalStatusError int

// Error implements the error interface.
func (e RentalStatusError) Error() string {
	return ErrInvalidStatus.Error() + ": " + strconv.Itoa(int(e))
}

// Unwrap makes a RentalStatusError match with ErrInvalidStatus.
func (e RentalStatusError) Unwrap() error {
	return ErrInvalidStatus
}

// Validate returns nil if `s` is one of the four known states.
func (s RentalStatus) Validate() error {
	switch s {
	case RentalStatusPending, RentalStatusConfirmed,
		RentalStatusCompleted, RentalStatusCancelled:
		return nil
	default:
		return RentalStatusError(s)
	}
}

// String converts the RentalStatus enum to a string. Invalid values
// are reported as INVALID.
func (s RentalStatus) String() string {
	switch s {
	case RentalStatusPending:
		return "PENDING"
	case RentalStatusConfirmed:
		return "CONFIRMED"
	case RentalStatusCompleted:
		return "COMPLETED"
	case RentalStatusCancelled:
		return "CANCELLED"
	default:
		return "INVALID"
	}
}

// ParseRentalStatus parses the given string as a RentalStatus.
// Unknown strings give RentalStatusInvalid and ErrInvalidStatus.
func ParseRentalStatus(s string) (RentalStatus, error) {
	switch s {
	case "PENDING":
		return RentalStatusPending, nil
	case "CONFIRMED":
		return RentalStatusConfirmed, nil
	case "COMPLETED":
		return RentalStatusCompleted, nil
	case "CANCELLED":
		return RentalStatusCancelled, nil
	default:
		return RentalStatusInvalid, ErrInvalidStatus
	}
}

// MarshalText implements the encoding.TextMarshaler interface.
func (s RentalStatus) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (s *RentalStatus) UnmarshalText(text []byte) (err error) {
	*s, err = ParseRentalStatus(string(text))
	return err
}

// IsActive reports if a rental in the `s` state holds its period.
func (s RentalStatus) IsActive() bool {
	return s == RentalStatusPending || s == RentalStatusConfirmed
}

// IsTerminal reports if no transition may leave the `s` state.
func (s RentalStatus) IsTerminal() bool {
	return s == RentalStatusCompleted || s == RentalStatusCancelled
}

// CanTransitionTo reports if `s` may be changed to the `next` state.
// Staying in the same state is not a transition and is rejected.
func (s RentalStatus) CanTransitionTo(next RentalStatus) bool {
	for _, n := range transitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

// ActiveRentalStatuses lists the states which hold a car period.
var ActiveRentalStatuses = []RentalStatus{
	RentalStatusPending, RentalStatusConfirmed,
}

// Rental models a booking of one car by one user for a Period.
// Car and User are optionally filled by listing queries.
type Rental struct {
	ID         uuid.UUID    `json:"id"`
	CarID      uuid.UUID    `json:"carId"`
	UserID     uuid.UUID    `json:"userId"`
	StartDate  time.Time    `json:"startDate"`
	EndDate    time.Time    `json:"endDate"`
	TotalPrice float64      `json:"totalPrice"`
	Status     RentalStatus `json:"status"`
	CreatedAt  time.Time    `json:"createdAt"`

	Car  *Car         `json:"car,omitempty"`
	User *UserSummary `json:"user,omitempty"`
}

// Period returns the [StartDate, EndDate) period of `r` rental.
func (r *Rental) Period() Period {
	return Period{Start: r.StartDate, End: r.EndDate}
}

// RentalFilter narrows down a rentals listing. Nil fields and an
// empty Statuses slice do not filter.
type RentalFilter struct {
	CarID    *uuid.UUID
	UserID   *uuid.UUID
	Statuses []RentalStatus
}

// BookingRequest is the input of a rental creation.
// The TotalPrice is optional and is only compared against the price
// which is computed from the car daily price.
type BookingRequest struct {
	CarID      uuid.UUID
	Start      time.Time
	End        time.Time
	TotalPrice *float64
}

// RentalEventKind names a rental lifecycle notification.
type RentalEventKind string

// Supported rental event kinds, used as routing keys too.
const (
	RentalCreated       RentalEventKind = "rental.created"
	RentalStatusChanged RentalEventKind = "rental.status_changed"
	RentalDeleted       RentalEventKind = "rental.deleted"
)

func (k RentalEventKind) String() string {
	return string(k)
}

// RentalEvent is published after a rental change is committed.
type RentalEvent struct {
	Kind       RentalEventKind `json:"kind"`
	Rental     Rental          `json:"rental"`
	PrevStatus *RentalStatus   `json:"prevStatus,omitempty"`
	At         time.Time       `json:"at"`
}
