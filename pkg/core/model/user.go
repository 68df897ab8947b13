// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Role specifies the user role enum. It is (de)serialized as the
// upper-case strings USER, VENDEUR, and ADMIN.
type Role int

// Valid values for the Role enum.
const (
	RoleInvalid Role = iota // zero value is invalid

	RoleUser    // renter, may book cars and cancel own rentals
	RoleVendeur // vendor, manages cars and rentals
	RoleAdmin   // manages everything including users
)

// ErrUnknownRole indicates that a string is not a known Role.
var ErrUnknownRole = errors.New("unknown role")

// ParseRole parses the given string as a Role.
func ParseRole(r string) (Role, error) {
	switch r {
	case "USER":
		return RoleUser, nil
	case "VENDEUR":
		return RoleVendeur, nil
	case "ADMIN":
		return RoleAdmin, nil
	default:
		return RoleInvalid, ErrUnknownRole
	}
}

// String converts the Role enum to a string.
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "USER"
	case RoleVendeur:
		return "VENDEUR"
	case RoleAdmin:
		return "ADMIN"
	default:
		return "INVALID"
	}
}

// Validate returns nil if `r` is a known role.
func (r Role) Validate() error {
	if r < RoleUser || r > RoleAdmin {
		return ErrUnknownRole
	}
	return nil
}

// MarshalText implements the encoding.TextMarshaler interface.
func (r Role) MarshalText() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (r *Role) UnmarshalText(text []byte) (err error) {
	*r, err = ParseRole(string(text))
	return err
}

// CanManageCars reports if the `r` role may create, update, or delete
// cars and may change the status of rentals of other users.
func (r Role) CanManageCars() bool {
	return r == RoleVendeur || r == RoleAdmin
}

// CanManageUsers reports if the `r` role may list and modify users.
func (r Role) CanManageUsers() bool {
	return r == RoleAdmin
}

// User models a registered account. The PasswordHash is never
// serialized for the web clients.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Summary returns the publicly visible parts of `u`.
func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Email: u.Email, Name: u.Name}
}

// UserSummary is included in the rentals listing.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// UserPatch holds the optional fields of a user update request.
type UserPatch struct {
	Name *string `json:"name"`
	Role *Role   `json:"role"`
}

// Principal identifies the authenticated caller of a use case.
// It is passed explicitly into every operation which depends on the
// caller identity instead of being kept as an ambient state.
type Principal struct {
	UserID uuid.UUID
	Role   Role
}

// Owns reports if the `p` principal is the given user.
func (p *Principal) Owns(userID uuid.UUID) bool {
	return p != nil && p.UserID == userID
}

// Token is a signed authentication token and its expiry time.
type Token struct {
	Value     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Session is the result of a successful login or registration.
type Session struct {
	Token
	User *User `json:"user"`
}
