// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// By the way, it is acceptable to annotate structs in this package with
// multiple frameworks dependent tags (e.g., json tags as expected by
// the web clients) since adding more tags does not complicate the
// definition of a struct, but can prevent unnecessary duplication.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MinCarYear is the oldest acceptable car model year.
const MinCarYear = 1886

// Car models a rentable car which may be persisted in a database.
// The Available flag and TimesRented counter are owned by the rentals
// use cases and may not be changed through a CarPatch directly.
// A vendor withdraws a car (or lists it again) by patching Available,
// which sets the Withdrawn flag. A withdrawn car is never available
// and its availability is not restored by releasing its rentals.
// For the corresponding struct which is stored in the database, see
// the unexported gCar struct in pkg/adapter/db/postgres/carsrp package.
type Car struct {
	ID          uuid.UUID `json:"id"`
	Brand       string    `json:"brand"`
	Model       string    `json:"model"`
	Year        int       `json:"year"`
	Color       string    `json:"color"`
	Price       float64   `json:"price"` // per day
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	Available   bool      `json:"available"`
	Withdrawn   bool      `json:"withdrawn"`
	TimesRented int       `json:"timesRented"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ErrInvalidCar indicates that some fields of a car do not hold
// acceptable values. It is wrapped with the offending field name.
var ErrInvalidCar = errors.New("invalid car")

// Validate checks the descriptive fields of the `c` car and returns
// an error wrapping ErrInvalidCar for the first unacceptable field.
// The `now` argument is used for finding the newest acceptable year
// which is one year after the current year (for upcoming models).
func (c *Car) Validate(now time.Time) error {
	switch {
	case strings.TrimSpace(c.Brand) == "":
		return fmt.Errorf("%w: brand is empty", ErrInvalidCar)
	case strings.TrimSpace(c.Model) == "":
		return fmt.Errorf("%w: model is empty", ErrInvalidCar)
	case strings.TrimSpace(c.Color) == "":
		return fmt.Errorf("%w: color is empty", ErrInvalidCar)
	case c.Year < MinCarYear || c.Year > now.Year()+1:
		return fmt.Errorf(
			"%w: year %d is not in [%d, %d]",
			ErrInvalidCar, c.Year, MinCarYear, now.Year()+1,
		)
	case c.Price < 0:
		return fmt.Errorf("%w: price %v is negative", ErrInvalidCar, c.Price)
	}
	return nil
}

// CarPatch holds the optional fields of a car update request.
// Nil fields are left intact.
type CarPatch struct {
	Brand       *string  `json:"brand"`
	Model       *string  `json:"model"`
	Year        *int     `json:"year"`
	Color       *string  `json:"color"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"imageUrl"`
	Available   *bool    `json:"available"`
}

// Apply overwrites the `c` fields with the non-nil fields of `p`.
// A false Available withdraws the car, while a true Available only
// clears its Withdrawn flag. Whether a listed car is available also
// depends on its active rentals, so repositories decide it.
func (p *CarPatch) Apply(c *Car) {
	if p.Brand != nil {
		c.Brand = *p.Brand
	}
	if p.Model != nil {
		c.Model = *p.Model
	}
	if p.Year != nil {
		c.Year = *p.Year
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.Price != nil {
		c.Price = *p.Price
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.ImageURL != nil {
		c.ImageURL = *p.ImageURL
	}
	if p.Available != nil {
		c.Withdrawn = !*p.Available
		if c.Withdrawn {
			c.Available = false
		}
	}
}

// CarSort specifies the order of cars in a listing.
type CarSort int

// Valid values for the CarSort enum.
const (
	CarSortNewest    CarSort = iota // zero value, newest cars first
	CarSortPopular                  // most rented cars first
	CarSortPriceAsc                 // cheapest cars first
	CarSortPriceDesc                // most expensive cars first
)

// ErrUnknownCarSort indicates that a string is not a known CarSort.
var ErrUnknownCarSort = errors.New("unknown car sort order")

// ParseCarSort parses the given string as a CarSort. An empty string
// selects the default CarSortNewest order.
func ParseCarSort(s string) (CarSort, error) {
	switch s {
	case "", "newest":
		return CarSortNewest, nil
	case "popular":
		return CarSortPopular, nil
	case "price-asc":
		return CarSortPriceAsc, nil
	case "price-desc":
		return CarSortPriceDesc, nil
	default:
		return CarSortNewest, ErrUnknownCarSort
	}
}

// String returns the string representation of the CarSort enum.
func (s CarSort) String() string {
	switch s {
	case CarSortPopular:
		return "popular"
	case CarSortPriceAsc:
		return "price-asc"
	case CarSortPriceDesc:
		return "price-desc"
	default:
		return "newest"
	}
}

// CarFilter narrows down a cars listing. Zero fields do not filter.
type CarFilter struct {
	Brand         string   // exact brand, case-insensitive
	Query         string   // substring of brand or model
	MaxPrice      *float64 // inclusive upper bound of the daily price
	AvailableOnly bool
	Sort          CarSort
	Limit         int // zero means no limit
}
