// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package migration creates the tables of the crweb database schema
// and fills them with the development or production suitable data.
// The Initializer type realizes the repo.SchemaInitializer interface.
//
// Tables are dropped and created again, so an initialization must only
// be performed on a fresh database or when the existing data rows may
// be discarded.
package migration

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres/carsrp"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres/rentalsrp"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres/usersrp"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

//go:embed schema.sql
var schemaSQL string

// Initializer wraps a transaction and creates the crweb tables in it.
// The caller is responsible to commit that transaction.
type Initializer struct {
	tx  *postgres.Tx
	now func() time.Time
}

// New creates an Initializer for the `tx` transaction which must be
// created by the postgres package.
func New(tx repo.Tx) *Initializer {
	return &Initializer{tx: tx.(*postgres.Tx), now: time.Now}
}

// Version returns the schema version which is created by Initializer.
func (i *Initializer) Version() model.SemVer {
	return postgres.Version
}

func (i *Initializer) createTables(ctx context.Context) error {
	if _, err := i.tx.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// InitDevSchema creates the tables and inserts the `users` accounts,
// the DevCars, and a few rentals of the first user (if any) which
// cover every rental status.
func (i *Initializer) InitDevSchema(ctx context.Context, users []*model.User) error {
	if err := i.createTables(ctx); err != nil {
		return err
	}
	for _, u := range users {
		if _, err := usersrp.Create(ctx, i.tx, u); err != nil {
			return fmt.Errorf("inserting %q user: %w", u.Email, err)
		}
	}
	now := i.now()
	cars := DevCars()
	for j := range cars {
		c := &cars[j]
		c.ID = uuid.New()
		// keeps the newest-first order equal to the DevCars order
		c.CreatedAt = now.Add(-time.Duration(j) * time.Minute)
	}
	if len(users) == 0 {
		return i.insertCars(ctx, cars)
	}
	today := now.UTC().Truncate(24 * time.Hour)
	day := func(n int) time.Time {
		return today.AddDate(0, 0, n)
	}
	renter := users[0].ID
	rentals := []model.Rental{
		{CarID: cars[0].ID, StartDate: day(-20), EndDate: day(-15), Status: model.RentalStatusCompleted},
		{CarID: cars[0].ID, StartDate: day(1), EndDate: day(4), Status: model.RentalStatusCancelled},
		{CarID: cars[1].ID, StartDate: day(3), EndDate: day(7), Status: model.RentalStatusConfirmed},
		{CarID: cars[2].ID, StartDate: day(10), EndDate: day(12), Status: model.RentalStatusPending},
	}
	byID := make(map[uuid.UUID]*model.Car, len(cars))
	for j := range cars {
		byID[cars[j].ID] = &cars[j]
	}
	for j := range rentals {
		r := &rentals[j]
		c := byID[r.CarID]
		r.ID = uuid.New()
		r.UserID = renter
		r.TotalPrice = model.RentalPrice(r.Period(), c.Price)
		r.CreatedAt = now
		switch r.Status {
		case model.RentalStatusConfirmed, model.RentalStatusCompleted:
			c.TimesRented++
		}
		if r.Status.IsActive() {
			c.Available = false
		}
	}
	if err := i.insertCars(ctx, cars); err != nil {
		return err
	}
	for j := range rentals {
		if _, err := rentalsrp.Create(ctx, i.tx, &rentals[j]); err != nil {
			return fmt.Errorf("inserting rental #%d: %w", j, err)
		}
	}
	return nil
}

func (i *Initializer) insertCars(ctx context.Context, cars []model.Car) error {
	for j := range cars {
		if _, err := carsrp.Create(ctx, i.tx, &cars[j]); err != nil {
			return fmt.Errorf(
				"inserting %s %s car: %w", cars[j].Brand, cars[j].Model, err,
			)
		}
	}
	return nil
}

// InitProdSchema creates the tables and inserts the `admin` user.
func (i *Initializer) InitProdSchema(ctx context.Context, admin *model.User) error {
	if err := i.createTables(ctx); err != nil {
		return err
	}
	if _, err := usersrp.Create(ctx, i.tx, admin); err != nil {
		return fmt.Errorf("inserting admin user: %w", err)
	}
	return nil
}
