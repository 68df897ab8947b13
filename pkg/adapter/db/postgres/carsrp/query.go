// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsrp realizes the repo.Cars interface with GORM.
// Each query is written once as a generic function, so it may run
// on a postgres.Conn or a postgres.Tx.
package carsrp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gCar struct {
	ID          uuid.UUID `gorm:"primaryKey;type:uuid"`
	Brand       string
	Model       string
	Year        int
	Color       string
	Price       float64
	Description string
	ImageURL    string `gorm:"column:image_url"`
	Available   bool
	Withdrawn   bool
	TimesRented int
	CreatedAt   time.Time
}

func (gc *gCar) TableName() string {
	return "cars"
}

func (gc *gCar) toModel() *model.Car {
	return &model.Car{
		ID:          gc.ID,
		Brand:       gc.Brand,
		Model:       gc.Model,
		Year:        gc.Year,
		Color:       gc.Color,
		Price:       gc.Price,
		Description: gc.Description,
		ImageURL:    gc.ImageURL,
		Available:   gc.Available,
		Withdrawn:   gc.Withdrawn,
		TimesRented: gc.TimesRented,
		CreatedAt:   gc.CreatedAt,
	}
}

func fromModel(c *model.Car) *gCar {
	return &gCar{
		ID:          c.ID,
		Brand:       c.Brand,
		Model:       c.Model,
		Year:        c.Year,
		Color:       c.Color,
		Price:       c.Price,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		Available:   c.Available,
		Withdrawn:   c.Withdrawn,
		TimesRented: c.TimesRented,
		CreatedAt:   c.CreatedAt,
	}
}

// likePattern escapes the LIKE wildcards of s and surrounds it with %.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func List[Q postgres.Queryer](ctx context.Context, q Q, f *model.CarFilter) ([]model.Car, error) {
	gdb := q.GORM(ctx).Model(&gCar{})
	if f.Brand != "" {
		gdb = gdb.Where("lower(brand) = lower(?)", f.Brand)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		p := likePattern(s)
		gdb = gdb.Where("brand ILIKE ? OR model ILIKE ?", p, p)
	}
	if f.MaxPrice != nil {
		gdb = gdb.Where("price <= ?", *f.MaxPrice)
	}
	if f.AvailableOnly {
		gdb = gdb.Where("available")
	}
	switch f.Sort {
	case model.CarSortPopular:
		gdb = gdb.Order("times_rented DESC").Order("created_at DESC")
	case model.CarSortPriceAsc:
		gdb = gdb.Order("price ASC").Order("created_at DESC")
	case model.CarSortPriceDesc:
		gdb = gdb.Order("price DESC").Order("created_at DESC")
	default:
		gdb = gdb.Order("created_at DESC")
	}
	gdb = gdb.Order("id")
	if f.Limit > 0 {
		gdb = gdb.Limit(f.Limit)
	}
	var gcs []gCar
	if err := gdb.Find(&gcs).Error; err != nil {
		return nil, fmt.Errorf("query: %w", postgres.Classify(err))
	}
	cars := make([]model.Car, 0, len(gcs))
	for i := range gcs {
		cars = append(cars, *gcs[i].toModel())
	}
	return cars, nil
}

func Get[Q postgres.Queryer](ctx context.Context, q Q, carID uuid.UUID) (*model.Car, error) {
	return get(q.GORM(ctx), carID)
}

// Lock selects the carID car FOR UPDATE, so it remains locked until
// the end of the current transaction.
func Lock(ctx context.Context, tx *postgres.Tx, carID uuid.UUID) (*model.Car, error) {
	return get(tx.GORM(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), carID)
}

func get(gdb *gorm.DB, carID uuid.UUID) (*model.Car, error) {
	var gcs []gCar
	res := gdb.Where("id=?", carID).Limit(1).Find(&gcs)
	if err := res.Error; err != nil {
		return nil, fmt.Errorf("query: %w", postgres.Classify(err))
	}
	if len(gcs) == 0 {
		return nil, cerr.NotFound(fmt.Errorf(
			"%w: %s", model.ErrCarNotFound, carID,
		))
	}
	return gcs[0].toModel(), nil
}

func Create[Q postgres.Queryer](ctx context.Context, q Q, c *model.Car) (*model.Car, error) {
	gc := fromModel(c)
	res := q.GORM(ctx).Clauses(clause.Returning{}).Create(gc)
	if err := res.Error; err != nil {
		return nil, constraintErr(fmt.Errorf("insert: %w", postgres.Classify(err)))
	}
	return gc.toModel(), nil
}

// Update overwrites the descriptive fields of the carID car with the
// non-nil fields of the `p` patch. A false p.Available withdraws the
// car and a true one lists it again, making it available unless it
// is held by a PENDING or CONFIRMED rental.
const notHeld = `NOT EXISTS (
	SELECT 1 FROM rentals r
	WHERE r.car_id=cars.id AND r.status IN ('PENDING', 'CONFIRMED')
)`

func Update[Q postgres.Queryer](ctx context.Context, q Q, carID uuid.UUID, p *model.CarPatch) (*model.Car, error) {
	cols := make(map[string]any, 8)
	if p.Brand != nil {
		cols["brand"] = *p.Brand
	}
	if p.Model != nil {
		cols["model"] = *p.Model
	}
	if p.Year != nil {
		cols["year"] = *p.Year
	}
	if p.Color != nil {
		cols["color"] = *p.Color
	}
	if p.Price != nil {
		cols["price"] = *p.Price
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.ImageURL != nil {
		cols["image_url"] = *p.ImageURL
	}
	if p.Available != nil {
		cols["withdrawn"] = !*p.Available
		cols["available"] = false
		if *p.Available {
			cols["available"] = gorm.Expr(notHeld)
		}
	}
	if len(cols) == 0 {
		return Get(ctx, q, carID)
	}
	return update(q.GORM(ctx), carID, cols)
}

func SetAvailable[Q postgres.Queryer](ctx context.Context, q Q, carID uuid.UUID, available bool) (*model.Car, error) {
	return update(q.GORM(ctx), carID, map[string]any{
		"available": available,
	})
}

func MarkRented[Q postgres.Queryer](ctx context.Context, q Q, carID uuid.UUID) (*model.Car, error) {
	return update(q.GORM(ctx), carID, map[string]any{
		"available":    false,
		"times_rented": gorm.Expr("times_rented + 1"),
	})
}

func update(gdb *gorm.DB, carID uuid.UUID, cols map[string]any) (*model.Car, error) {
	var gcs []gCar
	res := gdb.Model(&gcs).Clauses(clause.Returning{}).Where(
		"id=?", carID,
	).Updates(cols)
	if err := res.Error; err != nil {
		return nil, constraintErr(fmt.Errorf("update: %w", postgres.Classify(err)))
	}
	if len(gcs) != 1 {
		return nil, cerr.NotFound(fmt.Errorf(
			"%w: %s", model.ErrCarNotFound, carID,
		))
	}
	return gcs[0].toModel(), nil
}

func Delete[Q postgres.Queryer](ctx context.Context, q Q, carID uuid.UUID) error {
	res := q.GORM(ctx).Where("id=?", carID).Delete(&gCar{})
	if err := res.Error; err != nil {
		err = postgres.Classify(err)
		if postgres.IsViolation(err, pgerrcode.ForeignKeyViolation) {
			return cerr.Conflict(fmt.Errorf(
				"%w: %s", model.ErrCarHasRentals, carID,
			))
		}
		return fmt.Errorf("delete: %w", err)
	}
	if res.RowsAffected == 0 {
		return cerr.NotFound(fmt.Errorf(
			"%w: %s", model.ErrCarNotFound, carID,
		))
	}
	return nil
}

// constraintErr reports CHECK violations (e.g., a negative price which
// bypassed the use cases validation) as bad requests.
func constraintErr(err error) error {
	if postgres.IsViolation(err, pgerrcode.CheckViolation) {
		return cerr.BadRequest(fmt.Errorf("%w: %w", model.ErrInvalidCar, err))
	}
	return err
}
