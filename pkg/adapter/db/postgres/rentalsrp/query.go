// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package rentalsrp realizes the repo.Rentals interface with GORM.
package rentalsrp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// userFKey is the name of the rentals.user_id foreign key constraint.
const userFKey = "rentals_user_id_fkey"

type gRental struct {
	ID         uuid.UUID `gorm:"primaryKey;type:uuid"`
	CarID      uuid.UUID `gorm:"type:uuid"`
	UserID     uuid.UUID `gorm:"type:uuid"`
	StartDate  time.Time `gorm:"type:date"`
	EndDate    time.Time `gorm:"type:date"`
	TotalPrice float64
	Status     string
	CreatedAt  time.Time

	Car  *gCar  `gorm:"foreignKey:CarID"`
	User *gUser `gorm:"foreignKey:UserID"`
}

func (gr *gRental) TableName() string {
	return "rentals"
}

func (gr *gRental) toModel() (*model.Rental, error) {
	s, err := model.ParseRentalStatus(gr.Status)
	if err != nil {
		return nil, cerr.Storage(fmt.Errorf(
			"rental %s has %q status: %w", gr.ID, gr.Status, err,
		))
	}
	r := &model.Rental{
		ID:         gr.ID,
		CarID:      gr.CarID,
		UserID:     gr.UserID,
		StartDate:  gr.StartDate.UTC(),
		EndDate:    gr.EndDate.UTC(),
		TotalPrice: gr.TotalPrice,
		Status:     s,
		CreatedAt:  gr.CreatedAt,
	}
	if gr.Car != nil {
		r.Car = gr.Car.toModel()
	}
	if gr.User != nil {
		r.User = &model.UserSummary{
			ID:    gr.User.ID,
			Email: gr.User.Email,
			Name:  gr.User.Name,
		}
	}
	return r, nil
}

// gCar holds the car columns which are shown in a rentals listing.
type gCar struct {
	ID          uuid.UUID `gorm:"primaryKey;type:uuid"`
	Brand       string
	Model       string
	Year        int
	Color       string
	Price       float64
	ImageURL    string `gorm:"column:image_url"`
	Available   bool
	Withdrawn   bool
	TimesRented int
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
		ImageURL:    gc.ImageURL,
		Available:   gc.Available,
		Withdrawn:   gc.Withdrawn,
		TimesRented: gc.TimesRented,
	}
}

type gUser struct {
	ID    uuid.UUID `gorm:"primaryKey;type:uuid"`
	Email string
	Name  string
}

func (gu *gUser) TableName() string {
	return "users"
}

func models(grs []gRental) ([]model.Rental, error) {
	rs := make([]model.Rental, 0, len(grs))
	for i := range grs {
		r, err := grs[i].toModel()
		if err != nil {
			return nil, err
		}
		rs = append(rs, *r)
	}
	return rs, nil
}

func statusNames(ss []model.RentalStatus) []string {
	names := make([]string, 0, len(ss))
	for _, s := range ss {
		names = append(names, s.String())
	}
	return names
}

func Get[Q postgres.Queryer](ctx context.Context, q Q, rentalID uuid.UUID) (*model.Rental, error) {
	return get(q.GORM(ctx).Preload("Car").Preload("User"), rentalID)
}

// Lock selects the rentalID rental FOR UPDATE. Its car and user are
// not preloaded.
func Lock(ctx context.Context, tx *postgres.Tx, rentalID uuid.UUID) (*model.Rental, error) {
	return get(tx.GORM(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), rentalID)
}

func get(gdb *gorm.DB, rentalID uuid.UUID) (*model.Rental, error) {
	var grs []gRental
	res := gdb.Where("id=?", rentalID).Limit(1).Find(&grs)
	if err := res.Error; err != nil {
		return nil, fmt.Errorf("query: %w", postgres.Classify(err))
	}
	if len(grs) == 0 {
		return nil, cerr.NotFound(fmt.Errorf(
			"%w: %s", model.ErrRentalNotFound, rentalID,
		))
	}
	return grs[0].toModel()
}

func List[Q postgres.Queryer](ctx context.Context, q Q, f *model.RentalFilter) ([]model.Rental, error) {
	gdb := q.GORM(ctx).Preload("Car").Preload("User")
	if f.CarID != nil {
		gdb = gdb.Where("car_id=?", *f.CarID)
	}
	if f.UserID != nil {
		gdb = gdb.Where("user_id=?", *f.UserID)
	}
	if len(f.Statuses) > 0 {
		gdb = gdb.Where("status IN ?", statusNames(f.Statuses))
	}
	var grs []gRental
	res := gdb.Order("created_at DESC").Order("id").Find(&grs)
	if err := res.Error; err != nil {
		return nil, fmt.Errorf("query: %w", postgres.Classify(err))
	}
	return models(grs)
}

// ActivePeriods returns the periods of PENDING and CONFIRMED rentals
// of the carID car, ordered by their start dates.
func ActivePeriods[Q postgres.Queryer](ctx context.Context, q Q, carID uuid.UUID) ([]model.Period, error) {
	var grs []gRental
	res := q.GORM(ctx).Select("start_date", "end_date").Where(
		"car_id=? AND status IN ?",
		carID, statusNames(model.ActiveRentalStatuses),
	).Order("start_date").Find(&grs)
	if err := res.Error; err != nil {
		return nil, fmt.Errorf("query: %w", postgres.Classify(err))
	}
	ps := make([]model.Period, 0, len(grs))
	for _, gr := range grs {
		ps = append(ps, model.Period{
			Start: gr.StartDate.UTC(), End: gr.EndDate.UTC(),
		})
	}
	return ps, nil
}

func Create[Q postgres.Queryer](ctx context.Context, q Q, r *model.Rental) (*model.Rental, error) {
	gr := &gRental{
		ID:         r.ID,
		CarID:      r.CarID,
		UserID:     r.UserID,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		TotalPrice: r.TotalPrice,
		Status:     r.Status.String(),
		CreatedAt:  r.CreatedAt,
	}
	res := q.GORM(ctx).Omit(clause.Associations).Create(gr)
	if err := res.Error; err != nil {
		err = postgres.Classify(err)
		var ce *postgres.ConstraintError
		switch {
		case !postgres.IsViolation(err, pgerrcode.ForeignKeyViolation):
			return nil, fmt.Errorf("insert: %w", err)
		case errors.As(err, &ce) && ce.Constraint == userFKey:
			return nil, cerr.NotFound(fmt.Errorf(
				"%w: %s", model.ErrUserNotFound, r.UserID,
			))
		default:
			return nil, cerr.NotFound(fmt.Errorf(
				"%w: %s", model.ErrCarNotFound, r.CarID,
			))
		}
	}
	return gr.toModel()
}

func UpdateStatus[Q postgres.Queryer](ctx context.Context, q Q, rentalID uuid.UUID, s model.RentalStatus) (*model.Rental, error) {
	var grs []gRental
	res := q.GORM(ctx).Model(&grs).Clauses(clause.Returning{}).Where(
		"id=?", rentalID,
	).Update("status", s.String())
	if err := res.Error; err != nil {
		return nil, fmt.Errorf("update: %w", postgres.Classify(err))
	}
	if len(grs) != 1 {
		return nil, cerr.NotFound(fmt.Errorf(
			"%w: %s", model.ErrRentalNotFound, rentalID,
		))
	}
	return grs[0].toModel()
}

func Delete[Q postgres.Queryer](ctx context.Context, q Q, rentalID uuid.UUID) error {
	res := q.GORM(ctx).Where("id=?", rentalID).Delete(&gRental{})
	if err := res.Error; err != nil {
		return fmt.Errorf("delete: %w", postgres.Classify(err))
	}
	if res.RowsAffected == 0 {
		return cerr.NotFound(fmt.Errorf(
			"%w: %s", model.ErrRentalNotFound, rentalID,
		))
	}
	return nil
}
