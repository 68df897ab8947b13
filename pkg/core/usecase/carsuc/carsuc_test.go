// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsuc_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/internal/test/memrepo"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/usecase/carsuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2030, 3, 1, 12, 0, 0, 0, time.UTC)

var (
	vendor = &model.Principal{UserID: uuid.New(), Role: model.RoleVendeur}
	renter = &model.Principal{UserID: uuid.New(), Role: model.RoleUser}
)

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var ce *cerr.Error
	require.True(t, errors.As(err, &ce), "unclassified error: %v", err)
	return ce.HTTPStatusCode
}

func seed(t *testing.T, s *memrepo.Store) map[string]*model.Car {
	t.Helper()
	cs := map[string]*model.Car{}
	for i, c := range []model.Car{
		{Brand: "Peugeot", Model: "208", Price: 40, TimesRented: 7, Available: true},
		{Brand: "Peugeot", Model: "3008", Price: 70, TimesRented: 2, Available: false},
		{Brand: "Tesla", Model: "Model 3", Price: 120, TimesRented: 9, Available: true},
		{Brand: "Renault", Model: "Zoe", Price: 35, TimesRented: 0, Available: true},
	} {
		c.ID = uuid.New()
		c.Year = 2022
		c.Color = "Blue"
		c.CreatedAt = now.Add(time.Duration(i) * time.Hour)
		created, err := s.Cars().Conn(nil).Create(context.Background(), &c)
		require.NoError(t, err)
		cs[c.Model] = created
	}
	return cs
}

func models(cs []model.Car) []string {
	ms := make([]string, 0, len(cs))
	for _, c := range cs {
		ms = append(ms, c.Model)
	}
	return ms
}

func TestList(t *testing.T) {
	s := memrepo.New()
	seed(t, s)
	uc, err := carsuc.New(s, s.Cars(), carsuc.WithPopularLimit(2))
	require.NoError(t, err)
	ctx := context.Background()
	maxPrice := 70.0

	for _, tc := range []struct {
		name string
		f    model.CarFilter
		want []string
	}{
		{"newest first", model.CarFilter{}, []string{"Zoe", "Model 3", "3008", "208"}},
		{"brand", model.CarFilter{Brand: "peugeot"}, []string{"3008", "208"}},
		{"query", model.CarFilter{Query: "oe"}, []string{"Zoe"}},
		{"available", model.CarFilter{AvailableOnly: true}, []string{"Zoe", "Model 3", "208"}},
		{
			"max price", model.CarFilter{MaxPrice: &maxPrice, Sort: model.CarSortPriceDesc},
			[]string{"3008", "208", "Zoe"},
		},
		{
			"cheapest", model.CarFilter{Sort: model.CarSortPriceAsc, Limit: 2},
			[]string{"Zoe", "208"},
		},
		{"popular", model.CarFilter{Sort: model.CarSortPopular}, []string{"Model 3", "208", "3008", "Zoe"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cs, err := uc.List(ctx, tc.f)
			require.NoError(t, err)
			assert.Equal(t, tc.want, models(cs))
		})
	}

	negative := -1.0
	_, err = uc.List(ctx, model.CarFilter{MaxPrice: &negative})
	require.ErrorIs(t, err, model.ErrInvalidCar)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	cs, err := uc.Popular(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Model 3", "208"}, models(cs))
	cs, err = uc.Popular(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Model 3", "208", "3008"}, models(cs))
	assert.Equal(t, 2, uc.Settings().PopularLimit)
}

func TestCreate(t *testing.T) {
	s := memrepo.New()
	uc, err := carsuc.New(s, s.Cars(), carsuc.WithClock(func() time.Time {
		return now
	}))
	require.NoError(t, err)
	ctx := context.Background()
	car := &model.Car{
		ID: uuid.New(), Brand: "Citroen", Model: "C3", Year: 2031,
		Color: "White", Price: 39.9, TimesRented: 12,
	}

	_, err = uc.Create(ctx, nil, car)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	_, err = uc.Create(ctx, renter, car)
	require.ErrorIs(t, err, model.ErrForbidden)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	created, err := uc.Create(ctx, vendor, car)
	require.NoError(t, err, "next year models are accepted")
	assert.NotEqual(t, car.ID, created.ID)
	assert.True(t, created.Available)
	assert.Zero(t, created.TimesRented)
	assert.Equal(t, now, created.CreatedAt)

	got, err := uc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	car.Year = 2032
	_, err = uc.Create(ctx, vendor, car)
	require.ErrorIs(t, err, model.ErrInvalidCar)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = uc.Get(ctx, uuid.New())
	require.ErrorIs(t, err, model.ErrCarNotFound)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestUpdate(t *testing.T) {
	s := memrepo.New()
	cs := seed(t, s)
	uc, err := carsuc.New(s, s.Cars())
	require.NoError(t, err)
	ctx := context.Background()
	zoe := cs["Zoe"]

	price, unavailable := 31.5, false
	patch := &model.CarPatch{Price: &price, Available: &unavailable}
	_, err = uc.Update(ctx, renter, zoe.ID, patch)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	updated, err := uc.Update(ctx, vendor, zoe.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, 31.5, updated.Price)
	assert.False(t, updated.Available)
	assert.True(t, updated.Withdrawn)
	assert.Equal(t, zoe.Brand, updated.Brand, "nil fields are kept")

	empty := " "
	_, err = uc.Update(ctx, vendor, zoe.ID, &model.CarPatch{Color: &empty})
	require.ErrorIs(t, err, model.ErrInvalidCar)
	stored, ok := s.Car(zoe.ID)
	require.True(t, ok)
	assert.Equal(t, "Blue", stored.Color, "invalid patch is not stored")

	_, err = uc.Update(ctx, vendor, uuid.New(), patch)
	require.ErrorIs(t, err, model.ErrCarNotFound)
}

func TestDelete(t *testing.T) {
	s := memrepo.New()
	cs := seed(t, s)
	uc, err := carsuc.New(s, s.Cars())
	require.NoError(t, err)
	ctx := context.Background()

	err = uc.Delete(ctx, renter, cs["Zoe"].ID)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
	require.NoError(t, uc.Delete(ctx, vendor, cs["Zoe"].ID))
	_, ok := s.Car(cs["Zoe"].ID)
	assert.False(t, ok)

	err = uc.Delete(ctx, vendor, cs["Zoe"].ID)
	require.ErrorIs(t, err, model.ErrCarNotFound)
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	s := memrepo.New()
	_, err := carsuc.New(s, s.Cars(), carsuc.WithPopularLimit(0))
	assert.Error(t, err)
	_, err = carsuc.New(
		s, s.Cars(), carsuc.WithPopularLimit(3), carsuc.WithPopularLimit(4),
	)
	assert.Error(t, err)
	_, err = carsuc.New(s, s.Cars(), carsuc.WithClock(nil))
	assert.Error(t, err)
	uc, err := carsuc.New(s, s.Cars())
	require.NoError(t, err)
	assert.Equal(t, 5, uc.Settings().PopularLimit)
}
