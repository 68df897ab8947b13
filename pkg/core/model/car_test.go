// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model_test

import (
	"testing"

	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/stretchr/testify/assert"
)

func TestCarValidate(t *testing.T) {
	now := date("2024-09-01")
	valid := model.Car{
		Brand: "Renault", Model: "Clio", Year: 2025, Color: "Red", Price: 45,
	}
	assert.NoError(t, valid.Validate(now))
	for _, tc := range []struct {
		name  string
		patch func(c *model.Car)
	}{
		{"blank brand", func(c *model.Car) { c.Brand = "  " }},
		{"no model", func(c *model.Car) { c.Model = "" }},
		{"no color", func(c *model.Car) { c.Color = "" }},
		{"too old", func(c *model.Car) { c.Year = 1885 }},
		{"too new", func(c *model.Car) { c.Year = 2026 }},
		{"negative price", func(c *model.Car) { c.Price = -1 }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := valid
			tc.patch(&c)
			assert.ErrorIs(t, c.Validate(now), model.ErrInvalidCar)
		})
	}
}

func TestCarPatchApply(t *testing.T) {
	c := model.Car{Brand: "Renault", Model: "Clio", Price: 45, Available: true}
	price, available := 50.5, false
	p := &model.CarPatch{Price: &price, Available: &available}
	p.Apply(&c)
	assert.Equal(t, model.Car{
		Brand: "Renault", Model: "Clio", Price: 50.5, Withdrawn: true,
	}, c)

	available = true
	p = &model.CarPatch{Available: &available}
	p.Apply(&c)
	assert.False(t, c.Withdrawn)
	assert.False(t, c.Available, "listing again does not release holds")
}

func TestParseCarSort(t *testing.T) {
	for _, s := range []model.CarSort{
		model.CarSortNewest, model.CarSortPopular,
		model.CarSortPriceAsc, model.CarSortPriceDesc,
	} {
		parsed, err := model.ParseCarSort(s.String())
		assert.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	parsed, err := model.ParseCarSort("")
	assert.NoError(t, err)
	assert.Equal(t, model.CarSortNewest, parsed)
	_, err = model.ParseCarSort("cheapest")
	assert.ErrorIs(t, err, model.ErrUnknownCarSort)
}
