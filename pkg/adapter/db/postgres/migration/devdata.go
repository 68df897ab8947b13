// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migration

import "github.com/momeni/car-rental/pkg/core/model"

// DevCars returns the sample cars of a development database, newest
// first. The last one is withdrawn by its vendor.
func DevCars() []model.Car {
	return []model.Car{
		{
			Brand: "Renault", Model: "Clio", Year: 2022, Color: "Red",
			Price: 45, Available: true, TimesRented: 12,
			Description: "Compact city car with a manual gearbox.",
			ImageURL:    "/images/renault-clio.jpg",
		},
		{
			Brand: "Peugeot", Model: "3008", Year: 2023, Color: "Grey",
			Price: 79.9, Available: true, TimesRented: 8,
			Description: "Family SUV, automatic, five seats.",
			ImageURL:    "/images/peugeot-3008.jpg",
		},
		{
			Brand: "Tesla", Model: "Model 3", Year: 2024, Color: "White",
			Price: 120, Available: true, TimesRented: 20,
			Description: "Electric sedan with autopilot.",
			ImageURL:    "/images/tesla-model-3.jpg",
		},
		{
			Brand: "Citroen", Model: "C3", Year: 2021, Color: "Blue",
			Price: 39.5, Available: true, TimesRented: 3,
			Description: "Comfortable and economic hatchback.",
			ImageURL:    "/images/citroen-c3.jpg",
		},
		{
			Brand: "Dacia", Model: "Duster", Year: 2020, Color: "Orange",
			Price: 35, Available: true, TimesRented: 0,
		},
		{
			Brand: "BMW", Model: "X5", Year: 2019, Color: "Black",
			Price: 150, Withdrawn: true, TimesRented: 5,
			Description: "Withdrawn for maintenance.",
		},
	}
}
