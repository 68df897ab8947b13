// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package appuc

import (
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
	"github.com/momeni/car-rental/pkg/core/usecase/carsuc"
	"github.com/momeni/car-rental/pkg/core/usecase/rentalsuc"
	"github.com/momeni/car-rental/pkg/core/usecase/usersuc"
)

// Builder interface represents the expectations from the application
// use case builders. Each use case which can be instantiated by the
// configuration settings has one NewX method here which takes the
// database connection pool and its repository dependencies, and turns
// the relevant settings into functional options of that use case.
// The latest configuration struct implements this interface.
type Builder interface {
	NewCarsUseCase(p repo.Pool, r repo.Cars) (*carsuc.UseCase, error)

	// NewRentalsUseCase creates a rentals use case. The `n` Notifier
	// may be nil, leaving the default logging notifier in place.
	NewRentalsUseCase(
		p repo.Pool, c repo.Cars, r repo.Rentals, n rentalsuc.Notifier,
	) (*rentalsuc.UseCase, error)

	NewUsersUseCase(p repo.Pool, u repo.Users) (*usersuc.UseCase, error)

	// ImmutableSettings reports the settings which are fixed for each
	// execution and should be visible to the web clients.
	ImmutableSettings() *model.ImmutableSettings
}
