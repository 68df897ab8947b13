// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package appuc contains the application UseCase which instantiates
// the cars, rentals, and users use cases from a Builder (i.e., the
// loaded configuration settings), maintains them along with the
// visible settings, and allows them to be replaced atomically when the
// configuration file is reloaded. Resource packages should ask this
// application UseCase for the actual use case objects right before
// using them.
package appuc

import (
	"fmt"
	"sync"

	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
	"github.com/momeni/car-rental/pkg/core/usecase/carsuc"
	"github.com/momeni/car-rental/pkg/core/usecase/rentalsuc"
	"github.com/momeni/car-rental/pkg/core/usecase/usersuc"
)

// Repos groups the outbound ports which are passed to a Builder.
// The Notifier is optional.
type Repos struct {
	Cars     repo.Cars
	Rentals  repo.Rentals
	Users    repo.Users
	Notifier rentalsuc.Notifier
}

// UseCase represents an application use case. It holds a database
// connection pool and the repository instances, so it can pass them
// to a Builder whenever use case objects have to be (re)created.
type UseCase struct {
	pool  repo.Pool
	repos Repos

	// mutex serializes the Reload calls, while rwlock protects the
	// published use case objects and settings against the getters.
	mutex  sync.Mutex
	rwlock sync.RWMutex

	settings       *model.VisibleSettings
	carsUseCase    *carsuc.UseCase
	rentalsUseCase *rentalsuc.UseCase
	usersUseCase   *usersuc.UseCase
}

// New instantiates an application use case and creates all managed
// use case objects using the `b` Builder.
func New(p repo.Pool, r Repos, b Builder) (*UseCase, error) {
	app := &UseCase{pool: p, repos: r}
	if err := app.Reload(b); err != nil {
		return nil, err
	}
	return app, nil
}

// Reload creates all managed use case objects using the `b` Builder
// and publishes them atomically. In case of errors, the previous use
// case objects are kept intact.
func (app *UseCase) Reload(b Builder) error {
	app.mutex.Lock()
	defer app.mutex.Unlock()
	cars, err := b.NewCarsUseCase(app.pool, app.repos.Cars)
	if err != nil {
		return fmt.Errorf("creating cars use case: %w", err)
	}
	rentals, err := b.NewRentalsUseCase(
		app.pool, app.repos.Cars, app.repos.Rentals, app.repos.Notifier,
	)
	if err != nil {
		return fmt.Errorf("creating rentals use case: %w", err)
	}
	users, err := b.NewUsersUseCase(app.pool, app.repos.Users)
	if err != nil {
		return fmt.Errorf("creating users use case: %w", err)
	}
	vs := &model.VisibleSettings{
		Booking:           rentals.Settings(),
		Cars:              cars.Settings(),
		ImmutableSettings: b.ImmutableSettings(),
	}
	app.rwlock.Lock()
	defer app.rwlock.Unlock()
	app.settings = vs
	app.carsUseCase = cars
	app.rentalsUseCase = rentals
	app.usersUseCase = users
	return nil
}

// Settings returns the current visible settings.
func (app *UseCase) Settings() model.VisibleSettings {
	app.rwlock.RLock()
	defer app.rwlock.RUnlock()
	return *app.settings
}

func (app *UseCase) CarsUseCase() *carsuc.UseCase {
	app.rwlock.RLock()
	defer app.rwlock.RUnlock()
	return app.carsUseCase
}

func (app *UseCase) RentalsUseCase() *rentalsuc.UseCase {
	app.rwlock.RLock()
	defer app.rwlock.RUnlock()
	return app.rentalsUseCase
}

func (app *UseCase) UsersUseCase() *usersuc.UseCase {
	app.rwlock.RLock()
	defer app.rwlock.RUnlock()
	return app.usersUseCase
}
