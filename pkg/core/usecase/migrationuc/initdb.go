// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migrationuc

import (
	"context"
	"fmt"

	"github.com/momeni/car-rental/pkg/core/log"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

// DevUser describes one of the development suitable user accounts.
type DevUser struct {
	Name, Email, Password string
	Role                  model.Role
}

// DevUsers are created by InitDev. The first one is a renter and
// owns the sample rentals.
var DevUsers = []DevUser{
	{"Camille Martin", "user@crweb.local", "user-pass", model.RoleUser},
	{"Louis Bernard", "vendeur@crweb.local", "vendeur-pass", model.RoleVendeur},
	{"Alice Admin", "admin@crweb.local", "admin-pass", model.RoleAdmin},
}

// InitDBUseCase represents the database initialization use case. It may
// be used to initialize database with development or production
// suitable data as asked by the InitDev and InitProd methods.
type InitDBUseCase struct {
	settings Settings
	users    UserFactory
}

// NewInitDB creates an InitDBUseCase instance, using the `ss` settings
// in order to find the target database connection information and
// create its schema initializer, and the `uf` factory for preparing
// the initial users.
func NewInitDB(ss Settings, uf UserFactory) *InitDBUseCase {
	return &InitDBUseCase{settings: ss, users: uf}
}

// InitDev drops and recreates the crweb tables and fills them with
// the DevUsers, some sample cars, and some sample rentals, in one
// transaction using the normal role.
func (iduc *InitDBUseCase) InitDev(ctx context.Context) error {
	users := make([]*model.User, 0, len(DevUsers))
	for _, du := range DevUsers {
		u, err := iduc.users.NewUser(du.Name, du.Email, du.Password, du.Role)
		if err != nil {
			return fmt.Errorf("preparing %q user: %w", du.Email, err)
		}
		users = append(users, u)
	}
	return iduc.initDB(
		ctx,
		func(ctx context.Context, si repo.SchemaInitializer) error {
			return si.InitDevSchema(ctx, users)
		},
	)
}

// InitProd drops and recreates the crweb tables and creates the admin
// user which is described by the configuration settings, in one
// transaction using the normal role.
func (iduc *InitDBUseCase) InitProd(ctx context.Context) error {
	name, email, pass, err := iduc.settings.ProdAdmin()
	if err != nil {
		return fmt.Errorf("obtaining admin credentials: %w", err)
	}
	admin, err := iduc.users.NewUser(name, email, pass, model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("preparing admin user: %w", err)
	}
	return iduc.initDB(
		ctx,
		func(ctx context.Context, si repo.SchemaInitializer) error {
			return si.InitProdSchema(ctx, admin)
		},
	)
}

func (iduc *InitDBUseCase) initDB(
	ctx context.Context,
	dbi func(ctx context.Context, si repo.SchemaInitializer) error,
) error {
	p, err := iduc.settings.ConnectionPool(ctx, repo.NormalRole)
	if err != nil {
		return fmt.Errorf("creating DB pool for normal role: %w", err)
	}
	defer p.Close()
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			si, err := iduc.settings.SchemaInitializer(tx)
			if err != nil {
				return fmt.Errorf("creating SchemaInitializer: %w", err)
			}
			if err := dbi(ctx, si); err != nil {
				return fmt.Errorf("initializing schema: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("normal connection: %w", err)
	}
	log.Info(
		ctx, "database is initialized",
		log.Stringer("version", iduc.settings.SchemaVersion()),
	)
	return nil
}
