// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"

	"github.com/momeni/car-rental/pkg/adapter/config"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres/usersrp"
	"github.com/momeni/car-rental/pkg/core/usecase/migrationuc"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions can be chosen by sub-commands.
For fresh installation in a development or production environment,
the init-dev or init-prod may be used. Both of them drop the existing
crweb tables, so all of their rows will be lost.`,
}

var initDevCmd = &cobra.Command{
	Use:   "init-dev",
	Short: "Initialize database contents with development suitable data",
	Long: `Initialize database contents with development suitable data
including a renter, a vendor, and an admin user, some sample cars, and
some sample rentals covering all rental statuses. The database
connection information is read from the config file.`,
	RunE: initDev,
	Args: cobra.NoArgs,
}

var initProdCmd = &cobra.Command{
	Use:   "init-prod",
	Short: "Initialize database contents with production suitable data",
	Long: `Initialize database contents with production suitable data,
that is, the empty tables and the admin user which is described in the
admin section of the config file. Its password is read from the
admin pass-file. The database connection information is also read from
the config file.`,
	RunE: initProd,
	Args: cobra.NoArgs,
}

func newInitDB() (*migrationuc.InitDBUseCase, error) {
	c, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	// NewUser only validates and hashes, so no pool is needed.
	users, err := c.NewUsersUseCase(nil, usersrp.New())
	if err != nil {
		return nil, fmt.Errorf("creating users use case: %w", err)
	}
	return migrationuc.NewInitDB(c, users), nil
}

func initDev(cmd *cobra.Command, _ []string) error {
	muc, err := newInitDB()
	if err != nil {
		return err
	}
	if err = muc.InitDev(cmd.Context()); err != nil {
		return fmt.Errorf("initializing DB with dev data: %w", err)
	}
	return nil
}

func initProd(cmd *cobra.Command, _ []string) error {
	muc, err := newInitDB()
	if err != nil {
		return err
	}
	if err = muc.InitProd(cmd.Context()); err != nil {
		return fmt.Errorf("initializing DB with prod data: %w", err)
	}
	return nil
}

func init() {
	dbCmd.AddCommand(initDevCmd, initProdCmd)
	rootCmd.AddCommand(dbCmd)
}
