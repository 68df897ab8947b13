// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the crweb
// car rental web project. Commands are organized using the cobra
// library. The root command starts the web server itself while the
// "db" sub-command can be used for the database initialization
// actions, i.e., init-dev and init-prod.
//
//	./crweb [-c /path/of/config.yaml] [-l :8080]  # start web server
//	./crweb db init-dev [-c /path/of/config.yaml]
//	./crweb db init-prod [-c /path/of/config.yaml]
package command

import (
	"fmt"
	"os"

	"github.com/momeni/car-rental/pkg/adapter/config"
	"github.com/spf13/cobra"
)

// defaultCfgPath is used if neither -c flag nor CONFIG_FILE is given.
const defaultCfgPath = "configs/sample-config.yaml"

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "crweb",
	Short: "A car rental web server",
	Long: `A car rental web server which lets renters browse the cars
catalog, check the availability of a car for some days, and book it,
while vendors manage the cars and confirm, complete, or cancel the
rentals. Concurrent bookings of one car are serialized by the database
row locks, so the active rentals of a car never overlap.
The REST APIs are served under the /api/crweb/v1 path. Sending SIGHUP
reloads the configuration file and SIGINT or SIGTERM stop the server
gracefully. Rental changes are published to RabbitMQ if an AMQP URL is
configured.`,
	RunE: serve,
	Args: cobra.NoArgs,
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command. The exit code is
// non-zero if the command fails.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
	rootCmd.Flags().StringVarP(
		&listenAddr, "listen", "l", ":8080", "HTTP listen address",
	)
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the CONFIG_FILE environment variable, or its default value.
func fixConfigPath() {
	p, err := config.Path(cfgPath)
	if err != nil {
		p = defaultCfgPath
	}
	cfgPath = p
}
