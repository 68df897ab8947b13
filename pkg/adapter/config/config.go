// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the crweb to instantiate different
// components, from the adapter or use cases layers, using those loaded
// configuration settings.
// These settings are versioned and maintained by sub-packages.
// The parsed and validated configurations are passed to their ultimate
// components as a series of individual params (for the mandatory items)
// and a series of functional options (for the optional items).
package config

import (
	"fmt"
	"os"

	"github.com/momeni/car-rental/pkg/adapter/config/cfg1"
	"github.com/momeni/car-rental/pkg/adapter/config/vers"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres"
)

// EnvConfigFile names the environment variable which holds the path of
// the configuration file, if it is not given as a flag.
const EnvConfigFile = "CONFIG_FILE"

// Path returns the `flag` value if it is non-empty and the value of
// the CONFIG_FILE environment variable otherwise.
func Path(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if p := os.Getenv(EnvConfigFile); p != "" {
		return p, nil
	}
	return "", fmt.Errorf(
		"config file is not specified by flag or %s env var", EnvConfigFile,
	)
}

// Load function loads, validates, and normalizes the configuration
// file and returns its settings as an instance of the Config struct.
// Given path must belong to a configuration file which conforms with
// the latest known configuration settings format.
// The corresponding database schema version must also match with the
// latest known database schema version.
func Load(path string) (*cfg1.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse is like Load, but takes the configuration file contents.
func Parse(data []byte) (*cfg1.Config, error) {
	v, err := vers.Load(data)
	if err != nil {
		return nil, fmt.Errorf("loading versions: %w", err)
	}
	vc := v.Versions
	switch {
	case !vc.Config.Compatible(cfg1.Version):
		return nil, fmt.Errorf(
			"unexpected config version: %s", vc.Config.String(),
		)
	case vc.Database != postgres.Version:
		return nil, fmt.Errorf(
			"unexpected database schema version: %s",
			vc.Database.String(),
		)
	}
	c, err := cfg1.Load(data)
	if err != nil {
		return nil, fmt.Errorf("loading cfg1.Config: %w", err)
	}
	return c, nil
}
