// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package vers contains the versions parsing which is common among the
// config versions. Two versions are tracked here, namely the
// configuration file and database schema. Versions should be known
// before trying to parse the actual settings, so their format may be
// known and verified when loading them.
package vers

import (
	"fmt"

	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/model"
	"gopkg.in/yaml.v3"
)

// Config contains the versions of those system components which are
// versioned. It is embedded with inline format in the cfgN.Config
// structs in order to indicate their versions.
type Config struct {
	Versions Versions `yaml:"versions"`
}

// Versions contains the configuration file and database schema versions
// which are used for detecting their relevant formats.
type Versions struct {
	Database model.SemVer `yaml:"database"`
	Config   model.SemVer `yaml:"config"`
}

// Load deserializes the data byte slice into a new instance of Config
// struct. Extra fields of data are ignored.
func Load(data []byte) (*Config, error) {
	vc := &Config{}
	if err := yaml.Unmarshal(data, vc); err != nil {
		return nil, err
	}
	return vc, nil
}

// Validate returns an error if the configuration settings version which
// is stored in the `vc` Config instance is not supported by the given
// major and minor version arguments. That is, stored major version
// must match with the major argument and the stored minor version must
// be at most equal with the given minor version (not newer than it).
func (vc *Config) Validate(major, minor uint) error {
	v := vc.Versions.Config
	if !v.Compatible(model.SemVer{major, minor, 0}) {
		return fmt.Errorf(
			"unsupported config version: %w",
			&cerr.MismatchingSemVerError{model.SemVer{major, minor, 0}, v},
		)
	}
	return nil
}
