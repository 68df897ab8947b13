// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"strconv"
	"strings"
)

// SemVer represents a released semantic version of the configuration
// file format or the database schema, as major, minor, and patch
// components. A crweb binary supports exactly one major version of
// each and refuses to start with a mismatching configuration file.
type SemVer [3]uint

// UnmarshalText parses a string like 1.0.0 into `sv`. Missing minor
// or patch components are taken as zero.
func (sv *SemVer) UnmarshalText(text []byte) error {
	p := strings.Split(string(text), ".")
	if l := len(p); l == 0 || l > 3 {
		return fmt.Errorf("the %q has wrong number of components", text)
	}
	var v SemVer
	for i, s := range p {
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return fmt.Errorf("the %q component is not numeric", s)
		}
		v[i] = uint(n)
	}
	*sv = v
	return nil
}

// MarshalText implements the encoding.TextMarshaler interface.
func (sv SemVer) MarshalText() ([]byte, error) {
	return []byte(sv.String()), nil
}

// String formats `sv` like 1.0.0.
func (sv SemVer) String() string {
	return fmt.Sprintf("%d.%d.%d", sv[0], sv[1], sv[2])
}

// Compatible reports if `sv` has the same major version as `other`
// and its minor version is not newer than the `other` minor version.
func (sv SemVer) Compatible(other SemVer) bool {
	return sv[0] == other[0] && sv[1] <= other[1]
}
