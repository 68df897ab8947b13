// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"fmt"
	"strings"
	"time"
)

// Duration is a time.Duration which is written in the configuration
// files as a string like 90m or 24h. Only positive values are valid.
type Duration time.Duration

func (d *Duration) UnmarshalText(data []byte) error {
	dd, err := time.ParseDuration(string(data))
	if err != nil {
		return err
	}
	if dd <= 0 {
		return fmt.Errorf("duration %q is not positive", data)
	}
	*d = Duration(dd)
	return nil
}

// MarshalText writes `d` like time.Duration.String, but drops the
// zero minutes and seconds suffixes, e.g., 24h instead of 24h0m0s.
func (d Duration) MarshalText() ([]byte, error) {
	s := time.Duration(d).String()
	if strings.HasSuffix(s, "m0s") {
		s = strings.TrimSuffix(s, "0s")
	}
	if strings.HasSuffix(s, "h0m") {
		s = strings.TrimSuffix(s, "0m")
	}
	return []byte(s), nil
}

// Std returns `d` as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
