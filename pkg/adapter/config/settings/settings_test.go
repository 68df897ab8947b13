// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings_test

import (
	"fmt"
	"time"

	"github.com/momeni/car-rental/pkg/adapter/config/settings"
	"gopkg.in/yaml.v3"
)

func ExampleDuration() {
	var v struct {
		TTL *settings.Duration `yaml:"ttl"`
	}
	err := yaml.Unmarshal([]byte("ttl: 90m\n"), &v)
	fmt.Println(err, time.Duration(*v.TTL))
	b, err := yaml.Marshal(v)
	fmt.Println(err)
	fmt.Print(string(b))
	// Output:
	// <nil> 1h30m0s
	// <nil>
	// ttl: 1h30m
}

func ExampleVerifyRange() {
	v, minb, maxb := 7, 1, 5
	pv := &v
	err := settings.VerifyRange(&pv, &minb, &maxb)
	fmt.Println(err, *pv)
	var missing *int
	fmt.Println(settings.VerifyRange(&missing, &minb, &maxb) == nil)
	fmt.Println(settings.VerifyRange(&pv, &maxb, &minb))
	// Output:
	// 7 is greater than the maximum 5 5
	// true
	// empty range [5, 1]
}

func ExampleDefault() {
	var logger *bool
	settings.Default(&logger, true)
	settings.Default(&logger, false)
	var limit *int
	settings.Nil2Zero(&limit)
	fmt.Println(*logger, *limit)
	// Output:
	// true 0
}
