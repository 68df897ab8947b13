// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settings provides the helpers which are shared by the
// cfgN.Config versions. Optional settings are kept as pointers, so
// a missing item can be told apart from its zero value and replaced
// by a default value or left for the use cases layer to decide.
package settings

// Default overwrites the (*t) pointer, if it is nil, in order to point
// to a newly allocated T instance having the `v` value.
func Default[T any](t **T, v T) {
	if (*t) != nil {
		return
	}
	(*t) = &v
}

// Nil2Zero overwrites the (*t) pointer, which should be nil,
// in order to point to a newly allocated T instance and initializes it
// with the zero value of T type.
// If the (*t) pointer was not nil, Nil2Zero will perform no action.
func Nil2Zero[T any](t **T) {
	var zero T
	Default(t, zero)
}
