// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"cmp"
	"fmt"
)

// OutOfRangeError reports a setting Value which was not in the
// [Min, Max] range. Nil bounds are not enforced. An empty range, with
// Min greater than Max, is reported with a nil Value.
type OutOfRangeError[T cmp.Ordered] struct {
	Value    *T
	Min, Max *T
}

func (e *OutOfRangeError[T]) Error() string {
	switch {
	case e.Value == nil:
		return fmt.Sprintf("empty range [%v, %v]", *e.Min, *e.Max)
	case e.Min != nil && *e.Value < *e.Min:
		return fmt.Sprintf("%v is less than the minimum %v", *e.Value, *e.Min)
	default:
		return fmt.Sprintf("%v is greater than the maximum %v", *e.Value, *e.Max)
	}
}

// VerifyRange checks the optional `*value` against the optional minb
// and maxb bounds. An out of range value is clamped to the violated
// bound, so callers which only warn may go on with a valid setting.
func VerifyRange[T cmp.Ordered](
	value **T, minb, maxb *T,
) *OutOfRangeError[T] {
	if minb != nil && maxb != nil && *minb > *maxb {
		return &OutOfRangeError[T]{Min: minb, Max: maxb}
	}
	if *value == nil {
		return nil
	}
	v := **value
	switch {
	case minb != nil && v < *minb:
		**value = *minb
	case maxb != nil && v > *maxb:
		**value = *maxb
	default:
		return nil
	}
	return &OutOfRangeError[T]{Value: &v, Min: minb, Max: maxb}
}
