// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cerr

import (
	"fmt"

	"github.com/momeni/car-rental/pkg/core/model"
)

// MismatchingSemVerError reports a configuration or database schema
// version (the second element) which is not compatible with the
// version that this crweb build supports (the first element).
type MismatchingSemVerError [2]model.SemVer

func (msve *MismatchingSemVerError) Error() string {
	return fmt.Sprintf(
		"crweb supports v%s, but got v%s", msve[0].String(), msve[1].String(),
	)
}
