// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import "database/sql"

// rows realizes the repo.Rows interface for the *sql.Rows which GORM
// returns for the raw queries. Close errors are reported by Err.
type rows struct {
	*sql.Rows
}

func (r rows) Close() {
	_ = r.Rows.Close()
}
