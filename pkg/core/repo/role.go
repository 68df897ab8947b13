// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

// Role is a string specifying a database connection role. Its password
// is read from the passwords file as indicated in the config file.
type Role string

// NormalRole is the role which owns the crweb tables. It is used for
// both of the schema initialization and the normal use cases.
const NormalRole Role = "crweb"
