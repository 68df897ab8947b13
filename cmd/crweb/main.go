// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// The crweb command runs the car rental web server and manages its
// database. See the command package for its sub-commands.
package main

import "github.com/momeni/car-rental/cmd/crweb/command"

func main() {
	command.Execute()
}
