// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// their registration on a gin-gonic engine.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/authn"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/carsrs"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/rentalsrs"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/settingsrs"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/usersrs"
	"github.com/momeni/car-rental/pkg/core/usecase/appuc"
)

// Prefix is the path prefix of all crweb REST APIs.
const Prefix = "/api/crweb/v1"

// Register instantiates a series of "resource" structs, from packages
// which are named like carsrs, in order to adapt the use cases of the
// `app` application use case with the REST APIs. These resources are
// registered as request handlers using the `e` gin-gonic engine.
// Resources ask `app` for the actual use case objects for each
// request, so a configuration reload takes effect immediately.
// Bearer tokens are verified by `tp` before reaching the resources.
func Register(e *gin.Engine, app *appuc.UseCase, tp authn.TokenParser) {
	r := e.Group(Prefix, authn.Authenticate(tp))
	settingsrs.Register(r, app)
	usersrs.Register(r, app)
	carsrs.Register(r, app)
	rentalsrs.Register(r, app)
}
