// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settingsrs realizes the settings resource, allowing the
// visible settings to be fetched by the web clients.
package settingsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/car-rental/pkg/core/usecase/appuc"
)

type resource struct {
	app *appuc.UseCase
}

// Register instantiates a resource adapting the app use case instance
// with the GET request to /api/crweb/v1/settings in order to fetch the
// current visible settings. The settings are changed by reloading the
// configuration file (on SIGHUP) instead of a REST API.
func Register(r *gin.RouterGroup, app *appuc.UseCase) {
	rs := &resource{app: app}
	r.GET("settings", rs.FetchSettings)
}

func (rs *resource) FetchSettings(c *gin.Context) {
	vs := rs.app.Settings()
	c.JSON(http.StatusOK, vs)
}
