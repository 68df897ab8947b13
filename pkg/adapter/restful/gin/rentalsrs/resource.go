// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package rentalsrs realizes the rentals resource, allowing the
// booking and rental lifecycle REST APIs to be accepted and delegated
// to the rentals use case. All of its APIs need an authenticated user.
package rentalsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/authn"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-rental/pkg/core/usecase/appuc"
)

type resource struct {
	app *appuc.UseCase
}

// Register instantiates a resource adapting the app use case instance
// with the relevant REST APIs including:
//  1. POST request to /api/crweb/v1/rentals
//     in order to book a car for a period,
//  2. GET request to /api/crweb/v1/rentals
//     in order to list rentals, filtered by car, user, and status,
//  3. GET request to /api/crweb/v1/rentals/:rid
//     in order to fetch one rental,
//  4. PUT request to /api/crweb/v1/rentals/:rid
//     in order to confirm, complete, or cancel a rental,
//  5. DELETE request to /api/crweb/v1/rentals/:rid
//     in order to remove a rental and release its car.
func Register(r *gin.RouterGroup, app *appuc.UseCase) {
	rs := &resource{app: app}
	g := r.Group("rentals", authn.RequireUser)
	g.POST("", rs.CreateRental)
	g.GET("", rs.ListRentals)
	g.GET(":rid", rs.GetRental)
	g.PUT(":rid", rs.UpdateRentalStatus)
	g.DELETE(":rid", rs.DeleteRental)
}

func (rs *resource) CreateRental(c *gin.Context) {
	req, ok := rs.DserCreateRentalReq(c)
	if !ok {
		return
	}
	r, err := rs.app.RentalsUseCase().CreateRental(
		c, authn.Principal(c), req,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (rs *resource) ListRentals(c *gin.Context) {
	f, ok := rs.DserListRentalsReq(c)
	if !ok {
		return
	}
	rentals, err := rs.app.RentalsUseCase().ListRentals(
		c, authn.Principal(c), *f,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rentals)
}

func (rs *resource) GetRental(c *gin.Context) {
	var errs serdser.Errs
	rentalID := serdser.UUID(&errs, "rid", c.Param("rid"))
	if !serdser.Flush(c, errs) {
		return
	}
	r, err := rs.app.RentalsUseCase().GetRental(
		c, authn.Principal(c), rentalID,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (rs *resource) UpdateRentalStatus(c *gin.Context) {
	req, ok := rs.DserUpdateStatusReq(c)
	if !ok {
		return
	}
	r, err := rs.app.RentalsUseCase().UpdateStatus(
		c, authn.Principal(c), req.RentalID, req.Status,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (rs *resource) DeleteRental(c *gin.Context) {
	var errs serdser.Errs
	rentalID := serdser.UUID(&errs, "rid", c.Param("rid"))
	if !serdser.Flush(c, errs) {
		return
	}
	err := rs.app.RentalsUseCase().DeleteRental(
		c, authn.Principal(c), rentalID,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
