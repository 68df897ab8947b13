// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsrs realizes the cars resource, allowing the cars
// catalog and availability REST APIs to be accepted and delegated to
// the cars and rentals use cases respectively.
package carsrs

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
//  1. GET request to /api/crweb/v1/cars
//     in order to list cars, filtered by the brand, q, max_price,
//     and available query params and ordered by the sort param,
//  2. GET request to /api/crweb/v1/cars/popular
//     in order to list the most rented cars,
//  3. GET request to /api/crweb/v1/cars/:cid
//     in order to fetch one car,
//  4. GET request to /api/crweb/v1/cars/:cid/availability
//     in order to check if a car may be booked from start to end,
//  5. GET request to /api/crweb/v1/cars/:cid/reserved-periods
//     in order to list the periods which are held by rentals,
//  6. POST, PUT, and DELETE requests to /api/crweb/v1/cars(/:cid)
//     in order to create, update, and delete cars by vendors.
func Register(r *gin.RouterGroup, app *appuc.UseCase) {
	rs := &resource{app: app}
	r.GET("cars", rs.ListCars)
	r.GET("cars/popular", rs.PopularCars)
	r.GET("cars/:cid", rs.GetCar)
	r.GET("cars/:cid/availability", rs.CheckAvailability)
	r.GET("cars/:cid/reserved-periods", rs.ReservedPeriods)
	r.POST("cars", authn.RequireUser, rs.CreateCar)
	r.PUT("cars/:cid", authn.RequireUser, rs.UpdateCar)
	r.DELETE("cars/:cid", authn.RequireUser, rs.DeleteCar)
}

func (rs *resource) ListCars(c *gin.Context) {
	f, ok := rs.DserListCarsReq(c)
	if !ok {
		return
	}
	cars, err := rs.app.CarsUseCase().List(c, *f)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cars)
}

func (rs *resource) PopularCars(c *gin.Context) {
	limit, ok := rs.DserPopularCarsReq(c)
	if !ok {
		return
	}
	cars, err := rs.app.CarsUseCase().Popular(c, limit)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cars)
}

func (rs *resource) GetCar(c *gin.Context) {
	var errs serdser.Errs
	carID := serdser.UUID(&errs, "cid", c.Param("cid"))
	if !serdser.Flush(c, errs) {
		return
	}
	car, err := rs.app.CarsUseCase().Get(c, carID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (rs *resource) CheckAvailability(c *gin.Context) {
	req, ok := rs.DserAvailabilityReq(c)
	if !ok {
		return
	}
	a, err := rs.app.RentalsUseCase().CheckAvailability(
		c, req.CarID, req.Start, req.End,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (rs *resource) ReservedPeriods(c *gin.Context) {
	var errs serdser.Errs
	carID := serdser.UUID(&errs, "cid", c.Param("cid"))
	if !serdser.Flush(c, errs) {
		return
	}
	ps, err := rs.app.RentalsUseCase().ReservedPeriods(c, carID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, ps)
}

func (rs *resource) CreateCar(c *gin.Context) {
	car, ok := rs.DserCreateCarReq(c)
	if !ok {
		return
	}
	created, err := rs.app.CarsUseCase().Create(
		c, authn.Principal(c), car,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (rs *resource) UpdateCar(c *gin.Context) {
	carID, patch, ok := rs.DserUpdateCarReq(c)
	if !ok {
		return
	}
	car, err := rs.app.CarsUseCase().Update(
		c, authn.Principal(c), carID, patch,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (rs *resource) DeleteCar(c *gin.Context) {
	var errs serdser.Errs
	carID := serdser.UUID(&errs, "cid", c.Param("cid"))
	if !serdser.Flush(c, errs) {
		return
	}
	err := rs.app.CarsUseCase().Delete(c, authn.Principal(c), carID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
