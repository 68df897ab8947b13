// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package usersrs realizes the users resource, allowing the account
// registration, login, and user administration REST APIs to be
// accepted and delegated to the users use case.
package usersrs

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
//  1. POST requests to /api/crweb/v1/auth/register and .../auth/login
//     in order to obtain a session (token and user) anonymously,
//  2. GET request to /api/crweb/v1/auth/me
//     in order to fetch the authenticated user,
//  3. GET, PUT, and DELETE requests to /api/crweb/v1/users(/:uid)
//     in order to manage users by admins.
func Register(r *gin.RouterGroup, app *appuc.UseCase) {
	rs := &resource{app: app}
	r.POST("auth/register", rs.RegisterUser)
	r.POST("auth/login", rs.Login)
	r.GET("auth/me", authn.RequireUser, rs.Me)
	g := r.Group("users", authn.RequireUser)
	g.GET("", rs.ListUsers)
	g.GET(":uid", rs.GetUser)
	g.PUT(":uid", rs.UpdateUser)
	g.DELETE(":uid", rs.DeleteUser)
}

func (rs *resource) RegisterUser(c *gin.Context) {
	req, ok := rs.DserRegisterReq(c)
	if !ok {
		return
	}
	s, err := rs.app.UsersUseCase().Register(
		c, req.Name, req.Email, req.Password,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (rs *resource) Login(c *gin.Context) {
	req, ok := rs.DserLoginReq(c)
	if !ok {
		return
	}
	s, err := rs.app.UsersUseCase().Login(c, req.Email, req.Password)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (rs *resource) Me(c *gin.Context) {
	p := authn.Principal(c)
	u, err := rs.app.UsersUseCase().Get(c, p, p.UserID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (rs *resource) ListUsers(c *gin.Context) {
	us, err := rs.app.UsersUseCase().List(c, authn.Principal(c))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, us)
}

func (rs *resource) GetUser(c *gin.Context) {
	var errs serdser.Errs
	userID := serdser.UUID(&errs, "uid", c.Param("uid"))
	if !serdser.Flush(c, errs) {
		return
	}
	u, err := rs.app.UsersUseCase().Get(c, authn.Principal(c), userID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (rs *resource) UpdateUser(c *gin.Context) {
	userID, patch, ok := rs.DserUpdateUserReq(c)
	if !ok {
		return
	}
	u, err := rs.app.UsersUseCase().Update(
		c, authn.Principal(c), userID, patch,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (rs *resource) DeleteUser(c *gin.Context) {
	var errs serdser.Errs
	userID := serdser.UUID(&errs, "uid", c.Param("uid"))
	if !serdser.Flush(c, errs) {
		return
	}
	err := rs.app.UsersUseCase().Delete(c, authn.Principal(c), userID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
