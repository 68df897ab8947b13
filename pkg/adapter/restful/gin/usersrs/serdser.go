// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package usersrs

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-rental/pkg/core/model"
)

type registerReq struct {
	Name     string `json:"name" binding:"required,max=128"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,max=128"`
}

// DserRegisterReq leaves the password length policy to the use case
// since its minimum length is configurable.
func (rs *resource) DserRegisterReq(c *gin.Context) (*registerReq, bool) {
	req := &registerReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil, false
	}
	return req, true
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (rs *resource) DserLoginReq(c *gin.Context) (*loginReq, bool) {
	req := &loginReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil, false
	}
	return req, true
}

type rawUpdateUserReq struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=128"`
	Role *string `json:"role" binding:"omitempty,oneof=USER VENDEUR ADMIN"`
}

func (rs *resource) DserUpdateUserReq(
	c *gin.Context,
) (uuid.UUID, *model.UserPatch, bool) {
	var errs serdser.Errs
	userID := serdser.UUID(&errs, "uid", c.Param("uid"))
	if !serdser.Flush(c, errs) {
		return uuid.Nil, nil, false
	}
	req := &rawUpdateUserReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return uuid.Nil, nil, false
	}
	patch := &model.UserPatch{Name: req.Name}
	if req.Role != nil {
		r, err := model.ParseRole(*req.Role)
		serdser.Assert(&errs, err == nil, "role", "Unknown role.")
		patch.Role = &r
	}
	if !serdser.Flush(c, errs) {
		return uuid.Nil, nil, false
	}
	return userID, patch, true
}
