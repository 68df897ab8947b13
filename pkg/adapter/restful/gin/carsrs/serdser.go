// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsrs

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-rental/pkg/core/model"
)

type rawListCarsReq struct {
	Brand     string   `form:"brand" binding:"max=64"`
	Query     string   `form:"q" binding:"max=64"`
	MaxPrice  *float64 `form:"max_price" binding:"omitempty,gte=0"`
	Available bool     `form:"available"`
	Sort      string   `form:"sort" binding:"omitempty,oneof=newest popular price-asc price-desc"`
	Limit     int      `form:"limit" binding:"omitempty,gte=1,lte=100"`
}

func (rs *resource) DserListCarsReq(
	c *gin.Context,
) (*model.CarFilter, bool) {
	req := &rawListCarsReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil, false
	}
	var errs serdser.Errs
	sort, err := model.ParseCarSort(req.Sort)
	serdser.Assert(&errs, err == nil, "sort", "Unknown sort order.")
	if !serdser.Flush(c, errs) {
		return nil, false
	}
	return &model.CarFilter{
		Brand:         req.Brand,
		Query:         req.Query,
		MaxPrice:      req.MaxPrice,
		AvailableOnly: req.Available,
		Sort:          sort,
		Limit:         req.Limit,
	}, true
}

type rawPopularCarsReq struct {
	Limit int `form:"limit" binding:"omitempty,gte=1,lte=100"`
}

func (rs *resource) DserPopularCarsReq(c *gin.Context) (int, bool) {
	req := &rawPopularCarsReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return 0, false
	}
	return req.Limit, true
}

type rawAvailabilityReq struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end" binding:"required"`
}

type availabilityReq struct {
	CarID      uuid.UUID
	Start, End time.Time
}

func (rs *resource) DserAvailabilityReq(
	c *gin.Context,
) (*availabilityReq, bool) {
	req := &rawAvailabilityReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil, false
	}
	var errs serdser.Errs
	val := &availabilityReq{
		CarID: serdser.UUID(&errs, "cid", c.Param("cid")),
		Start: serdser.Date(&errs, "start", req.Start),
		End:   serdser.Date(&errs, "end", req.End),
	}
	if !serdser.Flush(c, errs) {
		return nil, false
	}
	return val, true
}

type rawCreateCarReq struct {
	Brand       string   `json:"brand" binding:"required,max=64"`
	Model       string   `json:"model" binding:"required,max=64"`
	Year        int      `json:"year" binding:"required,gte=1886"`
	Color       string   `json:"color" binding:"required,max=32"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Description string   `json:"description" binding:"max=2048"`
	ImageURL    string   `json:"imageUrl" binding:"omitempty,url"`
}

func (rs *resource) DserCreateCarReq(c *gin.Context) (*model.Car, bool) {
	req := &rawCreateCarReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil, false
	}
	return &model.Car{
		Brand:       req.Brand,
		Model:       req.Model,
		Year:        req.Year,
		Color:       req.Color,
		Price:       *req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}, true
}

type rawUpdateCarReq struct {
	Brand       *string  `json:"brand" binding:"omitempty,min=1,max=64"`
	Model       *string  `json:"model" binding:"omitempty,min=1,max=64"`
	Year        *int     `json:"year" binding:"omitempty,gte=1886"`
	Color       *string  `json:"color" binding:"omitempty,min=1,max=32"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Description *string  `json:"description" binding:"omitempty,max=2048"`
	ImageURL    *string  `json:"imageUrl" binding:"omitempty,url"`
	Available   *bool    `json:"available"`
}

func (rs *resource) DserUpdateCarReq(
	c *gin.Context,
) (uuid.UUID, *model.CarPatch, bool) {
	var errs serdser.Errs
	carID := serdser.UUID(&errs, "cid", c.Param("cid"))
	if !serdser.Flush(c, errs) {
		return uuid.Nil, nil, false
	}
	req := &rawUpdateCarReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return uuid.Nil, nil, false
	}
	return carID, &model.CarPatch{
		Brand:       req.Brand,
		Model:       req.Model,
		Year:        req.Year,
		Color:       req.Color,
		Price:       req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Available:   req.Available,
	}, true
}
