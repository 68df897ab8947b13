// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package rentalsrs

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-rental/pkg/core/model"
)

type rawCreateRentalReq struct {
	CarID      string   `json:"carId" binding:"required,uuid"`
	StartDate  string   `json:"startDate" binding:"required"`
	EndDate    string   `json:"endDate" binding:"required"`
	TotalPrice *float64 `json:"totalPrice" binding:"omitempty,gte=0"`
}

func (rs *resource) DserCreateRentalReq(
	c *gin.Context,
) (*model.BookingRequest, bool) {
	req := &rawCreateRentalReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil, false
	}
	var errs serdser.Errs
	val := &model.BookingRequest{
		CarID:      serdser.UUID(&errs, "carId", req.CarID),
		Start:      serdser.Date(&errs, "startDate", req.StartDate),
		End:        serdser.Date(&errs, "endDate", req.EndDate),
		TotalPrice: req.TotalPrice,
	}
	if !serdser.Flush(c, errs) {
		return nil, false
	}
	return val, true
}

type rawListRentalsReq struct {
	CarID    string   `form:"car"`
	UserID   string   `form:"user"`
	Statuses []string `form:"status"`
}

func (rs *resource) DserListRentalsReq(
	c *gin.Context,
) (*model.RentalFilter, bool) {
	req := &rawListRentalsReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil, false
	}
	var errs serdser.Errs
	f := &model.RentalFilter{
		CarID:  serdser.OptUUID(&errs, "car", req.CarID),
		UserID: serdser.OptUUID(&errs, "user", req.UserID),
	}
	for _, s := range req.Statuses {
		st, err := model.ParseRentalStatus(s)
		if err != nil {
			serdser.AddErr(&errs, "status", fmt.Sprintf(
				"%q is not a rental status.", s,
			))
			continue
		}
		f.Statuses = append(f.Statuses, st)
	}
	if !serdser.Flush(c, errs) {
		return nil, false
	}
	return f, true
}

type rawUpdateStatusReq struct {
	Status string `json:"status" binding:"required"`
}

type updateStatusReq struct {
	RentalID uuid.UUID
	Status   string
}

// DserUpdateStatusReq only checks the presence of the status field.
// Its value is parsed by the use case, so unknown statuses are
// reported as ErrInvalidStatus similar to the other callers.
func (rs *resource) DserUpdateStatusReq(
	c *gin.Context,
) (*updateStatusReq, bool) {
	var errs serdser.Errs
	rentalID := serdser.UUID(&errs, "rid", c.Param("rid"))
	if !serdser.Flush(c, errs) {
		return nil, false
	}
	req := &rawUpdateStatusReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil, false
	}
	return &updateStatusReq{RentalID: rentalID, Status: req.Status}, true
}
