// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package usersuc_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/internal/test/memrepo"
	"github.com/momeni/car-rental/pkg/adapter/auth/jwt"
	"github.com/momeni/car-rental/pkg/adapter/hash/bcrypt"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/usecase/usersuc"
	"github.com/stretchr/testify/suite"
)

const secret = "a-test-only-secret-which-is-long-enough"

type UsersTestSuite struct {
	suite.Suite

	Ctx    context.Context
	Store  *memrepo.Store
	Tokens *jwt.Tokens
	UC     *usersuc.UseCase
	Admin  *model.Principal
}

func TestUsersTestSuite(t *testing.T) {
	suite.Run(t, &UsersTestSuite{Ctx: context.Background()})
}

func (uts *UsersTestSuite) SetupTest() {
	uts.Store = memrepo.New()
	h, err := bcrypt.New(4)
	uts.Require().NoError(err)
	uts.Tokens, err = jwt.New(secret, time.Hour)
	uts.Require().NoError(err)
	uts.UC, err = usersuc.New(
		uts.Store, uts.Store.Users(), h, uts.Tokens,
		usersuc.WithMinPasswordLength(8),
	)
	uts.Require().NoError(err)

	admin, err := uts.UC.NewUser(
		"Alice", "admin@crweb.test", "admin-pass", model.RoleAdmin,
	)
	uts.Require().NoError(err)
	_, err = uts.Store.Users().Conn(nil).Create(uts.Ctx, admin)
	uts.Require().NoError(err)
	uts.Admin = &model.Principal{UserID: admin.ID, Role: model.RoleAdmin}
}

func (uts *UsersTestSuite) assertStatus(err error, code int) {
	uts.Require().Error(err)
	var ce *cerr.Error
	if uts.True(errors.As(err, &ce), "unclassified error: %v", err) {
		uts.Equal(code, ce.HTTPStatusCode, "%v", err)
	}
}

func (uts *UsersTestSuite) register(email string) *model.Session {
	s, err := uts.UC.Register(uts.Ctx, "Camille", email, "user-pass")
	uts.Require().NoError(err)
	return s
}

func (uts *UsersTestSuite) TestRegister() {
	s := uts.register("  Camille@CRWeb.test ")
	uts.Equal("camille@crweb.test", s.User.Email)
	uts.Equal(model.RoleUser, s.User.Role)
	uts.NotEqual("user-pass", s.User.PasswordHash)

	p, err := uts.Tokens.Parse(s.Value)
	uts.Require().NoError(err)
	uts.Equal(s.User.ID, p.UserID)
	uts.Equal(model.RoleUser, p.Role)

	_, err = uts.UC.Register(uts.Ctx, "Twin", "camille@crweb.test", "other-pass")
	uts.ErrorIs(err, model.ErrEmailTaken)
	uts.assertStatus(err, http.StatusConflict)
}

func (uts *UsersTestSuite) TestRegisterValidation() {
	for _, tc := range []struct {
		name, email, pass string
	}{
		{"", "a@crweb.test", "long-enough"},
		{"Name", "not an email", "long-enough"},
		{"Name", "b@crweb.test", "short"},
	} {
		_, err := uts.UC.Register(uts.Ctx, tc.name, tc.email, tc.pass)
		uts.assertStatus(err, http.StatusBadRequest)
	}
	_, err := uts.UC.Register(uts.Ctx, "Name", "b@crweb.test", "short")
	uts.ErrorIs(err, model.ErrWeakPassword)
	_, err = uts.UC.NewUser("Name", "c@crweb.test", "long-enough", model.Role(42))
	uts.assertStatus(err, http.StatusBadRequest)
}

func (uts *UsersTestSuite) TestLogin() {
	reg := uts.register("camille@crweb.test")

	s, err := uts.UC.Login(uts.Ctx, "CAMILLE@crweb.test", "user-pass")
	uts.Require().NoError(err)
	uts.Equal(reg.User.ID, s.User.ID)
	uts.NotEmpty(s.Value)
	uts.True(s.ExpiresAt.After(time.Now()))

	_, err = uts.UC.Login(uts.Ctx, "camille@crweb.test", "wrong-pass")
	uts.ErrorIs(err, model.ErrInvalidCredentials)
	uts.assertStatus(err, http.StatusUnauthorized)
	_, err = uts.UC.Login(uts.Ctx, "nobody@crweb.test", "user-pass")
	uts.ErrorIs(err, model.ErrInvalidCredentials)
	uts.assertStatus(err, http.StatusUnauthorized)
}

func (uts *UsersTestSuite) TestGet() {
	s := uts.register("camille@crweb.test")
	self := &model.Principal{UserID: s.User.ID, Role: model.RoleUser}

	u, err := uts.UC.Get(uts.Ctx, self, s.User.ID)
	uts.Require().NoError(err)
	uts.Equal("camille@crweb.test", u.Email)
	_, err = uts.UC.Get(uts.Ctx, self, uts.Admin.UserID)
	uts.assertStatus(err, http.StatusForbidden)
	_, err = uts.UC.Get(uts.Ctx, nil, s.User.ID)
	uts.assertStatus(err, http.StatusUnauthorized)

	u, err = uts.UC.Get(uts.Ctx, uts.Admin, s.User.ID)
	uts.Require().NoError(err)
	uts.Equal(s.User.ID, u.ID)
	_, err = uts.UC.Get(uts.Ctx, uts.Admin, uuid.New())
	uts.ErrorIs(err, model.ErrUserNotFound)
	uts.assertStatus(err, http.StatusNotFound)
}

func (uts *UsersTestSuite) TestAdministration() {
	s := uts.register("camille@crweb.test")
	self := &model.Principal{UserID: s.User.ID, Role: model.RoleUser}

	_, err := uts.UC.List(uts.Ctx, self)
	uts.assertStatus(err, http.StatusForbidden)
	us, err := uts.UC.List(uts.Ctx, uts.Admin)
	uts.Require().NoError(err)
	uts.Len(us, 2)

	vendeur := model.RoleVendeur
	name := "  Camille M. "
	u, err := uts.UC.Update(uts.Ctx, uts.Admin, s.User.ID, &model.UserPatch{
		Name: &name, Role: &vendeur,
	})
	uts.Require().NoError(err)
	uts.Equal("Camille M.", u.Name)
	uts.Equal(model.RoleVendeur, u.Role)

	blank := " "
	_, err = uts.UC.Update(uts.Ctx, uts.Admin, s.User.ID, &model.UserPatch{
		Name: &blank,
	})
	uts.assertStatus(err, http.StatusBadRequest)
	_, err = uts.UC.Update(uts.Ctx, self, s.User.ID, &model.UserPatch{
		Name: &name,
	})
	uts.assertStatus(err, http.StatusForbidden)

	err = uts.UC.Delete(uts.Ctx, uts.Admin, uts.Admin.UserID)
	uts.assertStatus(err, http.StatusBadRequest)
	uts.Require().NoError(uts.UC.Delete(uts.Ctx, uts.Admin, s.User.ID))
	err = uts.UC.Delete(uts.Ctx, uts.Admin, s.User.ID)
	uts.ErrorIs(err, model.ErrUserNotFound)

	_, err = uts.UC.Login(uts.Ctx, "camille@crweb.test", "user-pass")
	uts.ErrorIs(err, model.ErrInvalidCredentials)
}

func (uts *UsersTestSuite) TestDeleteUserWithRentals() {
	s := uts.register("camille@crweb.test")
	car, err := uts.Store.Cars().Conn(nil).Create(uts.Ctx, &model.Car{
		ID: uuid.New(), Brand: "Fiat", Model: "500", Year: 2020,
		Color: "Yellow", Price: 30, Available: true,
	})
	uts.Require().NoError(err)
	start := time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC)
	_, err = uts.Store.Rentals().Tx(nil).Create(uts.Ctx, &model.Rental{
		ID: uuid.New(), CarID: car.ID, UserID: s.User.ID,
		StartDate: start, EndDate: start.AddDate(0, 0, 2),
		TotalPrice: 60, Status: model.RentalStatusCompleted,
	})
	uts.Require().NoError(err)

	err = uts.UC.Delete(uts.Ctx, uts.Admin, s.User.ID)
	uts.ErrorIs(err, model.ErrUserHasRentals)
	uts.assertStatus(err, http.StatusConflict)
}
