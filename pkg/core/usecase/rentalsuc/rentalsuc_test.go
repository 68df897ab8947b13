// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package rentalsuc_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/internal/test/memrepo"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/usecase/rentalsuc"
	"github.com/stretchr/testify/suite"
)

var now = time.Date(2030, 1, 1, 9, 30, 0, 0, time.UTC)

func day(n int) time.Time {
	return time.Date(2030, 1, n, 0, 0, 0, 0, time.UTC)
}

type recorder struct {
	mu     sync.Mutex
	events []model.RentalEvent
}

func (r *recorder) RentalEvent(_ context.Context, ev *model.RentalEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *ev)
	return nil
}

type RentalsTestSuite struct {
	suite.Suite

	Ctx      context.Context
	Store    *memrepo.Store
	Events   *recorder
	UC       *rentalsuc.UseCase
	Car      *model.Car
	Renter   *model.Principal
	Other    *model.Principal
	Vendor   *model.Principal
	Tolerant *rentalsuc.UseCase
}

func TestRentalsTestSuite(t *testing.T) {
	suite.Run(t, &RentalsTestSuite{Ctx: context.Background()})
}

func (rts *RentalsTestSuite) SetupTest() {
	rts.Store = memrepo.New()
	rts.Events = &recorder{}
	uc, err := rentalsuc.New(
		rts.Store, rts.Store.Cars(), rts.Store.Rentals(),
		rentalsuc.WithNotifier(rts.Events),
		rentalsuc.WithMaxRentalDays(14),
		rentalsuc.WithClock(func() time.Time { return now }),
	)
	rts.Require().NoError(err)
	rts.UC = uc

	rts.Renter = rts.createUser("renter@crweb.test", model.RoleUser)
	rts.Other = rts.createUser("other@crweb.test", model.RoleUser)
	rts.Vendor = rts.createUser("vendor@crweb.test", model.RoleVendeur)
	rts.Car = rts.createCar(false)
}

func (rts *RentalsTestSuite) createUser(
	email string, role model.Role,
) *model.Principal {
	u := &model.User{
		ID: uuid.New(), Email: email, Name: email, Role: role,
		CreatedAt: now,
	}
	_, err := rts.Store.Users().Conn(nil).Create(rts.Ctx, u)
	rts.Require().NoError(err)
	return &model.Principal{UserID: u.ID, Role: role}
}

func (rts *RentalsTestSuite) createCar(withdrawn bool) *model.Car {
	c, err := rts.Store.Cars().Conn(nil).Create(rts.Ctx, &model.Car{
		ID: uuid.New(), Brand: "Renault", Model: "Clio", Year: 2024,
		Color: "Red", Price: 45, CreatedAt: now,
		Available: !withdrawn, Withdrawn: withdrawn,
	})
	rts.Require().NoError(err)
	return c
}

func (rts *RentalsTestSuite) book(
	carID uuid.UUID, start, end int,
) (*model.Rental, error) {
	return rts.UC.CreateRental(rts.Ctx, rts.Renter, &model.BookingRequest{
		CarID: carID, Start: day(start), End: day(end),
	})
}

func (rts *RentalsTestSuite) car() model.Car {
	c, ok := rts.Store.Car(rts.Car.ID)
	rts.Require().True(ok, "car is missing")
	return c
}

func (rts *RentalsTestSuite) assertStatus(err error, code int, target error) {
	rts.Require().Error(err)
	rts.ErrorIs(err, target)
	var ce *cerr.Error
	if rts.True(errors.As(err, &ce), "unclassified error: %v", err) {
		rts.Equal(code, ce.HTTPStatusCode, "%v", err)
	}
}

func (rts *RentalsTestSuite) TestCreateRentalHoldsCar() {
	r, err := rts.book(rts.Car.ID, 10, 13)
	rts.Require().NoError(err)
	rts.Equal(model.RentalStatusPending, r.Status)
	rts.Equal(135.0, r.TotalPrice)
	rts.Equal(rts.Renter.UserID, r.UserID)
	rts.Equal(now, r.CreatedAt)
	rts.False(rts.car().Available)
	rts.Equal(0, rts.car().TimesRented)

	rts.Require().Len(rts.Events.events, 1)
	ev := rts.Events.events[0]
	rts.Equal(model.RentalCreated, ev.Kind)
	rts.Equal(r.ID, ev.Rental.ID)
	rts.Nil(ev.PrevStatus)
}

func (rts *RentalsTestSuite) TestTouchingPeriods() {
	_, err := rts.book(rts.Car.ID, 10, 13)
	rts.Require().NoError(err)
	_, err = rts.book(rts.Car.ID, 13, 15)
	rts.NoError(err, "end day is free")
	_, err = rts.book(rts.Car.ID, 8, 10)
	rts.NoError(err, "start day is free")
}

func (rts *RentalsTestSuite) TestOverlapConflicts() {
	_, err := rts.book(rts.Car.ID, 10, 13)
	rts.Require().NoError(err)
	_, err = rts.book(rts.Car.ID, 12, 16)
	rts.assertStatus(err, http.StatusConflict, model.ErrBookingConflict)
	rts.Len(rts.Store.AllRentals(), 1, "rejected booking is not stored")
}

func (rts *RentalsTestSuite) TestWithdrawnCar() {
	withdrawn := rts.createCar(true)
	_, err := rts.book(withdrawn.ID, 10, 13)
	rts.assertStatus(err, http.StatusConflict, model.ErrCarUnavailable)
}

func (rts *RentalsTestSuite) setListed(listed bool) {
	_, err := rts.Store.Cars().Conn(nil).Update(
		rts.Ctx, rts.Car.ID, &model.CarPatch{Available: &listed},
	)
	rts.Require().NoError(err)
}

func (rts *RentalsTestSuite) TestWithdrawalSurvivesRelease() {
	r, err := rts.book(rts.Car.ID, 10, 13)
	rts.Require().NoError(err)
	rts.setListed(false)

	_, err = rts.book(rts.Car.ID, 20, 22)
	rts.assertStatus(err, http.StatusConflict, model.ErrCarUnavailable)

	_, err = rts.UC.UpdateStatus(rts.Ctx, rts.Renter, r.ID, "CANCELLED")
	rts.Require().NoError(err)
	rts.False(rts.car().Available, "releasing keeps the car withdrawn")
	rts.True(rts.car().Withdrawn)

	rts.setListed(true)
	rts.True(rts.car().Available)
	_, err = rts.book(rts.Car.ID, 20, 22)
	rts.NoError(err)
}

func (rts *RentalsTestSuite) TestListingHeldCarKeepsHold() {
	_, err := rts.book(rts.Car.ID, 10, 13)
	rts.Require().NoError(err)
	rts.setListed(false)
	rts.setListed(true)
	rts.False(rts.car().Withdrawn)
	rts.False(rts.car().Available, "active rental still holds the car")
}

func (rts *RentalsTestSuite) TestHeldCarIsBookableForOtherDays() {
	_, err := rts.book(rts.Car.ID, 10, 13)
	rts.Require().NoError(err)
	rts.Require().False(rts.car().Available)
	_, err = rts.book(rts.Car.ID, 20, 22)
	rts.NoError(err, "unavailable only because of an active rental")
}

func (rts *RentalsTestSuite) TestInvalidBookings() {
	_, err := rts.book(rts.Car.ID, 13, 13)
	rts.assertStatus(err, http.StatusBadRequest, model.ErrInvalidRange)
	_, err = rts.book(rts.Car.ID, 1, 16)
	rts.assertStatus(err, http.StatusBadRequest, model.ErrRentalTooLong)
	_, err = rts.book(uuid.New(), 1, 3)
	rts.assertStatus(err, http.StatusNotFound, model.ErrCarNotFound)
	_, err = rts.UC.CreateRental(rts.Ctx, nil, &model.BookingRequest{
		CarID: rts.Car.ID, Start: day(1), End: day(3),
	})
	rts.assertStatus(err, http.StatusUnauthorized, model.ErrForbidden)
}

func (rts *RentalsTestSuite) TestPriceMismatch() {
	req := func(total float64) *model.BookingRequest {
		return &model.BookingRequest{
			CarID: rts.Car.ID, Start: day(1), End: day(3), TotalPrice: &total,
		}
	}
	_, err := rts.UC.CreateRental(rts.Ctx, rts.Renter, req(80))
	rts.assertStatus(err, http.StatusBadRequest, model.ErrPriceMismatch)
	r, err := rts.UC.CreateRental(rts.Ctx, rts.Renter, req(90.005))
	rts.Require().NoError(err, "within tolerance")
	rts.Equal(90.0, r.TotalPrice, "server computed price is stored")
}

func (rts *RentalsTestSuite) TestConfirmAndComplete() {
	r, err := rts.book(rts.Car.ID, 10, 13)
	rts.Require().NoError(err)

	r, err = rts.UC.UpdateStatus(rts.Ctx, rts.Vendor, r.ID, "CONFIRMED")
	rts.Require().NoError(err)
	rts.Equal(model.RentalStatusConfirmed, r.Status)
	rts.Equal(1, rts.car().TimesRented)
	rts.False(rts.car().Available)

	r, err = rts.UC.UpdateStatus(rts.Ctx, rts.Vendor, r.ID, "COMPLETED")
	rts.Require().NoError(err)
	rts.Equal(model.RentalStatusCompleted, r.Status)
	rts.Equal(1, rts.car().TimesRented)
	rts.True(rts.car().Available)

	rts.Require().Len(rts.Events.events, 3)
	ev := rts.Events.events[2]
	rts.Equal(model.RentalStatusChanged, ev.Kind)
	rts.Require().NotNil(ev.PrevStatus)
	rts.Equal(model.RentalStatusConfirmed, *ev.PrevStatus)
}

func (rts *RentalsTestSuite) TestCancelKeepsOtherHolds() {
	first, err := rts.book(rts.Car.ID, 10, 13)
	rts.Require().NoError(err)
	_, err = rts.book(rts.Car.ID, 20, 23)
	rts.Require().NoError(err)

	_, err = rts.UC.UpdateStatus(rts.Ctx, rts.Renter, first.ID, "CANCELLED")
	rts.Require().NoError(err)
	rts.False(rts.car().Available, "second rental still holds the car")

	_, err = rts.book(rts.Car.ID, 11, 12)
	rts.NoError(err, "cancelled period is free again")
}

func (rts *RentalsTestSuite) TestRejectedTransitions() {
	r, err := rts.book(rts.Car.ID, 10, 13)
	rts.Require().NoError(err)

	_, err = rts.UC.UpdateStatus(rts.Ctx, rts.Vendor, r.ID, "PENDING")
	rts.assertStatus(err, http.StatusBadRequest, model.ErrInvalidStatus)
	_, err = rts.UC.UpdateStatus(rts.Ctx, rts.Vendor, r.ID, "DONE")
	rts.assertStatus(err, http.StatusBadRequest, model.ErrInvalidStatus)
	_, err = rts.UC.UpdateStatus(rts.Ctx, rts.Vendor, r.ID, "COMPLETED")
	rts.assertStatus(err, http.StatusBadRequest, model.ErrInvalidStatus)

	_, err = rts.UC.UpdateStatus(rts.Ctx, rts.Vendor, r.ID, "CANCELLED")
	rts.Require().NoError(err)
	_, err = rts.UC.UpdateStatus(rts.Ctx, rts.Vendor, r.ID, "CONFIRMED")
	rts.assertStatus(err, http.StatusBadRequest, model.ErrInvalidStatus)
	rts.True(rts.car().Available)
}

func (rts *RentalsTestSuite) TestRenterPermissions() {
	r, err := rts.book(rts.Car.ID, 10, 13)
	rts.Require().NoError(err)

	_, err = rts.UC.UpdateStatus(rts.Ctx, rts.Renter, r.ID, "CONFIRMED")
	rts.assertStatus(err, http.StatusForbidden, model.ErrForbidden)
	_, err = rts.UC.UpdateStatus(rts.Ctx, rts.Other, r.ID, "CANCELLED")
	rts.assertStatus(err, http.StatusForbidden, model.ErrForbidden)
	_, err = rts.UC.GetRental(rts.Ctx, rts.Other, r.ID)
	rts.assertStatus(err, http.StatusForbidden, model.ErrForbidden)
	err = rts.UC.DeleteRental(rts.Ctx, rts.Renter, r.ID)
	rts.assertStatus(err, http.StatusForbidden, model.ErrForbidden)

	got, err := rts.UC.GetRental(rts.Ctx, rts.Renter, r.ID)
	rts.Require().NoError(err)
	rts.Require().NotNil(got.Car)
	rts.Equal(rts.Car.Brand, got.Car.Brand)
	rts.Require().NotNil(got.User)
	rts.Equal("renter@crweb.test", got.User.Email)
}

func (rts *RentalsTestSuite) TestDeleteRentalReleasesCar() {
	r, err := rts.book(rts.Car.ID, 10, 13)
	rts.Require().NoError(err)
	rts.Require().False(rts.car().Available)

	rts.Require().NoError(rts.UC.DeleteRental(rts.Ctx, rts.Vendor, r.ID))
	rts.True(rts.car().Available)
	rts.Empty(rts.Store.AllRentals())
	rts.Equal(model.RentalDeleted, rts.Events.events[len(rts.Events.events)-1].Kind)

	err = rts.UC.DeleteRental(rts.Ctx, rts.Vendor, r.ID)
	rts.assertStatus(err, http.StatusNotFound, model.ErrRentalNotFound)
}

func (rts *RentalsTestSuite) TestListRentals() {
	mine, err := rts.book(rts.Car.ID, 10, 13)
	rts.Require().NoError(err)
	_, err = rts.UC.CreateRental(rts.Ctx, rts.Other, &model.BookingRequest{
		CarID: rts.Car.ID, Start: day(20), End: day(21),
	})
	rts.Require().NoError(err)

	otherID := rts.Other.UserID
	rs, err := rts.UC.ListRentals(rts.Ctx, rts.Renter, model.RentalFilter{
		UserID: &otherID,
	})
	rts.Require().NoError(err)
	rts.Require().Len(rs, 1, "renters only see their own rentals")
	rts.Equal(mine.ID, rs[0].ID)

	rs, err = rts.UC.ListRentals(rts.Ctx, rts.Vendor, model.RentalFilter{})
	rts.Require().NoError(err)
	rts.Len(rs, 2)

	rs, err = rts.UC.ListRentals(rts.Ctx, rts.Vendor, model.RentalFilter{
		Statuses: []model.RentalStatus{model.RentalStatusConfirmed},
	})
	rts.Require().NoError(err)
	rts.Empty(rs)
}

func (rts *RentalsTestSuite) TestCheckAvailability() {
	_, err := rts.book(rts.Car.ID, 10, 13)
	rts.Require().NoError(err)

	a, err := rts.UC.CheckAvailability(rts.Ctx, rts.Car.ID, day(12), day(14))
	rts.Require().NoError(err)
	rts.True(a.Conflict)
	rts.Equal([]model.Period{{Start: day(10), End: day(13)}}, a.Blocking)

	again, err := rts.UC.CheckAvailability(rts.Ctx, rts.Car.ID, day(12), day(14))
	rts.Require().NoError(err)
	rts.Equal(a, again, "checking has no side effects")

	a, err = rts.UC.CheckAvailability(rts.Ctx, rts.Car.ID, day(13), day(14))
	rts.Require().NoError(err)
	rts.False(a.Conflict)
	rts.Empty(a.Blocking)

	_, err = rts.UC.CheckAvailability(rts.Ctx, rts.Car.ID, day(14), day(13))
	rts.assertStatus(err, http.StatusBadRequest, model.ErrInvalidRange)
	_, err = rts.UC.CheckAvailability(rts.Ctx, uuid.New(), day(1), day(2))
	rts.assertStatus(err, http.StatusNotFound, model.ErrCarNotFound)

	ps, err := rts.UC.ReservedPeriods(rts.Ctx, rts.Car.ID)
	rts.Require().NoError(err)
	rts.Equal([]model.Period{{Start: day(10), End: day(13)}}, ps)
}

func (rts *RentalsTestSuite) TestConcurrentBookings() {
	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// all periods contain the 10th day
			_, errs[i] = rts.book(rts.Car.ID, 10-i%3, 11+i%4)
		}(i)
	}
	wg.Wait()
	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		rts.ErrorIs(err, model.ErrBookingConflict)
	}
	rts.Equal(1, succeeded)
	rts.Len(rts.Store.AllRentals(), 1)
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	s := memrepo.New()
	for _, opt := range []rentalsuc.Option{
		rentalsuc.WithPriceTolerance(-1),
		rentalsuc.WithMaxRentalDays(0),
		rentalsuc.WithNotifier(nil),
		rentalsuc.WithClock(nil),
	} {
		if _, err := rentalsuc.New(s, s.Cars(), s.Rentals(), opt); err == nil {
			t.Error("expected an invalid option error")
		}
	}
	uc, err := rentalsuc.New(s, s.Cars(), s.Rentals())
	if err != nil {
		t.Fatal(err)
	}
	if got := uc.Settings().PriceTolerance; got != 0.01 {
		t.Errorf("default price tolerance is %v", got)
	}
}
