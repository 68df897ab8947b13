// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/car-rental/internal/test/dbcontainer"
	"github.com/momeni/car-rental/pkg/adapter/config/cfg1"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres/carsrp"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres/rentalsrp"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres/usersrp"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/routes"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/usecase/appuc"
	"github.com/momeni/car-rental/pkg/core/usecase/migrationuc"
	"github.com/stretchr/testify/suite"
)

const testConfig = `
database:
    url: %q
auth:
    jwt-secret: integration-test-jwt-secret
    token-ttl: 1h
    password-hash: scram-sha-1
usecases:
    rentals:
        max-rental-days: 30
versions:
    database: 1.0.0
    config: 1.0.0
`

type IntegrationGinTestSuite struct {
	suite.Suite

	Ctx  context.Context
	Pg   *sqltestutil.PostgresContainer
	Pool *postgres.Pool
	Gin  *gin.Engine

	userToken, vendorToken, adminToken string
}

func TestIntegrationGinTestSuite(t *testing.T) {
	ctx := context.Background()
	pg, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	suite.Run(t, &IntegrationGinTestSuite{
		Ctx:  ctx,
		Pg:   pg,
		Pool: pool,
	})
}

func (igts *IntegrationGinTestSuite) SetupSuite() {
	igts.T().Setenv(cfg1.EnvDatabaseURL, "")
	igts.T().Setenv(cfg1.EnvJWTSecret, "")
	c, err := cfg1.Load(
		[]byte(fmt.Sprintf(testConfig, igts.Pg.ConnectionString())),
	)
	igts.Require().NoError(err, "failed to load the test config")

	repos := appuc.Repos{
		Cars:    carsrp.New(),
		Rentals: rentalsrp.New(),
		Users:   usersrp.New(),
	}
	app, err := appuc.New(igts.Pool, repos, c)
	igts.Require().NoError(err, "failed to create app use case")
	err = migrationuc.NewInitDB(c, app.UsersUseCase()).InitDev(igts.Ctx)
	igts.Require().NoError(err, "failed to initialize dev database")

	igts.Gin = gin.New(gin.Recovery(slog.Default()))
	igts.Require().NotNil(igts.Gin, "cannot instantiate Gin engine")
	routes.Register(igts.Gin, app, c.Tokens())

	igts.userToken = igts.login(migrationuc.DevUsers[0])
	igts.vendorToken = igts.login(migrationuc.DevUsers[1])
	igts.adminToken = igts.login(migrationuc.DevUsers[2])
}

func (igts *IntegrationGinTestSuite) login(du migrationuc.DevUser) string {
	s := &model.Session{}
	code := igts.call(http.MethodPost, "auth/login", "", map[string]string{
		"email": du.Email, "password": du.Password,
	}, s)
	igts.Require().Equal(http.StatusOK, code, "login of %q", du.Email)
	igts.Require().Equal(du.Role, s.User.Role)
	igts.Require().NotEmpty(s.Value, "empty token")
	return s.Value
}

// call sends a request with the `body` JSON to the crweb API `path`
// and decodes its JSON response into `res` (if it is not nil).
// The response status code is returned.
func (igts *IntegrationGinTestSuite) call(
	method, path, token string, body, res any,
) int {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		igts.Require().NoError(err, "cannot marshal request body")
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, routes.Prefix+"/"+path, r)
	igts.Require().NoError(err, "cannot create %s request", method)
	if body != nil {
		req.Header.Add("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Add("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	igts.Gin.ServeHTTP(w, req)
	if res != nil {
		igts.NoError(json.Unmarshal(w.Body.Bytes(), res), "body is not json")
	}
	return w.Code
}

func (igts *IntegrationGinTestSuite) assertOptContains(
	expectedPart *string, seen []string, msgAndArgs ...any,
) bool {
	if expectedPart == nil {
		return true
	}
	if !igts.Equal(1, len(seen), msgAndArgs...) {
		return false
	}
	return igts.Contains(seen[0], *expectedPart, msgAndArgs...)
}

func stringAddr(s string) *string {
	return &s
}

func day(n int) string {
	return time.Now().UTC().AddDate(0, 0, n).Format(model.DateLayout)
}

// createCar creates a car with the given daily price as the vendor.
func (igts *IntegrationGinTestSuite) createCar(price float64) *model.Car {
	car := &model.Car{}
	code := igts.call(http.MethodPost, "cars", igts.vendorToken, map[string]any{
		"brand": "Skoda", "model": "Octavia", "year": 2023,
		"color": "Green", "price": price,
	}, car)
	igts.Require().Equal(http.StatusCreated, code, "cannot create car")
	igts.Require().True(car.Available, "new car must be available")
	return car
}

func (igts *IntegrationGinTestSuite) book(
	carID uuid.UUID, start, end int, res any,
) int {
	return igts.call(http.MethodPost, "rentals", igts.userToken, map[string]any{
		"carId": carID, "startDate": day(start), "endDate": day(end),
	}, res)
}

func (igts *IntegrationGinTestSuite) TestBadRequest() {
	for _, tc := range []struct {
		name, path     string
		body           any
		detail         *string
		carID, endDate *string
	}{
		{
			name:   "no body",
			path:   "rentals",
			detail: stringAddr("invalid request"),
		},
		{
			name:  "empty body",
			path:  "rentals",
			body:  map[string]any{},
			carID: stringAddr("failed on the 'required' tag"),
		},
		{
			name: "invalid car id",
			path: "rentals",
			body: map[string]any{
				"carId": "not-a-uuid", "startDate": day(1), "endDate": day(2),
			},
			carID: stringAddr("failed on the 'uuid' tag"),
		},
		{
			name: "invalid end date",
			path: "rentals",
			body: map[string]any{
				"carId": uuid.New(), "startDate": day(1), "endDate": "soon",
			},
			endDate: stringAddr("is neither a 2006-01-02 date"),
		},
	} {
		igts.Run(tc.name, func() {
			res := &struct {
				Detail  string
				CarID   []string `json:"carId"`
				EndDate []string `json:"endDate"`
			}{}
			code := igts.call(
				http.MethodPost, tc.path, igts.userToken, tc.body, res,
			)
			igts.Equal(http.StatusBadRequest, code)
			if tc.detail != nil {
				igts.Contains(res.Detail, *tc.detail, "wrong detail")
			}
			igts.assertOptContains(tc.carID, res.CarID, "wrong carId")
			igts.assertOptContains(tc.endDate, res.EndDate, "wrong endDate")
		})
	}
	igts.Run("unknown sort", func() {
		res := &struct{ Sort []string }{}
		code := igts.call(http.MethodGet, "cars?sort=cheap", "", nil, res)
		igts.Equal(http.StatusBadRequest, code)
		igts.assertOptContains(
			stringAddr("failed on the 'oneof' tag"), res.Sort, "wrong sort",
		)
	})
	igts.Run("reversed period", func() {
		car := igts.createCar(10)
		res := &struct{ Detail string }{}
		code := igts.book(car.ID, 5, 3, res)
		igts.Equal(http.StatusBadRequest, code)
		igts.Contains(res.Detail, model.ErrInvalidRange.Error())
	})
	igts.Run("too long", func() {
		car := igts.createCar(10)
		res := &struct{ Detail string }{}
		code := igts.book(car.ID, 1, 40, res)
		igts.Equal(http.StatusBadRequest, code)
		igts.Contains(res.Detail, model.ErrRentalTooLong.Error())
	})
}

func (igts *IntegrationGinTestSuite) TestNotFound() {
	missing := uuid.New().String()
	for _, tc := range []struct {
		name, method, path, token, detail string
	}{
		{"car", http.MethodGet, "cars/" + missing, "", "car not found"},
		{
			"availability", http.MethodGet,
			"cars/" + missing + "/availability?start=" + day(1) +
				"&end=" + day(2),
			"", "car not found",
		},
		{
			"rental", http.MethodGet, "rentals/" + missing,
			igts.userToken, "rental not found",
		},
		{
			"user", http.MethodGet, "users/" + missing,
			igts.adminToken, "user not found",
		},
	} {
		igts.Run(tc.name, func() {
			res := &struct{ Detail string }{}
			code := igts.call(tc.method, tc.path, tc.token, nil, res)
			igts.Equal(http.StatusNotFound, code)
			igts.Contains(res.Detail, tc.detail, "wrong detail")
		})
	}
}

func (igts *IntegrationGinTestSuite) TestAuthentication() {
	res := &struct{ Detail string }{}
	code := igts.call(http.MethodGet, "rentals", "", nil, res)
	igts.Equal(http.StatusUnauthorized, code, "anonymous listing")

	code = igts.call(http.MethodGet, "rentals", "forged.token.value", nil, res)
	igts.Equal(http.StatusUnauthorized, code, "forged token")

	code = igts.call(http.MethodPost, "auth/login", "", map[string]string{
		"email": migrationuc.DevUsers[0].Email, "password": "wrong-pass",
	}, res)
	igts.Equal(http.StatusUnauthorized, code, "wrong password")

	me := &model.User{}
	code = igts.call(http.MethodGet, "auth/me", igts.userToken, nil, me)
	igts.Equal(http.StatusOK, code)
	igts.Equal(migrationuc.DevUsers[0].Email, me.Email)
}

func (igts *IntegrationGinTestSuite) TestRegister() {
	s := &model.Session{}
	code := igts.call(http.MethodPost, "auth/register", "", map[string]string{
		"name": "Jeanne", "email": "Jeanne@Example.com", "password": "secret-pass",
	}, s)
	igts.Require().Equal(http.StatusCreated, code)
	igts.Equal("jeanne@example.com", s.User.Email)
	igts.Equal(model.RoleUser, s.User.Role)

	res := &struct{ Detail string }{}
	code = igts.call(http.MethodPost, "auth/register", "", map[string]string{
		"name": "Jeanne", "email": "jeanne@example.com", "password": "secret-pass",
	}, res)
	igts.Equal(http.StatusConflict, code)
	igts.Contains(res.Detail, model.ErrEmailTaken.Error())
}

func (igts *IntegrationGinTestSuite) TestCarsAuthorization() {
	res := &struct{ Detail string }{}
	code := igts.call(http.MethodPost, "cars", igts.userToken, map[string]any{
		"brand": "Fiat", "model": "500", "year": 2020,
		"color": "White", "price": 30,
	}, res)
	igts.Equal(http.StatusForbidden, code, "renters may not add cars")

	car := igts.createCar(25)
	updated := &model.Car{}
	code = igts.call(
		http.MethodPut, "cars/"+car.ID.String(), igts.adminToken,
		map[string]any{"price": 27.5, "color": "Yellow"}, updated,
	)
	igts.Equal(http.StatusOK, code)
	igts.Equal(27.5, updated.Price)
	igts.Equal("Yellow", updated.Color)
	igts.Equal(car.Brand, updated.Brand)

	fetched := &model.Car{}
	code = igts.call(http.MethodGet, "cars/"+car.ID.String(), "", nil, fetched)
	igts.Equal(http.StatusOK, code)
	igts.Equal(updated.Price, fetched.Price)

	code = igts.call(
		http.MethodDelete, "cars/"+car.ID.String(), igts.vendorToken,
		nil, nil,
	)
	igts.Equal(http.StatusNoContent, code)
}

func (igts *IntegrationGinTestSuite) TestBookingLifecycle() {
	car := igts.createCar(50)

	first := &model.Rental{}
	code := igts.book(car.ID, 10, 13, first)
	igts.Require().Equal(http.StatusCreated, code)
	igts.Equal(model.RentalStatusPending, first.Status)
	igts.Equal(150.0, first.TotalPrice)

	res := &struct{ Detail string }{}
	code = igts.book(car.ID, 12, 14, res)
	igts.Equal(http.StatusConflict, code, "overlapping booking")
	igts.Contains(res.Detail, model.ErrBookingConflict.Error())

	second := &model.Rental{}
	code = igts.book(car.ID, 13, 15, second)
	igts.Require().Equal(http.StatusCreated, code, "touching booking")

	a := &model.Availability{}
	code = igts.call(
		http.MethodGet,
		fmt.Sprintf(
			"cars/%s/availability?start=%s&end=%s",
			car.ID, day(11), day(12),
		),
		"", nil, a,
	)
	igts.Equal(http.StatusOK, code)
	igts.True(a.Conflict)
	igts.Len(a.Blocking, 1)

	var reserved []model.Period
	code = igts.call(
		http.MethodGet, "cars/"+car.ID.String()+"/reserved-periods",
		"", nil, &reserved,
	)
	igts.Equal(http.StatusOK, code)
	igts.Len(reserved, 2)

	code = igts.call(
		http.MethodPut, "rentals/"+first.ID.String(), igts.userToken,
		map[string]string{"status": "CONFIRMED"}, res,
	)
	igts.Equal(http.StatusForbidden, code, "renters may only cancel")

	confirmed := &model.Rental{}
	code = igts.call(
		http.MethodPut, "rentals/"+first.ID.String(), igts.vendorToken,
		map[string]string{"status": "CONFIRMED"}, confirmed,
	)
	igts.Equal(http.StatusOK, code)
	igts.Equal(model.RentalStatusConfirmed, confirmed.Status)

	cancelled := &model.Rental{}
	code = igts.call(
		http.MethodPut, "rentals/"+second.ID.String(), igts.userToken,
		map[string]string{"status": "CANCELLED"}, cancelled,
	)
	igts.Equal(http.StatusOK, code)
	igts.Equal(model.RentalStatusCancelled, cancelled.Status)

	code = igts.call(
		http.MethodPut, "rentals/"+second.ID.String(), igts.vendorToken,
		map[string]string{"status": "CONFIRMED"}, res,
	)
	igts.Equal(http.StatusBadRequest, code, "terminal rental")
	igts.Contains(res.Detail, model.ErrInvalidStatus.Error())

	fetched := &model.Car{}
	igts.call(http.MethodGet, "cars/"+car.ID.String(), "", nil, fetched)
	igts.Equal(1, fetched.TimesRented)
	igts.False(fetched.Available, "confirmed rental holds the car")

	code = igts.call(
		http.MethodDelete, "cars/"+car.ID.String(), igts.vendorToken,
		nil, res,
	)
	igts.Equal(http.StatusConflict, code, "car has rentals")

	code = igts.call(
		http.MethodPut, "rentals/"+first.ID.String(), igts.vendorToken,
		map[string]string{"status": "COMPLETED"}, nil,
	)
	igts.Equal(http.StatusOK, code)
	igts.call(http.MethodGet, "cars/"+car.ID.String(), "", nil, fetched)
	igts.True(fetched.Available, "completed rental releases the car")

	var mine []model.Rental
	code = igts.call(
		http.MethodGet, "rentals?car="+car.ID.String()+"&status=COMPLETED",
		igts.userToken, nil, &mine,
	)
	igts.Equal(http.StatusOK, code)
	igts.Require().Len(mine, 1)
	igts.Equal(first.ID, mine[0].ID)
	igts.Require().NotNil(mine[0].Car)
	igts.Equal(car.Brand, mine[0].Car.Brand)
}

func (igts *IntegrationGinTestSuite) TestPriceMismatch() {
	car := igts.createCar(40)
	res := &struct{ Detail string }{}
	code := igts.call(http.MethodPost, "rentals", igts.userToken, map[string]any{
		"carId": car.ID, "startDate": day(3), "endDate": day(5),
		"totalPrice": 70,
	}, res)
	igts.Equal(http.StatusBadRequest, code)
	igts.Contains(res.Detail, model.ErrPriceMismatch.Error())

	r := &model.Rental{}
	code = igts.call(http.MethodPost, "rentals", igts.userToken, map[string]any{
		"carId": car.ID, "startDate": day(3), "endDate": day(5),
		"totalPrice": 80,
	}, r)
	igts.Equal(http.StatusCreated, code)
	igts.Equal(80.0, r.TotalPrice)
}

func (igts *IntegrationGinTestSuite) TestWithdrawnCar() {
	car := igts.createCar(60)
	updated := &model.Car{}
	code := igts.call(
		http.MethodPut, "cars/"+car.ID.String(), igts.vendorToken,
		map[string]any{"available": false}, updated,
	)
	igts.Require().Equal(http.StatusOK, code)
	igts.True(updated.Withdrawn)
	igts.False(updated.Available)

	res := &struct{ Detail string }{}
	code = igts.book(car.ID, 2, 4, res)
	igts.Equal(http.StatusConflict, code)
	igts.Contains(res.Detail, model.ErrCarUnavailable.Error())
}

func (igts *IntegrationGinTestSuite) TestUsersAdministration() {
	res := &struct{ Detail string }{}
	code := igts.call(http.MethodGet, "users", igts.userToken, nil, res)
	igts.Equal(http.StatusForbidden, code)

	var us []model.User
	code = igts.call(http.MethodGet, "users", igts.adminToken, nil, &us)
	igts.Equal(http.StatusOK, code)
	igts.GreaterOrEqual(len(us), len(migrationuc.DevUsers))

	code = igts.call(http.MethodPut, "users/"+us[0].ID.String(),
		igts.adminToken, map[string]string{"role": "OWNER"}, nil)
	igts.Equal(http.StatusBadRequest, code, "unknown role")
}

func (igts *IntegrationGinTestSuite) TestSettings() {
	vs := &model.VisibleSettings{}
	code := igts.call(http.MethodGet, "settings", "", nil, vs)
	igts.Equal(http.StatusOK, code)
	igts.Equal(0.01, vs.Booking.PriceTolerance)
	igts.Equal(30, vs.Booking.MaxRentalDays)
	igts.Equal(5, vs.Cars.PopularLimit)

	var popular []model.Car
	code = igts.call(http.MethodGet, "cars/popular?limit=2", "", nil, &popular)
	igts.Equal(http.StatusOK, code)
	igts.Len(popular, 2)
	igts.GreaterOrEqual(popular[0].TimesRented, popular[1].TimesRented)
}
