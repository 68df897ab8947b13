// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package authn provides the authentication middleware which verifies
// the bearer tokens and attaches the caller Principal to the request
// context. Requests without a token pass through anonymously and the
// use cases decide if an operation needs an authenticated caller.
package authn

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/log"
	"github.com/momeni/car-rental/pkg/core/model"
)

const principalKey = "crweb.principal"

// TokenParser verifies a bearer token and returns its Principal.
type TokenParser interface {
	Parse(token string) (*model.Principal, error)
}

var errMalformedHeader = errors.New(
	"authorization header must be: Bearer <token>",
)

// Authenticate returns a middleware which parses the Authorization
// header with `tp`. A present but invalid header aborts the request
// with 401 status code.
func Authenticate(tp TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			c.Next()
			return
		}
		scheme, token, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			serdser.SerErr(c, cerr.Authentication(errMalformedHeader))
			c.Abort()
			return
		}
		p, err := tp.Parse(strings.TrimSpace(token))
		if err != nil {
			serdser.SerErr(c, err)
			c.Abort()
			return
		}
		c.Set(principalKey, p)
		c.Request = c.Request.WithContext(log.WithAttrs(
			c.Request.Context(), log.Stringer("user", p.UserID),
		))
		c.Next()
	}
}

// Principal returns the authenticated caller of the current request,
// or nil for anonymous requests.
func Principal(c *gin.Context) *model.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*model.Principal)
	return p
}

// RequireUser aborts anonymous requests with 401 status code.
func RequireUser(c *gin.Context) {
	if Principal(c) == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"detail": "authentication is required",
		})
		return
	}
	c.Next()
}
