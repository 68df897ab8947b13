// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package gin wraps the gin-gonic engine and its middlewares, so the
// configuration packages may instantiate an engine without importing
// the framework packages directly. The resources are implemented in
// the sub-packages (named like carsrs) and registered by the routes
// sub-package.
package gin

import (
	"log/slog"
	"time"

	ginlogger "github.com/FabienMht/ginslog/logger"
	ginrecovery "github.com/FabienMht/ginslog/recovery"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine

// New creates an engine which uses the given middlewares. Handlers
// pass the *gin.Context to the use cases as their context, so its
// Value method falls back to the request context, exposing the
// attributes which are attached by the middlewares for logging.
func New(middlewares ...HandlerFunc) *Engine {
	e := gin.New()
	e.ContextWithFallback = true
	e.Use(middlewares...)
	return e
}

// Logger logs each request through the `l` structured logger.
func Logger(l *slog.Logger) HandlerFunc {
	return ginlogger.New(l)
}

// Recovery converts panics into 500 responses, logging them with `l`.
func Recovery(l *slog.Logger) HandlerFunc {
	return ginrecovery.New(l)
}

// CORS allows the single-page front end, which is served from the
// `origins` (or any origin if it contains "*"), to call the API with
// a bearer token.
func CORS(origins []string) HandlerFunc {
	c := cors.Config{
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS",
		},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return cors.New(c)
		}
	}
	c.AllowOrigins = origins
	return cors.New(c)
}
