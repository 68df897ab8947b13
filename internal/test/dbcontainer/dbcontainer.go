// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dbcontainer starts a temporary PostgreSQL container for the
// integration test suites and connects a *postgres.Pool to it.
//
// With podman, the podman.service must be running and DOCKER_HOST must
// point to its socket, e.g.,
// DOCKER_HOST=unix://$XDG_RUNTIME_DIR/podman/podman.sock
package dbcontainer

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres"
	"github.com/stretchr/testify/assert"
)

// DBMSVersion is the tag of the postgres image.
const DBMSVersion = "16"

const retryDelay = 250 * time.Millisecond

// New starts a container and connects to it. The `timeout` limits the
// start up and connection attempts, while `ctx` is also used for the
// shutdown. The `dfrs` functions must be deferred by the caller (even
// if `ok` is false) in order to close the pool and remove the
// container.
func New(ctx context.Context, timeout time.Duration, t *testing.T) (
	pg *sqltestutil.PostgresContainer,
	pool *postgres.Pool,
	dfrs []func(),
	ok bool,
) {
	startCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	pg, err := sqltestutil.StartPostgresContainer(startCtx, DBMSVersion)
	if !assert.NoError(t, err, "failed to start a test database") {
		return
	}
	dfrs = append(dfrs, func() {
		assert.NoError(t, pg.Shutdown(ctx), "failed to shutdown test database")
	})
	for {
		pool, err = postgres.NewPool(startCtx, pg.ConnectionString())
		if err == nil || !starting(startCtx, err) {
			break
		}
		select {
		case <-startCtx.Done():
		case <-time.After(retryDelay):
		}
	}
	if !assert.NoError(t, err, "cannot connect to test database") {
		return
	}
	dfrs = append(dfrs, func() {
		assert.NoError(t, pool.Close(), "failed to close the connections pool")
	})
	return pg, pool, dfrs, true
}

// starting reports if `err` may be resolved by retrying, because the
// server is still starting up, and the start up deadline is not over.
func starting(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.CannotConnectNow
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
