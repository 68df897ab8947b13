// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/momeni/car-rental/pkg/adapter/auth/jwt"
	"github.com/momeni/car-rental/pkg/adapter/config"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres/carsrp"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres/rentalsrp"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres/usersrp"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/routes"
	"github.com/momeni/car-rental/pkg/core/log"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
	"github.com/momeni/car-rental/pkg/core/usecase/appuc"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var listenAddr string

// tokenParser lets a reloaded configuration replace the JWT secret
// without re-registering the routes.
type tokenParser struct {
	atomic.Pointer[jwt.Tokens]
}

func (tp *tokenParser) Parse(token string) (*model.Principal, error) {
	return tp.Load().Parse(token)
}

func serve(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(
		cmd.Context(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	p, err := c.ConnectionPool(ctx, repo.NormalRole)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	repos := appuc.Repos{
		Cars:    carsrp.New(),
		Rentals: rentalsrp.New(),
		Users:   usersrp.New(),
	}
	pub, err := c.Events.NewPublisher(ctx)
	if err != nil {
		return fmt.Errorf("creating events publisher: %w", err)
	}
	if pub != nil {
		defer pub.Close()
		repos.Notifier = pub
	}
	app, err := appuc.New(p, repos, c)
	if err != nil {
		return fmt.Errorf("creating application use case: %w", err)
	}
	tp := &tokenParser{}
	tp.Store(c.Tokens())

	e := c.Gin.NewEngine()
	routes.Register(e, app, tp)
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go reloadOnSighup(ctx, app, tp)

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "serving crweb", slog.String("addr", listenAddr))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err = <-errCh:
		return fmt.Errorf("serving HTTP: %w", err)
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down")
	sctx, cancel := context.WithTimeout(
		context.WithoutCancel(ctx), shutdownTimeout,
	)
	defer cancel()
	if err = srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}
	if err = <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving HTTP: %w", err)
	}
	return nil
}

// reloadOnSighup reloads the configuration file for each SIGHUP and
// replaces the use case objects of `app` and the tokens of `tp`.
// A failed reload is logged and keeps the current settings.
// The database connection and broker settings are not reloaded.
func reloadOnSighup(
	ctx context.Context, app *appuc.UseCase, tp *tokenParser,
) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
		}
		c, err := config.Load(cfgPath)
		if err == nil {
			err = app.Reload(c)
		}
		if err != nil {
			log.Error(
				ctx, "reloading config failed",
				slog.String("path", cfgPath), log.Err("err", err),
			)
			continue
		}
		tp.Store(c.Tokens())
		log.Info(ctx, "config is reloaded", slog.String("path", cfgPath))
	}
}
