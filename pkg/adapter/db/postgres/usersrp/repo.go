// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package usersrp

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (users *Repo) Conn(c repo.Conn) repo.UsersConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Create(ctx context.Context, u *model.User) (*model.User, error) {
	return Create(ctx, cq.Conn, u)
}

func (cq connQueryer) Get(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return Get(ctx, cq.Conn, userID)
}

func (cq connQueryer) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return GetByEmail(ctx, cq.Conn, email)
}

func (cq connQueryer) List(ctx context.Context) ([]model.User, error) {
	return List(ctx, cq.Conn)
}

func (cq connQueryer) Update(ctx context.Context, userID uuid.UUID, p *model.UserPatch) (*model.User, error) {
	return Update(ctx, cq.Conn, userID, p)
}

func (cq connQueryer) Delete(ctx context.Context, userID uuid.UUID) error {
	return Delete(ctx, cq.Conn, userID)
}

type txQueryer struct {
	*postgres.Tx
}

func (users *Repo) Tx(tx repo.Tx) repo.UsersTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Create(ctx context.Context, u *model.User) (*model.User, error) {
	return Create(ctx, tq.Tx, u)
}

func (tq txQueryer) Get(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return Get(ctx, tq.Tx, userID)
}

func (tq txQueryer) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return GetByEmail(ctx, tq.Tx, email)
}

func (tq txQueryer) List(ctx context.Context) ([]model.User, error) {
	return List(ctx, tq.Tx)
}

func (tq txQueryer) Update(ctx context.Context, userID uuid.UUID, p *model.UserPatch) (*model.User, error) {
	return Update(ctx, tq.Tx, userID, p)
}

func (tq txQueryer) Delete(ctx context.Context, userID uuid.UUID) error {
	return Delete(ctx, tq.Tx, userID)
}
