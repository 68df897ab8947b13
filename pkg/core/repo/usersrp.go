// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/model"
)

// UsersQueryer contains the users queries. Missing users are reported
// by an error wrapping model.ErrUserNotFound and a duplicate email is
// reported by an error wrapping model.ErrEmailTaken.
type UsersQueryer interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, userID uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, userID uuid.UUID, p *model.UserPatch) (*model.User, error)

	// Delete removes a user. A user who has rentals may not be
	// deleted and model.ErrUserHasRentals is reported.
	Delete(ctx context.Context, userID uuid.UUID) error
}

type UsersConnQueryer interface {
	UsersQueryer
}

type UsersTxQueryer interface {
	UsersQueryer
}

type Users interface {
	Conn(Conn) UsersConnQueryer
	Tx(Tx) UsersTxQueryer
}
