// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package usersuc contains the users UseCase which supports the
// accounts related use cases, namely registration and login of users
// (which produce an authentication token) and the management of users
// by the admins.
package usersuc

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/log"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/passwd"
	"github.com/momeni/car-rental/pkg/core/repo"
)

// TokenIssuer creates signed authentication tokens for users.
// The adapters layer parses them back into a model.Principal.
type TokenIssuer interface {
	Issue(u *model.User) (*model.Token, error)
}

// UseCase represents a users use case. It holds a database connection
// pool, the users repository, a password hasher, and a token issuer.
type UseCase struct {
	pool    repo.Pool
	usersrp repo.Users
	hasher  passwd.Hasher
	tokens  TokenIssuer

	minPasswordLen int
	now            func() time.Time
}

// New instantiates a users use case.
func New(
	p repo.Pool,
	u repo.Users,
	h passwd.Hasher,
	t TokenIssuer,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{pool: p, usersrp: u, hasher: h, tokens: t}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.minPasswordLen == 0 {
		uc.minPasswordLen = 6
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc, nil
}

// Register use case creates a USER account and logs it in.
// The email is normalized to lower-case and must be unique.
func (users *UseCase) Register(
	ctx context.Context, name, email, password string,
) (*model.Session, error) {
	u, err := users.NewUser(name, email, password, model.RoleUser)
	if err != nil {
		return nil, err
	}
	err = users.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		u, err = users.usersrp.Conn(c).Create(ctx, u)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "user is registered", log.Stringer("user", u.ID))
	return users.session(u)
}

// NewUser validates the given fields and returns a (not yet stored)
// user having a hashed password. It is also used for creating the
// initial admin user of a production database.
func (users *UseCase) NewUser(
	name, email, password string, role model.Role,
) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, cerr.BadRequest(errors.New("name is empty"))
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, cerr.BadRequest(fmt.Errorf("invalid email: %w", err))
	}
	if len(password) < users.minPasswordLen {
		return nil, cerr.BadRequest(fmt.Errorf(
			"%w: at least %d characters are required",
			model.ErrWeakPassword, users.minPasswordLen,
		))
	}
	if err := role.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	h, err := users.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	return &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: h,
		Name:         name,
		Role:         role,
		CreatedAt:    users.now(),
	}, nil
}

// Login use case verifies the email and password of a user and
// returns a session token. Unknown emails and wrong passwords are
// reported identically with ErrInvalidCredentials.
func (users *UseCase) Login(
	ctx context.Context, email, password string,
) (*model.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u *model.User
	err := users.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		u, err = users.usersrp.Conn(c).GetByEmail(ctx, email)
		return err
	})
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return nil, cerr.Authentication(model.ErrInvalidCredentials)
	case err != nil:
		return nil, err
	}
	ok, err := users.hasher.Verify(u.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		log.Info(ctx, "wrong password", log.Stringer("user", u.ID))
		return nil, cerr.Authentication(model.ErrInvalidCredentials)
	}
	return users.session(u)
}

func (users *UseCase) session(u *model.User) (*model.Session, error) {
	t, err := users.tokens.Issue(u)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}
	return &model.Session{Token: *t, User: u}, nil
}

// List use case returns all users for an admin.
func (users *UseCase) List(
	ctx context.Context, p *model.Principal,
) (us []model.User, err error) {
	if err = requireAdmin(p); err != nil {
		return nil, err
	}
	err = users.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		us, err = users.usersrp.Conn(c).List(ctx)
		return err
	})
	if err != nil {
		us = nil
	}
	return
}

// Get use case returns the userID user for an admin or for itself.
func (users *UseCase) Get(
	ctx context.Context, p *model.Principal, userID uuid.UUID,
) (u *model.User, err error) {
	if p == nil || !p.Owns(userID) {
		if err = requireAdmin(p); err != nil {
			return nil, err
		}
	}
	err = users.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		u, err = users.usersrp.Conn(c).Get(ctx, userID)
		return err
	})
	if err != nil {
		u = nil
	}
	return
}

// Update use case changes the name or role of the userID user on
// behalf of an admin.
func (users *UseCase) Update(
	ctx context.Context,
	p *model.Principal,
	userID uuid.UUID,
	patch *model.UserPatch,
) (u *model.User, err error) {
	if err = requireAdmin(p); err != nil {
		return nil, err
	}
	if patch.Name != nil {
		n := strings.TrimSpace(*patch.Name)
		if n == "" {
			return nil, cerr.BadRequest(errors.New("name is empty"))
		}
		patch.Name = &n
	}
	if patch.Role != nil {
		if err = patch.Role.Validate(); err != nil {
			return nil, cerr.BadRequest(err)
		}
	}
	err = users.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		u, err = users.usersrp.Conn(c).Update(ctx, userID, patch)
		return err
	})
	if err != nil {
		u = nil
	}
	return
}

// Delete use case removes the userID user on behalf of an admin.
// Admins may not delete their own account.
func (users *UseCase) Delete(
	ctx context.Context, p *model.Principal, userID uuid.UUID,
) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	if p.Owns(userID) {
		return cerr.BadRequest(fmt.Errorf(
			"%w: admins may not delete themselves", model.ErrForbidden,
		))
	}
	return users.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return users.usersrp.Conn(c).Delete(ctx, userID)
	})
}

func requireAdmin(p *model.Principal) error {
	if p == nil || p.UserID == uuid.Nil {
		return cerr.Authentication(fmt.Errorf(
			"%w: authentication is required", model.ErrForbidden,
		))
	}
	if !p.Role.CanManageUsers() {
		return cerr.Authorization(fmt.Errorf(
			"%w: only admins may manage users", model.ErrForbidden,
		))
	}
	return nil
}
