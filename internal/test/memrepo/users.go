// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memrepo

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

// Users returns the users repository of `s`.
func (s *Store) Users() repo.Users {
	return usersRepo{s: s}
}

type usersRepo struct {
	s *Store
}

func (r usersRepo) Conn(repo.Conn) repo.UsersConnQueryer {
	return users{view{s: r.s}}
}

func (r usersRepo) Tx(repo.Tx) repo.UsersTxQueryer {
	return users{view{s: r.s, locked: true}}
}

type users struct {
	view
}

func userNotFound(arg any) error {
	return cerr.NotFound(fmt.Errorf("%w: %v", model.ErrUserNotFound, arg))
}

func (q users) Create(_ context.Context, u *model.User) (*model.User, error) {
	user := *u
	err := q.run(func() error {
		for _, other := range q.s.users {
			if other.Email == user.Email {
				return cerr.Conflict(fmt.Errorf(
					"%w: %s", model.ErrEmailTaken, user.Email,
				))
			}
		}
		q.s.users[user.ID] = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (q users) Get(_ context.Context, userID uuid.UUID) (*model.User, error) {
	return q.first(userID, func(u *model.User) bool {
		return u.ID == userID
	})
}

func (q users) GetByEmail(
	_ context.Context, email string,
) (*model.User, error) {
	return q.first(email, func(u *model.User) bool {
		return u.Email == email
	})
}

func (q users) first(
	arg any, pred func(u *model.User) bool,
) (*model.User, error) {
	var user *model.User
	err := q.run(func() error {
		for _, u := range q.s.users {
			if pred(&u) {
				user = &u
				return nil
			}
		}
		return userNotFound(arg)
	})
	return user, err
}

func (q users) List(context.Context) (us []model.User, err error) {
	err = q.run(func() error {
		for _, u := range q.s.users {
			us = append(us, u)
		}
		return nil
	})
	slices.SortFunc(us, func(a, b model.User) int {
		if o := a.CreatedAt.Compare(b.CreatedAt); o != 0 {
			return o
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return us, err
}

func (q users) Update(
	_ context.Context, userID uuid.UUID, p *model.UserPatch,
) (*model.User, error) {
	var user model.User
	err := q.run(func() error {
		u, ok := q.s.users[userID]
		if !ok {
			return userNotFound(userID)
		}
		if p.Name != nil {
			u.Name = *p.Name
		}
		if p.Role != nil {
			u.Role = *p.Role
		}
		q.s.users[userID] = u
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (q users) Delete(_ context.Context, userID uuid.UUID) error {
	return q.run(func() error {
		if _, ok := q.s.users[userID]; !ok {
			return userNotFound(userID)
		}
		for _, r := range q.s.rentals {
			if r.UserID == userID {
				return cerr.Conflict(fmt.Errorf(
					"%w: %s", model.ErrUserHasRentals, userID,
				))
			}
		}
		delete(q.s.users, userID)
		return nil
	})
}
