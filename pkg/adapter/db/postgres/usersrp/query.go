// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package usersrp realizes the repo.Users interface with GORM.
package usersrp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/model"
	"gorm.io/gorm/clause"
)

type gUser struct {
	ID           uuid.UUID `gorm:"primaryKey;type:uuid"`
	Email        string
	PasswordHash string
	Name         string
	Role         string
	CreatedAt    time.Time
}

func (gu *gUser) TableName() string {
	return "users"
}

func (gu *gUser) toModel() (*model.User, error) {
	r, err := model.ParseRole(gu.Role)
	if err != nil {
		return nil, cerr.Storage(fmt.Errorf(
			"user %s has %q role: %w", gu.ID, gu.Role, err,
		))
	}
	return &model.User{
		ID:           gu.ID,
		Email:        gu.Email,
		PasswordHash: gu.PasswordHash,
		Name:         gu.Name,
		Role:         r,
		CreatedAt:    gu.CreatedAt,
	}, nil
}

func Create[Q postgres.Queryer](ctx context.Context, q Q, u *model.User) (*model.User, error) {
	gu := &gUser{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Role:         u.Role.String(),
		CreatedAt:    u.CreatedAt,
	}
	res := q.GORM(ctx).Create(gu)
	if err := res.Error; err != nil {
		err = postgres.Classify(err)
		if postgres.IsViolation(err, pgerrcode.UniqueViolation) {
			return nil, cerr.Conflict(fmt.Errorf(
				"%w: %s", model.ErrEmailTaken, u.Email,
			))
		}
		return nil, fmt.Errorf("insert: %w", err)
	}
	return gu.toModel()
}

func Get[Q postgres.Queryer](ctx context.Context, q Q, userID uuid.UUID) (*model.User, error) {
	return first(ctx, q, "id=?", userID)
}

func GetByEmail[Q postgres.Queryer](ctx context.Context, q Q, email string) (*model.User, error) {
	return first(ctx, q, "email=?", email)
}

func first[Q postgres.Queryer](ctx context.Context, q Q, cond string, arg any) (*model.User, error) {
	var gus []gUser
	res := q.GORM(ctx).Where(cond, arg).Limit(1).Find(&gus)
	if err := res.Error; err != nil {
		return nil, fmt.Errorf("query: %w", postgres.Classify(err))
	}
	if len(gus) == 0 {
		return nil, cerr.NotFound(fmt.Errorf(
			"%w: %v", model.ErrUserNotFound, arg,
		))
	}
	return gus[0].toModel()
}

func List[Q postgres.Queryer](ctx context.Context, q Q) ([]model.User, error) {
	var gus []gUser
	res := q.GORM(ctx).Order("created_at").Order("id").Find(&gus)
	if err := res.Error; err != nil {
		return nil, fmt.Errorf("query: %w", postgres.Classify(err))
	}
	us := make([]model.User, 0, len(gus))
	for i := range gus {
		u, err := gus[i].toModel()
		if err != nil {
			return nil, err
		}
		us = append(us, *u)
	}
	return us, nil
}

func Update[Q postgres.Queryer](ctx context.Context, q Q, userID uuid.UUID, p *model.UserPatch) (*model.User, error) {
	cols := make(map[string]any, 2)
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Role != nil {
		cols["role"] = p.Role.String()
	}
	if len(cols) == 0 {
		return Get(ctx, q, userID)
	}
	var gus []gUser
	res := q.GORM(ctx).Model(&gus).Clauses(clause.Returning{}).Where(
		"id=?", userID,
	).Updates(cols)
	if err := res.Error; err != nil {
		return nil, fmt.Errorf("update: %w", postgres.Classify(err))
	}
	if len(gus) != 1 {
		return nil, cerr.NotFound(fmt.Errorf(
			"%w: %s", model.ErrUserNotFound, userID,
		))
	}
	return gus[0].toModel()
}

func Delete[Q postgres.Queryer](ctx context.Context, q Q, userID uuid.UUID) error {
	res := q.GORM(ctx).Where("id=?", userID).Delete(&gUser{})
	if err := res.Error; err != nil {
		err = postgres.Classify(err)
		if postgres.IsViolation(err, pgerrcode.ForeignKeyViolation) {
			return cerr.Conflict(fmt.Errorf(
				"%w: %s", model.ErrUserHasRentals, userID,
			))
		}
		return fmt.Errorf("delete: %w", err)
	}
	if res.RowsAffected == 0 {
		return cerr.NotFound(fmt.Errorf(
			"%w: %s", model.ErrUserNotFound, userID,
		))
	}
	return nil
}
