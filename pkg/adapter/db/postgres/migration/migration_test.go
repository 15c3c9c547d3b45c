// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migration_test

import (
	"context"
	"testing"
	"time"

	"github.com/futuremech/fmweb/internal/test/dbcontainer"
	"github.com/futuremech/fmweb/pkg/adapter/db/postgres/catalogrp"
	"github.com/futuremech/fmweb/pkg/adapter/db/postgres/ordersrp"
	"github.com/futuremech/fmweb/pkg/adapter/db/postgres/usersrp"
	"github.com/futuremech/fmweb/pkg/adapter/hash/bcrypt"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/repo"
	"github.com/futuremech/fmweb/pkg/core/usecase/migrationuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsOnRealDatabase(t *testing.T) {
	ctx := context.Background()
	db := dbcontainer.Start(ctx, t, time.Minute)
	mig, pool := db.Migrator, db.Pool

	h, err := bcrypt.New(4)
	require.NoError(t, err)
	users := usersrp.New()
	services := catalogrp.NewServices()
	iduc := migrationuc.NewInitDB(mig, pool, migrationuc.Repos{
		Users:     users,
		Services:  services,
		Parts:     catalogrp.NewParts(),
		Discounts: ordersrp.NewDiscounts(),
	}, h)
	require.NoError(t, iduc.InitDev(ctx))
	require.NoError(t, iduc.InitDev(ctx), "initializing twice")

	v, dirty, err := mig.Version(ctx)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.EqualValues(t, 1, v)

	err = pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		u, err := users.Conn(c).ByEmail(ctx, migrationuc.DevAdmin.Email)
		if err != nil {
			return err
		}
		assert.Equal(t, model.RoleAdmin, u.Role)
		assert.NoError(t, h.Compare(u.PasswordHash, migrationuc.DevAdmin.Password))
		ss, err := services.Conn(c).List(ctx, model.ServiceFilter{ActiveOnly: true})
		if err != nil {
			return err
		}
		assert.NotEmpty(t, ss)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, mig.Down(ctx, 1))
	v, _, err = mig.Version(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, v)
}
