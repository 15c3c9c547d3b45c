// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migrationuc_test

import (
	"context"
	"errors"
	"testing"

	"github.com/futuremech/fmweb/internal/test/memrp"
	"github.com/futuremech/fmweb/pkg/adapter/hash/bcrypt"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/usecase/migrationuc"
	"github.com/stretchr/testify/suite"
)

// migrator pretends to have three migrations.
type migrator struct {
	version uint
	dirty   bool
	err     error
	calls   []string
}

const latest = 3

func (m *migrator) Up(context.Context) error {
	m.calls = append(m.calls, "up")
	if m.err != nil {
		return m.err
	}
	m.version = latest
	return nil
}

func (m *migrator) Down(_ context.Context, steps int) error {
	m.calls = append(m.calls, "down")
	if uint(steps) > m.version {
		return errors.New("no more migrations")
	}
	m.version -= uint(steps)
	return nil
}

func (m *migrator) Version(context.Context) (uint, bool, error) {
	return m.version, m.dirty, nil
}

func (m *migrator) Close() error {
	return nil
}

type MigrationUseCasesTestSuite struct {
	suite.Suite

	ctx context.Context
	db  *memrp.DB
	mig *migrator
	uc  *migrationuc.InitDBUseCase
}

func TestMigrationUseCasesTestSuite(t *testing.T) {
	suite.Run(t, new(MigrationUseCasesTestSuite))
}

func (migucts *MigrationUseCasesTestSuite) SetupTest() {
	migucts.ctx = context.Background()
	migucts.db = memrp.New()
	migucts.mig = &migrator{}
	h, err := bcrypt.New(4)
	migucts.Require().NoError(err)
	migucts.uc = migrationuc.NewInitDB(
		migucts.mig, migucts.db, migrationuc.Repos{
			Users:     memrp.Users{},
			Services:  memrp.Services{},
			Parts:     memrp.Parts{},
			Discounts: memrp.Discounts{},
		}, h,
	)
}

func (migucts *MigrationUseCasesTestSuite) TestMigrations() {
	mduc := migrationuc.NewMigrateDB(migucts.mig)
	migucts.Require().NoError(mduc.Up(migucts.ctx))
	v, dirty, err := mduc.Version(migucts.ctx)
	migucts.Require().NoError(err)
	migucts.Equal(uint(latest), v)
	migucts.False(dirty)

	migucts.Require().NoError(mduc.Down(migucts.ctx, 2))
	v, _, err = mduc.Version(migucts.ctx)
	migucts.Require().NoError(err)
	migucts.Equal(uint(1), v)

	migucts.Error(mduc.Down(migucts.ctx, 0))
	migucts.Error(mduc.Down(migucts.ctx, 5))

	migucts.mig.dirty = true
	migucts.Error(mduc.Up(migucts.ctx))
	migucts.Equal([]string{"up", "down", "down"}, migucts.mig.calls)
}

func (migucts *MigrationUseCasesTestSuite) TestInitDev() {
	migucts.Require().NoError(migucts.uc.InitDev(migucts.ctx))
	migucts.Require().NoError(migucts.uc.InitDev(migucts.ctx), "must be idempotent")
	migucts.Equal(uint(latest), migucts.mig.version)

	migucts.db.View(func(st *memrp.Store) {
		roles := map[string]model.Role{}
		for _, u := range st.Users {
			roles[u.Email] = u.Role
			migucts.True(u.Active)
			migucts.True(u.HasPassword())
		}
		migucts.Equal(map[string]model.Role{
			"admin@futuremech.com":   model.RoleAdmin,
			"service@futuremech.com": model.RoleService,
		}, roles)
		migucts.Len(st.Services, len(migrationuc.DefaultServices))
		migucts.Len(st.Parts, len(migrationuc.SampleParts))
		migucts.Len(st.Discounts, 1)
		for _, d := range st.Discounts {
			migucts.Equal("SAVE10", d.Code)
			migucts.Equal("10", d.Value.String())
		}
	})
}

func (migucts *MigrationUseCasesTestSuite) TestInitProd() {
	migucts.Error(migucts.uc.InitProd(migucts.ctx, migrationuc.Account{
		Email: "owner@shop.com", Password: "123",
	}))
	migucts.Empty(migucts.mig.calls)

	migucts.Require().NoError(migucts.uc.InitProd(migucts.ctx, migrationuc.Account{
		Email: " Owner@Shop.com ", Password: "s3cret!",
	}))
	migucts.db.View(func(st *memrp.Store) {
		migucts.Require().Len(st.Users, 1)
		for _, u := range st.Users {
			migucts.Equal("owner@shop.com", u.Email)
			migucts.Equal("admin", u.Username)
			migucts.Equal(model.RoleAdmin, u.Role)
		}
		migucts.Len(st.Services, 5)
		migucts.Empty(st.Parts)
		migucts.Empty(st.Discounts)
	})
}

func (migucts *MigrationUseCasesTestSuite) TestInitRollsBack() {
	migucts.db.FailOn("services.Create", nil)
	migucts.Error(migucts.uc.InitDev(migucts.ctx))
	migucts.db.View(func(st *memrp.Store) {
		migucts.Empty(st.Users)
	})

	migucts.mig.err = errors.New("broken migration")
	migucts.Error(migucts.uc.InitDev(migucts.ctx))
}
