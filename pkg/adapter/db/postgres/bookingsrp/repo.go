// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package bookingsrp implements the repo.Bookings repository.
// Bookings are read along with their service, customer, vehicle, and
// staff display fields using one joined query.
package bookingsrp

import (
	"context"
	"time"

	"github.com/futuremech/fmweb/pkg/adapter/db/postgres"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/repo"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type queryer[Q postgres.Queryer] struct {
	q Q
}

func (bookings *Repo) Conn(c repo.Conn) repo.BookingsQueryer {
	return queryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

func (bookings *Repo) Tx(tx repo.Tx) repo.BookingsQueryer {
	return queryer[*postgres.Tx]{q: tx.(*postgres.Tx)}
}

func (bq queryer[Q]) Create(ctx context.Context, b *model.Booking) (*model.Booking, error) {
	return Create(ctx, bq.q, b)
}

func (bq queryer[Q]) ByID(ctx context.Context, id int64) (*model.Booking, error) {
	return ByID(ctx, bq.q, id)
}

func (bq queryer[Q]) ListByUser(ctx context.Context, userID int64, limit int) ([]model.Booking, error) {
	return List(ctx, bq.q, Filter{UserID: userID}, limit)
}

func (bq queryer[Q]) ListAssigned(ctx context.Context, staffID int64) ([]model.Booking, error) {
	return List(ctx, bq.q, Filter{StaffID: staffID}, 0)
}

func (bq queryer[Q]) List(ctx context.Context, limit int) ([]model.Booking, error) {
	return List(ctx, bq.q, Filter{}, limit)
}

func (bq queryer[Q]) ListScheduled(ctx context.Context, day time.Time, s model.BookingStatus) ([]model.Booking, error) {
	return ListScheduled(ctx, bq.q, day, s)
}

func (bq queryer[Q]) UpdateStatus(
	ctx context.Context,
	id int64,
	s model.BookingStatus,
	assignTo *int64,
	completedAt *time.Time,
) (*model.Booking, error) {
	return UpdateStatus(ctx, bq.q, id, s, assignTo, completedAt)
}

func (bq queryer[Q]) Count(ctx context.Context) (int64, error) {
	return Count(ctx, bq.q)
}
