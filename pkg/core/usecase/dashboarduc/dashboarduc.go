// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dashboarduc contains the read-only use cases which collect
// the landing page data of each role.
package dashboarduc

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/repo"
)

// UseCase represents the dashboard use cases.
type UseCase struct {
	pool     repo.Pool
	users    repo.Users
	bookings repo.Bookings
	orders   repo.Orders

	now         func() time.Time
	clientLimit int
	recentLimit int
}

// Option is a functional option for the dashboard use case.
type Option func(uc *UseCase) error

// WithClock option configures the time source which decides about
// today and the current month.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock must be non-nil")
		}
		if uc.now != nil {
			return errors.New("clock is already configured")
		}
		uc.now = now
		return nil
	}
}

// WithListSizes option configures how many bookings and orders are
// shown on the client dashboard and as the recent ones on the admin
// dashboard.
func WithListSizes(client, recent int) Option {
	return func(uc *UseCase) error {
		if client <= 0 || recent <= 0 {
			return fmt.Errorf(
				"list sizes (%d, %d) must be positive", client, recent,
			)
		}
		if uc.clientLimit != 0 {
			return errors.New("list sizes are already configured")
		}
		uc.clientLimit, uc.recentLimit = client, recent
		return nil
	}
}

// New instantiates a dashboard use case.
func New(
	p repo.Pool,
	users repo.Users,
	bookings repo.Bookings,
	orders repo.Orders,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:     p,
		users:    users,
		bookings: bookings,
		orders:   orders,
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	if uc.clientLimit == 0 {
		uc.clientLimit, uc.recentLimit = 10, 5
	}
	return uc, nil
}

// Client returns the most recent bookings and orders of userID.
func (uc *UseCase) Client(
	ctx context.Context, userID int64,
) (*model.ClientDashboard, error) {
	d := &model.ClientDashboard{}
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		d.Bookings, err = uc.bookings.Conn(c).ListByUser(
			ctx, userID, uc.clientLimit,
		)
		if err != nil {
			return fmt.Errorf("listing bookings: %w", err)
		}
		d.Orders, err = uc.orders.Conn(c).ListByUser(ctx, userID, uc.clientLimit)
		if err != nil {
			return fmt.Errorf("listing orders: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// workOrder ranks the statuses on the staff dashboard.
func workOrder(s model.BookingStatus) int {
	switch s {
	case model.BookingInProgress:
		return 1
	case model.BookingConfirmed:
		return 2
	case model.BookingPending:
		return 3
	default:
		return 4
	}
}

// Staff returns the bookings which are assigned to staffID, the ones
// in progress first, and how many of them are scheduled for today.
func (uc *UseCase) Staff(
	ctx context.Context, staffID int64,
) (*model.StaffDashboard, error) {
	var bb []model.Booking
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		bb, err = uc.bookings.Conn(c).ListAssigned(ctx, staffID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing assigned bookings: %w", err)
	}
	slices.SortStableFunc(bb, func(a, b model.Booking) int {
		if d := workOrder(a.Status) - workOrder(b.Status); d != 0 {
			return d
		}
		return a.ScheduledDate.Compare(b.ScheduledDate)
	})
	d := &model.StaffDashboard{Assigned: bb}
	y, m, day := uc.now().Date()
	for _, b := range bb {
		by, bm, bd := b.ScheduledDate.Date()
		if by == y && bm == m && bd == day {
			d.TodayCount++
		}
	}
	return d, nil
}

// Admin returns the administration summary. The monthly revenue
// counts the orders since the first day of the current month.
func (uc *UseCase) Admin(ctx context.Context) (*model.AdminStats, error) {
	st := &model.AdminStats{}
	now := uc.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		counts, err := uc.users.Conn(c).Counts(ctx)
		if err != nil {
			return fmt.Errorf("counting users: %w", err)
		}
		st.UserCounts = *counts
		bq, oq := uc.bookings.Conn(c), uc.orders.Conn(c)
		if st.TotalBookings, err = bq.Count(ctx); err != nil {
			return fmt.Errorf("counting bookings: %w", err)
		}
		if st.TotalOrders, err = oq.Count(ctx); err != nil {
			return fmt.Errorf("counting orders: %w", err)
		}
		if st.TotalRevenue, err = oq.Revenue(ctx, nil); err != nil {
			return fmt.Errorf("summing revenue: %w", err)
		}
		if st.MonthlyRevenue, err = oq.Revenue(ctx, &monthStart); err != nil {
			return fmt.Errorf("summing monthly revenue: %w", err)
		}
		if st.RecentBookings, err = bq.List(ctx, uc.recentLimit); err != nil {
			return fmt.Errorf("listing bookings: %w", err)
		}
		if st.RecentOrders, err = oq.List(ctx, uc.recentLimit); err != nil {
			return fmt.Errorf("listing orders: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}
