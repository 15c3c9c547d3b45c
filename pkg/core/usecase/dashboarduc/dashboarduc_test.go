package dashboarduc_test

import (
	"context"
	"testing"
	"time"

	"github.com/futuremech/fmweb/internal/test/memrp"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/usecase/dashboarduc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var now = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

type DashboardUseCaseTestSuite struct {
	suite.Suite

	ctx    context.Context
	db     *memrp.DB
	uc     *dashboarduc.UseCase
	client int64
	tech   int64
	at     time.Time
}

func TestDashboardUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(DashboardUseCaseTestSuite))
}

func (s *DashboardUseCaseTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = memrp.New()
	s.at = now.AddDate(0, -2, 0)
	s.db.Now = func() time.Time {
		s.at = s.at.Add(time.Hour)
		return s.at
	}
	uc, err := dashboarduc.New(
		s.db, memrp.Users{}, memrp.Bookings{}, memrp.Orders{},
		dashboarduc.WithClock(func() time.Time { return now }),
		dashboarduc.WithListSizes(3, 2),
	)
	s.Require().NoError(err)
	s.uc = uc
	s.db.Update(func(st *memrp.Store) {
		for _, u := range []model.User{
			{Username: "client", Role: model.RoleClient},
			{Username: "other", Role: model.RoleClient},
			{Username: "tech", Role: model.RoleService},
			{Username: "admin", Role: model.RoleAdmin},
		} {
			u.ID = st.NextID()
			u.Email = u.Username + "@x.com"
			u.Active = true
			st.Users[u.ID] = u
			switch u.Username {
			case "client":
				s.client = u.ID
			case "tech":
				s.tech = u.ID
			}
		}
	})
}

func (s *DashboardUseCaseTestSuite) booking(
	user int64, status model.BookingStatus, day time.Time, assigned bool,
) {
	s.db.Update(func(st *memrp.Store) {
		b := model.Booking{
			ID: st.NextID(), UserID: user, Status: status,
			ScheduledDate: day, CreatedAt: s.db.Now(),
		}
		if assigned {
			b.AssignedTo = &s.tech
		}
		st.Bookings[b.ID] = b
	})
}

func (s *DashboardUseCaseTestSuite) order(user int64, total string, paid bool, at time.Time) {
	s.db.Update(func(st *memrp.Store) {
		o := model.Order{
			ID: st.NextID(), UserID: user,
			TotalPrice:    decimal.RequireFromString(total),
			PaymentStatus: model.OrderUnpaid,
			CreatedAt:     at,
		}
		if paid {
			o.PaymentStatus = model.OrderPaid
		}
		st.Orders[o.ID] = o
	})
}

func (s *DashboardUseCaseTestSuite) TestOptions() {
	_, err := dashboarduc.New(
		s.db, memrp.Users{}, memrp.Bookings{}, memrp.Orders{},
		dashboarduc.WithListSizes(0, 5),
	)
	s.Error(err)
	_, err = dashboarduc.New(
		s.db, memrp.Users{}, memrp.Bookings{}, memrp.Orders{},
		dashboarduc.WithClock(nil),
	)
	s.Error(err)
}

func (s *DashboardUseCaseTestSuite) TestClient() {
	for i := 0; i < 5; i++ {
		s.booking(s.client, model.BookingPending, now, false)
	}
	s.booking(s.client+1, model.BookingPending, now, false)
	s.order(s.client, "10", false, now)

	d, err := s.uc.Client(s.ctx, s.client)
	s.Require().NoError(err)
	s.Len(d.Bookings, 3)
	for _, b := range d.Bookings {
		s.Equal(s.client, b.UserID)
	}
	s.True(d.Bookings[0].CreatedAt.After(d.Bookings[1].CreatedAt))
	s.Len(d.Orders, 1)
}

func (s *DashboardUseCaseTestSuite) TestStaffOrdering() {
	tomorrow := now.AddDate(0, 0, 1)
	s.booking(s.client, model.BookingCompleted, now.AddDate(0, 0, -3), true)
	s.booking(s.client, model.BookingPending, now, true)
	s.booking(s.client, model.BookingConfirmed, tomorrow, true)
	s.booking(s.client, model.BookingConfirmed, now, true)
	s.booking(s.client, model.BookingInProgress, tomorrow, true)
	s.booking(s.client, model.BookingPending, now, false)

	d, err := s.uc.Staff(s.ctx, s.tech)
	s.Require().NoError(err)
	s.Require().Len(d.Assigned, 5)
	var got []model.BookingStatus
	for _, b := range d.Assigned {
		got = append(got, b.Status)
	}
	s.Equal([]model.BookingStatus{
		model.BookingInProgress, model.BookingConfirmed,
		model.BookingConfirmed, model.BookingPending, model.BookingCompleted,
	}, got)
	s.Equal(now, d.Assigned[1].ScheduledDate)
	s.Equal(2, d.TodayCount)
}

func (s *DashboardUseCaseTestSuite) TestAdmin() {
	s.booking(s.client, model.BookingPending, now, false)
	s.booking(s.client, model.BookingPending, now, false)
	s.booking(s.client, model.BookingPending, now, false)
	s.order(s.client, "100", true, now.AddDate(0, -1, 0))
	s.order(s.client, "25.50", true, now.AddDate(0, 0, -1))
	s.order(s.client, "40", false, now)

	st, err := s.uc.Admin(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.UserCounts{Total: 4, Clients: 2, Service: 1}, st.UserCounts)
	s.Equal(int64(3), st.TotalBookings)
	s.Equal(int64(3), st.TotalOrders)
	s.Equal("125.5", st.TotalRevenue.String())
	s.Equal("25.5", st.MonthlyRevenue.String())
	s.Len(st.RecentBookings, 2)
	s.Len(st.RecentOrders, 2)
}
