package memrp

import (
	"context"
	"sort"
	"time"

	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/repo"
)

// Bookings implements repo.Bookings.
type Bookings struct{}

func (Bookings) Conn(c repo.Conn) repo.BookingsQueryer { return bookings{dbOf(c)} }
func (Bookings) Tx(tx repo.Tx) repo.BookingsQueryer    { return bookings{dbOf(tx)} }

type bookings struct{ db *DB }

// joined fills the display columns of b like the SQL joins do.
func joined(s *Store, b model.Booking) model.Booking {
	if sv, ok := s.Services[b.ServiceID]; ok {
		b.ServiceName = sv.Name
	}
	if u, ok := s.Users[b.UserID]; ok {
		b.CustomerName = u.Username
		b.CustomerEmail = u.Email
		b.CustomerPhone = u.Phone
	}
	if v, ok := s.Vehicles[b.VehicleID]; ok {
		b.Vehicle = v.Label()
	}
	b.StaffName = ""
	if b.AssignedTo != nil {
		if u, ok := s.Users[*b.AssignedTo]; ok {
			b.StaffName = u.Username
		}
	}
	return b
}

func newestFirst(bb []model.Booking) {
	sort.Slice(bb, func(i, j int) bool {
		if !bb[i].CreatedAt.Equal(bb[j].CreatedAt) {
			return bb[i].CreatedAt.After(bb[j].CreatedAt)
		}
		return bb[i].ID > bb[j].ID
	})
}

func limited[T any](tt []T, limit int) []T {
	if limit > 0 && len(tt) > limit {
		return tt[:limit]
	}
	return tt
}

func (q bookings) Create(_ context.Context, b *model.Booking) (res *model.Booking, err error) {
	err = q.db.exec("bookings.Create", func(s *Store) error {
		bb := *b
		bb.ID = s.nextID()
		bb.CreatedAt = q.db.Now()
		s.Bookings[bb.ID] = bb
		bb = joined(s, bb)
		res = &bb
		return nil
	})
	return
}

func (q bookings) ByID(_ context.Context, id int64) (res *model.Booking, err error) {
	err = q.db.exec("bookings.ByID", func(s *Store) error {
		b, ok := s.Bookings[id]
		if !ok {
			return cerr.NotFoundf("booking %d not found", id)
		}
		b = joined(s, b)
		res = &b
		return nil
	})
	return
}

func (q bookings) filter(
	stmt string, limit int, keep func(b *model.Booking) bool,
) (res []model.Booking, err error) {
	err = q.db.exec(stmt, func(s *Store) error {
		for _, b := range s.Bookings {
			if keep(&b) {
				res = append(res, joined(s, b))
			}
		}
		return nil
	})
	newestFirst(res)
	return limited(res, limit), err
}

func (q bookings) ListByUser(_ context.Context, userID int64, limit int) ([]model.Booking, error) {
	return q.filter("bookings.ListByUser", limit, func(b *model.Booking) bool {
		return b.UserID == userID
	})
}

func (q bookings) ListAssigned(_ context.Context, staffID int64) ([]model.Booking, error) {
	return q.filter("bookings.ListAssigned", 0, func(b *model.Booking) bool {
		return b.AssignedTo != nil && *b.AssignedTo == staffID
	})
}

func (q bookings) List(_ context.Context, limit int) ([]model.Booking, error) {
	return q.filter("bookings.List", limit, func(*model.Booking) bool {
		return true
	})
}

func (q bookings) ListScheduled(
	_ context.Context, day time.Time, st model.BookingStatus,
) ([]model.Booking, error) {
	y, m, d := day.Date()
	return q.filter("bookings.ListScheduled", 0, func(b *model.Booking) bool {
		by, bm, bd := b.ScheduledDate.Date()
		return b.Status == st && by == y && bm == m && bd == d
	})
}

func (q bookings) UpdateStatus(
	_ context.Context,
	id int64,
	st model.BookingStatus,
	assignTo *int64,
	completedAt *time.Time,
) (res *model.Booking, err error) {
	err = q.db.exec("bookings.UpdateStatus", func(s *Store) error {
		b, ok := s.Bookings[id]
		if !ok {
			return cerr.NotFoundf("booking %d not found", id)
		}
		b.Status = st
		if assignTo != nil {
			a := *assignTo
			b.AssignedTo = &a
		}
		if completedAt != nil {
			c := *completedAt
			b.CompletedAt = &c
		}
		s.Bookings[id] = b
		b = joined(s, b)
		res = &b
		return nil
	})
	return
}

func (q bookings) Count(context.Context) (n int64, err error) {
	err = q.db.exec("bookings.Count", func(s *Store) error {
		n = int64(len(s.Bookings))
		return nil
	})
	return
}
