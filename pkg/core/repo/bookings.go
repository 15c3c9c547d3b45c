package repo

import (
	"context"
	"time"

	"github.com/futuremech/fmweb/pkg/core/model"
)

// BookingsQueryer manages the service bookings. Read methods fill the
// joined display fields of model.Booking too.
type BookingsQueryer interface {
	Create(ctx context.Context, b *model.Booking) (*model.Booking, error)
	ByID(ctx context.Context, id int64) (*model.Booking, error)
	ListByUser(ctx context.Context, userID int64, limit int) (
		[]model.Booking, error,
	)
	ListAssigned(ctx context.Context, staffID int64) ([]model.Booking, error)
	List(ctx context.Context, limit int) ([]model.Booking, error)
	ListScheduled(
		ctx context.Context, day time.Time, s model.BookingStatus,
	) ([]model.Booking, error)
	UpdateStatus(
		ctx context.Context,
		id int64,
		s model.BookingStatus,
		assignTo *int64,
		completedAt *time.Time,
	) (*model.Booking, error)
	Count(ctx context.Context) (int64, error)
}

type Bookings interface {
	Conn(Conn) BookingsQueryer
	Tx(Tx) BookingsQueryer
}
