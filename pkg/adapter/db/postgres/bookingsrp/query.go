package bookingsrp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/futuremech/fmweb/pkg/adapter/db/postgres"
	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type gBooking struct {
	ID            int64 `gorm:"primaryKey"`
	UserID        int64
	ServiceID     int64
	VehicleID     int64
	ScheduledDate time.Time
	Status        string
	AssignedTo    *int64
	TotalAmount   decimal.Decimal `gorm:"type:numeric(10,2)"`
	Notes         string
	CompletedAt   *time.Time
	CreatedAt     time.Time
}

func (gb *gBooking) TableName() string {
	return "bookings"
}

// gBookingView is a bookings row which is joined with its display
// columns.
type gBookingView struct {
	gBooking      `gorm:"embedded"`
	ServiceName   string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Vehicle       string
	StaffName     string
}

func (gv *gBookingView) Model() (*model.Booking, error) {
	s, err := model.ParseBookingStatus(gv.Status)
	if err != nil {
		return nil, fmt.Errorf("booking %d: %w", gv.ID, err)
	}
	return &model.Booking{
		ID:            gv.ID,
		UserID:        gv.UserID,
		ServiceID:     gv.ServiceID,
		VehicleID:     gv.VehicleID,
		ScheduledDate: gv.ScheduledDate,
		Status:        s,
		AssignedTo:    gv.AssignedTo,
		TotalAmount:   gv.TotalAmount,
		Notes:         gv.Notes,
		CompletedAt:   gv.CompletedAt,
		CreatedAt:     gv.CreatedAt,
		ServiceName:   gv.ServiceName,
		CustomerName:  gv.CustomerName,
		CustomerEmail: gv.CustomerEmail,
		CustomerPhone: gv.CustomerPhone,
		Vehicle:       strings.TrimSpace(gv.Vehicle),
		StaffName:     gv.StaffName,
	}, nil
}

const viewColumns = `b.*,
	s.name AS service_name,
	u.username AS customer_name,
	u.email AS customer_email,
	u.phone AS customer_phone,
	concat_ws(' ', v.make, v.model, '(' || v.registration_no || ')') AS vehicle,
	coalesce(st.username, '') AS staff_name`

// Filter restricts the listed bookings to a customer and/or to an
// assigned staff member. Zero ids match all bookings.
type Filter struct {
	UserID  int64
	StaffID int64
}

func view(gdb *gorm.DB) *gorm.DB {
	return gdb.Table("bookings AS b").Select(viewColumns).Joins(
		"JOIN services AS s ON s.id = b.service_id",
	).Joins(
		"JOIN users AS u ON u.id = b.user_id",
	).Joins(
		"JOIN vehicles AS v ON v.id = b.vehicle_id",
	).Joins(
		"LEFT JOIN users AS st ON st.id = b.assigned_to",
	)
}

func find(gdb *gorm.DB) ([]model.Booking, error) {
	var gg []gBookingView
	if err := gdb.Find(&gg).Error; err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}
	bb := make([]model.Booking, 0, len(gg))
	for i := range gg {
		b, err := gg[i].Model()
		if err != nil {
			return nil, err
		}
		bb = append(bb, *b)
	}
	return bb, nil
}

func Create[Q postgres.Queryer](ctx context.Context, q Q, b *model.Booking) (*model.Booking, error) {
	if err := b.Status.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	gb := &gBooking{
		UserID:        b.UserID,
		ServiceID:     b.ServiceID,
		VehicleID:     b.VehicleID,
		ScheduledDate: b.ScheduledDate,
		Status:        b.Status.String(),
		AssignedTo:    b.AssignedTo,
		TotalAmount:   b.TotalAmount,
		Notes:         b.Notes,
	}
	if err := q.GORM(ctx).Create(gb).Error; err != nil {
		return nil, postgres.Classify(err, "booking")
	}
	return ByID(ctx, q, gb.ID)
}

func ByID[Q postgres.Queryer](ctx context.Context, q Q, id int64) (*model.Booking, error) {
	var gv gBookingView
	err := view(q.GORM(ctx)).Where("b.id = ?", id).Take(&gv).Error
	if err != nil {
		return nil, postgres.Classify(err, "booking")
	}
	return gv.Model()
}

// List returns the bookings matching f, newest scheduled date first.
// A non-positive limit lists all of them.
func List[Q postgres.Queryer](ctx context.Context, q Q, f Filter, limit int) ([]model.Booking, error) {
	gdb := view(q.GORM(ctx))
	if f.UserID != 0 {
		gdb = gdb.Where("b.user_id = ?", f.UserID)
	}
	if f.StaffID != 0 {
		gdb = gdb.Where("b.assigned_to = ?", f.StaffID)
	}
	gdb = gdb.Order("b.scheduled_date DESC").Order("b.id DESC")
	if limit > 0 {
		gdb = gdb.Limit(limit)
	}
	return find(gdb)
}

// ListScheduled returns the s bookings whose scheduled date falls on
// the calendar day of the day argument (in its location).
func ListScheduled[Q postgres.Queryer](ctx context.Context, q Q, day time.Time, s model.BookingStatus) ([]model.Booking, error) {
	if err := s.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	y, m, d := day.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)
	return find(view(q.GORM(ctx)).Where(
		"b.status = ? AND b.scheduled_date >= ? AND b.scheduled_date < ?",
		s.String(), from, to,
	).Order("b.scheduled_date"))
}

// UpdateStatus sets the status of the id booking. The assignTo and
// completedAt columns are only updated when they are not nil.
func UpdateStatus[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	id int64,
	s model.BookingStatus,
	assignTo *int64,
	completedAt *time.Time,
) (*model.Booking, error) {
	if err := s.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	cols := map[string]any{"status": s.String()}
	if assignTo != nil {
		cols["assigned_to"] = *assignTo
	}
	if completedAt != nil {
		cols["completed_at"] = *completedAt
	}
	res := q.GORM(ctx).Model(&gBooking{}).Where("id = ?", id).Updates(cols)
	if err := res.Error; err != nil {
		return nil, postgres.Classify(err, "booking")
	}
	if res.RowsAffected != 1 {
		return nil, cerr.NotFoundf("booking %d not found", id)
	}
	return ByID(ctx, q, id)
}

func Count[Q postgres.Queryer](ctx context.Context, q Q) (int64, error) {
	var n int64
	if err := q.GORM(ctx).Model(&gBooking{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting bookings: %w", err)
	}
	return n, nil
}
