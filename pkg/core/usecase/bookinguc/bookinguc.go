// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package bookinguc contains the service booking use cases: booking
// a service by a client, moving bookings through their workflow by
// the staff, and reminding clients of their upcoming appointments.
package bookinguc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/log"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/notify"
	"github.com/futuremech/fmweb/pkg/core/repo"
)

// UseCase represents the booking use cases.
type UseCase struct {
	pool          repo.Pool
	bookings      repo.Bookings
	services      repo.Services
	vehicles      repo.Vehicles
	users         repo.Users
	payments      repo.Payments
	notifications repo.Notifications
	mailer        notify.Mailer

	sms             notify.SMSSender
	now             func() time.Time
	freeTransitions bool
}

// New instantiates a booking use case.
func New(
	p repo.Pool,
	bookings repo.Bookings,
	services repo.Services,
	vehicles repo.Vehicles,
	users repo.Users,
	payments repo.Payments,
	notifications repo.Notifications,
	mailer notify.Mailer,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:          p,
		bookings:      bookings,
		services:      services,
		vehicles:      vehicles,
		users:         users,
		payments:      payments,
		notifications: notifications,
		mailer:        mailer,
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc, nil
}

func sameOrAfterDay(t, day time.Time) bool {
	ty, tm, td := t.Date()
	dy, dm, dd := day.In(t.Location()).Date()
	if ty != dy {
		return ty > dy
	}
	if tm != dm {
		return tm > dm
	}
	return td >= dd
}

// Book creates a pending booking of the req.ServiceID service for one
// of the vehicles of the s client, together with its pending payment.
// The booking amount is copied from the current service price. The
// admins are notified and the client receives a confirmation email.
func (uc *UseCase) Book(
	ctx context.Context, s *model.Session, req model.BookingRequest,
) (*model.Booking, error) {
	if req.VehicleID == 0 || req.ScheduledDate.IsZero() {
		return nil, cerr.BadRequestf("vehicle and date are required")
	}
	if !sameOrAfterDay(req.ScheduledDate, uc.now()) {
		return nil, cerr.BadRequestf("scheduled date is in the past")
	}
	var (
		b  *model.Booking
		sv *model.Service
		v  *model.Vehicle
	)
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		var err error
		v, err = uc.vehicles.Conn(c).ByIDForOwner(ctx, req.VehicleID, s.UserID)
		switch {
		case cerr.IsNotFound(err):
			return cerr.BadRequestf("invalid vehicle selected")
		case err != nil:
			return fmt.Errorf("fetching vehicle: %w", err)
		}
		sv, err = uc.services.Conn(c).ByID(ctx, req.ServiceID)
		switch {
		case err != nil:
			return fmt.Errorf("fetching service: %w", err)
		case !sv.Active:
			return cerr.NotFoundf("service %d not found", req.ServiceID)
		}
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			b, err = uc.bookings.Tx(tx).Create(ctx, &model.Booking{
				UserID:        s.UserID,
				ServiceID:     sv.ID,
				VehicleID:     v.ID,
				ScheduledDate: req.ScheduledDate,
				Status:        model.BookingPending,
				TotalAmount:   sv.Price,
				Notes:         req.Notes,
			})
			if err != nil {
				return fmt.Errorf("creating booking: %w", err)
			}
			_, err = uc.payments.Tx(tx).Create(ctx, &model.Payment{
				Target: model.PaymentTarget{
					Kind: model.TargetBooking, ID: b.ID,
				},
				Amount: b.TotalAmount,
				Method: model.PendingPaymentMethod,
				Status: model.PaymentPending,
			})
			if err != nil {
				return fmt.Errorf("creating payment: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	log.Info(
		ctx, "service booked",
		log.ID("booking", b.ID), log.ID("user", s.UserID),
	)
	uc.notifyAdmins(ctx, model.NotifyBooking, b.ID, fmt.Sprintf(
		"New booking #%d: %s by %s", b.ID, sv.Name, s.Username,
	))
	notes := req.Notes
	if notes == "" {
		notes = "None"
	}
	notify.Deliver(ctx, uc.mailer, notify.Compose(
		s.Email, "Booking Confirmation - Future Mech", "Booking Confirmation",
		fmt.Sprintf("Your booking for %s has been received.", sv.Name),
		"Vehicle: "+v.Label(),
		"Scheduled: "+req.ScheduledDate.Format("2006-01-02 15:04"),
		"Amount: $"+sv.Price.StringFixed(2),
		"Notes: "+notes,
	))
	return b, nil
}

func (uc *UseCase) notifyAdmins(
	ctx context.Context, t model.NotificationType, id int64, msg string,
) {
	n := &model.Notification{
		Audience:  model.AudienceOf(model.RoleAdmin),
		Type:      t,
		Message:   msg,
		RelatedID: &id,
	}
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		_, err := uc.notifications.Conn(c).Create(ctx, n)
		return err
	})
	if err != nil {
		log.Warn(
			ctx, "creating notification failed",
			slog.String("type", string(t)), log.Err("err", err),
		)
	}
}

// ErrForbiddenTransition is returned when a service staff member asks
// for a status which does not follow the booking workflow.
var ErrForbiddenTransition = errors.New("booking status transition is not allowed")

// UpdateStatus moves a booking into a new status on behalf of the
// actor staff member, optionally assigning it to an active service
// staff member. Completing a booking stamps its completion time. The
// customer is informed by email.
func (uc *UseCase) UpdateStatus(
	ctx context.Context, actor *model.Session, u model.StatusUpdate,
) (*model.Booking, error) {
	if !actor.Role.Can(model.CapUpdateBooking) {
		return nil, cerr.Authorization(errors.New("access denied"))
	}
	if err := u.Status.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	var b *model.Booking
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			bq := uc.bookings.Tx(tx)
			old, err := bq.ByID(ctx, u.BookingID)
			if err != nil {
				return fmt.Errorf("fetching booking: %w", err)
			}
			free := actor.Role == model.RoleAdmin || uc.freeTransitions
			if !free && !old.Status.CanTransitionTo(u.Status) {
				return cerr.BadRequest(fmt.Errorf(
					"%w: %s to %s",
					ErrForbiddenTransition, old.Status, u.Status,
				))
			}
			if u.AssignTo != nil {
				staff, err := uc.users.Tx(tx).ByID(ctx, *u.AssignTo)
				switch {
				case cerr.IsNotFound(err):
					return cerr.BadRequestf("assignee %d not found", *u.AssignTo)
				case err != nil:
					return fmt.Errorf("fetching assignee: %w", err)
				case staff.Role != model.RoleService || !staff.Active:
					return cerr.BadRequestf(
						"assignee %d is not an active service staff member",
						*u.AssignTo,
					)
				}
			}
			var completedAt *time.Time
			if u.Status == model.BookingCompleted &&
				old.Status != model.BookingCompleted {
				now := uc.now()
				completedAt = &now
			}
			b, err = bq.UpdateStatus(
				ctx, u.BookingID, u.Status, u.AssignTo, completedAt,
			)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	log.Info(
		ctx, "booking status updated",
		log.ID("booking", b.ID), log.ID("actor", actor.UserID),
		slog.String("status", b.Status.String()),
	)
	notify.Deliver(ctx, uc.mailer, notify.Compose(
		b.CustomerEmail, "Booking Status Update - Future Mech",
		"Booking Status Update",
		fmt.Sprintf(
			"Your booking for %s is now: %s", b.ServiceName, b.Status.Title(),
		),
	))
	return b, nil
}

// List returns the most recent bookings (all of them if limit is not
// positive) and the active service staff members for assignment.
func (uc *UseCase) List(ctx context.Context, limit int) (
	res *model.AdminBookings, err error,
) {
	res = &model.AdminBookings{}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		res.Bookings, err = uc.bookings.Conn(c).List(ctx, limit)
		if err != nil {
			return fmt.Errorf("listing bookings: %w", err)
		}
		res.Staff, err = uc.users.Conn(c).ListByRole(
			ctx, model.RoleService, true,
		)
		if err != nil {
			return fmt.Errorf("listing service staff: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// SendReminders texts the clients whose confirmed bookings are
// scheduled for the next day. It returns the number of sent messages.
// Clients without a phone number are skipped. Failures to send one
// message are logged and do not stop the other reminders.
func (uc *UseCase) SendReminders(ctx context.Context) (int, error) {
	if uc.sms == nil {
		return 0, nil
	}
	tomorrow := uc.now().AddDate(0, 0, 1)
	var bb []model.Booking
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		bb, err = uc.bookings.Conn(c).ListScheduled(
			ctx, tomorrow, model.BookingConfirmed,
		)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("listing tomorrow bookings: %w", err)
	}
	sent := 0
	for _, b := range bb {
		if b.CustomerPhone == "" {
			continue
		}
		sid, err := uc.sms.SendSMS(ctx, &notify.SMS{
			To: b.CustomerPhone,
			Body: fmt.Sprintf(
				"Future Mech reminder: your %s appointment is scheduled"+
					" for %s.",
				b.ServiceName, b.ScheduledDate.Format("Jan 2 at 15:04"),
			),
		})
		if err != nil {
			log.Warn(
				ctx, "sending reminder failed",
				log.ID("booking", b.ID), log.Err("err", err),
			)
			continue
		}
		log.Debug(
			ctx, "reminder sent",
			log.ID("booking", b.ID), slog.String("sid", sid),
		)
		sent++
	}
	log.Info(ctx, "booking reminders sent", slog.Int("count", sent))
	return sent, nil
}
