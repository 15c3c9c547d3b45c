// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package paymentuc contains the card payment use cases of bookings
// and orders. The payable amount is always computed from the stored
// booking or order, so clients may only choose what they pay for.
//
// A payment is started by CreateIntent which registers an intent with
// the payment processor, carrying the paid target and the paying user
// in its metadata. After the client confirms the card payment with the
// processor, Confirm verifies the intent and records the payment.
package paymentuc

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/log"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/notify"
	"github.com/futuremech/fmweb/pkg/core/payment"
	"github.com/futuremech/fmweb/pkg/core/repo"
	"github.com/shopspring/decimal"
)

// ErrAlreadyPaid is returned when a completed payment is started again.
var ErrAlreadyPaid = errors.New("payment is already completed")

// ErrIntentMismatch is returned when a payment intent was not created
// for the confirmed target and user.
var ErrIntentMismatch = errors.New("payment intent does not match the payment")

// ErrNotSucceeded is returned when the confirmed payment intent has
// not succeeded.
var ErrNotSucceeded = errors.New("payment has not succeeded")

// UseCase represents the payment use cases.
type UseCase struct {
	pool      repo.Pool
	bookings  repo.Bookings
	orders    repo.Orders
	payments  repo.Payments
	processor payment.Processor
	mailer    notify.Mailer

	publishableKey string
}

// Option is a functional option for the payment use case.
type Option func(uc *UseCase) error

// WithPublishableKey option configures the public key of the payment
// processor which is shown in the payment views, so the client side
// may confirm the card payments.
func WithPublishableKey(key string) Option {
	return func(uc *UseCase) error {
		if key == "" {
			return errors.New("publishable key is empty")
		}
		if uc.publishableKey != "" {
			return errors.New("publishable key is already configured")
		}
		uc.publishableKey = key
		return nil
	}
}

// New instantiates a payment use case.
func New(
	p repo.Pool,
	bookings repo.Bookings,
	orders repo.Orders,
	payments repo.Payments,
	processor payment.Processor,
	mailer notify.Mailer,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:      p,
		bookings:  bookings,
		orders:    orders,
		payments:  payments,
		processor: processor,
		mailer:    mailer,
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	return uc, nil
}

// payable is the owned booking or order which a payment is paying for.
type payable struct {
	amount      decimal.Decimal
	description string
	status      model.PaymentStatus
	booking     *model.Booking
	order       *model.Order
}

func (uc *UseCase) payable(
	ctx context.Context, c repo.Conn, userID int64, t model.PaymentTarget,
) (*payable, error) {
	p := &payable{}
	switch t.Kind {
	case model.TargetBooking:
		b, err := uc.bookings.Conn(c).ByID(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("fetching booking: %w", err)
		}
		if b.UserID != userID {
			return nil, cerr.NotFoundf("booking %d not found", t.ID)
		}
		p.booking, p.amount, p.description = b, b.TotalAmount, b.ServiceName
	case model.TargetOrder:
		o, err := uc.orders.Conn(c).ByID(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("fetching order: %w", err)
		}
		if o.UserID != userID {
			return nil, cerr.NotFoundf("order %d not found", t.ID)
		}
		names := make([]string, 0, len(o.Items))
		for _, it := range o.Items {
			names = append(names, it.PartName)
		}
		p.order, p.amount = o, o.TotalPrice
		p.description = strings.Join(names, ",")
	default:
		return nil, cerr.BadRequest(model.ErrUnknownTargetKind)
	}
	p.status = model.PaymentPending
	pay, err := uc.payments.Conn(c).ByTarget(ctx, t)
	switch {
	case err == nil:
		p.status = pay.Status
	case !cerr.IsNotFound(err):
		return nil, fmt.Errorf("fetching payment of %s: %w", t, err)
	}
	if p.order != nil && p.order.PaymentStatus == model.OrderPaid {
		p.status = model.PaymentCompleted
	}
	return p, nil
}

func (uc *UseCase) load(
	ctx context.Context, s *model.Session, t model.PaymentTarget,
) (p *payable, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		p, err = uc.payable(ctx, c, s.UserID, t)
		return err
	})
	return
}

// View returns the payment page data of a booking or an order which
// belongs to the s client.
func (uc *UseCase) View(
	ctx context.Context, s *model.Session, t model.PaymentTarget,
) (*model.PaymentView, error) {
	p, err := uc.load(ctx, s, t)
	if err != nil {
		return nil, err
	}
	return &model.PaymentView{
		Target:         t,
		Amount:         p.amount,
		Status:         p.status,
		Description:    p.description,
		PublishableKey: uc.publishableKey,
	}, nil
}

func metadata(userID int64, t model.PaymentTarget) map[string]string {
	return map[string]string{
		"user_id": strconv.FormatInt(userID, 10),
		"type":    string(t.Kind),
		"id":      strconv.FormatInt(t.ID, 10),
	}
}

// CreateIntent registers a payment intent for the stored amount of the
// t booking or order of the s client.
func (uc *UseCase) CreateIntent(
	ctx context.Context, s *model.Session, t model.PaymentTarget,
) (*model.PaymentIntent, error) {
	p, err := uc.load(ctx, s, t)
	if err != nil {
		return nil, err
	}
	if p.status == model.PaymentCompleted {
		return nil, cerr.BadRequest(ErrAlreadyPaid)
	}
	cents := model.Cents(p.amount)
	if cents <= 0 {
		return nil, cerr.BadRequestf("nothing to pay for %s", t)
	}
	pi, err := uc.processor.CreateIntent(ctx, cents, metadata(s.UserID, t))
	if err != nil {
		return nil, cerr.Unavailable(fmt.Errorf("creating payment intent: %w", err))
	}
	log.Info(
		ctx, "payment intent created",
		log.ID("user", s.UserID), log.Stringer("target", t),
	)
	return pi, nil
}

// Confirm verifies that the intentID payment intent has succeeded for
// the t target of the s client and records it: in one transaction,
// the pending payment is completed and the booking is confirmed or the
// order is marked as paid. Confirming the same intent again is a no-op.
func (uc *UseCase) Confirm(
	ctx context.Context,
	s *model.Session,
	intentID string,
	t model.PaymentTarget,
) error {
	if intentID == "" {
		return cerr.BadRequestf("invalid payment confirmation")
	}
	pi, err := uc.processor.Intent(ctx, intentID)
	if err != nil {
		return cerr.Unavailable(fmt.Errorf("retrieving payment intent: %w", err))
	}
	if !pi.Succeeded {
		return cerr.BadRequest(ErrNotSucceeded)
	}
	for k, v := range metadata(s.UserID, t) {
		if pi.Metadata[k] != v {
			return cerr.BadRequest(ErrIntentMismatch)
		}
	}
	var (
		p      *payable
		repeat bool
	)
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		p, err = uc.payable(ctx, c, s.UserID, t)
		if err != nil {
			return err
		}
		if pi.Amount != model.Cents(p.amount) {
			return cerr.BadRequest(ErrIntentMismatch)
		}
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			repeat, err = uc.record(ctx, tx, p, t, intentID)
			return err
		})
	})
	if err != nil {
		return err
	}
	if repeat {
		return nil
	}
	log.Info(
		ctx, "payment completed",
		log.ID("user", s.UserID), log.Stringer("target", t),
	)
	if b := p.booking; b != nil {
		notify.Deliver(ctx, uc.mailer, notify.Compose(
			s.Email, "Payment Confirmed - Future Mech", "Payment Confirmed",
			fmt.Sprintf("Your payment for %s has been processed.", b.ServiceName),
			"Scheduled: "+b.ScheduledDate.Format("January 02, 2006 at 03:04 PM"),
		))
	} else {
		notify.Deliver(ctx, uc.mailer, notify.Compose(
			s.Email, "Order Confirmed - Future Mech", "Order Confirmed",
			fmt.Sprintf("Your order #%d has been confirmed.", p.order.ID),
			"Total: $"+p.order.TotalPrice.StringFixed(2),
		))
	}
	return nil
}

// record completes the payment of t in tx. It reports true if the
// payment was completed by intentID before.
func (uc *UseCase) record(
	ctx context.Context,
	tx repo.Tx,
	p *payable,
	t model.PaymentTarget,
	intentID string,
) (bool, error) {
	pq := uc.payments.Tx(tx)
	ok, err := pq.Complete(ctx, t, intentID)
	if err != nil {
		return false, fmt.Errorf("completing payment: %w", err)
	}
	if !ok {
		pay, err := pq.ByTarget(ctx, t)
		switch {
		case err != nil:
			return false, fmt.Errorf("fetching payment of %s: %w", t, err)
		case pay.Status == model.PaymentCompleted && pay.TransactionID == intentID:
			return true, nil
		default:
			return false, cerr.BadRequest(ErrAlreadyPaid)
		}
	}
	if b := p.booking; b != nil {
		if b.Status != model.BookingPending {
			return false, nil
		}
		_, err = uc.bookings.Tx(tx).UpdateStatus(
			ctx, b.ID, model.BookingConfirmed, nil, nil,
		)
		if err != nil {
			return false, fmt.Errorf("confirming booking: %w", err)
		}
		return false, nil
	}
	if err := uc.orders.Tx(tx).MarkPaid(ctx, p.order.ID); err != nil {
		return false, fmt.Errorf("marking order as paid: %w", err)
	}
	return false, nil
}
