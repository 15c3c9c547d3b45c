// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cartuc contains the cart UseCase which supports adding parts
// to a session cart, updating and viewing it, and checking it out as
// an order. The cart itself is passed in and returned explicitly, so
// the caller decides where it is kept between requests (see the Load,
// Save, and Clear methods for the repository backed persistence).
//
// Checkout runs in one database transaction. Stock decrements and the
// discount redemption are conditional updates, so concurrent checkouts
// may not oversell a part or overrun the usage limit of a discount;
// whichever checkout loses the race fails and leaves no trace.
package cartuc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/log"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/repo"
	"github.com/shopspring/decimal"
)

// ErrInvalidDiscount is returned when a discount code does not exist,
// is inactive, expired, or exhausted.
var ErrInvalidDiscount = errors.New("invalid or expired discount code")

// UseCase represents the cart and checkout use cases.
type UseCase struct {
	pool          repo.Pool
	parts         repo.Parts
	discounts     repo.Discounts
	orders        repo.Orders
	payments      repo.Payments
	notifications repo.Notifications
	carts         repo.Carts

	now        func() time.Time
	maxLineQty int
}

// New instantiates a cart use case.
func New(
	p repo.Pool,
	parts repo.Parts,
	discounts repo.Discounts,
	orders repo.Orders,
	payments repo.Payments,
	notifications repo.Notifications,
	carts repo.Carts,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:          p,
		parts:         parts,
		discounts:     discounts,
		orders:        orders,
		payments:      payments,
		notifications: notifications,
		carts:         carts,
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

// Load returns the cart of the sid session.
func (uc *UseCase) Load(ctx context.Context, sid string) (model.Cart, error) {
	c, err := uc.carts.Load(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("loading cart: %w", err)
	}
	return c, nil
}

// Save keeps c as the cart of the sid session.
func (uc *UseCase) Save(ctx context.Context, sid string, c model.Cart) error {
	if err := uc.carts.Save(ctx, sid, c); err != nil {
		return fmt.Errorf("saving cart: %w", err)
	}
	return nil
}

// Clear forgets the cart of the sid session.
func (uc *UseCase) Clear(ctx context.Context, sid string) error {
	if err := uc.carts.Clear(ctx, sid); err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}
	return nil
}

func (uc *UseCase) part(ctx context.Context, id int64) (p *model.CarPart, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		p, err = uc.parts.Conn(c).ByID(ctx, id)
		return err
	})
	return
}

// checkLineQty enforces the optional per-line cap. Without it, only
// the stock bounds a line.
func (uc *UseCase) checkLineQty(n int) error {
	if uc.maxLineQty > 0 && n > uc.maxLineQty {
		return cerr.BadRequestf(
			"at most %d items of a part may be ordered", uc.maxLineQty,
		)
	}
	return nil
}

// Add returns a copy of c with qty more items of the partID part.
// It fails if qty is less than one, the part is missing or inactive,
// or the resulting quantity would exceed the current stock.
func (uc *UseCase) Add(
	ctx context.Context, c model.Cart, partID int64, qty int,
) (model.Cart, error) {
	if qty < 1 {
		return c, cerr.BadRequest(model.ErrInvalidQuantity)
	}
	if qty > math.MaxInt-c[partID] {
		return c, cerr.BadRequestf("quantity %d is too large", qty)
	}
	if err := uc.checkLineQty(c[partID] + qty); err != nil {
		return c, err
	}
	p, err := uc.part(ctx, partID)
	if err != nil {
		return c, fmt.Errorf("fetching part %d: %w", partID, err)
	}
	cc, err := model.AddToCart(c, p, qty)
	if err != nil {
		return c, cerr.BadRequest(err)
	}
	return cc, nil
}

// Update returns a copy of c where the quantity of the partID part is
// set to qty. A non-positive qty removes the line. A qty beyond the
// current stock is rejected and c is returned unchanged.
func (uc *UseCase) Update(
	ctx context.Context, c model.Cart, partID int64, qty int,
) (model.Cart, error) {
	if qty <= 0 {
		return model.UpdateCart(c, partID, nil, qty)
	}
	if err := uc.checkLineQty(qty); err != nil {
		return c, err
	}
	p, err := uc.part(ctx, partID)
	if err != nil {
		return c, fmt.Errorf("fetching part %d: %w", partID, err)
	}
	cc, err := model.UpdateCart(c, partID, p, qty)
	if err != nil {
		return c, cerr.BadRequest(err)
	}
	return cc, nil
}

// View prices c using the current catalog rows. Missing and inactive
// parts are dropped from the view (but not from c).
func (uc *UseCase) View(ctx context.Context, c model.Cart) (
	v *model.CartView, err error,
) {
	if c.Empty() {
		return model.ViewCart(c, nil), nil
	}
	var parts []model.CarPart
	err = uc.pool.Conn(ctx, func(ctx context.Context, cn repo.Conn) error {
		parts, err = uc.parts.Conn(cn).ByIDs(ctx, c.PartIDs())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetching cart parts: %w", err)
	}
	return model.ViewCart(c, parts), nil
}

// Checkout converts c into an order of the userID client. In one
// transaction, it validates every line against the current stock,
// applies and redeems the optional discount code, creates the order
// with its price snapshots, decrements the stocks, and creates a
// pending payment for the order. Any failure rolls back everything.
// The caller is expected to clear the cart after a successful call.
func (uc *UseCase) Checkout(
	ctx context.Context,
	userID int64,
	c model.Cart,
	req model.CheckoutRequest,
) (order *model.Order, err error) {
	if c.Empty() {
		return nil, cerr.BadRequest(model.ErrEmptyCart)
	}
	code := model.NormalizeDiscountCode(req.DiscountCode)
	method := strings.TrimSpace(req.PaymentMethod)
	if method == "" {
		method = model.DefaultPaymentMethod
	}
	today := uc.now()
	err = uc.pool.Conn(ctx, func(ctx context.Context, cn repo.Conn) error {
		return cn.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			order, err = uc.checkout(ctx, tx, userID, c, code, method, today)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	log.Info(
		ctx, "order placed",
		log.ID("order", order.ID), log.ID("user", userID),
		log.Stringer("total", order.TotalPrice),
	)
	uc.notifyOrder(ctx, order)
	return order, nil
}

func (uc *UseCase) checkout(
	ctx context.Context,
	tx repo.Tx,
	userID int64,
	c model.Cart,
	code, method string,
	today time.Time,
) (*model.Order, error) {
	parts := uc.parts.Tx(tx)
	o := &model.Order{
		UserID:        userID,
		PaymentStatus: model.OrderUnpaid,
		PaymentMethod: method,
	}
	total := decimal.Zero
	for _, id := range c.PartIDs() {
		qty := c[id]
		p, err := parts.ByID(ctx, id)
		switch {
		case cerr.IsNotFound(err):
			return nil, cerr.BadRequest(&model.StockError{
				PartID: id, Requested: qty,
			})
		case err != nil:
			return nil, fmt.Errorf("fetching part %d: %w", id, err)
		case !p.Available(qty):
			avail := p.Stock
			if !p.Active {
				avail = 0
			}
			return nil, cerr.BadRequest(&model.StockError{
				PartID: id, Name: p.Name, Requested: qty, Available: avail,
			})
		}
		item := model.OrderItem{
			PartID:   id,
			PartName: p.Name,
			Quantity: qty,
			Price:    p.Price,
		}
		o.Items = append(o.Items, item)
		total = total.Add(item.Subtotal())
	}
	o.DiscountAmount = decimal.Zero
	if code != "" {
		dq := uc.discounts.Tx(tx)
		d, err := dq.FindUsable(ctx, code, today)
		switch {
		case cerr.IsNotFound(err):
			return nil, cerr.BadRequest(ErrInvalidDiscount)
		case err != nil:
			return nil, fmt.Errorf("finding discount %q: %w", code, err)
		}
		ok, err := dq.Redeem(ctx, d.ID, today)
		switch {
		case err != nil:
			return nil, fmt.Errorf("redeeming discount %q: %w", code, err)
		case !ok:
			return nil, cerr.BadRequest(ErrInvalidDiscount)
		}
		o.DiscountAmount = d.Amount(total)
		o.DiscountCode = d.Code
	}
	o.TotalPrice = total.Sub(o.DiscountAmount)
	order, err := uc.orders.Tx(tx).Create(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}
	for _, it := range order.Items {
		ok, err := parts.DecrementStock(ctx, it.PartID, it.Quantity)
		switch {
		case err != nil:
			return nil, fmt.Errorf(
				"decrementing stock of part %d: %w", it.PartID, err,
			)
		case !ok:
			return nil, cerr.BadRequest(&model.StockError{
				PartID: it.PartID, Name: it.PartName, Requested: it.Quantity,
			})
		}
	}
	_, err = uc.payments.Tx(tx).Create(ctx, &model.Payment{
		Target: model.PaymentTarget{
			Kind: model.TargetOrder, ID: order.ID,
		},
		Amount: order.TotalPrice,
		Method: method,
		Status: model.PaymentPending,
	})
	if err != nil {
		return nil, fmt.Errorf("creating payment: %w", err)
	}
	return order, nil
}

func (uc *UseCase) notifyOrder(ctx context.Context, o *model.Order) {
	id := o.ID
	n := &model.Notification{
		Audience:  model.AudienceOf(model.RoleAdmin),
		Type:      model.NotifyOrder,
		Message:   fmt.Sprintf("New order #%d: $%s", o.ID, o.TotalPrice.StringFixed(2)),
		RelatedID: &id,
	}
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		_, err := uc.notifications.Conn(c).Create(ctx, n)
		return err
	})
	if err != nil {
		log.Warn(
			ctx, "order notification failed",
			log.ID("order", o.ID), log.Err("err", err),
		)
	}
}
