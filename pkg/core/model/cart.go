// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// Cart maps a part id to its requested quantity. It is ephemeral and
// belongs to one browser session. Cart values are treated as immutable
// by the functions of this file, which return a modified copy instead.
type Cart map[int64]int

// ErrInvalidQuantity indicates a quantity which is less than one.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// ErrEmptyCart is returned when checking out an empty cart.
var ErrEmptyCart = errors.New("cart is empty")

// StockError reports that Requested items of a part are not available
// because only Available items are in stock (or the part is inactive).
type StockError struct {
	PartID    int64
	Name      string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	name := e.Name
	if name == "" {
		name = fmt.Sprintf("part #%d", e.PartID)
	}
	return fmt.Sprintf(
		"item %s is no longer available in the requested quantity"+
			" (requested %d, available %d)",
		name, e.Requested, e.Available,
	)
}

// Clone returns an independent copy of c. A nil cart is cloned as an
// empty cart.
func (c Cart) Clone() Cart {
	cc := make(Cart, len(c))
	for id, q := range c {
		cc[id] = q
	}
	return cc
}

// PartIDs returns the part ids of c in ascending order.
func (c Cart) PartIDs() []int64 {
	ids := make([]int64, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Empty reports whether c has no lines.
func (c Cart) Empty() bool {
	return len(c) == 0
}

// AddToCart returns a copy of c with qty more items of part p. The
// resulting quantity of p may not exceed its current stock, so the
// request is rejected if the part is inactive or has less stock than
// the existing quantity plus qty. On errors, the returned cart is c.
func AddToCart(c Cart, p *CarPart, qty int) (Cart, error) {
	if qty < 1 {
		return c, ErrInvalidQuantity
	}
	want := c[p.ID] + qty
	if !p.Available(want) {
		return c, stockError(p, want)
	}
	cc := c.Clone()
	cc[p.ID] = want
	return cc, nil
}

// UpdateCart returns a copy of c where the quantity of part p is set
// to qty (not added). A non-positive qty removes the line, while a qty
// beyond the current stock is rejected and c is returned unchanged.
// The p may be nil when only a removal is asked, e.g., for a part
// which is deleted from the catalog.
func UpdateCart(c Cart, partID int64, p *CarPart, qty int) (Cart, error) {
	if qty <= 0 {
		cc := c.Clone()
		delete(cc, partID)
		return cc, nil
	}
	if p == nil {
		return c, &StockError{PartID: partID, Requested: qty}
	}
	if !p.Available(qty) {
		return c, stockError(p, qty)
	}
	cc := c.Clone()
	cc[p.ID] = qty
	return cc, nil
}

func stockError(p *CarPart, want int) *StockError {
	avail := p.Stock
	if !p.Active {
		avail = 0
	}
	return &StockError{
		PartID: p.ID, Name: p.Name, Requested: want, Available: avail,
	}
}

// CartLine is one priced line of a cart view.
type CartLine struct {
	Part      CarPart         `json:"part"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"item_total"`
}

// CartView is the priced cart which is shown to the client.
type CartView struct {
	Lines []CartLine      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// ViewCart prices the lines of c using the current catalog rows in
// parts. Lines whose part is missing, inactive, or which have a
// non-positive quantity are dropped silently. Lines are ordered by
// their part ids, so viewing an unchanged cart is deterministic.
func ViewCart(c Cart, parts []CarPart) *CartView {
	byID := make(map[int64]*CarPart, len(parts))
	for i := range parts {
		byID[parts[i].ID] = &parts[i]
	}
	v := &CartView{Lines: []CartLine{}, Total: decimal.Zero}
	for _, id := range c.PartIDs() {
		q := c[id]
		p, ok := byID[id]
		if !ok || !p.Active || q <= 0 {
			continue
		}
		lt := p.Price.Mul(decimal.NewFromInt(int64(q)))
		v.Lines = append(v.Lines, CartLine{
			Part: *p, Quantity: q, LineTotal: lt,
		})
		v.Total = v.Total.Add(lt)
	}
	return v
}
