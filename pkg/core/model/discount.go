// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType specifies how a discount value is interpreted.
type DiscountType string

// Valid DiscountType values.
const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// ErrUnknownDiscountType is returned for unknown discount types.
var ErrUnknownDiscountType = errors.New("unknown discount type")

// ParseDiscountType validates a discount type string.
func ParseDiscountType(s string) (DiscountType, error) {
	switch t := DiscountType(s); t {
	case DiscountPercentage, DiscountFixed:
		return t, nil
	default:
		return "", ErrUnknownDiscountType
	}
}

var hundred = decimal.NewFromInt(100)

// Discount is a code-activated reduction applied once per checkout.
// UsedCount never exceeds UsageLimit when a limit is set.
type Discount struct {
	ID         int64           `json:"id"`
	Code       string          `json:"code"`
	Type       DiscountType    `json:"discount_type"`
	Value      decimal.Decimal `json:"discount_value"`
	UsageLimit *int            `json:"usage_limit,omitempty"`
	UsedCount  int             `json:"used_count"`
	Expiry     *time.Time      `json:"expiry_date,omitempty"`
	Active     bool            `json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NormalizeDiscountCode trims and upper-cases a discount code.
func NormalizeDiscountCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks a discount before its creation.
func (d *Discount) Validate() error {
	d.Code = NormalizeDiscountCode(d.Code)
	if d.Code == "" {
		return errors.New("discount code is required")
	}
	if _, err := ParseDiscountType(string(d.Type)); err != nil {
		return err
	}
	if !d.Value.IsPositive() {
		return errors.New("discount value must be positive")
	}
	if d.Type == DiscountPercentage && d.Value.GreaterThan(hundred) {
		return errors.New("percentage discount may not exceed 100")
	}
	if d.UsageLimit != nil && *d.UsageLimit < 0 {
		return errors.New("usage limit may not be negative")
	}
	return nil
}

// Usable reports whether d may be redeemed on the given day.
// The expiry is compared by date only, so a discount which expires
// today is still usable.
func (d *Discount) Usable(today time.Time) bool {
	if !d.Active {
		return false
	}
	if d.UsageLimit != nil && d.UsedCount >= *d.UsageLimit {
		return false
	}
	if d.Expiry != nil && DateOf(*d.Expiry).Before(DateOf(today)) {
		return false
	}
	return true
}

// Amount computes the reduction for a pre-discount total. Percentage
// discounts are rounded half-up to cents and fixed discounts are capped
// at the total, so the final total never becomes negative.
func (d *Discount) Amount(total decimal.Decimal) decimal.Decimal {
	var amt decimal.Decimal
	switch d.Type {
	case DiscountPercentage:
		amt = total.Mul(d.Value).Div(hundred).Round(2)
	case DiscountFixed:
		amt = decimal.Min(d.Value, total)
	}
	if amt.GreaterThan(total) {
		amt = total
	}
	return amt
}

// DateOf truncates t to the midnight of its calendar day in UTC.
func DateOf(t time.Time) time.Time {
	y, m, dd := t.Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}
