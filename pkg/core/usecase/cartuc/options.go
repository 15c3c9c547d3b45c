// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cartuc

import (
	"errors"
	"fmt"
	"time"
)

// Option is a functional option for the cart use case.
type Option func(uc *UseCase) error

// WithClock option configures the function which reports the current
// time. Discount expiry dates are compared against its date.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		if uc.now != nil {
			return errors.New("clock is already configured")
		}
		uc.now = now
		return nil
	}
}

// WithMaxLineQuantity option limits the quantity of a single cart line
// regardless of the available stock. Lines are only bounded by the
// stock when it is not given.
func WithMaxLineQuantity(n int) Option {
	return func(uc *UseCase) error {
		if n <= 0 {
			return fmt.Errorf("max line quantity (%d) is not positive", n)
		}
		if uc.maxLineQty != 0 {
			return errors.New("max line quantity is already configured")
		}
		uc.maxLineQty = n
		return nil
	}
}
