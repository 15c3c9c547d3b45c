package cataloguc

import (
	"errors"
	"fmt"
)

// Option is a functional option for the catalog use case.
type Option func(uc *UseCase) error

// WithHomeLimit option configures how many services are shown on the
// home page.
func WithHomeLimit(n int) Option {
	return func(uc *UseCase) error {
		if n <= 0 {
			return fmt.Errorf("home limit (%d) is not positive", n)
		}
		if uc.homeLimit != 0 {
			return errors.New("home limit is already configured")
		}
		uc.homeLimit = n
		return nil
	}
}

// WithLowStockThreshold option configures the stock level at or below
// which an active part is reported by LowStockCheck.
func WithLowStockThreshold(n int) Option {
	return func(uc *UseCase) error {
		if n < 0 {
			return fmt.Errorf("low stock threshold (%d) is negative", n)
		}
		if uc.lowStock != nil {
			return errors.New("low stock threshold is already configured")
		}
		uc.lowStock = &n
		return nil
	}
}
