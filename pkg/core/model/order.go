package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// OrderPaymentStatus reports whether an order is paid.
type OrderPaymentStatus string

// Valid OrderPaymentStatus values.
const (
	OrderUnpaid OrderPaymentStatus = "pending"
	OrderPaid   OrderPaymentStatus = "paid"
)

// ErrUnknownOrderPaymentStatus is returned for unknown stored values.
var ErrUnknownOrderPaymentStatus = errors.New("unknown order payment status")

// ParseOrderPaymentStatus validates a stored payment status string.
func ParseOrderPaymentStatus(s string) (OrderPaymentStatus, error) {
	switch st := OrderPaymentStatus(s); st {
	case OrderUnpaid, OrderPaid:
		return st, nil
	default:
		return "", ErrUnknownOrderPaymentStatus
	}
}

// Order is a purchase of car parts. TotalPrice is computed once at
// checkout as the sum of the item subtotals minus DiscountAmount.
type Order struct {
	ID             int64              `json:"id"`
	UserID         int64              `json:"user_id"`
	TotalPrice     decimal.Decimal    `json:"total_price"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	DiscountCode   string             `json:"discount_code,omitempty"`
	PaymentStatus  OrderPaymentStatus `json:"payment_status"`
	PaymentMethod  string             `json:"payment_method,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	Items          []OrderItem        `json:"items,omitempty"`

	ItemCount    int    `json:"item_count,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
}

// OrderItem snapshots the price of a part at checkout time.
type OrderItem struct {
	ID       int64           `json:"id"`
	OrderID  int64           `json:"order_id"`
	PartID   int64           `json:"part_id"`
	PartName string          `json:"part_name,omitempty"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Subtotal returns price times quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CheckoutRequest carries the checkout form.
type CheckoutRequest struct {
	DiscountCode  string
	PaymentMethod string
}

// DefaultPaymentMethod is used when a checkout does not name one.
const DefaultPaymentMethod = "card"
