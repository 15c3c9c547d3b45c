package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the state of a payment row.
type PaymentStatus string

// Valid PaymentStatus values.
const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

// PendingPaymentMethod marks a booking payment which is not started.
const PendingPaymentMethod = "pending"

// ProcessorPaymentMethod marks a payment which is completed by the
// card payment processor.
const ProcessorPaymentMethod = "stripe"

// TargetKind names the entity which a payment is paying for.
type TargetKind string

// Valid TargetKind values.
const (
	TargetBooking TargetKind = "booking"
	TargetOrder   TargetKind = "order"
)

// ErrUnknownTargetKind is returned for unknown payment targets.
var ErrUnknownTargetKind = errors.New("unknown payment target type")

// ParseTargetKind validates a payment target type string.
func ParseTargetKind(s string) (TargetKind, error) {
	switch k := TargetKind(s); k {
	case TargetBooking, TargetOrder:
		return k, nil
	default:
		return "", ErrUnknownTargetKind
	}
}

// PaymentTarget references exactly one booking or one order.
type PaymentTarget struct {
	Kind TargetKind `json:"type"`
	ID   int64      `json:"id"`
}

func (t PaymentTarget) String() string {
	return fmt.Sprintf("%s#%d", t.Kind, t.ID)
}

// Payment records one payment attempt for a booking or an order.
type Payment struct {
	ID            int64           `json:"id"`
	Target        PaymentTarget   `json:"target"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"payment_method"`
	Status        PaymentStatus   `json:"status"`
	TransactionID string          `json:"transaction_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// PaymentIntent is the processor side view of a payment.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Amount       int64 // in the smallest currency unit
	Succeeded    bool
	Metadata     map[string]string
}

// PaymentView is shown on the payment page of a booking or an order.
type PaymentView struct {
	Target         PaymentTarget   `json:"target"`
	Amount         decimal.Decimal `json:"amount"`
	Status         PaymentStatus   `json:"status"`
	Description    string          `json:"description"`
	PublishableKey string          `json:"publishable_key,omitempty"`
}

// Cents converts an amount to the smallest currency unit.
func Cents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}
