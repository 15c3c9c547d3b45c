package ordersrp

import (
	"context"
	"fmt"
	"time"

	"github.com/futuremech/fmweb/pkg/adapter/db/postgres"
	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/repo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentsRepo struct {
}

func NewPayments() *PaymentsRepo {
	return &PaymentsRepo{}
}

type paymentQueryer[Q postgres.Queryer] struct {
	q Q
}

func (payments *PaymentsRepo) Conn(c repo.Conn) repo.PaymentsQueryer {
	return paymentQueryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

func (payments *PaymentsRepo) Tx(tx repo.Tx) repo.PaymentsQueryer {
	return paymentQueryer[*postgres.Tx]{q: tx.(*postgres.Tx)}
}

func (pq paymentQueryer[Q]) Create(ctx context.Context, p *model.Payment) (*model.Payment, error) {
	return CreatePayment(ctx, pq.q, p)
}

func (pq paymentQueryer[Q]) ByTarget(ctx context.Context, t model.PaymentTarget) (*model.Payment, error) {
	return PaymentByTarget(ctx, pq.q, t)
}

func (pq paymentQueryer[Q]) Complete(ctx context.Context, t model.PaymentTarget, txnID string) (bool, error) {
	return Complete(ctx, pq.q, t, txnID)
}

// gPayment keeps the payment target in one of the booking_id or the
// order_id columns.
type gPayment struct {
	ID            int64 `gorm:"primaryKey"`
	BookingID     *int64
	OrderID       *int64
	Amount        decimal.Decimal `gorm:"type:numeric(10,2)"`
	PaymentMethod string
	Status        string
	TransactionID string
	CreatedAt     time.Time
}

func (gp *gPayment) TableName() string {
	return "payments"
}

func (gp *gPayment) Model() *model.Payment {
	p := &model.Payment{
		ID:            gp.ID,
		Amount:        gp.Amount,
		Method:        gp.PaymentMethod,
		Status:        model.PaymentStatus(gp.Status),
		TransactionID: gp.TransactionID,
		CreatedAt:     gp.CreatedAt,
	}
	switch {
	case gp.BookingID != nil:
		p.Target = model.PaymentTarget{Kind: model.TargetBooking, ID: *gp.BookingID}
	case gp.OrderID != nil:
		p.Target = model.PaymentTarget{Kind: model.TargetOrder, ID: *gp.OrderID}
	}
	return p
}

// byTarget restricts gdb to the payments of t.
func byTarget(gdb *gorm.DB, t model.PaymentTarget) (*gorm.DB, error) {
	switch t.Kind {
	case model.TargetBooking:
		return gdb.Where("booking_id = ?", t.ID), nil
	case model.TargetOrder:
		return gdb.Where("order_id = ?", t.ID), nil
	default:
		return nil, cerr.BadRequest(model.ErrUnknownTargetKind)
	}
}

func CreatePayment[Q postgres.Queryer](ctx context.Context, q Q, p *model.Payment) (*model.Payment, error) {
	gp := &gPayment{
		Amount:        p.Amount,
		PaymentMethod: p.Method,
		Status:        string(p.Status),
		TransactionID: p.TransactionID,
	}
	id := p.Target.ID
	switch p.Target.Kind {
	case model.TargetBooking:
		gp.BookingID = &id
	case model.TargetOrder:
		gp.OrderID = &id
	default:
		return nil, cerr.BadRequest(model.ErrUnknownTargetKind)
	}
	if err := q.GORM(ctx).Create(gp).Error; err != nil {
		return nil, postgres.Classify(err, "payment")
	}
	return gp.Model(), nil
}

// PaymentByTarget returns the latest payment of t.
func PaymentByTarget[Q postgres.Queryer](ctx context.Context, q Q, t model.PaymentTarget) (*model.Payment, error) {
	gdb, err := byTarget(q.GORM(ctx), t)
	if err != nil {
		return nil, err
	}
	var gp gPayment
	if err := gdb.Order("id DESC").Take(&gp).Error; err != nil {
		return nil, postgres.Classify(err, "payment of "+t.String())
	}
	return gp.Model(), nil
}

// Complete updates the latest payment of t if it is still pending.
func Complete[Q postgres.Queryer](ctx context.Context, q Q, t model.PaymentTarget, txnID string) (bool, error) {
	p, err := PaymentByTarget(ctx, q, t)
	switch {
	case cerr.IsNotFound(err):
		return false, nil
	case err != nil:
		return false, err
	case p.Status != model.PaymentPending:
		return false, nil
	}
	res := q.GORM(ctx).Model(&gPayment{}).Where(
		"id = ? AND status = ?", p.ID, string(model.PaymentPending),
	).Updates(map[string]any{
		"status":         string(model.PaymentCompleted),
		"transaction_id": txnID,
		"payment_method": model.ProcessorPaymentMethod,
	})
	if err := res.Error; err != nil {
		return false, fmt.Errorf("completing payment %d: %w", p.ID, err)
	}
	return res.RowsAffected == 1, nil
}
