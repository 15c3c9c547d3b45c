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

type DiscountsRepo struct {
}

func NewDiscounts() *DiscountsRepo {
	return &DiscountsRepo{}
}

type discountQueryer[Q postgres.Queryer] struct {
	q Q
}

func (discounts *DiscountsRepo) Conn(c repo.Conn) repo.DiscountsConnQueryer {
	return discountQueryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

func (discounts *DiscountsRepo) Tx(tx repo.Tx) repo.DiscountsTxQueryer {
	return discountTxQueryer{discountQueryer[*postgres.Tx]{q: tx.(*postgres.Tx)}}
}

func (dq discountQueryer[Q]) FindUsable(ctx context.Context, code string, today time.Time) (*model.Discount, error) {
	return FindUsable(ctx, dq.q, code, today)
}

func (dq discountQueryer[Q]) ByCode(ctx context.Context, code string) (*model.Discount, error) {
	return DiscountByCode(ctx, dq.q, code)
}

func (dq discountQueryer[Q]) List(ctx context.Context) ([]model.Discount, error) {
	return ListDiscounts(ctx, dq.q)
}

func (dq discountQueryer[Q]) Create(ctx context.Context, d *model.Discount) (*model.Discount, error) {
	return CreateDiscount(ctx, dq.q, d)
}

type discountTxQueryer struct {
	discountQueryer[*postgres.Tx]
}

func (tq discountTxQueryer) Redeem(ctx context.Context, id int64, today time.Time) (bool, error) {
	return Redeem(ctx, tq.q, id, today)
}

type gDiscount struct {
	ID            int64 `gorm:"primaryKey"`
	Code          string
	DiscountType  string
	DiscountValue decimal.Decimal `gorm:"type:numeric(10,2)"`
	UsageLimit    *int
	UsedCount     int
	ExpiryDate    *time.Time `gorm:"type:date"`
	IsActive      bool
	CreatedAt     time.Time
}

func (gd *gDiscount) TableName() string {
	return "discount_codes"
}

func (gd *gDiscount) Model() (*model.Discount, error) {
	t, err := model.ParseDiscountType(gd.DiscountType)
	if err != nil {
		return nil, fmt.Errorf("discount %d: %w", gd.ID, err)
	}
	return &model.Discount{
		ID:         gd.ID,
		Code:       gd.Code,
		Type:       t,
		Value:      gd.DiscountValue,
		UsageLimit: gd.UsageLimit,
		UsedCount:  gd.UsedCount,
		Expiry:     gd.ExpiryDate,
		Active:     gd.IsActive,
		CreatedAt:  gd.CreatedAt,
	}, nil
}

// usable restricts gdb to the discounts which may be applied on the
// today date. The expiry date is inclusive.
func usable(gdb *gorm.DB, today time.Time) *gorm.DB {
	return gdb.Where(
		"is_active AND (usage_limit IS NULL OR used_count < usage_limit)"+
			" AND (expiry_date IS NULL OR expiry_date >= ?)",
		model.DateOf(today),
	)
}

func takeDiscount(gdb *gorm.DB, code string) (*model.Discount, error) {
	var gd gDiscount
	if err := gdb.Where("code = ?", code).Take(&gd).Error; err != nil {
		return nil, postgres.Classify(err, fmt.Sprintf("discount %q", code))
	}
	return gd.Model()
}

func FindUsable[Q postgres.Queryer](ctx context.Context, q Q, code string, today time.Time) (*model.Discount, error) {
	return takeDiscount(usable(q.GORM(ctx), today), code)
}

func DiscountByCode[Q postgres.Queryer](ctx context.Context, q Q, code string) (*model.Discount, error) {
	return takeDiscount(q.GORM(ctx), code)
}

func ListDiscounts[Q postgres.Queryer](ctx context.Context, q Q) ([]model.Discount, error) {
	var gg []gDiscount
	if err := q.GORM(ctx).Order("created_at DESC").Order("id DESC").Find(&gg).Error; err != nil {
		return nil, fmt.Errorf("listing discounts: %w", err)
	}
	dd := make([]model.Discount, 0, len(gg))
	for i := range gg {
		d, err := gg[i].Model()
		if err != nil {
			return nil, err
		}
		dd = append(dd, *d)
	}
	return dd, nil
}

func CreateDiscount[Q postgres.Queryer](ctx context.Context, q Q, d *model.Discount) (*model.Discount, error) {
	gd := &gDiscount{
		Code:          d.Code,
		DiscountType:  string(d.Type),
		DiscountValue: d.Value,
		UsageLimit:    d.UsageLimit,
		ExpiryDate:    d.Expiry,
		IsActive:      d.Active,
	}
	if err := q.GORM(ctx).Create(gd).Error; err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, cerr.Conflict(fmt.Errorf(
				"discount code %q already exists", d.Code,
			))
		}
		return nil, postgres.Classify(err, "discount")
	}
	return gd.Model()
}

// Redeem increments the used count only if the discount is still
// usable, so two concurrent checkouts may not exceed its usage limit.
func Redeem[Q postgres.Queryer](ctx context.Context, q Q, id int64, today time.Time) (bool, error) {
	res := usable(q.GORM(ctx).Model(&gDiscount{}), today).Where(
		"id = ?", id,
	).UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if err := res.Error; err != nil {
		return false, fmt.Errorf("redeeming discount %d: %w", id, err)
	}
	return res.RowsAffected == 1, nil
}
