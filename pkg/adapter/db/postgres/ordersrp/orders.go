package ordersrp

import (
	"context"
	"fmt"
	"time"

	"github.com/futuremech/fmweb/pkg/adapter/db/postgres"
	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type gOrder struct {
	ID             int64 `gorm:"primaryKey"`
	UserID         int64
	TotalPrice     decimal.Decimal `gorm:"type:numeric(10,2)"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(10,2)"`
	DiscountCode   string
	PaymentStatus  string
	PaymentMethod  string
	CreatedAt      time.Time
}

func (gord *gOrder) TableName() string {
	return "orders"
}

type gOrderView struct {
	gOrder       `gorm:"embedded"`
	ItemCount    int
	CustomerName string
}

func (gv *gOrderView) Model() (*model.Order, error) {
	ps, err := model.ParseOrderPaymentStatus(gv.PaymentStatus)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", gv.ID, err)
	}
	return &model.Order{
		ID:             gv.ID,
		UserID:         gv.UserID,
		TotalPrice:     gv.TotalPrice,
		DiscountAmount: gv.DiscountAmount,
		DiscountCode:   gv.DiscountCode,
		PaymentStatus:  ps,
		PaymentMethod:  gv.PaymentMethod,
		CreatedAt:      gv.CreatedAt,
		ItemCount:      gv.ItemCount,
		CustomerName:   gv.CustomerName,
	}, nil
}

type gOrderItem struct {
	ID       int64 `gorm:"primaryKey"`
	OrderID  int64
	PartID   int64
	Quantity int
	Price    decimal.Decimal `gorm:"type:numeric(10,2)"`
}

func (gi *gOrderItem) TableName() string {
	return "order_items"
}

type gItemView struct {
	gOrderItem `gorm:"embedded"`
	PartName   string
}

func view(gdb *gorm.DB) *gorm.DB {
	return gdb.Table("orders AS o").Select(`o.*,
	u.username AS customer_name,
	coalesce((SELECT sum(i.quantity) FROM order_items AS i
		WHERE i.order_id = o.id), 0) AS item_count`).Joins(
		"JOIN users AS u ON u.id = o.user_id",
	)
}

// Create inserts o and its items. The created_at and the ids are
// filled by the database.
func Create[Q postgres.Queryer](ctx context.Context, q Q, o *model.Order) (*model.Order, error) {
	gord := &gOrder{
		UserID:         o.UserID,
		TotalPrice:     o.TotalPrice,
		DiscountAmount: o.DiscountAmount,
		DiscountCode:   o.DiscountCode,
		PaymentStatus:  string(o.PaymentStatus),
		PaymentMethod:  o.PaymentMethod,
	}
	gdb := q.GORM(ctx)
	if err := gdb.Create(gord).Error; err != nil {
		return nil, postgres.Classify(err, "order")
	}
	if len(o.Items) > 0 {
		gg := make([]gOrderItem, 0, len(o.Items))
		for _, it := range o.Items {
			gg = append(gg, gOrderItem{
				OrderID:  gord.ID,
				PartID:   it.PartID,
				Quantity: it.Quantity,
				Price:    it.Price,
			})
		}
		if err := gdb.Create(&gg).Error; err != nil {
			return nil, postgres.Classify(err, "order item")
		}
	}
	return ByID(ctx, q, gord.ID)
}

// ByID returns the id order along with its items.
func ByID[Q postgres.Queryer](ctx context.Context, q Q, id int64) (*model.Order, error) {
	var gv gOrderView
	gdb := q.GORM(ctx)
	if err := view(gdb).Where("o.id = ?", id).Take(&gv).Error; err != nil {
		return nil, postgres.Classify(err, "order")
	}
	o, err := gv.Model()
	if err != nil {
		return nil, err
	}
	var gg []gItemView
	err = gdb.Table("order_items AS i").Select(
		"i.*, p.name AS part_name",
	).Joins(
		"LEFT JOIN car_parts AS p ON p.id = i.part_id",
	).Where("i.order_id = ?", id).Order("i.id").Find(&gg).Error
	if err != nil {
		return nil, fmt.Errorf("listing items of order %d: %w", id, err)
	}
	o.Items = make([]model.OrderItem, 0, len(gg))
	for _, gi := range gg {
		o.Items = append(o.Items, model.OrderItem{
			ID:       gi.ID,
			OrderID:  gi.OrderID,
			PartID:   gi.PartID,
			PartName: gi.PartName,
			Quantity: gi.Quantity,
			Price:    gi.Price,
		})
	}
	return o, nil
}

// List returns the orders of userID (or of all users if it is zero),
// newest first. Items are not loaded, but counted.
func List[Q postgres.Queryer](ctx context.Context, q Q, userID int64, limit int) ([]model.Order, error) {
	gdb := view(q.GORM(ctx))
	if userID != 0 {
		gdb = gdb.Where("o.user_id = ?", userID)
	}
	gdb = gdb.Order("o.created_at DESC").Order("o.id DESC")
	if limit > 0 {
		gdb = gdb.Limit(limit)
	}
	var gg []gOrderView
	if err := gdb.Find(&gg).Error; err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	oo := make([]model.Order, 0, len(gg))
	for i := range gg {
		o, err := gg[i].Model()
		if err != nil {
			return nil, err
		}
		oo = append(oo, *o)
	}
	return oo, nil
}

func MarkPaid[Q postgres.Queryer](ctx context.Context, q Q, id int64) error {
	res := q.GORM(ctx).Model(&gOrder{}).Where("id = ?", id).Update(
		"payment_status", string(model.OrderPaid),
	)
	if err := res.Error; err != nil {
		return postgres.Classify(err, "order")
	}
	if res.RowsAffected != 1 {
		return cerr.NotFoundf("order %d not found", id)
	}
	return nil
}

func Count[Q postgres.Queryer](ctx context.Context, q Q) (int64, error) {
	var n int64
	if err := q.GORM(ctx).Model(&gOrder{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting orders: %w", err)
	}
	return n, nil
}

func Revenue[Q postgres.Queryer](ctx context.Context, q Q, since *time.Time) (decimal.Decimal, error) {
	gdb := q.GORM(ctx).Model(&gOrder{}).Where(
		"payment_status = ?", string(model.OrderPaid),
	)
	if since != nil {
		gdb = gdb.Where("created_at >= ?", *since)
	}
	var sum decimal.Decimal
	err := gdb.Select("coalesce(sum(total_price), 0)").Row().Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing revenue: %w", err)
	}
	return sum, nil
}
