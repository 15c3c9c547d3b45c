package memrp

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/repo"
	"github.com/shopspring/decimal"
)

// Orders implements repo.Orders.
type Orders struct{}

func (Orders) Conn(c repo.Conn) repo.OrdersConnQueryer { return orders{dbOf(c)} }
func (Orders) Tx(tx repo.Tx) repo.OrdersTxQueryer      { return orders{dbOf(tx)} }

type orders struct{ db *DB }

func orderView(s *Store, o model.Order) model.Order {
	o.Items = append([]model.OrderItem(nil), o.Items...)
	o.ItemCount = 0
	for i := range o.Items {
		o.ItemCount += o.Items[i].Quantity
		if p, ok := s.Parts[o.Items[i].PartID]; ok {
			o.Items[i].PartName = p.Name
		}
	}
	if u, ok := s.Users[o.UserID]; ok {
		o.CustomerName = u.Username
	}
	return o
}

func (q orders) Create(_ context.Context, o *model.Order) (res *model.Order, err error) {
	err = q.db.exec("orders.Create", func(s *Store) error {
		oo := *o
		oo.ID = s.nextID()
		oo.CreatedAt = q.db.Now()
		oo.Items = make([]model.OrderItem, len(o.Items))
		for i, it := range o.Items {
			it.ID = s.nextID()
			it.OrderID = oo.ID
			oo.Items[i] = it
		}
		s.Orders[oo.ID] = oo
		oo = orderView(s, oo)
		res = &oo
		return nil
	})
	return
}

func (q orders) MarkPaid(_ context.Context, id int64) error {
	return q.db.exec("orders.MarkPaid", func(s *Store) error {
		o, ok := s.Orders[id]
		if !ok {
			return cerr.NotFoundf("order %d not found", id)
		}
		o.PaymentStatus = model.OrderPaid
		s.Orders[id] = o
		return nil
	})
}

func (q orders) ByID(_ context.Context, id int64) (res *model.Order, err error) {
	err = q.db.exec("orders.ByID", func(s *Store) error {
		o, ok := s.Orders[id]
		if !ok {
			return cerr.NotFoundf("order %d not found", id)
		}
		o = orderView(s, o)
		res = &o
		return nil
	})
	return
}

func (q orders) filter(
	stmt string, limit int, keep func(o *model.Order) bool,
) (res []model.Order, err error) {
	err = q.db.exec(stmt, func(s *Store) error {
		for _, o := range s.Orders {
			if keep(&o) {
				res = append(res, orderView(s, o))
			}
		}
		return nil
	})
	sort.Slice(res, func(i, j int) bool { return res[i].ID > res[j].ID })
	return limited(res, limit), err
}

func (q orders) ListByUser(_ context.Context, userID int64, limit int) ([]model.Order, error) {
	return q.filter("orders.ListByUser", limit, func(o *model.Order) bool {
		return o.UserID == userID
	})
}

func (q orders) List(_ context.Context, limit int) ([]model.Order, error) {
	return q.filter("orders.List", limit, func(*model.Order) bool {
		return true
	})
}

func (q orders) Count(context.Context) (n int64, err error) {
	err = q.db.exec("orders.Count", func(s *Store) error {
		n = int64(len(s.Orders))
		return nil
	})
	return
}

func (q orders) Revenue(_ context.Context, since *time.Time) (sum decimal.Decimal, err error) {
	err = q.db.exec("orders.Revenue", func(s *Store) error {
		for _, o := range s.Orders {
			if o.PaymentStatus != model.OrderPaid {
				continue
			}
			if since != nil && o.CreatedAt.Before(*since) {
				continue
			}
			sum = sum.Add(o.TotalPrice)
		}
		return nil
	})
	return
}

// Discounts implements repo.Discounts.
type Discounts struct{}

func (Discounts) Conn(c repo.Conn) repo.DiscountsConnQueryer { return discounts{dbOf(c)} }
func (Discounts) Tx(tx repo.Tx) repo.DiscountsTxQueryer      { return discounts{dbOf(tx)} }

type discounts struct{ db *DB }

func (q discounts) FindUsable(_ context.Context, code string, today time.Time) (res *model.Discount, err error) {
	err = q.db.exec("discounts.FindUsable", func(s *Store) error {
		for _, d := range s.Discounts {
			if d.Code == code && d.Usable(today) {
				res = &d
				return nil
			}
		}
		return cerr.NotFoundf("discount %q is not usable", code)
	})
	return
}

func (q discounts) ByCode(_ context.Context, code string) (res *model.Discount, err error) {
	err = q.db.exec("discounts.ByCode", func(s *Store) error {
		for _, d := range s.Discounts {
			if d.Code == code {
				res = &d
				return nil
			}
		}
		return cerr.NotFoundf("discount %q not found", code)
	})
	return
}

func (q discounts) List(context.Context) (res []model.Discount, err error) {
	err = q.db.exec("discounts.List", func(s *Store) error {
		for _, d := range s.Discounts {
			res = append(res, d)
		}
		return nil
	})
	sort.Slice(res, func(i, j int) bool { return res[i].ID > res[j].ID })
	return
}

func (q discounts) Create(_ context.Context, d *model.Discount) (res *model.Discount, err error) {
	err = q.db.exec("discounts.Create", func(s *Store) error {
		for _, o := range s.Discounts {
			if o.Code == d.Code {
				return cerr.Conflict(errors.New("discount code already exists"))
			}
		}
		dd := *d
		dd.ID = s.nextID()
		dd.CreatedAt = q.db.Now()
		s.Discounts[dd.ID] = dd
		res = &dd
		return nil
	})
	return
}

func (q discounts) Redeem(_ context.Context, id int64, today time.Time) (ok bool, err error) {
	err = q.db.exec("discounts.Redeem", func(s *Store) error {
		d, found := s.Discounts[id]
		if !found || !d.Usable(today) {
			return nil
		}
		d.UsedCount++
		s.Discounts[id] = d
		ok = true
		return nil
	})
	return
}

// Payments implements repo.Payments.
type Payments struct{}

func (Payments) Conn(c repo.Conn) repo.PaymentsQueryer { return payments{dbOf(c)} }
func (Payments) Tx(tx repo.Tx) repo.PaymentsQueryer    { return payments{dbOf(tx)} }

type payments struct{ db *DB }

func (q payments) Create(_ context.Context, p *model.Payment) (res *model.Payment, err error) {
	err = q.db.exec("payments.Create", func(s *Store) error {
		pp := *p
		pp.ID = s.nextID()
		pp.CreatedAt = q.db.Now()
		s.Payments[pp.ID] = pp
		res = &pp
		return nil
	})
	return
}

func latestPayment(s *Store, t model.PaymentTarget) (model.Payment, bool) {
	var (
		res   model.Payment
		found bool
	)
	for _, p := range s.Payments {
		if p.Target == t && (!found || p.ID > res.ID) {
			res, found = p, true
		}
	}
	return res, found
}

func (q payments) ByTarget(_ context.Context, t model.PaymentTarget) (res *model.Payment, err error) {
	err = q.db.exec("payments.ByTarget", func(s *Store) error {
		p, ok := latestPayment(s, t)
		if !ok {
			return cerr.NotFoundf("no payment for %s", t)
		}
		res = &p
		return nil
	})
	return
}

func (q payments) Complete(_ context.Context, t model.PaymentTarget, txnID string) (ok bool, err error) {
	err = q.db.exec("payments.Complete", func(s *Store) error {
		p, found := latestPayment(s, t)
		if !found || p.Status != model.PaymentPending {
			return nil
		}
		p.Status = model.PaymentCompleted
		p.TransactionID = txnID
		p.Method = model.ProcessorPaymentMethod
		s.Payments[p.ID] = p
		ok = true
		return nil
	})
	return
}
