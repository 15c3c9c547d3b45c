package cartuc_test

import (
	"context"
	"math"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/futuremech/fmweb/internal/test/memrp"
	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/usecase/cartuc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var today = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

type CartUseCaseTestSuite struct {
	suite.Suite

	ctx   context.Context
	db    *memrp.DB
	carts *memrp.Carts
	uc    *cartuc.UseCase

	client int64
	part   int64 // price 10.00, stock 5
}

func TestCartUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(CartUseCaseTestSuite))
}

func (s *CartUseCaseTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = memrp.New()
	s.db.Now = func() time.Time { return today }
	s.carts = memrp.NewCarts()
	uc, err := cartuc.New(
		s.db, memrp.Parts{}, memrp.Discounts{}, memrp.Orders{},
		memrp.Payments{}, memrp.Notifications{}, s.carts,
		cartuc.WithClock(func() time.Time { return today }),
	)
	s.Require().NoError(err)
	s.uc = uc
	s.db.Update(func(st *memrp.Store) {
		s.client = st.NextID()
		st.Users[s.client] = model.User{
			ID: s.client, Username: "client", Email: "c@x.com",
			Role: model.RoleClient, Active: true,
		}
	})
	s.part = s.addPart("Oil Filter", "10.00", 5)
}

func (s *CartUseCaseTestSuite) addPart(name, price string, stock int) (id int64) {
	s.db.Update(func(st *memrp.Store) {
		id = st.NextID()
		st.Parts[id] = model.CarPart{
			ID: id, Name: name, Price: decimal.RequireFromString(price),
			Stock: stock, Active: true,
		}
	})
	return
}

func (s *CartUseCaseTestSuite) addDiscount(d model.Discount) {
	s.db.Update(func(st *memrp.Store) {
		d.ID = st.NextID()
		st.Discounts[d.ID] = d
	})
}

func (s *CartUseCaseTestSuite) stock(id int64) (n int) {
	s.db.View(func(st *memrp.Store) { n = st.Parts[id].Stock })
	return
}

func (s *CartUseCaseTestSuite) orderCount() (n int) {
	s.db.View(func(st *memrp.Store) { n = len(st.Orders) })
	return
}

func (s *CartUseCaseTestSuite) TestOptions() {
	_, err := cartuc.New(
		s.db, memrp.Parts{}, memrp.Discounts{}, memrp.Orders{},
		memrp.Payments{}, memrp.Notifications{}, s.carts,
		cartuc.WithMaxLineQuantity(3), cartuc.WithMaxLineQuantity(4),
	)
	s.Error(err, "duplicate option")
	_, err = cartuc.New(
		s.db, memrp.Parts{}, memrp.Discounts{}, memrp.Orders{},
		memrp.Payments{}, memrp.Notifications{}, s.carts,
		cartuc.WithMaxLineQuantity(0),
	)
	s.Error(err, "non-positive max quantity")
}

func (s *CartUseCaseTestSuite) TestLinesAreBoundedByStockOnly() {
	big := s.addPart("Wiper Blade", "4.50", 200)
	c, err := s.uc.Add(s.ctx, nil, big, 150)
	s.Require().NoError(err)
	s.Equal(150, c[big])

	c, err = s.uc.Add(s.ctx, c, big, 50)
	s.Require().NoError(err)
	s.Equal(200, c[big])

	c, err = s.uc.Update(s.ctx, c, big, 120)
	s.Require().NoError(err)
	s.Equal(120, c[big])

	_, err = s.uc.Update(s.ctx, c, big, 201)
	s.Equal(http.StatusBadRequest, cerr.StatusCode(err))
}

func (s *CartUseCaseTestSuite) TestMaxLineQuantity() {
	big := s.addPart("Spark Plug", "3.00", 200)
	uc, err := cartuc.New(
		s.db, memrp.Parts{}, memrp.Discounts{}, memrp.Orders{},
		memrp.Payments{}, memrp.Notifications{}, s.carts,
		cartuc.WithMaxLineQuantity(10),
	)
	s.Require().NoError(err)

	c, err := uc.Add(s.ctx, nil, big, 10)
	s.Require().NoError(err)
	c2, err := uc.Add(s.ctx, c, big, 1)
	s.Equal(http.StatusBadRequest, cerr.StatusCode(err))
	s.Equal(c, c2)

	_, err = uc.Update(s.ctx, c, big, 11)
	s.Equal(http.StatusBadRequest, cerr.StatusCode(err))
}

func (s *CartUseCaseTestSuite) TestAddOverflow() {
	c := model.Cart{s.part: 2}
	c2, err := s.uc.Add(s.ctx, c, s.part, math.MaxInt)
	s.Equal(http.StatusBadRequest, cerr.StatusCode(err))
	s.Equal(c, c2)
}

func (s *CartUseCaseTestSuite) TestAddAndUpdate() {
	c, err := s.uc.Add(s.ctx, nil, s.part, 2)
	s.Require().NoError(err)
	s.Equal(model.Cart{s.part: 2}, c)

	c2, err := s.uc.Add(s.ctx, c, s.part, 4)
	s.Equal(http.StatusBadRequest, cerr.StatusCode(err))
	s.Equal(c, c2, "rejected add must keep the cart")

	_, err = s.uc.Add(s.ctx, c, 9999, 1)
	s.True(cerr.IsNotFound(err))

	_, err = s.uc.Add(s.ctx, c, s.part, 0)
	s.Equal(http.StatusBadRequest, cerr.StatusCode(err))

	c, err = s.uc.Update(s.ctx, c, s.part, 5)
	s.Require().NoError(err)
	s.Equal(5, c[s.part])

	c, err = s.uc.Update(s.ctx, c, s.part, 0)
	s.Require().NoError(err)
	s.True(c.Empty())
}

func (s *CartUseCaseTestSuite) TestViewAndPersistence() {
	other := s.addPart("Wiper", "2.50", 10)
	c := model.Cart{s.part: 2, other: 3}
	v, err := s.uc.View(s.ctx, c)
	s.Require().NoError(err)
	s.Len(v.Lines, 2)
	s.True(decimal.RequireFromString("27.50").Equal(v.Total))

	s.Require().NoError(s.uc.Save(s.ctx, "sid-1", c))
	loaded, err := s.uc.Load(s.ctx, "sid-1")
	s.Require().NoError(err)
	s.Equal(c, loaded)
	loaded, err = s.uc.Load(s.ctx, "sid-2")
	s.Require().NoError(err)
	s.True(loaded.Empty(), "carts are per session")

	s.Require().NoError(s.uc.Clear(s.ctx, "sid-1"))
	loaded, err = s.uc.Load(s.ctx, "sid-1")
	s.Require().NoError(err)
	s.True(loaded.Empty())
}

func (s *CartUseCaseTestSuite) TestCheckoutWithoutDiscount() {
	o, err := s.uc.Checkout(s.ctx, s.client, model.Cart{s.part: 2}, model.CheckoutRequest{})
	s.Require().NoError(err)
	s.Equal("20", o.TotalPrice.String())
	s.True(o.DiscountAmount.IsZero())
	s.Equal(model.OrderUnpaid, o.PaymentStatus)
	s.Equal(model.DefaultPaymentMethod, o.PaymentMethod)
	s.Require().Len(o.Items, 1)
	s.Equal("10", o.Items[0].Price.String())
	s.Equal(3, s.stock(s.part))

	s.db.View(func(st *memrp.Store) {
		s.Require().Len(st.Payments, 1)
		for _, p := range st.Payments {
			s.Equal(model.PaymentTarget{Kind: model.TargetOrder, ID: o.ID}, p.Target)
			s.Equal(model.PaymentPending, p.Status)
			s.Equal("20", p.Amount.String())
		}
		s.Require().Len(st.Notifications, 1)
		for _, n := range st.Notifications {
			s.Equal(model.NotifyOrder, n.Type)
			s.Equal(model.AudienceOf(model.RoleAdmin), n.Audience)
		}
	})
}

func (s *CartUseCaseTestSuite) TestCheckoutWithPercentageDiscount() {
	s.addDiscount(model.Discount{
		Code: "SAVE10", Type: model.DiscountPercentage,
		Value: decimal.NewFromInt(10), Active: true,
	})
	o, err := s.uc.Checkout(s.ctx, s.client, model.Cart{s.part: 2}, model.CheckoutRequest{
		DiscountCode: " save10 ",
	})
	s.Require().NoError(err)
	s.Equal("2", o.DiscountAmount.String())
	s.Equal("18", o.TotalPrice.String())
	s.Equal("SAVE10", o.DiscountCode)
	s.db.View(func(st *memrp.Store) {
		for _, d := range st.Discounts {
			s.Equal(1, d.UsedCount)
		}
	})
}

func (s *CartUseCaseTestSuite) TestCheckoutBeyondStock() {
	c := model.Cart{s.part: 10}
	_, err := s.uc.Checkout(s.ctx, s.client, c, model.CheckoutRequest{})
	s.Equal(http.StatusBadRequest, cerr.StatusCode(err))
	var se *model.StockError
	s.Require().ErrorAs(err, &se)
	s.Equal(5, se.Available)
	s.Equal(5, s.stock(s.part))
	s.Zero(s.orderCount())
}

func (s *CartUseCaseTestSuite) TestCheckoutEmptyCart() {
	_, err := s.uc.Checkout(s.ctx, s.client, model.Cart{}, model.CheckoutRequest{})
	s.ErrorIs(err, model.ErrEmptyCart)
}

func (s *CartUseCaseTestSuite) TestCheckoutPartiallyInvalidCart() {
	gone := s.addPart("Gone", "1.00", 10)
	s.db.Update(func(st *memrp.Store) {
		p := st.Parts[gone]
		p.Active = false
		st.Parts[gone] = p
	})
	_, err := s.uc.Checkout(s.ctx, s.client, model.Cart{s.part: 1, gone: 1}, model.CheckoutRequest{})
	s.Equal(http.StatusBadRequest, cerr.StatusCode(err))
	s.Equal(5, s.stock(s.part), "valid lines must not be decremented")
	s.Zero(s.orderCount())
}

func (s *CartUseCaseTestSuite) TestCheckoutRejectsUnusableDiscounts() {
	yesterday := today.AddDate(0, 0, -1)
	one := 1
	s.addDiscount(model.Discount{
		Code: "OLD", Type: model.DiscountFixed,
		Value: decimal.NewFromInt(5), Active: true, Expiry: &yesterday,
	})
	s.addDiscount(model.Discount{
		Code: "ONCE", Type: model.DiscountFixed,
		Value: decimal.NewFromInt(5), Active: true,
		UsageLimit: &one, UsedCount: 1,
	})
	s.addDiscount(model.Discount{
		Code: "OFF", Type: model.DiscountFixed,
		Value: decimal.NewFromInt(5), Active: false,
	})
	for _, code := range []string{"OLD", "ONCE", "OFF", "NOPE"} {
		_, err := s.uc.Checkout(s.ctx, s.client, model.Cart{s.part: 1}, model.CheckoutRequest{
			DiscountCode: code,
		})
		s.ErrorIs(err, cartuc.ErrInvalidDiscount, code)
	}
	s.Equal(5, s.stock(s.part))
	s.Zero(s.orderCount())
}

func (s *CartUseCaseTestSuite) TestCheckoutRollsBackOnFailure() {
	s.addDiscount(model.Discount{
		Code: "SAVE10", Type: model.DiscountPercentage,
		Value: decimal.NewFromInt(10), Active: true,
	})
	s.db.FailOn("payments.Create", nil)
	_, err := s.uc.Checkout(s.ctx, s.client, model.Cart{s.part: 2}, model.CheckoutRequest{
		DiscountCode: "SAVE10",
	})
	s.ErrorIs(err, memrp.ErrInjected)
	s.Equal(5, s.stock(s.part))
	s.Zero(s.orderCount())
	s.db.View(func(st *memrp.Store) {
		for _, d := range st.Discounts {
			s.Zero(d.UsedCount)
		}
		s.Empty(st.Payments)
	})
}

// The in-memory store serializes transactions, so this only checks that
// the stock bookkeeping holds across concurrent callers. The conditional
// decrement itself is covered by the catalogrp and ordersrp SQL tests.
func (s *CartUseCaseTestSuite) TestConcurrentCheckoutsKeepStockConsistent() {
	const clients = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.uc.Checkout(s.ctx, s.client, model.Cart{s.part: 2}, model.CheckoutRequest{})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else {
				fail++
			}
		}()
	}
	wg.Wait()
	s.Equal(2, ok)
	s.Equal(clients-2, fail)
	s.Equal(1, s.stock(s.part))
}
