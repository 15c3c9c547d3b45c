package cartrs

import "github.com/futuremech/fmweb/pkg/core/model"

type quantityReq struct {
	Quantity *int `form:"quantity" json:"quantity"`
}

// quantity defaults to one item.
func (r *quantityReq) quantity() int {
	if r.Quantity == nil {
		return 1
	}
	return *r.Quantity
}

type checkoutReq struct {
	DiscountCode  string `form:"discount_code" json:"discount_code" binding:"max=50"`
	PaymentMethod string `form:"payment_method" json:"payment_method" binding:"omitempty,oneof=card"`
}

func (r *checkoutReq) toModel() model.CheckoutRequest {
	return model.CheckoutRequest{
		DiscountCode:  r.DiscountCode,
		PaymentMethod: r.PaymentMethod,
	}
}

func cartCount(c model.Cart) int {
	n := 0
	for _, q := range c {
		n += q
	}
	return n
}
