// Package paymentrs realizes the payments resource, which shows the
// amount due for a booking or an order, creates the payment intents
// with the payment processor, and confirms the succeeded payments.
package paymentrs

import (
	"net/http"

	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/serdser"
	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/session"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/usecase/appuc"
	"github.com/gin-gonic/gin"
)

type resource struct {
	app *appuc.UseCase
}

// Register instantiates a resource adapting the payment use case with
// the relevant REST APIs including:
//  1. GET /payment/booking/:id and /payment/order/:id,
//  2. POST /create-payment-intent with the type and id of the target,
//  3. GET /payment/success which is the processor redirect target.
//
// The r router is expected to be guarded by the client capability.
func Register(r gin.IRouter, app *appuc.UseCase) {
	rs := &resource{app: app}
	r.GET("payment/booking/:id", rs.view(model.TargetBooking))
	r.GET("payment/order/:id", rs.view(model.TargetOrder))
	r.POST("create-payment-intent", rs.CreateIntent)
	r.GET("payment/success", rs.Success)
}

func (rs *resource) view(kind model.TargetKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := serdser.ParamID(c, "id")
		if !ok {
			return
		}
		t := model.PaymentTarget{Kind: kind, ID: id}
		v, err := rs.app.PaymentUseCase().View(c, session.Current(c), t)
		if err != nil {
			serdser.SerErr(c, err)
			return
		}
		serdser.OK(c, http.StatusOK, gin.H{"payment": v})
	}
}

func (rs *resource) CreateIntent(c *gin.Context) {
	t, ok := rs.DserTarget(c)
	if !ok {
		return
	}
	pi, err := rs.app.PaymentUseCase().CreateIntent(c, session.Current(c), *t)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusOK, gin.H{
		"clientSecret": pi.ClientSecret,
		"amount":       pi.Amount,
	})
}

func (rs *resource) Success(c *gin.Context) {
	req, ok := rs.DserSuccessReq(c)
	if !ok {
		return
	}
	err := rs.app.PaymentUseCase().Confirm(
		c, session.Current(c), req.intentID, req.target,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusOK, gin.H{
		"message":  "Payment successful! Thank you for your purchase.",
		"redirect": model.RoleClient.DashboardPath(),
	})
}
