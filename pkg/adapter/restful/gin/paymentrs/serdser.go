package paymentrs

import (
	"net/http"

	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/serdser"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/gin-gonic/gin"
)

type rawTarget struct {
	Type string `form:"type" json:"type" binding:"required,oneof=booking order"`
	ID   int64  `form:"id" json:"id" binding:"required,gt=0"`
}

func (r *rawTarget) toModel() (*model.PaymentTarget, error) {
	k, err := model.ParseTargetKind(r.Type)
	if err != nil {
		return nil, err
	}
	return &model.PaymentTarget{Kind: k, ID: r.ID}, nil
}

// DserTarget binds the payment target. The amount is never taken from
// the request since it is computed from the target by the use case.
func (rs *resource) DserTarget(c *gin.Context) (*model.PaymentTarget, bool) {
	req := &rawTarget{}
	if !serdser.Bind(c, req, nil) {
		return nil, false
	}
	t, err := req.toModel()
	if err != nil {
		serdser.Fail(c, http.StatusBadRequest, err.Error(), nil)
		return nil, false
	}
	return t, true
}

type rawSuccessReq struct {
	PaymentIntent string `form:"payment_intent" binding:"required,max=255"`
	rawTarget
}

type successReq struct {
	intentID string
	target   model.PaymentTarget
}

func (rs *resource) DserSuccessReq(c *gin.Context) (*successReq, bool) {
	req := &rawSuccessReq{}
	if !serdser.Bind(c, req, nil) {
		return nil, false
	}
	t, err := req.toModel()
	if err != nil {
		serdser.Fail(c, http.StatusBadRequest, err.Error(), nil)
		return nil, false
	}
	return &successReq{intentID: req.PaymentIntent, target: *t}, true
}
