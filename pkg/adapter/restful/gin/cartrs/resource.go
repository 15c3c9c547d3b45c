// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cartrs realizes the shopping cart resource. The cart of each
// session is loaded from the cart use case, passed explicitly to its
// pure mutation operations, and saved back only after a successful
// mutation, so rejected requests leave the stored cart unchanged.
package cartrs

import (
	"fmt"
	"net/http"

	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/serdser"
	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/session"
	"github.com/futuremech/fmweb/pkg/core/log"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/usecase/appuc"
	"github.com/futuremech/fmweb/pkg/core/usecase/cartuc"
	"github.com/gin-gonic/gin"
)

type resource struct {
	app *appuc.UseCase
}

// Register instantiates a resource adapting the cart use case with
// the relevant REST APIs including:
//  1. POST /add_to_cart/:pid and /update_cart/:pid with a quantity,
//  2. GET /cart in order to view the priced cart,
//  3. POST /checkout with an optional discount code.
//
// The r router is expected to be guarded by the cart capability.
func Register(r gin.IRouter, app *appuc.UseCase) {
	rs := &resource{app: app}
	r.POST("add_to_cart/:pid", rs.Add)
	r.POST("update_cart/:pid", rs.Update)
	r.GET("cart", rs.View)
	r.POST("checkout", rs.Checkout)
}

type mutation func(
	uc *cartuc.UseCase, c *gin.Context, cart model.Cart, pid int64, qty int,
) (model.Cart, error)

func (rs *resource) mutate(c *gin.Context, f mutation, msg string) {
	pid, ok := serdser.ParamID(c, "pid")
	if !ok {
		return
	}
	req := &quantityReq{}
	if !serdser.Bind(c, req, nil) {
		return
	}
	s := session.Current(c)
	uc := rs.app.CartUseCase()
	cart, err := uc.Load(c, s.ID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	cart, err = f(uc, c, cart, pid, req.quantity())
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	if err = uc.Save(c, s.ID, cart); err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusOK, gin.H{
		"message":    msg,
		"cart_count": cartCount(cart),
	})
}

func (rs *resource) Add(c *gin.Context) {
	rs.mutate(c, func(
		uc *cartuc.UseCase, c *gin.Context, cart model.Cart, pid int64, qty int,
	) (model.Cart, error) {
		return uc.Add(c, cart, pid, qty)
	}, "Item added to cart!")
}

func (rs *resource) Update(c *gin.Context) {
	rs.mutate(c, func(
		uc *cartuc.UseCase, c *gin.Context, cart model.Cart, pid int64, qty int,
	) (model.Cart, error) {
		return uc.Update(c, cart, pid, qty)
	}, "Cart updated.")
}

func (rs *resource) View(c *gin.Context) {
	s := session.Current(c)
	uc := rs.app.CartUseCase()
	cart, err := uc.Load(c, s.ID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	v, err := uc.View(c, cart)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusOK, gin.H{"items": v.Lines, "total": v.Total})
}

func (rs *resource) Checkout(c *gin.Context) {
	req := &checkoutReq{}
	if !serdser.Bind(c, req, nil) {
		return
	}
	s := session.Current(c)
	uc := rs.app.CartUseCase()
	cart, err := uc.Load(c, s.ID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	o, err := uc.Checkout(c, s.UserID, cart, req.toModel())
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	if err = uc.Clear(c, s.ID); err != nil {
		log.Warn(
			c, "keeping cart of a checked out session",
			log.ID("order", o.ID), log.Err("err", err),
		)
	}
	serdser.OK(c, http.StatusCreated, gin.H{
		"message":  "Order placed successfully! Please complete payment.",
		"order":    o,
		"redirect": fmt.Sprintf("/payment/order/%d", o.ID),
	})
}
