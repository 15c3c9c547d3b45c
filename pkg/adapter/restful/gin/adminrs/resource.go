// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package adminrs realizes the administration resource: the users,
// orders, and discounts management, and the services and car parts
// CRUD operations (with their optional multipart image uploads).
package adminrs

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

// Register instantiates a resource adapting the admin and catalog use
// cases with the relevant REST APIs including:
//  1. GET /admin/users, /admin/orders, /admin/services,
//     /admin/car_parts, and /admin/discounts listings,
//  2. POST /admin/discounts and /api/update_user,
//  3. POST /api/add_service, /api/update_service,
//     /api/delete_service/:id, and their car part counterparts.
func Register(r gin.IRouter, app *appuc.UseCase) {
	rs := &resource{app: app}
	admin := session.Require(model.CapAdminArea)
	r.GET("admin/users", admin, rs.Users)
	r.GET("admin/orders", admin, rs.Orders)
	r.GET("admin/services", admin, rs.Services)
	r.GET("admin/car_parts", admin, rs.Parts)
	r.GET("admin/discounts", admin, rs.Discounts)

	r.POST(
		"admin/discounts",
		session.Require(model.CapManageDiscount), rs.CreateDiscount,
	)
	r.POST(
		"api/update_user",
		session.Require(model.CapManageUsers), rs.UpdateUser,
	)

	catalog := session.Require(model.CapManageCatalog)
	r.POST("api/add_service", catalog, rs.AddService)
	r.POST("api/update_service", catalog, rs.UpdateService)
	r.POST("api/delete_service/:id", catalog, rs.DeleteService)
	r.POST("api/add_car_part", catalog, rs.AddPart)
	r.POST("api/update_car_part", catalog, rs.UpdatePart)
	r.POST("api/delete_car_part/:id", catalog, rs.DeletePart)
}

func (rs *resource) Users(c *gin.Context) {
	uu, err := rs.app.AdminUseCase().Users(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusOK, gin.H{"users": uu})
}

func (rs *resource) Orders(c *gin.Context) {
	oo, err := rs.app.AdminUseCase().Orders(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusOK, gin.H{"orders": oo})
}

func (rs *resource) Services(c *gin.Context) {
	ss, err := rs.app.CatalogUseCase().AllServices(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusOK, gin.H{"services": ss})
}

func (rs *resource) Parts(c *gin.Context) {
	pp, err := rs.app.CatalogUseCase().AllParts(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusOK, gin.H{"car_parts": pp})
}

func (rs *resource) Discounts(c *gin.Context) {
	dd, err := rs.app.AdminUseCase().Discounts(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusOK, gin.H{"discounts": dd})
}

func (rs *resource) CreateDiscount(c *gin.Context) {
	d, ok := rs.DserDiscountReq(c)
	if !ok {
		return
	}
	created, err := rs.app.AdminUseCase().CreateDiscount(c, *d)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusCreated, gin.H{
		"message":  "Discount code created successfully!",
		"discount": created,
	})
}

func (rs *resource) UpdateUser(c *gin.Context) {
	req, ok := rs.DserUserReq(c)
	if !ok {
		return
	}
	u, err := rs.app.AdminUseCase().UpdateUserAccess(
		c, session.Current(c), req.id, req.role, req.active,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusOK, gin.H{"user": u})
}

func (rs *resource) AddService(c *gin.Context) {
	sv, img, ok := rs.DserServiceReq(c, false)
	if !ok {
		return
	}
	defer img.close(c)
	created, err := rs.app.CatalogUseCase().CreateService(c, *sv, img.upload)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusCreated, gin.H{
		"service_id": created.ID, "service": created,
	})
}

func (rs *resource) UpdateService(c *gin.Context) {
	sv, img, ok := rs.DserServiceReq(c, true)
	if !ok {
		return
	}
	defer img.close(c)
	updated, err := rs.app.CatalogUseCase().UpdateService(c, *sv, img.upload)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusOK, gin.H{"service": updated})
}

func (rs *resource) DeleteService(c *gin.Context) {
	id, ok := serdser.ParamID(c, "id")
	if !ok {
		return
	}
	if err := rs.app.CatalogUseCase().DeleteService(c, id); err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.Message(c, "Service deleted")
}

func (rs *resource) AddPart(c *gin.Context) {
	p, img, ok := rs.DserPartReq(c, false)
	if !ok {
		return
	}
	defer img.close(c)
	created, err := rs.app.CatalogUseCase().CreatePart(c, *p, img.upload)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusCreated, gin.H{
		"part_id": created.ID, "part": created,
	})
}

func (rs *resource) UpdatePart(c *gin.Context) {
	p, img, ok := rs.DserPartReq(c, true)
	if !ok {
		return
	}
	defer img.close(c)
	updated, err := rs.app.CatalogUseCase().UpdatePart(c, *p, img.upload)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusOK, gin.H{"part": updated})
}

func (rs *resource) DeletePart(c *gin.Context) {
	id, ok := serdser.ParamID(c, "id")
	if !ok {
		return
	}
	if err := rs.app.CatalogUseCase().DeletePart(c, id); err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.Message(c, "Car part deleted")
}
