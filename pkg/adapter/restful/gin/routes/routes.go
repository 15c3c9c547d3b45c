// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// their registration on a gin engine, wiring the cross-cutting
// middlewares (session parsing, metrics, and rate limiting) and the
// role guards of each group of routes.
package routes

import (
	"net/http"

	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/adminrs"
	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/authrs"
	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/bookingrs"
	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/cartrs"
	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/catalogrs"
	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/dashboardrs"
	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/metrics"
	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/notificationrs"
	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/paymentrs"
	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/ratelimit"
	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/reportrs"
	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/serdser"
	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/session"
	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/vehiclers"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/storage"
	"github.com/futuremech/fmweb/pkg/core/usecase/appuc"
	"github.com/gin-gonic/gin"
)

// UploadsPrefix is the URL path prefix of the publicly served images.
const UploadsPrefix = "/static/uploads"

// Options holds the collaborators of Register. Only the Sessions
// manager is mandatory.
type Options struct {
	Sessions      *session.Manager
	SecureCookies bool

	// Limiter throttles the credential accepting routes if non-nil.
	Limiter *ratelimit.Limiter

	// Metrics instruments all routes and serves them if non-nil.
	Metrics *metrics.Metrics

	// UploadsDir maps a bucket name to the directory which keeps its
	// files. Each bucket is served below UploadsPrefix.
	UploadsDir func(bucket string) string
}

// Register adds all resources of the application to the e engine.
// Each resource fetches its use case objects from app during each
// request, so a later app.Reload is visible without registering the
// routes again. The anonymous visitors may browse the catalog and
// sign in, while other routes are grouped by the capability which
// their callers must hold.
func Register(e *gin.Engine, app *appuc.UseCase, o Options) {
	if o.Metrics != nil {
		o.Metrics.Register(e)
	}
	e.Use(o.Sessions.Middleware())
	if o.UploadsDir != nil {
		for _, b := range []string{storage.BucketServices, storage.BucketParts} {
			e.Static(UploadsPrefix+"/"+b, o.UploadsDir(b))
		}
	}
	e.NoRoute(func(c *gin.Context) {
		serdser.Fail(c, http.StatusNotFound, "page not found", nil)
	})

	r := e.Group("/")
	var throttle []gin.HandlerFunc
	if o.Limiter != nil {
		throttle = append(throttle, o.Limiter.Middleware())
	}
	catalogrs.Register(r, app)
	authrs.Register(r, app, o.Sessions, o.SecureCookies, throttle...)
	dashboardrs.Register(r, app)
	bookingrs.Register(r, app)
	reportrs.Register(r, app)
	adminrs.Register(r, app)

	signedIn := r.Group("", session.Require(model.CapAuthenticated))
	notificationrs.Register(signedIn, app)

	cart := r.Group("", session.Require(model.CapManageCart))
	cartrs.Register(cart, app)

	client := r.Group("", session.Require(model.CapClientArea))
	vehiclers.Register(client, app)
	paymentrs.Register(client, app)
}
