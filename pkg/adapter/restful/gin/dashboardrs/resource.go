// Package dashboardrs realizes the dashboards of the clients, the
// service staff, and the administrators.
package dashboardrs

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

// Register instantiates a resource adapting the dashboard use case
// with GET /dashboard, /dashboard/service, and /dashboard/admin. The
// /dashboard route redirects the staff members to their own pages.
func Register(r gin.IRouter, app *appuc.UseCase) {
	rs := &resource{app: app}
	r.GET("dashboard", session.Require(model.CapAuthenticated), rs.Client)
	r.GET(
		"dashboard/service",
		session.Require(model.CapServiceArea), rs.Staff,
	)
	r.GET("dashboard/admin", session.Require(model.CapAdminArea), rs.Admin)
}

func (rs *resource) Client(c *gin.Context) {
	s := session.Current(c)
	if !s.Role.Can(model.CapClientArea) {
		c.Redirect(http.StatusFound, s.Role.DashboardPath())
		return
	}
	d, err := rs.app.DashboardUseCase().Client(c, s.UserID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	vv, err := rs.app.VehicleUseCase().List(c, s.UserID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusOK, gin.H{
		"bookings": d.Bookings,
		"orders":   d.Orders,
		"vehicles": vv,
	})
}

func (rs *resource) Staff(c *gin.Context) {
	d, err := rs.app.DashboardUseCase().Staff(c, session.Current(c).UserID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusOK, gin.H{
		"assigned_bookings": d.Assigned,
		"today_bookings":    d.TodayCount,
	})
}

func (rs *resource) Admin(c *gin.Context) {
	st, err := rs.app.DashboardUseCase().Admin(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusOK, gin.H{"stats": st})
}
