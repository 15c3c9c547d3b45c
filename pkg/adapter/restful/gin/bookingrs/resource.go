// Package bookingrs realizes the bookings resource: clients book the
// catalog services, and the staff members update the booking statuses
// and list them.
package bookingrs

import (
	"fmt"
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

// Register instantiates a resource adapting the booking use case with
// the relevant REST APIs including:
//  1. POST /book_service/:sid for the clients,
//  2. POST /api/update_booking_status for the staff members,
//  3. GET /admin/bookings for the administrators.
func Register(r gin.IRouter, app *appuc.UseCase) {
	rs := &resource{app: app}
	r.POST(
		"book_service/:sid",
		session.Require(model.CapBookService), rs.Book,
	)
	r.POST(
		"api/update_booking_status",
		session.Require(model.CapUpdateBooking), rs.UpdateStatus,
	)
	r.GET("admin/bookings", session.Require(model.CapAdminArea), rs.List)
}

func (rs *resource) Book(c *gin.Context) {
	req, ok := rs.DserBookReq(c)
	if !ok {
		return
	}
	b, err := rs.app.BookingUseCase().Book(c, session.Current(c), *req)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusCreated, gin.H{
		"message":  "Service booked successfully! Please complete payment.",
		"booking":  b,
		"redirect": fmt.Sprintf("/payment/booking/%d", b.ID),
	})
}

func (rs *resource) UpdateStatus(c *gin.Context) {
	req, ok := rs.DserStatusReq(c)
	if !ok {
		return
	}
	b, err := rs.app.BookingUseCase().UpdateStatus(c, session.Current(c), *req)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusOK, gin.H{
		"message": "Booking status updated",
		"booking": b,
	})
}

func (rs *resource) List(c *gin.Context) {
	res, err := rs.app.BookingUseCase().List(c, 0)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusOK, gin.H{
		"bookings":        res.Bookings,
		"service_persons": res.Staff,
	})
}
