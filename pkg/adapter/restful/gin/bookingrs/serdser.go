package bookingrs

import (
	"net/http"
	"strings"
	"time"

	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/serdser"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/gin-gonic/gin"
)

// dateLayouts are the accepted scheduled date formats, the first one
// being the format of the HTML datetime-local inputs.
var dateLayouts = []string{
	"2006-01-02T15:04",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, l := range dateLayouts {
		if t, err := time.ParseInLocation(l, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type rawBookReq struct {
	VehicleID     int64  `form:"vehicle_id" json:"vehicle_id" binding:"required,gt=0"`
	ScheduledDate string `form:"scheduled_date" json:"scheduled_date" binding:"required"`
	Notes         string `form:"notes" json:"notes" binding:"max=2000"`
}

func (rs *resource) DserBookReq(c *gin.Context) (*model.BookingRequest, bool) {
	sid, ok := serdser.ParamID(c, "sid")
	if !ok {
		return nil, false
	}
	req := &rawBookReq{}
	if !serdser.Bind(c, req, nil) {
		return nil, false
	}
	at, ok := parseDate(req.ScheduledDate)
	if !ok {
		serdser.Fail(c, http.StatusBadRequest, "invalid request", map[string][]string{
			"ScheduledDate": {"The scheduled_date is not a valid date."},
		})
		return nil, false
	}
	return &model.BookingRequest{
		ServiceID:     sid,
		VehicleID:     req.VehicleID,
		ScheduledDate: at,
		Notes:         strings.TrimSpace(req.Notes),
	}, true
}

type rawStatusReq struct {
	BookingID  int64  `form:"booking_id" json:"booking_id" binding:"required,gt=0"`
	Status     string `form:"status" json:"status" binding:"required,oneof=pending confirmed in_progress completed cancelled"`
	AssignedTo *int64 `form:"assigned_to" json:"assigned_to" binding:"omitempty,gt=0"`
}

func (rs *resource) DserStatusReq(c *gin.Context) (*model.StatusUpdate, bool) {
	req := &rawStatusReq{}
	if !serdser.Bind(c, req, nil) {
		return nil, false
	}
	st, err := model.ParseBookingStatus(req.Status)
	if err != nil {
		serdser.Fail(c, http.StatusBadRequest, err.Error(), nil)
		return nil, false
	}
	return &model.StatusUpdate{
		BookingID: req.BookingID,
		Status:    st,
		AssignTo:  req.AssignedTo,
	}, true
}
