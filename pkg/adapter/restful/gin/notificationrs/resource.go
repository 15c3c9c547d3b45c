// Package notificationrs realizes the notifications resource, which
// lists the unread notifications of the signed-in user and marks them
// as read.
package notificationrs

import (
	"net/http"
	"time"

	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/serdser"
	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/session"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/usecase/appuc"
	"github.com/gin-gonic/gin"
)

type resource struct {
	app *appuc.UseCase
}

// Register instantiates a resource adapting the notification use case
// with GET /api/check_notifications and POST /api/mark_notification_read.
// The r router is expected to require an authenticated session.
func Register(r gin.IRouter, app *appuc.UseCase) {
	rs := &resource{app: app}
	r.GET("api/check_notifications", rs.Unread)
	r.POST("api/mark_notification_read", rs.MarkRead)
}

type notificationView struct {
	ID        int64                  `json:"id"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Type      model.NotificationType `json:"type"`
	RelatedID *int64                 `json:"related_id,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

func (rs *resource) Unread(c *gin.Context) {
	nn, err := rs.app.NotificationUseCase().Unread(c, session.Current(c))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	vv := make([]notificationView, 0, len(nn))
	for _, n := range nn {
		vv = append(vv, notificationView{
			ID:        n.ID,
			Title:     n.Title(),
			Message:   n.Message,
			Type:      n.Type,
			RelatedID: n.RelatedID,
			CreatedAt: n.CreatedAt,
		})
	}
	serdser.OK(c, http.StatusOK, gin.H{
		"notifications": vv,
		"count":         len(vv),
	})
}

type markReadReq struct {
	NotificationID int64 `form:"notification_id" json:"notification_id" binding:"required,gt=0"`
}

func (rs *resource) MarkRead(c *gin.Context) {
	req := &markReadReq{}
	if !serdser.Bind(c, req, nil) {
		return
	}
	err := rs.app.NotificationUseCase().MarkRead(
		c, session.Current(c), req.NotificationID,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusOK, nil)
}
