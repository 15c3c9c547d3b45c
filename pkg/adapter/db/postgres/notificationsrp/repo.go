// Package notificationsrp implements the repo.Notifications and the
// repo.Contacts repositories.
package notificationsrp

import (
	"context"
	"fmt"
	"time"

	"github.com/futuremech/fmweb/pkg/adapter/db/postgres"
	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/repo"
	"gorm.io/gorm/clause"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type queryer[Q postgres.Queryer] struct {
	q Q
}

func (notifications *Repo) Conn(c repo.Conn) repo.NotificationsQueryer {
	return queryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

func (notifications *Repo) Tx(tx repo.Tx) repo.NotificationsQueryer {
	return queryer[*postgres.Tx]{q: tx.(*postgres.Tx)}
}

func (nq queryer[Q]) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	return Create(ctx, nq.q, n)
}

func (nq queryer[Q]) Unread(ctx context.Context, r model.Role, userID int64, limit int) ([]model.Notification, error) {
	return Unread(ctx, nq.q, r, userID, limit)
}

func (nq queryer[Q]) MarkRead(ctx context.Context, userID, notificationID int64, at time.Time) error {
	return MarkRead(ctx, nq.q, userID, notificationID, at)
}

type gNotification struct {
	ID        int64 `gorm:"primaryKey"`
	Role      string
	Message   string
	Type      string
	RelatedID *int64
	CreatedAt time.Time
}

func (gn *gNotification) TableName() string {
	return "notifications"
}

func (gn *gNotification) Model() *model.Notification {
	return &model.Notification{
		ID:        gn.ID,
		Audience:  model.Audience(gn.Role),
		Message:   gn.Message,
		Type:      model.NotificationType(gn.Type),
		RelatedID: gn.RelatedID,
		CreatedAt: gn.CreatedAt,
	}
}

type gRead struct {
	UserID         int64 `gorm:"primaryKey"`
	NotificationID int64 `gorm:"primaryKey"`
	ReadAt         time.Time
}

func (gr *gRead) TableName() string {
	return "notification_reads"
}

func Create[Q postgres.Queryer](ctx context.Context, q Q, n *model.Notification) (*model.Notification, error) {
	gn := &gNotification{
		Role:      string(n.Audience),
		Message:   n.Message,
		Type:      string(n.Type),
		RelatedID: n.RelatedID,
	}
	if err := q.GORM(ctx).Create(gn).Error; err != nil {
		return nil, postgres.Classify(err, "notification")
	}
	return gn.Model(), nil
}

func Unread[Q postgres.Queryer](ctx context.Context, q Q, r model.Role, userID int64, limit int) ([]model.Notification, error) {
	gdb := q.GORM(ctx).Where(
		"role IN ?", []string{
			string(model.AudienceOf(r)), string(model.AudienceAll),
		},
	).Where(`NOT EXISTS (SELECT 1 FROM notification_reads AS nr
	WHERE nr.notification_id = notifications.id AND nr.user_id = ?)`, userID,
	).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		gdb = gdb.Limit(limit)
	}
	var gg []gNotification
	if err := gdb.Find(&gg).Error; err != nil {
		return nil, fmt.Errorf("listing unread notifications: %w", err)
	}
	nn := make([]model.Notification, 0, len(gg))
	for i := range gg {
		nn = append(nn, *gg[i].Model())
	}
	return nn, nil
}

// MarkRead keeps the first read time if the notification was marked
// as read before.
func MarkRead[Q postgres.Queryer](ctx context.Context, q Q, userID, nid int64, at time.Time) error {
	gr := &gRead{UserID: userID, NotificationID: nid, ReadAt: at}
	err := q.GORM(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(gr).Error
	switch {
	case postgres.IsForeignKeyViolation(err):
		return cerr.NotFoundf("notification %d not found", nid)
	case err != nil:
		return fmt.Errorf("marking notification %d as read: %w", nid, err)
	}
	return nil
}
