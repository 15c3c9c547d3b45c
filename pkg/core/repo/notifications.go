package repo

import (
	"context"
	"time"

	"github.com/futuremech/fmweb/pkg/core/model"
)

// NotificationsQueryer manages the role-targeted notifications and the
// per-user read markers.
type NotificationsQueryer interface {
	Create(ctx context.Context, n *model.Notification) (
		*model.Notification, error,
	)

	// Unread lists the notifications of the r role or of all roles
	// which userID has not marked as read, newest first.
	Unread(ctx context.Context, r model.Role, userID int64, limit int) (
		[]model.Notification, error,
	)

	// MarkRead records that userID has read the notification. Marking
	// a notification twice is not an error.
	MarkRead(ctx context.Context, userID, notificationID int64, at time.Time) error
}

type Notifications interface {
	Conn(Conn) NotificationsQueryer
	Tx(Tx) NotificationsQueryer
}

// ContactsQueryer stores the contact form submissions.
type ContactsQueryer interface {
	Create(ctx context.Context, c *model.ContactSubmission) (
		*model.ContactSubmission, error,
	)
}

type Contacts interface {
	Conn(Conn) ContactsQueryer
	Tx(Tx) ContactsQueryer
}
