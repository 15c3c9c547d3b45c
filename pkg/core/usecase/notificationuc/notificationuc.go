// Package notificationuc contains the in-app notification use cases
// and the public contact form, whose submissions are announced to the
// admins as notifications.
package notificationuc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/log"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/notify"
	"github.com/futuremech/fmweb/pkg/core/repo"
)

// UseCase represents the notification and contact use cases.
type UseCase struct {
	pool          repo.Pool
	notifications repo.Notifications
	contacts      repo.Contacts
	mailer        notify.Mailer

	now          func() time.Time
	unreadLimit  int
	adminMailbox string
}

// Option is a functional option for the notification use case.
type Option func(uc *UseCase) error

// WithClock option configures the function which reports the current
// time for the read markers.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		if uc.now != nil {
			return errors.New("clock is already configured")
		}
		uc.now = now
		return nil
	}
}

// WithUnreadLimit option configures the maximum number of unread
// notifications which are returned at once.
func WithUnreadLimit(n int) Option {
	return func(uc *UseCase) error {
		if n <= 0 {
			return fmt.Errorf("unread limit (%d) is not positive", n)
		}
		if uc.unreadLimit != 0 {
			return errors.New("unread limit is already configured")
		}
		uc.unreadLimit = n
		return nil
	}
}

// WithAdminMailbox option configures the email address which receives
// the contact form submissions. Without it, no email is sent for them.
func WithAdminMailbox(addr string) Option {
	return func(uc *UseCase) error {
		if !strings.Contains(addr, "@") {
			return fmt.Errorf("invalid admin mailbox: %q", addr)
		}
		if uc.adminMailbox != "" {
			return errors.New("admin mailbox is already configured")
		}
		uc.adminMailbox = addr
		return nil
	}
}

// New instantiates a notification use case.
func New(
	p repo.Pool,
	notifications repo.Notifications,
	contacts repo.Contacts,
	mailer notify.Mailer,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:          p,
		notifications: notifications,
		contacts:      contacts,
		mailer:        mailer,
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	if uc.unreadLimit == 0 {
		uc.unreadLimit = 10
	}
	return uc, nil
}

// Unread lists the newest notifications of the s user role (or all
// roles) which s has not marked as read yet.
func (uc *UseCase) Unread(ctx context.Context, s *model.Session) (
	nn []model.Notification, err error,
) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		nn, err = uc.notifications.Conn(c).Unread(
			ctx, s.Role, s.UserID, uc.unreadLimit,
		)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing unread notifications: %w", err)
	}
	return nn, nil
}

// MarkRead records that s has read the id notification.
func (uc *UseCase) MarkRead(ctx context.Context, s *model.Session, id int64) error {
	if id <= 0 {
		return cerr.BadRequestf("invalid notification id: %d", id)
	}
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return uc.notifications.Conn(c).MarkRead(ctx, s.UserID, id, uc.now())
	})
	if err != nil {
		return fmt.Errorf("marking notification %d as read: %w", id, err)
	}
	return nil
}

// Post creates a notification for the a audience.
func (uc *UseCase) Post(
	ctx context.Context, a model.Audience, t model.NotificationType, msg string,
) (n *model.Notification, err error) {
	if strings.TrimSpace(msg) == "" {
		return nil, cerr.BadRequestf("message is required")
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		n, err = uc.notifications.Conn(c).Create(ctx, &model.Notification{
			Audience: a, Type: t, Message: msg,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating notification: %w", err)
	}
	return n, nil
}

// Contact stores a contact form submission, notifies the admins, and
// forwards it to the admin mailbox.
func (uc *UseCase) Contact(
	ctx context.Context, sub model.ContactSubmission,
) (*model.ContactSubmission, error) {
	sub.Name = strings.TrimSpace(sub.Name)
	sub.Email = strings.TrimSpace(sub.Email)
	sub.Message = strings.TrimSpace(sub.Message)
	if sub.Name == "" || sub.Email == "" || sub.Message == "" {
		return nil, cerr.BadRequestf("please fill in all fields")
	}
	var saved *model.ContactSubmission
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		saved, err = uc.contacts.Conn(c).Create(ctx, &sub)
		if err != nil {
			return err
		}
		id := saved.ID
		_, err = uc.notifications.Conn(c).Create(ctx, &model.Notification{
			Audience:  model.AudienceOf(model.RoleAdmin),
			Type:      model.NotifyContact,
			Message:   fmt.Sprintf("New message from %s: %s", sub.Name, subjectOf(&sub)),
			RelatedID: &id,
		})
		if err != nil {
			log.Warn(ctx, "contact notification failed", log.Err("err", err))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("saving contact submission: %w", err)
	}
	log.Info(ctx, "contact submission received", log.ID("contact", saved.ID))
	if uc.adminMailbox != "" {
		notify.Deliver(ctx, uc.mailer, notify.Compose(
			uc.adminMailbox, "New Contact Form Submission - Future Mech",
			"New Contact Form Submission",
			"Name: "+sub.Name,
			"Email: "+sub.Email,
			"Message:",
			sub.Message,
		))
	}
	return saved, nil
}

func subjectOf(sub *model.ContactSubmission) string {
	if s := strings.TrimSpace(sub.Subject); s != "" {
		return s
	}
	const maxLen = 50
	if r := []rune(sub.Message); len(r) > maxLen {
		return string(r[:maxLen]) + "..."
	}
	return sub.Message
}
