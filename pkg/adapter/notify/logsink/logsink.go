// Package logsink provides the notify.Mailer and notify.SMSSender
// implementations which only log the outgoing messages. They are used
// in development, when no SMTP server or SMS account is configured.
package logsink

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/futuremech/fmweb/pkg/core/log"
	"github.com/futuremech/fmweb/pkg/core/notify"
	"github.com/google/uuid"
)

type Mailer struct {
	sent atomic.Int64
}

func (m *Mailer) Send(ctx context.Context, e *notify.Email) error {
	attrs := []slog.Attr{
		log.Email("to", e.To),
		slog.String("subject", e.Subject),
		slog.Int("html_len", len(e.HTML)),
	}
	if a := e.Attachment; a != nil {
		attrs = append(attrs,
			slog.String("attachment", a.Name),
			slog.Int("attachment_len", len(a.Data)),
		)
	}
	log.Info(ctx, "email is not delivered (log sink)", attrs...)
	m.sent.Add(1)
	return nil
}

// Sent returns the number of logged emails.
func (m *Mailer) Sent() int64 {
	return m.sent.Load()
}

type SMS struct {
}

// SendSMS logs m and returns a random message id.
func (SMS) SendSMS(ctx context.Context, m *notify.SMS) (string, error) {
	id := "log-" + uuid.NewString()
	log.Info(
		ctx, "sms is not delivered (log sink)",
		slog.String("sid", id), slog.Int("body_len", len(m.Body)),
	)
	return id, nil
}
