// Package smtp delivers the transactional emails through an SMTP
// server using the gopkg.in/mail.v2 library.
package smtp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/futuremech/fmweb/pkg/core/notify"
	"gopkg.in/mail.v2"
)

// Options configures the SMTP server connection and the sender.
type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // e.g., "Future Mech <noreply@futuremech.com>"
	StartTLS bool   // require STARTTLS instead of using it if offered
	Timeout  time.Duration
}

// Mailer implements notify.Mailer. Each email is sent on a fresh
// connection, so a Mailer may be shared between goroutines.
type Mailer struct {
	d    *mail.Dialer
	from string
}

func New(opts Options) (*Mailer, error) {
	if opts.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if opts.From == "" {
		return nil, errors.New("sender address is required")
	}
	d := mail.NewDialer(opts.Host, opts.Port, opts.Username, opts.Password)
	if opts.StartTLS {
		d.StartTLSPolicy = mail.MandatoryStartTLS
	}
	if opts.Timeout > 0 {
		d.Timeout = opts.Timeout
	}
	return &Mailer{d: d, from: opts.From}, nil
}

// Message converts e to a MIME message with an HTML body.
func (m *Mailer) Message(e *notify.Email) *mail.Message {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", e.To)
	msg.SetHeader("Subject", e.Subject)
	msg.SetBody("text/html", e.HTML)
	if a := e.Attachment; a != nil {
		msg.AttachReader(a.Name, bytes.NewReader(a.Data))
	}
	return msg
}

// Send dials the server and sends e. The dialer does not accept a
// context, so ctx is only checked before dialing.
func (m *Mailer) Send(ctx context.Context, e *notify.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.d.DialAndSend(m.Message(e)); err != nil {
		return fmt.Errorf("sending %q: %w", e.Subject, err)
	}
	return nil
}
