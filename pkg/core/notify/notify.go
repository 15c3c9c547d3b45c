// Package notify exports the outgoing message interfaces, email and
// SMS, which the use cases call after their state changes. Sending is
// fire-and-forget from the use cases point of view: failures are
// logged and never fail the operation which caused the message.
package notify

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/futuremech/fmweb/pkg/core/log"
)

// Attachment is a file which is attached to an email.
type Attachment struct {
	Name string
	Data []byte
}

// Email is one outgoing HTML email.
type Email struct {
	To         string
	Subject    string
	HTML       string
	Attachment *Attachment
}

// Mailer delivers emails.
type Mailer interface {
	Send(ctx context.Context, e *Email) error
}

// SMS is one outgoing text message.
type SMS struct {
	To   string
	Body string
}

// SMSSender delivers text messages and returns the provider message id.
type SMSSender interface {
	SendSMS(ctx context.Context, m *SMS) (string, error)
}

const signature = "<p>Best regards,<br>The Future Mech Team</p>"

// Compose builds an HTML email with a heading and some paragraphs.
// The heading and paragraphs are escaped, so user provided values may
// be interpolated into them safely. Links are added with Link.
func Compose(to, subject, heading string, paragraphs ...string) *Email {
	var b strings.Builder
	b.WriteString("<h2>")
	b.WriteString(html.EscapeString(heading))
	b.WriteString("</h2>\n")
	for _, p := range paragraphs {
		if strings.HasPrefix(p, linkPrefix) {
			b.WriteString(strings.TrimPrefix(p, linkPrefix))
			b.WriteString("\n")
			continue
		}
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(p))
		b.WriteString("</p>\n")
	}
	b.WriteString(signature)
	return &Email{To: to, Subject: subject, HTML: b.String()}
}

const linkPrefix = "\x00link:"

// Link returns a paragraph for Compose which holds an anchor to href.
func Link(href, text string) string {
	return fmt.Sprintf(
		`%s<p><a href="%s">%s</a></p>`,
		linkPrefix, html.EscapeString(href), html.EscapeString(text),
	)
}

// Deliver sends e using m and logs a failure instead of returning it.
func Deliver(ctx context.Context, m Mailer, e *Email) {
	if err := m.Send(ctx, e); err != nil {
		log.Warn(
			ctx, "sending email failed",
			log.Email("to", e.To), slog.String("subject", e.Subject),
			log.Err("err", err),
		)
	}
}
