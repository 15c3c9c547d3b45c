// Package twilio sends the SMS reminders through the Twilio REST API.
package twilio

import (
	"context"
	"errors"
	"fmt"

	"github.com/futuremech/fmweb/pkg/core/notify"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Options holds the Twilio account credentials and the sender number.
type Options struct {
	AccountSID string
	AuthToken  string
	From       string
}

// messenger is the subset of the Twilio API service which is used
// for sending messages.
type messenger interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (
		*twilioApi.ApiV2010Message, error,
	)
}

// Sender implements notify.SMSSender.
type Sender struct {
	api  messenger
	from string
}

func New(opts Options) (*Sender, error) {
	switch {
	case opts.AccountSID == "" || opts.AuthToken == "":
		return nil, errors.New("twilio account sid and auth token are required")
	case opts.From == "":
		return nil, errors.New("twilio sender number is required")
	}
	c := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: opts.AccountSID,
		Password: opts.AuthToken,
	})
	return &Sender{api: c.Api, from: opts.From}, nil
}

// SendSMS sends m and returns the Twilio message sid. The REST client
// does not accept a context, so ctx is only checked before sending.
func (s *Sender) SendSMS(ctx context.Context, m *notify.SMS) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(m.To)
	params.SetFrom(s.from)
	params.SetBody(m.Body)
	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio CreateMessage: %w", err)
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}
