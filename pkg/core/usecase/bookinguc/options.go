package bookinguc

import (
	"errors"
	"time"

	"github.com/futuremech/fmweb/pkg/core/notify"
)

// Option is a functional option for the booking use case.
type Option func(uc *UseCase) error

// WithClock option configures the function which reports the current
// time for the completion timestamps and the reminders day.
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

// WithSMS option enables the text message reminders. Without it,
// SendReminders does nothing.
func WithSMS(s notify.SMSSender) Option {
	return func(uc *UseCase) error {
		if s == nil {
			return errors.New("sms sender is nil")
		}
		if uc.sms != nil {
			return errors.New("sms sender is already configured")
		}
		uc.sms = s
		return nil
	}
}

// WithFreeTransitions option lets service staff set any status of a
// booking, like admins. By default, service staff must follow the
// booking workflow.
func WithFreeTransitions() Option {
	return func(uc *UseCase) error {
		if uc.freeTransitions {
			return errors.New("free transitions are already configured")
		}
		uc.freeTransitions = true
		return nil
	}
}
