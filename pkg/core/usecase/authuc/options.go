package authuc

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/futuremech/fmweb/pkg/core/identity"
)

// Option is a functional option for the authentication use case.
type Option func(uc *UseCase) error

// WithClock option configures the function which reports the current
// time for the last login timestamps.
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

// WithResetTokenTTL option configures how long a password reset link
// remains valid.
func WithResetTokenTTL(ttl time.Duration) Option {
	return func(uc *UseCase) error {
		if ttl < time.Minute {
			return fmt.Errorf("reset token ttl (%v) is too short", ttl)
		}
		if uc.resetTTL != 0 {
			return errors.New("reset token ttl is already configured")
		}
		uc.resetTTL = ttl
		return nil
	}
}

// WithIdentityProvider option enables the login with an external
// identity provider. Without it, LoginWithIdentity always fails.
func WithIdentityProvider(p identity.Provider) Option {
	return func(uc *UseCase) error {
		if p == nil {
			return errors.New("identity provider is nil")
		}
		if uc.idp != nil {
			return errors.New("identity provider is already configured")
		}
		uc.idp = p
		return nil
	}
}

// WithBaseURL option configures the absolute URL of the web site, so
// emailed links may point back to it.
func WithBaseURL(base string) Option {
	return func(uc *UseCase) error {
		u, err := url.Parse(base)
		if err != nil {
			return fmt.Errorf("parsing base url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
			return fmt.Errorf("base url %q is not absolute", base)
		}
		if uc.baseURL != nil {
			return errors.New("base url is already configured")
		}
		uc.baseURL = u
		return nil
	}
}
