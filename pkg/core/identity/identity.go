// Package identity exports the third-party identity provider
// interface which is used for the "login with Google" flow.
package identity

import (
	"context"

	"github.com/futuremech/fmweb/pkg/core/model"
)

// Provider implements the authorization code flow.
type Provider interface {
	// AuthCodeURL returns the provider consent page URL which
	// redirects back with the given state.
	AuthCodeURL(state string) string

	// Exchange trades the authorization code for a verified identity.
	Exchange(ctx context.Context, code string) (*model.ExternalIdentity, error)
}
