// Package oidc implements the identity.Provider interface using an
// OpenID Connect provider such as Google.
package oidc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/futuremech/fmweb/pkg/core/model"
	"golang.org/x/oauth2"
)

// GoogleIssuer is the issuer URL of the Google accounts.
const GoogleIssuer = "https://accounts.google.com"

// Options configures the OAuth client.
type Options struct {
	Issuer       string // defaults to GoogleIssuer
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Provider runs the authorization code flow and verifies the returned
// ID token.
type Provider struct {
	conf     oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// New discovers the issuer endpoints, so it needs network access.
func New(ctx context.Context, opts Options) (*Provider, error) {
	if opts.ClientID == "" || opts.ClientSecret == "" {
		return nil, errors.New("oauth client id and secret are required")
	}
	if opts.Issuer == "" {
		opts.Issuer = GoogleIssuer
	}
	op, err := oidc.NewProvider(ctx, opts.Issuer)
	if err != nil {
		return nil, fmt.Errorf("discovering %q: %w", opts.Issuer, err)
	}
	return &Provider{
		conf: oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			RedirectURL:  opts.RedirectURL,
			Endpoint:     op.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
		verifier: op.Verifier(&oidc.Config{ClientID: opts.ClientID}),
	}, nil
}

func (p *Provider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state)
}

type claims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Exchange trades code for a token and verifies its ID token. The
// email address must be present and verified by the provider.
func (p *Provider) Exchange(ctx context.Context, code string) (*model.ExternalIdentity, error) {
	tok, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging code: %w", err)
	}
	raw, ok := tok.Extra("id_token").(string)
	if !ok || raw == "" {
		return nil, errors.New("token response has no id_token")
	}
	idt, err := p.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("verifying id_token: %w", err)
	}
	var c claims
	if err := idt.Claims(&c); err != nil {
		return nil, fmt.Errorf("decoding claims: %w", err)
	}
	if c.Email == "" || !c.EmailVerified {
		return nil, errors.New("identity has no verified email")
	}
	return &model.ExternalIdentity{
		Subject: idt.Subject,
		Email:   strings.ToLower(c.Email),
		Name:    c.Name,
		Picture: c.Picture,
	}, nil
}
