// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package session keeps the signed-in user in an HS256 signed JWT
// cookie and provides the role guard middleware. The session id which
// is carried by the token keys the server-side cart.
package session

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// LoginPath is where unauthenticated requests are redirected to.
	LoginPath = "/login"
	// HomePath is where requests with a wrong role are redirected to.
	HomePath = "/"

	contextKey = "fmweb.session"
)

// Options configures a Manager.
type Options struct {
	Secret     []byte
	CookieName string
	Lifetime   time.Duration
	Secure     bool
}

// Manager issues and verifies the session cookies.
type Manager struct {
	opts Options
	now  func() time.Time
}

type claims struct {
	jwt.RegisteredClaims
	UserID   int64      `json:"uid"`
	Username string     `json:"usr"`
	Email    string     `json:"eml"`
	Role     model.Role `json:"rol"`
}

// New validates o and creates a Manager.
func New(o Options) (*Manager, error) {
	switch {
	case len(o.Secret) < 16:
		return nil, errors.New("session secret must have at least 16 bytes")
	case o.CookieName == "":
		return nil, errors.New("session cookie name is empty")
	case o.Lifetime <= 0:
		return nil, errors.New("session lifetime must be positive")
	}
	return &Manager{opts: o, now: time.Now}, nil
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.NewString()
}

// Issue signs s and sets it as the session cookie. An empty s.ID is
// filled with a fresh session id.
func (m *Manager) Issue(c *gin.Context, s *model.Session) error {
	if s.ID == "" {
		s.ID = NewID()
	}
	now := m.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.opts.Lifetime)),
		},
		UserID:   s.UserID,
		Username: s.Username,
		Email:    s.Email,
		Role:     s.Role,
	})
	signed, err := t.SignedString(m.opts.Secret)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		m.opts.CookieName, signed, int(m.opts.Lifetime/time.Second),
		"/", "", m.opts.Secure, true,
	)
	c.Set(contextKey, s)
	return nil
}

// Clear expires the session cookie.
func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.opts.CookieName, "", -1, "/", "", m.opts.Secure, true)
	c.Set(contextKey, (*model.Session)(nil))
}

// Parse verifies a signed session token.
func (m *Manager) Parse(token string) (*model.Session, error) {
	var cl claims
	_, err := jwt.ParseWithClaims(
		token, &cl,
		func(*jwt.Token) (any, error) { return m.opts.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if cl.ID == "" || cl.UserID == 0 || cl.Role.Validate() != nil {
		return nil, errors.New("incomplete session claims")
	}
	return &model.Session{
		ID:       cl.ID,
		UserID:   cl.UserID,
		Username: cl.Username,
		Email:    cl.Email,
		Role:     cl.Role,
	}, nil
}

// Middleware loads the session of each request, if any. Invalid or
// expired cookies are ignored as if the user was not signed in.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok, err := c.Cookie(m.opts.CookieName); err == nil && tok != "" {
			if s, err := m.Parse(tok); err == nil {
				c.Set(contextKey, s)
			}
		}
		c.Next()
	}
}

// Current returns the session of c or nil for anonymous requests.
func Current(c *gin.Context) *model.Session {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	s, _ := v.(*model.Session)
	return s
}

// Require only passes the requests whose session role has capability
// cp. Anonymous requests are redirected to the login page (keeping
// the requested path as the next parameter) and signed-in users with
// a wrong role are redirected to the home page.
func Require(cp model.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := Current(c)
		switch {
		case s == nil:
			next := url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, LoginPath+"?next="+next)
			c.Abort()
		case !s.Role.Can(cp):
			c.Redirect(http.StatusFound, HomePath)
			c.Abort()
		default:
			c.Next()
		}
	}
}

// SafeNext returns next if it is a same-site relative path and an
// empty string otherwise.
func SafeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") ||
		strings.ContainsAny(next, "\\\r\n") {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	return next
}
