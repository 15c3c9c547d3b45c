package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/futuremech/fmweb/pkg/adapter/config/settings"
	"github.com/futuremech/fmweb/pkg/adapter/restful/gin"
	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/metrics"
	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/ratelimit"
	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/session"
	"github.com/futuremech/fmweb/pkg/core/log"
)

// Gin contains the gin-gonic related configuration settings.
// Optional flags are pointers, so a missing key takes its default
// value instead of false.
type Gin struct {
	Address string `yaml:"address"`  // listening address, like :8080
	BaseURL string `yaml:"base-url"` // external URL, used in emails

	Logger   *bool `yaml:"logger"`   // whether to log each request
	Recovery *bool `yaml:"recovery"` // whether to recover from panics
	Metrics  *bool `yaml:"metrics"`  // whether to serve /metrics

	MetricsNamespace string `yaml:"metrics-namespace,omitempty"`

	// LoginRate is the number of credential submissions (login,
	// registration, and password reset) which are accepted per minute
	// from one client ip, after a burst of LoginBurst requests.
	LoginRate  *int `yaml:"login-rate"`
	LoginBurst *int `yaml:"login-burst"`

	ShutdownTimeout *settings.Duration `yaml:"shutdown-timeout"`
}

func (g *Gin) ValidateAndNormalize() error {
	if g.Address == "" {
		g.Address = ":8080"
	}
	if g.BaseURL == "" {
		g.BaseURL = "http://localhost:8080"
	}
	g.BaseURL = strings.TrimSuffix(g.BaseURL, "/")
	if u, err := url.Parse(g.BaseURL); err != nil || u.Host == "" {
		return fmt.Errorf("invalid base url: %q", g.BaseURL)
	}
	settings.Nil2Default(&g.Logger, true)
	settings.Nil2Default(&g.Recovery, true)
	settings.Nil2Default(&g.Metrics, true)
	if g.MetricsNamespace == "" {
		g.MetricsNamespace = "fmweb"
	}
	settings.Nil2Default(&g.LoginRate, 10)
	settings.Nil2Default(&g.LoginBurst, 5)
	settings.Nil2Default(&g.ShutdownTimeout, settings.Duration(10*time.Second))
	if err := settings.VerifyRange(&g.LoginRate, settings.Ptr(1), nil); err != nil {
		return fmt.Errorf("login-rate=%d: %w", *err.Value, err)
	}
	if err := settings.VerifyRange(&g.LoginBurst, settings.Ptr(1), nil); err != nil {
		return fmt.Errorf("login-burst=%d: %w", *err.Value, err)
	}
	return nil
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings. Multipart bodies keep at most maxMemory bytes in
// memory.
func (g Gin) NewEngine(maxMemory int64) *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 3)
	middlewares = append(middlewares, gin.RequestID())
	if *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	if *g.Logger {
		middlewares = append(middlewares, gin.Logger())
	}
	return gin.New(maxMemory, middlewares...)
}

// NewMetrics returns nil if the metrics are disabled.
func (g Gin) NewMetrics() *metrics.Metrics {
	if !*g.Metrics {
		return nil
	}
	return metrics.New(g.MetricsNamespace)
}

// NewLimiter creates the rate limiter of the credential accepting
// routes. Clients which were idle for ten minutes are forgotten by
// its Sweep method.
func (g Gin) NewLimiter() *ratelimit.Limiter {
	return ratelimit.New(*g.LoginRate, *g.LoginBurst, 10*time.Minute)
}

// Logging contains the structured logging settings.
type Logging struct {
	Level  string `yaml:"level"`  // debug, info, warn, or error
	Format string `yaml:"format"` // text or json
}

func (l *Logging) ValidateAndNormalize() error {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return fmt.Errorf("invalid level: %w", err)
	}
	switch strings.ToLower(l.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported format: %q", l.Format)
	}
	return nil
}

// Setup configures the default logger to write into w.
func (l Logging) Setup(w io.Writer) error {
	return log.Setup(w, l.Level, l.Format)
}

// Session contains the signed session cookie settings. The signing
// secret is taken from the FM_SECRET_KEY environment variable.
type Session struct {
	CookieName string             `yaml:"cookie-name"`
	Lifetime   *settings.Duration `yaml:"lifetime"`
	Secure     bool               `yaml:"secure"`

	Secret string `yaml:"-"`
}

func (s *Session) ValidateAndNormalize() error {
	if s.CookieName == "" {
		s.CookieName = "fm_session"
	}
	settings.Nil2Default(&s.Lifetime, settings.Duration(7*24*time.Hour))
	err := settings.VerifyRange(
		&s.Lifetime,
		settings.Ptr(settings.Duration(time.Minute)),
		settings.Ptr(settings.Duration(90*24*time.Hour)),
	)
	if err != nil {
		return fmt.Errorf("lifetime=%v: %w", err.Value, err)
	}
	if len(s.Secret) < 16 {
		return errors.New(EnvSecretKey + " must have at least 16 characters")
	}
	return nil
}

// NewManager creates the session cookies manager.
func (s Session) NewManager() (*session.Manager, error) {
	return session.New(session.Options{
		Secret:     []byte(s.Secret),
		CookieName: s.CookieName,
		Lifetime:   s.Lifetime.Std(),
		Secure:     s.Secure,
	})
}
