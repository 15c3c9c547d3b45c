// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the fmweb to instantiate different
// components, from the adapter or use cases layers, using those loaded
// configuration settings.
// The parsed and validated configurations are passed to their ultimate
// components as a series of individual params (for the mandatory
// items) and a series of functional options (for the optional items),
// so they may be validated again by the relevant end-component such
// as a UseCase instance.
//
// Secrets are not read from the configuration file. They are taken
// from the environment variables (see the Env* constants) which may be
// kept in a .env file during the development.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Names of the environment variables which carry the secrets or
// override the configuration file.
const (
	EnvConfigFile           = "CONFIG_FILE"
	EnvDatabaseURL          = "FM_DATABASE_URL"
	EnvSecretKey            = "FM_SECRET_KEY"
	EnvRedisPassword        = "FM_REDIS_PASSWORD"
	EnvMailPassword         = "FM_MAIL_PASSWORD"
	EnvStripeSecretKey      = "FM_STRIPE_SECRET_KEY"
	EnvStripePublishableKey = "FM_STRIPE_PUBLISHABLE_KEY"
	EnvGoogleClientSecret   = "FM_GOOGLE_CLIENT_SECRET"
	EnvTwilioAuthToken      = "FM_TWILIO_AUTH_TOKEN"
)

// DefaultPath is used when neither the --config flag nor the
// CONFIG_FILE environment variable is given.
const DefaultPath = "configs/sample-config.yaml"

// Config contains all settings which are required by different parts
// of the project, such as adapters or use cases. It is preferred to
// implement Config with primitive fields or other structs which are
// defined locally, not models or structs which are defined in lower
// layers, so the configuration can be kept intact while other layers
// can change freely.
type Config struct {
	Passwords Passwords `yaml:"passwords"`
	Database  Database  `yaml:"database"`
	Gin       Gin       `yaml:"gin"`
	Logging   Logging   `yaml:"logging"`
	Redis     Redis     `yaml:"redis"`
	Session   Session   `yaml:"session"`
	Mail      Mail      `yaml:"mail"`
	SMS       SMS       `yaml:"sms"`
	Payments  Payments  `yaml:"payments"`
	OAuth     OAuth     `yaml:"oauth"`
	Storage   Storage   `yaml:"storage"`
	Cron      Cron      `yaml:"cron"`
	Usecases  Usecases  `yaml:"usecases"`
}

// LookupFunc reports the value of an environment variable, similar to
// the os.LookupEnv function.
type LookupFunc func(key string) (string, bool)

// LoadEnvFiles loads the given dotenv files (or .env if no file is
// given) into the process environment. Variables which are set
// already are not overridden and missing files are ignored.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %q: %w", f, err)
		}
	}
	return nil
}

// Path returns the configuration file path, preferring the given flag
// value to the CONFIG_FILE environment variable and DefaultPath.
func Path(flag string) string {
	if flag != "" {
		return flag
	}
	if p := os.Getenv(EnvConfigFile); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads the path configuration file, overrides it by the process
// environment variables, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	c, err := Parse(data, os.LookupEnv)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}
	return c, nil
}

// Parse unmarshals the data byte slice, overrides its settings by the
// lookup environment, and returns the validated and normalized Config.
// Unknown keys are rejected, so a misspelled setting is not ignored
// silently.
func Parse(data []byte, lookup LookupFunc) (*Config, error) {
	c := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	switch err := dec.Decode(c); {
	case errors.Is(err, io.EOF):
		return nil, errors.New("configuration is empty")
	case err != nil:
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}
	if lookup != nil {
		c.override(lookup)
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

func (c *Config) override(lookup LookupFunc) {
	for env, dst := range map[string]*string{
		EnvDatabaseURL:          &c.Database.URL,
		EnvSecretKey:            &c.Session.Secret,
		EnvRedisPassword:        &c.Redis.Password,
		EnvMailPassword:         &c.Mail.Password,
		EnvStripeSecretKey:      &c.Payments.SecretKey,
		EnvStripePublishableKey: &c.Payments.PublishableKey,
		EnvGoogleClientSecret:   &c.OAuth.ClientSecret,
		EnvTwilioAuthToken:      &c.SMS.AuthToken,
	} {
		if v, ok := lookup(env); ok && v != "" {
			*dst = v
		}
	}
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace some zero values with
// their expected default values (if any).
func (c *Config) ValidateAndNormalize() error {
	for _, s := range []struct {
		name string
		vn   interface{ ValidateAndNormalize() error }
	}{
		{"passwords", &c.Passwords},
		{"database", &c.Database},
		{"gin", &c.Gin},
		{"logging", &c.Logging},
		{"redis", &c.Redis},
		{"session", &c.Session},
		{"mail", &c.Mail},
		{"sms", &c.SMS},
		{"payments", &c.Payments},
		{"oauth", &c.OAuth},
		{"storage", &c.Storage},
		{"cron", &c.Cron},
		{"usecases", &c.Usecases},
	} {
		if err := s.vn.ValidateAndNormalize(); err != nil {
			return fmt.Errorf("validating %s settings: %w", s.name, err)
		}
	}
	if c.OAuth.Enabled() && c.OAuth.RedirectURL == "" {
		c.OAuth.RedirectURL = c.Gin.BaseURL + "/google_callback"
	}
	return nil
}
