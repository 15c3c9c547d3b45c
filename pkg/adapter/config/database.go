// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/futuremech/fmweb/pkg/adapter/config/settings"
	"github.com/futuremech/fmweb/pkg/adapter/db/postgres"
	"github.com/futuremech/fmweb/pkg/adapter/db/postgres/migration"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx sql driver
)

// Database contains the PostgreSQL connection settings. The password
// of Role is read from the .pgpass file in the PassDir directory, with
// lines like this:
//
//	host:port:dbname:role:password
//
// Alternatively, a complete connection URL may be given by the
// FM_DATABASE_URL environment variable, overriding other fields.
type Database struct {
	Host    string `yaml:"host"`     // domain name or IP address of the DBMS server
	Port    int    `yaml:"port"`     // port number of the DBMS server
	Name    string `yaml:"name"`     // database name, like futuremech
	Role    string `yaml:"role"`     // database role name, like fmweb
	PassDir string `yaml:"pass-dir"` // path of the passwords dir
	SSLMode string `yaml:"ssl-mode,omitempty"`

	MaxOpenConns  int                `yaml:"max-open-conns,omitempty"`
	MaxIdleConns  int                `yaml:"max-idle-conns,omitempty"`
	SlowThreshold *settings.Duration `yaml:"slow-threshold,omitempty"`

	// URL is taken from the FM_DATABASE_URL environment variable.
	URL string `yaml:"-"`
}

// ValidateAndNormalize fills the default host, port, role, and SSL
// mode and ensures that the database may be located.
func (d *Database) ValidateAndNormalize() error {
	if d.URL != "" {
		return nil
	}
	if d.Host == "" {
		d.Host = "localhost"
	}
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.Role == "" {
		d.Role = "fmweb"
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	switch {
	case d.Name == "":
		return errors.New("database name is required")
	case d.Port < 1 || d.Port > 65535:
		return fmt.Errorf("invalid database port: %d", d.Port)
	case d.MaxOpenConns < 0 || d.MaxIdleConns < 0:
		return errors.New("connection limits may not be negative")
	}
	return nil
}

// ConnectionURL returns the database connection URL embedding the host,
// port, role name, database name, and password value. The password is
// read from the .pgpass file of PassDir which may contain empty or
// `#`-commented lines in addition to the password specifying lines.
// If the URL field is set, it is returned as is.
func (d Database) ConnectionURL() (string, error) {
	if d.URL != "" {
		return d.URL, nil
	}
	path := filepath.Join(d.PassDir, ".pgpass")
	passLines, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading pass-file: %w", err)
	}
	prfx := fmt.Sprintf("%s:%d:%s:%s:", d.Host, d.Port, d.Name, d.Role)
	var pass string
	for _, line := range strings.Split(string(passLines), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || line[0] == '#' {
			continue
		}
		if strings.HasPrefix(line, prfx) {
			pass = line[len(prfx):]
			break
		}
	}
	if pass == "" {
		return "", fmt.Errorf("no matching password line in %q", path)
	}
	u := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(d.Role, pass),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.Name,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String(), nil
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `d` settings.
func (d Database) ConnectionPool(ctx context.Context) (*postgres.Pool, error) {
	u, err := d.ConnectionURL()
	if err != nil {
		return nil, err
	}
	po := postgres.PoolOptions{
		MaxOpenConns: d.MaxOpenConns,
		MaxIdleConns: d.MaxIdleConns,
	}
	if d.SlowThreshold != nil {
		po.SlowThreshold = d.SlowThreshold.Std()
	}
	p, err := postgres.NewPool(ctx, u, po)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s@%s:%d/%s: %w",
			d.Role, d.Host, d.Port, d.Name, err)
	}
	return p, nil
}

// Migrator opens a dedicated database handle and wraps it by a schema
// migrator. The returned migrator must be closed by the caller.
func (d Database) Migrator(ctx context.Context) (*migration.Migrator, error) {
	u, err := d.ConnectionURL()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("pgx", u)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	m, err := migration.New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return m, nil
}
