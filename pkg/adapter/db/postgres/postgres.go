// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postgres implements the repo.Pool, repo.Conn, and repo.Tx
// interfaces on top of GORM and its pgx based PostgreSQL driver. The
// repository packages (named as *rp) take a Conn or Tx and run their
// queries using the GORM method of the Queryer constraint.
package postgres

import (
	"errors"
	"fmt"

	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL error codes which are classified by Classify.
const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
	CheckViolation      = "23514"
	CannotConnectNow    = "57P03"
)

// Classify wraps err with a typed cerr.Error if it reports a missing
// row (as cerr.NotFound) or a violated constraint (as cerr.Conflict or
// cerr.BadRequest), so the use cases may report them to the end-user.
// The what is used as the message of a missing row.
// Other errors are wrapped with what as their context.
func Classify(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return cerr.NotFoundf("%s not found", what)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case UniqueViolation:
			return cerr.Conflict(fmt.Errorf("%s already exists", what))
		case ForeignKeyViolation, CheckViolation:
			return cerr.BadRequest(fmt.Errorf("invalid %s: %s", what, pgErr.Detail))
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}

// IsUniqueViolation reports whether err was caused by a violated
// unique constraint.
func IsUniqueViolation(err error) bool {
	return hasCode(err, UniqueViolation)
}

// IsForeignKeyViolation reports whether err was caused by a reference
// to a missing row.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, ForeignKeyViolation)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
