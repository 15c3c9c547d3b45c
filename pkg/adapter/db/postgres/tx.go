// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"

	"gorm.io/gorm"
)

// Tx is a transaction which is begun by Conn.Tx. It embeds the
// *gorm.DB, hence, the repository packages may use it like GORM.
type Tx struct {
	*gorm.DB
}

// Exec runs the sql statement and returns the number of affected
// rows. Parameters may be numbered like $1 or use the ? and @name
// placeholders of GORM.
func (tx *Tx) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	return exec(tx.DB.WithContext(ctx), sql, args)
}

func (tx *Tx) IsTx() {
}

// GORM returns the embedded *gorm.DB instance, configuring it
// to operate on the given ctx context (in a gorm.Session).
func (tx *Tx) GORM(ctx context.Context) *gorm.DB {
	return tx.DB.WithContext(ctx)
}

func exec(db *gorm.DB, sql string, args []any) (int64, error) {
	res := db.Exec(sql, args...)
	if err := res.Error; err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}
