package repo

import "context"

// Queryer runs raw statements on a Conn or a Tx. Repositories mostly
// use their own typed queryers, so Exec is kept for the statements
// which only report the number of affected rows.
type Queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (count int64, err error)
}
