package repo

import "context"

// TxHandler is called within a transaction. Returning a nil error
// commits the transaction while an error (or a panic) rolls it back.
type TxHandler func(context.Context, Tx) error

// Conn is a single database connection.
type Conn interface {
	Queryer
	Tx(ctx context.Context, handler TxHandler) error
	IsConn()
}
