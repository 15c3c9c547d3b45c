// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package repo declares the persistence interfaces which the use cases
// depend on. A Pool hands out connections, a connection may start a
// transaction, and each repository wraps either one of them in order
// to run its queries. Repositories which change more than one row per
// use case (e.g., checkout) expose their conditional updates only on
// the transaction-bound queryer, so they cannot run outside of a
// transaction by mistake.
package repo

import "context"

// ConnHandler is called with an acquired connection. The connection
// is released when the handler returns.
type ConnHandler func(context.Context, Conn) error

// Pool manages the database connections.
type Pool interface {
	Conn(ctx context.Context, handler ConnHandler) error
}
