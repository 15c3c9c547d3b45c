// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

// Tx is a database transaction which is passed to a TxHandler. It may
// not be used concurrently or after its handler returns.
// Use cases open a transaction whenever a check and its dependent
// writes must be atomic, e.g., the stock check and decrement of a
// checkout or the status check and update of a booking. The default
// READ-COMMITTED isolation level of PostgreSQL is expected, so such
// repositories lock or conditionally update the rows they check.
type Tx interface {
	Queryer

	// IsTx prevents a Conn from implementing the Tx interface.
	IsTx()
}
