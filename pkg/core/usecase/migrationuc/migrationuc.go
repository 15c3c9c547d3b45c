// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package migrationuc provides the database schema use cases which are
// run by the "fmweb db" sub-commands, not by the web server.
// MigrateDBUseCase applies or reverts the numbered schema migrations
// and refuses to touch a dirty schema, while InitDBUseCase brings an
// empty database to the latest schema and seeds the accounts, services,
// parts, and discount codes of a development or production deployment.
package migrationuc
