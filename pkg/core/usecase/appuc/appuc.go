// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package appuc contains the application UseCase which holds the
// repositories and the external collaborators, builds all other use
// case objects from the effective configuration, and provides them
// (with atomic replacement support) to the resources packages. The
// use case objects are rebuilt by Reload, e.g., when the configuration
// file is changed and the process receives a SIGHUP.
package appuc

import (
	"errors"
	"sync"

	"github.com/futuremech/fmweb/pkg/core/identity"
	"github.com/futuremech/fmweb/pkg/core/notify"
	"github.com/futuremech/fmweb/pkg/core/passwd"
	"github.com/futuremech/fmweb/pkg/core/payment"
	"github.com/futuremech/fmweb/pkg/core/render"
	"github.com/futuremech/fmweb/pkg/core/repo"
	"github.com/futuremech/fmweb/pkg/core/storage"
)

// Repos collects the repository instances which are passed to the
// use case builders.
type Repos struct {
	Users         repo.Users
	Vehicles      repo.Vehicles
	Services      repo.Services
	Parts         repo.Parts
	Bookings      repo.Bookings
	Orders        repo.Orders
	Discounts     repo.Discounts
	Payments      repo.Payments
	Notifications repo.Notifications
	Contacts      repo.Contacts
	Reports       repo.Reports
	Carts         repo.Carts
	ResetTokens   repo.ResetTokens
}

// Deps collects the external collaborators of the use cases. The SMS
// and Identity fields may be nil when those integrations are not
// configured.
type Deps struct {
	Hasher    passwd.Hasher
	Mailer    notify.Mailer
	SMS       notify.SMSSender
	Processor payment.Processor
	Identity  identity.Provider
	Files     storage.FileStore
	Renderer  render.Renderer
}

// UseCase represents an application use case. It holds a database
// connection pool, the repositories, and the external collaborators
// which are required by other use cases. Therefore, it can pass them
// to a use case Builder object (which is realized by the effective
// configuration) in order to create the supported use case objects
// during a Reload operation.
type UseCase struct {
	pool  repo.Pool
	repos *Repos
	deps  *Deps

	// mutex is used by Reload, so only one goroutine may build a new
	// set of use case objects at any time.
	mutex sync.Mutex

	// rwlock is locked for writing by updateAll whenever the new use
	// case objects are prepared and should be published atomically,
	// while it is locked by all getter methods for reading.
	rwlock sync.RWMutex

	managed *managedUseCases
}

// New instantiates an application use case object. The Reload method
// of this object must be called at least once, so it can create other
// use case objects, before their corresponding getter methods are
// invoked (otherwise, they return nil).
func New(p repo.Pool, r *Repos, d *Deps) (*UseCase, error) {
	switch {
	case p == nil:
		return nil, errors.New("pool must be non-nil")
	case r == nil || d == nil:
		return nil, errors.New("repos and deps must be non-nil")
	case d.Hasher == nil || d.Mailer == nil || d.Processor == nil ||
		d.Files == nil || d.Renderer == nil:
		return nil, errors.New("hasher, mailer, processor, files, and renderer are mandatory")
	}
	return &UseCase{pool: p, repos: r, deps: d}, nil
}
