// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package memrp is an internal helper for the use case tests. It
// implements the repo.Pool, repo.Conn, and repo.Tx interfaces and all
// repositories over an in-memory Store.
//
// Transactions are serialized. Each transaction snapshots the whole
// store when it begins and restores that snapshot if its handler fails
// or panics, so the atomicity of multi-statement use cases can be
// asserted without a DBMS. Statements which run outside of a
// transaction apply immediately.
//
// A test may inject a failure for one named statement (for example
// "payments.Create") with DB.FailOn, in order to exercise rollbacks.
package memrp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/repo"
)

// ErrInjected is the default error of the injected failures.
var ErrInjected = errors.New("injected failure")

// Store holds the rows of all tables.
type Store struct {
	Users         map[int64]model.User
	Vehicles      map[int64]model.Vehicle
	Services      map[int64]model.Service
	Parts         map[int64]model.CarPart
	Bookings      map[int64]model.Booking
	Orders        map[int64]model.Order
	Discounts     map[int64]model.Discount
	Payments      map[int64]model.Payment
	Notifications map[int64]model.Notification
	Reads         map[[2]int64]time.Time // (user, notification)
	Contacts      map[int64]model.ContactSubmission
	Reports       map[int64]model.Report

	Seq int64
}

func newStore() *Store {
	return &Store{
		Users:         map[int64]model.User{},
		Vehicles:      map[int64]model.Vehicle{},
		Services:      map[int64]model.Service{},
		Parts:         map[int64]model.CarPart{},
		Bookings:      map[int64]model.Booking{},
		Orders:        map[int64]model.Order{},
		Discounts:     map[int64]model.Discount{},
		Payments:      map[int64]model.Payment{},
		Notifications: map[int64]model.Notification{},
		Reads:         map[[2]int64]time.Time{},
		Contacts:      map[int64]model.ContactSubmission{},
		Reports:       map[int64]model.Report{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	mm := make(map[K]V, len(m))
	for k, v := range m {
		mm[k] = v
	}
	return mm
}

func (s *Store) clone() *Store {
	orders := make(map[int64]model.Order, len(s.Orders))
	for id, o := range s.Orders {
		o.Items = append([]model.OrderItem(nil), o.Items...)
		orders[id] = o
	}
	return &Store{
		Users:         cloneMap(s.Users),
		Vehicles:      cloneMap(s.Vehicles),
		Services:      cloneMap(s.Services),
		Parts:         cloneMap(s.Parts),
		Bookings:      cloneMap(s.Bookings),
		Orders:        orders,
		Discounts:     cloneMap(s.Discounts),
		Payments:      cloneMap(s.Payments),
		Notifications: cloneMap(s.Notifications),
		Reads:         cloneMap(s.Reads),
		Contacts:      cloneMap(s.Contacts),
		Reports:       cloneMap(s.Reports),
		Seq:           s.Seq,
	}
}

func (s *Store) nextID() int64 {
	s.Seq++
	return s.Seq
}

// DB is an in-memory database. It implements repo.Pool.
type DB struct {
	txMu sync.Mutex // serializes the transactions
	mu   sync.Mutex // guards data and fail
	data *Store
	fail map[string]error

	// Now stamps the created_at columns.
	Now func() time.Time
}

// New creates an empty in-memory database.
func New() *DB {
	return &DB{
		data: newStore(),
		fail: map[string]error{},
		Now:  time.Now,
	}
}

// Conn implements repo.Pool.
func (db *DB) Conn(ctx context.Context, f repo.ConnHandler) error {
	return f(ctx, &Conn{db: db})
}

// View runs f with the current store, so a test may assert on rows.
// The store must not be retained after f returns.
func (db *DB) View(f func(s *Store)) {
	db.mu.Lock()
	defer db.mu.Unlock()
	f(db.data)
}

// Update runs f with the current store, so a test may seed rows.
// Rows which are created by f should take their ids from NextID.
func (db *DB) Update(f func(s *Store)) {
	db.mu.Lock()
	defer db.mu.Unlock()
	f(db.data)
}

// NextID allocates a row id for seeding within Update.
func (s *Store) NextID() int64 {
	return s.nextID()
}

// FailOn makes the next execution of the stmt statement fail with err
// (or ErrInjected if err is nil).
func (db *DB) FailOn(stmt string, err error) {
	if err == nil {
		err = ErrInjected
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	db.fail[stmt] = err
}

// exec runs f on the store while holding the data lock. It returns the
// injected failure of stmt first, if any.
func (db *DB) exec(stmt string, f func(s *Store) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err, ok := db.fail[stmt]; ok {
		delete(db.fail, stmt)
		return fmt.Errorf("%s: %w", stmt, err)
	}
	return f(db.data)
}

// Conn is a connection to a DB.
type Conn struct {
	db *DB
}

func (c *Conn) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errors.ErrUnsupported
}

func (c *Conn) IsConn() {
}

// Tx runs f in a transaction, restoring the store snapshot if f fails.
func (c *Conn) Tx(ctx context.Context, f repo.TxHandler) (err error) {
	db := c.db
	db.txMu.Lock()
	defer db.txMu.Unlock()
	db.mu.Lock()
	snapshot := db.data.clone()
	db.mu.Unlock()
	defer func() {
		r := recover()
		if r == nil && err == nil {
			return
		}
		db.mu.Lock()
		db.data = snapshot
		db.mu.Unlock()
		if r != nil {
			err = fmt.Errorf("panicked: %v", r)
			return
		}
		err = fmt.Errorf("handler: %w", err)
	}()
	return f(ctx, &Tx{db: db})
}

// Tx is a transaction of a DB.
type Tx struct {
	db *DB
}

func (tx *Tx) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errors.ErrUnsupported
}

func (tx *Tx) IsTx() {
}

func dbOf(q any) *DB {
	switch q := q.(type) {
	case *Conn:
		return q.db
	case *Tx:
		return q.db
	default:
		panic(fmt.Sprintf("memrp: unsupported queryer %T", q))
	}
}
