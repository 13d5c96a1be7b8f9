// Copyright (C) 2025-2026 Susu Finance, Inc.
// This file is part of go-susu
//
// go-susu is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-susu is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-susu.  If not, see <https://www.gnu.org/licenses/>.

// Package db defines database utility functions.
//
// These functions currently work on a sqlite database.
// Other databases may not work with functions in this package.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/susu-finance/go-susu/logging"
)

// busy is the time to wait for a sqlite lock from another process, in ms.
// This causes sqlite to wait before returning SQLITE_BUSY. Conflicts with
// other connections from the same process contend on the shared cache
// instead, which corresponds to SQLITE_LOCKED and is not covered by the
// busy timeout; those surface as retriable errors below.
const busy = 1000

// warnTxRetries is how often we log a warning about a transaction stuck in
// a retry loop.
const warnTxRetries = 1

// An Accessor manages a sqlite database handle and the transactions issued
// against it.
type Accessor struct {
	Handle   *sql.DB
	readOnly bool
	inMemory bool
	log      logging.Logger
}

// txFn is the operation to run inside Atomic. It must be idempotent: it may
// be invoked more than once when the transaction retries on contention.
type txFn func(ctx context.Context, tx *sql.Tx) error

// MakeAccessor creates a new Accessor.
func MakeAccessor(dbfilename string, readOnly bool, inMemory bool) (Accessor, error) {
	acc := Accessor{
		readOnly: readOnly,
		inMemory: inMemory,
		log:      logging.Base(),
	}

	var err error
	acc.Handle, err = sql.Open("sqlite3", URI(dbfilename, readOnly, inMemory)+"&_journal_mode=wal")
	return acc, err
}

// SetLogger sets the Logger the Accessor reports retries and slow
// transactions to.
func (db *Accessor) SetLogger(log logging.Logger) {
	db.log = log
}

func (db *Accessor) logger() logging.Logger {
	if db.log != nil {
		return db.log
	}
	return logging.Base()
}

// IsReadOnly returns whether the Accessor was opened read-only.
func (db *Accessor) IsReadOnly() bool {
	return db.readOnly
}

// Close closes the connection.
func (db *Accessor) Close() {
	db.Handle.Close()
	db.Handle = nil
}

// Atomic executes fn inside a serializable transaction against the database,
// retrying on contention. See AtomicContext.
func (db *Accessor) Atomic(fn txFn) error {
	return db.AtomicContext(context.Background(), fn)
}

// AtomicContext executes fn inside a serializable transaction. On error or
// panic the transaction is rolled back; SQLITE_BUSY and SQLITE_LOCKED
// trigger a retry with the same fn, anything else is returned to the
// caller.
func (db *Accessor) AtomicContext(ctx context.Context, fn txFn) (err error) {
	start := time.Now()
	defer func() {
		if delta := time.Since(start); delta > time.Second {
			db.logger().Warnf("dbatomic: tx took %v", delta)
		}
	}()

	// the sql library swallows panics inside an active transaction
	guardedFn := func(ctx context.Context, tx *sql.Tx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				var ok bool
				err, ok = r.(error)
				if !ok {
					err = fmt.Errorf("%v", r)
				}
			}
		}()

		return fn(ctx, tx)
	}

	conn, err := db.Handle.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	var tx *sql.Tx
	for i := 0; ; i++ {
		if i > 0 && i%warnTxRetries == 0 {
			if i >= 1000 {
				db.logger().Errorf("dbatomic: %d retries, giving up (last err: %v)", i, err)
				return err
			}
			db.logger().Warnf("dbatomic: %d retries (last err: %v)", i, err)
		}

		tx, err = conn.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable, ReadOnly: db.readOnly})
		if dbretry(err) {
			continue
		} else if err != nil {
			return err
		}

		err = guardedFn(ctx, tx)
		if err != nil {
			tx.Rollback()
			if dbretry(err) {
				continue
			}
			return err
		}

		err = tx.Commit()
		if err == nil || !dbretry(err) {
			return err
		}
	}
}

// Retry executes fn repeatedly as long as it returns an error that indicates
// database contention that warrants a retry.
func Retry(fn func() error) (err error) {
	for i := 0; ; i++ {
		if i > 0 && i%warnTxRetries == 0 {
			if i >= 1000 {
				logging.Base().Errorf("db.Retry: %d retries, giving up (last err: %v)", i, err)
				return err
			}
			logging.Base().Warnf("db.Retry: %d retries (last err: %v)", i, err)
		}

		err = fn()
		if !dbretry(err) {
			return err
		}
	}
}

// URI returns the sqlite URI given a db filename as an input.
func URI(filename string, readOnly bool, memory bool) string {
	uri := fmt.Sprintf("file:%s?_busy_timeout=%d&_synchronous=full", filename, busy)
	if !readOnly {
		uri += "&_txlock=immediate"
	}
	if memory {
		uri += "&mode=memory"
		uri += "&cache=shared"
	}
	return uri
}

// dbretry returns true if the error might be temporary
func dbretry(obj error) bool {
	err, ok := obj.(sqlite3.Error)
	return ok && (err.Code == sqlite3.ErrLocked || err.Code == sqlite3.ErrBusy)
}

// A Pair holds a read accessor and a write accessor over the same database
// file. Queries go through Rdb so they never queue behind a writer.
type Pair struct {
	Rdb Accessor
	Wdb Accessor
}

// OpenPair opens the filename with both a read and a write accessor.
func OpenPair(filename string, memory bool) (p Pair, err error) {
	p.Rdb, err = MakeAccessor(filename, true, memory)
	if err != nil {
		return Pair{}, err
	}

	p.Wdb, err = MakeAccessor(filename, false, memory)
	if err != nil {
		p.Rdb.Close()
		return Pair{}, err
	}

	return p, nil
}

// SetLogger sets the logger on both accessors.
func (p *Pair) SetLogger(log logging.Logger) {
	p.Rdb.SetLogger(log)
	p.Wdb.SetLogger(log)
}

// Close closes the read and write accessors.
func (p Pair) Close() {
	if p.Rdb.Handle != nil {
		p.Rdb.Close()
	}
	if p.Wdb.Handle != nil {
		p.Wdb.Close()
	}
}
