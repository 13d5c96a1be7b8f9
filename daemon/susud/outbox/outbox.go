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

// Package outbox persists the settlement journal: every payout and fee
// withdrawal the ledger approves lands here as one append-only row, and an
// external payer drains the journal to move real value.
//
// The journal is the daemon's ledger.Disburser.  An append happens before
// the ledger commits the operation that caused it: if the append fails the
// operation rolls back untouched, and if the process dies between the append
// and the commit the journal can hold one payment the ledger does not show.
// Consumers must treat rows as pay-at-most-once instructions keyed by
// sequence, not as a mirror of ledger state.
package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/susu-finance/go-susu/data/basics"
	"github.com/susu-finance/go-susu/ledger"
	"github.com/susu-finance/go-susu/logging"
	"github.com/susu-finance/go-susu/util/db"
	"github.com/susu-finance/go-susu/util/metrics"
)

var outboxPaymentsTotal = metrics.MakeCounter(metrics.OutboxPayments)

// Clock supplies the journal's notion of current time, in unix seconds.
type Clock interface {
	Now() int64
}

type wallClock struct{}

func (wallClock) Now() int64 {
	return time.Now().Unix()
}

// Payment is one settlement journal entry.
type Payment struct {
	// Sequence is assigned by the journal and is strictly increasing.
	Sequence uint64

	// Recipient is the address value is owed to.
	Recipient basics.Address

	// Amount is the value owed, in micro units.
	Amount basics.MicroUnits

	// Kind labels why value left the ledger.
	Kind ledger.PaymentKind

	// Timestamp is when the payment was journaled, unix seconds.
	Timestamp int64
}

// Journal is the on-disk payment outbox.  Appends happen on the ledger's
// operation goroutine, reads on API goroutines; the two use separate sqlite
// connections, so the journal itself needs no lock.
type Journal struct {
	log logging.Logger

	dbs db.Pair
	wdb *sqlx.DB
	rdb *sqlx.DB

	// retries caps append attempts before the disbursement is refused,
	// which in turn fails the ledger operation that requested it.
	retries int

	clock Clock
}

// OpenJournal opens the journal database at dbFilename (in-memory if dbMem
// is true), initializing the schema if needed.
func OpenJournal(log logging.Logger, dbFilename string, dbMem bool, retries int) (*Journal, error) {
	if retries < 1 {
		retries = 1
	}

	var err error
	j := &Journal{
		log:     log,
		retries: retries,
		clock:   wallClock{},
	}

	defer func() {
		if err != nil {
			j.Close()
		}
	}()

	j.dbs, err = db.OpenPair(dbFilename, dbMem)
	if err != nil {
		err = fmt.Errorf("OpenJournal.OpenPair: %v", err)
		return nil, err
	}
	j.dbs.SetLogger(log)
	j.wdb = sqlx.NewDb(j.dbs.Wdb.Handle, "sqlite3")
	j.rdb = sqlx.NewDb(j.dbs.Rdb.Handle, "sqlite3")

	err = j.dbs.Wdb.Atomic(journalInit)
	if err != nil {
		err = fmt.Errorf("OpenJournal.journalInit: %v", err)
		return nil, err
	}
	return j, nil
}

// Close closes the database connections.
func (j *Journal) Close() {
	j.dbs.Close()
}

// SetClock replaces the journal's clock.  Not safe to call once the journal
// is serving calls.
func (j *Journal) SetClock(c Clock) {
	j.clock = c
}

// Disburse implements ledger.Disburser by journaling the payment.  A failed
// append is retried up to the configured attempt count; once those are
// exhausted the error propagates, failing the ledger operation.
func (j *Journal) Disburse(ctx context.Context, recipient basics.Address, amount basics.MicroUnits, kind ledger.PaymentKind) error {
	var err error
	for attempt := 0; attempt < j.retries; attempt++ {
		err = j.dbs.Wdb.AtomicContext(ctx, func(ctx context.Context, tx *sql.Tx) error {
			return paymentPut(ctx, tx, recipient, amount, kind, j.clock.Now())
		})
		if err == nil {
			outboxPaymentsTotal.Inc()
			j.log.Infof("outbox: journaled %s of %d to %v", kind, amount.Raw, recipient)
			return nil
		}
	}
	return fmt.Errorf("outbox: journal append failed after %d attempts: %w", j.retries, err)
}

// Page returns up to max payments starting at sequence first, in sequence
// order.  Sequences start at one.
func (j *Journal) Page(ctx context.Context, first uint64, max uint64) ([]Payment, error) {
	return paymentGetRange(ctx, j.rdb, first, max)
}

// Count returns the number of journaled payments.
func (j *Journal) Count(ctx context.Context) (uint64, error) {
	return paymentCount(ctx, j.rdb)
}
