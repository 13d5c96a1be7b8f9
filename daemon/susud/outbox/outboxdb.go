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

package outbox

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/susu-finance/go-susu/data/basics"
	"github.com/susu-finance/go-susu/ledger"
	"github.com/susu-finance/go-susu/util/db"
)

// journalDBVersion is the schema version this build reads and writes.
const journalDBVersion = 1

// The journal is append-only: sequence numbers come from sqlite's rowid
// autoincrement, so they keep increasing across deletes and restarts.
var journalSchema = []string{
	`CREATE TABLE IF NOT EXISTS payments (
		sequence integer primary key autoincrement,
		recipient blob not null,
		amount integer not null,
		kind text not null,
		ts integer not null)`,
}

func journalInit(ctx context.Context, tx *sql.Tx) error {
	version, err := db.GetUserVersion(ctx, tx)
	if err != nil {
		return fmt.Errorf("outbox: could not read schema version: %v", err)
	}
	if version > journalDBVersion {
		return fmt.Errorf("outbox: database schema version %d is newer than supported version %d", version, journalDBVersion)
	}
	if version == journalDBVersion {
		return nil
	}

	for _, tableCreate := range journalSchema {
		_, err = tx.ExecContext(ctx, tableCreate)
		if err != nil {
			return fmt.Errorf("outbox: could not create table: %v", err)
		}
	}

	_, err = db.SetUserVersion(ctx, tx, journalDBVersion)
	return err
}

// paymentRow mirrors one payments table row.
type paymentRow struct {
	Sequence  uint64 `db:"sequence"`
	Recipient []byte `db:"recipient"`
	Amount    uint64 `db:"amount"`
	Kind      string `db:"kind"`
	Timestamp int64  `db:"ts"`
}

func (row paymentRow) payment() Payment {
	var recipient basics.Address
	copy(recipient[:], row.Recipient)
	return Payment{
		Sequence:  row.Sequence,
		Recipient: recipient,
		Amount:    basics.MicroUnits{Raw: row.Amount},
		Kind:      ledger.PaymentKind(row.Kind),
		Timestamp: row.Timestamp,
	}
}

// paymentPut appends one payment.  The sequence is assigned by sqlite.
func paymentPut(ctx context.Context, e sqlx.ExecerContext, recipient basics.Address, amount basics.MicroUnits, kind ledger.PaymentKind, ts int64) error {
	_, err := e.ExecContext(ctx,
		"INSERT INTO payments (recipient, amount, kind, ts) VALUES (?, ?, ?, ?)",
		recipient[:], amount.Raw, string(kind), ts)
	return err
}

// paymentGetRange returns up to limit payments with sequence >= first in
// sequence order.
func paymentGetRange(ctx context.Context, q sqlx.QueryerContext, first uint64, limit uint64) ([]Payment, error) {
	if limit == 0 {
		return nil, nil
	}

	var rows []paymentRow
	err := sqlx.SelectContext(ctx, q, &rows,
		"SELECT sequence, recipient, amount, kind, ts FROM payments WHERE sequence >= ? ORDER BY sequence ASC LIMIT ?",
		first, int64(min(limit, 1<<62)))
	if err != nil {
		return nil, err
	}

	var payments []Payment
	for _, row := range rows {
		payments = append(payments, row.payment())
	}
	return payments, nil
}

// paymentCount returns the number of journaled payments.
func paymentCount(ctx context.Context, q sqlx.QueryerContext) (uint64, error) {
	var n uint64
	err := sqlx.GetContext(ctx, q, &n, "SELECT COUNT(*) FROM payments")
	return n, err
}
