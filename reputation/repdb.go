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

package reputation

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/susu-finance/go-susu/data/basics"
	"github.com/susu-finance/go-susu/util/db"
)

// repDBVersion is the schema version this build reads and writes.  It is
// stored in the sqlite user_version pragma so that a future build can stage
// migrations instead of guessing from table shapes.
const repDBVersion = 1

// User records are stored one row per address with plain columns, so the
// table can be inspected and aggregated with ordinary SQL.  The allowlist
// is a bare table of addresses: presence means authorized.
var repSchema = []string{
	`CREATE TABLE IF NOT EXISTS reputation (
		address blob primary key,
		completed integer not null,
		active integer not null,
		contributed integer not null,
		ontime integer not null,
		missed integer not null,
		created integer not null,
		lastactive integer not null,
		score integer not null,
		tier integer not null)`,
	`CREATE TABLE IF NOT EXISTS authorized (
		address blob primary key)`,
}

func repInit(ctx context.Context, tx *sql.Tx) error {
	version, err := db.GetUserVersion(ctx, tx)
	if err != nil {
		return fmt.Errorf("repdb: could not read schema version: %v", err)
	}
	if version > repDBVersion {
		return fmt.Errorf("repdb: database schema version %d is newer than supported version %d", version, repDBVersion)
	}
	if version == repDBVersion {
		return nil
	}

	for _, tableCreate := range repSchema {
		_, err = tx.ExecContext(ctx, tableCreate)
		if err != nil {
			return fmt.Errorf("repdb: could not create table: %v", err)
		}
	}

	_, err = db.SetUserVersion(ctx, tx, repDBVersion)
	return err
}

// repRow mirrors one reputation table row.
type repRow struct {
	Address     []byte `db:"address"`
	Completed   uint64 `db:"completed"`
	Active      uint64 `db:"active"`
	Contributed uint64 `db:"contributed"`
	OnTime      uint64 `db:"ontime"`
	Missed      uint64 `db:"missed"`
	Created     int64  `db:"created"`
	LastActive  int64  `db:"lastactive"`
	Score       uint64 `db:"score"`
	Tier        uint64 `db:"tier"`
}

func (row repRow) record() basics.UserReputation {
	return basics.UserReputation{
		CirclesCompleted: row.Completed,
		CirclesActive:    row.Active,
		TotalContributed: basics.MicroUnits{Raw: row.Contributed},
		OnTimePayments:   row.OnTime,
		MissedPayments:   row.Missed,
		AccountCreatedAt: row.Created,
		LastActiveAt:     row.LastActive,
		Score:            row.Score,
		Tier:             basics.Tier(row.Tier),
	}
}

// repGet returns the stored record for addr.  An address with no row reads
// as the zero record, the same way a fresh mapping slot would.
func repGet(ctx context.Context, q sqlx.QueryerContext, addr basics.Address) (basics.UserReputation, error) {
	var row repRow
	err := sqlx.GetContext(ctx, q, &row,
		"SELECT address, completed, active, contributed, ontime, missed, created, lastactive, score, tier FROM reputation WHERE address=?",
		addr[:])
	if err == sql.ErrNoRows {
		return basics.UserReputation{}, nil
	}
	if err != nil {
		return basics.UserReputation{}, err
	}
	return row.record(), nil
}

// repPut writes addr's full record, replacing any row already stored.
func repPut(ctx context.Context, e sqlx.ExtContext, addr basics.Address, u basics.UserReputation) error {
	_, err := sqlx.NamedExecContext(ctx, e,
		`INSERT OR REPLACE INTO reputation
			(address, completed, active, contributed, ontime, missed, created, lastactive, score, tier)
		VALUES
			(:address, :completed, :active, :contributed, :ontime, :missed, :created, :lastactive, :score, :tier)`,
		repRow{
			Address:     addr[:],
			Completed:   u.CirclesCompleted,
			Active:      u.CirclesActive,
			Contributed: u.TotalContributed.Raw,
			OnTime:      u.OnTimePayments,
			Missed:      u.MissedPayments,
			Created:     u.AccountCreatedAt,
			LastActive:  u.LastActiveAt,
			Score:       u.Score,
			Tier:        uint64(u.Tier),
		})
	return err
}

// repCount returns the number of user records.
func repCount(ctx context.Context, q sqlx.QueryerContext) (uint64, error) {
	var n uint64
	err := sqlx.GetContext(ctx, q, &n, "SELECT COUNT(*) FROM reputation")
	return n, err
}

func callerPut(ctx context.Context, e sqlx.ExecerContext, addr basics.Address, allowed bool) error {
	var err error
	if allowed {
		_, err = e.ExecContext(ctx, "INSERT OR REPLACE INTO authorized (address) VALUES (?)", addr[:])
	} else {
		_, err = e.ExecContext(ctx, "DELETE FROM authorized WHERE address=?", addr[:])
	}
	return err
}

func callersLoad(ctx context.Context, q sqlx.QueryerContext) (map[basics.Address]bool, error) {
	var raw [][]byte
	err := sqlx.SelectContext(ctx, q, &raw, "SELECT address FROM authorized")
	if err != nil {
		return nil, err
	}

	callers := make(map[basics.Address]bool)
	for _, buf := range raw {
		var addr basics.Address
		copy(addr[:], buf)
		callers[addr] = true
	}
	return callers, nil
}
