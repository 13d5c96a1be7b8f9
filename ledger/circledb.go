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

package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/susu-finance/go-susu/data/circles"
	"github.com/susu-finance/go-susu/ledger/ledgercore"
	"github.com/susu-finance/go-susu/protocol"
	"github.com/susu-finance/go-susu/util/db"
)

// circleDBVersion is the schema version this build reads and writes.  It is
// stored in the sqlite user_version pragma so that a future build can stage
// migrations instead of guessing from table shapes.
const circleDBVersion = 1

// Circles and totals are stored as canonical msgpack blobs: one row per
// circle keyed by its ID, and a single totals row.  The event log gets its
// own table because it is append-only and queried by sequence range, never
// rewritten.
var circleSchema = []string{
	`CREATE TABLE IF NOT EXISTS circles (
		id blob primary key,
		data blob not null)`,
	`CREATE TABLE IF NOT EXISTS events (
		seq integer primary key,
		tag text not null,
		data blob not null)`,
	`CREATE TABLE IF NOT EXISTS totals (
		id integer primary key,
		data blob not null)`,
}

// totalsRowID is the key of the single totals row.
const totalsRowID = 0

func circleInit(ctx context.Context, tx *sql.Tx) error {
	version, err := db.GetUserVersion(ctx, tx)
	if err != nil {
		return fmt.Errorf("circledb: could not read schema version: %v", err)
	}
	if version > circleDBVersion {
		return fmt.Errorf("circledb: database schema version %d is newer than supported version %d", version, circleDBVersion)
	}
	if version == circleDBVersion {
		return nil
	}

	for _, tableCreate := range circleSchema {
		_, err = tx.ExecContext(ctx, tableCreate)
		if err != nil {
			return fmt.Errorf("circledb: could not create table: %v", err)
		}
	}

	_, err = db.SetUserVersion(ctx, tx, circleDBVersion)
	return err
}

// circlePut writes the circle's full record, replacing any record already
// stored under the same ID.  Replacement is deliberate: a colliding circle
// ID overwrites the slot the way a map assignment would.
func circlePut(tx *sql.Tx, c *circles.Circle) error {
	_, err := tx.Exec("INSERT OR REPLACE INTO circles (id, data) VALUES (?, ?)",
		c.ID[:], protocol.Encode(c))
	return err
}

func circleGet(tx *sql.Tx, id circles.CircleID) (circles.Circle, error) {
	var buf []byte
	err := tx.QueryRow("SELECT data FROM circles WHERE id=?", id[:]).Scan(&buf)
	if err != nil {
		if err == sql.ErrNoRows {
			err = ledgercore.CircleNotFoundError{ID: id}
		}
		return circles.Circle{}, err
	}

	var c circles.Circle
	err = protocol.Decode(buf, &c)
	return c, err
}

func circleLoadAll(tx *sql.Tx) (map[circles.CircleID]*circles.Circle, error) {
	rows, err := tx.Query("SELECT data FROM circles")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	loaded := make(map[circles.CircleID]*circles.Circle)
	for rows.Next() {
		var buf []byte
		err = rows.Scan(&buf)
		if err != nil {
			return nil, err
		}

		c := new(circles.Circle)
		err = protocol.Decode(buf, c)
		if err != nil {
			return nil, err
		}
		loaded[c.ID] = c
	}
	return loaded, rows.Err()
}

// eventPut appends one event under the sequence number already assigned to
// it.  The primary key rejects a duplicate sequence, which would mean the
// in-memory sequence counter and the log have diverged.
func eventPut(tx *sql.Tx, ev circles.Event) error {
	_, err := tx.Exec("INSERT INTO events (seq, tag, data) VALUES (?, ?, ?)",
		ev.Sequence, string(ev.Tag), protocol.Encode(&ev))
	return err
}

// eventNext returns the sequence number the next appended event should
// carry.  Sequences start at 1 so that 0 can mean "no events yet".
func eventNext(tx *sql.Tx) (uint64, error) {
	var max sql.NullInt64
	err := tx.QueryRow("SELECT MAX(seq) FROM events").Scan(&max)
	if err != nil {
		return 0, err
	}

	if max.Valid {
		return uint64(max.Int64) + 1, nil
	}
	return 1, nil
}

// eventGetRange returns up to limit events with sequence >= first, in
// sequence order.
func eventGetRange(tx *sql.Tx, first uint64, limit uint64) ([]circles.Event, error) {
	if limit == 0 {
		return nil, nil
	}

	rows, err := tx.Query("SELECT data FROM events WHERE seq >= ? ORDER BY seq ASC LIMIT ?",
		first, int64(min(limit, 1<<62)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evs []circles.Event
	for rows.Next() {
		var buf []byte
		err = rows.Scan(&buf)
		if err != nil {
			return nil, err
		}

		var ev circles.Event
		err = protocol.Decode(buf, &ev)
		if err != nil {
			return nil, err
		}
		evs = append(evs, ev)
	}
	return evs, rows.Err()
}

func totalsPut(tx *sql.Tx, t ledgercore.Totals) error {
	_, err := tx.Exec("INSERT OR REPLACE INTO totals (id, data) VALUES (?, ?)",
		totalsRowID, protocol.Encode(&t))
	return err
}

// totalsGet returns the stored totals, or zero totals when the row has
// never been written (a freshly initialized database).
func totalsGet(tx *sql.Tx) (ledgercore.Totals, error) {
	var buf []byte
	err := tx.QueryRow("SELECT data FROM totals WHERE id=?", totalsRowID).Scan(&buf)
	if err == sql.ErrNoRows {
		return ledgercore.Totals{}, nil
	}
	if err != nil {
		return ledgercore.Totals{}, err
	}

	var t ledgercore.Totals
	err = protocol.Decode(buf, &t)
	return t, err
}
