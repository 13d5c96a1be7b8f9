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
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/susu-finance/go-susu/data/basics"
	"github.com/susu-finance/go-susu/logging"
	"github.com/susu-finance/go-susu/util/db"
)

// repOpenTest opens an initialized in-memory registry database and returns
// the write handle wrapped for struct-mapped access.
func repOpenTest(t *testing.T) (db.Pair, *sqlx.DB) {
	dbs, err := db.OpenPair(testDBName(t), true)
	require.NoError(t, err)
	dbs.SetLogger(logging.TestingLog(t))
	t.Cleanup(dbs.Close)

	require.NoError(t, dbs.Wdb.Atomic(repInit))
	return dbs, sqlx.NewDb(dbs.Wdb.Handle, "sqlite3")
}

func testRepRecord() basics.UserReputation {
	return basics.UserReputation{
		CirclesCompleted: 3,
		CirclesActive:    2,
		TotalContributed: basics.MicroUnitsFromUnits(7500),
		OnTimePayments:   11,
		MissedPayments:   1,
		AccountCreatedAt: scoreTestNow - 86400,
		LastActiveAt:     scoreTestNow,
		Score:            612,
		Tier:             basics.TierGold,
	}
}

func TestRepDBEmpty(t *testing.T) {
	_, wdb := repOpenTest(t)
	ctx := context.Background()

	u, err := repGet(ctx, wdb, testAddr("nobody"))
	require.NoError(t, err)
	require.True(t, u.IsZero())

	n, err := repCount(ctx, wdb)
	require.NoError(t, err)
	require.Zero(t, n)

	callers, err := callersLoad(ctx, wdb)
	require.NoError(t, err)
	require.Empty(t, callers)
}

func TestRepDBInitIdempotent(t *testing.T) {
	dbs, wdb := repOpenTest(t)
	ctx := context.Background()

	err := dbs.Wdb.Atomic(func(ctx context.Context, tx *sql.Tx) error {
		version, err := db.GetUserVersion(ctx, tx)
		require.NoError(t, err)
		require.Equal(t, int32(repDBVersion), version)
		return nil
	})
	require.NoError(t, err)

	alice := testAddr("alice")
	require.NoError(t, repPut(ctx, wdb, alice, testRepRecord()))

	// Reinitialization is a no-op on an up-to-date database.
	require.NoError(t, dbs.Wdb.Atomic(repInit))

	u, err := repGet(ctx, wdb, alice)
	require.NoError(t, err)
	require.Equal(t, testRepRecord(), u)
}

func TestRepDBNewerVersionRejected(t *testing.T) {
	dbs, _ := repOpenTest(t)

	err := dbs.Wdb.Atomic(func(ctx context.Context, tx *sql.Tx) error {
		_, err := db.SetUserVersion(ctx, tx, repDBVersion+1)
		return err
	})
	require.NoError(t, err)

	err = dbs.Wdb.Atomic(repInit)
	require.ErrorContains(t, err, "newer than supported")
}

func TestRepDBPutGet(t *testing.T) {
	_, wdb := repOpenTest(t)
	ctx := context.Background()
	alice := testAddr("alice")

	want := testRepRecord()
	require.NoError(t, repPut(ctx, wdb, alice, want))

	got, err := repGet(ctx, wdb, alice)
	require.NoError(t, err)
	require.Equal(t, want, got)

	// A second put replaces the row in place.
	want.OnTimePayments++
	want.Score = 650
	want.Tier = basics.TierGold
	require.NoError(t, repPut(ctx, wdb, alice, want))

	got, err = repGet(ctx, wdb, alice)
	require.NoError(t, err)
	require.Equal(t, want, got)

	n, err := repCount(ctx, wdb)
	require.NoError(t, err)
	require.Equal(t, uint64(1), n)
}

func TestRepDBRollbackDiscards(t *testing.T) {
	_, wdb := repOpenTest(t)
	ctx := context.Background()
	alice := testAddr("alice")

	tx, err := wdb.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repPut(ctx, tx, alice, testRepRecord()))
	require.NoError(t, tx.Rollback())

	u, err := repGet(ctx, wdb, alice)
	require.NoError(t, err)
	require.True(t, u.IsZero())
}

func TestRepDBCallers(t *testing.T) {
	_, wdb := repOpenTest(t)
	ctx := context.Background()
	svc := testAddr("svc")
	other := testAddr("other")

	require.NoError(t, callerPut(ctx, wdb, svc, true))
	require.NoError(t, callerPut(ctx, wdb, other, true))

	callers, err := callersLoad(ctx, wdb)
	require.NoError(t, err)
	require.Equal(t, map[basics.Address]bool{svc: true, other: true}, callers)

	// Granting twice and revoking the absent are both harmless.
	require.NoError(t, callerPut(ctx, wdb, svc, true))
	require.NoError(t, callerPut(ctx, wdb, testAddr("ghost"), false))

	require.NoError(t, callerPut(ctx, wdb, other, false))
	callers, err = callersLoad(ctx, wdb)
	require.NoError(t, err)
	require.Equal(t, map[basics.Address]bool{svc: true}, callers)
}
