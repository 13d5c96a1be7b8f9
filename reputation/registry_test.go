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
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/susu-finance/go-susu/config"
	"github.com/susu-finance/go-susu/crypto"
	"github.com/susu-finance/go-susu/data/basics"
	"github.com/susu-finance/go-susu/ledger/ledgercore"
	"github.com/susu-finance/go-susu/logging"
	"github.com/susu-finance/go-susu/protocol"
)

var testDBCount atomic.Uint64

// testDBName returns a database name unique to the calling test, so
// in-memory databases opened by concurrent tests never share state.
func testDBName(t *testing.T) string {
	return fmt.Sprintf("%s.%d", strings.ReplaceAll(t.Name(), "/", "_"), testDBCount.Add(1))
}

func testAddr(name string) basics.Address {
	return basics.Address(crypto.Hash([]byte(name)))
}

type fakeClock struct {
	now int64
}

func (c *fakeClock) Now() int64 {
	return c.now
}

func (c *fakeClock) advance(seconds int64) {
	c.now += seconds
}

// openTestRegistry opens an in-memory registry owned by testAddr("owner"),
// running on a fake clock, with testAddr("svc") already on the caller
// allowlist.
func openTestRegistry(t *testing.T) (*Registry, *fakeClock) {
	reg, err := OpenRegistry(logging.TestingLog(t), testDBName(t), true,
		testAddr("owner"), config.Circles[protocol.CircleV1])
	require.NoError(t, err)
	t.Cleanup(reg.Close)

	clock := &fakeClock{now: scoreTestNow}
	reg.SetClock(clock)

	err = reg.SetAuthorizedCaller(context.Background(), testAddr("owner"), testAddr("svc"), true)
	require.NoError(t, err)
	return reg, clock
}

func TestRegistryAllowlist(t *testing.T) {
	reg, _ := openTestRegistry(t)
	ctx := context.Background()
	owner := testAddr("owner")
	svc := testAddr("svc")
	stranger := testAddr("stranger")
	alice := testAddr("alice")

	require.Equal(t, owner, reg.Owner())
	require.True(t, reg.Authorized(svc))
	require.False(t, reg.Authorized(stranger))
	require.False(t, reg.Authorized(owner))

	// Only the owner edits the allowlist.
	var unauth ledgercore.UnauthorizedCallerError
	err := reg.SetAuthorizedCaller(ctx, stranger, stranger, true)
	require.ErrorAs(t, err, &unauth)
	require.Equal(t, stranger, unauth.Caller)
	require.False(t, reg.Authorized(stranger))

	// Every mutator rejects a caller that is not on the list.  The owner
	// maintains the list but is not implicitly on it.
	for _, caller := range []basics.Address{stranger, owner} {
		err = reg.InitializeUser(ctx, caller, alice)
		require.ErrorAs(t, err, &unauth)
		require.Equal(t, caller, unauth.Caller)

		err = reg.RecordCircleJoined(ctx, caller, alice)
		require.ErrorAs(t, err, &unauth)

		_, err = reg.RecordContribution(ctx, caller, alice, basics.MicroUnitsFromUnits(1000), true)
		require.ErrorAs(t, err, &unauth)

		_, err = reg.RecordCircleCompletion(ctx, caller, alice)
		require.ErrorAs(t, err, &unauth)
	}

	// Rejected calls leave no trace.
	u, err := reg.Get(ctx, alice)
	require.NoError(t, err)
	require.True(t, u.IsZero())
	n, err := reg.Users(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	// Revocation takes effect immediately.
	require.NoError(t, reg.InitializeUser(ctx, svc, alice))
	require.NoError(t, reg.SetAuthorizedCaller(ctx, owner, svc, false))
	require.False(t, reg.Authorized(svc))
	err = reg.RecordCircleJoined(ctx, svc, alice)
	require.ErrorAs(t, err, &unauth)
	require.Equal(t, svc, unauth.Caller)
}

func TestInitializeUserIdempotent(t *testing.T) {
	reg, clock := openTestRegistry(t)
	ctx := context.Background()
	svc := testAddr("svc")
	alice := testAddr("alice")

	require.NoError(t, reg.InitializeUser(ctx, svc, alice))

	u, err := reg.Get(ctx, alice)
	require.NoError(t, err)
	require.True(t, u.Initialized())
	require.Equal(t, clock.now, u.AccountCreatedAt)
	require.Equal(t, clock.now, u.LastActiveAt)
	require.Zero(t, u.Score)
	require.Equal(t, basics.TierBronze, u.Tier)

	// Reinitializing later leaves the record completely untouched, the
	// last-active time included.
	clock.advance(3600)
	require.NoError(t, reg.InitializeUser(ctx, svc, alice))

	again, err := reg.Get(ctx, alice)
	require.NoError(t, err)
	require.Equal(t, u, again)

	n, err := reg.Users(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), n)
}

func TestRecordCircleJoined(t *testing.T) {
	reg, clock := openTestRegistry(t)
	ctx := context.Background()
	svc := testAddr("svc")
	alice := testAddr("alice")

	// Joining implicitly creates the record.
	require.NoError(t, reg.RecordCircleJoined(ctx, svc, alice))

	u, err := reg.Get(ctx, alice)
	require.NoError(t, err)
	require.Equal(t, uint64(1), u.CirclesActive)
	require.Equal(t, clock.now, u.AccountCreatedAt)
	require.Equal(t, clock.now, u.LastActiveAt)

	created := clock.now
	clock.advance(7200)
	require.NoError(t, reg.RecordCircleJoined(ctx, svc, alice))

	u, err = reg.Get(ctx, alice)
	require.NoError(t, err)
	require.Equal(t, uint64(2), u.CirclesActive)
	require.Equal(t, created, u.AccountCreatedAt)
	require.Equal(t, clock.now, u.LastActiveAt)

	// Joins never recompute the score.
	require.Zero(t, u.Score)
	require.Equal(t, basics.TierBronze, u.Tier)
}

func TestRecordContribution(t *testing.T) {
	reg, clock := openTestRegistry(t)
	ctx := context.Background()
	svc := testAddr("svc")
	bob := testAddr("bob")
	params := v1Params(t)

	// Fresh user, one on-time payment of 2000 units: the ratio term is a
	// full 500 and the volume term 20, with no age yet.
	u, err := reg.RecordContribution(ctx, svc, bob, basics.MicroUnitsFromUnits(2000), true)
	require.NoError(t, err)
	require.Equal(t, uint64(1), u.OnTimePayments)
	require.Zero(t, u.MissedPayments)
	require.Equal(t, basics.MicroUnitsFromUnits(2000), u.TotalContributed)
	require.Equal(t, clock.now, u.AccountCreatedAt)
	require.Equal(t, uint64(520), u.Score)
	require.Equal(t, basics.TierGold, u.Tier)

	got, err := reg.Get(ctx, bob)
	require.NoError(t, err)
	require.Equal(t, u, got)

	// A month later the age term joins in: 500 + 20 + 5.
	created := clock.now
	clock.advance(int64(params.MonthSeconds))
	u, err = reg.RecordContribution(ctx, svc, bob, basics.MicroUnitsFromUnits(500), true)
	require.NoError(t, err)
	require.Equal(t, uint64(2), u.OnTimePayments)
	require.Equal(t, basics.MicroUnitsFromUnits(2500), u.TotalContributed)
	require.Equal(t, created, u.AccountCreatedAt)
	require.Equal(t, clock.now, u.LastActiveAt)
	require.Equal(t, uint64(525), u.Score)
	require.Equal(t, basics.TierGold, u.Tier)
}

func TestRecordContributionMissed(t *testing.T) {
	reg, _ := openTestRegistry(t)
	ctx := context.Background()
	svc := testAddr("svc")
	carol := testAddr("carol")

	// One missed payment of 1000 units: the ratio term is zero, the
	// penalty saturates the sum at zero, and the volume term remains.
	u, err := reg.RecordContribution(ctx, svc, carol, basics.MicroUnitsFromUnits(1000), false)
	require.NoError(t, err)
	require.Zero(t, u.OnTimePayments)
	require.Equal(t, uint64(1), u.MissedPayments)
	require.Equal(t, uint64(10), u.Score)
	require.Equal(t, basics.TierBronze, u.Tier)
}

func TestRecordCircleCompletion(t *testing.T) {
	reg, _ := openTestRegistry(t)
	ctx := context.Background()
	svc := testAddr("svc")
	alice := testAddr("alice")

	require.NoError(t, reg.RecordCircleJoined(ctx, svc, alice))
	require.NoError(t, reg.RecordCircleJoined(ctx, svc, alice))

	u, err := reg.RecordCircleCompletion(ctx, svc, alice)
	require.NoError(t, err)
	require.Equal(t, uint64(1), u.CirclesCompleted)
	require.Equal(t, uint64(1), u.CirclesActive)
	require.Equal(t, uint64(50), u.Score)
	require.Equal(t, basics.TierBronze, u.Tier)

	u, err = reg.RecordCircleCompletion(ctx, svc, alice)
	require.NoError(t, err)
	require.Equal(t, uint64(2), u.CirclesCompleted)
	require.Zero(t, u.CirclesActive)
	require.Equal(t, uint64(100), u.Score)

	// The active count floors at zero instead of underflowing.
	u, err = reg.RecordCircleCompletion(ctx, svc, alice)
	require.NoError(t, err)
	require.Equal(t, uint64(3), u.CirclesCompleted)
	require.Zero(t, u.CirclesActive)
	require.Equal(t, uint64(150), u.Score)
}

func TestScoreIsSnapshot(t *testing.T) {
	reg, clock := openTestRegistry(t)
	ctx := context.Background()
	svc := testAddr("svc")
	bob := testAddr("bob")
	params := v1Params(t)

	u, err := reg.RecordContribution(ctx, svc, bob, basics.MicroUnitsFromUnits(2000), true)
	require.NoError(t, err)
	require.Equal(t, uint64(520), u.Score)

	// Time passing does not change the stored score: queries return the
	// snapshot from the last scoring event.
	clock.advance(3 * int64(params.MonthSeconds))
	score, err := reg.Score(ctx, bob)
	require.NoError(t, err)
	require.Equal(t, uint64(520), score)

	// Neither does a join, which touches the record but never rescores.
	require.NoError(t, reg.RecordCircleJoined(ctx, svc, bob))
	score, err = reg.Score(ctx, bob)
	require.NoError(t, err)
	require.Equal(t, uint64(520), score)

	// The next scoring event folds the accumulated age term in.
	u, err = reg.RecordContribution(ctx, svc, bob, basics.MicroUnitsFromUnits(1), true)
	require.NoError(t, err)
	require.Equal(t, uint64(535), u.Score)
}

func TestRegistryQueriesUnknownUser(t *testing.T) {
	reg, _ := openTestRegistry(t)
	ctx := context.Background()
	ghost := testAddr("ghost")

	u, err := reg.Get(ctx, ghost)
	require.NoError(t, err)
	require.True(t, u.IsZero())
	require.False(t, u.Initialized())

	score, err := reg.Score(ctx, ghost)
	require.NoError(t, err)
	require.Zero(t, score)

	tier, err := reg.Tier(ctx, ghost)
	require.NoError(t, err)
	require.Equal(t, basics.TierBronze, tier)
	require.Equal(t, "Bronze", tier.String())

	meets, err := reg.MeetsMinimumScore(ctx, ghost, 0)
	require.NoError(t, err)
	require.True(t, meets)

	meets, err = reg.MeetsMinimumScore(ctx, ghost, 1)
	require.NoError(t, err)
	require.False(t, meets)
}

func TestMeetsMinimumScore(t *testing.T) {
	reg, _ := openTestRegistry(t)
	ctx := context.Background()
	svc := testAddr("svc")
	bob := testAddr("bob")

	u, err := reg.RecordContribution(ctx, svc, bob, basics.MicroUnitsFromUnits(2000), true)
	require.NoError(t, err)
	require.Equal(t, uint64(520), u.Score)

	for min, want := range map[uint64]bool{0: true, 520: true, 521: false, 1000: false} {
		meets, err := reg.MeetsMinimumScore(ctx, bob, min)
		require.NoError(t, err)
		require.Equal(t, want, meets, "min %d", min)
	}
}

func TestRegistryReload(t *testing.T) {
	dbName := filepath.Join(t.TempDir(), "reputation.sqlite")
	ctx := context.Background()
	owner := testAddr("owner")
	svc := testAddr("svc")
	alice := testAddr("alice")
	bob := testAddr("bob")
	params := config.Circles[protocol.CircleV1]

	reg, err := OpenRegistry(logging.TestingLog(t), dbName, false, owner, params)
	require.NoError(t, err)
	clock := &fakeClock{now: scoreTestNow}
	reg.SetClock(clock)

	require.NoError(t, reg.SetAuthorizedCaller(ctx, owner, svc, true))
	require.NoError(t, reg.InitializeUser(ctx, svc, alice))
	ubob, err := reg.RecordContribution(ctx, svc, bob, basics.MicroUnitsFromUnits(2000), true)
	require.NoError(t, err)

	reg.Close()

	// Everything survives a restart: the allowlist, the records, and the
	// stored score snapshots.
	reg, err = OpenRegistry(logging.TestingLog(t), dbName, false, owner, params)
	require.NoError(t, err)
	t.Cleanup(reg.Close)
	reg.SetClock(clock)

	require.True(t, reg.Authorized(svc))

	got, err := reg.Get(ctx, bob)
	require.NoError(t, err)
	require.Equal(t, ubob, got)

	ualice, err := reg.Get(ctx, alice)
	require.NoError(t, err)
	require.True(t, ualice.Initialized())
	require.Equal(t, scoreTestNow, ualice.AccountCreatedAt)

	n, err := reg.Users(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(2), n)

	// And the reopened registry keeps serving mutations.
	require.NoError(t, reg.RecordCircleJoined(ctx, svc, alice))
}
