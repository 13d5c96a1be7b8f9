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

// Package reputation maintains the per-user reputation registry.  User
// records are created implicitly the first time an authorized caller
// mentions an address; counters only ever accumulate, and a user record is
// never deleted.  The score and tier stored on a record are recomputed on
// contribution and completion events only, so queries return the snapshot
// left by the most recent scoring event.
//
// Every mutating entry point requires the caller to be on an allowlist
// maintained by the registry owner.  The registry is a one-way collaborator
// of the circle ledger: the ledger reports events into it and never reads
// scores back.
package reputation

import (
	"context"
	"fmt"
	"time"

	"github.com/algorand/go-deadlock"
	"github.com/jmoiron/sqlx"

	"github.com/susu-finance/go-susu/config"
	"github.com/susu-finance/go-susu/data/basics"
	"github.com/susu-finance/go-susu/ledger/ledgercore"
	"github.com/susu-finance/go-susu/logging"
	"github.com/susu-finance/go-susu/util/db"
	"github.com/susu-finance/go-susu/util/metrics"
)

var reputationUpdatesTotal = metrics.MakeCounter(metrics.ReputationUpdates)

// Clock supplies the registry's notion of current time, in unix seconds.
// It feeds the account-age term of the score, so tests inject a fake to get
// deterministic scores.
type Clock interface {
	Now() int64
}

type wallClock struct{}

func (wallClock) Now() int64 {
	return time.Now().Unix()
}

// Registry is the reputation registry.  Mutating calls serialize on the
// write lock; queries share the read lock.  Every user record lives in
// reputation.sqlite, one row per address; the registry keeps no per-user
// cache, only the caller allowlist is held in memory.
type Registry struct {
	log logging.Logger

	mu deadlock.RWMutex

	// dbs owns the sqlite connections; wdb and rdb wrap the same handles
	// for struct-mapped row access.
	dbs db.Pair
	wdb *sqlx.DB
	rdb *sqlx.DB

	// owner is the only address allowed to edit the caller allowlist.
	owner basics.Address

	// params supplies the scoring weights and tier thresholds.  Scoring
	// always uses the current rule set; unlike circles, user records are
	// not pinned to the version in force when they were created.
	params config.CircleParams

	clock Clock

	callers map[basics.Address]bool
}

// OpenRegistry opens the registry database at dbFilename (in-memory if
// dbMem is true), initializes the schema if needed, and loads the caller
// allowlist.  The returned registry uses the wall clock until the host
// wires a fake.
func OpenRegistry(log logging.Logger, dbFilename string, dbMem bool, owner basics.Address, params config.CircleParams) (*Registry, error) {
	var err error
	reg := &Registry{
		log:    log,
		owner:  owner,
		params: params,
		clock:  wallClock{},
	}

	defer func() {
		if err != nil {
			reg.Close()
		}
	}()

	reg.dbs, err = db.OpenPair(dbFilename, dbMem)
	if err != nil {
		err = fmt.Errorf("OpenRegistry.OpenPair: %v", err)
		return nil, err
	}
	reg.dbs.SetLogger(log)
	reg.wdb = sqlx.NewDb(reg.dbs.Wdb.Handle, "sqlite3")
	reg.rdb = sqlx.NewDb(reg.dbs.Rdb.Handle, "sqlite3")

	err = reg.dbs.Wdb.Atomic(repInit)
	if err != nil {
		err = fmt.Errorf("OpenRegistry.repInit: %v", err)
		return nil, err
	}

	reg.callers, err = callersLoad(context.Background(), reg.rdb)
	if err != nil {
		err = fmt.Errorf("OpenRegistry.callersLoad: %v", err)
		return nil, err
	}
	return reg, nil
}

// Close closes the database connections.
func (reg *Registry) Close() {
	reg.dbs.Close()
}

// SetClock replaces the registry's clock.  Not safe to call once the
// registry is serving calls.
func (reg *Registry) SetClock(c Clock) {
	reg.clock = c
}

// Owner returns the address allowed to edit the caller allowlist.
func (reg *Registry) Owner() basics.Address {
	return reg.owner
}

// SetAuthorizedCaller grants or revokes addr's right to invoke the
// registry's mutating calls.  Only the owner may edit the allowlist; the
// owner itself is not implicitly on it.
func (reg *Registry) SetAuthorizedCaller(ctx context.Context, caller basics.Address, addr basics.Address, allowed bool) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if caller != reg.owner {
		return ledgercore.UnauthorizedCallerError{Caller: caller}
	}

	err := callerPut(ctx, reg.wdb, addr, allowed)
	if err != nil {
		return err
	}

	if allowed {
		reg.callers[addr] = true
	} else {
		delete(reg.callers, addr)
	}
	reg.log.Infof("reputation: caller %v allowed=%v", addr, allowed)
	return nil
}

// Authorized reports whether addr may invoke the registry's mutating calls.
func (reg *Registry) Authorized(addr basics.Address) bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.callers[addr]
}

// InitializeUser creates user's record if it does not exist yet, stamping
// both timestamps with the current time.  A record that already exists is
// left completely untouched, so the call is idempotent.
func (reg *Registry) InitializeUser(ctx context.Context, caller basics.Address, user basics.Address) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if !reg.callers[caller] {
		return ledgercore.UnauthorizedCallerError{Caller: caller}
	}

	var wrote bool
	err := reg.atomic(ctx, func(tx *sqlx.Tx) error {
		u, err := repGet(ctx, tx, user)
		if err != nil {
			return err
		}
		if u.Initialized() {
			return nil
		}

		now := reg.clock.Now()
		u.AccountCreatedAt = now
		u.LastActiveAt = now
		wrote = true
		return repPut(ctx, tx, user, u)
	})
	if err == nil && wrote {
		reputationUpdatesTotal.Inc()
	}
	return err
}

// RecordCircleJoined counts user into one more active circle and updates
// their last-active time.  Joining does not recompute the score: scoring is
// driven by contribution and completion events only.
func (reg *Registry) RecordCircleJoined(ctx context.Context, caller basics.Address, user basics.Address) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if !reg.callers[caller] {
		return ledgercore.UnauthorizedCallerError{Caller: caller}
	}

	err := reg.atomic(ctx, func(tx *sqlx.Tx) error {
		u, err := repGet(ctx, tx, user)
		if err != nil {
			return err
		}

		reg.touch(&u)
		u.CirclesActive++
		return repPut(ctx, tx, user, u)
	})
	if err == nil {
		reputationUpdatesTotal.Inc()
	}
	return err
}

// RecordContribution adds amount to user's lifetime volume, counts the
// payment as on-time or missed, and recomputes the score.  It returns the
// record as stored, with the fresh score and tier.
func (reg *Registry) RecordContribution(ctx context.Context, caller basics.Address, user basics.Address, amount basics.MicroUnits, onTime bool) (basics.UserReputation, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if !reg.callers[caller] {
		return basics.UserReputation{}, ledgercore.UnauthorizedCallerError{Caller: caller}
	}

	var u basics.UserReputation
	err := reg.atomic(ctx, func(tx *sqlx.Tx) error {
		var err error
		u, err = repGet(ctx, tx, user)
		if err != nil {
			return err
		}

		reg.touch(&u)
		u.TotalContributed.Raw = basics.AddSaturate(u.TotalContributed.Raw, amount.Raw)
		if onTime {
			u.OnTimePayments++
		} else {
			u.MissedPayments++
		}
		reg.rescore(&u)
		return repPut(ctx, tx, user, u)
	})
	if err != nil {
		return basics.UserReputation{}, err
	}
	reputationUpdatesTotal.Inc()
	return u, nil
}

// RecordCircleCompletion moves one of user's circles from active to
// completed and recomputes the score.  It returns the record as stored,
// with the fresh score and tier.
func (reg *Registry) RecordCircleCompletion(ctx context.Context, caller basics.Address, user basics.Address) (basics.UserReputation, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if !reg.callers[caller] {
		return basics.UserReputation{}, ledgercore.UnauthorizedCallerError{Caller: caller}
	}

	var u basics.UserReputation
	err := reg.atomic(ctx, func(tx *sqlx.Tx) error {
		var err error
		u, err = repGet(ctx, tx, user)
		if err != nil {
			return err
		}

		reg.touch(&u)
		u.CirclesCompleted++
		u.CirclesActive = basics.SubSaturate(u.CirclesActive, 1)
		reg.rescore(&u)
		return repPut(ctx, tx, user, u)
	})
	if err != nil {
		return basics.UserReputation{}, err
	}
	reputationUpdatesTotal.Inc()
	return u, nil
}

// Get returns user's stored record.  A user the registry has never seen
// comes back as the zero record, mirroring how an absent row reads; check
// Initialized to tell the two apart.
func (reg *Registry) Get(ctx context.Context, user basics.Address) (basics.UserReputation, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return repGet(ctx, reg.rdb, user)
}

// Score returns user's stored score from the last recompute.
func (reg *Registry) Score(ctx context.Context, user basics.Address) (uint64, error) {
	u, err := reg.Get(ctx, user)
	if err != nil {
		return 0, err
	}
	return u.Score, nil
}

// Tier returns user's stored tier from the last recompute.
func (reg *Registry) Tier(ctx context.Context, user basics.Address) (basics.Tier, error) {
	u, err := reg.Get(ctx, user)
	if err != nil {
		return basics.TierBronze, err
	}
	return u.Tier, nil
}

// MeetsMinimumScore reports whether user's stored score is at least min.
// It exists for external risk-scoring consumers that only need a yes or no.
func (reg *Registry) MeetsMinimumScore(ctx context.Context, user basics.Address, min uint64) (bool, error) {
	u, err := reg.Get(ctx, user)
	if err != nil {
		return false, err
	}
	return u.Score >= min, nil
}

// Users returns the number of user records the registry holds.
func (reg *Registry) Users(ctx context.Context) (uint64, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return repCount(ctx, reg.rdb)
}

// touch stamps the record's activity times.  The creation time is a
// zero-sentinel set exactly once, the first time any call mentions the
// user.
func (reg *Registry) touch(u *basics.UserReputation) {
	now := reg.clock.Now()
	if u.AccountCreatedAt == 0 {
		u.AccountCreatedAt = now
	}
	u.LastActiveAt = now
}

// rescore recomputes the record's stored score and tier from its counters
// and the current time.
func (reg *Registry) rescore(u *basics.UserReputation) {
	u.Score = computeScore(reg.params, *u, reg.clock.Now())
	u.Tier = scoreTier(reg.params, u.Score)
}

// atomic runs fn inside one write transaction, committing only if fn
// succeeds.  A failed call leaves no partial state behind.
func (reg *Registry) atomic(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := reg.wdb.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = fn(tx)
	if err != nil {
		return err
	}
	return tx.Commit()
}
