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

// Package ledger implements the circle ledger: the single owner of circle
// lifecycle, membership, round accounting, escrow, the protocol fee balance,
// and the append-only event log.  All durable state lives in one sqlite
// database; the in-memory maps are a cache of it, rebuilt on open.  The
// Ledger type itself is unsynchronized; hosts serialize access through
// SerializedLedger.
package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/susu-finance/go-susu/config"
	"github.com/susu-finance/go-susu/data/basics"
	"github.com/susu-finance/go-susu/data/circles"
	"github.com/susu-finance/go-susu/ledger/ledgercore"
	"github.com/susu-finance/go-susu/logging"
	"github.com/susu-finance/go-susu/protocol"
	"github.com/susu-finance/go-susu/util/db"
)

// PaymentKind labels why value left the ledger.
type PaymentKind string

const (
	// PaymentPayout is a round payout to a circle member.
	PaymentPayout PaymentKind = "payout"
	// PaymentFees is a protocol fee withdrawal.
	PaymentFees PaymentKind = "fees"
)

// A Disburser carries value out of the ledger.  It is called inside the
// operation that owes the value, before that operation commits, so a
// disbursement failure rolls the whole operation back.
//
// Implementations must not call back into the ledger.  A mutating call made
// with the context passed to Disburse is rejected with ReentrancyError; a
// call made on a fresh context from inside Disburse will wait on the
// ledger's lock and deadlock.
type Disburser interface {
	Disburse(ctx context.Context, recipient basics.Address, amount basics.MicroUnits, kind PaymentKind) error
}

// NullDisburser accepts every disbursement without moving value.  It is the
// default collaborator: settlement is someone else's problem until the host
// wires a real one.
type NullDisburser struct{}

// Disburse implements Disburser.
func (NullDisburser) Disburse(ctx context.Context, recipient basics.Address, amount basics.MicroUnits, kind PaymentKind) error {
	return nil
}

// ReputationUpdate reports a recomputed score after a recorder call.
type ReputationUpdate struct {
	Score uint64
	Tier  string
}

// A RepRecorder receives the reputation side effects of committed ledger
// operations.  The ledger dispatches to it after its own delta has
// committed, so a failed operation never reaches the recorder, and a
// recorder error cannot unwind ledger state; it is logged and dropped.
// The ledger never reads reputation back for its own decisions.
//
// RecordContribution and RecordCircleCompletion recompute the user's score;
// they return the update and true so the ledger can log it to the event
// stream.  The other calls never recompute.
type RepRecorder interface {
	InitializeUser(ctx context.Context, user basics.Address) error
	RecordCircleJoined(ctx context.Context, user basics.Address) error
	RecordContribution(ctx context.Context, user basics.Address, amount basics.MicroUnits, onTime bool) (ReputationUpdate, bool, error)
	RecordCircleCompletion(ctx context.Context, user basics.Address) (ReputationUpdate, bool, error)
}

// NullRepRecorder ignores every directive.
type NullRepRecorder struct{}

// InitializeUser implements RepRecorder.
func (NullRepRecorder) InitializeUser(ctx context.Context, user basics.Address) error {
	return nil
}

// RecordCircleJoined implements RepRecorder.
func (NullRepRecorder) RecordCircleJoined(ctx context.Context, user basics.Address) error {
	return nil
}

// RecordContribution implements RepRecorder.
func (NullRepRecorder) RecordContribution(ctx context.Context, user basics.Address, amount basics.MicroUnits, onTime bool) (ReputationUpdate, bool, error) {
	return ReputationUpdate{}, false, nil
}

// RecordCircleCompletion implements RepRecorder.
func (NullRepRecorder) RecordCircleCompletion(ctx context.Context, user basics.Address) (ReputationUpdate, bool, error) {
	return ReputationUpdate{}, false, nil
}

// Ledger is the unsynchronized ledger core.  Callers must serialize every
// method on it; SerializedLedger does that for concurrent hosts.  The
// in-memory fields mirror the database exactly: an operation first commits
// its delta in one transaction and only then folds the delta into memory.
type Ledger struct {
	log logging.Logger

	// dbs holds the read and write connections to circles.sqlite.
	dbs db.Pair

	// owner is the only caller allowed to withdraw protocol fees.
	owner basics.Address

	// protos are the known rule versions; version is assigned to newly
	// created circles.  Existing circles keep the version they were
	// created under.
	protos  config.CircleProtocols
	version protocol.CircleVersion

	circles map[circles.CircleID]*circles.Circle
	totals  ledgercore.Totals

	// nextSeq is the sequence number the next appended event will carry.
	nextSeq uint64

	disburser  Disburser
	reputation RepRecorder
	clock      Clock
	notifier   eventNotifier

	// busy is set for the duration of each operation.  The caller's
	// serialization keeps it uncontended; it exists so a reentrant call
	// that somehow reaches the core fails instead of corrupting a
	// half-built delta.
	busy bool
}

// OpenLedger opens the ledger database at dbFilename (in-memory if dbMem is
// true), initializes the schema if needed, and loads all durable state into
// memory.  New circles are created under version, which must be present in
// protos.  The returned ledger uses the wall clock and null collaborators
// until the host wires real ones.
func OpenLedger(log logging.Logger, dbFilename string, dbMem bool, owner basics.Address, protos config.CircleProtocols, version protocol.CircleVersion) (*Ledger, error) {
	var err error
	if _, ok := protos[version]; !ok {
		return nil, fmt.Errorf("OpenLedger: unknown circle rule version %v", version)
	}

	l := &Ledger{
		log:        log,
		owner:      owner,
		protos:     protos,
		version:    version,
		disburser:  NullDisburser{},
		reputation: NullRepRecorder{},
		clock:      wallClock{},
	}

	defer func() {
		if err != nil {
			l.Close()
		}
	}()

	l.dbs, err = db.OpenPair(dbFilename, dbMem)
	if err != nil {
		err = fmt.Errorf("OpenLedger.OpenPair: %v", err)
		return nil, err
	}
	l.dbs.SetLogger(log)

	err = l.dbs.Wdb.Atomic(circleInit)
	if err != nil {
		err = fmt.Errorf("OpenLedger.circleInit: %v", err)
		return nil, err
	}

	err = l.reload()
	if err != nil {
		err = fmt.Errorf("OpenLedger.reload: %v", err)
		return nil, err
	}

	l.notifier.start()
	return l, nil
}

// reload rebuilds the in-memory cache from the database.
func (l *Ledger) reload() error {
	return l.dbs.Rdb.Atomic(func(ctx context.Context, tx *sql.Tx) error {
		var err error
		l.circles, err = circleLoadAll(tx)
		if err != nil {
			return err
		}
		l.totals, err = totalsGet(tx)
		if err != nil {
			return err
		}
		l.nextSeq, err = eventNext(tx)
		return err
	})
}

// Close shuts the notifier down and closes the database connections.  The
// notifier goes first so no listener callback can observe a closed ledger.
func (l *Ledger) Close() {
	l.notifier.close()
	l.dbs.Close()
}

// SetDisburser wires the outbound value transfer collaborator.  Not safe to
// call once the ledger is serving operations.
func (l *Ledger) SetDisburser(d Disburser) {
	l.disburser = d
}

// SetRepRecorder wires the reputation collaborator.  Not safe to call once
// the ledger is serving operations.
func (l *Ledger) SetRepRecorder(r RepRecorder) {
	l.reputation = r
}

// SetClock replaces the ledger's clock.  Not safe to call once the ledger
// is serving operations.
func (l *Ledger) SetClock(c Clock) {
	l.clock = c
}

// RegisterListeners registers listeners that are called, in commit order,
// for every event the ledger appends.
func (l *Ledger) RegisterListeners(listeners []EventListener) {
	l.notifier.register(listeners)
}

// opCtxKey marks a context as belonging to an in-flight ledger operation.
type opCtxKey struct{}

// markInOp tags ctx as running inside a guarded ledger operation.  The
// ledger arms every context it hands to a collaborator, so a collaborator
// that calls back in on the same call stack is rejected instead of
// deadlocking on the host's lock.
func markInOp(ctx context.Context) context.Context {
	return context.WithValue(ctx, opCtxKey{}, true)
}

func inOp(ctx context.Context) bool {
	marked, _ := ctx.Value(opCtxKey{}).(bool)
	return marked
}

func (l *Ledger) beginOp(ctx context.Context, op string) error {
	if inOp(ctx) || l.busy {
		return ledgercore.ReentrancyError{Op: op}
	}
	l.busy = true
	return nil
}

func (l *Ledger) endOp() {
	l.busy = false
}

// commit makes an operation's delta durable and visible: sequence numbers
// are assigned, the delta is written in one database transaction, the
// in-memory cache absorbs it, and the events fan out to listeners.  An
// error leaves both the database and the cache at the pre-operation state.
func (l *Ledger) commit(ctx context.Context, cw *circleCow) error {
	seq := l.nextSeq
	for i := range cw.mods.Events {
		cw.mods.Events[i].Sequence = seq
		seq++
	}

	var ot basics.OverflowTracker
	newTotals := l.totals.ApplyDelta(cw.mods, &ot)
	if ot.Overflowed {
		return fmt.Errorf("commit: ledger totals overflow")
	}

	err := l.dbs.Wdb.AtomicContext(ctx, func(ctx context.Context, tx *sql.Tx) error {
		for id := range cw.mods.Circles {
			c := cw.mods.Circles[id]
			err := circlePut(tx, &c)
			if err != nil {
				return err
			}
		}
		for _, ev := range cw.mods.Events {
			err := eventPut(tx, ev)
			if err != nil {
				return err
			}
		}
		return totalsPut(tx, newTotals)
	})
	if err != nil {
		return err
	}

	for id, c := range cw.mods.Circles {
		committed := c
		l.circles[id] = &committed
	}
	l.totals = newTotals
	l.nextSeq = seq

	ledgerEventsEmittedTotal.AddUint64(uint64(len(cw.mods.Events)))
	l.notifier.enqueue(cw.mods.Events)
	return nil
}

// appendEvents appends events that arise outside an operation's own delta,
// such as reputation recomputes reported back by the recorder.
func (l *Ledger) appendEvents(ctx context.Context, evs []circles.Event) error {
	seq := l.nextSeq
	for i := range evs {
		evs[i].Sequence = seq
		seq++
	}

	err := l.dbs.Wdb.AtomicContext(ctx, func(ctx context.Context, tx *sql.Tx) error {
		for _, ev := range evs {
			err := eventPut(tx, ev)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	l.nextSeq = seq
	ledgerEventsEmittedTotal.AddUint64(uint64(len(evs)))
	l.notifier.enqueue(evs)
	return nil
}

// dispatchReps forwards an operation's queued reputation directives to the
// recorder.  The operation has already committed; recorder failures are
// logged and skipped so one bad directive cannot starve the rest.  Score
// recomputes come back as reputation-changed events on the ledger's log.
func (l *Ledger) dispatchReps(ctx context.Context, reps []ledgercore.RepDirective) {
	if len(reps) == 0 {
		return
	}

	rctx := markInOp(ctx)
	now := l.clock.Now()
	var evs []circles.Event
	for _, dir := range reps {
		var upd ReputationUpdate
		var scored bool
		var err error
		switch dir.Kind {
		case ledgercore.RepInitUser:
			err = l.reputation.InitializeUser(rctx, dir.User)
		case ledgercore.RepCircleJoined:
			err = l.reputation.RecordCircleJoined(rctx, dir.User)
		case ledgercore.RepContribution:
			upd, scored, err = l.reputation.RecordContribution(rctx, dir.User, dir.Amount, dir.OnTime)
		case ledgercore.RepCircleCompleted:
			upd, scored, err = l.reputation.RecordCircleCompletion(rctx, dir.User)
		default:
			err = fmt.Errorf("unknown directive kind %d", dir.Kind)
		}
		if err != nil {
			l.log.Warnf("ledger: reputation update for %v failed: %v", dir.User, err)
			continue
		}
		if scored {
			evs = append(evs, circles.Event{
				Tag:       protocol.ReputationChangedTag,
				Timestamp: now,
				ReputationEventFields: circles.ReputationEventFields{
					User:  dir.User,
					Score: upd.Score,
					Tier:  upd.Tier,
				},
			})
		}
	}

	if len(evs) > 0 {
		err := l.appendEvents(ctx, evs)
		if err != nil {
			l.log.Warnf("ledger: appending reputation events failed: %v", err)
		}
	}
}

// Circle returns a deep copy of the circle's full record.
func (l *Ledger) Circle(id circles.CircleID) (circles.Circle, error) {
	c, ok := l.circles[id]
	if !ok {
		return circles.Circle{}, ledgercore.CircleNotFoundError{ID: id}
	}
	return *c.Clone(), nil
}

// Members returns the circle's membership in join order.
func (l *Ledger) Members(id circles.CircleID) ([]basics.Address, error) {
	c, ok := l.circles[id]
	if !ok {
		return nil, ledgercore.CircleNotFoundError{ID: id}
	}
	return append([]basics.Address(nil), c.Members...), nil
}

// Contributions returns the circle's append-only contribution log.
func (l *Ledger) Contributions(id circles.CircleID) ([]circles.Contribution, error) {
	c, ok := l.circles[id]
	if !ok {
		return nil, ledgercore.CircleNotFoundError{ID: id}
	}
	return append([]circles.Contribution(nil), c.Contributions...), nil
}

// Payouts returns the circle's append-only payout log.
func (l *Ledger) Payouts(id circles.CircleID) ([]circles.Payout, error) {
	c, ok := l.circles[id]
	if !ok {
		return nil, ledgercore.CircleNotFoundError{ID: id}
	}
	return append([]circles.Payout(nil), c.Payouts...), nil
}

// HasContributed reports whether member contributed in the given round of
// the circle.
func (l *Ledger) HasContributed(id circles.CircleID, round basics.RoundIndex, member basics.Address) (bool, error) {
	c, ok := l.circles[id]
	if !ok {
		return false, ledgercore.CircleNotFoundError{ID: id}
	}
	return c.HasContributed(round, member), nil
}

// HasReceivedPayout reports whether member has ever been paid by the circle.
func (l *Ledger) HasReceivedPayout(id circles.CircleID, member basics.Address) (bool, error) {
	c, ok := l.circles[id]
	if !ok {
		return false, ledgercore.CircleNotFoundError{ID: id}
	}
	return c.HasReceivedPayout(member), nil
}

// EscrowBalance returns the pooled value currently held for the circle.
func (l *Ledger) EscrowBalance(id circles.CircleID) (basics.MicroUnits, error) {
	c, ok := l.circles[id]
	if !ok {
		return basics.MicroUnits{}, ledgercore.CircleNotFoundError{ID: id}
	}
	return c.Escrow, nil
}

// Owner returns the address allowed to withdraw protocol fees.
func (l *Ledger) Owner() basics.Address {
	return l.owner
}

// ProtocolFees returns the withdrawable protocol fee balance.
func (l *Ledger) ProtocolFees() basics.MicroUnits {
	return l.totals.FeeBalance()
}

// Totals returns the ledger's lifetime aggregates.
func (l *Ledger) Totals() ledgercore.Totals {
	return l.totals
}

// Latest returns the sequence of the most recently appended event, or zero
// when the log is empty.
func (l *Ledger) Latest() uint64 {
	return l.nextSeq - 1
}

// Events returns up to max events starting at sequence first, straight from
// the durable log.
func (l *Ledger) Events(ctx context.Context, first uint64, max uint64) ([]circles.Event, error) {
	var evs []circles.Event
	err := l.dbs.Rdb.AtomicContext(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		evs, err = eventGetRange(tx, first, max)
		return err
	})
	return evs, err
}
