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

	"github.com/algorand/go-deadlock"

	"github.com/susu-finance/go-susu/data/basics"
	"github.com/susu-finance/go-susu/data/circles"
	"github.com/susu-finance/go-susu/ledger/ledgercore"
)

// SerializedLedger makes a Ledger safe for concurrent hosts.  Mutating
// calls take the write lock, so they execute in a total order; queries
// share the read lock.  A mutating call that arrives on the call stack of
// an operation already in flight, which happens when a collaborator calls
// back in, is rejected with ReentrancyError before it can deadlock on the
// write lock.
type SerializedLedger struct {
	mu deadlock.RWMutex
	l  *Ledger
}

// MakeSerializedLedger wraps l.  The caller must finish wiring l's
// collaborators first.
func MakeSerializedLedger(l *Ledger) *SerializedLedger {
	return &SerializedLedger{l: l}
}

// Ledger returns the wrapped core, for wiring at startup.  Using it to
// mutate state while the wrapper is serving defeats the lock.
func (sl *SerializedLedger) Ledger() *Ledger {
	return sl.l
}

// Close drains in-flight calls and shuts the core down.
func (sl *SerializedLedger) Close() {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	sl.l.Close()
}

// RegisterListeners registers event listeners on the wrapped ledger.
func (sl *SerializedLedger) RegisterListeners(listeners []EventListener) {
	sl.l.RegisterListeners(listeners)
}

// CreateCircle opens a new pending circle.  See Ledger.CreateCircle.
func (sl *SerializedLedger) CreateCircle(ctx context.Context, caller basics.Address, amount basics.MicroUnits, frequencySeconds uint64, duration uint64, goal circles.GoalType) (circles.CircleID, error) {
	if inOp(ctx) {
		ledgerOpErrorsTotal.Inc()
		return circles.CircleID{}, ledgercore.ReentrancyError{Op: "CreateCircle"}
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()

	id, err := sl.l.CreateCircle(ctx, caller, amount, frequencySeconds, duration, goal)
	if err != nil {
		ledgerOpErrorsTotal.Inc()
		return circles.CircleID{}, err
	}
	ledgerCircleCreatesTotal.Inc()
	return id, nil
}

// JoinCircle adds caller to a pending circle.  See Ledger.JoinCircle.
func (sl *SerializedLedger) JoinCircle(ctx context.Context, caller basics.Address, id circles.CircleID, value basics.MicroUnits) error {
	if inOp(ctx) {
		ledgerOpErrorsTotal.Inc()
		return ledgercore.ReentrancyError{Op: "JoinCircle"}
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()

	err := sl.l.JoinCircle(ctx, caller, id, value)
	if err != nil {
		ledgerOpErrorsTotal.Inc()
		return err
	}
	ledgerCircleJoinsTotal.Inc()
	return nil
}

// Contribute credits caller's contribution for the current round.  See
// Ledger.Contribute.
func (sl *SerializedLedger) Contribute(ctx context.Context, caller basics.Address, id circles.CircleID, value basics.MicroUnits) error {
	if inOp(ctx) {
		ledgerOpErrorsTotal.Inc()
		return ledgercore.ReentrancyError{Op: "Contribute"}
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()

	err := sl.l.Contribute(ctx, caller, id, value)
	if err != nil {
		ledgerOpErrorsTotal.Inc()
		return err
	}
	ledgerContributionsTotal.Inc()
	return nil
}

// ProcessPayout closes the current round by paying recipient.  See
// Ledger.ProcessPayout.
func (sl *SerializedLedger) ProcessPayout(ctx context.Context, caller basics.Address, id circles.CircleID, recipient basics.Address) (circles.Payout, error) {
	if inOp(ctx) {
		ledgerOpErrorsTotal.Inc()
		return circles.Payout{}, ledgercore.ReentrancyError{Op: "ProcessPayout"}
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()

	payout, err := sl.l.ProcessPayout(ctx, caller, id, recipient)
	if err != nil {
		ledgerOpErrorsTotal.Inc()
		return circles.Payout{}, err
	}
	ledgerPayoutsTotal.Inc()
	ledgerDisbursedTotal.AddUint64(basics.AddSaturate(payout.Base.Raw, payout.Bonus.Raw))
	return payout, nil
}

// WithdrawFees draws from the protocol fee balance.  See
// Ledger.WithdrawFees.
func (sl *SerializedLedger) WithdrawFees(ctx context.Context, caller basics.Address, recipient basics.Address, amount basics.MicroUnits) error {
	if inOp(ctx) {
		ledgerOpErrorsTotal.Inc()
		return ledgercore.ReentrancyError{Op: "WithdrawFees"}
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()

	err := sl.l.WithdrawFees(ctx, caller, recipient, amount)
	if err != nil {
		ledgerOpErrorsTotal.Inc()
		return err
	}
	ledgerFeeWithdrawalsTotal.Inc()
	ledgerDisbursedTotal.AddUint64(amount.Raw)
	return nil
}

// Circle returns a deep copy of the circle's full record.
func (sl *SerializedLedger) Circle(id circles.CircleID) (circles.Circle, error) {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	return sl.l.Circle(id)
}

// Members returns the circle's membership in join order.
func (sl *SerializedLedger) Members(id circles.CircleID) ([]basics.Address, error) {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	return sl.l.Members(id)
}

// Contributions returns the circle's contribution log.
func (sl *SerializedLedger) Contributions(id circles.CircleID) ([]circles.Contribution, error) {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	return sl.l.Contributions(id)
}

// Payouts returns the circle's payout log.
func (sl *SerializedLedger) Payouts(id circles.CircleID) ([]circles.Payout, error) {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	return sl.l.Payouts(id)
}

// HasContributed reports whether member contributed in the given round.
func (sl *SerializedLedger) HasContributed(id circles.CircleID, round basics.RoundIndex, member basics.Address) (bool, error) {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	return sl.l.HasContributed(id, round, member)
}

// HasReceivedPayout reports whether member has ever been paid by the circle.
func (sl *SerializedLedger) HasReceivedPayout(id circles.CircleID, member basics.Address) (bool, error) {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	return sl.l.HasReceivedPayout(id, member)
}

// EscrowBalance returns the circle's escrowed balance.
func (sl *SerializedLedger) EscrowBalance(id circles.CircleID) (basics.MicroUnits, error) {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	return sl.l.EscrowBalance(id)
}

// ProtocolFees returns the withdrawable protocol fee balance.
func (sl *SerializedLedger) ProtocolFees() basics.MicroUnits {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	return sl.l.ProtocolFees()
}

// Totals returns the ledger's lifetime aggregates.
func (sl *SerializedLedger) Totals() ledgercore.Totals {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	return sl.l.Totals()
}

// Owner returns the address allowed to withdraw protocol fees.  The owner
// is fixed at open, so no lock is taken.
func (sl *SerializedLedger) Owner() basics.Address {
	return sl.l.Owner()
}

// Latest returns the sequence of the most recent event, zero when none.
func (sl *SerializedLedger) Latest() uint64 {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	return sl.l.Latest()
}

// Events returns up to max events starting at sequence first.
func (sl *SerializedLedger) Events(ctx context.Context, first uint64, max uint64) ([]circles.Event, error) {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	return sl.l.Events(ctx, first, max)
}
