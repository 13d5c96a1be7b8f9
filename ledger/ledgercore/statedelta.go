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

package ledgercore

import (
	"github.com/susu-finance/go-susu/data/basics"
	"github.com/susu-finance/go-susu/data/circles"
)

// RepDirectiveKind selects which reputation mutation a directive carries.
type RepDirectiveKind byte

const (
	// RepInitUser creates the user's reputation record if absent.
	RepInitUser RepDirectiveKind = iota
	// RepCircleJoined counts the user into an active circle.
	RepCircleJoined
	// RepContribution records a contribution of Amount, on time or not.
	RepContribution
	// RepCircleCompleted moves one of the user's circles from active to
	// completed and recomputes their score.
	RepCircleCompleted
)

// A RepDirective is a pending reputation mutation. Operations queue
// directives in their delta; the ledger dispatches them to its recorder only
// after the delta has committed, so a failed operation never touches
// reputation state.
type RepDirective struct {
	Kind   RepDirectiveKind
	User   basics.Address
	Amount basics.MicroUnits
	OnTime bool
}

// Totals tracks lifetime aggregates across every circle the ledger has seen.
type Totals struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// Circles counts circles ever created.
	Circles uint64 `codec:"crc"`

	// Pooled is the lifetime sum of all contributions.
	Pooled basics.MicroUnits `codec:"pool"`

	// Interest is the lifetime member interest credited by payouts.
	Interest basics.MicroUnits `codec:"int"`

	// FeesAccrued is the lifetime protocol fee accrual. It is bookkeeping
	// only: accrual never moves funds out of any circle's escrow, so the fee
	// balance is not backed one-for-one by held value.
	FeesAccrued basics.MicroUnits `codec:"facc"`

	// FeesWithdrawn is the lifetime total drawn from the fee balance.
	FeesWithdrawn basics.MicroUnits `codec:"fwdr"`
}

// FeeBalance returns the withdrawable protocol fee balance.
func (t Totals) FeeBalance() basics.MicroUnits {
	balance, overflowed := basics.OSubU(t.FeesAccrued, t.FeesWithdrawn)
	if overflowed {
		// Withdrawals are checked against the balance before committing.
		return basics.MicroUnits{}
	}
	return balance
}

// StateDelta holds the state changes produced by evaluating a single ledger
// operation. Operations validate against the parent state, record every
// mutation here, and the ledger applies the whole delta in one database
// transaction. An operation error discards the delta, leaving the parent
// state untouched.
type StateDelta struct {
	// Circles holds the post-operation snapshot of every circle the
	// operation touched, keyed by circle ID.
	// Not pre-allocated, use AddCircle instead of direct assignment.
	Circles map[circles.CircleID]circles.Circle

	// Events are appended to the ledger's event log in order. Sequence
	// numbers are assigned at commit time, after the operation has already
	// succeeded.
	Events []circles.Event

	// Created counts circles created by the operation.
	Created uint64

	// Pooled is added to the lifetime pooled total.
	Pooled basics.MicroUnits

	// Interest is added to the lifetime member interest total.
	Interest basics.MicroUnits

	// FeeAccrued is added to the protocol fee balance.
	FeeAccrued basics.MicroUnits

	// FeeWithdrawn is drawn from the protocol fee balance.
	FeeWithdrawn basics.MicroUnits

	// Reps are reputation directives dispatched after a successful commit,
	// in queue order.
	Reps []RepDirective
}

// MakeStateDelta creates a new StateDelta sized for an operation that
// touches hint circles.
func MakeStateDelta(hint int) StateDelta {
	return StateDelta{
		Circles: make(map[circles.CircleID]circles.Circle, hint),
	}
}

// AddCircle records the post-operation snapshot of a circle, replacing any
// earlier snapshot of the same circle.
func (sd *StateDelta) AddCircle(c circles.Circle) {
	if sd.Circles == nil {
		sd.Circles = make(map[circles.CircleID]circles.Circle)
	}
	sd.Circles[c.ID] = c
}

// Circle returns the delta's snapshot of the given circle, if the operation
// has touched it.
func (sd *StateDelta) Circle(id circles.CircleID) (circles.Circle, bool) {
	c, ok := sd.Circles[id]
	return c, ok
}

// AddEvent appends an event to the delta's log.
func (sd *StateDelta) AddEvent(ev circles.Event) {
	sd.Events = append(sd.Events, ev)
}

// AddRep queues a reputation directive.
func (sd *StateDelta) AddRep(dir RepDirective) {
	sd.Reps = append(sd.Reps, dir)
}

// ApplyDelta folds the delta's aggregate changes into the totals. The
// returned totals are the post-commit values; ot records any overflow.
func (t Totals) ApplyDelta(sd StateDelta, ot *basics.OverflowTracker) Totals {
	t.Circles = ot.Add(t.Circles, sd.Created)
	t.Pooled = ot.AddU(t.Pooled, sd.Pooled)
	t.Interest = ot.AddU(t.Interest, sd.Interest)
	t.FeesAccrued = ot.AddU(t.FeesAccrued, sd.FeeAccrued)
	t.FeesWithdrawn = ot.AddU(t.FeesWithdrawn, sd.FeeWithdrawn)
	return t
}
