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
	"github.com/susu-finance/go-susu/data/basics"
	"github.com/susu-finance/go-susu/data/circles"
	"github.com/susu-finance/go-susu/ledger/ledgercore"
	"github.com/susu-finance/go-susu/protocol"
)

// circleCow is the copy-on-write view an operation evaluates against.  Reads
// fall through to the committed parent state; every mutation lands in the
// delta, never in the parent.  If the operation fails, the cow is dropped and
// the parent is untouched.  If it succeeds, the ledger commits the whole
// delta in one database transaction and only then folds it into memory.
type circleCow struct {
	parent *Ledger
	mods   ledgercore.StateDelta

	// ts is the operation timestamp, read from the clock once so every
	// record and event written by this operation agrees on the time.
	ts int64
}

func (l *Ledger) newCow() *circleCow {
	return &circleCow{
		parent: l,
		mods:   ledgercore.MakeStateDelta(1),
		ts:     l.clock.Now(),
	}
}

// lookup returns a mutable copy of the circle: the delta's copy if this
// operation already touched it, otherwise a clone of the committed record.
// Callers mutate the copy and hand it back through put.
func (cw *circleCow) lookup(id circles.CircleID) (*circles.Circle, bool) {
	if c, ok := cw.mods.Circle(id); ok {
		return &c, true
	}
	if c, ok := cw.parent.circles[id]; ok {
		return c.Clone(), true
	}
	return nil, false
}

func (cw *circleCow) put(c *circles.Circle) {
	cw.mods.AddCircle(*c)
}

// feeBalance is the withdrawable protocol fee balance as this operation
// sees it, including its own pending accruals and withdrawals.
func (cw *circleCow) feeBalance() basics.MicroUnits {
	balance := cw.parent.totals.FeeBalance()
	balance = basics.MicroUnits{Raw: basics.AddSaturate(balance.Raw, cw.mods.FeeAccrued.Raw)}
	return basics.MicroUnits{Raw: basics.SubSaturate(balance.Raw, cw.mods.FeeWithdrawn.Raw)}
}

func (cw *circleCow) event(tag protocol.EventTag, fill func(*circles.Event)) {
	ev := circles.Event{
		Tag:       tag,
		Timestamp: cw.ts,
	}
	fill(&ev)
	cw.mods.AddEvent(ev)
}

func (cw *circleCow) rep(dir ledgercore.RepDirective) {
	cw.mods.AddRep(dir)
}

// credit records a contribution of value by member into the circle's
// current round: flag set, log appended, escrow and lifetime totals
// increased by the full value.  Overpayment beyond the per-round amount is
// pooled, not refunded.
func (cw *circleCow) credit(c *circles.Circle, member basics.Address, value basics.MicroUnits) error {
	var err error
	c.Escrow, err = addMicroUnits(c.Escrow, value)
	if err != nil {
		return err
	}
	c.TotalPooled, err = addMicroUnits(c.TotalPooled, value)
	if err != nil {
		return err
	}
	cw.mods.Pooled, err = addMicroUnits(cw.mods.Pooled, value)
	if err != nil {
		return err
	}

	c.SetContributed(c.CurrentRound, member)
	c.Contributions = append(c.Contributions, circles.Contribution{
		Member:    member,
		Amount:    value,
		Timestamp: cw.ts,
		Round:     c.CurrentRound,
	})
	return nil
}
