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
	"errors"
	"fmt"

	"github.com/susu-finance/go-susu/config"
	"github.com/susu-finance/go-susu/data/basics"
	"github.com/susu-finance/go-susu/data/circles"
	"github.com/susu-finance/go-susu/ledger/ledgercore"
	"github.com/susu-finance/go-susu/protocol"
)

// errAmountOverflow covers sums of member contributions that exceed the
// 64-bit micro-unit range.  Reaching it requires pooling on the order of
// 18 billion whole units, so it exists for checked arithmetic, not as an
// expected outcome.
var errAmountOverflow = errors.New("micro-unit amount overflows")

func addMicroUnits(a, b basics.MicroUnits) (basics.MicroUnits, error) {
	sum, overflowed := basics.OAddU(a, b)
	if overflowed {
		return basics.MicroUnits{}, errAmountOverflow
	}
	return sum, nil
}

// circleParams returns the rule set the circle was created under.
func (l *Ledger) circleParams(c *circles.Circle) (config.CircleParams, error) {
	params, ok := l.protos[c.Version]
	if !ok {
		return config.CircleParams{}, fmt.Errorf("circle %v uses unsupported rule version %v", c.ID, c.Version)
	}
	return params, nil
}

// CreateCircle opens a new savings circle in Pending status with the caller
// as its sole member and no funds held.  The returned ID is derived from
// (caller, now, amount); a colliding creation overwrites the existing
// record, matching the slot-assignment behavior the rules were written
// against.
func (l *Ledger) CreateCircle(ctx context.Context, caller basics.Address, amount basics.MicroUnits, frequencySeconds uint64, duration uint64, goal circles.GoalType) (circles.CircleID, error) {
	if err := l.beginOp(ctx, "CreateCircle"); err != nil {
		return circles.CircleID{}, err
	}
	defer l.endOp()

	params := l.protos[l.version]
	if amount.IsZero() {
		return circles.CircleID{}, fmt.Errorf("%w: got %d", ledgercore.ErrInvalidAmount, amount.Raw)
	}
	if duration < params.MinDuration || duration > params.MaxDuration {
		return circles.CircleID{}, fmt.Errorf("%w: %d not in [%d, %d]", ledgercore.ErrInvalidDuration, duration, params.MinDuration, params.MaxDuration)
	}

	cw := l.newCow()
	id := circles.ComputeCircleID(caller, cw.ts, amount)
	c := &circles.Circle{
		ID:               id,
		Version:          l.version,
		Creator:          caller,
		Amount:           amount,
		FrequencySeconds: frequencySeconds,
		Duration:         duration,
		Goal:             goal,
		Status:           circles.Pending,
		CreatedAt:        cw.ts,
		Members:          []basics.Address{caller},
	}
	cw.put(c)
	cw.mods.Created = 1

	cw.event(protocol.CircleCreatedTag, func(ev *circles.Event) {
		ev.Circle = id
		ev.Member = caller
		ev.Amount = amount
		ev.Duration = duration
		ev.Frequency = frequencySeconds
		ev.Goal = goal
		ev.MemberCount = 1
	})
	cw.rep(ledgercore.RepDirective{Kind: ledgercore.RepInitUser, User: caller})
	cw.rep(ledgercore.RepDirective{Kind: ledgercore.RepCircleJoined, User: caller})

	err := l.commit(ctx, cw)
	if err != nil {
		return circles.CircleID{}, err
	}
	l.dispatchReps(ctx, cw.mods.Reps)
	return id, nil
}

// JoinCircle adds the caller to a pending circle and credits the full
// submitted value as the caller's round-zero contribution.  The instant
// membership reaches the minimum, the circle activates: its start time is
// set and the one-time protocol fee accrues to the ledger's fee balance.
// The fee is bookkeeping against the circle's expected lifetime volume; it
// is not deducted from escrow.
func (l *Ledger) JoinCircle(ctx context.Context, caller basics.Address, id circles.CircleID, value basics.MicroUnits) error {
	if err := l.beginOp(ctx, "JoinCircle"); err != nil {
		return err
	}
	defer l.endOp()

	cw := l.newCow()
	c, ok := cw.lookup(id)
	if !ok {
		return ledgercore.CircleNotFoundError{ID: id}
	}
	if c.Status != circles.Pending {
		return ledgercore.CircleNotPendingError{ID: id, Status: c.Status}
	}
	if c.IsMember(caller) {
		return ledgercore.AlreadyMemberError{ID: id, Member: caller}
	}
	params, err := l.circleParams(c)
	if err != nil {
		return err
	}
	if uint64(len(c.Members)) >= params.MaxMembers {
		return ledgercore.CircleFullError{ID: id, Max: params.MaxMembers}
	}
	if value.LessThan(c.Amount) {
		return ledgercore.InsufficientContributionError{ID: id, Min: c.Amount, Got: value}
	}

	c.Members = append(c.Members, caller)
	err = cw.credit(c, caller, value)
	if err != nil {
		return err
	}

	cw.event(protocol.MemberJoinedTag, func(ev *circles.Event) {
		ev.Circle = id
		ev.Member = caller
		ev.Amount = value
		ev.Round = c.CurrentRound
		ev.MemberCount = uint64(len(c.Members))
	})
	cw.rep(ledgercore.RepDirective{Kind: ledgercore.RepInitUser, User: caller})
	cw.rep(ledgercore.RepDirective{Kind: ledgercore.RepCircleJoined, User: caller})
	cw.rep(ledgercore.RepDirective{Kind: ledgercore.RepContribution, User: caller, Amount: value, OnTime: true})

	if uint64(len(c.Members)) >= params.MinMembers {
		err = cw.activate(c, params)
		if err != nil {
			return err
		}
	}

	cw.put(c)
	err = l.commit(ctx, cw)
	if err != nil {
		return err
	}
	l.dispatchReps(ctx, cw.mods.Reps)
	return nil
}

// activate flips a circle from Pending to Active and accrues the one-time
// protocol fee of ProtocolFeePercent of the expected lifetime volume
// (amount x members x duration).
func (cw *circleCow) activate(c *circles.Circle, params config.CircleParams) error {
	c.Status = circles.Active
	c.StartedAt = cw.ts

	volume, overflowed := basics.OMul(c.Amount.Raw, uint64(len(c.Members)))
	if overflowed {
		return errAmountOverflow
	}
	volume, overflowed = basics.OMul(volume, c.Duration)
	if overflowed {
		return errAmountOverflow
	}
	fee, overflowed := basics.Muldiv(volume, params.ProtocolFeePercent, 100)
	if overflowed {
		return errAmountOverflow
	}

	var err error
	cw.mods.FeeAccrued, err = addMicroUnits(cw.mods.FeeAccrued, basics.MicroUnits{Raw: fee})
	if err != nil {
		return err
	}

	cw.event(protocol.CircleStartedTag, func(ev *circles.Event) {
		ev.Circle = c.ID
		ev.MemberCount = uint64(len(c.Members))
		ev.Fee = basics.MicroUnits{Raw: fee}
		ev.Duration = c.Duration
		ev.Frequency = c.FrequencySeconds
	})
	return nil
}

// Contribute credits the full submitted value as the caller's contribution
// to the circle's current round.  Overpayment beyond the per-round amount
// is pooled, not refunded.
func (l *Ledger) Contribute(ctx context.Context, caller basics.Address, id circles.CircleID, value basics.MicroUnits) error {
	if err := l.beginOp(ctx, "Contribute"); err != nil {
		return err
	}
	defer l.endOp()

	cw := l.newCow()
	c, ok := cw.lookup(id)
	if !ok {
		return ledgercore.CircleNotFoundError{ID: id}
	}
	if c.Status != circles.Active {
		return ledgercore.CircleNotActiveError{ID: id, Status: c.Status}
	}
	if !c.IsMember(caller) {
		return ledgercore.NotMemberError{ID: id, Address: caller}
	}
	if c.HasContributed(c.CurrentRound, caller) {
		return ledgercore.DuplicateContributionError{ID: id, Member: caller, Round: c.CurrentRound}
	}
	if value.LessThan(c.Amount) {
		return ledgercore.InsufficientContributionError{ID: id, Min: c.Amount, Got: value}
	}

	err := cw.credit(c, caller, value)
	if err != nil {
		return err
	}

	cw.event(protocol.ContributionMadeTag, func(ev *circles.Event) {
		ev.Circle = id
		ev.Member = caller
		ev.Amount = value
		ev.Round = c.CurrentRound
	})
	cw.rep(ledgercore.RepDirective{Kind: ledgercore.RepContribution, User: caller, Amount: value, OnTime: true})

	cw.put(c)
	err = l.commit(ctx, cw)
	if err != nil {
		return err
	}
	l.dispatchReps(ctx, cw.mods.Reps)
	return nil
}

// ProcessPayout closes the circle's current round by paying the recipient
// the round pool plus the member share of the simulated interest.  Any
// caller may trigger a payout; the recipient must be a member who has never
// been paid by this circle, and every current member must have contributed
// to the current round.
//
// The interest is a simple-interest approximation over one contribution
// period: roundPool x APR% x frequency / (year x 100).  The protocol's cut
// of that interest accrues to the fee balance; the remainder rides along
// with the payout.  Both shares are funded from pooled value, so a round
// whose members contributed only the exact per-round amount cannot cover
// its own bonus and fails the escrow check.
//
// The outbound transfer happens before the delta commits: a transfer
// failure rolls the whole operation back.
func (l *Ledger) ProcessPayout(ctx context.Context, caller basics.Address, id circles.CircleID, recipient basics.Address) (circles.Payout, error) {
	if err := l.beginOp(ctx, "ProcessPayout"); err != nil {
		return circles.Payout{}, err
	}
	defer l.endOp()

	cw := l.newCow()
	c, ok := cw.lookup(id)
	if !ok {
		return circles.Payout{}, ledgercore.CircleNotFoundError{ID: id}
	}
	if c.Status != circles.Active {
		return circles.Payout{}, ledgercore.CircleNotActiveError{ID: id, Status: c.Status}
	}
	if !c.IsMember(recipient) {
		return circles.Payout{}, ledgercore.NotMemberError{ID: id, Address: recipient}
	}
	if c.HasReceivedPayout(recipient) {
		return circles.Payout{}, ledgercore.AlreadyPaidOutError{ID: id, Member: recipient}
	}

	// Count round contributions by scanning the membership list against
	// the flags.  Membership is bounded, and the flags are the record;
	// a separate running counter could drift from them.
	contributed := uint64(0)
	for _, m := range c.Members {
		if c.HasContributed(c.CurrentRound, m) {
			contributed++
		}
	}
	if contributed < uint64(len(c.Members)) {
		return circles.Payout{}, ledgercore.RoundIncompleteError{
			ID:          id,
			Round:       c.CurrentRound,
			Contributed: contributed,
			Members:     uint64(len(c.Members)),
		}
	}

	params, err := l.circleParams(c)
	if err != nil {
		return circles.Payout{}, err
	}

	roundPool, overflowed := basics.OMul(c.Amount.Raw, uint64(len(c.Members)))
	if overflowed {
		return circles.Payout{}, errAmountOverflow
	}
	rate, overflowed := basics.OMul(params.SimulatedAPRPercent, c.FrequencySeconds)
	if overflowed {
		return circles.Payout{}, errAmountOverflow
	}
	interest, overflowed := basics.Muldiv(roundPool, rate, params.YearSeconds*100)
	if overflowed {
		return circles.Payout{}, errAmountOverflow
	}
	// The protocol share floors first; the member keeps the remainder, so
	// the two shares always sum to the interest exactly.
	protocolInterest, overflowed := basics.Muldiv(interest, 100-params.MemberInterestPercent, 100)
	if overflowed {
		return circles.Payout{}, errAmountOverflow
	}
	memberInterest := interest - protocolInterest

	payoutAmount, overflowed := basics.OAdd(roundPool, memberInterest)
	if overflowed {
		return circles.Payout{}, errAmountOverflow
	}
	if c.Escrow.Raw < payoutAmount {
		return circles.Payout{}, ledgercore.InsufficientEscrowError{
			ID:   id,
			Need: basics.MicroUnits{Raw: payoutAmount},
			Have: c.Escrow,
		}
	}

	payoutRound := c.CurrentRound
	c.Escrow = basics.MicroUnits{Raw: c.Escrow.Raw - payoutAmount}
	c.SetReceivedPayout(recipient)
	c.TotalInterest, err = addMicroUnits(c.TotalInterest, basics.MicroUnits{Raw: memberInterest})
	if err != nil {
		return circles.Payout{}, err
	}
	cw.mods.Interest, err = addMicroUnits(cw.mods.Interest, basics.MicroUnits{Raw: memberInterest})
	if err != nil {
		return circles.Payout{}, err
	}
	cw.mods.FeeAccrued, err = addMicroUnits(cw.mods.FeeAccrued, basics.MicroUnits{Raw: protocolInterest})
	if err != nil {
		return circles.Payout{}, err
	}

	record := circles.Payout{
		Recipient: recipient,
		Base:      basics.MicroUnits{Raw: roundPool},
		Bonus:     basics.MicroUnits{Raw: memberInterest},
		Timestamp: cw.ts,
		Round:     payoutRound,
	}
	c.Payouts = append(c.Payouts, record)
	c.CurrentRound++

	cw.event(protocol.PayoutProcessedTag, func(ev *circles.Event) {
		ev.Circle = id
		ev.Member = recipient
		ev.Base = record.Base
		ev.Bonus = record.Bonus
		ev.Round = payoutRound
	})

	if uint64(c.CurrentRound) >= c.Duration {
		c.Status = circles.Completed
		cw.event(protocol.CircleCompletedTag, func(ev *circles.Event) {
			ev.Circle = id
			ev.Round = c.CurrentRound
			ev.MemberCount = uint64(len(c.Members))
		})
		for _, m := range c.Members {
			cw.rep(ledgercore.RepDirective{Kind: ledgercore.RepCircleCompleted, User: m})
		}
	}

	cw.put(c)

	err = l.disburser.Disburse(markInOp(ctx), recipient, basics.MicroUnits{Raw: payoutAmount}, PaymentPayout)
	if err != nil {
		return circles.Payout{}, ledgercore.TransferFailedError{
			Recipient: recipient,
			Amount:    basics.MicroUnits{Raw: payoutAmount},
			Err:       err,
		}
	}

	err = l.commit(ctx, cw)
	if err != nil {
		return circles.Payout{}, err
	}
	l.dispatchReps(ctx, cw.mods.Reps)
	return record, nil
}

// WithdrawFees pays accrued protocol fees out to the recipient.  Only the
// ledger owner may call it.  The fee balance is a running accrual across
// all circles, not a claim on any one circle's escrow, so a withdrawal
// draws from the ledger's aggregate holdings.
func (l *Ledger) WithdrawFees(ctx context.Context, caller basics.Address, recipient basics.Address, amount basics.MicroUnits) error {
	if err := l.beginOp(ctx, "WithdrawFees"); err != nil {
		return err
	}
	defer l.endOp()

	if caller != l.owner {
		return ledgercore.UnauthorizedCallerError{Caller: caller}
	}

	cw := l.newCow()
	balance := cw.feeBalance()
	if balance.LessThan(amount) {
		return ledgercore.InsufficientEscrowError{Need: amount, Have: balance}
	}
	cw.mods.FeeWithdrawn = amount

	cw.event(protocol.FeesWithdrawnTag, func(ev *circles.Event) {
		ev.Recipient = recipient
		ev.Withdrawn = amount
		ev.Remaining = basics.MicroUnits{Raw: balance.Raw - amount.Raw}
	})

	err := l.disburser.Disburse(markInOp(ctx), recipient, amount, PaymentFees)
	if err != nil {
		return ledgercore.TransferFailedError{Recipient: recipient, Amount: amount, Err: err}
	}

	return l.commit(ctx, cw)
}
