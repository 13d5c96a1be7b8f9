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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/susu-finance/go-susu/config"
	"github.com/susu-finance/go-susu/crypto"
	"github.com/susu-finance/go-susu/data/basics"
	"github.com/susu-finance/go-susu/data/circles"
	"github.com/susu-finance/go-susu/ledger/ledgercore"
	"github.com/susu-finance/go-susu/protocol"
)

var errRailOffline = errors.New("settlement rail offline")

func TestCreateCircle(t *testing.T) {
	l, clock := openTestLedger(t)
	ctx := context.Background()
	alice := testAddr("alice")

	id, err := l.CreateCircle(ctx, alice, units(testAmount), testFrequency, testDuration, circles.GoalEducation)
	require.NoError(t, err)
	require.Equal(t, circles.ComputeCircleID(alice, clock.now, units(testAmount)), id)

	c, err := l.Circle(id)
	require.NoError(t, err)
	require.Equal(t, circles.Pending, c.Status)
	require.Equal(t, protocol.CircleV1, c.Version)
	require.Equal(t, alice, c.Creator)
	require.Equal(t, []basics.Address{alice}, c.Members)
	require.Equal(t, circles.GoalEducation, c.Goal)
	require.Equal(t, clock.now, c.CreatedAt)
	require.Zero(t, c.StartedAt)

	// The creator pools nothing at creation; their round-zero contribution
	// comes later, like everyone else's.
	require.True(t, c.Escrow.IsZero())
	require.False(t, c.HasContributed(0, alice))

	require.Equal(t, uint64(1), l.Totals().Circles)
	require.Equal(t, uint64(1), l.Latest())

	evs, err := l.Events(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	require.Equal(t, protocol.CircleCreatedTag, evs[0].Tag)
	require.Equal(t, id, evs[0].Circle)
	require.Equal(t, alice, evs[0].Member)
	require.Equal(t, units(testAmount), evs[0].Amount)
	require.Equal(t, uint64(testDuration), evs[0].Duration)
	require.Equal(t, uint64(testFrequency), evs[0].Frequency)
	require.Equal(t, circles.GoalEducation, evs[0].Goal)
	require.Equal(t, uint64(1), evs[0].MemberCount)
}

func TestCreateCircleValidation(t *testing.T) {
	l, _ := openTestLedger(t)
	ctx := context.Background()
	alice := testAddr("alice")
	params := config.Circles[protocol.CircleV1]

	_, err := l.CreateCircle(ctx, alice, units(0), testFrequency, testDuration, circles.GoalGeneral)
	require.ErrorIs(t, err, ledgercore.ErrInvalidAmount)

	_, err = l.CreateCircle(ctx, alice, units(testAmount), testFrequency, params.MinDuration-1, circles.GoalGeneral)
	require.ErrorIs(t, err, ledgercore.ErrInvalidDuration)

	_, err = l.CreateCircle(ctx, alice, units(testAmount), testFrequency, params.MaxDuration+1, circles.GoalGeneral)
	require.ErrorIs(t, err, ledgercore.ErrInvalidDuration)

	// Rejected creations leave no trace.
	require.Equal(t, uint64(0), l.Totals().Circles)
	require.Equal(t, uint64(0), l.Latest())
}

func TestJoinActivatesAtMinimum(t *testing.T) {
	l, clock := openTestLedger(t)
	ctx := context.Background()
	alice, bob, carol := testAddr("alice"), testAddr("bob"), testAddr("carol")

	id, err := l.CreateCircle(ctx, alice, units(testAmount), testFrequency, testDuration, circles.GoalGeneral)
	require.NoError(t, err)
	createdAt := clock.now

	clock.advance(3600)
	require.NoError(t, l.JoinCircle(ctx, bob, id, units(testAmount)))

	c, err := l.Circle(id)
	require.NoError(t, err)
	require.Equal(t, circles.Pending, c.Status)
	require.Equal(t, []basics.Address{alice, bob}, c.Members)
	require.Equal(t, units(testAmount), c.Escrow)
	require.True(t, c.HasContributed(0, bob))
	require.False(t, c.HasContributed(0, alice))
	require.True(t, l.ProtocolFees().IsZero())

	// The third member crosses MinMembers: the same join activates the
	// circle and accrues the one-time protocol fee against lifetime volume.
	clock.advance(3600)
	require.NoError(t, l.JoinCircle(ctx, carol, id, units(testAmount)))

	c, err = l.Circle(id)
	require.NoError(t, err)
	require.Equal(t, circles.Active, c.Status)
	require.Equal(t, createdAt, c.CreatedAt)
	require.Equal(t, clock.now, c.StartedAt)
	require.Equal(t, units(2*testAmount), c.Escrow)
	require.Equal(t, units(testActivationFee), l.ProtocolFees())

	contribs, err := l.Contributions(id)
	require.NoError(t, err)
	require.Len(t, contribs, 2)
	require.Equal(t, bob, contribs[0].Member)
	require.Equal(t, carol, contribs[1].Member)
	require.Equal(t, basics.RoundIndex(0), contribs[1].Round)
	require.Equal(t, clock.now, contribs[1].Timestamp)

	evs, err := l.Events(ctx, 4, 10)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	require.Equal(t, protocol.CircleStartedTag, evs[0].Tag)
	require.Equal(t, units(testActivationFee), evs[0].Fee)
	require.Equal(t, uint64(3), evs[0].MemberCount)
	require.Equal(t, uint64(testDuration), evs[0].Duration)
	require.Equal(t, uint64(testFrequency), evs[0].Frequency)
}

func TestJoinErrors(t *testing.T) {
	l, _ := openTestLedger(t)
	ctx := context.Background()
	alice, bob, carol, dave := testAddr("alice"), testAddr("bob"), testAddr("carol"), testAddr("dave")

	unknown := circles.CircleID(crypto.Hash([]byte("unknown")))
	err := l.JoinCircle(ctx, bob, unknown, units(testAmount))
	var nf ledgercore.CircleNotFoundError
	require.ErrorAs(t, err, &nf)

	id, err := l.CreateCircle(ctx, alice, units(testAmount), testFrequency, testDuration, circles.GoalGeneral)
	require.NoError(t, err)

	// The creator is already member zero.
	err = l.JoinCircle(ctx, alice, id, units(testAmount))
	var am ledgercore.AlreadyMemberError
	require.ErrorAs(t, err, &am)
	require.Equal(t, alice, am.Member)

	// Less than the per-round amount is rejected, not partially credited.
	err = l.JoinCircle(ctx, bob, id, units(testAmount-1))
	var ic ledgercore.InsufficientContributionError
	require.ErrorAs(t, err, &ic)
	require.Equal(t, units(testAmount), ic.Min)
	require.Equal(t, units(testAmount-1), ic.Got)

	require.NoError(t, l.JoinCircle(ctx, bob, id, units(testAmount)))
	err = l.JoinCircle(ctx, bob, id, units(testAmount))
	require.ErrorAs(t, err, &am)

	require.NoError(t, l.JoinCircle(ctx, carol, id, units(testAmount)))

	// Activation closes the door: joining is only possible while pending.
	err = l.JoinCircle(ctx, dave, id, units(testAmount))
	var np ledgercore.CircleNotPendingError
	require.ErrorAs(t, err, &np)
	require.Equal(t, circles.Active, np.Status)
}

func TestJoinFullCircle(t *testing.T) {
	l, _ := openTestLedger(t)
	params := config.Circles[protocol.CircleV1]

	// A pending circle at the membership cap cannot arise through the public
	// operations, because a circle activates at MinMembers.  Plant one
	// directly to pin the cap check anyway.
	id := circles.CircleID(crypto.Hash([]byte("full circle")))
	c := &circles.Circle{
		ID:      id,
		Version: protocol.CircleV1,
		Creator: testAddr("member-0"),
		Amount:  units(testAmount),
		Status:  circles.Pending,
	}
	for i := uint64(0); i < params.MaxMembers; i++ {
		c.Members = append(c.Members, testAddr(fmt.Sprintf("member-%d", i)))
	}
	l.circles[id] = c

	err := l.JoinCircle(context.Background(), testAddr("late"), id, units(testAmount))
	var full ledgercore.CircleFullError
	require.ErrorAs(t, err, &full)
	require.Equal(t, params.MaxMembers, full.Max)
}

func TestContribute(t *testing.T) {
	l, clock := openTestLedger(t)
	ctx := context.Background()
	id, members := buildActiveCircle(t, l, units(2*testAmount), testDuration)
	alice := members[0]

	require.NoError(t, l.Contribute(ctx, alice, id, units(2*testAmount)))

	c, err := l.Circle(id)
	require.NoError(t, err)
	require.Equal(t, units(6*testAmount), c.Escrow)
	require.Equal(t, units(6*testAmount), c.TotalPooled)
	require.True(t, c.HasContributed(0, alice))
	require.True(t, c.RoundComplete())

	contribs, err := l.Contributions(id)
	require.NoError(t, err)
	require.Len(t, contribs, 3)
	last := contribs[2]
	require.Equal(t, alice, last.Member)
	// Overpayment is pooled in full, not clamped to the per-round amount.
	require.Equal(t, units(2*testAmount), last.Amount)
	require.Equal(t, basics.RoundIndex(0), last.Round)
	require.Equal(t, clock.now, last.Timestamp)

	require.Equal(t, units(6*testAmount), l.Totals().Pooled)

	evs, err := l.Events(ctx, l.Latest(), 1)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	require.Equal(t, protocol.ContributionMadeTag, evs[0].Tag)
	require.Equal(t, alice, evs[0].Member)
	require.Equal(t, units(2*testAmount), evs[0].Amount)
}

func TestContributeErrors(t *testing.T) {
	l, _ := openTestLedger(t)
	ctx := context.Background()
	alice, bob, dave := testAddr("alice"), testAddr("bob"), testAddr("dave")

	unknown := circles.CircleID(crypto.Hash([]byte("unknown")))
	err := l.Contribute(ctx, alice, unknown, units(testAmount))
	var nf ledgercore.CircleNotFoundError
	require.ErrorAs(t, err, &nf)

	// Pending circles do not take round contributions; joining is the only
	// way to pool value before activation.
	pending, err := l.CreateCircle(ctx, alice, units(testAmount), testFrequency, testDuration, circles.GoalGeneral)
	require.NoError(t, err)
	err = l.Contribute(ctx, alice, pending, units(testAmount))
	var na ledgercore.CircleNotActiveError
	require.ErrorAs(t, err, &na)
	require.Equal(t, circles.Pending, na.Status)

	id, _ := buildActiveCircle(t, l, units(testAmount), testDuration)

	err = l.Contribute(ctx, dave, id, units(testAmount))
	var nm ledgercore.NotMemberError
	require.ErrorAs(t, err, &nm)
	require.Equal(t, dave, nm.Address)

	// Joiners were already credited for round zero.
	err = l.Contribute(ctx, bob, id, units(testAmount))
	var dup ledgercore.DuplicateContributionError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, basics.RoundIndex(0), dup.Round)

	err = l.Contribute(ctx, alice, id, units(testAmount-1))
	var ic ledgercore.InsufficientContributionError
	require.ErrorAs(t, err, &ic)
}

func TestProcessPayout(t *testing.T) {
	l, clock := openTestLedger(t)
	ctx := context.Background()
	disb := &recordingDisburser{}
	l.SetDisburser(disb)

	id, members := buildActiveCircle(t, l, units(2*testAmount), testDuration)
	alice, bob := members[0], members[1]
	require.NoError(t, l.Contribute(ctx, alice, id, units(2*testAmount)))

	// Anyone may trigger the payout; only the recipient is constrained.
	record, err := l.ProcessPayout(ctx, testAddr("stranger"), id, bob)
	require.NoError(t, err)
	require.Equal(t, bob, record.Recipient)
	require.Equal(t, units(testRoundPool), record.Base)
	require.Equal(t, units(testMemberInterest), record.Bonus)
	require.Equal(t, basics.RoundIndex(0), record.Round)
	require.Equal(t, clock.now, record.Timestamp)

	c, err := l.Circle(id)
	require.NoError(t, err)
	require.Equal(t, units(6*testAmount-testPayout), c.Escrow)
	require.Equal(t, basics.RoundIndex(1), c.CurrentRound)
	require.Equal(t, units(testMemberInterest), c.TotalInterest)
	require.Equal(t, circles.Active, c.Status)
	require.True(t, c.HasReceivedPayout(bob))
	require.False(t, c.HasReceivedPayout(alice))

	payouts, err := l.Payouts(id)
	require.NoError(t, err)
	require.Equal(t, []circles.Payout{record}, payouts)

	require.Equal(t, []payment{{recipient: bob, amount: units(testPayout), kind: PaymentPayout}}, disb.payments)

	// The protocol keeps its share of the simulated interest.
	require.Equal(t, units(testActivationFee+testProtocolInterest), l.ProtocolFees())
	require.Equal(t, units(testMemberInterest), l.Totals().Interest)

	evs, err := l.Events(ctx, l.Latest(), 1)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	require.Equal(t, protocol.PayoutProcessedTag, evs[0].Tag)
	require.Equal(t, bob, evs[0].Member)
	require.Equal(t, units(testRoundPool), evs[0].Base)
	require.Equal(t, units(testMemberInterest), evs[0].Bonus)
	require.Equal(t, basics.RoundIndex(0), evs[0].Round)
}

func TestProcessPayoutErrors(t *testing.T) {
	l, _ := openTestLedger(t)
	ctx := context.Background()
	alice, dave := testAddr("alice"), testAddr("dave")

	unknown := circles.CircleID(crypto.Hash([]byte("unknown")))
	_, err := l.ProcessPayout(ctx, alice, unknown, alice)
	var nf ledgercore.CircleNotFoundError
	require.ErrorAs(t, err, &nf)

	pending, err := l.CreateCircle(ctx, alice, units(testAmount), testFrequency, testDuration, circles.GoalGeneral)
	require.NoError(t, err)
	_, err = l.ProcessPayout(ctx, alice, pending, alice)
	var na ledgercore.CircleNotActiveError
	require.ErrorAs(t, err, &na)

	id, members := buildActiveCircle(t, l, units(2*testAmount), testDuration)
	bob := members[1]

	_, err = l.ProcessPayout(ctx, alice, id, dave)
	var nm ledgercore.NotMemberError
	require.ErrorAs(t, err, &nm)

	// Round zero is still missing the creator's contribution.
	_, err = l.ProcessPayout(ctx, alice, id, bob)
	var ri ledgercore.RoundIncompleteError
	require.ErrorAs(t, err, &ri)
	require.Equal(t, basics.RoundIndex(0), ri.Round)
	require.Equal(t, uint64(2), ri.Contributed)
	require.Equal(t, uint64(3), ri.Members)

	require.NoError(t, l.Contribute(ctx, alice, id, units(2*testAmount)))
	_, err = l.ProcessPayout(ctx, alice, id, bob)
	require.NoError(t, err)

	// One payout per member for the life of the circle.
	contributeAll(t, l, id, members, units(2*testAmount))
	_, err = l.ProcessPayout(ctx, alice, id, bob)
	var ap ledgercore.AlreadyPaidOutError
	require.ErrorAs(t, err, &ap)
	require.Equal(t, bob, ap.Member)
}

func TestProcessPayoutExactContributionsShortfall(t *testing.T) {
	l, _ := openTestLedger(t)
	ctx := context.Background()

	// With exact per-round contributions the escrow holds precisely the
	// round pool, which cannot cover the pool plus the member interest:
	// the simulated interest is funded from pooled value, so a circle needs
	// overpayment to clear its own bonus.
	id, members := buildActiveCircle(t, l, units(testAmount), testDuration)
	alice, bob := members[0], members[1]
	require.NoError(t, l.Contribute(ctx, alice, id, units(testAmount)))

	latest := l.Latest()
	_, err := l.ProcessPayout(ctx, alice, id, bob)
	var ie ledgercore.InsufficientEscrowError
	require.ErrorAs(t, err, &ie)
	require.Equal(t, id, ie.ID)
	require.Equal(t, units(testPayout), ie.Need)
	require.Equal(t, units(testRoundPool), ie.Have)

	// The failed payout left nothing behind.
	c, err := l.Circle(id)
	require.NoError(t, err)
	require.Equal(t, units(testRoundPool), c.Escrow)
	require.Equal(t, basics.RoundIndex(0), c.CurrentRound)
	require.Empty(t, c.Payouts)
	require.False(t, c.HasReceivedPayout(bob))
	require.Equal(t, latest, l.Latest())
	require.Equal(t, units(testActivationFee), l.ProtocolFees())
	require.True(t, l.Totals().Interest.IsZero())
}

func TestCircleLifecycle(t *testing.T) {
	l, clock := openTestLedger(t)
	ctx := context.Background()
	disb := &recordingDisburser{}
	l.SetDisburser(disb)

	pay := units(2 * testAmount)
	id, members := buildActiveCircle(t, l, pay, testDuration)
	alice, bob, carol := members[0], members[1], members[2]

	// Round 0: joins covered bob and carol, the creator completes the round.
	require.NoError(t, l.Contribute(ctx, alice, id, pay))
	_, err := l.ProcessPayout(ctx, alice, id, bob)
	require.NoError(t, err)

	// Round 1.
	clock.advance(testFrequency)
	contributeAll(t, l, id, members, pay)
	_, err = l.ProcessPayout(ctx, alice, id, carol)
	require.NoError(t, err)

	c, err := l.Circle(id)
	require.NoError(t, err)
	require.Equal(t, circles.Active, c.Status)
	require.Equal(t, basics.RoundIndex(2), c.CurrentRound)

	// Round 2: the last payout completes the circle, and every member's
	// completion reaches the reputation recorder.
	clock.advance(testFrequency)
	contributeAll(t, l, id, members, pay)
	rep := &recordingRep{update: ReputationUpdate{Score: 777, Tier: "Gold"}, scored: true}
	l.SetRepRecorder(rep)
	_, err = l.ProcessPayout(ctx, alice, id, alice)
	require.NoError(t, err)

	c, err = l.Circle(id)
	require.NoError(t, err)
	require.Equal(t, circles.Completed, c.Status)
	require.Equal(t, basics.RoundIndex(3), c.CurrentRound)
	require.Equal(t, units(18*testAmount-3*testPayout), c.Escrow)
	require.Equal(t, units(18*testAmount), c.TotalPooled)
	require.Equal(t, units(3*testMemberInterest), c.TotalInterest)
	for _, m := range members {
		require.True(t, c.HasReceivedPayout(m))
	}

	require.Equal(t, []repCall{
		{kind: ledgercore.RepCircleCompleted, user: alice},
		{kind: ledgercore.RepCircleCompleted, user: bob},
		{kind: ledgercore.RepCircleCompleted, user: carol},
	}, rep.calls)

	require.Equal(t, []payment{
		{recipient: bob, amount: units(testPayout), kind: PaymentPayout},
		{recipient: carol, amount: units(testPayout), kind: PaymentPayout},
		{recipient: alice, amount: units(testPayout), kind: PaymentPayout},
	}, disb.payments)

	require.Equal(t, units(testActivationFee+3*testProtocolInterest), l.ProtocolFees())
	totals := l.Totals()
	require.Equal(t, uint64(1), totals.Circles)
	require.Equal(t, units(18*testAmount), totals.Pooled)
	require.Equal(t, units(3*testMemberInterest), totals.Interest)

	// The event log tells the whole story in order, including the
	// reputation recomputes appended after the completing payout.
	wantTags := []protocol.EventTag{
		protocol.CircleCreatedTag,
		protocol.MemberJoinedTag,
		protocol.MemberJoinedTag,
		protocol.CircleStartedTag,
		protocol.ContributionMadeTag,
		protocol.PayoutProcessedTag,
		protocol.ContributionMadeTag,
		protocol.ContributionMadeTag,
		protocol.ContributionMadeTag,
		protocol.PayoutProcessedTag,
		protocol.ContributionMadeTag,
		protocol.ContributionMadeTag,
		protocol.ContributionMadeTag,
		protocol.PayoutProcessedTag,
		protocol.CircleCompletedTag,
		protocol.ReputationChangedTag,
		protocol.ReputationChangedTag,
		protocol.ReputationChangedTag,
	}
	evs, err := l.Events(ctx, 1, 100)
	require.NoError(t, err)
	require.Len(t, evs, len(wantTags))
	for i, ev := range evs {
		require.Equal(t, wantTags[i], ev.Tag, "event %d", i+1)
		require.Equal(t, uint64(i+1), ev.Sequence)
	}
	require.Equal(t, alice, evs[15].User)
	require.Equal(t, uint64(777), evs[15].Score)
	require.Equal(t, "Gold", evs[15].Tier)

	// Completed circles accept neither contributions nor members.
	err = l.Contribute(ctx, alice, id, pay)
	var na ledgercore.CircleNotActiveError
	require.ErrorAs(t, err, &na)
	require.Equal(t, circles.Completed, na.Status)
	err = l.JoinCircle(ctx, testAddr("dave"), id, pay)
	var np ledgercore.CircleNotPendingError
	require.ErrorAs(t, err, &np)
	require.Equal(t, circles.Completed, np.Status)
}

func TestPayoutStallsWhenDurationExceedsMembers(t *testing.T) {
	l, _ := openTestLedger(t)
	ctx := context.Background()

	// Three members cannot close four rounds: every member is paid once by
	// round two, and round three has no eligible recipient.  The circle
	// stays active forever; nothing completes it.
	pay := units(2 * testAmount)
	id, members := buildActiveCircle(t, l, pay, 4)
	alice := members[0]

	require.NoError(t, l.Contribute(ctx, alice, id, pay))
	for round, recipient := range []basics.Address{members[1], members[2], members[0]} {
		if round > 0 {
			contributeAll(t, l, id, members, pay)
		}
		_, err := l.ProcessPayout(ctx, alice, id, recipient)
		require.NoError(t, err)
	}

	contributeAll(t, l, id, members, pay)
	for _, m := range members {
		_, err := l.ProcessPayout(ctx, alice, id, m)
		var ap ledgercore.AlreadyPaidOutError
		require.ErrorAs(t, err, &ap)
	}

	c, err := l.Circle(id)
	require.NoError(t, err)
	require.Equal(t, circles.Active, c.Status)
	require.Equal(t, basics.RoundIndex(3), c.CurrentRound)
}

func TestWithdrawFees(t *testing.T) {
	l, _ := openTestLedger(t)
	ctx := context.Background()
	owner, treasury, stranger := testAddr("owner"), testAddr("treasury"), testAddr("stranger")

	buildActiveCircle(t, l, units(testAmount), testDuration)
	require.Equal(t, units(testActivationFee), l.ProtocolFees())

	err := l.WithdrawFees(ctx, stranger, treasury, units(1))
	var ua ledgercore.UnauthorizedCallerError
	require.ErrorAs(t, err, &ua)
	require.Equal(t, stranger, ua.Caller)

	err = l.WithdrawFees(ctx, owner, treasury, units(testActivationFee+1))
	var ie ledgercore.InsufficientEscrowError
	require.ErrorAs(t, err, &ie)
	require.True(t, ie.ID.IsZero())
	require.Equal(t, units(testActivationFee+1), ie.Need)
	require.Equal(t, units(testActivationFee), ie.Have)

	disb := &recordingDisburser{}
	l.SetDisburser(disb)
	require.NoError(t, l.WithdrawFees(ctx, owner, treasury, units(50*basics.MicroUnitsPerUnit)))
	require.Equal(t, units(40*basics.MicroUnitsPerUnit), l.ProtocolFees())
	require.Equal(t, units(50*basics.MicroUnitsPerUnit), l.Totals().FeesWithdrawn)
	require.Equal(t, []payment{{recipient: treasury, amount: units(50 * basics.MicroUnitsPerUnit), kind: PaymentFees}}, disb.payments)

	evs, err := l.Events(ctx, l.Latest(), 1)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	require.Equal(t, protocol.FeesWithdrawnTag, evs[0].Tag)
	require.Equal(t, treasury, evs[0].Recipient)
	require.Equal(t, units(50*basics.MicroUnitsPerUnit), evs[0].Withdrawn)
	require.Equal(t, units(40*basics.MicroUnitsPerUnit), evs[0].Remaining)

	// Draining the balance works; one more micro-unit does not.
	require.NoError(t, l.WithdrawFees(ctx, owner, treasury, units(40*basics.MicroUnitsPerUnit)))
	require.True(t, l.ProtocolFees().IsZero())
	err = l.WithdrawFees(ctx, owner, treasury, units(1))
	require.ErrorAs(t, err, &ie)
}

func TestTransferFailureRollsBack(t *testing.T) {
	l, _ := openTestLedger(t)
	ctx := context.Background()

	id, members := buildActiveCircle(t, l, units(2*testAmount), testDuration)
	alice, bob := members[0], members[1]
	require.NoError(t, l.Contribute(ctx, alice, id, units(2*testAmount)))

	before, err := l.Circle(id)
	require.NoError(t, err)
	beforeTotals := l.Totals()
	beforeLatest := l.Latest()

	l.SetDisburser(&recordingDisburser{err: errRailOffline})

	_, err = l.ProcessPayout(ctx, alice, id, bob)
	var tf ledgercore.TransferFailedError
	require.ErrorAs(t, err, &tf)
	require.Equal(t, bob, tf.Recipient)
	require.Equal(t, units(testPayout), tf.Amount)
	require.ErrorIs(t, err, errRailOffline)

	// The transfer runs before the commit, so a failure unwinds everything:
	// no state change, no events, no fee accrual.
	after, err := l.Circle(id)
	require.NoError(t, err)
	require.Equal(t, before, after)
	require.Equal(t, beforeTotals, l.Totals())
	require.Equal(t, beforeLatest, l.Latest())

	err = l.WithdrawFees(ctx, testAddr("owner"), testAddr("treasury"), units(1))
	require.ErrorAs(t, err, &tf)
	require.Equal(t, beforeTotals, l.Totals())
	require.Equal(t, beforeLatest, l.Latest())
}

func TestRepDirectiveFlow(t *testing.T) {
	l, _ := openTestLedger(t)
	ctx := context.Background()
	alice, bob := testAddr("alice"), testAddr("bob")

	rep := &recordingRep{update: ReputationUpdate{Score: 420, Tier: "Silver"}, scored: true}
	l.SetRepRecorder(rep)

	id, err := l.CreateCircle(ctx, alice, units(testAmount), testFrequency, testDuration, circles.GoalGeneral)
	require.NoError(t, err)

	// Creation initializes the creator and counts the circle as joined;
	// neither recomputes a score, so no reputation event lands.
	require.Equal(t, []repCall{
		{kind: ledgercore.RepInitUser, user: alice},
		{kind: ledgercore.RepCircleJoined, user: alice},
	}, rep.calls)
	require.Equal(t, uint64(1), l.Latest())

	rep.calls = nil
	require.NoError(t, l.JoinCircle(ctx, bob, id, units(2*testAmount)))

	// A join is an init, a joined circle, and an on-time round-zero
	// contribution of the full pooled value.
	require.Equal(t, []repCall{
		{kind: ledgercore.RepInitUser, user: bob},
		{kind: ledgercore.RepCircleJoined, user: bob},
		{kind: ledgercore.RepContribution, user: bob, amount: units(2 * testAmount), onTime: true},
	}, rep.calls)

	// The contribution recompute comes back as an event after the join's own.
	require.Equal(t, uint64(3), l.Latest())
	evs, err := l.Events(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, evs, 2)
	require.Equal(t, protocol.MemberJoinedTag, evs[0].Tag)
	require.Equal(t, protocol.ReputationChangedTag, evs[1].Tag)
	require.Equal(t, bob, evs[1].User)
	require.Equal(t, uint64(420), evs[1].Score)
	require.Equal(t, "Silver", evs[1].Tier)
}
