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

package circles

import (
	"fmt"

	"github.com/susu-finance/go-susu/crypto"
	"github.com/susu-finance/go-susu/data/basics"
	"github.com/susu-finance/go-susu/protocol"
)

// CircleID is a hash used to uniquely identify a circle.  It is derived from
// the creator, the creation time, and the per-period amount, so two creations
// with identical inputs in the same second produce the same ID; the ledger
// treats such a collision as an overwrite of the same slot.
type CircleID crypto.Digest

// String converts a CircleID to a pretty-printable string
func (cid CircleID) String() string {
	return crypto.Digest(cid).String()
}

// IsZero returns true if the ID is all zeros
func (cid CircleID) IsZero() bool {
	return crypto.Digest(cid).IsZero()
}

// CircleIDFromString parses the base32 string form of a CircleID
func CircleIDFromString(s string) (CircleID, error) {
	d, err := crypto.DigestFromString(s)
	return CircleID(d), err
}

// Status is the lifecycle state of a circle.
type Status byte

const (
	// Pending indicates a circle that is collecting members and has not
	// started rotating yet.
	Pending Status = iota
	// Active indicates a circle whose rounds are in progress.
	Active
	// Completed indicates a circle that has paid out all its rounds.
	Completed
	// Cancelled is defined for forward compatibility.  No operation
	// currently transitions a circle into it.
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Active:
		return "Active"
	case Completed:
		return "Completed"
	case Cancelled:
		return "Cancelled"
	}
	return ""
}

// UnmarshalStatus decodes string status value back to Status constant
func UnmarshalStatus(value string) (s Status, err error) {
	switch value {
	case "Pending":
		s = Pending
	case "Active":
		s = Active
	case "Completed":
		s = Completed
	case "Cancelled":
		s = Cancelled
	default:
		err = fmt.Errorf("unknown circle status: %v", value)
	}
	return
}

// GoalType labels what a circle is saving toward.  It is informational
// only: no ledger rule depends on it.
type GoalType byte

const (
	// GoalGeneral is the catch-all category.
	GoalGeneral GoalType = iota
	// GoalEducation covers tuition and training.
	GoalEducation
	// GoalBusiness covers working capital and inventory.
	GoalBusiness
	// GoalHousing covers rent deposits and home purchases.
	GoalHousing
	// GoalEmergency covers rainy-day funds.
	GoalEmergency
	// GoalTravel covers trips and relocations.
	GoalTravel
)

func (g GoalType) String() string {
	switch g {
	case GoalGeneral:
		return "General"
	case GoalEducation:
		return "Education"
	case GoalBusiness:
		return "Business"
	case GoalHousing:
		return "Housing"
	case GoalEmergency:
		return "Emergency"
	case GoalTravel:
		return "Travel"
	}
	return ""
}

// UnmarshalGoalType decodes string goal value back to GoalType constant
func UnmarshalGoalType(value string) (g GoalType, err error) {
	switch value {
	case "General":
		g = GoalGeneral
	case "Education":
		g = GoalEducation
	case "Business":
		g = GoalBusiness
	case "Housing":
		g = GoalHousing
	case "Emergency":
		g = GoalEmergency
	case "Travel":
		g = GoalTravel
	default:
		err = fmt.Errorf("unknown goal type: %v", value)
	}
	return
}

// Contribution is one successful contribution call.  Records are appended
// per circle, one entry per call, and never rewritten.
type Contribution struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// Member is the contributing member.
	Member basics.Address `codec:"mbr"`

	// Amount is the full value pooled by this call, including any
	// overpayment beyond the circle's per-period amount.
	Amount basics.MicroUnits `codec:"amt"`

	// Timestamp is when the contribution was accepted.
	Timestamp int64 `codec:"ts"`

	// Round is the round the contribution was credited to.  Contributions
	// made while joining are credited to round zero.
	Round basics.RoundIndex `codec:"rnd"`
}

// Payout is one successful payout, appended per circle.
type Payout struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// Recipient received the payout.
	Recipient basics.Address `codec:"rcv"`

	// Base is the round pool: the per-period amount times the member count.
	Base basics.MicroUnits `codec:"base"`

	// Bonus is the member share of the simulated interest for this round.
	Bonus basics.MicroUnits `codec:"bonus"`

	// Timestamp is when the payout was processed.
	Timestamp int64 `codec:"ts"`

	// Round is the round this payout closed.
	Round basics.RoundIndex `codec:"rnd"`
}

// Circle is the complete state of one rotating savings circle.  The ledger
// stores each circle as a single record, so a Circle value is always
// internally consistent: membership, flags, logs, and balances move together.
type Circle struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// ID is the circle's identifier, derived at creation.
	ID CircleID `codec:"id"`

	// Version pins the rule set the circle was created under.
	Version protocol.CircleVersion `codec:"ver"`

	// Creator opened the circle and is always member zero.
	Creator basics.Address `codec:"crt"`

	// Amount is the required contribution per member per round.
	Amount basics.MicroUnits `codec:"amt"`

	// FrequencySeconds is the intended length of one round.  It feeds the
	// simulated interest computation; rounds do not expire on their own.
	FrequencySeconds uint64 `codec:"freq"`

	// Duration is the number of rounds the circle runs for.
	Duration uint64 `codec:"dur"`

	// Goal labels what the circle is saving toward.
	Goal GoalType `codec:"goal"`

	// Status is the lifecycle state.
	Status Status `codec:"st"`

	// CreatedAt is the creation time, unix seconds.
	CreatedAt int64 `codec:"cat"`

	// StartedAt is set once, when the circle activates.
	StartedAt int64 `codec:"sat"`

	// Members in join order.  The creator is member 0.  Membership only
	// grows, and only while the circle is pending.
	Members []basics.Address `codec:"mbrs"`

	// CurrentRound counts completed payout cycles, starting at zero.
	CurrentRound basics.RoundIndex `codec:"rnd"`

	// Escrow is the pooled value currently held for this circle.  It
	// increases on every contribution and decreases on every payout, and
	// must never go negative.
	Escrow basics.MicroUnits `codec:"esc"`

	// TotalPooled is the lifetime sum of all value ever contributed.
	TotalPooled basics.MicroUnits `codec:"pool"`

	// TotalInterest is the lifetime member-side interest credited on
	// payouts.  The protocol's share accrues to the ledger's fee balance
	// instead.
	TotalInterest basics.MicroUnits `codec:"int"`

	// ContributionMask records who has contributed in each round, keyed by
	// round, one bit per member position.  The uint64 width bounds
	// MaxMembers at 64, far above the configured limit.
	ContributionMask map[basics.RoundIndex]uint64 `codec:"cmask"`

	// PayoutMask records who has ever received a payout, one bit per
	// member position.  The flag is lifetime, not per round: a member is
	// paid at most once per circle.
	PayoutMask uint64 `codec:"pmask"`

	// Contributions is the append-only contribution log.
	Contributions []Contribution `codec:"clog"`

	// Payouts is the append-only payout log.
	Payouts []Payout `codec:"plog"`
}

type circlePreimage struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Creator   basics.Address    `codec:"crt"`
	Timestamp int64             `codec:"ts"`
	Amount    basics.MicroUnits `codec:"amt"`
}

// ToBeHashed implements the crypto.Hashable interface.
func (p circlePreimage) ToBeHashed() (protocol.HashID, []byte) {
	return protocol.CirclePreimage, protocol.Encode(&p)
}

// ComputeCircleID derives the identifier for a circle created by creator at
// the given unix time for the given per-period amount.
func ComputeCircleID(creator basics.Address, timestamp int64, amount basics.MicroUnits) CircleID {
	return CircleID(crypto.HashObj(circlePreimage{
		Creator:   creator,
		Timestamp: timestamp,
		Amount:    amount,
	}))
}

// MemberIndex returns the join position of addr, or false if addr is not a
// member.
func (c *Circle) MemberIndex(addr basics.Address) (int, bool) {
	for i, m := range c.Members {
		if m == addr {
			return i, true
		}
	}
	return 0, false
}

// IsMember reports whether addr has joined the circle.
func (c *Circle) IsMember(addr basics.Address) bool {
	_, ok := c.MemberIndex(addr)
	return ok
}

// HasContributed reports whether addr contributed in the given round.
func (c *Circle) HasContributed(round basics.RoundIndex, addr basics.Address) bool {
	idx, ok := c.MemberIndex(addr)
	if !ok {
		return false
	}
	return c.ContributionMask[round]&(1<<uint(idx)) != 0
}

// SetContributed marks addr as having contributed in the given round.
func (c *Circle) SetContributed(round basics.RoundIndex, addr basics.Address) {
	idx, ok := c.MemberIndex(addr)
	if !ok {
		return
	}
	if c.ContributionMask == nil {
		c.ContributionMask = make(map[basics.RoundIndex]uint64)
	}
	c.ContributionMask[round] |= 1 << uint(idx)
}

// HasReceivedPayout reports whether addr has ever been paid by this circle.
func (c *Circle) HasReceivedPayout(addr basics.Address) bool {
	idx, ok := c.MemberIndex(addr)
	if !ok {
		return false
	}
	return c.PayoutMask&(1<<uint(idx)) != 0
}

// SetReceivedPayout sets addr's lifetime payout flag.
func (c *Circle) SetReceivedPayout(addr basics.Address) {
	idx, ok := c.MemberIndex(addr)
	if !ok {
		return
	}
	c.PayoutMask |= 1 << uint(idx)
}

// RoundComplete reports whether every current member has contributed in the
// current round.  It deliberately walks the membership list and checks each
// flag rather than keeping a running counter that could drift from the
// flags; membership is bounded, so the scan is cheap.
func (c *Circle) RoundComplete() bool {
	for _, m := range c.Members {
		if !c.HasContributed(c.CurrentRound, m) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the circle.  The ledger hands Clones across
// API boundaries so callers can never alias live state.
func (c *Circle) Clone() *Circle {
	cp := *c
	cp.Members = append([]basics.Address(nil), c.Members...)
	cp.Contributions = append([]Contribution(nil), c.Contributions...)
	cp.Payouts = append([]Payout(nil), c.Payouts...)
	if c.ContributionMask != nil {
		cp.ContributionMask = make(map[basics.RoundIndex]uint64, len(c.ContributionMask))
		for k, v := range c.ContributionMask {
			cp.ContributionMask[k] = v
		}
	}
	return &cp
}
