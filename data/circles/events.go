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
	"github.com/susu-finance/go-susu/crypto"
	"github.com/susu-finance/go-susu/data/basics"
	"github.com/susu-finance/go-susu/protocol"
)

// Event is one record in the ledger's append-only event log, the durable
// audit trail consumed by indexers.  All variants share this single struct,
// discriminated by Tag; unused fields stay zero and are omitted from the
// canonical encoding.  Stored encodings are never rewritten, so a record
// read back byte-for-byte equals the record that was appended.
type Event struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// Sequence is assigned by the ledger and is strictly increasing
	// across the whole log.
	Sequence uint64 `codec:"seq"`

	// Tag discriminates the event variant.
	Tag protocol.EventTag `codec:"tag"`

	// Timestamp is the ledger clock at emission, unix seconds.
	Timestamp int64 `codec:"ts"`

	CircleEventFields
	ReputationEventFields
	FeeEventFields
}

// CircleEventFields are set on circle lifecycle and money-movement events.
type CircleEventFields struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// Circle is the subject circle.
	Circle CircleID `codec:"cid"`

	// Member is the acting member: the creator on creation, the joiner on
	// join, the contributor on contribution, the recipient on payout.
	Member basics.Address `codec:"mbr"`

	// Amount is the value pooled by this event.
	Amount basics.MicroUnits `codec:"amt"`

	// Base and Bonus break down a payout.
	Base  basics.MicroUnits `codec:"base"`
	Bonus basics.MicroUnits `codec:"bonus"`

	// Round is the circle round the event applies to.
	Round basics.RoundIndex `codec:"rnd"`

	// MemberCount is the membership size after the event.
	MemberCount uint64 `codec:"mcnt"`

	// Fee is the protocol fee accrued by activation.
	Fee basics.MicroUnits `codec:"fee"`

	// Duration, Frequency and Goal echo creation parameters.
	Duration  uint64   `codec:"dur"`
	Frequency uint64   `codec:"freq"`
	Goal      GoalType `codec:"goal"`
}

// ReputationEventFields are set on reputation change events.
type ReputationEventFields struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// User is the account whose reputation changed.
	User basics.Address `codec:"usr"`

	// Score is the recomputed capped score.
	Score uint64 `codec:"score"`

	// Tier is the name of the tier the score falls in.
	Tier string `codec:"tier"`
}

// FeeEventFields are set on protocol fee withdrawals.
type FeeEventFields struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// Recipient received the withdrawn fees.
	Recipient basics.Address `codec:"rcv"`

	// Withdrawn is the amount taken out of the fee balance.
	Withdrawn basics.MicroUnits `codec:"wdr"`

	// Remaining is the fee balance left after the withdrawal.
	Remaining basics.MicroUnits `codec:"rem"`
}

// ToBeHashed implements the crypto.Hashable interface.
func (e Event) ToBeHashed() (protocol.HashID, []byte) {
	return protocol.Event, protocol.Encode(&e)
}

// ID returns a digest identifying the event record.
func (e Event) ID() crypto.Digest {
	return crypto.HashObj(e)
}
