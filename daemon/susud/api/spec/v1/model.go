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

// Package v1 defines models exposed by the susud rest api
package v1

// DaemonStatus contains the information about a running susud instance
// swagger:model DaemonStatus
type DaemonStatus struct {
	// LastEventSequence is the sequence number the next event will take
	//
	// required: true
	LastEventSequence uint64 `json:"lastEventSequence"`

	// Circles counts circles ever created
	//
	// required: true
	Circles uint64 `json:"circles"`

	// Pooled is the lifetime sum of all contributions, in micro units
	//
	// required: true
	Pooled uint64 `json:"pooled"`

	// FeeBalance is the protocol fee balance available for withdrawal
	//
	// required: true
	FeeBalance uint64 `json:"feeBalance"`

	// Owner is the ledger owner address
	//
	// required: true
	Owner string `json:"owner"`

	// Version is the susud build version
	//
	// required: true
	Version string `json:"version"`
}

// CreateCircleRequest is the request body for creating a circle
// swagger:model CreateCircleRequest
type CreateCircleRequest struct {
	// Sender is the creator address
	//
	// required: true
	Sender string `json:"sender"`

	// Amount is the per-member per-round contribution, in micro units
	//
	// required: true
	Amount uint64 `json:"amount"`

	// FrequencySeconds is the intended round length
	//
	// required: true
	FrequencySeconds uint64 `json:"frequencySeconds"`

	// Duration is the number of rounds
	//
	// required: true
	Duration uint64 `json:"duration"`

	// Goal labels what the circle is saving toward
	//
	// required: false
	Goal string `json:"goal,omitempty"`
}

// CircleIDResponse names a freshly created circle
// swagger:model CircleIDResponse
type CircleIDResponse struct {
	// CircleID is the string encoding of the circle identifier
	//
	// required: true
	CircleID string `json:"circleId"`
}

// JoinCircleRequest is the request body for joining a circle
// swagger:model JoinCircleRequest
type JoinCircleRequest struct {
	// Sender is the joining member address
	//
	// required: true
	Sender string `json:"sender"`

	// Value is the contribution pooled while joining, in micro units
	//
	// required: true
	Value uint64 `json:"value"`
}

// ContributeRequest is the request body for a periodic contribution
// swagger:model ContributeRequest
type ContributeRequest struct {
	// Sender is the contributing member address
	//
	// required: true
	Sender string `json:"sender"`

	// Value is the contribution, in micro units
	//
	// required: true
	Value uint64 `json:"value"`
}

// PayoutRequest is the request body for processing a payout
// swagger:model PayoutRequest
type PayoutRequest struct {
	// Sender is the calling address
	//
	// required: true
	Sender string `json:"sender"`

	// Recipient is the member receiving the round pool
	//
	// required: true
	Recipient string `json:"recipient"`
}

// WithdrawFeesRequest is the request body for a protocol fee withdrawal
// swagger:model WithdrawFeesRequest
type WithdrawFeesRequest struct {
	// Sender is the calling address and must be the ledger owner
	//
	// required: true
	Sender string `json:"sender"`

	// Recipient receives the withdrawn fees
	//
	// required: true
	Recipient string `json:"recipient"`

	// Amount is the withdrawal, in micro units
	//
	// required: true
	Amount uint64 `json:"amount"`
}

// Circle contains the complete externally visible state of one circle
// swagger:model Circle
type Circle struct {
	// CircleID is the string encoding of the circle identifier
	//
	// required: true
	CircleID string `json:"circleId"`

	// Version is the rule set the circle was created under
	//
	// required: true
	Version string `json:"version"`

	// Creator opened the circle and is always member zero
	//
	// required: true
	Creator string `json:"creator"`

	// Amount is the required contribution per member per round, in micro units
	//
	// required: true
	Amount uint64 `json:"amount"`

	// FrequencySeconds is the intended round length
	//
	// required: true
	FrequencySeconds uint64 `json:"frequencySeconds"`

	// Duration is the number of rounds the circle runs for
	//
	// required: true
	Duration uint64 `json:"duration"`

	// Goal labels what the circle is saving toward
	//
	// required: true
	Goal string `json:"goal"`

	// Status is the lifecycle state: Pending, Active, Completed or Cancelled
	//
	// required: true
	Status string `json:"status"`

	// CreatedAt is the creation time, unix seconds
	//
	// required: true
	CreatedAt int64 `json:"createdAt"`

	// StartedAt is the activation time, unix seconds, zero while pending
	//
	// required: false
	StartedAt int64 `json:"startedAt,omitempty"`

	// Members lists member addresses in join order
	//
	// required: true
	Members []string `json:"members"`

	// CurrentRound counts completed payout cycles
	//
	// required: true
	CurrentRound uint64 `json:"currentRound"`

	// Escrow is the pooled value currently held, in micro units
	//
	// required: true
	Escrow uint64 `json:"escrow"`

	// TotalPooled is the lifetime sum of contributions, in micro units
	//
	// required: true
	TotalPooled uint64 `json:"totalPooled"`

	// TotalInterest is the lifetime member interest credited, in micro units
	//
	// required: true
	TotalInterest uint64 `json:"totalInterest"`
}

// MemberList lists the members of one circle in join order
// swagger:model MemberList
type MemberList struct {
	// CircleID is the subject circle
	//
	// required: true
	CircleID string `json:"circleId"`

	// Members lists member addresses in join order
	//
	// required: true
	Members []string `json:"members"`
}

// Contribution is one accepted contribution
// swagger:model Contribution
type Contribution struct {
	// Member is the contributing member
	//
	// required: true
	Member string `json:"member"`

	// Amount is the full value pooled by this call, in micro units
	//
	// required: true
	Amount uint64 `json:"amount"`

	// Timestamp is when the contribution was accepted, unix seconds
	//
	// required: true
	Timestamp int64 `json:"timestamp"`

	// Round is the round the contribution was credited to
	//
	// required: true
	Round uint64 `json:"round"`
}

// ContributionList is the contribution log of one circle
// swagger:model ContributionList
type ContributionList struct {
	// CircleID is the subject circle
	//
	// required: true
	CircleID string `json:"circleId"`

	// Contributions in acceptance order
	//
	// required: true
	Contributions []Contribution `json:"contributions"`
}

// Payout is one processed payout
// swagger:model Payout
type Payout struct {
	// Recipient received the payout
	//
	// required: true
	Recipient string `json:"recipient"`

	// Base is the round pool share, in micro units
	//
	// required: true
	Base uint64 `json:"base"`

	// Bonus is the member interest share, in micro units
	//
	// required: true
	Bonus uint64 `json:"bonus"`

	// Timestamp is when the payout was processed, unix seconds
	//
	// required: true
	Timestamp int64 `json:"timestamp"`

	// Round is the round this payout closed
	//
	// required: true
	Round uint64 `json:"round"`
}

// PayoutList is the payout log of one circle
// swagger:model PayoutList
type PayoutList struct {
	// CircleID is the subject circle
	//
	// required: true
	CircleID string `json:"circleId"`

	// Payouts in processing order
	//
	// required: true
	Payouts []Payout `json:"payouts"`
}

// ContributedStatus reports whether a member contributed in a round
// swagger:model ContributedStatus
type ContributedStatus struct {
	// CircleID is the subject circle
	//
	// required: true
	CircleID string `json:"circleId"`

	// Round is the queried round
	//
	// required: true
	Round uint64 `json:"round"`

	// Address is the queried member
	//
	// required: true
	Address string `json:"address"`

	// Contributed is true once the member contributed in the round
	//
	// required: true
	Contributed bool `json:"contributed"`
}

// PayoutStatus reports whether a member has ever been paid out
// swagger:model PayoutStatus
type PayoutStatus struct {
	// CircleID is the subject circle
	//
	// required: true
	CircleID string `json:"circleId"`

	// Address is the queried member
	//
	// required: true
	Address string `json:"address"`

	// PaidOut is true once the member received a payout
	//
	// required: true
	PaidOut bool `json:"paidOut"`
}

// LedgerTotals carries the ledger-wide running totals
// swagger:model LedgerTotals
type LedgerTotals struct {
	// Circles counts circles ever created
	//
	// required: true
	Circles uint64 `json:"circles"`

	// Pooled is the lifetime sum of all contributions, in micro units
	//
	// required: true
	Pooled uint64 `json:"pooled"`

	// Interest is the lifetime member interest credited, in micro units
	//
	// required: true
	Interest uint64 `json:"interest"`

	// FeesAccrued is the lifetime protocol fee accrual, in micro units
	//
	// required: true
	FeesAccrued uint64 `json:"feesAccrued"`

	// FeesWithdrawn is the lifetime total drawn from the fee balance
	//
	// required: true
	FeesWithdrawn uint64 `json:"feesWithdrawn"`

	// FeeBalance is FeesAccrued minus FeesWithdrawn, in micro units
	//
	// required: true
	FeeBalance uint64 `json:"feeBalance"`
}

// Reputation is the full reputation record of one account
// swagger:model Reputation
type Reputation struct {
	// Address is the subject account
	//
	// required: true
	Address string `json:"address"`

	// CirclesCompleted counts circles the account finished
	//
	// required: true
	CirclesCompleted uint64 `json:"circlesCompleted"`

	// CirclesActive counts circles the account is currently in
	//
	// required: true
	CirclesActive uint64 `json:"circlesActive"`

	// TotalContributed is the lifetime contribution volume, in micro units
	//
	// required: true
	TotalContributed uint64 `json:"totalContributed"`

	// OnTimePayments counts contributions recorded as on time
	//
	// required: true
	OnTimePayments uint64 `json:"onTimePayments"`

	// MissedPayments counts contributions recorded as missed
	//
	// required: true
	MissedPayments uint64 `json:"missedPayments"`

	// AccountCreatedAt is when the record was first written, unix seconds
	//
	// required: true
	AccountCreatedAt int64 `json:"accountCreatedAt"`

	// LastActiveAt is the last mutation time, unix seconds
	//
	// required: true
	LastActiveAt int64 `json:"lastActiveAt"`

	// Score is the stored reputation score
	//
	// required: true
	Score uint64 `json:"score"`

	// Tier names the stored reputation tier
	//
	// required: true
	Tier string `json:"tier"`
}

// ScoreResponse carries just the stored score of one account
// swagger:model ScoreResponse
type ScoreResponse struct {
	// Address is the subject account
	//
	// required: true
	Address string `json:"address"`

	// Score is the stored reputation score
	//
	// required: true
	Score uint64 `json:"score"`
}

// TierResponse carries just the stored tier of one account
// swagger:model TierResponse
type TierResponse struct {
	// Address is the subject account
	//
	// required: true
	Address string `json:"address"`

	// Tier names the stored reputation tier
	//
	// required: true
	Tier string `json:"tier"`
}

// MeetsMinimumResponse reports a threshold check against the stored score
// swagger:model MeetsMinimumResponse
type MeetsMinimumResponse struct {
	// Address is the subject account
	//
	// required: true
	Address string `json:"address"`

	// MinScore is the threshold tested against
	//
	// required: true
	MinScore uint64 `json:"minScore"`

	// Meets is true when the stored score is at least MinScore
	//
	// required: true
	Meets bool `json:"meets"`
}

// Event is one decoded entry of the append-only event log
// swagger:model Event
type Event struct {
	// Sequence is the event's position in the log, strictly increasing
	//
	// required: true
	Sequence uint64 `json:"sequence"`

	// Tag discriminates the event variant
	//
	// required: true
	Tag string `json:"tag"`

	// Timestamp is the ledger clock at emission, unix seconds
	//
	// required: true
	Timestamp int64 `json:"timestamp"`

	// CircleID is the subject circle, empty on non-circle events
	//
	// required: false
	CircleID string `json:"circleId,omitempty"`

	// Member is the acting member
	//
	// required: false
	Member string `json:"member,omitempty"`

	// Amount is the value pooled by this event, in micro units
	//
	// required: false
	Amount uint64 `json:"amount,omitempty"`

	// Base and Bonus break down a payout, in micro units
	//
	// required: false
	Base uint64 `json:"base,omitempty"`

	// Bonus is the member interest share of a payout, in micro units
	//
	// required: false
	Bonus uint64 `json:"bonus,omitempty"`

	// Round is the circle round the event applies to
	//
	// required: false
	Round uint64 `json:"round,omitempty"`

	// MemberCount is the membership size after the event
	//
	// required: false
	MemberCount uint64 `json:"memberCount,omitempty"`

	// Fee is the protocol fee accrued by activation, in micro units
	//
	// required: false
	Fee uint64 `json:"fee,omitempty"`

	// Duration echoes the creation parameter
	//
	// required: false
	Duration uint64 `json:"duration,omitempty"`

	// Frequency echoes the creation parameter
	//
	// required: false
	Frequency uint64 `json:"frequency,omitempty"`

	// Goal echoes the creation parameter
	//
	// required: false
	Goal string `json:"goal,omitempty"`

	// User is the account whose reputation changed
	//
	// required: false
	User string `json:"user,omitempty"`

	// Score is the recomputed capped score
	//
	// required: false
	Score uint64 `json:"score,omitempty"`

	// Tier names the tier the score falls in
	//
	// required: false
	Tier string `json:"tier,omitempty"`

	// Recipient received a fee withdrawal
	//
	// required: false
	Recipient string `json:"recipient,omitempty"`

	// Withdrawn is the amount taken out of the fee balance, in micro units
	//
	// required: false
	Withdrawn uint64 `json:"withdrawn,omitempty"`

	// Remaining is the fee balance left after the withdrawal, in micro units
	//
	// required: false
	Remaining uint64 `json:"remaining,omitempty"`

	// Raw is the canonical msgpack encoding of the event record
	//
	// required: true
	// swagger:strfmt byte
	Raw []byte `json:"raw"`
}

// EventList is one page of the event log
// swagger:model EventList
type EventList struct {
	// Events in sequence order
	//
	// required: true
	Events []Event `json:"events"`
}

// Payment is one entry of the settlement journal
// swagger:model Payment
type Payment struct {
	// Sequence is the payment's position in the journal, strictly increasing
	//
	// required: true
	Sequence uint64 `json:"sequence"`

	// Recipient is the address value is owed to
	//
	// required: true
	Recipient string `json:"recipient"`

	// Amount is the payment, in micro units
	//
	// required: true
	Amount uint64 `json:"amount"`

	// Kind labels why value left the ledger: payout or fees
	//
	// required: true
	Kind string `json:"kind"`

	// Timestamp is when the payment was journaled, unix seconds
	//
	// required: true
	Timestamp int64 `json:"timestamp"`
}

// PaymentList is one page of the settlement journal
// swagger:model PaymentList
type PaymentList struct {
	// Payments in sequence order
	//
	// required: true
	Payments []Payment `json:"payments"`
}
