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

package basics

import (
	"fmt"
)

// Tier is the discrete band a reputation score falls in.
type Tier byte

const (
	// TierBronze covers scores below the silver threshold, including
	// users who have never been scored.
	TierBronze Tier = iota
	// TierSilver is the second band.
	TierSilver
	// TierGold is the third band.
	TierGold
	// TierPlatinum is the fourth band.
	TierPlatinum
	// TierDiamond is reserved for a score at the cap exactly.
	TierDiamond
)

func (t Tier) String() string {
	switch t {
	case TierBronze:
		return "Bronze"
	case TierSilver:
		return "Silver"
	case TierGold:
		return "Gold"
	case TierPlatinum:
		return "Platinum"
	case TierDiamond:
		return "Diamond"
	}
	return ""
}

// UnmarshalTier decodes string tier value back to Tier constant
func UnmarshalTier(value string) (t Tier, err error) {
	switch value {
	case "Bronze":
		t = TierBronze
	case "Silver":
		t = TierSilver
	case "Gold":
		t = TierGold
	case "Platinum":
		t = TierPlatinum
	case "Diamond":
		t = TierDiamond
	default:
		err = fmt.Errorf("unknown reputation tier: %v", value)
	}
	return
}

// UserReputation contains the reputation data associated with a given
// address.
//
// The counters are raw facts recorded by the reputation registry; Score and
// Tier are the snapshot left by the most recent recompute.  A recompute
// happens only on contribution and completion events, so the stored score
// can lag the score a fresh recompute would produce (the account-age term
// keeps growing between events).  Callers must treat Score as a snapshot,
// not a cached invariant.
type UserReputation struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// CirclesCompleted counts circles the user has seen through to
	// completion.
	CirclesCompleted uint64 `codec:"done"`

	// CirclesActive counts circles the user currently belongs to.  It is
	// decremented on completion and never goes below zero.
	CirclesActive uint64 `codec:"live"`

	// TotalContributed is the lifetime sum of the user's contributions,
	// including overpayments.
	TotalContributed MicroUnits `codec:"vol"`

	// OnTimePayments and MissedPayments partition the user's recorded
	// payments.
	OnTimePayments uint64 `codec:"ontime"`
	MissedPayments uint64 `codec:"missed"`

	// AccountCreatedAt is the unix time the record was first touched.
	// Zero means the user has never been seen; it is set exactly once.
	AccountCreatedAt int64 `codec:"born"`

	// LastActiveAt is the unix time of the most recent touch.
	LastActiveAt int64 `codec:"seen"`

	// Score is the capped score from the last recompute, in [0, MaxScore].
	Score uint64 `codec:"score"`

	// Tier is the band Score fell in at the last recompute.
	Tier Tier `codec:"tier"`
}

// Initialized returns true once the record has been touched by any
// registry call.
func (u UserReputation) Initialized() bool {
	return u.AccountCreatedAt != 0
}

// IsZero checks if a UserReputation value is the same as its zero value.
func (u UserReputation) IsZero() bool {
	return u == UserReputation{}
}
