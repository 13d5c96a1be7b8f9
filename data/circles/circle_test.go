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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/susu-finance/go-susu/crypto"
	"github.com/susu-finance/go-susu/data/basics"
	"github.com/susu-finance/go-susu/protocol"
)

func addr(name string) basics.Address {
	return basics.Address(crypto.Hash([]byte(name)))
}

func TestComputeCircleID(t *testing.T) {
	creator := addr("creator")
	amount := basics.MicroUnits{Raw: 100 * basics.MicroUnitsPerUnit}

	id := ComputeCircleID(creator, 1700000000, amount)
	require.Equal(t, id, ComputeCircleID(creator, 1700000000, amount))

	require.NotEqual(t, id, ComputeCircleID(creator, 1700000001, amount))
	require.NotEqual(t, id, ComputeCircleID(addr("other"), 1700000000, amount))
	require.NotEqual(t, id, ComputeCircleID(creator, 1700000000, basics.MicroUnits{Raw: 1}))
}

func TestStatusStrings(t *testing.T) {
	for _, s := range []Status{Pending, Active, Completed, Cancelled} {
		name := s.String()
		require.NotEmpty(t, name)
		back, err := UnmarshalStatus(name)
		require.NoError(t, err)
		require.Equal(t, s, back)
	}

	require.Empty(t, Status(200).String())
	_, err := UnmarshalStatus("Frozen")
	require.Error(t, err)
}

func TestGoalTypeStrings(t *testing.T) {
	for _, g := range []GoalType{GoalGeneral, GoalEducation, GoalBusiness, GoalHousing, GoalEmergency, GoalTravel} {
		name := g.String()
		require.NotEmpty(t, name)
		back, err := UnmarshalGoalType(name)
		require.NoError(t, err)
		require.Equal(t, g, back)
	}

	require.Empty(t, GoalType(200).String())
	_, err := UnmarshalGoalType("Yacht")
	require.Error(t, err)
}

func testCircle() *Circle {
	return &Circle{
		ID:               ComputeCircleID(addr("alice"), 1700000000, basics.MicroUnits{Raw: 50}),
		Version:          protocol.CircleCurrentVersion,
		Creator:          addr("alice"),
		Amount:           basics.MicroUnits{Raw: 50},
		FrequencySeconds: 7 * 86400,
		Duration:         3,
		Status:           Active,
		CreatedAt:        1700000000,
		StartedAt:        1700000500,
		Members:          []basics.Address{addr("alice"), addr("bob"), addr("carol")},
	}
}

func TestContributionFlags(t *testing.T) {
	c := testCircle()

	require.False(t, c.HasContributed(0, addr("alice")))
	c.SetContributed(0, addr("alice"))
	require.True(t, c.HasContributed(0, addr("alice")))
	require.False(t, c.HasContributed(0, addr("bob")))
	require.False(t, c.HasContributed(1, addr("alice")))

	// non-members never have flags, and setting is a no-op
	c.SetContributed(0, addr("mallory"))
	require.False(t, c.HasContributed(0, addr("mallory")))
}

func TestRoundComplete(t *testing.T) {
	c := testCircle()
	require.False(t, c.RoundComplete())

	c.SetContributed(0, addr("alice"))
	c.SetContributed(0, addr("bob"))
	require.False(t, c.RoundComplete())

	c.SetContributed(0, addr("carol"))
	require.True(t, c.RoundComplete())

	// advancing the round resets completeness
	c.CurrentRound = 1
	require.False(t, c.RoundComplete())
}

func TestPayoutFlags(t *testing.T) {
	c := testCircle()

	require.False(t, c.HasReceivedPayout(addr("bob")))
	c.SetReceivedPayout(addr("bob"))
	require.True(t, c.HasReceivedPayout(addr("bob")))
	require.False(t, c.HasReceivedPayout(addr("alice")))

	c.SetReceivedPayout(addr("mallory"))
	require.False(t, c.HasReceivedPayout(addr("mallory")))
}

func TestMemberIndex(t *testing.T) {
	c := testCircle()

	idx, ok := c.MemberIndex(addr("alice"))
	require.True(t, ok)
	require.Equal(t, 0, idx)

	idx, ok = c.MemberIndex(addr("carol"))
	require.True(t, ok)
	require.Equal(t, 2, idx)

	_, ok = c.MemberIndex(addr("mallory"))
	require.False(t, ok)
	require.False(t, c.IsMember(addr("mallory")))
}

func TestCloneIsolation(t *testing.T) {
	c := testCircle()
	c.SetContributed(0, addr("alice"))
	c.Contributions = append(c.Contributions, Contribution{Member: addr("alice"), Amount: c.Amount})

	cp := c.Clone()
	require.Equal(t, c, cp)

	cp.Members = append(cp.Members, addr("dave"))
	cp.SetContributed(0, addr("bob"))
	cp.Contributions[0].Amount = basics.MicroUnits{Raw: 1}

	require.Len(t, c.Members, 3)
	require.False(t, c.HasContributed(0, addr("bob")))
	require.Equal(t, basics.MicroUnits{Raw: 50}, c.Contributions[0].Amount)
}

func TestCircleEncodingRoundtrip(t *testing.T) {
	c := testCircle()
	c.SetContributed(0, addr("alice"))
	c.SetContributed(0, addr("bob"))
	c.SetReceivedPayout(addr("carol"))
	c.Contributions = []Contribution{
		{Member: addr("alice"), Amount: c.Amount, Timestamp: 1700000100, Round: 0},
		{Member: addr("bob"), Amount: basics.MicroUnits{Raw: 75}, Timestamp: 1700000200, Round: 0},
	}
	c.Payouts = []Payout{
		{Recipient: addr("carol"), Base: basics.MicroUnits{Raw: 150}, Bonus: basics.MicroUnits{Raw: 1}, Timestamp: 1700000300, Round: 0},
	}
	c.Escrow = basics.MicroUnits{Raw: 25}
	c.TotalPooled = basics.MicroUnits{Raw: 175}
	c.TotalInterest = basics.MicroUnits{Raw: 1}

	buf := protocol.Encode(c)
	require.Equal(t, buf, protocol.Encode(c))

	var out Circle
	require.NoError(t, protocol.Decode(buf, &out))
	require.Equal(t, *c, out)
}
