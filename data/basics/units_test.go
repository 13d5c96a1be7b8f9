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
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/susu-finance/go-susu/protocol"
)

func TestMicroUnitsPredicates(t *testing.T) {
	require.True(t, MicroUnits{}.IsZero())
	require.False(t, MicroUnits{Raw: 1}.IsZero())

	require.True(t, MicroUnits{Raw: 1}.LessThan(MicroUnits{Raw: 2}))
	require.False(t, MicroUnits{Raw: 2}.LessThan(MicroUnits{Raw: 2}))
	require.False(t, MicroUnits{Raw: 3}.LessThan(MicroUnits{Raw: 2}))
}

func TestMicroUnitsConversion(t *testing.T) {
	require.Equal(t, uint64(0), MicroUnits{Raw: MicroUnitsPerUnit - 1}.ToUnits())
	require.Equal(t, uint64(1), MicroUnits{Raw: MicroUnitsPerUnit}.ToUnits())
	require.Equal(t, uint64(2), MicroUnits{Raw: 2*MicroUnitsPerUnit + 5}.ToUnits())

	require.Equal(t, MicroUnits{Raw: 3 * MicroUnitsPerUnit}, MicroUnitsFromUnits(3))
	require.Equal(t, MicroUnits{Raw: math.MaxUint64}, MicroUnitsFromUnits(math.MaxUint64))
}

func TestMicroUnitsEncodesAsBareInteger(t *testing.T) {
	amt := MicroUnits{Raw: 12345}
	require.Equal(t, protocol.Encode(amt.Raw), protocol.Encode(amt))

	var out MicroUnits
	require.NoError(t, protocol.Decode(protocol.Encode(amt), &out))
	require.Equal(t, amt, out)
}

// OldMuldiv is the wide-integer reference implementation Muldiv is checked
// against.
func OldMuldiv(a uint64, b uint64, c uint64) (res uint64, overflow bool) {
	var aa big.Int
	aa.SetUint64(a)

	var bb big.Int
	bb.SetUint64(b)

	var cc big.Int
	cc.SetUint64(c)

	aa.Mul(&aa, &bb)
	aa.Div(&aa, &cc)

	return aa.Uint64(), !aa.IsUint64()
}

func TestMuldivAgainstBigInt(t *testing.T) {
	cases := []struct{ a, b, c uint64 }{
		{math.MaxUint64, math.MaxUint64, math.MaxUint64},
		{math.MaxUint64, math.MaxUint64, 1},
		{math.MaxUint64, 1, math.MaxUint64},
		{1e18, 4 * 7 * 86400, 365 * 86400 * 100},
		{0, math.MaxUint64, 5},
		{math.MaxUint64 / 2, 2, 3},
	}
	for _, tc := range cases {
		want, wantOver := OldMuldiv(tc.a, tc.b, tc.c)
		got, gotOver := Muldiv(tc.a, tc.b, tc.c)
		require.Equal(t, wantOver, gotOver, "a=%d b=%d c=%d", tc.a, tc.b, tc.c)
		if !wantOver {
			require.Equal(t, want, got, "a=%d b=%d c=%d", tc.a, tc.b, tc.c)
		}
	}
}
