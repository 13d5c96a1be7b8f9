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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOAddOSub(t *testing.T) {
	max := uint64(math.MaxUint64)

	res, overflowed := OAdd(max-1, 1)
	require.False(t, overflowed)
	require.Equal(t, max, res)

	_, overflowed = OAdd(max, 1)
	require.True(t, overflowed)

	res, overflowed = OSub(uint64(1), 1)
	require.False(t, overflowed)
	require.Equal(t, uint64(0), res)

	_, overflowed = OSub(uint64(0), 1)
	require.True(t, overflowed)
}

func TestOMul(t *testing.T) {
	res, overflowed := OMul(uint64(1<<32), uint64(1<<31))
	require.False(t, overflowed)
	require.Equal(t, uint64(1<<63), res)

	_, overflowed = OMul(uint64(1<<32), uint64(1<<32))
	require.True(t, overflowed)

	res, overflowed = OMul(uint64(math.MaxUint64), 0)
	require.False(t, overflowed)
	require.Equal(t, uint64(0), res)
}

func TestSaturating(t *testing.T) {
	max := uint64(math.MaxUint64)

	require.Equal(t, max, AddSaturate(max, 1))
	require.Equal(t, max-1, AddSaturate(max-2, 1))

	require.Equal(t, uint64(0), SubSaturate(uint64(1), 2))
	require.Equal(t, uint64(1), SubSaturate(uint64(2), 1))

	require.Equal(t, max, MulSaturate(max/2, 3))
	require.Equal(t, uint64(6), MulSaturate(uint64(2), 3))
}

func TestOverflowTracker(t *testing.T) {
	var ot OverflowTracker
	require.Equal(t, uint64(5), ot.Add(2, 3))
	require.Equal(t, uint64(1), ot.Sub(3, 2))
	require.Equal(t, uint64(6), ot.Mul(2, 3))
	require.False(t, ot.Overflowed)

	ot.Sub(2, 3)
	require.True(t, ot.Overflowed)

	// once tripped, the flag stays set
	ot.Add(1, 1)
	require.True(t, ot.Overflowed)
}

func TestMicroUnitsHelpers(t *testing.T) {
	a := MicroUnits{Raw: 10}
	b := MicroUnits{Raw: 3}

	sum, overflowed := OAddU(a, b)
	require.False(t, overflowed)
	require.Equal(t, MicroUnits{Raw: 13}, sum)

	diff, overflowed := OSubU(a, b)
	require.False(t, overflowed)
	require.Equal(t, MicroUnits{Raw: 7}, diff)

	_, overflowed = OSubU(b, a)
	require.True(t, overflowed)

	require.Equal(t, MicroUnits{Raw: 30}, MulUIntSaturate(a, 3))
	require.Equal(t, MicroUnits{Raw: math.MaxUint64}, MulUIntSaturate(MicroUnits{Raw: math.MaxUint64 / 2}, 3))

	require.Equal(t, b, MinU(a, b))
	require.Equal(t, b, MinU(b, a))

	var ot OverflowTracker
	require.Equal(t, MicroUnits{Raw: 13}, ot.AddU(a, b))
	require.Equal(t, MicroUnits{Raw: 7}, ot.SubU(a, b))
	require.Equal(t, MicroUnits{Raw: 50}, ot.ScalarMulU(a, 5))
	require.False(t, ot.Overflowed)
}

func TestMuldiv(t *testing.T) {
	res, overflowed := Muldiv(uint64(100), uint64(3), 2)
	require.False(t, overflowed)
	require.Equal(t, uint64(150), res)

	// intermediate product exceeds 64 bits but the quotient fits
	res, overflowed = Muldiv(uint64(math.MaxUint64), uint64(math.MaxUint64), math.MaxUint64)
	require.False(t, overflowed)
	require.Equal(t, uint64(math.MaxUint64), res)

	_, overflowed = Muldiv(uint64(math.MaxUint64), uint64(2), 1)
	require.True(t, overflowed)
}

func TestDivCeil(t *testing.T) {
	require.Equal(t, 2, DivCeil(3, 2))
	require.Equal(t, 1, DivCeil(2, 2))
	require.Equal(t, 0, DivCeil(0, 2))
	require.Equal(t, uint64(4), DivCeil(uint64(10), uint64(3)))
}
