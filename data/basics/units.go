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
	"github.com/algorand/go-codec/codec"
)

// MicroUnitsPerUnit converts between whole currency units and the micro
// denomination all balances are kept in.
const MicroUnitsPerUnit = 1000000

// MicroUnits wraps a raw 64-bit unsigned currency amount, denominated in
// millionths of a unit.  The wrapper keeps unchecked arithmetic out of
// reach: amounts are combined through the overflow-checked helpers in
// overflow.go instead of bare operators.
type MicroUnits struct {
	Raw uint64
}

// IsZero returns true when the amount is exactly zero.
func (a MicroUnits) IsZero() bool {
	return a.Raw == 0
}

// LessThan returns true when a is strictly smaller than b.
func (a MicroUnits) LessThan(b MicroUnits) bool {
	return a.Raw < b.Raw
}

// ToUnits returns the amount rounded down to whole units.
func (a MicroUnits) ToUnits() uint64 {
	return a.Raw / MicroUnitsPerUnit
}

// MicroUnitsFromUnits converts a whole-unit amount into MicroUnits,
// saturating on overflow.
func MicroUnitsFromUnits(units uint64) MicroUnits {
	return MicroUnits{Raw: MulSaturate(units, uint64(MicroUnitsPerUnit))}
}

// CodecEncodeSelf implements codec.Selfer so that amounts encode as a bare
// unsigned integer instead of a one-field struct.
func (a MicroUnits) CodecEncodeSelf(enc *codec.Encoder) {
	enc.MustEncode(a.Raw)
}

// CodecDecodeSelf implements codec.Selfer.
func (a *MicroUnits) CodecDecodeSelf(dec *codec.Decoder) {
	dec.MustDecode(&a.Raw)
}

// RoundIndex identifies one contribution-and-payout cycle of a circle.
// Rounds are numbered from zero.
type RoundIndex uint64
