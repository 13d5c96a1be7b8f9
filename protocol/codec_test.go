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

package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

type testObject struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Alpha uint64            `codec:"a"`
	Beta  string            `codec:"b"`
	Gamma []byte            `codec:"g"`
	Pairs map[string]uint64 `codec:"p"`
}

func TestEncodeDecodeRoundtrip(t *testing.T) {
	in := testObject{
		Alpha: 42,
		Beta:  "hello",
		Gamma: []byte{1, 2, 3},
		Pairs: map[string]uint64{"x": 1, "y": 2},
	}

	buf := Encode(&in)
	var out testObject
	require.NoError(t, Decode(buf, &out))
	require.Equal(t, in, out)
}

func TestOmitEmpty(t *testing.T) {
	var x testObject
	enc := Encode(&x)
	require.Equal(t, 1, len(enc))
}

func TestEncodeIsCanonical(t *testing.T) {
	// map key order must not leak into the encoding
	in := testObject{Pairs: map[string]uint64{}}
	for _, k := range []string{"q", "a", "z", "m", "b"} {
		in.Pairs[k] = uint64(len(k))
	}

	first := Encode(&in)
	for i := 0; i < 32; i++ {
		require.Equal(t, first, Encode(&in))
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	type widened struct {
		_struct struct{} `codec:",omitempty,omitemptyarray"`

		Alpha uint64 `codec:"a"`
		Extra uint64 `codec:"zz"`
	}
	buf := Encode(&widened{Alpha: 1, Extra: 9})

	var out testObject
	require.Error(t, Decode(buf, &out))
}

func TestEncodeDecodeStream(t *testing.T) {
	in := testObject{Alpha: 7, Beta: "stream"}
	var buf bytes.Buffer
	EncodeStream(&buf, &in)

	var out testObject
	require.NoError(t, DecodeStream(&buf, &out))
	require.Equal(t, in, out)
}

func TestEncodeJSONRoundtrip(t *testing.T) {
	in := testObject{Alpha: 3, Beta: "json", Gamma: []byte{9}}
	buf := EncodeJSON(&in)

	var out testObject
	require.NoError(t, DecodeJSON(buf, &out))
	require.Equal(t, in, out)
}
