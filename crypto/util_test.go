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

package crypto

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/susu-finance/go-susu/protocol"
)

func TestEncodeDecode(t *testing.T) {
	toBeHashed := []byte("this is a test")
	hashed := Hash(toBeHashed)
	hashedStr := hashed.String()
	recovered, err := DigestFromString(hashedStr)

	require.NoError(t, err)
	require.Equal(t, hashed, recovered)
}

func TestDigestFromStringRejectsBadInput(t *testing.T) {
	_, err := DigestFromString("not base32!")
	require.Error(t, err)

	// valid base32, wrong length
	_, err = DigestFromString("MFRGG")
	require.Error(t, err)
}

func TestDigestIsZero(t *testing.T) {
	d := Digest{}
	require.True(t, d.IsZero())
	require.Zero(t, d)

	d2 := Hash([]byte("nonzero"))
	require.False(t, d2.IsZero())
	require.NotZero(t, d2)
}

type testToBeHashed struct {
	id   protocol.HashID
	data []byte
}

func (tbh *testToBeHashed) ToBeHashed() (protocol.HashID, []byte) {
	return tbh.id, tbh.data
}

func TestHashRepPrependsHashID(t *testing.T) {
	tbh := &testToBeHashed{id: protocol.HashID(fmt.Sprintf("ID%d", 5)), data: []byte{5, 5, 5}}
	data := HashRep(tbh)
	require.Equal(t, []byte("ID5\x05\x05\x05"), data)
}

func TestHashObjDomainSeparation(t *testing.T) {
	// same payload under different type IDs must never collide
	payload := []byte("identical payload")
	a := &testToBeHashed{id: "AA", data: payload}
	b := &testToBeHashed{id: "BB", data: payload}
	require.NotEqual(t, HashObj(a), HashObj(b))
	require.Equal(t, HashObj(a), HashObj(&testToBeHashed{id: "AA", data: payload}))
}
