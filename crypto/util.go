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
	"crypto/rand"
	"crypto/sha512"
	"encoding/base32"
	"fmt"

	"github.com/susu-finance/go-susu/protocol"
)

// RandBytes fills the provided structure with a set of random bytes.
func RandBytes(out []byte) {
	_, err := rand.Read(out)
	if err != nil {
		panic(fmt.Errorf("RandBytes: %v", err))
	}
}

// Hashable is an interface implemented by an object that can be represented
// with a sequence of bytes to be hashed, together with a type ID to
// distinguish different types of objects.
type Hashable interface {
	ToBeHashed() (protocol.HashID, []byte)
}

// HashRep appends the correct hashid before the message to be hashed.
func HashRep(h Hashable) []byte {
	hashid, data := h.ToBeHashed()
	return append([]byte(hashid), data...)
}

// DigestSize is the number of bytes in the preferred hash Digest used here.
const DigestSize = sha512.Size256

// Digest represents a 32-byte value holding the 256-bit Hash digest.
type Digest [DigestSize]byte

// String returns the digest in a human-readable Base32 string.
func (d Digest) String() string {
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(d[:])
}

// TrimmedString returns a potentially-ambiguous short string representation
// for human consumption.
func (d Digest) TrimmedString() string {
	s := d.String()
	if len(s) > 16 {
		return s[:16]
	}
	return s
}

// IsZero returns true if the digest contains only zeros, false otherwise.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// DigestFromString converts a string to a Digest.
func DigestFromString(str string) (d Digest, err error) {
	decoded, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(str)
	if err != nil {
		return d, err
	}
	if len(decoded) != len(d) {
		return d, fmt.Errorf("DigestFromString: decoded wrong length: %d != %d", len(decoded), len(d))
	}
	copy(d[:], decoded)
	return d, nil
}

// Hash computes the SHA-512/256 hash of an array of bytes.
func Hash(data []byte) Digest {
	return sha512.Sum512_256(data)
}

// HashObj computes a hash of a Hashable object and its type.
func HashObj(h Hashable) Digest {
	return Hash(HashRep(h))
}
