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

package codecs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testValue struct {
	Bool   bool
	String string
	Int    int
}

func TestSaveObjectRoundtrip(t *testing.T) {
	a := require.New(t)
	filename := filepath.Join(t.TempDir(), "obj.json")

	v := testValue{Bool: true, String: "round", Int: 7}
	a.NoError(SaveObjectToFile(filename, v, true))

	var out testValue
	a.NoError(LoadObjectFromFile(filename, &out))
	a.Equal(v, out)
}

func TestSaveNonDefaultValues(t *testing.T) {
	a := require.New(t)
	filename := filepath.Join(t.TempDir(), "trimmed.json")

	v := testValue{
		Bool:   true,
		String: "default",
		Int:    1,
	}
	def := testValue{
		Bool:   true,
		String: "default",
		Int:    2,
	}

	a.NoError(SaveNonDefaultValuesToFile(filename, v, def, []string{"Bool"}, true))

	content, err := os.ReadFile(filename)
	a.NoError(err)

	var written map[string]interface{}
	a.NoError(json.Unmarshal(content, &written))

	// Int differs from the default, Bool is always included, String matches
	// the default and must be dropped.
	a.Contains(written, "Int")
	a.Contains(written, "Bool")
	a.NotContains(written, "String")
}

func TestSaveNonDefaultValuesRejectsMismatchedTypes(t *testing.T) {
	a := require.New(t)
	filename := filepath.Join(t.TempDir(), "bad.json")

	err := SaveNonDefaultValuesToFile(filename, testValue{}, struct{ X int }{}, nil, false)
	a.Error(err)
}
