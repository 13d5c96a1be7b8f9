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

package tokens

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateAPIToken(t *testing.T) {
	require.NoError(t, ValidateAPIToken(strings.Repeat("ab", tokenBytes)))
	require.Error(t, ValidateAPIToken(""))
	require.Error(t, ValidateAPIToken("abcd"))
	require.Error(t, ValidateAPIToken(strings.Repeat("zz", tokenBytes)))
}

func TestGenerateThenReload(t *testing.T) {
	dir := t.TempDir()

	token, wroteNewToken, err := ValidateOrGenerateAPIToken(dir, SusudTokenFilename)
	require.NoError(t, err)
	require.True(t, wroteNewToken)
	require.NoError(t, ValidateAPIToken(token))

	// A second call reads the same token back instead of rotating it.
	again, wroteNewToken, err := ValidateOrGenerateAPIToken(dir, SusudTokenFilename)
	require.NoError(t, err)
	require.False(t, wroteNewToken)
	require.Equal(t, token, again)

	read, err := GetAndValidateAPIToken(dir, SusudTokenFilename)
	require.NoError(t, err)
	require.Equal(t, token, read)
}

func TestMissingTokenIsNotFound(t *testing.T) {
	dir := t.TempDir()
	_, err := GetAndValidateAPIToken(dir, SusudTokenFilename)
	require.True(t, os.IsNotExist(err))
}

func TestCorruptTokenRejected(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SusudTokenFilename), []byte("not-a-token\n"), 0644))

	_, err := GetAndValidateAPIToken(dir, SusudTokenFilename)
	require.Error(t, err)

	// Generation never overwrites a present but corrupt token.
	_, _, err = ValidateOrGenerateAPIToken(dir, SusudTokenFilename)
	require.Error(t, err)
}
