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

// Package tokens manages the pre-shared API tokens stored in the data
// directory.
package tokens

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/susu-finance/go-susu/crypto"
)

// SusudTokenFilename is the name of this daemon's API auth token file,
// relative to the data directory.
const SusudTokenFilename = "susud.token"

// tokenBytes is the number of random bytes in a generated token; the token
// itself is the hex encoding, twice as many characters.
const tokenBytes = 32

// ValidateAPIToken returns a non-nil error if the token is invalid.
func ValidateAPIToken(token string) error {
	if len(token) != tokenBytes*2 {
		return fmt.Errorf("invalid token length: %d != %d", len(token), tokenBytes*2)
	}
	_, err := hex.DecodeString(token)
	return err
}

// GetAndValidateAPIToken reads the token stored in dataDir and validates it.
func GetAndValidateAPIToken(dataDir, tokenFilename string) (string, error) {
	buf, err := os.ReadFile(filepath.Join(dataDir, tokenFilename))
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(string(buf))
	return token, ValidateAPIToken(token)
}

// writeAPITokenToDisk persists the token with a trailing newline so the file
// behaves in shell pipelines.
func writeAPITokenToDisk(dataDir, tokenFilename, token string) error {
	return os.WriteFile(filepath.Join(dataDir, tokenFilename), []byte(token+"\n"), 0644)
}

// generateAPIToken returns a fresh random token.
func generateAPIToken() string {
	tbytes := make([]byte, tokenBytes)
	crypto.RandBytes(tbytes)
	return hex.EncodeToString(tbytes)
}

// ValidateOrGenerateAPIToken returns the token stored in dataDir, generating
// and persisting a fresh one if no token file exists yet.  wroteNewToken
// reports the generation so callers can surface the new token to the
// operator.  A present but invalid token is an error, never silently
// replaced.
func ValidateOrGenerateAPIToken(dataDir, tokenFilename string) (token string, wroteNewToken bool, err error) {
	token, err = GetAndValidateAPIToken(dataDir, tokenFilename)
	if os.IsNotExist(err) {
		token = generateAPIToken()
		wroteNewToken = true
		err = writeAPITokenToDisk(dataDir, tokenFilename, token)
	}
	if err != nil {
		return "", false, err
	}
	return token, wroteNewToken, nil
}
