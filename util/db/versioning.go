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

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// GetUserVersion returns the database's user_version pragma, which the
// stores use to track their schema version.
func GetUserVersion(ctx context.Context, tx *sql.Tx) (version int32, err error) {
	err = tx.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

// SetUserVersion sets the database's user_version pragma and returns the
// previous value.
func SetUserVersion(ctx context.Context, tx *sql.Tx, version int32) (previousVersion int32, err error) {
	previousVersion, err = GetUserVersion(ctx, tx)
	if err != nil {
		return 0, err
	}

	// PRAGMA does not support parameter binding; version is an int32 so
	// formatting it in directly is safe.
	_, err = tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version))
	if err != nil {
		return 0, err
	}

	return previousVersion, nil
}
