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

package ledger

import (
	"time"
)

// Clock supplies the ledger's notion of current time, in unix seconds.  The
// clock is read once at the start of each operation, so all records and
// events written by one operation carry the same timestamp.  Nothing in the
// ledger schedules work off the clock: rounds never expire, and a circle
// only moves when an operation is called.
type Clock interface {
	Now() int64
}

type wallClock struct{}

func (wallClock) Now() int64 {
	return time.Now().Unix()
}
