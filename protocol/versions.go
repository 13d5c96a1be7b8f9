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

// CircleVersion identifies the set of rules a circle operates under: how
// payout interest accrues, how the protocol fee is charged, and which
// lifecycle transitions are legal.  The version is persisted with every
// circle, so circles created under older rules keep those rules even if
// the defaults change later.
type CircleVersion string

// CircleV1 is the initial version of the circle rules.
const CircleV1 = CircleVersion("v1")

// CircleCurrentVersion is the version assigned to newly created circles.
const CircleCurrentVersion = CircleV1
