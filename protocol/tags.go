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

// EventTag identifies the type of an event record in the ledger's event log.
// Listeners can register interest by tag, and the tag is part of the encoded
// record, so the log stays decodable as new event types are added.
type EventTag string

// Event tags, in lexicographic sort order of tag values to avoid duplicates.
const (
	UnknownEventTag      EventTag = "??"
	CircleCreatedTag     EventTag = "cc"
	CircleCompletedTag   EventTag = "cd"
	ContributionMadeTag  EventTag = "cm"
	CircleStartedTag     EventTag = "cs"
	FeesWithdrawnTag     EventTag = "fw"
	MemberJoinedTag      EventTag = "mj"
	PayoutProcessedTag   EventTag = "pp"
	ReputationChangedTag EventTag = "ru"
)
