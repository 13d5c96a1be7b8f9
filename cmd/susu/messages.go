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

package main

const (
	// General
	errorNoDataDirectory   = "Data directory not specified.  Please use -d or set $SUSUD_DATA in your environment. Exiting."
	errorRequestFail       = "Error processing command: %s"
	errorDaemonNotDetected = "Susu daemon does not appear to be running: %s"
	errorAPIToken          = "Cannot read API token: %s"

	// Status
	infoDaemonStatus = "Next event sequence: %d\nCircles created: %d\nTotal pooled: %d\nFee balance: %d\nOwner: %s\nVersion: %s"

	// Circle
	infoCircleCreated = "Created circle %s"
	infoCircleStatus  = "Circle: %s\nVersion: %s\nCreator: %s\nStatus: %s\nContribution amount: %d\nFrequency (seconds): %d\nDuration (rounds): %d\nGoal: %s\nCurrent round: %d\nMembers: %d\nEscrow: %d\nTotal pooled: %d\nTotal interest: %d"
	infoPayout        = "Paid out round %d to %s: base %d, bonus %d"
	infoContributed   = "Member %s contributed in round %d of circle %s: %v"
	infoPaidOut       = "Member %s has been paid out in circle %s: %v"

	// Ledger
	infoLedgerTotals = "Circles created: %d\nTotal pooled: %d\nTotal interest: %d\nFees accrued: %d\nFees withdrawn: %d\nFee balance: %d"

	// Fees
	infoFeesWithdrawn = "Withdrew %d to %s, fee balance now %d"

	// Reputation
	infoReputationScore = "Score of %s: %d"
	infoReputationTier  = "Tier of %s: %s"
	infoMeetsMinimum    = "Score of %s meets minimum %d: %v"
)
