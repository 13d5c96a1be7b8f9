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

import (
	"github.com/spf13/cobra"
)

func init() {
	ledgerCmd.AddCommand(totalsCmd)
}

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Access ledger-related details",
	Long:  "Access ledger-related details",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		// If no arguments passed, we should fallback to help
		cmd.HelpFunc()(cmd, args)
	},
}

var totalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Show the ledger-wide running totals",
	Long:  "Show the ledger-wide running totals. All units are in micro units.",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, _ []string) {
		response, err := ensureSusuClient(ensureDataDir()).LedgerTotals()
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}

		reportInfof(infoLedgerTotals, response.Circles, response.Pooled, response.Interest,
			response.FeesAccrued, response.FeesWithdrawn, response.FeeBalance)
	},
}
