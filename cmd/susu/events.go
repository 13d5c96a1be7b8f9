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
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	firstSequence uint64
	maxEntries    uint64
)

func init() {
	eventsCmd.Flags().Uint64Var(&firstSequence, "first", 0, "First sequence number to return")
	eventsCmd.Flags().Uint64Var(&maxEntries, "max", 0, "Maximum number of entries to return (server default when 0)")

	paymentsCmd.Flags().Uint64Var(&firstSequence, "first", 0, "First sequence number to return")
	paymentsCmd.Flags().Uint64Var(&maxEntries, "max", 0, "Maximum number of entries to return (server default when 0)")
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Page through the ledger event log",
	Long:  "Page through the append-only ledger event log as json, one event per line, in sequence order.",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, _ []string) {
		response, err := ensureSusuClient(ensureDataDir()).Events(firstSequence, maxEntries)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}

		enc := json.NewEncoder(os.Stdout)
		for _, event := range response.Events {
			if err := enc.Encode(event); err != nil {
				reportErrorf(errorRequestFail, err)
			}
		}
	},
}

var paymentsCmd = &cobra.Command{
	Use:   "payments",
	Short: "Page through the settlement journal",
	Long:  "Page through the settlement journal in sequence order. Each entry is value owed out of the ledger, either a payout or a fee withdrawal.",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, _ []string) {
		response, err := ensureSusuClient(ensureDataDir()).Payments(firstSequence, maxEntries)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}

		for _, p := range response.Payments {
			fmt.Printf("%d\t%s\t%s\t%d\t(at %d)\n", p.Sequence, p.Kind, p.Recipient, p.Amount, p.Timestamp)
		}
	},
}
