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

	v1 "github.com/susu-finance/go-susu/daemon/susud/api/spec/v1"
)

var (
	feesFrom      string
	feesRecipient string
	feesAmount    uint64
)

func init() {
	feesCmd.AddCommand(withdrawFeesCmd)

	withdrawFeesCmd.Flags().StringVarP(&feesFrom, "from", "f", "", "Calling address, must be the ledger owner (required)")
	withdrawFeesCmd.Flags().StringVarP(&feesRecipient, "to", "t", "", "Address receiving the withdrawn fees (required)")
	withdrawFeesCmd.Flags().Uint64VarP(&feesAmount, "amount", "a", 0, "Withdrawal, in micro units (required)")
	withdrawFeesCmd.MarkFlagRequired("from")
	withdrawFeesCmd.MarkFlagRequired("to")
	withdrawFeesCmd.MarkFlagRequired("amount")
}

var feesCmd = &cobra.Command{
	Use:   "fees",
	Short: "Manage the protocol fee balance",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		// If no arguments passed, we should fallback to help
		cmd.HelpFunc()(cmd, args)
	},
}

var withdrawFeesCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Draw from the protocol fee balance",
	Long:  "Draw from the protocol fee balance. Only the ledger owner may withdraw, and never more than the current balance.",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, _ []string) {
		client := ensureSusuClient(ensureDataDir())
		response, err := client.WithdrawFees(v1.WithdrawFeesRequest{
			Sender:    feesFrom,
			Recipient: feesRecipient,
			Amount:    feesAmount,
		})
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		reportInfof(infoFeesWithdrawn, feesAmount, feesRecipient, response.FeeBalance)
	},
}
