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
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var minScore uint64

func init() {
	reputationCmd.AddCommand(showReputationCmd)
	reputationCmd.AddCommand(scoreCmd)
	reputationCmd.AddCommand(tierCmd)
	reputationCmd.AddCommand(checkScoreCmd)

	reputationCmd.PersistentFlags().StringVarP(&account, "account", "a", "", "Account address to query (required)")

	checkScoreCmd.Flags().Uint64Var(&minScore, "min", 0, "Minimum score to test against (required)")
	checkScoreCmd.MarkFlagRequired("min")
}

var reputationCmd = &cobra.Command{
	Use:   "reputation",
	Short: "Query the reputation registry",
	Long:  "Query the reputation registry. Scores and tiers reflect the state as of the account's last recorded activity.",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		// If no arguments passed, we should fallback to help
		cmd.HelpFunc()(cmd, args)
	},
}

func ensureAccount() string {
	if account == "" {
		reportErrorln("No account specified. Use -a to name the account to query.")
	}
	return account
}

func colorTier(tier string) string {
	c := yellow
	switch tier {
	case "Silver":
		c = color.FgWhite
	case "Gold":
		c = green
	case "Platinum", "Diamond":
		c = cyan
	}
	return color.New(c).Sprint(tier)
}

var showReputationCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the full reputation record of an account",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, _ []string) {
		response, err := ensureSusuClient(ensureDataDir()).Reputation(ensureAccount())
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}

		fmt.Printf("Account: %s\n", response.Address)
		fmt.Printf("Score: %d\n", response.Score)
		fmt.Printf("Tier: %s\n", colorTier(response.Tier))
		fmt.Printf("Circles completed: %d\n", response.CirclesCompleted)
		fmt.Printf("Circles active: %d\n", response.CirclesActive)
		fmt.Printf("Total contributed: %d\n", response.TotalContributed)
		fmt.Printf("On-time payments: %d\n", response.OnTimePayments)
		fmt.Printf("Missed payments: %d\n", response.MissedPayments)
		fmt.Printf("Account created at: %d\n", response.AccountCreatedAt)
		fmt.Printf("Last active at: %d\n", response.LastActiveAt)
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Show just the stored score of an account",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, _ []string) {
		response, err := ensureSusuClient(ensureDataDir()).ReputationScore(ensureAccount())
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		reportInfof(infoReputationScore, response.Address, response.Score)
	},
}

var tierCmd = &cobra.Command{
	Use:   "tier",
	Short: "Show just the stored tier of an account",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, _ []string) {
		response, err := ensureSusuClient(ensureDataDir()).ReputationTier(ensureAccount())
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		reportInfof(infoReputationTier, response.Address, colorTier(response.Tier))
	},
}

var checkScoreCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the stored score of an account against a threshold",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, _ []string) {
		response, err := ensureSusuClient(ensureDataDir()).MeetsMinimumScore(ensureAccount(), minScore)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		reportInfof(infoMeetsMinimum, response.Address, response.MinScore, response.Meets)
	},
}
