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

	v1 "github.com/susu-finance/go-susu/daemon/susud/api/spec/v1"
)

const (
	red    = color.FgRed
	green  = color.FgGreen
	yellow = color.FgYellow
	cyan   = color.FgCyan
)

var (
	circleID  string
	account   string // also used in reputation.go
	value     uint64
	amount    uint64
	frequency uint64
	duration  uint64
	goalName  string
	recipient string
	round     uint64
)

func init() {
	circleCmd.AddCommand(createCircleCmd)
	circleCmd.AddCommand(showCircleCmd)
	circleCmd.AddCommand(joinCircleCmd)
	circleCmd.AddCommand(contributeCmd)
	circleCmd.AddCommand(payoutCmd)
	circleCmd.AddCommand(membersCmd)
	circleCmd.AddCommand(contributionsCmd)
	circleCmd.AddCommand(payoutsCmd)
	circleCmd.AddCommand(contributedCmd)
	circleCmd.AddCommand(paidCmd)

	circleCmd.PersistentFlags().StringVarP(&circleID, "circle", "c", "", "Circle ID to operate on")

	createCircleCmd.Flags().StringVarP(&account, "from", "f", "", "Creator address, becomes member zero (required)")
	createCircleCmd.Flags().Uint64VarP(&amount, "amount", "a", 0, "Required contribution per member per round, in micro units (required)")
	createCircleCmd.Flags().Uint64Var(&frequency, "frequency", 0, "Intended round length, in seconds (required)")
	createCircleCmd.Flags().Uint64Var(&duration, "duration", 0, "Number of rounds the circle runs for (required)")
	createCircleCmd.Flags().StringVar(&goalName, "goal", "", "Savings goal label (default General)")
	createCircleCmd.MarkFlagRequired("from")
	createCircleCmd.MarkFlagRequired("amount")
	createCircleCmd.MarkFlagRequired("frequency")
	createCircleCmd.MarkFlagRequired("duration")

	joinCircleCmd.Flags().StringVarP(&account, "from", "f", "", "Joining member address (required)")
	joinCircleCmd.Flags().Uint64VarP(&value, "value", "v", 0, "Value pooled while joining, in micro units (required)")
	joinCircleCmd.MarkFlagRequired("from")
	joinCircleCmd.MarkFlagRequired("value")

	contributeCmd.Flags().StringVarP(&account, "from", "f", "", "Contributing member address (required)")
	contributeCmd.Flags().Uint64VarP(&value, "value", "v", 0, "Contribution, in micro units (required)")
	contributeCmd.MarkFlagRequired("from")
	contributeCmd.MarkFlagRequired("value")

	payoutCmd.Flags().StringVarP(&account, "from", "f", "", "Calling address (required)")
	payoutCmd.Flags().StringVarP(&recipient, "to", "t", "", "Member receiving the round pool (required)")
	payoutCmd.MarkFlagRequired("from")
	payoutCmd.MarkFlagRequired("to")

	contributedCmd.Flags().Uint64VarP(&round, "round", "r", 0, "Round to query")
	contributedCmd.Flags().StringVar(&account, "account", "", "Member address to query (required)")
	contributedCmd.MarkFlagRequired("account")

	paidCmd.Flags().StringVar(&account, "account", "", "Member address to query (required)")
	paidCmd.MarkFlagRequired("account")
}

var circleCmd = &cobra.Command{
	Use:   "circle",
	Short: "Create and operate savings circles",
	Long:  "Create and operate savings circles. All value units are in micro units.",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		// If no arguments passed, we should fallback to help
		cmd.HelpFunc()(cmd, args)
	},
}

func ensureCircleID() string {
	if circleID == "" {
		reportErrorln("No circle specified. Use -c to name the circle to operate on.")
	}
	return circleID
}

func colorStatus(status string) string {
	c := yellow
	switch status {
	case "Active":
		c = green
	case "Completed":
		c = cyan
	case "Cancelled":
		c = red
	}
	return color.New(c).Sprint(status)
}

func printCircle(circle v1.Circle) {
	reportInfof(infoCircleStatus, circle.CircleID, circle.Version, circle.Creator,
		colorStatus(circle.Status), circle.Amount, circle.FrequencySeconds,
		circle.Duration, circle.Goal, circle.CurrentRound, len(circle.Members),
		circle.Escrow, circle.TotalPooled, circle.TotalInterest)
}

var createCircleCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new savings circle",
	Long:  "Create a new savings circle with the given terms. The creator joins as member zero without pooling value; the circle activates once membership reaches the rule set's minimum.",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, _ []string) {
		client := ensureSusuClient(ensureDataDir())
		response, err := client.CreateCircle(v1.CreateCircleRequest{
			Sender:           account,
			Amount:           amount,
			FrequencySeconds: frequency,
			Duration:         duration,
			Goal:             goalName,
		})
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		reportInfof(infoCircleCreated, response.CircleID)
	},
}

var showCircleCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the state of one circle",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, _ []string) {
		response, err := ensureSusuClient(ensureDataDir()).Circle(ensureCircleID())
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		printCircle(response)
	},
}

var joinCircleCmd = &cobra.Command{
	Use:   "join",
	Short: "Join a pending circle",
	Long:  "Join a pending circle, pooling the joining value. The member that reaches the rule set's minimum membership activates the circle.",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, _ []string) {
		client := ensureSusuClient(ensureDataDir())
		response, err := client.JoinCircle(ensureCircleID(), v1.JoinCircleRequest{
			Sender: account,
			Value:  value,
		})
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		printCircle(response)
	},
}

var contributeCmd = &cobra.Command{
	Use:   "contribute",
	Short: "Pool a periodic contribution into an active circle",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, _ []string) {
		client := ensureSusuClient(ensureDataDir())
		response, err := client.Contribute(ensureCircleID(), v1.ContributeRequest{
			Sender: account,
			Value:  value,
		})
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		printCircle(response)
	},
}

var payoutCmd = &cobra.Command{
	Use:   "payout",
	Short: "Close the current round by paying out a member",
	Long:  "Close the current round of an active circle by paying the recipient the round pool plus their interest share. The recipient must be a member that has not been paid out yet.",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, _ []string) {
		client := ensureSusuClient(ensureDataDir())
		response, err := client.ProcessPayout(ensureCircleID(), v1.PayoutRequest{
			Sender:    account,
			Recipient: recipient,
		})
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		reportInfof(infoPayout, response.Round, response.Recipient, response.Base, response.Bonus)
	},
}

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "List the members of one circle in join order",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, _ []string) {
		response, err := ensureSusuClient(ensureDataDir()).Members(ensureCircleID())
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		for i, member := range response.Members {
			fmt.Printf("%d\t%s\n", i, member)
		}
	},
}

var contributionsCmd = &cobra.Command{
	Use:   "contributions",
	Short: "List the accepted contributions of one circle",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, _ []string) {
		response, err := ensureSusuClient(ensureDataDir()).Contributions(ensureCircleID())
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		for _, c := range response.Contributions {
			fmt.Printf("round %d\t%s\t%d\t(at %d)\n", c.Round, c.Member, c.Amount, c.Timestamp)
		}
	},
}

var payoutsCmd = &cobra.Command{
	Use:   "payouts",
	Short: "List the processed payouts of one circle",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, _ []string) {
		response, err := ensureSusuClient(ensureDataDir()).Payouts(ensureCircleID())
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		for _, p := range response.Payouts {
			fmt.Printf("round %d\t%s\tbase %d\tbonus %d\t(at %d)\n", p.Round, p.Recipient, p.Base, p.Bonus, p.Timestamp)
		}
	},
}

var contributedCmd = &cobra.Command{
	Use:   "contributed",
	Short: "Check whether a member contributed in a round",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, _ []string) {
		response, err := ensureSusuClient(ensureDataDir()).Contributed(ensureCircleID(), round, account)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		reportInfof(infoContributed, response.Address, response.Round, response.CircleID, response.Contributed)
	},
}

var paidCmd = &cobra.Command{
	Use:   "paid",
	Short: "Check whether a member has ever been paid out",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, _ []string) {
		response, err := ensureSusuClient(ensureDataDir()).PayoutStatus(ensureCircleID(), account)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		reportInfof(infoPaidOut, response.Address, response.CircleID, response.PaidOut)
	},
}
