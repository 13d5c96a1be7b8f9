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

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of the running Susu daemon",
	Long:  "Show the status of the running Susu daemon, including its ledger-wide totals. All value units are in micro units.",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, _ []string) {
		response, err := ensureSusuClient(ensureDataDir()).Status()
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}

		reportInfof(infoDaemonStatus, response.LastEventSequence, response.Circles,
			response.Pooled, response.FeeBalance, response.Owner, response.Version)
	},
}
