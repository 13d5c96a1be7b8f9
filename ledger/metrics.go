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
	"github.com/susu-finance/go-susu/util/metrics"
)

var (
	ledgerCircleCreatesTotal  = metrics.MakeCounter(metrics.LedgerCircleCreates)
	ledgerCircleJoinsTotal    = metrics.MakeCounter(metrics.LedgerCircleJoins)
	ledgerContributionsTotal  = metrics.MakeCounter(metrics.LedgerContributions)
	ledgerPayoutsTotal        = metrics.MakeCounter(metrics.LedgerPayouts)
	ledgerFeeWithdrawalsTotal = metrics.MakeCounter(metrics.LedgerFeeWithdrawals)
	ledgerOpErrorsTotal       = metrics.MakeCounter(metrics.LedgerOpErrors)
	ledgerEventsEmittedTotal  = metrics.MakeCounter(metrics.LedgerEventsEmitted)
	ledgerDisbursedTotal      = metrics.MakeCounter(metrics.LedgerDisbursedMicroUnits)
)
