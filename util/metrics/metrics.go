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

// Package metrics provides counters and gauges exposed by susud in the
// Prometheus text exposition format.
package metrics

// MetricName describes the name and description of a single metric
type MetricName struct {
	Name        string
	Description string
}

var (
	// LedgerCircleCreates Total number of circles created
	LedgerCircleCreates = MetricName{Name: "susud_ledger_circle_creates_total", Description: "Total number of circles created"}
	// LedgerCircleJoins Total number of successful joins
	LedgerCircleJoins = MetricName{Name: "susud_ledger_circle_joins_total", Description: "Total number of successful joins"}
	// LedgerContributions Total number of contributions accepted
	LedgerContributions = MetricName{Name: "susud_ledger_contributions_total", Description: "Total number of contributions accepted"}
	// LedgerPayouts Total number of payouts processed
	LedgerPayouts = MetricName{Name: "susud_ledger_payouts_total", Description: "Total number of payouts processed"}
	// LedgerFeeWithdrawals Total number of protocol fee withdrawals
	LedgerFeeWithdrawals = MetricName{Name: "susud_ledger_fee_withdrawals_total", Description: "Total number of protocol fee withdrawals"}
	// LedgerOpErrors Total number of ledger operations rejected with an error
	LedgerOpErrors = MetricName{Name: "susud_ledger_op_errors_total", Description: "Total number of ledger operations rejected with an error"}
	// LedgerEventsEmitted Total number of events appended to the event log
	LedgerEventsEmitted = MetricName{Name: "susud_ledger_events_total", Description: "Total number of events appended to the event log"}
	// LedgerDisbursedMicroUnits Total micro-units handed to the disburser
	LedgerDisbursedMicroUnits = MetricName{Name: "susud_ledger_disbursed_microunits_total", Description: "Total micro-units handed to the disburser"}
	// ReputationUpdates Total number of reputation mutations applied
	ReputationUpdates = MetricName{Name: "susud_reputation_updates_total", Description: "Total number of reputation mutations applied"}
	// OutboxPayments Total number of payments appended to the settlement journal
	OutboxPayments = MetricName{Name: "susud_outbox_payments_total", Description: "Total number of payments appended to the settlement journal"}
)
