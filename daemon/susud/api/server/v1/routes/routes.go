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

package routes

import (
	"github.com/susu-finance/go-susu/daemon/susud/api/server/lib"
	"github.com/susu-finance/go-susu/daemon/susud/api/server/v1/handlers"
)

// V1Routes contains all routes for v1
var V1Routes = lib.Routes{
	lib.Route{
		Name:        "status",
		Method:      "GET",
		Path:        "/status",
		HandlerFunc: handlers.Status,
	},

	lib.Route{
		Name:        "create-circle",
		Method:      "POST",
		Path:        "/circles",
		HandlerFunc: handlers.CreateCircle,
	},

	lib.Route{
		Name:        "circle-information",
		Method:      "GET",
		Path:        "/circles/{id}",
		HandlerFunc: handlers.GetCircle,
	},

	lib.Route{
		Name:        "join-circle",
		Method:      "POST",
		Path:        "/circles/{id}/join",
		HandlerFunc: handlers.JoinCircle,
	},

	lib.Route{
		Name:        "contribute",
		Method:      "POST",
		Path:        "/circles/{id}/contributions",
		HandlerFunc: handlers.Contribute,
	},

	lib.Route{
		Name:        "list-contributions",
		Method:      "GET",
		Path:        "/circles/{id}/contributions",
		HandlerFunc: handlers.GetContributions,
	},

	lib.Route{
		Name:        "process-payout",
		Method:      "POST",
		Path:        "/circles/{id}/payout",
		HandlerFunc: handlers.ProcessPayout,
	},

	lib.Route{
		Name:        "list-payouts",
		Method:      "GET",
		Path:        "/circles/{id}/payouts",
		HandlerFunc: handlers.GetPayouts,
	},

	lib.Route{
		Name:        "list-members",
		Method:      "GET",
		Path:        "/circles/{id}/members",
		HandlerFunc: handlers.GetMembers,
	},

	lib.Route{
		Name:        "contributed-status",
		Method:      "GET",
		Path:        "/circles/{id}/rounds/{round}/contributed/{addr}",
		HandlerFunc: handlers.GetContributed,
	},

	lib.Route{
		Name:        "payout-status",
		Method:      "GET",
		Path:        "/circles/{id}/payout-status/{addr}",
		HandlerFunc: handlers.GetPayoutStatus,
	},

	lib.Route{
		Name:        "ledger-totals",
		Method:      "GET",
		Path:        "/ledger/totals",
		HandlerFunc: handlers.GetLedgerTotals,
	},

	lib.Route{
		Name:        "withdraw-fees",
		Method:      "POST",
		Path:        "/fees/withdraw",
		HandlerFunc: handlers.WithdrawFees,
	},

	lib.Route{
		Name:        "reputation-information",
		Method:      "GET",
		Path:        "/reputation/{addr}",
		HandlerFunc: handlers.GetReputation,
	},

	lib.Route{
		Name:        "reputation-score",
		Method:      "GET",
		Path:        "/reputation/{addr}/score",
		HandlerFunc: handlers.GetReputationScore,
	},

	lib.Route{
		Name:        "reputation-tier",
		Method:      "GET",
		Path:        "/reputation/{addr}/tier",
		HandlerFunc: handlers.GetReputationTier,
	},

	lib.Route{
		Name:        "meets-minimum-score",
		Method:      "GET",
		Path:        "/reputation/{addr}/meets-minimum",
		HandlerFunc: handlers.MeetsMinimumScore,
	},

	lib.Route{
		Name:        "events",
		Method:      "GET",
		Path:        "/events",
		HandlerFunc: handlers.GetEvents,
	},

	lib.Route{
		Name:        "payments",
		Method:      "GET",
		Path:        "/payments",
		HandlerFunc: handlers.GetPayments,
	},
}
