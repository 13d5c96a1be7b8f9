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

package handlers

import (
	"errors"
	"net/http"

	"github.com/susu-finance/go-susu/daemon/susud/api/server/lib"
	"github.com/susu-finance/go-susu/ledger/ledgercore"
)

var (
	errFailedToParseRequestBody  = "failed to parse the request body"
	errFailedToParseCircleID     = "failed to parse the circle id"
	errFailedToParseAddress      = "failed to parse the address"
	errFailedParsingRoundNumber  = "failed to parse the round number"
	errFailedToParseMinScore     = "failed to parse the min query value"
	errFailedToParseFirstValue   = "failed to parse the first query value"
	errFailedToParseMaxValue     = "failed to parse max value, must be between %d and %d"
	errFailedToParseGoal         = "failed to parse the goal type"
	errFailedLookingUpLedger     = "failed to retrieve information from the ledger"
	errFailedLookingUpReputation = "failed to retrieve the reputation record"
	errFailedRetrievingEvents    = "failed to retrieve events from the ledger"
	errFailedRetrievingPayments  = "failed to retrieve payments from the settlement journal"
	errNoCircleSpecified         = "no circle id was specified"
	errNoAccountSpecified        = "no address was specified"
	errServiceShuttingDown       = "operation aborted as server is shutting down"
)

// opErrorResponse maps a failed ledger or registry operation to the HTTP
// status its error type calls for and writes the standard error body.  The
// operation errors carry presentable messages, so the error text doubles as
// the public message.
func opErrorResponse(ctx lib.ReqContext, w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError

	switch err.(type) {
	case ledgercore.CircleNotFoundError:
		code = http.StatusNotFound
	case ledgercore.InsufficientContributionError:
		code = http.StatusBadRequest
	case ledgercore.NotMemberError:
		code = http.StatusForbidden
	case ledgercore.UnauthorizedCallerError:
		code = http.StatusUnauthorized
	case ledgercore.CircleNotPendingError, ledgercore.CircleNotActiveError,
		ledgercore.AlreadyMemberError, ledgercore.CircleFullError,
		ledgercore.DuplicateContributionError, ledgercore.AlreadyPaidOutError,
		ledgercore.RoundIncompleteError, ledgercore.InsufficientEscrowError:
		code = http.StatusConflict
	case ledgercore.TransferFailedError:
		// The ledger rolled back; the external payment collaborator is the
		// failing party.
		code = http.StatusBadGateway
	default:
		if errors.Is(err, ledgercore.ErrInvalidAmount) || errors.Is(err, ledgercore.ErrInvalidDuration) {
			code = http.StatusBadRequest
		}
	}

	lib.ErrorResponse(w, code, err, err.Error(), ctx.Log)
}
