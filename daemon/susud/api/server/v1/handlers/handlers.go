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
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/susu-finance/go-susu/config"
	"github.com/susu-finance/go-susu/daemon/susud/api/server/lib"
	v1 "github.com/susu-finance/go-susu/daemon/susud/api/spec/v1"
	"github.com/susu-finance/go-susu/data/basics"
	"github.com/susu-finance/go-susu/data/circles"
	"github.com/susu-finance/go-susu/logging"
	"github.com/susu-finance/go-susu/protocol"
)

const (
	// defaultPageLimit is the page size for the events and payments
	// endpoints when max is not given.
	defaultPageLimit = 100

	// maxPageLimit bounds the page size for the events and payments
	// endpoints.
	maxPageLimit = 1000
)

// SendJSON writes the object as the json response body.
func SendJSON(obj interface{}, w http.ResponseWriter, log logging.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err := json.NewEncoder(w).Encode(obj)
	if err != nil {
		log.Warnf("susud failed to write response: %v", err)
	}
}

func circleEncode(c circles.Circle) v1.Circle {
	members := make([]string, len(c.Members))
	for i, m := range c.Members {
		members[i] = m.String()
	}

	return v1.Circle{
		CircleID:         c.ID.String(),
		Version:          string(c.Version),
		Creator:          c.Creator.String(),
		Amount:           c.Amount.Raw,
		FrequencySeconds: c.FrequencySeconds,
		Duration:         c.Duration,
		Goal:             c.Goal.String(),
		Status:           c.Status.String(),
		CreatedAt:        c.CreatedAt,
		StartedAt:        c.StartedAt,
		Members:          members,
		CurrentRound:     uint64(c.CurrentRound),
		Escrow:           c.Escrow.Raw,
		TotalPooled:      c.TotalPooled.Raw,
		TotalInterest:    c.TotalInterest.Raw,
	}
}

func contributionEncode(c circles.Contribution) v1.Contribution {
	return v1.Contribution{
		Member:    c.Member.String(),
		Amount:    c.Amount.Raw,
		Timestamp: c.Timestamp,
		Round:     uint64(c.Round),
	}
}

func payoutEncode(p circles.Payout) v1.Payout {
	return v1.Payout{
		Recipient: p.Recipient.String(),
		Base:      p.Base.Raw,
		Bonus:     p.Bonus.Raw,
		Timestamp: p.Timestamp,
		Round:     uint64(p.Round),
	}
}

func eventEncode(ev circles.Event) v1.Event {
	m := v1.Event{
		Sequence:    ev.Sequence,
		Tag:         string(ev.Tag),
		Timestamp:   ev.Timestamp,
		Amount:      ev.Amount.Raw,
		Base:        ev.Base.Raw,
		Bonus:       ev.Bonus.Raw,
		Round:       uint64(ev.Round),
		MemberCount: ev.MemberCount,
		Fee:         ev.Fee.Raw,
		Duration:    ev.Duration,
		Frequency:   ev.Frequency,
		Score:       ev.Score,
		Tier:        ev.Tier,
		Withdrawn:   ev.Withdrawn.Raw,
		Remaining:   ev.Remaining.Raw,
		Raw:         protocol.Encode(&ev),
	}
	if !ev.Circle.IsZero() {
		m.CircleID = ev.Circle.String()
	}
	if ev.Member != (basics.Address{}) {
		m.Member = ev.Member.String()
	}
	if ev.User != (basics.Address{}) {
		m.User = ev.User.String()
	}
	if ev.Recipient != (basics.Address{}) {
		m.Recipient = ev.Recipient.String()
	}
	// The goal echoes a creation parameter, where the zero value General is
	// meaningful; on every other event it is absent.
	if ev.Tag == protocol.CircleCreatedTag {
		m.Goal = ev.Goal.String()
	}
	return m
}

func reputationEncode(addr basics.Address, u basics.UserReputation) v1.Reputation {
	return v1.Reputation{
		Address:          addr.String(),
		CirclesCompleted: u.CirclesCompleted,
		CirclesActive:    u.CirclesActive,
		TotalContributed: u.TotalContributed.Raw,
		OnTimePayments:   u.OnTimePayments,
		MissedPayments:   u.MissedPayments,
		AccountCreatedAt: u.AccountCreatedAt,
		LastActiveAt:     u.LastActiveAt,
		Score:            u.Score,
		Tier:             u.Tier.String(),
	}
}

// circleIDParam parses the {id} path variable.
func circleIDParam(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) (circles.CircleID, bool) {
	queryID := mux.Vars(r)["id"]
	if queryID == "" {
		lib.ErrorResponse(w, http.StatusBadRequest, errors.New(errNoCircleSpecified), errNoCircleSpecified, ctx.Log)
		return circles.CircleID{}, false
	}

	id, err := circles.CircleIDFromString(queryID)
	if err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseCircleID, ctx.Log)
		return circles.CircleID{}, false
	}
	return id, true
}

// addrParam parses the {addr} path variable.
func addrParam(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) (basics.Address, bool) {
	queryAddr := mux.Vars(r)["addr"]
	if queryAddr == "" {
		lib.ErrorResponse(w, http.StatusBadRequest, errors.New(errNoAccountSpecified), errNoAccountSpecified, ctx.Log)
		return basics.Address{}, false
	}

	addr, err := basics.UnmarshalChecksumAddress(queryAddr)
	if err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseAddress, ctx.Log)
		return basics.Address{}, false
	}
	return addr, true
}

// pageParams parses the optional first and max query values shared by the
// events and payments endpoints.
func pageParams(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) (first, max uint64, ok bool) {
	first = 0
	max = defaultPageLimit

	var err error
	if raw := r.URL.Query().Get("first"); raw != "" {
		first, err = strconv.ParseUint(raw, 10, 64)
		if err != nil {
			lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseFirstValue, ctx.Log)
			return 0, 0, false
		}
	}
	if raw := r.URL.Query().Get("max"); raw != "" {
		max, err = strconv.ParseUint(raw, 10, 64)
		if err != nil || max < 1 || max > maxPageLimit {
			errMsg := fmt.Sprintf(errFailedToParseMaxValue, 1, maxPageLimit)
			if err == nil {
				err = errors.New(errMsg)
			}
			lib.ErrorResponse(w, http.StatusBadRequest, err, errMsg, ctx.Log)
			return 0, 0, false
		}
	}
	return first, max, true
}

// shuttingDown reports whether the daemon is stopping, refusing the request
// if so.  Mutating handlers call it before touching the ledger.
func shuttingDown(ctx lib.ReqContext, w http.ResponseWriter) bool {
	select {
	case <-ctx.Shutdown:
		lib.ErrorResponse(w, http.StatusInternalServerError, errors.New(errServiceShuttingDown), errServiceShuttingDown, ctx.Log)
		return true
	default:
		return false
	}
}

// Status is an httpHandler for route GET /v1/status
func Status(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /v1/status GetStatus
	//---
	//     Summary: Gets the current daemon status.
	//     Produces:
	//     - application/json
	//     Schemes:
	//     - http
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/DaemonStatus'
	//       401: { description: Invalid API Token }
	//       default: { description: Unknown Error }
	totals := ctx.Ledger.Totals()

	response := v1.DaemonStatus{
		LastEventSequence: ctx.Ledger.Latest(),
		Circles:           totals.Circles,
		Pooled:            totals.Pooled.Raw,
		FeeBalance:        ctx.Ledger.ProtocolFees().Raw,
		Owner:             ctx.Ledger.Owner().String(),
		Version:           config.GetCurrentVersion().String(),
	}
	SendJSON(response, w, ctx.Log)
}

// CreateCircle is an httpHandler for route POST /v1/circles
func CreateCircle(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /v1/circles CreateCircle
	//---
	//     Summary: Creates a new pending circle.
	//     Produces:
	//     - application/json
	//     Parameters:
	//       - name: body
	//         in: body
	//         required: true
	//         schema:
	//           "$ref": "#/definitions/CreateCircleRequest"
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/CircleIDResponse'
	//       400:
	//         description: Bad Request
	//         schema: {type: string}
	//       401: { description: Invalid API Token }
	//       default: { description: Unknown Error }
	if shuttingDown(ctx, w) {
		return
	}

	var req v1.CreateCircleRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseRequestBody, ctx.Log)
		return
	}

	sender, err := basics.UnmarshalChecksumAddress(req.Sender)
	if err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseAddress, ctx.Log)
		return
	}

	goal := circles.GoalGeneral
	if req.Goal != "" {
		goal, err = circles.UnmarshalGoalType(req.Goal)
		if err != nil {
			lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseGoal, ctx.Log)
			return
		}
	}

	id, err := ctx.Ledger.CreateCircle(r.Context(), sender, basics.MicroUnits{Raw: req.Amount}, req.FrequencySeconds, req.Duration, goal)
	if err != nil {
		opErrorResponse(ctx, w, err)
		return
	}

	SendJSON(v1.CircleIDResponse{CircleID: id.String()}, w, ctx.Log)
}

// JoinCircle is an httpHandler for route POST /v1/circles/{id}/join
func JoinCircle(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /v1/circles/{id}/join JoinCircle
	//---
	//     Summary: Joins a pending circle, pooling the first contribution.
	//     Produces:
	//     - application/json
	//     Parameters:
	//       - name: id
	//         in: path
	//         type: string
	//         required: true
	//       - name: body
	//         in: body
	//         required: true
	//         schema:
	//           "$ref": "#/definitions/JoinCircleRequest"
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/Circle'
	//       400:
	//         description: Bad Request
	//         schema: {type: string}
	//       401: { description: Invalid API Token }
	//       404: { description: Circle Not Found }
	//       409: { description: Conflict With Circle State }
	//       default: { description: Unknown Error }
	if shuttingDown(ctx, w) {
		return
	}

	id, ok := circleIDParam(ctx, w, r)
	if !ok {
		return
	}

	var req v1.JoinCircleRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseRequestBody, ctx.Log)
		return
	}

	sender, err := basics.UnmarshalChecksumAddress(req.Sender)
	if err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseAddress, ctx.Log)
		return
	}

	err = ctx.Ledger.JoinCircle(r.Context(), sender, id, basics.MicroUnits{Raw: req.Value})
	if err != nil {
		opErrorResponse(ctx, w, err)
		return
	}

	c, err := ctx.Ledger.Circle(id)
	if err != nil {
		lib.ErrorResponse(w, http.StatusInternalServerError, err, errFailedLookingUpLedger, ctx.Log)
		return
	}
	SendJSON(circleEncode(c), w, ctx.Log)
}

// Contribute is an httpHandler for route POST /v1/circles/{id}/contributions
func Contribute(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /v1/circles/{id}/contributions Contribute
	//---
	//     Summary: Makes the periodic contribution for the current round.
	//     Produces:
	//     - application/json
	//     Parameters:
	//       - name: id
	//         in: path
	//         type: string
	//         required: true
	//       - name: body
	//         in: body
	//         required: true
	//         schema:
	//           "$ref": "#/definitions/ContributeRequest"
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/Circle'
	//       400:
	//         description: Bad Request
	//         schema: {type: string}
	//       401: { description: Invalid API Token }
	//       404: { description: Circle Not Found }
	//       409: { description: Conflict With Circle State }
	//       default: { description: Unknown Error }
	if shuttingDown(ctx, w) {
		return
	}

	id, ok := circleIDParam(ctx, w, r)
	if !ok {
		return
	}

	var req v1.ContributeRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseRequestBody, ctx.Log)
		return
	}

	sender, err := basics.UnmarshalChecksumAddress(req.Sender)
	if err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseAddress, ctx.Log)
		return
	}

	err = ctx.Ledger.Contribute(r.Context(), sender, id, basics.MicroUnits{Raw: req.Value})
	if err != nil {
		opErrorResponse(ctx, w, err)
		return
	}

	c, err := ctx.Ledger.Circle(id)
	if err != nil {
		lib.ErrorResponse(w, http.StatusInternalServerError, err, errFailedLookingUpLedger, ctx.Log)
		return
	}
	SendJSON(circleEncode(c), w, ctx.Log)
}

// ProcessPayout is an httpHandler for route POST /v1/circles/{id}/payout
func ProcessPayout(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /v1/circles/{id}/payout ProcessPayout
	//---
	//     Summary: Pays the completed round's pool to the recipient.
	//     Produces:
	//     - application/json
	//     Parameters:
	//       - name: id
	//         in: path
	//         type: string
	//         required: true
	//       - name: body
	//         in: body
	//         required: true
	//         schema:
	//           "$ref": "#/definitions/PayoutRequest"
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/Payout'
	//       400:
	//         description: Bad Request
	//         schema: {type: string}
	//       401: { description: Invalid API Token }
	//       404: { description: Circle Not Found }
	//       409: { description: Conflict With Circle State }
	//       502: { description: Disbursement Refused }
	//       default: { description: Unknown Error }
	if shuttingDown(ctx, w) {
		return
	}

	id, ok := circleIDParam(ctx, w, r)
	if !ok {
		return
	}

	var req v1.PayoutRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseRequestBody, ctx.Log)
		return
	}

	sender, err := basics.UnmarshalChecksumAddress(req.Sender)
	if err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseAddress, ctx.Log)
		return
	}

	recipient, err := basics.UnmarshalChecksumAddress(req.Recipient)
	if err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseAddress, ctx.Log)
		return
	}

	payout, err := ctx.Ledger.ProcessPayout(r.Context(), sender, id, recipient)
	if err != nil {
		opErrorResponse(ctx, w, err)
		return
	}

	SendJSON(payoutEncode(payout), w, ctx.Log)
}

// GetCircle is an httpHandler for route GET /v1/circles/{id}
func GetCircle(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /v1/circles/{id} GetCircle
	//---
	//     Summary: Gets the complete state of one circle.
	//     Produces:
	//     - application/json
	//     Parameters:
	//       - name: id
	//         in: path
	//         type: string
	//         required: true
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/Circle'
	//       400:
	//         description: Bad Request
	//         schema: {type: string}
	//       401: { description: Invalid API Token }
	//       404: { description: Circle Not Found }
	//       default: { description: Unknown Error }
	id, ok := circleIDParam(ctx, w, r)
	if !ok {
		return
	}

	c, err := ctx.Ledger.Circle(id)
	if err != nil {
		opErrorResponse(ctx, w, err)
		return
	}

	SendJSON(circleEncode(c), w, ctx.Log)
}

// GetMembers is an httpHandler for route GET /v1/circles/{id}/members
func GetMembers(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /v1/circles/{id}/members GetMembers
	//---
	//     Summary: Lists a circle's members in join order.
	//     Produces:
	//     - application/json
	//     Parameters:
	//       - name: id
	//         in: path
	//         type: string
	//         required: true
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/MemberList'
	//       401: { description: Invalid API Token }
	//       404: { description: Circle Not Found }
	//       default: { description: Unknown Error }
	id, ok := circleIDParam(ctx, w, r)
	if !ok {
		return
	}

	members, err := ctx.Ledger.Members(id)
	if err != nil {
		opErrorResponse(ctx, w, err)
		return
	}

	response := v1.MemberList{CircleID: id.String(), Members: make([]string, len(members))}
	for i, m := range members {
		response.Members[i] = m.String()
	}
	SendJSON(response, w, ctx.Log)
}

// GetContributions is an httpHandler for route GET /v1/circles/{id}/contributions
func GetContributions(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /v1/circles/{id}/contributions GetContributions
	//---
	//     Summary: Lists a circle's contribution log.
	//     Produces:
	//     - application/json
	//     Parameters:
	//       - name: id
	//         in: path
	//         type: string
	//         required: true
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/ContributionList'
	//       401: { description: Invalid API Token }
	//       404: { description: Circle Not Found }
	//       default: { description: Unknown Error }
	id, ok := circleIDParam(ctx, w, r)
	if !ok {
		return
	}

	log, err := ctx.Ledger.Contributions(id)
	if err != nil {
		opErrorResponse(ctx, w, err)
		return
	}

	response := v1.ContributionList{CircleID: id.String(), Contributions: make([]v1.Contribution, len(log))}
	for i, c := range log {
		response.Contributions[i] = contributionEncode(c)
	}
	SendJSON(response, w, ctx.Log)
}

// GetPayouts is an httpHandler for route GET /v1/circles/{id}/payouts
func GetPayouts(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /v1/circles/{id}/payouts GetPayouts
	//---
	//     Summary: Lists a circle's payout log.
	//     Produces:
	//     - application/json
	//     Parameters:
	//       - name: id
	//         in: path
	//         type: string
	//         required: true
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/PayoutList'
	//       401: { description: Invalid API Token }
	//       404: { description: Circle Not Found }
	//       default: { description: Unknown Error }
	id, ok := circleIDParam(ctx, w, r)
	if !ok {
		return
	}

	log, err := ctx.Ledger.Payouts(id)
	if err != nil {
		opErrorResponse(ctx, w, err)
		return
	}

	response := v1.PayoutList{CircleID: id.String(), Payouts: make([]v1.Payout, len(log))}
	for i, p := range log {
		response.Payouts[i] = payoutEncode(p)
	}
	SendJSON(response, w, ctx.Log)
}

// GetContributed is an httpHandler for route
// GET /v1/circles/{id}/rounds/{round}/contributed/{addr}
func GetContributed(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /v1/circles/{id}/rounds/{round}/contributed/{addr} GetContributed
	//---
	//     Summary: Reports whether the member contributed in the round.
	//     Produces:
	//     - application/json
	//     Parameters:
	//       - name: id
	//         in: path
	//         type: string
	//         required: true
	//       - name: round
	//         in: path
	//         type: integer
	//         required: true
	//       - name: addr
	//         in: path
	//         type: string
	//         required: true
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/ContributedStatus'
	//       400:
	//         description: Bad Request
	//         schema: {type: string}
	//       401: { description: Invalid API Token }
	//       404: { description: Circle Not Found }
	//       default: { description: Unknown Error }
	id, ok := circleIDParam(ctx, w, r)
	if !ok {
		return
	}

	queryRound, err := strconv.ParseUint(mux.Vars(r)["round"], 10, 64)
	if err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedParsingRoundNumber, ctx.Log)
		return
	}

	addr, ok := addrParam(ctx, w, r)
	if !ok {
		return
	}

	contributed, err := ctx.Ledger.HasContributed(id, basics.RoundIndex(queryRound), addr)
	if err != nil {
		opErrorResponse(ctx, w, err)
		return
	}

	SendJSON(v1.ContributedStatus{
		CircleID:    id.String(),
		Round:       queryRound,
		Address:     addr.String(),
		Contributed: contributed,
	}, w, ctx.Log)
}

// GetPayoutStatus is an httpHandler for route GET /v1/circles/{id}/payout-status/{addr}
func GetPayoutStatus(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /v1/circles/{id}/payout-status/{addr} GetPayoutStatus
	//---
	//     Summary: Reports whether the member has ever received a payout.
	//     Produces:
	//     - application/json
	//     Parameters:
	//       - name: id
	//         in: path
	//         type: string
	//         required: true
	//       - name: addr
	//         in: path
	//         type: string
	//         required: true
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/PayoutStatus'
	//       400:
	//         description: Bad Request
	//         schema: {type: string}
	//       401: { description: Invalid API Token }
	//       404: { description: Circle Not Found }
	//       default: { description: Unknown Error }
	id, ok := circleIDParam(ctx, w, r)
	if !ok {
		return
	}

	addr, ok := addrParam(ctx, w, r)
	if !ok {
		return
	}

	paidOut, err := ctx.Ledger.HasReceivedPayout(id, addr)
	if err != nil {
		opErrorResponse(ctx, w, err)
		return
	}

	SendJSON(v1.PayoutStatus{
		CircleID: id.String(),
		Address:  addr.String(),
		PaidOut:  paidOut,
	}, w, ctx.Log)
}

// GetLedgerTotals is an httpHandler for route GET /v1/ledger/totals
func GetLedgerTotals(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /v1/ledger/totals GetLedgerTotals
	//---
	//     Summary: Gets the ledger-wide running totals.
	//     Produces:
	//     - application/json
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/LedgerTotals'
	//       401: { description: Invalid API Token }
	//       default: { description: Unknown Error }
	totals := ctx.Ledger.Totals()

	SendJSON(v1.LedgerTotals{
		Circles:       totals.Circles,
		Pooled:        totals.Pooled.Raw,
		Interest:      totals.Interest.Raw,
		FeesAccrued:   totals.FeesAccrued.Raw,
		FeesWithdrawn: totals.FeesWithdrawn.Raw,
		FeeBalance:    ctx.Ledger.ProtocolFees().Raw,
	}, w, ctx.Log)
}

// WithdrawFees is an httpHandler for route POST /v1/fees/withdraw
func WithdrawFees(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /v1/fees/withdraw WithdrawFees
	//---
	//     Summary: Pays accrued protocol fees out to the recipient.
	//     Produces:
	//     - application/json
	//     Parameters:
	//       - name: body
	//         in: body
	//         required: true
	//         schema:
	//           "$ref": "#/definitions/WithdrawFeesRequest"
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/LedgerTotals'
	//       400:
	//         description: Bad Request
	//         schema: {type: string}
	//       401: { description: Invalid API Token Or Not Owner }
	//       409: { description: Insufficient Fee Balance }
	//       502: { description: Disbursement Refused }
	//       default: { description: Unknown Error }
	if shuttingDown(ctx, w) {
		return
	}

	var req v1.WithdrawFeesRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseRequestBody, ctx.Log)
		return
	}

	sender, err := basics.UnmarshalChecksumAddress(req.Sender)
	if err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseAddress, ctx.Log)
		return
	}

	recipient, err := basics.UnmarshalChecksumAddress(req.Recipient)
	if err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseAddress, ctx.Log)
		return
	}

	err = ctx.Ledger.WithdrawFees(r.Context(), sender, recipient, basics.MicroUnits{Raw: req.Amount})
	if err != nil {
		opErrorResponse(ctx, w, err)
		return
	}

	totals := ctx.Ledger.Totals()
	SendJSON(v1.LedgerTotals{
		Circles:       totals.Circles,
		Pooled:        totals.Pooled.Raw,
		Interest:      totals.Interest.Raw,
		FeesAccrued:   totals.FeesAccrued.Raw,
		FeesWithdrawn: totals.FeesWithdrawn.Raw,
		FeeBalance:    ctx.Ledger.ProtocolFees().Raw,
	}, w, ctx.Log)
}

// GetReputation is an httpHandler for route GET /v1/reputation/{addr}
func GetReputation(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /v1/reputation/{addr} GetReputation
	//---
	//     Summary: Gets the full reputation record of one account.
	//     Description: Unknown accounts read as the zero record.
	//     Produces:
	//     - application/json
	//     Parameters:
	//       - name: addr
	//         in: path
	//         type: string
	//         required: true
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/Reputation'
	//       400:
	//         description: Bad Request
	//         schema: {type: string}
	//       401: { description: Invalid API Token }
	//       default: { description: Unknown Error }
	addr, ok := addrParam(ctx, w, r)
	if !ok {
		return
	}

	u, err := ctx.Registry.Get(r.Context(), addr)
	if err != nil {
		lib.ErrorResponse(w, http.StatusInternalServerError, err, errFailedLookingUpReputation, ctx.Log)
		return
	}

	SendJSON(reputationEncode(addr, u), w, ctx.Log)
}

// GetReputationScore is an httpHandler for route GET /v1/reputation/{addr}/score
func GetReputationScore(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /v1/reputation/{addr}/score GetReputationScore
	//---
	//     Summary: Gets the stored reputation score of one account.
	//     Produces:
	//     - application/json
	//     Parameters:
	//       - name: addr
	//         in: path
	//         type: string
	//         required: true
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/ScoreResponse'
	//       400:
	//         description: Bad Request
	//         schema: {type: string}
	//       401: { description: Invalid API Token }
	//       default: { description: Unknown Error }
	addr, ok := addrParam(ctx, w, r)
	if !ok {
		return
	}

	score, err := ctx.Registry.Score(r.Context(), addr)
	if err != nil {
		lib.ErrorResponse(w, http.StatusInternalServerError, err, errFailedLookingUpReputation, ctx.Log)
		return
	}

	SendJSON(v1.ScoreResponse{Address: addr.String(), Score: score}, w, ctx.Log)
}

// GetReputationTier is an httpHandler for route GET /v1/reputation/{addr}/tier
func GetReputationTier(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /v1/reputation/{addr}/tier GetReputationTier
	//---
	//     Summary: Gets the stored reputation tier of one account.
	//     Produces:
	//     - application/json
	//     Parameters:
	//       - name: addr
	//         in: path
	//         type: string
	//         required: true
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/TierResponse'
	//       400:
	//         description: Bad Request
	//         schema: {type: string}
	//       401: { description: Invalid API Token }
	//       default: { description: Unknown Error }
	addr, ok := addrParam(ctx, w, r)
	if !ok {
		return
	}

	tier, err := ctx.Registry.Tier(r.Context(), addr)
	if err != nil {
		lib.ErrorResponse(w, http.StatusInternalServerError, err, errFailedLookingUpReputation, ctx.Log)
		return
	}

	SendJSON(v1.TierResponse{Address: addr.String(), Tier: tier.String()}, w, ctx.Log)
}

// MeetsMinimumScore is an httpHandler for route
// GET /v1/reputation/{addr}/meets-minimum?min=N
func MeetsMinimumScore(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /v1/reputation/{addr}/meets-minimum MeetsMinimumScore
	//---
	//     Summary: Tests the stored score against a threshold.
	//     Produces:
	//     - application/json
	//     Parameters:
	//       - name: addr
	//         in: path
	//         type: string
	//         required: true
	//       - name: min
	//         in: query
	//         type: integer
	//         required: true
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/MeetsMinimumResponse'
	//       400:
	//         description: Bad Request
	//         schema: {type: string}
	//       401: { description: Invalid API Token }
	//       default: { description: Unknown Error }
	addr, ok := addrParam(ctx, w, r)
	if !ok {
		return
	}

	min, err := strconv.ParseUint(r.URL.Query().Get("min"), 10, 64)
	if err != nil {
		lib.ErrorResponse(w, http.StatusBadRequest, err, errFailedToParseMinScore, ctx.Log)
		return
	}

	meets, err := ctx.Registry.MeetsMinimumScore(r.Context(), addr, min)
	if err != nil {
		lib.ErrorResponse(w, http.StatusInternalServerError, err, errFailedLookingUpReputation, ctx.Log)
		return
	}

	SendJSON(v1.MeetsMinimumResponse{Address: addr.String(), MinScore: min, Meets: meets}, w, ctx.Log)
}

// GetEvents is an httpHandler for route GET /v1/events?first=N&max=M
func GetEvents(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /v1/events GetEvents
	//---
	//     Summary: Reads one page of the append-only event log.
	//     Produces:
	//     - application/json
	//     Parameters:
	//       - name: first
	//         in: query
	//         type: integer
	//         required: false
	//       - name: max
	//         in: query
	//         type: integer
	//         required: false
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/EventList'
	//       400:
	//         description: Bad Request
	//         schema: {type: string}
	//       401: { description: Invalid API Token }
	//       default: { description: Unknown Error }
	first, max, ok := pageParams(ctx, w, r)
	if !ok {
		return
	}

	evs, err := ctx.Ledger.Events(r.Context(), first, max)
	if err != nil {
		lib.ErrorResponse(w, http.StatusInternalServerError, err, errFailedRetrievingEvents, ctx.Log)
		return
	}

	response := v1.EventList{Events: make([]v1.Event, len(evs))}
	for i, ev := range evs {
		response.Events[i] = eventEncode(ev)
	}
	SendJSON(response, w, ctx.Log)
}

// GetPayments is an httpHandler for route GET /v1/payments?first=N&max=M
func GetPayments(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /v1/payments GetPayments
	//---
	//     Summary: Reads one page of the settlement journal.
	//     Produces:
	//     - application/json
	//     Parameters:
	//       - name: first
	//         in: query
	//         type: integer
	//         required: false
	//       - name: max
	//         in: query
	//         type: integer
	//         required: false
	//     Responses:
	//       200:
	//         "$ref": '#/definitions/PaymentList'
	//       400:
	//         description: Bad Request
	//         schema: {type: string}
	//       401: { description: Invalid API Token }
	//       default: { description: Unknown Error }
	first, max, ok := pageParams(ctx, w, r)
	if !ok {
		return
	}

	payments, err := ctx.Payments.Page(r.Context(), first, max)
	if err != nil {
		lib.ErrorResponse(w, http.StatusInternalServerError, err, errFailedRetrievingPayments, ctx.Log)
		return
	}

	response := v1.PaymentList{Payments: make([]v1.Payment, len(payments))}
	for i, p := range payments {
		response.Payments[i] = v1.Payment{
			Sequence:  p.Sequence,
			Recipient: p.Recipient.String(),
			Amount:    p.Amount.Raw,
			Kind:      string(p.Kind),
			Timestamp: p.Timestamp,
		}
	}
	SendJSON(response, w, ctx.Log)
}
