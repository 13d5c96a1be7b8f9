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

// Package client provides a typed REST client for the susud daemon.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/go-querystring/query"

	"github.com/susu-finance/go-susu/daemon/susud/api/server/lib/middlewares"
	"github.com/susu-finance/go-susu/daemon/susud/api/spec/common"
	v1 "github.com/susu-finance/go-susu/daemon/susud/api/spec/v1"
)

const (
	authHeader          = middlewares.TokenHeader
	healthCheckEndpoint = "/healthcheck"
	maxRawResponseBytes = 50e6
)

// unauthorizedRequestError is generated when we receive 401 error from the server. This error includes the inner error
// as well as the likely parameters that caused the issue.
type unauthorizedRequestError struct {
	errorString string
	apiToken    string
	url         string
}

// Error format an error string for the unauthorizedRequestError error.
func (e unauthorizedRequestError) Error() string {
	return fmt.Sprintf("Unauthorized request to `%s` when using token `%s` : %s", e.url, e.apiToken, e.errorString)
}

// HTTPError is generated when we receive an unhandled error from the server. This error contains the error string.
type HTTPError struct {
	StatusCode  int
	Status      string
	ErrorString string
}

// Error formats an error string.
func (e HTTPError) Error() string {
	return fmt.Sprintf("HTTP %s: %s", e.Status, e.ErrorString)
}

// RestClient manages the REST interface for a calling user.
type RestClient struct {
	serverURL url.URL
	apiToken  string
}

// MakeRestClient is the factory for constructing a RestClient for a given endpoint
func MakeRestClient(url url.URL, apiToken string) RestClient {
	return RestClient{
		serverURL: url,
		apiToken:  apiToken,
	}
}

// filterASCII filter out the non-ascii printable characters out of the given input string.
// It's used as a security qualifier before adding network provided data into an error message.
// The function allows only characters in the range of [32..126], which excludes all the
// control character, new lines, deletion, etc. All the alpha numeric and punctuation characters
// are included in this range.
func filterASCII(unfilteredString string) (filteredString string) {
	for i, r := range unfilteredString {
		if int(r) >= 0x20 && int(r) <= 0x7e {
			filteredString += string(unfilteredString[i])
		}
	}
	return
}

// extractError checks if the response signifies an error (for now, StatusCode != 200).
// If so, it returns the error.
// Otherwise, it returns nil.
func extractError(resp *http.Response) error {
	if resp.StatusCode == 200 {
		return nil
	}

	errorBuf, _ := io.ReadAll(resp.Body) // ignore returned error
	var errorJSON common.Error
	decodeErr := json.Unmarshal(errorBuf, &errorJSON)

	var errorString string
	if decodeErr == nil {
		errorString = errorJSON.Message
	} else {
		errorString = string(errorBuf)
	}
	errorString = filterASCII(errorString)

	if resp.StatusCode == http.StatusUnauthorized {
		apiToken := resp.Request.Header.Get(authHeader)
		return unauthorizedRequestError{errorString, apiToken, resp.Request.URL.String()}
	}

	return HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, ErrorString: errorString}
}

// mergeRawQueries merges two raw queries, appending an "&" if both are non-empty
func mergeRawQueries(q1, q2 string) string {
	if q1 == "" || q2 == "" {
		return q1 + q2
	}
	return q1 + "&" + q2
}

// submitForm is a helper used for submitting (ex.) GETs and POSTs to the server.
// Query parameters come from params via go-querystring url tags, the request
// body is the JSON encoding of body when it is non-nil.
func (client RestClient) submitForm(
	response interface{}, path string, params interface{}, body interface{},
	requestMethod string) error {

	var err error
	queryURL := client.serverURL
	queryURL.Path = path

	var req *http.Request
	var bodyReader io.Reader
	var v url.Values

	if params != nil {
		v, err = query.Values(params)
		if err != nil {
			return err
		}
	}

	if body != nil {
		jsonValue, err1 := json.Marshal(body)
		if err1 != nil {
			return err1
		}
		bodyReader = bytes.NewBuffer(jsonValue)
	}

	queryURL.RawQuery = mergeRawQueries(queryURL.RawQuery, v.Encode())

	req, err = http.NewRequest(requestMethod, queryURL.String(), bodyReader)
	if err != nil {
		return err
	}

	// If we add another endpoint that does not require auth, we should add a
	// requiresAuth argument to submitForm rather than checking here
	if path != healthCheckEndpoint {
		req.Header.Set(authHeader, client.apiToken)
	}

	httpClient := &http.Client{}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}

	// Ensure response isn't too large
	resp.Body = http.MaxBytesReader(nil, resp.Body, maxRawResponseBytes)
	defer resp.Body.Close()

	err = extractError(resp)
	if err != nil {
		return err
	}

	if response == nil {
		return nil
	}

	dec := json.NewDecoder(resp.Body)
	return dec.Decode(&response)
}

// get performs a GET request to the specific path against the server
func (client RestClient) get(response interface{}, path string, request interface{}) error {
	return client.submitForm(response, path, request, nil, "GET")
}

// post sends a POST request to the given path with the given body object.
// No query parameters will be sent. response must be a pointer to an object
// as post writes the response there.
func (client RestClient) post(response interface{}, path string, body interface{}) error {
	return client.submitForm(response, path, nil, body, "POST")
}

// HealthCheck does a health check on the potentially running daemon,
// returning an error if the API is down
func (client RestClient) HealthCheck() error {
	return client.get(nil, healthCheckEndpoint, nil)
}

// Versions retrieves the VersionResponse from the running daemon.
// The response includes the list of api versions the daemon serves.
func (client RestClient) Versions() (response common.Version, err error) {
	err = client.get(&response, "/versions", nil)
	return
}

// Status retrieves the DaemonStatus from the running daemon. The status
// includes the next event sequence and the ledger-wide running totals.
func (client RestClient) Status() (response v1.DaemonStatus, err error) {
	err = client.get(&response, "/v1/status", nil)
	return
}

// CreateCircle opens a new circle with the given terms. The creator joins
// as member zero without pooling value.
func (client RestClient) CreateCircle(request v1.CreateCircleRequest) (response v1.CircleIDResponse, err error) {
	err = client.post(&response, "/v1/circles", request)
	return
}

// Circle gets the externally visible state of one circle
func (client RestClient) Circle(circleID string) (response v1.Circle, err error) {
	err = client.get(&response, fmt.Sprintf("/v1/circles/%s", circleID), nil)
	return
}

// JoinCircle adds the sender to a pending circle and returns the resulting
// circle state, which reflects activation when the sender completed the ring.
func (client RestClient) JoinCircle(circleID string, request v1.JoinCircleRequest) (response v1.Circle, err error) {
	err = client.post(&response, fmt.Sprintf("/v1/circles/%s/join", circleID), request)
	return
}

// Contribute pools the sender's periodic contribution into an active circle
// and returns the resulting circle state.
func (client RestClient) Contribute(circleID string, request v1.ContributeRequest) (response v1.Circle, err error) {
	err = client.post(&response, fmt.Sprintf("/v1/circles/%s/contributions", circleID), request)
	return
}

// ProcessPayout closes the current round of an active circle by paying the
// recipient and returns the processed payout.
func (client RestClient) ProcessPayout(circleID string, request v1.PayoutRequest) (response v1.Payout, err error) {
	err = client.post(&response, fmt.Sprintf("/v1/circles/%s/payout", circleID), request)
	return
}

// Members lists the members of one circle in join order
func (client RestClient) Members(circleID string) (response v1.MemberList, err error) {
	err = client.get(&response, fmt.Sprintf("/v1/circles/%s/members", circleID), nil)
	return
}

// Contributions gets the contribution log of one circle
func (client RestClient) Contributions(circleID string) (response v1.ContributionList, err error) {
	err = client.get(&response, fmt.Sprintf("/v1/circles/%s/contributions", circleID), nil)
	return
}

// Payouts gets the payout log of one circle
func (client RestClient) Payouts(circleID string) (response v1.PayoutList, err error) {
	err = client.get(&response, fmt.Sprintf("/v1/circles/%s/payouts", circleID), nil)
	return
}

// Contributed reports whether the given member contributed in the given round
func (client RestClient) Contributed(circleID string, round uint64, address string) (response v1.ContributedStatus, err error) {
	err = client.get(&response, fmt.Sprintf("/v1/circles/%s/rounds/%d/contributed/%s", circleID, round, address), nil)
	return
}

// PayoutStatus reports whether the given member has ever been paid out
func (client RestClient) PayoutStatus(circleID string, address string) (response v1.PayoutStatus, err error) {
	err = client.get(&response, fmt.Sprintf("/v1/circles/%s/payout-status/%s", circleID, address), nil)
	return
}

// LedgerTotals gets the ledger-wide running totals
func (client RestClient) LedgerTotals() (response v1.LedgerTotals, err error) {
	err = client.get(&response, "/v1/ledger/totals", nil)
	return
}

// WithdrawFees draws from the protocol fee balance. Only the ledger owner
// may call this; the response carries the totals after the withdrawal.
func (client RestClient) WithdrawFees(request v1.WithdrawFeesRequest) (response v1.LedgerTotals, err error) {
	err = client.post(&response, "/v1/fees/withdraw", request)
	return
}

// Reputation gets the full reputation record of one account
func (client RestClient) Reputation(address string) (response v1.Reputation, err error) {
	err = client.get(&response, fmt.Sprintf("/v1/reputation/%s", address), nil)
	return
}

// ReputationScore gets just the stored score of one account
func (client RestClient) ReputationScore(address string) (response v1.ScoreResponse, err error) {
	err = client.get(&response, fmt.Sprintf("/v1/reputation/%s/score", address), nil)
	return
}

// ReputationTier gets just the stored tier of one account
func (client RestClient) ReputationTier(address string) (response v1.TierResponse, err error) {
	err = client.get(&response, fmt.Sprintf("/v1/reputation/%s/tier", address), nil)
	return
}

type minScoreParams struct {
	Min uint64 `url:"min"`
}

// MeetsMinimumScore checks the stored score of an account against a threshold
func (client RestClient) MeetsMinimumScore(address string, minScore uint64) (response v1.MeetsMinimumResponse, err error) {
	err = client.get(&response, fmt.Sprintf("/v1/reputation/%s/meets-minimum", address), minScoreParams{Min: minScore})
	return
}

type pageParams struct {
	First uint64 `url:"first,omitempty"`
	Max   uint64 `url:"max,omitempty"`
}

// Events gets one page of the event log, starting at sequence first,
// returning at most max entries. Zero values fall back to the server
// defaults; max is capped server side.
func (client RestClient) Events(first, max uint64) (response v1.EventList, err error) {
	err = client.get(&response, "/v1/events", pageParams{First: first, Max: max})
	return
}

// Payments gets one page of the settlement journal, starting at sequence
// first, returning at most max entries. Zero values fall back to the server
// defaults; max is capped server side.
func (client RestClient) Payments(first, max uint64) (response v1.PaymentList, err error) {
	err = client.get(&response, "/v1/payments", pageParams{First: first, Max: max})
	return
}
