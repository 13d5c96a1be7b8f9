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

// Package lib holds the plumbing shared by all susud API versions: the
// request context handed to every handler, the route table types, and the
// error response writer.
package lib

import (
	"encoding/json"
	"net/http"

	"github.com/susu-finance/go-susu/daemon/susud/api/spec/common"
	"github.com/susu-finance/go-susu/daemon/susud/outbox"
	"github.com/susu-finance/go-susu/ledger"
	"github.com/susu-finance/go-susu/logging"
	"github.com/susu-finance/go-susu/reputation"
)

// ReqContext is passed to each handler via wrapCtx, giving handlers access
// to the daemon's services without a global.
type ReqContext struct {
	Ledger   *ledger.SerializedLedger
	Registry *reputation.Registry
	Payments *outbox.Journal
	Log      logging.Logger
	Shutdown <-chan struct{}
}

// HandlerFunc is an http.HandlerFunc carrying the request context.
type HandlerFunc func(ReqContext, http.ResponseWriter, *http.Request)

// Route describes one endpoint.  The Name is significant: the auth
// middleware matches it against its bypass list.
type Route struct {
	Name        string
	Method      string
	Path        string
	HandlerFunc HandlerFunc
}

// Routes is a collection of Route.
type Routes []Route

// ErrorResponse sets the specified status code (must be 4xx or 5xx), logs
// the internal error, and writes the public error string as the standard
// json error shape.
func ErrorResponse(w http.ResponseWriter, status int, internalErr error, publicErr string, log logging.Logger) {
	log.Info(internalErr)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(common.Error{Message: publicErr})
}
