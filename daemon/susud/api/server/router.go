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

// Package server Susud REST API.
//
// API Endpoint for Susud Operations.
//
//
//     Schemes: http
//     Host: localhost
//     BasePath: /
//     Version: 0.0.1
//     License:
//     Contact: contact@susu.finance
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
//     Security:
//     - api_key:
//
//     SecurityDefinitions:
//     api_key:
//       type: apiKey
//       name: X-Susu-API-Token
//       in: header
//       description: >-
//         Generated header parameter. This value can be found in `/susud/data/dir/susud.token`. Example value:
//         '330b2e4fc9b20f4f89812cf87f1dabeb716d23e3f11aec97a61ff5f750563b78'
//       required: true
//       x-example: 330b2e4fc9b20f4f89812cf87f1dabeb716d23e3f11aec97a61ff5f750563b78
//
// swagger:meta
//---
// Currently, server implementation annotations serve as the API ground truth. From that,
// we use go-swagger to generate a swagger spec.
//
//go:generate swagger generate spec -o="../swagger.json"
//go:generate swagger validate ../swagger.json --stop-on-error
package server

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/susu-finance/go-susu/config"
	"github.com/susu-finance/go-susu/daemon/susud/api/server/common"
	"github.com/susu-finance/go-susu/daemon/susud/api/server/lib"
	"github.com/susu-finance/go-susu/daemon/susud/api/server/lib/middlewares"
	"github.com/susu-finance/go-susu/daemon/susud/api/server/v1/routes"
	"github.com/susu-finance/go-susu/daemon/susud/outbox"
	"github.com/susu-finance/go-susu/ledger"
	"github.com/susu-finance/go-susu/logging"
	"github.com/susu-finance/go-susu/reputation"
)

const (
	apiV1Tag              = "v1"
	debugRouteName        = "debug"
	pprofEndpointPrefix   = "/debug/pprof/"
	urlAuthEndpointPrefix = "/urlAuth/{apiToken:[0-9a-f]+}"
)

// wrapCtx passes a common context to each request without a global variable.
func wrapCtx(ctx lib.ReqContext, handler lib.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handler(ctx, w, r)
	}
}

// registerHandlers registers a set of Routes to [router]. if [prefix] is not
// empty, the routes are registered under it.
func registerHandlers(router *mux.Router, prefix string, routes lib.Routes, ctx lib.ReqContext) {
	for _, route := range routes {
		if route.Path == "" {
			// A method-only catch-all. Middlewares only trigger on a
			// matched route, so OPTIONS preflights need one.
			router.Methods(route.Method).HandlerFunc(wrapCtx(ctx, route.HandlerFunc))
			continue
		}
		router.HandleFunc(prefix+route.Path, wrapCtx(ctx, route.HandlerFunc)).Name(route.Name).Methods(route.Method)
	}
}

// NewRouter builds and returns a new router from routes
func NewRouter(logger logging.Logger, ledger *ledger.SerializedLedger, registry *reputation.Registry, payments *outbox.Journal, shutdown <-chan struct{}, apiToken string, cfg config.Local) *mux.Router {
	router := mux.NewRouter()

	router.Use(middlewares.MakeLogger(logger))
	router.Use(middlewares.Auth(logger, apiToken))
	router.Use(middlewares.MakeCORS(middlewares.TokenHeader))

	// Request Context
	ctx := lib.ReqContext{
		Ledger:   ledger,
		Registry: registry,
		Payments: payments,
		Log:      logger,
		Shutdown: shutdown,
	}

	// Route pprof requests
	if cfg.EnableProfiler {
		// Registers /debug/pprof handler under root path and under /urlAuth path
		// to support header or url-provided token.
		router.PathPrefix(pprofEndpointPrefix).Handler(http.DefaultServeMux)

		urlAuthRouter := router.PathPrefix(urlAuthEndpointPrefix)
		urlAuthRouter.PathPrefix(pprofEndpointPrefix).Handler(http.DefaultServeMux).Name(debugRouteName)
	}

	// Registering common routes
	registerHandlers(router, "", common.Routes, ctx)

	// Registering v1 routes
	registerHandlers(router, fmt.Sprintf("/%s", apiV1Tag), routes.V1Routes, ctx)

	return router
}
