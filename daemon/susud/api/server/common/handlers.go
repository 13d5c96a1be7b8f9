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

package common

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/susu-finance/go-susu/config"
	"github.com/susu-finance/go-susu/daemon/susud/api/server/lib"
	"github.com/susu-finance/go-susu/daemon/susud/api/spec/common"
	"github.com/susu-finance/go-susu/util/metrics"
)

// HealthCheck is an httpHandler for route GET /healthcheck
func HealthCheck(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /healthcheck HealthCheck
	//---
	//     Summary: Returns OK if healthy.
	//     Produces:
	//     - application/json
	//     Schemes:
	//     - http
	//     Responses:
	//       200:
	//         description: OK.
	//       default: { description: Unknown Error }
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(nil)
}

// VersionsHandler is an httpHandler for route GET /versions
func VersionsHandler(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:route GET /versions GetVersion
	//
	// Retrieves the supported API versions and the build version.
	//
	//     Produces:
	//     - application/json
	//
	//     Schemes: http
	//
	//     Responses:
	//		200: VersionsResponse
	currentVersion := config.GetCurrentVersion()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	response := common.Version{
		Versions: []string{"v1"},
		Major:    currentVersion.Major,
		Minor:    currentVersion.Minor,
	}
	json.NewEncoder(w).Encode(response)
}

// Metrics is an httpHandler for route GET /metrics.  It writes the default
// metrics registry in the Prometheus text exposition format.
func Metrics(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /metrics Metrics
	//---
	//     Summary: Returns the daemon's counters in Prometheus text format.
	//     Produces:
	//     - text/plain
	//     Schemes:
	//     - http
	//     Responses:
	//       200:
	//         description: Metric lines
	//       default: { description: Unknown Error }
	var buf strings.Builder
	metrics.DefaultRegistry().WriteMetrics(&buf, "")

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(buf.String()))
}

// CORS
func optionsHandler(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
