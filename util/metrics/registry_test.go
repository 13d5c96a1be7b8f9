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

package metrics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryWriteMetrics(t *testing.T) {
	reg := MakeRegistry()

	counter := &Counter{name: "reg_counter", description: "counts"}
	counter.Register(reg)
	counter.AddUint64(3)

	gauge := &Gauge{name: "reg_gauge", description: "gauges"}
	gauge.Register(reg)
	gauge.Set(-2)

	var buf strings.Builder
	reg.WriteMetrics(&buf, `host="h1"`)
	out := buf.String()
	require.Contains(t, out, `reg_counter{host="h1"} 3`)
	require.Contains(t, out, `reg_gauge{host="h1"} -2`)

	values := make(map[string]float64)
	reg.AddMetrics(values)
	require.Equal(t, float64(3), values["reg_counter"])
	require.Equal(t, float64(-2), values["reg_gauge"])

	counter.Deregister(reg)
	buf.Reset()
	reg.WriteMetrics(&buf, "")
	require.NotContains(t, buf.String(), "reg_counter")
	require.Contains(t, buf.String(), "reg_gauge")
}

func TestDefaultRegistrySingleton(t *testing.T) {
	require.Same(t, DefaultRegistry(), DefaultRegistry())
}

func TestSanitizeTelemetryName(t *testing.T) {
	for _, tc := range []struct{ in, out string }{
		{"susud_ledger_payouts_total", "susud_ledger_payouts_total"},
		{"9starts_with_digit", "_starts_with_digit"},
		{"has.dots", "has_dots"},
		{"has-dash", "has-dash"},
	} {
		require.Equal(t, tc.out, sanitizeTelemetryName(tc.in), tc.in)
	}
}
