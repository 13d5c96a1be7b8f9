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
	"strconv"
	"strings"
	"sync/atomic"
)

// Gauge represents a single gauge variable, a value that can go up and down.
type Gauge struct {
	value       atomic.Int64
	name        string
	description string
}

// MakeGauge creates a new gauge with the provided name and description and
// registers it with the default registry.
func MakeGauge(metric MetricName) *Gauge {
	g := &Gauge{
		name:        metric.Name,
		description: metric.Description,
	}
	g.Register(nil)
	return g
}

// Register registers the gauge with the default/specific registry
func (gauge *Gauge) Register(reg *Registry) {
	if reg == nil {
		DefaultRegistry().Register(gauge)
	} else {
		reg.Register(gauge)
	}
}

// Deregister deregisters the gauge with the default/specific registry
func (gauge *Gauge) Deregister(reg *Registry) {
	if reg == nil {
		DefaultRegistry().Deregister(gauge)
	} else {
		reg.Deregister(gauge)
	}
}

// Set sets the gauge to x
func (gauge *Gauge) Set(x int64) {
	gauge.value.Store(x)
}

// Inc increases the gauge by 1
func (gauge *Gauge) Inc() {
	gauge.value.Add(1)
}

// Dec decreases the gauge by 1
func (gauge *Gauge) Dec() {
	gauge.value.Add(-1)
}

// GetValue returns the value of the gauge.
func (gauge *Gauge) GetValue() int64 {
	return gauge.value.Load()
}

// WriteMetric writes the metric into the output stream
func (gauge *Gauge) WriteMetric(buf *strings.Builder, parentLabels string) {
	buf.WriteString("# HELP ")
	buf.WriteString(gauge.name)
	buf.WriteString(" ")
	buf.WriteString(gauge.description)
	buf.WriteString("\n# TYPE ")
	buf.WriteString(gauge.name)
	buf.WriteString(" gauge\n")
	buf.WriteString(gauge.name)
	if len(parentLabels) > 0 {
		buf.WriteString("{" + parentLabels + "}")
	}
	buf.WriteString(" ")
	buf.WriteString(strconv.FormatInt(gauge.value.Load(), 10))
	buf.WriteString("\n")
}

// AddMetric adds the metric into the map
func (gauge *Gauge) AddMetric(values map[string]float64) {
	values[sanitizeTelemetryName(gauge.name)] = float64(gauge.value.Load())
}
