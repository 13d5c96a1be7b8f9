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
	"regexp"
	"strings"
	"sync"

	"github.com/algorand/go-deadlock"
)

// Metric represents any collectable metric
type Metric interface {
	// WriteMetric adds the metric in Prometheus exposition format to buf,
	// including parentLabels tags if provided.
	WriteMetric(buf *strings.Builder, parentLabels string)
	// AddMetric adds the metric to a map, for programmatic consumption.
	AddMetric(values map[string]float64)
}

// Registry represents a single set of metrics
type Registry struct {
	metrics   []Metric
	metricsMu deadlock.Mutex
}

var defaultRegistry *Registry
var defaultRegistryOnce sync.Once

// MakeRegistry creates a new empty metrics registry
func MakeRegistry() *Registry {
	return &Registry{}
}

// DefaultRegistry returns the global registry metrics register to by
// default.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = MakeRegistry()
	})
	return defaultRegistry
}

// Register adds a metric to the registry
func (r *Registry) Register(metric Metric) {
	r.metricsMu.Lock()
	defer r.metricsMu.Unlock()
	r.metrics = append(r.metrics, metric)
}

// Deregister removes a metric from the registry
func (r *Registry) Deregister(metric Metric) {
	r.metricsMu.Lock()
	defer r.metricsMu.Unlock()
	for i, m := range r.metrics {
		if m == metric {
			r.metrics = append(r.metrics[:i], r.metrics[i+1:]...)
			return
		}
	}
}

// WriteMetrics writes every registered metric to buf in Prometheus text
// exposition format.
func (r *Registry) WriteMetrics(buf *strings.Builder, parentLabels string) {
	r.metricsMu.Lock()
	defer r.metricsMu.Unlock()
	for _, m := range r.metrics {
		m.WriteMetric(buf, parentLabels)
	}
}

// AddMetrics adds every registered metric to the values map.
func (r *Registry) AddMetrics(values map[string]float64) {
	r.metricsMu.Lock()
	defer r.metricsMu.Unlock()
	for _, m := range r.metrics {
		m.AddMetric(values)
	}
}

var sanitizeCharactersRegexp = regexp.MustCompile("(^[^a-zA-Z_]|[^a-zA-Z0-9_-])")

// sanitizeTelemetryName ensures a reported metric name doesn't contain any
// non-alphanumeric characters (apart from - or _) and doesn't start with a
// number or a hyphen.
func sanitizeTelemetryName(name string) string {
	return sanitizeCharactersRegexp.ReplaceAllString(name, "_")
}
