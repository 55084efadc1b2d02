// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package telemetry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics records gateway metrics as Prometheus counter and
// histogram vectors, registered against a prometheus.Registerer. The
// label set of each series is derived from the attribute keys seen on
// first use of a given metric name.
type PrometheusMetrics struct {
	reg prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
}

// NewPrometheusMetrics creates a metrics recorder registered against reg.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	return &PrometheusMetrics{
		reg:        reg,
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

func (m *PrometheusMetrics) IncCounter(name string, attrs ...Attr) {
	labels, values := splitAttrs(attrs)
	c := m.counterVec(name, labels)
	if c == nil {
		return
	}
	c.WithLabelValues(values...).Inc()
}

func (m *PrometheusMetrics) ObserveDuration(name string, d time.Duration, attrs ...Attr) {
	labels, values := splitAttrs(attrs)
	h := m.histogramVec(name, labels)
	if h == nil {
		return
	}
	h.WithLabelValues(values...).Observe(d.Seconds())
}

func (m *PrometheusMetrics) counterVec(name string, labels []string) *prometheus.CounterVec {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.counters[name]; ok {
		return c
	}
	c := prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: name}, labels)
	if err := m.reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			c = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil
		}
	}
	m.counters[name] = c
	return c
}

func (m *PrometheusMetrics) histogramVec(name string, labels []string) *prometheus.HistogramVec {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.histograms[name]; ok {
		return h
	}
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: name, Help: name}, labels)
	if err := m.reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			h = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil
		}
	}
	m.histograms[name] = h
	return h
}

// splitAttrs returns sorted label names and their corresponding values, so
// a given attribute key set always produces the same label order.
func splitAttrs(attrs []Attr) (labels []string, values []string) {
	sorted := make([]Attr, len(attrs))
	copy(sorted, attrs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })
	for _, a := range sorted {
		labels = append(labels, a.Key)
		values = append(values, toLabelValue(a.Value))
	}
	return labels, values
}

func toLabelValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Standard metric names emitted by gateway components.
const (
	MetricToolCallsTotal      = "toolgateway_tool_calls_total"
	MetricToolCallDuration    = "toolgateway_tool_call_duration_seconds"
	MetricSearchQueriesTotal  = "toolgateway_search_queries_total"
	MetricWorkflowRunsTotal   = "toolgateway_workflow_runs_total"
	MetricWorkflowRunDuration = "toolgateway_workflow_run_duration_seconds"
	MetricElicitationsTotal   = "toolgateway_elicitations_total"
	MetricRemoteConnectsTotal = "toolgateway_remote_connects_total"
)
