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

package main

import (
	"context"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/toolgateway/gateway/pkg/telemetry"
)

// telemetryStack bundles the process-wide providers backing a
// telemetry.Telemetry, plus the registry a /metrics handler reads from.
type telemetryStack struct {
	telemetry      telemetry.Telemetry
	registry       *prometheus.Registry
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

// buildTelemetry wires structured logging (slog), tracing (an otel
// TracerProvider exporting to stdout), and metrics (a Prometheus
// registry fed both directly, via telemetry.PrometheusMetrics, and
// through the otel metrics SDK's Prometheus bridge) from cfg.
func buildTelemetry(cfg LogConfig) (*telemetryStack, error) {
	logger := telemetry.NewSlog(&telemetry.LogConfig{
		Level:  cfg.Level,
		Format: telemetry.Format(cfg.Format),
		Output: os.Stderr,
	})

	traceExporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(traceExporter))

	registry := prometheus.NewRegistry()
	metricExporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, err
	}
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(metricExporter))

	return &telemetryStack{
		telemetry: telemetry.Telemetry{
			Logger:  telemetry.NewSlogLogger(logger),
			Tracer:  telemetry.NewOtelTracer(tracerProvider.Tracer("toolgatewayd")),
			Metrics: telemetry.NewPrometheusMetrics(registry),
		},
		registry:       registry,
		tracerProvider: tracerProvider,
		meterProvider:  meterProvider,
	}, nil
}

// Shutdown flushes and closes the tracer and meter providers. Safe to
// call once at process exit.
func (s *telemetryStack) Shutdown(ctx context.Context) error {
	if err := s.tracerProvider.Shutdown(ctx); err != nil {
		return err
	}
	return s.meterProvider.Shutdown(ctx)
}
