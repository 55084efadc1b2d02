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

// Package telemetry provides the logging, tracing, and metrics surface
// shared by every gateway component. Components depend on the small
// interfaces here rather than on slog, otel, or prometheus directly, so
// they work unconfigured in tests and wire into a real backend in
// cmd/toolgatewayd.
package telemetry

import (
	"context"
	"log/slog"
	"time"
)

// Logger is the structured logging surface used across the gateway.
type Logger interface {
	Debug(msg string, attrs ...slog.Attr)
	Info(msg string, attrs ...slog.Attr)
	Warn(msg string, attrs ...slog.Attr)
	Error(msg string, attrs ...slog.Attr)
	With(attrs ...slog.Attr) Logger
}

// Span represents an in-flight trace span.
type Span interface {
	End()
	SetError(err error)
	SetAttributes(attrs ...Attr)
}

// Attr is a key/value pair attached to a span or metric.
type Attr struct {
	Key   string
	Value any
}

// Tracer starts spans for named operations.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attr) (context.Context, Span)
}

// Metrics records counters and durations for gateway operations.
type Metrics interface {
	IncCounter(name string, attrs ...Attr)
	ObserveDuration(name string, d time.Duration, attrs ...Attr)
}

// Telemetry bundles the three signals a component needs. A zero-value
// Telemetry is valid and uses no-op implementations throughout.
type Telemetry struct {
	Logger  Logger
	Tracer  Tracer
	Metrics Metrics
}

// NoOp returns a Telemetry whose signals discard everything. Components
// should fall back to NoOp() when constructed without an explicit
// Telemetry, so they never have to nil-check.
func NoOp() Telemetry {
	return Telemetry{
		Logger:  noopLogger{},
		Tracer:  noopTracer{},
		Metrics: noopMetrics{},
	}
}

// WithDefaults fills any unset field of t with its no-op counterpart.
func (t Telemetry) WithDefaults() Telemetry {
	if t.Logger == nil {
		t.Logger = noopLogger{}
	}
	if t.Tracer == nil {
		t.Tracer = noopTracer{}
	}
	if t.Metrics == nil {
		t.Metrics = noopMetrics{}
	}
	return t
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...slog.Attr) {}
func (noopLogger) Info(string, ...slog.Attr)  {}
func (noopLogger) Warn(string, ...slog.Attr)  {}
func (noopLogger) Error(string, ...slog.Attr) {}
func (n noopLogger) With(...slog.Attr) Logger { return n }

type noopSpan struct{}

func (noopSpan) End()                    {}
func (noopSpan) SetError(error)          {}
func (noopSpan) SetAttributes(...Attr)   {}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string, _ ...Attr) (context.Context, Span) {
	return ctx, noopSpan{}
}

type noopMetrics struct{}

func (noopMetrics) IncCounter(string, ...Attr)                {}
func (noopMetrics) ObserveDuration(string, time.Duration, ...Attr) {}

// SlogLogger adapts a *slog.Logger to the Logger interface, grounded on
// the structured-logging helpers in internal/log.
type SlogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps an existing *slog.Logger.
func NewSlogLogger(l *slog.Logger) SlogLogger {
	return SlogLogger{l: l}
}

func (s SlogLogger) Debug(msg string, attrs ...slog.Attr) { s.l.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...) }
func (s SlogLogger) Info(msg string, attrs ...slog.Attr)  { s.l.LogAttrs(context.Background(), slog.LevelInfo, msg, attrs...) }
func (s SlogLogger) Warn(msg string, attrs ...slog.Attr)  { s.l.LogAttrs(context.Background(), slog.LevelWarn, msg, attrs...) }
func (s SlogLogger) Error(msg string, attrs ...slog.Attr) { s.l.LogAttrs(context.Background(), slog.LevelError, msg, attrs...) }
func (s SlogLogger) With(attrs ...slog.Attr) Logger {
	args := make([]any, 0, len(attrs)*2)
	for _, a := range attrs {
		args = append(args, a)
	}
	return SlogLogger{l: s.l.With(args...)}
}
