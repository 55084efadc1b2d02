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
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format is the log output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Standard structured-log field keys used across the gateway.
const (
	RunIDKey  = "run_id"
	CallIDKey = "call_id"
	ToolKey   = "tool"
	ServerKey = "server"
	EventKey  = "event"
)

// LogConfig configures a structured logger.
type LogConfig struct {
	Level     string
	Format    Format
	Output    io.Writer
	AddSource bool
}

// DefaultLogConfig returns sensible defaults: info level, JSON to stderr.
func DefaultLogConfig() *LogConfig {
	return &LogConfig{
		Level:  "info",
		Format: FormatJSON,
		Output: os.Stderr,
	}
}

// LogConfigFromEnv builds a LogConfig from TOOLGATEWAY_LOG_LEVEL,
// TOOLGATEWAY_LOG_FORMAT, and TOOLGATEWAY_LOG_SOURCE.
func LogConfigFromEnv() *LogConfig {
	cfg := DefaultLogConfig()
	if level := os.Getenv("TOOLGATEWAY_LOG_LEVEL"); level != "" {
		cfg.Level = strings.ToLower(level)
	}
	if format := os.Getenv("TOOLGATEWAY_LOG_FORMAT"); format != "" {
		cfg.Format = Format(strings.ToLower(format))
	}
	if os.Getenv("TOOLGATEWAY_LOG_SOURCE") == "1" {
		cfg.AddSource = true
	}
	return cfg
}

// NewSlog creates a *slog.Logger from the given configuration.
func NewSlog(cfg *LogConfig) *slog.Logger {
	if cfg == nil {
		cfg = DefaultLogConfig()
	}
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.Format == FormatText {
		handler = slog.NewTextHandler(output, opts)
	} else {
		handler = slog.NewJSONHandler(output, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRunContext returns a logger annotated with a workflow run id.
func WithRunContext(l Logger, runID string) Logger {
	return l.With(slog.String(RunIDKey, runID))
}

// WithCallContext returns a logger annotated with a tool call id and name.
func WithCallContext(l Logger, callID, tool string) Logger {
	return l.With(slog.String(CallIDKey, callID), slog.String(ToolKey, tool))
}
