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
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	gwerrors "github.com/toolgateway/gateway/pkg/errors"
)

// Config is the toolgatewayd process configuration, loaded from YAML and
// overridden by environment variables.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Servers  []ServerConfig `yaml:"servers"`
	Workflow WorkflowConfig `yaml:"workflow"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig describes one remote MCP tool server to connect at
// startup. Mirrors mcpconnector.Config, kept as plain strings here so it
// unmarshals directly from YAML without a custom decoder.
type ServerConfig struct {
	Name      string   `yaml:"name"`
	Transport string   `yaml:"transport"`
	Command   string   `yaml:"command"`
	Args      []string `yaml:"args"`
	Env       []string `yaml:"env"`
	URL       string   `yaml:"url"`
	Timeout   string   `yaml:"timeout"`
}

// timeout parses the configured timeout string, or returns zero (the
// connector applies its own default) when unset.
func (s ServerConfig) timeout() (time.Duration, error) {
	if s.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return 0, &gwerrors.ConfigError{Key: "servers." + s.Name + ".timeout", Reason: "not a valid duration", Cause: err}
	}
	return d, nil
}

// WorkflowConfig controls the default workflow engine run.
type WorkflowConfig struct {
	Timeout string `yaml:"timeout"`
}

// timeout parses the configured timeout string, or returns zero (the
// engine applies its own default) when unset.
func (w WorkflowConfig) timeout() (time.Duration, error) {
	if w.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(w.Timeout)
	if err != nil {
		return 0, &gwerrors.ConfigError{Key: "workflow.timeout", Reason: "not a valid duration", Cause: err}
	}
	return d, nil
}

// defaultConfig returns the configuration used when no file is given.
func defaultConfig() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// loadConfig reads and parses the YAML file at path. An empty path
// returns defaultConfig() unchanged. Environment variables
// TOOLGATEWAY_LOG_LEVEL and TOOLGATEWAY_LOG_FORMAT override the loaded
// values.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &gwerrors.ConfigError{Key: "config_file", Reason: fmt.Sprintf("failed to read %s", path), Cause: err}
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &gwerrors.ConfigError{Key: "config_file", Reason: "failed to parse YAML", Cause: err}
		}
	}

	if level := os.Getenv("TOOLGATEWAY_LOG_LEVEL"); level != "" {
		cfg.Log.Level = strings.ToLower(level)
	}
	if format := os.Getenv("TOOLGATEWAY_LOG_FORMAT"); format != "" {
		cfg.Log.Format = strings.ToLower(format)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}

	return cfg, nil
}
