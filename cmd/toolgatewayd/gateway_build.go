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
	"fmt"

	"github.com/toolgateway/gateway/internal/mcpconnector"
	"github.com/toolgateway/gateway/pkg/gateway"
	"github.com/toolgateway/gateway/pkg/telemetry"
	"github.com/toolgateway/gateway/pkg/tools"
)

// buildGateway registers every configured remote server and returns a
// ready-to-use Gateway plus a teardown function that disconnects them.
func buildGateway(ctx context.Context, cfg *Config, t telemetry.Telemetry) (*gateway.Gateway, func(), error) {
	manager := tools.NewManager(tools.NewBM25Index())
	connector := mcpconnector.New(t)

	for _, sc := range cfg.Servers {
		timeout, err := sc.timeout()
		if err != nil {
			return nil, nil, err
		}
		connCfg := mcpconnector.Config{
			Name:      sc.Name,
			Transport: mcpconnector.Transport(sc.Transport),
			Command:   sc.Command,
			Args:      sc.Args,
			Env:       sc.Env,
			URL:       sc.URL,
			Timeout:   timeout,
		}
		if err := connector.Connect(ctx, connCfg, manager); err != nil {
			return nil, nil, fmt.Errorf("connecting server %q: %w", sc.Name, err)
		}
	}

	workflowTimeout, err := cfg.Workflow.timeout()
	if err != nil {
		return nil, nil, err
	}

	gw := gateway.New(manager, gateway.Options{
		Telemetry:  t,
		Capability: TerminalCapability{},
		Timeout:    workflowTimeout,
	})

	teardown := func() {
		for _, sc := range cfg.Servers {
			_ = connector.Disconnect(sc.Name, manager)
		}
		_ = connector.Close()
	}

	return gw, teardown, nil
}

// bootstrap loads configuration from configPath, wires telemetry, and
// builds a Gateway. Callers must invoke the returned teardown before
// process exit and Shutdown the telemetryStack separately.
func bootstrap(ctx context.Context, configPath string) (*telemetryStack, *Config, *gateway.Gateway, func(), error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	stack, err := buildTelemetry(cfg.Log)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("building telemetry: %w", err)
	}

	gw, teardown, err := buildGateway(ctx, cfg, stack.telemetry)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("building gateway: %w", err)
	}

	return stack, cfg, gw, teardown, nil
}
