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

// Package mcpconnector implements the Remote Server Connector
// (spec.md §4.4): it owns the session to a single remote tool server over
// one of three transports and hands the tools it advertises to the tool
// manager.
package mcpconnector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	gwerrors "github.com/toolgateway/gateway/pkg/errors"
	"github.com/toolgateway/gateway/pkg/telemetry"
	"github.com/toolgateway/gateway/pkg/tools"
)

// Transport identifies the wire protocol used to reach a remote server.
type Transport string

const (
	TransportStdio           Transport = "stdio"
	TransportSSE             Transport = "sse"
	TransportStreamableHTTP  Transport = "streamable_http"
	defaultTeardownTimeout             = 2 * time.Second
	defaultCallTimeout                 = 30 * time.Second
)

// Config describes how to reach one remote tool server.
type Config struct {
	Name      string
	Transport Transport

	// Command is required for TransportStdio; Args and Env are optional.
	Command string
	Args    []string
	Env     []string

	// URL is required for TransportSSE and TransportStreamableHTTP.
	URL string

	// Timeout bounds each CallTool invocation. Defaults to 30s.
	Timeout time.Duration
}

func (c Config) validate() error {
	switch c.Transport {
	case TransportStdio:
		if c.Command == "" {
			return &gwerrors.ValidationError{Tool: c.Name, Field: "command", Message: "command is required for the stdio transport"}
		}
	case TransportSSE, TransportStreamableHTTP:
		if c.URL == "" {
			return &gwerrors.ValidationError{Tool: c.Name, Field: "url", Message: "url is required for this transport"}
		}
	default:
		return &gwerrors.ValidationError{Tool: c.Name, Field: "transport", Message: fmt.Sprintf("unknown transport %q", c.Transport)}
	}
	return nil
}

type session struct {
	name    string
	client  *mcpclient.Client
	timeout time.Duration
}

// Connector manages the set of currently-connected remote servers for one
// gateway process.
type Connector struct {
	mu              sync.Mutex
	sessions        map[string]*session
	teardownTimeout time.Duration
	telemetry       telemetry.Telemetry
}

// New creates an empty Connector. t may be telemetry.NoOp().
func New(t telemetry.Telemetry) *Connector {
	return &Connector{
		sessions:        make(map[string]*session),
		teardownTimeout: defaultTeardownTimeout,
		telemetry:       t.WithDefaults(),
	}
}

// Connect opens a session to the server described by cfg, enumerates its
// tools, and registers them with manager under cfg.Name.
func (c *Connector) Connect(ctx context.Context, cfg Config, manager *tools.Manager) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	c.mu.Lock()
	if _, exists := c.sessions[cfg.Name]; exists {
		c.mu.Unlock()
		return &gwerrors.ValidationError{Tool: cfg.Name, Field: "name", Message: "server already connected"}
	}
	c.mu.Unlock()

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}

	mc, err := newTransportClient(cfg)
	if err != nil {
		return &gwerrors.RemoteTransportError{Server: cfg.Name, Operation: "connect", Cause: err}
	}
	if err := mc.Start(ctx); err != nil {
		return &gwerrors.RemoteTransportError{Server: cfg.Name, Operation: "start", Cause: err}
	}

	initReq := mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			ClientInfo:      mcp.Implementation{Name: "toolgateway", Version: "0.1.0"},
		},
	}
	if _, err := mc.Initialize(ctx, initReq); err != nil {
		_ = mc.Close()
		return &gwerrors.RemoteTransportError{Server: cfg.Name, Operation: "initialize", Cause: err}
	}

	listResult, err := mc.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		_ = mc.Close()
		return &gwerrors.RemoteTransportError{Server: cfg.Name, Operation: "list_tools", Cause: err}
	}

	sess := &session{name: cfg.Name, client: mc, timeout: timeout}

	defs := make([]tools.RemoteToolDef, 0, len(listResult.Tools))
	for _, t := range listResult.Tools {
		defs = append(defs, tools.RemoteToolDef{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: decodeSchema(t.RawInputSchema),
		})
	}

	dispatch := func(ctx context.Context, bareName string, args map[string]any) (any, error) {
		return sess.call(ctx, bareName, args)
	}

	if err := manager.AddRemoteServer(cfg.Name, dispatch, defs); err != nil {
		_ = mc.Close()
		return err
	}

	c.mu.Lock()
	c.sessions[cfg.Name] = sess
	c.mu.Unlock()

	c.telemetry.Metrics.IncCounter(telemetry.MetricRemoteConnectsTotal, telemetry.Attr{Key: "server", Value: cfg.Name})
	c.telemetry.Logger.Info("remote server connected",
		slog.String("server", cfg.Name),
		slog.Int("tool_count", len(defs)),
	)
	return nil
}

// Disconnect drops serverName's tools from manager and closes its session.
func (c *Connector) Disconnect(serverName string, manager *tools.Manager) error {
	c.mu.Lock()
	sess, exists := c.sessions[serverName]
	if exists {
		delete(c.sessions, serverName)
	}
	c.mu.Unlock()

	manager.RemoveRemoteServer(serverName)

	if !exists {
		return nil
	}
	if err := sess.client.Close(); err != nil {
		return &gwerrors.RemoteTransportError{Server: serverName, Operation: "disconnect", Cause: err}
	}
	return nil
}

// Close shuts down every open session under a bounded timeout. A session
// that does not close in time is abandoned rather than allowed to block
// teardown of the others; a close error it produces after the timeout is
// not reported.
func (c *Connector) Close() error {
	c.mu.Lock()
	sessions := make([]*session, 0, len(c.sessions))
	for _, s := range c.sessions {
		sessions = append(sessions, s)
	}
	c.sessions = make(map[string]*session)
	c.mu.Unlock()

	var wg sync.WaitGroup
	errCh := make(chan error, len(sessions))
	for _, s := range sessions {
		wg.Add(1)
		go func(s *session) {
			defer wg.Done()
			if err := s.client.Close(); err != nil {
				errCh <- &gwerrors.RemoteTransportError{Server: s.name, Operation: "close", Cause: err}
			}
		}(s)
	}

	if !waitGroupTimeout(&wg, c.teardownTimeout) {
		c.telemetry.Logger.Warn("timed out waiting for remote sessions to close",
			slog.String("timeout", c.teardownTimeout.String()),
		)
	}

	// errCh is never closed: a session abandoned above may still send on
	// it later, and the buffer holds one slot per session so that send
	// never blocks. Only errors already delivered are collected here.
	var errs []error
drain:
	for {
		select {
		case err := <-errCh:
			errs = append(errs, err)
		default:
			break drain
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("close: %d of %d sessions failed: %w", len(errs), len(sessions), errs[0])
}

// waitGroupTimeout waits for wg with a bound, returning false on timeout.
func waitGroupTimeout(wg *sync.WaitGroup, timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func newTransportClient(cfg Config) (*mcpclient.Client, error) {
	switch cfg.Transport {
	case TransportStdio:
		return mcpclient.NewStdioMCPClient(cfg.Command, cfg.Env, cfg.Args...)
	case TransportSSE:
		return mcpclient.NewSSEMCPClient(cfg.URL)
	case TransportStreamableHTTP:
		return mcpclient.NewStreamableHttpClient(cfg.URL)
	default:
		return nil, fmt.Errorf("unsupported transport %q", cfg.Transport)
	}
}

func decodeSchema(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
