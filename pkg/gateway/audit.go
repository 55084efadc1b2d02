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

package gateway

import (
	"context"
	"sync"

	"github.com/toolgateway/gateway/pkg/provenance"
)

// AuditSink receives the serialized result of every successful workflow
// run. A sink failure is logged by the caller and never fails the run
// that produced the record.
type AuditSink interface {
	Record(ctx context.Context, result provenance.Serialized) error
}

// MemorySink is the in-memory reference AuditSink. It keeps every record
// it has seen for the lifetime of the process; nothing is persisted to
// disk.
type MemorySink struct {
	mu      sync.Mutex
	entries []provenance.Serialized
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Record appends result to the sink. It never fails.
func (s *MemorySink) Record(_ context.Context, result provenance.Serialized) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, result)
	return nil
}

// Entries returns a snapshot copy of every record seen so far, oldest
// first.
func (s *MemorySink) Entries() []provenance.Serialized {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]provenance.Serialized, len(s.entries))
	copy(out, s.entries)
	return out
}
