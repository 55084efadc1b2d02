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

package provenance

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStore_NextCallID_PerToolCounter(t *testing.T) {
	s := NewStore()
	assert.Equal(t, "fetch#0", s.NextCallID("fetch"))
	assert.Equal(t, "fetch#1", s.NextCallID("fetch"))
	assert.Equal(t, "search#0", s.NextCallID("search"))
}

func TestStore_NextCallID_AssignedByEntryOrderNotCompletion(t *testing.T) {
	s := NewStore()
	first := s.NextCallID("fetch")
	second := s.NextCallID("fetch")

	// completion arrives in reverse order of entry
	s.Append(ToolCallRecord{CallID: second, ToolName: "fetch", Timestamp: time.Unix(2, 0)})
	s.Append(ToolCallRecord{CallID: first, ToolName: "fetch", Timestamp: time.Unix(1, 0)})

	records := s.Records()
	assert.Equal(t, second, records[0].CallID)
	assert.Equal(t, first, records[1].CallID)
}

func TestStore_Records_ReturnsSnapshotCopy(t *testing.T) {
	s := NewStore()
	s.Append(ToolCallRecord{CallID: "fetch#0"})
	records := s.Records()
	records[0].CallID = "mutated"
	assert.Equal(t, "fetch#0", s.Records()[0].CallID)
}

func TestStore_ConcurrentNextCallID(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	ids := make(chan string, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- s.NextCallID("fetch")
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate call id minted: %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, 100)
}

func TestRecordFromOrigins_OmitsEmptyAndNil(t *testing.T) {
	a := origin("fetch", 0)
	out := RecordFromOrigins(map[string]OriginSet{
		"tracked":   NewOriginSet(a),
		"untracked": {},
	})
	assert.Equal(t, map[string][]string{"tracked": {"fetch#0"}}, out)

	assert.Nil(t, RecordFromOrigins(map[string]OriginSet{"x": {}}))
	assert.Nil(t, RecordFromOrigins(nil))
}
