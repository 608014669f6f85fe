// Copyright 2026 Datalore Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package agent

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TraceEntry is one step of the per-request provenance log.
type TraceEntry struct {
	Seq    int
	Time   time.Time
	Step   string
	Detail string
}

// Trace is the ordered, append-only provenance record of a single
// request: provider chosen, raw model output, sanitized SQL, execution
// outcome. It is local to the request and needs no synchronization; it
// is exposed to the caller for display and has no effect on control
// flow.
type Trace struct {
	requestID string
	entries   []TraceEntry
}

// NewTrace creates an empty trace with a fresh request ID.
func NewTrace() *Trace {
	return &Trace{requestID: uuid.NewString()}
}

// RequestID returns the request identifier.
func (t *Trace) RequestID() string {
	return t.requestID
}

// Add appends one step.
func (t *Trace) Add(step, detail string) {
	t.entries = append(t.entries, TraceEntry{
		Seq:    len(t.entries) + 1,
		Time:   time.Now(),
		Step:   step,
		Detail: detail,
	})
}

// Addf appends one step with a formatted detail.
func (t *Trace) Addf(step, format string, args ...any) {
	t.Add(step, fmt.Sprintf(format, args...))
}

// Entries returns a copy of the recorded steps in order.
func (t *Trace) Entries() []TraceEntry {
	out := make([]TraceEntry, len(t.entries))
	copy(out, t.entries)
	return out
}
