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
	"context"
	"errors"
	"testing"

	"github.com/datalore-labs/parley/pkg/backends"
	"github.com/datalore-labs/parley/pkg/llm"
	"github.com/datalore-labs/parley/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider is a scriptable llm.Provider.
type fakeProvider struct {
	name      string
	available bool
	output    string
	err       error
	calls     int
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

func (f *fakeProvider) Name() string                       { return f.name }
func (f *fakeProvider) Model() string                      { return f.name + "-model" }
func (f *fakeProvider) Available(ctx context.Context) bool { return f.available }

var _ llm.Provider = (*fakeProvider)(nil)

// fakeExecutor records executed SQL and returns a scripted result.
type fakeExecutor struct {
	result types.RawResult
	err    error
	sqls   []string
}

func (f *fakeExecutor) Execute(ctx context.Context, sql string) (types.RawResult, error) {
	f.sqls = append(f.sqls, sql)
	if f.err != nil {
		return types.RawResult{}, f.err
	}
	return f.result, nil
}

var _ backends.Executor = (*fakeExecutor)(nil)

func newTestAgent(t *testing.T, providers []llm.Provider, exec backends.Executor) *Agent {
	t.Helper()
	ag, err := New(Config{Providers: providers, Executor: exec})
	require.NoError(t, err)
	return ag
}

// TestHandleTurn_DatabaseQuery runs the full generate-execute-present
// path.
func TestHandleTurn_DatabaseQuery(t *testing.T) {
	provider := &fakeProvider{
		name:      "gemini",
		available: true,
		output:    "```sql\nSELECT c_name, o_totalprice FROM orders LIMIT 10\n```",
	}
	exec := &fakeExecutor{
		result: types.Structured(
			[]string{"c_name", "o_totalprice"},
			[][]any{{"Customer#000000001", 555285.16}},
		),
	}
	ag := newTestAgent(t, []llm.Provider{provider}, exec)

	res, err := ag.HandleTurn(context.Background(), "What are the 10 orders with the highest value?", "Table ORDERS:\n  - O_TOTALPRICE (NUMBER, nullable)\n", "")
	require.NoError(t, err)

	assert.Equal(t, types.IntentDatabaseQuery, res.Classification.Intent)
	assert.False(t, res.Intercepted)
	assert.Equal(t, "gemini", res.Provider)
	assert.Equal(t, "SELECT c_name, o_totalprice FROM orders LIMIT 10", res.SQL)
	require.Equal(t, []string{"SELECT c_name, o_totalprice FROM orders LIMIT 10"}, exec.sqls)

	// Monetary question renders the currency shape.
	require.Len(t, res.Presentation.Rows, 1)
	assert.Equal(t, "$555,285.16", res.Presentation.Rows[0][1])
	assert.Equal(t, "1 records found", res.Presentation.Summary)
}

// TestHandleTurn_MetadataIntercept verifies table-listing questions are
// answered from the catalog without touching any provider.
func TestHandleTurn_MetadataIntercept(t *testing.T) {
	provider := &fakeProvider{name: "gemini", available: true, output: "SELECT 1"}
	exec := &fakeExecutor{
		result: types.Structured(
			[]string{"TABLE_NAME", "TABLE_TYPE"},
			[][]any{{"CUSTOMERS", "BASE TABLE"}, {"ORDERS", "BASE TABLE"}},
		),
	}
	ag := newTestAgent(t, []llm.Provider{provider}, exec)

	res, err := ag.HandleTurn(context.Background(), "show me all tables", "", "")
	require.NoError(t, err)

	assert.True(t, res.Intercepted)
	assert.Zero(t, provider.calls, "model must not be invoked for metadata questions")
	assert.Equal(t, types.IntentDatabaseQuery, res.Classification.Intent)
	require.Len(t, exec.sqls, 1)
	assert.Contains(t, exec.sqls[0], "INFORMATION_SCHEMA.TABLES")
	assert.Equal(t, []string{"#", "Table", "Type"}, res.Presentation.Headers)
}

// TestHandleTurn_HelpAndOffTopic verifies canned answers short-circuit
// before generation.
func TestHandleTurn_HelpAndOffTopic(t *testing.T) {
	provider := &fakeProvider{name: "gemini", available: true}
	exec := &fakeExecutor{}
	ag := newTestAgent(t, []llm.Provider{provider}, exec)

	res, err := ag.HandleTurn(context.Background(), "How can you help me?", "", "")
	require.NoError(t, err)
	assert.Equal(t, types.IntentHelpRequest, res.Classification.Intent)
	assert.Equal(t, DefaultHelpResponse, res.Answer)

	res, err = ag.HandleTurn(context.Background(), "Tell me a joke", "", "")
	require.NoError(t, err)
	assert.Equal(t, types.IntentOffTopic, res.Classification.Intent)
	assert.Equal(t, DefaultOffTopicResponse, res.Answer)

	assert.Zero(t, provider.calls)
	assert.Empty(t, exec.sqls)
}

// TestHandleTurn_NoProviderAvailable fails fast without generating.
func TestHandleTurn_NoProviderAvailable(t *testing.T) {
	provider := &fakeProvider{name: "gemini", available: false}
	exec := &fakeExecutor{}
	ag := newTestAgent(t, []llm.Provider{provider}, exec)

	_, err := ag.HandleTurn(context.Background(), "how many customers do we have", "", "")
	require.Error(t, err)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, GenerationProviderUnavailable, genErr.Kind)
	assert.Zero(t, provider.calls)
	assert.Empty(t, exec.sqls)
}

// TestHandleTurn_UnparseableOutput terminates without executing and
// without retrying another provider.
func TestHandleTurn_UnparseableOutput(t *testing.T) {
	bad := &fakeProvider{name: "gemini", available: true, output: "I cannot write SQL for that."}
	backup := &fakeProvider{name: "groq", available: true, output: "SELECT 1"}
	exec := &fakeExecutor{}
	ag := newTestAgent(t, []llm.Provider{bad, backup}, exec)

	_, err := ag.HandleTurn(context.Background(), "how many customers do we have", "", "")
	require.Error(t, err)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, GenerationUnparseable, genErr.Kind)
	assert.Equal(t, "gemini", genErr.Provider)
	assert.Equal(t, "I cannot write SQL for that.", genErr.Raw)

	// Single attempt: the backup provider is never consulted.
	assert.Equal(t, 1, bad.calls)
	assert.Zero(t, backup.calls)
	assert.Empty(t, exec.sqls)
}

// TestHandleTurn_ExecutionFailure surfaces the attempted SQL.
func TestHandleTurn_ExecutionFailure(t *testing.T) {
	provider := &fakeProvider{name: "gemini", available: true, output: "SELECT bogus FROM nowhere"}
	exec := &fakeExecutor{err: errors.New("relation nowhere does not exist")}
	ag := newTestAgent(t, []llm.Provider{provider}, exec)

	_, err := ag.HandleTurn(context.Background(), "how many customers do we have", "", "")
	require.Error(t, err)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, GenerationExecutionFailed, genErr.Kind)
	assert.Equal(t, "SELECT bogus FROM nowhere", genErr.SQL)
	assert.Equal(t, 1, provider.calls)
}

// TestHandleTurn_CoercionFallback degrades irregular payloads to the
// raw-text rendering instead of failing.
func TestHandleTurn_CoercionFallback(t *testing.T) {
	provider := &fakeProvider{name: "gemini", available: true, output: "SELECT x FROM t"}
	exec := &fakeExecutor{result: types.Text("completely irregular payload")}
	ag := newTestAgent(t, []llm.Provider{provider}, exec)

	res, err := ag.HandleTurn(context.Background(), "how many customers do we have", "", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"Result"}, res.Presentation.Headers)
	assert.Equal(t, "completely irregular payload", res.Presentation.Rows[0][0])
	assert.Contains(t, res.Presentation.Summary, "formatting fallback")
}

// TestHandleTurn_PinnedProvider selects the pinned provider even when an
// earlier one is available, and fails fast when the pin can't serve.
func TestHandleTurn_PinnedProvider(t *testing.T) {
	first := &fakeProvider{name: "gemini", available: true, output: "SELECT 1"}
	second := &fakeProvider{name: "ollama", available: true, output: "SELECT 2"}
	exec := &fakeExecutor{result: types.Structured([]string{"n"}, [][]any{{int64(2)}})}
	ag := newTestAgent(t, []llm.Provider{first, second}, exec)

	res, err := ag.HandleTurn(context.Background(), "how many customers do we have", "", "ollama")
	require.NoError(t, err)
	assert.Equal(t, "ollama", res.Provider)
	assert.Zero(t, first.calls)

	second.available = false
	_, err = ag.HandleTurn(context.Background(), "how many customers do we have", "", "ollama")
	require.Error(t, err)
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, GenerationProviderUnavailable, genErr.Kind)
}

// TestHandleTurn_TraceRecorded verifies the trace captures the pipeline
// steps, including on the error path.
func TestHandleTurn_TraceRecorded(t *testing.T) {
	provider := &fakeProvider{name: "gemini", available: true, output: "SELECT 1"}
	exec := &fakeExecutor{result: types.Structured([]string{"n"}, [][]any{{int64(1)}})}
	ag := newTestAgent(t, []llm.Provider{provider}, exec)

	res, err := ag.HandleTurn(context.Background(), "how many customers do we have", "", "")
	require.NoError(t, err)

	steps := make([]string, 0, len(res.Trace))
	for _, e := range res.Trace {
		steps = append(steps, e.Step)
	}
	assert.Contains(t, steps, "question")
	assert.Contains(t, steps, "classification")
	assert.Contains(t, steps, "provider")
	assert.Contains(t, steps, "sql")
	assert.Contains(t, steps, "result")

	// Error path still carries the trace.
	failing := &fakeProvider{name: "gemini", available: false}
	ag = newTestAgent(t, []llm.Provider{failing}, exec)
	res, err = ag.HandleTurn(context.Background(), "how many customers do we have", "", "")
	require.Error(t, err)
	require.NotNil(t, res)
	assert.NotEmpty(t, res.Trace)
}

// TestHandleTurn_TurnCounter increments across turns.
func TestHandleTurn_TurnCounter(t *testing.T) {
	exec := &fakeExecutor{}
	ag := newTestAgent(t, nil, exec)

	res, err := ag.HandleTurn(context.Background(), "Tell me a joke", "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Question.Turn)

	res, err = ag.HandleTurn(context.Background(), "Tell me a joke", "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Question.Turn)
}

// TestNew_RequiresExecutor rejects construction without an executor.
func TestNew_RequiresExecutor(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}
