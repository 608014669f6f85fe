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
package metadata

import (
	"context"
	"errors"
	"testing"

	"github.com/datalore-labs/parley/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedExecutor struct {
	result types.RawResult
	err    error
	sqls   []string
}

func (s *scriptedExecutor) Execute(ctx context.Context, sql string) (types.RawResult, error) {
	s.sqls = append(s.sqls, sql)
	if s.err != nil {
		return types.RawResult{}, s.err
	}
	return s.result, nil
}

// TestMatches covers the trigger phrase set and near misses.
func TestMatches(t *testing.T) {
	matching := []string{
		"show tables",
		"Show me all tables",
		"SHOW ALL TABLES",
		"list tables in the schema",
		"what tables do we have?",
		"which tables exist",
		"display tables",
		"can you get tables for me",
		"  show tables  ",
	}
	for _, q := range matching {
		assert.True(t, Matches(q), "should match: %q", q)
	}

	nonMatching := []string{
		"show me the orders table",
		"how many tables are there",
		"describe the customers table",
		"show customers",
		"table tennis rankings",
		"",
	}
	for _, q := range nonMatching {
		assert.False(t, Matches(q), "should not match: %q", q)
	}
}

// TestTryHandle_Match executes the fixed catalog query and coerces the
// result.
func TestTryHandle_Match(t *testing.T) {
	exec := &scriptedExecutor{
		result: types.Structured(
			[]string{"TABLE_NAME", "TABLE_TYPE"},
			[][]any{{"CUSTOMERS", "BASE TABLE"}, {"ORDERS", "BASE TABLE"}},
		),
	}
	in := New(exec, nil)

	got, ok, err := in.TryHandle(context.Background(), "show me all tables")
	require.NoError(t, err)
	require.True(t, ok)

	require.Equal(t, []string{TableListSQL}, exec.sqls)
	assert.Equal(t, []string{"TABLE_NAME", "TABLE_TYPE"}, got.Columns)
	assert.Equal(t, 2, got.RowCount())
}

// TestTryHandle_NoMatch falls through without touching the warehouse.
func TestTryHandle_NoMatch(t *testing.T) {
	exec := &scriptedExecutor{}
	in := New(exec, nil)

	_, ok, err := in.TryHandle(context.Background(), "how many customers do we have")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, exec.sqls)
}

// TestTryHandle_ExecutionError reports ok with the error so the caller
// does not fall back to SQL generation for a matched question.
func TestTryHandle_ExecutionError(t *testing.T) {
	exec := &scriptedExecutor{err: errors.New("connection reset")}
	in := New(exec, nil)

	_, ok, err := in.TryHandle(context.Background(), "show tables")
	assert.True(t, ok)
	require.Error(t, err)
}

// TestTableListSQL_Scope pins the fixed statement to the active schema
// and the two public columns.
func TestTableListSQL_Scope(t *testing.T) {
	assert.Contains(t, TableListSQL, "INFORMATION_SCHEMA.TABLES")
	assert.Contains(t, TableListSQL, "CURRENT_SCHEMA()")
	assert.Contains(t, TableListSQL, "TABLE_NAME, TABLE_TYPE")
	assert.Contains(t, TableListSQL, "ORDER BY TABLE_NAME")
}
