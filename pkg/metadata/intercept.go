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
// Package metadata intercepts the closed class of "list the tables"
// questions and answers them with a fixed introspection query, never
// invoking the language model. The query is restricted to the active
// schema and requests exactly table name and table kind, so catalog
// details (timestamps, row counts, permissions) never reach the user.
package metadata

import (
	"context"
	"fmt"
	"strings"

	"github.com/datalore-labs/parley/pkg/backends"
	"github.com/datalore-labs/parley/pkg/coerce"
	"github.com/datalore-labs/parley/pkg/types"
	"go.uber.org/zap"
)

// TableListSQL is the fixed, read-only introspection statement used for
// every matched question.
const TableListSQL = "SELECT TABLE_NAME, TABLE_TYPE FROM INFORMATION_SCHEMA.TABLES " +
	"WHERE TABLE_SCHEMA = CURRENT_SCHEMA() ORDER BY TABLE_NAME"

// triggerPhrases is the closed set of phrasings meaning "enumerate the
// tables", matched case-insensitively as substrings.
var triggerPhrases = []string{
	"show tables",
	"show me tables",
	"show all tables",
	"show me all tables",
	"list tables",
	"list all tables",
	"what tables",
	"which tables",
	"display tables",
	"get tables",
	"tables list",
}

// Interceptor answers table-listing questions directly from the catalog.
type Interceptor struct {
	executor backends.Executor
	logger   *zap.Logger
}

// New creates an interceptor backed by the given executor.
func New(executor backends.Executor, logger *zap.Logger) *Interceptor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interceptor{executor: executor, logger: logger}
}

// Matches reports whether the question contains a trigger phrase.
func Matches(question string) bool {
	lowered := strings.ToLower(strings.TrimSpace(question))
	for _, phrase := range triggerPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

// TryHandle executes the fixed table-list query when the question matches
// a trigger phrase. ok is false when the question is not a metadata
// question, letting the caller fall through to SQL generation.
func (i *Interceptor) TryHandle(ctx context.Context, question string) (types.QueryResult, bool, error) {
	if !Matches(question) {
		return types.QueryResult{}, false, nil
	}

	i.logger.Info("metadata intercept", zap.String("question", question))

	raw, err := i.executor.Execute(ctx, TableListSQL)
	if err != nil {
		return types.QueryResult{}, true, fmt.Errorf("table list query failed: %w", err)
	}

	result, err := coerce.Coerce(raw, TableListSQL)
	if err != nil {
		return types.QueryResult{}, true, fmt.Errorf("table list coercion failed: %w", err)
	}
	return result, true, nil
}

// SQL returns the fixed statement, exposed for provenance logging.
func (i *Interceptor) SQL() string {
	return TableListSQL
}
