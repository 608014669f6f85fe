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
// Package backends defines the SQL execution contract consumed by the
// pipeline. The warehouse subpackage provides the database/sql
// implementation.
package backends

import (
	"context"

	"github.com/datalore-labs/parley/pkg/types"
)

// Executor runs a SQL statement and returns its raw result. Depending on
// the execution path the payload is either structured rows with column
// metadata or a single stringified form; coercion normalizes both.
// Timeout and cancellation policy belongs to the implementation (driver,
// http client), not to the pipeline.
type Executor interface {
	Execute(ctx context.Context, sql string) (types.RawResult, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, sql string) (types.RawResult, error)

// Execute implements Executor.
func (f ExecutorFunc) Execute(ctx context.Context, sql string) (types.RawResult, error) {
	return f(ctx, sql)
}
