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
package warehouse

import (
	"context"
	"fmt"
	"strings"

	"github.com/datalore-labs/parley/pkg/backends"
	"github.com/datalore-labs/parley/pkg/coerce"
	"github.com/datalore-labs/parley/pkg/types"
)

const (
	tablesSQL = "SELECT TABLE_NAME, TABLE_TYPE FROM INFORMATION_SCHEMA.TABLES " +
		"WHERE TABLE_SCHEMA = CURRENT_SCHEMA() ORDER BY TABLE_NAME"

	columnsSQL = "SELECT TABLE_NAME, COLUMN_NAME, DATA_TYPE, IS_NULLABLE " +
		"FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = CURRENT_SCHEMA() " +
		"ORDER BY TABLE_NAME, ORDINAL_POSITION"
)

// Inspector builds the provider-agnostic schema description injected
// into generation prompts: plain text listing each table with its
// columns and types, read from the active schema's catalog.
type Inspector struct {
	executor backends.Executor
}

// NewInspector creates an inspector over the given executor.
func NewInspector(executor backends.Executor) *Inspector {
	return &Inspector{executor: executor}
}

// ListTables returns the (TABLE_NAME, TABLE_TYPE) catalog listing.
func (i *Inspector) ListTables(ctx context.Context) (types.QueryResult, error) {
	raw, err := i.executor.Execute(ctx, tablesSQL)
	if err != nil {
		return types.QueryResult{}, fmt.Errorf("table listing failed: %w", err)
	}
	return coerce.Coerce(raw, tablesSQL)
}

// SchemaDescription renders the active schema as prompt-ready text:
//
//	Table CUSTOMERS:
//	  - C_CUSTKEY (NUMBER, not null)
//	  - C_NAME (TEXT, nullable)
func (i *Inspector) SchemaDescription(ctx context.Context) (string, error) {
	raw, err := i.executor.Execute(ctx, columnsSQL)
	if err != nil {
		return "", fmt.Errorf("column listing failed: %w", err)
	}

	result, err := coerce.Coerce(raw, columnsSQL)
	if err != nil {
		return "", fmt.Errorf("column coercion failed: %w", err)
	}

	var b strings.Builder
	current := ""
	for _, row := range result.Rows {
		table := row[0].Display()
		column := row[1].Display()
		dataType := row[2].Display()
		nullable := "not null"
		if strings.EqualFold(row[3].Display(), "YES") {
			nullable = "nullable"
		}

		if table != current {
			if current != "" {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "Table %s:\n", table)
			current = table
		}
		fmt.Fprintf(&b, "  - %s (%s, %s)\n", column, dataType, nullable)
	}

	if current == "" {
		return "", fmt.Errorf("no tables found in the active schema")
	}
	return b.String(), nil
}
