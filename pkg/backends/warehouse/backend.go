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
// Package warehouse implements the backends.Executor contract over
// database/sql. Snowflake is the primary target; postgres, mysql, and
// sqlite are supported for local development and tests. The backend
// enforces the pipeline's read-only policy: only SELECT, WITH, and SHOW
// statements execute.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/datalore-labs/parley/pkg/backends"
	"github.com/datalore-labs/parley/pkg/types"
	"go.uber.org/zap"
)

// Config holds connection configuration for the warehouse backend.
type Config struct {
	// Driver is the database/sql driver name: snowflake, postgres,
	// mysql, or sqlite.
	Driver string

	// DSN is the driver-specific connection string.
	DSN string

	// MaxOpenConns bounds the pool size (default 4; one interactive
	// session rarely needs more).
	MaxOpenConns int

	Logger *zap.Logger
}

// Backend executes read-only SQL against the warehouse.
type Backend struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open creates a backend. The connection is established lazily; call
// Validate to verify it eagerly.
func Open(cfg Config) (*Backend, error) {
	if cfg.Driver == "" {
		return nil, fmt.Errorf("Driver is required")
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("DSN is required")
	}
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = 4
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", cfg.Driver, err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)

	return &Backend{db: db, logger: cfg.Logger}, nil
}

// NewFromDB wraps an existing connection pool (used by tests and by
// callers that manage their own pool).
func NewFromDB(db *sql.DB, logger *zap.Logger) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend{db: db, logger: logger}
}

// Validate verifies the connection with a trivial round trip.
func (b *Backend) Validate(ctx context.Context) error {
	var one int
	if err := b.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("connection validation failed: %w", err)
	}
	return nil
}

// Execute runs a read-only statement and returns its structured result.
func (b *Backend) Execute(ctx context.Context, sqlText string) (types.RawResult, error) {
	if err := checkReadOnly(sqlText); err != nil {
		return types.RawResult{}, err
	}

	rows, err := b.db.QueryContext(ctx, sqlText)
	if err != nil {
		return types.RawResult{}, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return types.RawResult{}, fmt.Errorf("failed to read column metadata: %w", err)
	}

	var data [][]any
	for rows.Next() {
		cells := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return types.RawResult{}, fmt.Errorf("row scan failed: %w", err)
		}
		data = append(data, cells)
	}
	if err := rows.Err(); err != nil {
		return types.RawResult{}, fmt.Errorf("row iteration failed: %w", err)
	}

	b.logger.Debug("query executed",
		zap.String("sql", sqlText),
		zap.Int("rows", len(data)))

	return types.Structured(columns, data), nil
}

// Close releases the connection pool.
func (b *Backend) Close() error {
	return b.db.Close()
}

// checkReadOnly rejects anything but SELECT/WITH/SHOW statements.
// Write and DDL statements never reach the warehouse from this pipeline.
func checkReadOnly(sqlText string) error {
	trimmed := strings.TrimSpace(sqlText)
	upper := strings.ToUpper(trimmed)
	for _, kw := range []string{"SELECT", "WITH", "SHOW"} {
		if strings.HasPrefix(upper, kw) {
			rest := upper[len(kw):]
			if rest == "" || rest[0] == ' ' || rest[0] == '\n' || rest[0] == '\t' || rest[0] == '(' {
				return nil
			}
		}
	}
	return fmt.Errorf("statement rejected: only read-only SELECT/WITH/SHOW statements are allowed")
}

// Ensure Backend implements the Executor interface.
var _ backends.Executor = (*Backend)(nil)
