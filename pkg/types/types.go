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
// Package types defines the core domain types shared across the pipeline:
// questions, classifications, typed query results, and presentation tables.
// Types here are defined centrally to break import cycles between the
// classifier, coercion, and presentation packages.
package types

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Intent is the handling category assigned to a question before any SQL
// is generated.
type Intent string

const (
	// IntentDatabaseQuery routes the question through SQL generation.
	IntentDatabaseQuery Intent = "database_query"
	// IntentHelpRequest answers with the canned capability response.
	IntentHelpRequest Intent = "help_request"
	// IntentOffTopic answers with the canned off-topic response.
	IntentOffTopic Intent = "off_topic"
)

// Question is an immutable user input plus its turn index within the
// session. The caller owns it; nothing in the pipeline mutates it.
type Question struct {
	Text string
	Turn int64
}

// Classification is the classifier's verdict for a single question.
// Scores carries the matched-keyword count per category as the
// confidence signal. It is consumed immediately and never persisted.
type Classification struct {
	Question Question
	Intent   Intent
	Scores   map[Intent]int
}

// Kind discriminates the typed scalar domain of a result cell.
type Kind int

const (
	// KindNull is the SQL NULL sentinel.
	KindNull Kind = iota
	// KindString is a text cell.
	KindString
	// KindInt is a 64-bit integer cell.
	KindInt
	// KindDecimal is an arbitrary-precision numeric cell.
	KindDecimal
)

// Value is one typed result cell: string, integer, decimal, or null.
type Value struct {
	Kind Kind
	Str  string
	Int  int64
	Dec  decimal.Decimal
}

// Null returns the NULL cell.
func Null() Value {
	return Value{Kind: KindNull}
}

// String returns a text cell.
func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// Int returns an integer cell.
func Int(i int64) Value {
	return Value{Kind: KindInt, Int: i}
}

// Decimal returns an arbitrary-precision numeric cell.
func Decimal(d decimal.Decimal) Value {
	return Value{Kind: KindDecimal, Dec: d}
}

// IsNumeric reports whether the cell holds an integer or decimal.
func (v Value) IsNumeric() bool {
	return v.Kind == KindInt || v.Kind == KindDecimal
}

// Numeric returns the cell as a decimal. ok is false for non-numeric cells.
func (v Value) Numeric() (decimal.Decimal, bool) {
	switch v.Kind {
	case KindInt:
		return decimal.NewFromInt(v.Int), true
	case KindDecimal:
		return v.Dec, true
	default:
		return decimal.Decimal{}, false
	}
}

// Display returns the plain display form of the cell.
func (v Value) Display() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindDecimal:
		return v.Dec.String()
	default:
		return "NULL"
	}
}

// Equal reports whether two cells hold the same typed value.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindString:
		return v.Str == o.Str
	case KindInt:
		return v.Int == o.Int
	case KindDecimal:
		return v.Dec.Equal(o.Dec)
	default:
		return true
	}
}

// QueryResult is an ordered sequence of uniformly shaped records.
// Invariant: every row has exactly len(Columns) cells, in column order.
// Created by coercion, consumed by presentation, never persisted beyond
// the single response.
type QueryResult struct {
	Columns []string
	Rows    [][]Value
}

// RowCount returns the number of records.
func (r QueryResult) RowCount() int {
	return len(r.Rows)
}

// RawResult is the polymorphic payload returned by an execution path:
// either structured rows with column metadata, or a single opaque string
// that is the printed form of a sequence of tuples. Coercion normalizes
// both into a QueryResult.
type RawResult struct {
	// Columns and Rows are set for structured results. Row cells are
	// driver-level scalars (int64, float64, string, []byte, nil, ...).
	Columns []string
	Rows    [][]any

	// Text is set when the execution path stringified the result.
	Text   string
	IsText bool
}

// Structured wraps rows-with-columns as a RawResult.
func Structured(columns []string, rows [][]any) RawResult {
	return RawResult{Columns: columns, Rows: rows}
}

// Text wraps an opaque result string as a RawResult.
func Text(s string) RawResult {
	return RawResult{Text: s, IsText: true}
}

// PresentationTable is the terminal artifact handed to the UI layer:
// ordered headers, pre-formatted display rows, and a summary line.
type PresentationTable struct {
	Headers []string
	Rows    [][]string
	Summary string
}
