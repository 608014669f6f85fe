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
// Package coerce normalizes a raw query-result payload into a uniformly
// typed QueryResult. The payload is either structured rows with column
// metadata, or a single string that is the printed form of a list of
// tuples containing wrapped decimal objects, an artifact of execution
// paths that stringify their results. Coercion is deterministic and
// idempotent: the same input always yields the same QueryResult.
package coerce

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/datalore-labs/parley/pkg/types"
	"github.com/shopspring/decimal"
)

// ErrIrregularShape signals that the stringified payload violated a
// parsing assumption (e.g. tuples of unequal arity from a comma inside an
// unquoted field). Callers recover by presenting the raw text instead of
// failing the request.
var ErrIrregularShape = errors.New("irregular result shape")

// wrapperPattern matches a numeric literal wrapped in a named constructor
// call, e.g. Decimal('555285.16') or Numeric("3.14").
var wrapperPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*\(\s*['"]?([-+]?[0-9][0-9_.eE+-]*)['"]?\s*\)$`)

var intPattern = regexp.MustCompile(`^[-+]?[0-9]+$`)

// Coerce turns a raw result into a typed QueryResult. sql is the
// originating statement, used to synthesize column names when the
// stringified form carries none.
func Coerce(raw types.RawResult, sql string) (types.QueryResult, error) {
	if raw.IsText {
		return coerceText(raw.Text, sql)
	}
	return coerceStructured(raw)
}

// coerceStructured passes rows through, normalizing driver scalars into
// the typed value domain and taking column names from the execution
// service's metadata.
func coerceStructured(raw types.RawResult) (types.QueryResult, error) {
	columns := raw.Columns
	if len(columns) == 0 && len(raw.Rows) > 0 {
		columns = positionalColumns(len(raw.Rows[0]))
	}

	rows := make([][]types.Value, 0, len(raw.Rows))
	for _, in := range raw.Rows {
		if len(in) != len(columns) {
			return types.QueryResult{}, fmt.Errorf("%w: row has %d cells, expected %d",
				ErrIrregularShape, len(in), len(columns))
		}
		out := make([]types.Value, len(in))
		for i, cell := range in {
			out[i] = fromDriverValue(cell)
		}
		rows = append(rows, out)
	}

	return types.QueryResult{Columns: columns, Rows: rows}, nil
}

// fromDriverValue maps a database/sql scalar onto the typed value domain
// {string, integer, decimal, null}.
func fromDriverValue(v any) types.Value {
	switch x := v.(type) {
	case nil:
		return types.Null()
	case int64:
		return types.Int(x)
	case int:
		return types.Int(int64(x))
	case int32:
		return types.Int(int64(x))
	case float64:
		return types.Decimal(decimal.NewFromFloat(x))
	case float32:
		return types.Decimal(decimal.NewFromFloat32(x))
	case decimal.Decimal:
		return types.Decimal(x)
	case bool:
		return types.String(strconv.FormatBool(x))
	case time.Time:
		return types.String(x.Format(time.RFC3339))
	case []byte:
		return types.String(string(x))
	case string:
		return types.String(x)
	default:
		return types.String(fmt.Sprint(x))
	}
}

// coerceText parses the pretty-printed "[(...), (...), ...]" form. A
// naive comma split is insufficient because string fields may contain
// commas, so tuple and element scanning respect quotes and nested parens.
func coerceText(text, sql string) (types.QueryResult, error) {
	trimmed := strings.TrimSpace(text)

	// A single bare tuple is the one-row form of the same payload.
	if strings.HasPrefix(trimmed, "(") && strings.HasSuffix(trimmed, ")") {
		trimmed = "[" + trimmed + "]"
	}

	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return types.QueryResult{}, fmt.Errorf("%w: not a tuple list", ErrIrregularShape)
	}

	tuples, err := splitTuples(trimmed[1 : len(trimmed)-1])
	if err != nil {
		return types.QueryResult{}, err
	}

	// "[]" is the stringified form of an empty result. No tuples means no
	// observable arity; take column names from the SELECT list when it has
	// one.
	if len(tuples) == 0 {
		return types.QueryResult{Columns: selectListColumns(sql)}, nil
	}

	rows := make([][]types.Value, 0, len(tuples))
	arity := -1
	for _, tuple := range tuples {
		elements, err := splitTopLevel(tuple)
		if err != nil {
			return types.QueryResult{}, err
		}
		if arity == -1 {
			arity = len(elements)
		} else if len(elements) != arity {
			return types.QueryResult{}, fmt.Errorf("%w: tuple has %d elements, expected %d",
				ErrIrregularShape, len(elements), arity)
		}

		row := make([]types.Value, len(elements))
		for i, el := range elements {
			row[i] = parseElement(el)
		}
		rows = append(rows, row)
	}

	columns := columnsFromSQL(sql, arity)
	return types.QueryResult{Columns: columns, Rows: rows}, nil
}

// splitTuples extracts the top-level parenthesized tuples from the inner
// text of the list.
func splitTuples(inner string) ([]string, error) {
	var tuples []string
	depth := 0
	start := -1
	var quote byte

	for i := 0; i < len(inner); i++ {
		ch := inner[i]

		if quote != 0 {
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
			continue
		}

		switch ch {
		case '\'', '"':
			quote = ch
		case '(':
			if depth == 0 {
				start = i
			}
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("%w: unbalanced parentheses", ErrIrregularShape)
			}
			if depth == 0 {
				tuples = append(tuples, inner[start+1:i])
				start = -1
			}
		}
	}

	if depth != 0 || quote != 0 {
		return nil, fmt.Errorf("%w: unterminated tuple or string", ErrIrregularShape)
	}
	return tuples, nil
}

// splitTopLevel splits a tuple body on commas not enclosed in quotes or
// parentheses.
func splitTopLevel(tuple string) ([]string, error) {
	var elements []string
	depth := 0
	start := 0
	var quote byte

	for i := 0; i < len(tuple); i++ {
		ch := tuple[i]

		if quote != 0 {
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
			continue
		}

		switch ch {
		case '\'', '"':
			quote = ch
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				elements = append(elements, strings.TrimSpace(tuple[start:i]))
				start = i + 1
			}
		}
	}

	if depth != 0 || quote != 0 {
		return nil, fmt.Errorf("%w: unterminated element", ErrIrregularShape)
	}

	// Trailing comma (Python one-element tuple repr) yields an empty tail.
	tail := strings.TrimSpace(tuple[start:])
	if tail != "" {
		elements = append(elements, tail)
	}
	return elements, nil
}

// parseElement maps one textual tuple element onto the typed value
// domain. Unrecognized tokens degrade to their literal text rather than
// failing the whole payload.
func parseElement(el string) types.Value {
	switch {
	case el == "None" || el == "NULL":
		return types.Null()

	case len(el) >= 2 && (el[0] == '\'' || el[0] == '"') && el[len(el)-1] == el[0]:
		return types.String(unescape(el[1 : len(el)-1]))

	case intPattern.MatchString(el):
		if n, err := strconv.ParseInt(el, 10, 64); err == nil {
			return types.Int(n)
		}
		// Integer literal too large for int64; keep full precision.
		if d, err := decimal.NewFromString(el); err == nil {
			return types.Decimal(d)
		}
		return types.String(el)

	default:
		if m := wrapperPattern.FindStringSubmatch(el); m != nil {
			if d, err := decimal.NewFromString(strings.ReplaceAll(m[1], "_", "")); err == nil {
				return types.Decimal(d)
			}
		}
		if d, err := decimal.NewFromString(el); err == nil {
			return types.Decimal(d)
		}
		return types.String(el)
	}
}

// unescape reverses the escaping used in the printed string form.
func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// columnsFromSQL synthesizes column names from the statement's SELECT
// list. The stringified form carries no metadata, so this is best-effort:
// a mismatch with the observed arity falls back to positional names.
func columnsFromSQL(sql string, arity int) []string {
	columns := selectListColumns(sql)
	if len(columns) != arity {
		return positionalColumns(arity)
	}
	return columns
}

// selectListColumns names every item of the statement's SELECT list, or
// returns an empty slice when the statement has no usable list.
func selectListColumns(sql string) []string {
	items := selectList(sql)
	columns := make([]string, len(items))
	for i, item := range items {
		columns[i] = columnName(item, i)
	}
	return columns
}

// selectList returns the top-level comma-separated items between SELECT
// and the matching FROM, or nil when the statement has no usable list.
func selectList(sql string) []string {
	upper := strings.ToUpper(sql)
	sel := strings.Index(upper, "SELECT")
	if sel < 0 {
		return nil
	}
	rest := sql[sel+len("SELECT"):]
	restUpper := upper[sel+len("SELECT"):]

	// Cut at the first top-level FROM.
	depth := 0
	end := len(rest)
	for i := 0; i+4 <= len(restUpper); i++ {
		switch restUpper[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 && strings.HasPrefix(restUpper[i:], "FROM") &&
			(i == 0 || restUpper[i-1] == ' ' || restUpper[i-1] == '\n' || restUpper[i-1] == '\t') {
			end = i
			break
		}
	}

	list := strings.TrimSpace(rest[:end])
	list = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(list, "DISTINCT"), "distinct"))
	if list == "" || list == "*" {
		return nil
	}

	items, err := splitTopLevel(list)
	if err != nil {
		return nil
	}
	return items
}

// columnName derives a display name for one SELECT-list item: the alias
// after AS when present, else the trailing identifier, else positional.
func columnName(item string, idx int) string {
	upper := strings.ToUpper(item)
	if as := strings.LastIndex(upper, " AS "); as >= 0 {
		alias := strings.TrimSpace(item[as+4:])
		return strings.Trim(alias, "`\"")
	}

	// expr like t.col or plain col
	trimmed := strings.TrimSpace(item)
	if isIdentifierPath(trimmed) {
		if dot := strings.LastIndex(trimmed, "."); dot >= 0 {
			trimmed = trimmed[dot+1:]
		}
		return strings.Trim(trimmed, "`\"")
	}
	return fmt.Sprintf("column_%d", idx+1)
}

func isIdentifierPath(s string) bool {
	if s == "" {
		return false
	}
	first := rune(s[0])
	if !(first == '_' || first == '`' || first == '"' ||
		(first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')) {
		return false
	}
	for _, r := range s {
		if !(r == '.' || r == '_' || r == '`' || r == '"' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}

func positionalColumns(n int) []string {
	cols := make([]string, n)
	for i := range cols {
		cols[i] = fmt.Sprintf("column_%d", i+1)
	}
	return cols
}
