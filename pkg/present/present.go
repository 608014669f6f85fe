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
// Package present renders a typed QueryResult as a column-labeled table
// plus a human-readable summary line. The layout ("shape") is inferred
// from lexical cues in the question and the executed SQL: currency table,
// table list, single record count, or generic table. First match wins.
package present

import (
	"fmt"
	"strings"

	"github.com/datalore-labs/parley/pkg/types"
	"github.com/shopspring/decimal"
)

// currencyCues are the monetary aggregation terms that select the
// currency shape when a numeric column is present.
var currencyCues = []string{"value", "price", "revenue", "spent", "total"}

// countCues select the single-count shape for 1x1 results.
var countCues = []string{"how many", "count", "cuántas", "cuántos"}

// columnLabels renames ambiguous technical column names to human labels.
var columnLabels = map[string]string{
	"table_name":   "Table",
	"table_type":   "Type",
	"count(*)":     "Count",
	"count":        "Count",
	"cnt":          "Count",
	"total_price":  "Total Price",
	"o_totalprice": "Total Price",
}

// Format renders the result according to the inferred shape. Shaping
// never fails the request: any panic during shaping degrades to the
// generic table.
func Format(result types.QueryResult, question, sql string) (table types.PresentationTable) {
	defer func() {
		if r := recover(); r != nil {
			table = genericShape(result)
		}
	}()

	questionLower := strings.ToLower(question)
	sqlLower := strings.ToLower(sql)

	switch {
	case wantsCurrency(questionLower, sqlLower) && numericColumn(result) >= 0:
		table = currencyShape(result)
	case isTableList(result):
		table = tableListShape(result)
	case wantsCount(questionLower) && result.RowCount() == 1 && len(result.Columns) == 1:
		table = countShape(result, questionLower)
	default:
		table = genericShape(result)
	}
	return table
}

// FormatFallback renders the raw unparsed text when coercion failed,
// rather than surfacing a hard error to the caller.
func FormatFallback(raw string) types.PresentationTable {
	return types.PresentationTable{
		Headers: []string{"Result"},
		Rows:    [][]string{{raw}},
		Summary: "1 records found (formatting fallback)",
	}
}

func summary(n int) string {
	return fmt.Sprintf("%d records found", n)
}

func wantsCurrency(questionLower, sqlLower string) bool {
	for _, cue := range currencyCues {
		if strings.Contains(questionLower, cue) || strings.Contains(sqlLower, cue) {
			return true
		}
	}
	return false
}

func wantsCount(questionLower string) bool {
	for _, cue := range countCues {
		if strings.Contains(questionLower, cue) {
			return true
		}
	}
	return false
}

// numericColumn returns the index of the first column whose cells are
// numeric, or -1. NULL cells don't disqualify a column.
func numericColumn(result types.QueryResult) int {
	for col := range result.Columns {
		seen := false
		numeric := true
		for _, row := range result.Rows {
			switch row[col].Kind {
			case types.KindInt, types.KindDecimal:
				seen = true
			case types.KindNull:
			default:
				numeric = false
			}
			if !numeric {
				break
			}
		}
		if seen && numeric {
			return col
		}
	}
	return -1
}

// isTableList recognizes the metadata intercept's two-column shape.
func isTableList(result types.QueryResult) bool {
	return len(result.Columns) == 2 &&
		strings.EqualFold(result.Columns[0], "TABLE_NAME") &&
		strings.EqualFold(result.Columns[1], "TABLE_TYPE")
}

// currencyShape renders numeric columns with a currency prefix and
// grouped thousands separators, and humanizes the headers.
func currencyShape(result types.QueryResult) types.PresentationTable {
	moneyCol := numericColumn(result)

	headers := make([]string, len(result.Columns))
	for i, col := range result.Columns {
		headers[i] = humanizeColumn(col)
	}

	rows := make([][]string, 0, result.RowCount())
	for _, row := range result.Rows {
		display := make([]string, len(row))
		for i, cell := range row {
			if i == moneyCol {
				if d, ok := cell.Numeric(); ok {
					display[i] = currency(d)
					continue
				}
			}
			display[i] = cell.Display()
		}
		rows = append(rows, display)
	}

	return types.PresentationTable{
		Headers: headers,
		Rows:    rows,
		Summary: summary(len(rows)),
	}
}

// tableListShape renders the catalog listing with a 1-based row index.
func tableListShape(result types.QueryResult) types.PresentationTable {
	rows := make([][]string, 0, result.RowCount())
	for i, row := range result.Rows {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			row[0].Display(),
			row[1].Display(),
		})
	}
	return types.PresentationTable{
		Headers: []string{"#", "Table", "Type"},
		Rows:    rows,
		Summary: summary(len(rows)),
	}
}

// countShape renders a single aggregate as a one-line description
// instead of a bare cell.
func countShape(result types.QueryResult, questionLower string) types.PresentationTable {
	cell := result.Rows[0][0]
	display := cell.Display()
	if d, ok := cell.Numeric(); ok {
		display = grouped(d)
	}

	return types.PresentationTable{
		Headers: []string{"Description", "Count"},
		Rows:    [][]string{{countDescription(questionLower), display}},
		Summary: summary(1),
	}
}

// countDescription picks the counted entity from the question wording.
func countDescription(questionLower string) string {
	switch {
	case strings.Contains(questionLower, "table"):
		return "Total tables"
	case strings.Contains(questionLower, "customer"):
		return "Total customers"
	case strings.Contains(questionLower, "order"):
		return "Total orders"
	case strings.Contains(questionLower, "sale"):
		return "Total sales"
	default:
		return "Total records"
	}
}

// genericShape title-cases every header and right-aligns numeric columns
// within each column's natural width.
func genericShape(result types.QueryResult) types.PresentationTable {
	headers := make([]string, len(result.Columns))
	numeric := make([]bool, len(result.Columns))
	widths := make([]int, len(result.Columns))

	for i, col := range result.Columns {
		headers[i] = titleCase(col)
		numeric[i] = true
	}

	display := make([][]string, 0, result.RowCount())
	for _, row := range result.Rows {
		out := make([]string, len(row))
		for i, cell := range row {
			out[i] = cell.Display()
			if len(out[i]) > widths[i] {
				widths[i] = len(out[i])
			}
			if !cell.IsNumeric() && cell.Kind != types.KindNull {
				numeric[i] = false
			}
		}
		display = append(display, out)
	}

	for _, row := range display {
		for i := range row {
			if numeric[i] && len(row[i]) < widths[i] {
				row[i] = strings.Repeat(" ", widths[i]-len(row[i])) + row[i]
			}
		}
	}

	return types.PresentationTable{
		Headers: headers,
		Rows:    display,
		Summary: summary(len(display)),
	}
}

// humanizeColumn maps a technical column name to a display label.
func humanizeColumn(col string) string {
	lowered := strings.ToLower(col)
	if label, ok := columnLabels[lowered]; ok {
		return label
	}
	if strings.HasSuffix(lowered, "_id") {
		return "ID"
	}
	return titleCase(col)
}

// titleCase turns snake_case or UPPER_SNAKE into Title Case words.
func titleCase(col string) string {
	words := strings.FieldsFunc(col, func(r rune) bool {
		return r == '_' || r == ' '
	})
	for i, w := range words {
		lower := strings.ToLower(w)
		words[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(words, " ")
}

// currency formats a decimal as a fixed two-decimal dollar amount with
// grouped thousands separators.
func currency(d decimal.Decimal) string {
	return "$" + groupDigits(d.StringFixed(2))
}

// grouped renders the decimal with thousands separators, without forcing
// decimal places (used for counts).
func grouped(d decimal.Decimal) string {
	return groupDigits(d.String())
}

// groupDigits inserts thousands separators into the integer part of a
// plain numeric string such as "1234567.89".
func groupDigits(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, fracPart = s[:dot], s[dot:]
	}

	var b strings.Builder
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}

	out := b.String() + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
