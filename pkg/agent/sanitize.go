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
	"errors"
	"strings"
)

// ErrNoSQL is returned when the model output contains no recognizable
// SQL statement after sanitization.
var ErrNoSQL = errors.New("no SQL statement found in model output")

// sqlKeywords are the statement openers we accept.
var sqlKeywords = []string{"SELECT", "WITH", "SHOW"}

// ExtractSQL sanitizes raw model output into an executable SQL string.
// The same pipeline applies to every provider, since even strict
// providers occasionally violate the only-SQL instruction:
//  1. trim surrounding whitespace
//  2. unwrap a markdown code fence (with optional language tag)
//  3. drop boilerplate preceding the first SQL keyword
//     ("Here is the SQL query:" and friends)
//  4. collapse stray identifier backticks
//  5. reject output that still doesn't start with a SQL keyword
func ExtractSQL(raw string) (string, error) {
	text := strings.TrimSpace(raw)

	text = stripFence(text)
	text = stripPreamble(text)
	text = strings.ReplaceAll(text, "`", "")
	text = strings.TrimSpace(text)

	if !startsWithKeyword(text) {
		return "", ErrNoSQL
	}
	return text, nil
}

// stripFence unwraps the first ``` block, dropping the delimiters and
// any language tag. Text without fences passes through unchanged.
func stripFence(text string) string {
	open := strings.Index(text, "```")
	if open < 0 {
		return text
	}

	inner := text[open+3:]
	if close := strings.Index(inner, "```"); close >= 0 {
		inner = inner[:close]
	}

	// The language tag occupies the remainder of the opening line.
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 {
		firstLine := strings.TrimSpace(inner[:nl])
		if firstLine == "" || isLanguageTag(firstLine) {
			inner = inner[nl+1:]
		}
	}
	return strings.TrimSpace(inner)
}

func isLanguageTag(s string) bool {
	switch strings.ToLower(s) {
	case "sql", "mysql", "postgresql", "snowflake":
		return true
	}
	return false
}

// stripPreamble removes restatement lines such as "Here is the SQL
// query:" by cutting everything before the first SQL keyword at a word
// boundary.
func stripPreamble(text string) string {
	upper := strings.ToUpper(text)
	best := -1
	for _, kw := range sqlKeywords {
		idx := keywordIndex(upper, kw)
		if idx >= 0 && (best < 0 || idx < best) {
			best = idx
		}
	}
	if best > 0 {
		return text[best:]
	}
	return text
}

// keywordIndex finds the first boundary-delimited occurrence of kw in
// the uppercased text.
func keywordIndex(upper, kw string) int {
	from := 0
	for {
		idx := strings.Index(upper[from:], kw)
		if idx < 0 {
			return -1
		}
		idx += from

		beforeOK := idx == 0 || isBoundary(upper[idx-1])
		afterOK := idx+len(kw) >= len(upper) || isBoundary(upper[idx+len(kw)])
		if beforeOK && afterOK {
			return idx
		}
		from = idx + len(kw)
	}
}

func isBoundary(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', ':', '(', ')', '`', '"', '\'', ';':
		return true
	}
	return false
}

func startsWithKeyword(text string) bool {
	upper := strings.ToUpper(text)
	for _, kw := range sqlKeywords {
		if strings.HasPrefix(upper, kw) {
			rest := upper[len(kw):]
			if rest == "" || isBoundary(rest[0]) {
				return true
			}
		}
	}
	return false
}
