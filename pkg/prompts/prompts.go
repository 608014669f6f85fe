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
// Package prompts holds the per-provider SQL generation templates.
//
// Different model families emit SQL with different surrounding artifacts:
// some wrap output in code fences, some restate the question. Hosted
// models get the strict template with explicit formatting prohibitions;
// local models get a simpler one they follow more reliably. Every
// template shares the same contract: it receives the schema description
// and the verbatim question, instructs the model to emit only SQL, and
// defaults unbounded SELECT statements to a fixed row cap.
package prompts

import (
	"strconv"
	"strings"

	"github.com/MakeNowJust/heredoc"
)

// DefaultRowLimit is the row cap instructed for unbounded SELECT
// statements when the question does not specify one. It bounds result
// size and protects the warehouse from runaway scans.
const DefaultRowLimit = 10

// strictTemplate is used for hosted providers (Gemini, Groq). These
// models tend to wrap output in markdown unless told not to, repeatedly.
var strictTemplate = heredoc.Doc(`
	You are a SQL expert for a relational data warehouse. Generate ONLY a pure SQL query.

	DATABASE INFORMATION:
	{{schema}}

	Question: {{question}}

	MANDATORY RULES:
	1. NEVER use code fences or backticks in your response
	2. NEVER use markdown formatting of any kind
	3. RESPOND ONLY WITH PURE SQL - NOTHING ELSE
	4. Do not add explanations, comments, or additional text
	5. For count queries: use COUNT(*) without LIMIT
	6. For other queries: add LIMIT {{limit}} unless the question asks for a specific number of rows
	7. For rankings: use RANK() OVER (ORDER BY ...)
	8. For database/schema info: use CURRENT_DATABASE() and CURRENT_SCHEMA() functions
	9. Use exact table and column names from the database information above

	NEVER DO THIS:
	- A fenced code block around the SQL
	- A sentence such as "Here is the SQL query:" before the SQL
	- Hardcoded literal answers instead of querying

	PURE SQL ONLY:`)

// genericTemplate is used for local models, which respond better to a
// shorter instruction set.
var genericTemplate = heredoc.Doc(`
	You are a SQL expert. Generate a clean, executable SQL query.

	DATABASE INFORMATION:
	{{schema}}

	Question: {{question}}

	Rules:
	1. Return pure SQL only, no markdown and no explanations
	2. Use LIMIT {{limit}} for SELECT queries unless the question specifies a row count
	3. Use proper JOIN syntax
	4. Handle metadata questions with system functions

	SQL:`)

// templatesByProvider maps provider name to template. Unknown providers
// fall back to the generic template.
var templatesByProvider = map[string]string{
	"gemini": strictTemplate,
	"groq":   strictTemplate,
	"ollama": genericTemplate,
}

// ForProvider returns the raw template for the named provider.
func ForProvider(provider string) string {
	if tpl, ok := templatesByProvider[provider]; ok {
		return tpl
	}
	return genericTemplate
}

// Build renders the provider's template with the schema description and
// the verbatim question.
func Build(provider, schemaDescription, question string) string {
	tpl := ForProvider(provider)
	r := strings.NewReplacer(
		"{{schema}}", schemaDescription,
		"{{question}}", question,
		"{{limit}}", strconv.Itoa(DefaultRowLimit),
	)
	return r.Replace(tpl)
}
