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
package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestForProvider maps hosted providers to the strict template and
// everything else to the generic one.
func TestForProvider(t *testing.T) {
	assert.Equal(t, strictTemplate, ForProvider("gemini"))
	assert.Equal(t, strictTemplate, ForProvider("groq"))
	assert.Equal(t, genericTemplate, ForProvider("ollama"))
	assert.Equal(t, genericTemplate, ForProvider("someday-provider"))
}

// TestBuild substitutes schema, question, and the row cap.
func TestBuild(t *testing.T) {
	schema := "Table CUSTOMERS:\n  - C_NAME (TEXT, nullable)"
	question := "how many customers do we have?"

	got := Build("gemini", schema, question)

	assert.Contains(t, got, schema)
	assert.Contains(t, got, "Question: "+question)
	assert.Contains(t, got, "LIMIT 10")
	assert.NotContains(t, got, "{{schema}}")
	assert.NotContains(t, got, "{{question}}")
	assert.NotContains(t, got, "{{limit}}")
}

// TestBuild_QuestionVerbatim keeps punctuation and casing untouched.
func TestBuild_QuestionVerbatim(t *testing.T) {
	question := `¿Cuántas órdenes "grandes" hay?`
	got := Build("ollama", "Table T:", question)
	assert.Contains(t, got, question)
}

// TestTemplates_SharedContract verifies every template carries the
// placeholders and the only-SQL instruction.
func TestTemplates_SharedContract(t *testing.T) {
	for name, tpl := range templatesByProvider {
		assert.Contains(t, tpl, "{{schema}}", "template %s", name)
		assert.Contains(t, tpl, "{{question}}", "template %s", name)
		assert.Contains(t, tpl, "{{limit}}", "template %s", name)
		assert.True(t, strings.Contains(tpl, "pure SQL") || strings.Contains(tpl, "PURE SQL"),
			"template %s must instruct SQL-only output", name)
	}
}
