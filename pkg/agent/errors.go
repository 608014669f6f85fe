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

import "fmt"

// GenerationErrorKind classifies SQL generation failures.
type GenerationErrorKind string

const (
	// GenerationUnparseable: the model output contained no recognizable
	// SQL statement after sanitization.
	GenerationUnparseable GenerationErrorKind = "unparseable"
	// GenerationExecutionFailed: the warehouse rejected the generated
	// SQL (syntax error, permissions, timeout).
	GenerationExecutionFailed GenerationErrorKind = "execution_failed"
	// GenerationProviderUnavailable: no provider could serve the
	// request, or the selected provider failed to respond.
	GenerationProviderUnavailable GenerationErrorKind = "provider_unavailable"
)

// GenerationError is a hard failure of the generation stage, surfaced to
// the user with the attempted SQL and provider name for transparency.
// The request terminates; no retry is attempted.
type GenerationError struct {
	Kind     GenerationErrorKind
	Provider string
	SQL      string
	Raw      string // un-sanitized model output, for diagnostics
	Err      error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	msg := fmt.Sprintf("sql generation failed (%s)", e.Kind)
	if e.Provider != "" {
		msg += fmt.Sprintf(" [provider=%s]", e.Provider)
	}
	if e.SQL != "" {
		msg += fmt.Sprintf(" [sql=%s]", e.SQL)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *GenerationError) Unwrap() error {
	return e.Err
}
