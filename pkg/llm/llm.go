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
// Package llm defines the text-generation provider contract. Concrete
// clients live in subpackages (gemini, groq, ollama); pkg/llm/factory
// builds and orders them from configuration.
package llm

import "context"

// Provider is a single interchangeable text-generation backend capable of
// turning a prompt into SQL text. Implementations are stateless
// request/response clients; no streaming is required.
type Provider interface {
	// Generate sends the prompt and returns the raw model output.
	Generate(ctx context.Context, prompt string) (string, error)

	// Name returns the provider name (e.g. "gemini", "groq", "ollama").
	Name() string

	// Model returns the model identifier.
	Model() string

	// Available reports whether the provider can serve requests right
	// now: credentials present for hosted providers, local service
	// reachable for Ollama. It must not issue a generation request.
	Available(ctx context.Context) bool
}
