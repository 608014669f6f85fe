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
// Package factory builds LLM providers from configuration and selects
// among them. Provider preference is a prioritized list: the first
// available provider wins unless the caller pins one by name, in which
// case selection fails fast when the pinned provider cannot serve.
// Adding, removing, or reordering providers is a configuration change,
// not a code change.
package factory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/datalore-labs/parley/pkg/llm"
	"github.com/datalore-labs/parley/pkg/llm/gemini"
	"github.com/datalore-labs/parley/pkg/llm/groq"
	"github.com/datalore-labs/parley/pkg/llm/ollama"
)

// DefaultOrder is the auto-detection preference when no explicit order is
// configured: Gemini first, then the local Ollama instance, then Groq.
var DefaultOrder = []string{"gemini", "ollama", "groq"}

// ErrNoneAvailable is returned when no provider in the chain can serve.
var ErrNoneAvailable = errors.New("no LLM provider available")

// ErrUnavailable is returned when a pinned provider cannot serve.
var ErrUnavailable = errors.New("pinned LLM provider unavailable")

// Config holds configuration for constructing the provider chain.
type Config struct {
	// Order is the provider priority list (names: gemini, groq, ollama).
	// Empty means DefaultOrder.
	Order []string

	// Gemini configuration
	GeminiAPIKey string
	GeminiModel  string

	// Groq configuration
	GroqAPIKey string
	GroqModel  string

	// Ollama configuration
	OllamaEndpoint string
	OllamaModel    string

	// Common settings
	MaxTokens   int
	Temperature float64
	Timeout     int // seconds
}

// Factory creates and orders LLM providers based on configuration.
type Factory struct {
	config Config
}

// New creates a provider factory.
func New(config Config) *Factory {
	if len(config.Order) == 0 {
		config.Order = DefaultOrder
	}
	return &Factory{config: config}
}

// Provider constructs the named provider.
func (f *Factory) Provider(name string) (llm.Provider, error) {
	switch name {
	case "gemini":
		return f.createGemini(), nil
	case "groq":
		return f.createGroq(), nil
	case "ollama":
		return f.createOllama(), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}

// Chain constructs every provider in the configured priority order.
// Construction never probes availability; that happens at selection time.
func (f *Factory) Chain() ([]llm.Provider, error) {
	providers := make([]llm.Provider, 0, len(f.config.Order))
	for _, name := range f.config.Order {
		p, err := f.Provider(name)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, nil
}

func (f *Factory) createGemini() llm.Provider {
	apiKey := f.config.GeminiAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	return gemini.NewClient(gemini.Config{
		APIKey:      apiKey,
		Model:       f.config.GeminiModel,
		MaxTokens:   f.config.MaxTokens,
		Temperature: f.config.Temperature,
		Timeout:     time.Duration(f.config.Timeout) * time.Second,
	})
}

func (f *Factory) createGroq() llm.Provider {
	apiKey := f.config.GroqAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GROQ_API_KEY")
	}
	return groq.NewClient(groq.Config{
		APIKey:      apiKey,
		Model:       f.config.GroqModel,
		MaxTokens:   f.config.MaxTokens,
		Temperature: f.config.Temperature,
		Timeout:     time.Duration(f.config.Timeout) * time.Second,
	})
}

func (f *Factory) createOllama() llm.Provider {
	endpoint := f.config.OllamaEndpoint
	if endpoint == "" {
		endpoint = os.Getenv("OLLAMA_BASE_URL")
	}
	model := f.config.OllamaModel
	if model == "" {
		model = os.Getenv("OLLAMA_MODEL")
	}
	return ollama.NewClient(ollama.Config{
		Endpoint:    endpoint,
		Model:       model,
		MaxTokens:   f.config.MaxTokens,
		Temperature: f.config.Temperature,
		Timeout:     time.Duration(f.config.Timeout) * time.Second,
	})
}

// Select picks a provider from the ordered chain. With pinned set it
// returns that provider or ErrUnavailable; otherwise it returns the
// first available provider or ErrNoneAvailable.
func Select(ctx context.Context, providers []llm.Provider, pinned string) (llm.Provider, error) {
	if pinned != "" {
		for _, p := range providers {
			if p.Name() != pinned {
				continue
			}
			if !p.Available(ctx) {
				return nil, fmt.Errorf("%w: %s", ErrUnavailable, pinned)
			}
			return p, nil
		}
		return nil, fmt.Errorf("%w: %s not in configured chain", ErrUnavailable, pinned)
	}

	for _, p := range providers {
		if p.Available(ctx) {
			return p, nil
		}
	}
	return nil, ErrNoneAvailable
}
