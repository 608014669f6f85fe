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
package factory

import (
	"context"
	"testing"

	"github.com/datalore-labs/parley/pkg/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name      string
	available bool
}

func (s *stubProvider) Generate(ctx context.Context, prompt string) (string, error) {
	return "", nil
}
func (s *stubProvider) Name() string                       { return s.name }
func (s *stubProvider) Model() string                      { return s.name + "-model" }
func (s *stubProvider) Available(ctx context.Context) bool { return s.available }

// TestChain_DefaultOrder builds the full chain in preference order.
func TestChain_DefaultOrder(t *testing.T) {
	f := New(Config{})

	providers, err := f.Chain()
	require.NoError(t, err)
	require.Len(t, providers, 3)

	assert.Equal(t, "gemini", providers[0].Name())
	assert.Equal(t, "ollama", providers[1].Name())
	assert.Equal(t, "groq", providers[2].Name())
}

// TestChain_CustomOrder honors an explicit priority list.
func TestChain_CustomOrder(t *testing.T) {
	f := New(Config{Order: []string{"groq", "gemini"}})

	providers, err := f.Chain()
	require.NoError(t, err)
	require.Len(t, providers, 2)
	assert.Equal(t, "groq", providers[0].Name())
	assert.Equal(t, "gemini", providers[1].Name())
}

// TestChain_UnknownProvider rejects unrecognized names.
func TestChain_UnknownProvider(t *testing.T) {
	f := New(Config{Order: []string{"gemini", "openai"}})

	_, err := f.Chain()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported provider")
}

// TestSelect_FirstAvailableWins walks the chain in order.
func TestSelect_FirstAvailableWins(t *testing.T) {
	chain := []llm.Provider{
		&stubProvider{name: "gemini", available: false},
		&stubProvider{name: "ollama", available: true},
		&stubProvider{name: "groq", available: true},
	}

	p, err := Select(context.Background(), chain, "")
	require.NoError(t, err)
	assert.Equal(t, "ollama", p.Name())
}

// TestSelect_NoneAvailable returns the sentinel when nothing can serve.
func TestSelect_NoneAvailable(t *testing.T) {
	chain := []llm.Provider{
		&stubProvider{name: "gemini"},
		&stubProvider{name: "groq"},
	}

	_, err := Select(context.Background(), chain, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoneAvailable)
}

// TestSelect_Pinned bypasses earlier available providers.
func TestSelect_Pinned(t *testing.T) {
	chain := []llm.Provider{
		&stubProvider{name: "gemini", available: true},
		&stubProvider{name: "groq", available: true},
	}

	p, err := Select(context.Background(), chain, "groq")
	require.NoError(t, err)
	assert.Equal(t, "groq", p.Name())
}

// TestSelect_PinnedUnavailable fails fast instead of falling back.
func TestSelect_PinnedUnavailable(t *testing.T) {
	chain := []llm.Provider{
		&stubProvider{name: "gemini", available: true},
		&stubProvider{name: "groq", available: false},
	}

	_, err := Select(context.Background(), chain, "groq")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

// TestSelect_PinnedUnknown rejects names outside the chain.
func TestSelect_PinnedUnknown(t *testing.T) {
	chain := []llm.Provider{&stubProvider{name: "gemini", available: true}}

	_, err := Select(context.Background(), chain, "mistral")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}
