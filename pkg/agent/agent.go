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
// Package agent orchestrates the query-intent pipeline for one user turn:
// metadata intercept, intent classification, SQL generation through the
// provider chain, execution, coercion, and presentation. One turn is
// processed synchronously end to end; all shared state (provider chain,
// keyword tables) is read-only after construction, so a single Agent is
// safe for concurrent sessions.
package agent

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/datalore-labs/parley/pkg/backends"
	"github.com/datalore-labs/parley/pkg/classify"
	"github.com/datalore-labs/parley/pkg/coerce"
	"github.com/datalore-labs/parley/pkg/llm"
	"github.com/datalore-labs/parley/pkg/llm/factory"
	"github.com/datalore-labs/parley/pkg/metadata"
	"github.com/datalore-labs/parley/pkg/present"
	"github.com/datalore-labs/parley/pkg/prompts"
	"github.com/datalore-labs/parley/pkg/types"
	"go.uber.org/zap"
)

// DefaultHelpResponse is the canned answer for help-intent questions.
const DefaultHelpResponse = "I turn natural-language questions into SQL and run them against " +
	"your warehouse. Ask about your tables, customers, orders, or metrics. For example: " +
	"\"show me the 10 orders with the highest value\" or \"how many customers do we have\"."

// DefaultOffTopicResponse is the canned answer for off-topic questions.
const DefaultOffTopicResponse = "I can only answer questions about the data in your warehouse. " +
	"Try asking about your tables or the records in them."

// Config holds the collaborators and canned responses for an Agent.
type Config struct {
	// Providers is the prioritized provider chain. Required.
	Providers []llm.Provider

	// Executor runs SQL against the warehouse. Required.
	Executor backends.Executor

	// Classifier defaults to classify.New with default thresholds.
	Classifier *classify.Classifier

	// Interceptor defaults to a metadata interceptor over Executor.
	Interceptor *metadata.Interceptor

	// HelpResponse and OffTopicResponse override the canned answers.
	HelpResponse     string
	OffTopicResponse string

	Logger *zap.Logger
}

// Agent processes user turns.
type Agent struct {
	providers   []llm.Provider
	executor    backends.Executor
	classifier  *classify.Classifier
	interceptor *metadata.Interceptor
	helpText    string
	offTopic    string
	logger      *zap.Logger
	turns       atomic.Int64
}

// TurnResult is everything the UI layer needs to render one answer.
type TurnResult struct {
	Question       types.Question
	Classification types.Classification
	Intercepted    bool

	// Answer is the canned text for help/off-topic intents.
	Answer string

	// Provider and SQL carry generation provenance when SQL ran.
	Provider string
	SQL      string

	Presentation types.PresentationTable
	Trace        []TraceEntry
}

// New creates an Agent.
func New(cfg Config) (*Agent, error) {
	if cfg.Executor == nil {
		return nil, errors.New("agent: Executor is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Classifier == nil {
		cfg.Classifier = classify.New(classify.Config{})
	}
	if cfg.Interceptor == nil {
		cfg.Interceptor = metadata.New(cfg.Executor, cfg.Logger)
	}
	if cfg.HelpResponse == "" {
		cfg.HelpResponse = DefaultHelpResponse
	}
	if cfg.OffTopicResponse == "" {
		cfg.OffTopicResponse = DefaultOffTopicResponse
	}

	return &Agent{
		providers:   cfg.Providers,
		executor:    cfg.Executor,
		classifier:  cfg.Classifier,
		interceptor: cfg.Interceptor,
		helpText:    cfg.HelpResponse,
		offTopic:    cfg.OffTopicResponse,
		logger:      cfg.Logger,
	}, nil
}

// HandleTurn processes one question end to end. pinnedProvider forces a
// specific provider by name; empty means first-available. The returned
// TurnResult always carries the trace, including on error.
//
// Pipeline: metadata intercept first (matching questions never reach the
// classifier or a model), then classification, then either a canned
// response or generate-and-execute. Generation is attempted exactly
// once; there is no automatic cross-provider retry, since divergent SQL
// dialect assumptions between providers make blind retries unlikely to
// succeed and risk duplicate warehouse load.
func (a *Agent) HandleTurn(ctx context.Context, question, schemaDescription, pinnedProvider string) (*TurnResult, error) {
	q := types.Question{Text: question, Turn: a.turns.Add(1)}
	trace := NewTrace()
	trace.Add("question", question)

	res := &TurnResult{Question: q}
	defer func() {
		res.Trace = trace.Entries()
	}()

	// Table-listing questions bypass classification and the model.
	if tableList, ok, err := a.interceptor.TryHandle(ctx, question); ok {
		res.Intercepted = true
		res.SQL = a.interceptor.SQL()
		res.Classification = types.Classification{Question: q, Intent: types.IntentDatabaseQuery}
		trace.Add("metadata_intercept", res.SQL)

		if err != nil {
			trace.Addf("error", "metadata intercept failed: %v", err)
			return res, &GenerationError{Kind: GenerationExecutionFailed, SQL: res.SQL, Err: err}
		}
		res.Presentation = present.Format(tableList, question, res.SQL)
		trace.Addf("result", "%d tables", tableList.RowCount())
		return res, nil
	}

	res.Classification = a.classifier.Classify(q)
	trace.Addf("classification", "%s (db=%d help=%d offtopic=%d)",
		res.Classification.Intent,
		res.Classification.Scores[types.IntentDatabaseQuery],
		res.Classification.Scores[types.IntentHelpRequest],
		res.Classification.Scores[types.IntentOffTopic])

	switch res.Classification.Intent {
	case types.IntentHelpRequest:
		res.Answer = a.helpText
		return res, nil
	case types.IntentOffTopic:
		res.Answer = a.offTopic
		return res, nil
	}

	return a.generateAndExecute(ctx, res, trace, schemaDescription, pinnedProvider)
}

// generateAndExecute runs the single-attempt generation pipeline:
// provider selection, prompt, sanitization, execution, coercion,
// presentation.
func (a *Agent) generateAndExecute(ctx context.Context, res *TurnResult, trace *Trace, schemaDescription, pinnedProvider string) (*TurnResult, error) {
	provider, err := factory.Select(ctx, a.providers, pinnedProvider)
	if err != nil {
		trace.Addf("error", "provider selection: %v", err)
		return res, &GenerationError{Kind: GenerationProviderUnavailable, Provider: pinnedProvider, Err: err}
	}
	res.Provider = provider.Name()
	trace.Addf("provider", "%s (%s)", provider.Name(), provider.Model())

	prompt := prompts.Build(provider.Name(), schemaDescription, res.Question.Text)

	raw, err := provider.Generate(ctx, prompt)
	if err != nil {
		trace.Addf("error", "generation: %v", err)
		return res, &GenerationError{Kind: GenerationProviderUnavailable, Provider: provider.Name(), Err: err}
	}
	trace.Add("model_output", raw)

	sql, err := ExtractSQL(raw)
	if err != nil {
		trace.Addf("error", "sanitization: %v", err)
		return res, &GenerationError{Kind: GenerationUnparseable, Provider: provider.Name(), Raw: raw, Err: err}
	}
	res.SQL = sql
	trace.Add("sql", sql)

	a.logger.Info("executing generated sql",
		zap.String("request_id", trace.RequestID()),
		zap.String("provider", provider.Name()),
		zap.String("sql", sql))

	rawResult, err := a.executor.Execute(ctx, sql)
	if err != nil {
		trace.Addf("error", "execution: %v", err)
		return res, &GenerationError{Kind: GenerationExecutionFailed, Provider: provider.Name(), SQL: sql, Err: err}
	}

	result, err := coerce.Coerce(rawResult, sql)
	if err != nil {
		// Irregular payloads degrade to a raw-text rendering instead of
		// failing the request.
		trace.Addf("coercion_fallback", "%v", err)
		res.Presentation = present.FormatFallback(rawResult.Text)
		return res, nil
	}

	res.Presentation = present.Format(result, res.Question.Text, sql)
	trace.Addf("result", "%d records", result.RowCount())
	return res, nil
}
