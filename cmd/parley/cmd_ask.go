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
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/datalore-labs/parley/internal/log"
	"github.com/datalore-labs/parley/pkg/agent"
	"github.com/datalore-labs/parley/pkg/backends/warehouse"
	"github.com/datalore-labs/parley/pkg/classify"
	"github.com/datalore-labs/parley/pkg/llm/factory"
	"github.com/datalore-labs/parley/pkg/metadata"
	"github.com/datalore-labs/parley/pkg/types"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question...]",
	Short: "Ask a natural-language question against the warehouse",
	Long: heredoc.Doc(`
		Ask converts a natural-language question to SQL through the
		configured LLM provider chain, executes it read-only against the
		warehouse, and renders a formatted result table.

		Table-listing questions ("show tables", "what tables exist") are
		answered directly from the catalog without invoking a model.
	`),
	Example: heredoc.Doc(`
		# Auto-select the first available provider
		parley ask "what are the 10 orders with the highest value?"

		# Pin a provider
		parley ask --provider ollama "how many customers do we have?"

		# Show the pipeline trace
		parley ask --trace "show me all tables"
	`),
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var showTrace bool

func init() {
	askCmd.Flags().BoolVar(&showTrace, "trace", false, "print the pipeline trace after the answer")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	question := strings.Join(args, " ")

	logger, err := buildLogger(config.Logging)
	if err != nil {
		return err
	}
	log.SetLogger(logger)
	defer func() { _ = log.Sync() }()

	backend, err := warehouse.Open(warehouse.Config{
		Driver:       config.Warehouse.Driver,
		DSN:          config.Warehouse.DSN,
		MaxOpenConns: config.Warehouse.MaxOpenConns,
		Logger:       log.Logger(),
	})
	if err != nil {
		return err
	}
	defer backend.Close()

	if err := backend.Validate(ctx); err != nil {
		return fmt.Errorf("warehouse connection failed: %w", err)
	}

	providers, err := factory.New(factory.Config{
		Order:          config.LLM.Order,
		GeminiAPIKey:   config.LLM.GeminiAPIKey,
		GeminiModel:    config.LLM.GeminiModel,
		GroqAPIKey:     config.LLM.GroqAPIKey,
		GroqModel:      config.LLM.GroqModel,
		OllamaEndpoint: config.LLM.OllamaEndpoint,
		OllamaModel:    config.LLM.OllamaModel,
		MaxTokens:      config.LLM.MaxTokens,
		Temperature:    config.LLM.Temperature,
		Timeout:        config.LLM.Timeout,
	}).Chain()
	if err != nil {
		return err
	}

	// Table-listing questions never reach a model, so skip the catalog
	// round trip that builds the prompt schema.
	schemaDescription := ""
	if !metadata.Matches(question) {
		inspector := warehouse.NewInspector(backend)
		schemaDescription, err = inspector.SchemaDescription(ctx)
		if err != nil {
			return fmt.Errorf("schema inspection failed: %w", err)
		}
	}

	ag, err := agent.New(agent.Config{
		Providers:        providers,
		Executor:         backend,
		Classifier:       classify.New(classify.Config{LongQuestionWords: config.Classifier.LongQuestionWords}),
		HelpResponse:     config.Responses.Help,
		OffTopicResponse: config.Responses.OffTopic,
		Logger:           log.Logger(),
	})
	if err != nil {
		return err
	}

	pinned, _ := cmd.Flags().GetString("provider")
	res, turnErr := ag.HandleTurn(ctx, question, schemaDescription, pinned)

	if showTrace && res != nil {
		printTrace(res.Trace)
	}

	if turnErr != nil {
		printTurnError(turnErr)
		return fmt.Errorf("question could not be answered")
	}

	if res.Answer != "" {
		pterm.Info.Println(res.Answer)
		return nil
	}

	if res.Provider != "" {
		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Provider: ") + res.Provider)
	}
	if res.SQL != "" {
		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ SQL:      ") + res.SQL)
	}
	pterm.Println()

	renderTable(res.Presentation)
	return nil
}

// renderTable prints a presentation table with its summary line.
func renderTable(p types.PresentationTable) {
	data := make(pterm.TableData, 0, len(p.Rows)+1)
	data = append(data, p.Headers)
	for _, row := range p.Rows {
		data = append(data, row)
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()

	pterm.Println()
	pterm.Println(pterm.NewStyle(pterm.FgGray).Sprint(p.Summary))
}

// printTurnError explains a pipeline failure, including the attempted
// SQL when execution failed, so the user can see what was tried.
func printTurnError(err error) {
	var genErr *agent.GenerationError
	if !errors.As(err, &genErr) {
		pterm.Error.Println(err.Error())
		return
	}

	switch genErr.Kind {
	case agent.GenerationProviderUnavailable:
		pterm.Error.Println("No LLM provider could serve the request.")
		pterm.Println("Check that GOOGLE_API_KEY or GROQ_API_KEY is set, or that Ollama is running.")
	case agent.GenerationUnparseable:
		pterm.Error.Println("The model response did not contain usable SQL.")
		if genErr.Raw != "" {
			pterm.Println(pterm.NewStyle(pterm.FgGray).Sprint("Model output: ") + genErr.Raw)
		}
	case agent.GenerationExecutionFailed:
		pterm.Error.Println("The generated SQL failed to execute.")
		if genErr.SQL != "" {
			pterm.Println(pterm.NewStyle(pterm.FgGray).Sprint("Attempted SQL: ") + genErr.SQL)
		}
	default:
		pterm.Error.Println(genErr.Error())
	}
	if genErr.Err != nil {
		pterm.Println(pterm.NewStyle(pterm.FgGray).Sprint("Cause: ") + genErr.Err.Error())
	}
}

// printTrace dumps the pipeline trace entries.
func printTrace(entries []agent.TraceEntry) {
	pterm.Println(pterm.NewStyle(pterm.FgLightCyan, pterm.Bold).Sprint("Pipeline trace"))
	for _, e := range entries {
		pterm.Printf("  %2d  %-20s %s\n", e.Seq, e.Step, e.Detail)
	}
	pterm.Println()
}
