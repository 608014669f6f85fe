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
	"fmt"

	"github.com/datalore-labs/parley/internal/log"
	"github.com/datalore-labs/parley/pkg/backends/warehouse"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the active schema as seen by the SQL generator",
	Long: `Schema prints the table and column listing that is injected into
generation prompts, read from the warehouse catalog. Useful for checking
what the model knows about your data before asking questions.`,
	Args: cobra.NoArgs,
	RunE: runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

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

	description, err := warehouse.NewInspector(backend).SchemaDescription(ctx)
	if err != nil {
		return err
	}

	pterm.Println(description)
	return nil
}
