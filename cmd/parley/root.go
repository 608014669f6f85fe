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
	"os"

	"github.com/datalore-labs/parley/internal/version"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	config  *Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:     "parley",
	Short:   "Parley - natural-language questions over your data warehouse",
	Long:    `Parley converts natural-language questions to SQL through an LLM provider chain (Gemini, Groq, or a local Ollama), executes them against your warehouse, and renders typed, formatted results.`,
	Version: version.Get(),
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.parley/parley.yaml)")

	// LLM flags
	rootCmd.PersistentFlags().String("provider", "", "pin a specific LLM provider (gemini, groq, ollama)")

	// Warehouse flags
	rootCmd.PersistentFlags().String("driver", "", "warehouse driver (snowflake, postgres, mysql, sqlite)")
	rootCmd.PersistentFlags().String("dsn", "", "warehouse connection string")
}
