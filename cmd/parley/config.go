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
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// DefaultConfigFileName is the name of the config file
const DefaultConfigFileName = "parley"

// Config holds all configuration for the Parley CLI.
// Priority: CLI flags > config file > env vars > defaults
type Config struct {
	// LLM provider configuration
	LLM LLMConfig `mapstructure:"llm"`

	// Warehouse connection configuration
	Warehouse WarehouseConfig `mapstructure:"warehouse"`

	// Classifier heuristics
	Classifier ClassifierConfig `mapstructure:"classifier"`

	// Canned responses for non-database intents
	Responses ResponsesConfig `mapstructure:"responses"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// LLMConfig holds provider chain configuration.
type LLMConfig struct {
	// Order is the provider priority list. Empty means the default
	// auto-detection order (gemini, ollama, groq).
	Order []string `mapstructure:"order"`

	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	GeminiModel  string `mapstructure:"gemini_model"`

	GroqAPIKey string `mapstructure:"groq_api_key"`
	GroqModel  string `mapstructure:"groq_model"`

	OllamaEndpoint string `mapstructure:"ollama_endpoint"`
	OllamaModel    string `mapstructure:"ollama_model"`

	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
	Timeout     int     `mapstructure:"timeout"` // seconds
}

// WarehouseConfig holds warehouse connection configuration.
type WarehouseConfig struct {
	// Driver: snowflake, postgres, mysql, or sqlite
	Driver string `mapstructure:"driver"`

	// DSN is the driver-specific connection string
	DSN string `mapstructure:"dsn"`

	MaxOpenConns int `mapstructure:"max_open_conns"`
}

// ClassifierConfig tunes intent classification.
type ClassifierConfig struct {
	// LongQuestionWords is the word threshold above which an unmatched
	// question defaults to a database query (default 6)
	LongQuestionWords int `mapstructure:"long_question_words"`
}

// ResponsesConfig overrides the canned help/off-topic answers.
type ResponsesConfig struct {
	Help     string `mapstructure:"help"`
	OffTopic string `mapstructure:"off_topic"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level: debug, info, warn, error. Defaults to warn: the CLI output
	// is the product, logs are diagnostics.
	Level string `mapstructure:"level"`
}

// initConfig reads the config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".parley"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(DefaultConfigFileName)
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("PARLEY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Flag bindings
	_ = viper.BindPFlag("warehouse.driver", rootCmd.PersistentFlags().Lookup("driver"))
	_ = viper.BindPFlag("warehouse.dsn", rootCmd.PersistentFlags().Lookup("dsn"))

	// Defaults
	viper.SetDefault("warehouse.driver", "snowflake")
	viper.SetDefault("logging.level", "warn")

	if err := viper.ReadInConfig(); err != nil {
		// Missing config file is fine; env vars and flags may suffice.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "failed to read config: %v\n", err)
			os.Exit(1)
		}
	}

	config = &Config{}
	if err := viper.Unmarshal(config); err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse config: %v\n", err)
		os.Exit(1)
	}
}

// buildLogger constructs the zap logger for the configured level.
func buildLogger(cfg LoggingConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = level
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}
