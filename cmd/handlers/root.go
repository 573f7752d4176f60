/*
Copyright © 2025 Your Name

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pulse/internal/config"
	"pulse/internal/logger"
)

var cfgFile string

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pulse",
		Short: "Pulse scores sentiment in short social-media text.",
		Long: `Pulse analyzes the sentiment of short texts (tweets, reviews, comments)
with a lexicon-driven rule engine, a trainable naive Bayes classifier, and
a hybrid mode that blends the two. English, Spanish, French, and German
are supported, with per-language lexicons and automatic detection.

Typical usage:
  # Score a text directly
  pulse analyze "I love this product"

  # Train the classifier and score with the hybrid engine
  pulse train data/reviews.jsonl
  pulse analyze --method hybrid "the update broke everything"

  # Interactive scoring console
  pulse repl`,
	}

	// Initialize configuration
	cobra.OnInitialize(initConfig)

	// Add persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pulse.yaml)")

	// Add subcommands
	rootCmd.AddCommand(NewAnalyzeCmd())
	rootCmd.AddCommand(NewTrainCmd())
	rootCmd.AddCommand(NewEvaluateCmd())
	rootCmd.AddCommand(NewStatsCmd())
	rootCmd.AddCommand(NewReplCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Load configuration using the centralized config module
	_, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger.SetLevel(config.GetLogging().Level)
	if config.IsDebugMode() {
		logger.SetLevel("debug")
	}
}
