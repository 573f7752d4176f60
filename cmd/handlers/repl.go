package handlers

import (
	"os"

	"github.com/spf13/cobra"

	"pulse/internal/config"
	"pulse/internal/logger"
	"pulse/internal/tui"
)

// NewReplCmd creates the repl command for interactive scoring
func NewReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Launch the interactive scoring console",
		Long: `Launch a terminal console that scores each line of text as you type it,
showing the label, score, and emotion breakdown. Uses the saved model when
one exists. Quit with esc or ctrl+c.`,
		Run: func(cmd *cobra.Command, args []string) {
			engine := buildEngine(config.EngineOptions(), true)
			if err := tui.Start(engine); err != nil {
				logger.Error("Interactive console failed", err)
				os.Exit(1)
			}
		},
	}
}
