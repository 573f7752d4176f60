package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pulse/internal/config"
	"pulse/internal/core"
	"pulse/internal/dataset"
	"pulse/internal/logger"
)

// NewTrainCmd creates the train command for fitting the classifier
func NewTrainCmd() *cobra.Command {
	var noSave bool

	cmd := &cobra.Command{
		Use:   "train <dataset>",
		Short: "Train the statistical classifier from a labeled dataset",
		Long: `Train fits the naive Bayes classifier on a labeled dataset and saves the
resulting model snapshot, so later analyze/repl/stats invocations start from
the trained state.

The dataset is JSONL ({"text": "...", "label": "positive"} per line) or CSV
(text,label columns). Labels must be positive, negative, or neutral; examples
with unknown labels or no usable tokens are skipped with a warning.

Examples:
  # Train from a JSONL dataset
  pulse train data/reviews.jsonl

  # Train from CSV without persisting the snapshot
  pulse train data/tweets.csv --no-save`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runTrain(args[0], noSave); err != nil {
				logger.Error("Training failed", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().BoolVar(&noSave, "no-save", false, "Skip saving the model snapshot to the store")

	return cmd
}

func runTrain(path string, noSave bool) error {
	examples, err := dataset.ReadExamples(path)
	if err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}
	fmt.Printf("📚 Read %d examples from %s\n", len(examples), path)

	// Training replaces the model wholesale, so no snapshot restore here.
	engine := buildEngine(config.EngineOptions(), false)
	used, err := engine.Train(examples)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	info := engine.ModelInfo()
	fmt.Printf("✅ Trained on %d examples (skipped %d)\n", used, len(examples)-used)
	fmt.Printf("   Vocabulary: %d tokens\n", info.VocabularySize)
	for _, label := range core.TrainingLabels {
		fmt.Printf("   %s: %d documents\n", label, info.ClassCounts[label])
	}

	if noSave {
		return nil
	}

	snap, err := engine.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to snapshot model: %w", err)
	}

	st, err := openStore()
	if err != nil {
		return fmt.Errorf("failed to open analysis store: %w", err)
	}
	defer func() { _ = st.Close() }()

	if err := st.SaveSnapshot(snap); err != nil {
		return fmt.Errorf("failed to save model snapshot: %w", err)
	}
	fmt.Printf("💾 Model snapshot saved: %s\n", snap.ID)
	return nil
}
