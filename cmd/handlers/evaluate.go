package handlers

import (
	"fmt"

	"github.com/spf13/cobra"

	"pulse/internal/config"
	"pulse/internal/dataset"
	"pulse/internal/evaluate"
	"pulse/internal/logger"
)

// NewEvaluateCmd creates the evaluate command for measuring classifier accuracy
func NewEvaluateCmd() *cobra.Command {
	var (
		split float64
		seed  int64
	)

	cmd := &cobra.Command{
		Use:   "evaluate <dataset>",
		Short: "Measure classifier accuracy on a held-out split",
		Long: `Evaluate shuffles a labeled dataset with a fixed seed, trains a fresh
classifier on one part, and scores the held-out remainder. It prints
accuracy, per-class precision/recall/F1, macro-F1, and a confusion matrix.

The same seed always produces the same split, so runs are comparable across
lexicon or dataset changes.

Examples:
  # Default 80/20 split
  pulse evaluate data/reviews.jsonl

  # Harsher split with a different shuffle
  pulse evaluate data/reviews.jsonl --split 0.5 --seed 7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(args[0], split, seed)
		},
	}

	cmd.Flags().Float64Var(&split, "split", 0.8, "Fraction of examples used for training (0-1)")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Shuffle seed for the train/test split")

	return cmd
}

func runEvaluate(path string, split float64, seed int64) error {
	examples, err := dataset.ReadExamples(path)
	if err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}

	train, test := evaluate.TrainTestSplit(examples, split, seed)
	if len(train) == 0 || len(test) == 0 {
		return fmt.Errorf("split %.2f leaves an empty partition (%d train, %d test)", split, len(train), len(test))
	}

	// A fresh engine keeps stored snapshots out of the measurement.
	engine := buildEngine(config.EngineOptions(), false)
	used, err := engine.Train(train)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	logger.Info("Trained evaluation model", "train_examples", used, "test_examples", len(test), "seed", seed)

	report, err := evaluate.Evaluate(engine.Predict, test)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	fmt.Print(report.Format())
	return nil
}
