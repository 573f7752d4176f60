package evaluate

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"pulse/internal/core"
)

func splitCorpus(n int) []core.TrainingExample {
	examples := make([]core.TrainingExample, n)
	labels := core.TrainingLabels
	for i := range examples {
		examples[i] = core.TrainingExample{
			Text:  fmt.Sprintf("example number %d", i),
			Label: labels[i%len(labels)],
		}
	}
	return examples
}

func TestTrainTestSplitDeterministic(t *testing.T) {
	examples := splitCorpus(40)

	trainA, testA := TrainTestSplit(examples, 0.8, 42)
	trainB, testB := TrainTestSplit(examples, 0.8, 42)

	if len(trainA) != 32 || len(testA) != 8 {
		t.Fatalf("Expected a 32/8 split, got %d/%d", len(trainA), len(testA))
	}
	for i := range trainA {
		if trainA[i] != trainB[i] {
			t.Fatalf("Expected identical training sets for the same seed at %d", i)
		}
	}
	for i := range testA {
		if testA[i] != testB[i] {
			t.Fatalf("Expected identical test sets for the same seed at %d", i)
		}
	}
}

func TestTrainTestSplitLeavesInputAlone(t *testing.T) {
	examples := splitCorpus(20)
	first := examples[0]
	last := examples[len(examples)-1]

	TrainTestSplit(examples, 0.5, 7)

	if examples[0] != first || examples[len(examples)-1] != last {
		t.Error("Expected the input slice to stay unshuffled")
	}
}

func TestTrainTestSplitClampsRatio(t *testing.T) {
	examples := splitCorpus(10)

	train, test := TrainTestSplit(examples, 1.5, 1)
	if len(train) != 10 || len(test) != 0 {
		t.Errorf("Expected everything in training at ratio > 1, got %d/%d", len(train), len(test))
	}

	train, test = TrainTestSplit(examples, -0.2, 1)
	if len(train) != 0 || len(test) != 10 {
		t.Errorf("Expected everything in test at ratio < 0, got %d/%d", len(train), len(test))
	}
}

func TestEvaluatePerfectPredictor(t *testing.T) {
	test := splitCorpus(30)
	byText := make(map[string]string, len(test))
	for _, example := range test {
		byText[example.Text] = example.Label
	}

	report, err := Evaluate(func(text string) (core.PredictionResult, error) {
		return core.PredictionResult{Label: byText[text], Confidence: 1}, nil
	}, test)
	if err != nil {
		t.Fatalf("Failed to evaluate: %v", err)
	}

	if report.Accuracy != 1 {
		t.Errorf("Expected accuracy 1, got %.3f", report.Accuracy)
	}
	if report.MacroF1 != 1 {
		t.Errorf("Expected macro-F1 1, got %.3f", report.MacroF1)
	}
	if report.Correct != 30 || report.Failed != 0 {
		t.Errorf("Expected 30 correct and 0 failed, got %d/%d", report.Correct, report.Failed)
	}
}

func TestEvaluateMixedPredictions(t *testing.T) {
	// 4 positives and 2 negatives; the predictor calls everything positive.
	test := []core.TrainingExample{
		{Text: "p1", Label: core.LabelPositive},
		{Text: "p2", Label: core.LabelPositive},
		{Text: "p3", Label: core.LabelPositive},
		{Text: "p4", Label: core.LabelPositive},
		{Text: "n1", Label: core.LabelNegative},
		{Text: "n2", Label: core.LabelNegative},
	}

	report, err := Evaluate(func(string) (core.PredictionResult, error) {
		return core.PredictionResult{Label: core.LabelPositive}, nil
	}, test)
	if err != nil {
		t.Fatalf("Failed to evaluate: %v", err)
	}

	if math.Abs(report.Accuracy-4.0/6.0) > 1e-9 {
		t.Errorf("Expected accuracy 2/3, got %.3f", report.Accuracy)
	}

	var positive, negative ClassMetrics
	for _, cm := range report.PerClass {
		switch cm.Class {
		case core.LabelPositive:
			positive = cm
		case core.LabelNegative:
			negative = cm
		}
	}
	if math.Abs(positive.Precision-4.0/6.0) > 1e-9 {
		t.Errorf("Expected positive precision 2/3, got %.3f", positive.Precision)
	}
	if positive.Recall != 1 {
		t.Errorf("Expected positive recall 1, got %.3f", positive.Recall)
	}
	if negative.Precision != 0 || negative.Recall != 0 || negative.F1 != 0 {
		t.Errorf("Expected zeroed negative metrics, got %+v", negative)
	}
	if report.Confusion[core.LabelNegative][core.LabelPositive] != 2 {
		t.Errorf("Expected 2 negatives predicted positive, got %d",
			report.Confusion[core.LabelNegative][core.LabelPositive])
	}
}

func TestEvaluateCountsFailures(t *testing.T) {
	test := splitCorpus(6)

	calls := 0
	report, err := Evaluate(func(text string) (core.PredictionResult, error) {
		calls++
		if calls%2 == 0 {
			return core.PredictionResult{}, fmt.Errorf("transient failure")
		}
		return core.PredictionResult{Label: core.LabelPositive}, nil
	}, test)
	if err != nil {
		t.Fatalf("Failed to evaluate: %v", err)
	}

	if report.Failed != 3 {
		t.Errorf("Expected 3 failed predictions, got %d", report.Failed)
	}
	if report.Total != 6 {
		t.Errorf("Expected total 6, got %d", report.Total)
	}
}

func TestEvaluateAbortsUntrained(t *testing.T) {
	test := splitCorpus(3)

	_, err := Evaluate(func(string) (core.PredictionResult, error) {
		return core.PredictionResult{}, core.NewUntrainedModelError("classifier")
	}, test)
	if err == nil {
		t.Fatal("Expected evaluation to abort for an untrained model")
	}
	if !core.IsUntrainedModel(err) {
		t.Errorf("Expected an untrained-model error, got %v", err)
	}
}

func TestEvaluateEmptyTestSet(t *testing.T) {
	if _, err := Evaluate(func(string) (core.PredictionResult, error) {
		return core.PredictionResult{}, nil
	}, nil); err == nil {
		t.Fatal("Expected an error for an empty test set")
	}
}

func TestReportFormat(t *testing.T) {
	test := splitCorpus(9)
	byText := make(map[string]string, len(test))
	for _, example := range test {
		byText[example.Text] = example.Label
	}

	report, err := Evaluate(func(text string) (core.PredictionResult, error) {
		return core.PredictionResult{Label: byText[text]}, nil
	}, test)
	if err != nil {
		t.Fatalf("Failed to evaluate: %v", err)
	}

	out := report.Format()
	for _, want := range []string{"Accuracy", "Precision", "Recall", "Confusion", core.LabelPositive} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected formatted report to mention %q:\n%s", want, out)
		}
	}
}
