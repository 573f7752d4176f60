// Package evaluate measures classifier quality over held-out labeled data:
// deterministic train/test splitting and the usual accuracy, precision,
// recall, and F1 battery with a confusion matrix.
package evaluate

import (
	"fmt"
	"math/rand"
	"strings"

	"gonum.org/v1/gonum/floats"

	"pulse/internal/core"
)

// Predictor is the hook into the classifier: text in, verdict out.
type Predictor func(text string) (core.PredictionResult, error)

// ClassMetrics holds one class's precision, recall, and F1.
type ClassMetrics struct {
	Class     string  `json:"class"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Report is the outcome of one evaluation run. Confusion maps actual
// label to predicted label to count.
type Report struct {
	Total     int                       `json:"total"`
	Correct   int                       `json:"correct"`
	Failed    int                       `json:"failed"`
	Accuracy  float64                   `json:"accuracy"`
	MacroF1   float64                   `json:"macro_f1"`
	PerClass  []ClassMetrics            `json:"per_class"`
	Confusion map[string]map[string]int `json:"confusion"`
}

// TrainTestSplit shuffles examples with the seeded generator and cuts at
// ratio (the training share). The same seed and input always produce the
// same split; the input slice is left untouched.
func TrainTestSplit(examples []core.TrainingExample, ratio float64, seed int64) (train, test []core.TrainingExample) {
	shuffled := make([]core.TrainingExample, len(examples))
	copy(shuffled, examples)

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	cut := int(float64(len(shuffled)) * ratio)
	return shuffled[:cut], shuffled[cut:]
}

// Evaluate predicts every test example and aggregates metrics. Individual
// prediction failures count toward Failed (and as misses) rather than
// aborting the run; an untrained model aborts immediately since every
// prediction would fail the same way.
func Evaluate(predict Predictor, test []core.TrainingExample) (Report, error) {
	if len(test) == 0 {
		return Report{}, fmt.Errorf("evaluation needs at least one test example")
	}

	report := Report{
		Total:     len(test),
		Confusion: make(map[string]map[string]int),
	}

	for _, example := range test {
		pred, err := predict(example.Text)
		if err != nil {
			if core.IsUntrainedModel(err) {
				return Report{}, fmt.Errorf("evaluation aborted: %w", err)
			}
			report.Failed++
			continue
		}
		if pred.Label == example.Label {
			report.Correct++
		}
		row := report.Confusion[example.Label]
		if row == nil {
			row = make(map[string]int)
			report.Confusion[example.Label] = row
		}
		row[pred.Label]++
	}

	report.Accuracy = float64(report.Correct) / float64(report.Total)
	report.PerClass = perClassMetrics(report.Confusion)

	var f1s []float64
	for _, cm := range report.PerClass {
		if cm.Support > 0 {
			f1s = append(f1s, cm.F1)
		}
	}
	if len(f1s) > 0 {
		report.MacroF1 = floats.Sum(f1s) / float64(len(f1s))
	}
	return report, nil
}

// perClassMetrics derives precision, recall, and F1 for every known class
// from the confusion matrix, in the fixed class order.
func perClassMetrics(confusion map[string]map[string]int) []ClassMetrics {
	metrics := make([]ClassMetrics, 0, len(core.TrainingLabels))
	for _, label := range core.TrainingLabels {
		tp := confusion[label][label]
		fn := 0
		for predicted, count := range confusion[label] {
			if predicted != label {
				fn += count
			}
		}
		fp := 0
		for actual, row := range confusion {
			if actual != label {
				fp += row[label]
			}
		}

		cm := ClassMetrics{Class: label, Support: tp + fn}
		if tp+fp > 0 {
			cm.Precision = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			cm.Recall = float64(tp) / float64(tp+fn)
		}
		if cm.Precision+cm.Recall > 0 {
			cm.F1 = 2 * cm.Precision * cm.Recall / (cm.Precision + cm.Recall)
		}
		metrics = append(metrics, cm)
	}
	return metrics
}

// Format renders the report as a fixed-width table for terminal output.
func (r Report) Format() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Examples: %d   Correct: %d   Accuracy: %.3f   Macro-F1: %.3f\n",
		r.Total, r.Correct, r.Accuracy, r.MacroF1)
	if r.Failed > 0 {
		fmt.Fprintf(&b, "Failed predictions: %d\n", r.Failed)
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "%-14s %9s %9s %9s %9s\n", "Class", "Precision", "Recall", "F1", "Support")
	for _, cm := range r.PerClass {
		fmt.Fprintf(&b, "%-14s %9.3f %9.3f %9.3f %9d\n",
			cm.Class, cm.Precision, cm.Recall, cm.F1, cm.Support)
	}

	b.WriteString("\nConfusion (rows actual, columns predicted):\n")
	fmt.Fprintf(&b, "%-14s", "")
	for _, predicted := range core.TrainingLabels {
		fmt.Fprintf(&b, " %9s", predicted)
	}
	b.WriteString("\n")
	for _, actual := range core.TrainingLabels {
		fmt.Fprintf(&b, "%-14s", actual)
		for _, predicted := range core.TrainingLabels {
			fmt.Fprintf(&b, " %9d", r.Confusion[actual][predicted])
		}
		b.WriteString("\n")
	}
	return b.String()
}
