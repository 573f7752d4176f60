// Package classifier implements the trainable statistical arm of the
// analysis engine: a multinomial naive Bayes text classifier with add-one
// smoothing over positive, negative, and neutral classes.
//
// Training aggregates token counts into an immutable model published with
// a single atomic swap, so any number of predictions may run concurrently
// with each other and with a training pass. Overlapping Train calls must
// be serialized by the caller.
package classifier

import (
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bbalet/stopwords"
	"gonum.org/v1/gonum/floats"

	"pulse/internal/core"
	"pulse/internal/langdetect"
	"pulse/internal/logger"
	"pulse/internal/normalize"
)

const componentName = "classifier"

// Probabilities reported for input that normalizes to nothing usable.
// Slightly neutral-leaning so the label tie resolves honestly.
var fallbackProbabilities = map[string]float64{
	core.LabelPositive: 0.33,
	core.LabelNegative: 0.33,
	core.LabelNeutral:  0.34,
}

// fallbackConfidence accompanies the fallback probabilities.
const fallbackConfidence = 0.5

// model holds one training pass's aggregated counts. Never mutated after
// Train publishes it.
type model struct {
	classDocs   map[string]int            // documents seen per class
	tokenCounts map[string]map[string]int // class -> token -> frequency
	totalTokens map[string]int            // token total per class
	vocabulary  map[string]int            // global token frequencies
	totalDocs   int
	trainedAt   time.Time
}

// Classifier predicts sentiment classes for short texts.
type Classifier struct {
	current atomic.Pointer[model]
}

// New returns an untrained classifier. Predict fails until Train or
// Restore succeeds.
func New() *Classifier {
	return &Classifier{}
}

// Trained reports whether a model is loaded.
func (c *Classifier) Trained() bool {
	return c.current.Load() != nil
}

// Train aggregates examples into a fresh model and swaps it in, replacing
// all prior state. Examples with an unknown label or no usable tokens are
// skipped with a warning rather than failing the pass. A set that yields
// nothing usable leaves the classifier untrained and returns a
// training-data error. Returns the number of examples actually used.
func (c *Classifier) Train(examples []core.TrainingExample) (int, error) {
	m := &model{
		classDocs:   make(map[string]int),
		tokenCounts: make(map[string]map[string]int),
		totalTokens: make(map[string]int),
		vocabulary:  make(map[string]int),
	}
	for _, label := range core.TrainingLabels {
		m.tokenCounts[label] = make(map[string]int)
	}

	for i, example := range examples {
		if !core.ValidTrainingLabel(example.Label) {
			logger.Warn("Skipping training example with unknown label", "index", i, "label", example.Label)
			continue
		}
		tokens := usableTokens(example.Text)
		if len(tokens) == 0 {
			logger.Warn("Skipping training example with no usable tokens", "index", i)
			continue
		}
		m.classDocs[example.Label]++
		m.totalDocs++
		for _, token := range tokens {
			m.vocabulary[token]++
			m.tokenCounts[example.Label][token]++
			m.totalTokens[example.Label]++
		}
	}

	if m.totalDocs == 0 {
		c.current.Store(nil)
		return 0, core.NewTrainingDataError(componentName, "no usable training examples")
	}

	m.trainedAt = time.Now().UTC()
	c.current.Store(m)
	logger.Debug("Classifier trained",
		"examples", m.totalDocs,
		"vocabulary", len(m.vocabulary))
	return m.totalDocs, nil
}

// Predict scores text against the current model. Calling Predict before a
// successful Train or Restore is a caller error and surfaces as an
// untrained-model error rather than a silent default. Text with no usable
// tokens yields the near-uniform neutral fallback.
func (c *Classifier) Predict(text string) (core.PredictionResult, error) {
	m := c.current.Load()
	if m == nil {
		return core.PredictionResult{}, core.NewUntrainedModelError(componentName)
	}

	tokens := usableTokens(text)
	if len(tokens) == 0 {
		return fallbackPrediction(), nil
	}

	// Log-space naive Bayes: class prior plus add-one smoothed token
	// likelihoods. Classes absent from training are skipped; their
	// probability stays zero.
	labels := make([]string, 0, len(core.TrainingLabels))
	logScores := make([]float64, 0, len(core.TrainingLabels))
	vocabSize := float64(len(m.vocabulary))
	for _, label := range core.TrainingLabels {
		docs := m.classDocs[label]
		if docs == 0 {
			continue
		}
		logScore := math.Log(float64(docs) / float64(m.totalDocs))
		classTotal := float64(m.totalTokens[label])
		for _, token := range tokens {
			count := float64(m.tokenCounts[label][token])
			logScore += math.Log((count + 1) / (classTotal + vocabSize))
		}
		labels = append(labels, label)
		logScores = append(logScores, logScore)
	}

	probabilities := softmax(labels, logScores)
	for _, label := range core.TrainingLabels {
		if _, ok := probabilities[label]; !ok {
			probabilities[label] = 0
		}
	}

	// Fixed iteration order makes exact ties deterministic.
	best := core.LabelNeutral
	bestProb := math.Inf(-1)
	for _, label := range core.TrainingLabels {
		if p := probabilities[label]; p > bestProb {
			best = label
			bestProb = p
		}
	}

	return core.PredictionResult{
		Label:         best,
		Confidence:    bestProb,
		Probabilities: probabilities,
	}, nil
}

// softmax turns log-scores into probabilities summing to 1. The max is
// subtracted before exponentiation so long texts cannot underflow to
// all-zero.
func softmax(labels []string, logScores []float64) map[string]float64 {
	out := make(map[string]float64, len(labels))
	if len(labels) == 0 {
		return out
	}
	max := floats.Max(logScores)
	exps := make([]float64, len(logScores))
	for i, ls := range logScores {
		exps[i] = math.Exp(ls - max)
	}
	sum := floats.Sum(exps)
	for i, label := range labels {
		out[label] = exps[i] / sum
	}
	return out
}

func fallbackPrediction() core.PredictionResult {
	probs := make(map[string]float64, len(fallbackProbabilities))
	for label, p := range fallbackProbabilities {
		probs[label] = p
	}
	return core.PredictionResult{
		Label:         core.LabelNeutral,
		Confidence:    fallbackConfidence,
		Probabilities: probs,
	}
}

// usableTokens reduces text to the bag of words the model counts: the
// shared normalization pipeline, minus stop words for the detected
// language, minus single-character leftovers, with hashtag and mention
// markers stripped so tagged words share counts with plain ones. Training
// and prediction must tokenize identically or the counts lie.
func usableTokens(text string) []string {
	normalized := normalize.Normalize(text)
	if normalized == "" {
		return nil
	}
	lang := langdetect.Detect(normalized)
	var tokens []string
	for _, token := range normalize.Tokenize(normalized) {
		word := strings.TrimLeft(token, "#@")
		if len(word) <= 1 {
			continue
		}
		if isStopWord(word, lang) {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// isStopWord probes the stopwords library one word at a time: a word the
// library strips from a single-word string is a stop word in that language.
func isStopWord(word, lang string) bool {
	return strings.TrimSpace(stopwords.CleanString(word, lang, false)) == ""
}

// Info summarizes the current model for status displays.
type Info struct {
	Trained        bool
	VocabularySize int
	DatasetSize    int
	TrainingDate   time.Time
	ClassCounts    map[string]int
}

// ModelInfo reports the loaded model's shape; the zero Info means
// untrained.
func (c *Classifier) ModelInfo() Info {
	m := c.current.Load()
	if m == nil {
		return Info{}
	}
	return Info{
		Trained:        true,
		VocabularySize: len(m.vocabulary),
		DatasetSize:    m.totalDocs,
		TrainingDate:   m.trainedAt,
		ClassCounts:    copyCounts(m.classDocs),
	}
}

func copyCounts(src map[string]int) map[string]int {
	dst := make(map[string]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func copyTables(src map[string]map[string]int) map[string]map[string]int {
	dst := make(map[string]map[string]int, len(src))
	for k, inner := range src {
		dst[k] = copyCounts(inner)
	}
	return dst
}
