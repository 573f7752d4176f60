package sentiment

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"pulse/internal/classifier"
	"pulse/internal/core"
	"pulse/internal/lexicon"
	"pulse/internal/logger"
)

// DefaultBatchWorkers bounds concurrent scoring during batch analysis.
const DefaultBatchWorkers = 4

// Engine combines the rule engine and the statistical classifier and
// arbitrates between them per the configured method. Analysis calls are
// safe for concurrent use; training swaps classifier state atomically, so
// in-flight analyses finish against the model they started with.
type Engine struct {
	scorer     *Scorer
	classifier *classifier.Classifier
	opts       Options
	strategy   Strategy
	workers    int

	trainMu sync.Mutex

	analyses  atomic.Uint64
	batches   atomic.Uint64
	trainings atomic.Uint64
	fallbacks atomic.Uint64
}

// Metrics is a point-in-time view of engine activity counters.
type Metrics struct {
	Analyses  uint64 `json:"analyses"`
	Batches   uint64 `json:"batches"`
	Trainings uint64 `json:"trainings"`
	Fallbacks uint64 `json:"fallbacks"`
}

// New builds an engine with opts as its per-call defaults. Out-of-range
// option values are replaced with defaults rather than rejected; strict
// validation belongs to the config layer.
func New(opts Options) *Engine {
	opts = normalizeOptions(opts)
	return &Engine{
		scorer:     NewScorer(),
		classifier: classifier.New(),
		opts:       opts,
		strategy:   ParseStrategy(opts.Strategy),
		workers:    DefaultBatchWorkers,
	}
}

// SetBatchWorkers overrides the batch concurrency bound. Values below 1
// are ignored.
func (e *Engine) SetBatchWorkers(n int) {
	if n >= 1 {
		e.workers = n
	}
}

func normalizeOptions(opts Options) Options {
	defaults := DefaultOptions()
	if !ValidMethod(opts.Method) {
		opts.Method = defaults.Method
	}
	if opts.ConfidenceThreshold <= 0 || opts.ConfidenceThreshold > 1 {
		opts.ConfidenceThreshold = defaults.ConfidenceThreshold
	}
	if !ValidStrategy(opts.Strategy) {
		opts.Strategy = defaults.Strategy
	}
	if opts.Language == "" {
		opts.Language = defaults.Language
	}
	return opts
}

// Analyze scores one text with the engine's default options.
func (e *Engine) Analyze(text string) (core.SentimentResult, error) {
	return e.AnalyzeWith(text, e.opts)
}

// AnalyzeWith scores one text. The rule engine always runs: it supplies
// the emotion vector, keywords, and term sentiments no matter which path
// decides the label. Only the naive method can fail, and only when the
// classifier has never been trained.
func (e *Engine) AnalyzeWith(text string, opts Options) (core.SentimentResult, error) {
	e.analyses.Add(1)
	opts = normalizeOptions(opts)

	rule := e.scorer.ScoreWithOptions(text, opts)
	switch opts.Method {
	case core.MethodRule:
		return rule, nil
	case core.MethodNaive:
		pred, err := e.classifier.Predict(text)
		if err != nil {
			return core.SentimentResult{}, fmt.Errorf("naive analysis: %w", err)
		}
		return merge(rule, resultFromPrediction(pred), core.MethodNaive), nil
	default:
		return e.analyzeHybrid(text, rule, opts), nil
	}
}

// analyzeHybrid reconciles the two paths. Agreement blends per the
// strategy and reports the hybrid method; disagreement goes to the
// classifier only when its confidence clears the threshold, otherwise the
// rule result stands. An untrained classifier silently degrades to the
// rule path, which needs no training data.
func (e *Engine) analyzeHybrid(text string, rule core.SentimentResult, opts Options) core.SentimentResult {
	pred, err := e.classifier.Predict(text)
	if err != nil {
		e.fallbacks.Add(1)
		logger.Debug("Classifier unavailable, keeping rule result", "reason", err.Error())
		return rule
	}
	naive := resultFromPrediction(pred)

	strategy := e.strategy
	if opts.Strategy != strategy.Name() {
		strategy = ParseStrategy(opts.Strategy)
	}

	switch {
	case baseLabel(naive.Label) == baseLabel(rule.Label):
		return merge(rule, strategy.Blend(rule, naive), core.MethodHybrid)
	case pred.Confidence > opts.ConfidenceThreshold:
		return merge(rule, naive, core.MethodNaive)
	default:
		return rule
	}
}

// baseLabel collapses the very_* extremes onto their base polarity, the
// granularity the classifier can express. A rule-engine "very_positive" and
// a classifier "positive" agree in direction and must not trigger an
// override against each other.
func baseLabel(label string) string {
	switch label {
	case core.LabelVeryPositive:
		return core.LabelPositive
	case core.LabelVeryNegative:
		return core.LabelNegative
	default:
		return label
	}
}

// resultFromPrediction lifts a classifier verdict into result form. The
// gap between the positive and negative probabilities stands in for a
// continuous score, and how non-neutral the text reads caps the magnitude.
func resultFromPrediction(pred core.PredictionResult) core.SentimentResult {
	return core.SentimentResult{
		Score:      clamp(pred.Probabilities[core.LabelPositive]-pred.Probabilities[core.LabelNegative], -1, 1),
		Magnitude:  clamp(1-pred.Probabilities[core.LabelNeutral], 0, 1),
		Label:      pred.Label,
		Confidence: pred.Confidence,
		Method:     core.MethodNaive,
	}
}

// merge stamps the deciding method onto picked while keeping the fields
// only the rule engine produces: language, token count, emotions,
// keywords, and term sentiments always come from the rule pass.
func merge(rule, picked core.SentimentResult, method string) core.SentimentResult {
	picked.Method = method
	picked.Language = rule.Language
	picked.TokenCount = rule.TokenCount
	picked.Emotions = rule.Emotions
	picked.Keywords = rule.Keywords
	picked.Brands = rule.Brands
	picked.Hashtags = rule.Hashtags
	return picked
}

// AnalyzeBatch scores texts concurrently under a bounded worker pool and
// returns one result per input, in input order. Items that cannot be
// analyzed degrade to a neutral fallback instead of poisoning the batch.
// When ctx is cancelled, dispatch stops, remaining items get the fallback,
// and the context error is returned alongside the partial results.
func (e *Engine) AnalyzeBatch(ctx context.Context, texts []string) ([]core.SentimentResult, error) {
	e.batches.Add(1)
	results := make([]core.SentimentResult, len(texts))

	sem := make(chan struct{}, e.workers)
	var wg sync.WaitGroup
	var dispatchErr error
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			dispatchErr = err
			for j := i; j < len(texts); j++ {
				results[j] = e.fallbackResult()
			}
			e.fallbacks.Add(uint64(len(texts) - i))
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(index int, input string) {
			defer wg.Done()
			defer func() { <-sem }()
			res, err := e.AnalyzeWith(input, e.opts)
			if err != nil {
				e.fallbacks.Add(1)
				logger.Warn("Batch item failed, using neutral fallback", "index", index, "error", err.Error())
				res = e.fallbackResult()
			}
			results[index] = res
		}(i, text)
	}
	wg.Wait()
	return results, dispatchErr
}

// fallbackResult is the neutral stand-in for inputs that cannot be scored.
func (e *Engine) fallbackResult() core.SentimentResult {
	res := core.SentimentResult{
		Label:      core.LabelNeutral,
		Confidence: minConfidence,
		Method:     core.MethodRule,
		Language:   lexicon.FallbackLanguage,
	}
	if e.opts.EmotionAnalysis {
		res.Emotions = &core.EmotionVector{}
	}
	return res
}

// Train rebuilds the classifier model from examples. Calls are serialized
// so overlapping trainings cannot interleave; concurrent analyses keep
// reading the previous model until the atomic swap.
func (e *Engine) Train(examples []core.TrainingExample) (int, error) {
	e.trainMu.Lock()
	defer e.trainMu.Unlock()
	e.trainings.Add(1)
	return e.classifier.Train(examples)
}

// Predict exposes the raw classifier verdict, mainly for evaluation runs.
func (e *Engine) Predict(text string) (core.PredictionResult, error) {
	return e.classifier.Predict(text)
}

// Trained reports whether the classifier holds a model.
func (e *Engine) Trained() bool {
	return e.classifier.Trained()
}

// ModelInfo reports the loaded model's shape for status displays.
func (e *Engine) ModelInfo() classifier.Info {
	return e.classifier.ModelInfo()
}

// Snapshot exports the trained classifier model for persistence.
func (e *Engine) Snapshot() (core.ModelSnapshot, error) {
	return e.classifier.Snapshot()
}

// Restore loads a previously exported classifier model.
func (e *Engine) Restore(snap core.ModelSnapshot) error {
	e.trainMu.Lock()
	defer e.trainMu.Unlock()
	return e.classifier.Restore(snap)
}

// Metrics returns a snapshot of the activity counters.
func (e *Engine) Metrics() Metrics {
	return Metrics{
		Analyses:  e.analyses.Load(),
		Batches:   e.batches.Load(),
		Trainings: e.trainings.Load(),
		Fallbacks: e.fallbacks.Load(),
	}
}
