package sentiment

import "pulse/internal/core"

// Strategy names accepted in config and per-call options.
const (
	StrategyThresholdOverride = "threshold-override"
	StrategyMaxConfidence     = "max-confidence"
	StrategyWeightedAverage   = "weighted-average"
)

// A Strategy blends the rule engine's and the classifier's results when
// both paths agree on the label in hybrid mode. Implementations decide
// Score, Magnitude, and Confidence of the blend; the engine owns every
// other field of the returned result.
type Strategy interface {
	Name() string
	Blend(rule, naive core.SentimentResult) core.SentimentResult
}

// ParseStrategy resolves a strategy by name, defaulting to
// threshold-override for anything unrecognized.
func ParseStrategy(name string) Strategy {
	switch name {
	case StrategyMaxConfidence:
		return maxConfidenceStrategy{}
	case StrategyWeightedAverage:
		return weightedAverageStrategy{}
	default:
		return thresholdOverrideStrategy{}
	}
}

// ValidStrategy reports whether name is a known blend strategy.
func ValidStrategy(name string) bool {
	switch name {
	case StrategyThresholdOverride, StrategyMaxConfidence, StrategyWeightedAverage:
		return true
	}
	return false
}

// thresholdOverrideStrategy keeps the rule engine's continuous score and
// magnitude and averages the two confidences. The classifier only ever
// changes labels through the confidence threshold, never the score, which
// keeps the label a pure function of the score on the rule path.
type thresholdOverrideStrategy struct{}

func (thresholdOverrideStrategy) Name() string { return StrategyThresholdOverride }

func (thresholdOverrideStrategy) Blend(rule, naive core.SentimentResult) core.SentimentResult {
	out := rule
	out.Confidence = clamp((rule.Confidence+naive.Confidence)/2, 0, 1)
	return out
}

// maxConfidenceStrategy adopts whichever side trusts itself more.
type maxConfidenceStrategy struct{}

func (maxConfidenceStrategy) Name() string { return StrategyMaxConfidence }

func (maxConfidenceStrategy) Blend(rule, naive core.SentimentResult) core.SentimentResult {
	if naive.Confidence > rule.Confidence {
		return naive
	}
	return rule
}

// weightedAverageStrategy mixes the continuous fields proportionally to
// each side's confidence.
type weightedAverageStrategy struct{}

func (weightedAverageStrategy) Name() string { return StrategyWeightedAverage }

func (weightedAverageStrategy) Blend(rule, naive core.SentimentResult) core.SentimentResult {
	out := rule
	total := rule.Confidence + naive.Confidence
	if total == 0 {
		return out
	}
	out.Score = clamp((rule.Score*rule.Confidence+naive.Score*naive.Confidence)/total, -1, 1)
	out.Magnitude = (rule.Magnitude*rule.Confidence + naive.Magnitude*naive.Confidence) / total
	out.Confidence = clamp((rule.Confidence+naive.Confidence)/2, 0, 1)
	return out
}
