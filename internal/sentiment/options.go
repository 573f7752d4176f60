package sentiment

import "pulse/internal/core"

// Options control a single analysis call. Zero values are filled in from
// DefaultOptions by the engine, so partially populated structs are fine.
type Options struct {
	Method              string   // rule, naive, or hybrid
	Language            string   // two-letter hint; "auto" or empty detects per text
	EmotionAnalysis     bool     // attach the emotion vector to results
	ConfidenceThreshold float64  // classifier confidence needed to override the rule label in hybrid mode
	Strategy            string   // blend strategy applied when hybrid paths agree
	Brands              []string // brand keywords tracked for mention-level sentiment
}

// DefaultOptions returns the engine defaults: hybrid analysis with emotion
// vectors, per-text language detection, and the threshold-override blend.
func DefaultOptions() Options {
	return Options{
		Method:              core.MethodHybrid,
		Language:            "auto",
		EmotionAnalysis:     true,
		ConfidenceThreshold: 0.70,
		Strategy:            StrategyThresholdOverride,
	}
}

// ValidMethod reports whether method names one of the analysis paths.
func ValidMethod(method string) bool {
	switch method {
	case core.MethodRule, core.MethodNaive, core.MethodHybrid:
		return true
	}
	return false
}
