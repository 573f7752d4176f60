// Package sentiment analyzes short informal text for polarity, emotions,
// and per-term sentiment. A lexicon-driven rule engine provides the
// continuous score; a trainable naive Bayes classifier can confirm or
// override its label. The Engine arbitrates between the two.
package sentiment

import (
	"math"
	"strings"

	"pulse/internal/core"
	"pulse/internal/langdetect"
	"pulse/internal/lexicon"
	"pulse/internal/normalize"
)

// Context scan windows, in tokens before a flagged word.
const (
	intensifierWindow = 3
	negatorWindow     = 4
)

// negationFactor flips and dampens a negated contribution: "not good" is
// negative, but weaker than "bad".
const negationFactor = -0.75

// positionalBoost is the extra weight the final token carries over the
// first. Sentiment late in a post tends to be the author's conclusion.
const positionalBoost = 0.3

// referenceLength is the token count at which the length factor saturates.
const referenceLength = 20

// Label thresholds over the normalized score.
const (
	veryPositiveThreshold = 0.6
	positiveThreshold     = 0.2
	negativeThreshold     = -0.2
	veryNegativeThreshold = -0.6
)

// Confidence bounds for rule-engine results.
const (
	minConfidence = 0.1
	maxConfidence = 0.95
)

// Scorer is the lexicon-driven rule engine. It carries no mutable state
// after construction, so one Scorer may serve any number of goroutines.
type Scorer struct {
	polarity     map[string]float64
	intensifiers map[string]float64
	negators     map[string]bool
}

// NewScorer builds a scorer over the embedded lexicon tables.
func NewScorer() *Scorer {
	return &Scorer{
		polarity:     lexicon.Polarity(),
		intensifiers: lexicon.Intensifiers(),
		negators:     lexicon.Negators(),
	}
}

// contribution records one flagged token after all context adjustments.
type contribution struct {
	position int
	token    string
	adjusted float64
}

// Score analyzes text with default options.
func (s *Scorer) Score(text string) core.SentimentResult {
	return s.ScoreWithOptions(text, DefaultOptions())
}

// ScoreWithOptions runs the full rule pipeline: normalize, tokenize, flag
// lexicon words, adjust each for intensifiers, negation, and position, then
// aggregate into score, magnitude, label, and confidence. It never fails;
// text with no scorable content degrades to a low-confidence neutral result.
func (s *Scorer) ScoreWithOptions(text string, opts Options) core.SentimentResult {
	normalized := normalize.Normalize(text)
	tokens := normalize.Tokenize(normalized)
	lang := langdetect.Resolve(opts.Language, normalized)

	result := core.SentimentResult{
		Label:      core.LabelNeutral,
		Confidence: minConfidence,
		Method:     core.MethodRule,
		Language:   lang,
		TokenCount: len(tokens),
	}
	if len(tokens) == 0 {
		if opts.EmotionAnalysis {
			result.Emotions = &core.EmotionVector{}
		}
		return result
	}

	contribs := s.contributions(tokens)
	result.Score, result.Magnitude = aggregate(contribs, len(tokens))
	result.Label = Classify(result.Score)
	result.Confidence = confidence(len(contribs), len(tokens), result.Magnitude)
	result.Keywords = keywords(contribs)
	if opts.EmotionAnalysis {
		result.Emotions = emotionVector(tokens, lang, result.Score)
	}
	if len(opts.Brands) > 0 {
		result.Brands = termSentiments(tokens, contribs, brandTerms(opts.Brands))
	}
	if tags := hashtagTerms(tokens); len(tags) > 0 {
		result.Hashtags = termSentiments(tokens, contribs, tags)
	}
	return result
}

// contributions flags every polarity word and applies its context
// modifiers. Order of application matters: intensifier, then negation,
// then positional weight.
func (s *Scorer) contributions(tokens []string) []contribution {
	total := float64(len(tokens))
	var out []contribution
	for p, token := range tokens {
		base, ok := s.polarity[lookupWord(token)]
		if !ok {
			continue
		}
		adjusted := base * s.intensifierFor(tokens, p)
		if s.negated(tokens, p) {
			adjusted *= negationFactor
		}
		adjusted *= 1 + (float64(p)/total)*positionalBoost
		out = append(out, contribution{position: p, token: token, adjusted: adjusted})
	}
	return out
}

// intensifierFor scans up to intensifierWindow tokens back from p and
// returns the nearest intensifier's multiplier, or 1 when none is in range.
func (s *Scorer) intensifierFor(tokens []string, p int) float64 {
	for i := p - 1; i >= 0 && i >= p-intensifierWindow; i-- {
		if mult, ok := s.intensifiers[lookupWord(tokens[i])]; ok {
			return mult
		}
	}
	return 1
}

// negated reports whether a negator appears within negatorWindow tokens
// before p. Multiple negators do not stack; one hit decides.
func (s *Scorer) negated(tokens []string, p int) bool {
	for i := p - 1; i >= 0 && i >= p-negatorWindow; i-- {
		if s.negators[lookupWord(tokens[i])] {
			return true
		}
	}
	return false
}

// lookupWord strips hashtag and mention markers so "#great" and "@friend"
// still hit the lexicon tables.
func lookupWord(token string) string {
	return strings.TrimLeft(token, "#@")
}

// aggregate averages the contributions and scales by a length factor so a
// single strong word in a two-token fragment cannot saturate the score.
func aggregate(contribs []contribution, tokenCount int) (score, magnitude float64) {
	if len(contribs) == 0 {
		return 0, 0
	}
	var rawScore, rawMagnitude float64
	for _, c := range contribs {
		rawScore += c.adjusted
		rawMagnitude += math.Abs(c.adjusted)
	}
	flagged := float64(len(contribs))
	lengthFactor := math.Min(1, math.Log(float64(tokenCount)+1)/math.Log(referenceLength))
	score = clamp(rawScore/flagged*lengthFactor, -1, 1)
	magnitude = rawMagnitude / flagged * lengthFactor
	return score, magnitude
}

// confidence blends lexicon density, text length, and emotional magnitude.
// More flagged words in more text means the lexicon actually covered what
// was said.
func confidence(flagged, tokenCount int, magnitude float64) float64 {
	density := float64(flagged) / float64(tokenCount)
	c := 0.4*density + 0.3*math.Min(1, float64(tokenCount)/10) + 0.3*math.Min(1, magnitude)
	return clamp(c, minConfidence, maxConfidence)
}

// Classify maps a score onto the five-step label scale.
func Classify(score float64) string {
	switch {
	case score >= veryPositiveThreshold:
		return core.LabelVeryPositive
	case score >= positiveThreshold:
		return core.LabelPositive
	case score <= veryNegativeThreshold:
		return core.LabelVeryNegative
	case score <= negativeThreshold:
		return core.LabelNegative
	default:
		return core.LabelNeutral
	}
}

// keywords reports the flagged tokens and their adjusted weights, in text
// order, so callers can see which words drove the score.
func keywords(contribs []contribution) []core.Keyword {
	if len(contribs) == 0 {
		return nil
	}
	out := make([]core.Keyword, 0, len(contribs))
	for _, c := range contribs {
		out = append(out, core.Keyword{Token: c.token, Weight: c.adjusted})
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
