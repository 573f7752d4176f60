package sentiment

import (
	"strings"

	"pulse/internal/core"
	"pulse/internal/lexicon"
)

// Emotion match weights: an exact keyword hit counts full, a token that
// merely contains a keyword ("loooove" after run-collapsing, "unhappy")
// counts half.
const (
	exactMatchWeight     = 1.0
	substringMatchWeight = 0.5
)

// perTokenCeiling normalizes raw hit mass: a text where every token lands
// three exact hits would score 1.0.
const perTokenCeiling = 3

// Polarity bias applied on top of keyword hits when the overall score is
// strongly signed.
const (
	biasTrigger = 0.3
	joyBias     = 0.2
	sadnessBias = 0.15
	angerBias   = 0.10
)

// emotionVector scores the six basic emotions from keyword hits in the
// detected language, then nudges joy (or sadness and anger) when the
// overall polarity is strong enough that the text's mood is unambiguous
// even without direct emotion words.
func emotionVector(tokens []string, lang string, score float64) *core.EmotionVector {
	table := lexicon.EmotionKeywords(lang)
	denom := float64(len(tokens)) * perTokenCeiling

	v := &core.EmotionVector{
		Joy:      emotionValue(tokens, table["joy"], denom),
		Sadness:  emotionValue(tokens, table["sadness"], denom),
		Anger:    emotionValue(tokens, table["anger"], denom),
		Fear:     emotionValue(tokens, table["fear"], denom),
		Surprise: emotionValue(tokens, table["surprise"], denom),
		Disgust:  emotionValue(tokens, table["disgust"], denom),
	}

	if score > biasTrigger {
		v.Joy = clamp(v.Joy+joyBias, 0, 1)
	}
	if score < -biasTrigger {
		v.Sadness = clamp(v.Sadness+sadnessBias, 0, 1)
		v.Anger = clamp(v.Anger+angerBias, 0, 1)
	}
	return v
}

// emotionValue sums exact and substring matches between the tokens and one
// category's keywords, normalized into [0, 1].
func emotionValue(tokens, keywords []string, denom float64) float64 {
	if denom == 0 || len(keywords) == 0 {
		return 0
	}
	var raw float64
	for _, token := range tokens {
		word := lookupWord(token)
		for _, kw := range keywords {
			if word == kw {
				raw += exactMatchWeight
			} else if strings.Contains(word, kw) {
				raw += substringMatchWeight
			}
		}
	}
	return clamp(raw/denom, 0, 1)
}
