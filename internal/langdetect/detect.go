// Package langdetect guesses the dominant language of a text by stop-word
// frequency voting across the supported language sets. Detection is
// deterministic and carries no learned state.
package langdetect

import (
	"strings"

	"pulse/internal/lexicon"
)

// Detect returns the language code whose stop-word set matches the most
// tokens in text. Zero matches, or a tie between the leading languages,
// falls back to lexicon.FallbackLanguage. Detect expects normalized text
// but tolerates raw input.
func Detect(text string) string {
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) == 0 {
		return lexicon.FallbackLanguage
	}

	counts := make(map[string]int, len(lexicon.SupportedLanguages()))
	for _, lang := range lexicon.SupportedLanguages() {
		set := lexicon.StopWords(lang)
		for _, token := range tokens {
			if set[strings.Trim(token, ".,!?")] {
				counts[lang]++
			}
		}
	}

	best := lexicon.FallbackLanguage
	bestCount := 0
	tied := false
	for _, lang := range lexicon.SupportedLanguages() {
		switch {
		case counts[lang] > bestCount:
			best = lang
			bestCount = counts[lang]
			tied = false
		case counts[lang] == bestCount && bestCount > 0:
			tied = true
		}
	}
	if bestCount == 0 || tied {
		return lexicon.FallbackLanguage
	}
	return best
}

// Resolve returns hint when it names a supported language, otherwise the
// detected language of text. An "auto" or empty hint always detects.
func Resolve(hint, text string) string {
	if hint != "" && hint != "auto" && lexicon.Supported(hint) {
		return hint
	}
	return Detect(text)
}
