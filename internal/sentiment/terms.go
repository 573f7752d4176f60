package sentiment

import (
	"strings"

	"pulse/internal/core"
	"pulse/internal/normalize"
)

// termWindow is the token span scored on each side of a tracked term.
const termWindow = 3

// brandTerms pushes the configured brand keywords through the same
// normalization as scored text so occurrences line up token for token.
// Duplicates collapse; order of first appearance is kept.
func brandTerms(brands []string) []string {
	terms := make([]string, 0, len(brands))
	seen := make(map[string]bool, len(brands))
	for _, brand := range brands {
		for _, token := range normalize.Tokenize(normalize.Normalize(brand)) {
			if token == "" || seen[token] {
				continue
			}
			seen[token] = true
			terms = append(terms, token)
		}
	}
	return terms
}

// hashtagTerms returns the distinct hashtags in the token stream, in first
// appearance order. A bare "#" is not a hashtag.
func hashtagTerms(tokens []string) []string {
	var terms []string
	seen := make(map[string]bool)
	for _, token := range tokens {
		if len(token) > 1 && strings.HasPrefix(token, "#") && !seen[token] {
			seen[token] = true
			terms = append(terms, token)
		}
	}
	return terms
}

// termSentiments scores the local context of every occurrence of each term:
// flagged contributions within termWindow tokens either side (the term
// itself included, so "#great" carries its own weight), averaged across
// occurrences. Terms that never occur are omitted.
func termSentiments(tokens []string, contribs []contribution, terms []string) []core.TermSentiment {
	var out []core.TermSentiment
	for _, term := range terms {
		mentions := 0
		var total float64
		for p, token := range tokens {
			if !matchesTerm(token, term) {
				continue
			}
			mentions++
			total += windowScore(contribs, p)
		}
		if mentions == 0 {
			continue
		}
		score := clamp(total/float64(mentions), -1, 1)
		out = append(out, core.TermSentiment{
			Term:     term,
			Mentions: mentions,
			Score:    score,
			Label:    Classify(score),
		})
	}
	return out
}

// matchesTerm compares marker-insensitively: brand "acme" also matches
// "#acme" and "@acme" in the text, and vice versa.
func matchesTerm(token, term string) bool {
	return token == term || lookupWord(token) == lookupWord(term)
}

// windowScore averages the adjusted contributions inside the window
// around p. No flagged words nearby means a neutral mention.
func windowScore(contribs []contribution, p int) float64 {
	var sum float64
	count := 0
	for _, c := range contribs {
		if c.position >= p-termWindow && c.position <= p+termWindow {
			sum += c.adjusted
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
