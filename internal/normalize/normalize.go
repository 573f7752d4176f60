// Package normalize canonicalizes raw social-media text into the form every
// other component scores against: lowercase, URLs and emoticons replaced with
// placeholder words, contractions expanded, accents folded, noise characters
// stripped, and repeated characters collapsed. Normalize never fails; the
// worst input yields an empty string.
package normalize

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"pulse/internal/lexicon"
)

// urlPlaceholder is the neutral word substituted for links. It is not a
// lexicon entry, so links never contribute polarity.
const urlPlaceholder = "weburl"

var (
	urlPattern     = regexp.MustCompile(`(https?://\S+|\bwww\.\S+)`)
	exclaimRuns    = regexp.MustCompile(`!{2,}`)
	questionRuns   = regexp.MustCompile(`\?{2,}`)
	commaRuns      = regexp.MustCompile(`,{2,}`)
	ellipsisRuns   = regexp.MustCompile(`\.{3,}`)
	disallowed     = regexp.MustCompile(`[^a-z0-9_.,!?#@'\s]`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// foldReplacer rewrites letters NFD cannot decompose and straightens the
// apostrophe variants the contraction tables expect.
var foldReplacer = strings.NewReplacer(
	"ß", "ss",
	"œ", "oe",
	"æ", "ae",
	"’", "'",
	"ʼ", "'",
	"`", "'",
)

// Single-character tokens worth keeping: pronouns and conjunctions across the
// supported languages.
var singleCharKeep = map[string]bool{
	"a": true, "i": true, "o": true, "y": true, "e": true, "u": true,
}

var (
	// Symbol-only emoticons are replaced as substrings; they cannot occur
	// inside a word. Keys containing letters or digits (:d, xd, <3) match
	// whole tokens only, so ordinary words are never rewritten.
	emoticonSubstrings [][2]string
	emoticonTokens     map[string]string

	// Contractions across all supported languages, merged. Keys ending with
	// an apostrophe are prefix rules (French elisions), tried longest first.
	contractionExact  map[string]string
	contractionPrefix [][2]string
)

func init() {
	emoticonTokens = make(map[string]string)
	for emoticon, word := range lexicon.Emoticons() {
		if strings.ContainsAny(emoticon, "abcdefghijklmnopqrstuvwxyz0123456789") {
			emoticonTokens[emoticon] = word
		} else {
			emoticonSubstrings = append(emoticonSubstrings, [2]string{emoticon, word})
		}
	}
	sortPairsByKey(emoticonSubstrings)

	contractionExact = make(map[string]string)
	for _, lang := range lexicon.SupportedLanguages() {
		for key, expansion := range lexicon.Contractions(lang) {
			if strings.HasSuffix(key, "'") {
				contractionPrefix = append(contractionPrefix, [2]string{key, expansion})
			} else {
				contractionExact[key] = expansion
			}
		}
	}
	sortPairsByKey(contractionPrefix)
}

// sortPairsByKey orders pairs longest key first so longer patterns win, with
// a lexicographic tiebreak to keep replacement order deterministic.
func sortPairsByKey(pairs [][2]string) {
	sort.Slice(pairs, func(i, j int) bool {
		if len(pairs[i][0]) != len(pairs[j][0]) {
			return len(pairs[i][0]) > len(pairs[j][0])
		}
		return pairs[i][0] < pairs[j][0]
	})
}

// Normalize canonicalizes text. It is idempotent: normalizing an already
// normalized string returns it unchanged.
func Normalize(text string) string {
	s := strings.TrimSpace(text)
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)
	s = urlPattern.ReplaceAllString(s, " "+urlPlaceholder+" ")
	s = replaceEmoticons(s)
	s = foldAccents(s)
	s = disallowed.ReplaceAllString(s, " ")
	s = expandContractions(s)
	s = strings.ReplaceAll(s, "'", "")
	s = exclaimRuns.ReplaceAllString(s, "!")
	s = questionRuns.ReplaceAllString(s, "?")
	s = commaRuns.ReplaceAllString(s, ",")
	s = ellipsisRuns.ReplaceAllString(s, "...")
	s = collapseCharRuns(s)
	s = whitespaceRuns.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	return dropShortTokens(s)
}

// Tokenize splits normalized text into scoring tokens: whitespace fields with
// sentence punctuation trimmed from both ends. Hashtag and mention markers
// are preserved.
func Tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		token := strings.Trim(field, ".,!?")
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

func replaceEmoticons(s string) string {
	for _, pair := range emoticonSubstrings {
		if strings.Contains(s, pair[0]) {
			s = strings.ReplaceAll(s, pair[0], " "+pair[1]+" ")
		}
	}
	fields := strings.Fields(s)
	changed := false
	for i, field := range fields {
		if word, ok := emoticonTokens[field]; ok {
			fields[i] = word
			changed = true
		}
	}
	if changed {
		return strings.Join(fields, " ")
	}
	return s
}

// foldAccents reduces accented Latin letters to their base form: NFD
// decomposition with combining marks dropped.
func foldAccents(s string) string {
	s = foldReplacer.Replace(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFD.String(s) {
		if unicode.In(r, unicode.Mn) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func expandContractions(s string) string {
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		out = append(out, expandToken(field))
	}
	return strings.Join(out, " ")
}

func expandToken(token string) string {
	lead, word, trail := trimPunct(token)
	if word == "" {
		return token
	}
	if expansion, ok := contractionExact[word]; ok {
		return lead + expansion + trail
	}
	if strings.Contains(word, "'") {
		for _, pair := range contractionPrefix {
			key := pair[0]
			if len(word) <= len(key) || !strings.HasPrefix(word, key) {
				continue
			}
			rest := word[len(key):]
			if r := rune(rest[0]); r >= 'a' && r <= 'z' {
				return lead + pair[1] + " " + rest + trail
			}
		}
	}
	return token
}

// trimPunct splits a token into leading punctuation, the core word, and
// trailing punctuation so contraction lookups see the bare word.
func trimPunct(token string) (lead, word, trail string) {
	start := 0
	for start < len(token) && isPunct(token[start]) {
		start++
	}
	end := len(token)
	for end > start && isPunct(token[end-1]) {
		end--
	}
	return token[:start], token[start:end], token[end:]
}

func isPunct(c byte) bool {
	return c == '.' || c == ',' || c == '!' || c == '?'
}

// collapseCharRuns reduces runs of three or more identical letters or digits
// to two. Punctuation runs are handled separately and left alone here.
func collapseCharRuns(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var last rune
	run := 0
	for _, r := range s {
		if r == last && isAlnum(r) {
			run++
			if run >= 3 {
				continue
			}
		} else {
			last = r
			run = 1
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

func dropShortTokens(s string) string {
	fields := strings.Fields(s)
	kept := make([]string, 0, len(fields))
	for _, field := range fields {
		if len(field) > 1 || singleCharKeep[field] {
			kept = append(kept, field)
		}
	}
	return strings.Join(kept, " ")
}
