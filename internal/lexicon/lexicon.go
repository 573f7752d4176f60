// Package lexicon loads the fixed word tables the sentiment engine works
// with: the merged polarity lexicon, intensifier tiers, negators, emoticon
// placeholders, and the per-language emotion keyword, stop-word, and
// contraction tables. Tables live in embedded data files and are parsed once
// at package initialization; every entry is stored in normalized form
// (lowercase, accents folded), matching what the normalizer emits.
package lexicon

import (
	"bufio"
	"embed"
	"fmt"
	"strconv"
	"strings"
)

//go:embed data
var dataFS embed.FS

// FallbackLanguage is the language code used when detection finds no winner
// and when a per-language table is requested for an unknown code.
const FallbackLanguage = "en"

var supportedLanguages = []string{"en", "es", "fr", "de"}

var (
	polarityTable     map[string]float64
	intensifierTable  map[string]float64
	negatorSet        map[string]bool
	emoticonTable     map[string]string
	stopWordSets      map[string]map[string]bool
	contractionTables map[string]map[string]string
	emotionTables     map[string]map[string][]string
)

func init() {
	polarityTable = mustWeights("data/polarity.tsv")
	intensifierTable = mustWeights("data/intensifiers.tsv")
	negatorSet = mustSet("data/negators.txt")
	emoticonTable = mustPairs("data/emoticons.tsv")

	stopWordSets = make(map[string]map[string]bool, len(supportedLanguages))
	contractionTables = make(map[string]map[string]string, len(supportedLanguages))
	emotionTables = make(map[string]map[string][]string, len(supportedLanguages))
	for _, lang := range supportedLanguages {
		stopWordSets[lang] = mustSet(fmt.Sprintf("data/stopwords_%s.txt", lang))
		contractionTables[lang] = mustPairs(fmt.Sprintf("data/contractions_%s.tsv", lang))
		emotionTables[lang] = mustEmotions(fmt.Sprintf("data/emotions_%s.tsv", lang))
	}
}

// Polarity returns the merged polarity lexicon spanning all supported
// languages: word -> +1 (positive) or -1 (negative). The returned map is
// shared and must be treated as read-only; the same holds for every other
// accessor in this package.
func Polarity() map[string]float64 { return polarityTable }

// Intensifiers returns the intensifier table: word -> tier multiplier.
func Intensifiers() map[string]float64 { return intensifierTable }

// Negators returns the set of negation words across all supported languages.
func Negators() map[string]bool { return negatorSet }

// Emoticons returns the emoticon-to-placeholder-word table. Keys are
// lowercase; replacement words are themselves lexicon entries.
func Emoticons() map[string]string { return emoticonTable }

// StopWords returns the stop-word set for lang, falling back to
// FallbackLanguage for unknown codes.
func StopWords(lang string) map[string]bool {
	if set, ok := stopWordSets[lang]; ok {
		return set
	}
	return stopWordSets[FallbackLanguage]
}

// Contractions returns the contraction table for lang. Keys ending with an
// apostrophe are prefix rules (French elisions); all others match whole
// tokens. Unknown codes fall back to FallbackLanguage.
func Contractions(lang string) map[string]string {
	if table, ok := contractionTables[lang]; ok {
		return table
	}
	return contractionTables[FallbackLanguage]
}

// EmotionKeywords returns the emotion keyword lists for lang, keyed by
// emotion name. Unknown codes fall back to FallbackLanguage.
func EmotionKeywords(lang string) map[string][]string {
	if table, ok := emotionTables[lang]; ok {
		return table
	}
	return emotionTables[FallbackLanguage]
}

// Supported reports whether lang is one of the supported language codes.
func Supported(lang string) bool {
	for _, l := range supportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// SupportedLanguages returns the supported language codes in detection order.
func SupportedLanguages() []string {
	out := make([]string, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// scanLines walks the non-blank, non-comment lines of an embedded data file.
func scanLines(name string, fn func(line string) error) error {
	f, err := dataFS.Open(name)
	if err != nil {
		return fmt.Errorf("failed to open lexicon data %s: %w", name, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := fn(line); err != nil {
			return fmt.Errorf("%s line %d: %w", name, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read lexicon data %s: %w", name, err)
	}
	return nil
}

func loadWeights(name string) (map[string]float64, error) {
	table := make(map[string]float64)
	err := scanLines(name, func(line string) error {
		word, value, ok := strings.Cut(line, "\t")
		if !ok {
			return fmt.Errorf("expected word<TAB>weight, got %q", line)
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("bad weight for %q: %w", word, err)
		}
		table[strings.TrimSpace(word)] = weight
		return nil
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

func loadSet(name string) (map[string]bool, error) {
	set := make(map[string]bool)
	err := scanLines(name, func(line string) error {
		set[line] = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

func loadPairs(name string) (map[string]string, error) {
	table := make(map[string]string)
	err := scanLines(name, func(line string) error {
		key, value, ok := strings.Cut(line, "\t")
		if !ok {
			return fmt.Errorf("expected key<TAB>value, got %q", line)
		}
		table[strings.TrimSpace(key)] = strings.TrimSpace(value)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

func loadEmotions(name string) (map[string][]string, error) {
	table := make(map[string][]string)
	err := scanLines(name, func(line string) error {
		word, emotion, ok := strings.Cut(line, "\t")
		if !ok {
			return fmt.Errorf("expected word<TAB>emotion, got %q", line)
		}
		emotion = strings.TrimSpace(emotion)
		table[emotion] = append(table[emotion], strings.TrimSpace(word))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

func mustWeights(name string) map[string]float64 {
	table, err := loadWeights(name)
	if err != nil {
		panic(err)
	}
	return table
}

func mustSet(name string) map[string]bool {
	set, err := loadSet(name)
	if err != nil {
		panic(err)
	}
	return set
}

func mustPairs(name string) map[string]string {
	table, err := loadPairs(name)
	if err != nil {
		panic(err)
	}
	return table
}

func mustEmotions(name string) map[string][]string {
	table, err := loadEmotions(name)
	if err != nil {
		panic(err)
	}
	return table
}
