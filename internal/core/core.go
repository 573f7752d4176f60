package core

import "time"

// Sentiment labels, ordered from most negative to most positive.
const (
	LabelVeryNegative = "very_negative"
	LabelNegative     = "negative"
	LabelNeutral      = "neutral"
	LabelPositive     = "positive"
	LabelVeryPositive = "very_positive"
)

// Method tags recording which path produced a result's label.
const (
	MethodRule   = "rule"
	MethodNaive  = "naive"
	MethodHybrid = "hybrid"
)

// TrainingLabels is the fixed class order the statistical classifier uses for
// iteration and arg-max tie-breaking.
var TrainingLabels = []string{LabelPositive, LabelNegative, LabelNeutral}

// ValidTrainingLabel reports whether label is one of the three trainable classes.
func ValidTrainingLabel(label string) bool {
	for _, l := range TrainingLabels {
		if l == label {
			return true
		}
	}
	return false
}

// EmotionVector holds six independent emotion intensities in [0,1].
// The values are not a probability distribution and need not sum to 1.
type EmotionVector struct {
	Joy      float64 `json:"joy"`      // Delight, enthusiasm
	Sadness  float64 `json:"sadness"`  // Grief, disappointment
	Anger    float64 `json:"anger"`    // Irritation, outrage
	Fear     float64 `json:"fear"`     // Worry, anxiety
	Surprise float64 `json:"surprise"` // Astonishment, unexpectedness
	Disgust  float64 `json:"disgust"`  // Revulsion, distaste
}

// Keyword is a lexicon-flagged token with its context-adjusted contribution.
type Keyword struct {
	Token  string  `json:"token"`  // Token as it appeared in the normalized text
	Weight float64 `json:"weight"` // Adjusted polarity contribution (signed)
}

// TermSentiment carries the aggregated local sentiment around one tracked
// term: a brand keyword, an @mention, or a #hashtag.
type TermSentiment struct {
	Term     string  `json:"term"`     // The tracked term, normalized
	Mentions int     `json:"mentions"` // Occurrences in the analyzed text
	Score    float64 `json:"score"`    // Average window score in [-1,1]
	Label    string  `json:"label"`    // Label derived from Score
}

// SentimentResult is the engine's verdict for one text.
type SentimentResult struct {
	Score      float64         `json:"score"`              // Polarity in [-1,1]
	Magnitude  float64         `json:"magnitude"`          // Emotional strength, >= 0
	Label      string          `json:"label"`              // Five-step label; on the rule path a pure step function of Score
	Confidence float64         `json:"confidence"`         // Engine's trust in the label, [0,1]
	Method     string          `json:"method"`             // rule, naive, or hybrid
	Language   string          `json:"language"`           // Detected language code
	TokenCount int             `json:"token_count"`        // Tokens after normalization
	Emotions   *EmotionVector  `json:"emotions,omitempty"` // Rule-engine sourced, regardless of Method
	Keywords   []Keyword       `json:"keywords,omitempty"` // Rule-engine sourced, regardless of Method
	Brands     []TermSentiment `json:"brands,omitempty"`   // Sentiment around requested brand keywords
	Hashtags   []TermSentiment `json:"hashtags,omitempty"` // Sentiment around #hashtags in the text
}

// PredictionResult is one statistical-classifier verdict. Created per call,
// never persisted.
type PredictionResult struct {
	Label         string             `json:"label"`         // Arg-max class
	Confidence    float64            `json:"confidence"`    // Winning class probability
	Probabilities map[string]float64 `json:"probabilities"` // Per-class probabilities, summing to 1
}

// TrainingExample is one labeled text consumed during training. Examples are
// aggregated into counts and then discarded.
type TrainingExample struct {
	Text  string `json:"text"`  // Raw text; normalized during training
	Label string `json:"label"` // positive, negative, or neutral
}

// ModelSnapshot is the serialized form of a trained classifier, written and
// read so a model can be reloaded without retraining.
type ModelSnapshot struct {
	ID             string                    `json:"id"`              // Snapshot identifier
	VocabularySize int                       `json:"vocabulary_size"` // Distinct tokens observed
	TrainingDate   time.Time                 `json:"training_date"`   // When training completed
	DatasetSize    int                       `json:"dataset_size"`    // Usable examples aggregated
	ClassCounts    map[string]int            `json:"class_counts"`    // Documents per class
	Vocabulary     map[string]int            `json:"vocabulary"`      // Global token frequencies
	TokenCounts    map[string]map[string]int `json:"token_counts"`    // Per-class token frequencies
	TotalTokens    map[string]int            `json:"total_tokens"`    // Token totals per class
}

// AnalysisRecord is one stored analysis, kept for history/stats queries.
type AnalysisRecord struct {
	ID           string          `json:"id"`            // Unique identifier for the record
	Text         string          `json:"text"`          // The analyzed text
	Result       SentimentResult `json:"result"`        // Engine verdict
	DateAnalyzed time.Time       `json:"date_analyzed"` // Timestamp of the analysis
}
