package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"pulse/internal/config"
	"pulse/internal/core"
	"pulse/internal/dataset"
	"pulse/internal/lexicon"
	"pulse/internal/logger"
	"pulse/internal/sentiment"
	"pulse/internal/tui"
)

// displayLabels orders labels from most negative to most positive for output.
var displayLabels = []string{
	core.LabelVeryNegative,
	core.LabelNegative,
	core.LabelNeutral,
	core.LabelPositive,
	core.LabelVeryPositive,
}

// NewAnalyzeCmd creates the analyze command for scoring texts
func NewAnalyzeCmd() *cobra.Command {
	var (
		file       string
		method     string
		language   string
		strategy   string
		threshold  float64
		brands     []string
		noEmotions bool
		jsonOut    bool
		save       bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [texts...]",
		Short: "Score the sentiment of one or more texts",
		Long: `Analyze scores texts with the configured engine and prints one verdict
per text: label, polarity score, magnitude, confidence, detected language,
and (unless disabled) an emotion breakdown, flagged keywords, and per-term
sentiment for #hashtags and requested brand keywords.

Texts come from arguments, from a file (one text per line), or from stdin
when neither is given.

Examples:
  # Score a single text
  pulse analyze "I love this product"

  # Score a file of tweets with the rule engine only
  pulse analyze --file tweets.txt --method rule

  # Track brand sentiment and emit JSON
  pulse analyze --brands "Acme" --json "Acme support was so helpful today"

  # Pipe texts in and persist the results
  cat reviews.txt | pulse analyze --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			texts, err := collectTexts(args, file)
			if err != nil {
				return err
			}
			opts, err := analyzeOptions(method, language, strategy, threshold, brands, noEmotions)
			if err != nil {
				return err
			}
			asJSON := jsonOut || config.GetOutputFormat() == "json"
			return runAnalyze(cmd.Context(), texts, opts, asJSON, save)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read texts from a file, one per line")
	cmd.Flags().StringVar(&method, "method", "", "Analysis method: rule, naive, or hybrid (default from config)")
	cmd.Flags().StringVar(&language, "language", "", "Language code (en, es, fr, de) or auto")
	cmd.Flags().StringVar(&strategy, "strategy", "", "Hybrid blend strategy: threshold-override, max-confidence, or weighted-average")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Classifier confidence needed to override the rule engine (0-1]")
	cmd.Flags().StringSliceVar(&brands, "brands", nil, "Brand keywords to track sentiment for")
	cmd.Flags().BoolVar(&noEmotions, "no-emotions", false, "Skip the emotion breakdown")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit results as JSON")
	cmd.Flags().BoolVar(&save, "save", false, "Persist results to the analysis store")

	return cmd
}

// collectTexts gathers input texts from arguments, a file, or stdin.
func collectTexts(args []string, file string) ([]string, error) {
	texts := make([]string, 0, len(args))
	for _, arg := range args {
		if strings.TrimSpace(arg) != "" {
			texts = append(texts, arg)
		}
	}

	if file != "" {
		fromFile, err := dataset.ReadTexts(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read texts file: %w", err)
		}
		texts = append(texts, fromFile...)
	}

	// Fall back to stdin only when piped, so a bare invocation errors
	// instead of blocking on a terminal.
	if len(texts) == 0 {
		if stat, err := os.Stdin.Stat(); err == nil && stat.Mode()&os.ModeCharDevice == 0 {
			fromStdin, err := readStdinTexts()
			if err != nil {
				return nil, err
			}
			texts = fromStdin
		}
	}

	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts to analyze (pass arguments, --file, or pipe stdin)")
	}
	return texts, nil
}

func readStdinTexts() ([]string, error) {
	var texts []string
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		texts = append(texts, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return texts, nil
}

// analyzeOptions starts from the configured engine options and applies any
// explicit flag overrides, rejecting invalid values up front.
func analyzeOptions(method, language, strategy string, threshold float64, brands []string, noEmotions bool) (sentiment.Options, error) {
	opts := config.EngineOptions()

	if method != "" {
		if !sentiment.ValidMethod(method) {
			return opts, fmt.Errorf("unknown method %q (want rule, naive, or hybrid)", method)
		}
		opts.Method = method
	}
	if language != "" {
		if language != "auto" && !lexicon.Supported(language) {
			return opts, fmt.Errorf("unsupported language %q (want %s, or auto)",
				language, strings.Join(lexicon.SupportedLanguages(), ", "))
		}
		opts.Language = language
	}
	if strategy != "" {
		if !sentiment.ValidStrategy(strategy) {
			return opts, fmt.Errorf("unknown strategy %q (want threshold-override, max-confidence, or weighted-average)", strategy)
		}
		opts.Strategy = strategy
	}
	if threshold != 0 {
		if threshold < 0 || threshold > 1 {
			return opts, fmt.Errorf("threshold must be in (0, 1], got %v", threshold)
		}
		opts.ConfidenceThreshold = threshold
	}
	if len(brands) > 0 {
		opts.Brands = brands
	}
	if noEmotions {
		opts.EmotionAnalysis = false
	}

	return opts, nil
}

func runAnalyze(ctx context.Context, texts []string, opts sentiment.Options, asJSON, save bool) error {
	engine := buildEngine(opts, true)

	var results []core.SentimentResult
	if len(texts) == 1 {
		result, err := engine.Analyze(texts[0])
		if err != nil {
			if core.IsUntrainedModel(err) {
				return fmt.Errorf("the classifier is untrained; run 'pulse train <dataset>' first")
			}
			return fmt.Errorf("analysis failed: %w", err)
		}
		results = []core.SentimentResult{result}
	} else {
		var err error
		results, err = engine.AnalyzeBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("batch analysis failed: %w", err)
		}
	}

	if asJSON {
		if err := printJSON(results); err != nil {
			return err
		}
	} else {
		for i, result := range results {
			printResult(texts[i], result)
		}
		printSummary(results)
	}

	if save {
		if err := saveResults(texts, results, asJSON); err != nil {
			return err
		}
	}
	return nil
}

func printJSON(results []core.SentimentResult) error {
	var payload any = results
	if len(results) == 1 {
		payload = results[0]
	}
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func printResult(text string, r core.SentimentResult) {
	label := tui.LabelStyle(r.Label).Render(fmt.Sprintf("%-13s", strings.ToUpper(r.Label)))
	fmt.Printf("\n%s %s\n", label, text)
	fmt.Printf("   score %+.3f | magnitude %.3f | confidence %.2f | method %s | lang %s | tokens %d\n",
		r.Score, r.Magnitude, r.Confidence, r.Method, r.Language, r.TokenCount)

	if r.Emotions != nil {
		e := r.Emotions
		fmt.Printf("   emotions   joy %.2f | sadness %.2f | anger %.2f | fear %.2f | surprise %.2f | disgust %.2f\n",
			e.Joy, e.Sadness, e.Anger, e.Fear, e.Surprise, e.Disgust)
	}
	if len(r.Keywords) > 0 {
		parts := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			parts = append(parts, fmt.Sprintf("%s (%+.2f)", k.Token, k.Weight))
		}
		fmt.Printf("   keywords   %s\n", strings.Join(parts, ", "))
	}
	printTerms("brands", r.Brands)
	printTerms("hashtags", r.Hashtags)
}

func printTerms(name string, terms []core.TermSentiment) {
	if len(terms) == 0 {
		return
	}
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		parts = append(parts, fmt.Sprintf("%s %+.2f (%s, x%d)", t.Term, t.Score, t.Label, t.Mentions))
	}
	fmt.Printf("   %-10s %s\n", name, strings.Join(parts, ", "))
}

func printSummary(results []core.SentimentResult) {
	if len(results) < 2 {
		return
	}
	counts := make(map[string]int)
	for _, r := range results {
		counts[r.Label]++
	}
	parts := make([]string, 0, len(counts))
	for _, label := range displayLabels {
		if counts[label] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[label], label))
		}
	}
	fmt.Printf("\n📊 Analyzed %d texts: %s\n", len(results), strings.Join(parts, ", "))
}

func saveResults(texts []string, results []core.SentimentResult, asJSON bool) error {
	st, err := openStore()
	if err != nil {
		return fmt.Errorf("failed to open analysis store: %w", err)
	}
	defer func() { _ = st.Close() }()

	for i, result := range results {
		record := core.AnalysisRecord{
			ID:           uuid.NewString(),
			Text:         texts[i],
			Result:       result,
			DateAnalyzed: time.Now().UTC(),
		}
		if err := st.SaveAnalysis(record); err != nil {
			return fmt.Errorf("failed to save analysis: %w", err)
		}
	}

	if asJSON {
		logger.Info("Saved analyses", "count", len(results))
	} else {
		fmt.Printf("💾 Saved %d analyses\n", len(results))
	}
	return nil
}
