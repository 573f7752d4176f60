// Package dataset loads labeled training examples and plain text batches
// from disk for the CLI. File handling stays here; the analysis engine
// itself never touches the filesystem.
package dataset

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pulse/internal/core"
	"pulse/internal/logger"
)

// maxLineBytes caps a single dataset line. Social-media text is short;
// anything past this is a malformed file, not a long post.
const maxLineBytes = 1024 * 1024

// ReadExamples loads training examples from path, dispatching on the
// extension: .jsonl and .json hold one {"text": ..., "label": ...} object
// per line, .csv holds text,label rows (an optional header row is
// skipped). Malformed rows are skipped with a warning so one bad line
// cannot waste an otherwise good dataset.
func ReadExamples(path string) ([]core.TrainingExample, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".json":
		return readJSONLines(path)
	case ".csv":
		return readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q (want .jsonl, .json, or .csv)", filepath.Ext(path))
	}
}

func readJSONLines(path string) ([]core.TrainingExample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file %s: %w", path, err)
	}
	defer file.Close()

	var examples []core.TrainingExample
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var example core.TrainingExample
		if err := json.Unmarshal([]byte(line), &example); err != nil {
			logger.Warn("Skipping malformed dataset line", "file", path, "line", lineNumber)
			continue
		}
		example.Label = strings.ToLower(strings.TrimSpace(example.Label))
		examples = append(examples, example)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dataset file %s: %w", path, err)
	}
	return examples, nil
}

func readCSV(path string) ([]core.TrainingExample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv dataset %s: %w", path, err)
	}

	var examples []core.TrainingExample
	for i, row := range rows {
		if len(row) < 2 {
			logger.Warn("Skipping csv row with missing columns", "file", path, "row", i+1)
			continue
		}
		text := strings.TrimSpace(row[0])
		label := strings.ToLower(strings.TrimSpace(row[1]))
		if i == 0 && text == "text" && label == "label" {
			continue
		}
		if text == "" {
			logger.Warn("Skipping csv row with empty text", "file", path, "row", i+1)
			continue
		}
		examples = append(examples, core.TrainingExample{Text: text, Label: label})
	}
	return examples, nil
}

// ReadTexts loads one text per line for batch analysis. Blank lines and
// #-comment lines are skipped.
func ReadTexts(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file %s: %w", path, err)
	}
	defer file.Close()

	var texts []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		texts = append(texts, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input file %s: %w", path, err)
	}
	return texts, nil
}
