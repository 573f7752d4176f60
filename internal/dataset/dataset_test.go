package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"pulse/internal/core"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	return path
}

func TestReadExamplesJSONL(t *testing.T) {
	path := writeFile(t, "train.jsonl", `{"text": "i love this", "label": "positive"}
{"text": "i hate this", "label": "NEGATIVE"}

# a comment line
{"text": "the meeting is at noon", "label": "neutral"}
not json at all
`)

	examples, err := ReadExamples(path)
	if err != nil {
		t.Fatalf("Failed to read examples: %v", err)
	}
	if len(examples) != 3 {
		t.Fatalf("Expected 3 examples, got %d", len(examples))
	}
	if examples[0].Text != "i love this" || examples[0].Label != core.LabelPositive {
		t.Errorf("Unexpected first example: %+v", examples[0])
	}
	// Labels are lowercased on the way in.
	if examples[1].Label != core.LabelNegative {
		t.Errorf("Expected lowercased label, got %q", examples[1].Label)
	}
}

func TestReadExamplesCSV(t *testing.T) {
	path := writeFile(t, "train.csv", `text,label
i love this,positive
i hate this,Negative
,positive
"quoted, with comma",neutral
`)

	examples, err := ReadExamples(path)
	if err != nil {
		t.Fatalf("Failed to read examples: %v", err)
	}
	if len(examples) != 3 {
		t.Fatalf("Expected 3 examples, got %d", len(examples))
	}
	if examples[1].Label != core.LabelNegative {
		t.Errorf("Expected lowercased label, got %q", examples[1].Label)
	}
	if examples[2].Text != "quoted, with comma" {
		t.Errorf("Expected quoted csv text to survive, got %q", examples[2].Text)
	}
}

func TestReadExamplesUnsupportedFormat(t *testing.T) {
	path := writeFile(t, "train.xml", "<dataset/>")

	if _, err := ReadExamples(path); err == nil {
		t.Fatal("Expected an error for an unsupported format")
	}
}

func TestReadExamplesMissingFile(t *testing.T) {
	if _, err := ReadExamples(filepath.Join(t.TempDir(), "absent.jsonl")); err == nil {
		t.Fatal("Expected an error for a missing file")
	}
}

func TestReadTexts(t *testing.T) {
	path := writeFile(t, "posts.txt", `i love this product

# comments are skipped
the delivery was terrible
   padded line
`)

	texts, err := ReadTexts(path)
	if err != nil {
		t.Fatalf("Failed to read texts: %v", err)
	}
	if len(texts) != 3 {
		t.Fatalf("Expected 3 texts, got %d", len(texts))
	}
	if texts[2] != "padded line" {
		t.Errorf("Expected trimmed text, got %q", texts[2])
	}
}
