package store

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"pulse/internal/core"
)

func testSnapshot() core.ModelSnapshot {
	return core.ModelSnapshot{
		ID:             uuid.NewString(),
		VocabularySize: 3,
		TrainingDate:   time.Now().UTC(),
		DatasetSize:    4,
		ClassCounts: map[string]int{
			core.LabelPositive: 2,
			core.LabelNegative: 1,
			core.LabelNeutral:  1,
		},
		Vocabulary: map[string]int{"love": 2, "hate": 1, "lamp": 1},
		TokenCounts: map[string]map[string]int{
			core.LabelPositive: {"love": 2},
			core.LabelNegative: {"hate": 1},
			core.LabelNeutral:  {"lamp": 1},
		},
		TotalTokens: map[string]int{
			core.LabelPositive: 2,
			core.LabelNegative: 1,
			core.LabelNeutral:  1,
		},
	}
}

func testRecord(text string, score float64, label string) core.AnalysisRecord {
	return core.AnalysisRecord{
		ID:   uuid.NewString(),
		Text: text,
		Result: core.SentimentResult{
			Score:      score,
			Magnitude:  score,
			Label:      label,
			Confidence: 0.5,
			Method:     core.MethodRule,
			Language:   "en",
			TokenCount: 3,
		},
		DateAnalyzed: time.Now().UTC(),
	}
}

func TestNewStore(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	if store.db == nil {
		t.Error("Store database should not be nil")
	}

	// Check that database file was created
	dbPath := filepath.Join(tmpDir, "pulse.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file should be created")
	}
}

func TestNewStore_InvalidDirectory(t *testing.T) {
	// Try to create store in a file (not directory)
	tmpDir := t.TempDir()
	invalidPath := filepath.Join(tmpDir, "file.txt")
	_ = os.WriteFile(invalidPath, []byte("test"), 0644)

	_, err := NewStore(invalidPath)
	if err == nil {
		t.Error("Expected error when creating store in invalid directory")
	}
}

func TestSaveSnapshot_LoadLatestSnapshot(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	snap := testSnapshot()
	if err := store.SaveSnapshot(snap); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	loaded, err := store.LoadLatestSnapshot()
	if err != nil {
		t.Fatalf("LoadLatestSnapshot failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected a snapshot, got nil")
	}

	if loaded.ID != snap.ID {
		t.Errorf("Expected ID %s, got %s", snap.ID, loaded.ID)
	}
	if loaded.VocabularySize != snap.VocabularySize {
		t.Errorf("Expected vocabulary size %d, got %d", snap.VocabularySize, loaded.VocabularySize)
	}
	if loaded.DatasetSize != snap.DatasetSize {
		t.Errorf("Expected dataset size %d, got %d", snap.DatasetSize, loaded.DatasetSize)
	}
	if loaded.ClassCounts[core.LabelPositive] != 2 {
		t.Errorf("Expected 2 positive documents, got %d", loaded.ClassCounts[core.LabelPositive])
	}
	if loaded.TokenCounts[core.LabelPositive]["love"] != 2 {
		t.Errorf("Expected token count 2 for love, got %d", loaded.TokenCounts[core.LabelPositive]["love"])
	}
}

func TestLoadLatestSnapshot_Empty(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	loaded, err := store.LoadLatestSnapshot()
	if err != nil {
		t.Fatalf("LoadLatestSnapshot failed: %v", err)
	}
	if loaded != nil {
		t.Error("Expected nil when no snapshot is stored")
	}
}

func TestLoadLatestSnapshot_PicksNewest(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	older := testSnapshot()
	older.TrainingDate = time.Now().UTC().Add(-time.Hour)
	if err := store.SaveSnapshot(older); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	newer := testSnapshot()
	newer.DatasetSize = 40
	if err := store.SaveSnapshot(newer); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	loaded, err := store.LoadLatestSnapshot()
	if err != nil {
		t.Fatalf("LoadLatestSnapshot failed: %v", err)
	}
	if loaded == nil || loaded.ID != newer.ID {
		t.Error("Expected the newest snapshot to be loaded")
	}
}

func TestListSnapshots(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	for i := 0; i < 5; i++ {
		snap := testSnapshot()
		snap.TrainingDate = time.Now().UTC().Add(time.Duration(i) * time.Minute)
		if err := store.SaveSnapshot(snap); err != nil {
			t.Fatalf("SaveSnapshot failed: %v", err)
		}
	}

	infos, err := store.ListSnapshots(3)
	if err != nil {
		t.Fatalf("ListSnapshots failed: %v", err)
	}
	if len(infos) != 3 {
		t.Errorf("Expected 3 snapshots, got %d", len(infos))
	}

	// Should be ordered by training date descending
	for i := 0; i < len(infos)-1; i++ {
		if infos[i].TrainingDate.Before(infos[i+1].TrainingDate) {
			t.Error("Snapshots should be ordered by training date descending")
		}
	}
	if infos[0].ClassCounts[core.LabelPositive] != 2 {
		t.Errorf("Expected decoded class counts, got %+v", infos[0].ClassCounts)
	}
}

func TestSaveAnalysis_RecentAnalyses(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	record := testRecord("i love this", 0.5, core.LabelPositive)
	record.Result.Keywords = []core.Keyword{{Token: "love", Weight: 1.1}}
	record.Result.Emotions = &core.EmotionVector{Joy: 0.4}
	if err := store.SaveAnalysis(record); err != nil {
		t.Fatalf("SaveAnalysis failed: %v", err)
	}

	records, err := store.RecentAnalyses(10)
	if err != nil {
		t.Fatalf("RecentAnalyses failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 analysis, got %d", len(records))
	}

	got := records[0]
	if got.ID != record.ID {
		t.Errorf("Expected ID %s, got %s", record.ID, got.ID)
	}
	if got.Text != record.Text {
		t.Errorf("Expected text %q, got %q", record.Text, got.Text)
	}
	if got.Result.Label != core.LabelPositive {
		t.Errorf("Expected label %s, got %s", core.LabelPositive, got.Result.Label)
	}
	if got.Result.Score != 0.5 {
		t.Errorf("Expected score 0.5, got %f", got.Result.Score)
	}
	if len(got.Result.Keywords) != 1 || got.Result.Keywords[0].Token != "love" {
		t.Errorf("Expected keywords to survive the round trip, got %+v", got.Result.Keywords)
	}
	if got.Result.Emotions == nil || got.Result.Emotions.Joy != 0.4 {
		t.Errorf("Expected emotions to survive the round trip, got %+v", got.Result.Emotions)
	}
}

func TestRecentAnalyses_Ordering(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	for i := 0; i < 5; i++ {
		record := testRecord(fmt.Sprintf("text %d", i), 0, core.LabelNeutral)
		record.DateAnalyzed = time.Now().UTC().Add(time.Duration(i) * time.Minute)
		if err := store.SaveAnalysis(record); err != nil {
			t.Fatalf("SaveAnalysis failed: %v", err)
		}
	}

	records, err := store.RecentAnalyses(3)
	if err != nil {
		t.Fatalf("RecentAnalyses failed: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("Expected 3 analyses, got %d", len(records))
	}
	for i := 0; i < len(records)-1; i++ {
		if records[i].DateAnalyzed.Before(records[i+1].DateAnalyzed) {
			t.Error("Analyses should be ordered by date descending")
		}
	}
}

func TestGetStats(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveSnapshot(testSnapshot()); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if err := store.SaveAnalysis(testRecord("i love this", 0.5, core.LabelPositive)); err != nil {
		t.Fatalf("SaveAnalysis failed: %v", err)
	}
	if err := store.SaveAnalysis(testRecord("i hate this", -0.5, core.LabelNegative)); err != nil {
		t.Fatalf("SaveAnalysis failed: %v", err)
	}

	stats, err := store.GetStats()
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}

	if stats.SnapshotCount != 1 {
		t.Errorf("Expected 1 snapshot, got %d", stats.SnapshotCount)
	}
	if stats.AnalysisCount != 2 {
		t.Errorf("Expected 2 analyses, got %d", stats.AnalysisCount)
	}
	if stats.LabelCounts[core.LabelPositive] != 1 {
		t.Errorf("Expected 1 positive analysis, got %d", stats.LabelCounts[core.LabelPositive])
	}
	if stats.DBSize <= 0 {
		t.Error("Database size should be greater than 0")
	}
}

func TestPruneAnalyses(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	old := testRecord("old text", 0, core.LabelNeutral)
	old.DateAnalyzed = time.Now().UTC().Add(-48 * time.Hour)
	if err := store.SaveAnalysis(old); err != nil {
		t.Fatalf("SaveAnalysis failed: %v", err)
	}

	recent := testRecord("recent text", 0, core.LabelNeutral)
	if err := store.SaveAnalysis(recent); err != nil {
		t.Fatalf("SaveAnalysis failed: %v", err)
	}

	if err := store.PruneAnalyses(24 * time.Hour); err != nil {
		t.Fatalf("PruneAnalyses failed: %v", err)
	}

	records, err := store.RecentAnalyses(10)
	if err != nil {
		t.Fatalf("RecentAnalyses failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 analysis after pruning, got %d", len(records))
	}
	if records[0].Text != "recent text" {
		t.Errorf("Expected the recent analysis to remain, got %q", records[0].Text)
	}
}

func TestClear(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveSnapshot(testSnapshot()); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if err := store.SaveAnalysis(testRecord("text", 0, core.LabelNeutral)); err != nil {
		t.Fatalf("SaveAnalysis failed: %v", err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	stats, err := store.GetStats()
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.SnapshotCount != 0 {
		t.Errorf("Expected 0 snapshots after clear, got %d", stats.SnapshotCount)
	}
	if stats.AnalysisCount != 0 {
		t.Errorf("Expected 0 analyses after clear, got %d", stats.AnalysisCount)
	}
}
