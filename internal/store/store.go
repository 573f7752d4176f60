package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"pulse/internal/core"
)

// Store persists trained model snapshots and analysis history in a local
// SQLite database
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new store instance with SQLite database
func NewStore(dataDir string) (*Store, error) {
	// Ensure data directory exists
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "pulse.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:   db,
		path: dbPath,
	}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// initialize creates the necessary tables
func (s *Store) initialize() error {
	// Serialized classifier models, one row per training run
	snapshotsTable := `
	CREATE TABLE IF NOT EXISTS model_snapshots (
		id TEXT PRIMARY KEY,
		vocabulary_size INTEGER,
		dataset_size INTEGER,
		training_date DATETIME,
		class_counts TEXT,
		payload TEXT
	);`

	// Analysis history for stats and the repl
	analysesTable := `
	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		text TEXT,
		label TEXT,
		score REAL,
		magnitude REAL,
		confidence REAL,
		method TEXT,
		language TEXT,
		result TEXT,
		date_analyzed DATETIME
	);`

	tables := []string{snapshotsTable, analysesTable}
	for _, table := range tables {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSnapshot stores a serialized model snapshot
func (s *Store) SaveSnapshot(snap core.ModelSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}
	classCounts, _ := json.Marshal(snap.ClassCounts)

	query := `
	INSERT OR REPLACE INTO model_snapshots
	(id, vocabulary_size, dataset_size, training_date, class_counts, payload)
	VALUES (?, ?, ?, ?, ?, ?)`

	_, err = s.db.Exec(query,
		snap.ID,
		snap.VocabularySize,
		snap.DatasetSize,
		snap.TrainingDate,
		string(classCounts),
		string(payload),
	)

	return err
}

// LoadLatestSnapshot retrieves the most recently trained snapshot, or nil
// when none is stored
func (s *Store) LoadLatestSnapshot() (*core.ModelSnapshot, error) {
	query := `
	SELECT payload FROM model_snapshots
	ORDER BY training_date DESC LIMIT 1`

	var payload string
	err := s.db.QueryRow(query).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap core.ModelSnapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

// SnapshotInfo is a listing row for stored snapshots, payload omitted
type SnapshotInfo struct {
	ID             string
	VocabularySize int
	DatasetSize    int
	TrainingDate   time.Time
	ClassCounts    map[string]int
}

// ListSnapshots returns stored snapshots, newest first, up to limit
func (s *Store) ListSnapshots(limit int) ([]SnapshotInfo, error) {
	query := `
	SELECT id, vocabulary_size, dataset_size, training_date, class_counts
	FROM model_snapshots ORDER BY training_date DESC LIMIT ?`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var infos []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		var classCounts string
		if err := rows.Scan(&info.ID, &info.VocabularySize, &info.DatasetSize,
			&info.TrainingDate, &classCounts); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		if err := json.Unmarshal([]byte(classCounts), &info.ClassCounts); err != nil {
			info.ClassCounts = nil
		}
		infos = append(infos, info)
	}

	return infos, rows.Err()
}

// SaveAnalysis stores one analysis result for history and stats queries
func (s *Store) SaveAnalysis(record core.AnalysisRecord) error {
	result, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("failed to serialize analysis result: %w", err)
	}

	query := `
	INSERT OR REPLACE INTO analyses
	(id, text, label, score, magnitude, confidence, method, language, result, date_analyzed)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.Exec(query,
		record.ID,
		record.Text,
		record.Result.Label,
		record.Result.Score,
		record.Result.Magnitude,
		record.Result.Confidence,
		record.Result.Method,
		record.Result.Language,
		string(result),
		record.DateAnalyzed,
	)

	return err
}

// RecentAnalyses returns stored analyses, newest first, up to limit
func (s *Store) RecentAnalyses(limit int) ([]core.AnalysisRecord, error) {
	query := `
	SELECT id, text, result, date_analyzed
	FROM analyses ORDER BY date_analyzed DESC LIMIT ?`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	var records []core.AnalysisRecord
	for rows.Next() {
		var record core.AnalysisRecord
		var result string
		if err := rows.Scan(&record.ID, &record.Text, &result, &record.DateAnalyzed); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		if err := json.Unmarshal([]byte(result), &record.Result); err != nil {
			return nil, fmt.Errorf("failed to decode analysis result: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// Stats contains statistics about the store contents
type Stats struct {
	SnapshotCount int            `json:"snapshot_count"`
	AnalysisCount int            `json:"analysis_count"`
	LabelCounts   map[string]int `json:"label_counts"`
	DBSize        int64          `json:"db_size_bytes"`
	LastUpdated   time.Time      `json:"last_updated"`
}

// GetStats returns statistics about the store
func (s *Store) GetStats() (*Stats, error) {
	stats := &Stats{LabelCounts: make(map[string]int)}

	if err := s.db.QueryRow("SELECT COUNT(*) FROM model_snapshots").Scan(&stats.SnapshotCount); err != nil {
		return nil, fmt.Errorf("failed to count snapshots: %w", err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM analyses").Scan(&stats.AnalysisCount); err != nil {
		return nil, fmt.Errorf("failed to count analyses: %w", err)
	}

	rows, err := s.db.Query("SELECT label, COUNT(*) FROM analyses GROUP BY label")
	if err != nil {
		return nil, fmt.Errorf("failed to count labels: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var label string
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			return nil, fmt.Errorf("failed to scan label count: %w", err)
		}
		stats.LabelCounts[label] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Get database file size
	if fileInfo, err := os.Stat(s.path); err == nil {
		stats.DBSize = fileInfo.Size()
		stats.LastUpdated = fileInfo.ModTime()
	}

	return stats, nil
}

// PruneAnalyses deletes analysis records older than maxAge
func (s *Store) PruneAnalyses(maxAge time.Duration) error {
	cutoff := time.Now().UTC().Add(-maxAge)
	if _, err := s.db.Exec("DELETE FROM analyses WHERE date_analyzed < ?", cutoff); err != nil {
		return fmt.Errorf("failed to prune old analyses: %w", err)
	}
	return nil
}

// Clear removes all stored snapshots and analyses
func (s *Store) Clear() error {
	tables := []string{"model_snapshots", "analyses"}
	for _, table := range tables {
		query := fmt.Sprintf("DELETE FROM %s", table)
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}

	// Vacuum to reclaim space
	if _, err := s.db.Exec("VACUUM"); err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}

	return nil
}
