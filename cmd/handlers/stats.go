package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pulse/internal/config"
	"pulse/internal/logger"
)

// NewStatsCmd creates the stats command for store and model inspection
func NewStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the active model and analysis store statistics",
		Long:  `Display the active model's shape, stored snapshots, and counts of persisted analyses.`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := runStats(); err != nil {
				logger.Error("Failed to get statistics", err)
				os.Exit(1)
			}
		},
	}
}

func runStats() error {
	fmt.Println("📊 Pulse Statistics")
	fmt.Println("===================")

	// The engine opens and closes its own store handle while restoring.
	engine := buildEngine(config.EngineOptions(), true)
	info := engine.ModelInfo()
	if info.Trained {
		fmt.Println("🧠 Active model: trained")
		fmt.Printf("   Trained at:  %s\n", info.TrainingDate.Format("2006-01-02 15:04:05"))
		fmt.Printf("   Vocabulary:  %d tokens\n", info.VocabularySize)
		fmt.Printf("   Dataset:     %d examples\n", info.DatasetSize)
		for _, label := range displayLabels {
			if count, ok := info.ClassCounts[label]; ok {
				fmt.Printf("   %s: %d documents\n", label, count)
			}
		}
	} else {
		fmt.Println("🧠 Active model: untrained (rule engine only)")
	}

	st, err := openStore()
	if err != nil {
		return fmt.Errorf("failed to open analysis store: %w", err)
	}
	defer func() { _ = st.Close() }()

	stats, err := st.GetStats()
	if err != nil {
		return fmt.Errorf("failed to get store statistics: %w", err)
	}

	fmt.Printf("\n💾 Store: %s\n", config.GetStoreDirectory())
	fmt.Printf("   Size:      %.2f MB\n", float64(stats.DBSize)/1024/1024)
	fmt.Printf("   Snapshots: %d\n", stats.SnapshotCount)
	fmt.Printf("   Analyses:  %d\n", stats.AnalysisCount)
	for _, label := range displayLabels {
		if count, ok := stats.LabelCounts[label]; ok {
			fmt.Printf("   %s: %d\n", label, count)
		}
	}

	if stats.SnapshotCount > 0 {
		snaps, err := st.ListSnapshots(5)
		if err != nil {
			return fmt.Errorf("failed to list snapshots: %w", err)
		}
		fmt.Println("\n🗂  Snapshots (newest first):")
		for _, s := range snaps {
			fmt.Printf("   %s  %s  vocab %d  docs %d\n",
				s.TrainingDate.Format("2006-01-02 15:04:05"), shortID(s.ID), s.VocabularySize, s.DatasetSize)
		}
	}

	limit := config.GetHistoryLimit()
	if stats.AnalysisCount > 0 && limit > 0 {
		records, err := st.RecentAnalyses(limit)
		if err != nil {
			return fmt.Errorf("failed to list analyses: %w", err)
		}
		fmt.Println("\n🕐 Recent analyses:")
		for _, r := range records {
			fmt.Printf("   %s  %-13s %+.2f  %s\n",
				r.DateAnalyzed.Format("01-02 15:04"), r.Result.Label, r.Result.Score, truncateText(r.Text, 48))
		}
	}

	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// truncateText truncates text to specified length
func truncateText(text string, maxLength int) string {
	if len(text) <= maxLength {
		return text
	}
	return text[:maxLength] + "..."
}
