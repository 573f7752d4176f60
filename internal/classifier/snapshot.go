package classifier

import (
	"fmt"

	"github.com/google/uuid"

	"pulse/internal/core"
)

// Snapshot exports the trained model in serialized form so it can be
// persisted and restored later without retraining. Maps are deep-copied;
// the snapshot never aliases live model state.
func (c *Classifier) Snapshot() (core.ModelSnapshot, error) {
	m := c.current.Load()
	if m == nil {
		return core.ModelSnapshot{}, core.NewUntrainedModelError(componentName)
	}
	return core.ModelSnapshot{
		ID:             uuid.NewString(),
		VocabularySize: len(m.vocabulary),
		TrainingDate:   m.trainedAt,
		DatasetSize:    m.totalDocs,
		ClassCounts:    copyCounts(m.classDocs),
		Vocabulary:     copyCounts(m.vocabulary),
		TokenCounts:    copyTables(m.tokenCounts),
		TotalTokens:    copyCounts(m.totalTokens),
	}, nil
}

// Restore replaces the current model with a previously exported snapshot,
// validating shape before the swap so a bad snapshot cannot leave the
// classifier half-loaded.
func (c *Classifier) Restore(snap core.ModelSnapshot) error {
	totalDocs := 0
	for label, count := range snap.ClassCounts {
		if !core.ValidTrainingLabel(label) {
			return core.NewTrainingDataError(componentName, fmt.Sprintf("snapshot has unknown class %q", label))
		}
		if count < 0 {
			return core.NewTrainingDataError(componentName, fmt.Sprintf("snapshot has negative count for class %q", label))
		}
		totalDocs += count
	}
	if totalDocs == 0 {
		return core.NewTrainingDataError(componentName, "snapshot holds no training documents")
	}

	m := &model{
		classDocs:   copyCounts(snap.ClassCounts),
		tokenCounts: copyTables(snap.TokenCounts),
		totalTokens: copyCounts(snap.TotalTokens),
		vocabulary:  copyCounts(snap.Vocabulary),
		totalDocs:   totalDocs,
		trainedAt:   snap.TrainingDate,
	}
	for _, label := range core.TrainingLabels {
		if m.tokenCounts[label] == nil {
			m.tokenCounts[label] = make(map[string]int)
		}
	}
	c.current.Store(m)
	return nil
}
