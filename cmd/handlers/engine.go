package handlers

import (
	"pulse/internal/config"
	"pulse/internal/logger"
	"pulse/internal/sentiment"
	"pulse/internal/store"
)

// buildEngine assembles an analysis engine from the given options. When
// restore is true the most recent model snapshot is loaded from the store,
// so the classifier starts from the last trained state. Store problems
// degrade to an untrained engine rather than failing the command; rule and
// hybrid analysis work without a model.
func buildEngine(opts sentiment.Options, restore bool) *sentiment.Engine {
	engine := sentiment.New(opts)
	engine.SetBatchWorkers(config.GetBatchWorkers())

	if !restore {
		return engine
	}

	st, err := openStore()
	if err != nil {
		logger.Warn("Analysis store unavailable, continuing without a saved model", "error", err)
		return engine
	}
	defer func() { _ = st.Close() }()

	if err := restoreModel(engine, st); err != nil {
		logger.Warn("Could not restore saved model, continuing untrained", "error", err)
	}
	return engine
}

// openStore opens the analysis store rooted at the configured data directory.
func openStore() (*store.Store, error) {
	return store.NewStore(config.GetStoreDirectory())
}

// restoreModel loads the most recent snapshot into engine, if one exists.
func restoreModel(engine *sentiment.Engine, st *store.Store) error {
	snap, err := st.LoadLatestSnapshot()
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}
	if err := engine.Restore(*snap); err != nil {
		return err
	}
	logger.Debug("Restored model snapshot", "id", snap.ID, "dataset_size", snap.DatasetSize)
	return nil
}
