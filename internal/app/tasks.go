package app

import (
	"context"

	"github.com/adanyl0v/tasklist/internal/config"
	"github.com/adanyl0v/tasklist/internal/services"
)

var globalTaskList services.TaskList

func MustInitTaskList() {
	cfg := config.Global()
	logger := globalLogger.With().Str("component", "tasks").Logger()

	store := services.NewTaskStore(logger, globalKeyValueStore, cfg.Store.Key)
	reporter := services.ErrorReporterFunc(func(err error) {
		logger.Warn().
			Err(err).
			Msg("tasks are only kept in memory until the next successful save")
	})
	globalTaskList = services.NewTaskList(logger, store, reporter)

	// A malformed stored value is reported and the list starts empty.
	err := globalTaskList.Initialize(context.Background())
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to load stored tasks")
		return
	}
	globalLogger.Info().
		Int("count", len(globalTaskList.Tasks())).
		Msg("initialized task list")
}

func CloseTaskList() {
	ctx, cancel := context.WithTimeout(context.Background(), config.Global().HTTP.ShutdownTimeout)
	defer cancel()

	err := globalTaskList.Close(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to flush pending saves")
		return
	}
	globalLogger.Info().Msg("flushed pending saves")
}
