package app

import (
	"fmt"

	"github.com/adanyl0v/tasklist/internal/config"
	"github.com/adanyl0v/tasklist/internal/kv"
)

var globalKeyValueStore kv.Store

func MustOpenKeyValueStore() {
	cfg := config.Global().Store

	switch cfg.Driver {
	case config.StoreDriverMemory:
		globalKeyValueStore = kv.NewMemoryStore()
	case config.StoreDriverFile:
		store, err := kv.NewFileStore(cfg.FileDir)
		if err != nil {
			globalLogger.Error().
				Err(err).
				Str("dir", cfg.FileDir).
				Msg("failed to open file store")
			panic(err)
		}
		globalKeyValueStore = store
	case config.StoreDriverPostgres:
		globalKeyValueStore = mustConnectPostgres()
	case config.StoreDriverMongo:
		globalKeyValueStore = mustConnectMongo()
	default:
		globalLogger.Error().
			Str("driver", cfg.Driver).
			Msg("unknown store driver")
		panic(fmt.Errorf("unknown store driver: %s", cfg.Driver))
	}

	globalLogger.Info().
		Str("driver", cfg.Driver).
		Str("key", cfg.Key).
		Msg("opened key-value store")
}

func CloseKeyValueStore() {
	switch config.Global().Store.Driver {
	case config.StoreDriverPostgres:
		disconnectPostgres()
	case config.StoreDriverMongo:
		disconnectMongo()
	}
}
